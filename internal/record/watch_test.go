package record

import (
	"context"
	"strings"
	"testing"

	"github.com/park285/CheeseRace-KakaoTalk-bot/internal/cheeseapi"
)

func newTestWatcher(t *testing.T, src *fakeSource, roster []Player) (*Watcher, *Store, *fakeSink) {
	t.Helper()
	store, _ := newTestStore(t)
	sink := newFakeSink()
	w := NewWatcher(src, store, sink, testCatalog(t), WatcherConfig{
		Room:   "roomA",
		Roster: roster,
	})
	return w, store, sink
}

func versusMatch(id string, ms float64, winner string) *cheeseapi.Match {
	return &cheeseapi.Match{
		ID:     id,
		Type:   "ranked",
		TimeMS: fptr(ms),
		Winner: sptr(winner),
		Players: []cheeseapi.Participant{
			{UserID: me, Name: "A"},
			{UserID: other, Name: "B"},
		},
		RatingChanges: []cheeseapi.RatingChange{{UserID: me, Rating: iptr(1500)}},
	}
}

func TestWatcherColdStartIsSilent(t *testing.T) {
	src := &fakeSource{newest: map[string]*cheeseapi.Match{me: versusMatch("m1", 650000, me)}}
	w, store, sink := newTestWatcher(t, src, []Player{{Name: "A", UserID: me}})
	ctx := context.Background()

	w.Tick(ctx)

	if len(sink.sent) != 0 {
		t.Fatalf("cold start must not announce: %v", sink.sent)
	}
	st, _ := store.Load(ctx)
	if st.LastMatch["A"] != "m1" {
		t.Fatalf("watermark not recorded: %+v", st.LastMatch)
	}
}

func TestWatcherAnnouncesOncePerMatch(t *testing.T) {
	src := &fakeSource{newest: map[string]*cheeseapi.Match{me: versusMatch("m1", 650000, me)}}
	w, store, sink := newTestWatcher(t, src, []Player{{Name: "A", UserID: me}})
	ctx := context.Background()

	w.Tick(ctx) // cold start
	src.newest[me] = versusMatch("m2", 650000, me)
	w.Tick(ctx) // announce m2
	w.Tick(ctx) // replay: unchanged id, silent

	if len(sink.sent) != 1 {
		t.Fatalf("expected exactly one announcement, got %d: %v", len(sink.sent), sink.sent)
	}
	msg := sink.sent[0]
	if !strings.Contains(msg, "B") || !strings.Contains(msg, "10:50.000") || !strings.Contains(msg, "1500") {
		t.Fatalf("win message should name opponent, time and rating: %q", msg)
	}
	st, _ := store.Load(ctx)
	if st.LastMatch["A"] != "m2" {
		t.Fatalf("watermark not advanced: %+v", st.LastMatch)
	}
}

func TestWatcherLossAndForfeitRendering(t *testing.T) {
	src := &fakeSource{newest: map[string]*cheeseapi.Match{me: versusMatch("m1", 650000, other)}}
	w, _, sink := newTestWatcher(t, src, []Player{{Name: "A", UserID: me}})
	ctx := context.Background()

	w.Tick(ctx) // cold start

	lost := versusMatch("m2", 640000, other)
	src.newest[me] = lost
	w.Tick(ctx)

	forfeit := versusMatch("m3", 0, other)
	forfeit.TimeMS = nil
	forfeit.Forfeited = true
	src.newest[me] = forfeit
	w.Tick(ctx)

	if len(sink.sent) != 2 {
		t.Fatalf("expected loss + forfeit announcements, got %v", sink.sent)
	}
	if !strings.Contains(sink.sent[0], "B") {
		t.Fatalf("loss message should name the opponent: %q", sink.sent[0])
	}
	if !strings.Contains(sink.sent[1], "기권") {
		t.Fatalf("forfeit message should use the DNF phrase: %q", sink.sent[1])
	}
}

func TestWatcherUnknownIdentityFallsBackToGeneric(t *testing.T) {
	src := &fakeSource{newest: map[string]*cheeseapi.Match{"C": versusMatch("m1", 650000, me)}}
	w, _, sink := newTestWatcher(t, src, []Player{{Name: "C"}}) // identity never resolved
	ctx := context.Background()

	w.Tick(ctx) // cold start
	src.newest["C"] = versusMatch("m2", 655000, me)
	w.Tick(ctx)

	if len(sink.sent) != 1 {
		t.Fatalf("expected one generic announcement, got %v", sink.sent)
	}
	msg := sink.sent[0]
	if !strings.Contains(msg, "C") || !strings.Contains(msg, "새 매치") {
		t.Fatalf("generic message expected: %q", msg)
	}
	if strings.Contains(msg, "승리") || strings.Contains(msg, "패배") {
		t.Fatalf("generic message must not attribute win/loss: %q", msg)
	}
}

func TestWatcherOpponentPlaceholder(t *testing.T) {
	solo := &cheeseapi.Match{
		ID:      "m2",
		Type:    "casual",
		TimeMS:  fptr(600000),
		Winner:  sptr(me),
		Players: []cheeseapi.Participant{{UserID: me, Name: "A"}},
	}
	src := &fakeSource{newest: map[string]*cheeseapi.Match{me: versusMatch("m1", 650000, me)}}
	store, _ := newTestStore(t)
	sink := newFakeSink()
	w := NewWatcher(src, store, sink, testCatalog(t), WatcherConfig{
		Room:         "roomA",
		Roster:       []Player{{Name: "A", UserID: me}},
		UnknownLabel: "미상",
	})
	ctx := context.Background()

	w.Tick(ctx) // cold start
	src.newest[me] = solo
	w.Tick(ctx)

	if len(sink.sent) != 1 || !strings.Contains(sink.sent[0], "미상") {
		t.Fatalf("expected placeholder opponent label: %v", sink.sent)
	}
}
