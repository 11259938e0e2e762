package record

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/park285/CheeseRace-KakaoTalk-bot/internal/cheeseapi"
	"github.com/park285/CheeseRace-KakaoTalk-bot/internal/msgcat"
)

const other = "22222222-2222-2222-2222-222222222222"

type fakeSink struct {
	sent   []string
	msgs   map[string]string
	lost   map[string]bool
	nextID int
}

func newFakeSink() *fakeSink {
	return &fakeSink{msgs: make(map[string]string), lost: make(map[string]bool)}
}

func (f *fakeSink) SendMessage(_ context.Context, _ string, text string) (string, error) {
	f.nextID++
	id := fmt.Sprintf("msg-%d", f.nextID)
	f.msgs[id] = text
	f.sent = append(f.sent, text)
	return id, nil
}

func (f *fakeSink) EditMessage(_ context.Context, _ string, messageID, text string) error {
	if f.lost[messageID] {
		return fmt.Errorf("message %s gone", messageID)
	}
	f.msgs[messageID] = text
	return nil
}

func (f *fakeSink) GetMessage(_ context.Context, _ string, messageID string) (string, bool, error) {
	if f.lost[messageID] {
		return "", false, nil
	}
	text, ok := f.msgs[messageID]
	return text, ok, nil
}

func testCatalog(t *testing.T) *msgcat.Catalog {
	t.Helper()
	c, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat.New: %v", err)
	}
	return c
}

func newTestEngine(t *testing.T, src *fakeSource) (*Engine, *Store, *fakeSink) {
	t.Helper()
	store, _ := newTestStore(t)
	sink := newFakeSink()
	engine := NewEngine(NewResolver(src, 100, 10), store, sink, testCatalog(t), EngineConfig{
		Room:       "roomA",
		Roster:     []Player{{Name: "A", UserID: me}, {Name: "B", UserID: other}},
		Categories: []Category{CategoryRanked},
		BoardLimit: 8000,
	})
	return engine, store, sink
}

func rankedWin(id string, ms float64, winner string) cheeseapi.Match {
	return cheeseapi.Match{ID: id, Type: "ranked", TimeMS: fptr(ms), Winner: sptr(winner)}
}

func TestFirstObservationIsSilent(t *testing.T) {
	src := &fakeSource{fastest: map[string][]cheeseapi.Match{
		me + "|ranked": {rankedWin("m1", 620000, me)},
	}}
	engine, store, sink := newTestEngine(t, src)
	ctx := context.Background()

	engine.Tick(ctx)

	st, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ms, ok := st.Best(CategoryRanked, "A"); !ok || ms != 620000 {
		t.Fatalf("expected stored first observation 620000, got %d %v", ms, ok)
	}
	// only the board posts; the cold-start record itself stays quiet
	if len(sink.sent) != 1 {
		t.Fatalf("expected exactly the board message, got %d: %v", len(sink.sent), sink.sent)
	}
	if !strings.Contains(sink.sent[0], "A") || !strings.Contains(sink.sent[0], "10:20.000") {
		t.Fatalf("board should list A under ranked: %q", sink.sent[0])
	}
}

func TestImprovementAnnouncesAndTakesFirstPlace(t *testing.T) {
	src := &fakeSource{fastest: map[string][]cheeseapi.Match{
		me + "|ranked":    {rankedWin("m2", 580000, me)},
		other + "|ranked": {rankedWin("m3", 600000, other)},
	}}
	engine, store, sink := newTestEngine(t, src)
	ctx := context.Background()

	seed := NewState()
	seed.SetBest(CategoryRanked, "B", 600000)
	seed.SetBest(CategoryRanked, "A", 620000)
	if err := store.Save(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	engine.Tick(ctx)

	st, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ms, _ := st.Best(CategoryRanked, "A"); ms != 580000 {
		t.Fatalf("expected 580000 after improvement, got %d", ms)
	}
	// placement change + improvement + board
	if len(sink.sent) != 3 {
		t.Fatalf("expected 3 messages, got %d: %v", len(sink.sent), sink.sent)
	}
	placement, improvement := sink.sent[0], sink.sent[1]
	if !strings.Contains(placement, "A") || !strings.Contains(placement, "1위") {
		t.Fatalf("placement message should name A taking #1: %q", placement)
	}
	if !strings.Contains(improvement, "10:20.000") || !strings.Contains(improvement, "9:40.000") {
		t.Fatalf("improvement message should carry old and new times: %q", improvement)
	}
	if top := st.TopRanks[CategoryRanked]; len(top) == 0 || top[0] != "A" {
		t.Fatalf("cached top ranks should lead with A: %v", top)
	}
}

func TestWorseResolutionNeverRegresses(t *testing.T) {
	src := &fakeSource{fastest: map[string][]cheeseapi.Match{
		me + "|ranked": {rankedWin("m4", 700000, me)},
	}}
	engine, store, sink := newTestEngine(t, src)
	ctx := context.Background()

	seed := NewState()
	seed.SetBest(CategoryRanked, "A", 580000)
	if err := store.Save(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	engine.Tick(ctx)

	st, _ := store.Load(ctx)
	if ms, _ := st.Best(CategoryRanked, "A"); ms != 580000 {
		t.Fatalf("best regressed to %d", ms)
	}
	if len(sink.sent) != 1 { // board only
		t.Fatalf("no announcements expected, got %v", sink.sent)
	}
}

func TestBoardEditedInPlace(t *testing.T) {
	src := &fakeSource{}
	engine, store, sink := newTestEngine(t, src)
	ctx := context.Background()

	seed := NewState()
	seed.BoardMsgID = "msg-old"
	if err := store.Save(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}
	sink.msgs["msg-old"] = "stale board"

	engine.Tick(ctx)

	if len(sink.sent) != 0 {
		t.Fatalf("expected edit, not send: %v", sink.sent)
	}
	if !strings.Contains(sink.msgs["msg-old"], "리더보드") {
		t.Fatalf("board not edited in place: %q", sink.msgs["msg-old"])
	}
}

func TestBoardRecreatedWhenMessageGone(t *testing.T) {
	src := &fakeSource{}
	engine, store, sink := newTestEngine(t, src)
	ctx := context.Background()

	seed := NewState()
	seed.BoardMsgID = "msg-old"
	if err := store.Save(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}
	sink.lost["msg-old"] = true

	engine.Tick(ctx)

	if len(sink.sent) != 1 {
		t.Fatalf("expected a fresh board post, got %v", sink.sent)
	}
	st, _ := store.Load(ctx)
	if st.BoardMsgID == "" || st.BoardMsgID == "msg-old" {
		t.Fatalf("new board handle not persisted: %q", st.BoardMsgID)
	}
}
