package cheeseapi

import (
	"math"
	"testing"
)

func fptr(v float64) *float64 { return &v }
func sptr(s string) *string   { return &s }
func iptr(n int) *int         { return &n }

func TestCompletionMS(t *testing.T) {
	cases := []struct {
		name string
		time *float64
		want int64
		ok   bool
	}{
		{"absent", nil, 0, false},
		{"zero", fptr(0), 0, false},
		{"negative", fptr(-100), 0, false},
		{"nan", fptr(math.NaN()), 0, false},
		{"inf", fptr(math.Inf(1)), 0, false},
		{"neg inf", fptr(math.Inf(-1)), 0, false},
		{"valid", fptr(620000), 620000, true},
		{"fractional", fptr(580000.9), 580000, true},
	}
	for _, c := range cases {
		m := &Match{ID: "m", TimeMS: c.time}
		got, ok := m.CompletionMS()
		if ok != c.ok || got != c.want {
			t.Fatalf("%s: got (%d, %v), want (%d, %v)", c.name, got, ok, c.want, c.ok)
		}
	}
	var nilMatch *Match
	if _, ok := nilMatch.CompletionMS(); ok {
		t.Fatalf("nil match should have no time")
	}
}

func TestWinnerID(t *testing.T) {
	if _, ok := (&Match{}).WinnerID(); ok {
		t.Fatalf("absent winner")
	}
	if _, ok := (&Match{Winner: sptr("  ")}).WinnerID(); ok {
		t.Fatalf("blank winner")
	}
	if w, ok := (&Match{Winner: sptr("u1")}).WinnerID(); !ok || w != "u1" {
		t.Fatalf("got %q %v", w, ok)
	}
}

func TestOpponentsExcludesSelf(t *testing.T) {
	m := &Match{Players: []Participant{
		{UserID: "u1", Name: "A"},
		{UserID: "u2", Name: "B"},
		{UserID: "u3", Name: "C"},
	}}
	ops := m.Opponents("u1")
	if len(ops) != 2 || ops[0].Name != "B" || ops[1].Name != "C" {
		t.Fatalf("opponents: %+v", ops)
	}
	if got := m.Opponents("unknown"); len(got) != 3 {
		t.Fatalf("unknown identity should keep everyone: %+v", got)
	}
}

func TestRatingForPrefersRatingChanges(t *testing.T) {
	m := &Match{
		Players:       []Participant{{UserID: "u1", Rating: iptr(1480)}},
		RatingChanges: []RatingChange{{UserID: "u1", Rating: iptr(1500)}},
	}
	if r, ok := m.RatingFor("u1"); !ok || r != 1500 {
		t.Fatalf("expected rating-change value 1500, got %d %v", r, ok)
	}

	fallback := &Match{Players: []Participant{{UserID: "u1", Rating: iptr(1480)}}}
	if r, ok := fallback.RatingFor("u1"); !ok || r != 1480 {
		t.Fatalf("expected participant fallback 1480, got %d %v", r, ok)
	}

	if _, ok := m.RatingFor(""); ok {
		t.Fatalf("empty identity should not resolve a rating")
	}
	if _, ok := m.RatingFor("u9"); ok {
		t.Fatalf("unknown identity should not resolve a rating")
	}
}
