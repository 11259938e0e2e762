package record

import (
	"sort"
	"strings"
)

// Category is one tracked match mode. Each category carries its own
// independent best-time ranking.
type Category string

const (
	CategoryCasual  Category = "casual"
	CategoryRanked  Category = "ranked"
	CategoryPrivate Category = "private"
)

// FastestSortable reports whether the API supports a trustworthy
// server-side fastest-first ordering for this category. Only ranked history
// is indexed that way; the rest must be scanned locally.
func (c Category) FastestSortable() bool { return c == CategoryRanked }

// Label returns the Korean label used in announcements and on the board.
func (c Category) Label() string {
	switch c {
	case CategoryCasual:
		return "일반"
	case CategoryRanked:
		return "랭크"
	case CategoryPrivate:
		return "프라이빗"
	default:
		return string(c)
	}
}

// ParseCategories parses a comma-separated category list, skipping blanks.
func ParseCategories(csv string) []Category {
	var out []Category
	for _, p := range strings.Split(csv, ",") {
		s := strings.ToLower(strings.TrimSpace(p))
		if s == "" {
			continue
		}
		out = append(out, Category(s))
	}
	return out
}

// Player is one roster entry. UserID stays empty when identity resolution
// failed at startup; such players get the reduced announcement path.
type Player struct {
	Name   string
	UserID string
}

// Key returns the API user key: the identity token when known, otherwise
// the display name.
func (p Player) Key() string {
	if strings.TrimSpace(p.UserID) != "" {
		return p.UserID
	}
	return p.Name
}

// BestEntry is one player's recorded best for a category. Entries keep
// their slice position from first discovery so equal times tie-break by
// discovery order across restarts.
type BestEntry struct {
	Player string `json:"player"`
	TimeMS int64  `json:"timeMs"`
}

// State is the single persisted blob shared by both tick loops.
type State struct {
	Bests      map[Category][]BestEntry `json:"bests"`
	LastMatch  map[string]string        `json:"lastMatch"`
	TopRanks   map[Category][]string    `json:"topRanks"`
	BoardMsgID string                   `json:"boardMsgId,omitempty"`
}

func NewState() *State {
	return &State{
		Bests:     make(map[Category][]BestEntry),
		LastMatch: make(map[string]string),
		TopRanks:  make(map[Category][]string),
	}
}

// normalize backfills nil maps after JSON decoding of older blobs.
func (s *State) normalize() *State {
	if s.Bests == nil {
		s.Bests = make(map[Category][]BestEntry)
	}
	if s.LastMatch == nil {
		s.LastMatch = make(map[string]string)
	}
	if s.TopRanks == nil {
		s.TopRanks = make(map[Category][]string)
	}
	return s
}

// Best returns the stored best time for a player in a category.
func (s *State) Best(cat Category, player string) (int64, bool) {
	for _, e := range s.Bests[cat] {
		if e.Player == player {
			return e.TimeMS, true
		}
	}
	return 0, false
}

// SetBest records a best time, updating in place so discovery order is kept.
func (s *State) SetBest(cat Category, player string, ms int64) {
	list := s.Bests[cat]
	for i := range list {
		if list[i].Player == player {
			list[i].TimeMS = ms
			return
		}
	}
	s.Bests[cat] = append(list, BestEntry{Player: player, TimeMS: ms})
}

// Ranking returns the category entries sorted ascending by time. The sort is
// stable so equal times keep discovery order.
func (s *State) Ranking(cat Category) []BestEntry {
	src := s.Bests[cat]
	out := make([]BestEntry, len(src))
	copy(out, src)
	sort.SliceStable(out, func(i, j int) bool { return out[i].TimeMS < out[j].TimeMS })
	return out
}

// RankOf returns a player's 1-based placement in a category, or 0 when the
// player has no entry.
func (s *State) RankOf(cat Category, player string) int {
	for i, e := range s.Ranking(cat) {
		if e.Player == player {
			return i + 1
		}
	}
	return 0
}

// TopN returns the names of the n fastest players in a category.
func (s *State) TopN(cat Category, n int) []string {
	ranking := s.Ranking(cat)
	if len(ranking) > n {
		ranking = ranking[:n]
	}
	out := make([]string, 0, len(ranking))
	for _, e := range ranking {
		out = append(out, e.Player)
	}
	return out
}
