package cheeseapi

import (
	"math"
	"strings"
)

// Profile is the resolved identity for a roster display name.
type Profile struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// Participant is one player inside a match record.
type Participant struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Rating *int   `json:"rating,omitempty"`
}

// RatingChange is a post-match rating entry keyed by user.
type RatingChange struct {
	UserID string `json:"userId"`
	Rating *int   `json:"rating,omitempty"`
}

// Match mirrors the cheese-race API match payload. Optional fields stay
// pointers so absent and zero never collapse into each other.
type Match struct {
	ID            string         `json:"id"`
	Type          string         `json:"type"`
	TimeMS        *float64       `json:"time,omitempty"`
	Forfeited     bool           `json:"forfeited"`
	Winner        *string        `json:"winner,omitempty"`
	Players       []Participant  `json:"players"`
	RatingChanges []RatingChange `json:"ratingChanges,omitempty"`
}

// CompletionMS returns the completion time in milliseconds when it is
// present, finite and strictly positive.
func (m *Match) CompletionMS() (int64, bool) {
	if m == nil || m.TimeMS == nil {
		return 0, false
	}
	v := *m.TimeMS
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return int64(v), true
}

// WinnerID returns the winner identity token when the match has one.
func (m *Match) WinnerID() (string, bool) {
	if m == nil || m.Winner == nil {
		return "", false
	}
	w := strings.TrimSpace(*m.Winner)
	if w == "" {
		return "", false
	}
	return w, true
}

// Opponents returns the participants other than the given identity.
func (m *Match) Opponents(identity string) []Participant {
	if m == nil {
		return nil
	}
	var out []Participant
	for _, p := range m.Players {
		if strings.TrimSpace(p.UserID) == strings.TrimSpace(identity) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// RatingFor looks a user's post-match rating up, preferring the rating-change
// list and falling back to the participant entry.
func (m *Match) RatingFor(identity string) (int, bool) {
	if m == nil || strings.TrimSpace(identity) == "" {
		return 0, false
	}
	for _, rc := range m.RatingChanges {
		if rc.UserID == identity && rc.Rating != nil {
			return *rc.Rating, true
		}
	}
	for _, p := range m.Players {
		if p.UserID == identity && p.Rating != nil {
			return *p.Rating, true
		}
	}
	return 0, false
}
