package record

import (
	"strings"

	"github.com/park285/CheeseRace-KakaoTalk-bot/internal/cheeseapi"
)

// CountableWin reports whether a match is a legitimate completion that may
// feed the given player's best time: a finite positive completion time, not
// forfeited, and won by exactly that identity. A per-user match listing also
// contains matches the user merely lost or abandoned, so anything short of a
// clean win is rejected.
func CountableWin(m *cheeseapi.Match, identity string) bool {
	if m == nil || strings.TrimSpace(identity) == "" {
		return false
	}
	if _, ok := m.CompletionMS(); !ok {
		return false
	}
	if m.Forfeited {
		return false
	}
	winner, ok := m.WinnerID()
	if !ok {
		return false
	}
	return winner == strings.TrimSpace(identity)
}
