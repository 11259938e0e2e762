package record

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/park285/CheeseRace-KakaoTalk-bot/internal/cheeseapi"
	"github.com/park285/CheeseRace-KakaoTalk-bot/internal/msgcat"
	"github.com/park285/CheeseRace-KakaoTalk-bot/internal/obslog"
)

const forfeitFallback = "기권/미완주"

// Watcher announces every finished match as it appears, PB or not. It runs
// on a much shorter period than the reconciliation engine; the two may both
// speak about the same match through different messages, which is fine.
type Watcher struct {
	src      MatchSource
	store    *Store
	sink     Sink
	messages *msgcat.Catalog

	room         string
	roster       []Player
	unknownLabel string

	repo *Repository
}

type WatcherConfig struct {
	Room         string
	Roster       []Player
	UnknownLabel string
}

func NewWatcher(src MatchSource, store *Store, sink Sink, messages *msgcat.Catalog, cfg WatcherConfig) *Watcher {
	return &Watcher{
		src:          src,
		store:        store,
		sink:         sink,
		messages:     messages,
		room:         cfg.Room,
		roster:       cfg.Roster,
		unknownLabel: strings.TrimSpace(cfg.UnknownLabel),
	}
}

// AttachRepository wires an optional database archive for announced results.
func (w *Watcher) AttachRepository(r *Repository) {
	if w != nil {
		w.repo = r
	}
}

// Tick checks each player's newest match against the stored watermark. The
// watermark advances (and persists) before the announcement goes out, so a
// replayed tick sees an unchanged id and stays silent.
func (w *Watcher) Tick(ctx context.Context) {
	st, err := w.store.Load(ctx)
	if err != nil {
		obslog.L().Error("watch_tick_load_failed", zap.Error(err))
		return
	}

	for _, p := range w.roster {
		m, err := w.src.NewestMatch(ctx, p.Key())
		if err != nil {
			obslog.L().Warn("watch_fetch_failed", zap.String("player", p.Name), zap.Error(err))
			continue
		}
		if m == nil || strings.TrimSpace(m.ID) == "" {
			continue
		}

		last, had := st.LastMatch[p.Name]
		if !had {
			// first sighting: set the watermark without replaying history
			st.LastMatch[p.Name] = m.ID
			if err := w.store.Save(ctx, st); err != nil {
				obslog.L().Error("watch_state_save_failed", zap.String("player", p.Name), zap.Error(err))
			}
			continue
		}
		if last == m.ID {
			continue
		}

		st.LastMatch[p.Name] = m.ID
		if err := w.store.Save(ctx, st); err != nil {
			obslog.L().Error("watch_state_save_failed", zap.String("player", p.Name), zap.Error(err))
			continue
		}

		text := w.renderResult(p, m)
		if _, err := w.sink.SendMessage(ctx, w.room, text); err != nil {
			obslog.L().Warn("watch_announce_failed", zap.String("player", p.Name), zap.Error(err))
		}
		obslog.L().Info("match_announced",
			zap.String("player", p.Name),
			zap.String("match_id", m.ID),
			zap.String("category", m.Type),
		)

		if w.repo != nil {
			if err := w.repo.SaveResult(ctx, p.Name, m); err != nil {
				obslog.L().Warn("watch_archive_failed", zap.String("match_id", m.ID), zap.Error(err))
			}
		}
	}
}

func (w *Watcher) renderResult(p Player, m *cheeseapi.Match) string {
	label := Category(strings.ToLower(strings.TrimSpace(m.Type))).Label()
	timeText := w.messages.RenderOr("match.forfeit", nil, forfeitFallback)
	if ms, ok := m.CompletionMS(); ok && !m.Forfeited {
		timeText = FormatMillis(ms)
	}

	winner, hasWinner := m.WinnerID()
	if p.UserID == "" || !hasWinner {
		// reduced path: no win/loss or opponent attribution available
		return w.messages.RenderOr("match.generic", map[string]any{
			"Player":   p.Name,
			"Category": label,
			"Time":     timeText,
		}, fmt.Sprintf("🧀 %s 님의 새 매치가 끝났습니다. (%s, %s)", p.Name, label, timeText))
	}

	opponent := w.opponentNames(p, m)
	rating := ""
	if r, ok := m.RatingFor(p.UserID); ok {
		rating = strconv.Itoa(r)
	}

	key := "match.loss"
	fallback := fmt.Sprintf("❌ %s 님이 %s 님에게 패배... (%s, %s)", p.Name, opponent, label, timeText)
	if winner == p.UserID {
		key = "match.win"
		fallback = fmt.Sprintf("✅ %s 님이 %s 님을 상대로 승리! (%s, 기록 %s)", p.Name, opponent, label, timeText)
	}
	return w.messages.RenderOr(key, map[string]any{
		"Player":   p.Name,
		"Opponent": opponent,
		"Category": label,
		"Time":     timeText,
		"Rating":   rating,
	}, fallback)
}

func (w *Watcher) opponentNames(p Player, m *cheeseapi.Match) string {
	var names []string
	for _, op := range m.Opponents(p.UserID) {
		n := strings.TrimSpace(op.Name)
		if n == "" {
			n = strings.TrimSpace(op.UserID)
		}
		if n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		if w.unknownLabel != "" {
			return w.unknownLabel
		}
		return "Unknown"
	}
	return strings.Join(names, ", ")
}
