package record

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/park285/CheeseRace-KakaoTalk-bot/internal/msgcat"
	"github.com/park285/CheeseRace-KakaoTalk-bot/internal/obslog"
)

// Sink delivers rendered text to the notification room. The standing board
// message is addressed by the opaque message id the bridge hands back.
type Sink interface {
	SendMessage(ctx context.Context, room, text string) (string, error)
	EditMessage(ctx context.Context, room, messageID, text string) error
	GetMessage(ctx context.Context, room, messageID string) (string, bool, error)
}

const topPlaces = 3

// Engine is the personal-best reconciliation loop: per tick it re-resolves
// every tracked player's best per category, folds improvements into the
// persisted state and announces them, then refreshes the standing board.
type Engine struct {
	resolver *Resolver
	store    *Store
	sink     Sink
	messages *msgcat.Catalog

	room       string
	roster     []Player
	categories []Category
	boardLimit int

	repo *Repository
}

type EngineConfig struct {
	Room       string
	Roster     []Player
	Categories []Category
	BoardLimit int
}

func NewEngine(resolver *Resolver, store *Store, sink Sink, messages *msgcat.Catalog, cfg EngineConfig) *Engine {
	return &Engine{
		resolver:   resolver,
		store:      store,
		sink:       sink,
		messages:   messages,
		room:       cfg.Room,
		roster:     cfg.Roster,
		categories: cfg.Categories,
		boardLimit: cfg.BoardLimit,
	}
}

// AttachRepository wires an optional database archive for accepted records.
func (e *Engine) AttachRepository(r *Repository) {
	if e != nil {
		e.repo = r
	}
}

// Tick runs one reconciliation pass. State reloads at tick start so edits
// made between ticks (or by the watcher) are honored, and every accepted
// improvement is persisted before its announcement goes out: a crash replays
// the poll, finds no further improvement, and stays silent.
func (e *Engine) Tick(ctx context.Context) {
	st, err := e.store.Load(ctx)
	if err != nil {
		obslog.L().Error("pb_tick_load_failed", zap.Error(err))
		return
	}

	for _, cat := range e.categories {
		snapshot := st.TopN(cat, topPlaces)
		for _, p := range e.roster {
			if p.UserID == "" {
				// wins cannot be attributed without an identity token
				continue
			}
			e.reconcilePlayer(ctx, st, cat, p, snapshot)
		}
		st.TopRanks[cat] = st.TopN(cat, topPlaces)
		if err := e.store.Save(ctx, st); err != nil {
			obslog.L().Error("pb_state_save_failed", zap.String("category", string(cat)), zap.Error(err))
		}
	}

	e.updateBoard(ctx, st)
}

func (e *Engine) reconcilePlayer(ctx context.Context, st *State, cat Category, p Player, snapshot []string) {
	ms, ok, err := e.resolver.BestFor(ctx, p, cat)
	if err != nil {
		obslog.L().Warn("pb_resolve_failed",
			zap.String("player", p.Name),
			zap.String("category", string(cat)),
			zap.Error(err),
		)
		return
	}
	if !ok {
		return
	}

	prev, had := st.Best(cat, p.Name)
	if !had {
		// first observation: record silently so a fresh deploy does not
		// replay years of history as "news"
		st.SetBest(cat, p.Name, ms)
		if err := e.store.Save(ctx, st); err != nil {
			obslog.L().Error("pb_state_save_failed", zap.String("player", p.Name), zap.Error(err))
		}
		obslog.L().Info("pb_first_observation",
			zap.String("player", p.Name),
			zap.String("category", string(cat)),
			zap.Int64("time_ms", ms),
		)
		return
	}
	if ms >= prev {
		return
	}

	st.SetBest(cat, p.Name, ms)
	if err := e.store.Save(ctx, st); err != nil {
		obslog.L().Error("pb_state_save_failed", zap.String("player", p.Name), zap.Error(err))
		// announcement without durability risks a double announce on
		// replay; keep the in-memory update and stay quiet this tick
		return
	}

	rank := st.RankOf(cat, p.Name)
	if rank >= 1 && rank <= topPlaces && !holdsSlot(snapshot, rank, p.Name) {
		e.send(ctx, e.messages.RenderOr("pb.placement", map[string]any{
			"Player":   p.Name,
			"Category": cat.Label(),
			"Rank":     rank,
		}, fmt.Sprintf("🏆 %s 님이 %s %d위를 차지했습니다!", p.Name, cat.Label(), rank)))
	}

	oldText := FormatMillis(prev)
	newText := FormatMillis(ms)
	e.send(ctx, e.messages.RenderOr("pb.improved", map[string]any{
		"Player":   p.Name,
		"Category": cat.Label(),
		"Old":      oldText,
		"New":      newText,
	}, fmt.Sprintf("🏁 %s 님이 %s 개인 최고 기록을 경신했습니다! (이전: %s → 신기록: %s)", p.Name, cat.Label(), oldText, newText)))

	obslog.L().Info("pb_improved",
		zap.String("player", p.Name),
		zap.String("category", string(cat)),
		zap.Int64("old_ms", prev),
		zap.Int64("new_ms", ms),
		zap.Int("rank", rank),
	)

	if e.repo != nil {
		if err := e.repo.SaveBest(ctx, p.Name, string(cat), ms); err != nil {
			obslog.L().Warn("pb_archive_failed", zap.String("player", p.Name), zap.Error(err))
		}
	}
}

// holdsSlot reports whether player already held the 1-based slot in the
// pre-update snapshot.
func holdsSlot(snapshot []string, rank int, player string) bool {
	idx := rank - 1
	return idx >= 0 && idx < len(snapshot) && snapshot[idx] == player
}

// updateBoard re-renders the standing leaderboard message in place. When the
// addressed message is gone the board is posted anew and the fresh handle
// persisted.
func (e *Engine) updateBoard(ctx context.Context, st *State) {
	text := RenderBoard(st, e.categories, e.messages, e.boardLimit)

	if st.BoardMsgID != "" {
		_, found, err := e.sink.GetMessage(ctx, e.room, st.BoardMsgID)
		if err != nil {
			obslog.L().Warn("board_lookup_failed", zap.String("msg_id", st.BoardMsgID), zap.Error(err))
			return
		}
		if found {
			if err := e.sink.EditMessage(ctx, e.room, st.BoardMsgID, text); err != nil {
				obslog.L().Warn("board_edit_failed", zap.String("msg_id", st.BoardMsgID), zap.Error(err))
			}
			return
		}
	}

	id, err := e.sink.SendMessage(ctx, e.room, text)
	if err != nil {
		obslog.L().Warn("board_post_failed", zap.Error(err))
		return
	}
	st.BoardMsgID = id
	if err := e.store.Save(ctx, st); err != nil {
		obslog.L().Error("board_handle_save_failed", zap.Error(err))
	}
}

func (e *Engine) send(ctx context.Context, text string) {
	if text == "" {
		return
	}
	if _, err := e.sink.SendMessage(ctx, e.room, text); err != nil {
		obslog.L().Warn("announce_failed", zap.Error(err))
	}
}
