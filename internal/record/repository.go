package record

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/park285/CheeseRace-KakaoTalk-bot/internal/cheeseapi"
)

// Repository is an optional Postgres archive of announced results and
// accepted bests. The bot works without it; writes are best-effort.
type Repository struct {
	db *sql.DB
}

func NewRepository(databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	r := &Repository{db: db}
	if err := r.initSchema(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) initSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cheese_results (
            match_id     TEXT PRIMARY KEY,
            player       TEXT NOT NULL,
            category     TEXT NOT NULL,
            won          BOOLEAN NOT NULL,
            forfeited    BOOLEAN NOT NULL,
            time_ms      BIGINT,
            opponents    TEXT,
            rating       INTEGER,
            announced_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS cheese_bests (
            player      TEXT NOT NULL,
            category    TEXT NOT NULL,
            time_ms     BIGINT NOT NULL,
            recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            PRIMARY KEY (player, category)
        )`,
	}
	for _, q := range stmts {
		if _, err := r.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// SaveResult archives one announced match. Re-announcement replays are
// absorbed by the primary key.
func (r *Repository) SaveResult(ctx context.Context, player string, m *cheeseapi.Match) error {
	if r == nil || r.db == nil || m == nil {
		return nil
	}

	var timeMS sql.NullInt64
	if ms, ok := m.CompletionMS(); ok {
		timeMS = sql.NullInt64{Int64: ms, Valid: true}
	}
	var rating sql.NullInt32
	var won bool
	// won stays false when the winner cannot be attributed
	for _, p := range m.Players {
		if strings.TrimSpace(p.Name) == player || strings.TrimSpace(p.UserID) == player {
			if w, ok := m.WinnerID(); ok {
				won = w == p.UserID
			}
			if v, ok := m.RatingFor(p.UserID); ok {
				rating = sql.NullInt32{Int32: int32(v), Valid: true}
			}
			break
		}
	}

	var opps []string
	for _, p := range m.Players {
		if strings.TrimSpace(p.Name) != player {
			opps = append(opps, p.Name)
		}
	}

	q := `INSERT INTO cheese_results (match_id, player, category, won, forfeited, time_ms, opponents, rating)
          VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
          ON CONFLICT (match_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, q,
		m.ID, player, strings.ToLower(strings.TrimSpace(m.Type)),
		won, m.Forfeited, timeMS, strings.Join(opps, ","), rating,
	)
	return err
}

// SaveBest upserts a player's accepted best for a category.
func (r *Repository) SaveBest(ctx context.Context, player, category string, timeMS int64) error {
	if r == nil || r.db == nil {
		return nil
	}
	q := `INSERT INTO cheese_bests (player, category, time_ms, recorded_at)
          VALUES ($1,$2,$3,NOW())
          ON CONFLICT (player, category) DO UPDATE SET
            time_ms=EXCLUDED.time_ms,
            recorded_at=EXCLUDED.recorded_at`
	_, err := r.db.ExecContext(ctx, q, player, category, timeMS)
	return err
}
