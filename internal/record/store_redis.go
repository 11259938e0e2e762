package record

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/park285/CheeseRace-KakaoTalk-bot/internal/obslog"
)

const stateKey = "cheeserace:state"

// Store persists the tracker state as one human-inspectable JSON blob.
type Store struct {
	rdb *redis.Client
	key string
}

func NewStore(redisURL string) (*Store, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL required for record store")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Store{rdb: rdb, key: stateKey}, nil
}

// NewStoreWithClient wraps an existing client; used by tests.
func NewStoreWithClient(rdb *redis.Client) *Store {
	return &Store{rdb: rdb, key: stateKey}
}

func (s *Store) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

// Load reads the persisted state. A missing or unreadable blob yields a
// fresh empty state so a first run or a corrupt write never blocks the bot.
func (s *Store) Load(ctx context.Context) (*State, error) {
	if s == nil || s.rdb == nil {
		return nil, fmt.Errorf("store not initialized")
	}
	raw, err := s.rdb.Get(ctx, s.key).Bytes()
	if err == redis.Nil {
		return NewState(), nil
	}
	if err != nil {
		return nil, err
	}
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		obslog.L().Warn("state_corrupt_reset", zap.Error(err))
		return NewState(), nil
	}
	return st.normalize(), nil
}

// Save overwrites the persisted state. No TTL: records outlive any session.
func (s *Store) Save(ctx context.Context, st *State) error {
	if s == nil || s.rdb == nil {
		return fmt.Errorf("store not initialized")
	}
	if st == nil {
		return fmt.Errorf("nil state")
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key, raw, 0).Err()
}
