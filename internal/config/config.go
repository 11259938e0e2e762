package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type AppConfig struct {
	IrisBaseURL string
	IrisWSURL   string

	BotPrefix string
	Room      string

	XUserID    string
	XUserEmail string
	XSessionID string

	RedisURL    string
	DatabaseURL string

	CheeseAPIBaseURL string

	Roster     []string
	Categories []string

	PBPollSec    int
	MatchPollSec int

	PageSize     int
	ScanMaxPages int

	BoardCharLimit int
	UnknownLabel   string

	AllowedRooms []string
	TemplateDir  string
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		BotPrefix:      "!",
		Categories:     []string{"casual", "ranked", "private"},
		PBPollSec:      300,
		MatchPollSec:   30,
		PageSize:       100,
		ScanMaxPages:   10,
		BoardCharLimit: 4000,
	}

	cfg.IrisBaseURL = strings.TrimSpace(os.Getenv("IRIS_BASE_URL"))
	cfg.IrisWSURL = strings.TrimSpace(os.Getenv("IRIS_WS_URL"))
	cfg.Room = strings.TrimSpace(os.Getenv("BOT_ROOM"))
	if v := strings.TrimSpace(os.Getenv("BOT_PREFIX")); v != "" {
		cfg.BotPrefix = v
	}

	cfg.XUserID = strings.TrimSpace(os.Getenv("X_USER_ID"))
	cfg.XUserEmail = strings.TrimSpace(os.Getenv("X_USER_EMAIL"))
	cfg.XSessionID = strings.TrimSpace(os.Getenv("X_SESSION_ID"))

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.CheeseAPIBaseURL = strings.TrimSpace(os.Getenv("CHEESE_API_BASE_URL"))

	cfg.Roster = splitCSV(os.Getenv("ROSTER"))
	if v := splitCSV(os.Getenv("CATEGORIES")); len(v) > 0 {
		cfg.Categories = v
	}

	if n, ok := intEnv("PB_POLL_SEC"); ok {
		cfg.PBPollSec = n
	}
	if n, ok := intEnv("MATCH_POLL_SEC"); ok {
		cfg.MatchPollSec = n
	}
	if n, ok := intEnv("MATCH_PAGE_SIZE"); ok {
		cfg.PageSize = n
	}
	if n, ok := intEnv("SCAN_MAX_PAGES"); ok {
		cfg.ScanMaxPages = n
	}
	if n, ok := intEnv("BOARD_CHAR_LIMIT"); ok {
		cfg.BoardCharLimit = n
	}
	cfg.UnknownLabel = strings.TrimSpace(os.Getenv("UNKNOWN_OPPONENT_LABEL"))

	cfg.AllowedRooms = splitCSV(os.Getenv("ALLOWED_ROOMS"))
	cfg.TemplateDir = strings.TrimSpace(os.Getenv("MESSAGE_TEMPLATE_DIR"))

	if cfg.IrisBaseURL == "" {
		return nil, errors.New("IRIS_BASE_URL is required")
	}
	if cfg.Room == "" {
		return nil, errors.New("BOT_ROOM is required")
	}
	if cfg.CheeseAPIBaseURL == "" {
		return nil, errors.New("CHEESE_API_BASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if len(cfg.Roster) == 0 {
		return nil, errors.New("ROSTER is required")
	}

	return cfg, nil
}

func splitCSV(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		s := strings.TrimSpace(p)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func intEnv(key string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
