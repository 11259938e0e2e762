package config

import (
	"strings"
	"testing"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("IRIS_BASE_URL", "http://iris:3000")
	t.Setenv("BOT_ROOM", "레이스방")
	t.Setenv("CHEESE_API_BASE_URL", "https://api.cheese.example")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("ROSTER", "A, B ,C")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BotPrefix != "!" {
		t.Fatalf("prefix default: %q", cfg.BotPrefix)
	}
	if len(cfg.Roster) != 3 || cfg.Roster[1] != "B" {
		t.Fatalf("roster parsing: %v", cfg.Roster)
	}
	if len(cfg.Categories) != 3 || cfg.Categories[1] != "ranked" {
		t.Fatalf("category defaults: %v", cfg.Categories)
	}
	if cfg.PBPollSec != 300 || cfg.MatchPollSec != 30 {
		t.Fatalf("poll defaults: %d %d", cfg.PBPollSec, cfg.MatchPollSec)
	}
	if cfg.PageSize != 100 || cfg.ScanMaxPages != 10 || cfg.BoardCharLimit != 4000 {
		t.Fatalf("scan defaults: %d %d %d", cfg.PageSize, cfg.ScanMaxPages, cfg.BoardCharLimit)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("BOT_PREFIX", "$")
	t.Setenv("CATEGORIES", "ranked")
	t.Setenv("PB_POLL_SEC", "60")
	t.Setenv("MATCH_POLL_SEC", "nonsense") // invalid values keep the default
	t.Setenv("SCAN_MAX_PAGES", "-3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BotPrefix != "$" {
		t.Fatalf("prefix override: %q", cfg.BotPrefix)
	}
	if len(cfg.Categories) != 1 || cfg.Categories[0] != "ranked" {
		t.Fatalf("categories: %v", cfg.Categories)
	}
	if cfg.PBPollSec != 60 || cfg.MatchPollSec != 30 || cfg.ScanMaxPages != 10 {
		t.Fatalf("interval handling: %d %d %d", cfg.PBPollSec, cfg.MatchPollSec, cfg.ScanMaxPages)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	for _, missing := range []string{"IRIS_BASE_URL", "BOT_ROOM", "CHEESE_API_BASE_URL", "REDIS_URL", "ROSTER"} {
		t.Run(missing, func(t *testing.T) {
			setRequired(t)
			t.Setenv(missing, "")
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), missing) {
				t.Fatalf("expected %s error, got %v", missing, err)
			}
		})
	}
}
