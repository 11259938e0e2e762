package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/park285/CheeseRace-KakaoTalk-bot/internal/cheeseapi"
	appcfg "github.com/park285/CheeseRace-KakaoTalk-bot/internal/config"
	"github.com/park285/CheeseRace-KakaoTalk-bot/internal/irisfast"
	"github.com/park285/CheeseRace-KakaoTalk-bot/internal/msgcat"
	"github.com/park285/CheeseRace-KakaoTalk-bot/internal/obslog"
	"github.com/park285/CheeseRace-KakaoTalk-bot/internal/record"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("log init error: %v", err)
	}

	headers := func() map[string]string {
		h := map[string]string{}
		if cfg.XUserID != "" {
			h["X-User-Id"] = cfg.XUserID
		}
		if cfg.XUserEmail != "" {
			h["X-User-Email"] = cfg.XUserEmail
		}
		if cfg.XSessionID != "" {
			h["X-Session-Id"] = cfg.XSessionID
		}
		return h
	}

	iris := irisfast.NewClient(cfg.IrisBaseURL, irisfast.WithHeaderProvider(headers))
	cheese := cheeseapi.NewClient(cfg.CheeseAPIBaseURL)

	store, err := record.NewStore(cfg.RedisURL)
	if err != nil {
		log.Fatalf("store init error: %v", err)
	}

	catalog, err := msgcat.New(cfg.TemplateDir)
	if err != nil {
		log.Fatalf("message catalog error: %v", err)
	}

	roster := resolveRoster(cheese, cfg.Roster)
	categories := record.ParseCategories(strings.Join(cfg.Categories, ","))

	resolver := record.NewResolver(cheese, cfg.PageSize, cfg.ScanMaxPages)
	engine := record.NewEngine(resolver, store, iris, catalog, record.EngineConfig{
		Room:       cfg.Room,
		Roster:     roster,
		Categories: categories,
		BoardLimit: cfg.BoardCharLimit,
	})
	watcher := record.NewWatcher(cheese, store, iris, catalog, record.WatcherConfig{
		Room:         cfg.Room,
		Roster:       roster,
		UnknownLabel: cfg.UnknownLabel,
	})

	var repo *record.Repository
	if cfg.DatabaseURL != "" {
		repo, err = record.NewRepository(cfg.DatabaseURL)
		if err != nil {
			// archive is best-effort; the tracker itself only needs Redis
			obslog.L().Warn("repository_unavailable", zap.Error(err))
		} else {
			engine.AttachRepository(repo)
			watcher.AttachRepository(repo)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ws *irisfast.WebSocket
	if cfg.IrisWSURL != "" {
		ws = irisfast.NewWebSocket(cfg.IrisWSURL, 5, time.Second)
		ws.SetHeaderProvider(headers)
		ws.OnStateChange(func(state irisfast.WebSocketState) {
			obslog.L().Info("ws_state", zap.String("state", string(state)))
		})
		ws.OnMessage(func(msg *irisfast.Message) {
			if msg == nil || msg.Msg == "" {
				return
			}
			if len(cfg.AllowedRooms) > 0 && !roomAllowed(cfg.AllowedRooms, msg.Room) {
				return
			}
			if !strings.HasPrefix(strings.TrimSpace(msg.Msg), cfg.BotPrefix) {
				return
			}
			// Avoid blocking the WS loop
			go handleCommand(ctx, iris, store, catalog, cfg, categories, msg)
		})
		cctx, ccancel := context.WithTimeout(ctx, 10*time.Second)
		if err := ws.Connect(cctx); err != nil {
			obslog.L().Warn("ws_connect_failed", zap.Error(err))
		}
		ccancel()
	}

	runner := record.NewRunner(engine, watcher,
		time.Duration(cfg.PBPollSec)*time.Second,
		time.Duration(cfg.MatchPollSec)*time.Second,
	)
	go runner.Run(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	cancel()

	if ws != nil {
		_ = ws.Close(context.Background())
	}
	if repo != nil {
		_ = repo.Close()
	}
	_ = store.Close()
}

// resolveRoster looks each display name up once at startup. A failed lookup
// keeps the player on the roster without an identity token; that player gets
// generic announcements only.
func resolveRoster(cheese *cheeseapi.Client, names []string) []record.Player {
	var roster []record.Player
	for _, name := range names {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		p, err := cheese.GetProfile(ctx, name)
		cancel()
		if err != nil {
			obslog.L().Warn("identity_unresolved", zap.String("player", name), zap.Error(err))
			roster = append(roster, record.Player{Name: name})
			continue
		}
		obslog.L().Info("identity_resolved", zap.String("player", name), zap.String("user_id", p.UserID))
		roster = append(roster, record.Player{Name: name, UserID: p.UserID})
	}
	return roster
}

func handleCommand(ctx context.Context, iris *irisfast.Client, store *record.Store, catalog *msgcat.Catalog, cfg *appcfg.AppConfig, categories []record.Category, msg *irisfast.Message) {
	raw := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(msg.Msg), cfg.BotPrefix))
	if raw == "" {
		return
	}
	parts := strings.Fields(raw)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "기록", "board":
		st, err := store.Load(ctx)
		if err != nil {
			obslog.L().Warn("command_load_failed", zap.Error(err))
			return
		}
		text := record.RenderBoard(st, categories, catalog, cfg.BoardCharLimit)
		if _, err := iris.SendMessage(ctx, msg.Room, text); err != nil {
			obslog.L().Warn("command_reply_failed", zap.Error(err))
		}
	case "pb":
		if len(args) < 1 {
			_, _ = iris.SendMessage(ctx, msg.Room, "용법: "+cfg.BotPrefix+"pb <플레이어>")
			return
		}
		name := args[0]
		st, err := store.Load(ctx)
		if err != nil {
			obslog.L().Warn("command_load_failed", zap.Error(err))
			return
		}
		_, _ = iris.SendMessage(ctx, msg.Room, playerSummary(st, categories, name))
	case "help", "도움":
		_, _ = iris.SendMessage(ctx, msg.Room, helpText(cfg))
	}
}

func playerSummary(st *record.State, categories []record.Category, name string) string {
	var sb strings.Builder
	sb.WriteString("🧀 " + name + " 개인 기록\n")
	found := false
	for _, cat := range categories {
		ms, ok := st.Best(cat, name)
		if !ok {
			continue
		}
		found = true
		sb.WriteString(fmt.Sprintf("• %s: %s (%d위)\n", cat.Label(), record.FormatMillis(ms), st.RankOf(cat, name)))
	}
	if !found {
		sb.WriteString("기록이 없습니다.")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func helpText(cfg *appcfg.AppConfig) string {
	p := cfg.BotPrefix
	return strings.Join([]string{
		"🧀 치즈 레이스 기록 봇",
		"",
		"• " + p + "기록  현재 리더보드 표시",
		"• " + p + "pb <플레이어>  개인 기록 조회",
	}, "\n")
}

func roomAllowed(allowed []string, room string) bool {
	for _, r := range allowed {
		if r == room {
			return true
		}
	}
	return false
}
