package record

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/park285/CheeseRace-KakaoTalk-bot/internal/obslog"
)

// Runner drives both tick loops from a single goroutine. Interleaving on one
// execution context keeps at most one upstream request in flight, which is
// the whole rate-limit strategy.
type Runner struct {
	engine  *Engine
	watcher *Watcher

	pbEvery    time.Duration
	watchEvery time.Duration
}

func NewRunner(engine *Engine, watcher *Watcher, pbEvery, watchEvery time.Duration) *Runner {
	if pbEvery <= 0 {
		pbEvery = 5 * time.Minute
	}
	if watchEvery <= 0 {
		watchEvery = 30 * time.Second
	}
	return &Runner{engine: engine, watcher: watcher, pbEvery: pbEvery, watchEvery: watchEvery}
}

// Run blocks until ctx is cancelled. The first reconciliation pass runs
// immediately so the board exists before the first slow-tick interval ends.
func (r *Runner) Run(ctx context.Context) {
	obslog.L().Info("runner_start",
		zap.Duration("pb_interval", r.pbEvery),
		zap.Duration("watch_interval", r.watchEvery),
	)

	r.engine.Tick(ctx)
	r.watcher.Tick(ctx)

	pbT := time.NewTicker(r.pbEvery)
	defer pbT.Stop()
	watchT := time.NewTicker(r.watchEvery)
	defer watchT.Stop()

	for {
		select {
		case <-ctx.Done():
			obslog.L().Info("runner_stop")
			return
		case <-pbT.C:
			r.engine.Tick(ctx)
		case <-watchT.C:
			r.watcher.Tick(ctx)
		}
	}
}
