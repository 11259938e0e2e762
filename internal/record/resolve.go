package record

import (
	"context"
	"fmt"

	"github.com/park285/CheeseRace-KakaoTalk-bot/internal/cheeseapi"
)

// MatchSource is the slice of the cheese-race API the tracker needs.
type MatchSource interface {
	ListMatches(ctx context.Context, user string, opt cheeseapi.ListOptions) ([]cheeseapi.Match, error)
	NewestMatch(ctx context.Context, user string) (*cheeseapi.Match, error)
}

// Resolver computes a player's current personal best for a category.
//
// Ranked history can be listed fastest-first server-side, so a single page
// scan finds the global best. Other categories are scanned newest-first in
// bounded pages because their server ordering cannot be trusted; a best
// older than the scan horizon is invisible, which is accepted.
type Resolver struct {
	src      MatchSource
	pageSize int
	maxPages int
}

const (
	defaultPageSize = 100
	defaultMaxPages = 10
)

func NewResolver(src MatchSource, pageSize, maxPages int) *Resolver {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	return &Resolver{src: src, pageSize: pageSize, maxPages: maxPages}
}

// BestFor returns the player's best validated time in milliseconds.
// ok is false when no validated completion was found; an error means the
// source failed and the caller must keep its previous value.
func (r *Resolver) BestFor(ctx context.Context, p Player, cat Category) (ms int64, ok bool, err error) {
	if r == nil || r.src == nil {
		return 0, false, fmt.Errorf("resolver not initialized")
	}
	if cat.FastestSortable() {
		return r.fastestPage(ctx, p, cat)
	}
	return r.boundedScan(ctx, p, cat)
}

func (r *Resolver) fastestPage(ctx context.Context, p Player, cat Category) (int64, bool, error) {
	page, err := r.src.ListMatches(ctx, p.Key(), cheeseapi.ListOptions{
		Category: string(cat),
		Limit:    r.pageSize,
		Sort:     cheeseapi.SortFastest,
	})
	if err != nil {
		return 0, false, err
	}
	// Fastest-first ordering makes the first countable win the global best.
	for i := range page {
		if CountableWin(&page[i], p.UserID) {
			ms, _ := page[i].CompletionMS()
			return ms, true, nil
		}
	}
	return 0, false, nil
}

func (r *Resolver) boundedScan(ctx context.Context, p Player, cat Category) (int64, bool, error) {
	var (
		best   int64
		found  bool
		cursor string
	)
	for page := 0; page < r.maxPages; page++ {
		batch, err := r.src.ListMatches(ctx, p.Key(), cheeseapi.ListOptions{
			Category: string(cat),
			Limit:    r.pageSize,
			Sort:     cheeseapi.SortNewest,
			Before:   cursor,
		})
		if err != nil {
			return 0, false, err
		}
		if len(batch) == 0 {
			break
		}
		for i := range batch {
			if !CountableWin(&batch[i], p.UserID) {
				continue
			}
			ms, _ := batch[i].CompletionMS()
			if !found || ms < best {
				best = ms
				found = true
			}
		}
		cursor = batch[len(batch)-1].ID
	}
	return best, found, nil
}
