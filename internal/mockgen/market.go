package mockgen

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/codyseavey/card-vault/internal/metrics"
	"github.com/codyseavey/card-vault/internal/models"
)

const (
	moverCount    = 5
	trendingCount = 5
)

// Market generates a fresh snapshot: ranked movers with percent
// changes in [-20, +40), ranked trending cards with changes in
// [-10, +30) and a search-volume draw. Each call regenerates the
// snapshot wholesale; there is no incremental update model.
func (g *Generator) Market() models.MarketSnapshot {
	g.mu.Lock()
	picks := g.rng.Perm(len(cardPool))

	movers := make([]models.Mover, 0, moverCount)
	for _, i := range picks[:moverCount] {
		movers = append(movers, models.Mover{
			Name:          cardPool[i].Name,
			Set:           cardPool[i].SetName,
			PercentChange: round1(g.uniform(-20, 40)),
		})
	}

	trending := make([]models.TrendingCard, 0, trendingCount)
	for _, i := range picks[len(picks)-trendingCount:] {
		trending = append(trending, models.TrendingCard{
			Name:          cardPool[i].Name,
			Set:           cardPool[i].SetName,
			PercentChange: round1(g.uniform(-10, 30)),
			SearchVolume:  500 + g.rng.Intn(9500),
		})
	}
	g.mu.Unlock()

	sort.SliceStable(movers, func(i, j int) bool {
		return movers[i].PercentChange > movers[j].PercentChange
	})
	sort.SliceStable(trending, func(i, j int) bool {
		return trending[i].SearchVolume > trending[j].SearchVolume
	})

	insights := []string{
		fmt.Sprintf("%s (%s) leads the market at %+.1f%% this period", movers[0].Name, movers[0].Set, movers[0].PercentChange),
		fmt.Sprintf("Collectors are searching for %s — %d lookups recently", trending[0].Name, trending[0].SearchVolume),
		"Graded vintage holos continue to outperform modern chase cards",
	}

	return models.MarketSnapshot{
		GeneratedAt: time.Now(),
		Movers:      movers,
		Trending:    trending,
		Insights:    insights,
	}
}

// MarketWorker regenerates the market snapshot on a timer. Snapshots
// are read-only values, safe to discard and replace; the worker shares
// no mutable state with the vault.
type MarketWorker struct {
	gen      *Generator
	interval time.Duration

	mu      sync.RWMutex
	current models.MarketSnapshot
}

// NewMarketWorker builds a worker with an initial snapshot already
// generated, so Current never returns a zero value.
func NewMarketWorker(gen *Generator, interval time.Duration) *MarketWorker {
	return &MarketWorker{
		gen:      gen,
		interval: interval,
		current:  gen.Market(),
	}
}

// Start runs the refresh loop until the context is cancelled.
func (w *MarketWorker) Start(ctx context.Context) {
	log.Printf("Market worker started: refreshing snapshot every %s", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Market worker stopping...")
			return
		case <-ticker.C:
			w.Refresh()
		}
	}
}

// Current returns the latest snapshot.
func (w *MarketWorker) Current() models.MarketSnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Refresh regenerates the snapshot immediately and returns it.
func (w *MarketWorker) Refresh() models.MarketSnapshot {
	snapshot := w.gen.Market()

	w.mu.Lock()
	w.current = snapshot
	w.mu.Unlock()

	metrics.MarketRefreshesTotal.Inc()
	return snapshot
}
