package refdata

import (
	"context"
	"log/slog"
	"time"

	"nowmarket/internal/market"
)

const (
	batchSize      = 5
	batchDelay     = 1500 * time.Millisecond
	fallbackPoints = 100
)

// Store is the slice of the market the fetcher needs.
type Store interface {
	StaleReferences(maxAge time.Duration) []market.RefTarget
	SetReferenceSeries(companyID string, series []float64)
}

// Fetcher keeps company reference series fresh. It batches upstream
// requests to stay under free-tier rate limits and substitutes a
// synthesized series whenever a fetch fails.
type Fetcher struct {
	client *Client
	store  Store
	log    *slog.Logger
	maxAge time.Duration
}

func NewFetcher(client *Client, store Store, maxAge time.Duration, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Fetcher{client: client, store: store, log: logger, maxAge: maxAge}
}

// Run refreshes stale series once, then on every interval tick until
// ctx is cancelled.
func (f *Fetcher) Run(ctx context.Context, interval time.Duration) {
	f.RefreshStale(ctx)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			f.RefreshStale(ctx)
		}
	}
}

// RefreshStale fetches every company whose series is older than maxAge.
// It never fails: companies the upstream cannot serve get a fallback
// series instead.
func (f *Fetcher) RefreshStale(ctx context.Context) {
	targets := f.store.StaleReferences(f.maxAge)
	for i := 0; i < len(targets); i += batchSize {
		if i > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(batchDelay):
			}
		}
		end := i + batchSize
		if end > len(targets) {
			end = len(targets)
		}
		for _, target := range targets[i:end] {
			series, err := f.client.DailyCloses(ctx, target.Ticker)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				f.log.Warn("reference fetch failed, using fallback",
					"ticker", target.Ticker, "company", target.CompanyID, "error", err)
				series = FallbackSeries(target.Ticker, fallbackPoints)
			}
			f.store.SetReferenceSeries(target.CompanyID, series)
		}
	}
}
