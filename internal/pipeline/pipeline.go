package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/observability"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// FeedSource fetches and parses the earthquake feed.
type FeedSource interface {
	Fetch(ctx context.Context) (domain.Feed, error)
}

// Loader receives every successful snapshot.
type Loader interface {
	Load(ctx context.Context, snap domain.Snapshot) error
}

// Pipeline orchestrates the fetch-style-publish loop. Each pass fetches the
// feed, stores the resulting snapshot for the map and hands it to the
// configured loaders.
type Pipeline struct {
	source   FeedSource
	store    *Store
	loaders  []Loader
	logger   *slog.Logger
	metrics  *observability.Metrics
	interval time.Duration
	ready    atomic.Bool
}

// New creates a Pipeline that refreshes the store from source every interval.
func New(source FeedSource, store *Store, logger *slog.Logger, metrics *observability.Metrics, interval time.Duration, loaders ...Loader) *Pipeline {
	return &Pipeline{
		source:   source,
		store:    store,
		loaders:  loaders,
		logger:   logger,
		metrics:  metrics,
		interval: interval,
	}
}

// CheckReadiness returns nil once a pass has succeeded and the latest pass
// did not fail.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no earthquake feed has been loaded yet")
	}
	if snap, ok := p.store.Current(); ok && snap.Failed() {
		return fmt.Errorf("latest feed refresh failed: %s", snap.Err)
	}
	return nil
}

// RunOnce performs a single pass and returns the snapshot it stored. On a
// fetch failure the stored snapshot keeps the previous events and carries
// the error, which is also returned.
func (p *Pipeline) RunOnce(ctx context.Context) (domain.Snapshot, error) {
	start := time.Now()

	feed, err := p.source.Fetch(ctx)
	if err != nil {
		p.metrics.FetchErrors.Inc()
		p.logger.Error("fetch feed failed", "error", err)

		previous, _ := p.store.Current()
		failed := previous.WithError(err)
		p.store.Set(failed)
		return failed, err
	}

	snap := domain.NewSnapshot(feed)
	p.observeFeed(snap)
	p.store.Set(snap)

	for _, l := range p.loaders {
		if err := l.Load(ctx, snap); err != nil {
			p.metrics.PublishErrors.Inc()
			p.logger.Error("load snapshot failed", "error", err, "events", len(snap.Events))
		}
	}

	p.metrics.EventsOnMap.Set(float64(len(snap.Events)))
	p.metrics.LastSuccess.Set(float64(snap.FetchedAt.Unix()))
	p.metrics.PassDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)

	p.logger.Info("feed refreshed",
		"title", snap.Title,
		"events", len(snap.Events),
		"skipped", snap.Skipped,
		"duration", time.Since(start),
	)
	return snap, nil
}

func (p *Pipeline) observeFeed(snap domain.Snapshot) {
	if snap.Skipped > 0 {
		p.metrics.FeaturesSkipped.Add(float64(snap.Skipped))
		p.logger.Warn("skipped malformed features", "count", snap.Skipped)
	}
	for _, e := range snap.Events {
		if r := domain.RadiusForMagnitude(e.Magnitude); !(r > 0) {
			p.metrics.NegativeRadius.Inc()
			p.logger.Warn("non-positive marker radius, drawing at minimum",
				"id", e.ID, "magnitude", e.Magnitude, "radius", r)
		}
	}
}

// Run refreshes the snapshot until the context is cancelled. A failed pass
// is retried with exponential backoff, never waiting longer than the
// refresh interval.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "interval", p.interval)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	backoff := initialBackoff
	ceiling := min(maxBackoff, p.interval)

	for {
		if ctx.Err() != nil {
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		}

		wait := p.interval
		if _, err := p.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				p.logger.Info("pipeline stopping", "reason", ctx.Err())
				return nil
			}
			wait = min(backoff, ceiling)
			backoff = nextBackoff(backoff, ceiling)
		} else {
			backoff = initialBackoff
		}

		if !sleepWithContext(ctx, wait) {
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		}
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
