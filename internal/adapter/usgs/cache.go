package usgs

import (
	"context"
	"sync"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/observability"
	"github.com/jonboulle/clockwork"
)

// Fetcher returns a parsed feed.
type Fetcher interface {
	Fetch(ctx context.Context) (domain.Feed, error)
}

// CachedFeed wraps a Fetcher and reuses the last successful feed for ttl.
// USGS regenerates the summary feeds about once a minute, so fetching more
// often than that only re-downloads the same document.
type CachedFeed struct {
	inner   Fetcher
	ttl     time.Duration
	clock   clockwork.Clock
	metrics *observability.Metrics

	mu        sync.Mutex
	feed      domain.Feed
	fetchedAt time.Time
	valid     bool
}

// NewCachedFeed creates a cache decorator around a feed fetcher. A zero ttl
// disables caching.
func NewCachedFeed(inner Fetcher, ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics) *CachedFeed {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &CachedFeed{
		inner:   inner,
		ttl:     ttl,
		clock:   clock,
		metrics: metrics,
	}
}

// Fetch returns the cached feed while it is fresh, otherwise fetches a new one.
// Failed fetches are not cached and leave the previous entry in place.
func (c *CachedFeed) Fetch(ctx context.Context) (domain.Feed, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.clock.Since(c.fetchedAt) < c.ttl {
		c.metrics.FeedCache.WithLabelValues("hit").Inc()
		return c.feed, nil
	}
	c.metrics.FeedCache.WithLabelValues("miss").Inc()

	feed, err := c.inner.Fetch(ctx)
	if err != nil {
		return domain.Feed{}, err
	}
	c.feed = feed
	c.fetchedAt = c.clock.Now()
	c.valid = true
	return feed, nil
}

// Invalidate drops the cached feed so the next Fetch goes to the source.
func (c *CachedFeed) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.mu.Unlock()
}
