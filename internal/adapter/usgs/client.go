package usgs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/observability"
)

// maxFeedBytes bounds the body read from the feed. The all_week feed is a
// few megabytes; anything far larger is not a feed.
const maxFeedBytes = 64 << 20

// Client fetches a USGS GeoJSON summary feed over HTTP.
// It implements pipeline.FeedSource.
type Client struct {
	url        string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a feed client for the given feed URL.
func NewClient(feedURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		url: feedURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Fetch downloads and parses the feed document.
func (c *Client) Fetch(ctx context.Context) (domain.Feed, error) {
	start := time.Now()
	data, err := c.download(ctx)
	c.metrics.FeedDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.FeedRequests.WithLabelValues("error").Inc()
		return domain.Feed{}, err
	}
	c.metrics.FeedRequests.WithLabelValues("success").Inc()

	feed, err := domain.ParseFeed(data)
	if err != nil {
		return domain.Feed{}, err
	}

	c.logger.Debug("feed fetched",
		"url", c.url,
		"bytes", len(data),
		"events", len(feed.Events),
		"skipped", feed.Skipped,
		"duration", time.Since(start),
	)
	return feed, nil
}

func (c *Client) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("feed error: status %d: %s", resp.StatusCode, body)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("read feed body: %w", err)
	}
	return data, nil
}
