package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

const (
	DefaultFeedURL = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_week.geojson"
	DefaultTileURL = "https://{s}.tile.opentopomap.org/{z}/{x}/{y}.png"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	FeedURL         string
	FeedTimeout     time.Duration
	RefreshInterval time.Duration
	FeedCacheTTL    time.Duration

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Map view.
	TileURL   string
	CenterLat float64
	CenterLon float64
	Zoom      int

	// Optional Kafka sink for styled events.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	feedTimeout, err := parsePositiveDuration("FEED_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	refreshInterval, err := parsePositiveDuration("FEED_REFRESH_INTERVAL", "5m")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDuration("FEED_CACHE_TTL", "1m")
	if err != nil {
		return nil, err
	}

	centerLat, err := parseFloat("MAP_CENTER_LAT", 40.7)
	if err != nil {
		return nil, err
	}
	centerLon, err := parseFloat("MAP_CENTER_LON", -94.5)
	if err != nil {
		return nil, err
	}
	zoom, err := parseInt("MAP_ZOOM", 3)
	if err != nil {
		return nil, err
	}

	brokers := parseList(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		FeedURL:         sharedcfg.EnvOrDefault("FEED_URL", DefaultFeedURL),
		FeedTimeout:     feedTimeout,
		RefreshInterval: refreshInterval,
		FeedCacheTTL:    cacheTTL,
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		TileURL:   sharedcfg.EnvOrDefault("MAP_TILE_URL", DefaultTileURL),
		CenterLat: centerLat,
		CenterLon: centerLon,
		Zoom:      zoom,

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: brokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "styled-earthquakes"),
	}

	if cfg.FeedURL == "" {
		return nil, errors.New("FEED_URL is required")
	}
	if cfg.CenterLat < -90 || cfg.CenterLat > 90 {
		return nil, errors.New("MAP_CENTER_LAT must be within [-90, 90]")
	}
	if cfg.CenterLon < -180 || cfg.CenterLon > 180 {
		return nil, errors.New("MAP_CENTER_LON must be within [-180, 180]")
	}
	if cfg.Zoom < 0 || cfg.Zoom > 20 {
		return nil, errors.New("MAP_ZOOM must be within [0, 20]")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when Kafka is enabled")
	}

	return cfg, nil
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := parseDuration(key, def)
	if err != nil || d == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}

// parseList splits a comma-separated value, dropping empty entries.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
