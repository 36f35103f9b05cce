package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/quake-map/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `{
  "type": "FeatureCollection",
  "metadata": {"title": "USGS All Earthquakes, Past Week"},
  "features": [
    {"type": "Feature", "id": "nc1",
     "properties": {"mag": 0, "place": "Test", "time": 1714140000000},
     "geometry": {"type": "Point", "coordinates": [-122.8, 38.8, 45]}}
  ]
}`

func testConfig() *config.Config {
	return &config.Config{
		FeedURL:         "http://127.0.0.1:1/unreachable.geojson",
		FeedTimeout:     time.Second,
		RefreshInterval: time.Minute,
		LogLevel:        "error",
		LogFormat:       "text",
		TileURL:         config.DefaultTileURL,
		CenterLat:       40.7,
		CenterLon:       -94.5,
		Zoom:            3,
	}
}

// freshRegistry isolates metric registration between runs.
func freshRegistry(t *testing.T) {
	t.Helper()
	reg := prometheus.NewRegistry()
	prevReg, prevGatherer := prometheus.DefaultRegisterer, prometheus.DefaultGatherer
	prometheus.DefaultRegisterer, prometheus.DefaultGatherer = reg, reg
	t.Cleanup(func() {
		prometheus.DefaultRegisterer, prometheus.DefaultGatherer = prevReg, prevGatherer
	})
}

func TestRenderOnce_FromFile(t *testing.T) {
	freshRegistry(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "all_week.geojson")
	require.NoError(t, os.WriteFile(input, []byte(sampleFeed), 0o600))
	output := filepath.Join(dir, "map.html")

	require.NoError(t, renderOnce(context.Background(), testConfig(), input, output, nil))

	page, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(page), "<title>USGS All Earthquakes, Past Week</title>")
	assert.Contains(t, string(page), `"fillColor":"#FFFF00"`)
	assert.Contains(t, string(page), `"radius":1`)
}

func TestRenderOnce_Stdout(t *testing.T) {
	freshRegistry(t)
	input := filepath.Join(t.TempDir(), "all_week.geojson")
	require.NoError(t, os.WriteFile(input, []byte(sampleFeed), 0o600))

	var out bytes.Buffer
	require.NoError(t, renderOnce(context.Background(), testConfig(), input, "-", &out))
	assert.Contains(t, out.String(), "<!DOCTYPE html>")
}

func TestRenderOnce_FeedFailureStillWritesPage(t *testing.T) {
	freshRegistry(t)
	dir := t.TempDir()
	output := filepath.Join(dir, "map.html")

	err := renderOnce(context.Background(), testConfig(), filepath.Join(dir, "missing.geojson"), output, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not be loaded")

	page, readErr := os.ReadFile(output)
	require.NoError(t, readErr)
	assert.Contains(t, string(page), "Earthquake data could not be loaded")
	assert.Contains(t, string(page), "const markers = [];")
	assert.Contains(t, string(page), `"info legend"`)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("QUAKEMAP_TEST_ZOOM=5\nQUAKEMAP_TEST_KEEP=file\n"), 0o600))

	t.Setenv("QUAKEMAP_TEST_KEEP", "env")
	t.Setenv("QUAKEMAP_TEST_ZOOM", "")
	require.NoError(t, os.Unsetenv("QUAKEMAP_TEST_ZOOM"))

	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "5", os.Getenv("QUAKEMAP_TEST_ZOOM"))
	assert.Equal(t, "env", os.Getenv("QUAKEMAP_TEST_KEEP"), "environment wins over the file")

	require.NoError(t, loadDotEnv(filepath.Join(dir, "missing.env")))
}
