package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/quake-map/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/quake-map/internal/adapter/kafka"
	"github.com/couchcryptid/quake-map/internal/adapter/usgs"
	"github.com/couchcryptid/quake-map/internal/config"
	"github.com/couchcryptid/quake-map/internal/observability"
	"github.com/couchcryptid/quake-map/internal/pipeline"
	"github.com/couchcryptid/quake-map/internal/render"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/paulmach/orb"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "quakemap",
		Short:         "Earthquake map from the USGS weekly feed",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return loadDotEnv(".env")
		},
	}
	root.AddCommand(newServeCmd(), newRenderCmd())

	if err := root.Execute(); err != nil {
		slog.Error("quakemap failed", "error", err)
		os.Exit(1)
	}
}

// loadDotEnv loads variables from path when the file exists. Variables
// already present in the environment are not overridden.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func mapOptions(cfg *config.Config) render.Options {
	return render.Options{
		TileURL: cfg.TileURL,
		Center:  orb.Point{cfg.CenterLon, cfg.CenterLat},
		Zoom:    cfg.Zoom,
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the map, refreshing the feed in the background",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(parent context.Context, cfg *config.Config) error {
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	client := usgs.NewClient(cfg.FeedURL, cfg.FeedTimeout, metrics, logger)
	source := usgs.NewCachedFeed(client, cfg.FeedCacheTTL, clockwork.NewRealClock(), metrics)
	store := pipeline.NewStore()

	var loaders []pipeline.Loader
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, metrics, logger)
		loaders = append(loaders, writer)
		logger.Info("kafka sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka sink disabled")
	}

	p := pipeline.New(source, store, logger, metrics, cfg.RefreshInterval, loaders...)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, store, mapOptions(cfg), logger)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Start refresh loop.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}

func newRenderCmd() *cobra.Command {
	var input, output string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Fetch the feed once and write the map page",
		Long: "Fetch the feed once and write the map as a standalone HTML page.\n" +
			"If the feed cannot be loaded the page is still written, showing the error, " +
			"and the command exits non-zero.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return renderOnce(cmd.Context(), cfg, input, output, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "read the feed from a GeoJSON file instead of FEED_URL")
	cmd.Flags().StringVarP(&output, "output", "o", "earthquakes.html", `output file, "-" for stdout`)
	return cmd
}

func renderOnce(ctx context.Context, cfg *config.Config, input, output string, stdout io.Writer) error {
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	var source pipeline.FeedSource = usgs.NewClient(cfg.FeedURL, cfg.FeedTimeout, metrics, logger)
	if input != "" {
		source = usgs.FileSource{Path: input}
	}

	p := pipeline.New(source, pipeline.NewStore(), logger, metrics, cfg.RefreshInterval)
	snap, fetchErr := p.RunOnce(ctx)

	m, err := render.BuildMap(mapOptions(cfg), snap)
	if err != nil {
		return err
	}

	if output == "-" {
		err = m.Render(stdout)
	} else {
		err = writeFile(output, m)
	}
	if err != nil {
		return fmt.Errorf("write map: %w", err)
	}
	logger.Info("map written", "output", output, "events", len(snap.Events))

	if fetchErr != nil {
		return fmt.Errorf("earthquake data could not be loaded: %w", fetchErr)
	}
	return nil
}

func writeFile(path string, m *render.Map) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.Render(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
