package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/c360studio/vibeshift/config"
	"github.com/c360studio/vibeshift/grounding"
	"github.com/c360studio/vibeshift/llm"
	"github.com/c360studio/vibeshift/metric"
	"github.com/c360studio/vibeshift/model"
	"github.com/c360studio/vibeshift/platform"
	"github.com/c360studio/vibeshift/rank"
	"github.com/c360studio/vibeshift/rewrite"
	"github.com/c360studio/vibeshift/server"
)

func serveCmd(configPath, logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*configPath, *logLevel)
		},
	}
}

func runServe(configPath, logLevel string) error {
	logger := setupLogging(logLevel)

	cfg, err := loadConfig(configPath, logger)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	registry := model.NewDefaultRegistry()
	if err := cfg.ApplyToRegistry(registry); err != nil {
		return fmt.Errorf("apply model config: %w", err)
	}

	metrics := metric.NewRecorder(prometheus.DefaultRegisterer)

	client := llm.NewClient(registry,
		llm.WithTimeout(cfg.Model.Timeout),
		llm.WithLogger(logger),
	)

	store, nc, err := buildStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if nc != nil {
		defer nc.Close()
	}

	if count, err := grounding.SeedDefaults(ctx, store); err != nil {
		logger.Warn("Failed to seed default guidelines", "error", err)
	} else {
		logger.Info("Seeded default guidelines", "count", count)
	}

	if cfg.Grounding.SeedDir != "" {
		ingester := grounding.NewIngester(logger)
		if count, err := ingester.IngestDir(ctx, store, cfg.Grounding.SeedDir, grounding.DefaultGlob); err != nil {
			logger.Warn("Failed to ingest guideline directory", "dir", cfg.Grounding.SeedDir, "error", err)
		} else {
			logger.Info("Ingested guideline directory", "dir", cfg.Grounding.SeedDir, "count", count)
		}

		if cfg.Grounding.Watch {
			watcher, err := grounding.NewWatcher(grounding.WatcherConfig{
				Root:   cfg.Grounding.SeedDir,
				Logger: logger,
			}, store, ingester)
			if err != nil {
				return fmt.Errorf("create guideline watcher: %w", err)
			}
			if err := watcher.Start(ctx); err != nil {
				return fmt.Errorf("start guideline watcher: %w", err)
			}
			defer watcher.Stop()
		}
	}

	groundingClient := grounding.NewClient(store,
		grounding.WithLogger(logger),
		grounding.WithMetrics(metrics),
	)

	rules := platform.NewStaticRules(cfg.Platforms)

	var tiers []rewrite.Tier
	for _, endpoint := range registry.GetFallbackChain(model.CapabilityRewrite) {
		tiers = append(tiers, rewrite.NewProviderTier(endpoint, client, endpoint, cfg.Model.Temperature))
	}
	generator := rewrite.NewGenerator(tiers,
		rewrite.WithGrounding(groundingClient),
		rewrite.WithTopK(cfg.Grounding.TopK),
		rewrite.WithRules(rules),
		rewrite.WithGeneratorLogger(logger),
		rewrite.WithGeneratorMetrics(metrics),
	)

	var toneModel string
	if chain := registry.GetFallbackChain(model.CapabilityTone); len(chain) > 0 {
		toneModel = chain[0]
	}
	toneAnalyzer := rewrite.NewToneAnalyzer(client, toneModel, rewrite.WithToneLogger(logger))

	ranker := rank.NewRanker(client, registry.GetFallbackChain(model.CapabilityJudge),
		rank.WithLogger(logger),
		rank.WithMetrics(metrics),
	)

	srv := server.New(generator, toneAnalyzer, ranker,
		server.WithStore(store),
		server.WithRules(rules),
		server.WithLogger(logger),
		server.WithMetrics(metrics),
	)

	mux := http.NewServeMux()
	srv.RegisterHandlers(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", cfg.Server.Addr, "version", Version)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Received shutdown signal")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down HTTP server", "error", err)
	}

	logger.Info("Vibeshift shutdown complete")
	return nil
}

// buildStore creates the grounding store: NATS-backed when a URL is
// configured, in-memory otherwise. The returned connection is nil for
// the in-memory case.
func buildStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (grounding.Store, *nats.Conn, error) {
	if cfg.Grounding.NATSURL == "" {
		logger.Info("Using in-memory grounding store")
		return grounding.NewMemoryStore(), nil, nil
	}

	logger.Info("Connecting to NATS", "url", cfg.Grounding.NATSURL)
	nc, err := nats.Connect(cfg.Grounding.NATSURL,
		nats.Name(appName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, nil, wrapNATSError(err, cfg.Grounding.NATSURL)
	}

	store, err := grounding.NewKVStore(ctx, nc, cfg.Grounding.Bucket, grounding.WithKVLogger(logger))
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("create grounding KV store: %w", err)
	}
	return store, nc, nil
}

// wrapNATSError provides helpful guidance when NATS connection fails.
func wrapNATSError(err error, url string) error {
	return fmt.Errorf(`NATS connection failed: %w

NATS is not reachable at %s.

To start NATS:
  docker compose up -d nats

Or clear grounding.nats_url to use the in-memory store.`, err, url)
}
