package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nickagee13/pantry-path/internal/api"
	"github.com/nickagee13/pantry-path/internal/auth"
	"github.com/nickagee13/pantry-path/internal/config"
	"github.com/nickagee13/pantry-path/internal/engine"
	"github.com/nickagee13/pantry-path/internal/monitoring"
	"github.com/nickagee13/pantry-path/internal/remote"
	"github.com/nickagee13/pantry-path/internal/store"
	"github.com/nickagee13/pantry-path/internal/suggest"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.HTTPPort = *port
	}
	if *metricsPort != 0 {
		cfg.MetricsPort = *metricsPort
	}

	db, err := remote.OpenDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	client := remote.NewDBClient(db)
	provider := auth.NewMemoryProvider()
	metrics := monitoring.New()

	eng := engine.New(store.New(), client, provider, metrics)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eng.Start(ctx)
	defer eng.Close()

	var suggester *suggest.Suggester
	if cfg.OpenAIKey != "" {
		suggester, err = suggest.NewOpenAI(cfg.OpenAIKey)
		if err != nil {
			log.Fatalf("Failed to initialize suggester: %v", err)
		}
	}

	server := api.NewServer(eng, client, provider, suggester, cfg.JWTSecret)

	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: server.Router,
	}
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", metrics.Handler())
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler: metricsMux,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting API server", slog.Int("port", cfg.HTTPPort))
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("Starting metrics server", slog.Int("port", cfg.MetricsPort))
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-sigChan:
		case <-gctx.Done():
			return gctx.Err()
		}

		logger.Info("Shutting down servers")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("API server shutdown error", slog.String("error", err.Error()))
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics server shutdown error", slog.String("error", err.Error()))
		}
		cancel()
		return nil
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Fatalf("Server error: %v", err)
	}
}
