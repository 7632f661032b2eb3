package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yegors/navlog/internal/api"
	"github.com/yegors/navlog/internal/config"
	"github.com/yegors/navlog/internal/extraction"
	"github.com/yegors/navlog/internal/navlog"
	"github.com/yegors/navlog/internal/release"
	"github.com/yegors/navlog/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting navlog server",
		logger.String("host", cfg.Server.Host),
		logger.Int("port", cfg.Server.Port),
	)

	// Core pipeline
	parser := navlog.NewParser(cfg.Parsing.RowYTolerance, cfg.Parsing.CellGapXMax, log)
	engine := navlog.NewDerivationEngine(log)
	releaseService := release.NewService(parser, engine, cfg.Parsing.LandingFuelUnit, log)

	// External document-to-text collaborator
	extractor := extraction.NewClient(
		cfg.Extraction.BaseURL,
		time.Duration(cfg.Extraction.RequestTimeoutSeconds)*time.Second,
		cfg.Extraction.MaxRetries,
		log,
	)

	router := api.NewRouter(releaseService, extractor, cfg, log)

	server := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:     router.Routes(),
		ReadTimeout: time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
	}

	// Serve until interrupted
	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Error("Server error", logger.Error(err))
	case sig := <-stop:
		log.Info("Shutting down", logger.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", logger.Error(err))
	}
}
