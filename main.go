package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"croprec/config"
	qhttp "croprec/http"
	"croprec/logging"
	"croprec/ml"
	"croprec/monitoring"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to config.yaml")
	flag.Parse()

	// 1. Load config
	cfg, err := config.Load(config.Find(*configPath))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// 2. Load artifacts; the server cannot exist without all three
	metrics := monitoring.NewMetrics()
	start := time.Now()
	store := ml.NewArtifactStore(cfg.Artifacts)
	artifacts, err := store.Load()
	if err != nil {
		logger.Fatal("Failed to load artifacts", zap.Error(err))
	}
	metrics.ArtifactLoadSeconds.Set(time.Since(start).Seconds())
	if artifacts.IsPlaceholder() {
		logger.Warn("Placeholder artifacts loaded, recommendations do not come from a fitted model; export real ones with scripts/export_artifacts.py",
			zap.Any("artifacts", artifacts.Placeholders))
	}

	pipeline, err := ml.NewPipeline(artifacts, ml.WithCache(cfg.Pipeline.CacheSize))
	if err != nil {
		logger.Fatal("Failed to build pipeline", zap.Error(err))
	}
	logger.Info("Artifacts loaded",
		zap.String("scaler", cfg.Artifacts.Scaler),
		zap.String("model", cfg.Artifacts.Model),
		zap.String("labels", cfg.Artifacts.Labels),
		zap.Strings("crops", pipeline.Classes()),
		zap.Duration("elapsed", time.Since(start)),
	)

	// 3. Start HTTP server
	server := qhttp.NewServer(qhttp.ServerConfig{
		Addr:           cfg.Http.Addr,
		Timeout:        cfg.Http.Timeout,
		MaxRequestSize: cfg.Http.MaxRequestSize,
	}, pipeline, logger, metrics)
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 4. Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	if err := server.Stop(); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Exiting")
}
