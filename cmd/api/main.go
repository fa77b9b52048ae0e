// Command api serves the bank-text ingestion API: message submission
// from SMS/notification capture layers, the candidate review queue,
// and runtime institution registration.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spendwise/banktext-backend/internal/api"
	"github.com/spendwise/banktext-backend/internal/application/ingest"
	"github.com/spendwise/banktext-backend/internal/domain/extractor"
	"github.com/spendwise/banktext-backend/internal/domain/matcher"
	"github.com/spendwise/banktext-backend/internal/infrastructure/config"
	"github.com/spendwise/banktext-backend/internal/infrastructure/logging"
	"github.com/spendwise/banktext-backend/internal/infrastructure/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	port := flag.Int("port", 0, "override server port")
	dbPath := flag.String("db", "", "override database path")
	flag.Parse()

	cfg := config.LoadOrEnv(*configPath)
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Storage.DatabasePath = *dbPath
	}

	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "api")

	repo, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("failed to open storage", "path", cfg.Storage.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	reg, err := cfg.BuildRegistry()
	if err != nil {
		logger.Error("failed to build registry", "error", err)
		os.Exit(1)
	}

	ext := extractor.New(reg, extractor.Config{
		GenericFallback: cfg.Extraction.GenericFallback,
	}, logger)
	m := matcher.NewMatcher(cfg.Matching.ToMatcherConfig())
	pipeline := ingest.NewPipeline(ext, m, repo, logger)

	server := api.NewServer(api.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, repo, pipeline, reg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting",
		"db", cfg.Storage.DatabasePath,
		"institutions", reg.Len(),
	)
	if err := server.Start(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
