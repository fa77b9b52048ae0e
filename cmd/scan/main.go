// Command scan runs a batch of captured messages through the pipeline
// offline. Input is a JSON array exported by a capture layer:
//
//	[{"source":"sms","source_id":"REVOLUT","body":"...","timestamp_ms":1709625600000}]
//
// Useful for backfilling a device export or replaying a day of
// messages against a fresh tolerance configuration.
package main

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/spendwise/banktext-backend/internal/application/ingest"
	"github.com/spendwise/banktext-backend/internal/domain/extractor"
	"github.com/spendwise/banktext-backend/internal/domain/matcher"
	"github.com/spendwise/banktext-backend/internal/domain/transaction"
	"github.com/spendwise/banktext-backend/internal/infrastructure/config"
	"github.com/spendwise/banktext-backend/internal/infrastructure/logging"
	"github.com/spendwise/banktext-backend/internal/infrastructure/storage"
)

type capturedMessage struct {
	Source          string `json:"source"`
	SourceID        string `json:"source_id"`
	Title           string `json:"title"`
	Body            string `json:"body"`
	TimestampMillis int64  `json:"timestamp_ms"`
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	inputPath := flag.String("input", "", "JSON file of captured messages (required)")
	dbPath := flag.String("db", "", "override database path")
	flag.Parse()

	cfg := config.LoadOrEnv(*configPath)
	if *dbPath != "" {
		cfg.Storage.DatabasePath = *dbPath
	}

	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "scan")

	if *inputPath == "" {
		logger.Error("missing -input flag")
		os.Exit(2)
	}

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		logger.Error("failed to read input", "path", *inputPath, "error", err)
		os.Exit(1)
	}

	var captured []capturedMessage
	if err := json.Unmarshal(data, &captured); err != nil {
		logger.Error("failed to parse input", "error", err)
		os.Exit(1)
	}

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

	msgs := make([]extractor.Message, 0, len(captured))
	for _, cm := range captured {
		source := transaction.SourceSMS
		if cm.Source == string(transaction.SourceNotification) {
			source = transaction.SourceNotification
		}
		msgs = append(msgs, extractor.Message{
			SourceID:        cm.SourceID,
			Title:           cm.Title,
			Body:            cm.Body,
			TimestampMillis: cm.TimestampMillis,
			Source:          source,
		})
	}

	counts, err := pipeline.ProcessBatch("scan", msgs)
	if err != nil {
		logger.Error("batch failed", "error", err)
		os.Exit(1)
	}

	logger.Info("scan finished",
		"received", counts.Received,
		"pending", counts.Pending,
		"reconciled", counts.Reconciled,
		"duplicates", counts.Duplicates,
		"unparseable", counts.Unparseable,
		"ignored", counts.Ignored,
	)
}
