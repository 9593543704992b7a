package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/nfe-tools/nf-indexer/internal/batch"
	"github.com/nfe-tools/nf-indexer/internal/common"
	"github.com/nfe-tools/nf-indexer/internal/export"
	"github.com/nfe-tools/nf-indexer/internal/extract"
	"github.com/nfe-tools/nf-indexer/internal/ingest"
	"github.com/nfe-tools/nf-indexer/internal/ocr"
	"github.com/nfe-tools/nf-indexer/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir     = flag.String("dir", "", "directory to index fiscal documents from (required)")
		out     = flag.String("out", "", "output directory (defaults to OUTPUT_DIR or saida_nf)")
		workers = flag.Int("workers", 0, "worker pool size (defaults to BATCH_WORKERS)")
		dbDSN   = flag.String("db", "", "index store DSN (postgres://... or a sqlite path; empty = no store)")
		inmem   = flag.Bool("inmem", false, "use an in-memory SQLite index store")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()
	cfg := common.LoadConfig()
	if *out == "" {
		*out = cfg.Export.OutputDir
	}
	if *workers <= 0 {
		*workers = cfg.Batch.Workers
	}

	paths, stats, err := ingest.DiscoverDirectory(*dir, nil, true)
	if err != nil {
		logger.Error("failed to discover documents", "dir", *dir, "error", err)
		os.Exit(1)
	}
	logger.Info("documents discovered",
		"dir", *dir, "scanned", stats.Scanned, "matched", stats.Matched, "skipped", stats.Skipped)
	if len(paths) == 0 {
		printError("Error: no processable documents under %s\n", *dir)
		os.Exit(1)
	}

	extractor := ocr.NewExtractor(ocr.Config{
		Tesseract:     cfg.OCR.Tesseract,
		Pdftotext:     cfg.OCR.Pdftotext,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		TesseractLang: cfg.OCR.TesseractLang,
		TessdataDir:   cfg.OCR.TessdataDir,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
	}, logger)
	engine := extract.NewEngine(extract.Config{}, logger)

	orch := batch.NewOrchestrator(extractor, engine, logger,
		batch.WithWorkers(*workers),
		batch.WithQueueSize(cfg.Batch.QueueSize),
		batch.WithItemTimeout(cfg.Batch.Timeout),
	)
	result := orch.Process(ctx, paths)

	if result.Succeeded == 0 {
		logger.Error("nothing processed", "attempted", result.Attempted, "failed", result.Failed)
		os.Exit(1)
	}

	// Persist to the index store when one is configured
	if *inmem || *dbDSN != "" || cfg.Database.DSN != "" {
		dsn := *dbDSN
		if dsn == "" {
			dsn = cfg.Database.DSN
		}
		if *inmem {
			dsn = ""
		}
		dbCfg := repository.Config{
			DSN:              dsn,
			MaxConns:         cfg.Database.MaxConns,
			MinConns:         cfg.Database.MinConns,
			MaxConnLifetime:  cfg.Database.MaxConnLifetime,
			MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
			DialTimeout:      cfg.Database.DialTimeout,
			StatementTimeout: cfg.Database.StatementTimeout,
		}
		db, err := repository.Open(ctx, dbCfg, logger)
		if err != nil {
			logger.Error("failed to open index store", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		repo := repository.NewInvoiceRepository(db, logger)
		for _, rec := range result.Records {
			if _, err := repo.SaveInvoice(ctx, rec.Invoice, rec.Items, rec.Validation.Flags); err != nil {
				logger.Error("persist invoice failed", "arquivo", rec.Invoice.Arquivo, "error", err)
			}
		}
	}

	exporter := export.NewService(*out, logger)
	if err := exporter.WriteAll(result); err != nil {
		logger.Error("failed to write exports", "error", err)
		os.Exit(1)
	}

	fmt.Printf("[OK] %d/%d documents processed (%d failed). Output: %s/\n",
		result.Succeeded, result.Attempted, result.Failed, *out)
}
