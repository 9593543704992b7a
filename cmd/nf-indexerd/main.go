package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/nfe-tools/nf-indexer/internal/batch"
	"github.com/nfe-tools/nf-indexer/internal/common"
	"github.com/nfe-tools/nf-indexer/internal/extract"
	"github.com/nfe-tools/nf-indexer/internal/handler"
	"github.com/nfe-tools/nf-indexer/internal/ocr"
	"github.com/nfe-tools/nf-indexer/internal/repository"
	"github.com/nfe-tools/nf-indexer/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()
	cfg := common.LoadConfig()

	db, err := repository.Open(ctx, repository.Config{
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, logger)
	if err != nil {
		logger.Error("failed to open index store", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	repo := repository.NewInvoiceRepository(db, logger)

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
		batch.WithWorkers(cfg.Batch.Workers),
		batch.WithQueueSize(cfg.Batch.QueueSize),
		batch.WithItemTimeout(cfg.Batch.Timeout),
	)

	invoices := handler.NewInvoiceHandler(engine, orch, repo, logger)
	srv := server.New(cfg.Server, invoices, logger)
	if err := srv.Start(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
