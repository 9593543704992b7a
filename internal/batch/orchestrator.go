package batch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nfe-tools/nf-indexer/internal/common"
	"github.com/nfe-tools/nf-indexer/internal/entity"
	"github.com/nfe-tools/nf-indexer/internal/extract"
	"github.com/nfe-tools/nf-indexer/internal/ocr"
	"github.com/nfe-tools/nf-indexer/internal/validate"
)

// Status is the per-item state. Items only move forward: Pending ->
// Processing -> Succeeded | Failed. There is no retry within one batch.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusSucceeded  Status = "SUCCEEDED"
	StatusFailed     Status = "FAILED"
)

// Record is one successfully extracted document.
type Record struct {
	Invoice    entity.ParsedInvoice
	Items      []entity.LineItem
	Validation entity.ValidationResult
}

// Failure records one item that could not be processed. Failures are terminal
// for the item and never abort the batch.
type Failure struct {
	Path   string
	Reason string
}

// Result aggregates a batch run. Records are in completion order, not input
// order; callers needing stable ordering re-sort by Invoice.Arquivo.
type Result struct {
	BatchID   uuid.UUID
	Attempted int
	Succeeded int
	Failed    int
	Records   []Record
	Failures  []Failure
	Duration  time.Duration
}

type Orchestrator struct {
	ocr       *ocr.Extractor
	engine    *extract.Engine
	logger    *slog.Logger
	workers   int
	queueSize int
	timeout   time.Duration
	now       func() time.Time
}

type Option func(*Orchestrator)

func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithQueueSize sets the job channel buffer, decoupling the feeder from slow
// workers up to n pending items.
func WithQueueSize(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.queueSize = n
		}
	}
}

func WithItemTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

func NewOrchestrator(ocrx *ocr.Extractor, engine *extract.Engine, logger *slog.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	o := &Orchestrator{
		ocr:       ocrx,
		engine:    engine,
		logger:    logger,
		workers:   4,
		queueSize: 256,
		timeout:   3 * time.Minute,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Process fans the single-document pipeline out over paths with a fixed-size
// worker pool. Workers share no mutable state; results are collected over a
// channel in completion order. A failed item is recorded and excluded from
// aggregate output; the batch itself never fails because items did.
func (o *Orchestrator) Process(ctx context.Context, paths []string) Result {
	start := time.Now()
	res := Result{BatchID: uuid.New(), Attempted: len(paths)}
	if len(paths) == 0 {
		return res
	}

	jobs := make(chan string, o.queueSize)
	type outcome struct {
		rec  *Record
		fail *Failure
	}
	results := make(chan outcome)

	var wg sync.WaitGroup
	for i := 0; i < o.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for path := range jobs {
				o.logger.Debug("item processing", "worker_id", workerID, "path", path, "status", StatusProcessing)
				itemCtx, cancel := context.WithTimeout(ctx, o.timeout)
				rec, err := o.processOne(itemCtx, path)
				cancel()
				if err != nil {
					o.logger.Error("item failed", "worker_id", workerID, "path", path, "error", err)
					results <- outcome{fail: &Failure{Path: path, Reason: err.Error()}}
					continue
				}
				results <- outcome{rec: rec}
			}
		}(i + 1)
	}

	go func() {
		for _, p := range paths {
			jobs <- p
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	for out := range results {
		if out.fail != nil {
			res.Failed++
			res.Failures = append(res.Failures, *out.fail)
			continue
		}
		res.Succeeded++
		res.Records = append(res.Records, *out.rec)
	}

	res.Duration = time.Since(start)
	o.logger.Info("batch finished",
		"batch_id", res.BatchID,
		"attempted", res.Attempted,
		"succeeded", res.Succeeded,
		"failed", res.Failed,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res
}

// processOne runs the full single-document pipeline: hash -> OCR candidates ->
// best candidate -> field extraction -> validation.
func (o *Orchestrator) processOne(ctx context.Context, path string) (*Record, error) {
	hashHex, err := hashFile(path)
	if err != nil {
		return nil, common.WrapError(err, "hash source")
	}

	ocrRes, err := o.ocr.Extract(ctx, path)
	if err != nil {
		return nil, common.WrapError(err, "ocr")
	}
	best, ok := ocr.BestCandidate(ocrRes.Candidates)
	if !ok {
		return nil, fmt.Errorf("%w in %s", common.ErrNoText, filepath.Base(path))
	}

	inv, items := o.engine.Parse(best.Text, filepath.Base(path), hashHex)
	return &Record{
		Invoice:    inv,
		Items:      items,
		Validation: validate.Check(inv, o.now()),
	}, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = f.Close()
	}()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
