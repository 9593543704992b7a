package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nfe-tools/nf-indexer/constants"
	"github.com/nfe-tools/nf-indexer/internal/batch"
	"github.com/nfe-tools/nf-indexer/internal/entity"
	"github.com/nfe-tools/nf-indexer/internal/extract"
	"github.com/nfe-tools/nf-indexer/internal/ingest"
	"github.com/nfe-tools/nf-indexer/internal/repository"
	"github.com/nfe-tools/nf-indexer/internal/validate"
)

// InvoiceHandler handles HTTP requests for invoice extraction and batches.
type InvoiceHandler struct {
	engine       *extract.Engine
	orchestrator *batch.Orchestrator
	repo         repository.InvoiceRepository // nil when no store is configured
	logger       *slog.Logger
}

func NewInvoiceHandler(engine *extract.Engine, orch *batch.Orchestrator, repo repository.InvoiceRepository, logger *slog.Logger) *InvoiceHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &InvoiceHandler{engine: engine, orchestrator: orch, repo: repo, logger: logger}
}

// RegisterRoutes registers the handler's routes with the given router
func (h *InvoiceHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/v1/invoices/extract", h.ExtractInvoice)
	router.POST("/v1/batches", h.RunBatch)
	router.GET("/v1/invoices", h.ListInvoices)
}

type extractRequest struct {
	Text     string `json:"text" binding:"required"`
	Filename string `json:"filename"`
}

type extractResponse struct {
	Invoice entity.ParsedInvoice       `json:"invoice"`
	Items   []entity.LineItem          `json:"items"`
	Flags   []constants.ValidationFlag `json:"flags"`
}

// ExtractInvoice runs the extraction engine over raw OCR text posted by the
// caller and returns the structured record, its line items and the advisory
// validation flags.
func (h *InvoiceHandler) ExtractInvoice(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.Filename == "" {
		req.Filename = "upload.txt"
	}

	sum := sha256.Sum256([]byte(req.Text))
	inv, items := h.engine.Parse(req.Text, req.Filename, hex.EncodeToString(sum[:]))
	res := validate.Check(inv, time.Now())

	if items == nil {
		items = []entity.LineItem{}
	}
	if res.Flags == nil {
		res.Flags = []constants.ValidationFlag{}
	}
	respondOK(c, extractResponse{Invoice: inv, Items: items, Flags: res.Flags})
}

type batchRequest struct {
	Dir     string `json:"dir" binding:"required"`
	Persist bool   `json:"persist"`
}

type batchResponse struct {
	BatchID   string          `json:"batch_id"`
	Attempted int             `json:"attempted"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Failures  []batch.Failure `json:"failures,omitempty"`
}

// RunBatch discovers documents under the posted directory, fans the pipeline
// out over them and optionally persists the results.
func (h *InvoiceHandler) RunBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	paths, stats, err := ingest.DiscoverDirectory(req.Dir, nil, true)
	if err != nil {
		respondBadRequest(c, "discover: "+err.Error())
		return
	}
	h.logger.Info("batch requested", "dir", req.Dir, "matched", stats.Matched)

	res := h.orchestrator.Process(c.Request.Context(), paths)

	if req.Persist && h.repo != nil {
		for _, rec := range res.Records {
			if _, err := h.repo.SaveInvoice(c.Request.Context(), rec.Invoice, rec.Items, rec.Validation.Flags); err != nil {
				h.logger.Error("persist invoice failed", "arquivo", rec.Invoice.Arquivo, "error", err)
			}
		}
	}

	respondOK(c, batchResponse{
		BatchID:   res.BatchID.String(),
		Attempted: res.Attempted,
		Succeeded: res.Succeeded,
		Failed:    res.Failed,
		Failures:  res.Failures,
	})
}

// ListInvoices returns stored invoices, optionally filtered by ?tipo=.
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	if h.repo == nil {
		respondInternalServerError(c, "no index store configured")
		return
	}
	var tipo *constants.DocType
	if t := c.Query("tipo"); t != "" {
		dt := constants.DocType(t)
		tipo = &dt
	}
	invs, err := h.repo.ListInvoices(c.Request.Context(), tipo, 0)
	if err != nil {
		respondInternalServerError(c, "list invoices: "+err.Error())
		return
	}
	if invs == nil {
		invs = []entity.ParsedInvoice{}
	}
	respondOK(c, invs)
}
