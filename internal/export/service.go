package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/nfe-tools/nf-indexer/internal/batch"
	"github.com/nfe-tools/nf-indexer/internal/entity"
)

// IndexColumns is the column order of the invoice index outputs, shared by
// the XLSX and CSV writers.
var IndexColumns = []string{
	"arquivo", "tipo", "chave_acesso", "numero_nf", "serie", "data_emissao",
	"cnpj_emitente", "razao_emitente_guess", "cnpj_destinatario",
	"razao_destinatario_guess", "uf", "valor_total", "sha256", "itens_raw",
}

// ItemColumns is the column order of the line-item outputs.
var ItemColumns = []string{
	"chave_acesso", "arquivo", "ncm", "cfop", "qtd", "vl_unit", "vl_total", "linha_ocr",
}

// Service writes a batch result to the output directory: XLSX workbooks, CSV
// twins, one validated JSON document per invoice, and the summary pivots.
type Service struct {
	outDir string
	logger *slog.Logger
}

func NewService(outDir string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{outDir: outDir, logger: logger}
}

// WriteAll renders every output format for the batch. Records are sorted by
// source file so reruns produce identical files regardless of completion order.
func (s *Service) WriteAll(res batch.Result) error {
	start := time.Now()
	if err := os.MkdirAll(s.outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	records := make([]batch.Record, len(res.Records))
	copy(records, res.Records)
	sort.Slice(records, func(i, j int) bool {
		return records[i].Invoice.Arquivo < records[j].Invoice.Arquivo
	})

	if err := s.writeWorkbooks(records); err != nil {
		return err
	}
	if err := s.writeCSVs(records); err != nil {
		return err
	}
	if err := s.writeJSON(records); err != nil {
		return err
	}
	if err := s.writeSummaries(records); err != nil {
		return err
	}

	s.logger.Info("exports written",
		"dir", s.outDir,
		"invoices", len(records),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func indexRow(inv entity.ParsedInvoice) []any {
	return []any{
		inv.Arquivo, string(inv.Tipo), strPtr(inv.ChaveAcesso), strPtr(inv.NumeroNF),
		strPtr(inv.Serie), strPtr(inv.DataEmissao), strPtr(inv.CNPJEmitente),
		strPtr(inv.RazaoEmitente), strPtr(inv.CNPJDestinatario), strPtr(inv.RazaoDestinatario),
		strPtr(inv.UF), floatPtr(inv.ValorTotal), inv.SHA256, strPtr(inv.ItensRaw),
	}
}

func itemRow(it entity.LineItem) []any {
	return []any{
		strPtr(it.ChaveAcesso), it.Arquivo, strPtr(it.NCM), strPtr(it.CFOP),
		floatPtr(it.Quantidade), floatPtr(it.ValorUnit), floatPtr(it.ValorTotal), it.LinhaOCR,
	}
}

func flagsCell(rec batch.Record) string {
	parts := make([]string, 0, len(rec.Validation.Flags))
	for _, f := range rec.Validation.Flags {
		parts = append(parts, string(f))
	}
	return strings.Join(parts, ";")
}

func strPtr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func floatPtr(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func (s *Service) path(name string) string {
	return filepath.Join(s.outDir, name)
}
