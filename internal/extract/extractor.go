package extract

import (
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/nfe-tools/nf-indexer/internal/entity"
	"github.com/nfe-tools/nf-indexer/internal/ocr"
)

var reUF = regexp.MustCompile(`\b(AC|AL|AP|AM|BA|CE|DF|ES|GO|MA|MT|MS|MG|PA|PB|PR|PE|PI|RJ|RN|RS|RO|RR|SC|SP|SE|TO)\b`)

// Config carries the tunable parts of the engine. Zero values fall back to
// the package defaults; pattern lists are explicit values so tests can
// enumerate and reorder them without touching extractor logic.
type Config struct {
	ItemsStartKeys []string
	ItemsEndKeys   []string
	Now            func() time.Time
}

// Engine turns one document's normalized OCR text into a structured invoice
// record plus its line items. Parsing is a pure function of its inputs:
// identical text, filename and hash always produce identical output.
type Engine struct {
	cfg    Config
	logger *slog.Logger
}

func NewEngine(cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.ItemsStartKeys) == 0 {
		cfg.ItemsStartKeys = ItemsStartKeys
	}
	if len(cfg.ItemsEndKeys) == 0 {
		cfg.ItemsEndKeys = ItemsEndKeys
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Engine{cfg: cfg, logger: logger}
}

// Parse extracts the invoice record and line items from raw OCR text.
// Every field degrades independently to absent on no match; Parse never fails.
func (e *Engine) Parse(text, arquivo, sha256Hex string) (entity.ParsedInvoice, []entity.LineItem) {
	norm := ocr.Normalize(text)
	upper := strings.ToUpper(norm)
	upperNoSpace := strings.ReplaceAll(upper, " ", "")
	lines := ocr.NonEmptyLines(norm)

	inv := entity.ParsedInvoice{
		Tipo:        ClassifyDocType(upper),
		ChaveAcesso: FindAccessKey(upperNoSpace),
		NumeroNF:    FindDocumentNumber(upper),
		Serie:       FindSeries(upper),
		DataEmissao: FindIssuanceDate(upper, e.cfg.Now()),
		ValorTotal:  FindTotalValue(upper),
		Arquivo:     arquivo,
		SHA256:      sha256Hex,
	}

	if cnpjs := FindCNPJs(upper); len(cnpjs) > 0 {
		inv.CNPJEmitente = &cnpjs[0]
		if len(cnpjs) > 1 {
			inv.CNPJDestinatario = &cnpjs[1]
		}
	}
	inv.RazaoEmitente, inv.RazaoDestinatario = PartyNames(lines)

	for _, ln := range lines {
		if m := reUF.FindStringSubmatch(strings.ToUpper(ln)); m != nil {
			inv.UF = &m[1]
			break
		}
	}

	inv.ItensRaw = ExtractBlock(norm, e.cfg.ItemsStartKeys, e.cfg.ItemsEndKeys)
	items := ParseItems(inv.ItensRaw, inv.ChaveAcesso, arquivo)

	e.logger.Debug("parsed invoice",
		"arquivo", arquivo,
		"tipo", inv.Tipo,
		"chave", inv.ChaveAcesso != nil,
		"valor", inv.ValorTotal != nil,
		"items", len(items),
	)
	return inv, items
}
