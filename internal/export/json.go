package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nfe-tools/nf-indexer/constants"
	"github.com/nfe-tools/nf-indexer/internal/batch"
	"github.com/nfe-tools/nf-indexer/internal/entity"
)

type invoiceDocument struct {
	entity.ParsedInvoice
	Flags []constants.ValidationFlag `json:"flags"`
}

// writeJSON emits one JSON document per invoice under <out>/json/, validated
// against the record schema before hitting disk. A record that fails
// validation is skipped with an error log; it does not abort the export.
func (s *Service) writeJSON(records []batch.Record) error {
	dir := s.path("json")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create json dir: %w", err)
	}
	schemaMap := BuildInvoiceJSONSchema()

	for _, rec := range records {
		doc := invoiceDocument{ParsedInvoice: rec.Invoice, Flags: rec.Validation.Flags}
		if doc.Flags == nil {
			doc.Flags = []constants.ValidationFlag{}
		}
		b, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}
		if err := ValidateJSONAgainstSchema(schemaMap, b); err != nil {
			s.logger.Error("invoice record failed schema validation",
				"arquivo", rec.Invoice.Arquivo, "error", err)
			continue
		}
		name := filepath.Join(dir, rec.Invoice.Arquivo+".json")
		if err := os.WriteFile(name, b, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}
