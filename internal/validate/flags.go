package validate

import (
	"time"

	"github.com/nfe-tools/nf-indexer/constants"
	"github.com/nfe-tools/nf-indexer/internal/entity"
)

// Check derives the advisory flag set for an extracted invoice. Pure function
// of the record (plus the clock for future-date detection); flags never block
// downstream processing. An empty set means the record is structurally
// complete.
func Check(inv entity.ParsedInvoice, now time.Time) entity.ValidationResult {
	var flags []constants.ValidationFlag

	if inv.ChaveAcesso == nil {
		flags = append(flags, constants.FlagMissingAccessKey)
	}
	if inv.CNPJEmitente == nil {
		flags = append(flags, constants.FlagMissingIssuerID)
	}
	if inv.DataEmissao == nil {
		flags = append(flags, constants.FlagMissingDate)
	}
	if inv.ValorTotal == nil {
		flags = append(flags, constants.FlagMissingTotal)
	} else if *inv.ValorTotal == 0 {
		flags = append(flags, constants.FlagZeroTotal)
	}

	if inv.DataEmissao != nil {
		d, err := time.ParseInLocation("2006-01-02", *inv.DataEmissao, time.UTC)
		if err != nil {
			flags = append(flags, constants.FlagInvalidDate)
		} else {
			today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
			if d.After(today) {
				flags = append(flags, constants.FlagFutureDate)
			}
			if d.Year() < constants.EarliestPlausibleYear {
				flags = append(flags, constants.FlagAncientDate)
			}
		}
	}

	return entity.ValidationResult{Flags: flags}
}
