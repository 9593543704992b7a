package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/nfe-tools/nf-indexer/internal/entity"
)

var (
	reNCM8      = regexp.MustCompile(`\b(\d{8})\b`)
	reNCMDotted = regexp.MustCompile(`\b(\d{4}\.\d{2}\.\d{2})\b`)
	reCFOP      = regexp.MustCompile(`\b([1256]\d{3})\b`)
	reCFOPLabel = regexp.MustCompile(`\bCFOP\s*[:\-]?\s*(\d{4})\b`)

	reColumns   = regexp.MustCompile(`\s{3,}`)
	reQtyLabel  = regexp.MustCompile(`\bQTDE?\b`)
	reQtyInline = regexp.MustCompile(`\bQTDE?\s*[:\-]?\s*([0-9]+[,.]?\d*)\b`)
	reUnitValue = regexp.MustCompile(`VL?\.?\s*UNITA?R?IO?\s*[:\-]?\s*([0-9.,]+)`)
	reTotValue  = regexp.MustCompile(`(?:VL?\.?\s*TOTAL|V\.?\s*TOTAL)\s*[:\-]?\s*([0-9.,]+)`)

	reNumericJunk = regexp.MustCompile(`[^0-9.,]`)
)

// ParseItems decomposes an items block into structured line items. Every
// non-empty line contributes one LineItem even when no field is recognized:
// the raw line is always preserved for audit. A nil block yields an empty
// slice, never an error.
func ParseItems(block *string, chave *string, arquivo string) []entity.LineItem {
	if block == nil {
		return nil
	}
	var items []entity.LineItem
	for _, raw := range strings.Split(*block, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		items = append(items, parseItemLine(line, chave, arquivo))
	}
	return items
}

func parseItemLine(line string, chave *string, arquivo string) entity.LineItem {
	u := strings.ToUpper(line)
	item := entity.LineItem{
		ChaveAcesso: chave,
		Arquivo:     arquivo,
		LinhaOCR:    line,
	}

	// NCM: 8 straight digits or the dotted 4.2.2 grouping
	if m := reNCM8.FindStringSubmatch(u); m != nil {
		item.NCM = &m[1]
	} else if m := reNCMDotted.FindStringSubmatch(u); m != nil {
		ncm := strings.ReplaceAll(m[1], ".", "")
		item.NCM = &ncm
	}

	// CFOP: known leading-digit prefixes, or explicitly labeled
	if m := reCFOP.FindStringSubmatch(u); m != nil {
		item.CFOP = &m[1]
	} else if m := reCFOPLabel.FindStringSubmatch(u); m != nil {
		item.CFOP = &m[1]
	}

	// quantity and values: labeled columns first (3+ spaces between them);
	// a line with no column structure only gets the label-anchored fallbacks
	if cols := reColumns.Split(line, -1); len(cols) > 1 {
		for _, col := range cols {
			col = strings.TrimSpace(col)
			if col == "" {
				continue
			}
			cu := strings.ToUpper(col)
			if item.Quantidade == nil && reQtyLabel.MatchString(cu) {
				item.Quantidade = parseQuantity(reNumericJunk.ReplaceAllString(col, ""))
			}
			if item.ValorUnit == nil && strings.Contains(cu, "UNIT") {
				item.ValorUnit = ParseMoney(reNumericJunk.ReplaceAllString(col, ""))
			}
			if item.ValorTotal == nil && (strings.Contains(cu, "TOTAL") || strings.Contains(cu, "V.TOT")) {
				item.ValorTotal = ParseMoney(reNumericJunk.ReplaceAllString(col, ""))
			}
		}
	}

	// fallback: line-wide label-anchored matches
	if item.Quantidade == nil {
		if m := reQtyInline.FindStringSubmatch(u); m != nil {
			item.Quantidade = parseQuantity(m[1])
		}
	}
	if item.ValorUnit == nil {
		if m := reUnitValue.FindStringSubmatch(u); m != nil {
			item.ValorUnit = ParseMoney(m[1])
		}
	}
	if item.ValorTotal == nil {
		if m := reTotValue.FindStringSubmatch(u); m != nil {
			item.ValorTotal = ParseMoney(m[1])
		}
	}

	return item
}

// parseQuantity reads a quantity token in Brazilian notation: '.' is a
// thousands separator, ',' the decimal mark, with any number of decimals
// (unlike money, quantities often print a single decimal digit).
func parseQuantity(s string) *float64 {
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}
