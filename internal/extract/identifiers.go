package extract

import (
	"regexp"
	"strings"
)

// OCR digit confusion: letters commonly misread where only digits should
// appear are rewritten to the digit they stand in for. Applied only on search
// surfaces for digit runs, never on fields re-rendered as text.
var digitConfusion = strings.NewReplacer(
	"O", "0", "o", "0",
	"I", "1", "l", "1", "|", "1",
	"S", "5",
	"B", "8",
	"—", "-", // em dash misread for hyphen
)

var (
	reAccessKey = regexp.MustCompile(`\d{44}`)
	reCNPJ      = regexp.MustCompile(`\b\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}\b`)
	reCPF       = regexp.MustCompile(`\b\d{3}\.?\d{3}\.?\d{3}-?\d{2}\b`)
	reOnlyNum   = regexp.MustCompile(`\D+`)
	reNumeroNF  = regexp.MustCompile(`\bN[\x{00BA}O]?\s*(?:DA\s*NOTA)?\s*[:\-]?\s*([A-Z0-9]{1,12})\b`)
	reSerie     = regexp.MustCompile(`SERIE\s*[:\-]?\s*([A-Z0-9]{1,5})`)
)

// FindAccessKey searches the whitespace-stripped upper-cased text for a run of
// exactly 44 decimal digits, after correcting common OCR digit confusions.
// The first run wins. No check-digit validation is performed: a 44-digit
// noise run is accepted as a key.
func FindAccessKey(upperNoSpace string) *string {
	cand := digitConfusion.Replace(upperNoSpace)
	if m := reAccessKey.FindString(cand); m != "" {
		return &m
	}
	return nil
}

// FindCNPJs returns all CNPJ-shaped matches in document order, punctuation
// stripped. By convention the first occurrence belongs to the issuer and the
// second to the recipient.
func FindCNPJs(upper string) []string {
	raw := reCNPJ.FindAllString(upper, -1)
	out := make([]string, 0, len(raw))
	for _, m := range raw {
		out = append(out, CleanNumber(m))
	}
	return out
}

// CleanNumber strips everything that is not a decimal digit.
func CleanNumber(s string) string {
	return reOnlyNum.ReplaceAllString(s, "")
}

// FindDocumentNumber extracts the label-anchored invoice number, if any.
func FindDocumentNumber(upper string) *string {
	if m := reNumeroNF.FindStringSubmatch(upper); m != nil {
		return &m[1]
	}
	return nil
}

// FindSeries extracts the label-anchored series code, if any.
func FindSeries(upper string) *string {
	if m := reSerie.FindStringSubmatch(upper); m != nil {
		return &m[1]
	}
	return nil
}
