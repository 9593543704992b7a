package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Label-anchored total-value patterns, most specific first. The first pattern
// that yields a valid non-negative value wins; later patterns are not tried.
// Kept as an ordered value so tests can enumerate and reorder it.
var TotalValuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`VALOR\s+TOTAL\s+DA\s+NOTA[:\s]*R?\$?\s*([0-9.,]+)`),
	regexp.MustCompile(`VALOR\s+TOTAL\s+DOS\s+PRODUTOS[:\s]*R?\$?\s*([0-9.,]+)`),
	regexp.MustCompile(`VALOR\s+TOTAL\s+DO\s+SERVI\S*[:=\s]*R?\$?\s*([0-9.,]+)`),
	regexp.MustCompile(`VALOR\s+TOTAL\s+DOS\s+SERVICOS[:\s]*R?\$?\s*([0-9.,]+)`),
	regexp.MustCompile(`VALOR\s+TOTAL\s+DA\s+NFS-?E[:\s]*R?\$?\s*([0-9.,]+)`),
	regexp.MustCompile(`VALOR\s+TOTAL\s+DO\s+CTE[:\s]*R?\$?\s*([0-9.,]+)`),
	regexp.MustCompile(`VALOR\s+DA\s+NOTA[:\s]*R?\$?\s*([0-9.,]+)`),
	regexp.MustCompile(`TOTAL\s+DA\s+NOTA[:\s]*R?\$?\s*([0-9.,]+)`),
	regexp.MustCompile(`VALOR\s+TOTAL\s*[:\s]*R?\$?\s*([0-9.,]+)`),
}

var (
	reLoneCommaDecimal = regexp.MustCompile(`,\d{2,3}$`)
	reLoneDotDecimal   = regexp.MustCompile(`\.\d{2,3}$`)
)

// FindTotalValue applies the ordered pattern list against the upper-cased text
// and parses the first captured numeric group that yields a valid value.
func FindTotalValue(upper string) *float64 {
	for _, pat := range TotalValuePatterns {
		m := pat.FindStringSubmatch(upper)
		if m == nil {
			continue
		}
		if v := ParseMoney(m[1]); v != nil {
			return v
		}
	}
	return nil
}

// ParseMoney parses a monetary token, disambiguating thousands and decimal
// separators. With both '.' and ',' present the one occurring later is the
// decimal point. A lone ',' is decimal only when followed by exactly 2-3
// trailing digits, otherwise a thousands separator; a lone '.' follows the
// same rule. Negative or unparsable input yields nil, not zero.
func ParseMoney(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, "RS", "")
	s = strings.ReplaceAll(s, " ", "")
	s = digitConfusion.Replace(s)

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	decimalAt := -1
	switch {
	case lastDot >= 0 && lastComma >= 0:
		// the separator occurring later is the decimal point
		decimalAt = max(lastDot, lastComma)
	case lastComma >= 0:
		if strings.Count(s, ",") == 1 && reLoneCommaDecimal.MatchString(s) {
			decimalAt = lastComma
		}
	case lastDot >= 0:
		if strings.Count(s, ".") == 1 && reLoneDotDecimal.MatchString(s) {
			decimalAt = lastDot
		}
	}

	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case i == decimalAt:
			b.WriteByte('.')
		}
	}

	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}
