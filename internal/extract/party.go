package extract

import (
	"regexp"
	"strings"
)

const (
	nameMinLen = 3   // exclusive: fragments shorter than this are noise
	nameMaxLen = 120 // exclusive: longer lines are walls of text, not names
	nameWindow = 3   // lines scanned above each tax-ID occurrence
)

var reLongDigitRun = regexp.MustCompile(`\d{8,}`)

// PartyNames resolves issuer and recipient company names by association: a
// company name is printed just above its CNPJ on fiscal layouts. The first
// CNPJ occurrence fills the issuer role, the second the recipient; a filled
// role is never overwritten.
func PartyNames(lines []string) (issuer, recipient *string) {
	for _, i := range cnpjLineIndexes(lines) {
		name := neighborName(lines, i)
		if name == nil {
			continue
		}
		if issuer == nil {
			issuer = name
		} else if recipient == nil {
			recipient = name
			break
		}
	}
	return issuer, recipient
}

func cnpjLineIndexes(lines []string) []int {
	var idx []int
	for i, ln := range lines {
		if reCNPJ.MatchString(strings.ToUpper(ln)) {
			idx = append(idx, i)
		}
	}
	return idx
}

// neighborName scans up to nameWindow lines above idx for a plausible company
// name: bounded length, no tax-ID or personal-ID shape, no long digit run.
func neighborName(lines []string, idx int) *string {
	for up := 1; up <= nameWindow; up++ {
		j := idx - up
		if j < 0 {
			break
		}
		name := strings.TrimSpace(lines[j])
		if len(name) <= nameMinLen || len(name) >= nameMaxLen {
			continue
		}
		u := strings.ToUpper(name)
		if reCNPJ.MatchString(u) || reCPF.MatchString(u) || reLongDigitRun.MatchString(u) {
			continue
		}
		return &name
	}
	return nil
}
