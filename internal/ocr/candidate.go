package ocr

import (
	"regexp"
	"strings"
)

// Candidate is one transcription of a source document under a specific
// recognition configuration. Several candidates compete for the same source;
// BestCandidate picks the winner and the rest are discarded.
type Candidate struct {
	ConfigID string
	Text     string
}

var (
	reAccessKeyRun = regexp.MustCompile(`\d{44}`)
	reCNPJShape    = regexp.MustCompile(`\b\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}\b`)
	reDecimalTok   = regexp.MustCompile(`\d+[.,]\d{2}\b`)
)

var docTypeKeywords = []string{
	"NOTA FISCAL", "DANFE", "NFS-E", "NF-E", "DACTE", "CT-E",
	"CARTA DE CORRECAO", "CONHECIMENTO DE TRANSPORTE",
}

// Score rates how likely a transcription is to be a faithful read of a fiscal
// document. Feature weights: a 44-digit run (whitespace removed) scores 100, a
// CNPJ-shaped pattern 50, a document-type keyword 30, and each distinct
// decimal-formatted token 20, uncapped.
func Score(text string) int {
	score := 0
	u := strings.ToUpper(text)
	if reAccessKeyRun.MatchString(strings.ReplaceAll(u, " ", "")) {
		score += 100
	}
	if reCNPJShape.MatchString(u) {
		score += 50
	}
	for _, kw := range docTypeKeywords {
		if strings.Contains(u, kw) {
			score += 30
			break
		}
	}
	seen := map[string]struct{}{}
	for _, tok := range reDecimalTok.FindAllString(u, -1) {
		if _, dup := seen[tok]; !dup {
			seen[tok] = struct{}{}
			score += 20
		}
	}
	return score
}

// BestCandidate returns the highest-scoring candidate. Ties keep the earliest
// candidate in input order; if every candidate scores zero the first one is
// returned verbatim. Returns false only for an empty input.
func BestCandidate(cands []Candidate) (Candidate, bool) {
	if len(cands) == 0 {
		return Candidate{}, false
	}
	best := cands[0]
	bestScore := Score(best.Text)
	for _, c := range cands[1:] {
		if s := Score(c.Text); s > bestScore {
			best, bestScore = c, s
		}
	}
	return best, true
}
