package extract

import (
	"strings"

	"github.com/nfe-tools/nf-indexer/constants"
)

// Keyword lists are ordered by specificity: service invoices first, then
// transport documents, then correction letters. The default is the goods
// invoice (DANFE / NF-e), which is also what an unlabeled document is assumed
// to be.
var (
	nfseKeywords = []string{"NFS-E", "NOTA FISCAL DE SERVI", "NFS E"}
	cteKeywords  = []string{"CT-E", "DACTE", "CONHECIMENTO DE TRANSPORTE"}
	cceKeywords  = []string{"CARTA DE CORRECAO", "CCE", "CC-E"}
)

// ClassifyDocType infers the document type from keyword presence in the
// normalized upper-cased text. Total: always returns a type.
func ClassifyDocType(upper string) constants.DocType {
	if containsAny(upper, nfseKeywords) {
		return constants.DocTypeNFSe
	}
	if containsAny(upper, cteKeywords) {
		return constants.DocTypeCTe
	}
	if containsAny(upper, cceKeywords) {
		return constants.DocTypeCCe
	}
	return constants.DocTypeNFe
}

func containsAny(s string, keys []string) bool {
	for _, k := range keys {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
