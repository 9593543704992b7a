package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nfe-tools/nf-indexer/constants"
)

func TestClassifyDocType(t *testing.T) {
	tests := []struct {
		name string
		text string
		want constants.DocType
	}{
		{name: "danfe defaults to nfe", text: "DANFE DOCUMENTO AUXILIAR", want: constants.DocTypeNFe},
		{name: "unlabeled defaults to nfe", text: "TEXTO QUALQUER", want: constants.DocTypeNFe},
		{name: "service invoice", text: "NOTA FISCAL DE SERVICOS ELETRONICA", want: constants.DocTypeNFSe},
		{name: "nfse abbreviation", text: "NFS-E NUMERO 42", want: constants.DocTypeNFSe},
		{name: "transport document", text: "DACTE CONHECIMENTO", want: constants.DocTypeCTe},
		{name: "cte abbreviation", text: "CT-E MODAL RODOVIARIO", want: constants.DocTypeCTe},
		{name: "correction letter", text: "CARTA DE CORRECAO ELETRONICA", want: constants.DocTypeCCe},
		{name: "service wins over transport", text: "NFS-E COM CT-E ANEXO", want: constants.DocTypeNFSe},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyDocType(tt.text))
		})
	}
}
