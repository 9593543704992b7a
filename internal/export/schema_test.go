package export

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDocument() map[string]any {
	return map[string]any{
		"tipo":          "NF-e",
		"chave_acesso":  "35240112345678000199550010000012311234567890",
		"data_emissao":  "2021-03-01",
		"cnpj_emitente": "12345678000199",
		"uf":            "SP",
		"valor_total":   100.00,
		"arquivo":       "nota.pdf",
		"sha256":        "cafe01",
		"flags":         []string{},
	}
}

func marshal(t *testing.T, doc map[string]any) []byte {
	t.Helper()
	b, err := json.Marshal(doc)
	require.NoError(t, err)
	return b
}

func TestValidateJSONAgainstSchema(t *testing.T) {
	schema := BuildInvoiceJSONSchema()

	t.Run("complete record passes", func(t *testing.T) {
		assert.NoError(t, ValidateJSONAgainstSchema(schema, marshal(t, validDocument())))
	})

	t.Run("short access key is rejected", func(t *testing.T) {
		doc := validDocument()
		doc["chave_acesso"] = "123"
		assert.Error(t, ValidateJSONAgainstSchema(schema, marshal(t, doc)))
	})

	t.Run("punctuated cnpj is rejected", func(t *testing.T) {
		doc := validDocument()
		doc["cnpj_emitente"] = "12.345.678/0001-99"
		assert.Error(t, ValidateJSONAgainstSchema(schema, marshal(t, doc)))
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		doc := validDocument()
		doc["extra"] = "x"
		assert.Error(t, ValidateJSONAgainstSchema(schema, marshal(t, doc)))
	})

	t.Run("unknown document type is rejected", func(t *testing.T) {
		doc := validDocument()
		doc["tipo"] = "BOLETO"
		assert.Error(t, ValidateJSONAgainstSchema(schema, marshal(t, doc)))
	})

	t.Run("missing required fields rejected", func(t *testing.T) {
		doc := validDocument()
		delete(doc, "arquivo")
		assert.Error(t, ValidateJSONAgainstSchema(schema, marshal(t, doc)))
	})
}
