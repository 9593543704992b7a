package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildInvoiceJSONSchema returns the JSON-Schema (draft 2020-12 subset) for an
// exported invoice record. Exported JSON is validated against it before being
// written, so downstream consumers can rely on the shape.
func BuildInvoiceJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"tipo":                     map[string]any{"type": "string", "enum": []string{"NF-e", "NFS-e", "CT-e", "CC-e"}},
			"chave_acesso":             map[string]any{"type": "string", "pattern": `^\d{44}$`},
			"numero_nf":                map[string]any{"type": "string", "minLength": 1},
			"serie":                    map[string]any{"type": "string", "minLength": 1},
			"data_emissao":             map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
			"cnpj_emitente":            map[string]any{"type": "string", "pattern": `^\d{14}$`},
			"razao_emitente_guess":     map[string]any{"type": "string"},
			"cnpj_destinatario":        map[string]any{"type": "string", "pattern": `^\d{14}$`},
			"razao_destinatario_guess": map[string]any{"type": "string"},
			"uf":                       map[string]any{"type": "string", "minLength": 2, "maxLength": 2},
			"valor_total":              map[string]any{"type": "number", "minimum": 0},
			"itens_raw":                map[string]any{"type": "string"},
			"arquivo":                  map[string]any{"type": "string", "minLength": 1},
			"sha256":                   map[string]any{"type": "string"},
			"flags": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []string{"tipo", "arquivo", "sha256"},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
