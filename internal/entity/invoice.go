package entity

import (
	"github.com/nfe-tools/nf-indexer/constants"
)

// ParsedInvoice is the structured record extracted from one document's OCR text.
// Every extracted field is independently optional: absence means the heuristics
// found no match, never an error.
type ParsedInvoice struct {
	Tipo              constants.DocType `json:"tipo"`
	ChaveAcesso       *string           `json:"chave_acesso,omitempty"`
	NumeroNF          *string           `json:"numero_nf,omitempty"`
	Serie             *string           `json:"serie,omitempty"`
	DataEmissao       *string           `json:"data_emissao,omitempty"` // ISO YYYY-MM-DD
	CNPJEmitente      *string           `json:"cnpj_emitente,omitempty"`
	RazaoEmitente     *string           `json:"razao_emitente_guess,omitempty"`
	CNPJDestinatario  *string           `json:"cnpj_destinatario,omitempty"`
	RazaoDestinatario *string           `json:"razao_destinatario_guess,omitempty"`
	UF                *string           `json:"uf,omitempty"`
	ValorTotal        *float64          `json:"valor_total,omitempty"`
	ItensRaw          *string           `json:"itens_raw,omitempty"`
	Arquivo           string            `json:"arquivo"`
	SHA256            string            `json:"sha256"`
}

// LineItem is one parsed line of an invoice's items block. It is linked to its
// invoice by access key + source file, not a strict foreign key, since the
// access key itself may be absent. LinhaOCR always carries the raw source line
// for audit.
type LineItem struct {
	ChaveAcesso *string  `json:"chave_acesso,omitempty"`
	Arquivo     string   `json:"arquivo"`
	NCM         *string  `json:"ncm,omitempty"`
	CFOP        *string  `json:"cfop,omitempty"`
	Quantidade  *float64 `json:"qtd,omitempty"`
	ValorUnit   *float64 `json:"vl_unit,omitempty"`
	ValorTotal  *float64 `json:"vl_total,omitempty"`
	LinhaOCR    string   `json:"linha_ocr"`
}

// ValidationResult is the advisory flag set derived from a ParsedInvoice.
// It has no identity of its own and is recomputed whenever needed.
type ValidationResult struct {
	Flags []constants.ValidationFlag `json:"flags"`
}

// Has reports whether the result contains the given flag.
func (v ValidationResult) Has(flag constants.ValidationFlag) bool {
	for _, f := range v.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// Empty reports whether no flag was raised, i.e. the record is structurally complete.
func (v ValidationResult) Empty() bool { return len(v.Flags) == 0 }
