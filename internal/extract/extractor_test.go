package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfe-tools/nf-indexer/constants"
)

const danfeText = `NOTA FISCAL ELETRONICA
ACME COMERCIO LTDA
CNPJ: 12.345.678/0001-99
CIDADE DE TESTE - SP
DATA DE EMISSAO: 01/03/2021
SERIE: 1

CLIENTE FINAL LTDA
CNPJ: 98.765.432/0001-10

DADOS DOS PRODUTOS/SERVICOS
PARAFUSO SEXTAVADO 84812210 5102
DADOS ADICIONAIS
VALOR TOTAL: R$ 100,00
`

func testEngine() *Engine {
	return NewEngine(Config{Now: func() time.Time { return fixedNow }}, nil)
}

func TestEngineParse(t *testing.T) {
	inv, items := testEngine().Parse(danfeText, "nota.pdf", "cafe01")

	assert.Equal(t, constants.DocTypeNFe, inv.Tipo)
	assert.Equal(t, "nota.pdf", inv.Arquivo)
	assert.Equal(t, "cafe01", inv.SHA256)

	require.NotNil(t, inv.CNPJEmitente)
	assert.Equal(t, "12345678000199", *inv.CNPJEmitente)
	require.NotNil(t, inv.CNPJDestinatario)
	assert.Equal(t, "98765432000110", *inv.CNPJDestinatario)

	require.NotNil(t, inv.RazaoEmitente)
	assert.Equal(t, "ACME COMERCIO LTDA", *inv.RazaoEmitente)
	require.NotNil(t, inv.RazaoDestinatario)
	assert.Equal(t, "CLIENTE FINAL LTDA", *inv.RazaoDestinatario)

	require.NotNil(t, inv.DataEmissao)
	assert.Equal(t, "2021-03-01", *inv.DataEmissao)

	require.NotNil(t, inv.ValorTotal)
	assert.InDelta(t, 100.00, *inv.ValorTotal, 1e-9)

	require.NotNil(t, inv.Serie)
	assert.Equal(t, "1", *inv.Serie)

	require.NotNil(t, inv.UF)
	assert.Equal(t, "SP", *inv.UF)

	require.NotNil(t, inv.ItensRaw)
	require.Len(t, items, 2)
	require.NotNil(t, items[1].NCM)
	assert.Equal(t, "84812210", *items[1].NCM)
	require.NotNil(t, items[1].CFOP)
	assert.Equal(t, "5102", *items[1].CFOP)
}

func TestEngineParseAccessKey(t *testing.T) {
	key := "35240112345678000199550010000012311234567890"
	text := "DANFE\nCHAVE DE ACESSO\n3524 0112 3456 7800 0199 5500 1000 0012 3112 3456 7890\n"

	inv, _ := testEngine().Parse(text, "nota.pdf", "cafe02")
	require.NotNil(t, inv.ChaveAcesso)
	assert.Equal(t, key, *inv.ChaveAcesso)
}

func TestEngineParseKeyRunYieldsNoParties(t *testing.T) {
	key := "35240112345678000199550010000012311234567890"
	text := "DANFE\nCHAVE DE ACESSO\n" + key + "\n"

	inv, _ := testEngine().Parse(text, "nota.pdf", "cafe03")
	require.NotNil(t, inv.ChaveAcesso)
	assert.Equal(t, key, *inv.ChaveAcesso)
	assert.Nil(t, inv.CNPJEmitente)
	assert.Nil(t, inv.CNPJDestinatario)
	assert.Nil(t, inv.RazaoEmitente)
}

func TestEngineParseDeterministic(t *testing.T) {
	e := testEngine()
	inv1, items1 := e.Parse(danfeText, "nota.pdf", "cafe01")
	inv2, items2 := e.Parse(danfeText, "nota.pdf", "cafe01")
	assert.Equal(t, inv1, inv2)
	assert.Equal(t, items1, items2)
}

func TestEngineParseEmptyText(t *testing.T) {
	inv, items := testEngine().Parse("", "vazio.pdf", "00")
	assert.Equal(t, constants.DocTypeNFe, inv.Tipo)
	assert.Nil(t, inv.ChaveAcesso)
	assert.Nil(t, inv.ValorTotal)
	assert.Empty(t, items)
}
