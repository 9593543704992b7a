package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBlock(t *testing.T) {
	t.Run("between start and end markers", func(t *testing.T) {
		text := "CABECALHO\nDADOS DOS PRODUTOS/SERVICOS\nPARAFUSO 84812210 5102\nDADOS ADICIONAIS\nRODAPE"
		got := ExtractBlock(text, ItemsStartKeys, ItemsEndKeys)
		require.NotNil(t, got)
		assert.True(t, strings.HasPrefix(*got, "DADOS DOS PRODUTOS/SERVICOS"))
		assert.Contains(t, *got, "PARAFUSO")
		assert.NotContains(t, *got, "DADOS ADICIONAIS")
		assert.NotContains(t, *got, "RODAPE")
	})

	t.Run("no end marker runs to end of text", func(t *testing.T) {
		text := "DISCRIMINACAO DOS SERVICOS\nCONSULTORIA MENSAL"
		got := ExtractBlock(text, ItemsStartKeys, ItemsEndKeys)
		require.NotNil(t, got)
		assert.Contains(t, *got, "CONSULTORIA MENSAL")
	})

	t.Run("no start marker", func(t *testing.T) {
		assert.Nil(t, ExtractBlock("TEXTO SEM TABELA DE ITENS", ItemsStartKeys, ItemsEndKeys))
	})

	t.Run("start key priority beats position", func(t *testing.T) {
		text := "ITENS DA NOTA\nLINHA A\nDISCRIMINACAO DOS SERVICOS\nLINHA B"
		got := ExtractBlock(text, ItemsStartKeys, ItemsEndKeys)
		require.NotNil(t, got)
		assert.True(t, strings.HasPrefix(*got, "DISCRIMINACAO DOS SERVICOS"))
	})

	t.Run("earliest end marker after start wins", func(t *testing.T) {
		text := "DADOS DOS PRODUTOS\nITEM X\nCALCULO DO IMPOSTO\nDADOS ADICIONAIS"
		got := ExtractBlock(text, ItemsStartKeys, ItemsEndKeys)
		require.NotNil(t, got)
		assert.Contains(t, *got, "ITEM X")
		assert.NotContains(t, *got, "CALCULO DO IMPOSTO")
	})
}
