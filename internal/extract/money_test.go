package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
		nil_ bool
	}{
		{name: "brazilian thousands and decimal", in: "1.234,56", want: 1234.56},
		{name: "english thousands and decimal", in: "1,234.56", want: 1234.56},
		{name: "lone comma two decimals", in: "100,00", want: 100},
		{name: "lone dot two decimals", in: "1234.56", want: 1234.56},
		{name: "multiple dots are thousands", in: "1.234.567", want: 1234567},
		{name: "plain integer", in: "500", want: 500},
		{name: "currency prefix stripped", in: "R$ 89,90", want: 89.90},
		{name: "ocr confusion in digits", in: "1O0,0O", want: 100},
		{name: "empty", in: "", nil_: true},
		{name: "separators only", in: ",.", nil_: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseMoney(tt.in)
			if tt.nil_ {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, tt.want, *got, 1e-9)
		})
	}
}

func TestFindTotalValue(t *testing.T) {
	t.Run("labeled with currency sign", func(t *testing.T) {
		got := FindTotalValue("VALOR TOTAL DA NOTA: R$ 1.234,56")
		require.NotNil(t, got)
		assert.InDelta(t, 1234.56, *got, 1e-9)
	})

	t.Run("generic label", func(t *testing.T) {
		got := FindTotalValue("VALOR TOTAL 99,90")
		require.NotNil(t, got)
		assert.InDelta(t, 99.90, *got, 1e-9)
	})

	t.Run("specific label wins over generic", func(t *testing.T) {
		text := "VALOR TOTAL: 1,00\nVALOR TOTAL DA NOTA: 2,00"
		got := FindTotalValue(text)
		require.NotNil(t, got)
		assert.InDelta(t, 2.00, *got, 1e-9)
	})

	t.Run("service invoice label", func(t *testing.T) {
		got := FindTotalValue("VALOR TOTAL DO SERVICO = R$ 350,00")
		require.NotNil(t, got)
		assert.InDelta(t, 350.00, *got, 1e-9)
	})

	t.Run("no label", func(t *testing.T) {
		assert.Nil(t, FindTotalValue("SUBTOTAL 10,00"))
	})
}
