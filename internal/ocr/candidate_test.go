package ocr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	key := strings.Repeat("3", 44)

	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty text", text: "", want: 0},
		{name: "44 digit run", text: "chave " + key, want: 100},
		{
			name: "44 digit run split by spaces",
			text: "3524 0112 3456 7800 0199 5500 1000 0001 2312 3456 7890",
			want: 100,
		},
		{name: "cnpj shape", text: "12.345.678/0001-99", want: 50},
		{name: "key digits are not a cnpj shape", text: "chave " + key + " fim", want: 100},
		{name: "doc type keyword", text: "DANFE simplificado", want: 30},
		{name: "keyword counted once", text: "DANFE NOTA FISCAL NFS-E", want: 30},
		{name: "decimal tokens per distinct", text: "10,00 25,50 10,00", want: 40},
		{
			name: "all features combined",
			text: "NOTA FISCAL " + key + " 12.345.678/0001-99 total 1.234,56",
			want: 200,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.text))
		})
	}
}

func TestBestCandidate(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, ok := BestCandidate(nil)
		assert.False(t, ok)
	})

	t.Run("higher score wins", func(t *testing.T) {
		best, ok := BestCandidate([]Candidate{
			{ConfigID: "numeric", Text: "123"},
			{ConfigID: "general", Text: "DANFE 12.345.678/0001-99"},
		})
		assert.True(t, ok)
		assert.Equal(t, "general", best.ConfigID)
	})

	t.Run("tie keeps first", func(t *testing.T) {
		best, ok := BestCandidate([]Candidate{
			{ConfigID: "general", Text: "DANFE"},
			{ConfigID: "numeric", Text: "NOTA FISCAL"},
		})
		assert.True(t, ok)
		assert.Equal(t, "general", best.ConfigID)
	})

	t.Run("all zero returns first verbatim", func(t *testing.T) {
		best, ok := BestCandidate([]Candidate{
			{ConfigID: "general", Text: "texto sem sinais"},
			{ConfigID: "numeric", Text: "987654"},
		})
		assert.True(t, ok)
		assert.Equal(t, "texto sem sinais", best.Text)
	})
}
