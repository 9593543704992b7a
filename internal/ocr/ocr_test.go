package ocr

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfe-tools/nf-indexer/constants"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	return NewExtractor(Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestExtractPlainText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nota.txt")
	require.NoError(t, os.WriteFile(path, []byte("NOTA FISCAL\nVALOR TOTAL: 10,00\n"), 0o644))

	res, err := newTestExtractor(t).Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, constants.TXT, res.SourceType)
	assert.Equal(t, "plain-text", res.Method)
	assert.Equal(t, 1, res.Pages)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, ConfigGeneral, res.Candidates[0].ConfigID)
	assert.Contains(t, res.Candidates[0].Text, "VALOR TOTAL")
}

func TestExtractUnsupportedExtension(t *testing.T) {
	_, err := newTestExtractor(t).Extract(context.Background(), "/tmp/planilha.xlsx")
	assert.Error(t, err)
}

func TestExtractMissingFile(t *testing.T) {
	_, err := newTestExtractor(t).Extract(context.Background(), "/tmp/nao-existe-nota.txt")
	assert.Error(t, err)
}

func TestExtractorDefaults(t *testing.T) {
	e := newTestExtractor(t)
	assert.Equal(t, "tesseract", e.cfg.Tesseract)
	assert.Equal(t, "por+eng", e.cfg.TesseractLang)
	assert.Equal(t, 300, e.cfg.DPI)
	assert.Equal(t, 6, e.cfg.PSM)
	assert.Equal(t, 1, e.cfg.OEM)
}
