package repository

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfe-tools/nf-indexer/constants"
	"github.com/nfe-tools/nf-indexer/internal/entity"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := Open(context.Background(), Config{DSN: filepath.Join(t.TempDir(), "index.db")}, logger)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func sampleInvoice(arquivo, sha string) entity.ParsedInvoice {
	chave := "35240112345678000199550010000012311234567890"
	cnpj := "12345678000199"
	data := "2021-03-01"
	valor := 100.00
	return entity.ParsedInvoice{
		Tipo:         constants.DocTypeNFe,
		ChaveAcesso:  &chave,
		DataEmissao:  &data,
		CNPJEmitente: &cnpj,
		ValorTotal:   &valor,
		Arquivo:      arquivo,
		SHA256:       sha,
	}
}

func TestSaveInvoiceRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewInvoiceRepository(db, nil)
	ctx := context.Background()

	inv := sampleInvoice("nota.pdf", "sha-um")
	items := []entity.LineItem{
		{Arquivo: "nota.pdf", LinhaOCR: "PARAFUSO 84812210 5102"},
		{Arquivo: "nota.pdf", LinhaOCR: "PORCA 73181600 5102"},
	}
	id, err := repo.SaveInvoice(ctx, inv, items, []constants.ValidationFlag{constants.FlagMissingDate})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	got, err := repo.ListInvoices(ctx, nil, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "nota.pdf", got[0].Arquivo)
	assert.Equal(t, constants.DocTypeNFe, got[0].Tipo)
	require.NotNil(t, got[0].ValorTotal)
	assert.InDelta(t, 100.00, *got[0].ValorTotal, 1e-9)
}

func TestSaveInvoiceUpsertBySHA(t *testing.T) {
	db := openTestDB(t)
	repo := NewInvoiceRepository(db, nil)
	ctx := context.Background()

	first, err := repo.SaveInvoice(ctx, sampleInvoice("original.pdf", "sha-dup"), nil, nil)
	require.NoError(t, err)

	second, err := repo.SaveInvoice(ctx, sampleInvoice("renomeado.pdf", "sha-dup"), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	got, err := repo.ListInvoices(ctx, nil, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "renomeado.pdf", got[0].Arquivo)
}

func TestListInvoicesByType(t *testing.T) {
	db := openTestDB(t)
	repo := NewInvoiceRepository(db, nil)
	ctx := context.Background()

	nfe := sampleInvoice("a.pdf", "sha-a")
	nfse := sampleInvoice("b.pdf", "sha-b")
	nfse.Tipo = constants.DocTypeNFSe
	_, err := repo.SaveInvoice(ctx, nfe, nil, nil)
	require.NoError(t, err)
	_, err = repo.SaveInvoice(ctx, nfse, nil, nil)
	require.NoError(t, err)

	tipo := constants.DocTypeNFSe
	got, err := repo.ListInvoices(ctx, &tipo, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b.pdf", got[0].Arquivo)

	counts, err := repo.CountByType(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[constants.DocType]int{
		constants.DocTypeNFe:  1,
		constants.DocTypeNFSe: 1,
	}, counts)
}

func TestHealthCheck(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, db.HealthCheck(context.Background(), time.Second))
}
