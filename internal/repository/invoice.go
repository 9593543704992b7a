package repository

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nfe-tools/nf-indexer/constants"
	"github.com/nfe-tools/nf-indexer/internal/entity"
)

// InvoiceRepository persists extracted invoices and their line items.
type InvoiceRepository interface {
	// SaveInvoice upserts an invoice by content hash and replaces its items.
	// Returns the stored invoice ID.
	SaveInvoice(ctx context.Context, inv entity.ParsedInvoice, items []entity.LineItem, flags []constants.ValidationFlag) (uuid.UUID, error)
	ListInvoices(ctx context.Context, tipo *constants.DocType, limit int) ([]entity.ParsedInvoice, error)
	CountByType(ctx context.Context) (map[constants.DocType]int, error)
}

type invoiceRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewInvoiceRepository(db *DB, logger *slog.Logger) InvoiceRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &invoiceRepository{db: db, logger: logger}
}

func (r *invoiceRepository) SaveInvoice(ctx context.Context, inv entity.ParsedInvoice, items []entity.LineItem, flags []constants.ValidationFlag) (uuid.UUID, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	id := uuid.New()
	flagStrs := make([]string, 0, len(flags))
	for _, f := range flags {
		flagStrs = append(flagStrs, string(f))
	}

	upsert := r.db.bind(`
INSERT INTO invoices (
	id, arquivo, sha256, tipo, chave_acesso, numero_nf, serie, data_emissao,
	cnpj_emitente, razao_emitente, cnpj_destinatario, razao_destinatario,
	uf, valor_total, itens_raw, flags, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (sha256) DO UPDATE SET
	arquivo = excluded.arquivo,
	tipo = excluded.tipo,
	chave_acesso = excluded.chave_acesso,
	numero_nf = excluded.numero_nf,
	serie = excluded.serie,
	data_emissao = excluded.data_emissao,
	cnpj_emitente = excluded.cnpj_emitente,
	razao_emitente = excluded.razao_emitente,
	cnpj_destinatario = excluded.cnpj_destinatario,
	razao_destinatario = excluded.razao_destinatario,
	uf = excluded.uf,
	valor_total = excluded.valor_total,
	itens_raw = excluded.itens_raw,
	flags = excluded.flags`)
	if _, err := tx.ExecContext(ctx, upsert,
		id.String(), inv.Arquivo, inv.SHA256, string(inv.Tipo),
		inv.ChaveAcesso, inv.NumeroNF, inv.Serie, inv.DataEmissao,
		inv.CNPJEmitente, inv.RazaoEmitente, inv.CNPJDestinatario, inv.RazaoDestinatario,
		inv.UF, inv.ValorTotal, inv.ItensRaw, strings.Join(flagStrs, ";"), time.Now().UTC(),
	); err != nil {
		r.logger.Error("upsert invoice failed", "arquivo", inv.Arquivo, "error", err)
		return uuid.Nil, err
	}

	// resolve the surviving row id (a conflict keeps the original id)
	var storedID string
	if err := tx.QueryRowContext(ctx, r.db.bind(`SELECT id FROM invoices WHERE sha256 = ?`), inv.SHA256).Scan(&storedID); err != nil {
		return uuid.Nil, err
	}
	id, err = uuid.Parse(storedID)
	if err != nil {
		return uuid.Nil, err
	}

	if _, err := tx.ExecContext(ctx, r.db.bind(`DELETE FROM line_items WHERE invoice_id = ?`), id.String()); err != nil {
		return uuid.Nil, err
	}
	insertItem := r.db.bind(`
INSERT INTO line_items (invoice_id, position, ncm, cfop, qtd, vl_unit, vl_total, linha_ocr)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	for i, it := range items {
		if _, err := tx.ExecContext(ctx, insertItem,
			id.String(), i, it.NCM, it.CFOP, it.Quantidade, it.ValorUnit, it.ValorTotal, it.LinhaOCR,
		); err != nil {
			r.logger.Error("insert line item failed", "arquivo", inv.Arquivo, "position", i, "error", err)
			return uuid.Nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, err
	}
	r.logger.Debug("invoice saved", "id", id, "arquivo", inv.Arquivo, "items", len(items))
	return id, nil
}

func (r *invoiceRepository) ListInvoices(ctx context.Context, tipo *constants.DocType, limit int) ([]entity.ParsedInvoice, error) {
	if limit <= 0 {
		limit = 500
	}
	query := `
SELECT arquivo, sha256, tipo, chave_acesso, numero_nf, serie, data_emissao,
	cnpj_emitente, razao_emitente, cnpj_destinatario, razao_destinatario,
	uf, valor_total, itens_raw
FROM invoices`
	args := []any{}
	if tipo != nil {
		query += ` WHERE tipo = ?`
		args = append(args, string(*tipo))
	}
	query += ` ORDER BY arquivo LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, r.db.bind(query), args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []entity.ParsedInvoice
	for rows.Next() {
		var inv entity.ParsedInvoice
		var tipoStr string
		if err := rows.Scan(
			&inv.Arquivo, &inv.SHA256, &tipoStr, &inv.ChaveAcesso, &inv.NumeroNF,
			&inv.Serie, &inv.DataEmissao, &inv.CNPJEmitente, &inv.RazaoEmitente,
			&inv.CNPJDestinatario, &inv.RazaoDestinatario, &inv.UF, &inv.ValorTotal, &inv.ItensRaw,
		); err != nil {
			return nil, err
		}
		inv.Tipo = constants.DocType(tipoStr)
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *invoiceRepository) CountByType(ctx context.Context) (map[constants.DocType]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT tipo, COUNT(*) FROM invoices GROUP BY tipo`)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	out := map[constants.DocType]int{}
	for rows.Next() {
		var tipo string
		var n int
		if err := rows.Scan(&tipo, &n); err != nil {
			return nil, err
		}
		out[constants.DocType(tipo)] = n
	}
	return out, rows.Err()
}
