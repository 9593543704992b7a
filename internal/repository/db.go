package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/nfe-tools/nf-indexer/internal/common"
)

type Config struct {
	DSN              string // postgres://... for Postgres, anything else is a SQLite path; "" -> in-memory
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// DB wraps the SQL handle with the dialect it speaks.
type DB struct {
	*sql.DB
	dialect string // "postgres" | "sqlite"
	pool    *pgxpool.Pool
}

// Open connects to the index store. A postgres DSN gets a pgx pool wrapped as
// *sql.DB; everything else opens an embedded SQLite database. The schema is
// created on open when missing.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	if strings.HasPrefix(cfg.DSN, "postgres://") || strings.HasPrefix(cfg.DSN, "postgresql://") {
		return openPostgres(ctx, cfg, logger)
	}
	return openSQLite(ctx, cfg, logger)
}

func openPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	logger.Info("connecting to postgres", "dsn", cfg.DSN)
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("failed to parse postgres dsn", "error", err)
		return nil, common.NewAppError("DB_CONFIG", "invalid postgres dsn", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "nf-indexer"
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = cfg.StatementTimeout.String()
	}

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		return nil, common.NewAppError("DB_CONNECT", "failed to connect to postgres", err)
	}

	db := &DB{DB: stdlib.OpenDBFromPool(pool), dialect: "postgres", pool: pool}
	if err := db.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("successfully connected to postgres")
	return db, nil
}

func openSQLite(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
	}
	logger.Info("opening sqlite index", "dsn", dsn)
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		logger.Error("failed to open sqlite", "error", err)
		return nil, common.NewAppError("DB_OPEN", "failed to open sqlite index", err)
	}
	// modernc sqlite is single-writer; keep one connection to avoid SQLITE_BUSY
	sqldb.SetMaxOpenConns(1)

	db := &DB{DB: sqldb, dialect: "sqlite"}
	if err := db.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connections gracefully.
func (d *DB) Close() {
	if d.DB != nil {
		_ = d.DB.Close()
	}
	if d.pool != nil {
		d.pool.Close()
	}
}

// HealthCheck pings the store to catch DSN issues early.
func (d *DB) HealthCheck(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return d.PingContext(ctx)
}

const schema = `
CREATE TABLE IF NOT EXISTS invoices (
	id TEXT PRIMARY KEY,
	arquivo TEXT NOT NULL,
	sha256 TEXT NOT NULL UNIQUE,
	tipo TEXT NOT NULL,
	chave_acesso TEXT,
	numero_nf TEXT,
	serie TEXT,
	data_emissao TEXT,
	cnpj_emitente TEXT,
	razao_emitente TEXT,
	cnpj_destinatario TEXT,
	razao_destinatario TEXT,
	uf TEXT,
	valor_total DOUBLE PRECISION,
	itens_raw TEXT,
	flags TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS line_items (
	invoice_id TEXT NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	ncm TEXT,
	cfop TEXT,
	qtd DOUBLE PRECISION,
	vl_unit DOUBLE PRECISION,
	vl_total DOUBLE PRECISION,
	linha_ocr TEXT NOT NULL,
	PRIMARY KEY (invoice_id, position)
);
CREATE INDEX IF NOT EXISTS idx_invoices_tipo ON invoices(tipo);
CREATE INDEX IF NOT EXISTS idx_invoices_data ON invoices(data_emissao);
`

func (d *DB) migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := d.ExecContext(ctx, stmt); err != nil {
			return common.WrapError(err, "apply schema")
		}
	}
	return nil
}

// bind rewrites '?' placeholders to the dialect's style. SQLite takes '?'
// as-is; Postgres wants $1..$N.
func (d *DB) bind(query string) string {
	if d.dialect != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$")
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
