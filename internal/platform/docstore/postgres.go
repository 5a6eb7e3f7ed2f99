package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultDocumentID is the row/key under which the document is stored by
// the database backends.
const DefaultDocumentID = "medbook:document"

type queryable interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// PostgresBackend stores the document as one row of a json column. The json
// type (not jsonb) keeps the exact text, so the document round-trips byte
// for byte.
type PostgresBackend struct {
	pool  *pgxpool.Pool
	conn  queryable
	table string
	docID string
}

func NewPostgresBackend(pool *pgxpool.Pool, table, docID string) *PostgresBackend {
	b := newPostgresBackend(pool, table, docID)
	b.pool = pool
	return b
}

func newPostgresBackend(conn queryable, table, docID string) *PostgresBackend {
	if docID == "" {
		docID = DefaultDocumentID
	}
	return &PostgresBackend{
		conn:  conn,
		table: pgx.Identifier{table}.Sanitize(),
		docID: docID,
	}
}

func (p *PostgresBackend) Name() string { return "postgres" }

// Pool returns the connection pool, or nil when the backend was built on a
// bare connection.
func (p *PostgresBackend) Pool() *pgxpool.Pool { return p.pool }

// CreateTableSQL returns the DDL for the document table.
func (p *PostgresBackend) CreateTableSQL() string {
	return `CREATE TABLE IF NOT EXISTS ` + p.table + ` (
    id         TEXT PRIMARY KEY,
    body       JSON NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
}

// EnsureTable creates the document table if it is missing.
func (p *PostgresBackend) EnsureTable(ctx context.Context) error {
	if _, err := p.conn.Exec(ctx, p.CreateTableSQL()); err != nil {
		return fmt.Errorf("create table %s: %w", p.table, err)
	}
	return nil
}

func (p *PostgresBackend) Read(ctx context.Context) ([]byte, error) {
	var body string
	err := p.conn.QueryRow(ctx, `SELECT body::text FROM `+p.table+` WHERE id = $1`, p.docID).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("select document: %w", err)
	}
	return []byte(body), nil
}

func (p *PostgresBackend) Write(ctx context.Context, data []byte) error {
	_, err := p.conn.Exec(ctx, `
		INSERT INTO `+p.table+` (id, body, updated_at)
		VALUES ($1, $2::json, NOW())
		ON CONFLICT (id) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()`,
		p.docID, string(data))
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

func (p *PostgresBackend) Ping(ctx context.Context) error {
	if p.pool == nil {
		return nil
	}
	return p.pool.Ping(ctx)
}

func (p *PostgresBackend) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}
