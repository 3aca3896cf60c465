package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tinylink/tinylink/internal/shortener"
)

// PostgresStore is a PostgreSQL implementation of shortener.Repository.
//
// Schema:
//
//	CREATE TABLE url_mappings (
//	    code         TEXT PRIMARY KEY,
//	    original_url TEXT NOT NULL,
//	    url_hash     TEXT NOT NULL,
//	    created_at   TIMESTAMPTZ NOT NULL,
//	    expires_at   TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX url_mappings_url_hash_idx ON url_mappings (url_hash, created_at DESC);
//	CREATE INDEX url_mappings_expires_at_idx ON url_mappings (expires_at);
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed mapping store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Insert atomically creates the mapping. The primary key on code is
// the single serialization point for code collisions; a conflicting
// insert surfaces as shortener.ErrDuplicateCode so the orchestrator
// can regenerate.
func (p *PostgresStore) Insert(ctx context.Context, mapping *shortener.Mapping) error {
	query := `
		INSERT INTO url_mappings (code, original_url, url_hash, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code) DO NOTHING
	`

	tag, err := p.pool.Exec(ctx, query,
		string(mapping.Code),
		mapping.OriginalURL,
		string(mapping.URLHash),
		mapping.CreatedAt,
		mapping.ExpiresAt,
	)
	if err != nil {
		return mapErr(err)
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrDuplicateCode
	}

	return nil
}

// GetByCode returns the row regardless of expiry state; the caller
// classifies expired vs active.
func (p *PostgresStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.Mapping, error) {
	query := `
		SELECT code, original_url, url_hash, created_at, expires_at
		FROM url_mappings
		WHERE code = $1
	`

	return p.queryOne(ctx, query, string(code))
}

// GetByURLHash returns the most recently created mapping for the hash,
// expired or not.
func (p *PostgresStore) GetByURLHash(ctx context.Context, hash shortener.URLHash) (*shortener.Mapping, error) {
	query := `
		SELECT code, original_url, url_hash, created_at, expires_at
		FROM url_mappings
		WHERE url_hash = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	return p.queryOne(ctx, query, string(hash))
}

// DeleteExpiredBefore removes mappings whose expiration is older than
// the cutoff. Used by the housekeeping sweeper only; the read path
// never deletes.
func (p *PostgresStore) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM url_mappings WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, mapErr(err)
	}

	return tag.RowsAffected(), nil
}

func (p *PostgresStore) queryOne(ctx context.Context, query string, arg any) (*shortener.Mapping, error) {
	var mapping shortener.Mapping

	err := p.pool.QueryRow(ctx, query, arg).Scan(
		&mapping.Code,
		&mapping.OriginalURL,
		&mapping.URLHash,
		&mapping.CreatedAt,
		&mapping.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, mapErr(err)
	}

	return &mapping, nil
}

// mapErr classifies connectivity and timeout failures as transient.
// They must never be mistaken for a missing row.
func mapErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return shortener.ErrStoreUnavailable
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return err
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return shortener.ErrStoreUnavailable
	}

	return err
}

// Compile-time check.
var _ shortener.Repository = (*PostgresStore)(nil)
