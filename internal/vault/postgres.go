package vault

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"feed-go/internal/docstore"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS blobs (
    key        TEXT PRIMARY KEY,
    data       BYTEA NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL,
    puts       BIGINT NOT NULL DEFAULT 1
)`

// PostgresVault stores blobs in a PostgreSQL table.
type PostgresVault struct {
	name string
	db   *sql.DB
}

// NewPostgresVault connects using dsn and creates the blob table if needed.
func NewPostgresVault(name, dsn string) (*PostgresVault, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating blob table: %w", err)
	}

	return &PostgresVault{name: name, db: db}, nil
}

// Get returns the blob stored under key.
func (v *PostgresVault) Get(key string) ([]byte, error) {
	var data []byte
	err := v.db.QueryRow("SELECT data FROM blobs WHERE key = $1", key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", docstore.ErrBlobNotFound, key)
		}
		return nil, fmt.Errorf("reading blob %s: %w", key, err)
	}
	return data, nil
}

// Put stores data under key.
func (v *PostgresVault) Put(key string, data []byte) error {
	_, err := v.db.Exec(`
		INSERT INTO blobs (key, data, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at,
			puts = blobs.puts + 1`,
		key, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("writing blob %s: %w", key, err)
	}
	return nil
}

// ValidateSetup checks that the database is reachable.
func (v *PostgresVault) ValidateSetup() error {
	if err := v.db.Ping(); err != nil {
		return fmt.Errorf("blob database not reachable: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (v *PostgresVault) Close() error {
	return v.db.Close()
}

var _ docstore.BlobStore = (*PostgresVault)(nil)
