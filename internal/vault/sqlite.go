package vault

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"feed-go/internal/docstore"
	"feed-go/internal/vault/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteVault stores blobs in a SQLite table managed by golang-migrate.
type SQLiteVault struct {
	name string
	db   *sql.DB
	path string
}

// NewSQLiteVault opens (or creates) the database at path and migrates it.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteVault(name, path string) (*SQLiteVault, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.Up(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating blob database: %w", err)
	}

	return &SQLiteVault{
		name: name,
		db:   db,
		path: path,
	}, nil
}

// OpenConnection opens and configures a SQLite database connection with appropriate PRAGMAs.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time; one connection also keeps
	// ":memory:" databases from splitting across connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return db, nil
}

// Get returns the blob stored under key.
func (v *SQLiteVault) Get(key string) ([]byte, error) {
	var data []byte
	err := v.db.QueryRow("SELECT data FROM blobs WHERE key = ?", key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", docstore.ErrBlobNotFound, key)
		}
		return nil, fmt.Errorf("reading blob %s: %w", key, err)
	}
	return data, nil
}

// Put stores data under key, counting how often the key has been written.
func (v *SQLiteVault) Put(key string, data []byte) error {
	_, err := v.db.Exec(`
		INSERT INTO blobs (key, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at,
			puts = blobs.puts + 1`,
		key, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("writing blob %s: %w", key, err)
	}
	return nil
}

// Puts returns how many times key has been written, or 0 if it never was.
func (v *SQLiteVault) Puts(key string) (int64, error) {
	var puts int64
	err := v.db.QueryRow("SELECT puts FROM blobs WHERE key = ?", key).Scan(&puts)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading puts for %s: %w", key, err)
	}
	return puts, nil
}

// ValidateSetup checks the connection and that the schema is current.
func (v *SQLiteVault) ValidateSetup() error {
	if err := v.db.Ping(); err != nil {
		return fmt.Errorf("blob database not reachable: %w", err)
	}
	if err := migrations.Check(v.db); err != nil {
		return fmt.Errorf("blob database schema out of date: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (v *SQLiteVault) Close() error {
	return v.db.Close()
}

// Compile-time check that SQLiteVault implements docstore.BlobStore interface
var _ docstore.BlobStore = (*SQLiteVault)(nil)
