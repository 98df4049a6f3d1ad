// Package migrations keeps the sqlite blob table schema current.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed files/*.sql
var files embed.FS

var (
	ErrNoVersion = errors.New("blob table has no schema version")
	ErrDirty     = errors.New("blob table schema is dirty")
	ErrBehind    = errors.New("blob table schema is behind")
	ErrAhead     = errors.New("blob table schema is newer than this binary")
)

// Latest returns the highest migration version embedded in the binary.
func Latest() (uint, error) {
	entries, err := fs.ReadDir(files, "files")
	if err != nil {
		return 0, fmt.Errorf("listing migrations: %w", err)
	}
	var latest uint
	for _, e := range entries {
		m, err := source.Parse(e.Name())
		if err != nil {
			return 0, fmt.Errorf("parsing migration name %s: %w", e.Name(), err)
		}
		latest = max(latest, m.Version)
	}
	if latest == 0 {
		return 0, fmt.Errorf("no migrations embedded")
	}
	return latest, nil
}

// Up applies every pending migration. An up-to-date database is not an error.
func Up(db *sql.DB) error {
	return withMigrate(db, func(m *migrate.Migrate) error {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("applying migrations: %w", err)
		}
		return nil
	})
}

// Check reports whether db is exactly at Latest. The returned error wraps one
// of ErrNoVersion, ErrDirty, ErrBehind or ErrAhead.
func Check(db *sql.DB) error {
	latest, err := Latest()
	if err != nil {
		return err
	}
	return withMigrate(db, func(m *migrate.Migrate) error {
		version, dirty, err := m.Version()
		switch {
		case errors.Is(err, migrate.ErrNilVersion):
			return ErrNoVersion
		case err != nil:
			return fmt.Errorf("reading schema version: %w", err)
		case dirty:
			return fmt.Errorf("%w at version %d", ErrDirty, version)
		case version < latest:
			return fmt.Errorf("%w: at %d, latest %d", ErrBehind, version, latest)
		case version > latest:
			return fmt.Errorf("%w: at %d, latest %d", ErrAhead, version, latest)
		}
		return nil
	})
}

// withMigrate runs fn with a migrator bound to db. The migrator is not closed,
// since that would close db, which the caller owns.
func withMigrate(db *sql.DB, fn func(*migrate.Migrate) error) error {
	src, err := iofs.New(files, "files")
	if err != nil {
		return fmt.Errorf("opening embedded migrations: %w", err)
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		src.Close()
		return fmt.Errorf("binding sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		src.Close()
		return fmt.Errorf("creating migrator: %w", err)
	}
	return fn(m)
}
