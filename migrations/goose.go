package migrations

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

// Dialect pairs a goose dialect with its migrations directory
type Dialect struct {
	Name string
	Dir  string
}

var dialects = map[string]Dialect{
	"clickhouse": {Name: "clickhouse", Dir: "clickhouse"},
	"postgres":   {Name: "postgres", Dir: "postgres"},
	"sqlite":     {Name: "sqlite3", Dir: "sqlite"},
}

// ForBackend returns the dialect of a storage backend
func ForBackend(backend string) (Dialect, error) {
	d, ok := dialects[backend]
	if !ok {
		return Dialect{}, fmt.Errorf("no migrations for storage backend %q", backend)
	}
	return d, nil
}

// Up applies every pending embedded migration of the backend
func Up(db *sql.DB, backend string) error {
	d, err := ForBackend(backend)
	if err != nil {
		return err
	}
	goose.SetBaseFS(FS)
	if err := goose.SetDialect(d.Name); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.Up(db, d.Dir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
