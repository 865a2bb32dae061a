package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/voidshard/tally/pkg/domain"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	sqlSelectRows = `SELECT transaction_id, date, customer_id, amount, type, description FROM transactions ORDER BY position`
	sqlDeleteRows = `DELETE FROM transactions`
	sqlInsertRow  = `INSERT INTO transactions (transaction_id, date, customer_id, amount, type, description) VALUES (?, ?, ?, ?, ?, ?)`
)

// check it meets the interface
var _ Store = &SQLite{}

// SQLite keeps rows in a single table of a sqlite database file, in the
// order they were written.
type SQLite struct {
	filename string
}

func NewSQLite(filename string) *SQLite {
	return &SQLite{filename: filename}
}

func (s *SQLite) Read(ctx context.Context) ([]domain.Row, error) {
	_, err := os.Stat(s.filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.filename)
	} else if err != nil {
		return nil, fmt.Errorf("stat database: %w", err)
	}

	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, sqlSelectRows)
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	defer rows.Close()

	out := []domain.Row{}
	for rows.Next() {
		values := make([]string, len(domain.Columns))
		err := rows.Scan(&values[0], &values[1], &values[2], &values[3], &values[4], &values[5])
		if err != nil {
			return nil, err
		}
		out = append(out, domain.RowFromValues(values))
	}

	return out, rows.Err()
}

func (s *SQLite) Write(ctx context.Context, rows []domain.Row) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, sqlDeleteRows)
	if err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, sqlInsertRow)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		values := r.Values()
		args := make([]interface{}, len(values))
		for i := range values {
			args[i] = values[i]
		}
		_, err = stmt.ExecContext(ctx, args...)
		if err != nil {
			return fmt.Errorf("insert transaction %s: %w", r.ID(), err)
		}
	}

	return tx.Commit()
}

// open connects to the database, creating it & bringing the schema up to
// date if need be.
func (s *SQLite) open() (*sql.DB, error) {
	dir := filepath.Dir(s.filename)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	err := runMigrations(s.filename)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", s.filename)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

func runMigrations(dbPath string) error {
	// a separate connection, migrate closes it when done
	migrateDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	driver, err := sqlite.WithInstance(migrateDB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}

	d, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", d, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
