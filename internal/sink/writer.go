// Package sink writes exported tables into the relational output file.
package sink

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dbsmedya/enumexport/internal/logger"
	"github.com/dbsmedya/enumexport/internal/schema"
	"github.com/dbsmedya/enumexport/internal/sqlutil"
	"github.com/dbsmedya/enumexport/internal/types"
)

// execer is the subset shared by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Writer creates tables, inserts rows and counts them. Without Begin every
// statement autocommits; after Begin all statements run in one transaction
// until Commit or Rollback.
type Writer struct {
	db     *sql.DB
	tx     *sql.Tx
	logger *logger.Logger
}

// NewWriter creates a relational writer over an open database.
func NewWriter(db *sql.DB, log *logger.Logger) (*Writer, error) {
	if db == nil {
		return nil, fmt.Errorf("output database is nil")
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Writer{db: db, logger: log}, nil
}

func (w *Writer) conn() execer {
	if w.tx != nil {
		return w.tx
	}
	return w.db
}

// Begin starts the run-wide transaction.
func (w *Writer) Begin(ctx context.Context) error {
	if w.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin output transaction: %w", err)
	}
	w.tx = tx
	w.logger.Debug("Started output transaction")
	return nil
}

// Commit commits the run-wide transaction. It is a no-op in autocommit mode.
func (w *Writer) Commit() error {
	if w.tx == nil {
		return nil
	}
	tx := w.tx
	w.tx = nil
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit output transaction: %w", err)
	}
	w.logger.Debug("Committed output transaction")
	return nil
}

// Rollback discards the run-wide transaction. It is a no-op in autocommit mode.
func (w *Writer) Rollback() error {
	if w.tx == nil {
		return nil
	}
	tx := w.tx
	w.tx = nil
	if err := tx.Rollback(); err != nil {
		return fmt.Errorf("failed to rollback output transaction: %w", err)
	}
	w.logger.Warn("Rolled back output transaction")
	return nil
}

// EnsureTable creates the table if it does not exist yet.
func (w *Writer) EnsureTable(ctx context.Context, s schema.Schema) error {
	if _, err := w.conn().ExecContext(ctx, s.DDL()); err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.Table, err)
	}
	return nil
}

// Insert writes one record. The extension column is bound only when the
// schema has it and the record carries a value.
func (w *Writer) Insert(ctx context.Context, s schema.Schema, rec types.Record) error {
	withExt := s.HasExtension && rec.HasExtension

	args := []any{rec.Value, rec.Label}
	if withExt {
		args = append(args, rec.Extension)
	}

	if _, err := w.conn().ExecContext(ctx, s.InsertSQL(withExt), args...); err != nil {
		return fmt.Errorf("failed to insert %s value %d (%q): %w", s.Table, rec.Value, rec.Label, err)
	}
	return nil
}

// CountRows returns the number of rows currently in the table.
func (w *Writer) CountRows(ctx context.Context, table string) (int64, error) {
	quoted, err := sqlutil.QuoteANSISafe(table)
	if err != nil {
		return 0, err
	}

	var count int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoted)
	if err := w.conn().QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return count, nil
}
