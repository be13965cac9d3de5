package source

import (
	"context"
	"database/sql"
	"fmt"
	"iter"

	"github.com/dbsmedya/enumexport/internal/config"
	"github.com/dbsmedya/enumexport/internal/sqlutil"
	"github.com/dbsmedya/enumexport/internal/types"
)

// MySQL reads enum tables that already live in a MySQL schema, one
// (value, label) pair per row.
type MySQL struct {
	db       *sql.DB
	database string
	cfg      config.MySQLConfig
}

// NewMySQL creates a MySQL source over an open connection.
func NewMySQL(db *sql.DB, database string, cfg config.MySQLConfig) (*MySQL, error) {
	if db == nil {
		return nil, fmt.Errorf("source database is nil")
	}
	if len(cfg.Tables) == 0 {
		return nil, fmt.Errorf("no tables configured for mysql source")
	}
	return &MySQL{db: db, database: database, cfg: cfg}, nil
}

// Open verifies the connection is usable.
func (m *MySQL) Open(ctx context.Context) error {
	if err := m.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: mysql ping failed: %w", ErrSourceUnavailable, err)
	}
	return nil
}

// Tables yields the configured tables in configuration order.
func (m *MySQL) Tables(ctx context.Context) iter.Seq2[Table, error] {
	return func(yield func(Table, error) bool) {
		seen := tableNames{}
		for _, name := range m.cfg.Tables {
			if err := seen.check(name); err != nil {
				yield(Table{}, err)
				return
			}
			query, err := m.selectQuery(name)
			if err != nil {
				yield(Table{}, err)
				return
			}
			if !yield(Table{Name: name, Records: m.records(ctx, name, query)}, nil) {
				return
			}
		}
	}
}

func (m *MySQL) selectQuery(table string) (string, error) {
	valueCol, err := sqlutil.QuoteIdentifierSafe(m.cfg.ValueColumn)
	if err != nil {
		return "", err
	}
	labelCol, err := sqlutil.QuoteIdentifierSafe(m.cfg.LabelColumn)
	if err != nil {
		return "", err
	}

	query := fmt.Sprintf("SELECT %s, %s FROM %s", valueCol, labelCol, sqlutil.QuoteIdentifier(table))
	if m.cfg.OrderBy != "" {
		orderCol, err := sqlutil.QuoteIdentifierSafe(m.cfg.OrderBy)
		if err != nil {
			return "", err
		}
		query += " ORDER BY " + orderCol
	}
	return query, nil
}

// records runs the table query lazily, when the sequence is first ranged over.
func (m *MySQL) records(ctx context.Context, table, query string) iter.Seq2[types.RawRecord, error] {
	return func(yield func(types.RawRecord, error) bool) {
		rows, err := m.db.QueryContext(ctx, query)
		if err != nil {
			yield(types.RawRecord{}, fmt.Errorf("%w: query %s failed: %w", ErrSourceUnavailable, table, err))
			return
		}
		defer rows.Close()

		i := 0
		for rows.Next() {
			var rawValue interface{}
			var label sql.NullString
			if err := rows.Scan(&rawValue, &label); err != nil {
				yield(types.RawRecord{}, fmt.Errorf("failed to scan %s row #%d: %w", table, i, err))
				return
			}

			value, err := types.ToInt64(rawValue)
			if err != nil {
				yield(types.RawRecord{}, fmt.Errorf("%w: table %s record #%d: %w", ErrMalformedRecord, table, i, err))
				return
			}
			rec := types.RawRecord{Value: value, Label: label.String}
			if err := CheckRecord(table, i, rec); err != nil {
				yield(types.RawRecord{}, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
			i++
		}
		if err := rows.Err(); err != nil {
			yield(types.RawRecord{}, fmt.Errorf("error iterating %s rows: %w", table, err))
		}
	}
}

// Provenance identifies the schema the records were read from.
func (m *MySQL) Provenance() string {
	if m.database == "" {
		return ""
	}
	return "mysql:" + m.database
}

// Close is a no-op; the connection is owned by the database manager.
func (m *MySQL) Close() error {
	return nil
}
