package sink

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/enumexport/internal/database"
	"github.com/dbsmedya/enumexport/internal/schema"
	"github.com/dbsmedya/enumexport/internal/types"
)

var resolver = schema.NewResolver([]string{"PropertyInt", "PropertyDataId"})

func newMockWriter(t *testing.T) (*Writer, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	w, err := NewWriter(db, nil)
	require.NoError(t, err)
	return w, mock
}

func newSQLiteWriter(t *testing.T) (*Writer, *sql.DB) {
	t.Helper()
	db, err := database.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "enums.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	w, err := NewWriter(db, nil)
	require.NoError(t, err)
	return w, db
}

func TestNewWriter_NilDB(t *testing.T) {
	_, err := NewWriter(nil, nil)
	assert.Error(t, err)
}

func TestEnsureTable_Statement(t *testing.T) {
	w, mock := newMockWriter(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS "PropertyInt" ("value" BLOB, "label" TEXT, "extensionEnum" TEXT)`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, w.EnsureTable(context.Background(), resolver.Resolve("PropertyInt")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_StatementShape(t *testing.T) {
	tests := []struct {
		name  string
		table string
		rec   types.Record
		query string
		args  []any
	}{
		{
			name:  "base table",
			table: "Gender",
			rec:   types.Record{Value: 1, Label: "Male"},
			query: `INSERT INTO "Gender" ("value", "label") VALUES (?, ?)`,
			args:  []any{int64(1), "Male"},
		},
		{
			name:  "extension table with value",
			table: "PropertyInt",
			rec:   types.Record{Value: 12, Label: "MaxHealth", Extension: "Vital", HasExtension: true},
			query: `INSERT INTO "PropertyInt" ("value", "label", "extensionEnum") VALUES (?, ?, ?)`,
			args:  []any{int64(12), "MaxHealth", "Vital"},
		},
		{
			name:  "extension table without value",
			table: "PropertyInt",
			rec:   types.Record{Value: 0, Label: "Undef"},
			query: `INSERT INTO "PropertyInt" ("value", "label") VALUES (?, ?)`,
			args:  []any{int64(0), "Undef"},
		},
		{
			name:  "base table ignores stray extension",
			table: "Gender",
			rec:   types.Record{Value: 2, Label: "Female", Extension: "X", HasExtension: true},
			query: `INSERT INTO "Gender" ("value", "label") VALUES (?, ?)`,
			args:  []any{int64(2), "Female"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, mock := newMockWriter(t)

			args := make([]driver.Value, 0, len(tt.args))
			for _, a := range tt.args {
				args = append(args, a)
			}
			mock.ExpectExec(tt.query).WithArgs(args...).WillReturnResult(sqlmock.NewResult(1, 1))

			require.NoError(t, w.Insert(context.Background(), resolver.Resolve(tt.table), tt.rec))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestInsert_Error(t *testing.T) {
	w, mock := newMockWriter(t)

	mock.ExpectExec(`INSERT INTO "Gender" ("value", "label") VALUES (?, ?)`).
		WillReturnError(errors.New("disk I/O error"))

	err := w.Insert(context.Background(), resolver.Resolve("Gender"), types.Record{Value: 1, Label: "Male"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Gender")
	assert.Contains(t, err.Error(), "disk I/O error")
}

func TestCountRows(t *testing.T) {
	w, mock := newMockWriter(t)

	mock.ExpectQuery(`SELECT COUNT(*) FROM "Gender"`).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(3))

	count, err := w.CountRows(context.Background(), "Gender")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountRows_InvalidName(t *testing.T) {
	w, _ := newMockWriter(t)

	_, err := w.CountRows(context.Background(), `Gender"; DROP TABLE x; --`)
	assert.Error(t, err)
}

func TestTransaction_CommitAndRollback(t *testing.T) {
	w, mock := newMockWriter(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "Gender" ("value", "label") VALUES (?, ?)`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, w.Begin(ctx))
	assert.Error(t, w.Begin(ctx), "nested Begin must fail")
	require.NoError(t, w.Insert(ctx, resolver.Resolve("Gender"), types.Record{Value: 0, Label: "Unknown"}))
	require.NoError(t, w.Commit())

	mock.ExpectBegin()
	mock.ExpectRollback()
	require.NoError(t, w.Begin(ctx))
	require.NoError(t, w.Rollback())

	// No open transaction: both are no-ops.
	assert.NoError(t, w.Commit())
	assert.NoError(t, w.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLite_RoundTrip(t *testing.T) {
	w, db := newSQLiteWriter(t)
	ctx := context.Background()

	s := resolver.Resolve("PropertyInt")
	require.NoError(t, w.EnsureTable(ctx, s))
	require.NoError(t, w.Insert(ctx, s, types.Record{Value: 12, Label: "MaxHealth", Extension: "Vital", HasExtension: true}))
	require.NoError(t, w.Insert(ctx, s, types.Record{Value: -5, Label: "Negative"}))

	count, err := w.CountRows(ctx, "PropertyInt")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	rows, err := db.QueryContext(ctx, `SELECT "value", "label", "extensionEnum" FROM "PropertyInt" ORDER BY rowid`)
	require.NoError(t, err)
	defer rows.Close()

	type row struct {
		value int64
		label string
		ext   sql.NullString
	}
	var got []row
	for rows.Next() {
		var r row
		require.NoError(t, rows.Scan(&r.value, &r.label, &r.ext))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())

	require.Len(t, got, 2)
	assert.Equal(t, row{12, "MaxHealth", sql.NullString{String: "Vital", Valid: true}}, got[0])
	assert.Equal(t, row{-5, "Negative", sql.NullString{}}, got[1])
}

func TestSQLite_EnsureTableIsIdempotent(t *testing.T) {
	w, _ := newSQLiteWriter(t)
	ctx := context.Background()

	s := resolver.Resolve("Gender")
	require.NoError(t, w.EnsureTable(ctx, s))
	require.NoError(t, w.Insert(ctx, s, types.Record{Value: 0, Label: "Unknown"}))
	require.NoError(t, w.EnsureTable(ctx, s))

	count, err := w.CountRows(ctx, "Gender")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSQLite_RollbackDiscardsRows(t *testing.T) {
	w, _ := newSQLiteWriter(t)
	ctx := context.Background()

	s := resolver.Resolve("Gender")
	require.NoError(t, w.EnsureTable(ctx, s))

	require.NoError(t, w.Begin(ctx))
	require.NoError(t, w.Insert(ctx, s, types.Record{Value: 0, Label: "Unknown"}))
	count, err := w.CountRows(ctx, "Gender")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "rows are visible inside the transaction")
	require.NoError(t, w.Rollback())

	count, err = w.CountRows(ctx, "Gender")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
