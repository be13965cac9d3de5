// Package schema resolves the column layout of each exported table.
package schema

import (
	"fmt"
	"strings"

	"github.com/dbsmedya/enumexport/internal/sqlutil"
)

// Column names shared by every sink.
const (
	ColumnValue     = "value"
	ColumnLabel     = "label"
	ColumnExtension = "extensionEnum"
)

// Column is one column of a resolved table.
type Column struct {
	Name string
	Type string
}

// Schema is the resolved layout of one logical table.
type Schema struct {
	Table        string
	Columns      []Column
	HasExtension bool
}

var baseColumns = []Column{
	{Name: ColumnValue, Type: "BLOB"},
	{Name: ColumnLabel, Type: "TEXT"},
}

// Resolver maps table names to schemas. The set of tables that carry the
// extension column is fixed when the resolver is built.
type Resolver struct {
	extensionTables map[string]struct{}
}

// NewResolver creates a resolver that adds the extension column to the given tables.
func NewResolver(extensionTables []string) *Resolver {
	set := make(map[string]struct{}, len(extensionTables))
	for _, t := range extensionTables {
		set[t] = struct{}{}
	}
	return &Resolver{extensionTables: set}
}

// HasExtension reports whether the table carries the extension column.
func (r *Resolver) HasExtension(table string) bool {
	_, ok := r.extensionTables[table]
	return ok
}

// Resolve returns the schema for a table. Unknown tables get the base columns.
func (r *Resolver) Resolve(table string) Schema {
	cols := make([]Column, len(baseColumns), len(baseColumns)+1)
	copy(cols, baseColumns)

	hasExt := r.HasExtension(table)
	if hasExt {
		cols = append(cols, Column{Name: ColumnExtension, Type: "TEXT"})
	}

	return Schema{
		Table:        table,
		Columns:      cols,
		HasExtension: hasExt,
	}
}

// DDL returns the idempotent CREATE TABLE statement for the schema.
func (s Schema) DDL() string {
	defs := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		defs[i] = sqlutil.QuoteANSI(c.Name) + " " + c.Type
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		sqlutil.QuoteANSI(s.Table), strings.Join(defs, ", "))
}

// InsertSQL returns the parameterized INSERT for one record. The extension
// column is bound only when the schema has it and the record carries a value;
// otherwise it is left out of the statement.
func (s Schema) InsertSQL(withExtension bool) string {
	cols := []string{sqlutil.QuoteANSI(ColumnValue), sqlutil.QuoteANSI(ColumnLabel)}
	if s.HasExtension && withExtension {
		cols = append(cols, sqlutil.QuoteANSI(ColumnExtension))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		sqlutil.QuoteANSI(s.Table), strings.Join(cols, ", "), placeholders)
}
