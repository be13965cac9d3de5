// Package source defines how the exporter reads logical tables and their
// records, and provides the manifest, MySQL and in-memory adapters.
package source

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/dbsmedya/enumexport/internal/sqlutil"
	"github.com/dbsmedya/enumexport/internal/types"
)

// ErrMalformedRecord is returned when a record cannot be exported, most
// commonly because its label is empty. It always aborts the whole run.
var ErrMalformedRecord = errors.New("malformed record")

// ErrSourceUnavailable is returned when the source cannot be opened or read.
var ErrSourceUnavailable = errors.New("source unavailable")

// ErrDuplicateTable is returned when a source yields the same table name
// twice, for example two enums with one name in different sub-namespaces.
var ErrDuplicateTable = errors.New("duplicate table")

// UnknownProvenance is reported when a source carries no version information.
const UnknownProvenance = "unknown"

// Table is one logical table as produced by a source. Records is a lazy,
// single-pass sequence in source order.
type Table struct {
	Name    string
	Records iter.Seq2[types.RawRecord, error]
}

// Source yields logical tables in source order.
type Source interface {
	// Open attaches to the underlying input. It must be called before Tables
	// and may be called again to re-attach.
	Open(ctx context.Context) error
	// Tables yields every table once, in source order.
	Tables(ctx context.Context) iter.Seq2[Table, error]
	// Provenance returns a free-form version tag, or "" when unknown.
	Provenance() string
	// Close releases the underlying input.
	Close() error
}

// CheckTableName rejects table names that cannot be used as SQL identifiers.
func CheckTableName(name string) error {
	if !sqlutil.IsValidIdentifier(name) {
		return fmt.Errorf("%w: table name %q is not a valid identifier", ErrMalformedRecord, name)
	}
	return nil
}

// tableNames tracks the table names a source has yielded so far.
type tableNames map[string]struct{}

// check validates name and rejects it if it was already yielded.
func (n tableNames) check(name string) error {
	if err := CheckTableName(name); err != nil {
		return err
	}
	if _, ok := n[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTable, name)
	}
	n[name] = struct{}{}
	return nil
}

// CheckRecord rejects records whose label does not render to a non-empty string.
func CheckRecord(table string, index int, rec types.RawRecord) error {
	if rec.Label == "" {
		return fmt.Errorf("%w: table %s record #%d (value %d) has an empty label",
			ErrMalformedRecord, table, index, rec.Value)
	}
	return nil
}

// IsUnavailable reports whether err means the source could not be opened.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}
