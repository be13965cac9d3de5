// Package snapshot builds the in-memory snapshot document that mirrors the
// relational output, and encodes it to a compact binary file.
//
// The file is a protobuf-wire message:
//
//	message Snapshot { string provenance = 1; repeated Table tables = 2; }
//	message Table    { string name = 1; bool has_extension = 2; repeated Record records = 3; }
//	message Record   { sint64 value = 1; string label = 2; optional string extension = 3; }
//
// optionally wrapped in a snappy stream or a zstd frame.
package snapshot

import (
	"errors"
	"fmt"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/enumexport/internal/types"
)

var (
	// ErrAlreadySerialized is returned when a document is modified or
	// serialized after Serialize has been called.
	ErrAlreadySerialized = errors.New("snapshot already serialized")
	// ErrUnknownTable is returned by AddRecord for a table that was never added.
	ErrUnknownTable = errors.New("unknown snapshot table")
	// ErrDuplicateTable is returned by AddTable for a name that is already present.
	ErrDuplicateTable = errors.New("duplicate snapshot table")
)

// UnknownProvenance is used when no provenance tag is supplied.
const UnknownProvenance = "unknown"

// Table is one logical table in the document.
type Table struct {
	Name         string
	HasExtension bool
	Records      []types.Record
}

// Document accumulates tables and records in the order they are added.
type Document struct {
	provenance string
	tables     *orderedmap.OrderedMap[string, *Table]
	serialized bool
}

// NewDocument creates an empty document. An empty provenance is stored as
// UnknownProvenance.
func NewDocument(provenance string) *Document {
	if provenance == "" {
		provenance = UnknownProvenance
	}
	return &Document{
		provenance: provenance,
		tables:     orderedmap.NewOrderedMap[string, *Table](),
	}
}

// Provenance returns the document's provenance tag.
func (d *Document) Provenance() string {
	return d.provenance
}

// AddTable appends an empty table.
func (d *Document) AddTable(name string, hasExtension bool) error {
	if d.serialized {
		return ErrAlreadySerialized
	}
	if _, ok := d.tables.Get(name); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTable, name)
	}
	d.tables.Set(name, &Table{Name: name, HasExtension: hasExtension})
	return nil
}

// AddRecord appends a record to a table. Tables without the extension
// column never keep an extension value.
func (d *Document) AddRecord(name string, rec types.Record) error {
	if d.serialized {
		return ErrAlreadySerialized
	}
	t, ok := d.tables.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	if !t.HasExtension {
		rec.Extension = ""
		rec.HasExtension = false
	}
	t.Records = append(t.Records, rec)
	return nil
}

// Count returns the number of records in a table.
func (d *Document) Count(name string) (int64, bool) {
	t, ok := d.tables.Get(name)
	if !ok {
		return 0, false
	}
	return int64(len(t.Records)), true
}

// Table returns a table by name.
func (d *Document) Table(name string) (*Table, bool) {
	return d.tables.Get(name)
}

// Tables returns the tables in insertion order.
func (d *Document) Tables() []*Table {
	out := make([]*Table, 0, d.tables.Len())
	for el := d.tables.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

// Len returns the number of tables.
func (d *Document) Len() int {
	return d.tables.Len()
}
