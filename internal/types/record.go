// Package types contains shared types used across multiple packages to avoid import cycles.
package types

// RawRecord is one (value, label) pair as produced by a source, before any
// extension lookup.
type RawRecord struct {
	Value int64
	Label string
}

// Record is one exported row. Extension is meaningful only when HasExtension
// is set; tables without the extension column never set it.
type Record struct {
	Value        int64
	Label        string
	Extension    string
	HasExtension bool
}

// WithExtension returns a copy of the raw record carrying the given extension.
func (r RawRecord) WithExtension(ext string, ok bool) Record {
	rec := Record{Value: r.Value, Label: r.Label}
	if ok {
		rec.Extension = ext
		rec.HasExtension = true
	}
	return rec
}

// TableResult is the outcome of exporting one logical table.
type TableResult struct {
	Name           string
	HasExtension   bool
	SourceCount    int64 // records produced by the source
	DocumentCount  int64 // records appended to the snapshot document
	InsertedRows   int64 // relational rows added by this run
	RelationalRows int64 // total relational rows after this run
	ExtensionHits  int64 // records that carried an extension value
}
