package source

import (
	"context"
	"iter"

	"github.com/dbsmedya/enumexport/internal/types"
)

// StaticTable is an in-memory table for the Static source.
type StaticTable struct {
	Name    string
	Records []types.RawRecord
}

// Static is a Source over fixed in-memory tables.
type Static struct {
	provenance string
	tables     []StaticTable
	opened     bool
}

// NewStatic creates a source that yields the given tables in order.
func NewStatic(provenance string, tables ...StaticTable) *Static {
	return &Static{provenance: provenance, tables: tables}
}

// Open implements Source.
func (s *Static) Open(ctx context.Context) error {
	s.opened = true
	return ctx.Err()
}

// Tables implements Source.
func (s *Static) Tables(ctx context.Context) iter.Seq2[Table, error] {
	return func(yield func(Table, error) bool) {
		if !s.opened {
			yield(Table{}, ErrSourceUnavailable)
			return
		}
		seen := tableNames{}
		for _, st := range s.tables {
			if err := seen.check(st.Name); err != nil {
				yield(Table{}, err)
				return
			}
			if !yield(Table{Name: st.Name, Records: staticRecords(st)}, nil) {
				return
			}
		}
	}
}

func staticRecords(st StaticTable) iter.Seq2[types.RawRecord, error] {
	return func(yield func(types.RawRecord, error) bool) {
		for i, rec := range st.Records {
			if err := CheckRecord(st.Name, i, rec); err != nil {
				yield(types.RawRecord{}, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// Provenance implements Source.
func (s *Static) Provenance() string {
	return s.provenance
}

// Close implements Source.
func (s *Static) Close() error {
	s.opened = false
	return nil
}
