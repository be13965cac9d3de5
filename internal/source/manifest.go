package source

import (
	"context"
	"fmt"
	"iter"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dbsmedya/enumexport/internal/types"
)

// manifestDoc is the on-disk layout of an enum manifest:
//
//	provenance: ACE.Entity 1.0.0
//	enums:
//	  - name: Gender
//	    namespace: ACE.Entity.Enum
//	    values:
//	      - {value: 0, label: Unknown}
//	      - {value: 1, label: Male}
type manifestDoc struct {
	Provenance string         `yaml:"provenance"`
	Enums      []manifestEnum `yaml:"enums"`
}

type manifestEnum struct {
	Name      string          `yaml:"name"`
	Namespace string          `yaml:"namespace"`
	Values    []manifestValue `yaml:"values"`
}

type manifestValue struct {
	Value *int64 `yaml:"value"`
	Label string `yaml:"label"`
}

// Manifest reads enum definitions from a YAML manifest describing the enum
// types of a compiled module, in declaration order.
type Manifest struct {
	path   string
	prefix string
	doc    *manifestDoc
}

// NewManifest creates a manifest source. Only enums whose namespace starts
// with namespacePrefix are exported; an empty prefix exports everything.
func NewManifest(path, namespacePrefix string) *Manifest {
	return &Manifest{path: path, prefix: namespacePrefix}
}

// Open reads and parses the manifest file.
func (m *Manifest) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	var doc manifestDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: failed to parse manifest %s: %w", ErrSourceUnavailable, m.path, err)
	}
	if len(doc.Enums) == 0 {
		return fmt.Errorf("%w: manifest %s defines no enums", ErrSourceUnavailable, m.path)
	}

	m.doc = &doc
	return nil
}

// Tables yields the enums that pass the namespace filter, in file order.
func (m *Manifest) Tables(ctx context.Context) iter.Seq2[Table, error] {
	return func(yield func(Table, error) bool) {
		if m.doc == nil {
			yield(Table{}, fmt.Errorf("%w: manifest %s is not open", ErrSourceUnavailable, m.path))
			return
		}
		seen := tableNames{}
		for _, e := range m.doc.Enums {
			if err := ctx.Err(); err != nil {
				yield(Table{}, err)
				return
			}
			if !m.included(e) {
				continue
			}
			if err := seen.check(e.Name); err != nil {
				yield(Table{}, err)
				return
			}
			if !yield(Table{Name: e.Name, Records: manifestRecords(e)}, nil) {
				return
			}
		}
	}
}

func (m *Manifest) included(e manifestEnum) bool {
	if m.prefix == "" {
		return true
	}
	return e.Namespace != "" && strings.HasPrefix(e.Namespace, m.prefix)
}

func manifestRecords(e manifestEnum) iter.Seq2[types.RawRecord, error] {
	return func(yield func(types.RawRecord, error) bool) {
		for i, v := range e.Values {
			if v.Value == nil {
				yield(types.RawRecord{}, fmt.Errorf("%w: table %s record #%d (%q) has no value",
					ErrMalformedRecord, e.Name, i, v.Label))
				return
			}
			rec := types.RawRecord{Value: *v.Value, Label: v.Label}
			if err := CheckRecord(e.Name, i, rec); err != nil {
				yield(types.RawRecord{}, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// Provenance returns the manifest's provenance tag.
func (m *Manifest) Provenance() string {
	if m.doc == nil {
		return ""
	}
	return m.doc.Provenance
}

// Close releases the parsed manifest.
func (m *Manifest) Close() error {
	m.doc = nil
	return nil
}
