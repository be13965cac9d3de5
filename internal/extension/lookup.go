// Package extension provides the read-only (table, label) -> extension value
// mapping used for tables that carry the extensionEnum column.
package extension

import "sort"

// Lookup is an immutable set of per-table label mappings. It is built once
// at startup and only read afterwards, so it is safe for concurrent use.
type Lookup struct {
	tables map[string]map[string]string
}

// New builds a Lookup from the given mappings. The input is copied.
func New(tables map[string]map[string]string) *Lookup {
	l := &Lookup{tables: make(map[string]map[string]string, len(tables))}
	for table, labels := range tables {
		l.merge(table, labels)
	}
	return l
}

// Builtin returns the built-in PropertyInt and PropertyDataId mappings.
func Builtin() *Lookup {
	return New(builtinTables())
}

// BuiltinWith returns the built-in mappings with overrides applied on top.
// An override replaces the built-in value for the same (table, label).
func BuiltinWith(overrides map[string]map[string]string) *Lookup {
	l := Builtin()
	for table, labels := range overrides {
		l.merge(table, labels)
	}
	return l
}

func (l *Lookup) merge(table string, labels map[string]string) {
	dst, ok := l.tables[table]
	if !ok {
		dst = make(map[string]string, len(labels))
		l.tables[table] = dst
	}
	for label, value := range labels {
		dst[label] = value
	}
}

// Lookup returns the extension value for a label in a table.
// A missing entry is a normal outcome and returns ok == false.
func (l *Lookup) Lookup(table, label string) (value string, ok bool) {
	if l == nil {
		return "", false
	}
	labels, found := l.tables[table]
	if !found {
		return "", false
	}
	value, ok = labels[label]
	return value, ok
}

// Len returns the number of entries for a table.
func (l *Lookup) Len(table string) int {
	if l == nil {
		return 0
	}
	return len(l.tables[table])
}

// Tables returns the names of tables with at least one entry, sorted.
func (l *Lookup) Tables() []string {
	if l == nil {
		return nil
	}
	names := make([]string, 0, len(l.tables))
	for name, labels := range l.tables {
		if len(labels) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
