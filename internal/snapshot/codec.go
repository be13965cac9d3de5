package snapshot

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/dbsmedya/enumexport/internal/types"
)

// Field numbers of the snapshot wire messages.
const (
	fieldSnapshotProvenance protowire.Number = 1
	fieldSnapshotTables     protowire.Number = 2

	fieldTableName         protowire.Number = 1
	fieldTableHasExtension protowire.Number = 2
	fieldTableRecords      protowire.Number = 3

	fieldRecordValue     protowire.Number = 1
	fieldRecordLabel     protowire.Number = 2
	fieldRecordExtension protowire.Number = 3
)

// Serialize encodes the document. It may be called only once; the document
// is frozen afterwards. Output is deterministic for a given sequence of
// AddTable and AddRecord calls.
func (d *Document) Serialize() ([]byte, error) {
	if d.serialized {
		return nil, ErrAlreadySerialized
	}
	d.serialized = true
	return d.encode(), nil
}

func (d *Document) encode() []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldSnapshotProvenance, protowire.BytesType)
	b = protowire.AppendString(b, d.provenance)
	for el := d.tables.Front(); el != nil; el = el.Next() {
		b = protowire.AppendTag(b, fieldSnapshotTables, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeTable(el.Value))
	}
	return b
}

func encodeTable(t *Table) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldTableName, protowire.BytesType)
	b = protowire.AppendString(b, t.Name)
	if t.HasExtension {
		b = protowire.AppendTag(b, fieldTableHasExtension, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(true))
	}
	for _, rec := range t.Records {
		b = protowire.AppendTag(b, fieldTableRecords, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeRecord(rec))
	}
	return b
}

func encodeRecord(rec types.Record) []byte {
	var b []byte
	if rec.Value != 0 {
		b = protowire.AppendTag(b, fieldRecordValue, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeZigZag(rec.Value))
	}
	b = protowire.AppendTag(b, fieldRecordLabel, protowire.BytesType)
	b = protowire.AppendString(b, rec.Label)
	if rec.HasExtension {
		b = protowire.AppendTag(b, fieldRecordExtension, protowire.BytesType)
		b = protowire.AppendString(b, rec.Extension)
	}
	return b
}

// Decode parses an uncompressed snapshot into a new, unserialized document.
// Unknown fields are skipped.
func Decode(data []byte) (*Document, error) {
	var provenance string
	var tables []*Table

	err := walkFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == fieldSnapshotProvenance && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			provenance = v
			return n, nil
		case num == fieldSnapshotTables && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			t, err := decodeTable(v)
			if err != nil {
				return 0, err
			}
			tables = append(tables, t)
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	doc := NewDocument(provenance)
	for _, t := range tables {
		if err := doc.AddTable(t.Name, t.HasExtension); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot: %w", err)
		}
		for _, rec := range t.Records {
			if err := doc.AddRecord(t.Name, rec); err != nil {
				return nil, fmt.Errorf("failed to decode snapshot: %w", err)
			}
		}
	}
	return doc, nil
}

func decodeTable(data []byte) (*Table, error) {
	t := &Table{}
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == fieldTableName && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			t.Name = v
			return n, nil
		case num == fieldTableHasExtension && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			t.HasExtension = protowire.DecodeBool(v)
			return n, nil
		case num == fieldTableRecords && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			rec, err := decodeRecord(v)
			if err != nil {
				return 0, fmt.Errorf("table %s: %w", t.Name, err)
			}
			t.Records = append(t.Records, rec)
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	if err != nil {
		return nil, err
	}
	if t.Name == "" {
		return nil, fmt.Errorf("table without name")
	}
	return t, nil
}

func decodeRecord(data []byte) (types.Record, error) {
	var rec types.Record
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == fieldRecordValue && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			rec.Value = protowire.DecodeZigZag(v)
			return n, nil
		case num == fieldRecordLabel && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			rec.Label = v
			return n, nil
		case num == fieldRecordExtension && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			rec.Extension = v
			rec.HasExtension = true
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	return rec, err
}

// walkFields calls fn for every field in a message. fn consumes the field
// value and returns the number of bytes read, or a negative protowire error code.
func walkFields(b []byte, fn func(num protowire.Number, typ protowire.Type, value []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		m, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if m < 0 {
			return protowire.ParseError(m)
		}
		b = b[m:]
	}
	return nil
}
