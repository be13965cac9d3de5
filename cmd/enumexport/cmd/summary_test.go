package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/assert"

	"github.com/dbsmedya/enumexport/internal/exporter"
	"github.com/dbsmedya/enumexport/internal/types"
)

func TestRenderTable_AlignsWideRunes(t *testing.T) {
	out := color.ClearCode(renderTable(
		[]string{"TABLE", "N"},
		[][]string{{"性別", "3"}, {"PropertyInt", "12"}},
	))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 3)
	// "性別" is four columns wide, so it is padded like a four-letter name.
	assert.Equal(t, "性別         3", lines[1])
	assert.Equal(t, "PropertyInt  12", lines[2])
}

func TestPrintSummary(t *testing.T) {
	result := &exporter.ExportResult{
		Provenance:    "ACE.Entity 1.0.8",
		Duration:      1500 * time.Millisecond,
		SnapshotPath:  "out/enums.snapshot",
		SnapshotBytes: 128,
		SnapshotCodec: "none",
		TotalRecords:  5,
		Tables: []types.TableResult{
			{Name: "Gender", SourceCount: 3, DocumentCount: 3, InsertedRows: 3, RelationalRows: 6},
			{Name: "PropertyInt", HasExtension: true, SourceCount: 2, DocumentCount: 2, InsertedRows: 2, RelationalRows: 2, ExtensionHits: 1},
		},
	}

	var buf bytes.Buffer
	printSummary(&buf, result, "out/enums.db")
	out := color.ClearCode(buf.String())

	assert.Contains(t, out, "Provenance: ACE.Entity 1.0.8")
	assert.Contains(t, out, "Database:   out/enums.db")
	assert.Contains(t, out, "Snapshot:   out/enums.snapshot (128 bytes, none)")
	assert.Contains(t, out, "Duration:   1.5s")
	assert.Regexp(t, `Gender\s+3\s+3\s+3\s+6\s+-\n`, out)
	assert.Regexp(t, `PropertyInt\s+2\s+2\s+2\s+2\s+1\n`, out)
	assert.Contains(t, out, "2 tables, 5 records verified")
}

func TestPrintSummary_RelationalOnly(t *testing.T) {
	result := &exporter.ExportResult{
		Provenance: "unknown",
		Tables: []types.TableResult{
			{Name: "Gender", SourceCount: 3, InsertedRows: 3, RelationalRows: 3},
		},
		TotalRecords: 3,
	}

	var buf bytes.Buffer
	printSummary(&buf, result, "enums.db")
	out := color.ClearCode(buf.String())

	assert.Contains(t, out, "disabled (relational only)")
	assert.Regexp(t, `Gender\s+3\s+-\s+3\s+3\s+-\n`, out)
}
