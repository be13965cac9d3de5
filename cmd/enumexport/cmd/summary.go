package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"

	"github.com/dbsmedya/enumexport/internal/exporter"
	"github.com/dbsmedya/enumexport/internal/snapshot"
)

// renderTable lays out rows under a header with columns padded to their
// widest display width.
func renderTable(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string, style func(string) string) {
		for i, cell := range cells {
			if i > 0 {
				sb.WriteString("  ")
			}
			padded := runewidth.FillRight(cell, widths[i])
			if i == len(cells)-1 {
				padded = strings.TrimRight(padded, " ")
			}
			sb.WriteString(style(padded))
		}
		sb.WriteString("\n")
	}

	writeRow(header, func(s string) string { return color.Bold.Sprint(s) })
	for _, row := range rows {
		writeRow(row, func(s string) string { return s })
	}
	return sb.String()
}

func printSummary(w io.Writer, result *exporter.ExportResult, databasePath string) {
	fmt.Fprintf(w, "\n%s\n", color.Bold.Sprint("=== Export Complete ==="))
	fmt.Fprintf(w, "Provenance: %s\n", result.Provenance)
	fmt.Fprintf(w, "Database:   %s\n", databasePath)
	if result.SnapshotPath != "" {
		fmt.Fprintf(w, "Snapshot:   %s (%d bytes, %s)\n", result.SnapshotPath, result.SnapshotBytes, result.SnapshotCodec)
	} else {
		fmt.Fprintf(w, "Snapshot:   %s\n", color.Yellow.Sprint("disabled (relational only)"))
	}
	fmt.Fprintf(w, "Duration:   %s\n\n", result.Duration)

	header := []string{"TABLE", "SOURCE", "DOCUMENT", "RELATIONAL", "TOTAL ROWS", "EXTENSIONS"}
	rows := make([][]string, 0, len(result.Tables))
	for _, tr := range result.Tables {
		document := "-"
		if result.SnapshotPath != "" {
			document = strconv.FormatInt(tr.DocumentCount, 10)
		}
		extensions := "-"
		if tr.HasExtension {
			extensions = strconv.FormatInt(tr.ExtensionHits, 10)
		}
		rows = append(rows, []string{
			tr.Name,
			strconv.FormatInt(tr.SourceCount, 10),
			document,
			strconv.FormatInt(tr.InsertedRows, 10),
			strconv.FormatInt(tr.RelationalRows, 10),
			extensions,
		})
	}
	fmt.Fprint(w, renderTable(header, rows))

	fmt.Fprintf(w, "\n%s %d tables, %d records verified\n",
		color.Green.Sprint("✔"), len(result.Tables), result.TotalRecords)
}

func printSnapshot(w io.Writer, path, codec string, doc *snapshot.Document, withRecords bool) {
	fmt.Fprintf(w, "%s\n", color.Bold.Sprint("=== Snapshot ==="))
	fmt.Fprintf(w, "File:        %s\n", path)
	fmt.Fprintf(w, "Compression: %s\n", codec)
	fmt.Fprintf(w, "Provenance:  %s\n", doc.Provenance())
	fmt.Fprintf(w, "Tables:      %d\n\n", doc.Len())

	rows := make([][]string, 0, doc.Len())
	for _, t := range doc.Tables() {
		ext := "no"
		if t.HasExtension {
			ext = "yes"
		}
		rows = append(rows, []string{t.Name, strconv.Itoa(len(t.Records)), ext})
	}
	fmt.Fprint(w, renderTable([]string{"TABLE", "RECORDS", "EXTENSION"}, rows))

	if !withRecords {
		return
	}
	for _, t := range doc.Tables() {
		fmt.Fprintf(w, "\n%s\n", color.Cyan.Sprint(t.Name))
		recRows := make([][]string, 0, len(t.Records))
		for _, r := range t.Records {
			ext := ""
			if r.HasExtension {
				ext = r.Extension
			}
			recRows = append(recRows, []string{strconv.FormatInt(r.Value, 10), r.Label, ext})
		}
		fmt.Fprint(w, renderTable([]string{"VALUE", "LABEL", "EXTENSION"}, recRows))
	}
}
