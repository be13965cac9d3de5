package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gookit/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/enumexport/internal/database"
	"github.com/dbsmedya/enumexport/internal/snapshot"
	"github.com/dbsmedya/enumexport/internal/source"
)

func TestExportCommandStructure(t *testing.T) {
	assert.NotNil(t, exportCmd)
	assert.Equal(t, "export <source>", exportCmd.Use)
	assert.NotEmpty(t, exportCmd.Short)
	assert.Contains(t, exportCmd.Long, "Example:")
	assert.Contains(t, exportCmd.Long, "enumexport export")
	assert.NotNil(t, exportCmd.RunE)
}

func TestExport_UsageWithoutSource(t *testing.T) {
	for _, args := range [][]string{
		{"export"},
		{"export", "a.yaml", "b.yaml"},
		{},
	} {
		out, err := executeCommand(t, args...)
		require.NoError(t, err, "args %v", args)
		assert.Equal(t, exportUsage+"\n", out, "args %v", args)
	}
}

func countRows(t *testing.T, dbPath, table string) int64 {
	t.Helper()
	db, err := database.OpenSQLite(context.Background(), dbPath)
	require.NoError(t, err)
	defer db.Close()

	var n int64
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM "`+table+`"`).Scan(&n))
	return n
}

func TestExport_Manifest(t *testing.T) {
	dir := t.TempDir()
	manifest := writeManifest(t, dir)
	dbPath := filepath.Join(dir, "out", "enums.db")
	snapPath := filepath.Join(dir, "out", "enums.snapshot")

	out, err := executeCommand(t, "export",
		"--log-level", "error",
		"--database", dbPath,
		"--snapshot", snapPath,
		"--compression", "zstd",
		manifest,
	)
	require.NoError(t, err)

	plain := color.ClearCode(out)
	assert.Contains(t, plain, "Provenance: ACE.Entity 1.0.8")
	assert.Contains(t, plain, "2 tables, 5 records verified")
	assert.NotContains(t, plain, "Helper")

	assert.Equal(t, int64(3), countRows(t, dbPath, "Gender"))
	assert.Equal(t, int64(2), countRows(t, dbPath, "PropertyInt"))

	doc, codec, err := snapshot.ReadFile(snapPath)
	require.NoError(t, err)
	assert.Equal(t, snapshot.CodecZSTD, codec)
	assert.Equal(t, "ACE.Entity 1.0.8", doc.Provenance())

	tables := doc.Tables()
	require.Len(t, tables, 2)
	assert.Equal(t, "Gender", tables[0].Name)
	assert.Equal(t, "PropertyInt", tables[1].Name)
	assert.True(t, tables[1].HasExtension)
	assert.Equal(t, "ItemType", tables[1].Records[0].Extension)
	assert.False(t, tables[1].Records[1].HasExtension)
}

func TestExport_RepeatedRunAppends(t *testing.T) {
	dir := t.TempDir()
	manifest := writeManifest(t, dir)
	dbPath := filepath.Join(dir, "enums.db")
	args := []string{"export", "--log-level", "error", "--database", dbPath,
		"--snapshot", filepath.Join(dir, "enums.snapshot"), manifest}

	_, err := executeCommand(t, args...)
	require.NoError(t, err)
	out, err := executeCommand(t, args...)
	require.NoError(t, err)

	assert.Contains(t, color.ClearCode(out), "2 tables, 5 records verified")
	assert.Equal(t, int64(6), countRows(t, dbPath, "Gender"))
}

func TestExport_RelationalOnly(t *testing.T) {
	dir := t.TempDir()
	manifest := writeManifest(t, dir)
	snapPath := filepath.Join(dir, "enums.snapshot")

	out, err := executeCommand(t, "export",
		"--log-level", "error",
		"--database", filepath.Join(dir, "enums.db"),
		"--snapshot", snapPath,
		"--relational-only",
		manifest,
	)
	require.NoError(t, err)
	assert.Contains(t, color.ClearCode(out), "disabled (relational only)")
	assert.NoFileExists(t, snapPath)
}

func TestExport_MissingManifest(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "enums.db")
	snapPath := filepath.Join(dir, "enums.snapshot")
	missing := filepath.Join(dir, "missing.yaml")

	_, err := executeCommand(t, "export",
		"--log-level", "error",
		"--database", dbPath,
		"--snapshot", snapPath,
		missing,
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, source.ErrSourceUnavailable)
	assert.Contains(t, err.Error(), "source "+missing+" is unavailable")
	assert.NoFileExists(t, dbPath, "no output is created for an unreadable source")
	assert.NoFileExists(t, snapPath)
}

func TestExport_DuplicateTableAbortsInBothModes(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "dup.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte(`
enums:
  - name: Flags
    namespace: ACE.Entity.Enum
    values:
      - {value: 1, label: Open}
  - name: Flags
    namespace: ACE.Entity.Enum.Properties
    values:
      - {value: 2, label: Locked}
`), 0644))

	for _, extra := range [][]string{nil, {"--relational-only"}} {
		args := append([]string{"export", "--log-level", "error",
			"--database", filepath.Join(dir, "enums.db"),
			"--snapshot", filepath.Join(dir, "enums.snapshot"),
		}, extra...)
		_, err := executeCommand(t, append(args, manifest)...)
		require.Error(t, err, "flags %v", extra)
		assert.ErrorIs(t, err, source.ErrDuplicateTable, "flags %v", extra)
	}
	assert.NoFileExists(t, filepath.Join(dir, "enums.snapshot"))
}

func TestExport_InvalidOverride(t *testing.T) {
	dir := t.TempDir()

	_, err := executeCommand(t, "export",
		"--database", filepath.Join(dir, "enums.db"),
		"--compression", "lz4",
		writeManifest(t, dir),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot.compression")
}
