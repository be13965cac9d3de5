package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile_ReadFile(t *testing.T) {
	for _, codec := range []string{CodecNone, CodecSnappy, CodecZSTD} {
		t.Run(codec, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out", "enums.snapshot")

			data, err := buildDocument(t).Serialize()
			require.NoError(t, err)
			compressed, err := Compress(data, codec)
			require.NoError(t, err)
			require.NoError(t, WriteFile(path, compressed))

			doc, detected, err := ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, codec, detected)
			assert.Equal(t, 3, doc.Len())

			n, _ := doc.Count("Gender")
			assert.Equal(t, int64(3), n)
		})
	}
}

func TestWriteFile_Overwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "enums.snapshot")

	require.NoError(t, os.WriteFile(path, []byte("old content that is longer"), 0644))
	require.NoError(t, WriteFile(path, []byte("new")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must not be left behind")
}

func TestWriteFile_DestinationIsDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "enums.snapshot")
	require.NoError(t, os.Mkdir(path, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "keep"), []byte("x"), 0644))

	assert.Error(t, WriteFile(path, []byte("data")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must be removed on failure")
}

func TestReadFile_Missing(t *testing.T) {
	_, _, err := ReadFile(filepath.Join(t.TempDir(), "missing.snapshot"))
	assert.Error(t, err)
}
