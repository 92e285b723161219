package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range files {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
}

func TestZipExtractor_Extract(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "bundle.zip")
	writeTestZip(t, archivePath, map[string]string{
		"model.gguf":         "weights",
		"tokenizer/vocab.txt": "vocab",
	})

	destDir := t.TempDir()
	require.NoError(t, ZipExtractor{}.Extract(archivePath, destDir))

	data, err := os.ReadFile(filepath.Join(destDir, "model.gguf"))
	require.NoError(t, err)
	assert.Equal(t, "weights", string(data))

	data, err = os.ReadFile(filepath.Join(destDir, "tokenizer", "vocab.txt"))
	require.NoError(t, err)
	assert.Equal(t, "vocab", string(data))
}

func TestZipExtractor_RejectsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "evil.zip")
	writeTestZip(t, archivePath, map[string]string{"../../escape.txt": "evil"})

	err := ZipExtractor{}.Extract(archivePath, t.TempDir())
	assert.Error(t, err)
}
