package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGzipExtractor_Extract(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "weights.bin.gz")

	f, err := os.Create(archivePath)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte("raw weights"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	destDir := t.TempDir()
	require.NoError(t, GzipExtractor{}.Extract(archivePath, destDir))

	data, err := os.ReadFile(filepath.Join(destDir, "weights.bin"))
	require.NoError(t, err)
	assert.Equal(t, "raw weights", string(data))
}
