package archive

import (
	"archive/tar"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestTarGz(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	for name, content := range files {
		hdr := &tar.Header{Name: name, Size: int64(len(content)), Mode: 0o644, Typeflag: tar.TypeReg}
		require.NoError(t, tw.WriteHeader(hdr))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
}

func TestTarExtractor_GzipRoundTrip(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "bundle.tar.gz")
	writeTestTarGz(t, archivePath, map[string]string{"weights.bin": "model-bytes"})

	destDir := t.TempDir()
	require.NoError(t, TarExtractor{Compression: CompressionGzip}.Extract(archivePath, destDir))

	data, err := os.ReadFile(filepath.Join(destDir, "weights.bin"))
	require.NoError(t, err)
	assert.Equal(t, "model-bytes", string(data))
}

func TestTarExtractor_RejectsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "evil.tar.gz")
	writeTestTarGz(t, archivePath, map[string]string{"../escape.bin": "evil"})

	err := TarExtractor{Compression: CompressionGzip}.Extract(archivePath, t.TempDir())
	assert.Error(t, err)
}
