package archive

import (
	"archive/tar"
	"compress/bzip2"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression identifies the outer compression layer wrapping a tar
// stream.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionBzip2
	CompressionZstd
)

// TarExtractor unpacks a (possibly compressed) tar stream. gzip and zstd
// decompression go through klauspost/compress, which the teacher already
// depends on for its layer-download pipeline; bzip2 (read-only,
// unavoidably so — Go's ecosystem has no actively maintained bzip2 writer
// either) uses the standard library since no example repo in the pack
// pulls in a third-party bzip2 reader.
type TarExtractor struct {
	Compression Compression
}

func (t TarExtractor) Extract(src, destDir string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("archive: open tar: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	switch t.Compression {
	case CompressionGzip:
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("archive: open gzip stream: %w", err)
		}
		defer gz.Close()
		r = gz
	case CompressionBzip2:
		r = bzip2.NewReader(f)
	case CompressionZstd:
		zr, err := zstd.NewReader(f)
		if err != nil {
			return fmt.Errorf("archive: open zstd stream: %w", err)
		}
		defer zr.Close()
		r = zr
	}

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("archive: read tar header: %w", err)
		}

		target, err := destPathFor(destDir, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			if err := extractTarEntry(tr, target, hdr); err != nil {
				return err
			}
		}
	}
}

func extractTarEntry(tr *tar.Reader, target string, hdr *tar.Header) error {
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode))
	if err != nil {
		return fmt.Errorf("archive: create %q: %w", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, tr); err != nil {
		return fmt.Errorf("archive: write %q: %w", target, err)
	}
	return nil
}
