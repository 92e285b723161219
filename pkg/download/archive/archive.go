// Package archive extracts the archive formats the download engine may
// receive a model bundle in (spec §4.4's "archive extraction" step).
// Grounded on the teacher's use of klauspost/compress alongside the
// standard library's archive/zip and archive/tar.
package archive

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Extractor unpacks an archive file at src into destDir.
type Extractor interface {
	Extract(src, destDir string) error
}

// ForPath returns the Extractor registered for path's extension, or false
// if the extension is not a recognized archive format. The download engine
// does not call it: a downloaded archive is stored as-is and is not
// extracted by the engine.
func ForPath(path string) (Extractor, bool) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return ZipExtractor{}, true
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return TarExtractor{Compression: CompressionGzip}, true
	case strings.HasSuffix(lower, ".tar.bz2"), strings.HasSuffix(lower, ".tbz2"):
		return TarExtractor{Compression: CompressionBzip2}, true
	case strings.HasSuffix(lower, ".tar.zst"):
		return TarExtractor{Compression: CompressionZstd}, true
	case strings.HasSuffix(lower, ".tar"):
		return TarExtractor{Compression: CompressionNone}, true
	case strings.HasSuffix(lower, ".gz"):
		return GzipExtractor{}, true
	}
	return nil, false
}

// IsArchive reports whether path's extension is a recognized archive
// format.
func IsArchive(path string) bool {
	_, ok := ForPath(path)
	return ok
}

func destPathFor(destDir, name string) (string, error) {
	cleaned := filepath.Clean(name)
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("archive: entry %q escapes destination directory", name)
	}
	return filepath.Join(destDir, cleaned), nil
}
