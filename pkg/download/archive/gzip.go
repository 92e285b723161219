package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// GzipExtractor unpacks a plain .gz file (not a .tar.gz) into a single
// output file named after the archive with the .gz suffix stripped.
type GzipExtractor struct{}

func (GzipExtractor) Extract(src, destDir string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("archive: open gzip file: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("archive: open gzip stream: %w", err)
	}
	defer gz.Close()

	name := strings.TrimSuffix(filepath.Base(src), ".gz")
	target, err := destPathFor(destDir, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("archive: create %q: %w", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, gz); err != nil {
		return fmt.Errorf("archive: write %q: %w", target, err)
	}
	return nil
}
