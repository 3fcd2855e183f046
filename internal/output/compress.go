package output

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// GzipExt is appended to the names of compressed pages.
const GzipExt = ".gz"

// Compress writes data to w as a gzip stream at best compression. Pages are
// built once and served many times, so size wins over speed.
func Compress(w io.Writer, data []byte) error {
	zw, err := gzip.NewWriterLevel(w, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("gzip: %w", err)
	}
	if _, err := zw.Write(data); err != nil {
		_ = zw.Close()
		return fmt.Errorf("gzip: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("gzip: %w", err)
	}
	return nil
}
