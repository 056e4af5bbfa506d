// Package dcffile reads DCF source files from disk, transparently
// decompressing gzip-compressed PACKAGES files (the standard CRAN
// distribution format) on ingestion.
package dcffile

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
)

// gzipMagic is the two-byte gzip member header (RFC 1952 §2.3.1).
var gzipMagic = []byte{0x1F, 0x8B}

// Read loads path and transparently gunzips it if it begins with the gzip
// magic bytes, returning the raw (possibly decompressed) DCF text.
func Read(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return Decompress(raw)
}

// Decompress gunzips raw if it carries a gzip magic header, and returns it
// unchanged otherwise.
func Decompress(raw []byte) ([]byte, error) {
	if !isGzip(raw) {
		return raw, nil
	}

	gr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("opening gzip stream: %w", err)
	}
	defer gr.Close()

	out, err := io.ReadAll(gr)
	if err != nil {
		return nil, fmt.Errorf("decompressing gzip stream: %w", err)
	}
	return out, nil
}

func isGzip(raw []byte) bool {
	return len(raw) >= 2 && raw[0] == gzipMagic[0] && raw[1] == gzipMagic[1]
}

// Fetcher retrieves DCF-formatted package metadata for an origin (a CRAN
// or Bioconductor-style repository root URL, or a local directory path).
// Concrete fetchers (HTTP download, local filesystem walk) are
// collaborators per the concurrency model in spec §5: they may run
// concurrently with each other but must serialize their Repository.Read
// calls against a single Repository.
type Fetcher interface {
	Fetch(ctx context.Context, origin string) ([]byte, error)
}

// LocalFetcher reads a PACKAGES file from the local filesystem, the
// simplest Fetcher implementation: origin is treated as a file path
// directly; directories are not walked.
type LocalFetcher struct{}

// Fetch implements Fetcher by reading origin as a local file path.
func (LocalFetcher) Fetch(_ context.Context, origin string) ([]byte, error) {
	return Read(origin)
}
