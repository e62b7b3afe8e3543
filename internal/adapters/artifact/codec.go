// Package artifact loads the serialized placement pipeline from disk and
// serves it as a scoring.Scorer behind an atomically swappable handle.
package artifact

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/okian/salaryband/internal/domain/scoring"
)

// Compression identifies how an artifact file is encoded on disk.
type Compression string

// Supported artifact encodings.
const (
	CompressionNone Compression = ""
	CompressionZstd Compression = "zstd"
	CompressionGzip Compression = "gzip"
)

// CompressionFor infers the encoding from a file name.
func CompressionFor(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return CompressionZstd
	case ".gz":
		return CompressionGzip
	default:
		return CompressionNone
	}
}

// Decode reads a pipeline from r and validates its shape.
func Decode(r io.Reader, c Compression) (*scoring.Pipeline, error) {
	switch c {
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %w", ErrDecode, err)
		}
		defer zr.Close()
		r = zr
	case CompressionGzip:
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %w", ErrDecode, err)
		}
		defer gr.Close()
		r = gr
	}

	var p scoring.Pipeline
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Encode writes p to w using compression c.
func Encode(w io.Writer, p *scoring.Pipeline, c Compression) error {
	var (
		out    io.Writer = w
		closer io.Closer
	)
	switch c {
	case CompressionZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("zstd writer: %w", err)
		}
		out, closer = zw, zw
	case CompressionGzip:
		gw := gzip.NewWriter(w)
		out, closer = gw, gw
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode pipeline: %w", err)
	}
	if closer != nil {
		return closer.Close()
	}
	return nil
}

// ReadFile loads and validates the pipeline stored at path.
func ReadFile(path string) (*scoring.Pipeline, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("open model artifact: %w", err)
	}
	defer f.Close()

	p, err := Decode(f, CompressionFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// WriteFile stores p at path, compressing by file extension.
func WriteFile(path string, p *scoring.Pipeline) (err error) {
	f, err := os.Create(path) //nolint:gosec // path comes from operator input
	if err != nil {
		return fmt.Errorf("create model artifact: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Encode(f, p, CompressionFor(path))
}
