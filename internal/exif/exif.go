// Package exif decodes EXIF/TIFF metadata from JPEG and TIFF files.
//
// The decoder walks the raw byte buffer directly: it locates the TIFF
// origin (inside a JPEG APP1 segment or at offset 0 for TIFF files),
// decodes IFD0 and its EXIF and GPS sub-directories, and assembles the
// raw tags into a structured Record. Malformed individual entries are
// skipped and reported as diagnostics; only container-level damage
// (bad magic bytes, bad TIFF header) fails the call.
package exif

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Result is the outcome of one extraction.
type Result struct {
	// Record holds the assembled metadata; nil when the file carries
	// no EXIF data.
	Record *Record
	// Skipped lists directory entries dropped during decoding.
	Skipped []SkippedTag
	// NotApplicable is set when the file extension is not a container
	// this package parses. It is a normal outcome, not an error.
	NotApplicable bool
	Reason        string
}

// Extractor extracts metadata from image files. It is stateless and
// safe for concurrent use; it exists as an explicit dependency so
// collaborators receive it by construction rather than through a
// package-level singleton.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the file and decodes its EXIF metadata. Unsupported
// extensions yield a NotApplicable result; a supported file without an
// EXIF segment yields a nil Record. The returned error is non-nil only
// for I/O failures and container-level malformation.
func (e *Extractor) Extract(path string) (*Result, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !isSupportedExt(path) {
		return &Result{
			NotApplicable: true,
			Reason:        fmt.Sprintf("unsupported extension %q", ext),
		}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return e.ExtractBytes(data, ext)
}

// ExtractBytes decodes EXIF metadata from an in-memory buffer. The
// declared extension selects the container handling (JPEG APP1 scan
// vs. TIFF at offset 0).
func (e *Extractor) ExtractBytes(data []byte, ext string) (*Result, error) {
	origin, found, err := locateTIFF(data, ext)
	if err != nil {
		return nil, err
	}
	if !found {
		return &Result{}, nil
	}

	res, err := decodeTIFF(data, origin)
	if err != nil {
		return nil, err
	}

	return &Result{
		Record:  assemble(res),
		Skipped: res.skipped,
	}, nil
}
