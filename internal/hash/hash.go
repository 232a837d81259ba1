// Package hash implements the file hashing strategies used for
// duplicate detection: a full cryptographic hash, a sampled partial
// hash for large files, and a format-aware perceptual hash for images.
package hash

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Method selects a hashing strategy.
type Method string

const (
	// Full hashes the entire file content.
	Full Method = "full"
	// Partial hashes the file size plus sampled chunks (first, last,
	// middle), trading accuracy for speed on large files.
	Partial Method = "partial"
	// Perceptual samples image payload bytes (JPEG scan data, PNG
	// IDAT chunks) so re-saved containers with identical payloads
	// still collide. Non-image formats fall back to Partial.
	Perceptual Method = "perceptual"
)

// ParseMethod validates a method name from user input.
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(s)) {
	case Full:
		return Full, nil
	case Partial:
		return Partial, nil
	case Perceptual:
		return Perceptual, nil
	default:
		return "", fmt.Errorf("unknown hash method %q (want full, partial or perceptual)", s)
	}
}

// chunkSize is the sample unit for the partial strategy.
const chunkSize = 64 * 1024

// Perceptual sampling parameters: a fixed window after the JPEG SOS
// marker read with a byte stride, and a per-chunk cap for PNG IDAT.
const (
	jpegSampleWindow = 64 * 1024
	jpegSampleStride = 16
	pngIDATSample    = 256
)

// HashFile computes the file's hash using the given method.
func HashFile(path string, method Method) (string, error) {
	switch method {
	case Full:
		return FullHash(path)
	case Partial:
		return PartialHash(path)
	case Perceptual:
		return PerceptualHash(path)
	default:
		return "", fmt.Errorf("unknown hash method %q", method)
	}
}

// FullHash computes the SHA-256 hash of the entire file content.
func FullHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// PartialHash computes a sampled SHA-256 hash: the decimal byte length
// seeds the digest, followed by the first chunk, then the last chunk
// when the file exceeds twice the chunk size, then a chunk centered at
// the midpoint when it exceeds three times the chunk size. Bytes
// outside the sampled regions do not affect the result.
func PartialHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat file: %w", err)
	}
	size := stat.Size()

	h := sha256.New()
	h.Write([]byte(strconv.FormatInt(size, 10)))

	first := int64(chunkSize)
	if size < first {
		first = size
	}
	if err := hashRegion(h, file, 0, first); err != nil {
		return "", err
	}

	if size > 2*chunkSize {
		if err := hashRegion(h, file, size-chunkSize, chunkSize); err != nil {
			return "", err
		}
	}
	if size > 3*chunkSize {
		mid := size/2 - chunkSize/2
		if err := hashRegion(h, file, mid, chunkSize); err != nil {
			return "", err
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

func hashRegion(h io.Writer, file *os.File, offset, length int64) error {
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}
	if _, err := io.CopyN(h, file, length); err != nil {
		return fmt.Errorf("failed to read region: %w", err)
	}
	return nil
}

// PerceptualHash computes a content fingerprint from the image payload
// rather than the full container. Each result carries a strategy
// prefix (pjpg_, ppng_, pgen_, perr_) so hashes produced by different
// sampling paths never collide with each other.
func PerceptualHash(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		sum, err := jpegScanHash(path)
		if err != nil {
			return fallbackHash(path)
		}
		return "pjpg_" + sum, nil
	case ".png":
		sum, err := pngIDATHash(path)
		if err != nil {
			return fallbackHash(path)
		}
		return "ppng_" + sum, nil
	default:
		sum, err := PartialHash(path)
		if err != nil {
			return "", err
		}
		return "pgen_" + sum, nil
	}
}

// fallbackHash is used when format-specific sampling fails on a file
// that claimed to be that format; the distinct prefix keeps it from
// colliding with healthy pgen_ hashes.
func fallbackHash(path string) (string, error) {
	sum, err := PartialHash(path)
	if err != nil {
		return "", err
	}
	return "perr_" + sum, nil
}

// jpegScanHash hashes a stride-sampled window of compressed scan data
// starting just past the Start-Of-Scan marker.
func jpegScanHash(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) < 2 || binary.BigEndian.Uint16(data[0:2]) != 0xFFD8 {
		return "", fmt.Errorf("not a JPEG file")
	}

	// Walk marker segments to the SOS marker.
	offset := 2
	scanStart := -1
	for offset+4 <= len(data) {
		marker := binary.BigEndian.Uint16(data[offset : offset+2])
		length := int(binary.BigEndian.Uint16(data[offset+2 : offset+4]))
		if length < 2 {
			break
		}
		if marker == 0xFFDA {
			scanStart = offset + 2 + length
			break
		}
		offset += 2 + length
	}
	if scanStart < 0 || scanStart >= len(data) {
		return "", fmt.Errorf("no scan data found")
	}

	window := data[scanStart:]
	if len(window) > jpegSampleWindow {
		window = window[:jpegSampleWindow]
	}

	h := sha256.New()
	for i := 0; i < len(window); i += jpegSampleStride {
		h.Write(window[i : i+1])
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

var pngSignature = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

// pngIDATHash hashes up to pngIDATSample bytes from each IDAT chunk
// found by walking the PNG chunk table.
func pngIDATHash(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) < len(pngSignature) || !bytes.Equal(data[:len(pngSignature)], pngSignature) {
		return "", fmt.Errorf("not a PNG file")
	}

	h := sha256.New()
	sampled := false

	// Chunk layout: length(4) + type(4) + data + crc(4).
	offset := len(pngSignature)
	for offset+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[offset : offset+4]))
		chunkType := string(data[offset+4 : offset+8])
		dataStart := offset + 8
		dataEnd := dataStart + length
		if length < 0 || dataEnd > len(data) {
			break
		}

		if chunkType == "IDAT" {
			sample := length
			if sample > pngIDATSample {
				sample = pngIDATSample
			}
			h.Write(data[dataStart : dataStart+sample])
			sampled = true
		}
		if chunkType == "IEND" {
			break
		}
		offset = dataEnd + 4
	}

	if !sampled {
		return "", fmt.Errorf("no IDAT chunks found")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// IsImageFile reports whether the path has an image extension eligible
// for the perceptual strategy.
func IsImageFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tiff", ".tif":
		return true
	default:
		return false
	}
}
