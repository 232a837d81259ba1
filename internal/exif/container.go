package exif

import (
	"encoding/binary"
	"fmt"
	"path/filepath"
	"strings"
)

// JPEG markers relevant to locating embedded TIFF data.
const (
	markerSOI  = 0xFFD8
	markerAPP1 = 0xFFE1
	markerSOS  = 0xFFDA
)

// exifSignature follows the APP1 length field when the segment carries
// EXIF data.
var exifSignature = []byte("Exif\x00\x00")

// locateTIFF finds the TIFF header origin inside raw file bytes.
// For JPEG it scans marker segments for an APP1/EXIF block; for TIFF
// the origin is offset 0. found is false (with a nil error) when a
// well-formed JPEG simply carries no EXIF segment.
func locateTIFF(data []byte, ext string) (origin int, found bool, err error) {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return locateJPEGExif(data)
	case ".tif", ".tiff":
		if err := verifyTIFFHeader(data, 0); err != nil {
			return 0, false, err
		}
		return 0, true, nil
	default:
		return 0, false, fmt.Errorf("unsupported extension %q", ext)
	}
}

// locateJPEGExif walks JPEG marker segments until it finds an APP1
// segment with the EXIF signature, hits start-of-scan, or runs out of
// buffer. Metadata cannot appear after compressed scan data begins.
func locateJPEGExif(data []byte) (int, bool, error) {
	if len(data) < 2 || binary.BigEndian.Uint16(data[0:2]) != markerSOI {
		return 0, false, ErrInvalidContainer
	}

	offset := 2
	for offset+4 <= len(data) {
		marker := binary.BigEndian.Uint16(data[offset : offset+2])
		if marker == markerSOS {
			break
		}
		length := int(binary.BigEndian.Uint16(data[offset+2 : offset+4]))
		if length < 2 {
			break
		}

		if marker == markerAPP1 {
			sigStart := offset + 4
			sigEnd := sigStart + len(exifSignature)
			if sigEnd <= len(data) && string(data[sigStart:sigEnd]) == string(exifSignature) {
				// TIFF header starts right past marker+length+signature.
				return sigEnd, true, nil
			}
		}

		// Length includes its own two bytes.
		offset += 2 + length
	}

	return 0, false, nil
}

// verifyTIFFHeader checks the byte-order marker ("II" or "MM") and the
// magic number 42 at the given origin.
func verifyTIFFHeader(data []byte, origin int) error {
	if origin+4 > len(data) {
		return ErrInvalidHeader
	}
	order, err := tiffByteOrder(data, origin)
	if err != nil {
		return err
	}
	if order.Uint16(data[origin+2:origin+4]) != 42 {
		return ErrInvalidHeader
	}
	return nil
}

// tiffByteOrder reads the byte-order marker at origin.
func tiffByteOrder(data []byte, origin int) (binary.ByteOrder, error) {
	if origin+2 > len(data) {
		return nil, ErrInvalidHeader
	}
	switch string(data[origin : origin+2]) {
	case "II":
		return binary.LittleEndian, nil
	case "MM":
		return binary.BigEndian, nil
	default:
		return nil, ErrInvalidHeader
	}
}

// isSupportedExt reports whether the extension belongs to a container
// this package can parse.
func isSupportedExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".tif", ".tiff":
		return true
	default:
		return false
	}
}
