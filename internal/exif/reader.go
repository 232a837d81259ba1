package exif

import (
	"encoding/binary"
	"strings"
)

// byteReader provides bounds-checked fixed-endianness reads over a
// byte buffer. Every read takes an explicit offset; a span past the
// end of the buffer returns an OutOfBoundsError rather than panicking,
// so callers can skip the offending tag and continue.
type byteReader struct {
	data  []byte
	order binary.ByteOrder
}

func newByteReader(data []byte, order binary.ByteOrder) *byteReader {
	return &byteReader{data: data, order: order}
}

// slice returns data[offset:offset+length] after checking bounds.
func (r *byteReader) slice(offset, length int) ([]byte, error) {
	if offset < 0 || length < 0 || offset+length > len(r.data) {
		return nil, &OutOfBoundsError{Offset: offset, Length: length, Size: len(r.data)}
	}
	return r.data[offset : offset+length], nil
}

func (r *byteReader) uint8(offset int) (uint8, error) {
	b, err := r.slice(offset, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *byteReader) uint16(offset int) (uint16, error) {
	b, err := r.slice(offset, 2)
	if err != nil {
		return 0, err
	}
	return r.order.Uint16(b), nil
}

func (r *byteReader) uint32(offset int) (uint32, error) {
	b, err := r.slice(offset, 4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(b), nil
}

// int32 reinterprets a 32-bit value as two's-complement signed.
func (r *byteReader) int32(offset int) (int32, error) {
	v, err := r.uint32(offset)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// ascii reads length bytes, truncates at the first NUL and trims
// surrounding whitespace.
func (r *byteReader) ascii(offset, length int) (string, error) {
	b, err := r.slice(offset, length)
	if err != nil {
		return "", err
	}
	s := string(b)
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s), nil
}

// rational reads an 8-byte unsigned rational. A zero denominator
// yields 0: TIFF writers emit 0/0 for unknown values and the decode
// must tolerate it.
func (r *byteReader) rational(offset int) (float64, error) {
	num, err := r.uint32(offset)
	if err != nil {
		return 0, err
	}
	den, err := r.uint32(offset + 4)
	if err != nil {
		return 0, err
	}
	if den == 0 {
		return 0, nil
	}
	return float64(num) / float64(den), nil
}

// srational reads an 8-byte signed rational, zero-denominator policy
// as for rational.
func (r *byteReader) srational(offset int) (float64, error) {
	num, err := r.int32(offset)
	if err != nil {
		return 0, err
	}
	den, err := r.int32(offset + 4)
	if err != nil {
		return 0, err
	}
	if den == 0 {
		return 0, nil
	}
	return float64(num) / float64(den), nil
}
