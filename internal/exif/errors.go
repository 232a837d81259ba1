package exif

import (
	"errors"
	"fmt"
)

// ErrInvalidContainer indicates the file does not start with the
// expected JPEG magic bytes.
var ErrInvalidContainer = errors.New("invalid container: bad JPEG magic")

// ErrInvalidHeader indicates a TIFF header with an unknown byte-order
// marker or a magic number other than 42.
var ErrInvalidHeader = errors.New("invalid TIFF header")

// OutOfBoundsError is returned when a read would exceed the buffer.
// IFD decoding catches it per tag and records the tag as skipped
// instead of aborting the directory.
type OutOfBoundsError struct {
	Offset int
	Length int
	Size   int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("read of %d bytes at offset %d exceeds buffer size %d", e.Length, e.Offset, e.Size)
}

// IsOutOfBounds reports whether err is an OutOfBoundsError.
func IsOutOfBounds(err error) bool {
	var oob *OutOfBoundsError
	return errors.As(err, &oob)
}
