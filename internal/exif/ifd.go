package exif

import "fmt"

// TIFF field type codes.
const (
	typeByte      = 1
	typeASCII     = 2
	typeShort     = 3
	typeLong      = 4
	typeRational  = 5
	typeSByte     = 6
	typeUndefined = 7
	typeSShort    = 8
	typeSLong     = 9
	typeSRational = 10
)

// typeSize returns the byte size of one element of the given type.
// Unrecognized types default to 1 so the entry's value span stays
// within the 4-byte inline field.
func typeSize(t uint16) int {
	switch t {
	case typeShort, typeSShort:
		return 2
	case typeLong, typeSLong:
		return 4
	case typeRational, typeSRational:
		return 8
	default:
		return 1
	}
}

// directoryEntry is one 12-byte IFD record.
type directoryEntry struct {
	tag       uint16
	fieldType uint16
	count     uint32
	// valueOffset holds the raw 4-byte value field; it is the value
	// itself when the total size fits in 4 bytes, otherwise an offset
	// from the TIFF origin.
	valueOffset uint32
	entryOffset int
}

// RawTagMap holds decoded values for one IFD, keyed by tag id.
type RawTagMap map[uint16]any

// SkippedTag records a single directory entry that failed to decode.
// The directory as a whole never aborts on a bad entry.
type SkippedTag struct {
	Kind IFDKind
	Tag  uint16
	Err  error
}

func (s SkippedTag) String() string {
	return fmt.Sprintf("%s tag 0x%04X: %v", s.Kind, s.Tag, s.Err)
}

// ifdResult is the outcome of walking IFD0 and its sub-IFDs. Tag maps
// are kept per IFD kind: GPS tags share the low numeric range with
// unrelated image tags and must never land in the same map.
type ifdResult struct {
	image   RawTagMap
	exif    RawTagMap
	gps     RawTagMap
	skipped []SkippedTag
}

// decodeTIFF walks the TIFF structure at origin: header, IFD0, then
// the EXIF and GPS sub-IFDs IFD0 points to.
func decodeTIFF(data []byte, origin int) (*ifdResult, error) {
	order, err := tiffByteOrder(data, origin)
	if err != nil {
		return nil, err
	}
	r := newByteReader(data, order)

	magic, err := r.uint16(origin + 2)
	if err != nil || magic != 42 {
		return nil, ErrInvalidHeader
	}
	firstIFD, err := r.uint32(origin + 4)
	if err != nil {
		return nil, ErrInvalidHeader
	}

	res := &ifdResult{
		image: make(RawTagMap),
		exif:  make(RawTagMap),
		gps:   make(RawTagMap),
	}
	res.decodeIFD(r, origin, int(firstIFD), KindImage)
	return res, nil
}

// decodeIFD decodes one directory at dirOffset (relative to origin)
// into the map for the given kind, recursing into EXIF and GPS
// sub-IFDs when their pointer tags appear.
func (res *ifdResult) decodeIFD(r *byteReader, origin, dirOffset int, kind IFDKind) {
	base := origin + dirOffset
	count, err := r.uint16(base)
	if err != nil {
		res.skip(kind, 0, err)
		return
	}

	dst := res.mapFor(kind)
	for i := 0; i < int(count); i++ {
		entryOffset := base + 2 + i*12
		entry, err := readEntry(r, entryOffset)
		if err != nil {
			res.skip(kind, 0, err)
			return
		}

		if kind == KindImage {
			switch entry.tag {
			case tagExifSubIFD:
				res.decodeIFD(r, origin, int(entry.valueOffset), KindExif)
				continue
			case tagGPSSubIFD:
				res.decodeIFD(r, origin, int(entry.valueOffset), KindGPS)
				continue
			}
		}

		value, err := decodeValue(r, origin, entry)
		if err != nil {
			// A single malformed entry must not abort the directory.
			res.skip(kind, entry.tag, err)
			continue
		}
		if value == nil {
			continue
		}
		dst[entry.tag] = value
	}
}

func (res *ifdResult) mapFor(kind IFDKind) RawTagMap {
	switch kind {
	case KindExif:
		return res.exif
	case KindGPS:
		return res.gps
	default:
		return res.image
	}
}

func (res *ifdResult) skip(kind IFDKind, tag uint16, err error) {
	res.skipped = append(res.skipped, SkippedTag{Kind: kind, Tag: tag, Err: err})
}

func readEntry(r *byteReader, offset int) (directoryEntry, error) {
	tag, err := r.uint16(offset)
	if err != nil {
		return directoryEntry{}, err
	}
	fieldType, err := r.uint16(offset + 2)
	if err != nil {
		return directoryEntry{}, err
	}
	count, err := r.uint32(offset + 4)
	if err != nil {
		return directoryEntry{}, err
	}
	valueOffset, err := r.uint32(offset + 8)
	if err != nil {
		return directoryEntry{}, err
	}
	return directoryEntry{
		tag:         tag,
		fieldType:   fieldType,
		count:       count,
		valueOffset: valueOffset,
		entryOffset: offset,
	}, nil
}

// decodeValue resolves the entry's value span and decodes it per type.
// A nil value with nil error means the type code is unsupported and
// the tag is dropped.
func decodeValue(r *byteReader, origin int, entry directoryEntry) (any, error) {
	count := int(entry.count)
	size := typeSize(entry.fieldType) * count

	// Values up to 4 bytes are stored inline in the value field;
	// larger ones live elsewhere in the buffer.
	valueAt := entry.entryOffset + 8
	if size > 4 {
		valueAt = origin + int(entry.valueOffset)
	}

	switch entry.fieldType {
	case typeByte:
		b, err := r.slice(valueAt, count)
		if err != nil {
			return nil, err
		}
		if count == 1 {
			return b[0], nil
		}
		out := make([]byte, count)
		copy(out, b)
		return out, nil

	case typeASCII:
		return r.ascii(valueAt, count)

	case typeShort:
		if count == 1 {
			return r.uint16(valueAt)
		}
		out := make([]uint16, count)
		for i := range out {
			v, err := r.uint16(valueAt + i*2)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case typeLong:
		if count == 1 {
			return r.uint32(valueAt)
		}
		out := make([]uint32, count)
		for i := range out {
			v, err := r.uint32(valueAt + i*4)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case typeSLong:
		if count == 1 {
			return r.int32(valueAt)
		}
		out := make([]int32, count)
		for i := range out {
			v, err := r.int32(valueAt + i*4)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case typeRational:
		if count == 1 {
			return r.rational(valueAt)
		}
		out := make([]float64, count)
		for i := range out {
			v, err := r.rational(valueAt + i*8)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case typeSRational:
		if count == 1 {
			return r.srational(valueAt)
		}
		out := make([]float64, count)
		for i := range out {
			v, err := r.srational(valueAt + i*8)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case typeUndefined:
		b, err := r.slice(valueAt, count)
		if err != nil {
			return nil, err
		}
		out := make([]byte, count)
		copy(out, b)
		return out, nil

	default:
		return nil, nil
	}
}
