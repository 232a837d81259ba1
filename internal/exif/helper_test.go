package exif

import (
	"encoding/binary"
)

// tiffEntry is a test-fixture directory entry. Values longer than
// four bytes are relocated to the data area automatically.
type tiffEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	value []byte
}

// tiffBuilder assembles a synthetic TIFF buffer with IFD0 and optional
// EXIF and GPS sub-IFDs for decoder tests.
type tiffBuilder struct {
	order binary.ByteOrder
	ifd0  []tiffEntry
	exif  []tiffEntry
	gps   []tiffEntry
}

func (b *tiffBuilder) build() []byte {
	put16 := func(buf []byte, off int, v uint16) { b.order.PutUint16(buf[off:off+2], v) }
	put32 := func(buf []byte, off int, v uint32) { b.order.PutUint32(buf[off:off+4], v) }

	ifdSize := func(entries []tiffEntry, extra int) int {
		return 2 + (len(entries)+extra)*12 + 4
	}

	extra := 0
	if b.exif != nil {
		extra++
	}
	if b.gps != nil {
		extra++
	}

	ifd0Off := 8
	exifOff := ifd0Off + ifdSize(b.ifd0, extra)
	gpsOff := exifOff
	if b.exif != nil {
		gpsOff += ifdSize(b.exif, 0)
	}
	dataOff := gpsOff
	if b.gps != nil {
		dataOff += ifdSize(b.gps, 0)
	}

	var data []byte
	writeIFD := func(buf []byte, off int, entries []tiffEntry) {
		put16(buf, off, uint16(len(entries)))
		pos := off + 2
		for _, e := range entries {
			put16(buf, pos, e.tag)
			put16(buf, pos+2, e.typ)
			put32(buf, pos+4, e.count)
			if len(e.value) <= 4 {
				copy(buf[pos+8:pos+12], e.value)
			} else {
				put32(buf, pos+8, uint32(dataOff+len(data)))
				data = append(data, e.value...)
			}
			pos += 12
		}
		put32(buf, pos, 0) // no next IFD
	}

	buf := make([]byte, dataOff)
	if b.order == binary.LittleEndian {
		copy(buf[0:2], "II")
	} else {
		copy(buf[0:2], "MM")
	}
	put16(buf, 2, 42)
	put32(buf, 4, uint32(ifd0Off))

	ifd0 := b.ifd0
	if b.exif != nil {
		ifd0 = append(ifd0, tiffEntry{tag: tagExifSubIFD, typ: typeLong, count: 1, value: b.long(uint32(exifOff))})
	}
	if b.gps != nil {
		ifd0 = append(ifd0, tiffEntry{tag: tagGPSSubIFD, typ: typeLong, count: 1, value: b.long(uint32(gpsOff))})
	}

	writeIFD(buf, ifd0Off, ifd0)
	if b.exif != nil {
		writeIFD(buf, exifOff, b.exif)
	}
	if b.gps != nil {
		writeIFD(buf, gpsOff, b.gps)
	}

	return append(buf, data...)
}

func (b *tiffBuilder) short(v uint16) []byte {
	out := make([]byte, 2)
	b.order.PutUint16(out, v)
	return out
}

func (b *tiffBuilder) long(v uint32) []byte {
	out := make([]byte, 4)
	b.order.PutUint32(out, v)
	return out
}

func (b *tiffBuilder) rational(num, den uint32) []byte {
	out := make([]byte, 8)
	b.order.PutUint32(out[0:4], num)
	b.order.PutUint32(out[4:8], den)
	return out
}

func (b *tiffBuilder) rationals(pairs ...uint32) []byte {
	var out []byte
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, b.rational(pairs[i], pairs[i+1])...)
	}
	return out
}

func asciiValue(s string) []byte {
	return append([]byte(s), 0)
}

// wrapJPEG embeds a TIFF buffer in a minimal JPEG: SOI, APP1 with the
// EXIF signature, SOS, EOI.
func wrapJPEG(tiff []byte) []byte {
	var out []byte
	out = append(out, 0xFF, 0xD8)

	segLen := 2 + 6 + len(tiff)
	out = append(out, 0xFF, 0xE1, byte(segLen>>8), byte(segLen))
	out = append(out, []byte("Exif\x00\x00")...)
	out = append(out, tiff...)

	out = append(out, 0xFF, 0xDA, 0x00, 0x02) // SOS
	out = append(out, 0x00, 0x00, 0x00, 0x00) // fake scan data
	out = append(out, 0xFF, 0xD9)             // EOI
	return out
}
