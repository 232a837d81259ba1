package exif

import (
	"fmt"
	"math"
	"strconv"
)

// assemble maps raw per-IFD tag maps into the public Record. Every
// sub-record is built independently and collapsed to nil when all of
// its fields came up absent.
func assemble(res *ifdResult) *Record {
	rec := &Record{
		Camera:   assembleCamera(res.image, res.exif),
		Lens:     assembleLens(res.exif),
		Exposure: assembleExposure(res.exif),
		Image:    assembleImage(res.image, res.exif),
		DateTime: assembleDateTime(res.image, res.exif),
		GPS:      assembleGPS(res.gps),
	}
	if rec.Camera == nil && rec.Lens == nil && rec.Exposure == nil &&
		rec.Image == nil && rec.DateTime == nil && rec.GPS == nil {
		return nil
	}
	return rec
}

func assembleCamera(image, exifTags RawTagMap) *Camera {
	c := &Camera{
		Make:      tagString(image, tagMake),
		Model:     tagString(image, tagModel),
		Software:  tagString(image, tagSoftware),
		Artist:    tagString(image, tagArtist),
		Copyright: tagString(image, tagCopyright),
		Serial:    tagString(exifTags, tagBodySerialNumber),
	}
	if *c == (Camera{}) {
		return nil
	}
	return c
}

func assembleLens(exifTags RawTagMap) *Lens {
	l := &Lens{
		Make:   tagString(exifTags, tagLensMake),
		Model:  tagString(exifTags, tagLensModel),
		Serial: tagString(exifTags, tagLensSerialNumber),
	}
	if v, ok := tagFloat(exifTags, tagFocalLength); ok {
		l.FocalLength = formatMillimeters(v)
	}
	if v, ok := tagUint(exifTags, tagFocalLength35mm); ok {
		l.FocalLength35mm = formatMillimeters(float64(v))
	}
	if apex, ok := tagFloat(exifTags, tagMaxAperture); ok {
		// APEX aperture value: f-number = 2^(apex/2).
		l.MaxAperture = fmt.Sprintf("f/%.1f", math.Pow(2, apex/2))
	}
	if *l == (Lens{}) {
		return nil
	}
	return l
}

func assembleExposure(exifTags RawTagMap) *Exposure {
	e := &Exposure{}
	if v, ok := tagFloat(exifTags, tagExposureTime); ok {
		e.Time = formatExposureTime(v)
	}
	if v, ok := tagFloat(exifTags, tagFNumber); ok {
		e.Aperture = fmt.Sprintf("f/%.1f", v)
	}
	if v, ok := tagUint(exifTags, tagISO); ok {
		e.ISO = strconv.FormatUint(uint64(v), 10)
	}
	if v, ok := tagFloat(exifTags, tagExposureBias); ok {
		e.Bias = fmt.Sprintf("%+.1f EV", v)
	}
	if v, ok := tagUint16(exifTags, tagMeteringMode); ok {
		e.MeteringMode = meteringModeLabel(v)
	}
	if v, ok := tagUint16(exifTags, tagFlash); ok {
		e.Flash = flashLabel(v)
	}
	if v, ok := tagUint16(exifTags, tagWhiteBalance); ok {
		e.WhiteBalance = whiteBalanceLabel(v)
	}
	if *e == (Exposure{}) {
		return nil
	}
	return e
}

func assembleImage(image, exifTags RawTagMap) *Image {
	i := &Image{}
	if v, ok := tagUint(exifTags, tagPixelXDimension); ok {
		i.Width = int(v)
	} else if v, ok := tagUint(image, tagImageWidth); ok {
		i.Width = int(v)
	}
	if v, ok := tagUint(exifTags, tagPixelYDimension); ok {
		i.Height = int(v)
	} else if v, ok := tagUint(image, tagImageHeight); ok {
		i.Height = int(v)
	}
	if v, ok := tagUint16(image, tagOrientation); ok {
		i.Orientation = orientationLabel(v)
	}
	if v, ok := tagUint16(exifTags, tagColorSpace); ok {
		i.ColorSpace = colorSpaceLabel(v)
	}
	if *i == (Image{}) {
		return nil
	}
	return i
}

func assembleDateTime(image, exifTags RawTagMap) *DateTime {
	d := &DateTime{
		Original:  tagString(exifTags, tagDateTimeOriginal),
		Digitized: tagString(exifTags, tagDateTimeDigitized),
		Modified:  tagString(image, tagModifyDate),
	}
	if *d == (DateTime{}) {
		return nil
	}
	return d
}

func assembleGPS(gps RawTagMap) *GPS {
	g := &GPS{
		LatitudeRef:  tagString(gps, tagGPSLatitudeRef),
		LongitudeRef: tagString(gps, tagGPSLongitudeRef),
		Datestamp:    tagString(gps, tagGPSDatestamp),
	}

	if dms, ok := tagFloats(gps, tagGPSLatitude); ok && g.LatitudeRef != "" {
		g.Latitude = dmsToDecimal(dms, g.LatitudeRef)
	}
	if dms, ok := tagFloats(gps, tagGPSLongitude); ok && g.LongitudeRef != "" {
		g.Longitude = dmsToDecimal(dms, g.LongitudeRef)
	}
	if v, ok := tagFloat(gps, tagGPSAltitude); ok {
		g.Altitude = v
		// Ref 1 marks altitude below sea level.
		if ref, ok := gps[tagGPSAltitudeRef].(uint8); ok && ref == 1 {
			g.Altitude = -v
		}
	}
	if hms, ok := tagFloats(gps, tagGPSTimestamp); ok && len(hms) == 3 {
		g.Timestamp = fmt.Sprintf("%02d:%02d:%02d", int(hms[0]), int(hms[1]), int(hms[2]))
	}

	if *g == (GPS{}) {
		return nil
	}
	return g
}

// dmsToDecimal converts a [degrees, minutes, seconds] triple and a
// hemisphere reference to a signed decimal coordinate rounded to six
// digits.
func dmsToDecimal(dms []float64, ref string) float64 {
	var deg, min, sec float64
	if len(dms) > 0 {
		deg = dms[0]
	}
	if len(dms) > 1 {
		min = dms[1]
	}
	if len(dms) > 2 {
		sec = dms[2]
	}
	dec := deg + min/60 + sec/3600
	if ref == "S" || ref == "W" {
		dec = -dec
	}
	return math.Round(dec*1e6) / 1e6
}

// formatExposureTime renders sub-second speeds as a reduced fraction
// and everything else in whole seconds.
func formatExposureTime(v float64) string {
	if v <= 0 {
		return ""
	}
	if v < 1 {
		return fmt.Sprintf("1/%ds", int(math.Round(1/v)))
	}
	return fmt.Sprintf("%ds", int(math.Round(v)))
}

func formatMillimeters(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "mm"
}

// tagString returns the tag's value when it decoded as ASCII.
func tagString(m RawTagMap, tag uint16) string {
	s, _ := m[tag].(string)
	return s
}

// tagFloat returns a scalar rational value.
func tagFloat(m RawTagMap, tag uint16) (float64, bool) {
	switch v := m[tag].(type) {
	case float64:
		return v, true
	case []float64:
		if len(v) > 0 {
			return v[0], true
		}
	}
	return 0, false
}

// tagFloats returns a rational sequence, promoting a scalar to a
// one-element slice.
func tagFloats(m RawTagMap, tag uint16) ([]float64, bool) {
	switch v := m[tag].(type) {
	case []float64:
		return v, true
	case float64:
		return []float64{v}, true
	}
	return nil, false
}

// tagUint16 returns a SHORT scalar.
func tagUint16(m RawTagMap, tag uint16) (uint16, bool) {
	switch v := m[tag].(type) {
	case uint16:
		return v, true
	case []uint16:
		if len(v) > 0 {
			return v[0], true
		}
	}
	return 0, false
}

// tagUint accepts SHORT or LONG storage for dimension-like tags,
// which writers emit in either type.
func tagUint(m RawTagMap, tag uint16) (uint32, bool) {
	switch v := m[tag].(type) {
	case uint16:
		return uint32(v), true
	case uint32:
		return v, true
	case []uint16:
		if len(v) > 0 {
			return uint32(v[0]), true
		}
	case []uint32:
		if len(v) > 0 {
			return v[0], true
		}
	}
	return 0, false
}
