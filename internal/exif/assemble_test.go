package exif

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResult() *ifdResult {
	return &ifdResult{
		image: make(RawTagMap),
		exif:  make(RawTagMap),
		gps:   make(RawTagMap),
	}
}

func TestAssemble_CameraOnly(t *testing.T) {
	res := newResult()
	res.image[tagMake] = "Canon"
	res.image[tagModel] = "EOS R5"

	rec := assemble(res)
	require.NotNil(t, rec)

	require.NotNil(t, rec.Camera)
	assert.Equal(t, "Canon", rec.Camera.Make)
	assert.Equal(t, "EOS R5", rec.Camera.Model)
	assert.Empty(t, rec.Camera.Software)

	// Every other sub-record must collapse to absent.
	assert.Nil(t, rec.Lens)
	assert.Nil(t, rec.Exposure)
	assert.Nil(t, rec.Image)
	assert.Nil(t, rec.DateTime)
	assert.Nil(t, rec.GPS)
}

func TestAssemble_EmptyCollapsesToNil(t *testing.T) {
	assert.Nil(t, assemble(newResult()))
}

func TestAssemble_ExposureFormatting(t *testing.T) {
	res := newResult()
	res.exif[tagExposureTime] = 1.0 / 250.0
	res.exif[tagFNumber] = 2.8
	res.exif[tagISO] = uint16(800)
	res.exif[tagExposureBias] = -0.7
	res.exif[tagFlash] = uint16(0x19)
	res.exif[tagWhiteBalance] = uint16(0)
	res.exif[tagMeteringMode] = uint16(5)

	rec := assemble(res)
	require.NotNil(t, rec)
	require.NotNil(t, rec.Exposure)

	assert.Equal(t, "1/250s", rec.Exposure.Time)
	assert.Equal(t, "f/2.8", rec.Exposure.Aperture)
	assert.Equal(t, "800", rec.Exposure.ISO)
	assert.Equal(t, "-0.7 EV", rec.Exposure.Bias)
	assert.Equal(t, "Auto, Fired", rec.Exposure.Flash)
	assert.Equal(t, "Auto", rec.Exposure.WhiteBalance)
	assert.Equal(t, "Multi-segment", rec.Exposure.MeteringMode)
}

func TestFormatExposureTime(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1.0 / 250.0, "1/250s"},
		{1.0 / 8000.0, "1/8000s"},
		{0.5, "1/2s"},
		{1, "1s"},
		{2, "2s"},
		{30, "30s"},
	}
	for _, tt := range tests {
		if got := formatExposureTime(tt.in); got != tt.want {
			t.Errorf("formatExposureTime(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAssemble_PositiveBiasKeepsSign(t *testing.T) {
	res := newResult()
	res.exif[tagExposureBias] = 1.0

	rec := assemble(res)
	require.NotNil(t, rec)
	assert.Equal(t, "+1.0 EV", rec.Exposure.Bias)
}

func TestAssemble_LensApexAperture(t *testing.T) {
	res := newResult()
	res.exif[tagFocalLength] = 50.0
	res.exif[tagFocalLength35mm] = uint16(75)
	// APEX 2 -> f/2.0
	res.exif[tagMaxAperture] = 2.0

	rec := assemble(res)
	require.NotNil(t, rec)
	require.NotNil(t, rec.Lens)
	assert.Equal(t, "50mm", rec.Lens.FocalLength)
	assert.Equal(t, "75mm", rec.Lens.FocalLength35mm)
	assert.Equal(t, "f/2.0", rec.Lens.MaxAperture)
}

func TestAssemble_ImageLabels(t *testing.T) {
	res := newResult()
	res.image[tagOrientation] = uint16(6)
	res.exif[tagColorSpace] = uint16(1)
	res.exif[tagPixelXDimension] = uint32(6000)
	res.exif[tagPixelYDimension] = uint32(4000)

	rec := assemble(res)
	require.NotNil(t, rec)
	require.NotNil(t, rec.Image)
	assert.Equal(t, 6000, rec.Image.Width)
	assert.Equal(t, 4000, rec.Image.Height)
	assert.Equal(t, "Rotate 90 CW", rec.Image.Orientation)
	assert.Equal(t, "sRGB", rec.Image.ColorSpace)
}

// The flash vocabulary carries every labeled code from the EXIF flash
// table; all other bit combinations are reserved and must fall back.
func TestFlashLabels_CoverDocumentedCodes(t *testing.T) {
	documented := []uint16{
		0x00, 0x01, 0x05, 0x07, 0x08, 0x09, 0x0D, 0x0F,
		0x10, 0x14, 0x18, 0x19, 0x1D, 0x1F, 0x20, 0x30,
		0x41, 0x45, 0x47, 0x49, 0x4D, 0x4F, 0x50, 0x58,
		0x59, 0x5D, 0x5F,
	}
	require.Len(t, flashLabels, len(documented))
	for _, code := range documented {
		label, ok := flashLabels[code]
		assert.True(t, ok, "code 0x%02X missing", code)
		assert.NotContains(t, label, "Unknown")
	}

	for _, code := range []uint16{0x02, 0x03, 0x04, 0x06, 0x11, 0x21, 0x40, 0x60, 0xFF} {
		assert.Equal(t, fmt.Sprintf("Unknown (%d)", code), flashLabel(code))
	}
}

func TestAssemble_UnknownCodesFallBack(t *testing.T) {
	res := newResult()
	res.image[tagOrientation] = uint16(9)
	res.exif[tagFlash] = uint16(0x42)
	res.exif[tagColorSpace] = uint16(2)

	rec := assemble(res)
	require.NotNil(t, rec)
	assert.Equal(t, "Unknown (9)", rec.Image.Orientation)
	assert.Equal(t, "Unknown (66)", rec.Exposure.Flash)
	assert.Equal(t, "Unknown (2)", rec.Image.ColorSpace)
}

func TestDMSToDecimal(t *testing.T) {
	tests := []struct {
		name string
		dms  []float64
		ref  string
		want float64
	}{
		{"north", []float64{40, 26, 46}, "N", 40.446111},
		{"south", []float64{40, 26, 46}, "S", -40.446111},
		{"west", []float64{79, 58, 56}, "W", -79.982222},
		{"east", []float64{2, 21, 3}, "E", 2.350833},
		{"degrees only", []float64{51}, "N", 51},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dmsToDecimal(tt.dms, tt.ref)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestAssemble_GPS(t *testing.T) {
	res := newResult()
	res.gps[tagGPSLatitudeRef] = "N"
	res.gps[tagGPSLatitude] = []float64{40, 26, 46}
	res.gps[tagGPSLongitudeRef] = "W"
	res.gps[tagGPSLongitude] = []float64{79, 58, 56}
	res.gps[tagGPSAltitude] = 123.5
	res.gps[tagGPSAltitudeRef] = uint8(1)
	res.gps[tagGPSTimestamp] = []float64{14, 27, 9}
	res.gps[tagGPSDatestamp] = "2024:06:15"

	rec := assemble(res)
	require.NotNil(t, rec)
	require.NotNil(t, rec.GPS)

	assert.InDelta(t, 40.446111, rec.GPS.Latitude, 1e-9)
	assert.InDelta(t, -79.982222, rec.GPS.Longitude, 1e-9)
	assert.Equal(t, -123.5, rec.GPS.Altitude, "below sea level")
	assert.Equal(t, "14:27:09", rec.GPS.Timestamp)
	assert.Equal(t, "2024:06:15", rec.GPS.Datestamp)
}

func TestAssemble_GPSCoordinateWithoutRefDropped(t *testing.T) {
	res := newResult()
	res.gps[tagGPSLatitude] = []float64{40, 26, 46}

	rec := assemble(res)
	// No hemisphere reference: the coordinate cannot be signed, so no
	// GPS sub-record at all.
	assert.Nil(t, rec)
}

func TestRecord_SummaryAndFlat(t *testing.T) {
	rec := &Record{
		Camera:   &Camera{Make: "Canon", Model: "EOS R5"},
		Exposure: &Exposure{Time: "1/250s", Aperture: "f/2.8"},
		GPS:      &GPS{Latitude: 40.446111, Longitude: -79.982222, LatitudeRef: "N", LongitudeRef: "W"},
	}

	summary := rec.Summary()
	assert.Contains(t, summary, "Canon EOS R5")
	assert.Contains(t, summary, "1/250s")
	assert.Contains(t, summary, "40.446111")

	flat := rec.Flat()
	assert.Equal(t, "Canon", flat["camera.make"])
	assert.Equal(t, "EOS R5", flat["camera.model"])
	assert.Equal(t, "1/250s", flat["exposure.time"])
	assert.Equal(t, 40.446111, flat["gps.latitude"])
	_, present := flat["lens.model"]
	assert.False(t, present)
}

func TestRecord_NilProjections(t *testing.T) {
	var rec *Record
	assert.Empty(t, rec.Summary())
	assert.Empty(t, rec.Flat())
}
