package exif

import "fmt"

// IFDKind distinguishes the tag vocabulary a directory uses. GPS tags
// reuse the numeric range 0x0000-0x001D also occupied by plain image
// tags, so lookups are always keyed by (kind, tag), never tag alone.
type IFDKind int

const (
	KindImage IFDKind = iota
	KindExif
	KindGPS
)

func (k IFDKind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindExif:
		return "exif"
	case KindGPS:
		return "gps"
	default:
		return fmt.Sprintf("ifd(%d)", int(k))
	}
}

// IFD0 / image tags.
const (
	tagImageWidth       = 0x0100
	tagImageHeight      = 0x0101
	tagMake             = 0x010F
	tagModel            = 0x0110
	tagOrientation      = 0x0112
	tagSoftware         = 0x0131
	tagModifyDate       = 0x0132
	tagArtist           = 0x013B
	tagCopyright        = 0x8298
	tagExifSubIFD       = 0x8769
	tagGPSSubIFD        = 0x8825
)

// EXIF sub-IFD tags.
const (
	tagExposureTime      = 0x829A
	tagFNumber           = 0x829D
	tagISO               = 0x8827
	tagDateTimeOriginal  = 0x9003
	tagDateTimeDigitized = 0x9004
	tagExposureBias      = 0x9204
	tagMaxAperture       = 0x9205
	tagMeteringMode      = 0x9207
	tagFlash             = 0x9209
	tagFocalLength       = 0x920A
	tagColorSpace        = 0xA001
	tagPixelXDimension   = 0xA002
	tagPixelYDimension   = 0xA003
	tagWhiteBalance      = 0xA403
	tagFocalLength35mm   = 0xA405
	tagBodySerialNumber  = 0xA431
	tagLensSpecification = 0xA432
	tagLensMake          = 0xA433
	tagLensModel         = 0xA434
	tagLensSerialNumber  = 0xA435
)

// GPS sub-IFD tags. These overlap numerically with low image tags,
// which is why they only apply under KindGPS.
const (
	tagGPSLatitudeRef  = 0x0001
	tagGPSLatitude     = 0x0002
	tagGPSLongitudeRef = 0x0003
	tagGPSLongitude    = 0x0004
	tagGPSAltitudeRef  = 0x0005
	tagGPSAltitude     = 0x0006
	tagGPSTimestamp    = 0x0007
	tagGPSDatestamp    = 0x001D
)

// orientationLabels maps the eight defined orientation codes.
var orientationLabels = map[uint16]string{
	1: "Horizontal (normal)",
	2: "Mirror horizontal",
	3: "Rotate 180",
	4: "Mirror vertical",
	5: "Mirror horizontal and rotate 270 CW",
	6: "Rotate 90 CW",
	7: "Mirror horizontal and rotate 90 CW",
	8: "Rotate 270 CW",
}

// flashLabels covers the documented flash bit patterns.
var flashLabels = map[uint16]string{
	0x00: "No Flash",
	0x01: "Fired",
	0x05: "Fired, Return not detected",
	0x07: "Fired, Return detected",
	0x08: "On, Did not fire",
	0x09: "On, Fired",
	0x0D: "On, Return not detected",
	0x0F: "On, Return detected",
	0x10: "Off, Did not fire",
	0x14: "Off, Did not fire, Return not detected",
	0x18: "Auto, Did not fire",
	0x19: "Auto, Fired",
	0x1D: "Auto, Fired, Return not detected",
	0x1F: "Auto, Fired, Return detected",
	0x20: "No flash function",
	0x30: "Off, No flash function",
	0x41: "Fired, Red-eye reduction",
	0x45: "Fired, Red-eye reduction, Return not detected",
	0x47: "Fired, Red-eye reduction, Return detected",
	0x49: "On, Red-eye reduction",
	0x4D: "On, Red-eye reduction, Return not detected",
	0x4F: "On, Red-eye reduction, Return detected",
	0x50: "Off, Red-eye reduction",
	0x58: "Auto, Did not fire, Red-eye reduction",
	0x59: "Auto, Fired, Red-eye reduction",
	0x5D: "Auto, Fired, Red-eye reduction, Return not detected",
	0x5F: "Auto, Fired, Red-eye reduction, Return detected",
}

func orientationLabel(code uint16) string {
	if s, ok := orientationLabels[code]; ok {
		return s
	}
	return fmt.Sprintf("Unknown (%d)", code)
}

func flashLabel(code uint16) string {
	if s, ok := flashLabels[code]; ok {
		return s
	}
	return fmt.Sprintf("Unknown (%d)", code)
}

func whiteBalanceLabel(code uint16) string {
	switch code {
	case 0:
		return "Auto"
	case 1:
		return "Manual"
	default:
		return fmt.Sprintf("Unknown (%d)", code)
	}
}

func colorSpaceLabel(code uint16) string {
	switch code {
	case 1:
		return "sRGB"
	case 65535:
		return "Uncalibrated"
	default:
		return fmt.Sprintf("Unknown (%d)", code)
	}
}

func meteringModeLabel(code uint16) string {
	switch code {
	case 0:
		return "Unknown"
	case 1:
		return "Average"
	case 2:
		return "Center-weighted average"
	case 3:
		return "Spot"
	case 4:
		return "Multi-spot"
	case 5:
		return "Multi-segment"
	case 6:
		return "Partial"
	case 255:
		return "Other"
	default:
		return fmt.Sprintf("Unknown (%d)", code)
	}
}
