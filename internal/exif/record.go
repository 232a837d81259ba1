package exif

import (
	"fmt"
	"strings"
)

// Record is the assembled metadata for one image. Sub-records are nil
// when none of their tags decoded; callers must treat presence, not
// zero values, as the signal.
type Record struct {
	Camera   *Camera   `json:"camera,omitempty"`
	Lens     *Lens     `json:"lens,omitempty"`
	Exposure *Exposure `json:"exposure,omitempty"`
	Image    *Image    `json:"image,omitempty"`
	DateTime *DateTime `json:"datetime,omitempty"`
	GPS      *GPS      `json:"gps,omitempty"`
}

// Camera identifies the capturing device.
type Camera struct {
	Make      string `json:"make,omitempty"`
	Model     string `json:"model,omitempty"`
	Software  string `json:"software,omitempty"`
	Artist    string `json:"artist,omitempty"`
	Copyright string `json:"copyright,omitempty"`
	Serial    string `json:"serial,omitempty"`
}

// Lens describes the attached lens.
type Lens struct {
	Make            string `json:"make,omitempty"`
	Model           string `json:"model,omitempty"`
	Serial          string `json:"serial,omitempty"`
	FocalLength     string `json:"focal_length,omitempty"`
	FocalLength35mm string `json:"focal_length_35mm,omitempty"`
	MaxAperture     string `json:"max_aperture,omitempty"`
}

// Exposure holds the capture settings, pre-formatted for display.
type Exposure struct {
	Time         string `json:"time,omitempty"`
	Aperture     string `json:"aperture,omitempty"`
	ISO          string `json:"iso,omitempty"`
	Bias         string `json:"bias,omitempty"`
	MeteringMode string `json:"metering_mode,omitempty"`
	Flash        string `json:"flash,omitempty"`
	WhiteBalance string `json:"white_balance,omitempty"`
}

// Image holds pixel-level properties.
type Image struct {
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Orientation string `json:"orientation,omitempty"`
	ColorSpace  string `json:"color_space,omitempty"`
}

// DateTime holds the three EXIF timestamps as written in the file
// ("2006:01:02 15:04:05" form, not reparsed).
type DateTime struct {
	Original  string `json:"original,omitempty"`
	Digitized string `json:"digitized,omitempty"`
	Modified  string `json:"modified,omitempty"`
}

// GPS holds the decoded position.
type GPS struct {
	Latitude     float64 `json:"latitude,omitempty"`
	Longitude    float64 `json:"longitude,omitempty"`
	Altitude     float64 `json:"altitude,omitempty"`
	LatitudeRef  string  `json:"latitude_ref,omitempty"`
	LongitudeRef string  `json:"longitude_ref,omitempty"`
	Timestamp    string  `json:"timestamp,omitempty"`
	Datestamp    string  `json:"datestamp,omitempty"`
}

// Summary renders the record as a short human-readable block, one
// line per populated field. Empty for a nil record.
func (r *Record) Summary() string {
	if r == nil {
		return ""
	}

	var b strings.Builder
	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%-18s %s\n", label+":", value)
		}
	}

	if c := r.Camera; c != nil {
		line("Camera", strings.TrimSpace(c.Make+" "+c.Model))
		line("Software", c.Software)
		line("Artist", c.Artist)
		line("Copyright", c.Copyright)
		line("Serial", c.Serial)
	}
	if l := r.Lens; l != nil {
		line("Lens", strings.TrimSpace(l.Make+" "+l.Model))
		line("Focal length", l.FocalLength)
		line("Focal (35mm)", l.FocalLength35mm)
		line("Max aperture", l.MaxAperture)
	}
	if e := r.Exposure; e != nil {
		line("Exposure", e.Time)
		line("Aperture", e.Aperture)
		line("ISO", e.ISO)
		line("Bias", e.Bias)
		line("Metering", e.MeteringMode)
		line("Flash", e.Flash)
		line("White balance", e.WhiteBalance)
	}
	if i := r.Image; i != nil {
		if i.Width > 0 && i.Height > 0 {
			line("Dimensions", fmt.Sprintf("%dx%d", i.Width, i.Height))
		}
		line("Orientation", i.Orientation)
		line("Color space", i.ColorSpace)
	}
	if d := r.DateTime; d != nil {
		line("Taken", d.Original)
		line("Digitized", d.Digitized)
		line("Modified", d.Modified)
	}
	if g := r.GPS; g != nil {
		if g.Latitude != 0 || g.Longitude != 0 {
			line("Position", fmt.Sprintf("%.6f, %.6f", g.Latitude, g.Longitude))
		}
		if g.Altitude != 0 {
			line("Altitude", fmt.Sprintf("%.1fm", g.Altitude))
		}
		line("GPS time", strings.TrimSpace(g.Datestamp+" "+g.Timestamp))
	}

	return b.String()
}

// Flat projects the record into a flat key/value map suitable for
// embedding into a downstream index. Empty for a nil record.
func (r *Record) Flat() map[string]any {
	if r == nil {
		return map[string]any{}
	}

	out := make(map[string]any)
	put := func(key string, value string) {
		if value != "" {
			out[key] = value
		}
	}

	if c := r.Camera; c != nil {
		put("camera.make", c.Make)
		put("camera.model", c.Model)
		put("camera.software", c.Software)
		put("camera.artist", c.Artist)
		put("camera.copyright", c.Copyright)
		put("camera.serial", c.Serial)
	}
	if l := r.Lens; l != nil {
		put("lens.make", l.Make)
		put("lens.model", l.Model)
		put("lens.serial", l.Serial)
		put("lens.focal_length", l.FocalLength)
		put("lens.focal_length_35mm", l.FocalLength35mm)
		put("lens.max_aperture", l.MaxAperture)
	}
	if e := r.Exposure; e != nil {
		put("exposure.time", e.Time)
		put("exposure.aperture", e.Aperture)
		put("exposure.iso", e.ISO)
		put("exposure.bias", e.Bias)
		put("exposure.metering_mode", e.MeteringMode)
		put("exposure.flash", e.Flash)
		put("exposure.white_balance", e.WhiteBalance)
	}
	if i := r.Image; i != nil {
		if i.Width > 0 {
			out["image.width"] = i.Width
		}
		if i.Height > 0 {
			out["image.height"] = i.Height
		}
		put("image.orientation", i.Orientation)
		put("image.color_space", i.ColorSpace)
	}
	if d := r.DateTime; d != nil {
		put("datetime.original", d.Original)
		put("datetime.digitized", d.Digitized)
		put("datetime.modified", d.Modified)
	}
	if g := r.GPS; g != nil {
		if g.Latitude != 0 || g.Longitude != 0 {
			out["gps.latitude"] = g.Latitude
			out["gps.longitude"] = g.Longitude
		}
		if g.Altitude != 0 {
			out["gps.altitude"] = g.Altitude
		}
		put("gps.latitude_ref", g.LatitudeRef)
		put("gps.longitude_ref", g.LongitudeRef)
		put("gps.timestamp", g.Timestamp)
		put("gps.datestamp", g.Datestamp)
	}

	return out
}
