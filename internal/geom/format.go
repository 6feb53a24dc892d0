package geom

import (
	"bytes"
	"strings"

	"github.com/cockroachdb/errors"
)

// Format names an interchange format.
type Format int

const (
	FormatAuto Format = iota
	FormatWKT
	FormatEWKT
	FormatWKB
	FormatEWKB
	FormatTWKB
	FormatGeoJSON
	FormatHex
)

var formatNames = map[Format]string{
	FormatAuto:    "auto",
	FormatWKT:     "wkt",
	FormatEWKT:    "ewkt",
	FormatWKB:     "wkb",
	FormatEWKB:    "ewkb",
	FormatTWKB:    "twkb",
	FormatGeoJSON: "geojson",
	FormatHex:     "hex",
}

func (f Format) String() string { return formatNames[f] }

// Binary reports whether the format's output is raw bytes.
func (f Format) Binary() bool {
	return f == FormatWKB || f == FormatEWKB || f == FormatTWKB
}

// ParseFormat resolves a case-insensitive format name.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "json" {
		return FormatGeoJSON, nil
	}
	for f, name := range formatNames {
		if name == s {
			return f, nil
		}
	}
	return FormatAuto, errors.Newf("unknown format %q", s)
}

// FormatForExt maps a file extension to the format used to read it.
// Binary extensions map to FormatAuto so the dialect is sniffed.
func FormatForExt(ext string) (Format, bool) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "wkt", "ewkt":
		return FormatWKT, true
	case "geojson", "json":
		return FormatGeoJSON, true
	case "hex":
		return FormatHex, true
	case "wkb", "ewkb", "twkb":
		return FormatAuto, true
	}
	return FormatAuto, false
}

// OutputFormats lists the formats Encode can produce.
var OutputFormats = []Format{FormatWKT, FormatEWKT, FormatWKB, FormatEWKB, FormatTWKB, FormatGeoJSON}

// Options bundles per-format encoder options.
type Options struct {
	WKB     []WKBOption
	TWKB    []TWKBOption
	GeoJSON []GeoJSONOption
}

// Encode renders g in format f.
func Encode(g Geometry, f Format, o Options) ([]byte, error) {
	switch f {
	case FormatWKT:
		return []byte(MarshalWKT(g)), nil
	case FormatEWKT:
		return []byte(MarshalEWKT(g)), nil
	case FormatWKB:
		return MarshalWKB(g, o.WKB...)
	case FormatEWKB:
		return MarshalEWKB(g, o.WKB...)
	case FormatTWKB:
		return MarshalTWKB(g, o.TWKB...)
	case FormatGeoJSON:
		return MarshalGeoJSON(g, o.GeoJSON...)
	}
	return nil, errors.Newf("cannot encode to %s", f)
}

// Decode reads input in format f. FormatAuto picks by content: a leading
// '{' is GeoJSON, text that is all hex digits is hex binary, other
// printable text is WKT, and anything else is sniffed as binary.
func Decode(in []byte, f Format, o Options) (Geometry, error) {
	switch f {
	case FormatWKT, FormatEWKT:
		return UnmarshalWKT(string(in))
	case FormatWKB, FormatEWKB:
		return UnmarshalWKB(in)
	case FormatTWKB:
		return UnmarshalTWKB(in)
	case FormatGeoJSON:
		return UnmarshalGeoJSON(in, o.GeoJSON...)
	case FormatHex:
		return ParseHex(string(in))
	}
	text := bytes.TrimSpace(in)
	switch {
	case len(text) > 0 && text[0] == '{':
		return UnmarshalGeoJSON(text, o.GeoJSON...)
	case isHex(text):
		return ParseHex(string(text))
	case isText(text):
		g, err := UnmarshalWKT(string(text))
		if err == nil || startsWithLetter(text) {
			return g, err
		}
		// Binary input can consist of printable bytes only.
		return ParseBinary(in)
	}
	return ParseBinary(in)
}

func startsWithLetter(b []byte) bool {
	return len(b) > 0 && (b[0] >= 'A' && b[0] <= 'Z' || b[0] >= 'a' && b[0] <= 'z')
}

func isHex(b []byte) bool {
	if len(b) == 0 || len(b)%2 != 0 {
		return false
	}
	for _, c := range b {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}

func isText(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if c < 0x20 && c != '\n' && c != '\r' && c != '\t' || c >= 0x7f {
			return false
		}
	}
	return true
}
