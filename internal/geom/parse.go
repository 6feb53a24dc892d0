package geom

import (
	"encoding/hex"
	"strings"

	"github.com/cockroachdb/errors"
)

// ParseText decodes WKT or EWKT.
func ParseText(s string) (Geometry, error) {
	return UnmarshalWKT(s)
}

// ParseBinary decodes WKB, EWKB or TWKB. WKB is attempted first; only a
// decoding failure (bad type, bad length or leftover bytes) moves on to
// TWKB.
func ParseBinary(b []byte) (Geometry, error) {
	g, wkbErr := UnmarshalWKB(b)
	if wkbErr == nil {
		return g, nil
	}
	if !isFormatMismatch(wkbErr) {
		return nil, wkbErr
	}
	g, twkbErr := UnmarshalTWKB(b)
	if twkbErr == nil {
		return g, nil
	}
	return nil, errors.Wrapf(ErrCouldNotParse, "as WKB: %v; as TWKB: %v", wkbErr, twkbErr)
}

func isFormatMismatch(err error) bool {
	return errors.IsAny(err, ErrUnsupportedType, ErrOutOfRange, ErrParse)
}

// ParseHex decodes hex-encoded binary input, as printed by PostGIS.
func ParseHex(s string) (Geometry, error) {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, errors.Wrap(ErrParse, err.Error())
	}
	return ParseBinary(b)
}

// Parse decodes text or binary input according to its Go type.
func Parse[T string | []byte](in T) (Geometry, error) {
	switch v := any(in).(type) {
	case string:
		return ParseText(v)
	case []byte:
		return ParseBinary(v)
	}
	return nil, errors.AssertionFailedf("unreachable input type %T", in)
}
