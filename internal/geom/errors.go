package geom

import (
	"github.com/cockroachdb/errors"

	"geoconv/internal/binio"
	"geoconv/internal/wktlex"
)

var (
	// ErrParse marks malformed text or a trailing remainder after a
	// complete geometry.
	ErrParse = wktlex.ErrParse
	// ErrOutOfRange marks a read or fixed-size write past the buffer end,
	// or a count or precision that cannot be represented.
	ErrOutOfRange = binio.ErrOutOfRange
	// ErrUnsupportedType marks an unknown type keyword or type code.
	ErrUnsupportedType = errors.New("unsupported geometry type")
	// ErrUnrecognizedCRS marks a GeoJSON crs name that is not an EPSG code.
	ErrUnrecognizedCRS = errors.New("unrecognized crs")
	// ErrCouldNotParse is returned by ParseBinary when the input is
	// neither WKB nor TWKB.
	ErrCouldNotParse = errors.New("could not parse binary geometry")
	// ErrInvalidGeometry marks a geometry the target format cannot carry,
	// such as an empty point inside a TWKB multipoint.
	ErrInvalidGeometry = errors.New("invalid geometry")
)

func unsupportedKind(code uint32) error {
	return errors.Wrapf(ErrUnsupportedType, "type code %d", code)
}
