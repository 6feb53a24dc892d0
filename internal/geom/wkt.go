package geom

import (
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"geoconv/internal/wktlex"
)

// MarshalWKT renders g as well-known text. The SRID is not written.
func MarshalWKT(g Geometry) string {
	var sb strings.Builder
	writeText(&sb, g)
	return sb.String()
}

// MarshalEWKT renders g as extended well-known text, prefixing
// "SRID=<n>;" when g carries an SRID.
func MarshalEWKT(g Geometry) string {
	var sb strings.Builder
	if srid, ok := g.SRID(); ok {
		sb.WriteString("SRID=")
		sb.WriteString(strconv.FormatUint(uint64(srid), 10))
		sb.WriteByte(';')
	}
	writeText(&sb, g)
	return sb.String()
}

func writeText(sb *strings.Builder, g Geometry) {
	sb.WriteString(g.Kind().Keyword())
	switch g.Layout() {
	case XYZ:
		sb.WriteString(" Z ")
	case XYM:
		sb.WriteString(" M ")
	case XYZM:
		sb.WriteString(" ZM ")
	default:
		if g.IsEmpty() {
			sb.WriteByte(' ')
		}
	}
	if g.IsEmpty() {
		sb.WriteString("EMPTY")
		return
	}
	l := g.Layout()
	sb.WriteByte('(')
	switch g := g.(type) {
	case *Point:
		writeTextCoord(sb, l, g)
	case *LineString:
		writeTextCoords(sb, l, g.Points)
	case *Polygon:
		writeTextRings(sb, l, g.Rings())
	case *MultiPoint:
		for i, p := range g.Points {
			if i > 0 {
				sb.WriteByte(',')
			}
			if p.IsEmpty() {
				sb.WriteString("EMPTY")
				continue
			}
			writeTextCoord(sb, l, p)
		}
	case *MultiLineString:
		for i, ls := range g.LineStrings {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteByte('(')
			writeTextCoords(sb, l, ls.Points)
			sb.WriteByte(')')
		}
	case *MultiPolygon:
		for i, p := range g.Polygons {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteByte('(')
			writeTextRings(sb, l, p.Rings())
			sb.WriteByte(')')
		}
	case *GeometryCollection:
		for i, m := range g.Geometries {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeText(sb, m)
		}
	}
	sb.WriteByte(')')
}

func writeTextRings(sb *strings.Builder, l Layout, rings [][]Point) {
	for i, ring := range rings {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('(')
		writeTextCoords(sb, l, ring)
		sb.WriteByte(')')
	}
}

func writeTextCoords(sb *strings.Builder, l Layout, pts []Point) {
	for i := range pts {
		if i > 0 {
			sb.WriteByte(',')
		}
		writeTextCoord(sb, l, &pts[i])
	}
}

func writeTextCoord(sb *strings.Builder, l Layout, p *Point) {
	sb.WriteString(formatNumber(p.X))
	sb.WriteByte(' ')
	sb.WriteString(formatNumber(p.Y))
	if l.HasZ() {
		sb.WriteByte(' ')
		sb.WriteString(formatNumber(p.Z))
	}
	if l.HasM() {
		sb.WriteByte(' ')
		sb.WriteString(formatNumber(p.M))
	}
}

// formatNumber writes the shortest decimal that reads back to v. Very
// large and very small magnitudes switch to exponent form.
func formatNumber(v float64) string {
	if a := math.Abs(v); a >= 1e21 || (a != 0 && a < 1e-6) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// UnmarshalWKT parses WKT or EWKT. Anything but whitespace after the
// geometry is an error.
func UnmarshalWKT(s string) (Geometry, error) {
	l := wktlex.New(s)
	g, err := readText(l)
	if err != nil {
		return nil, err
	}
	if !l.AtEnd() {
		return nil, l.Errorf("unexpected trailing text")
	}
	return g, nil
}

var textKeywords = []string{
	"POINT", "LINESTRING", "POLYGON",
	"MULTIPOINT", "MULTILINESTRING", "MULTIPOLYGON",
	"GEOMETRYCOLLECTION",
}

var kindByKeyword = map[string]Kind{
	"POINT":              KindPoint,
	"LINESTRING":         KindLineString,
	"POLYGON":            KindPolygon,
	"MULTIPOINT":         KindMultiPoint,
	"MULTILINESTRING":    KindMultiLineString,
	"MULTIPOLYGON":       KindMultiPolygon,
	"GEOMETRYCOLLECTION": KindGeometryCollection,
}

func readText(l *wktlex.Lexer) (Geometry, error) {
	srid, hasSRID, err := l.MatchSRID()
	if err != nil {
		return nil, err
	}
	kw, ok := l.Match(textKeywords...)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedType, "unknown type keyword at offset %d", l.Pos())
	}
	kind := kindByKeyword[kw]
	layout := LayoutOf(l.MatchDimension())

	var g Geometry
	if l.IsMatch("EMPTY") {
		g, err = NewEmpty(kind, layout)
	} else {
		g, err = readTextBody(l, kind, layout)
	}
	if err != nil {
		return nil, err
	}
	if hasSRID {
		g.hdr().SetSRID(srid)
	}
	return g, nil
}

func readTextBody(l *wktlex.Lexer, kind Kind, layout Layout) (Geometry, error) {
	if err := l.ExpectGroupStart(); err != nil {
		return nil, err
	}
	h := header{layout: layout}
	var g Geometry
	switch kind {
	case KindPoint:
		c, err := l.MatchCoordinate(layout.Stride())
		if err != nil {
			return nil, err
		}
		p := vertex(layout, c)
		g = &p
	case KindLineString:
		pts, err := readTextPoints(l, layout)
		if err != nil {
			return nil, err
		}
		g = &LineString{header: h, Points: pts}
	case KindPolygon:
		rings, err := readTextRings(l, layout)
		if err != nil {
			return nil, err
		}
		g = polygonFromRings(h, rings)
	case KindMultiPoint:
		mp := &MultiPoint{header: h}
		for {
			p, err := readTextMember(l, layout)
			if err != nil {
				return nil, err
			}
			mp.Points = append(mp.Points, p)
			if !l.IsMatch(",") {
				break
			}
		}
		g = mp
	case KindMultiLineString:
		ml := &MultiLineString{header: h}
		for {
			if err := l.ExpectGroupStart(); err != nil {
				return nil, err
			}
			pts, err := readTextPoints(l, layout)
			if err != nil {
				return nil, err
			}
			if err := l.ExpectGroupEnd(); err != nil {
				return nil, err
			}
			ml.LineStrings = append(ml.LineStrings, &LineString{header: h, Points: pts})
			if !l.IsMatch(",") {
				break
			}
		}
		g = ml
	case KindMultiPolygon:
		mp := &MultiPolygon{header: h}
		for {
			if err := l.ExpectGroupStart(); err != nil {
				return nil, err
			}
			rings, err := readTextRings(l, layout)
			if err != nil {
				return nil, err
			}
			if err := l.ExpectGroupEnd(); err != nil {
				return nil, err
			}
			mp.Polygons = append(mp.Polygons, polygonFromRings(h, rings))
			if !l.IsMatch(",") {
				break
			}
		}
		g = mp
	case KindGeometryCollection:
		gc := &GeometryCollection{header: h}
		for {
			start := l.Pos()
			m, err := readText(l)
			if err != nil {
				return nil, err
			}
			if m.Layout() != layout {
				return nil, errors.Wrapf(ErrParse, "%s member at offset %d in %s collection", m.Layout(), start, layout)
			}
			gc.Geometries = append(gc.Geometries, m)
			if !l.IsMatch(",") {
				break
			}
		}
		g = gc
	}
	if err := l.ExpectGroupEnd(); err != nil {
		return nil, err
	}
	return g, nil
}

// readTextMember reads one multipoint member: EMPTY, a bare tuple, or a
// parenthesised tuple.
func readTextMember(l *wktlex.Lexer, layout Layout) (*Point, error) {
	if l.IsMatch("EMPTY") {
		return NewPointEmpty(layout), nil
	}
	wrapped := l.IsMatch("(")
	c, err := l.MatchCoordinate(layout.Stride())
	if err != nil {
		return nil, err
	}
	if wrapped {
		if err := l.ExpectGroupEnd(); err != nil {
			return nil, err
		}
	}
	p := vertex(layout, c)
	return &p, nil
}

func readTextPoints(l *wktlex.Lexer, layout Layout) ([]Point, error) {
	coords, err := l.MatchCoordinates(layout.Stride())
	if err != nil {
		return nil, err
	}
	pts := make([]Point, len(coords))
	for i, c := range coords {
		pts[i] = vertex(layout, c)
	}
	return pts, nil
}

// readTextRings reads "(ring),(ring),..." without the enclosing group.
func readTextRings(l *wktlex.Lexer, layout Layout) ([][]Point, error) {
	var rings [][]Point
	for {
		if err := l.ExpectGroupStart(); err != nil {
			return nil, err
		}
		ring, err := readTextPoints(l, layout)
		if err != nil {
			return nil, err
		}
		if err := l.ExpectGroupEnd(); err != nil {
			return nil, err
		}
		rings = append(rings, ring)
		if !l.IsMatch(",") {
			return rings, nil
		}
	}
}

func polygonFromRings(h header, rings [][]Point) *Polygon {
	p := &Polygon{header: h}
	if len(rings) > 0 {
		p.Exterior = rings[0]
		p.Interiors = rings[1:]
	}
	return p
}
