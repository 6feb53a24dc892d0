// Package geom holds the geometry model shared by every interchange format
// (WKT/EWKT, WKB/EWKB, TWKB and GeoJSON) along with the codecs themselves.
//
// Geometry is a closed set of seven kinds. Codecs switch over the concrete
// type; there is no per-kind method table.
package geom

import (
	"fmt"
	"math"
)

// Kind identifies a geometry type. Values match the WKB/TWKB type codes.
type Kind uint8

const (
	KindPoint Kind = iota + 1
	KindLineString
	KindPolygon
	KindMultiPoint
	KindMultiLineString
	KindMultiPolygon
	KindGeometryCollection
)

var kindNames = [...]string{
	KindPoint:              "Point",
	KindLineString:         "LineString",
	KindPolygon:            "Polygon",
	KindMultiPoint:         "MultiPoint",
	KindMultiLineString:    "MultiLineString",
	KindMultiPolygon:       "MultiPolygon",
	KindGeometryCollection: "GeometryCollection",
}

var kindKeywords = [...]string{
	KindPoint:              "POINT",
	KindLineString:         "LINESTRING",
	KindPolygon:            "POLYGON",
	KindMultiPoint:         "MULTIPOINT",
	KindMultiLineString:    "MULTILINESTRING",
	KindMultiPolygon:       "MULTIPOLYGON",
	KindGeometryCollection: "GEOMETRYCOLLECTION",
}

// Valid reports whether k is one of the seven known kinds.
func (k Kind) Valid() bool { return k >= KindPoint && k <= KindGeometryCollection }

// String returns the GeoJSON name of the kind.
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// Keyword returns the WKT keyword of the kind.
func (k Kind) Keyword() string {
	if !k.Valid() {
		return ""
	}
	return kindKeywords[k]
}

// Layout is the coordinate dimensionality of a geometry.
type Layout uint8

const (
	XY Layout = iota
	XYZ
	XYM
	XYZM
)

// LayoutOf combines the Z and M flags into a Layout.
func LayoutOf(hasZ, hasM bool) Layout {
	switch {
	case hasZ && hasM:
		return XYZM
	case hasZ:
		return XYZ
	case hasM:
		return XYM
	}
	return XY
}

func (l Layout) HasZ() bool { return l == XYZ || l == XYZM }
func (l Layout) HasM() bool { return l == XYM || l == XYZM }

// Stride is the number of ordinates per coordinate.
func (l Layout) Stride() int {
	switch l {
	case XYZ, XYM:
		return 3
	case XYZM:
		return 4
	}
	return 2
}

func (l Layout) String() string {
	switch l {
	case XYZ:
		return "XYZ"
	case XYM:
		return "XYM"
	case XYZM:
		return "XYZM"
	}
	return "XY"
}

// Geometry is implemented by the seven pointer types of this package:
// *Point, *LineString, *Polygon, *MultiPoint, *MultiLineString,
// *MultiPolygon and *GeometryCollection.
type Geometry interface {
	Kind() Kind
	Layout() Layout
	HasZ() bool
	HasM() bool
	// SRID returns the spatial reference id and whether one is assigned.
	SRID() (uint32, bool)
	IsEmpty() bool

	hdr() *header
}

// header carries the state every geometry has. Containers copy their
// layout from the first child when built through the constructors.
type header struct {
	srid    uint32
	hasSRID bool
	layout  Layout
}

func (h *header) hdr() *header { return h }
func (h *header) Layout() Layout { return h.layout }
func (h *header) HasZ() bool { return h.layout.HasZ() }
func (h *header) HasM() bool { return h.layout.HasM() }
func (h *header) SRID() (uint32, bool) { return h.srid, h.hasSRID }
func (h *header) SetSRID(srid uint32) { h.srid, h.hasSRID = srid, true }
func (h *header) ClearSRID() { h.srid, h.hasSRID = 0, false }
func (h *header) sameSRID(o *header) bool {
	return h.hasSRID == o.hasSRID && h.srid == o.srid
}

// WithSRID assigns srid to g and returns it.
func WithSRID[G Geometry](g G, srid uint32) G {
	g.hdr().SetSRID(srid)
	return g
}

// Point is a single position. An empty point has NaN X and Y.
type Point struct {
	header
	X, Y, Z, M float64
}

func NewPoint(x, y float64) *Point {
	return &Point{X: x, Y: y}
}

func NewPointZ(x, y, z float64) *Point {
	return &Point{header: header{layout: XYZ}, X: x, Y: y, Z: z}
}

func NewPointM(x, y, m float64) *Point {
	return &Point{header: header{layout: XYM}, X: x, Y: y, M: m}
}

func NewPointZM(x, y, z, m float64) *Point {
	return &Point{header: header{layout: XYZM}, X: x, Y: y, Z: z, M: m}
}

// NewPointEmpty returns an empty point of the given layout.
func NewPointEmpty(layout Layout) *Point {
	nan := math.NaN()
	return &Point{header: header{layout: layout}, X: nan, Y: nan, Z: nan, M: nan}
}

// NewPointFlat builds a point from stride ordinates in x, y, [z], [m] order.
func NewPointFlat(layout Layout, ords []float64) *Point {
	p := &Point{header: header{layout: layout}}
	p.setOrdinates(ords)
	return p
}

func (p *Point) Kind() Kind { return KindPoint }
func (p *Point) IsEmpty() bool { return math.IsNaN(p.X) && math.IsNaN(p.Y) }

// Ordinates returns x, y and the present z/m values.
func (p *Point) Ordinates() []float64 {
	out := make([]float64, 0, 4)
	out = append(out, p.X, p.Y)
	if p.HasZ() {
		out = append(out, p.Z)
	}
	if p.HasM() {
		out = append(out, p.M)
	}
	return out
}

func (p *Point) setOrdinates(ords []float64) {
	p.X, p.Y = ords[0], ords[1]
	i := 2
	if p.HasZ() {
		p.Z = ords[i]
		i++
	}
	if p.HasM() {
		p.M = ords[i]
	}
	if math.IsNaN(p.X) && math.IsNaN(p.Y) {
		p.Z, p.M = math.NaN(), math.NaN()
	}
}

// vertex returns a point of layout l, used for ring and line members.
func vertex(l Layout, ords []float64) Point {
	p := Point{header: header{layout: l}}
	p.setOrdinates(ords)
	return p
}

// LineString is an ordered sequence of points.
type LineString struct {
	header
	Points []Point
}

// NewLineString builds a line string; its layout follows the first point.
func NewLineString(points ...Point) *LineString {
	ls := &LineString{Points: points}
	if len(points) > 0 {
		ls.layout = points[0].layout
	}
	return ls
}

func (ls *LineString) Kind() Kind { return KindLineString }
func (ls *LineString) IsEmpty() bool { return len(ls.Points) == 0 }

// Polygon is an exterior ring and zero or more interior rings.
type Polygon struct {
	header
	Exterior  []Point
	Interiors [][]Point
}

// NewPolygon builds a polygon; its layout follows the first exterior point.
func NewPolygon(exterior []Point, interiors ...[]Point) *Polygon {
	p := &Polygon{Exterior: exterior, Interiors: interiors}
	if len(exterior) > 0 {
		p.layout = exterior[0].layout
	}
	return p
}

func (p *Polygon) Kind() Kind { return KindPolygon }
func (p *Polygon) IsEmpty() bool { return len(p.Exterior) == 0 }

// Rings returns the exterior ring followed by the interiors. An empty
// polygon has no rings.
func (p *Polygon) Rings() [][]Point {
	if p.IsEmpty() {
		return nil
	}
	return append([][]Point{p.Exterior}, p.Interiors...)
}

type MultiPoint struct {
	header
	Points []*Point
}

func NewMultiPoint(points ...*Point) *MultiPoint {
	mp := &MultiPoint{Points: points}
	if len(points) > 0 {
		mp.layout = points[0].layout
	}
	return mp
}

func (mp *MultiPoint) Kind() Kind { return KindMultiPoint }
func (mp *MultiPoint) IsEmpty() bool { return len(mp.Points) == 0 }

type MultiLineString struct {
	header
	LineStrings []*LineString
}

func NewMultiLineString(lines ...*LineString) *MultiLineString {
	ml := &MultiLineString{LineStrings: lines}
	if len(lines) > 0 {
		ml.layout = lines[0].layout
	}
	return ml
}

func (ml *MultiLineString) Kind() Kind { return KindMultiLineString }
func (ml *MultiLineString) IsEmpty() bool { return len(ml.LineStrings) == 0 }

type MultiPolygon struct {
	header
	Polygons []*Polygon
}

func NewMultiPolygon(polygons ...*Polygon) *MultiPolygon {
	mp := &MultiPolygon{Polygons: polygons}
	if len(polygons) > 0 {
		mp.layout = polygons[0].layout
	}
	return mp
}

func (mp *MultiPolygon) Kind() Kind { return KindMultiPolygon }
func (mp *MultiPolygon) IsEmpty() bool { return len(mp.Polygons) == 0 }

// GeometryCollection holds geometries of any kind, including nested
// collections.
type GeometryCollection struct {
	header
	Geometries []Geometry
}

func NewGeometryCollection(geoms ...Geometry) *GeometryCollection {
	gc := &GeometryCollection{Geometries: geoms}
	if len(geoms) > 0 {
		gc.layout = geoms[0].Layout()
	}
	return gc
}

func (gc *GeometryCollection) Kind() Kind { return KindGeometryCollection }
func (gc *GeometryCollection) IsEmpty() bool { return len(gc.Geometries) == 0 }

// NewEmpty returns an empty geometry of the given kind and layout.
func NewEmpty(kind Kind, layout Layout) (Geometry, error) {
	h := header{layout: layout}
	switch kind {
	case KindPoint:
		return NewPointEmpty(layout), nil
	case KindLineString:
		return &LineString{header: h}, nil
	case KindPolygon:
		return &Polygon{header: h}, nil
	case KindMultiPoint:
		return &MultiPoint{header: h}, nil
	case KindMultiLineString:
		return &MultiLineString{header: h}, nil
	case KindMultiPolygon:
		return &MultiPolygon{header: h}, nil
	case KindGeometryCollection:
		return &GeometryCollection{header: h}, nil
	}
	return nil, unsupportedKind(uint32(kind))
}
