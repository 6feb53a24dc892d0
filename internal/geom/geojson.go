package geom

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	json "github.com/goccy/go-json"
	geojson "github.com/paulmach/go.geojson"
)

// DefaultGeoJSONSRID is assigned to a top-level GeoJSON geometry that
// names no crs.
const DefaultGeoJSONSRID = 4326

// CRSStyle selects how an SRID is written as a GeoJSON crs member.
type CRSStyle int

const (
	// CRSNone omits the crs member.
	CRSNone CRSStyle = iota
	// CRSShort writes "EPSG:<n>".
	CRSShort
	// CRSLong writes "urn:ogc:def:crs:EPSG::<n>".
	CRSLong
)

const (
	crsShortPrefix = "EPSG:"
	crsLongPrefix  = "urn:ogc:def:crs:EPSG::"
)

// GeoJSONOption configures the GeoJSON mapper.
type GeoJSONOption func(*geoJSONMapper)

// GeoJSONCRS sets the crs member written for geometries with an SRID.
func GeoJSONCRS(style CRSStyle) GeoJSONOption {
	return func(m *geoJSONMapper) { m.crs = style }
}

// GeoJSONDefaultSRID overrides the SRID assumed when the input names no crs.
func GeoJSONDefaultSRID(srid uint32) GeoJSONOption {
	return func(m *geoJSONMapper) { m.defaultSRID = srid }
}

type geoJSONMapper struct {
	crs         CRSStyle
	defaultSRID uint32
}

func newGeoJSONMapper(opts []GeoJSONOption) *geoJSONMapper {
	m := &geoJSONMapper{defaultSRID: DefaultGeoJSONSRID}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ToGeoJSON maps g to a GeoJSON geometry object. Z is kept; M is dropped.
// Only the outermost object receives a crs member.
func ToGeoJSON(g Geometry, opts ...GeoJSONOption) *geojson.Geometry {
	m := newGeoJSONMapper(opts)
	gj := m.toGeoJSON(g)
	if srid, ok := g.SRID(); ok && m.crs != CRSNone {
		name := crsShortPrefix
		if m.crs == CRSLong {
			name = crsLongPrefix
		}
		gj.CRS = map[string]interface{}{
			"type": "name",
			"properties": map[string]interface{}{
				"name": name + strconv.FormatUint(uint64(srid), 10),
			},
		}
	}
	return gj
}

// MarshalGeoJSON renders g as a GeoJSON geometry document.
func MarshalGeoJSON(g Geometry, opts ...GeoJSONOption) ([]byte, error) {
	b, err := json.Marshal(ToGeoJSON(g, opts...))
	if err != nil {
		// NaN ordinates, as in an empty multipoint member, have no JSON form.
		return nil, errors.Wrapf(ErrInvalidGeometry, "encoding GeoJSON: %v", err)
	}
	return b, nil
}

func (m *geoJSONMapper) toGeoJSON(g Geometry) *geojson.Geometry {
	z := g.HasZ()
	switch g := g.(type) {
	case *Point:
		if g.IsEmpty() {
			return geojson.NewPointGeometry([]float64{})
		}
		return geojson.NewPointGeometry(position(g, z))
	case *LineString:
		return geojson.NewLineStringGeometry(positions(g.Points, z))
	case *Polygon:
		return geojson.NewPolygonGeometry(ringPositions(g, z))
	case *MultiPoint:
		coords := make([][]float64, 0, len(g.Points))
		for _, p := range g.Points {
			coords = append(coords, position(p, z))
		}
		return geojson.NewMultiPointGeometry(coords...)
	case *MultiLineString:
		lines := make([][][]float64, 0, len(g.LineStrings))
		for _, ls := range g.LineStrings {
			lines = append(lines, positions(ls.Points, z))
		}
		return geojson.NewMultiLineStringGeometry(lines...)
	case *MultiPolygon:
		polys := make([][][][]float64, 0, len(g.Polygons))
		for _, p := range g.Polygons {
			polys = append(polys, ringPositions(p, z))
		}
		return geojson.NewMultiPolygonGeometry(polys...)
	case *GeometryCollection:
		members := make([]*geojson.Geometry, 0, len(g.Geometries))
		for _, mg := range g.Geometries {
			members = append(members, m.toGeoJSON(mg))
		}
		return geojson.NewCollectionGeometry(members...)
	}
	return nil
}

func position(p *Point, z bool) []float64 {
	if z {
		return []float64{p.X, p.Y, p.Z}
	}
	return []float64{p.X, p.Y}
}

func positions(pts []Point, z bool) [][]float64 {
	out := make([][]float64, len(pts))
	for i := range pts {
		out[i] = position(&pts[i], z)
	}
	return out
}

func ringPositions(p *Polygon, z bool) [][][]float64 {
	rings := p.Rings()
	out := make([][][]float64, len(rings))
	for i, ring := range rings {
		out[i] = positions(ring, z)
	}
	return out
}

// FromGeoJSON maps a GeoJSON geometry object to a Geometry. A crs naming
// an EPSG code sets the SRID; without one the outermost geometry gets the
// default SRID and nested members get none.
func FromGeoJSON(gj *geojson.Geometry, opts ...GeoJSONOption) (Geometry, error) {
	return newGeoJSONMapper(opts).fromGeoJSON(gj, false)
}

func (m *geoJSONMapper) fromGeoJSON(gj *geojson.Geometry, nested bool) (Geometry, error) {
	if gj == nil {
		return nil, errors.Wrap(ErrParse, "missing GeoJSON geometry")
	}
	var (
		g   Geometry
		err error
	)
	switch gj.Type {
	case geojson.GeometryPoint:
		if len(gj.Point) == 0 {
			g = NewPointEmpty(XY)
			break
		}
		var p Point
		p, err = pointFromPosition(gj.Point, layoutOfPosition(gj.Point))
		g = &p
	case geojson.GeometryLineString:
		l := layoutOfPositions(gj.LineString)
		var pts []Point
		pts, err = pointsFromPositions(gj.LineString, l)
		g = &LineString{header: header{layout: l}, Points: pts}
	case geojson.GeometryPolygon:
		l := layoutOfRings(gj.Polygon)
		g, err = polygonFromPositions(gj.Polygon, l)
	case geojson.GeometryMultiPoint:
		l := layoutOfPositions(gj.MultiPoint)
		mp := &MultiPoint{header: header{layout: l}, Points: make([]*Point, len(gj.MultiPoint))}
		for i, pos := range gj.MultiPoint {
			var p Point
			if p, err = pointFromPosition(pos, l); err != nil {
				break
			}
			mp.Points[i] = &p
		}
		g = mp
	case geojson.GeometryMultiLineString:
		l := layoutOfRings(gj.MultiLineString)
		ml := &MultiLineString{header: header{layout: l}, LineStrings: make([]*LineString, len(gj.MultiLineString))}
		for i, line := range gj.MultiLineString {
			var pts []Point
			if pts, err = pointsFromPositions(line, l); err != nil {
				break
			}
			ml.LineStrings[i] = &LineString{header: header{layout: l}, Points: pts}
		}
		g = ml
	case geojson.GeometryMultiPolygon:
		var l Layout
		if len(gj.MultiPolygon) > 0 {
			l = layoutOfRings(gj.MultiPolygon[0])
		}
		mp := &MultiPolygon{header: header{layout: l}, Polygons: make([]*Polygon, len(gj.MultiPolygon))}
		for i, poly := range gj.MultiPolygon {
			if mp.Polygons[i], err = polygonFromPositions(poly, l); err != nil {
				break
			}
		}
		g = mp
	case geojson.GeometryCollection:
		gc := &GeometryCollection{Geometries: make([]Geometry, len(gj.Geometries))}
		for i, member := range gj.Geometries {
			if gc.Geometries[i], err = m.fromGeoJSON(member, true); err != nil {
				break
			}
		}
		if err == nil && len(gc.Geometries) > 0 {
			first := gc.Geometries[0]
			gc.layout = LayoutOf(first.HasZ(), first.HasM())
		}
		g = gc
	default:
		return nil, errors.Wrapf(ErrUnsupportedType, "GeoJSON type %q", gj.Type)
	}
	if err != nil {
		return nil, err
	}

	srid, ok, err := sridFromCRS(gj.CRS)
	if err != nil {
		return nil, err
	}
	switch {
	case ok:
		g.hdr().SetSRID(srid)
	case !nested:
		g.hdr().SetSRID(m.defaultSRID)
	}
	return g, nil
}

func layoutOfPosition(pos []float64) Layout {
	if len(pos) > 2 {
		return XYZ
	}
	return XY
}

func layoutOfPositions(pos [][]float64) Layout {
	if len(pos) == 0 {
		return XY
	}
	return layoutOfPosition(pos[0])
}

func layoutOfRings(rings [][][]float64) Layout {
	if len(rings) == 0 {
		return XY
	}
	return layoutOfPositions(rings[0])
}

func pointFromPosition(pos []float64, l Layout) (Point, error) {
	if len(pos) < 2 {
		return Point{}, errors.Wrapf(ErrParse, "GeoJSON position has %d values", len(pos))
	}
	p := Point{header: header{layout: l}, X: pos[0], Y: pos[1]}
	if l.HasZ() && len(pos) > 2 {
		p.Z = pos[2]
	}
	return p, nil
}

func pointsFromPositions(pos [][]float64, l Layout) ([]Point, error) {
	pts := make([]Point, len(pos))
	for i, c := range pos {
		p, err := pointFromPosition(c, l)
		if err != nil {
			return nil, err
		}
		pts[i] = p
	}
	return pts, nil
}

func polygonFromPositions(rings [][][]float64, l Layout) (*Polygon, error) {
	out := make([][]Point, len(rings))
	for i, ring := range rings {
		pts, err := pointsFromPositions(ring, l)
		if err != nil {
			return nil, err
		}
		out[i] = pts
	}
	return polygonFromRings(header{layout: l}, out), nil
}

// sridFromCRS reads a named crs member. Members that are not of type
// "name" are ignored.
func sridFromCRS(crs map[string]interface{}) (uint32, bool, error) {
	if crs == nil {
		return 0, false, nil
	}
	if t, _ := crs["type"].(string); t != "name" {
		return 0, false, nil
	}
	props, _ := crs["properties"].(map[string]interface{})
	name, _ := props["name"].(string)
	if name == "" {
		return 0, false, nil
	}
	for _, prefix := range []string{crsLongPrefix, crsShortPrefix} {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if n, err := strconv.ParseUint(name[len(prefix):], 10, 32); err == nil {
			return uint32(n), true, nil
		}
	}
	return 0, false, errors.Wrapf(ErrUnrecognizedCRS, "crs name %q", name)
}

// crsNode mirrors the geometry tree so crs members are recovered at every
// level when decoding from bytes.
type crsNode struct {
	CRS        map[string]interface{} `json:"crs"`
	Geometries []crsNode              `json:"geometries"`
}

func (n *crsNode) apply(gj *geojson.Geometry) {
	if gj == nil {
		return
	}
	if gj.CRS == nil {
		gj.CRS = n.CRS
	}
	for i := range n.Geometries {
		if i < len(gj.Geometries) {
			n.Geometries[i].apply(gj.Geometries[i])
		}
	}
}

// UnmarshalGeoJSON decodes a GeoJSON geometry object, or the geometry of a
// Feature.
func UnmarshalGeoJSON(b []byte, opts ...GeoJSONOption) (Geometry, error) {
	var probe struct {
		Type       string                 `json:"type"`
		Geometry   *crsNode               `json:"geometry"`
		CRS        map[string]interface{} `json:"crs"`
		Geometries []crsNode              `json:"geometries"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return nil, errors.Wrap(ErrParse, err.Error())
	}
	var (
		gj   *geojson.Geometry
		node = &crsNode{CRS: probe.CRS, Geometries: probe.Geometries}
	)
	if probe.Type == "Feature" {
		f, err := geojson.UnmarshalFeature(b)
		if err != nil {
			return nil, errors.Wrap(ErrParse, err.Error())
		}
		gj = f.Geometry
		if probe.Geometry != nil {
			node = probe.Geometry
		}
	} else {
		gj = &geojson.Geometry{}
		if err := json.Unmarshal(b, gj); err != nil {
			return nil, errors.Wrap(ErrParse, err.Error())
		}
	}
	node.apply(gj)
	return FromGeoJSON(gj, opts...)
}
