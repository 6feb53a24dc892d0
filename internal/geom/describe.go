package geom

// Summary describes a geometry without its coordinates.
type Summary struct {
	Kind     Kind
	Layout   Layout
	SRID     uint32
	HasSRID  bool
	Empty    bool
	Members  int
	Vertices int
	BBox     *BBox
}

// Describe summarises g. Members counts direct children of multi kinds and
// collections, and rings of a polygon.
func Describe(g Geometry) Summary {
	s := Summary{Kind: g.Kind(), Layout: g.Layout(), Empty: g.IsEmpty()}
	s.SRID, s.HasSRID = g.SRID()
	switch g := g.(type) {
	case *Polygon:
		s.Members = len(g.Rings())
	case *MultiPoint:
		s.Members = len(g.Points)
	case *MultiLineString:
		s.Members = len(g.LineStrings)
	case *MultiPolygon:
		s.Members = len(g.Polygons)
	case *GeometryCollection:
		s.Members = len(g.Geometries)
	}
	eachVertex(g, func(p *Point) {
		if !p.IsEmpty() {
			s.Vertices++
		}
	})
	if b, ok := Bounds(g); ok {
		s.BBox = &b
	}
	return s
}
