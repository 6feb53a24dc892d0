package geom

import (
	"github.com/cockroachdb/errors"
	gogeom "github.com/twpayne/go-geom"
)

var toGoLayout = map[Layout]gogeom.Layout{
	XY:   gogeom.XY,
	XYZ:  gogeom.XYZ,
	XYM:  gogeom.XYM,
	XYZM: gogeom.XYZM,
}

func fromGoLayout(l gogeom.Layout) Layout {
	switch l {
	case gogeom.XYZ:
		return XYZ
	case gogeom.XYM:
		return XYM
	case gogeom.XYZM:
		return XYZM
	}
	return XY
}

func flatCoords(pts []Point, l Layout, flat []float64) []float64 {
	for i := range pts {
		flat = append(flat, pts[i].X, pts[i].Y)
		if l.HasZ() {
			flat = append(flat, pts[i].Z)
		}
		if l.HasM() {
			flat = append(flat, pts[i].M)
		}
	}
	return flat
}

func flatRings(p *Polygon, l Layout, flat []float64) ([]float64, []int) {
	var ends []int
	for _, ring := range p.Rings() {
		flat = flatCoords(ring, l, flat)
		ends = append(ends, len(flat))
	}
	return flat, ends
}

// ToGoGeom converts g to the equivalent github.com/twpayne/go-geom value.
func ToGoGeom(g Geometry) (gogeom.T, error) {
	l := g.Layout()
	gl := toGoLayout[l]
	srid, hasSRID := g.SRID()
	var t gogeom.T
	switch g := g.(type) {
	case *Point:
		if g.IsEmpty() {
			t = gogeom.NewPointEmpty(gl)
		} else {
			t = gogeom.NewPointFlat(gl, g.Ordinates())
		}
	case *LineString:
		t = gogeom.NewLineStringFlat(gl, flatCoords(g.Points, l, nil))
	case *Polygon:
		flat, ends := flatRings(g, l, nil)
		t = gogeom.NewPolygonFlat(gl, flat, ends)
	case *MultiPoint:
		var flat []float64
		ends := make([]int, 0, len(g.Points))
		for _, p := range g.Points {
			if !p.IsEmpty() {
				flat = flatCoords([]Point{*p}, l, flat)
			}
			ends = append(ends, len(flat))
		}
		t = gogeom.NewMultiPointFlat(gl, flat, gogeom.NewMultiPointFlatOptionWithEnds(ends))
	case *MultiLineString:
		var flat []float64
		ends := make([]int, 0, len(g.LineStrings))
		for _, ls := range g.LineStrings {
			flat = flatCoords(ls.Points, l, flat)
			ends = append(ends, len(flat))
		}
		t = gogeom.NewMultiLineStringFlat(gl, flat, ends)
	case *MultiPolygon:
		var flat []float64
		endss := make([][]int, 0, len(g.Polygons))
		for _, p := range g.Polygons {
			var ends []int
			flat, ends = flatRings(p, l, flat)
			endss = append(endss, ends)
		}
		t = gogeom.NewMultiPolygonFlat(gl, flat, endss)
	case *GeometryCollection:
		gc := gogeom.NewGeometryCollection()
		for i, m := range g.Geometries {
			mt, err := ToGoGeom(m)
			if err != nil {
				return nil, errors.Wrapf(err, "collection member %d", i)
			}
			if err := gc.Push(mt); err != nil {
				return nil, errors.Wrapf(ErrInvalidGeometry, "collection member %d: %v", i, err)
			}
		}
		t = gc
	default:
		return nil, errors.Wrapf(ErrUnsupportedType, "%T", g)
	}
	if hasSRID {
		setGoSRID(t, int(srid))
	}
	return t, nil
}

func setGoSRID(t gogeom.T, srid int) {
	switch t := t.(type) {
	case *gogeom.Point:
		t.SetSRID(srid)
	case *gogeom.LineString:
		t.SetSRID(srid)
	case *gogeom.Polygon:
		t.SetSRID(srid)
	case *gogeom.MultiPoint:
		t.SetSRID(srid)
	case *gogeom.MultiLineString:
		t.SetSRID(srid)
	case *gogeom.MultiPolygon:
		t.SetSRID(srid)
	case *gogeom.GeometryCollection:
		t.SetSRID(srid)
	}
}

func pointsFromFlat(l Layout, flat []float64) []Point {
	stride := l.Stride()
	pts := make([]Point, 0, len(flat)/stride)
	for i := 0; i+stride <= len(flat); i += stride {
		pts = append(pts, vertex(l, flat[i:i+stride]))
	}
	return pts
}

func polygonFromFlat(l Layout, flat []float64, offset int, ends []int) *Polygon {
	rings := make([][]Point, 0, len(ends))
	for _, end := range ends {
		rings = append(rings, pointsFromFlat(l, flat[offset:end]))
		offset = end
	}
	return polygonFromRings(header{layout: l}, rings)
}

// FromGoGeom converts a github.com/twpayne/go-geom value. A zero SRID is
// treated as absent.
func FromGoGeom(t gogeom.T) (Geometry, error) {
	l := fromGoLayout(t.Layout())
	h := header{layout: l}
	var g Geometry
	switch t := t.(type) {
	case *gogeom.Point:
		if t.Empty() {
			g = NewPointEmpty(l)
		} else {
			g = NewPointFlat(l, t.FlatCoords())
		}
	case *gogeom.LineString:
		g = &LineString{header: h, Points: pointsFromFlat(l, t.FlatCoords())}
	case *gogeom.Polygon:
		g = polygonFromFlat(l, t.FlatCoords(), 0, t.Ends())
	case *gogeom.MultiPoint:
		mp := &MultiPoint{header: h, Points: make([]*Point, t.NumPoints())}
		for i := range mp.Points {
			p := t.Point(i)
			if p.Empty() {
				mp.Points[i] = NewPointEmpty(l)
			} else {
				mp.Points[i] = NewPointFlat(l, p.FlatCoords())
			}
		}
		g = mp
	case *gogeom.MultiLineString:
		ml := &MultiLineString{header: h}
		flat, offset := t.FlatCoords(), 0
		for _, end := range t.Ends() {
			ml.LineStrings = append(ml.LineStrings, &LineString{header: h, Points: pointsFromFlat(l, flat[offset:end])})
			offset = end
		}
		g = ml
	case *gogeom.MultiPolygon:
		mp := &MultiPolygon{header: h}
		flat, offset := t.FlatCoords(), 0
		for _, ends := range t.Endss() {
			mp.Polygons = append(mp.Polygons, polygonFromFlat(l, flat, offset, ends))
			if len(ends) > 0 {
				offset = ends[len(ends)-1]
			}
		}
		g = mp
	case *gogeom.GeometryCollection:
		gc := &GeometryCollection{header: h}
		for i, mt := range t.Geoms() {
			m, err := FromGoGeom(mt)
			if err != nil {
				return nil, errors.Wrapf(err, "collection member %d", i)
			}
			gc.Geometries = append(gc.Geometries, m)
		}
		if len(gc.Geometries) > 0 {
			gc.layout = gc.Geometries[0].Layout()
		}
		g = gc
	default:
		return nil, errors.Wrapf(ErrUnsupportedType, "%T", t)
	}
	if srid := t.SRID(); srid > 0 {
		g.hdr().SetSRID(uint32(srid))
	}
	return g, nil
}
