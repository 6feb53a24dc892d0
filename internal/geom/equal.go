package geom

import "math"

// Equal reports whether a and b have the same kind, layout, SRID and
// ordinates. NaN equals NaN so empty points compare equal.
func Equal(a, b Geometry) bool {
	return equal(a, b, func(x, y float64) bool {
		return x == y || (math.IsNaN(x) && math.IsNaN(y))
	})
}

// EqualApprox is Equal with ordinates compared within tol.
func EqualApprox(a, b Geometry, tol float64) bool {
	return equal(a, b, func(x, y float64) bool {
		return math.Abs(x-y) <= tol || (math.IsNaN(x) && math.IsNaN(y))
	})
}

func equal(a, b Geometry, eq func(x, y float64) bool) bool {
	if a.Kind() != b.Kind() || a.Layout() != b.Layout() || !a.hdr().sameSRID(b.hdr()) {
		return false
	}
	l := a.Layout()
	point := func(p, q *Point) bool {
		if !eq(p.X, q.X) || !eq(p.Y, q.Y) {
			return false
		}
		if l.HasZ() && !eq(p.Z, q.Z) {
			return false
		}
		return !l.HasM() || eq(p.M, q.M)
	}
	points := func(p, q []Point) bool {
		if len(p) != len(q) {
			return false
		}
		for i := range p {
			if !point(&p[i], &q[i]) {
				return false
			}
		}
		return true
	}
	polygon := func(p, q *Polygon) bool {
		pr, qr := p.Rings(), q.Rings()
		if len(pr) != len(qr) {
			return false
		}
		for i := range pr {
			if !points(pr[i], qr[i]) {
				return false
			}
		}
		return true
	}

	switch a := a.(type) {
	case *Point:
		return point(a, b.(*Point))
	case *LineString:
		return points(a.Points, b.(*LineString).Points)
	case *Polygon:
		return polygon(a, b.(*Polygon))
	case *MultiPoint:
		o := b.(*MultiPoint)
		if len(a.Points) != len(o.Points) {
			return false
		}
		for i := range a.Points {
			if !point(a.Points[i], o.Points[i]) {
				return false
			}
		}
		return true
	case *MultiLineString:
		o := b.(*MultiLineString)
		if len(a.LineStrings) != len(o.LineStrings) {
			return false
		}
		for i := range a.LineStrings {
			if !points(a.LineStrings[i].Points, o.LineStrings[i].Points) {
				return false
			}
		}
		return true
	case *MultiPolygon:
		o := b.(*MultiPolygon)
		if len(a.Polygons) != len(o.Polygons) {
			return false
		}
		for i := range a.Polygons {
			if !polygon(a.Polygons[i], o.Polygons[i]) {
				return false
			}
		}
		return true
	case *GeometryCollection:
		o := b.(*GeometryCollection)
		if len(a.Geometries) != len(o.Geometries) {
			return false
		}
		for i := range a.Geometries {
			if !equal(a.Geometries[i], o.Geometries[i], eq) {
				return false
			}
		}
		return true
	}
	return false
}
