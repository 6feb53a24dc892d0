package geom

import "fmt"

var layouts = []Layout{XY, XYZ, XYM, XYZM}

// vtx returns the i-th sample vertex for l. The ordinates survive TWKB at
// the default precision unchanged.
func vtx(l Layout, i int) Point {
	x, y := float64(i)+0.5, -float64(i)*2.25
	z, m := float64(10+i), float64(100+i)
	switch l {
	case XYZ:
		return *NewPointZ(x, y, z)
	case XYM:
		return *NewPointM(x, y, m)
	case XYZM:
		return *NewPointZM(x, y, z, m)
	}
	return *NewPoint(x, y)
}

func vtxs(l Layout, from, n int) []Point {
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = vtx(l, from+i)
	}
	return pts
}

func ring(l Layout, from int) []Point {
	r := vtxs(l, from, 3)
	return append(r, r[0])
}

type fixture struct {
	name string
	g    Geometry
}

func ptr(p Point) *Point { return &p }

// fixtures covers every kind in every layout, plus the empty forms.
func fixtures() []fixture {
	var out []fixture
	for _, l := range layouts {
		add := func(name string, g Geometry) {
			out = append(out, fixture{name: fmt.Sprintf("%s %s", l, name), g: g})
		}
		add("point", ptr(vtx(l, 1)))
		add("linestring", NewLineString(vtxs(l, 0, 3)...))
		add("polygon", NewPolygon(ring(l, 0), ring(l, 5)))
		add("multipoint", NewMultiPoint(ptr(vtx(l, 2)), ptr(vtx(l, 3))))
		add("multilinestring", NewMultiLineString(
			NewLineString(vtxs(l, 0, 2)...),
			NewLineString(vtxs(l, 4, 3)...),
		))
		add("multipolygon", NewMultiPolygon(
			NewPolygon(ring(l, 0)),
			NewPolygon(ring(l, 3), ring(l, 6)),
		))
		add("collection", NewGeometryCollection(
			ptr(vtx(l, 7)),
			NewLineString(vtxs(l, 1, 2)...),
			NewGeometryCollection(NewPolygon(ring(l, 2))),
		))
		for k := KindPoint; k <= KindGeometryCollection; k++ {
			g, err := NewEmpty(k, l)
			if err != nil {
				panic(err)
			}
			add("empty "+k.String(), g)
		}
	}
	return out
}
