package geom

import "math"

// BBox is an axis-aligned bounding box in the xy plane.
type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

func (b *BBox) extend(x, y float64) {
	b.MinX = math.Min(b.MinX, x)
	b.MinY = math.Min(b.MinY, y)
	b.MaxX = math.Max(b.MaxX, x)
	b.MaxY = math.Max(b.MaxY, y)
}

// Bounds returns the xy extent of g's non-empty vertices. ok is false when
// there are none.
func Bounds(g Geometry) (b BBox, ok bool) {
	eachVertex(g, func(p *Point) {
		if p.IsEmpty() {
			return
		}
		if !ok {
			b = BBox{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
			ok = true
			return
		}
		b.extend(p.X, p.Y)
	})
	return b, ok
}

// eachVertex calls fn for every point of g in encoding order.
func eachVertex(g Geometry, fn func(p *Point)) {
	each := func(pts []Point) {
		for i := range pts {
			fn(&pts[i])
		}
	}
	switch g := g.(type) {
	case *Point:
		fn(g)
	case *LineString:
		each(g.Points)
	case *Polygon:
		for _, ring := range g.Rings() {
			each(ring)
		}
	case *MultiPoint:
		for _, p := range g.Points {
			fn(p)
		}
	case *MultiLineString:
		for _, ls := range g.LineStrings {
			each(ls.Points)
		}
	case *MultiPolygon:
		for _, p := range g.Polygons {
			for _, ring := range p.Rings() {
				each(ring)
			}
		}
	case *GeometryCollection:
		for _, m := range g.Geometries {
			eachVertex(m, fn)
		}
	}
}

// Data is a minimal geometry container for rendering
type Data struct {
	Points   [][2]float64
	Lines    [][][2]float64
	Polygons [][][][2]float64 // polygons with rings (first outer, following holes)
	BBox     BBox

	bounded bool
}

// Add flattens g into d, dropping z, m and empty members, and widens the
// bounding box.
func (d *Data) Add(g Geometry) {
	d.add(g)
	if b, ok := Bounds(g); ok {
		if !d.bounded {
			d.BBox, d.bounded = b, true
		} else {
			d.BBox.extend(b.MinX, b.MinY)
			d.BBox.extend(b.MaxX, b.MaxY)
		}
	}
}

func (d *Data) add(g Geometry) {
	xy := func(pts []Point) [][2]float64 {
		out := make([][2]float64, len(pts))
		for i, p := range pts {
			out[i] = [2]float64{p.X, p.Y}
		}
		return out
	}
	rings := func(p *Polygon) [][][2]float64 {
		var out [][][2]float64
		for _, ring := range p.Rings() {
			out = append(out, xy(ring))
		}
		return out
	}
	switch g := g.(type) {
	case *Point:
		if !g.IsEmpty() {
			d.Points = append(d.Points, [2]float64{g.X, g.Y})
		}
	case *LineString:
		if !g.IsEmpty() {
			d.Lines = append(d.Lines, xy(g.Points))
		}
	case *Polygon:
		if !g.IsEmpty() {
			d.Polygons = append(d.Polygons, rings(g))
		}
	case *MultiPoint:
		for _, p := range g.Points {
			d.add(p)
		}
	case *MultiLineString:
		for _, ls := range g.LineStrings {
			d.add(ls)
		}
	case *MultiPolygon:
		for _, p := range g.Polygons {
			d.add(p)
		}
	case *GeometryCollection:
		for _, m := range g.Geometries {
			d.add(m)
		}
	}
}

// Flatten returns the renderable form of g.
func Flatten(g Geometry) *Data {
	d := &Data{}
	d.Add(g)
	return d
}
