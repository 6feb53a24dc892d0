package geom

import (
	"math"

	"github.com/cockroachdb/errors"

	"geoconv/internal/binio"
)

// TWKB header flag bits.
const (
	twkbBBox     byte = 1 << 0
	twkbSize     byte = 1 << 1
	twkbIDList   byte = 1 << 2
	twkbExtended byte = 1 << 3
	twkbEmpty    byte = 1 << 4
)

// Representable precision ranges: four zigzag bits for xy, three for z and m.
const (
	minXYPrecision, maxXYPrecision = -8, 7
	minZMPrecision, maxZMPrecision = -4, 3
)

// DefaultTWKBPrecision is the xy precision used when none is given.
const DefaultTWKBPrecision = 5

// TWKBOption configures the compact encoder.
type TWKBOption func(*twkbEncoder)

// TWKBPrecision sets the number of decimal digits kept for x and y.
// Negative values round to tens, hundreds and so on.
func TWKBPrecision(p int) TWKBOption {
	return func(e *twkbEncoder) { e.xy = precision(p) }
}

// TWKBZPrecision sets the number of decimal digits kept for z.
func TWKBZPrecision(p int) TWKBOption {
	return func(e *twkbEncoder) { e.z = precision(p) }
}

// TWKBMPrecision sets the number of decimal digits kept for m.
func TWKBMPrecision(p int) TWKBOption {
	return func(e *twkbEncoder) { e.m = precision(p) }
}

// TWKBBoundingBox writes a bounding box segment in every header.
func TWKBBoundingBox(on bool) TWKBOption {
	return func(e *twkbEncoder) { e.bbox = on }
}

// TWKBSize writes the byte length of the remainder in every header.
func TWKBSize(on bool) TWKBOption {
	return func(e *twkbEncoder) { e.size = on }
}

// precision is a count of decimal digits kept when scaling to integers.
type precision int

func (p precision) toFixed(v float64) (int64, error) {
	// Halves round toward positive infinity.
	var s float64
	if p >= 0 {
		s = math.Floor(v*math.Pow10(int(p)) + 0.5)
	} else {
		s = math.Floor(v/math.Pow10(int(-p)) + 0.5)
	}
	if math.IsNaN(s) || math.IsInf(s, 0) || math.Abs(s) >= 1<<62 {
		return 0, errors.Wrapf(ErrOutOfRange, "ordinate %v at precision %d", v, int(p))
	}
	return int64(s), nil
}

func (p precision) fromFixed(i int64) float64 {
	if p >= 0 {
		return float64(i) / math.Pow10(int(p))
	}
	return float64(i) * math.Pow10(int(-p))
}

// deltaState is the running value of every dimension. Each emitted or
// consumed ordinate is a delta against it. One state lives for the whole
// of a top-level geometry, collection members included.
type deltaState struct {
	x, y, z, m int64
}

type twkbEncoder struct {
	xy, z, m precision
	bbox     bool
	size     bool
}

// MarshalTWKB encodes g as TWKB.
func MarshalTWKB(g Geometry, opts ...TWKBOption) ([]byte, error) {
	e := &twkbEncoder{xy: DefaultTWKBPrecision}
	for _, opt := range opts {
		opt(e)
	}
	if e.xy < minXYPrecision || e.xy > maxXYPrecision {
		return nil, errors.Wrapf(ErrOutOfRange, "xy precision %d", int(e.xy))
	}
	if e.z < minZMPrecision || e.z > maxZMPrecision {
		return nil, errors.Wrapf(ErrOutOfRange, "z precision %d", int(e.z))
	}
	if e.m < minZMPrecision || e.m > maxZMPrecision {
		return nil, errors.Wrapf(ErrOutOfRange, "m precision %d", int(e.m))
	}
	w := binio.NewGrowingWriter()
	var acc deltaState
	if err := e.write(w, g, &acc); err != nil {
		return nil, err
	}
	return w.Bytes(), w.Err()
}

func (e *twkbEncoder) write(w *binio.Writer, g Geometry, acc *deltaState) error {
	l := g.Layout()
	w.WriteUint8(byte(binio.EncodeZigZag32(int32(e.xy)))<<4 | byte(g.Kind()))

	var flags byte
	if l != XY {
		flags |= twkbExtended
	}
	if g.IsEmpty() {
		flags |= twkbEmpty
	} else if e.bbox {
		flags |= twkbBBox
	}
	if e.size {
		flags |= twkbSize
	}
	w.WriteUint8(flags)
	if flags&twkbExtended != 0 {
		var ext byte
		if l.HasZ() {
			ext |= 1
		}
		if l.HasM() {
			ext |= 2
		}
		ext |= byte(binio.EncodeZigZag32(int32(e.z))) << 2
		ext |= byte(binio.EncodeZigZag32(int32(e.m))) << 5
		w.WriteUint8(ext)
	}
	if g.IsEmpty() {
		if e.size {
			w.WriteUvarint(0)
		}
		return nil
	}

	// The optional segments precede the body but depend on it, so the
	// body goes to its own buffer first.
	body := binio.NewGrowingWriter()
	if err := e.writeBody(body, g, acc); err != nil {
		return err
	}
	if err := body.Err(); err != nil {
		return err
	}
	var box []byte
	if e.bbox {
		b, err := e.boundsSegment(g)
		if err != nil {
			return err
		}
		box = b
	}
	if e.size {
		w.WriteUvarint(uint64(len(box) + body.Len()))
	}
	w.WriteBytes(box)
	w.WriteBytes(body.Bytes())
	return nil
}

func (e *twkbEncoder) writeBody(w *binio.Writer, g Geometry, acc *deltaState) error {
	l := g.Layout()
	switch g := g.(type) {
	case *Point:
		return e.writeCoord(w, l, g, acc)
	case *LineString:
		return e.writePoints(w, l, g.Points, acc)
	case *Polygon:
		return e.writeRings(w, l, g.Rings(), acc)
	case *MultiPoint:
		w.WriteUvarint(uint64(len(g.Points)))
		for i, p := range g.Points {
			if p.IsEmpty() {
				return errors.Wrapf(ErrInvalidGeometry, "empty point at index %d of TWKB multipoint", i)
			}
			if err := e.writeCoord(w, l, p, acc); err != nil {
				return err
			}
		}
	case *MultiLineString:
		w.WriteUvarint(uint64(len(g.LineStrings)))
		for _, ls := range g.LineStrings {
			if err := e.writePoints(w, l, ls.Points, acc); err != nil {
				return err
			}
		}
	case *MultiPolygon:
		w.WriteUvarint(uint64(len(g.Polygons)))
		for _, p := range g.Polygons {
			if err := e.writeRings(w, l, p.Rings(), acc); err != nil {
				return err
			}
		}
	case *GeometryCollection:
		w.WriteUvarint(uint64(len(g.Geometries)))
		for _, m := range g.Geometries {
			if err := e.write(w, m, acc); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *twkbEncoder) writeRings(w *binio.Writer, l Layout, rings [][]Point, acc *deltaState) error {
	w.WriteUvarint(uint64(len(rings)))
	for _, ring := range rings {
		if err := e.writePoints(w, l, ring, acc); err != nil {
			return err
		}
	}
	return nil
}

func (e *twkbEncoder) writePoints(w *binio.Writer, l Layout, pts []Point, acc *deltaState) error {
	w.WriteUvarint(uint64(len(pts)))
	for i := range pts {
		if err := e.writeCoord(w, l, &pts[i], acc); err != nil {
			return err
		}
	}
	return nil
}

func (e *twkbEncoder) writeCoord(w *binio.Writer, l Layout, p *Point, acc *deltaState) error {
	x, err := e.xy.toFixed(p.X)
	if err != nil {
		return err
	}
	y, err := e.xy.toFixed(p.Y)
	if err != nil {
		return err
	}
	w.WriteVarint(x - acc.x)
	w.WriteVarint(y - acc.y)
	acc.x, acc.y = x, y
	if l.HasZ() {
		z, err := e.z.toFixed(p.Z)
		if err != nil {
			return err
		}
		w.WriteVarint(z - acc.z)
		acc.z = z
	}
	if l.HasM() {
		m, err := e.m.toFixed(p.M)
		if err != nil {
			return err
		}
		w.WriteVarint(m - acc.m)
		acc.m = m
	}
	return nil
}

// boundsSegment writes (minimum, range) per active dimension, both scaled
// to the header precision.
func (e *twkbEncoder) boundsSegment(g Geometry) ([]byte, error) {
	l := g.Layout()
	var lo, hi [4]int64
	first := true
	var ferr error
	eachVertex(g, func(p *Point) {
		if ferr != nil || p.IsEmpty() {
			return
		}
		var v [4]int64
		var err error
		if v[0], err = e.xy.toFixed(p.X); err == nil {
			v[1], err = e.xy.toFixed(p.Y)
		}
		if err == nil && l.HasZ() {
			v[2], err = e.z.toFixed(p.Z)
		}
		if err == nil && l.HasM() {
			v[3], err = e.m.toFixed(p.M)
		}
		if err != nil {
			ferr = err
			return
		}
		for i := range v {
			if first || v[i] < lo[i] {
				lo[i] = v[i]
			}
			if first || v[i] > hi[i] {
				hi[i] = v[i]
			}
		}
		first = false
	})
	if ferr != nil {
		return nil, ferr
	}
	w := binio.NewGrowingWriter()
	dims := []bool{true, true, l.HasZ(), l.HasM()}
	for i, on := range dims {
		if on {
			w.WriteVarint(lo[i])
			w.WriteVarint(hi[i] - lo[i])
		}
	}
	return w.Bytes(), w.Err()
}

// UnmarshalTWKB decodes TWKB. The whole input must be consumed.
func UnmarshalTWKB(b []byte) (Geometry, error) {
	r := binio.NewReader(b)
	var acc deltaState
	g, err := readTWKB(r, &acc)
	if err != nil {
		return nil, err
	}
	if n := r.Remaining(); n > 0 {
		return nil, errors.Wrapf(ErrParse, "%d trailing bytes after TWKB geometry", n)
	}
	return g, nil
}

// twkbHeader is the decoded metadata preceding one TWKB body.
type twkbHeader struct {
	kind     Kind
	layout   Layout
	xy, z, m precision
	flags    byte
}

func readTWKBHeader(r *binio.Reader) (twkbHeader, error) {
	var h twkbHeader
	b, err := r.ReadUint8()
	if err != nil {
		return h, err
	}
	h.kind = Kind(b & 0x0f)
	if !h.kind.Valid() {
		return h, unsupportedKind(uint32(b & 0x0f))
	}
	h.xy = precision(binio.DecodeZigZag32(uint32(b >> 4)))
	// Without an extended byte z and m share the xy scale.
	h.z, h.m = h.xy, h.xy
	if h.flags, err = r.ReadUint8(); err != nil {
		return h, err
	}
	if h.flags&twkbExtended != 0 {
		ext, err := r.ReadUint8()
		if err != nil {
			return h, err
		}
		h.layout = LayoutOf(ext&1 != 0, ext&2 != 0)
		h.z = precision(binio.DecodeZigZag32(uint32(ext>>2) & 0x07))
		h.m = precision(binio.DecodeZigZag32(uint32(ext>>5) & 0x07))
	}
	if h.flags&twkbSize != 0 {
		if _, err := r.ReadUvarint(); err != nil {
			return h, err
		}
	}
	// The bbox is consumed whenever flagged, even ahead of an empty body.
	if h.flags&twkbBBox != 0 {
		for i := 0; i < 2*h.layout.Stride(); i++ {
			if _, err := r.ReadVarint(); err != nil {
				return h, err
			}
		}
	}
	return h, nil
}

func readTWKB(r *binio.Reader, acc *deltaState) (Geometry, error) {
	th, err := readTWKBHeader(r)
	if err != nil {
		return nil, err
	}
	if th.flags&twkbEmpty != 0 {
		return NewEmpty(th.kind, th.layout)
	}
	h := header{layout: th.layout}
	switch th.kind {
	case KindPoint:
		p, err := th.readCoord(r, acc)
		if err != nil {
			return nil, err
		}
		return &p, nil
	case KindLineString:
		pts, err := th.readPoints(r, acc)
		if err != nil {
			return nil, err
		}
		return &LineString{header: h, Points: pts}, nil
	case KindPolygon:
		return th.readPolygon(r, acc)
	}

	n, err := readTWKBCount(r, 1)
	if err != nil {
		return nil, err
	}
	if th.flags&twkbIDList != 0 {
		for i := 0; i < n; i++ {
			if _, err := r.ReadVarint(); err != nil {
				return nil, err
			}
		}
	}
	switch th.kind {
	case KindMultiPoint:
		mp := &MultiPoint{header: h, Points: make([]*Point, n)}
		for i := range mp.Points {
			p, err := th.readCoord(r, acc)
			if err != nil {
				return nil, err
			}
			mp.Points[i] = &p
		}
		return mp, nil
	case KindMultiLineString:
		ml := &MultiLineString{header: h, LineStrings: make([]*LineString, n)}
		for i := range ml.LineStrings {
			pts, err := th.readPoints(r, acc)
			if err != nil {
				return nil, err
			}
			ml.LineStrings[i] = &LineString{header: h, Points: pts}
		}
		return ml, nil
	case KindMultiPolygon:
		mp := &MultiPolygon{header: h, Polygons: make([]*Polygon, n)}
		for i := range mp.Polygons {
			p, err := th.readPolygon(r, acc)
			if err != nil {
				return nil, err
			}
			mp.Polygons[i] = p
		}
		return mp, nil
	default:
		gc := &GeometryCollection{header: h, Geometries: make([]Geometry, n)}
		for i := range gc.Geometries {
			m, err := readTWKB(r, acc)
			if err != nil {
				return nil, errors.Wrapf(err, "collection member %d", i)
			}
			gc.Geometries[i] = m
		}
		return gc, nil
	}
}

// readTWKBCount reads a varint count and checks that count elements of
// at least minSize bytes each fit in what remains.
func readTWKBCount(r *binio.Reader, minSize int) (int, error) {
	n, err := r.ReadUvarint()
	if err != nil {
		return 0, err
	}
	if n > uint64(r.Remaining()/minSize) {
		return 0, errors.Wrapf(ErrOutOfRange, "count %d exceeds remaining %d bytes", n, r.Remaining())
	}
	return int(n), nil
}

func (th *twkbHeader) readPolygon(r *binio.Reader, acc *deltaState) (*Polygon, error) {
	n, err := readTWKBCount(r, 1)
	if err != nil {
		return nil, err
	}
	rings := make([][]Point, 0, n)
	for i := 0; i < n; i++ {
		ring, err := th.readPoints(r, acc)
		if err != nil {
			return nil, err
		}
		rings = append(rings, ring)
	}
	return polygonFromRings(header{layout: th.layout}, rings), nil
}

func (th *twkbHeader) readPoints(r *binio.Reader, acc *deltaState) ([]Point, error) {
	n, err := readTWKBCount(r, th.layout.Stride())
	if err != nil {
		return nil, err
	}
	pts := make([]Point, n)
	for i := range pts {
		if pts[i], err = th.readCoord(r, acc); err != nil {
			return nil, err
		}
	}
	return pts, nil
}

func (th *twkbHeader) readCoord(r *binio.Reader, acc *deltaState) (Point, error) {
	p := Point{header: header{layout: th.layout}}
	dx, err := r.ReadVarint()
	if err != nil {
		return p, err
	}
	dy, err := r.ReadVarint()
	if err != nil {
		return p, err
	}
	acc.x += dx
	acc.y += dy
	p.X, p.Y = th.xy.fromFixed(acc.x), th.xy.fromFixed(acc.y)
	if th.layout.HasZ() {
		dz, err := r.ReadVarint()
		if err != nil {
			return p, err
		}
		acc.z += dz
		p.Z = th.z.fromFixed(acc.z)
	}
	if th.layout.HasM() {
		dm, err := r.ReadVarint()
		if err != nil {
			return p, err
		}
		acc.m += dm
		p.M = th.m.fromFixed(acc.m)
	}
	return p, nil
}
