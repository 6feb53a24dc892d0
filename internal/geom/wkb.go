package geom

import (
	"encoding/binary"
	"math"

	"github.com/cockroachdb/errors"

	"geoconv/internal/binio"
)

// Extended (EWKB) flag bits carried in the high nibble of the type code.
const (
	ewkbSRID uint32 = 0x20000000
	ewkbM    uint32 = 0x40000000
	ewkbZ    uint32 = 0x80000000

	ewkbFlags = ewkbSRID | ewkbM | ewkbZ
)

// emptyOrdinate is the quiet NaN written for each ordinate of an empty point.
var emptyOrdinate = math.Float64frombits(0x7ff8000000000000)

const (
	wkbXDR byte = 0 // big endian
	wkbNDR byte = 1 // little endian
)

// WKBOption configures the binary envelope writer.
type WKBOption func(*wkbEncoder)

// WKBByteOrder selects the byte order of every envelope written.
// Little endian is the default.
func WKBByteOrder(order binary.ByteOrder) WKBOption {
	return func(e *wkbEncoder) { e.order = order }
}

type wkbEncoder struct {
	order binary.ByteOrder
	// srid writes the SRID field on the outermost envelope.
	srid bool
}

// MarshalWKB encodes g as WKB. A geometry without an SRID is written in
// the ISO dialect; one with an SRID uses the extended flag bits but does
// not write the SRID itself.
func MarshalWKB(g Geometry, opts ...WKBOption) ([]byte, error) {
	return newWKBEncoder(false, opts).encode(g)
}

// MarshalEWKB encodes g as EWKB, writing the SRID on the outermost
// envelope when g has one.
func MarshalEWKB(g Geometry, opts ...WKBOption) ([]byte, error) {
	return newWKBEncoder(true, opts).encode(g)
}

func newWKBEncoder(srid bool, opts []WKBOption) *wkbEncoder {
	e := &wkbEncoder{order: binary.LittleEndian, srid: srid}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *wkbEncoder) encode(g Geometry) ([]byte, error) {
	srid, hasSRID := g.SRID()
	writeSRID := e.srid && hasSRID
	size := wkbSize(g)
	if writeSRID {
		size += 4
	}
	w := binio.NewWriter(size)
	w.SetByteOrder(e.order)
	e.write(w, g, hasSRID, writeSRID, srid)
	if err := w.Err(); err != nil {
		return nil, errors.Wrapf(err, "encoding %s as WKB", g.Kind())
	}
	return w.Bytes(), nil
}

// write emits one envelope and its body. extended selects the flag-bit
// dialect and is inherited by every nested envelope.
func (e *wkbEncoder) write(w *binio.Writer, g Geometry, extended, writeSRID bool, srid uint32) {
	if e.order == binary.BigEndian {
		w.WriteUint8(wkbXDR)
	} else {
		w.WriteUint8(wkbNDR)
	}
	w.WriteUint32(wkbTypeCode(g.Kind(), g.Layout(), extended, writeSRID))
	if writeSRID {
		w.WriteUint32(srid)
	}
	l := g.Layout()
	switch g := g.(type) {
	case *Point:
		if g.IsEmpty() {
			for i := 0; i < l.Stride(); i++ {
				w.WriteFloat64(emptyOrdinate)
			}
			return
		}
		writeWKBCoord(w, l, g)
	case *LineString:
		writeWKBPoints(w, l, g.Points)
	case *Polygon:
		rings := g.Rings()
		w.WriteUint32(uint32(len(rings)))
		for _, ring := range rings {
			writeWKBPoints(w, l, ring)
		}
	case *MultiPoint:
		w.WriteUint32(uint32(len(g.Points)))
		for _, p := range g.Points {
			e.write(w, p, extended, false, 0)
		}
	case *MultiLineString:
		w.WriteUint32(uint32(len(g.LineStrings)))
		for _, ls := range g.LineStrings {
			e.write(w, ls, extended, false, 0)
		}
	case *MultiPolygon:
		w.WriteUint32(uint32(len(g.Polygons)))
		for _, p := range g.Polygons {
			e.write(w, p, extended, false, 0)
		}
	case *GeometryCollection:
		w.WriteUint32(uint32(len(g.Geometries)))
		for _, m := range g.Geometries {
			e.write(w, m, extended, false, 0)
		}
	}
}

func writeWKBPoints(w *binio.Writer, l Layout, pts []Point) {
	w.WriteUint32(uint32(len(pts)))
	for i := range pts {
		writeWKBCoord(w, l, &pts[i])
	}
}

func writeWKBCoord(w *binio.Writer, l Layout, p *Point) {
	w.WriteFloat64(p.X)
	w.WriteFloat64(p.Y)
	if l.HasZ() {
		w.WriteFloat64(p.Z)
	}
	if l.HasM() {
		w.WriteFloat64(p.M)
	}
}

func wkbTypeCode(kind Kind, l Layout, extended, srid bool) uint32 {
	code := uint32(kind)
	if !extended {
		switch l {
		case XYZ:
			code += 1000
		case XYM:
			code += 2000
		case XYZM:
			code += 3000
		}
		return code
	}
	if l.HasZ() {
		code |= ewkbZ
	}
	if l.HasM() {
		code |= ewkbM
	}
	if srid {
		code |= ewkbSRID
	}
	return code
}

// wkbSize is the encoded length of g without an SRID field.
func wkbSize(g Geometry) int {
	const envelope = 1 + 4
	coord := 8 * g.Layout().Stride()
	switch g := g.(type) {
	case *Point:
		return envelope + coord
	case *LineString:
		return envelope + 4 + len(g.Points)*coord
	case *Polygon:
		n := envelope + 4
		for _, ring := range g.Rings() {
			n += 4 + len(ring)*coord
		}
		return n
	case *MultiPoint:
		n := envelope + 4
		for _, p := range g.Points {
			n += wkbSize(p)
		}
		return n
	case *MultiLineString:
		n := envelope + 4
		for _, ls := range g.LineStrings {
			n += wkbSize(ls)
		}
		return n
	case *MultiPolygon:
		n := envelope + 4
		for _, p := range g.Polygons {
			n += wkbSize(p)
		}
		return n
	case *GeometryCollection:
		n := envelope + 4
		for _, m := range g.Geometries {
			n += wkbSize(m)
		}
		return n
	}
	return 0
}

// UnmarshalWKB decodes WKB or EWKB. The dialect is detected per envelope
// and an extended outer envelope makes every nested one extended too. The
// whole input must be consumed.
func UnmarshalWKB(b []byte) (Geometry, error) {
	r := binio.NewReader(b)
	g, err := readWKB(r, false)
	if err != nil {
		return nil, err
	}
	if n := r.Remaining(); n > 0 {
		return nil, errors.Wrapf(ErrParse, "%d trailing bytes after WKB geometry", n)
	}
	return g, nil
}

// wkbEnvelope is the decoded prefix of one geometry.
type wkbEnvelope struct {
	kind     Kind
	layout   Layout
	extended bool
	srid     uint32
	hasSRID  bool
}

func readWKBEnvelope(r *binio.Reader, parentExtended bool) (wkbEnvelope, error) {
	var env wkbEnvelope
	flag, err := r.ReadUint8()
	if err != nil {
		return env, err
	}
	switch flag {
	case wkbXDR:
		r.SetByteOrder(binary.BigEndian)
	case wkbNDR:
		r.SetByteOrder(binary.LittleEndian)
	default:
		return env, errors.Wrapf(ErrUnsupportedType, "byte order flag %d", flag)
	}
	code, err := r.ReadUint32()
	if err != nil {
		return env, err
	}
	env.extended = parentExtended || code&ewkbFlags != 0
	if env.extended {
		env.layout = LayoutOf(code&ewkbZ != 0, code&ewkbM != 0)
		if code&ewkbSRID != 0 {
			if env.srid, err = r.ReadUint32(); err != nil {
				return env, err
			}
			env.hasSRID = true
		}
		code &^= ewkbFlags
	} else {
		switch {
		case code >= 3000 && code < 4000:
			env.layout, code = XYZM, code-3000
		case code >= 2000 && code < 3000:
			env.layout, code = XYM, code-2000
		case code >= 1000 && code < 2000:
			env.layout, code = XYZ, code-1000
		}
	}
	env.kind = Kind(code)
	if code > 0xff || !env.kind.Valid() {
		return env, unsupportedKind(code)
	}
	return env, nil
}

func readWKB(r *binio.Reader, parentExtended bool) (Geometry, error) {
	env, err := readWKBEnvelope(r, parentExtended)
	if err != nil {
		return nil, err
	}
	h := header{layout: env.layout, srid: env.srid, hasSRID: env.hasSRID}
	l := env.layout
	switch env.kind {
	case KindPoint:
		c, err := readWKBCoord(r, l)
		if err != nil {
			return nil, err
		}
		p := vertex(l, c)
		p.header = h
		return &p, nil
	case KindLineString:
		pts, err := readWKBPoints(r, l)
		if err != nil {
			return nil, err
		}
		return &LineString{header: h, Points: pts}, nil
	case KindPolygon:
		n, err := readWKBCount(r, 4)
		if err != nil {
			return nil, err
		}
		rings := make([][]Point, 0, n)
		for i := 0; i < n; i++ {
			ring, err := readWKBPoints(r, l)
			if err != nil {
				return nil, err
			}
			rings = append(rings, ring)
		}
		return polygonFromRings(h, rings), nil
	}

	members, err := readWKBMembers(r, env)
	if err != nil {
		return nil, err
	}
	switch env.kind {
	case KindMultiPoint:
		mp := &MultiPoint{header: h, Points: make([]*Point, len(members))}
		for i, m := range members {
			p, ok := m.(*Point)
			if !ok {
				return nil, memberKindError(env.kind, m)
			}
			mp.Points[i] = p
		}
		return mp, nil
	case KindMultiLineString:
		ml := &MultiLineString{header: h, LineStrings: make([]*LineString, len(members))}
		for i, m := range members {
			ls, ok := m.(*LineString)
			if !ok {
				return nil, memberKindError(env.kind, m)
			}
			ml.LineStrings[i] = ls
		}
		return ml, nil
	case KindMultiPolygon:
		mp := &MultiPolygon{header: h, Polygons: make([]*Polygon, len(members))}
		for i, m := range members {
			p, ok := m.(*Polygon)
			if !ok {
				return nil, memberKindError(env.kind, m)
			}
			mp.Polygons[i] = p
		}
		return mp, nil
	default:
		return &GeometryCollection{header: h, Geometries: members}, nil
	}
}

// readWKBMembers reads the member count and each nested envelope. The
// parent's byte order is restored after every member.
func readWKBMembers(r *binio.Reader, env wkbEnvelope) ([]Geometry, error) {
	order := r.ByteOrder()
	n, err := readWKBCount(r, 1+4)
	if err != nil {
		return nil, err
	}
	members := make([]Geometry, 0, n)
	for i := 0; i < n; i++ {
		m, err := readWKB(r, env.extended)
		if err != nil {
			return nil, errors.Wrapf(err, "%s member %d", env.kind, i)
		}
		r.SetByteOrder(order)
		members = append(members, m)
	}
	return members, nil
}

func memberKindError(parent Kind, m Geometry) error {
	return errors.Wrapf(ErrUnsupportedType, "%s cannot contain %s", parent, m.Kind())
}

// readWKBCount reads a uint32 count and checks that count elements of at
// least minSize bytes each fit in what remains.
func readWKBCount(r *binio.Reader, minSize int) (int, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	if uint64(n)*uint64(minSize) > uint64(r.Remaining()) {
		return 0, errors.Wrapf(ErrOutOfRange, "count %d exceeds remaining %d bytes", n, r.Remaining())
	}
	return int(n), nil
}

func readWKBPoints(r *binio.Reader, l Layout) ([]Point, error) {
	n, err := readWKBCount(r, 8*l.Stride())
	if err != nil {
		return nil, err
	}
	pts := make([]Point, n)
	for i := range pts {
		c, err := readWKBCoord(r, l)
		if err != nil {
			return nil, err
		}
		pts[i] = vertex(l, c)
	}
	return pts, nil
}

func readWKBCoord(r *binio.Reader, l Layout) ([]float64, error) {
	c := make([]float64, l.Stride())
	for i := range c {
		v, err := r.ReadFloat64()
		if err != nil {
			return nil, err
		}
		c[i] = v
	}
	return c, nil
}
