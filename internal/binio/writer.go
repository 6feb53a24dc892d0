package binio

import (
	"encoding/binary"
	"math"

	"github.com/cockroachdb/errors"
)

// Writer appends fixed-width and variable-length values to a byte buffer.
//
// A Writer created with NewWriter has a fixed capacity and fails with
// ErrOutOfRange once a write would overflow it; NewGrowingWriter
// reallocates on demand. The first failure is sticky and reported by Err.
type Writer struct {
	buf   []byte
	pos   int
	order binary.ByteOrder
	grow  bool
	err   error
}

// NewWriter returns a fixed-capacity little-endian Writer of size bytes.
func NewWriter(size int) *Writer {
	return &Writer{buf: make([]byte, size), order: binary.LittleEndian}
}

// NewGrowingWriter returns a little-endian Writer that grows as needed.
func NewGrowingWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 64), order: binary.LittleEndian, grow: true}
}

// SetByteOrder changes the byte order used by subsequent multi-byte writes.
func (w *Writer) SetByteOrder(order binary.ByteOrder) { w.order = order }

// ByteOrder returns the active byte order.
func (w *Writer) ByteOrder() binary.ByteOrder { return w.order }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return w.pos }

// Err returns the first error encountered by the Writer.
func (w *Writer) Err() error { return w.err }

// Bytes returns the written bytes. The slice aliases the internal buffer.
func (w *Writer) Bytes() []byte { return w.buf[:w.pos] }

// reserve returns the n-byte window for the next write, or nil on failure.
func (w *Writer) reserve(n int) []byte {
	if w.err != nil {
		return nil
	}
	need := w.pos + n
	if need > len(w.buf) {
		if !w.grow {
			w.err = errors.Wrapf(ErrOutOfRange, "write of %d bytes at offset %d (cap %d)", n, w.pos, len(w.buf))
			return nil
		}
		if need <= cap(w.buf) {
			w.buf = w.buf[:need]
		} else {
			c := 2 * cap(w.buf)
			if c < need {
				c = need
			}
			nb := make([]byte, need, c)
			copy(nb, w.buf[:w.pos])
			w.buf = nb
		}
	}
	b := w.buf[w.pos:need]
	w.pos = need
	return b
}

func (w *Writer) WriteUint8(v uint8) {
	if b := w.reserve(1); b != nil {
		b[0] = v
	}
}

func (w *Writer) WriteInt8(v int8) { w.WriteUint8(uint8(v)) }

func (w *Writer) WriteUint16(v uint16) {
	if b := w.reserve(2); b != nil {
		w.order.PutUint16(b, v)
	}
}

func (w *Writer) WriteInt16(v int16) { w.WriteUint16(uint16(v)) }

func (w *Writer) WriteUint32(v uint32) {
	if b := w.reserve(4); b != nil {
		w.order.PutUint32(b, v)
	}
}

func (w *Writer) WriteInt32(v int32) { w.WriteUint32(uint32(v)) }

func (w *Writer) WriteFloat32(v float32) { w.WriteUint32(math.Float32bits(v)) }

func (w *Writer) WriteFloat64(v float64) {
	if b := w.reserve(8); b != nil {
		w.order.PutUint64(b, math.Float64bits(v))
	}
}

// WriteBytes copies p verbatim.
func (w *Writer) WriteBytes(p []byte) {
	if b := w.reserve(len(p)); b != nil {
		copy(b, p)
	}
}

// WriteUvarint writes v as an unsigned LEB128 varint and returns the
// number of bytes it occupies.
func (w *Writer) WriteUvarint(v uint64) int {
	n := UvarintLen(v)
	if b := w.reserve(n); b != nil {
		PutUvarint(b, v)
	}
	return n
}

// WriteVarint writes v zigzag-encoded as a varint.
func (w *Writer) WriteVarint(v int64) int {
	return w.WriteUvarint(EncodeZigZag64(v))
}
