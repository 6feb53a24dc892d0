// Package binio provides positioned readers and writers over byte slices
// used by the binary geometry codecs.
package binio

import (
	"encoding/binary"
	"math"

	"github.com/cockroachdb/errors"
)

// ErrOutOfRange is returned when a read or a fixed-capacity write would
// cross the end of the buffer.
var ErrOutOfRange = errors.New("out of range")

// Reader reads fixed-width and variable-length values from a byte slice.
// A Reader is not safe for concurrent use.
type Reader struct {
	buf   []byte
	pos   int
	order binary.ByteOrder
}

// NewReader returns a little-endian Reader positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf, order: binary.LittleEndian}
}

// SetByteOrder changes the byte order used by subsequent multi-byte reads.
func (r *Reader) SetByteOrder(order binary.ByteOrder) { r.order = order }

// ByteOrder returns the active byte order.
func (r *Reader) ByteOrder() binary.ByteOrder { return r.order }

// Pos returns the current offset.
func (r *Reader) Pos() int { return r.pos }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

func (r *Reader) next(n int) ([]byte, error) {
	if n > r.Remaining() {
		return nil, errors.Wrapf(ErrOutOfRange, "read of %d bytes at offset %d (len %d)", n, r.pos, len(r.buf))
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadInt8() (int8, error) {
	v, err := r.ReadUint8()
	return int8(v), err
}

func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.next(2)
	if err != nil {
		return 0, err
	}
	return r.order.Uint16(b), nil
}

func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(b), nil
}

func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	return math.Float32frombits(v), err
}

func (r *Reader) ReadFloat64() (float64, error) {
	b, err := r.next(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(r.order.Uint64(b)), nil
}

// ReadUvarint reads an unsigned LEB128 varint.
func (r *Reader) ReadUvarint() (uint64, error) {
	v, n, err := DecodeUvarint(r.buf[r.pos:])
	if err != nil {
		return 0, errors.Wrapf(err, "varint at offset %d", r.pos)
	}
	r.pos += n
	return v, nil
}

// ReadVarint reads a zigzag-encoded signed varint.
func (r *Reader) ReadVarint() (int64, error) {
	v, err := r.ReadUvarint()
	if err != nil {
		return 0, err
	}
	return DecodeZigZag64(v), nil
}
