package binio

import "github.com/cockroachdb/errors"

// MaxVarintLen64 is the longest varint encoding of a uint64.
const MaxVarintLen64 = 10

// UvarintLen returns the encoded length of v: one byte per started group
// of seven bits, minimum one.
func UvarintLen(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// PutUvarint encodes v into buf, least-significant group first, and returns
// the number of bytes written. buf must hold UvarintLen(v) bytes.
func PutUvarint(buf []byte, v uint64) int {
	i := 0
	for v >= 0x80 {
		buf[i] = byte(v) | 0x80
		v >>= 7
		i++
	}
	buf[i] = byte(v)
	return i + 1
}

// AppendUvarint appends the varint encoding of v to buf.
func AppendUvarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

// DecodeUvarint decodes a varint from the start of data and returns the
// value and the number of bytes consumed.
func DecodeUvarint(data []byte) (uint64, int, error) {
	var v uint64
	var shift uint
	for i := 0; i < len(data); i++ {
		if i == MaxVarintLen64 {
			return 0, 0, errors.Wrap(ErrOutOfRange, "varint exceeds 64 bits")
		}
		b := data[i]
		if i == MaxVarintLen64-1 && b > 1 {
			return 0, 0, errors.Wrap(ErrOutOfRange, "varint overflows uint64")
		}
		v |= uint64(b&0x7f) << shift
		if b < 0x80 {
			return v, i + 1, nil
		}
		shift += 7
	}
	return 0, 0, errors.Wrap(ErrOutOfRange, "varint truncated")
}
