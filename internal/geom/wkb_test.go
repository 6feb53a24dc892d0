package geom

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestMarshalWKBBytes(t *testing.T) {
	testCases := []struct {
		desc     string
		g        Geometry
		ewkb     bool
		opts     []WKBOption
		expected string
	}{
		{
			desc:     "2D point",
			g:        NewPoint(1, 2),
			expected: "0101000000000000000000f03f0000000000000040",
		},
		{
			desc:     "big endian point",
			g:        NewPoint(1, 2),
			opts:     []WKBOption{WKBByteOrder(binary.BigEndian)},
			expected: "00000000013ff00000000000004000000000000000",
		},
		{
			desc:     "3D point uses the 1000 offset",
			g:        NewPointZ(1, 2, 3),
			expected: "01e9030000000000000000f03f00000000000000400000000000000840",
		},
		{
			desc:     "measured point uses the 2000 offset",
			g:        NewPointM(1, 2, 3),
			expected: "01d1070000000000000000f03f00000000000000400000000000000840",
		},
		{
			desc:     "ewkb point with srid",
			g:        WithSRID(NewPoint(1, 2), 4326),
			ewkb:     true,
			expected: "0101000020e6100000000000000000f03f0000000000000040",
		},
		{
			desc:     "wkb with srid keeps flag bits but not the srid",
			g:        WithSRID(NewPointZ(1, 2, 3), 4326),
			expected: "0101000080000000000000f03f00000000000000400000000000000840",
		},
		{
			desc:     "empty point is NaN",
			g:        NewPointEmpty(XY),
			expected: "0101000000000000000000f87f000000000000f87f",
		},
		{
			desc:     "empty polygon has zero rings",
			g:        &Polygon{},
			expected: "010300000000000000",
		},
		{
			desc:     "multipoint members carry their own envelope",
			g:        NewMultiPoint(NewPoint(1, 2)),
			expected: "0104000000010000000101000000000000000000f03f0000000000000040",
		},
		{
			desc:     "ewkb members have flags but no srid",
			g:        WithSRID(NewMultiPoint(NewPointZ(1, 2, 3)), 4326),
			ewkb:     true,
			expected: "01040000a0e6100000010000000101000080000000000000f03f00000000000000400000000000000840",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			marshal := MarshalWKB
			if tc.ewkb {
				marshal = MarshalEWKB
			}
			b, err := marshal(tc.g, tc.opts...)
			require.NoError(t, err)
			require.Equal(t, tc.expected, hex.EncodeToString(b))
		})
	}
}

func TestWKBRoundTrip(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		for _, fx := range fixtures() {
			t.Run(order.String()+" "+fx.name, func(t *testing.T) {
				b, err := MarshalWKB(fx.g, WKBByteOrder(order))
				require.NoError(t, err)
				require.Len(t, b, wkbSize(fx.g))
				got, err := UnmarshalWKB(b)
				require.NoError(t, err)
				require.Truef(t, Equal(fx.g, got), "got %s", MarshalWKT(got))
			})
		}
	}
}

func TestEWKBRoundTrip(t *testing.T) {
	for _, fx := range fixtures() {
		t.Run(fx.name, func(t *testing.T) {
			g := WithSRID(fx.g, 3857)
			b, err := MarshalEWKB(g)
			require.NoError(t, err)
			require.Len(t, b, wkbSize(g)+4)
			got, err := UnmarshalWKB(b)
			require.NoError(t, err)
			require.Truef(t, Equal(g, got), "got %s", MarshalEWKT(got))
		})
	}
}

func TestWKBDialectInheritance(t *testing.T) {
	mp := WithSRID(NewMultiPoint(NewPointZM(1, 2, 3, 4), NewPointZM(5, 6, 7, 8)), 4326)
	b, err := MarshalEWKB(mp)
	require.NoError(t, err)

	got, err := UnmarshalWKB(b)
	require.NoError(t, err)
	srid, ok := got.SRID()
	require.True(t, ok)
	require.EqualValues(t, 4326, srid)
	for _, p := range got.(*MultiPoint).Points {
		require.True(t, p.HasZ())
		require.True(t, p.HasM())
		_, ok := p.SRID()
		require.False(t, ok)
	}
	require.True(t, Equal(mp, got))
}

func TestWKBInheritedDialectIgnoresOffsets(t *testing.T) {
	// Under an extended parent a member code of 1001 is not an ISO 3D
	// point, so decoding must fail rather than silently switch dialect.
	b := mustHex(t, "0104000020e61000000100000001e9030000000000000000f03f00000000000000400000000000000840")
	_, err := UnmarshalWKB(b)
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestWKBMixedByteOrder(t *testing.T) {
	// Little-endian multipoint holding a big-endian member.
	b := mustHex(t, "0104000000"+"02000000"+
		"00"+"00000001"+"3ff0000000000000"+"4000000000000000"+
		"01"+"01000000"+"0000000000000840"+"0000000000001040")
	got, err := UnmarshalWKB(b)
	require.NoError(t, err)
	require.True(t, Equal(NewMultiPoint(NewPoint(1, 2), NewPoint(3, 4)), got))
}

func TestUnmarshalWKBError(t *testing.T) {
	testCases := []struct {
		desc     string
		hex      string
		expected error
	}{
		{"empty input", "", ErrOutOfRange},
		{"bad byte order flag", "0201000000", ErrUnsupportedType},
		{"unknown kind", "0108000000", ErrUnsupportedType},
		{"unknown dimensional kind", "01f0030000", ErrUnsupportedType},
		{"truncated point", "0101000000000000000000f03f", ErrOutOfRange},
		{"truncated srid", "0101000020e610", ErrOutOfRange},
		{"huge count", "0102000000ffffffff", ErrOutOfRange},
		{"trailing bytes", "0101000000000000000000f03f000000000000004000", ErrParse},
		{"wrong member kind", "010400000001000000010200000000000000", ErrUnsupportedType},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := UnmarshalWKB(mustHex(t, tc.hex))
			require.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestWKBEmptyPointIsNaN(t *testing.T) {
	b, err := MarshalWKB(NewPointEmpty(XYZ))
	require.NoError(t, err)
	got, err := UnmarshalWKB(b)
	require.NoError(t, err)
	p := got.(*Point)
	require.True(t, p.IsEmpty())
	require.True(t, math.IsNaN(p.Z))

	origin, err := UnmarshalWKB(mustHex(t, "010100000000000000000000000000000000000000"))
	require.NoError(t, err)
	require.False(t, origin.IsEmpty())
}
