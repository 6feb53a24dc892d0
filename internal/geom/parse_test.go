package geom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBinary(t *testing.T) {
	testCases := []struct {
		desc     string
		hex      string
		expected Geometry
	}{
		{
			desc:     "wkb",
			hex:      "0101000000000000000000f03f0000000000000040",
			expected: NewPoint(1, 2),
		},
		{
			desc:     "ewkb",
			hex:      "0101000020e6100000000000000000f03f0000000000000040",
			expected: WithSRID(NewPoint(1, 2), 4326),
		},
		{
			desc:     "twkb whose first byte is not a byte order flag",
			hex:      "02000200000202",
			expected: NewLineString(*NewPoint(0, 0), *NewPoint(1, 1)),
		},
		{
			desc:     "twkb whose first byte looks like a byte order flag",
			hex:      "01000204",
			expected: NewPoint(1, 2),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			got, err := ParseBinary(mustHex(t, tc.hex))
			require.NoError(t, err)
			require.Truef(t, Equal(tc.expected, got), "got %s", MarshalEWKT(got))

			got, err = ParseHex(strings.ToUpper(tc.hex))
			require.NoError(t, err)
			require.True(t, Equal(tc.expected, got))
		})
	}
}

func TestParseBinaryError(t *testing.T) {
	for _, in := range []string{"", "09", "0900", "ffffffff"} {
		_, err := ParseBinary(mustHex(t, in))
		require.ErrorIs(t, err, ErrCouldNotParse, in)
		require.Contains(t, err.Error(), "as WKB")
		require.Contains(t, err.Error(), "as TWKB")
	}
	_, err := ParseHex("zz")
	require.ErrorIs(t, err, ErrParse)
}

func TestParse(t *testing.T) {
	g, err := Parse("SRID=4326;POINT(1 2)")
	require.NoError(t, err)
	require.True(t, Equal(WithSRID(NewPoint(1, 2), 4326), g))

	g, err = Parse([]byte{0x02, 0x00, 0x02, 0x00, 0x00, 0x02, 0x02})
	require.NoError(t, err)
	require.Equal(t, KindLineString, g.Kind())

	_, err = Parse("MULTIPOINT(1 2")
	require.ErrorIs(t, err, ErrParse)
}

func TestDecodeAuto(t *testing.T) {
	want := NewPoint(1, 2)
	wkb, err := MarshalWKB(want)
	require.NoError(t, err)
	twkb, err := MarshalTWKB(want)
	require.NoError(t, err)

	testCases := []struct {
		desc  string
		input []byte
	}{
		{"wkt", []byte("POINT(1 2)\n")},
		{"geojson", []byte(`{"type":"Point","coordinates":[1,2]}`)},
		{"hex", []byte("0101000000000000000000f03f0000000000000040\n")},
		{"wkb", wkb},
		{"twkb", twkb},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			got, err := Decode(tc.input, FormatAuto, Options{})
			require.NoError(t, err)
			require.Equal(t, KindPoint, got.Kind())
			p := got.(*Point)
			require.Equal(t, 1.0, p.X)
			require.Equal(t, 2.0, p.Y)
		})
	}
}

func TestEncodeFormats(t *testing.T) {
	g := WithSRID(NewLineString(*NewPoint(0, 0), *NewPoint(1, 1)), 4326)
	opts := Options{
		TWKB:    []TWKBOption{TWKBPrecision(0)},
		GeoJSON: []GeoJSONOption{GeoJSONCRS(CRSShort)},
	}
	for _, f := range OutputFormats {
		t.Run(f.String(), func(t *testing.T) {
			b, err := Encode(g, f, opts)
			require.NoError(t, err)
			got, err := Decode(b, f, opts)
			require.NoError(t, err)
			require.Equal(t, KindLineString, got.Kind())
			require.Len(t, got.(*LineString).Points, 2)
		})
	}

	b, err := Encode(g, FormatTWKB, opts)
	require.NoError(t, err)
	require.Equal(t, []byte{0x02, 0x00, 0x02, 0x00, 0x00, 0x02, 0x02}, b)

	_, err = Encode(g, FormatHex, opts)
	require.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	for _, f := range []Format{FormatAuto, FormatWKT, FormatEWKT, FormatWKB, FormatEWKB, FormatTWKB, FormatGeoJSON, FormatHex} {
		got, err := ParseFormat(strings.ToUpper(f.String()))
		require.NoError(t, err)
		require.Equal(t, f, got)
	}
	got, err := ParseFormat("json")
	require.NoError(t, err)
	require.Equal(t, FormatGeoJSON, got)

	_, err = ParseFormat("kml")
	require.Error(t, err)
}

func TestDecodeAutoPrintableBinary(t *testing.T) {
	// TWKB point: precision 1, flags bbox|ext (a tab), Z at precision 0,
	// six bbox varints, then x y z.
	in := []byte{0x21, 0x09, 0x21, '@', '@', 'R', 'R', 'F', 'F', '@', 'R', 'F'}
	require.True(t, isText(in))

	got, err := Decode(in, FormatAuto, Options{})
	require.NoError(t, err)
	require.True(t, Equal(NewPointZ(3.2, 4.1, 35), got), MarshalWKT(got))

	_, err = Decode([]byte("POINT(1"), FormatAuto, Options{})
	require.ErrorIs(t, err, ErrParse)
	_, err = Decode([]byte("!!!!"), FormatAuto, Options{})
	require.ErrorIs(t, err, ErrCouldNotParse)
}

func TestFormatForExt(t *testing.T) {
	testCases := []struct {
		ext string
		f   Format
		ok  bool
	}{
		{".wkt", FormatWKT, true},
		{".EWKT", FormatWKT, true},
		{".geojson", FormatGeoJSON, true},
		{"json", FormatGeoJSON, true},
		{".hex", FormatHex, true},
		{".twkb", FormatAuto, true},
		{".ewkb", FormatAuto, true},
		{".kml", FormatAuto, false},
	}
	for _, tc := range testCases {
		t.Run(tc.ext, func(t *testing.T) {
			f, ok := FormatForExt(tc.ext)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.f, f)
		})
	}
}
