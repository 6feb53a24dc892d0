package wktlex

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestMatchPrefixAndDimension(t *testing.T) {
	l := New("  SRID=3857; POINT ZM (1 2 3 4)")
	srid, ok, err := l.MatchSRID()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint32(3857), srid)

	kw, ok := l.Match("LINESTRING", "POINT")
	require.True(t, ok)
	require.Equal(t, "POINT", kw)

	hasZ, hasM := l.MatchDimension()
	require.True(t, hasZ)
	require.True(t, hasM)

	require.NoError(t, l.ExpectGroupStart())
	c, err := l.MatchCoordinate(4)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3, 4}, c)
	require.NoError(t, l.ExpectGroupEnd())
	require.True(t, l.AtEnd())
}

func TestMatchSRIDAbsent(t *testing.T) {
	l := New("POINT(1 2)")
	_, ok, err := l.MatchSRID()
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 0, l.Pos())
}

func TestMatchSRIDMalformed(t *testing.T) {
	for _, in := range []string{"SRID=;POINT(1 2)", "SRID=12 POINT(1 2)"} {
		_, _, err := New(in).MatchSRID()
		require.True(t, errors.Is(err, ErrParse), in)
	}
}

func TestMatchCoordinates(t *testing.T) {
	for _, tc := range []struct {
		in   string
		dims int
		want [][]float64
	}{
		{"1 2,3 4", 2, [][]float64{{1, 2}, {3, 4}}},
		{"(1 2), (3 4)", 2, [][]float64{{1, 2}, {3, 4}}},
		{"1 2 3 , -4.5 1e3 .5", 3, [][]float64{{1, 2, 3}, {-4.5, 1000, 0.5}}},
		{"\t1\n2", 2, [][]float64{{1, 2}}},
	} {
		got, err := New(tc.in).MatchCoordinates(tc.dims)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}
}

func TestMatchCoordinateErrors(t *testing.T) {
	for _, tc := range []struct {
		in   string
		dims int
	}{
		{"1", 2},
		{"1 x", 2},
		{"1 2", 3},
		{"(1 2", 2},
	} {
		_, err := New(tc.in).MatchCoordinates(tc.dims)
		require.Error(t, err, tc.in)
		require.True(t, errors.Is(err, ErrParse), tc.in)
	}
}

func TestExpectGroupReportsOffset(t *testing.T) {
	l := New("POINT 1 2")
	l.Match("POINT")
	err := l.ExpectGroupStart()
	require.True(t, errors.Is(err, ErrParse))
	require.Contains(t, err.Error(), "expected '(' at offset 6")
}

func TestKeywordsAreCaseSensitive(t *testing.T) {
	_, ok := New("point(1 2)").Match("POINT")
	require.False(t, ok)
}
