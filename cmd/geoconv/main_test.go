package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"geoconv/internal/geom"
)

// runWith runs the CLI with in as stdin and returns what it wrote.
func runWith(t *testing.T, in string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	oldIn, oldOut := stdin, stdout
	stdin, stdout = strings.NewReader(in), &out
	defer func() { stdin, stdout = oldIn, oldOut }()
	err := run(args)
	return out.String(), err
}

func TestConvert(t *testing.T) {
	testCases := []struct {
		desc     string
		in       string
		args     []string
		expected string
	}{
		{
			desc:     "wkt to hex ewkb",
			in:       "SRID=4326;POINT(1 2)",
			args:     []string{"convert", "--to", "ewkb", "--hex"},
			expected: "0101000020e6100000000000000000f03f0000000000000040\n",
		},
		{
			desc:     "hex to ewkt",
			in:       "0101000020e6100000000000000000f03f0000000000000040",
			args:     []string{"convert", "--from", "hex"},
			expected: "SRID=4326;POINT(1 2)\n",
		},
		{
			desc:     "big-endian wkb via auto detection",
			in:       "00000000013ff00000000000004000000000000000",
			args:     []string{"convert", "-t", "wkt"},
			expected: "POINT(1 2)\n",
		},
		{
			desc:     "wkt to twkb hex",
			in:       "POINT(1 2)",
			args:     []string{"convert", "--to", "twkb", "-x"},
			expected: "a100c09a0c80b518\n",
		},
		{
			desc:     "geojson to wkt",
			in:       `{"type":"LineString","coordinates":[[0,0],[1,1]]}`,
			args:     []string{"convert", "--to", "ewkt"},
			expected: "SRID=4326;LINESTRING(0 0,1 1)\n",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			out, err := runWith(t, tc.in, tc.args...)
			require.NoError(t, err)
			require.Equal(t, tc.expected, out)
		})
	}
}

func TestConvertGeoJSON(t *testing.T) {
	out, err := runWith(t, "SRID=3857;POINT Z (1 2 3)", "convert", "--to", "json")
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"Point","coordinates":[1,2,3]}`, out)

	cfg := filepath.Join(t.TempDir(), "geoconv.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("geojson:\n  crs: short\n"), 0o644))
	out, err = runWith(t, "SRID=3857;POINT(1 2)", "-c", cfg, "convert", "--to", "geojson")
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"Point","coordinates":[1,2],"crs":{"type":"name","properties":{"name":"EPSG:3857"}}}`, out)
}

func TestConvertFiles(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wkt")
	out := filepath.Join(dir, "out.twkb")
	require.NoError(t, os.WriteFile(in, []byte("LINESTRING(0 0,3 4)"), 0o644))

	_, err := runWith(t, "", "convert", "--to", "twkb", "-o", out, in)
	require.NoError(t, err)
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	g, err := geom.UnmarshalTWKB(b)
	require.NoError(t, err)
	require.Equal(t, geom.KindLineString, g.Kind())

	// the extension selects the binary decoder
	got, err := runWith(t, "", "convert", "--to", "wkt", out)
	require.NoError(t, err)
	require.Equal(t, "LINESTRING(0 0,3 4)\n", got)
}

func TestConvertConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "geoconv.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("twkb:\n  precision: 0\nwkb:\n  byte_order: big\n"), 0o644))

	out, err := runWith(t, "POINT(1 2)", "--config", cfg, "convert", "--to", "twkb", "--hex")
	require.NoError(t, err)
	require.Equal(t, "01000204\n", out)

	out, err = runWith(t, "POINT(1 2)", "-c", cfg, "convert", "--to", "wkb", "--hex")
	require.NoError(t, err)
	require.Equal(t, "00000000013ff00000000000004000000000000000\n", out)
}

func TestConvertErrors(t *testing.T) {
	testCases := []struct {
		desc string
		in   string
		args []string
	}{
		{"unknown output format", "POINT(1 2)", []string{"convert", "--to", "kml"}},
		{"auto is not an output", "POINT(1 2)", []string{"convert", "--to", "auto"}},
		{"bad input", "POINT(1", []string{"convert"}},
		{"two files", "", []string{"convert", "a.wkt", "b.wkt"}},
		{"missing config", "POINT(1 2)", []string{"--config", "/nonexistent/geoconv.yaml", "convert"}},
		{"no command", "", nil},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := runWith(t, tc.in, tc.args...)
			require.Error(t, err)
		})
	}
}

func TestInspect(t *testing.T) {
	out, err := runWith(t, "SRID=3857;MULTIPOINT(0 0,2 4)", "inspect")
	require.NoError(t, err)
	require.Equal(t, `kind:     MultiPoint
layout:   XY
srid:     3857
empty:    false
members:  2
vertices: 2
bbox:     0 0 2 4
`, out)

	out, err = runWith(t, "POINT EMPTY", "inspect", "--dump")
	require.NoError(t, err)
	require.Contains(t, out, "srid:     none")
	require.Contains(t, out, "&geom.Point{")
}

func TestHelp(t *testing.T) {
	out, err := runWith(t, "", "--help")
	require.NoError(t, err)
	require.Contains(t, out, "convert")
	require.Contains(t, out, "inspect")
	require.Contains(t, out, "view")
}
