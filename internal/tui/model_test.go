package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"geoconv/internal/config"
	"geoconv/internal/geom"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadPath(t *testing.T) {
	testCases := []struct {
		desc     string
		name     string
		content  string
		points   int
		lines    int
		polygons int
	}{
		{"wkt", "a.wkt", "LINESTRING(0 0,1 1,2 0)", 0, 1, 0},
		{"ewkt", "a.ewkt", "SRID=4326;MULTIPOINT(0 0,1 1)", 2, 0, 0},
		{"hex ewkb", "a.hex", "0101000020e6100000000000000000f03f0000000000000040", 1, 0, 0},
		{"geojson", "a.geojson", `{"type":"Polygon","coordinates":[[[0,0],[1,0],[0,1],[0,0]]]}`, 0, 0, 1},
		{"csv", "a.csv", "lat,lon\n1,2\n3,4\n", 2, 0, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			m := NewWithPath(nil, writeFile(t, tc.name, tc.content))
			require.NotNil(t, m.g, m.status)
			require.Len(t, m.points, tc.points)
			require.Len(t, m.lines, tc.lines)
			require.Len(t, m.polygons, tc.polygons)
			require.True(t, strings.HasPrefix(m.status, "loaded: "+tc.name), m.status)
		})
	}
}

func TestLoadBinaryFile(t *testing.T) {
	b, err := geom.MarshalTWKB(geom.NewLineString(*geom.NewPoint(0, 0), *geom.NewPoint(3, 4)))
	require.NoError(t, err)
	p := filepath.Join(t.TempDir(), "a.twkb")
	require.NoError(t, os.WriteFile(p, b, 0o644))

	m := NewWithPath(nil, p)
	require.Len(t, m.lines, 1)
	require.Equal(t, geom.BBox{MinX: 0, MinY: 0, MaxX: 3, MaxY: 4}, m.bbox)
}

func TestLoadPathError(t *testing.T) {
	m := NewWithPath(nil, writeFile(t, "a.wkt", "CIRCLE(0 0)"))
	require.Nil(t, m.g)
	require.True(t, strings.HasPrefix(m.status, "load error:"), m.status)

	m = NewWithPath(nil, writeFile(t, "a.kml", "<kml/>"))
	require.Contains(t, m.status, "unsupported file")
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestPaste(t *testing.T) {
	m := New(nil)
	m = update(t, m, key("p"))
	require.True(t, m.pasteMode)
	m.ta.SetValue("0101000000000000000000f03f0000000000000040")
	m = update(t, m, key("enter"))
	require.False(t, m.pasteMode)
	require.Equal(t, [][2]float64{{1, 2}}, m.points)
	require.Equal(t, "", m.selPath)

	m = update(t, m, key("p"))
	m.ta.SetValue("POINT(")
	m = update(t, m, key("enter"))
	require.True(t, m.pasteMode)
	require.True(t, strings.HasPrefix(m.status, "paste error:"), m.status)
}

type rendition struct {
	size  string
	value string
}

func TestFormatsTable(t *testing.T) {
	cfg := config.Default()
	cfg.TWKB.Precision = 0
	m := NewWithPath(cfg, writeFile(t, "a.wkt", "SRID=3857;POINT(1 2)"))
	m = update(t, m, key("a"))
	require.True(t, m.showFormats)

	rows := m.tbl.Rows()
	require.Len(t, rows, len(geom.OutputFormats))
	byFormat := map[string]rendition{}
	for _, r := range rows {
		byFormat[r[0]] = rendition{size: r[1], value: r[2]}
	}
	require.Equal(t, rendition{"10", "POINT(1 2)"}, byFormat["wkt"])
	require.Equal(t, rendition{"20", "SRID=3857;POINT(1 2)"}, byFormat["ewkt"])
	require.Equal(t, rendition{"4", "01000204"}, byFormat["twkb"])
	require.Equal(t, "25", byFormat["ewkb"].size)
}

func TestInspect(t *testing.T) {
	m := New(nil)
	m = update(t, m, key("i"))
	require.Equal(t, "nothing loaded", m.inspectPopup)

	m = NewWithPath(nil, writeFile(t, "a.wkt", "SRID=4326;LINESTRING Z (0 0 1,2 2 1)"))
	m = update(t, m, key("i"))
	require.Contains(t, m.inspectPopup, "name: a.wkt")
	require.Contains(t, m.inspectPopup, "kind: LineString XYZ")
	require.Contains(t, m.inspectPopup, "srid: 4326")
	require.Contains(t, m.inspectPopup, "vertices: 2")
	require.Contains(t, m.inspectPopup, "bbox: [0.00000, 0.00000, 2.00000, 2.00000]")

	m = update(t, m, key("esc"))
	require.Empty(t, m.inspectPopup)
}

func TestView(t *testing.T) {
	m := NewWithPath(nil, writeFile(t, "a.wkt", "POLYGON((0 0,4 0,4 4,0 4,0 0))"))
	m = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})
	out := m.View()
	require.Contains(t, out, "geoconv")
	require.True(t, strings.ContainsAny(out, "⣿⠿⡇"), out)
}
