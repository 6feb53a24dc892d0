package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	"github.com/cockroachdb/errors"

	"geoconv/internal/geom"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func supported(ext string) bool {
	if strings.EqualFold(ext, ".csv") {
		return true
	}
	_, ok := geom.FormatForExt(ext)
	return ok
}

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if supported(ext) {
			items = append(items, fileItem{title: name, desc: ext, path: filepath.Join(m.cwd, name)})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no supported files in current directory"
	}
}

// readPath decodes a file by extension.
func (m *Model) readPath(p string) (geom.Geometry, error) {
	ext := filepath.Ext(p)
	if strings.EqualFold(ext, ".csv") {
		return geom.LoadCSV(p)
	}
	f, ok := geom.FormatForExt(ext)
	if !ok {
		return nil, errors.Newf("unsupported file: %s", ext)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	return geom.Decode(data, f, m.cfg.Options())
}

func (m *Model) loadPath(p string) {
	m.selPath = p
	g, err := m.readPath(p)
	if err != nil {
		m.status = "load error: " + err.Error()
		return
	}
	m.setGeometry(g)
	m.status = "loaded: " + filepath.Base(p) + "  " + m.counts()
}

// setGeometry flattens g for rendering and resets the viewport.
func (m *Model) setGeometry(g geom.Geometry) {
	d := geom.Flatten(g)
	m.g = g
	m.points, m.lines, m.polygons, m.bbox = d.Points, d.Lines, d.Polygons, d.BBox
	_, m.framed = geom.Bounds(g)
	m.zoom = 1.0
	m.offsetX, m.offsetY = 0, 0
	m.inspectPopup = ""
	// prefer polys > lines > points for visibility
	m.showPolys = len(m.polygons) > 0
	m.showLines = len(m.lines) > 0 && !m.showPolys
	m.showPoints = len(m.points) > 0 && !m.showPolys
	if m.showFormats {
		m.refreshFormats()
	}
}

func (m *Model) counts() string {
	return fmt.Sprintf("%s  counts: pts=%d ls=%d poly=%d", m.g.Kind(), len(m.points), len(m.lines), len(m.polygons))
}
