package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"geoconv/internal/geom"
)

// frame returns the extent mapped onto the viewport. Degenerate axes, as
// for a single point, are widened to one unit.
func (m Model) frame() (geom.BBox, bool) {
	if !m.framed {
		return geom.BBox{}, false
	}
	b := m.bbox
	if b.MaxX <= b.MinX {
		b.MinX, b.MaxX = b.MinX-0.5, b.MaxX+0.5
	}
	if b.MaxY <= b.MinY {
		b.MinY, b.MaxY = b.MinY-0.5, b.MaxY+0.5
	}
	return b, true
}

// cellToXY converts a map cell back to geometry coordinates using the
// frame, zoom, and pan.
func (m Model) cellToXY(cx, cy, w, h int) (float64, float64, bool) {
	b, ok := m.frame()
	if !ok || w <= 1 || h <= 1 {
		return 0, 0, false
	}
	zx := float64(cx-m.offsetX) / float64(w-1)
	zy := 1.0 - float64(cy-m.offsetY)/float64(h-1)
	nx := 0.5 + (zx-0.5)/m.zoom
	ny := 0.5 + (zy-0.5)/m.zoom
	return b.MinX + nx*(b.MaxX-b.MinX), b.MinY + ny*(b.MaxY-b.MinY), true
}

// normalize maps x/y into [0,1] of the frame after zooming around the center.
func (m Model) normalize(x, y float64) (float64, float64, bool) {
	b, ok := m.frame()
	if !ok {
		return 0, 0, false
	}
	nx := (x - b.MinX) / (b.MaxX - b.MinX)
	ny := (y - b.MinY) / (b.MaxY - b.MinY)
	return 0.5 + (nx-0.5)*m.zoom, 0.5 + (ny-0.5)*m.zoom, true
}

// screenXYMicro maps x/y onto the 2x4 micro-pixel grid of the canvas.
func (m Model) screenXYMicro(x, y float64, w, h int) (int, int, bool) {
	zx, zy, ok := m.normalize(x, y)
	if !ok {
		return 0, 0, false
	}
	sx := int(zx*float64(w*2-1)) + m.offsetX*2
	sy := int((1.0-zy)*float64(h*4-1)) + m.offsetY*4
	return sx, sy, true
}

// screenXY maps x/y to a terminal cell.
func (m Model) screenXY(x, y float64, w, h int) (int, int, bool) {
	zx, zy, ok := m.normalize(x, y)
	if !ok {
		return 0, 0, false
	}
	sx := int(zx*float64(w-1)) + m.offsetX
	sy := int((1.0-zy)*float64(h-1)) + m.offsetY
	return sx, sy, true
}

func (m Model) project(pts [][2]float64, w, h int) [][2]int {
	out := make([][2]int, 0, len(pts))
	for _, p := range pts {
		if mx, my, ok := m.screenXYMicro(p[0], p[1], w, h); ok {
			out = append(out, [2]int{mx, my})
		}
	}
	return out
}

// renderMap rasterises the visible layers into w x h cells.
func (m Model) renderMap(w, h int) string {
	c := newCanvas(w, h)

	if m.showPolys {
		for _, poly := range m.polygons {
			var rings [][][2]int
			for _, ring := range poly {
				if r := m.project(ring, w, h); len(r) >= 3 {
					rings = append(rings, r)
				}
			}
			c.fill(rings)
			c.outline(rings)
		}
	}
	if m.showLines {
		for _, ls := range m.lines {
			r := m.project(ls, w, h)
			for i := 1; i < len(r); i++ {
				c.line(r[i-1][0], r[i-1][1], r[i][0], r[i][1])
			}
		}
	}
	if m.showPoints {
		for _, p := range m.project(m.points, w, h) {
			c.set(p[0], p[1])
		}
	}

	lines := c.rows()
	// hovered vertex gets an orange ring
	if m.hovering {
		cx, cy := m.hoverMicX/2, m.hoverMicY/4
		if cy >= 0 && cy < len(lines) {
			r := []rune(lines[cy])
			if cx >= 0 && cx < len(r) {
				lines[cy] = string(r[:cx]) + hoverStyle.Render("◯") + string(r[cx+1:])
			}
		}
	}
	return strings.Join(lines, "\n")
}

// eachVertex visits every flattened vertex: points, line vertices and ring
// vertices.
func (m Model) eachVertex(fn func(p [2]float64)) {
	for _, p := range m.points {
		fn(p)
	}
	for _, ls := range m.lines {
		for _, p := range ls {
			fn(p)
		}
	}
	for _, poly := range m.polygons {
		for _, ring := range poly {
			for _, p := range ring {
				fn(p)
			}
		}
	}
}

// inspectNearest finds the vertex closest to the viewport center.
func (m Model) inspectNearest() (x, y float64, ok bool) {
	sc := m.screen()
	w, h := sc.mapW, sc.mapH
	cx, cy := w/2, h/2
	bestD := 1<<31 - 1
	var best [2]float64
	m.eachVertex(func(p [2]float64) {
		sx, sy, ok2 := m.screenXY(p[0], p[1], w, h)
		if !ok2 {
			return
		}
		dx := sx - cx
		dy := sy - cy
		if d := dx*dx + dy*dy; d < bestD {
			bestD = d
			best = p
		}
	})
	if bestD == 1<<31-1 {
		return 0, 0, false
	}
	return best[0], best[1], true
}

// inspectText builds the popup body for the loaded geometry.
func (m Model) inspectText() string {
	s := geom.Describe(m.g)
	name := filepath.Base(m.selPath)
	if m.selPath == "" {
		name = "<pasted>"
	}
	srid := "none"
	if s.HasSRID {
		srid = fmt.Sprintf("%d", s.SRID)
	}
	meta := []string{
		fmt.Sprintf("name: %s", name),
		fmt.Sprintf("kind: %s %s", s.Kind, s.Layout),
		fmt.Sprintf("srid: %s", srid),
		fmt.Sprintf("members: %d  vertices: %d", s.Members, s.Vertices),
	}
	if s.Empty {
		meta = append(meta, "empty")
	}
	if s.BBox != nil {
		meta = append(meta, fmt.Sprintf("bbox: [%.5f, %.5f, %.5f, %.5f]", s.BBox.MinX, s.BBox.MinY, s.BBox.MaxX, s.BBox.MaxY))
	}
	if x, y, ok := m.inspectNearest(); ok {
		meta = append(meta, fmt.Sprintf("nearest: x=%.6f y=%.6f", x, y))
	}
	return strings.Join(meta, "\n")
}
