package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"

	"kmlview/internal/geom"
)

// viewBound is the projection extent. Degenerate extents (single point,
// straight meridian/parallel) are padded so the document still projects.
func (m Model) viewBound() (orb.Bound, bool) {
	if m.doc == nil || !m.doc.HasBound {
		return orb.Bound{}, false
	}
	b := m.doc.Bound
	if b.Right()-b.Left() < 1e-9 {
		b.Min[0] -= 0.5
		b.Max[0] += 0.5
	}
	if b.Top()-b.Bottom() < 1e-9 {
		b.Min[1] -= 0.5
		b.Max[1] += 0.5
	}
	return b, true
}

func (m Model) renderMap(w, h int) string {
	bound, ok := m.viewBound()
	if !ok {
		rows := make([]string, h)
		blank := strings.Repeat(" ", w)
		for y := range rows {
			rows[y] = blank
		}
		hint := dimStyle.Render("open a .kml file (Tab for the file list)")
		if h/2 < len(rows) {
			rows[h/2] = lipgloss.PlaceHorizontal(w, lipgloss.Center, hint)
		}
		return strings.Join(rows, "\n")
	}

	cv := newCanvas(w, h)
	for _, f := range m.doc.Features {
		switch g := f.Geometry.(type) {
		case orb.Point:
			if m.showPoints {
				mx, my := m.microXY(bound, g, w, h)
				cv.set(mx, my)
			}
		case orb.LineString:
			if m.showLines {
				m.strokeLine(cv, bound, g, w, h)
			}
		case orb.MultiLineString:
			if m.showLines {
				for _, ls := range g {
					m.strokeLine(cv, bound, ls, w, h)
				}
			}
		case orb.Polygon:
			if m.showPolys && len(g) > 0 {
				m.fillRing(cv, bound, g[0], w, h)
			}
		}
	}

	rows := cv.rows()
	// Hover highlight: mark the vertex nearest the pointer
	if m.hovering {
		cx := m.hoverMicX / 2
		cy := m.hoverMicY / 4
		if cy >= 0 && cy < len(rows) {
			r := []rune(rows[cy])
			if cx >= 0 && cx < len(r) {
				mark := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Render("◯")
				rows[cy] = string(r[:cx]) + mark + string(r[cx+1:])
			}
		}
	}
	return strings.Join(rows, "\n")
}

func (m Model) strokeLine(cv *canvas, b orb.Bound, line orb.LineString, w, h int) {
	var px, py int
	has := false
	for _, p := range line {
		mx, my := m.microXY(b, p, w, h)
		if has {
			cv.line(px, py, mx, my)
		}
		px, py = mx, my
		has = true
	}
}

// fillRing fills a polygon's outer ring with an even-odd scanline pass on
// the microgrid, then strokes the edges.
func (m Model) fillRing(cv *canvas, b orb.Bound, ring orb.Ring, w, h int) {
	mic := make([][2]int, 0, len(ring))
	for _, p := range ring {
		mx, my := m.microXY(b, p, w, h)
		mic = append(mic, [2]int{mx, my})
	}
	if len(mic) < 3 {
		return
	}
	hMic := h * 4
	for y := 0; y < hMic; y++ {
		var xs []int
		for i := 0; i < len(mic); i++ {
			a := mic[i]
			c := mic[(i+1)%len(mic)]
			if a[1] == c[1] { // horizontal edge: skip
				continue
			}
			y0, y1 := a[1], c[1]
			if (y >= y0 && y < y1) || (y >= y1 && y < y0) {
				t := float64(y-y0) / float64(y1-y0)
				xs = append(xs, int(float64(a[0])+t*float64(c[0]-a[0])))
			}
		}
		if len(xs) < 2 {
			continue
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := max(0, xs[i]); x <= xs[i+1]; x++ {
				cv.set(x, y)
			}
		}
	}
	for i := 0; i < len(mic); i++ {
		a := mic[i]
		c := mic[(i+1)%len(mic)]
		cv.line(a[0], a[1], c[0], c[1])
	}
}

// microXY maps lon/lat into the 2x4 braille microgrid under zoom and pan.
func (m Model) microXY(b orb.Bound, p orb.Point, w, h int) (int, int) {
	nx := (p.Lon() - b.Left()) / (b.Right() - b.Left())
	ny := (p.Lat() - b.Bottom()) / (b.Top() - b.Bottom())
	zx := 0.5 + (nx-0.5)*m.zoom
	zy := 0.5 + (ny-0.5)*m.zoom
	sx := int(zx*float64(w*2-1)) + m.offsetX*2
	sy := int((1.0-zy)*float64(h*4-1)) + m.offsetY*4
	return sx, sy
}

// cellXY maps lon/lat to terminal cell coordinates.
func (m Model) cellXY(b orb.Bound, p orb.Point, w, h int) (int, int) {
	nx := (p.Lon() - b.Left()) / (b.Right() - b.Left())
	ny := (p.Lat() - b.Bottom()) / (b.Top() - b.Bottom())
	zx := 0.5 + (nx-0.5)*m.zoom
	zy := 0.5 + (ny-0.5)*m.zoom
	sx := int(zx*float64(w-1)) + m.offsetX
	sy := int((1.0-zy)*float64(h-1)) + m.offsetY
	return sx, sy
}

// cellToLonLat inverts cellXY for the pointer position.
func (m Model) cellToLonLat(cx, cy, w, h int) (float64, float64, bool) {
	b, ok := m.viewBound()
	if !ok || w <= 1 || h <= 1 || m.zoom == 0 {
		return 0, 0, false
	}
	zx := float64(cx-m.offsetX) / float64(w-1)
	zy := 1.0 - float64(cy-m.offsetY)/float64(h-1)
	nx := 0.5 + (zx-0.5)/m.zoom
	ny := 0.5 + (zy-0.5)/m.zoom
	lon := b.Left() + nx*(b.Right()-b.Left())
	lat := b.Bottom() + ny*(b.Top()-b.Bottom())
	return lon, lat, true
}

// inspectNearest returns the feature owning the vertex closest to the
// viewport center, and that vertex.
func (m Model) inspectNearest() (geom.Feature, orb.Point, bool) {
	b, ok := m.viewBound()
	if !ok || len(m.doc.Features) == 0 {
		return geom.Feature{}, orb.Point{}, false
	}
	w, h := m.mapW, m.mapH
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	cx, cy := w/2, h/2
	best := 1<<31 - 1
	var bestF geom.Feature
	var bestP orb.Point
	for _, f := range m.doc.Features {
		for _, p := range featurePoints(f) {
			sx, sy := m.cellXY(b, p, w, h)
			dx, dy := sx-cx, sy-cy
			if d := dx*dx + dy*dy; d < best {
				best = d
				bestF, bestP = f, p
			}
		}
	}
	if best == 1<<31-1 {
		return geom.Feature{}, orb.Point{}, false
	}
	return bestF, bestP, true
}

// featurePoints flattens a feature's geometry to its vertices.
func featurePoints(f geom.Feature) []orb.Point {
	switch g := f.Geometry.(type) {
	case orb.Point:
		return []orb.Point{g}
	case orb.LineString:
		return g
	case orb.Polygon:
		var pts []orb.Point
		for _, ring := range g {
			pts = append(pts, ring...)
		}
		return pts
	case orb.MultiLineString:
		var pts []orb.Point
		for _, ls := range g {
			pts = append(pts, ls...)
		}
		return pts
	}
	return nil
}
