package tui

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"kmlview/internal/geom"
)

// fileLoadedMsg delivers the result of an asynchronous parse. Overlapping
// loads resolve in arrival order: the last message to land wins.
type fileLoadedMsg struct {
	path string
	doc  *geom.Document
	err  error
}

func loadFile(path string) tea.Cmd {
	return func() tea.Msg {
		doc, err := geom.Load(path)
		return fileLoadedMsg{path: path, doc: doc, err: err}
	}
}

// ingest applies a load result. A failed parse is logged and leaves the
// current document untouched.
func (m *Model) ingest(msg fileLoadedMsg) {
	if msg.err != nil {
		log.Printf("kml load failed: %v", msg.err)
		m.status = "load error: " + msg.err.Error()
		return
	}
	m.doc = msg.doc
	m.selPath = msg.path
	m.zoom = 1.0
	m.offsetX, m.offsetY = 0, 0
	m.inspectPopup = ""
	c := msg.doc.Summary
	m.status = fmt.Sprintf("loaded: %s  counts: pt=%d ls=%d poly=%d mls=%d",
		displayName(msg.path),
		c[geom.KindPoint], c[geom.KindLineString], c[geom.KindPolygon], c[geom.KindMultiLineString])
	if m.mode != modeMap {
		m.refreshTable()
	}
}

func displayName(path string) string {
	if path == "" {
		return "<pasted>"
	}
	return filepath.Base(path)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.showSidebar {
			m.l.SetSize(28-2, m.height-1-2) // provisional; refined in View
		}
	case fileLoadedMsg:
		m.ingest(msg)
		return m, nil
	case tea.KeyMsg:
		// If the list is filtering, it owns the keyboard
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			switch msg.String() {
			case "esc":
				m.pasteMode = false
				m.ta.Blur()
				return m, nil
			case "enter":
				text := strings.TrimSpace(m.ta.Value())
				if text == "" {
					m.status = "paste: empty"
					return m, nil
				}
				doc, err := geom.Parse([]byte(text))
				m.ingest(fileLoadedMsg{doc: doc, err: err})
				if err == nil {
					m.pasteMode = false
					m.ta.Blur()
				}
				return m, nil
			}
			var cmd tea.Cmd
			m.ta, cmd = m.ta.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "1":
			m.showPoints = !m.showPoints
			m.status = fmt.Sprintf("points: %v", m.showPoints)
		case "2":
			m.showLines = !m.showLines
			m.status = fmt.Sprintf("lines: %v", m.showLines)
		case "3":
			m.showPolys = !m.showPolys
			m.status = fmt.Sprintf("polygons: %v", m.showPolys)
		case "+", "=":
			if m.zoom < 64 {
				m.zoom *= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "-", "_":
			if m.zoom > 0.05 {
				m.zoom /= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "tab":
			m.showSidebar = !m.showSidebar
			if m.showSidebar {
				m.refreshDir()
				m.l.SetSize(28-2, m.height-1-2)
			}
		case "p":
			m.pasteMode = !m.pasteMode
			if m.pasteMode {
				m.ta.SetValue("")
				m.status = "paste mode"
				m.ta.Focus()
			} else {
				m.status = "view mode"
				m.ta.Blur()
			}
		case "h":
			m.helpVisible = !m.helpVisible
		case "s":
			if m.mode == modeSummary {
				m.mode = modeMap
			} else {
				m.mode = modeSummary
				m.inspectPopup = ""
				m.refreshTable()
			}
		case "a":
			switch {
			case m.mode == modeAttrs:
				m.mode = modeMap
			case m.doc == nil || len(m.doc.Features) == 0:
				m.status = "no features loaded"
			default:
				m.mode = modeAttrs
				m.inspectPopup = ""
				m.refreshTable()
			}
		case "m", "esc":
			m.mode = modeMap
			m.inspectPopup = ""
		case "i":
			if f, p, ok := m.inspectNearest(); ok {
				meta := []string{
					"name: " + f.Name,
					"kind: " + string(f.Kind),
					fmt.Sprintf("vertices: %d", len(featurePoints(f))),
				}
				switch f.Kind {
				case geom.KindLineString, geom.KindMultiLineString:
					meta = append(meta, "length: "+geom.FormatLength(f.LengthKm)+" km")
				}
				meta = append(meta, fmt.Sprintf("nearest: lat=%.6f lon=%.6f", p.Lat(), p.Lon()))
				m.inspectPopup = strings.Join(meta, "\n")
				m.status = "inspect popup"
			} else {
				m.inspectPopup = ""
				m.status = "no feature nearby"
			}
		case "l":
			all := m.showPoints && m.showLines && m.showPolys
			m.showPoints = !all
			m.showLines = !all
			m.showPolys = !all
			m.status = fmt.Sprintf("layers: pts=%v ls=%v poly=%v", m.showPoints, m.showLines, m.showPolys)
		case "enter":
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(fileItem); ok {
					m.status = "loading: " + it.title
					return m, loadFile(it.path)
				}
			}
		case "up", "down":
			if m.mode != modeMap {
				var cmd tea.Cmd
				m.tbl, cmd = m.tbl.Update(msg)
				return m, cmd
			}
			if msg.String() == "up" {
				m.offsetY--
			} else {
				m.offsetY++
			}
		case "left":
			m.offsetX -= 2
		case "right":
			m.offsetX += 2
		}
	case tea.MouseMsg:
		m.trackHover(msg)
	}
	// Pass remaining messages to the list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

// trackHover follows the pointer over the map area and remembers the
// nearest vertex in micro coordinates. Layout math must match View.
func (m *Model) trackHover(msg tea.MouseMsg) {
	if m.mode != modeMap || m.doc == nil {
		m.hovering = false
		m.hoverHasGeo = false
		return
	}
	sidebarWidth := 0
	if m.showSidebar {
		sidebarWidth = 28
	}
	headerHeight := 1
	footerHeight := 2
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 4 {
		contentHeight = 4
	}
	contentWidth := max(10, m.width)

	mapWidth := contentWidth - sidebarWidth - 1
	if mapWidth < 10 {
		mapWidth = 10
	}
	mapHeight := contentHeight
	mapOriginX := sidebarWidth
	if m.showSidebar {
		mapOriginX++
	}
	mapOriginY := headerHeight

	cx, cy := msg.X, msg.Y
	if cx < mapOriginX || cx >= mapOriginX+mapWidth || cy < mapOriginY || cy >= mapOriginY+mapHeight {
		m.hovering = false
		return
	}
	m.hovering = true
	m.hoverCellX = cx - mapOriginX
	m.hoverCellY = cy - mapOriginY
	if lon, lat, ok := m.cellToLonLat(m.hoverCellX, m.hoverCellY, mapWidth, mapHeight); ok {
		m.hoverHasGeo = true
		m.hoverLon = lon
		m.hoverLat = lat
	} else {
		m.hoverHasGeo = false
	}

	bound, ok := m.viewBound()
	if !ok {
		return
	}
	hxMic := m.hoverCellX * 2
	hyMic := m.hoverCellY * 4
	best := 1<<31 - 1
	bx, by := hxMic, hyMic
	for _, f := range m.doc.Features {
		for _, p := range featurePoints(f) {
			mx, my := m.microXY(bound, p, mapWidth, mapHeight)
			dx := mx - hxMic
			dy := my - hyMic
			if d := dx*dx + dy*dy; d < best {
				best = d
				bx, by = mx, my
			}
		}
	}
	m.hoverMicX, m.hoverMicY = bx, by
}
