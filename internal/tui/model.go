package tui

import (
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"kmlview/internal/geom"
)

// viewMode selects what the main panel shows: the map canvas, the per-kind
// summary table, or the feature attribute table.
type viewMode int

const (
	modeMap viewMode = iota
	modeSummary
	modeAttrs
)

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool
	mode        viewMode

	zoom    float64
	offsetX int
	offsetY int

	status string

	// File explorer
	cwd     string
	l       list.Model
	selPath string

	// Parsed document; nil until the first successful load. A failed load
	// never touches it.
	doc *geom.Document

	// last rendered map size (for inspect)
	mapW int
	mapH int

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// layer visibility
	showPoints bool
	showLines  bool
	showPolys  bool

	// inspect popup
	inspectPopup string

	// hover state
	hovering    bool
	hoverCellX  int
	hoverCellY  int
	hoverMicX   int
	hoverMicY   int
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64

	// summary / attributes table
	tbl table.Model
}

func New() Model {
	m := Model{
		helpVisible: true,
		zoom:        1.0,
		status:      "kmlview ready",
		showPoints:  true,
		showLines:   true,
		showPolys:   true,
	}
	m.cwd, _ = os.Getwd()
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "KML files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste KML here. Press Enter to parse; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	// table setup (columns depend on the active view)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m
}

// NewWithPath loads a file before the program starts.
func NewWithPath(path string) Model {
	m := New()
	doc, err := geom.Load(path)
	m.ingest(fileLoadedMsg{path: path, doc: doc, err: err})
	return m
}

func (m Model) Init() tea.Cmd { return nil }
