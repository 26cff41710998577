package tui

import (
	"strconv"

	table "github.com/charmbracelet/bubbles/table"

	"kmlview/internal/geom"
)

// refreshTable rebuilds the table for the active view mode.
func (m *Model) refreshTable() {
	switch m.mode {
	case modeSummary:
		m.setSummaryTable()
	case modeAttrs:
		m.setAttrsTable()
	}
}

// setSummaryTable shows per-kind placemark counts. Every kind gets a row in
// fixed order, zeros included.
func (m *Model) setSummaryTable() {
	cols := []table.Column{
		{Title: "Geometry", Width: 16},
		{Title: "Count", Width: 7},
	}
	rows := make([]table.Row, 0, len(geom.Kinds))
	for _, k := range geom.Kinds {
		n := 0
		if m.doc != nil {
			n = m.doc.Summary[k]
		}
		rows = append(rows, table.Row{string(k), strconv.Itoa(n)})
	}
	// clear rows first so columns and rows never disagree mid-update
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cols)
	m.tbl.SetRows(rows)
}

// setAttrsTable lists every extracted feature with its derived attributes.
func (m *Model) setAttrsTable() {
	cols := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Name", Width: 24},
		{Title: "Kind", Width: 16},
		{Title: "Vertices", Width: 9},
		{Title: "Length (km)", Width: 12},
	}
	var rows []table.Row
	if m.doc != nil {
		rows = make([]table.Row, 0, len(m.doc.Features))
		for i, f := range m.doc.Features {
			length := ""
			switch f.Kind {
			case geom.KindLineString, geom.KindMultiLineString:
				length = geom.FormatLength(f.LengthKm)
			}
			rows = append(rows, table.Row{
				strconv.Itoa(i + 1),
				f.Name,
				string(f.Kind),
				strconv.Itoa(len(featurePoints(f))),
				length,
			})
		}
	}
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cols)
	m.tbl.SetRows(rows)
}
