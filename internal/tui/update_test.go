package tui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kmlview/internal/geom"
)

const pointKML = `<kml><Document>
  <Placemark><Point><coordinates>1,2,0</coordinates></Point></Placemark>
</Document></kml>`

const lineKML = `<kml><Document>
  <Placemark><LineString><coordinates>0,0 1,0</coordinates></LineString></Placemark>
</Document></kml>`

func mustParse(t *testing.T, kml string) *geom.Document {
	t.Helper()
	doc, err := geom.Parse([]byte(kml))
	require.NoError(t, err)
	return doc
}

// A failed load must not disturb the currently loaded document.
func TestIngestKeepsStateOnError(t *testing.T) {
	m := New()
	doc := mustParse(t, pointKML)
	m.ingest(fileLoadedMsg{path: "a.kml", doc: doc})
	require.Same(t, doc, m.doc)

	m.ingest(fileLoadedMsg{path: "b.kml", err: errors.New("parse kml: unexpected EOF")})
	assert.Same(t, doc, m.doc)
	assert.Equal(t, "a.kml", m.selPath)
	assert.Contains(t, m.status, "load error")
}

// Overlapping loads resolve last-write-wins: whichever result message is
// applied last owns the session.
func TestIngestLastWriteWins(t *testing.T) {
	m := New()
	first := mustParse(t, pointKML)
	second := mustParse(t, lineKML)

	m.ingest(fileLoadedMsg{path: "first.kml", doc: first})
	m.ingest(fileLoadedMsg{path: "second.kml", doc: second})

	assert.Same(t, second, m.doc)
	assert.Equal(t, "second.kml", m.selPath)
}

func TestSummaryTableAlwaysListsAllKinds(t *testing.T) {
	m := New()
	m.mode = modeSummary
	m.refreshTable()

	rows := m.tbl.Rows()
	require.Len(t, rows, 4)
	assert.Equal(t, "Point", rows[0][0])
	assert.Equal(t, "0", rows[0][1])
	assert.Equal(t, "MultiLineString", rows[3][0])
	assert.Equal(t, "0", rows[3][1])
}

func TestSummaryTableReflectsDocument(t *testing.T) {
	m := New()
	m.ingest(fileLoadedMsg{path: "a.kml", doc: mustParse(t, pointKML)})
	m.mode = modeSummary
	m.refreshTable()

	rows := m.tbl.Rows()
	require.Len(t, rows, 4)
	assert.Equal(t, "1", rows[0][1]) // Point
	assert.Equal(t, "0", rows[1][1]) // LineString
}

func TestAttrsTableShowsLengthForLines(t *testing.T) {
	m := New()
	m.ingest(fileLoadedMsg{path: "a.kml", doc: mustParse(t, lineKML)})
	m.mode = modeAttrs
	m.refreshTable()

	rows := m.tbl.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "LineString", rows[0][2])
	assert.Equal(t, "2", rows[0][3])
	assert.Equal(t, "111.19", rows[0][4])
}
