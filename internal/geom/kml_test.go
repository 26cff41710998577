package geom

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pointKML = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <Placemark>
      <Point><coordinates>1,2,0</coordinates></Point>
    </Placemark>
  </Document>
</kml>`

func TestParsePointPlacemark(t *testing.T) {
	doc, err := Parse([]byte(pointKML))
	require.NoError(t, err)

	require.Len(t, doc.Features, 1)
	f := doc.Features[0]
	assert.Equal(t, KindPoint, f.Kind)
	assert.Equal(t, "Point", f.Name) // no name tag, kind label wins

	pt, ok := f.Geometry.(orb.Point)
	require.True(t, ok)
	assert.Equal(t, 2.0, pt.Lat())
	assert.Equal(t, 1.0, pt.Lon())

	assert.Equal(t, Summary{KindPoint: 1, KindLineString: 0, KindPolygon: 0, KindMultiLineString: 0}, doc.Summary)
}

func TestParseLineStringDropsMalformedTuple(t *testing.T) {
	kml := `<kml><Document>
	  <Placemark>
	    <name>track</name>
	    <LineString><coordinates>0,0 1,0 10 2,0</coordinates></LineString>
	  </Placemark>
	</Document></kml>`

	doc, err := Parse([]byte(kml))
	require.NoError(t, err)
	require.Len(t, doc.Features, 1)

	f := doc.Features[0]
	assert.Equal(t, KindLineString, f.Kind)
	assert.Equal(t, "track", f.Name)

	line, ok := f.Geometry.(orb.LineString)
	require.True(t, ok)
	require.Len(t, line, 3) // the "10" tuple is gone
	assert.InDelta(t, Length(line), f.LengthKm, 1e-9)
	assert.InDelta(t, 2*111.19, f.LengthKm, 0.02)
}

func TestParseMalformedXML(t *testing.T) {
	doc, err := Parse([]byte("<kml><Document><Placemark>"))
	assert.Error(t, err)
	assert.Nil(t, doc)
}

func TestParseNoPlacemarks(t *testing.T) {
	doc, err := Parse([]byte(`<kml><Document><name>empty</name></Document></kml>`))
	require.NoError(t, err)
	assert.Empty(t, doc.Features)
	assert.False(t, doc.HasBound)
	for _, k := range Kinds {
		assert.Equal(t, 0, doc.Summary[k])
	}
}

// A geometry tag counts toward the summary even when none of its
// coordinates are usable; only feature creation is gated.
func TestParseCountsUnusablePlacemark(t *testing.T) {
	kml := `<kml><Document>
	  <Placemark><Point><coordinates>garbage</coordinates></Point></Placemark>
	  <Placemark><LineString><coordinates>1,1</coordinates></LineString></Placemark>
	  <Placemark><Polygon><outerBoundaryIs><LinearRing><coordinates>0,0 1,1</coordinates></LinearRing></outerBoundaryIs></Polygon></Placemark>
	</Document></kml>`

	doc, err := Parse([]byte(kml))
	require.NoError(t, err)
	assert.Empty(t, doc.Features)
	assert.Equal(t, 1, doc.Summary[KindPoint])
	assert.Equal(t, 1, doc.Summary[KindLineString])
	assert.Equal(t, 1, doc.Summary[KindPolygon])
}

// One placemark with several geometry tags fires every matching branch.
func TestParseMultipleKindsPerPlacemark(t *testing.T) {
	kml := `<kml><Document>
	  <Placemark>
	    <name>both</name>
	    <Point><coordinates>5,5</coordinates></Point>
	    <LineString><coordinates>0,0 1,0</coordinates></LineString>
	  </Placemark>
	</Document></kml>`

	doc, err := Parse([]byte(kml))
	require.NoError(t, err)
	require.Len(t, doc.Features, 2)
	assert.Equal(t, KindPoint, doc.Features[0].Kind)
	assert.Equal(t, KindLineString, doc.Features[1].Kind)
	assert.Equal(t, "both", doc.Features[0].Name)
	assert.Equal(t, 1, doc.Summary[KindPoint])
	assert.Equal(t, 1, doc.Summary[KindLineString])
}

func TestParsePolygon(t *testing.T) {
	kml := `<kml><Document>
	  <Placemark>
	    <Polygon><outerBoundaryIs><LinearRing>
	      <coordinates>0,0 1,0 1,1 0,1 0,0</coordinates>
	    </LinearRing></outerBoundaryIs></Polygon>
	  </Placemark>
	</Document></kml>`

	doc, err := Parse([]byte(kml))
	require.NoError(t, err)
	require.Len(t, doc.Features, 1)

	f := doc.Features[0]
	assert.Equal(t, KindPolygon, f.Kind)
	assert.Equal(t, "Polygon", f.Name)
	poly, ok := f.Geometry.(orb.Polygon)
	require.True(t, ok)
	require.Len(t, poly, 1)
	assert.Len(t, poly[0], 5)
	assert.Equal(t, 0.0, f.LengthKm)
}

func TestParseMultiGeometry(t *testing.T) {
	kml := `<kml><Document>
	  <Placemark>
	    <MultiGeometry>
	      <LineString><coordinates>0,0 1,0</coordinates></LineString>
	      <LineString><coordinates>0,1 1,1 2,1</coordinates></LineString>
	      <LineString><coordinates>9,9</coordinates></LineString>
	    </MultiGeometry>
	  </Placemark>
	</Document></kml>`

	doc, err := Parse([]byte(kml))
	require.NoError(t, err)
	require.Len(t, doc.Features, 1)

	f := doc.Features[0]
	assert.Equal(t, KindMultiLineString, f.Kind)
	assert.Equal(t, "MultiLineString", f.Name)

	ml, ok := f.Geometry.(orb.MultiLineString)
	require.True(t, ok)
	require.Len(t, ml, 2) // the single-point sub-line is gated out
	assert.InDelta(t, Length(ml[0])+Length(ml[1]), f.LengthKm, 1e-9)
	assert.Equal(t, 1, doc.Summary[KindMultiLineString])
}

func TestParseCollectsFolderPlacemarks(t *testing.T) {
	kml := `<kml>
	  <Placemark><Point><coordinates>0,0</coordinates></Point></Placemark>
	  <Document>
	    <Folder>
	      <Folder>
	        <Placemark><Point><coordinates>1,1</coordinates></Point></Placemark>
	      </Folder>
	    </Folder>
	  </Document>
	</kml>`

	doc, err := Parse([]byte(kml))
	require.NoError(t, err)
	assert.Len(t, doc.Features, 2)
	assert.Equal(t, 2, doc.Summary[KindPoint])
}

func TestParseTracksBound(t *testing.T) {
	kml := `<kml><Document>
	  <Placemark><LineString><coordinates>-1,-2 3,4</coordinates></LineString></Placemark>
	</Document></kml>`

	doc, err := Parse([]byte(kml))
	require.NoError(t, err)
	require.True(t, doc.HasBound)
	assert.Equal(t, orb.Point{-1, -2}, doc.Bound.Min)
	assert.Equal(t, orb.Point{3, 4}, doc.Bound.Max)
}

func TestLoadKML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.kml")
	require.NoError(t, os.WriteFile(path, []byte(pointKML), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, doc.Features, 1)
}

func TestLoadKMZ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.kmz")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("doc.kml")
	require.NoError(t, err)
	_, err = w.Write([]byte(pointKML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, doc.Features, 1)
	assert.Equal(t, 1, doc.Summary[KindPoint])
}

func TestLoadKMZWithoutKMLEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "b.kmz")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	_, err = zw.Create("readme.txt")
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	_, err = Load(path)
	assert.Error(t, err)
}
