package geom

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"
)

// KML schema subset. Only the elements the extractor reads are declared;
// encoding/xml skips the rest of the file.
type kmlRoot struct {
	XMLName    xml.Name       `xml:"kml"`
	Document   kmlDocument    `xml:"Document"`
	Folder     *kmlFolder     `xml:"Folder"`
	Placemarks []kmlPlacemark `xml:"Placemark"`
}

type kmlDocument struct {
	Name       string         `xml:"name"`
	Folders    []kmlFolder    `xml:"Folder"`
	Placemarks []kmlPlacemark `xml:"Placemark"`
}

type kmlFolder struct {
	Name       string         `xml:"name"`
	Folders    []kmlFolder    `xml:"Folder"`
	Placemarks []kmlPlacemark `xml:"Placemark"`
}

type kmlPlacemark struct {
	Name       string        `xml:"name"`
	Point      *kmlGeometry  `xml:"Point"`
	LineString *kmlGeometry  `xml:"LineString"`
	Polygon    *kmlPolygon   `xml:"Polygon"`
	MultiGeom  *kmlMultiGeom `xml:"MultiGeometry"`
}

type kmlGeometry struct {
	Coordinates string `xml:"coordinates"`
}

type kmlPolygon struct {
	OuterBoundary kmlBoundary `xml:"outerBoundaryIs"`
}

type kmlBoundary struct {
	LinearRing kmlGeometry `xml:"LinearRing"`
}

type kmlMultiGeom struct {
	LineStrings []kmlGeometry `xml:"LineString"`
}

// Parse extracts geometry features and per-kind tag counts from raw KML
// text. Malformed XML is the only error; a well-formed document with no
// placemarks parses to an empty Document. Placemarks are collected from the
// Document element, the root element, and any (nested) Folders.
func Parse(data []byte) (*Document, error) {
	var root kmlRoot
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse kml: %w", err)
	}

	placemarks := append([]kmlPlacemark{}, root.Placemarks...)
	placemarks = append(placemarks, root.Document.Placemarks...)
	for _, f := range root.Document.Folders {
		placemarks = append(placemarks, collectPlacemarks(f)...)
	}
	if root.Folder != nil {
		placemarks = append(placemarks, collectPlacemarks(*root.Folder)...)
	}

	doc := &Document{Summary: NewSummary()}
	for _, pm := range placemarks {
		doc.addPlacemark(pm)
	}
	return doc, nil
}

func collectPlacemarks(f kmlFolder) []kmlPlacemark {
	out := append([]kmlPlacemark{}, f.Placemarks...)
	for _, sub := range f.Folders {
		out = append(out, collectPlacemarks(sub)...)
	}
	return out
}

// addPlacemark runs the four geometry branches independently, so one
// placemark carrying several geometry tags is counted under each kind.
// Counts key off tag presence; feature creation needs usable coordinates
// (Point >=1, LineString >=2, Polygon outer ring >=3, MultiLineString >=1
// sub-line of >=2 each).
func (d *Document) addPlacemark(pm kmlPlacemark) {
	if pm.Point != nil {
		d.Summary[KindPoint]++
		if pts := parseCoordinates(pm.Point.Coordinates); len(pts) >= 1 {
			d.addFeature(Feature{
				Kind:     KindPoint,
				Name:     featureName(pm.Name, KindPoint),
				Geometry: pts[0],
			}, pts[:1])
		}
	}
	if pm.LineString != nil {
		d.Summary[KindLineString]++
		if pts := parseCoordinates(pm.LineString.Coordinates); len(pts) >= 2 {
			d.addFeature(Feature{
				Kind:     KindLineString,
				Name:     featureName(pm.Name, KindLineString),
				Geometry: pts,
				LengthKm: Length(pts),
			}, pts)
		}
	}
	if pm.Polygon != nil {
		d.Summary[KindPolygon]++
		if pts := parseCoordinates(pm.Polygon.OuterBoundary.LinearRing.Coordinates); len(pts) >= 3 {
			d.addFeature(Feature{
				Kind:     KindPolygon,
				Name:     featureName(pm.Name, KindPolygon),
				Geometry: orb.Polygon{orb.Ring(pts)},
			}, pts)
		}
	}
	if pm.MultiGeom != nil && len(pm.MultiGeom.LineStrings) > 0 {
		d.Summary[KindMultiLineString]++
		var ml orb.MultiLineString
		var all orb.LineString
		for _, ls := range pm.MultiGeom.LineStrings {
			if pts := parseCoordinates(ls.Coordinates); len(pts) >= 2 {
				ml = append(ml, pts)
				all = append(all, pts...)
			}
		}
		if len(ml) >= 1 {
			d.addFeature(Feature{
				Kind:     KindMultiLineString,
				Name:     featureName(pm.Name, KindMultiLineString),
				Geometry: ml,
				LengthKm: MultiLength(ml),
			}, all)
		}
	}
}

func (d *Document) addFeature(f Feature, pts orb.LineString) {
	d.Features = append(d.Features, f)
	for _, p := range pts {
		d.extend(p)
	}
}

// featureName falls back to the kind label when a placemark has no name tag.
func featureName(name string, kind Kind) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return string(kind)
}

// Load reads a .kml file, or a .kmz archive, and parses it.
func Load(path string) (*Document, error) {
	if strings.EqualFold(filepath.Ext(path), ".kmz") {
		return loadKMZ(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// loadKMZ unpacks a zipped KML: doc.kml if present, else the first .kml
// entry in the archive.
func loadKMZ(path string) (*Document, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open kmz: %w", err)
	}
	defer r.Close()

	var entry *zip.File
	for _, f := range r.File {
		name := strings.ToLower(f.Name)
		if name == "doc.kml" {
			entry = f
			break
		}
		if entry == nil && strings.HasSuffix(name, ".kml") {
			entry = f
		}
	}
	if entry == nil {
		return nil, errors.New("kmz: no kml entry found")
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("open kml in kmz: %w", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read kml in kmz: %w", err)
	}
	return Parse(data)
}
