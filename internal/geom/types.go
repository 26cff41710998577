package geom

import "github.com/paulmach/orb"

// Kind labels the geometry variants a placemark can carry.
type Kind string

const (
	KindPoint           Kind = "Point"
	KindLineString      Kind = "LineString"
	KindPolygon         Kind = "Polygon"
	KindMultiLineString Kind = "MultiLineString"
)

// Kinds is the fixed display order for summaries.
var Kinds = []Kind{KindPoint, KindLineString, KindPolygon, KindMultiLineString}

// Feature is one typed geometry record extracted from a placemark. A single
// placemark carrying several geometry tags yields one feature per tag.
type Feature struct {
	Kind Kind
	Name string

	// Geometry is orb.Point, orb.LineString, orb.Polygon or
	// orb.MultiLineString depending on Kind.
	Geometry orb.Geometry

	// LengthKm is the great-circle path length for LineString and
	// MultiLineString features; zero for the other kinds. Kept numeric so
	// multi-line subtotals sum without string round-trips; format with
	// FormatLength for display.
	LengthKm float64
}

// Summary counts placemark geometry tags by kind. All four kinds are always
// present. A tag is counted even when its coordinates turn out unusable, so
// counts track tags seen, not features produced.
type Summary map[Kind]int

func NewSummary() Summary {
	s := make(Summary, len(Kinds))
	for _, k := range Kinds {
		s[k] = 0
	}
	return s
}

// Document is one parsed KML file.
type Document struct {
	Features []Feature
	Summary  Summary

	// Bound covers every vertex of every feature; only meaningful when
	// HasBound is set (a document can have counts but no usable vertices).
	Bound    orb.Bound
	HasBound bool
}

func (d *Document) extend(p orb.Point) {
	if !d.HasBound {
		d.Bound = orb.Bound{Min: p, Max: p}
		d.HasBound = true
		return
	}
	d.Bound = d.Bound.Extend(p)
}
