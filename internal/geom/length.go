package geom

import (
	"math"
	"strconv"

	"github.com/paulmach/orb"
)

// earthRadiusKm is the spherical earth radius used for path lengths.
const earthRadiusKm = 6371.0

// Length returns the great-circle length of a path in kilometers. Fewer
// than two points yields 0. A segment with a non-finite endpoint
// contributes nothing; the remaining segments still count.
func Length(line orb.LineString) float64 {
	if len(line) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(line); i++ {
		a, b := line[i-1], line[i]
		if !finite(a.Lon()) || !finite(a.Lat()) || !finite(b.Lon()) || !finite(b.Lat()) {
			continue
		}
		total += haversineKm(a, b)
	}
	return total
}

// MultiLength sums the lengths of every sub-line. Subtotals stay numeric;
// rounding happens once, on the combined value, at format time.
func MultiLength(ml orb.MultiLineString) float64 {
	var total float64
	for _, line := range ml {
		total += Length(line)
	}
	return total
}

// FormatLength renders a length in kilometers with exactly two decimals.
func FormatLength(km float64) string {
	return strconv.FormatFloat(km, 'f', 2, 64)
}

// haversineKm is the great-circle distance in kilometers between two
// lon/lat points on a sphere of radius earthRadiusKm.
func haversineKm(a, b orb.Point) float64 {
	lat1 := a.Lat() * math.Pi / 180
	lat2 := b.Lat() * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Lon() - a.Lon()) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}
