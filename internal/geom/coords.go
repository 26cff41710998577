package geom

import (
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// parseCoordinates converts a KML coordinate string into validated points.
// KML tuples are "lon,lat[,alt]" separated by whitespace; altitude is
// ignored. Tuples with fewer than two comma fields, a failed float parse or
// a non-finite value are dropped silently. Order is preserved.
func parseCoordinates(s string) orb.LineString {
	var line orb.LineString
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		// ParseFloat accepts "NaN" and "Inf" as valid input
		if !finite(lon) || !finite(lat) {
			continue
		}
		line = append(line, orb.Point{lon, lat})
	}
	return line
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
