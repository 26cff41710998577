package geom

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoordinates(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want orb.LineString
	}{
		{name: "empty", in: "", want: nil},
		{name: "blank", in: "  \n\t ", want: nil},
		{name: "single tuple with altitude", in: "1,2,0", want: orb.LineString{{1, 2}}},
		{name: "multiple tuples keep order", in: "10,20 30,40 50,60", want: orb.LineString{{10, 20}, {30, 40}, {50, 60}}},
		{name: "newline separated", in: "10,20\n30,40", want: orb.LineString{{10, 20}, {30, 40}}},
		{name: "missing comma dropped", in: "10,20 3040 50,60", want: orb.LineString{{10, 20}, {50, 60}}},
		{name: "non-numeric dropped", in: "abc,def 1,2", want: orb.LineString{{1, 2}}},
		{name: "nan dropped", in: "NaN,5 5,NaN 1,1", want: orb.LineString{{1, 1}}},
		{name: "inf dropped", in: "Inf,0 0,-Inf 2,3", want: orb.LineString{{2, 3}}},
		{name: "negative coordinates", in: "-122.4,37.8,12", want: orb.LineString{{-122.4, 37.8}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseCoordinates(tt.in))
		})
	}
}

// KML stores lon before lat; accessors expose the conventional order.
func TestParseCoordinatesAxisOrder(t *testing.T) {
	pts := parseCoordinates("1,2,0")
	require.Len(t, pts, 1)
	assert.Equal(t, 2.0, pts[0].Lat())
	assert.Equal(t, 1.0, pts[0].Lon())
}
