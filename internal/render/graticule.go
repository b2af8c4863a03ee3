package render

import (
	"math"
	"strconv"

	"github.com/paulmach/orb"
)

// niceSpacings are the candidate grid spacings in degrees.
var niceSpacings = []float64{1, 2, 5, 10, 15, 20, 30, 45, 60}

// AutoSpacing picks a grid spacing giving a handful of lines across span.
func AutoSpacing(span float64) float64 {
	for _, s := range niceSpacings {
		if span/s <= 8 {
			return s
		}
	}
	return niceSpacings[len(niceSpacings)-1]
}

// Locations returns the multiples of spacing within [lo, hi].
func Locations(lo, hi, spacing float64) []float64 {
	if spacing <= 0 || hi < lo {
		return nil
	}
	var locs []float64
	for v := math.Ceil(lo/spacing) * spacing; v <= hi+1e-9; v += spacing {
		locs = append(locs, v)
	}
	return locs
}

// Meridian returns a geographic line along lon from south to north.
func Meridian(lon, south, north float64) orb.LineString {
	return orb.LineString{{lon, south}, {lon, north}}
}

// Parallel returns a geographic line along lat from west to east. Vertices
// are at most 90° apart so that seam unwrapping keeps the line whole.
func Parallel(lat, west, east float64) orb.LineString {
	n := max(int(math.Ceil((east-west)/90)), 1)
	ls := make(orb.LineString, 0, n+1)
	for i := 0; i <= n; i++ {
		ls = append(ls, orb.Point{west + (east-west)*float64(i)/float64(n), lat})
	}
	return ls
}

// LongitudeLabel formats a longitude as 120°W, 0° or 30°E.
func LongitudeLabel(lon float64) string {
	lon = math.Mod(lon, 360)
	if lon > 180 {
		lon -= 360
	} else if lon <= -180 {
		lon += 360
	}
	switch {
	case nearlyZero(lon):
		return "0°"
	case nearlyZero(math.Abs(lon) - 180):
		return "180°"
	case lon < 0:
		return formatDegrees(-lon) + "°W"
	default:
		return formatDegrees(lon) + "°E"
	}
}

// LatitudeLabel formats a latitude as 30°S, 0° or 60°N.
func LatitudeLabel(lat float64) string {
	switch {
	case nearlyZero(lat):
		return "0°"
	case lat < 0:
		return formatDegrees(-lat) + "°S"
	default:
		return formatDegrees(lat) + "°N"
	}
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func nearlyZero(v float64) bool {
	return math.Abs(v) < 1e-9
}
