package cartomap

import (
	"math"

	"github.com/paulmach/orb"
)

// Extent is a longitude/latitude rectangle expressed in a geographic
// frame.
//
// Frame must be an equirectangular projection; its central longitude
// offsets the longitude values. With Frame = Equirectangular(180), West=-10
// means 170°E. The zero Frame is Equirectangular(0).
//
// Example:
//
//	// North America, as plain longitudes and latitudes.
//	ext := cartomap.NewExtent(-140, -40, 15, 65)
type Extent struct {
	West, East   float64
	South, North float64
	Frame        ProjectionSpec
}

// NewExtent returns an extent in the plain geographic frame.
func NewExtent(west, east, south, north float64) Extent {
	return Extent{West: west, East: east, South: south, North: north}
}

// Validate checks the extent invariants: finite values, west < east,
// south < north, latitudes within [-90, 90], a longitude span of at most
// 360° and an equirectangular frame.
func (e Extent) Validate() error {
	fail := func(reason string) error {
		return &ErrInvalidExtent{West: e.West, East: e.East, South: e.South, North: e.North, Reason: reason}
	}

	for _, v := range []float64{e.West, e.East, e.South, e.North} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fail("coordinates must be finite")
		}
	}
	if e.South < -90 || e.South > 90 || e.North < -90 || e.North > 90 {
		return fail("latitudes must be within [-90, 90]")
	}
	if e.South >= e.North {
		return fail("south must be less than north")
	}
	if e.West >= e.East {
		return fail("west must be less than east")
	}
	if e.East-e.West > 360 {
		return fail("longitude span exceeds 360°")
	}
	if e.West < -540 || e.East > 540 {
		return fail("longitudes must be within [-540, 540]")
	}
	if e.Frame.Name() != ProjEquirectangular {
		return fail("frame must be equirectangular, got " + string(e.Frame.Name()))
	}
	if err := e.Frame.Validate(); err != nil {
		return fail("frame: " + err.Error())
	}
	return nil
}

// Geographic returns the extent in plain longitudes, shifting by the frame's
// central longitude. West is normalised to [-180, 180); East keeps the
// original span and may exceed 180.
func (e Extent) Geographic() (west, east, south, north float64) {
	span := e.East - e.West
	west = math.Mod(e.West+e.Frame.CentralLongitude()+180, 360)
	if west < 0 {
		west += 360
	}
	west -= 180
	return west, west + span, e.South, e.North
}

// Span returns the longitude and latitude extents in degrees.
func (e Extent) Span() (lon, lat float64) {
	return e.East - e.West, e.North - e.South
}

// Global reports whether the extent covers every longitude.
func (e Extent) Global() bool {
	return e.East-e.West >= 360
}

// queryBounds returns the geographic rectangles covering the extent,
// split at the antimeridian.
func (e Extent) queryBounds() []orb.Bound {
	west, east, south, north := e.Geographic()
	if e.Global() {
		return []orb.Bound{{Min: orb.Point{-180, south}, Max: orb.Point{180, north}}}
	}
	if east <= 180 {
		return []orb.Bound{{Min: orb.Point{west, south}, Max: orb.Point{east, north}}}
	}
	return []orb.Bound{
		{Min: orb.Point{west, south}, Max: orb.Point{180, north}},
		{Min: orb.Point{-180, south}, Max: orb.Point{east - 360, north}},
	}
}

// Equal reports whether two extents describe the same rectangle in the same
// frame.
func (e Extent) Equal(other Extent) bool {
	return e.West == other.West && e.East == other.East &&
		e.South == other.South && e.North == other.North &&
		e.Frame.Equal(other.Frame)
}
