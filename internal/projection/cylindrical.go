package projection

import (
	"math"

	"github.com/paulmach/orb"
)

// Mercator latitude limits. The poles project to infinity, so the map is
// cut at these parallels.
const (
	MercatorMinLatitude = -80.0
	MercatorMaxLatitude = 84.0
)

type cylindrical struct {
	kind Kind
	lon0 float64
}

func newCylindrical(kind Kind, lon0 float64) *cylindrical {
	return &cylindrical{kind: kind, lon0: lon0}
}

func (c *cylindrical) Kind() Kind               { return c.kind }
func (c *cylindrical) CentralLongitude() float64 { return c.lon0 }
func (c *cylindrical) Azimuthal() bool           { return false }

func (c *cylindrical) Forward(lon, lat float64) (float64, float64, bool) {
	return c.Project(RelativeLongitude(lon, c.lon0), lat)
}

func (c *cylindrical) Project(dlon, lat float64) (float64, float64, bool) {
	x := EarthRadius * radians(dlon)
	if c.kind == KindEquirectangular {
		return x, EarthRadius * radians(lat), lat >= -90 && lat <= 90
	}

	visible := true
	if lat < MercatorMinLatitude {
		lat, visible = MercatorMinLatitude, false
	} else if lat > MercatorMaxLatitude {
		lat, visible = MercatorMaxLatitude, false
	}
	y := EarthRadius * math.Log(math.Tan(math.Pi/4+radians(lat)/2))
	return x, y, visible
}

func (c *cylindrical) latLimits() (float64, float64) {
	if c.kind == KindMercator {
		return MercatorMinLatitude, MercatorMaxLatitude
	}
	return -90, 90
}

func (c *cylindrical) Bounds() orb.Bound {
	latMin, latMax := c.latLimits()
	minX, minY, _ := c.Project(-180, latMin)
	maxX, maxY, _ := c.Project(180, latMax)
	return orb.Bound{Min: orb.Point{minX, minY}, Max: orb.Point{maxX, maxY}}
}

func (c *cylindrical) Boundary() orb.Ring {
	b := c.Bounds()
	return orb.Ring{
		{b.Min[0], b.Min[1]},
		{b.Max[0], b.Min[1]},
		{b.Max[0], b.Max[1]},
		{b.Min[0], b.Max[1]},
		{b.Min[0], b.Min[1]},
	}
}

// mollweide is the equal-area pseudo-cylindrical projection.
type mollweide struct {
	lon0 float64
}

func (m *mollweide) Kind() Kind               { return KindMollweide }
func (m *mollweide) CentralLongitude() float64 { return m.lon0 }
func (m *mollweide) Azimuthal() bool           { return false }

func (m *mollweide) Forward(lon, lat float64) (float64, float64, bool) {
	return m.Project(RelativeLongitude(lon, m.lon0), lat)
}

func (m *mollweide) Project(dlon, lat float64) (float64, float64, bool) {
	theta := mollweideTheta(radians(lat))
	x := EarthRadius * 2 * math.Sqrt2 / math.Pi * radians(dlon) * math.Cos(theta)
	y := EarthRadius * math.Sqrt2 * math.Sin(theta)
	return x, y, true
}

// mollweideTheta solves 2θ + sin 2θ = π sin φ with Newton's method.
func mollweideTheta(phi float64) float64 {
	if math.Abs(math.Abs(phi)-math.Pi/2) < 1e-10 {
		return phi
	}
	theta := phi
	target := math.Pi * math.Sin(phi)
	for i := 0; i < 50; i++ {
		f := 2*theta + math.Sin(2*theta) - target
		d := 2 + 2*math.Cos(2*theta)
		if d == 0 {
			break
		}
		step := f / d
		theta -= step
		if math.Abs(step) < 1e-12 {
			break
		}
	}
	return theta
}

func (m *mollweide) Bounds() orb.Bound {
	return orb.Bound{
		Min: orb.Point{-2 * math.Sqrt2 * EarthRadius, -math.Sqrt2 * EarthRadius},
		Max: orb.Point{2 * math.Sqrt2 * EarthRadius, math.Sqrt2 * EarthRadius},
	}
}

func (m *mollweide) Boundary() orb.Ring {
	return seamBoundary(m, -90, 90)
}
