package projection

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// azimuthal covers the stereographic, Lambert azimuthal equal-area and
// orthographic projections. Points farther from the centre than the
// projection's horizon are moved onto the horizon along their great circle
// and reported as not visible, which keeps filled rings closed.
type azimuthal struct {
	kind    Kind
	lon0    float64
	lat0    float64
	center  s2.Point
	horizon s1.Angle
	sinLat0 float64
	cosLat0 float64
	bounds  orb.Bound
}

func newAzimuthal(kind Kind, lon0, lat0 float64) *azimuthal {
	a := &azimuthal{
		kind:    kind,
		lon0:    lon0,
		lat0:    lat0,
		center:  s2.PointFromLatLng(s2.LatLngFromDegrees(lat0, lon0)),
		sinLat0: math.Sin(radians(lat0)),
		cosLat0: math.Cos(radians(lat0)),
	}
	switch kind {
	case KindLambertAzimuthalEqualArea:
		a.horizon = 179.5 * s1.Degree
	default:
		a.horizon = 90 * s1.Degree
	}

	r := a.horizonRadius()
	a.bounds = orb.Bound{Min: orb.Point{-r, -r}, Max: orb.Point{r, r}}
	return a
}

func (a *azimuthal) Kind() Kind               { return a.kind }
func (a *azimuthal) CentralLongitude() float64 { return a.lon0 }
func (a *azimuthal) Azimuthal() bool           { return true }

func (a *azimuthal) Forward(lon, lat float64) (float64, float64, bool) {
	return a.Project(RelativeLongitude(lon, a.lon0), lat)
}

func (a *azimuthal) Project(dlon, lat float64) (float64, float64, bool) {
	p := s2.PointFromLatLng(s2.LatLngFromDegrees(lat, a.lon0+dlon))
	visible := true
	if a.center.Distance(p) > a.horizon {
		p = a.clampToHorizon(p)
		visible = false
	}
	ll := s2.LatLngFromPoint(p)
	x, y := a.plane(ll.Lng.Radians()-radians(a.lon0), ll.Lat.Radians())
	return x, y, visible
}

// plane applies the projection formula for an angular offset from the
// central meridian and a latitude, both in radians.
func (a *azimuthal) plane(dlam, phi float64) (float64, float64) {
	sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
	cosDlam := math.Cos(dlam)
	cosC := a.sinLat0*sinPhi + a.cosLat0*cosPhi*cosDlam

	var k float64
	switch a.kind {
	case KindStereographic:
		k = 2 / (1 + cosC)
	case KindLambertAzimuthalEqualArea:
		k = math.Sqrt(2 / (1 + cosC))
	default:
		k = 1
	}
	x := EarthRadius * k * cosPhi * math.Sin(dlam)
	y := EarthRadius * k * (a.cosLat0*sinPhi - a.sinLat0*cosPhi*cosDlam)
	return x, y
}

// clampToHorizon moves p along the great circle through the centre until
// it sits on the horizon.
func (a *azimuthal) clampToHorizon(p s2.Point) s2.Point {
	c := a.center.Vector
	d := p.Vector.Sub(c.Mul(p.Vector.Dot(c)))
	if d.Norm() < 1e-12 {
		d = c.Ortho()
	}
	d = d.Normalize()
	h := a.horizon.Radians()
	return s2.Point{Vector: c.Mul(math.Cos(h)).Add(d.Mul(math.Sin(h)))}
}

// horizonRadius is the projected distance of the horizon from the centre.
func (a *azimuthal) horizonRadius() float64 {
	c := a.horizon.Radians()
	switch a.kind {
	case KindStereographic:
		return 2 * EarthRadius * math.Tan(c/2)
	case KindLambertAzimuthalEqualArea:
		return 2 * EarthRadius * math.Sin(c/2)
	default:
		return EarthRadius * math.Sin(c)
	}
}

func (a *azimuthal) Bounds() orb.Bound {
	return a.bounds
}

// Boundary returns the horizon circle.
func (a *azimuthal) Boundary() orb.Ring {
	north := r3.Vector{X: 0, Y: 0, Z: 1}
	c := a.center.Vector
	n := north.Sub(c.Mul(north.Dot(c)))
	if n.Norm() < 1e-12 {
		n = c.Ortho()
	}
	n = n.Normalize()
	e := n.Cross(c).Normalize()

	h := a.horizon.Radians()
	ring := make(orb.Ring, 0, 181)
	for deg := 0; deg <= 360; deg += 2 {
		b := radians(float64(deg))
		dir := n.Mul(math.Cos(b)).Add(e.Mul(math.Sin(b)))
		q := s2.Point{Vector: c.Mul(math.Cos(h)).Add(dir.Mul(math.Sin(h)))}
		ll := s2.LatLngFromPoint(q)
		x, y := a.plane(ll.Lng.Radians()-radians(a.lon0), ll.Lat.Radians())
		ring = append(ring, orb.Point{x, y})
	}
	ring[len(ring)-1] = ring[0]
	return ring
}
