package projection

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// lambertConformal is the spherical Lambert conformal conic projection.
//
// Latitudes beyond the cutoff (towards the far pole) are clamped to the
// cutoff parallel and reported as not visible.
type lambertConformal struct {
	lon0   float64
	n      float64
	f      float64
	rho0   float64
	cutoff float64
	bounds orb.Bound
}

// poleEpsilon keeps tan(π/4 + φ/2) finite at the poles.
const poleEpsilon = 1e-7

func newLambertConformal(p Params) (*lambertConformal, error) {
	phi1 := radians(p.StandardParallels[0])
	phi2 := radians(p.StandardParallels[1])

	var n float64
	if math.Abs(phi1-phi2) < 1e-10 {
		n = math.Sin(phi1)
	} else {
		n = math.Log(math.Cos(phi1)/math.Cos(phi2)) /
			math.Log(math.Tan(math.Pi/4+phi2/2)/math.Tan(math.Pi/4+phi1/2))
	}
	if math.Abs(n) < 1e-10 || math.IsNaN(n) {
		return nil, fmt.Errorf("standard parallels %v produce a degenerate cone", p.StandardParallels)
	}

	l := &lambertConformal{
		lon0:   p.CentralLongitude,
		n:      n,
		cutoff: p.Cutoff,
	}
	l.f = math.Cos(phi1) * math.Pow(math.Tan(math.Pi/4+phi1/2), n) / n
	l.rho0 = l.rho(radians(p.CentralLatitude))
	l.bounds = sampleBounds(l, -90, 90)
	return l, nil
}

func (l *lambertConformal) rho(phi float64) float64 {
	limit := math.Pi/2 - poleEpsilon
	if phi > limit {
		phi = limit
	} else if phi < -limit {
		phi = -limit
	}
	return EarthRadius * l.f / math.Pow(math.Tan(math.Pi/4+phi/2), l.n)
}

func (l *lambertConformal) Kind() Kind               { return KindLambertConformal }
func (l *lambertConformal) CentralLongitude() float64 { return l.lon0 }
func (l *lambertConformal) Azimuthal() bool           { return false }

func (l *lambertConformal) Forward(lon, lat float64) (float64, float64, bool) {
	return l.Project(RelativeLongitude(lon, l.lon0), lat)
}

func (l *lambertConformal) Project(dlon, lat float64) (float64, float64, bool) {
	visible := true
	if l.n > 0 && lat < l.cutoff {
		lat, visible = l.cutoff, false
	} else if l.n < 0 && lat > l.cutoff {
		lat, visible = l.cutoff, false
	}
	rho := l.rho(radians(lat))
	theta := l.n * radians(dlon)
	return rho * math.Sin(theta), l.rho0 - rho*math.Cos(theta), visible
}

func (l *lambertConformal) latLimits() (float64, float64) {
	if l.n > 0 {
		return l.cutoff, 90
	}
	return -90, l.cutoff
}

func (l *lambertConformal) Bounds() orb.Bound {
	return l.bounds
}

func (l *lambertConformal) Boundary() orb.Ring {
	latMin, latMax := l.latLimits()
	return seamBoundary(l, latMin, latMax)
}
