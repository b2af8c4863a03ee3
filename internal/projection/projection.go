// Package projection implements the forward map projections used to bind a
// drawing surface to a coordinate system.
//
// All projections work on a sphere of radius EarthRadius and return plane
// coordinates in metres. Longitudes passed to Project are relative to the
// projection's central meridian and are not normalised, which lets callers
// split geometries at the seam before projecting.
package projection

import (
	"fmt"
	"math"

	"github.com/golang/geo/s1"
	"github.com/paulmach/orb"
)

// EarthRadius is the radius of the reference sphere in metres.
const EarthRadius = 6378137.0

// Kind identifies a projection family.
type Kind int

const (
	KindEquirectangular Kind = iota
	KindMercator
	KindMollweide
	KindLambertConformal
	KindStereographic
	KindLambertAzimuthalEqualArea
	KindOrthographic
)

// String returns the canonical projection name.
func (k Kind) String() string {
	switch k {
	case KindEquirectangular:
		return "equirectangular"
	case KindMercator:
		return "mercator"
	case KindMollweide:
		return "mollweide"
	case KindLambertConformal:
		return "lambert-conformal"
	case KindStereographic:
		return "stereographic"
	case KindLambertAzimuthalEqualArea:
		return "lambert-azimuthal-equal-area"
	case KindOrthographic:
		return "orthographic"
	default:
		return "unknown"
	}
}

// Params holds the numeric projection parameters in degrees.
type Params struct {
	CentralLongitude  float64
	CentralLatitude   float64
	StandardParallels [2]float64 // Lambert conformal only
	Cutoff            float64    // Lambert conformal only
}

// Projection maps geographic coordinates onto the projected plane.
type Projection interface {
	// Kind reports the projection family.
	Kind() Kind

	// CentralLongitude returns the central meridian in degrees.
	CentralLongitude() float64

	// Forward projects an absolute (lon, lat) in degrees. visible is false
	// when the point lies outside the projection's domain; in that case the
	// returned coordinates are those of the nearest representable point.
	Forward(lon, lat float64) (x, y float64, visible bool)

	// Project projects a longitude relative to the central meridian.
	Project(dlon, lat float64) (x, y float64, visible bool)

	// Azimuthal reports whether the projection is centred on a point
	// rather than a meridian. Azimuthal projections have no seam.
	Azimuthal() bool

	// Bounds returns the projected envelope of the whole globe.
	Bounds() orb.Bound

	// Boundary returns the outline of the projected globe.
	Boundary() orb.Ring
}

// New creates a projection. Parameters must already be in their valid
// domain; New only rejects combinations the math cannot represent.
func New(kind Kind, p Params) (Projection, error) {
	switch kind {
	case KindEquirectangular, KindMercator:
		return newCylindrical(kind, p.CentralLongitude), nil
	case KindMollweide:
		return &mollweide{lon0: p.CentralLongitude}, nil
	case KindLambertConformal:
		return newLambertConformal(p)
	case KindStereographic, KindLambertAzimuthalEqualArea, KindOrthographic:
		return newAzimuthal(kind, p.CentralLongitude, p.CentralLatitude), nil
	default:
		return nil, fmt.Errorf("unsupported projection kind %d", kind)
	}
}

// RelativeLongitude returns lon - lon0 normalised to (-180, 180].
func RelativeLongitude(lon, lon0 float64) float64 {
	return (s1.Angle(lon-lon0) * s1.Degree).Normalized().Degrees()
}

func radians(deg float64) float64 {
	return (s1.Angle(deg) * s1.Degree).Radians()
}

// sampleBounds computes the projected envelope by projecting a lon/lat grid.
func sampleBounds(p Projection, latMin, latMax float64) orb.Bound {
	b := orb.Bound{Min: orb.Point{math.Inf(1), math.Inf(1)}, Max: orb.Point{math.Inf(-1), math.Inf(-1)}}
	for dlon := -180.0; dlon <= 180.0; dlon += 2 {
		for lat := latMin; lat <= latMax; lat += 1 {
			x, y, ok := p.Project(dlon, lat)
			if !ok || math.IsNaN(x) || math.IsNaN(y) {
				continue
			}
			b = b.Extend(orb.Point{x, y})
		}
	}
	return b
}

// seamBoundary walks the seam meridians and limiting parallels.
func seamBoundary(p Projection, latMin, latMax float64) orb.Ring {
	ring := make(orb.Ring, 0, 4*361)
	add := func(dlon, lat float64) {
		x, y, _ := p.Project(dlon, lat)
		ring = append(ring, orb.Point{x, y})
	}
	for lat := latMin; lat < latMax; lat++ {
		add(-180, lat)
	}
	for dlon := -180.0; dlon < 180; dlon++ {
		add(dlon, latMax)
	}
	for lat := latMax; lat > latMin; lat-- {
		add(180, lat)
	}
	for dlon := 180.0; dlon > -180; dlon-- {
		add(dlon, latMin)
	}
	ring = append(ring, ring[0])
	return ring
}
