package projection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-3 // metres

func mustNew(t *testing.T, kind Kind, p Params) Projection {
	t.Helper()
	proj, err := New(kind, p)
	require.NoError(t, err)
	return proj
}

func TestRelativeLongitude(t *testing.T) {
	tests := []struct {
		lon, lon0, want float64
	}{
		{0, 0, 0},
		{10, -75, 85},
		{-170, 170, 20},
		{170, -170, -20},
		{180, 0, 180},
		{-180, 0, 180},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, RelativeLongitude(tt.lon, tt.lon0), 1e-9, "lon=%v lon0=%v", tt.lon, tt.lon0)
	}
}

func TestEquirectangular(t *testing.T) {
	p := mustNew(t, KindEquirectangular, Params{CentralLongitude: -75})

	x, y, ok := p.Forward(-75, 0)
	assert.True(t, ok)
	assert.InDelta(t, 0, x, tolerance)
	assert.InDelta(t, 0, y, tolerance)

	x, y, ok = p.Forward(15, 45)
	assert.True(t, ok)
	assert.InDelta(t, EarthRadius*math.Pi/2, x, tolerance)
	assert.InDelta(t, EarthRadius*math.Pi/4, y, tolerance)

	b := p.Bounds()
	assert.InDelta(t, -EarthRadius*math.Pi, b.Min[0], tolerance)
	assert.InDelta(t, EarthRadius*math.Pi/2, b.Max[1], tolerance)
}

func TestMercatorClampsLatitude(t *testing.T) {
	p := mustNew(t, KindMercator, Params{})

	_, y, ok := p.Forward(0, 0)
	assert.True(t, ok)
	assert.InDelta(t, 0, y, tolerance)

	_, yClamped, ok := p.Forward(0, 89)
	assert.False(t, ok)
	_, yLimit, _ := p.Forward(0, MercatorMaxLatitude)
	assert.InDelta(t, yLimit, yClamped, tolerance)
	assert.False(t, math.IsInf(yClamped, 0))
}

func TestMollweide(t *testing.T) {
	p := mustNew(t, KindMollweide, Params{})

	x, y, _ := p.Project(180, 0)
	assert.InDelta(t, 2*math.Sqrt2*EarthRadius, x, tolerance)
	assert.InDelta(t, 0, y, tolerance)

	_, y, _ = p.Project(0, 90)
	assert.InDelta(t, math.Sqrt2*EarthRadius, y, tolerance)

	// Equal-area: θ solves 2θ + sin 2θ = π sin φ.
	theta := mollweideTheta(radians(40))
	assert.InDelta(t, math.Pi*math.Sin(radians(40)), 2*theta+math.Sin(2*theta), 1e-9)
}

func TestLambertConformal(t *testing.T) {
	p := mustNew(t, KindLambertConformal, Params{
		CentralLongitude:  -96,
		CentralLatitude:   39,
		StandardParallels: [2]float64{33, 45},
		Cutoff:            -30,
	})

	x, y, ok := p.Forward(-96, 39)
	assert.True(t, ok)
	assert.InDelta(t, 0, x, tolerance)
	assert.InDelta(t, 0, y, tolerance)

	// East of the central meridian projects to positive x.
	x, _, _ = p.Forward(-80, 39)
	assert.Greater(t, x, 0.0)

	_, _, ok = p.Forward(-96, -60)
	assert.False(t, ok, "latitudes past the cutoff are not visible")
}

func TestLambertConformalDegenerateCone(t *testing.T) {
	_, err := New(KindLambertConformal, Params{StandardParallels: [2]float64{30, -30}})
	assert.Error(t, err)
}

func TestAzimuthalCentreAndHorizon(t *testing.T) {
	kinds := []Kind{KindStereographic, KindLambertAzimuthalEqualArea, KindOrthographic}
	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			p := mustNew(t, kind, Params{CentralLongitude: 10, CentralLatitude: 50})
			assert.True(t, p.Azimuthal())

			x, y, ok := p.Forward(10, 50)
			assert.True(t, ok)
			assert.InDelta(t, 0, x, tolerance)
			assert.InDelta(t, 0, y, tolerance)

			// Antipode lies beyond every horizon.
			x, y, ok = p.Forward(-170, -50)
			assert.False(t, ok)
			b := p.Bounds()
			assert.LessOrEqual(t, math.Hypot(x, y), b.Max[0]*1.0001)

			ring := p.Boundary()
			require.NotEmpty(t, ring)
			assert.Equal(t, ring[0], ring[len(ring)-1])
		})
	}
}

func TestOrthographicNorthPole(t *testing.T) {
	p := mustNew(t, KindOrthographic, Params{CentralLatitude: 90})

	_, _, ok := p.Forward(0, 10)
	assert.True(t, ok)
	_, _, ok = p.Forward(0, -10)
	assert.False(t, ok)

	x, y, _ := p.Forward(0, 0)
	assert.InDelta(t, EarthRadius, math.Hypot(x, y), tolerance)
}

func TestBoundaryClosed(t *testing.T) {
	tests := []struct {
		kind   Kind
		params Params
	}{
		{KindEquirectangular, Params{}},
		{KindMercator, Params{CentralLongitude: 150}},
		{KindMollweide, Params{}},
		{KindLambertConformal, Params{StandardParallels: [2]float64{33, 45}, Cutoff: -30}},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			p := mustNew(t, tt.kind, tt.params)
			ring := p.Boundary()
			require.GreaterOrEqual(t, len(ring), 4)
			assert.Equal(t, ring[0], ring[len(ring)-1])

			b := p.Bounds()
			assert.Less(t, b.Min[0], b.Max[0])
			assert.Less(t, b.Min[1], b.Max[1])
		})
	}
}
