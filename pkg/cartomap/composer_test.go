package cartomap

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSurfaceReportsProjection(t *testing.T) {
	c := newTestComposer(t, newFakeSource())

	for _, spec := range []ProjectionSpec{
		Equirectangular(-75),
		Mollweide(0),
		LambertConformal(-96, 39, 33, 45),
		NorthPolarStereo(0),
		LambertAzimuthalEqualArea(10, 52),
		Orthographic(-100, 40),
	} {
		a, err := c.CreateSurface(spec, Size{Width: 400, Height: 300})
		require.NoError(t, err)
		assert.True(t, a.Projection().Equal(spec))
		assert.Equal(t, spec.Params(), a.Projection().Params())
		assert.Equal(t, Size{Width: 400, Height: 300}, a.Size())
		assert.NotEmpty(t, a.ID())

		_, hasExtent := a.Extent()
		assert.False(t, hasExtent)
		assert.Empty(t, a.Overlays())
	}
}

func TestCreateSurfaceRejectsInvalidProjection(t *testing.T) {
	c := newTestComposer(t, newFakeSource())

	a, err := c.CreateSurface(Orthographic(0, 120), Size{})
	assert.Nil(t, a)
	var perr *ErrInvalidProjection
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, ParamCentralLatitude, perr.Param)
	assert.Equal(t, 120.0, perr.Value)
}

func TestCreateSurfaceSize(t *testing.T) {
	c := newTestComposer(t, newFakeSource())

	a, err := c.CreateSurface(Mollweide(0), Size{})
	require.NoError(t, err)
	assert.Equal(t, Size{Width: 800, Height: 600}, a.Size())

	for _, size := range []Size{{-1, 100}, {100, -1}, {100, 0}, {MaxSurfaceSide + 1, 10}} {
		_, err := c.CreateSurface(Mollweide(0), size)
		var serr *ErrInvalidSize
		assert.True(t, errors.As(err, &serr), "size %v", size)
	}
}

func TestRestrictExtent(t *testing.T) {
	c := newTestComposer(t, newFakeSource())
	a, err := c.CreateSurface(Equirectangular(0), Size{})
	require.NoError(t, err)

	valid := NewExtent(-140, -40, 15, 65)
	require.NoError(t, c.RestrictExtent(a, valid))

	got, ok := a.Extent()
	require.True(t, ok)
	assert.True(t, got.Equal(valid))

	// Idempotent.
	require.NoError(t, c.RestrictExtent(a, valid))
	again, _ := a.Extent()
	assert.Equal(t, got, again)

	invalid := []Extent{
		NewExtent(10, -10, 0, 10),              // west > east
		NewExtent(-10, 10, 20, 10),             // south > north
		NewExtent(-10, 10, 10, 10),             // empty
		NewExtent(-10, 10, -95, 10),            // latitude range
		NewExtent(-10, 10, 0, math.Inf(1)),     // not finite
		NewExtent(-200, 200, 0, 10),            // wider than the globe
		{West: -10, East: 10, South: 0, North: 10, Frame: Mollweide(0)}, // non-geographic frame
	}
	for _, e := range invalid {
		err := c.RestrictExtent(a, e)
		var eerr *ErrInvalidExtent
		require.True(t, errors.As(err, &eerr), "extent %+v", e)

		current, ok := a.Extent()
		require.True(t, ok)
		assert.True(t, current.Equal(valid), "prior extent must be kept")
	}
}

func TestRestrictExtentRejectsLatitudeOutOfRange(t *testing.T) {
	c := newTestComposer(t, newFakeSource())
	a, err := c.CreateSurface(Equirectangular(0), Size{})
	require.NoError(t, err)

	err = c.RestrictExtent(a, NewExtent(-10, 10, 100, 65))
	var eerr *ErrInvalidExtent
	require.True(t, errors.As(err, &eerr))
	assert.Equal(t, 100.0, eerr.South)

	_, ok := a.Extent()
	assert.False(t, ok, "extent must remain unset")
}

func TestClearExtent(t *testing.T) {
	src := newFakeSource()
	c := newTestComposer(t, src)
	a, err := c.CreateSurface(Equirectangular(0), Size{Width: 200, Height: 100})
	require.NoError(t, err)
	require.NoError(t, c.AddFeature(a, Feature(Coastline)))

	require.NoError(t, c.RestrictExtent(a, NewExtent(-10, 10, 40, 50)))
	c.ClearExtent(a)
	_, ok := a.Extent()
	assert.False(t, ok)

	img, err := c.Render(context.Background(), a)
	require.NoError(t, err)
	assert.Nil(t, img.Extent)
	assert.Equal(t, Coarse, img.Overlays[0].Resolution, "no extent resolves to coarse")
}

func TestAddFeaturePreservesOrder(t *testing.T) {
	c := newTestComposer(t, newFakeSource())
	a, err := c.CreateSurface(Mollweide(0), Size{Width: 200, Height: 100})
	require.NoError(t, err)

	seq := []FeatureOverlayRequest{
		Feature(Ocean),
		Feature(Land).At(Medium),
		Feature(Coastline),
		Feature(Coastline), // duplicates are kept
		Feature(River).WithStyle(Style{LineWidth: 2, LineStyle: LineDotted}),
	}
	for _, req := range seq {
		require.NoError(t, c.AddFeature(a, req))
	}

	categories := func(reqs []FeatureOverlayRequest) []FeatureCategory {
		out := make([]FeatureCategory, len(reqs))
		for i, r := range reqs {
			out[i] = r.Category
		}
		return out
	}
	want := []FeatureCategory{Ocean, Land, Coastline, Coastline, River}
	if diff := cmp.Diff(want, categories(a.Overlays())); diff != "" {
		t.Errorf("artifact overlays mismatch (-want +got):\n%s", diff)
	}

	img, err := c.Render(context.Background(), a)
	require.NoError(t, err)
	if diff := cmp.Diff(want, categories(img.Requests())); diff != "" {
		t.Errorf("rendered overlays mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, Medium, img.Overlays[1].Resolution)
	assert.Equal(t, LineDotted, img.Overlays[4].Request.Style.LineStyle)
}

func TestAddFeatureValidation(t *testing.T) {
	c := newTestComposer(t, newFakeSource())
	a, err := c.CreateSurface(Equirectangular(0), Size{})
	require.NoError(t, err)

	bad := []FeatureOverlayRequest{
		{Category: 0},
		{Category: FeatureCategory(99)},
		{Category: Land, Resolution: Resolution(7)},
		{Category: Land, Style: Style{Opacity: 1.5}},
		{Category: Land, Style: Style{Opacity: -0.1}},
		{Category: Coastline, Style: Style{LineWidth: -1}},
		{Category: Coastline, Style: Style{LineStyle: LineStyle(12)}},
	}
	for _, req := range bad {
		err := c.AddFeature(a, req)
		var ferr *ErrInvalidFeature
		assert.True(t, errors.As(err, &ferr), "request %+v", req)
	}
	assert.Empty(t, a.Overlays())
}

func TestSetGridValidation(t *testing.T) {
	c := newTestComposer(t, newFakeSource())
	a, err := c.CreateSurface(Equirectangular(0), Size{})
	require.NoError(t, err)

	require.NoError(t, c.SetGrid(a, DefaultGrid()))
	_, ok := a.Grid()
	assert.True(t, ok)

	for _, g := range []GridConfig{
		{LongitudeSpacing: -5},
		{LatitudeSpacing: 200},
		{LongitudeSpacing: 1e-3, LatitudeSpacing: 1e-3},
		{LatitudeSpacing: MinGridSpacing / 2},
		{LongitudeSpacing: math.NaN()},
		{Latitudes: []float64{95}},
		{Opacity: 2},
		{LineWidth: -1},
	} {
		err := c.SetGrid(a, g)
		var gerr *ErrInvalidGrid
		assert.True(t, errors.As(err, &gerr), "grid %+v", g)
	}

	require.NoError(t, c.SetGrid(a, GridConfig{LongitudeSpacing: MinGridSpacing, LatitudeSpacing: 180}))

	c.ClearGrid(a)
	_, ok = a.Grid()
	assert.False(t, ok)
}

func TestSetGridCopiesLocations(t *testing.T) {
	c := newTestComposer(t, newFakeSource())
	a, err := c.CreateSurface(Equirectangular(0), Size{})
	require.NoError(t, err)

	lons := []float64{-90, 0, 90}
	require.NoError(t, c.SetGrid(a, GridConfig{Longitudes: lons}))
	lons[0] = 45

	g, _ := a.Grid()
	assert.Equal(t, []float64{-90, 0, 90}, g.Longitudes)
}

func TestTitle(t *testing.T) {
	c := newTestComposer(t, newFakeSource())
	a, err := c.CreateSurface(Equirectangular(0), Size{Width: 300, Height: 200})
	require.NoError(t, err)

	c.SetTitle(a, "World coastlines")
	assert.Equal(t, "World coastlines", a.Title())

	img, err := c.Render(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, "World coastlines", img.Title)
}
