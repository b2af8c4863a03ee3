package cartomap

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectionConstructors(t *testing.T) {
	tests := []struct {
		spec      ProjectionSpec
		name      ProjectionName
		lon, lat  float64
		azimuthal bool
	}{
		{Equirectangular(-75), ProjEquirectangular, -75, 0, false},
		{Mercator(150), ProjMercator, 150, 0, false},
		{Mollweide(0), ProjMollweide, 0, 0, false},
		{LambertConformal(-96, 39, 33, 45), ProjLambertConformal, -96, 39, false},
		{Stereographic(10, 50), ProjStereographic, 10, 50, true},
		{NorthPolarStereo(-45), ProjStereographic, -45, 90, true},
		{SouthPolarStereo(0), ProjStereographic, 0, -90, true},
		{LambertAzimuthalEqualArea(10, 52), ProjLambertAzimuthalEqualArea, 10, 52, true},
		{Orthographic(-100, 40), ProjOrthographic, -100, 40, true},
		{ProjectionSpec{}, ProjEquirectangular, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.spec.String(), func(t *testing.T) {
			assert.Equal(t, tt.name, tt.spec.Name())
			assert.Equal(t, tt.lon, tt.spec.CentralLongitude())
			assert.Equal(t, tt.lat, tt.spec.CentralLatitude())
			assert.Equal(t, tt.azimuthal, tt.spec.Azimuthal())
			assert.NoError(t, tt.spec.Validate())
		})
	}
}

func TestProjectionValidation(t *testing.T) {
	tests := []struct {
		name  string
		spec  ProjectionSpec
		param string
	}{
		{"latitude above 90", Orthographic(0, 95), ParamCentralLatitude},
		{"latitude below -90", Stereographic(0, -90.5), ParamCentralLatitude},
		{"longitude out of range", Mollweide(200), ParamCentralLongitude},
		{"longitude NaN", Equirectangular(math.NaN()), ParamCentralLongitude},
		{"parallel out of range", LambertConformal(0, 40, 33, 100), ParamStandardParallel2},
		{"symmetric parallels", LambertConformal(0, 0, 30, -30), ParamStandardParallel2},
		{"cutoff out of range", LambertConformal(0, 40, 33, 45).WithCutoff(-120), ParamCutoff},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			var perr *ErrInvalidProjection
			require.True(t, errors.As(err, &perr), "got %v", err)
			assert.Equal(t, tt.param, perr.Param)
		})
	}
}

func TestParseProjection(t *testing.T) {
	p, err := ParseProjection("Mollweide", map[string]float64{ParamCentralLongitude: 30})
	require.NoError(t, err)
	assert.True(t, p.Equal(Mollweide(30)))

	p, err = ParseProjection("lcc", nil)
	require.NoError(t, err)
	assert.Equal(t, [2]float64{33, 45}, p.StandardParallels())
	assert.Equal(t, DefaultCutoff, p.Cutoff())
	assert.Equal(t, 39.0, p.CentralLatitude())

	p, err = ParseProjection("platecarree", nil)
	require.NoError(t, err)
	assert.Equal(t, ProjEquirectangular, p.Name())

	_, err = ParseProjection("robinson", nil)
	var perr *ErrInvalidProjection
	require.True(t, errors.As(err, &perr))
	assert.Empty(t, perr.Param)

	_, err = ParseProjection("mercator", map[string]float64{ParamCentralLatitude: 10})
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, ParamCentralLatitude, perr.Param)

	_, err = ParseProjection("orthographic", map[string]float64{ParamCentralLatitude: 91})
	assert.True(t, errors.As(err, &perr))
}

func TestProjectionParamsRoundTrip(t *testing.T) {
	for _, spec := range []ProjectionSpec{
		Equirectangular(-75),
		LambertConformal(-96, 39, 33, 45).WithCutoff(-20),
		Orthographic(-100, 40),
	} {
		parsed, err := ParseProjection(string(spec.Name()), spec.Params())
		require.NoError(t, err)
		assert.True(t, spec.Equal(parsed), "%s != %s", spec, parsed)
	}
}

func TestProjectionsListing(t *testing.T) {
	infos := Projections()
	require.Len(t, infos, 7)
	for _, info := range infos {
		_, err := ParseProjection(string(info.Name), nil)
		assert.NoError(t, err, info.Name)
	}
}
