package cartomap

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/beetlebugorg/cartomap/internal/projection"
)

// ProjectionName identifies a supported projection.
type ProjectionName string

const (
	ProjEquirectangular           ProjectionName = "equirectangular"
	ProjMercator                  ProjectionName = "mercator"
	ProjMollweide                 ProjectionName = "mollweide"
	ProjLambertConformal          ProjectionName = "lambert-conformal"
	ProjStereographic             ProjectionName = "stereographic"
	ProjLambertAzimuthalEqualArea ProjectionName = "lambert-azimuthal-equal-area"
	ProjOrthographic              ProjectionName = "orthographic"
)

// Parameter names accepted by ParseProjection.
const (
	ParamCentralLongitude  = "central_longitude"
	ParamCentralLatitude   = "central_latitude"
	ParamStandardParallel1 = "standard_parallel_1"
	ParamStandardParallel2 = "standard_parallel_2"
	ParamCutoff            = "cutoff"
)

// DefaultCutoff is the southern latitude limit of Lambert conformal maps.
const DefaultCutoff = -30.0

// ProjectionInfo describes a projection for listings.
type ProjectionInfo struct {
	Name        ProjectionName
	Description string
	Params      []string
}

var projectionTable = []ProjectionInfo{
	{ProjEquirectangular, "Plate Carrée; longitude and latitude as plane coordinates", []string{ParamCentralLongitude}},
	{ProjMercator, "conformal cylinder, latitudes limited to [-80, 84]", []string{ParamCentralLongitude}},
	{ProjMollweide, "equal-area pseudo-cylinder", []string{ParamCentralLongitude}},
	{ProjLambertConformal, "conformal cone on two standard parallels", []string{
		ParamCentralLongitude, ParamCentralLatitude, ParamStandardParallel1, ParamStandardParallel2, ParamCutoff,
	}},
	{ProjStereographic, "conformal azimuthal", []string{ParamCentralLongitude, ParamCentralLatitude}},
	{ProjLambertAzimuthalEqualArea, "equal-area azimuthal", []string{ParamCentralLongitude, ParamCentralLatitude}},
	{ProjOrthographic, "the globe seen from infinity", []string{ParamCentralLongitude, ParamCentralLatitude}},
}

// Projections lists every supported projection.
func Projections() []ProjectionInfo {
	out := make([]ProjectionInfo, len(projectionTable))
	copy(out, projectionTable)
	return out
}

// ProjectionSpec names a projection and its parameters. It is a value type
// and cannot be modified after construction.
//
// The zero value is equirectangular centred on the prime meridian.
type ProjectionSpec struct {
	name              ProjectionName
	centralLongitude  float64
	centralLatitude   float64
	standardParallels [2]float64
	cutoff            float64
}

// Equirectangular returns a Plate Carrée projection.
func Equirectangular(centralLongitude float64) ProjectionSpec {
	return ProjectionSpec{name: ProjEquirectangular, centralLongitude: centralLongitude}
}

// Mercator returns a spherical Mercator projection.
func Mercator(centralLongitude float64) ProjectionSpec {
	return ProjectionSpec{name: ProjMercator, centralLongitude: centralLongitude}
}

// Mollweide returns a Mollweide projection.
func Mollweide(centralLongitude float64) ProjectionSpec {
	return ProjectionSpec{name: ProjMollweide, centralLongitude: centralLongitude}
}

// LambertConformal returns a Lambert conformal conic projection cut off at
// DefaultCutoff.
//
// Example (contiguous United States):
//
//	p := cartomap.LambertConformal(-96, 39, 33, 45)
func LambertConformal(centralLongitude, centralLatitude, parallel1, parallel2 float64) ProjectionSpec {
	return ProjectionSpec{
		name:              ProjLambertConformal,
		centralLongitude:  centralLongitude,
		centralLatitude:   centralLatitude,
		standardParallels: [2]float64{parallel1, parallel2},
		cutoff:            DefaultCutoff,
	}
}

// WithCutoff returns a copy with a different Lambert conformal cutoff
// latitude. Other projections ignore it.
func (p ProjectionSpec) WithCutoff(lat float64) ProjectionSpec {
	p.cutoff = lat
	return p
}

// Stereographic returns a stereographic projection centred on (lon, lat).
func Stereographic(centralLongitude, centralLatitude float64) ProjectionSpec {
	return ProjectionSpec{name: ProjStereographic, centralLongitude: centralLongitude, centralLatitude: centralLatitude}
}

// NorthPolarStereo returns a stereographic projection centred on the north
// pole with centralLongitude pointing down.
func NorthPolarStereo(centralLongitude float64) ProjectionSpec {
	return Stereographic(centralLongitude, 90)
}

// SouthPolarStereo returns a stereographic projection centred on the south
// pole.
func SouthPolarStereo(centralLongitude float64) ProjectionSpec {
	return Stereographic(centralLongitude, -90)
}

// LambertAzimuthalEqualArea returns a Lambert azimuthal equal-area
// projection centred on (lon, lat).
func LambertAzimuthalEqualArea(centralLongitude, centralLatitude float64) ProjectionSpec {
	return ProjectionSpec{name: ProjLambertAzimuthalEqualArea, centralLongitude: centralLongitude, centralLatitude: centralLatitude}
}

// Orthographic returns an orthographic projection centred on (lon, lat).
func Orthographic(centralLongitude, centralLatitude float64) ProjectionSpec {
	return ProjectionSpec{name: ProjOrthographic, centralLongitude: centralLongitude, centralLatitude: centralLatitude}
}

// ParseProjection builds a ProjectionSpec from a name and a parameter map,
// as used by recipe files. Missing parameters take the constructor
// defaults: 0 for the centre (39°N for Lambert conformal), 33/45 for the
// standard parallels and DefaultCutoff.
func ParseProjection(name string, params map[string]float64) (ProjectionSpec, error) {
	n := ProjectionName(strings.ToLower(strings.TrimSpace(name)))
	switch n {
	case "platecarree", "plate-carree":
		n = ProjEquirectangular
	case "lcc", "lambert":
		n = ProjLambertConformal
	case "laea":
		n = ProjLambertAzimuthalEqualArea
	}

	info, ok := lookupProjection(n)
	if !ok {
		return ProjectionSpec{}, &ErrInvalidProjection{Name: name, Reason: "unknown projection"}
	}

	allowed := make(map[string]bool, len(info.Params))
	for _, p := range info.Params {
		allowed[p] = true
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !allowed[k] {
			return ProjectionSpec{}, &ErrInvalidProjection{Name: string(n), Param: k, Value: params[k], Reason: "unknown parameter"}
		}
	}

	get := func(key string, def float64) float64 {
		if v, ok := params[key]; ok {
			return v
		}
		return def
	}

	spec := ProjectionSpec{
		name:             n,
		centralLongitude: get(ParamCentralLongitude, 0),
		centralLatitude:  get(ParamCentralLatitude, 0),
	}
	if n == ProjLambertConformal {
		spec.centralLatitude = get(ParamCentralLatitude, 39)
		spec.standardParallels = [2]float64{get(ParamStandardParallel1, 33), get(ParamStandardParallel2, 45)}
		spec.cutoff = get(ParamCutoff, DefaultCutoff)
	}
	return spec, spec.Validate()
}

func lookupProjection(name ProjectionName) (ProjectionInfo, bool) {
	for _, info := range projectionTable {
		if info.Name == name {
			return info, true
		}
	}
	return ProjectionInfo{}, false
}

// Name returns the projection name.
func (p ProjectionSpec) Name() ProjectionName {
	if p.name == "" {
		return ProjEquirectangular
	}
	return p.name
}

// CentralLongitude returns the central meridian in degrees.
func (p ProjectionSpec) CentralLongitude() float64 { return p.centralLongitude }

// CentralLatitude returns the latitude of origin in degrees.
func (p ProjectionSpec) CentralLatitude() float64 { return p.centralLatitude }

// StandardParallels returns the Lambert conformal standard parallels.
func (p ProjectionSpec) StandardParallels() [2]float64 { return p.standardParallels }

// Cutoff returns the Lambert conformal cutoff latitude.
func (p ProjectionSpec) Cutoff() float64 { return p.cutoff }

// Params returns the parameters that apply to this projection, keyed as in
// ParseProjection.
func (p ProjectionSpec) Params() map[string]float64 {
	out := map[string]float64{ParamCentralLongitude: p.centralLongitude}
	switch p.Name() {
	case ProjLambertConformal:
		out[ParamCentralLatitude] = p.centralLatitude
		out[ParamStandardParallel1] = p.standardParallels[0]
		out[ParamStandardParallel2] = p.standardParallels[1]
		out[ParamCutoff] = p.cutoff
	case ProjStereographic, ProjLambertAzimuthalEqualArea, ProjOrthographic:
		out[ParamCentralLatitude] = p.centralLatitude
	}
	return out
}

// Azimuthal reports whether the projection is centred on a point rather
// than a meridian.
func (p ProjectionSpec) Azimuthal() bool {
	switch p.Name() {
	case ProjStereographic, ProjLambertAzimuthalEqualArea, ProjOrthographic:
		return true
	}
	return false
}

// String formats the projection as name(param=value, ...).
func (p ProjectionSpec) String() string {
	params := p.Params()
	info, _ := lookupProjection(p.Name())
	parts := make([]string, 0, len(params))
	for _, k := range info.Params {
		parts = append(parts, fmt.Sprintf("%s=%g", k, params[k]))
	}
	return fmt.Sprintf("%s(%s)", p.Name(), strings.Join(parts, ", "))
}

// Validate checks every parameter against its domain.
func (p ProjectionSpec) Validate() error {
	name := string(p.Name())
	if _, ok := lookupProjection(p.Name()); !ok {
		return &ErrInvalidProjection{Name: name, Reason: "unknown projection"}
	}

	check := func(param string, v, lo, hi float64) error {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &ErrInvalidProjection{Name: name, Param: param, Value: v, Reason: "must be finite"}
		}
		if v < lo || v > hi {
			return &ErrInvalidProjection{Name: name, Param: param, Value: v,
				Reason: fmt.Sprintf("must be within [%g, %g]", lo, hi)}
		}
		return nil
	}

	if err := check(ParamCentralLongitude, p.centralLongitude, -180, 180); err != nil {
		return err
	}
	if err := check(ParamCentralLatitude, p.centralLatitude, -90, 90); err != nil {
		return err
	}

	if p.Name() == ProjLambertConformal {
		if err := check(ParamStandardParallel1, p.standardParallels[0], -90, 90); err != nil {
			return err
		}
		if err := check(ParamStandardParallel2, p.standardParallels[1], -90, 90); err != nil {
			return err
		}
		if err := check(ParamCutoff, p.cutoff, -90, 90); err != nil {
			return err
		}
		if math.Abs(p.standardParallels[0]+p.standardParallels[1]) < 1e-9 {
			return &ErrInvalidProjection{Name: name, Param: ParamStandardParallel2, Value: p.standardParallels[1],
				Reason: "standard parallels must not be symmetric about the equator"}
		}
		if _, err := p.engine(); err != nil {
			return &ErrInvalidProjection{Name: name, Reason: err.Error()}
		}
	}
	return nil
}

// engine builds the projection transform.
func (p ProjectionSpec) engine() (projection.Projection, error) {
	var kind projection.Kind
	switch p.Name() {
	case ProjEquirectangular:
		kind = projection.KindEquirectangular
	case ProjMercator:
		kind = projection.KindMercator
	case ProjMollweide:
		kind = projection.KindMollweide
	case ProjLambertConformal:
		kind = projection.KindLambertConformal
	case ProjStereographic:
		kind = projection.KindStereographic
	case ProjLambertAzimuthalEqualArea:
		kind = projection.KindLambertAzimuthalEqualArea
	case ProjOrthographic:
		kind = projection.KindOrthographic
	default:
		return nil, fmt.Errorf("unknown projection %q", p.name)
	}
	return projection.New(kind, projection.Params{
		CentralLongitude:  p.centralLongitude,
		CentralLatitude:   p.centralLatitude,
		StandardParallels: p.standardParallels,
		Cutoff:            p.cutoff,
	})
}

// Equal reports whether two specs name the same projection and parameters.
func (p ProjectionSpec) Equal(other ProjectionSpec) bool {
	return p.Name() == other.Name() &&
		p.centralLongitude == other.centralLongitude &&
		p.centralLatitude == other.centralLatitude &&
		p.standardParallels == other.standardParallels &&
		p.cutoff == other.cutoff
}
