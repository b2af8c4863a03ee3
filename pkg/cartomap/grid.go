package cartomap

import (
	"fmt"
	"image/color"
	"math"
)

// MinGridSpacing is the smallest accepted grid spacing in degrees.
const MinGridSpacing = 0.1

// GridLabels selects which map edges carry grid labels.
type GridLabels struct {
	Top, Bottom, Left, Right bool
}

// Any reports whether any edge is labelled.
func (l GridLabels) Any() bool {
	return l.Top || l.Bottom || l.Left || l.Right
}

// GridConfig describes the coordinate grid (graticule).
type GridConfig struct {
	LineWidth float64 // points
	Color     color.Color
	LineStyle LineStyle
	Opacity   float64 // [0, 1]; 0 for the default of 1

	// Spacing in degrees between meridians and parallels, from
	// MinGridSpacing to 180. 0 picks a spacing from the visible span.
	LongitudeSpacing float64
	LatitudeSpacing  float64

	// Explicit line positions; they override the spacing when set.
	Longitudes []float64
	Latitudes  []float64

	Labels GridLabels
}

// DefaultGrid returns a thin dashed gray grid labelled on the bottom and
// left edges.
func DefaultGrid() GridConfig {
	return GridConfig{
		LineWidth: 0.5,
		Color:     mustColor("gray"),
		LineStyle: LineDashed,
		Opacity:   0.5,
		Labels:    GridLabels{Bottom: true, Left: true},
	}
}

// Validate checks the grid configuration.
func (g GridConfig) Validate() error {
	fail := func(format string, args ...any) error {
		return &ErrInvalidGrid{Reason: fmt.Sprintf(format, args...)}
	}

	if g.LineWidth < 0 || math.IsNaN(g.LineWidth) {
		return fail("line width %g must not be negative", g.LineWidth)
	}
	if g.Opacity < 0 || g.Opacity > 1 {
		return fail("opacity %g must be within [0, 1]", g.Opacity)
	}
	if _, ok := lineStyleNames[g.LineStyle]; !ok {
		return fail("unknown line style %v", g.LineStyle)
	}
	for _, s := range []float64{g.LongitudeSpacing, g.LatitudeSpacing} {
		if s == 0 {
			continue
		}
		if math.IsNaN(s) || s < MinGridSpacing || s > 180 {
			return fail("spacing %g must be 0 or within [%g, 180]", s, MinGridSpacing)
		}
	}
	for _, lon := range g.Longitudes {
		if math.IsNaN(lon) || lon < -540 || lon > 540 {
			return fail("longitude %g out of range", lon)
		}
	}
	for _, lat := range g.Latitudes {
		if math.IsNaN(lat) || lat < -90 || lat > 90 {
			return fail("latitude %g must be within [-90, 90]", lat)
		}
	}
	return nil
}

// clone copies the slices so the artifact does not alias caller memory.
func (g GridConfig) clone() GridConfig {
	g.Longitudes = append([]float64(nil), g.Longitudes...)
	g.Latitudes = append([]float64(nil), g.Latitudes...)
	return g
}

func (g GridConfig) style() Style {
	s := Style{
		LineWidth: g.LineWidth,
		EdgeColor: g.Color,
		FaceColor: None,
		LineStyle: g.LineStyle,
		Opacity:   g.Opacity,
	}
	return s.merge(Style{LineWidth: 0.5, EdgeColor: mustColor("gray"), Opacity: 1})
}
