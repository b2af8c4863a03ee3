package cartomap

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/beetlebugorg/cartomap/internal/render"
)

// LineStyle is a stroke pattern.
type LineStyle int

const (
	LineSolid LineStyle = iota
	LineDashed
	LineDotted
	LineDashDot
)

var lineStyleNames = map[LineStyle]string{
	LineSolid:   "solid",
	LineDashed:  "dashed",
	LineDotted:  "dotted",
	LineDashDot: "dashdot",
}

func (s LineStyle) String() string {
	if name, ok := lineStyleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("LineStyle(%d)", int(s))
}

// ParseLineStyle parses solid, dashed, dotted or dashdot. The matplotlib
// shorthands "-", "--", ":" and "-." are accepted too.
func ParseLineStyle(s string) (LineStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "solid", "-":
		return LineSolid, nil
	case "dashed", "--":
		return LineDashed, nil
	case "dotted", ":":
		return LineDotted, nil
	case "dashdot", "-.":
		return LineDashDot, nil
	}
	return LineSolid, fmt.Errorf("unknown line style %q", s)
}

// dash returns the dash pattern in points, scaled with the line width.
func (s LineStyle) dash(lineWidth float64) []float64 {
	var pattern []float64
	switch s {
	case LineDashed:
		pattern = []float64{3.7, 1.6}
	case LineDotted:
		pattern = []float64{1, 1.65}
	case LineDashDot:
		pattern = []float64{6.4, 1.6, 1, 1.6}
	default:
		return nil
	}
	scale := max(lineWidth, 1)
	for i := range pattern {
		pattern[i] *= scale
	}
	return pattern
}

// None disables an edge or fill when used as a Style color. A nil color
// means "use the category default" instead.
var None color.Color = noneColor{}

type noneColor struct{}

func (noneColor) RGBA() (r, g, b, a uint32) { return 0, 0, 0, 0 }

// Style controls how an overlay is drawn. Zero fields take the category
// defaults.
type Style struct {
	LineWidth float64     // points; 0 for the default
	EdgeColor color.Color // nil for the default, None for no edge
	FaceColor color.Color // nil for the default, None for no fill
	LineStyle LineStyle

	// Opacity in [0, 1]. 0 takes the category default, which is fully
	// opaque; hide an overlay with None colors instead.
	Opacity float64
}

// validate checks numeric ranges.
func (s Style) validate() string {
	switch {
	case s.LineWidth < 0:
		return fmt.Sprintf("line width %g must not be negative", s.LineWidth)
	case s.Opacity < 0 || s.Opacity > 1:
		return fmt.Sprintf("opacity %g must be within [0, 1]", s.Opacity)
	}
	if _, ok := lineStyleNames[s.LineStyle]; !ok {
		return "unknown line style " + s.LineStyle.String()
	}
	return ""
}

// merge fills unset fields from defaults.
func (s Style) merge(defaults Style) Style {
	out := s
	if out.LineWidth == 0 {
		out.LineWidth = defaults.LineWidth
	}
	if out.EdgeColor == nil {
		out.EdgeColor = defaults.EdgeColor
	}
	if out.FaceColor == nil {
		out.FaceColor = defaults.FaceColor
	}
	if out.LineStyle == LineSolid {
		out.LineStyle = defaults.LineStyle
	}
	if out.Opacity == 0 {
		out.Opacity = defaults.Opacity
	}
	if out.Opacity == 0 {
		out.Opacity = 1
	}
	return out
}

// canvasStyle converts to the renderer's style.
func (s Style) canvasStyle() render.Style {
	rs := render.Style{
		LineWidth: s.LineWidth,
		Dash:      s.LineStyle.dash(s.LineWidth),
		Opacity:   s.Opacity,
	}
	if s.EdgeColor != nil && s.EdgeColor != None {
		rs.Edge = s.EdgeColor
	}
	if s.FaceColor != nil && s.FaceColor != None {
		rs.Fill = s.FaceColor
	}
	return rs
}

var namedColors = map[string]string{
	"black":     "#000000",
	"white":     "#ffffff",
	"gray":      "#808080",
	"grey":      "#808080",
	"lightgray": "#d3d3d3",
	"darkgray":  "#a9a9a9",
	"red":       "#ff0000",
	"green":     "#008000",
	"blue":      "#0000ff",
	"navy":      "#000080",
	"yellow":    "#ffff00",
	"orange":    "#ffa500",
	"brown":     "#a52a2a",
	"tan":       "#d2b48c",
	"beige":     "#f5f5dc",
	"lightblue": "#add8e6",
	"steelblue": "#4682b4",
	"land":      "#efefdb",
	"water":     "#97b6e1",
}

// ParseColor parses a color name, "#rgb" or "#rrggbb". "none" returns None
// and the empty string returns nil (category default).
func ParseColor(s string) (color.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return nil, nil
	case "none":
		return None, nil
	}
	if hex, ok := namedColors[s]; ok {
		s = hex
	}
	if !strings.HasPrefix(s, "#") {
		return nil, fmt.Errorf("unknown color %q", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// mustColor parses a built-in color literal.
func mustColor(s string) color.Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// FormatColor renders a color as #rrggbb, or "none" for None.
func FormatColor(c color.Color) string {
	switch c {
	case nil:
		return ""
	case None:
		return "none"
	}
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "none"
	}
	return cf.Hex()
}
