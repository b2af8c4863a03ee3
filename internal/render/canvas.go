// Package render rasterises projected map geometry.
//
// The canvas maps a projected viewport onto a pixel grid, preserving aspect
// ratio, and draws filled and stroked paths with per-layer styles using
// github.com/fogleman/gg.
package render

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/paulmach/orb"
)

// PointsToPixels converts line widths in points to pixels at 100 dpi.
const PointsToPixels = 100.0 / 72.0

// Margins reserves space around the map frame, in pixels.
type Margins struct {
	Top, Right, Bottom, Left float64
}

// Style controls how a path is drawn. A nil color disables that part.
type Style struct {
	LineWidth float64 // points
	Edge      color.Color
	Fill      color.Color
	Dash      []float64 // points, nil for solid
	Opacity   float64   // 0..1
}

// Canvas is a raster drawing surface bound to a projected viewport.
type Canvas struct {
	dc     *gg.Context
	view   orb.Bound
	scale  float64
	frame  orb.Bound // pixel rectangle of the viewport
	width  int
	height int
}

// NewCanvas creates a white canvas of the given size showing view.
func NewCanvas(width, height int, view orb.Bound, margins Margins) *Canvas {
	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetLineCapRound()
	dc.SetLineJoinRound()

	availW := math.Max(float64(width)-margins.Left-margins.Right, 1)
	availH := math.Max(float64(height)-margins.Top-margins.Bottom, 1)

	viewW := math.Max(view.Max[0]-view.Min[0], 1e-9)
	viewH := math.Max(view.Max[1]-view.Min[1], 1e-9)
	scale := math.Min(availW/viewW, availH/viewH)

	frameW := viewW * scale
	frameH := viewH * scale
	left := margins.Left + (availW-frameW)/2
	top := margins.Top + (availH-frameH)/2

	return &Canvas{
		dc:     dc,
		view:   view,
		scale:  scale,
		frame:  orb.Bound{Min: orb.Point{left, top}, Max: orb.Point{left + frameW, top + frameH}},
		width:  width,
		height: height,
	}
}

// Frame returns the pixel rectangle the viewport occupies.
func (c *Canvas) Frame() orb.Bound {
	return c.frame
}

// ToPixel converts projected coordinates to pixel coordinates.
func (c *Canvas) ToPixel(x, y float64) (float64, float64) {
	px := c.frame.Min[0] + (x-c.view.Min[0])*c.scale
	py := c.frame.Min[1] + (c.view.Max[1]-y)*c.scale
	return px, py
}

// ClipToFrame restricts subsequent drawing to the viewport rectangle.
func (c *Canvas) ClipToFrame() {
	c.dc.ResetClip()
	c.dc.DrawRectangle(c.frame.Min[0], c.frame.Min[1], c.frame.Max[0]-c.frame.Min[0], c.frame.Max[1]-c.frame.Min[1])
	c.dc.Clip()
}

// ResetClip removes the viewport clip.
func (c *Canvas) ResetClip() {
	c.dc.ResetClip()
}

// DrawPolygon fills and strokes a projected polygon. Rings are drawn as
// sub-paths with the even-odd rule so holes stay empty.
func (c *Canvas) DrawPolygon(poly orb.Polygon, style Style) {
	if len(poly) == 0 {
		return
	}
	c.dc.ClearPath()
	for _, ring := range poly {
		c.tracePath(orb.LineString(ring), true)
	}
	c.paint(style, true)
}

// DrawLine strokes a projected line.
func (c *Canvas) DrawLine(ls orb.LineString, style Style) {
	if len(ls) < 2 {
		return
	}
	c.dc.ClearPath()
	c.tracePath(ls, false)
	c.paint(style, false)
}

// DrawRing strokes a closed projected ring, such as a projection outline.
func (c *Canvas) DrawRing(r orb.Ring, style Style) {
	if len(r) < 2 {
		return
	}
	c.dc.ClearPath()
	c.tracePath(orb.LineString(r), true)
	c.paint(Style{LineWidth: style.LineWidth, Edge: style.Edge, Dash: style.Dash, Opacity: style.Opacity}, false)
}

// StrokeFrame outlines the viewport rectangle.
func (c *Canvas) StrokeFrame(style Style) {
	f := c.frame
	c.DrawPixelRing([]orb.Point{
		{f.Min[0], f.Min[1]}, {f.Max[0], f.Min[1]}, {f.Max[0], f.Max[1]}, {f.Min[0], f.Max[1]}, {f.Min[0], f.Min[1]},
	}, style)
}

// DrawPixelRing strokes a ring given in pixel coordinates.
func (c *Canvas) DrawPixelRing(pts []orb.Point, style Style) {
	c.dc.ClearPath()
	c.dc.NewSubPath()
	for i, pt := range pts {
		if i == 0 {
			c.dc.MoveTo(pt[0], pt[1])
		} else {
			c.dc.LineTo(pt[0], pt[1])
		}
	}
	c.dc.ClosePath()
	c.paint(Style{LineWidth: style.LineWidth, Edge: style.Edge, Dash: style.Dash, Opacity: style.Opacity}, false)
}

// DrawText draws text anchored at a pixel position. ax and ay are the
// anchor fractions of the text box (0.5, 0.5 centres it).
func (c *Canvas) DrawText(text string, x, y, ax, ay float64, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawStringAnchored(text, x, y, ax, ay)
}

func (c *Canvas) tracePath(ls orb.LineString, closed bool) {
	c.dc.NewSubPath()
	for i, pt := range ls {
		px, py := c.ToPixel(pt[0], pt[1])
		if i == 0 {
			c.dc.MoveTo(px, py)
		} else {
			c.dc.LineTo(px, py)
		}
	}
	if closed {
		c.dc.ClosePath()
	}
}

func (c *Canvas) paint(style Style, fill bool) {
	opacity := style.Opacity
	if opacity <= 0 || opacity > 1 {
		opacity = 1
	}

	if fill && style.Fill != nil {
		c.dc.SetFillRuleEvenOdd()
		c.dc.SetColor(withOpacity(style.Fill, opacity))
		if style.Edge != nil && style.LineWidth > 0 {
			c.dc.FillPreserve()
		} else {
			c.dc.Fill()
			return
		}
	}

	if style.Edge == nil || style.LineWidth <= 0 {
		c.dc.ClearPath()
		return
	}
	c.dc.SetColor(withOpacity(style.Edge, opacity))
	c.dc.SetLineWidth(style.LineWidth * PointsToPixels)
	if len(style.Dash) > 0 {
		dash := make([]float64, len(style.Dash))
		for i, d := range style.Dash {
			dash[i] = d * PointsToPixels
		}
		c.dc.SetDash(dash...)
	} else {
		c.dc.SetDash()
	}
	c.dc.Stroke()
}

// withOpacity scales the alpha of col.
func withOpacity(col color.Color, opacity float64) color.Color {
	n := color.NRGBAModel.Convert(col).(color.NRGBA)
	n.A = uint8(math.Round(float64(n.A) * opacity))
	return n
}

// Image returns the rendered raster.
func (c *Canvas) Image() *image.RGBA {
	if im, ok := c.dc.Image().(*image.RGBA); ok {
		return im
	}
	b := c.dc.Image().Bounds()
	im := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			im.Set(x, y, c.dc.Image().At(x, y))
		}
	}
	return im
}

// EncodePNG writes the raster as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return c.dc.EncodePNG(w)
}
