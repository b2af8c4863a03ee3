package cartomap

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"time"

	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"github.com/beetlebugorg/cartomap/internal/metrics"
	"github.com/beetlebugorg/cartomap/internal/projection"
	"github.com/beetlebugorg/cartomap/internal/render"
	"github.com/beetlebugorg/cartomap/pkg/naturalearth"
)

// AppliedOverlay records how an overlay was rendered.
type AppliedOverlay struct {
	Request    FeatureOverlayRequest
	Resolution Resolution // Auto resolved against the extent
	Resource   naturalearth.Resource
	Features   int // features drawn
}

// RenderedImage is the raster produced by Render plus a record of what went
// into it.
type RenderedImage struct {
	ArtifactID string
	Projection ProjectionSpec
	Extent     *Extent // nil for the full projection
	Overlays   []AppliedOverlay
	Grid       *GridConfig
	Title      string
	Warnings   []string

	image *image.RGBA
}

// Image returns the raster.
func (r *RenderedImage) Image() *image.RGBA {
	return r.image
}

// Requests returns the overlay requests in drawing order.
func (r *RenderedImage) Requests() []FeatureOverlayRequest {
	out := make([]FeatureOverlayRequest, len(r.Overlays))
	for i, o := range r.Overlays {
		out[i] = o.Request
	}
	return out
}

// EncodePNG writes the raster as PNG.
func (r *RenderedImage) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, r.image); err != nil {
		return &ErrRenderFailure{Stage: StageEncode, Overlay: -1, Err: err}
	}
	return nil
}

// SavePNG writes the raster to a PNG file.
func (r *RenderedImage) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &ErrRenderFailure{Stage: StageEncode, Overlay: -1, Err: err}
	}
	if err := r.EncodePNG(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return &ErrRenderFailure{Stage: StageEncode, Overlay: -1, Err: err}
	}
	return nil
}

// Label layout, in pixels.
const (
	labelGap        = 3.0
	labelBandHeight = 16.0
	labelBandWidth  = 44.0
	titleBandHeight = 28.0
)

// cancelCheckInterval is how many features are drawn between context checks.
const cancelCheckInterval = 256

var outlineStyle = render.Style{LineWidth: 1, Edge: color.Black, Opacity: 1}

// Render draws the artifact: projection outline, extent clip, overlays in
// order, grid and title.
//
// Rendering is deterministic for identical artifacts and feature data.
// Failures from the feature source or the drawing layer are returned as
// ErrRenderFailure wrapping the original error; nothing is retried. Render
// does not modify the artifact, which stays configurable afterwards.
func (c *Composer) Render(ctx context.Context, a *MapArtifact) (img *RenderedImage, err error) {
	start := time.Now()
	projName := string(a.projection.Name())
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.RendersTotal.WithLabelValues(projName, status).Inc()
		metrics.RenderDuration.WithLabelValues(projName).Observe(time.Since(start).Seconds())
	}()

	engine, err := a.projection.engine()
	if err != nil {
		return nil, &ErrRenderFailure{Stage: StageProject, Overlay: -1, Err: err}
	}

	view := engine.Bounds()
	window := render.WorldWindow
	var queries []orb.Bound
	if a.extent != nil {
		west, east, south, north := a.extent.Geographic()
		if a.extent.Global() {
			west, east = engine.CentralLongitude()-180, engine.CentralLongitude()+180
		}
		window = render.ExtentWindow(engine, west, east)
		view = render.ProjectedExtent(engine, west, east, south, north)
		queries = a.extent.queryBounds()
	}
	if !usableView(view) {
		return nil, &ErrRenderFailure{Stage: StageProject, Overlay: -1,
			Err: fmt.Errorf("extent is not visible in %s", a.projection)}
	}

	out := &RenderedImage{
		ArtifactID: a.ID(),
		Projection: a.projection,
		Title:      a.title,
	}
	if a.extent != nil {
		ext := *a.extent
		out.Extent = &ext
	}

	labels := GridLabels{}
	if a.grid != nil {
		grid := a.grid.clone()
		out.Grid = &grid
		if grid.Labels.Any() {
			if labelsSupported(a.projection) {
				labels = grid.Labels
			} else {
				out.Warnings = append(out.Warnings, fmt.Sprintf(
					"grid labels are only drawn for equirectangular and mercator maps; skipped for %s", projName))
			}
		}
	}

	canvas := render.NewCanvas(a.size.Width, a.size.Height, view, c.margins(labels, a.title != ""))
	canvas.ClipToFrame()

	for i, o := range a.overlays {
		applied, err := c.drawOverlay(ctx, canvas, engine, window, o, a.extent, queries, i)
		if err != nil {
			return nil, err
		}
		out.Overlays = append(out.Overlays, applied)
	}

	if a.grid != nil {
		if err := drawGrid(ctx, canvas, engine, window, *a.grid, a.extent); err != nil {
			return nil, &ErrRenderFailure{Stage: StageDraw, Overlay: -1, Err: err}
		}
	}

	canvas.ResetClip()
	if a.extent != nil && !a.extent.Global() {
		canvas.StrokeFrame(outlineStyle)
	} else {
		canvas.DrawRing(engine.Boundary(), outlineStyle)
	}

	if labels.Any() {
		drawGridLabels(canvas, engine, window, *a.grid, a.extent, labels)
	}
	if a.title != "" {
		frame := canvas.Frame()
		canvas.DrawText(a.title, (frame.Min[0]+frame.Max[0])/2, frame.Min[1]-labelBand(labels.Top)-titleBandHeight/2, 0.5, 0.5, color.Black)
	}

	out.image = canvas.Image()

	c.log.Info("rendered map",
		zap.String("artifact", a.ID()),
		zap.Stringer("projection", a.projection),
		zap.Int("overlays", len(out.Overlays)),
		zap.Int("warnings", len(out.Warnings)),
		zap.Duration("elapsed", time.Since(start)))
	return out, nil
}

func (c *Composer) drawOverlay(ctx context.Context, canvas *render.Canvas, engine projection.Projection,
	window render.Window, o FeatureOverlayRequest, extent *Extent, queries []orb.Bound, index int) (AppliedOverlay, error) {

	if err := ctx.Err(); err != nil {
		return AppliedOverlay{}, &ErrRenderFailure{Stage: StageFetch, Overlay: index, Err: err}
	}

	resolution := ResolveResolution(o.Resolution, extent)
	resource := o.Category.Resource(resolution)
	layer, err := c.source.Layer(ctx, resource)
	if err != nil {
		return AppliedOverlay{}, &ErrRenderFailure{Stage: StageFetch, Overlay: index, Err: err}
	}
	if layer == nil {
		return AppliedOverlay{}, &ErrRenderFailure{Stage: StageFetch, Overlay: index,
			Err: fmt.Errorf("no data for %s", resource)}
	}

	features := layer.Query(queries...)
	style := o.Style.merge(o.Category.DefaultStyle()).canvasStyle()
	for n, f := range features {
		if n%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return AppliedOverlay{}, &ErrRenderFailure{Stage: StageDraw, Overlay: index, Err: err}
			}
		}
		drawGeometry(canvas, engine, window, f.Geometry, style)
	}

	metrics.OverlaysDrawn.WithLabelValues(o.Category.String()).Inc()
	c.log.Debug("drew overlay",
		zap.Int("index", index),
		zap.Stringer("category", o.Category),
		zap.Stringer("resolution", resolution),
		zap.Int("features", len(features)))

	return AppliedOverlay{
		Request:    o,
		Resolution: resolution,
		Resource:   resource,
		Features:   len(features),
	}, nil
}

func drawGeometry(canvas *render.Canvas, p projection.Projection, w render.Window, g orb.Geometry, style render.Style) {
	switch g := g.(type) {
	case orb.Polygon:
		for _, piece := range render.ProjectPolygon(p, g, w) {
			canvas.DrawPolygon(piece, style)
		}
	case orb.MultiPolygon:
		for _, poly := range g {
			drawGeometry(canvas, p, w, poly, style)
		}
	case orb.Ring:
		drawGeometry(canvas, p, w, orb.Polygon{g}, style)
	case orb.LineString:
		for _, part := range render.ProjectLineString(p, g, w) {
			canvas.DrawLine(part, style)
		}
	case orb.MultiLineString:
		for _, ls := range g {
			drawGeometry(canvas, p, w, ls, style)
		}
	case orb.Collection:
		for _, child := range g {
			drawGeometry(canvas, p, w, child, style)
		}
	}
}

// gridRange returns the geographic range the grid spans.
func gridRange(p projection.Projection, extent *Extent) (west, east, south, north float64) {
	if extent == nil || extent.Global() {
		// Stay off the seam so lines are not cut into slivers.
		lon0 := p.CentralLongitude()
		west, east, south, north = lon0-180+1e-6, lon0+180-1e-6, -90, 90
		if extent != nil {
			south, north = extent.South, extent.North
		}
		return west, east, south, north
	}
	return extent.Geographic()
}

func gridLines(g GridConfig, west, east, south, north float64) (lons, lats []float64) {
	lons = g.Longitudes
	if len(lons) == 0 {
		spacing := g.LongitudeSpacing
		if spacing == 0 {
			spacing = render.AutoSpacing(east - west)
		}
		lons = render.Locations(west, east, spacing)
	}
	lats = g.Latitudes
	if len(lats) == 0 {
		spacing := g.LatitudeSpacing
		if spacing == 0 {
			spacing = render.AutoSpacing(north - south)
		}
		lats = render.Locations(south, north, spacing)
	}
	return lons, lats
}

func drawGrid(ctx context.Context, canvas *render.Canvas, p projection.Projection, w render.Window, g GridConfig, extent *Extent) error {
	style := g.style().canvasStyle()
	west, east, south, north := gridRange(p, extent)
	lons, lats := gridLines(g, west, east, south, north)

	for _, lon := range lons {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, part := range render.ProjectLineString(p, render.Meridian(lon, south, north), w) {
			canvas.DrawLine(part, style)
		}
	}
	for _, lat := range lats {
		if err := ctx.Err(); err != nil {
			return err
		}
		if math.Abs(lat) >= 90 {
			continue
		}
		for _, part := range render.ProjectLineString(p, render.Parallel(lat, west, east), w) {
			canvas.DrawLine(part, style)
		}
	}
	return nil
}

// drawGridLabels labels meridians along the top and bottom edges and
// parallels along the left and right edges. Only used for projections where
// meridians and parallels are straight lines.
func drawGridLabels(canvas *render.Canvas, p projection.Projection, w render.Window, g GridConfig, extent *Extent, labels GridLabels) {
	west, east, south, north := gridRange(p, extent)
	lons, lats := gridLines(g, west, east, south, north)
	frame := canvas.Frame()
	const slack = 0.5

	midLat := (south + north) / 2
	for _, lon := range lons {
		x, y, _ := p.Project(w.Wrap(projection.RelativeLongitude(lon, p.CentralLongitude())), midLat)
		px, _ := canvas.ToPixel(x, y)
		if px < frame.Min[0]-slack || px > frame.Max[0]+slack {
			continue
		}
		text := render.LongitudeLabel(lon)
		if labels.Bottom {
			canvas.DrawText(text, px, frame.Max[1]+labelGap, 0.5, 1, color.Black)
		}
		if labels.Top {
			canvas.DrawText(text, px, frame.Min[1]-labelGap, 0.5, 0, color.Black)
		}
	}

	midLon := (west + east) / 2
	for _, lat := range lats {
		x, y, ok := p.Forward(midLon, lat)
		if !ok {
			continue
		}
		_, py := canvas.ToPixel(x, y)
		if py < frame.Min[1]-slack || py > frame.Max[1]+slack {
			continue
		}
		text := render.LatitudeLabel(lat)
		if labels.Left {
			canvas.DrawText(text, frame.Min[0]-labelGap, py, 1, 0.5, color.Black)
		}
		if labels.Right {
			canvas.DrawText(text, frame.Max[0]+labelGap, py, 0, 0.5, color.Black)
		}
	}
}

func labelsSupported(p ProjectionSpec) bool {
	switch p.Name() {
	case ProjEquirectangular, ProjMercator:
		return true
	}
	return false
}

func labelBand(on bool) float64 {
	if on {
		return labelBandHeight
	}
	return 0
}

func (c *Composer) margins(labels GridLabels, title bool) render.Margins {
	m := render.Margins{
		Top:    c.margin + labelBand(labels.Top),
		Bottom: c.margin + labelBand(labels.Bottom),
		Left:   c.margin,
		Right:  c.margin,
	}
	if labels.Left {
		m.Left += labelBandWidth
	}
	if labels.Right {
		m.Right += labelBandWidth
	}
	if title {
		m.Top += titleBandHeight
	}
	return m
}

func usableView(b orb.Bound) bool {
	for _, v := range []float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.Max[0] > b.Min[0] && b.Max[1] > b.Min[1]
}
