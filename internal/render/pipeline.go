package render

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"

	"github.com/beetlebugorg/cartomap/internal/projection"
)

// maxStep is the largest geographic distance, in degrees, between two
// consecutive vertices before projecting. Curved projections need dense
// input for straight geographic edges to bend correctly.
const maxStep = 1.0

// Window is the 360° range of longitudes, relative to the central meridian,
// that a seamed projection draws. Geometry is cut at its edges before
// projecting.
type Window struct {
	West, East float64
}

// WorldWindow covers the globe, cut at the seam opposite the central
// meridian.
var WorldWindow = Window{West: -180, East: 180}

// ExtentWindow returns the window centred on a geographic rectangle, so the
// cut falls opposite it. west and east are absolute longitudes with
// east > west; east may exceed 180.
func ExtentWindow(p projection.Projection, west, east float64) Window {
	dwest := projection.RelativeLongitude(west, p.CentralLongitude())
	if dwest > 180-1e-9 && east > west {
		dwest -= 360
	}
	mid := dwest + math.Min(east-west, 360)/2
	return Window{West: mid - 180, East: mid + 180}
}

// Wrap shifts a relative longitude by whole turns into the window.
// Longitudes the window does not cover are returned unchanged.
func (w Window) Wrap(dlon float64) float64 {
	for _, offset := range []float64{0, 360, -360} {
		if v := dlon + offset; v >= w.West && v <= w.East {
			return v
		}
	}
	return dlon
}

func (w Window) bound() orb.Bound {
	return orb.Bound{Min: orb.Point{w.West, -90}, Max: orb.Point{w.East, 90}}
}

// seamOffsets are the longitude translations tried when cutting a geometry
// at the window edges.
var seamOffsets = []float64{-360, 0, 360}

// ProjectPolygon converts a geographic polygon into projected polygons.
//
// For seamed projections the polygon is rotated to the central meridian,
// unwrapped and cut to the window before projecting, so a polygon crossing
// a window edge yields one piece per side. Azimuthal projections ignore the
// window.
func ProjectPolygon(p projection.Projection, poly orb.Polygon, w Window) []orb.Polygon {
	if len(poly) == 0 || len(poly[0]) < 3 {
		return nil
	}
	if p.Azimuthal() {
		out := make(orb.Polygon, 0, len(poly))
		for _, ring := range poly {
			out = append(out, forwardRing(p, densifyRing(unwrap(ring, 0))))
		}
		return []orb.Polygon{out}
	}

	rel := make(orb.Polygon, 0, len(poly))
	for _, ring := range poly {
		rel = append(rel, closePolarRing(unwrap(ring, p.CentralLongitude())))
	}

	window := w.bound()
	var pieces []orb.Polygon
	for _, offset := range seamOffsets {
		shifted := translate(rel, offset)
		if !shifted.Bound().Intersects(window) {
			continue
		}
		clipped := clip.Polygon(window, shifted)
		if len(clipped) == 0 || len(clipped[0]) < 3 {
			continue
		}
		piece := make(orb.Polygon, 0, len(clipped))
		for _, ring := range clipped {
			if len(ring) < 3 {
				continue
			}
			piece = append(piece, projectRing(p, densifyRing(ring)))
		}
		pieces = append(pieces, piece)
	}
	return pieces
}

// ProjectLineString converts a geographic line into projected lines.
//
// Lines are cut to the window for seamed projections and broken wherever
// they leave the visible part of the globe.
func ProjectLineString(p projection.Projection, ls orb.LineString, w Window) []orb.LineString {
	if len(ls) < 2 {
		return nil
	}
	if p.Azimuthal() {
		return forwardLine(p, densifyLine(orb.LineString(unwrap(orb.Ring(ls), 0))))
	}

	window := w.bound()
	rel := orb.LineString(unwrap(orb.Ring(ls), p.CentralLongitude()))
	var out []orb.LineString
	for _, offset := range seamOffsets {
		shifted := make(orb.LineString, len(rel))
		for i, pt := range rel {
			shifted[i] = orb.Point{pt[0] + offset, pt[1]}
		}
		if !shifted.Bound().Intersects(window) {
			continue
		}
		for _, part := range clip.LineString(window, shifted) {
			if len(part) < 2 {
				continue
			}
			out = append(out, projectLine(p, densifyLine(part))...)
		}
	}
	return out
}

// unwrap rotates a ring to be relative to lon0 and removes jumps larger
// than 180° between consecutive vertices.
func unwrap(ring orb.Ring, lon0 float64) orb.Ring {
	out := make(orb.Ring, len(ring))
	prev := 0.0
	for i, pt := range ring {
		lon := projection.RelativeLongitude(pt[0], lon0)
		if i > 0 {
			for lon-prev > 180 {
				lon -= 360
			}
			for lon-prev < -180 {
				lon += 360
			}
		}
		out[i] = orb.Point{lon, pt[1]}
		prev = lon
	}
	return out
}

// closePolarRing closes a ring that encircles a pole. After unwrapping
// such a ring ends a full turn away from its start; it is closed through
// the nearer pole.
func closePolarRing(ring orb.Ring) orb.Ring {
	if len(ring) < 2 {
		return ring
	}
	first, last := ring[0], ring[len(ring)-1]
	if math.Abs(last[0]-first[0]) < 180 {
		return ring
	}

	var sum float64
	for _, pt := range ring {
		sum += pt[1]
	}
	pole := 90.0
	if sum < 0 {
		pole = -90
	}
	ring = append(ring, orb.Point{last[0], pole}, orb.Point{first[0], pole}, first)
	return ring
}

func translate(poly orb.Polygon, dlon float64) orb.Polygon {
	out := make(orb.Polygon, len(poly))
	for i, ring := range poly {
		r := make(orb.Ring, len(ring))
		for j, pt := range ring {
			r[j] = orb.Point{pt[0] + dlon, pt[1]}
		}
		out[i] = r
	}
	return out
}

func densifyLine(ls orb.LineString) orb.LineString {
	if len(ls) < 2 {
		return ls
	}
	out := make(orb.LineString, 0, len(ls))
	out = append(out, ls[0])
	for i := 1; i < len(ls); i++ {
		a, b := ls[i-1], ls[i]
		d := math.Max(math.Abs(b[0]-a[0]), math.Abs(b[1]-a[1]))
		if n := int(math.Ceil(d / maxStep)); n > 1 {
			for k := 1; k < n; k++ {
				t := float64(k) / float64(n)
				out = append(out, orb.Point{a[0] + (b[0]-a[0])*t, a[1] + (b[1]-a[1])*t})
			}
		}
		out = append(out, b)
	}
	return out
}

func densifyRing(r orb.Ring) orb.Ring {
	return orb.Ring(densifyLine(orb.LineString(r)))
}

// projectRing projects relative coordinates of a seam-cut ring.
func projectRing(p projection.Projection, r orb.Ring) orb.Ring {
	out := make(orb.Ring, len(r))
	for i, pt := range r {
		x, y, _ := p.Project(pt[0], pt[1])
		out[i] = orb.Point{x, y}
	}
	return out
}

// forwardRing projects absolute coordinates, clamping invisible vertices.
func forwardRing(p projection.Projection, r orb.Ring) orb.Ring {
	out := make(orb.Ring, len(r))
	for i, pt := range r {
		x, y, _ := p.Forward(pt[0], pt[1])
		out[i] = orb.Point{x, y}
	}
	return out
}

// projectLine projects relative coordinates and splits at invisible runs.
func projectLine(p projection.Projection, ls orb.LineString) []orb.LineString {
	return splitVisible(ls, p.Project)
}

func forwardLine(p projection.Projection, ls orb.LineString) []orb.LineString {
	return splitVisible(ls, p.Forward)
}

func splitVisible(ls orb.LineString, fn func(lon, lat float64) (float64, float64, bool)) []orb.LineString {
	var out []orb.LineString
	var cur orb.LineString
	for _, pt := range ls {
		x, y, ok := fn(pt[0], pt[1])
		if !ok {
			if len(cur) >= 2 {
				out = append(out, cur)
			}
			cur = nil
			continue
		}
		cur = append(cur, orb.Point{x, y})
	}
	if len(cur) >= 2 {
		out = append(out, cur)
	}
	return out
}

// ProjectedExtent returns the projected envelope of a geographic rectangle.
// west and east are absolute longitudes with east > west; the rectangle may
// extend past ±180.
func ProjectedExtent(p projection.Projection, west, east, south, north float64) orb.Bound {
	b := orb.Bound{Min: orb.Point{math.Inf(1), math.Inf(1)}, Max: orb.Point{math.Inf(-1), math.Inf(-1)}}
	extend := func(x, y float64, ok bool) {
		if ok && !math.IsNaN(x) && !math.IsNaN(y) {
			b = b.Extend(orb.Point{x, y})
		}
	}

	dwest := projection.RelativeLongitude(west, p.CentralLongitude())
	if dwest > 180-1e-9 && east > west {
		dwest -= 360
	}
	deast := dwest + (east - west)

	steps := int(math.Max(math.Ceil(math.Max(deast-dwest, north-south)/0.5), 2))
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		dlon := dwest + (deast-dwest)*t
		lat := south + (north-south)*t
		extend(p.Project(dlon, south))
		extend(p.Project(dlon, north))
		extend(p.Project(dwest, lat))
		extend(p.Project(deast, lat))
	}
	// Interior points matter for conic and azimuthal projections, where
	// the envelope can bulge past the edges.
	for i := 0; i <= 8; i++ {
		for j := 0; j <= 8; j++ {
			extend(p.Project(dwest+(deast-dwest)*float64(i)/8, south+(north-south)*float64(j)/8))
		}
	}
	return b
}
