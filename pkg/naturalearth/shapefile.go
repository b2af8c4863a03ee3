package naturalearth

import (
	"archive/zip"
	"errors"
	"fmt"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
)

// shapeReader is the common surface of shp.Reader and shp.ZipReader.
type shapeReader interface {
	Next() bool
	Shape() (int, shp.Shape)
	Err() error
	Close() error
}

// OpenLayer decodes a shapefile into an indexed layer. path is either a
// .shp file or a .zip archive holding exactly one shapefile with its .dbf.
func OpenLayer(resource Resource, path string) (layer *Layer, err error) {
	// go-shp panics on some corrupt inputs.
	defer func() {
		if v := recover(); v != nil {
			layer, err = nil, &ErrMalformedShapefile{Path: path, Err: fmt.Errorf("decoder panic: %v", v)}
		}
	}()

	var r shapeReader
	if strings.HasSuffix(strings.ToLower(path), ".zip") {
		if err := checkArchive(path); err != nil {
			return nil, &ErrMalformedShapefile{Path: path, Err: err}
		}
		r, err = shp.OpenZip(path)
	} else {
		r, err = shp.Open(path)
	}
	if err != nil {
		return nil, &ErrMalformedShapefile{Path: path, Err: err}
	}
	defer r.Close()

	var geometries []orb.Geometry
	for r.Next() {
		n, shape := r.Shape()
		for len(geometries) <= n {
			geometries = append(geometries, nil)
		}
		geometries[n] = convertShape(shape)
	}
	if err := r.Err(); err != nil {
		return nil, &ErrMalformedShapefile{Path: path, Err: err}
	}

	return NewLayer(resource, geometries), nil
}

// checkArchive verifies that a zip holds a single .shp and the .dbf that
// shp.OpenZip reads alongside it. Names are matched the way go-shp does.
func checkArchive(path string) error {
	z, err := zip.OpenReader(path)
	if err != nil {
		return err
	}
	defer z.Close()

	members := make(map[string]bool, len(z.File))
	var shapes []string
	for _, f := range z.File {
		members[f.Name] = true
		if strings.HasSuffix(strings.ToLower(f.Name), ".shp") {
			shapes = append(shapes, f.Name)
		}
	}
	switch len(shapes) {
	case 0:
		return errors.New("archive holds no .shp file")
	case 1:
	default:
		return fmt.Errorf("archive holds %d .shp files", len(shapes))
	}
	dbf := strings.TrimSuffix(shapes[0], ".shp") + ".dbf"
	if !members[dbf] {
		return fmt.Errorf("archive is missing %s", dbf)
	}
	return nil
}

// convertShape maps a shapefile record onto an orb geometry. Unsupported
// and null shapes return nil.
func convertShape(shape shp.Shape) orb.Geometry {
	switch s := shape.(type) {
	case *shp.Point:
		return orb.Point{s.X, s.Y}
	case *shp.MultiPoint:
		mp := make(orb.MultiPoint, len(s.Points))
		for i, p := range s.Points {
			mp[i] = orb.Point{p.X, p.Y}
		}
		return mp
	case *shp.PolyLine:
		return polyLineToOrb(s.Parts, s.Points)
	case *shp.PolyLineZ:
		return polyLineToOrb(s.Parts, s.Points)
	case *shp.Polygon:
		return polygonToOrb(s.Parts, s.Points)
	case *shp.PolygonZ:
		return polygonToOrb(s.Parts, s.Points)
	}
	return nil
}

// splitParts slices a flat point array into parts using start offsets.
func splitParts(parts []int32, points []shp.Point) [][]orb.Point {
	out := make([][]orb.Point, 0, len(parts))
	for i, start := range parts {
		end := int32(len(points))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		if start < 0 || end > int32(len(points)) || start >= end {
			continue
		}
		part := make([]orb.Point, 0, end-start)
		for _, p := range points[start:end] {
			part = append(part, orb.Point{p.X, p.Y})
		}
		out = append(out, part)
	}
	return out
}

func polyLineToOrb(parts []int32, points []shp.Point) orb.Geometry {
	lines := splitParts(parts, points)
	switch len(lines) {
	case 0:
		return nil
	case 1:
		return orb.LineString(lines[0])
	}
	mls := make(orb.MultiLineString, len(lines))
	for i, l := range lines {
		mls[i] = orb.LineString(l)
	}
	return mls
}

// polygonToOrb groups shapefile rings into polygons. Outer rings are
// clockwise; counter-clockwise rings are holes of the preceding outer ring.
func polygonToOrb(parts []int32, points []shp.Point) orb.Geometry {
	var mp orb.MultiPolygon
	for _, part := range splitParts(parts, points) {
		ring := orb.Ring(part)
		if len(ring) < 3 {
			continue
		}
		if !ring.Closed() {
			ring = append(ring, ring[0])
		}
		if ring.Orientation() == orb.CCW && len(mp) > 0 {
			last := len(mp) - 1
			mp[last] = append(mp[last], ring)
			continue
		}
		mp = append(mp, orb.Polygon{ring})
	}
	switch len(mp) {
	case 0:
		return nil
	case 1:
		return mp[0]
	}
	return mp
}

// ErrMalformedShapefile reports a shapefile that could not be decoded.
type ErrMalformedShapefile struct {
	Path string
	Err  error
}

func (e *ErrMalformedShapefile) Error() string {
	return fmt.Sprintf("malformed shapefile %s: %v", e.Path, e.Err)
}

func (e *ErrMalformedShapefile) Unwrap() error {
	return e.Err
}
