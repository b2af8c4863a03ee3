package naturalearth

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// minExtent keeps degenerate bounds (points, vertical lines) valid for the
// R-tree, which rejects zero-length sides.
const minExtent = 1e-9

// Feature is one decoded shape of a layer.
type Feature struct {
	Index    int // record order in the source shapefile
	Geometry orb.Geometry
}

// Layer is a decoded dataset with a spatial index over its features.
//
// A Layer is immutable after construction and safe for concurrent queries.
type Layer struct {
	resource Resource
	features []Feature
	vertices int
	bound    orb.Bound
	rtree    *rtreego.Rtree
}

// indexedFeature adapts a Feature to rtreego.Spatial.
type indexedFeature struct {
	feature *Feature
	rect    rtreego.Rect
}

func (f *indexedFeature) Bounds() rtreego.Rect {
	return f.rect
}

// NewLayer builds an indexed layer from geometries in record order. Nil
// geometries are skipped but keep their record index.
func NewLayer(resource Resource, geometries []orb.Geometry) *Layer {
	l := &Layer{resource: resource}

	objs := make([]rtreego.Spatial, 0, len(geometries))
	first := true
	for i, g := range geometries {
		if g == nil {
			continue
		}
		l.features = append(l.features, Feature{Index: i, Geometry: g})
		l.vertices += countVertices(g)
	}
	for i := range l.features {
		f := &l.features[i]
		b := f.Geometry.Bound()
		if first {
			l.bound = b
			first = false
		} else {
			l.bound = l.bound.Union(b)
		}
		objs = append(objs, &indexedFeature{feature: f, rect: boundToRect(b)})
	}

	// Bulk load; branching factors match typical layer sizes (tens to
	// thousands of features).
	l.rtree = rtreego.NewTree(2, 25, 50, objs...)
	return l
}

// Resource returns the dataset the layer was decoded from.
func (l *Layer) Resource() Resource {
	return l.resource
}

// Len returns the number of features.
func (l *Layer) Len() int {
	return len(l.features)
}

// Features returns all features in record order.
func (l *Layer) Features() []Feature {
	out := make([]Feature, len(l.features))
	copy(out, l.features)
	return out
}

// Bound returns the geographic envelope of all features.
func (l *Layer) Bound() orb.Bound {
	return l.bound
}

// Vertices returns the total vertex count.
func (l *Layer) Vertices() int {
	return l.vertices
}

// Query returns features whose envelope intersects any of the given bounds,
// in record order and without duplicates. With no bounds it returns every
// feature.
//
// Example:
//
//	conus := orb.Bound{Min: orb.Point{-125, 24}, Max: orb.Point{-66, 50}}
//	features := layer.Query(conus)
func (l *Layer) Query(bounds ...orb.Bound) []Feature {
	if len(bounds) == 0 {
		return l.Features()
	}

	seen := make(map[int]struct{})
	var out []Feature
	for _, b := range bounds {
		for _, obj := range l.rtree.SearchIntersect(boundToRect(b)) {
			f := obj.(*indexedFeature).feature
			if _, dup := seen[f.Index]; dup {
				continue
			}
			seen[f.Index] = struct{}{}
			out = append(out, *f)
		}
	}

	// R-tree traversal order depends on insertion; callers need a stable
	// drawing order.
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

func boundToRect(b orb.Bound) rtreego.Rect {
	point := rtreego.Point{b.Min[0], b.Min[1]}
	lengths := []float64{
		max(b.Max[0]-b.Min[0], minExtent),
		max(b.Max[1]-b.Min[1], minExtent),
	}
	rect, _ := rtreego.NewRect(point, lengths)
	return rect
}

func countVertices(g orb.Geometry) int {
	switch g := g.(type) {
	case orb.Point:
		return 1
	case orb.MultiPoint:
		return len(g)
	case orb.LineString:
		return len(g)
	case orb.MultiLineString:
		n := 0
		for _, ls := range g {
			n += len(ls)
		}
		return n
	case orb.Ring:
		return len(g)
	case orb.Polygon:
		n := 0
		for _, r := range g {
			n += len(r)
		}
		return n
	case orb.MultiPolygon:
		n := 0
		for _, p := range g {
			n += countVertices(p)
		}
		return n
	case orb.Collection:
		n := 0
		for _, c := range g {
			n += countVertices(c)
		}
		return n
	}
	return 0
}
