package cartomap

import (
	"github.com/google/uuid"
)

// Size is a surface size in pixels. The zero Size takes the composer's
// default.
type Size struct {
	Width, Height int
}

// MaxSurfaceSide bounds each side of a surface, in pixels.
const MaxSurfaceSide = 16384

// MapArtifact is a map being composed: a projection-bound surface, an
// optional extent, ordered overlays, an optional grid and title.
//
// An artifact is configured through a Composer and may be rendered any
// number of times; configuration may continue after a render. It must not
// be used from more than one goroutine at a time.
type MapArtifact struct {
	id         uuid.UUID
	projection ProjectionSpec
	size       Size
	extent     *Extent
	overlays   []FeatureOverlayRequest
	grid       *GridConfig
	title      string
}

// ID returns the artifact's unique identifier.
func (a *MapArtifact) ID() string {
	return a.id.String()
}

// Projection returns the projection the surface is bound to.
func (a *MapArtifact) Projection() ProjectionSpec {
	return a.projection
}

// Size returns the surface size in pixels.
func (a *MapArtifact) Size() Size {
	return a.size
}

// Extent returns the restricted extent, if any.
func (a *MapArtifact) Extent() (Extent, bool) {
	if a.extent == nil {
		return Extent{}, false
	}
	return *a.extent, true
}

// Overlays returns the overlay sequence in append order.
func (a *MapArtifact) Overlays() []FeatureOverlayRequest {
	out := make([]FeatureOverlayRequest, len(a.overlays))
	copy(out, a.overlays)
	return out
}

// Grid returns the grid configuration, if any.
func (a *MapArtifact) Grid() (GridConfig, bool) {
	if a.grid == nil {
		return GridConfig{}, false
	}
	return a.grid.clone(), true
}

// Title returns the map title.
func (a *MapArtifact) Title() string {
	return a.title
}
