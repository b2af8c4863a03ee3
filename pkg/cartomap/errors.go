package cartomap

import (
	"fmt"
)

// ErrInvalidProjection indicates an unknown projection name or a parameter
// outside its domain.
type ErrInvalidProjection struct {
	Name   string
	Param  string // empty when the name itself is invalid
	Value  float64
	Reason string
}

func (e *ErrInvalidProjection) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("invalid projection %q: %s", e.Name, e.Reason)
	}
	return fmt.Sprintf("invalid projection %q: %s=%g: %s", e.Name, e.Param, e.Value, e.Reason)
}

// ErrInvalidExtent indicates an extent violating west < east, south < north
// or the latitude range.
type ErrInvalidExtent struct {
	West, East, South, North float64
	Reason                   string
}

func (e *ErrInvalidExtent) Error() string {
	return fmt.Sprintf("invalid extent (west=%g east=%g south=%g north=%g): %s",
		e.West, e.East, e.South, e.North, e.Reason)
}

// ErrInvalidSize indicates a negative or oversized surface.
type ErrInvalidSize struct {
	Width, Height int
}

func (e *ErrInvalidSize) Error() string {
	return fmt.Sprintf("invalid surface size %dx%d (each side must be 0..%d)", e.Width, e.Height, MaxSurfaceSide)
}

// ErrInvalidFeature indicates a malformed overlay request.
type ErrInvalidFeature struct {
	Category FeatureCategory
	Reason   string
}

func (e *ErrInvalidFeature) Error() string {
	return fmt.Sprintf("invalid %v overlay: %s", e.Category, e.Reason)
}

// ErrInvalidGrid indicates a malformed grid configuration.
type ErrInvalidGrid struct {
	Reason string
}

func (e *ErrInvalidGrid) Error() string {
	return "invalid grid: " + e.Reason
}

// Render stages reported by ErrRenderFailure.
const (
	StageProject = "project"
	StageFetch   = "fetch"
	StageDraw    = "draw"
	StageEncode  = "encode"
)

// ErrRenderFailure wraps a failure raised while rendering. The underlying
// error is available through errors.Unwrap, errors.Is and errors.As.
type ErrRenderFailure struct {
	Stage   string
	Overlay int // index into the overlay sequence, -1 when not overlay-specific
	Err     error
}

func (e *ErrRenderFailure) Error() string {
	if e.Overlay >= 0 {
		return fmt.Sprintf("render failed at %s (overlay %d): %v", e.Stage, e.Overlay, e.Err)
	}
	return fmt.Sprintf("render failed at %s: %v", e.Stage, e.Err)
}

func (e *ErrRenderFailure) Unwrap() error {
	return e.Err
}
