package cartomap

import (
	"fmt"
	"strings"

	"github.com/beetlebugorg/cartomap/pkg/naturalearth"
)

// FeatureCategory is a cartographic feature drawn from Natural Earth data.
type FeatureCategory int

const (
	Coastline FeatureCategory = iota + 1
	Border                    // country boundaries on land
	State                     // state and province boundaries
	Land
	Ocean
	Lake
	River
)

// Resolution selects the Natural Earth scale of an overlay.
type Resolution int

const (
	// Auto picks a scale from the extent at render time.
	Auto Resolution = iota
	Coarse
	Medium
	Fine
)

// Auto-resolution thresholds: the larger side of the extent, in degrees.
const (
	MediumResolutionSpan = 50.0
	FineResolutionSpan   = 15.0
)

// locator ties a category to its dataset and default appearance.
type locator struct {
	name      string
	theme     naturalearth.Theme
	dataset   string
	polygonal bool
	style     Style
}

var categoryTable = map[FeatureCategory]locator{
	Coastline: {"coastline", naturalearth.ThemePhysical, "coastline", false,
		Style{LineWidth: 1, EdgeColor: mustColor("black"), FaceColor: None}},
	Border: {"border", naturalearth.ThemeCultural, "admin_0_boundary_lines_land", false,
		Style{LineWidth: 1, EdgeColor: mustColor("black"), FaceColor: None}},
	State: {"state", naturalearth.ThemeCultural, "admin_1_states_provinces_lakes", false,
		Style{LineWidth: 0.5, EdgeColor: mustColor("black"), FaceColor: None}},
	Land: {"land", naturalearth.ThemePhysical, "land", true,
		Style{LineWidth: 0.5, EdgeColor: None, FaceColor: mustColor("land")}},
	Ocean: {"ocean", naturalearth.ThemePhysical, "ocean", true,
		Style{LineWidth: 0.5, EdgeColor: None, FaceColor: mustColor("water")}},
	Lake: {"lake", naturalearth.ThemePhysical, "lakes", true,
		Style{LineWidth: 0.5, EdgeColor: mustColor("water"), FaceColor: mustColor("water")}},
	River: {"river", naturalearth.ThemePhysical, "rivers_lake_centerlines", false,
		Style{LineWidth: 0.5, EdgeColor: mustColor("water"), FaceColor: None}},
}

// Categories lists every feature category in declaration order.
func Categories() []FeatureCategory {
	return []FeatureCategory{Coastline, Border, State, Land, Ocean, Lake, River}
}

func (c FeatureCategory) String() string {
	if loc, ok := categoryTable[c]; ok {
		return loc.name
	}
	return fmt.Sprintf("FeatureCategory(%d)", int(c))
}

// Valid reports whether c is a known category.
func (c FeatureCategory) Valid() bool {
	_, ok := categoryTable[c]
	return ok
}

// ParseFeatureCategory parses a category name. "borders", "states",
// "stateBoundary", "lakes" and "rivers" are accepted aliases.
func ParseFeatureCategory(s string) (FeatureCategory, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "coastline", "coastlines":
		return Coastline, nil
	case "border", "borders":
		return Border, nil
	case "state", "states", "stateboundary", "state-boundary":
		return State, nil
	case "land":
		return Land, nil
	case "ocean":
		return Ocean, nil
	case "lake", "lakes":
		return Lake, nil
	case "river", "rivers":
		return River, nil
	}
	return 0, fmt.Errorf("unknown feature category %q", s)
}

// DefaultStyle returns the category's default style.
func (c FeatureCategory) DefaultStyle() Style {
	return categoryTable[c].style
}

// Polygonal reports whether the category's data are filled areas.
func (c FeatureCategory) Polygonal() bool {
	return categoryTable[c].polygonal
}

// Resource returns the Natural Earth dataset for the category at a pinned
// resolution. Auto is treated as Coarse.
func (c FeatureCategory) Resource(r Resolution) naturalearth.Resource {
	loc := categoryTable[c]
	return naturalearth.Resource{Scale: r.Scale(), Theme: loc.theme, Name: loc.dataset}
}

func (r Resolution) String() string {
	switch r {
	case Auto:
		return "auto"
	case Coarse:
		return "110m"
	case Medium:
		return "50m"
	case Fine:
		return "10m"
	}
	return fmt.Sprintf("Resolution(%d)", int(r))
}

// Valid reports whether r is a known resolution.
func (r Resolution) Valid() bool {
	return r >= Auto && r <= Fine
}

// Scale returns the Natural Earth scale. Auto maps to the coarsest.
func (r Resolution) Scale() naturalearth.Scale {
	switch r {
	case Medium:
		return naturalearth.Scale50m
	case Fine:
		return naturalearth.Scale10m
	}
	return naturalearth.Scale110m
}

// ParseResolution parses auto, coarse/110m, medium/50m or fine/10m.
func ParseResolution(s string) (Resolution, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return Auto, nil
	case "coarse", "110m":
		return Coarse, nil
	case "medium", "50m":
		return Medium, nil
	case "fine", "10m":
		return Fine, nil
	}
	return Auto, fmt.Errorf("unknown resolution %q", s)
}

// ResolveResolution pins Auto against an optional extent: no extent gives
// Coarse; an extent whose larger side is under FineResolutionSpan gives
// Fine, under MediumResolutionSpan gives Medium, otherwise Coarse. Pinned
// resolutions are returned unchanged.
func ResolveResolution(r Resolution, extent *Extent) Resolution {
	if r != Auto {
		return r
	}
	if extent == nil {
		return Coarse
	}
	lon, lat := extent.Span()
	switch span := max(lon, lat); {
	case span < FineResolutionSpan:
		return Fine
	case span < MediumResolutionSpan:
		return Medium
	}
	return Coarse
}

// FeatureOverlayRequest asks for one category to be drawn. Overlays are
// drawn in the order they were added.
type FeatureOverlayRequest struct {
	Category   FeatureCategory
	Resolution Resolution
	Style      Style
}

// Feature returns a request for a category at Auto resolution with the
// default style.
func Feature(c FeatureCategory) FeatureOverlayRequest {
	return FeatureOverlayRequest{Category: c}
}

// At returns a copy pinned to a resolution.
func (r FeatureOverlayRequest) At(res Resolution) FeatureOverlayRequest {
	r.Resolution = res
	return r
}

// WithStyle returns a copy with a style override.
func (r FeatureOverlayRequest) WithStyle(s Style) FeatureOverlayRequest {
	r.Style = s
	return r
}

// Validate checks the category, resolution and style ranges.
func (r FeatureOverlayRequest) Validate() error {
	if !r.Category.Valid() {
		return &ErrInvalidFeature{Category: r.Category, Reason: "unknown category"}
	}
	if !r.Resolution.Valid() {
		return &ErrInvalidFeature{Category: r.Category, Reason: "unknown resolution " + r.Resolution.String()}
	}
	if reason := r.Style.validate(); reason != "" {
		return &ErrInvalidFeature{Category: r.Category, Reason: reason}
	}
	return nil
}
