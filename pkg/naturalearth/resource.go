// Package naturalearth fetches, caches and indexes Natural Earth vector
// datasets.
//
// Datasets are distributed as zipped shapefiles at three scales. A Provider
// downloads a dataset on first use into a local cache directory, decodes it
// into orb geometries, indexes it with an R-tree and keeps decoded layers in
// a bounded in-memory LRU cache.
//
// Basic usage:
//
//	provider, err := naturalearth.NewProvider(naturalearth.DefaultProviderOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	land := naturalearth.Resource{Scale: naturalearth.Scale110m, Theme: naturalearth.ThemePhysical, Name: "land"}
//	layer, err := provider.Layer(ctx, land)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	europe := orb.Bound{Min: orb.Point{-25, 34}, Max: orb.Point{45, 72}}
//	for _, f := range layer.Query(europe) {
//	    fmt.Println(f.Index, f.Geometry.GeoJSONType())
//	}
package naturalearth

import (
	"fmt"
	"strings"
)

// DefaultBaseURL is the public Natural Earth download mirror.
const DefaultBaseURL = "https://naturalearth.s3.amazonaws.com"

// Scale is a Natural Earth resolution tier.
type Scale string

const (
	Scale110m Scale = "110m" // ≈1:110,000,000
	Scale50m  Scale = "50m"  // ≈1:50,000,000
	Scale10m  Scale = "10m"  // ≈1:10,000,000
)

// Scales lists the tiers from coarsest to finest.
var Scales = []Scale{Scale110m, Scale50m, Scale10m}

// ParseScale parses "110m", "50m" or "10m".
func ParseScale(s string) (Scale, error) {
	for _, sc := range Scales {
		if strings.EqualFold(s, string(sc)) {
			return sc, nil
		}
	}
	return "", fmt.Errorf("unknown scale %q (want 110m, 50m or 10m)", s)
}

// Theme is a Natural Earth dataset theme.
type Theme string

const (
	ThemePhysical Theme = "physical"
	ThemeCultural Theme = "cultural"
)

// Resource identifies one Natural Earth dataset at one scale.
type Resource struct {
	Scale Scale
	Theme Theme
	Name  string // e.g. "coastline", "admin_0_boundary_lines_land"
}

// Key returns the dataset file stem, e.g. "ne_110m_coastline".
func (r Resource) Key() string {
	return "ne_" + string(r.Scale) + "_" + r.Name
}

// URL returns the download location of the zipped shapefile under base.
func (r Resource) URL(base string) string {
	if base == "" {
		base = DefaultBaseURL
	}
	return fmt.Sprintf("%s/%s_%s/%s.zip", strings.TrimRight(base, "/"), r.Scale, r.Theme, r.Key())
}

// Validate checks that the resource names a scale, theme and dataset.
func (r Resource) Validate() error {
	if _, err := ParseScale(string(r.Scale)); err != nil {
		return err
	}
	if r.Theme != ThemePhysical && r.Theme != ThemeCultural {
		return fmt.Errorf("unknown theme %q", r.Theme)
	}
	if r.Name == "" || strings.ContainsAny(r.Name, `/\.`) {
		return fmt.Errorf("invalid dataset name %q", r.Name)
	}
	return nil
}

func (r Resource) String() string {
	return string(r.Theme) + "/" + r.Key()
}
