// Package recipe describes maps in YAML and drives a composer from them.
//
// A recipe file holds one or more YAML documents, each describing a map:
//
//	name: north-america
//	projection:
//	  name: lambert-conformal
//	  params: {central_longitude: -96, central_latitude: 39}
//	region: north-america
//	features:
//	  - category: land
//	  - category: border
//	    resolution: 50m
//	    edge_color: "#555555"
//	grid:
//	  labels: [bottom, left]
//	output: north-america.png
package recipe

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/beetlebugorg/cartomap/pkg/cartomap"
)

// Recipe is one map definition.
type Recipe struct {
	Name       string          `yaml:"name"`
	Projection ProjectionEntry `yaml:"projection"`
	Width      int             `yaml:"width,omitempty"`
	Height     int             `yaml:"height,omitempty"`
	Title      string          `yaml:"title,omitempty"`
	Region     string          `yaml:"region,omitempty"`
	Extent     *ExtentEntry    `yaml:"extent,omitempty"`
	Features   []FeatureEntry  `yaml:"features"`
	Grid       *GridEntry      `yaml:"grid,omitempty"`
	Output     string          `yaml:"output,omitempty"`
}

// ProjectionEntry names a projection and its parameters.
type ProjectionEntry struct {
	Name   string             `yaml:"name"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// ExtentEntry is a longitude/latitude rectangle. CentralLongitude shifts the
// frame the longitudes are given in.
type ExtentEntry struct {
	West             float64 `yaml:"west"`
	East             float64 `yaml:"east"`
	South            float64 `yaml:"south"`
	North            float64 `yaml:"north"`
	CentralLongitude float64 `yaml:"central_longitude,omitempty"`
}

// FeatureEntry is one overlay. Empty fields take the category defaults.
type FeatureEntry struct {
	Category   string  `yaml:"category"`
	Resolution string  `yaml:"resolution,omitempty"`
	LineWidth  float64 `yaml:"line_width,omitempty"`
	EdgeColor  string  `yaml:"edge_color,omitempty"`
	FaceColor  string  `yaml:"face_color,omitempty"`
	LineStyle  string  `yaml:"line_style,omitempty"`
	Opacity    float64 `yaml:"opacity,omitempty"`
}

// GridEntry configures the coordinate grid. Labels lists the edges to label.
type GridEntry struct {
	LineWidth        float64   `yaml:"line_width,omitempty"`
	Color            string    `yaml:"color,omitempty"`
	LineStyle        string    `yaml:"line_style,omitempty"`
	Opacity          float64   `yaml:"opacity,omitempty"`
	LongitudeSpacing float64   `yaml:"longitude_spacing,omitempty"`
	LatitudeSpacing  float64   `yaml:"latitude_spacing,omitempty"`
	Longitudes       []float64 `yaml:"longitudes,omitempty"`
	Latitudes        []float64 `yaml:"latitudes,omitempty"`
	Labels           []string  `yaml:"labels,omitempty"`
}

// ErrRecipe reports a recipe that could not be decoded or applied.
type ErrRecipe struct {
	Recipe string // name or position
	Field  string
	Err    error
}

func (e *ErrRecipe) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("recipe %s: %s: %v", e.Recipe, e.Field, e.Err)
	}
	return fmt.Sprintf("recipe %s: %v", e.Recipe, e.Err)
}

func (e *ErrRecipe) Unwrap() error {
	return e.Err
}

// Decode reads every YAML document from r.
func Decode(r io.Reader) ([]Recipe, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var out []Recipe
	for {
		var rec Recipe
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ErrRecipe{Recipe: fmt.Sprintf("#%d", len(out)+1), Err: err}
		}
		if rec.Name == "" {
			rec.Name = fmt.Sprintf("map-%d", len(out)+1)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Load decodes a recipe file. Recipes without an output path write next to
// the file, named after the recipe.
func Load(path string) ([]Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recipe: %w", err)
	}
	defer f.Close()

	recipes, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i := range recipes {
		if recipes[i].Output == "" {
			recipes[i].Output = filepath.Join(dir, recipes[i].Name+".png")
		} else if !filepath.IsAbs(recipes[i].Output) {
			recipes[i].Output = filepath.Join(dir, recipes[i].Output)
		}
	}
	return recipes, nil
}

// Apply creates an artifact and configures it in recipe order: surface,
// extent, features, grid, title. Composer validation errors are returned
// wrapped in ErrRecipe and stay reachable with errors.As.
func Apply(c *cartomap.Composer, r Recipe) (*cartomap.MapArtifact, error) {
	fail := func(field string, err error) error {
		return &ErrRecipe{Recipe: r.Name, Field: field, Err: err}
	}

	name := r.Projection.Name
	if name == "" {
		name = string(cartomap.ProjEquirectangular)
	}
	proj, err := cartomap.ParseProjection(name, r.Projection.Params)
	if err != nil {
		return nil, fail("projection", err)
	}

	m, err := c.CreateSurface(proj, cartomap.Size{Width: r.Width, Height: r.Height})
	if err != nil {
		return nil, fail("size", err)
	}

	switch {
	case r.Region != "" && r.Extent != nil:
		return nil, fail("extent", errors.New("region and extent are mutually exclusive"))
	case r.Region != "":
		region, err := cartomap.RegionByName(r.Region)
		if err != nil {
			return nil, fail("region", err)
		}
		if err := c.RestrictExtent(m, region.Extent); err != nil {
			return nil, fail("region", err)
		}
	case r.Extent != nil:
		ext := cartomap.Extent{
			West: r.Extent.West, East: r.Extent.East,
			South: r.Extent.South, North: r.Extent.North,
			Frame: cartomap.Equirectangular(r.Extent.CentralLongitude),
		}
		if err := c.RestrictExtent(m, ext); err != nil {
			return nil, fail("extent", err)
		}
	}

	for i, f := range r.Features {
		field := fmt.Sprintf("features[%d]", i)
		req, err := f.request()
		if err != nil {
			return nil, fail(field, err)
		}
		if err := c.AddFeature(m, req); err != nil {
			return nil, fail(field, err)
		}
	}

	if r.Grid != nil {
		g, err := r.Grid.config()
		if err != nil {
			return nil, fail("grid", err)
		}
		if err := c.SetGrid(m, g); err != nil {
			return nil, fail("grid", err)
		}
	}

	c.SetTitle(m, r.Title)
	return m, nil
}

func (f FeatureEntry) request() (cartomap.FeatureOverlayRequest, error) {
	category, err := cartomap.ParseFeatureCategory(f.Category)
	if err != nil {
		return cartomap.FeatureOverlayRequest{}, err
	}
	res, err := cartomap.ParseResolution(f.Resolution)
	if err != nil {
		return cartomap.FeatureOverlayRequest{}, err
	}
	ls, err := cartomap.ParseLineStyle(f.LineStyle)
	if err != nil {
		return cartomap.FeatureOverlayRequest{}, err
	}
	edge, err := cartomap.ParseColor(f.EdgeColor)
	if err != nil {
		return cartomap.FeatureOverlayRequest{}, err
	}
	face, err := cartomap.ParseColor(f.FaceColor)
	if err != nil {
		return cartomap.FeatureOverlayRequest{}, err
	}

	return cartomap.Feature(category).At(res).WithStyle(cartomap.Style{
		LineWidth: f.LineWidth,
		EdgeColor: edge,
		FaceColor: face,
		LineStyle: ls,
		Opacity:   f.Opacity,
	}), nil
}

func (g GridEntry) config() (cartomap.GridConfig, error) {
	out := cartomap.DefaultGrid()
	if g.LineWidth != 0 {
		out.LineWidth = g.LineWidth
	}
	if g.Color != "" {
		col, err := cartomap.ParseColor(g.Color)
		if err != nil {
			return out, err
		}
		out.Color = col
	}
	if g.LineStyle != "" {
		ls, err := cartomap.ParseLineStyle(g.LineStyle)
		if err != nil {
			return out, err
		}
		out.LineStyle = ls
	}
	if g.Opacity != 0 {
		out.Opacity = g.Opacity
	}
	out.LongitudeSpacing = g.LongitudeSpacing
	out.LatitudeSpacing = g.LatitudeSpacing
	out.Longitudes = g.Longitudes
	out.Latitudes = g.Latitudes

	if g.Labels != nil {
		out.Labels = cartomap.GridLabels{}
		for _, side := range g.Labels {
			switch strings.ToLower(side) {
			case "top":
				out.Labels.Top = true
			case "bottom":
				out.Labels.Bottom = true
			case "left":
				out.Labels.Left = true
			case "right":
				out.Labels.Right = true
			case "none":
			default:
				return out, fmt.Errorf("unknown label side %q", side)
			}
		}
	}
	return out, nil
}
