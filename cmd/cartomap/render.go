package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/beetlebugorg/cartomap/internal/recipe"
	"github.com/beetlebugorg/cartomap/pkg/cartomap"
)

type renderFlags struct {
	output     string
	projection string
	params     []string
	region     string
	extent     []float64
	features   []string
	resolution string
	grid       bool
	title      string
	width      int
	height     int
	workers    int
	failFast   bool
}

func newRenderCmd(a *app) *cobra.Command {
	f := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render [recipe.yaml...]",
		Short: "Render maps from recipe files or flags",
		Long: `Render one map described by flags, or every map in the given recipe files.

Examples:
  cartomap render --projection equirectangular --param central_longitude=-75 -o world.png
  cartomap render --projection lcc --region north-america --features border,state --resolution 110m -o na.png
  cartomap render maps.yaml --workers 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, a, f, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.output, "output", "o", "", "Output PNG (single map only)")
	flags.StringVarP(&f.projection, "projection", "p", "equirectangular", "Projection name")
	flags.StringSliceVar(&f.params, "param", nil, "Projection parameter as key=value (repeatable)")
	flags.StringVarP(&f.region, "region", "r", "", "Named region to show")
	flags.Float64SliceVar(&f.extent, "extent", nil, "Extent as west,east,south,north")
	flags.StringSliceVarP(&f.features, "features", "f", []string{"coastline"}, "Feature categories, drawn in order")
	flags.StringVar(&f.resolution, "resolution", "auto", "Resolution: auto, 110m, 50m or 10m")
	flags.BoolVar(&f.grid, "grid", false, "Draw a labelled coordinate grid")
	flags.StringVarP(&f.title, "title", "t", "", "Map title")
	flags.IntVar(&f.width, "width", 0, "Image width in pixels (default from config)")
	flags.IntVar(&f.height, "height", 0, "Image height in pixels (default from config)")
	flags.IntVar(&f.workers, "workers", 0, "Maps rendered in parallel (default from config)")
	flags.BoolVar(&f.failFast, "fail-fast", false, "Stop at the first failing map")
	return cmd
}

func runRender(cmd *cobra.Command, a *app, f *renderFlags, args []string) error {
	var recipes []recipe.Recipe
	if len(args) > 0 {
		for _, path := range args {
			rs, err := recipe.Load(path)
			if err != nil {
				return err
			}
			recipes = append(recipes, rs...)
		}
		if f.output != "" {
			if len(recipes) != 1 {
				return fmt.Errorf("--output needs exactly one map, recipes define %d", len(recipes))
			}
			recipes[0].Output = f.output
		}
	} else {
		r, err := f.recipe()
		if err != nil {
			return err
		}
		recipes = []recipe.Recipe{r}
	}

	c, err := a.composer()
	if err != nil {
		return err
	}

	opts := recipe.DefaultBatchOptions()
	opts.Workers = a.cfg.Render.Workers
	if f.workers > 0 {
		opts.Workers = f.workers
	}
	opts.SkipErrors = !f.failFast
	opts.Progress = func(done, total int) {
		a.logger.Debug("render progress", zap.Int("done", done), zap.Int("total", total))
	}

	results, err := recipe.RenderAll(cmd.Context(), c, recipes, opts)
	for _, res := range results {
		switch {
		case res.Err != nil:
			a.logger.Error("render failed", zap.String("map", res.Recipe.Name), zap.Error(res.Err))
		default:
			for _, w := range res.Image.Warnings {
				a.logger.Warn(w, zap.String("map", res.Recipe.Name))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", res.Recipe.Output)
		}
	}
	if err != nil {
		return err
	}
	if failed := recipe.Failed(results); len(failed) > 0 {
		return fmt.Errorf("%d of %d maps failed", len(failed), len(results))
	}
	return nil
}

// recipe builds a single-map recipe from the flags.
func (f *renderFlags) recipe() (recipe.Recipe, error) {
	r := recipe.Recipe{
		Name:       "map",
		Projection: recipe.ProjectionEntry{Name: f.projection},
		Width:      f.width,
		Height:     f.height,
		Title:      f.title,
		Region:     f.region,
		Output:     f.output,
	}
	if r.Output == "" {
		r.Output = "map.png"
	}

	if len(f.params) > 0 {
		r.Projection.Params = make(map[string]float64, len(f.params))
		for _, kv := range f.params {
			key, value, ok := strings.Cut(kv, "=")
			if !ok {
				return r, fmt.Errorf("--param %q: want key=value", kv)
			}
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return r, fmt.Errorf("--param %q: %w", kv, err)
			}
			r.Projection.Params[strings.TrimSpace(key)] = v
		}
	}

	if len(f.extent) > 0 {
		if len(f.extent) != 4 {
			return r, errors.New("--extent needs west,east,south,north")
		}
		r.Extent = &recipe.ExtentEntry{West: f.extent[0], East: f.extent[1], South: f.extent[2], North: f.extent[3]}
	}

	for _, name := range f.features {
		if strings.TrimSpace(name) == "" {
			continue
		}
		r.Features = append(r.Features, recipe.FeatureEntry{Category: name, Resolution: f.resolution})
	}

	if f.grid {
		r.Grid = &recipe.GridEntry{}
	}
	return r, nil
}

// categoriesOrAll parses category names, defaulting to every category.
func categoriesOrAll(names []string) ([]cartomap.FeatureCategory, error) {
	if len(names) == 0 {
		return cartomap.Categories(), nil
	}
	out := make([]cartomap.FeatureCategory, 0, len(names))
	for _, n := range names {
		c, err := cartomap.ParseFeatureCategory(n)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
