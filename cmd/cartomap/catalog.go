package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/spf13/cobra"

	"github.com/beetlebugorg/cartomap/pkg/cartomap"
)

func newFeaturesCmd(a *app) *cobra.Command {
	var resolution string
	cmd := &cobra.Command{
		Use:   "features",
		Short: "List feature categories and their Natural Earth datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := cartomap.ParseResolution(resolution)
			if err != nil {
				return err
			}
			if res == cartomap.Auto {
				res = cartomap.Coarse
			}

			var rows [][]string
			for _, c := range cartomap.Categories() {
				style := c.DefaultStyle()
				kind := "line"
				if c.Polygonal() {
					kind = "area"
				}
				r := c.Resource(res)
				rows = append(rows, []string{
					c.String(),
					kind,
					fmt.Sprintf("edge %s, fill %s", colorName(style.EdgeColor), colorName(style.FaceColor)),
					r.URL(a.cfg.Data.BaseURL),
				})
			}
			printTable(cmd.OutOrStdout(), []string{"CATEGORY", "KIND", "DEFAULT STYLE", "URL (" + res.String() + ")"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&resolution, "resolution", "110m", "Resolution whose URLs are listed")
	return cmd
}

func colorName(c color.Color) string {
	if s := cartomap.FormatColor(c); s != "" {
		return s
	}
	return "none"
}

func newProjectionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "projections",
		Short: "List supported projections and their parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows [][]string
			for _, info := range cartomap.Projections() {
				spec, err := cartomap.ParseProjection(string(info.Name), nil)
				if err != nil {
					return err
				}
				defaults := spec.Params()
				params := make([]string, len(info.Params))
				for i, p := range info.Params {
					params[i] = fmt.Sprintf("%s=%g", p, defaults[p])
				}
				rows = append(rows, []string{string(info.Name), strings.Join(params, " "), info.Description})
			}
			printTable(cmd.OutOrStdout(), []string{"PROJECTION", "PARAMETERS (DEFAULTS)", "DESCRIPTION"}, rows)
			return nil
		},
	}
}

func newRegionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List named regions usable with --region",
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows [][]string
			for _, name := range cartomap.RegionNames() {
				r, err := cartomap.RegionByName(name)
				if err != nil {
					return err
				}
				e := r.Extent
				rows = append(rows, []string{
					r.Name,
					fmt.Sprintf("%g, %g, %g, %g", e.West, e.East, e.South, e.North),
					r.Description,
				})
			}
			printTable(cmd.OutOrStdout(), []string{"REGION", "WEST, EAST, SOUTH, NORTH", "DESCRIPTION"}, rows)
			return nil
		},
	}
}
