package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/beetlebugorg/cartomap/pkg/cartomap"
	"github.com/beetlebugorg/cartomap/pkg/naturalearth"
)

func newFetchCmd(a *app) *cobra.Command {
	var (
		categories  []string
		resolutions []string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download feature datasets into the cache",
		Long: `Download Natural Earth datasets ahead of rendering.

Examples:
  cartomap fetch                                  # every category at 110m
  cartomap fetch --category coastline,land --resolution 110m,50m`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := categoriesOrAll(categories)
			if err != nil {
				return err
			}
			var resources []naturalearth.Resource
			for _, name := range resolutions {
				res, err := cartomap.ParseResolution(name)
				if err != nil {
					return err
				}
				for _, c := range cats {
					resources = append(resources, c.Resource(res))
				}
			}

			p, err := a.dataProvider()
			if err != nil {
				return err
			}
			if err := p.Prefetch(cmd.Context(), resources...); err != nil {
				return err
			}

			stats := p.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "%d datasets ready in %s (%d downloaded, %s)\n",
				len(resources), p.CacheDir(), stats.Downloads, humanize.Bytes(uint64(stats.DownloadBytes)))
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&categories, "category", "c", nil, "Categories to fetch (default: all)")
	cmd.Flags().StringSliceVar(&resolutions, "resolution", []string{"110m"}, "Resolutions to fetch")
	return cmd
}
