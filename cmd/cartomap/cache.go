package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newCacheCmd(a *app) *cobra.Command {
	var purge bool

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Show or clear cached datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.dataProvider()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if purge {
				if err := p.Purge(); err != nil {
					return err
				}
				fmt.Fprintf(out, "cleared %s\n", p.CacheDir())
				return nil
			}

			entries, err := p.CachedResources()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintf(out, "no datasets cached in %s\n", p.CacheDir())
				return nil
			}

			var total int64
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				total += e.Bytes
				form := "zip"
				if e.Extracted {
					form = "extracted"
				}
				rows = append(rows, []string{
					e.Key,
					string(e.Resource.Theme),
					humanize.Bytes(uint64(e.Bytes)),
					form,
					humanize.Time(e.FetchedAt),
				})
			}
			printTable(out, []string{"DATASET", "THEME", "SIZE", "FORM", "FETCHED"}, rows)
			fmt.Fprintf(out, "%d datasets, %s in %s\n", len(entries), humanize.Bytes(uint64(total)), p.CacheDir())
			return nil
		},
	}
	cmd.Flags().BoolVar(&purge, "clear", false, "Remove every cached dataset")
	return cmd
}
