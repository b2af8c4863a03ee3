package recipe

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/beetlebugorg/cartomap/pkg/cartomap"
)

// BatchOptions controls parallel rendering and error handling.
type BatchOptions struct {
	// Workers is the number of recipes rendered at once.
	// If 0, defaults to runtime.NumCPU().
	Workers int

	// SkipErrors keeps rendering when a recipe fails. Failures are collected
	// and returned. When false, the first failure cancels the remaining
	// recipes.
	SkipErrors bool

	// Write saves each rendered image to the recipe's Output path.
	Write bool

	// Progress is called after each recipe finishes (successfully or not)
	// with the number finished so far.
	Progress func(done, total int)

	// ErrorLog receives one line per failed recipe.
	ErrorLog io.Writer
}

// DefaultBatchOptions returns batch options with defaults.
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{
		Workers:    runtime.NumCPU(),
		SkipErrors: true,
		Write:      true,
	}
}

// Result is the outcome of one recipe. Image is nil when Err is set.
type Result struct {
	Recipe Recipe
	Image  *cartomap.RenderedImage
	Err    error
}

// RenderAll applies and renders recipes with a bounded worker pool. Each
// artifact is created, rendered and written by a single goroutine.
//
// Results are returned in recipe order. With SkipErrors the returned error
// is nil and failures are reported per Result; otherwise the first failure
// is returned and unfinished recipes carry the cancellation error.
//
// Example:
//
//	results, err := recipe.RenderAll(ctx, composer, recipes, recipe.BatchOptions{
//	    Workers:    4,
//	    SkipErrors: true,
//	    Write:      true,
//	    Progress: func(done, total int) {
//	        fmt.Printf("\rRendering: %d/%d", done, total)
//	    },
//	})
func RenderAll(ctx context.Context, c *cartomap.Composer, recipes []Recipe, opts BatchOptions) ([]Result, error) {
	results := make([]Result, len(recipes))
	if len(recipes) == 0 {
		return results, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, len(recipes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	done := 0
	finish := func(i int, res Result) {
		mu.Lock()
		defer mu.Unlock()
		results[i] = res
		done++
		if res.Err != nil && opts.ErrorLog != nil {
			fmt.Fprintf(opts.ErrorLog, "Error rendering %s: %v\n", res.Recipe.Name, res.Err)
		}
		if opts.Progress != nil {
			opts.Progress(done, len(recipes))
		}
	}

	for i, r := range recipes {
		runCtx := ctx
		if !opts.SkipErrors {
			runCtx = gctx
		}
		if err := runCtx.Err(); err != nil {
			finish(i, Result{Recipe: r, Err: err})
			continue
		}

		g.Go(func() error {
			img, err := renderOne(runCtx, c, r, opts.Write)
			finish(i, Result{Recipe: r, Image: img, Err: err})
			if err != nil && !opts.SkipErrors {
				return err
			}
			return nil
		})
	}

	err := g.Wait()
	return results, err
}

func renderOne(ctx context.Context, c *cartomap.Composer, r Recipe, write bool) (*cartomap.RenderedImage, error) {
	m, err := Apply(c, r)
	if err != nil {
		return nil, err
	}
	img, err := c.Render(ctx, m)
	if err != nil {
		return nil, &ErrRecipe{Recipe: r.Name, Err: err}
	}
	if write && r.Output != "" {
		if err := img.SavePNG(r.Output); err != nil {
			return nil, &ErrRecipe{Recipe: r.Name, Field: "output", Err: err}
		}
	}
	return img, nil
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
