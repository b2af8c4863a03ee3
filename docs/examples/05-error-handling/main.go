package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/beetlebugorg/cartomap/pkg/cartomap"
	"github.com/beetlebugorg/cartomap/pkg/naturalearth"
)

func main() {
	// Point the provider at a mirror that does not exist
	popts := naturalearth.DefaultProviderOptions()
	popts.BaseURL = "http://127.0.0.1:1/naturalearth"
	provider, err := naturalearth.NewProvider(popts)
	if err != nil {
		log.Fatal(err)
	}

	opts := cartomap.DefaultComposerOptions()
	opts.Source = provider
	composer, err := cartomap.NewComposer(opts)
	if err != nil {
		log.Fatal(err)
	}

	// Configuration errors are returned before the artifact changes
	if _, err := composer.CreateSurface(cartomap.Orthographic(0, 95), cartomap.Size{}); err != nil {
		var perr *cartomap.ErrInvalidProjection
		if errors.As(err, &perr) {
			fmt.Printf("bad projection: %s=%g (%s)\n", perr.Param, perr.Value, perr.Reason)
		}
	}

	m, err := composer.CreateSurface(cartomap.Mollweide(0), cartomap.Size{})
	if err != nil {
		log.Fatal(err)
	}
	if err := composer.RestrictExtent(m, cartomap.NewExtent(-10, 10, 100, 65)); err != nil {
		var eerr *cartomap.ErrInvalidExtent
		if errors.As(err, &eerr) {
			fmt.Printf("bad extent: %s\n", eerr.Reason)
		}
	}
	if _, ok := m.Extent(); !ok {
		fmt.Println("extent still unset")
	}

	// Render failures carry the stage and overlay index
	composer.AddFeature(m, cartomap.Feature(cartomap.Land))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = composer.Render(ctx, m)
	var rf *cartomap.ErrRenderFailure
	if errors.As(err, &rf) {
		fmt.Printf("render failed at %s (overlay %d)\n", rf.Stage, rf.Overlay)

		var fetch *naturalearth.ErrFetch
		if errors.As(err, &fetch) {
			fmt.Printf("  download %s: %v\n", fetch.URL, fetch.Err)
		}
	}
}
