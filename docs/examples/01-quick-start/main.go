package main

import (
	"context"
	"fmt"
	"log"

	"github.com/beetlebugorg/cartomap/pkg/cartomap"
)

func main() {
	// Create composer (downloads Natural Earth data on first use)
	composer, err := cartomap.NewComposer(cartomap.DefaultComposerOptions())
	if err != nil {
		log.Fatal(err)
	}

	// World map centred on 75°W
	m, err := composer.CreateSurface(cartomap.Equirectangular(-75), cartomap.Size{})
	if err != nil {
		log.Fatal(err)
	}
	if err := composer.AddFeature(m, cartomap.Feature(cartomap.Coastline)); err != nil {
		log.Fatal(err)
	}

	img, err := composer.Render(context.Background(), m)
	if err != nil {
		log.Fatal(err)
	}
	if err := img.SavePNG("coastlines.png"); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Map: %s\n", img.Projection)
	for _, o := range img.Overlays {
		fmt.Printf("  %s: %d features from %s\n", o.Request.Category, o.Features, o.Resource)
	}
}
