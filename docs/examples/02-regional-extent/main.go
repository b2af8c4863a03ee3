package main

import (
	"context"
	"fmt"
	"log"

	"github.com/beetlebugorg/cartomap/pkg/cartomap"
)

func main() {
	composer, err := cartomap.NewComposer(cartomap.DefaultComposerOptions())
	if err != nil {
		log.Fatal(err)
	}

	m, err := composer.CreateSurface(cartomap.LambertConformal(-96, 39, 33, 45), cartomap.Size{Width: 1000, Height: 700})
	if err != nil {
		log.Fatal(err)
	}

	// North America, as plain longitudes and latitudes
	if err := composer.RestrictExtent(m, cartomap.NewExtent(-140, -40, 15, 65)); err != nil {
		log.Fatal(err)
	}

	// Overlays are drawn in the order they are added
	for _, req := range []cartomap.FeatureOverlayRequest{
		cartomap.Feature(cartomap.Land),
		cartomap.Feature(cartomap.Lake),
		cartomap.Feature(cartomap.Border).At(cartomap.Coarse),
		cartomap.Feature(cartomap.State).At(cartomap.Coarse),
	} {
		if err := composer.AddFeature(m, req); err != nil {
			log.Fatal(err)
		}
	}
	composer.SetTitle(m, "North America")

	img, err := composer.Render(context.Background(), m)
	if err != nil {
		log.Fatal(err)
	}
	if err := img.SavePNG("north-america.png"); err != nil {
		log.Fatal(err)
	}

	// Land and lakes were left at Auto; borders and states were pinned
	for _, o := range img.Overlays {
		fmt.Printf("%-10s %-5s %s\n", o.Request.Category, o.Resolution, o.Resource.Key())
	}

	// Named presets
	for _, r := range cartomap.Regions() {
		fmt.Printf("%-14s %s\n", r.Name, r.Description)
	}
}
