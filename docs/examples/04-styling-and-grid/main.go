package main

import (
	"context"
	"fmt"
	"image/color"
	"log"

	"github.com/beetlebugorg/cartomap/pkg/cartomap"
)

func main() {
	composer, err := cartomap.NewComposer(cartomap.DefaultComposerOptions())
	if err != nil {
		log.Fatal(err)
	}

	m, err := composer.CreateSurface(cartomap.Mercator(15), cartomap.Size{Width: 900, Height: 700})
	if err != nil {
		log.Fatal(err)
	}
	europe, err := cartomap.RegionByName("europe")
	if err != nil {
		log.Fatal(err)
	}
	if err := composer.RestrictExtent(m, europe.Extent); err != nil {
		log.Fatal(err)
	}

	sand := color.NRGBA{R: 0xe0, G: 0xd8, B: 0xb0, A: 0xff}
	navy, _ := cartomap.ParseColor("navy")

	composer.AddFeature(m, cartomap.Feature(cartomap.Ocean).WithStyle(cartomap.Style{Opacity: 0.6}))
	composer.AddFeature(m, cartomap.Feature(cartomap.Land).WithStyle(cartomap.Style{
		FaceColor: sand,
		EdgeColor: cartomap.None,
	}))
	composer.AddFeature(m, cartomap.Feature(cartomap.River).WithStyle(cartomap.Style{EdgeColor: navy, LineWidth: 0.4}))
	composer.AddFeature(m, cartomap.Feature(cartomap.Border).WithStyle(cartomap.Style{
		LineWidth: 0.8,
		LineStyle: cartomap.LineDashDot,
	}))

	// Every 10°, labelled on all four edges
	grid := cartomap.DefaultGrid()
	grid.LongitudeSpacing = 10
	grid.LatitudeSpacing = 10
	grid.Labels = cartomap.GridLabels{Top: true, Bottom: true, Left: true, Right: true}
	if err := composer.SetGrid(m, grid); err != nil {
		log.Fatal(err)
	}
	composer.SetTitle(m, "Europe")

	img, err := composer.Render(context.Background(), m)
	if err != nil {
		log.Fatal(err)
	}
	for _, w := range img.Warnings {
		fmt.Println("warning:", w)
	}
	if err := img.SavePNG("europe.png"); err != nil {
		log.Fatal(err)
	}
	fmt.Println("wrote europe.png")
}
