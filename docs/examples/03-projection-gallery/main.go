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

	gallery := map[string]cartomap.ProjectionSpec{
		"plate-carree": cartomap.Equirectangular(0),
		"mercator":     cartomap.Mercator(0),
		"mollweide":    cartomap.Mollweide(0),
		"lcc":          cartomap.LambertConformal(-96, 39, 33, 45),
		"north-polar":  cartomap.NorthPolarStereo(0),
		"laea-europe":  cartomap.LambertAzimuthalEqualArea(10, 52),
		"orthographic": cartomap.Orthographic(-100, 40),
	}

	for name, proj := range gallery {
		m, err := composer.CreateSurface(proj, cartomap.Size{Width: 600, Height: 400})
		if err != nil {
			log.Fatal(err)
		}
		composer.AddFeature(m, cartomap.Feature(cartomap.Ocean))
		composer.AddFeature(m, cartomap.Feature(cartomap.Land))
		composer.AddFeature(m, cartomap.Feature(cartomap.Coastline))
		composer.SetGrid(m, cartomap.GridConfig{})
		composer.SetTitle(m, proj.String())

		img, err := composer.Render(context.Background(), m)
		if err != nil {
			log.Printf("%s: %v", name, err)
			continue
		}
		if err := img.SavePNG(name + ".png"); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("wrote %s.png\n", name)
	}

	// Parse from names, as the command line tool does
	p, err := cartomap.ParseProjection("lcc", map[string]float64{
		cartomap.ParamCentralLongitude: 10,
		cartomap.ParamCentralLatitude:  50,
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(p, p.Params())
}
