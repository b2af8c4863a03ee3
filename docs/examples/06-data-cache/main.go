package main

import (
	"context"
	"fmt"
	"log"

	"github.com/paulmach/orb"

	"github.com/beetlebugorg/cartomap/pkg/cartomap"
	"github.com/beetlebugorg/cartomap/pkg/naturalearth"
)

func main() {
	provider, err := naturalearth.NewProvider(naturalearth.DefaultProviderOptions())
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	// Download every category at 110m ahead of time
	var resources []naturalearth.Resource
	for _, c := range cartomap.Categories() {
		resources = append(resources, c.Resource(cartomap.Coarse))
	}
	if err := provider.Prefetch(ctx, resources...); err != nil {
		log.Fatal(err)
	}

	// Layers are indexed; query the coastline around Cape Cod
	coast, err := provider.Layer(ctx, cartomap.Coastline.Resource(cartomap.Coarse))
	if err != nil {
		log.Fatal(err)
	}
	capeCod := orb.Bound{Min: orb.Point{-71, 41}, Max: orb.Point{-69, 43}}
	fmt.Printf("%s: %d features, %d near Cape Cod\n", coast.Resource(), coast.Len(), len(coast.Query(capeCod)))

	// The second lookup is served from memory
	if _, err := provider.Layer(ctx, cartomap.Coastline.Resource(cartomap.Coarse)); err != nil {
		log.Fatal(err)
	}

	stats := provider.Stats()
	fmt.Printf("Cache: %d layers, %.1f MB, hit rate %.0f%%\n",
		stats.Cache.LayerCount, float64(stats.Cache.UsedMemory)/1024/1024, stats.Cache.HitRate()*100)

	entries, err := provider.CachedResources()
	if err != nil {
		log.Fatal(err)
	}
	for _, e := range entries {
		fmt.Printf("  %-45s %8d bytes  %s\n", e.Key, e.Bytes, e.FetchedAt.Format("2006-01-02"))
	}
}
