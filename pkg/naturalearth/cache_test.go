package naturalearth

import (
	"testing"

	"github.com/paulmach/orb"
)

func testLayer(name string, features int) *Layer {
	geoms := make([]orb.Geometry, features)
	for i := range geoms {
		x := float64(i)
		geoms[i] = orb.Polygon{{{x, 0}, {x + 1, 0}, {x + 1, 1}, {x, 1}, {x, 0}}}
	}
	return NewLayer(Resource{Scale: Scale110m, Theme: ThemePhysical, Name: name}, geoms)
}

func TestCacheBasic(t *testing.T) {
	cache := NewLayerCache(1024 * 1024) // 1MB

	stats := cache.Stats()
	if stats.LayerCount != 0 {
		t.Errorf("Expected empty cache, got %d layers", stats.LayerCount)
	}

	if _, ok := cache.Get("land"); ok {
		t.Fatal("Expected miss on empty cache")
	}

	layer := testLayer("land", 3)
	if err := cache.Add("land", layer); err != nil {
		t.Fatalf("Failed to add layer: %v", err)
	}

	got, ok := cache.Get("land")
	if !ok {
		t.Fatal("Expected cache hit")
	}
	if got != layer {
		t.Error("Expected the cached layer instance")
	}

	stats = cache.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("Expected 1 hit and 1 miss, got %d and %d", stats.Hits, stats.Misses)
	}
	if rate := stats.HitRate(); rate != 0.5 {
		t.Errorf("Expected hit rate 0.5, got %f", rate)
	}
	if rate := (CacheStats{}).HitRate(); rate != 0 {
		t.Errorf("Expected hit rate 0 without lookups, got %f", rate)
	}
}

func TestCacheEviction(t *testing.T) {
	// Each 5-feature layer estimates to 1024 + 5*256 + 25*16 = 2704 bytes.
	cache := NewLayerCache(10 * 1024)

	for i := 0; i < 10; i++ {
		name := string(rune('A' + i))
		if err := cache.Add(name, testLayer(name, 5)); err != nil {
			t.Fatalf("Failed to add layer %s: %v", name, err)
		}
	}

	stats := cache.Stats()
	if stats.LayerCount >= 10 {
		t.Errorf("Expected eviction, but cache has %d layers", stats.LayerCount)
	}
	if stats.UsedMemory > cache.maxMemory {
		t.Errorf("Cache exceeded max memory: %d > %d", stats.UsedMemory, cache.maxMemory)
	}

	// The most recent layers survive.
	if _, ok := cache.Get("J"); !ok {
		t.Error("Expected most recent layer to be cached")
	}
	if _, ok := cache.Get("A"); ok {
		t.Error("Expected oldest layer to be evicted")
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cache := NewLayerCache(3 * 2704)

	for _, name := range []string{"A", "B", "C"} {
		if err := cache.Add(name, testLayer(name, 5)); err != nil {
			t.Fatal(err)
		}
	}
	cache.Get("A") // A is now most recent; B is the eviction candidate
	if err := cache.Add("D", testLayer("D", 5)); err != nil {
		t.Fatal(err)
	}

	if _, ok := cache.Get("B"); ok {
		t.Error("Expected B to be evicted")
	}
	if _, ok := cache.Get("A"); !ok {
		t.Error("Expected A to survive")
	}
}

func TestCacheTooLarge(t *testing.T) {
	cache := NewLayerCache(1024)
	if err := cache.Add("big", testLayer("big", 100)); err == nil {
		t.Error("Expected error for layer larger than the cache")
	}
	if cache.Stats().LayerCount != 0 {
		t.Error("Oversized layer should not be cached")
	}
}

func TestCacheClear(t *testing.T) {
	cache := NewLayerCache(1024 * 1024)

	for i := 0; i < 5; i++ {
		name := string(rune('A' + i))
		if err := cache.Add(name, testLayer(name, 1)); err != nil {
			t.Fatalf("Failed to add layer: %v", err)
		}
	}

	if cache.Stats().LayerCount != 5 {
		t.Errorf("Expected 5 layers, got %d", cache.Stats().LayerCount)
	}
	if keys := cache.Keys(); len(keys) != 5 || keys[0] != "E" {
		t.Errorf("Expected 5 keys with E first, got %v", keys)
	}

	cache.Clear()

	if cache.Stats().LayerCount != 0 {
		t.Errorf("Expected empty cache after clear, got %d layers", cache.Stats().LayerCount)
	}
	if cache.Stats().UsedMemory != 0 {
		t.Errorf("Expected zero memory after clear, got %d bytes", cache.Stats().UsedMemory)
	}
}

func TestCacheRemove(t *testing.T) {
	cache := NewLayerCache(1024 * 1024)

	if err := cache.Add("test", testLayer("test", 1)); err != nil {
		t.Fatalf("Failed to add layer: %v", err)
	}
	cache.Remove("test")

	if cache.Stats().LayerCount != 0 {
		t.Errorf("Expected 0 layers after remove, got %d", cache.Stats().LayerCount)
	}
	if cache.Stats().UsedMemory != 0 {
		t.Errorf("Expected zero memory after remove, got %d", cache.Stats().UsedMemory)
	}
}
