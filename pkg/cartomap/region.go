package cartomap

import (
	"fmt"
	"sort"
	"strings"
)

// Region is a named preset extent.
type Region struct {
	Name        string
	Description string
	Extent      Extent
}

var regionTable = []Region{
	{"world", "the whole globe", NewExtent(-180, 180, -90, 90)},
	{"north-america", "Canada, the United States and Mexico", NewExtent(-140, -40, 15, 65)},
	{"conus", "the contiguous United States", NewExtent(-125, -66, 24, 50)},
	{"europe", "Europe west of the Urals", NewExtent(-25, 45, 34, 72)},
	{"africa", "Africa and Madagascar", NewExtent(-20, 55, -36, 38)},
	{"south-america", "South America", NewExtent(-82, -34, -56, 13)},
	{"asia", "Asia from the Urals to the Pacific", NewExtent(25, 180, -11, 78)},
	{"oceania", "Australia, New Zealand and the western Pacific", NewExtent(110, 190, -50, 0)},
	{"arctic", "north of 60°N", NewExtent(-180, 180, 60, 90)},
	{"antarctic", "south of 60°S", NewExtent(-180, 180, -90, -60)},
}

// Regions returns every preset region.
func Regions() []Region {
	out := make([]Region, len(regionTable))
	copy(out, regionTable)
	return out
}

// RegionNames returns the preset names in alphabetical order.
func RegionNames() []string {
	names := make([]string, len(regionTable))
	for i, r := range regionTable {
		names[i] = r.Name
	}
	sort.Strings(names)
	return names
}

// RegionByName looks up a preset region (case-insensitive).
//
// Example:
//
//	europe, err := cartomap.RegionByName("europe")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	composer.RestrictExtent(m, europe.Extent)
func RegionByName(name string) (Region, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, r := range regionTable {
		if r.Name == key {
			return r, nil
		}
	}
	return Region{}, fmt.Errorf("unknown region %q (known: %s)", name, strings.Join(RegionNames(), ", "))
}
