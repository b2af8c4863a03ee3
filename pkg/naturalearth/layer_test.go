package naturalearth

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func indices(features []Feature) []int {
	out := make([]int, len(features))
	for i, f := range features {
		out[i] = f.Index
	}
	return out
}

func TestLayerQuery(t *testing.T) {
	// A row of unit squares at x = 0..99.
	layer := testLayer("row", 100)

	tests := []struct {
		name   string
		bounds []orb.Bound
		want   []int
	}{
		{
			name:   "single window",
			bounds: []orb.Bound{{Min: orb.Point{10.5, 0.2}, Max: orb.Point{12.5, 0.8}}},
			want:   []int{10, 11, 12},
		},
		{
			name: "two windows, ordered and deduplicated",
			bounds: []orb.Bound{
				{Min: orb.Point{50.5, 0}, Max: orb.Point{51.5, 1}},
				{Min: orb.Point{2.5, 0}, Max: orb.Point{3.5, 1}},
				{Min: orb.Point{51.2, 0}, Max: orb.Point{51.4, 1}},
			},
			want: []int{2, 3, 50, 51},
		},
		{
			name:   "outside",
			bounds: []orb.Bound{{Min: orb.Point{-50, 10}, Max: orb.Point{-40, 20}}},
			want:   []int{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := indices(layer.Query(tt.bounds...))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Query() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLayerQueryAll(t *testing.T) {
	layer := testLayer("row", 7)
	assert.Len(t, layer.Query(), 7)
	assert.Equal(t, 7, layer.Len())
	assert.Equal(t, 35, layer.Vertices())
	assert.Equal(t, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{7, 1}}, layer.Bound())
}

func TestLayerSkipsNilGeometries(t *testing.T) {
	layer := NewLayer(Resource{}, []orb.Geometry{
		orb.Point{1, 1},
		nil,
		orb.LineString{{5, 5}, {5, 6}}, // zero-width envelope
	})

	assert.Equal(t, 2, layer.Len())
	got := indices(layer.Query(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}}))
	assert.Equal(t, []int{0, 2}, got)
}
