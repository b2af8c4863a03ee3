package cartomap

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/beetlebugorg/cartomap/pkg/naturalearth"
)

// fakeSource serves in-memory layers and records which resources were
// requested.
type fakeSource struct {
	mu        sync.Mutex
	layers    map[string]*naturalearth.Layer
	failures  map[string]error
	requested []naturalearth.Resource
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		layers:   make(map[string]*naturalearth.Layer),
		failures: make(map[string]error),
	}
}

func (s *fakeSource) add(r naturalearth.Resource, geoms ...orb.Geometry) {
	s.layers[r.Key()] = naturalearth.NewLayer(r, geoms)
}

func (s *fakeSource) fail(r naturalearth.Resource, err error) {
	s.failures[r.Key()] = err
}

func (s *fakeSource) Layer(ctx context.Context, r naturalearth.Resource) (*naturalearth.Layer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requested = append(s.requested, r)
	if err, ok := s.failures[r.Key()]; ok {
		return nil, err
	}
	if layer, ok := s.layers[r.Key()]; ok {
		return layer, nil
	}
	// Unknown resources are empty layers.
	return naturalearth.NewLayer(r, nil), nil
}

func (s *fakeSource) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.requested))
	for i, r := range s.requested {
		out[i] = r.Key()
	}
	return out
}

var errUnreachable = errors.New("mirror unreachable")

func newTestComposer(t *testing.T, source FeatureSource) *Composer {
	t.Helper()
	opts := DefaultComposerOptions()
	opts.Source = source
	opts.Logger = zaptest.NewLogger(t)
	c, err := NewComposer(opts)
	require.NoError(t, err)
	return c
}

func box(west, south, east, north float64) orb.Polygon {
	return orb.Polygon{{{west, south}, {east, south}, {east, north}, {west, north}, {west, south}}}
}
