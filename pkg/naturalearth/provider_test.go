package naturalearth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

var landResource = Resource{Scale: Scale110m, Theme: ThemePhysical, Name: "land"}

// fakeMirror serves zipped shapefiles under the Natural Earth URL layout.
type fakeMirror struct {
	*httptest.Server
	hits  atomic.Int32
	files map[string][]byte
}

func newFakeMirror(t *testing.T) *fakeMirror {
	t.Helper()
	return newFakeMirrorWith(t, nil)
}

// newFakeMirrorWith serves extra files next to the land layer.
func newFakeMirrorWith(t *testing.T, extra map[string][]byte) *fakeMirror {
	t.Helper()
	m := &fakeMirror{files: map[string][]byte{
		"/110m_physical/ne_110m_land.zip": writeShapefileZip(t, "ne_110m_land",
			[][]shp.Point{square(0, 0, 10)},
			[][]shp.Point{square(-100, 40, 5)},
		),
	}}
	for path, data := range extra {
		m.files[path] = data
	}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.hits.Add(1)
		data, ok := m.files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	}))
	t.Cleanup(m.Close)
	return m
}

func newTestProvider(t *testing.T, mirror *fakeMirror, cacheDir string, keepExtracted bool) *Provider {
	t.Helper()
	opts := DefaultProviderOptions()
	opts.CacheDir = cacheDir
	opts.BaseURL = mirror.URL
	opts.HTTPClient = mirror.Client()
	opts.KeepExtracted = keepExtracted
	opts.Logger = zaptest.NewLogger(t)
	p, err := NewProvider(opts)
	require.NoError(t, err)
	return p
}

func TestProviderDownloadsThenServesFromMemory(t *testing.T) {
	mirror := newFakeMirror(t)
	p := newTestProvider(t, mirror, t.TempDir(), true)
	ctx := context.Background()

	layer, err := p.Layer(ctx, landResource)
	require.NoError(t, err)
	assert.Equal(t, 2, layer.Len())
	assert.EqualValues(t, 1, mirror.hits.Load())

	again, err := p.Layer(ctx, landResource)
	require.NoError(t, err)
	assert.Same(t, layer, again)
	assert.EqualValues(t, 1, mirror.hits.Load(), "memory hit must not download")

	stats := p.Stats()
	assert.EqualValues(t, 1, stats.Downloads)
	assert.Positive(t, stats.DownloadBytes)
	assert.Equal(t, 1, stats.Cache.LayerCount)
}

func TestProviderDiskCacheAvoidsDownload(t *testing.T) {
	for _, keep := range []bool{true, false} {
		name := "zip"
		if keep {
			name = "extracted"
		}
		t.Run(name, func(t *testing.T) {
			mirror := newFakeMirror(t)
			dir := t.TempDir()

			_, err := newTestProvider(t, mirror, dir, keep).Layer(context.Background(), landResource)
			require.NoError(t, err)

			// A fresh provider has an empty memory cache but shares the disk.
			layer, err := newTestProvider(t, mirror, dir, keep).Layer(context.Background(), landResource)
			require.NoError(t, err)
			assert.Equal(t, 2, layer.Len())
			assert.EqualValues(t, 1, mirror.hits.Load())

			_, zipErr := os.Stat(filepath.Join(dir, "110m", "ne_110m_land.zip"))
			assert.Equal(t, keep, os.IsNotExist(zipErr), "archive kept only when not extracting")
		})
	}
}

func TestProviderCollapsesConcurrentLoads(t *testing.T) {
	mirror := newFakeMirror(t)
	p := newTestProvider(t, mirror, t.TempDir(), true)

	var wg sync.WaitGroup
	layers := make([]*Layer, 8)
	errs := make([]error, 8)
	for i := range layers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			layers[i], errs[i] = p.Layer(context.Background(), landResource)
		}()
	}
	wg.Wait()

	for i := range layers {
		require.NoError(t, errs[i])
		assert.Same(t, layers[0], layers[i])
	}
	assert.EqualValues(t, 1, mirror.hits.Load())
}

func TestProviderPropagatesHTTPFailure(t *testing.T) {
	mirror := newFakeMirror(t)
	p := newTestProvider(t, mirror, t.TempDir(), true)

	_, err := p.Layer(context.Background(), Resource{Scale: Scale10m, Theme: ThemeCultural, Name: "missing"})
	require.Error(t, err)

	var fetchErr *ErrFetch
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Contains(t, fetchErr.URL, "/10m_cultural/ne_10m_missing.zip")
}

func TestProviderRejectsArchiveWithoutDbf(t *testing.T) {
	dir := t.TempDir()
	writeShapefile(t, dir, "ne_110m_ocean", [][]shp.Point{square(0, 0, 10)})
	mirror := newFakeMirrorWith(t, map[string][]byte{
		"/110m_physical/ne_110m_ocean.zip": zipShapefile(t, dir, "ne_110m_ocean", ".shp", ".shx"),
	})

	p := newTestProvider(t, mirror, t.TempDir(), false)
	ocean := Resource{Scale: Scale110m, Theme: ThemePhysical, Name: "ocean"}

	var err error
	require.NotPanics(t, func() { _, err = p.Layer(context.Background(), ocean) })
	var malformed *ErrMalformedShapefile
	assert.True(t, errors.As(err, &malformed))
}

func TestProviderRejectsInvalidResource(t *testing.T) {
	mirror := newFakeMirror(t)
	p := newTestProvider(t, mirror, t.TempDir(), true)

	_, err := p.Layer(context.Background(), Resource{Scale: "5m", Theme: ThemePhysical, Name: "land"})
	assert.Error(t, err)
	assert.EqualValues(t, 0, mirror.hits.Load())
}

func TestProviderManifestAndPurge(t *testing.T) {
	mirror := newFakeMirror(t)
	dir := t.TempDir()
	p := newTestProvider(t, mirror, dir, true)

	require.NoError(t, p.Prefetch(context.Background(), landResource))
	assert.Zero(t, p.Stats().Cache.LayerCount, "prefetch does not decode")

	entries, err := p.CachedResources()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ne_110m_land", entries[0].Key)
	assert.Equal(t, landResource, entries[0].Resource)
	assert.Equal(t, landResource.URL(mirror.URL), entries[0].URL)
	assert.True(t, entries[0].Extracted)
	assert.Positive(t, entries[0].Bytes)
	assert.False(t, entries[0].FetchedAt.IsZero())

	require.NoError(t, p.Purge())
	entries, err = p.CachedResources()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestProviderPrefetchFailure(t *testing.T) {
	mirror := newFakeMirror(t)
	p := newTestProvider(t, mirror, t.TempDir(), true)

	err := p.Prefetch(context.Background(),
		landResource,
		Resource{Scale: Scale50m, Theme: ThemePhysical, Name: "missing"},
	)
	var fetchErr *ErrFetch
	assert.True(t, errors.As(err, &fetchErr))
}

func TestResourceURL(t *testing.T) {
	r := Resource{Scale: Scale50m, Theme: ThemeCultural, Name: "admin_0_boundary_lines_land"}
	assert.Equal(t,
		"https://naturalearth.s3.amazonaws.com/50m_cultural/ne_50m_admin_0_boundary_lines_land.zip",
		r.URL(""))
	assert.Equal(t, "http://mirror/50m_cultural/ne_50m_admin_0_boundary_lines_land.zip", r.URL("http://mirror/"))

	s, err := ParseScale("10M")
	require.NoError(t, err)
	assert.Equal(t, Scale10m, s)
	_, err = ParseScale("20m")
	assert.Error(t, err)
}
