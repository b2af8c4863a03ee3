package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beetlebugorg/cartomap/pkg/cartomap"
)

// seedCoastline writes an extracted 110m coastline dataset into cacheDir.
func seedCoastline(t *testing.T, cacheDir string) {
	t.Helper()
	dir := filepath.Join(cacheDir, "110m", "ne_110m_coastline")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	w, err := shp.Create(filepath.Join(dir, "ne_110m_coastline.shp"), shp.POLYLINE)
	require.NoError(t, err)
	w.Write(shp.NewPolyLine([][]shp.Point{{{X: -80, Y: 10}, {X: -70, Y: 20}, {X: -60, Y: 15}}}))
	w.Write(shp.NewPolyLine([][]shp.Point{{{X: 170, Y: 0}, {X: -170, Y: 5}}}))
	w.Close()
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), append([]string{"--log-level", "warn"}, args...), &out)
	return out.String(), err
}

func TestListings(t *testing.T) {
	out, err := execute(t, "projections")
	require.NoError(t, err)
	assert.Contains(t, out, "lambert-conformal")
	assert.Contains(t, out, "standard_parallel_1=33")
	assert.Contains(t, out, "orthographic")

	out, err = execute(t, "regions")
	require.NoError(t, err)
	assert.Contains(t, out, "north-america")
	assert.Contains(t, out, "-140, -40, 15, 65")

	out, err = execute(t, "features", "--resolution", "50m")
	require.NoError(t, err)
	assert.Contains(t, out, "ne_50m_coastline.zip")
	assert.Contains(t, out, "ne_50m_admin_1_states_provinces_lakes.zip")
	assert.Contains(t, out, "#efefdb")

	_, err = execute(t, "features", "--resolution", "1m")
	assert.Error(t, err)
}

func TestRenderFromFlags(t *testing.T) {
	cacheDir := t.TempDir()
	seedCoastline(t, cacheDir)

	dir := t.TempDir()
	output := filepath.Join(dir, "world.png")
	metricsFile := filepath.Join(dir, "cartomap.prom")

	out, err := execute(t,
		"--cache-dir", cacheDir,
		"--metrics-file", metricsFile,
		"render",
		"--param", "central_longitude=-75",
		"--features", "coastline",
		"--resolution", "110m",
		"--width", "200", "--height", "100",
		"--grid",
		"-o", output,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+output)

	info, err := os.Stat(output)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "cartomap_render_renders_total")
}

func TestRenderRecipeFile(t *testing.T) {
	cacheDir := t.TempDir()
	seedCoastline(t, cacheDir)

	dir := t.TempDir()
	path := filepath.Join(dir, "maps.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: caribbean
width: 160
height: 120
extent: {west: -90, east: -55, south: 5, north: 30}
features:
  - category: coastline
    resolution: 110m
`), 0o644))

	out, err := execute(t, "--cache-dir", cacheDir, "render", path)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "caribbean.png"))
}

func TestRenderErrors(t *testing.T) {
	cacheDir := t.TempDir()

	_, err := execute(t, "--cache-dir", cacheDir, "render", "--param", "central_longitude")
	assert.ErrorContains(t, err, "key=value")

	_, err = execute(t, "--cache-dir", cacheDir, "render", "--extent", "1,2,3")
	assert.ErrorContains(t, err, "west,east,south,north")

	_, err = execute(t, "--cache-dir", cacheDir, "render",
		"--projection", "orthographic", "--param", "central_latitude=95",
		"-o", filepath.Join(t.TempDir(), "x.png"))
	assert.ErrorContains(t, err, "1 of 1 maps failed")

	_, err = execute(t, "--cache-dir", cacheDir, "render", "--fail-fast",
		"--projection", "orthographic", "--param", "central_latitude=95",
		"-o", filepath.Join(t.TempDir(), "x.png"))
	var perr *cartomap.ErrInvalidProjection
	assert.True(t, errors.As(err, &perr), "got %v", err)

	_, err = execute(t, "--log-format", "xml", "regions")
	assert.Error(t, err)
}

func TestCache(t *testing.T) {
	cacheDir := t.TempDir()
	seedCoastline(t, cacheDir)

	out, err := execute(t, "--cache-dir", cacheDir, "cache")
	require.NoError(t, err)
	assert.Contains(t, out, "no datasets cached")

	out, err = execute(t, "--cache-dir", cacheDir, "cache", "--clear")
	require.NoError(t, err)
	assert.Contains(t, out, "cleared")

	entries, err := os.ReadDir(cacheDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
