package naturalearth

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/require"
)

// square returns a clockwise shapefile ring around (x, y).
func square(x, y, size float64) []shp.Point {
	return []shp.Point{
		{X: x, Y: y},
		{X: x, Y: y + size},
		{X: x + size, Y: y + size},
		{X: x + size, Y: y},
		{X: x, Y: y},
	}
}

// writeShapefile writes polygons to dir/stem.shp (+ .shx, .dbf) and returns
// the .shp path.
func writeShapefile(t *testing.T, dir, stem string, polygons ...[][]shp.Point) string {
	t.Helper()
	path := filepath.Join(dir, stem+".shp")
	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{shp.StringField("NAME", 32)}))
	for i, parts := range polygons {
		poly := shp.Polygon(*shp.NewPolyLine(parts))
		row := w.Write(&poly)
		require.NoError(t, w.WriteAttribute(int(row), 0, fmt.Sprintf("feature %d", i)))
	}
	w.Close()
	return path
}

// writeShapefileZip writes a zipped shapefile and returns its bytes.
func writeShapefileZip(t *testing.T, stem string, polygons ...[][]shp.Point) []byte {
	t.Helper()
	dir := t.TempDir()
	writeShapefile(t, dir, stem, polygons...)
	return zipShapefile(t, dir, stem, ".shp", ".shx", ".dbf")
}

// zipShapefile archives the stem's files with the given extensions.
func zipShapefile(t *testing.T, dir, stem string, exts ...string) []byte {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), stem+".zip")
	out, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(out)
	for _, ext := range exts {
		src, err := os.Open(filepath.Join(dir, stem+ext))
		require.NoError(t, err)
		dst, err := zw.Create(stem + ext)
		require.NoError(t, err)
		_, err = io.Copy(dst, src)
		require.NoError(t, err)
		src.Close()
	}
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())

	data, err := os.ReadFile(zipPath)
	require.NoError(t, err)
	return data
}
