package results

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", size)), 0o644))
}

func TestClassify(t *testing.T) {
	cases := map[string]Category{
		"dashboard.html":          CategoryWeb,
		"building_proximity.csv":  CategoryTable,
		"stats.json":              CategoryData,
		"hist.png":                CategoryImage,
		"photo.JPG":               CategoryImage,
		"buildings_Ring.geojson":  CategoryGeometry,
		"notes.md":                CategoryFile,
		"Makefile":                CategoryFile,
		"archive.geojson.bak":     CategoryFile,
		"dual_network_stats.json": CategoryData,
	}
	for name, want := range cases {
		assert.Equal(t, want, Classify(name), name)
	}
}

func TestListRecursiveAndDeterministic(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "results_test")
	b := filepath.Join(root, "simulation_outputs")
	writeFile(t, filepath.Join(a, "hp_analysis", "hp_dashboard.html"), 1234)
	writeFile(t, filepath.Join(a, "hp_analysis", "building_proximity_table.csv"), 10)
	writeFile(t, filepath.Join(a, "dh_analysis", "deep", "net.geojson"), 3)
	writeFile(t, filepath.Join(b, "run.log"), 0)

	dirs := []string{a, filepath.Join(root, "results"), b}
	files, err := List(dirs)
	require.NoError(t, err)
	require.Len(t, files, 4)

	assert.Equal(t, OutputFile{Dir: a, Path: "dh_analysis/deep/net.geojson", Size: 3, Category: CategoryGeometry}, files[0])
	assert.Equal(t, "hp_analysis/building_proximity_table.csv", files[1].Path)
	assert.Equal(t, "hp_analysis/hp_dashboard.html", files[2].Path)
	assert.Equal(t, b, files[3].Dir)

	again, err := List(dirs)
	require.NoError(t, err)
	assert.Equal(t, files, again)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, EmptyMessage, Format(nil))

	out := Format([]OutputFile{
		{Dir: "results_test", Path: "hp_analysis/hp_dashboard.html", Size: 1234567, Category: CategoryWeb},
		{Dir: "results_test", Path: "a.png", Size: 12, Category: CategoryImage},
		{Dir: "results", Path: "x.bin", Size: 1000, Category: CategoryFile},
	})
	assert.Equal(t, "\n📁 results_test/\n"+
		"  🌐 hp_analysis/hp_dashboard.html (1,234,567 bytes)\n"+
		"  🖼️ a.png (12 bytes)\n"+
		"\n📁 results/\n"+
		"  📁 x.bin (1,000 bytes)\n", out)
}

func TestListMissingDirectories(t *testing.T) {
	files, err := List([]string{filepath.Join(t.TempDir(), "nope")})
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.Equal(t, EmptyMessage, Format(files))
}
