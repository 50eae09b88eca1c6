package scanner

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates files under root with the given sizes in bytes
func writeTree(t *testing.T, root string, files map[string]int) {
	t.Helper()
	for rel, size := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), size), 0644))
	}
}

func TestIsVideoFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"movie.mkv", true},
		{"/a/b/movie.mp4", true},
		{"movie.avi", true},
		{"movie.MKV", false},
		{"movie.m4v", false},
		{"movie.nfo", false},
		{"movie.mkv.part", false},
		{"mkv", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsVideoFile(tt.path), "IsVideoFile(%q)", tt.path)
	}
}

func TestDiscoverUnits(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]int{
		"Zodiac.2007.720p.mkv":         10,
		"Alien.1979.mp4":               10,
		"readme.txt":                   10,
		"Heat.1995.1080p/heat.mkv":     10,
		"Brazil.1985/brazil.avi":       10,
		"Brazil.1985/extras/notes.nfo": 10,
	})

	units, err := DiscoverUnits(afero.NewOsFs(), root)
	require.NoError(t, err)

	var names []string
	for _, u := range units {
		names = append(names, u.Name)
	}
	assert.Equal(t, []string{"Alien.1979.mp4", "Zodiac.2007.720p.mkv", "Brazil.1985", "Heat.1995.1080p"}, names)

	assert.True(t, units[0].Standalone)
	assert.True(t, units[1].Standalone)
	assert.False(t, units[2].Standalone)
	assert.Equal(t, filepath.Join(root, "Brazil.1985"), units[2].Path)
}

func TestDiscoverUnitsMissingRoot(t *testing.T) {
	_, err := DiscoverUnits(afero.NewOsFs(), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestCollectVideoFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]int{
		"movie.mkv":            500,
		"movie.nfo":            20,
		"Sample/sample.mkv":    100,
		"Subs/english.srt":     30,
		"cd2/movie.part2.avi":  200,
		"cd2/deep/trailer.mp4": 50,
	})

	files, err := CollectVideoFiles(afero.NewOsFs(), root)
	require.NoError(t, err)
	require.Len(t, files, 4)

	sizes := map[string]int64{}
	for _, f := range files {
		sizes[f.Name] = f.Size
		assert.Equal(t, filepath.Ext(f.Name), f.Extension)
	}
	assert.Equal(t, map[string]int64{
		"movie.mkv":       500,
		"sample.mkv":      100,
		"movie.part2.avi": 200,
		"trailer.mp4":     50,
	}, sizes)
}

func TestCollectVideoFilesMissingDir(t *testing.T) {
	files, err := CollectVideoFiles(afero.NewOsFs(), filepath.Join(t.TempDir(), "gone"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestSelectLargest(t *testing.T) {
	files := []MovieFile{
		{Name: "a.mkv", Size: 100},
		{Name: "b.mkv", Size: 500},
		{Name: "c.mkv", Size: 200},
	}

	keep, discard, ok := SelectLargest(files)
	require.True(t, ok)
	assert.Equal(t, "b.mkv", keep.Name)
	require.Len(t, discard, 2)
	assert.Equal(t, "c.mkv", discard[0].Name)
	assert.Equal(t, "a.mkv", discard[1].Name)

	// Input order is untouched
	assert.Equal(t, "a.mkv", files[0].Name)
}

func TestSelectLargestTieKeepsWalkOrder(t *testing.T) {
	files := []MovieFile{
		{Name: "first.mkv", Size: 300},
		{Name: "second.mkv", Size: 300},
	}

	keep, discard, ok := SelectLargest(files)
	require.True(t, ok)
	assert.Equal(t, "first.mkv", keep.Name)
	assert.Equal(t, "second.mkv", discard[0].Name)
}

func TestSelectLargestEmpty(t *testing.T) {
	_, discard, ok := SelectLargest(nil)
	assert.False(t, ok)
	assert.Nil(t, discard)
}

func TestUnitBaseName(t *testing.T) {
	assert.Equal(t, "Alien.1979", unitBaseName(MovieUnit{Name: "Alien.1979.mp4", Standalone: true}))
	assert.Equal(t, "Alien.1979.mp4", unitBaseName(MovieUnit{Name: "Alien.1979.mp4"}))
}
