package reporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nomadcxx/jellytidy/internal/cleaner"
	"github.com/Nomadcxx/jellytidy/internal/scanner"
)

func samplePlan() *scanner.Plan {
	root := "/library"
	keep := scanner.MovieFile{
		Name:      "heat.mkv",
		Path:      "/library/Heat.1995.1080p.BluRay/heat.mkv",
		Extension: ".mkv",
		Size:      500,
	}

	return &scanner.Plan{
		Root: root,
		Units: []scanner.UnitPlan{
			{
				Unit:       scanner.MovieUnit{Name: "Heat.1995.1080p.BluRay", Path: "/library/Heat.1995.1080p.BluRay"},
				TargetName: "Heat (1995) [1080p]",
				Keep:       &keep,
				Discard: []scanner.MovieFile{
					{Name: "sample.mkv", Path: "/library/Heat.1995.1080p.BluRay/sample.mkv", Extension: ".mkv", Size: 100},
				},
			},
			{
				Unit:       scanner.MovieUnit{Name: "Extras", Path: "/library/Extras"},
				TargetName: "Extras",
			},
		},
		Junk: []scanner.JunkFile{
			{Path: "/library/Heat.1995.1080p.BluRay/heat.nfo", Size: 2000},
		},
		TotalDiscards: 1,
		DiscardBytes:  100,
		JunkBytes:     2000,
	}
}

func TestBuildPlanContent(t *testing.T) {
	content := BuildPlanContent(samplePlan())

	assert.Contains(t, content, "Movies found: 2")
	assert.Contains(t, content, "Duplicates to delete: 1")
	assert.Contains(t, content, "Junk files to delete: 1")
	assert.Contains(t, content, "Space to free: 2.1 kB")
	assert.Contains(t, content, "KEEP:   [500 B] Heat.1995.1080p.BluRay/heat.mkv")
	assert.Contains(t, content, "DELETE: [100 B] Heat.1995.1080p.BluRay/sample.mkv")
	assert.Contains(t, content, "TARGET: Heat (1995) [1080p]/Heat (1995) [1080p].mkv")
	assert.Contains(t, content, "SKIP:   no video files")
	assert.Contains(t, content, "Heat.1995.1080p.BluRay/heat.nfo")
}

func TestBuildResultContent(t *testing.T) {
	content := BuildResultContent(cleaner.Result{
		MoviesOrganized:    3,
		DuplicatesDeleted:  2,
		JunkDeleted:        7,
		DirectoriesRemoved: 4,
		SpaceFreed:         1500000,
	})

	assert.Contains(t, content, "Movies organized: 3")
	assert.Contains(t, content, "Duplicates deleted: 2")
	assert.Contains(t, content, "Junk files deleted: 7")
	assert.Contains(t, content, "Empty folders removed: 4")
	assert.Contains(t, content, "Space freed: 1.5 MB")
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "0 B", FormatBytes(0))
	assert.Equal(t, "0 B", FormatBytes(-5))
	assert.Equal(t, "999 B", FormatBytes(999))
	assert.Equal(t, "1.0 kB", FormatBytes(1000))
	assert.Equal(t, "4.2 GB", FormatBytes(4200000000))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "plan.txt")
	require.NoError(t, WriteFile(path, "hello"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}
