package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// ApprovedExtensions are the only file extensions kept during cleanup.
// Matching is case-sensitive against the trailing extension.
var ApprovedExtensions = []string{".mkv", ".mp4", ".avi"}

// MovieFile represents a single video file found inside a movie unit
type MovieFile struct {
	Name      string // Base file name
	Path      string // Full path to file
	Extension string // Trailing extension including the dot
	Size      int64  // File size in bytes
}

// MovieUnit is either a standalone video file at the library root
// or a folder representing one movie
type MovieUnit struct {
	Name       string // Entry name under the root
	Path       string // Full path to the file or folder
	Standalone bool   // True for a bare video file at the root
}

// IsVideoFile checks if the file extension is an approved video format
func IsVideoFile(path string) bool {
	ext := filepath.Ext(path)
	for _, videoExt := range ApprovedExtensions {
		if ext == videoExt {
			return true
		}
	}
	return false
}

// DiscoverUnits lists the movie units directly under root.
// Standalone video files come first, then folders, each in name order.
// Other files at the root are not units; the cleaner disposes of them.
func DiscoverUnits(fs afero.Fs, root string) ([]MovieUnit, error) {
	entries, err := afero.ReadDir(fs, root)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", root, err)
	}

	var standalone, folders []MovieUnit
	for _, entry := range entries {
		unit := MovieUnit{
			Name: entry.Name(),
			Path: filepath.Join(root, entry.Name()),
		}

		switch {
		case entry.IsDir():
			folders = append(folders, unit)
		case IsVideoFile(entry.Name()):
			unit.Standalone = true
			standalone = append(standalone, unit)
		}
	}

	return append(standalone, folders...), nil
}

// CollectVideoFiles walks dir and returns every approved video file with its size.
// A directory that no longer exists yields no files.
func CollectVideoFiles(fs afero.Fs, dir string) ([]MovieFile, error) {
	if _, err := fs.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	var files []MovieFile
	err := afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() || !IsVideoFile(path) {
			return nil
		}

		files = append(files, parseMovieFile(path, info))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning %s: %w", dir, err)
	}

	return files, nil
}

// parseMovieFile builds a MovieFile from walk metadata
func parseMovieFile(path string, info os.FileInfo) MovieFile {
	return MovieFile{
		Name:      info.Name(),
		Path:      path,
		Extension: filepath.Ext(path),
		Size:      info.Size(),
	}
}

// SelectLargest picks the video to keep from a unit.
// Files are ordered by size, largest first; equal sizes keep walk order.
// Returns the keeper and the files to delete.
func SelectLargest(files []MovieFile) (MovieFile, []MovieFile, bool) {
	if len(files) == 0 {
		return MovieFile{}, nil, false
	}

	sorted := make([]MovieFile, len(files))
	copy(sorted, files)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Size > sorted[j].Size
	})

	return sorted[0], sorted[1:], true
}

// unitBaseName is the name fed to the sanitizer.
// Standalone files lose their extension so it never ends up in the title.
func unitBaseName(unit MovieUnit) string {
	if unit.Standalone {
		return strings.TrimSuffix(unit.Name, filepath.Ext(unit.Name))
	}
	return unit.Name
}
