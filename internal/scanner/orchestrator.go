package scanner

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// UnitPlan describes what will happen to one movie unit
type UnitPlan struct {
	Unit       MovieUnit
	TargetName string      // Formatted "Title (Year) [Quality]"
	Keep       *MovieFile  // Surviving video, nil when the unit holds none
	Discard    []MovieFile // Smaller duplicates to delete
}

// TargetDir returns the folder the unit ends up in
func (u UnitPlan) TargetDir(root string) string {
	return filepath.Join(root, u.TargetName)
}

// TargetFile returns the final path of the surviving video
func (u UnitPlan) TargetFile(root string) string {
	if u.Keep == nil {
		return ""
	}
	return filepath.Join(u.TargetDir(root), u.TargetName+u.Keep.Extension)
}

// JunkFile is a non-video file the cleaner will remove
type JunkFile struct {
	Path string
	Size int64
}

// Plan is the full set of changes for one run over a library root
type Plan struct {
	Root  string
	Units []UnitPlan
	Junk  []JunkFile

	TotalDiscards int
	DiscardBytes  int64
	JunkBytes     int64
}

// SpaceToFree returns the bytes held by duplicates and junk
func (p *Plan) SpaceToFree() int64 {
	return p.DiscardBytes + p.JunkBytes
}

// BuildPlan inspects root without modifying it and works out the target
// name, survivor and discards for every movie unit.
func BuildPlan(fs afero.Fs, root string, s *Sanitizer, logger *slog.Logger) (*Plan, error) {
	if s == nil {
		s = DefaultSanitizer()
	}
	if logger == nil {
		logger = slog.Default()
	}

	units, err := DiscoverUnits(fs, root)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Root: root}

	for _, unit := range units {
		up := UnitPlan{Unit: unit}
		if unit.Standalone {
			up.TargetName = s.SanitizeFile(unit.Name)
		} else {
			up.TargetName = s.Sanitize(unit.Name)
		}
		if up.TargetName == "" {
			up.TargetName = unitBaseName(unit)
		}

		var files []MovieFile
		if unit.Standalone {
			info, err := fs.Stat(unit.Path)
			if err != nil {
				return nil, fmt.Errorf("failed to stat %s: %w", unit.Path, err)
			}
			files = []MovieFile{parseMovieFile(unit.Path, info)}
		} else {
			files, err = CollectVideoFiles(fs, unit.Path)
			if err != nil {
				return nil, err
			}
			logger.Debug("video files found", "movie", unit.Name, "count", len(files))
		}

		if keep, discard, ok := SelectLargest(files); ok {
			up.Keep = &keep
			up.Discard = discard
			plan.TotalDiscards += len(discard)
			for _, f := range discard {
				plan.DiscardBytes += f.Size
			}
		}

		plan.Units = append(plan.Units, up)
	}

	junk, err := findJunk(fs, root)
	if err != nil {
		return nil, err
	}
	plan.Junk = junk
	for _, j := range junk {
		plan.JunkBytes += j.Size
	}

	return plan, nil
}

// findJunk lists every non-video file under root
func findJunk(fs afero.Fs, root string) ([]JunkFile, error) {
	var junk []JunkFile
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || IsVideoFile(path) {
			return nil
		}
		junk = append(junk, JunkFile{Path: path, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning %s: %w", root, err)
	}
	return junk, nil
}
