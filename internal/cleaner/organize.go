package cleaner

import (
	"fmt"
	"path/filepath"

	"github.com/Nomadcxx/jellytidy/internal/scanner"
)

// Apply executes a plan: each unit is reorganized into its formatted folder
// and the library root is pruned after every unit. The first filesystem
// error stops the run; operations completed so far stay in the result.
func (c *Cleaner) Apply(plan *scanner.Plan) (Result, error) {
	var result Result

	root := filepath.Clean(plan.Root)
	if err := c.ValidateRoot(root); err != nil {
		return result, err
	}

	for _, unit := range plan.Units {
		if err := c.organizeUnit(root, unit, &result); err != nil {
			return result, fmt.Errorf("failed to organize %s: %w", unit.Unit.Name, err)
		}

		if err := c.prune(root, root, &result); err != nil {
			return result, fmt.Errorf("cleanup after %s failed: %w", unit.Unit.Name, err)
		}
	}

	return result, nil
}

// organizeUnit moves the surviving video of one unit into place
func (c *Cleaner) organizeUnit(root string, unit scanner.UnitPlan, res *Result) error {
	if unit.Keep == nil {
		c.logger.Debug("no video files, leaving folder", "movie", unit.Unit.Name)
		return nil
	}

	if unit.Unit.Standalone {
		targetDir := unit.TargetDir(root)
		if err := c.createDirectory(targetDir, res); err != nil {
			return err
		}
		if err := c.move(unit.Keep.Path, unit.TargetFile(root), res); err != nil {
			return err
		}
		res.MoviesOrganized++
		return nil
	}

	for _, f := range unit.Discard {
		c.logger.Info("removing smaller duplicate", "path", f.Path, "size", f.Size)
		if err := c.deleteFile(f.Path, f.Size, res); err != nil {
			return err
		}
		res.DuplicatesDeleted++
	}

	// Rename the video inside its current folder, then the folder itself
	videoName := unit.TargetName + unit.Keep.Extension
	if err := c.move(unit.Keep.Path, filepath.Join(unit.Unit.Path, videoName), res); err != nil {
		return err
	}
	if err := c.move(unit.Unit.Path, unit.TargetDir(root), res); err != nil {
		return err
	}

	res.MoviesOrganized++
	return nil
}
