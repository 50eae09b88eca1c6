package cleaner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/Nomadcxx/jellytidy/internal/scanner"
)

// Prune walks dir recursively, deleting every file whose extension is not an
// approved video extension and removing directories left empty. dir itself
// is removed if nothing survives. Returns the bytes freed.
func (c *Cleaner) Prune(dir string) (int64, error) {
	var res Result
	err := c.prune(filepath.Clean(dir), filepath.Clean(dir), &res)
	return res.SpaceFreed, err
}

// prune handles one directory level. The listing is snapshotted before
// anything is deleted; empty directories are removed climbing upwards,
// never past root.
func (c *Cleaner) prune(dir, root string, res *Result) error {
	entries, err := afero.ReadDir(c.fs, dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var subdirs []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			subdirs = append(subdirs, path)
			continue
		}
		if scanner.IsVideoFile(entry.Name()) {
			continue
		}

		c.logger.Debug("file to remove", "path", path)
		if err := c.deleteFile(path, entry.Size(), res); err != nil {
			return err
		}
		res.JunkDeleted++
	}

	if len(subdirs) == 0 {
		return c.removeEmptyAncestors(dir, root, res)
	}

	for _, sub := range subdirs {
		empty, err := c.isEmptyDir(sub)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}

		if empty {
			if err := c.removeEmptyAncestors(sub, root, res); err != nil {
				return err
			}
			continue
		}

		if err := c.prune(sub, root, res); err != nil {
			return err
		}
	}

	return nil
}

// removeEmptyAncestors removes dir if it is empty, then each parent that
// becomes empty, stopping at the first non-empty one or after root
func (c *Cleaner) removeEmptyAncestors(dir, root string, res *Result) error {
	for {
		empty, err := c.isEmptyDir(dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return err
		}
		if !empty {
			return nil
		}

		c.logger.Debug("directory to remove", "path", dir)
		if err := c.removeEmptyDirectory(dir, res); err != nil {
			return err
		}

		parent := filepath.Dir(dir)
		if dir == root || parent == dir {
			return nil
		}
		dir = parent
	}
}
