package cleaner

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// Cleanup errors.
var (
	ErrInvalidRoot       = errors.New("invalid library root")
	ErrProtectedPath     = errors.New("refusing to modify protected path")
	ErrDestinationExists = errors.New("destination already exists")
	ErrDirectoryNotEmpty = errors.New("directory not empty")
)

// Operation types recorded during a run
const (
	OpDelete = "delete"
	OpRename = "rename"
	OpMkdir  = "mkdir"
	OpRmdir  = "rmdir"
)

// Operation represents a single filesystem operation
type Operation struct {
	Type        string // delete, rename, mkdir, rmdir
	Source      string // Original path
	Destination string // New path (for rename)
	Size        int64  // Bytes freed (for delete)
	Timestamp   time.Time
}

// Result represents the outcome of a cleaning run
type Result struct {
	MoviesOrganized    int
	DuplicatesDeleted  int
	JunkDeleted        int
	DirectoriesRemoved int
	SpaceFreed         int64
	Operations         []Operation
}

func (r *Result) record(op Operation) {
	op.Timestamp = time.Now()
	r.Operations = append(r.Operations, op)
}

// Config holds cleaner configuration
type Config struct {
	ProtectedPaths []string
}

// DefaultProtectedPaths are system locations a library root may never point into
var DefaultProtectedPaths = []string{
	"/usr", "/etc", "/bin", "/sbin", "/boot",
	"/sys", "/proc", "/dev",
	"/run/user", "/run/lock", "/run/systemd",
	"/lib", "/lib32", "/lib64", "/libx32",
	"C:\\Windows", "C:\\Program Files", "C:\\Program Files (x86)",
}

// exactProtectedPaths may not be a library root themselves, but anything
// below them may (removable disks mount under /run/media/<user>)
var exactProtectedPaths = []string{"/", "/run", "/run/media"}

// DefaultConfig returns safe default configuration
func DefaultConfig() Config {
	return Config{
		ProtectedPaths: append([]string(nil), DefaultProtectedPaths...),
	}
}

// Cleaner performs the destructive half of a run: pruning junk and
// reorganizing movie units. All filesystem access goes through fs.
type Cleaner struct {
	fs     afero.Fs
	logger *slog.Logger
	config Config
}

// New creates a Cleaner. A nil logger discards all output.
func New(fs afero.Fs, logger *slog.Logger, config Config) *Cleaner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Cleaner{fs: fs, logger: logger, config: config}
}

// ValidateRoot checks that root is an existing directory outside protected paths
func (c *Cleaner) ValidateRoot(root string) error {
	if root == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidRoot)
	}

	if isProtectedPath(filepath.Clean(root), c.config.ProtectedPaths) {
		return fmt.Errorf("%w: %s", ErrProtectedPath, root)
	}

	info, err := c.fs.Stat(root)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidRoot, root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, root)
	}

	return nil
}

// isProtectedPath checks if path is, or lives under, a protected path
func isProtectedPath(path string, protected []string) bool {
	for _, p := range exactProtectedPaths {
		if path == p {
			return true
		}
	}
	for _, p := range protected {
		if path == p || strings.HasPrefix(path, strings.TrimSuffix(p, string(filepath.Separator))+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// deleteFile removes a single file and accounts for its size
func (c *Cleaner) deleteFile(path string, size int64, res *Result) error {
	if err := c.fs.Remove(path); err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	res.SpaceFreed += size
	res.record(Operation{Type: OpDelete, Source: path, Size: size})
	return nil
}

// createDirectory makes dir; an existing directory is only a notice
func (c *Cleaner) createDirectory(dir string, res *Result) error {
	if err := c.fs.Mkdir(dir, 0755); err != nil {
		if os.IsExist(err) {
			c.logger.Info("folder already exists", "path", dir)
			return nil
		}
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	res.record(Operation{Type: OpMkdir, Destination: dir})
	return nil
}

// move renames src to dst, refusing to overwrite anything already at dst
func (c *Cleaner) move(src, dst string, res *Result) error {
	if src == dst {
		return nil
	}

	// Case-only renames point at the same entry on case-insensitive filesystems
	if !strings.EqualFold(src, dst) {
		if _, err := c.fs.Stat(dst); err == nil {
			return fmt.Errorf("move %s -> %s: %w", src, dst, ErrDestinationExists)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat %s: %w", dst, err)
		}
	}

	if err := c.fs.Rename(src, dst); err != nil {
		return fmt.Errorf("move failed %s -> %s: %w", src, dst, err)
	}

	c.logger.Info("renamed", "from", src, "to", dst)
	res.record(Operation{Type: OpRename, Source: src, Destination: dst})
	return nil
}

// removeEmptyDirectory removes dir only if it has no entries
func (c *Cleaner) removeEmptyDirectory(dir string, res *Result) error {
	empty, err := c.isEmptyDir(dir)
	if err != nil {
		return err
	}
	if !empty {
		return fmt.Errorf("%s: %w", dir, ErrDirectoryNotEmpty)
	}

	if err := c.fs.Remove(dir); err != nil {
		return fmt.Errorf("failed to remove directory %s: %w", dir, err)
	}
	res.DirectoriesRemoved++
	res.record(Operation{Type: OpRmdir, Source: dir})
	return nil
}

func (c *Cleaner) isEmptyDir(dir string) (bool, error) {
	entries, err := afero.ReadDir(c.fs, dir)
	if err != nil {
		return false, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	return len(entries) == 0, nil
}
