package reporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Nomadcxx/jellytidy/internal/cleaner"
	"github.com/Nomadcxx/jellytidy/internal/scanner"
)

// BuildPlanContent generates the plan preview text
func BuildPlanContent(plan *scanner.Plan) string {
	var sb strings.Builder

	// Summary
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Library: %s\n", plan.Root))
	sb.WriteString(fmt.Sprintf("Movies found: %d\n", len(plan.Units)))
	sb.WriteString(fmt.Sprintf("Duplicates to delete: %d\n", plan.TotalDiscards))
	sb.WriteString(fmt.Sprintf("Junk files to delete: %d\n", len(plan.Junk)))
	sb.WriteString(fmt.Sprintf("Space to free: %s\n", FormatBytes(plan.SpaceToFree())))
	sb.WriteString("\n")

	if len(plan.Units) > 0 {
		sb.WriteString("MOVIES\n")
		sb.WriteString(strings.Repeat("=", 80) + "\n")
		for _, unit := range plan.Units {
			sb.WriteString(formatUnit(plan.Root, unit))
			sb.WriteString("\n")
		}
	}

	if len(plan.Junk) > 0 {
		sb.WriteString("JUNK\n")
		sb.WriteString(strings.Repeat("=", 80) + "\n")
		for _, j := range plan.Junk {
			sb.WriteString(fmt.Sprintf("  DELETE: [%s] %s\n", FormatBytes(j.Size), relPath(plan.Root, j.Path)))
		}
	}

	return sb.String()
}

// formatUnit formats one unit's planned changes
func formatUnit(root string, unit scanner.UnitPlan) string {
	var sb strings.Builder

	kind := "folder"
	if unit.Unit.Standalone {
		kind = "file"
	}
	sb.WriteString(fmt.Sprintf("%s (%s)\n", unit.Unit.Name, kind))

	if unit.Keep == nil {
		sb.WriteString("  SKIP:   no video files\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("  KEEP:   [%s] %s\n", FormatBytes(unit.Keep.Size), relPath(root, unit.Keep.Path)))
	for _, f := range unit.Discard {
		sb.WriteString(fmt.Sprintf("  DELETE: [%s] %s\n", FormatBytes(f.Size), relPath(root, f.Path)))
	}
	sb.WriteString(fmt.Sprintf("  TARGET: %s\n", relPath(root, unit.TargetFile(root))))

	return sb.String()
}

// BuildResultContent generates the post-run summary text
func BuildResultContent(result cleaner.Result) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Movies organized: %d\n", result.MoviesOrganized))
	sb.WriteString(fmt.Sprintf("Duplicates deleted: %d\n", result.DuplicatesDeleted))
	sb.WriteString(fmt.Sprintf("Junk files deleted: %d\n", result.JunkDeleted))
	sb.WriteString(fmt.Sprintf("Empty folders removed: %d\n", result.DirectoriesRemoved))
	sb.WriteString(fmt.Sprintf("Space freed: %s\n", FormatBytes(result.SpaceFreed)))

	return sb.String()
}

// WriteFile writes content to path, used by --report
func WriteFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// FormatBytes formats bytes to human-readable format using go-humanize
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.Bytes(uint64(bytes))
}

func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}
