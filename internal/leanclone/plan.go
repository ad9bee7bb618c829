package leanclone

import (
	"path"
	"sort"

	"github.com/mrz1836/go-leanclone/internal/treediff"
)

// checkoutNames are basenames restored with real content: their bytes drive
// ignore extraction and submodule recursion.
var checkoutNames = []string{".gitignore", ".gitmodules"} //nolint:gochecknoglobals // fixed table

// Plan is the partition of a ref's tree into what a lean clone does with
// each entry.
type Plan struct {
	// Restore holds symlinks and checkout-name files, restored from the ref
	Restore []string
	// Submodules holds gitlink entries, populated by recursion
	Submodules []treediff.Entry
	// Placeholders holds every other path, created as an empty file
	Placeholders []string
}

// NewPlan partitions entries. Each output list is sorted by path.
func NewPlan(entries []treediff.Entry) Plan {
	var plan Plan
	for _, entry := range entries {
		switch {
		case entry.IsSubmodule():
			plan.Submodules = append(plan.Submodules, entry)
		case entry.IsSymlink() || isCheckoutName(entry.Path):
			plan.Restore = append(plan.Restore, entry.Path)
		default:
			plan.Placeholders = append(plan.Placeholders, entry.Path)
		}
	}

	sort.Strings(plan.Restore)
	sort.Strings(plan.Placeholders)
	sort.Slice(plan.Submodules, func(i, j int) bool {
		return plan.Submodules[i].Path < plan.Submodules[j].Path
	})

	return plan
}

func isCheckoutName(p string) bool {
	base := path.Base(p)
	for _, name := range checkoutNames {
		if base == name {
			return true
		}
	}
	return false
}
