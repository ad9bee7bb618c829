package parity

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	appErrors "github.com/mrz1836/go-leanclone/internal/errors"
)

// Lister is the part of a repository handle the reference listing needs
type Lister interface {
	Join(subdir string) string
	Tracked(ctx context.Context, subdir string) ([]string, error)
	TrackedIgnored(ctx context.Context, subdir string) ([]string, error)
}

// Reference returns what the tool under test should print for subdir:
// tracked files, minus tracked files an ignore rule matches, minus
// symlinks and submodule directories. The result is sorted.
func Reference(ctx context.Context, repo Lister, subdir string) ([]string, error) {
	tracked, err := repo.Tracked(ctx, subdir)
	if err != nil {
		return nil, err
	}
	ignored, err := repo.TrackedIgnored(ctx, subdir)
	if err != nil {
		return nil, err
	}

	files := mapset.NewThreadUnsafeSet(tracked...).Difference(mapset.NewThreadUnsafeSet(ignored...))

	dir := repo.Join(subdir)
	out := make([]string, 0, files.Cardinality())
	for _, rel := range files.ToSlice() {
		info, err := os.Lstat(filepath.Join(dir, filepath.FromSlash(rel)))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// tracked but deleted from the working tree: the tool cannot see it
			continue
		case err != nil:
			return nil, appErrors.FileOperationError("stat", rel, err)
		case info.Mode()&os.ModeSymlink != 0, info.IsDir():
			continue
		}
		out = append(out, rel)
	}

	sort.Strings(out)
	return out, nil
}
