package git

import (
	"context"
	"fmt"
	"strings"
)

// maxBatchSize caps the paths passed to one git invocation to stay under
// command line length limits.
const maxBatchSize = 100

// filterValidFiles removes empty strings and whitespace-only entries from a file list.
func filterValidFiles(files []string) []string {
	validFiles := make([]string, 0, len(files))
	for _, f := range files {
		if strings.TrimSpace(f) != "" {
			validFiles = append(validFiles, f)
		}
	}
	return validFiles
}

// batches splits files into consecutive chunks of at most size entries
func batches(files []string, size int) [][]string {
	var out [][]string
	for i := 0; i < len(files); i += size {
		end := i + size
		if end > len(files) {
			end = len(files)
		}
		out = append(out, files[i:end])
	}
	return out
}

// Restore runs `restore -s <ref>` over paths in batches. An empty path list
// runs nothing.
func (g *gitClient) Restore(ctx context.Context, repoPath, ref string, paths []string) error {
	paths = filterValidFiles(paths)
	if len(paths) == 0 {
		return nil
	}

	for i, batch := range batches(paths, maxBatchSize) {
		args := make([]string, 0, len(batch)+3)
		args = append(args, "restore", "-s", ref)
		args = append(args, batch...)

		if _, err := g.run(ctx, repoPath, args...); err != nil {
			start := i * maxBatchSize
			return fmt.Errorf("restore failed for files %d-%d: %w", start, start+len(batch)-1, err)
		}
	}

	return nil
}
