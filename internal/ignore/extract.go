package ignore

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	appErrors "github.com/mrz1836/go-leanclone/internal/errors"
	"github.com/mrz1836/go-leanclone/internal/logging"
)

// Extractor reads ignore files below a root directory
type Extractor struct {
	logger *logrus.Entry
}

// NewExtractor creates an extractor logging to logger
func NewExtractor(logger *logrus.Entry) *Extractor {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Extractor{
		logger: logger.WithField(logging.StandardFields.Component, logging.ComponentNames.Ignore),
	}
}

// Extract finds every ignore file below root and returns their patterns.
// Nested repositories are not entered.
func (e *Extractor) Extract(root string) (*Set, error) {
	files, err := Find(root)
	if err != nil {
		return nil, err
	}

	set := NewSet()
	total := 0
	for _, rel := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		data, err := os.ReadFile(path) //nolint:gosec // ignore file found while walking root
		if err != nil {
			return nil, appErrors.FileReadError(path, err)
		}

		patterns := ParseFile(rel, data)
		total += len(patterns)
		for _, p := range patterns {
			set.Add(p)
		}

		e.logger.WithFields(logrus.Fields{
			logging.StandardFields.FilePath:     rel,
			logging.StandardFields.PatternCount: len(patterns),
		}).Debug("Read ignore file")
	}

	e.logger.WithFields(logrus.Fields{
		logging.StandardFields.FileCount:    len(files),
		logging.StandardFields.PatternCount: set.Len(),
	}).Infof("Extracted %d unique patterns from %d lines", set.Len(), total)

	return set, nil
}

// Extract is a convenience wrapper for an extractor without logging
func Extract(root string) (*Set, error) {
	return NewExtractor(nil).Extract(root)
}

// Find returns the slash paths, relative to root, of every ignore file below
// root. Parents sort before children. Directories holding their own .git
// (nested repositories) are skipped.
func Find(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			if path != root && isRepository(path) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Name() != FileName || !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, appErrors.DirectoryWalkError(root, err)
	}

	sort.Slice(files, func(i, j int) bool {
		di, dj := strings.Count(files[i], "/"), strings.Count(files[j], "/")
		if di != dj {
			return di < dj
		}
		return files[i] < files[j]
	})

	return files, nil
}

func isRepository(dir string) bool {
	_, err := os.Lstat(filepath.Join(dir, ".git"))
	return err == nil
}
