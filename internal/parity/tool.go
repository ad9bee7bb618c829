package parity

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"

	appErrors "github.com/mrz1836/go-leanclone/internal/errors"
	"github.com/mrz1836/go-leanclone/internal/logging"
)

// DefaultToolPath is where the build drops the tool, relative to the project root
const DefaultToolPath = "build/latest/glug"

// ErrToolNotFound is returned when the tool binary does not exist
var ErrToolNotFound = errors.New("tool under test not found")

// Runner lists the files the tool under test reports for a directory
type Runner interface {
	List(ctx context.Context, dir string) ([]string, error)
}

// ResolveTool returns path, or path with ".exe" appended when only that
// exists.
func ResolveTool(path string) (string, error) {
	if fileExists(path) {
		return path, nil
	}
	if exe := path + ".exe"; fileExists(exe) {
		return exe, nil
	}
	return "", appErrors.FileOperationError("locate", path, ErrToolNotFound)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Tool runs a binary with no arguments and reads one path per line of
// its standard output. Exit status and stderr are logged, never checked.
type Tool struct {
	path   string
	logger *logrus.Entry
}

// NewTool creates a runner for the binary at path
func NewTool(path string, logger *logrus.Entry) *Tool {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Tool{path: path, logger: logger}
}

// Path returns the binary being run
func (t *Tool) Path() string {
	return t.path
}

// List runs the tool in dir
func (t *Tool) List(ctx context.Context, dir string) ([]string, error) {
	cmd := exec.CommandContext(ctx, t.path) //nolint:gosec // configured tool path
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		t.logger.WithFields(logrus.Fields{
			logging.StandardFields.Command:  t.path,
			logging.StandardFields.WorkDir:  dir,
			logging.StandardFields.ExitCode: exitErr.ExitCode(),
			logging.StandardFields.Stderr:   strings.TrimSpace(stderr.String()),
		}).Warn("Tool exited with an error")
	case err != nil:
		return nil, appErrors.CommandFailedError(t.path, err)
	}

	return parseListing(stdout.String()), nil
}

// parseListing splits tool output into slash-separated paths
func parseListing(out string) []string {
	var files []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		if runtime.GOOS == "windows" {
			line = filepath.ToSlash(line)
		}
		files = append(files, strings.TrimPrefix(line, "./"))
	}
	return files
}
