package parity

import (
	"errors"
	"os"
	"path/filepath"

	appErrors "github.com/mrz1836/go-leanclone/internal/errors"
)

// Probe file names, left in dir between runs
const (
	symlinkProbe   = "symlink.check"
	caseProbeUpper = "SpOnGeBoB.check"
	caseProbeLower = "sPoNgEbOb.check"
)

// SupportsSymlinks reports whether symlinks can be created in dir
func SupportsSymlinks(dir string) bool {
	probe := filepath.Join(dir, symlinkProbe)
	if info, err := os.Lstat(probe); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return true
	}

	return os.Symlink(symlinkProbe, probe) == nil
}

// SupportsCaseMix reports whether dir keeps names differing only in case
// as separate files.
func SupportsCaseMix(dir string) (bool, error) {
	upper := filepath.Join(dir, caseProbeUpper)
	lower := filepath.Join(dir, caseProbeLower)

	for _, p := range []string{upper, lower} {
		f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY, 0o600) //nolint:gosec // probe file in data dir
		if err != nil {
			return false, appErrors.FileCreateError(p, err)
		}
		if err := f.Close(); err != nil {
			return false, appErrors.FileCreateError(p, err)
		}
	}

	a, err := os.Stat(upper)
	if err != nil {
		return false, appErrors.FileOperationError("stat", upper, err)
	}
	b, err := os.Stat(lower)
	if err != nil {
		return false, appErrors.FileOperationError("stat", lower, err)
	}

	return !os.SameFile(a, b), nil
}

// errCapability is returned by skipReason's probe failures
var errCapability = errors.New("capability probe failed")

// skipReason returns why c cannot run with dir as data directory, or ""
func skipReason(c Case, dir string) (string, error) {
	if c.Skip != "" {
		return c.Skip, nil
	}
	if c.Needs.Has(NeedSymlinks) && !SupportsSymlinks(dir) {
		return "Skipping repo with symlinks", nil
	}
	if c.Needs.Has(NeedCaseMix) {
		ok, err := SupportsCaseMix(dir)
		if err != nil {
			return "", errors.Join(errCapability, err)
		}
		if !ok {
			return "Skipping repo with case-mixed files", nil
		}
	}
	return "", nil
}
