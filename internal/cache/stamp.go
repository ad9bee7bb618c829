package cache

import (
	"fmt"
	"io/fs"
	"time"

	"github.com/cespare/xxhash/v2"

	appErrors "github.com/mrz1836/go-leanclone/internal/errors"
	"github.com/mrz1836/go-leanclone/internal/jsonutil"
)

// Stamp is the version record written next to a built destination
type Stamp struct {
	Fingerprint string    `json:"fingerprint"`
	BuiltAt     time.Time `json:"built_at"`
}

// Fingerprint hashes parts into a stable hex identifier. Parts are length
// prefixed so ("ab", "c") and ("a", "bc") differ.
func Fingerprint(parts ...string) string {
	h := xxhash.New()
	for _, p := range parts {
		_, _ = fmt.Fprintf(h, "%d:", len(p))
		_, _ = h.WriteString(p)
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// SourceFingerprint hashes version together with the path and content of
// every file in sources, visited in lexical order. Editing any source file
// yields a new fingerprint; version allows a manual bump on top.
func SourceFingerprint(version string, sources ...fs.FS) (string, error) {
	parts := []string{version}
	for _, fsys := range sources {
		err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			data, err := fs.ReadFile(fsys, p)
			if err != nil {
				return err
			}
			parts = append(parts, p, string(data))
			return nil
		})
		if err != nil {
			return "", appErrors.WrapWithContext(err, "read fingerprint sources")
		}
	}
	return Fingerprint(parts...), nil
}

// LockPath returns the lock file guarding dest
func LockPath(dest string) string {
	return dest + ".lock"
}

// StampPath returns the version stamp file of dest
func StampPath(dest string) string {
	return dest + ".version"
}

// ReadStamp loads the stamp of dest. A missing stamp returns an error
// matching fs.ErrNotExist.
func ReadStamp(dest string) (Stamp, error) {
	return jsonutil.ReadFile[Stamp](StampPath(dest))
}

func writeStamp(dest string, stamp Stamp) error {
	return jsonutil.WriteFile(StampPath(dest), stamp)
}
