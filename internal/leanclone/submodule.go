package leanclone

import (
	"os"
	"path"
	"strings"

	gitconfig "github.com/go-git/go-git/v5/config"

	appErrors "github.com/mrz1836/go-leanclone/internal/errors"
)

// SubmoduleMap maps a gitlink path to the URL of its repository
type SubmoduleMap map[string]string

// ParseSubmodules reads the sections of a .gitmodules file. Sections with
// an unsafe path are dropped.
func ParseSubmodules(data []byte) (SubmoduleMap, error) {
	modules := gitconfig.NewModules()
	if err := modules.Unmarshal(data); err != nil {
		return nil, appErrors.FormatError(".gitmodules", truncate(string(data), 64), "git config syntax")
	}

	m := make(SubmoduleMap, len(modules.Submodules))
	for _, sub := range modules.Submodules {
		if sub.Path == "" || sub.URL == "" {
			continue
		}
		m[path.Clean(sub.Path)] = sub.URL
	}
	return m, nil
}

// ReadSubmodules parses the .gitmodules file at path. A missing file yields
// an empty map.
func ReadSubmodules(file string) (SubmoduleMap, error) {
	data, err := os.ReadFile(file) //nolint:gosec // path inside the clone being built
	if os.IsNotExist(err) {
		return SubmoduleMap{}, nil
	}
	if err != nil {
		return nil, appErrors.FileReadError(file, err)
	}
	return ParseSubmodules(data)
}

// URL returns the URL for gitlink path p, resolved against parent when it
// is relative.
func (m SubmoduleMap) URL(p, parent string) (string, error) {
	url, ok := m[path.Clean(p)]
	if !ok {
		return "", &appErrors.MissingSubmoduleError{Path: p}
	}
	return ResolveURL(parent, url), nil
}

// ResolveURL resolves a submodule URL starting with ./ or ../ against the
// parent repository URL, the way git does. Other URLs are returned unchanged.
func ResolveURL(parent, url string) string {
	if !strings.HasPrefix(url, "./") && !strings.HasPrefix(url, "../") {
		return url
	}

	base := strings.TrimRight(parent, "/")
	rel := url
	for {
		switch {
		case strings.HasPrefix(rel, "./"):
			rel = rel[2:]
		case strings.HasPrefix(rel, "../"):
			rel = rel[3:]
			base = parentOf(base)
		default:
			if strings.HasSuffix(base, ":") {
				return base + rel
			}
			return base + "/" + rel
		}
	}
}

// parentOf drops the last component of a remote URL, keeping the scheme and
// host of URLs and the host of scp-like addresses.
func parentOf(url string) string {
	if i := strings.Index(url, "://"); i >= 0 {
		hostStart := i + 3
		slash := strings.Index(url[hostStart:], "/")
		if slash < 0 {
			return url
		}
		if j := strings.LastIndex(url, "/"); j >= hostStart+slash {
			return url[:j]
		}
		return url
	}

	if j := strings.LastIndex(url, "/"); j > 0 {
		return url[:j]
	}
	if j := strings.LastIndex(url, ":"); j >= 0 {
		return url[:j+1]
	}
	return url
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
