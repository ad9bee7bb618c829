package treediff

import (
	"fmt"
	"strings"

	"github.com/mrz1836/go-leanclone/internal/errors"
)

// Mode is the git object mode of a tree entry
type Mode uint8

// Supported tree entry modes. Any other mode is a parse error.
const (
	ModeRegular Mode = iota + 1
	ModeExecutable
	ModeSymlink
	ModeGitlink
)

// ParseMode maps the octal mode text git prints to a Mode
func ParseMode(text string) (Mode, bool) {
	switch text {
	case "100644":
		return ModeRegular, true
	case "100755":
		return ModeExecutable, true
	case "120000":
		return ModeSymlink, true
	case "160000":
		return ModeGitlink, true
	default:
		return 0, false
	}
}

// String returns the octal mode text
func (m Mode) String() string {
	switch m {
	case ModeRegular:
		return "100644"
	case ModeExecutable:
		return "100755"
	case ModeSymlink:
		return "120000"
	case ModeGitlink:
		return "160000"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// Entry is one record of the tree listing at a ref
type Entry struct {
	Path string
	Mode Mode
	// Hash is the object id at the ref. For a gitlink it is the commit
	// the submodule is pinned to.
	Hash string
}

// IsSymlink reports whether the entry is a symbolic link
func (e Entry) IsSymlink() bool { return e.Mode == ModeSymlink }

// IsSubmodule reports whether the entry is a gitlink
func (e Entry) IsSubmodule() bool { return e.Mode == ModeGitlink }

// IsExecutable reports whether the entry is an executable file
func (e Entry) IsExecutable() bool { return e.Mode == ModeExecutable }

// IsFile reports whether the entry is a regular or executable file
func (e Entry) IsFile() bool { return e.Mode == ModeRegular || e.Mode == ModeExecutable }

// ParseLine parses one line of `git diff-index <ref>` output.
//
// The line has the form
//
//	:<mode> <mode> <hash> <hash> <status>\t<path>
//
// The first mode and hash columns describe the ref side of the comparison and
// are the ones kept.
func ParseLine(line string) (Entry, error) {
	line = strings.TrimSuffix(line, "\r")
	meta, pathToken, found := strings.Cut(line, "\t")
	if !found || !strings.HasPrefix(meta, ":") {
		return Entry{}, fmt.Errorf("%w: malformed diff line %q", errors.ErrParse, line)
	}

	fields := strings.Fields(meta[1:])
	if len(fields) < 5 {
		return Entry{}, fmt.Errorf("%w: malformed diff line %q", errors.ErrParse, line)
	}

	mode, ok := ParseMode(fields[0])
	if !ok {
		return Entry{}, &errors.ModeError{Line: line, Mode: fields[0]}
	}

	path, err := DecodePath(pathToken)
	if err != nil {
		return Entry{}, err
	}

	return Entry{Path: path, Mode: mode, Hash: fields[2]}, nil
}

// ParseLines parses a full diff-index listing, skipping empty lines.
// The first failure aborts the parse.
func ParseLines(lines []string) ([]Entry, error) {
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entry, err := ParseLine(line)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
