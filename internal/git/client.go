// Package git wraps the git subcommands used to build and inspect lean clones.
//
// Every invocation runs with its working directory set to the repository (no
// -C flag) so the argument vectors stay exactly as git documents them.
package git

import (
	"context"

	"github.com/Masterminds/semver/v3"
)

// Client defines the git operations needed by the lean clone engine
type Client interface {
	// Clone performs a shallow, no-checkout clone of uri into dest.
	// When branch is empty the remote default branch is cloned and the
	// caller is expected to Fetch the wanted commit.
	Clone(ctx context.Context, uri, branch, dest string) error

	// Fetch fetches a single ref from remote into repoPath
	Fetch(ctx context.Context, repoPath, remote, ref string) error

	// DiffIndex lists every tree entry that differs between ref and the
	// (empty) working tree, one raw line per entry.
	DiffIndex(ctx context.Context, repoPath, ref string) ([]string, error)

	// Restore checks out paths from ref into the working tree
	Restore(ctx context.Context, repoPath, ref string, paths []string) error

	// Init creates an empty repository in repoPath
	Init(ctx context.Context, repoPath string) error

	// AddAll force-adds every file below repoPath, ignored ones included
	AddAll(ctx context.Context, repoPath string) error

	// Commit records the index with the given message
	Commit(ctx context.Context, repoPath, message string) error

	// LsFiles lists tracked files below dir, relative to dir
	LsFiles(ctx context.Context, dir string) ([]string, error)

	// LsFilesIgnored lists tracked files that match an ignore rule
	LsFilesIgnored(ctx context.Context, dir string) ([]string, error)

	// LsOthers lists untracked files that no ignore rule matches
	LsOthers(ctx context.Context, dir string) ([]string, error)

	// RevParseTopLevel returns the absolute root of the repository holding dir
	RevParseTopLevel(ctx context.Context, dir string) (string, error)

	// CheckIgnore explains which rule ignores file, ignoring the index
	CheckIgnore(ctx context.Context, dir, file string) (string, error)

	// Version returns the installed git version
	Version(ctx context.Context) (*semver.Version, error)
}
