// Package parity compares the file listing of the tool under test with
// git's own view of a repository, over a fixed matrix of real projects.
package parity

import (
	"strings"
)

// Need is a host filesystem capability a fixture depends on
type Need uint8

// Capabilities
const (
	NeedSymlinks Need = 1 << iota
	NeedCaseMix
)

// Has reports whether n includes every bit of other
func (n Need) Has(other Need) bool {
	return n&other == other
}

func (n Need) String() string {
	var parts []string
	if n.Has(NeedSymlinks) {
		parts = append(parts, "symlinks")
	}
	if n.Has(NeedCaseMix) {
		parts = append(parts, "case_mix")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ParseNeed converts a capability name as used in config files
func ParseNeed(name string) (Need, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "symlinks":
		return NeedSymlinks, true
	case "case_mix", "case-mix":
		return NeedCaseMix, true
	default:
		return 0, false
	}
}

// Case is one (repository, subdirectory) pair of the matrix
type Case struct {
	Name   string
	Source string
	Ref    string
	Subdir string
	Needs  Need
	// Skip, when set, is the reason the case is never run
	Skip string
	// Self runs against the working tree at the harness's self directory
	Self bool
}

func (c Case) String() string {
	var id string
	switch {
	case c.Name != "":
		id = c.Name
	case c.Self:
		id = "self"
	default:
		id = c.Source + ":" + c.Ref
	}
	if c.Subdir != "" {
		id += "/" + c.Subdir
	}
	return id
}

const repoLinux = "https://github.com/torvalds/linux.git"

// DefaultCases returns the built-in matrix
func DefaultCases() []Case {
	linux := func(ref string) Case {
		return Case{Name: "linux-" + ref, Source: repoLinux, Ref: ref, Needs: NeedSymlinks | NeedCaseMix}
	}

	return []Case{
		linux("v2.6.39"),
		linux("v3.19"),
		linux("v4.20"),
		linux("v5.19"),
		linux("v6.17"),
		{Name: "deno", Source: "https://github.com/denoland/deno.git", Ref: "v2.5.6", Needs: NeedSymlinks},
		{Name: "fastapi", Source: "https://github.com/fastapi/fastapi.git", Ref: "0.120.4"},
		{Name: "godot", Source: "https://github.com/godotengine/godot.git", Ref: "4.5-stable"},
		{Name: "typescript", Source: "https://github.com/microsoft/TypeScript.git", Ref: "v5.9.3", Skip: "Issue #35"},
		{Name: "powershell", Source: "https://github.com/PowerShell/PowerShell.git", Ref: "v7.5.4"},
		{Name: "vuejs", Source: "https://github.com/vuejs/core.git", Ref: "v3.5.22"},
		{Name: "self", Self: true},
	}
}
