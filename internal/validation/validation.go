// Package validation provides shared validation utilities for source URIs,
// refs and repository-relative paths.
package validation

import (
	stdErrors "errors"
	"path"
	"regexp"
	"strings"
	"unicode"

	"github.com/mrz1836/go-leanclone/internal/errors"
)

// Validation patterns compiled once for efficiency
var (
	// repoNamePattern extracts the repository name from a source URI, e.g.
	// "linux" from https://github.com/torvalds/linux.git
	repoNamePattern = regexp.MustCompile(`/([^/.]+)\.git`)

	// commitIDPattern matches full SHA-1 and SHA-256 object names
	commitIDPattern = regexp.MustCompile(`^(?:[0-9a-fA-F]{40}|[0-9a-fA-F]{64})$`)
)

// RepoNameFromURI extracts the repository name used to derive clone directory
// names. A URI without a "/<name>.git" component is a configuration error.
func RepoNameFromURI(uri string) (string, error) {
	if strings.TrimSpace(uri) == "" {
		return "", errors.EmptyFieldError("source uri")
	}

	match := repoNamePattern.FindStringSubmatch(uri)
	if match == nil {
		return "", errors.FormatError("source uri", uri, "'/<name>.git'")
	}

	return match[1], nil
}

// IsCommitID reports whether ref is a full commit identifier rather than a
// branch or tag name.
func IsCommitID(ref string) bool {
	return commitIDPattern.MatchString(ref)
}

// ValidateRef validates a branch, tag or commit identifier.
// Refs end up on git command lines and in directory names.
func ValidateRef(ref string) error {
	if ref == "" {
		return errors.EmptyFieldError("ref")
	}

	if strings.HasPrefix(ref, "-") {
		return errors.InvalidFieldError("ref", ref)
	}

	if strings.Contains(ref, "..") || strings.HasSuffix(ref, "/") || strings.HasPrefix(ref, "/") {
		return errors.InvalidFieldError("ref", ref)
	}

	for _, r := range ref {
		if unicode.IsSpace(r) || unicode.IsControl(r) || strings.ContainsRune(`~^:?*[\`, r) {
			return errors.InvalidFieldError("ref", ref)
		}
	}

	return nil
}

// CloneDirName derives the deterministic "<repoName>-<ref>" directory name.
// Path separators in ref are flattened so that every clone is a direct child
// of the destination root.
func CloneDirName(uri, ref string) (string, error) {
	name, err := RepoNameFromURI(uri)
	if err != nil {
		return "", err
	}

	if err := ValidateRef(ref); err != nil {
		return "", err
	}

	return name + "-" + strings.ReplaceAll(ref, "/", "-"), nil
}

// ValidateRelativePath validates slash-separated repository-relative paths
// such as subdirectories and gitlink locations. Empty means the root.
func ValidateRelativePath(p, fieldName string) error {
	if p == "" {
		return nil
	}

	if path.IsAbs(p) || strings.Contains(p, `\`) {
		return errors.InvalidFieldError(fieldName, p)
	}

	clean := path.Clean(p)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return errors.InvalidFieldError(fieldName, p)
	}

	return nil
}

// ValidateNonEmpty validates that a string field is not empty or whitespace-only.
func ValidateNonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.EmptyFieldError(field)
	}
	return nil
}

// Result collects validation errors.
type Result struct {
	Valid  bool
	Errors []error
}

// NewValidationResult creates a new validation result initialized as valid.
func NewValidationResult() *Result {
	return &Result{
		Valid:  true,
		Errors: make([]error, 0),
	}
}

// AddError adds an error to the validation result.
func (vr *Result) AddError(err error) {
	if err != nil {
		vr.Valid = false
		vr.Errors = append(vr.Errors, err)
	}
}

// FirstError returns the first validation error or nil if valid.
func (vr *Result) FirstError() error {
	if len(vr.Errors) > 0 {
		return vr.Errors[0]
	}
	return nil
}

// AllErrors returns all validation errors joined, or nil if valid.
func (vr *Result) AllErrors() error {
	if len(vr.Errors) == 0 {
		return nil
	}
	return stdErrors.Join(vr.Errors...)
}

// ValidateSource validates a source URI and ref pair before any network access.
func ValidateSource(uri, ref string) error {
	result := NewValidationResult()

	_, err := RepoNameFromURI(uri)
	result.AddError(err)
	result.AddError(ValidateRef(ref))

	return result.FirstError()
}
