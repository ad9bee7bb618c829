// Package errors defines the error taxonomy shared by the lean clone engine,
// the ignore corpus generator and the parity harness.
//
// Every failure surfaces as a sentinel that callers can test with errors.Is:
// configuration errors, subprocess errors, parse errors and generation
// timeouts. Typed errors carry detail and unwrap to their sentinel.
package errors

import (
	"errors"
	"fmt"
)

// Taxonomy sentinels
var (
	// ErrInvalidConfig marks configuration errors: malformed source URIs,
	// missing submodule URLs, unusable config files.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrGitCommand marks a non-zero exit of the version-control tool.
	ErrGitCommand = errors.New("git command failed")

	// ErrParse marks unsupported or corrupted version-control output.
	ErrParse = errors.New("parse error")

	// ErrUnknownMode is returned for a tree entry mode outside the closed set.
	ErrUnknownMode = fmt.Errorf("%w: unknown file mode", ErrParse)

	// ErrDecode is returned for a quoted path that is not valid UTF-8.
	ErrDecode = fmt.Errorf("%w: undecodable path", ErrParse)

	// ErrGenerationTimeout is returned when glob inversion cannot find a
	// legal candidate within the retry bound.
	ErrGenerationTimeout = errors.New("generation timeout")

	// ErrMissingSubmodule is returned for a gitlink entry without a
	// matching submodule configuration section.
	ErrMissingSubmodule = fmt.Errorf("%w: submodule has no url", ErrInvalidConfig)

	// ErrTest is only used in tests
	ErrTest = errors.New("test error")
)

// Error templates for static error definitions (satisfies err113 linter)
var (
	errInvalidFieldTemplate  = errors.New("invalid field")
	errCommandFailedTemplate = errors.New("command failed")
	errEmptyFieldTemplate    = errors.New("field cannot be empty")
	errInvalidFormatTemplate = errors.New("invalid format")
)

// WrapWithContext wraps an error with operation context using consistent formatting.
func WrapWithContext(err error, operation string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %w", operation, err)
}

// InvalidFieldError creates a standardized invalid field error.
func InvalidFieldError(field, value string) error {
	return fmt.Errorf("%w: %w: %s: %s", ErrInvalidConfig, errInvalidFieldTemplate, field, value)
}

// CommandFailedError creates a standardized command failure error.
func CommandFailedError(cmd string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: '%s': %w", errCommandFailedTemplate, cmd, err)
}

// EmptyFieldError creates a standardized empty field validation error.
func EmptyFieldError(field string) error {
	return fmt.Errorf("%w: %w: %s", ErrInvalidConfig, errEmptyFieldTemplate, field)
}

// FormatError creates a standardized format validation error.
func FormatError(field, value, expectedFormat string) error {
	return fmt.Errorf("%w: %w: %s '%s': expected %s", ErrInvalidConfig, errInvalidFormatTemplate, field, value, expectedFormat)
}

// DecodeError reports a quoted path token whose unescaped bytes are not UTF-8.
type DecodeError struct {
	Token string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %q", ErrDecode.Error(), e.Token)
}

// Unwrap returns ErrDecode
func (e *DecodeError) Unwrap() error {
	return ErrDecode
}

// ModeError reports a diff line carrying a mode outside the known set.
type ModeError struct {
	Line string
	Mode string
}

func (e *ModeError) Error() string {
	return fmt.Sprintf("%s %q in line %q", ErrUnknownMode.Error(), e.Mode, e.Line)
}

// Unwrap returns ErrUnknownMode
func (e *ModeError) Unwrap() error {
	return ErrUnknownMode
}

// GenerationTimeoutError names the ignore pattern no legal path could be
// generated for.
type GenerationTimeoutError struct {
	Pattern  string
	Attempts int
}

func (e *GenerationTimeoutError) Error() string {
	return fmt.Sprintf("%s: no legal path for pattern %q after %d attempts", ErrGenerationTimeout.Error(), e.Pattern, e.Attempts)
}

// Unwrap returns ErrGenerationTimeout
func (e *GenerationTimeoutError) Unwrap() error {
	return ErrGenerationTimeout
}

// MissingSubmoduleError names a gitlink path absent from .gitmodules.
type MissingSubmoduleError struct {
	Path string
}

func (e *MissingSubmoduleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingSubmodule.Error(), e.Path)
}

// Unwrap returns ErrMissingSubmodule
func (e *MissingSubmoduleError) Unwrap() error {
	return ErrMissingSubmodule
}
