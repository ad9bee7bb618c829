package globgen

import (
	"fmt"
	"strings"
	"unicode"

	mapset "github.com/deckarep/golang-set/v2"
)

// ForbiddenChars cannot appear in a path segment on the most restrictive
// supported filesystem.
const ForbiddenChars = `<>:"/\|?*`

// reservedNames holds upper-cased segment names no filesystem accepts,
// plus .git which would turn a directory into repository metadata.
var reservedNames = mapset.NewSet[string]( //nolint:gochecknoglobals // read-only lookup table
	".", "..", ".GIT",
	"CON", "PRN", "AUX", "NUL",
	"COM0", "COM1", "COM2", "COM3", "COM4", "COM5", "COM6", "COM7", "COM8", "COM9",
	"LPT0", "LPT1", "LPT2", "LPT3", "LPT4", "LPT5", "LPT6", "LPT7", "LPT8", "LPT9",
)

// alphabet is the printable ASCII range without forbidden characters
var alphabet = buildAlphabet() //nolint:gochecknoglobals // computed once

func buildAlphabet() []rune {
	out := make([]rune, 0, 0x7f-0x20)
	for r := rune(0x20); r < 0x7f; r++ {
		if !strings.ContainsRune(ForbiddenChars, r) {
			out = append(out, r)
		}
	}
	return out
}

// Alphabet returns the characters wildcards are filled from
func Alphabet() []rune {
	out := make([]rune, len(alphabet))
	copy(out, alphabet)
	return out
}

// LegalRune reports whether r may appear in a segment
func LegalRune(r rune) bool {
	return unicode.IsPrint(r) && !strings.ContainsRune(ForbiddenChars, r)
}

// SegmentError explains why a path segment is illegal
type SegmentError struct {
	Segment string
	Reason  string
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("illegal path segment %q: %s", e.Segment, e.Reason)
}

// CheckSegment returns a *SegmentError for an illegal segment
func CheckSegment(seg string) error {
	switch {
	case seg == "":
		return &SegmentError{Segment: seg, Reason: "empty"}
	case strings.HasSuffix(seg, " "):
		return &SegmentError{Segment: seg, Reason: "trailing space"}
	case reservedNames.Contains(strings.ToUpper(seg)):
		return &SegmentError{Segment: seg, Reason: "reserved name"}
	}

	for _, r := range seg {
		if !LegalRune(r) {
			return &SegmentError{Segment: seg, Reason: fmt.Sprintf("character %q", r)}
		}
	}
	return nil
}

// CheckPath checks every segment of a slash-separated relative path
func CheckPath(p string) error {
	for _, seg := range strings.Split(p, "/") {
		if err := CheckSegment(seg); err != nil {
			return err
		}
	}
	return nil
}

// LegalPath reports whether every segment of p is legal
func LegalPath(p string) bool {
	return CheckPath(p) == nil
}
