// Package globgen inverts ignore patterns: for each pattern it generates a
// concrete relative path the pattern matches, and it materializes those
// paths as an ignored-file corpus inside a lean clone.
package globgen

import (
	"math/rand/v2"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"

	appErrors "github.com/mrz1836/go-leanclone/internal/errors"
	"github.com/mrz1836/go-leanclone/internal/ignore"
	"github.com/mrz1836/go-leanclone/internal/logging"
)

// Generation bounds
const (
	// MaxAttempts is how many candidates are tried per pattern
	MaxAttempts = 10

	// DefaultMaxRun is the longest run a single wildcard fills
	DefaultMaxRun = 8

	// DefaultMaxDepth is the most directories "**" expands to
	DefaultMaxDepth = 3
)

// Generator produces matching paths from a seeded source so a corpus is
// reproducible. It is not safe for concurrent use.
type Generator struct {
	rng      *rand.Rand
	attempts int
	maxRun   int
	maxDepth int
	logger   *logrus.Entry
}

// Option configures a Generator
type Option func(*Generator)

// WithMaxRun sets the longest run of characters a wildcard fills
func WithMaxRun(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxRun = n
		}
	}
}

// WithMaxDepth sets how many directories "**" may span
func WithMaxDepth(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxDepth = n
		}
	}
}

// WithGeneratorLogger sets the logger
func WithGeneratorLogger(logger *logrus.Entry) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator creates a generator seeded with seed
func NewGenerator(seed uint64, opts ...Option) *Generator {
	g := &Generator{
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), //nolint:gosec // fixtures, not secrets
		attempts: MaxAttempts,
		maxRun:   DefaultMaxRun,
		maxDepth: DefaultMaxDepth,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns a legal path, relative to the tree root, that p matches
func (g *Generator) Generate(p ignore.Pattern) (string, error) {
	path, err := g.generate(Normalize(p))
	if err != nil {
		return "", &appErrors.GenerationTimeoutError{Pattern: p.String(), Attempts: g.attempts}
	}
	return path, nil
}

// GenerateGlob returns a legal path matching a normalized glob
func (g *Generator) GenerateGlob(glob string) (string, error) {
	path, err := g.generate(glob)
	if err != nil {
		return "", &appErrors.GenerationTimeoutError{Pattern: glob, Attempts: g.attempts}
	}
	return path, nil
}

func (g *Generator) generate(glob string) (string, error) {
	tokens := tokenize(glob)
	check := render(tokens)

	var lastErr error
	for attempt := 1; attempt <= g.attempts; attempt++ {
		candidate, ok := g.expand(tokens)
		if !ok {
			lastErr = appErrors.ErrGenerationTimeout
			continue
		}
		if err := CheckPath(candidate); err != nil {
			lastErr = err
			continue
		}
		matched, err := doublestar.Match(check, candidate)
		if err != nil {
			return "", err
		}
		if !matched {
			lastErr = appErrors.ErrGenerationTimeout
			continue
		}
		return candidate, nil
	}

	g.logger.WithFields(logrus.Fields{
		logging.StandardFields.Pattern: glob,
		logging.StandardFields.Error:   lastErr,
	}).Debug("No legal candidate for pattern")
	return "", lastErr
}

// expand substitutes every token once. It reports false when a class has
// no legal member.
func (g *Generator) expand(tokens []token) (string, bool) {
	var b strings.Builder
	for _, t := range tokens {
		switch t.kind {
		case tokLiteral:
			b.WriteString(t.text)
		case tokAnyChar:
			b.WriteRune(g.char())
		case tokStar:
			b.WriteString(g.run())
		case tokDirs:
			for range g.rng.IntN(g.maxDepth + 1) {
				b.WriteString(g.run())
				b.WriteByte('/')
			}
		case tokTail:
			n := 1 + g.rng.IntN(g.maxDepth)
			for i := range n {
				if i > 0 {
					b.WriteByte('/')
				}
				b.WriteString(g.run())
			}
		case tokClass:
			members := t.class.candidates()
			if len(members) == 0 {
				return "", false
			}
			b.WriteRune(members[g.rng.IntN(len(members))])
		}
	}
	return b.String(), true
}

func (g *Generator) char() rune {
	return alphabet[g.rng.IntN(len(alphabet))]
}

// run returns 1..maxRun characters
func (g *Generator) run() string {
	n := 1 + g.rng.IntN(g.maxRun)
	out := make([]rune, n)
	for i := range out {
		out[i] = g.char()
	}
	return string(out)
}
