// Package logging provides logging configuration types and utilities.
//
// This package defines the logging configuration passed by dependency
// injection into the git client, the lean clone engine, the corpus generator
// and the parity harness. It is a leaf dependency to avoid import cycles.
package logging

import (
	"crypto/rand"
	"encoding/hex"
)

// LogConfig holds all logging and CLI configuration.
//
// This configuration is passed via dependency injection throughout the
// application to avoid global state and enable better testing isolation.
type LogConfig struct {
	ConfigFile    string
	LogLevel      string
	Verbose       int // -v, -vv, -vvv support
	Debug         DebugFlags
	LogFormat     string // "text" or "json"
	CorrelationID string // Unique ID for correlating one invocation
}

// DebugFlags contains component-specific debug flags for targeted troubleshooting.
//
// Each flag enables detailed logging for a specific component:
// - Git: every git invocation with its arguments and working directory
// - Clone: lean clone partitioning and placeholder creation
// - Generate: per-pattern glob inversion attempts
type DebugFlags struct {
	Git      bool // --debug-git flag
	Clone    bool // --debug-clone flag
	Generate bool // --debug-generate flag
}

// Any reports whether at least one component debug flag is set.
func (d DebugFlags) Any() bool {
	return d.Git || d.Clone || d.Generate
}

// GenerateCorrelationID creates a unique correlation ID for request tracing.
//
// Returns a 16-character hex-encoded string that can be used to correlate
// log entries from one fixture build across components.
func GenerateCorrelationID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return "fallback-id"
	}
	return hex.EncodeToString(bytes)
}
