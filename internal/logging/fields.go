package logging

// StandardFields defines the standardized field names for structured logging
// across all components to ensure consistency.
//
//nolint:gochecknoglobals // Intentional global constants for standardized field names
var StandardFields = struct {
	// Repository Identifiers
	SourceURI   string
	Ref         string
	RepoName    string
	Destination string
	Subdir      string

	// Timing and Performance
	DurationMs string
	Timestamp  string

	// Operation Context
	Component     string
	Operation     string
	Phase         string
	CorrelationID string

	// Resource Identifiers
	Command  string
	WorkDir  string
	FilePath string
	Pattern  string

	// Counts
	FileCount      string
	RestoreCount   string
	SubmoduleCount string
	PatternCount   string

	// Error Information
	Error    string
	Stderr   string
	ExitCode string

	// Status
	Status string
}{
	SourceURI:   "source_uri",
	Ref:         "ref",
	RepoName:    "repo_name",
	Destination: "destination",
	Subdir:      "subdir",

	DurationMs: "duration_ms",
	Timestamp:  "@timestamp",

	Component:     "component",
	Operation:     "operation",
	Phase:         "phase",
	CorrelationID: "correlation_id",

	Command:  "command",
	WorkDir:  "work_dir",
	FilePath: "file_path",
	Pattern:  "pattern",

	FileCount:      "file_count",
	RestoreCount:   "restore_count",
	SubmoduleCount: "submodule_count",
	PatternCount:   "pattern_count",

	Error:    "error",
	Stderr:   "stderr",
	ExitCode: "exit_code",

	Status: "status",
}

// ComponentNames defines standardized component names for logging consistency
//
//nolint:gochecknoglobals // Intentional global constants for standardized component names
var ComponentNames = struct {
	Git      string
	Cache    string
	Clone    string
	Ignore   string
	Generate string
	Parity   string
	CLI      string
}{
	Git:      "git",
	Cache:    "fixture-cache",
	Clone:    "lean-clone",
	Ignore:   "ignore-extractor",
	Generate: "corpus-generator",
	Parity:   "parity-harness",
	CLI:      "cli",
}
