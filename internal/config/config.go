// Package config loads the fixture matrix and harness settings.
//
// Settings come from a YAML file, or the built-in matrix when no file is
// given, and LEANCLONE_* environment variables override single fields.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"

	appErrors "github.com/mrz1836/go-leanclone/internal/errors"
	"github.com/mrz1836/go-leanclone/internal/parity"
)

// Defaults
const (
	DefaultDataDir  = "test/data/.cloned"
	DefaultLogLevel = "info"
)

// Config is the complete harness configuration
type Config struct {
	// DataDir holds cached lean clones
	DataDir string `yaml:"data_dir"`
	// Tool is the binary under test; ".exe" is tried when it is missing
	Tool string `yaml:"tool"`
	// Seed drives ignored-file generation
	Seed uint64 `yaml:"seed"`
	// PopulateIgnored writes generated ignored files into each clone
	PopulateIgnored bool         `yaml:"populate_ignored"`
	LogLevel        string       `yaml:"log_level"`
	Repos           []RepoConfig `yaml:"repos"`
}

// RepoConfig is one parity case
type RepoConfig struct {
	Name   string   `yaml:"name"`
	Source string   `yaml:"source,omitempty"`
	Ref    string   `yaml:"ref,omitempty"`
	Subdir string   `yaml:"subdir,omitempty"`
	Needs  []string `yaml:"needs,omitempty"`
	Skip   string   `yaml:"skip,omitempty"`
	Self   bool     `yaml:"self,omitempty"`
}

// envOverrides are read with noinit so unset variables stay nil
type envOverrides struct {
	DataDir  *string `env:"LEANCLONE_DATA_DIR,noinit"`
	Tool     *string `env:"LEANCLONE_TOOL,noinit"`
	LogLevel *string `env:"LEANCLONE_LOG_LEVEL,noinit"`
	Seed     *uint64 `env:"LEANCLONE_SEED,noinit"`
	Populate *bool   `env:"LEANCLONE_POPULATE,noinit"`
}

// Default returns the built-in matrix with default settings
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// Load reads the configuration file at path
func Load(path string) (*Config, error) {
	file, err := os.Open(path) //#nosec G304 -- Path is user-provided config file
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return LoadFromReader(file)
}

// LoadFromReader parses configuration from an io.Reader. Unknown fields are
// rejected; an empty document yields the defaults.
func LoadFromReader(reader io.Reader) (*Config, error) {
	cfg := &Config{}

	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)

	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: failed to parse YAML: %w", appErrors.ErrInvalidConfig, err)
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

// ApplyDefaults fills unset fields. A config without repos gets the
// built-in matrix.
func ApplyDefaults(cfg *Config) {
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}
	if cfg.Tool == "" {
		cfg.Tool = parity.DefaultToolPath
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if len(cfg.Repos) == 0 {
		for _, c := range parity.DefaultCases() {
			cfg.Repos = append(cfg.Repos, fromCase(c))
		}
	}
}

// ApplyEnv overrides fields from LEANCLONE_* variables found by lookuper,
// or the process environment when lookuper is nil.
func ApplyEnv(ctx context.Context, cfg *Config, lookuper envconfig.Lookuper) error {
	if lookuper == nil {
		lookuper = envconfig.OsLookuper()
	}

	var env envOverrides
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &env, Lookuper: lookuper}); err != nil {
		return fmt.Errorf("%w: environment: %w", appErrors.ErrInvalidConfig, err)
	}

	if env.DataDir != nil {
		cfg.DataDir = *env.DataDir
	}
	if env.Tool != nil {
		cfg.Tool = *env.Tool
	}
	if env.LogLevel != nil {
		cfg.LogLevel = *env.LogLevel
	}
	if env.Seed != nil {
		cfg.Seed = *env.Seed
	}
	if env.Populate != nil {
		cfg.PopulateIgnored = *env.Populate
	}
	return nil
}

// Resolve loads path, or the defaults when path is empty, applies the
// environment and validates the result.
func Resolve(ctx context.Context, path string, lookuper envconfig.Lookuper) (*Config, error) {
	cfg := Default()
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := ApplyEnv(ctx, cfg, lookuper); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromCase(c parity.Case) RepoConfig {
	rc := RepoConfig{
		Name:   c.Name,
		Source: c.Source,
		Ref:    c.Ref,
		Subdir: c.Subdir,
		Skip:   c.Skip,
		Self:   c.Self,
	}
	if c.Needs.Has(parity.NeedSymlinks) {
		rc.Needs = append(rc.Needs, "symlinks")
	}
	if c.Needs.Has(parity.NeedCaseMix) {
		rc.Needs = append(rc.Needs, "case_mix")
	}
	return rc
}
