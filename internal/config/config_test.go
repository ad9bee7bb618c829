package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/mrz1836/go-leanclone/internal/errors"
	"github.com/mrz1836/go-leanclone/internal/parity"
)

const sampleConfig = `
data_dir: /tmp/fixtures
tool: bin/glug
seed: 42
populate_ignored: true
log_level: debug
repos:
  - name: vue
    source: https://github.com/vuejs/core.git
    ref: v3.5.22
    subdir: packages
  - name: linux
    source: https://github.com/torvalds/linux.git
    ref: v6.17
    needs: [symlinks, case_mix]
  - name: self
    self: true
`

func TestLoadFromReader(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(sampleConfig))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/tmp/fixtures", cfg.DataDir)
	assert.Equal(t, "bin/glug", cfg.Tool)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.True(t, cfg.PopulateIgnored)
	assert.Equal(t, "debug", cfg.LogLevel)
	require.Len(t, cfg.Repos, 3)

	cases, err := cfg.Cases()
	require.NoError(t, err)
	assert.Equal(t, "packages", cases[0].Subdir)
	assert.Equal(t, parity.NeedSymlinks|parity.NeedCaseMix, cases[1].Needs)
	assert.True(t, cases[2].Self)
}

func TestLoadFromReader_Defaults(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(""))
	require.NoError(t, err)

	assert.Equal(t, DefaultDataDir, cfg.DataDir)
	assert.Equal(t, parity.DefaultToolPath, cfg.Tool)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Len(t, cfg.Repos, len(parity.DefaultCases()))
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromReader_UnknownField(t *testing.T) {
	_, err := LoadFromReader(strings.NewReader("data_dir: x\nthreads: 4\n"))
	require.ErrorIs(t, err, appErrors.ErrInvalidConfig)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leanclone.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bin/glug", cfg.Tool)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestDefaultRoundTripsCases(t *testing.T) {
	cases, err := Default().Cases()
	require.NoError(t, err)
	assert.Equal(t, parity.DefaultCases(), cases)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	env := envconfig.MapLookuper(map[string]string{
		"LEANCLONE_DATA_DIR":  "/var/cache/fixtures",
		"LEANCLONE_SEED":      "7",
		"LEANCLONE_POPULATE":  "true",
		"LEANCLONE_LOG_LEVEL": "warn",
	})

	require.NoError(t, ApplyEnv(context.Background(), cfg, env))
	assert.Equal(t, "/var/cache/fixtures", cfg.DataDir)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.True(t, cfg.PopulateIgnored)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, parity.DefaultToolPath, cfg.Tool, "unset variables keep the file value")
}

func TestApplyEnv_CanDisable(t *testing.T) {
	cfg := Default()
	cfg.PopulateIgnored = true

	require.NoError(t, ApplyEnv(context.Background(), cfg, envconfig.MapLookuper(map[string]string{"LEANCLONE_POPULATE": "false"})))
	assert.False(t, cfg.PopulateIgnored)
}

func TestApplyEnv_BadValue(t *testing.T) {
	err := ApplyEnv(context.Background(), Default(), envconfig.MapLookuper(map[string]string{"LEANCLONE_SEED": "many"}))
	require.ErrorIs(t, err, appErrors.ErrInvalidConfig)
}

func TestResolve(t *testing.T) {
	env := envconfig.MapLookuper(map[string]string{"LEANCLONE_TOOL": "/opt/glug"})

	cfg, err := Resolve(context.Background(), "", env)
	require.NoError(t, err)
	assert.Equal(t, "/opt/glug", cfg.Tool)
	assert.Len(t, cfg.Repos, len(parity.DefaultCases()))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: chatty\n"), 0o600))
	_, err = Resolve(context.Background(), path, envconfig.MapLookuper(nil))
	require.ErrorIs(t, err, appErrors.ErrInvalidConfig)
}
