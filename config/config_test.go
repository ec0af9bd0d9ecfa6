package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func noEnv(string) (string, bool) { return "", false }

func envOf(values map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := values[name]
		return v, ok
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// withTempFileData runs f with the path of a temporary file holding data.
func withTempFileData(t *testing.T, data []byte, f func(path string)) {
	t.Helper()
	helpers.WithTempFile(func(path string) {
		require.NoError(t, os.WriteFile(path, data, 0o644))
		f(path)
	})
}

func TestDefaults(t *testing.T) {
	cfg, err := Load(LoadOptions{Dir: t.TempDir(), LookupEnv: noEnv})
	require.NoError(t, err)
	assert.Equal(t, New(), cfg)
	assert.Equal(t, DefaultRoot, cfg.Root)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultTolerance, cfg.Tolerance)
	assert.True(t, cfg.Color)
	assert.Equal(t, DefaultIgnore, cfg.Ignore)
}

func TestNewCopiesDefaultIgnore(t *testing.T) {
	cfg := New()
	cfg.Ignore[0] = "changed"
	assert.NotEqual(t, "changed", DefaultIgnore[0])
}

func TestConfigFileInDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, DefaultConfigFile, `
root: tests
timeout: 2s
tolerance: 0.001
skipList: skip.txt
includes: [shell.js]
jsonOutput: out/results.json
color: false
`)
	cfg, err := Load(LoadOptions{Dir: dir, LookupEnv: noEnv})
	require.NoError(t, err)
	assert.Equal(t, &Config{
		Root:       "tests",
		Timeout:    2 * time.Second,
		Tolerance:  0.001,
		SkipList:   "skip.txt",
		Includes:   []string{"shell.js"},
		Ignore:     DefaultIgnore,
		JSONOutput: "out/results.json",
		Color:      false,
	}, cfg)
}

func TestExplicitConfigFile(t *testing.T) {
	withTempFileData(t, []byte("root: suite\n"), func(path string) {
		cfg, err := Load(LoadOptions{ConfigFile: path, Dir: t.TempDir(), LookupEnv: noEnv})
		require.NoError(t, err)
		assert.Equal(t, "suite", cfg.Root)
	})

	_, err := Load(LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml"), LookupEnv: noEnv})
	assert.Error(t, err)
}

func TestEmptyConfigFile(t *testing.T) {
	withTempFileData(t, nil, func(path string) {
		cfg, err := Load(LoadOptions{ConfigFile: path, Dir: t.TempDir(), LookupEnv: noEnv})
		require.NoError(t, err)
		assert.Equal(t, New(), cfg)
	})
}

func TestConfigFileRejectsUnknownFields(t *testing.T) {
	withTempFileData(t, []byte("rooot: suite\n"), func(path string) {
		_, err := Load(LoadOptions{ConfigFile: path, Dir: t.TempDir(), LookupEnv: noEnv})
		assert.Error(t, err)
	})
}

func TestEnvironmentOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, DefaultConfigFile, "root: from-file\ntimeout: 2s\n")
	cfg, err := Load(LoadOptions{Dir: dir, LookupEnv: envOf(map[string]string{
		"FIXTURE_HARNESS_ROOT":      "from-env",
		"FIXTURE_HARNESS_TOLERANCE": "0",
		"FIXTURE_HARNESS_COLOR":     "false",
		"FIXTURE_HARNESS_INCLUDES":  "a.js, b.js,",
		"FIXTURE_HARNESS_IGNORE":    "",
	})})
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Root)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, 0.0, cfg.Tolerance)
	assert.False(t, cfg.Color)
	assert.Equal(t, []string{"a.js", "b.js"}, cfg.Includes)
	assert.Equal(t, DefaultIgnore, cfg.Ignore, "empty variables are ignored")
}

func TestEnvFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, DefaultEnvFile, "FIXTURE_HARNESS_TIMEOUT=5s\nFIXTURE_HARNESS_SKIP_LIST=skip.txt\n")

	cfg, err := Load(LoadOptions{Dir: dir, LookupEnv: envOf(map[string]string{
		"FIXTURE_HARNESS_SKIP_LIST": "real-env.txt",
	})})
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "real-env.txt", cfg.SkipList, "the real environment wins over .env")
}

func TestFlagsOverrideEverything(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, DefaultConfigFile, "jsonOutput: file.json\n")
	cfg, err := Load(LoadOptions{
		Dir:       dir,
		LookupEnv: envOf(map[string]string{"FIXTURE_HARNESS_JSON_OUTPUT": "env.json"}),
		Flags: Overrides{
			JSONOutput: ldvalue.NewOptionalString("flag.json"),
			Timeout:    ldvalue.NewOptionalString("1m"),
			Tolerance:  ldvalue.Float64(1e-6),
			Color:      ldvalue.NewOptionalBool(false),
			Ignore:     []string{},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "flag.json", cfg.JSONOutput)
	assert.Equal(t, time.Minute, cfg.Timeout)
	assert.Equal(t, 1e-6, cfg.Tolerance)
	assert.False(t, cfg.Color)
	assert.Empty(t, cfg.Ignore)
}

func TestInvalidSettings(t *testing.T) {
	for name, opts := range map[string]LoadOptions{
		"bad env tolerance":  {LookupEnv: envOf(map[string]string{"FIXTURE_HARNESS_TOLERANCE": "small"})},
		"bad env color":      {LookupEnv: envOf(map[string]string{"FIXTURE_HARNESS_COLOR": "maybe"})},
		"bad env timeout":    {LookupEnv: envOf(map[string]string{"FIXTURE_HARNESS_TIMEOUT": "soon"})},
		"negative timeout":   {LookupEnv: noEnv, Flags: Overrides{Timeout: ldvalue.NewOptionalString("-1s")}},
		"negative tolerance": {LookupEnv: noEnv, Flags: Overrides{Tolerance: ldvalue.Float64(-1)}},
		"empty root":         {LookupEnv: noEnv, Flags: Overrides{Root: ldvalue.NewOptionalString("")}},
	} {
		t.Run(name, func(t *testing.T) {
			opts.Dir = t.TempDir()
			_, err := Load(opts)
			assert.Error(t, err)
		})
	}
}
