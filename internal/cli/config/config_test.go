package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes a haiku.yaml into a fresh temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "haiku.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0600))
	return cfgPath
}

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "config file")
	flags.String("error-policy", "", "error policy")
	flags.Int("max-errors", 0, "max errors")
	flags.StringP("output", "o", "", "output format")
	flags.BoolP("verbose", "v", false, "verbose")
	flags.StringSlice("source-extensions", nil, "extensions")
	return flags
}

// TestLoadConfig_Defaults tests loading without any file, env or flags.
func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", "/home/tester")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "collect", cfg.ErrorPolicy)
	assert.Equal(t, 0, cfg.MaxErrors)
	assert.Equal(t, "auto", cfg.OutputFormat)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, []string{".hk"}, cfg.SourceExtensions)
	assert.Equal(t, "/home/tester/.haiku_history", cfg.HistoryFile)
	assert.Equal(t, DefaultStatePath, cfg.StatePath)
	assert.Equal(t, DefaultServeAddr, cfg.ServeAddr)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

// TestLoadConfig_File tests values read from an explicit config file.
func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, `error_policy: fail-fast
max_errors: 3
output: json
log_level: DEBUG
source_extensions: [".hk", ".haiku"]
`)

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "fail-fast", cfg.ErrorPolicy)
	assert.Equal(t, 3, cfg.MaxErrors)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{".hk", ".haiku"}, cfg.SourceExtensions)
	assert.Equal(t, cfgPath, GetConfigFileUsed())
	assert.Equal(t, filepath.Dir(cfgPath), cfg.ProjectRoot)
}

// TestLoadConfig_FoundUpward tests that a config file in a parent directory is used.
func TestLoadConfig_FoundUpward(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "max_errors: 7\n")
	root := filepath.Dir(cfgPath)
	nested := filepath.Join(root, "src", "lib")
	require.NoError(t, os.MkdirAll(nested, 0750))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.MaxErrors)

	resolved, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	actual, err := filepath.EvalSymlinks(cfg.ProjectRoot)
	require.NoError(t, err)
	assert.Equal(t, resolved, actual)
}

// TestLoadConfig_MissingFile tests that an explicit but missing file is an error.
func TestLoadConfig_MissingFile(t *testing.T) {
	ResetConfig()
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

// TestLoadConfig_EnvPrecedenceOverFile tests that env vars override config file.
func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "max_errors: 3\noutput: text\n")
	t.Setenv("HAIKU_MAX_ERRORS", "9")
	t.Setenv("HAIKU_SOURCE_EXTENSIONS", ".a, .b")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.MaxErrors, "env var should override config file")
	assert.Equal(t, "text", cfg.OutputFormat)
	assert.Equal(t, []string{".a", ".b"}, cfg.SourceExtensions)
}

// TestLoadConfig_FlagPrecedence tests that flags override env vars and config file.
func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "output: text\nerror_policy: collect\n")
	t.Setenv("HAIKU_OUTPUT", "json")

	flags := testFlags()
	require.NoError(t, flags.Set("output", "markdown"))
	require.NoError(t, flags.Set("error-policy", "fail-fast"))
	require.NoError(t, flags.Set("config", cfgPath))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	assert.Equal(t, "markdown", cfg.OutputFormat, "flag value should override config file and env var")
	assert.Equal(t, "fail-fast", cfg.ErrorPolicy)
}

// TestLoadConfig_FlagNotSetUsesEnv tests that unset flags fall back to env vars.
func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "output: text\n")
	t.Setenv("HAIKU_OUTPUT", "json")

	cfg, err := LoadConfig(cfgPath, testFlags())
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.OutputFormat, "env var should be used when flag is not set")
}

// TestLoadConfig_Invalid tests that validation errors name the config file.
func TestLoadConfig_Invalid(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "error_policy: sometimes\n")

	_, err := LoadConfig(cfgPath, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid error_policy")
	assert.Contains(t, err.Error(), cfgPath)
}

// TestConfig_Validate tests the Config.Validate method.
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		errSubstr string
	}{
		{name: "defaults", modify: func(*Config) {}},
		{name: "fail fast", modify: func(c *Config) { c.ErrorPolicy = "fail-fast" }},
		{name: "yaml output", modify: func(c *Config) { c.OutputFormat = "yaml" }},
		{name: "bad policy", modify: func(c *Config) { c.ErrorPolicy = "" }, errSubstr: "invalid error_policy"},
		{name: "negative max", modify: func(c *Config) { c.MaxErrors = -1 }, errSubstr: "max_errors"},
		{name: "negative workers", modify: func(c *Config) { c.Workers = -2 }, errSubstr: "workers"},
		{name: "bad output", modify: func(c *Config) { c.OutputFormat = "html" }, errSubstr: "invalid output"},
		{name: "bad level", modify: func(c *Config) { c.LogLevel = "trace" }, errSubstr: "invalid log_level"},
		{name: "no extensions", modify: func(c *Config) { c.SourceExtensions = nil }, errSubstr: "must not be empty"},
		{name: "extension without dot", modify: func(c *Config) { c.SourceExtensions = []string{"hk"} }, errSubstr: "must start with a dot"},
		{name: "lint severity", modify: func(c *Config) { c.Lint.Severity = map[string]string{"HK01": "error"} }},
		{name: "bad lint severity", modify: func(c *Config) { c.Lint.Severity = map[string]string{"HK01": "fatal"} }, errSubstr: "invalid lint severity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestConfig_Level(t *testing.T) {
	cfg := Default()
	assert.Equal(t, slog.LevelWarn, cfg.Level())

	cfg.LogLevel = "info"
	assert.Equal(t, slog.LevelInfo, cfg.Level())

	cfg.Verbose = true
	assert.Equal(t, slog.LevelDebug, cfg.Level(), "verbose forces debug")
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR_ONE", "value_one")
	t.Setenv("TEST_VAR_TWO", "value_two")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "single variable", input: "${TEST_VAR_ONE}", expected: "value_one"},
		{name: "multiple variables", input: "${TEST_VAR_ONE}/${TEST_VAR_TWO}", expected: "value_one/value_two"},
		{name: "unset variable stays as-is", input: "${UNSET_VARIABLE}", expected: "${UNSET_VARIABLE}"},
		{name: "no variables", input: "plain string", expected: "plain string"},
		{name: "empty string", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvVars(tt.input))
		})
	}
}

func TestGetLogger(t *testing.T) {
	fallback := GetLogger(context.Background())
	require.NotNil(t, fallback)

	logger := slog.New(slog.DiscardHandler)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}

func TestConfig_ResolveStatePath(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "work", "proj")
	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "relative", path: DefaultStatePath, want: filepath.Join(root, ".haiku", "state.db")},
		{name: "absolute", path: filepath.Join(root, "elsewhere.db"), want: filepath.Join(root, "elsewhere.db")},
		{name: "memory", path: ":memory:", want: ":memory:"},
		{name: "disabled", path: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{StatePath: tt.path, ProjectRoot: root}
			assert.Equal(t, tt.want, cfg.ResolveStatePath())
		})
	}
}
