package internal

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novaddl/internal/lowering"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "novaddl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, "novaddl", cfg.AppName)
	require.Equal(t, "bigquery", cfg.Dialect)
	require.Equal(t, 4, cfg.Workers)
	require.Equal(t, "info", cfg.Log.Level)

	opts, err := cfg.LowerOptions()
	require.NoError(t, err)
	require.Equal(t, lowering.Options{}, opts)
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
app_name: ddl-ci
dialect: snowflake
naming:
  quote_identifiers: true
  case: upper
log:
  level: debug
  format: json
workers: 2
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "ddl-ci", cfg.AppName)
	require.Equal(t, "snowflake", cfg.Dialect)
	require.Equal(t, 2, cfg.Workers)

	opts, err := cfg.LowerOptions()
	require.NoError(t, err)
	require.Equal(t, lowering.Options{QuoteIdentifiers: true, Case: lowering.CaseUpper}, opts)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("NOVADDL_DIALECT", "ansi")
	t.Setenv("NOVADDL_NAMING_CASE", "lower")
	t.Setenv("NOVADDL_PROFILES_FILE", "/etc/novaddl/profiles.yaml")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, "ansi", cfg.Dialect)
	require.Equal(t, "lower", cfg.Naming.Case)
	require.Equal(t, "/etc/novaddl/profiles.yaml", cfg.ProfilesFile)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing_file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.ErrorContains(t, err, "read config")
	})

	t.Run("bad_case", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "naming:\n  case: title\n"))
		require.ErrorContains(t, err, "config:")
	})

	t.Run("bad_level", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "log:\n  level: loud\n"))
		require.ErrorContains(t, err, `unknown log level "loud"`)
	})

	t.Run("bad_format", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "log:\n  format: xml\n"))
		require.ErrorContains(t, err, `unknown log format "xml"`)
	})

	t.Run("negative_workers", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "workers: -1\n"))
		require.ErrorContains(t, err, "workers must not be negative")
	})
}

func TestConfig_Logger(t *testing.T) {
	cfg := &NovaDDLConfig{AppName: "novaddl"}
	cfg.Log.Level = "warn"
	cfg.Log.Format = "json"

	var buf bytes.Buffer
	logger, err := cfg.Logger(&buf)
	require.NoError(t, err)

	logger.Info("dropped")
	require.Zero(t, buf.Len())

	logger.Warn("kept", "dialect", "bigquery")
	require.Contains(t, buf.String(), `"msg":"kept"`)
	require.Contains(t, buf.String(), `"app":"novaddl"`)
}
