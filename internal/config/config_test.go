package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// isolate points the user config dir at an empty temp dir
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "select.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(New(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_ExplicitFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), `
title: Pick some tools
rows:
  min: 5
  max: 8
backends: [plain]
log:
  level: debug
`)

	cfg, err := Load(New(path))
	require.NoError(t, err)

	assert.Equal(t, "Pick some tools", cfg.Title)
	assert.Equal(t, 5, cfg.Rows.Min)
	assert.Equal(t, 8, cfg.Rows.Max)
	assert.Equal(t, []string{"plain"}, cfg.Backends)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, DefaultConfig().Hint, cfg.Hint, "unset keys keep defaults")
}

func TestLoad_UserConfigDir(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "bash-zoo"), 0755))
	writeConfig(t, filepath.Join(dir, "bash-zoo"), "title: From XDG\n")

	cfg, err := Load(New(""))
	require.NoError(t, err)
	assert.Equal(t, "From XDG", cfg.Title)
}

func TestLoad_IgnoresWorkingDirectory(t *testing.T) {
	isolate(t)
	wd := t.TempDir()
	writeConfig(t, wd, "rows: [unclosed\n")
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(wd))
	t.Cleanup(func() { _ = os.Chdir(prev) })

	cfg, err := Load(New(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("BZ_SELECT_TITLE", "From env")
	t.Setenv("BZ_SELECT_ROWS_MAX", "30")
	t.Setenv("BZ_SELECT_BACKENDS", "plain, tea")
	t.Setenv("BZ_SELECT_LOG_LEVEL", "info")

	cfg, err := Load(New(""))
	require.NoError(t, err)

	assert.Equal(t, "From env", cfg.Title)
	assert.Equal(t, 30, cfg.Rows.Max)
	assert.Equal(t, []string{"plain", "tea"}, cfg.Backends)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := Load(New(filepath.Join(t.TempDir(), "nope.yml")))
	assert.Error(t, err)
}

func TestLoad_MalformedFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), "rows: [unclosed\n")

	_, err := Load(New(path))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"min zero", func(c *Config) { c.Rows.Min = 0 }, "rows.min"},
		{"max below min", func(c *Config) { c.Rows.Max = 3 }, "rows.max"},
		{"no backends", func(c *Config) { c.Backends = nil }, "backend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestYAML(t *testing.T) {
	data, err := DefaultConfig().YAML()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, "Select one or more items", doc["title"])
	assert.Equal(t, []any{"tea", "plain"}, doc["backends"])
	assert.Equal(t, map[string]any{"min": 10, "max": 20}, doc["rows"])
}
