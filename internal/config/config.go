// Package config loads settings for the select CLI from select.yml and
// BZ_SELECT_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/bash-zoo/select/internal/payload"
	"github.com/bash-zoo/select/internal/prompt"
)

// EnvPrefix prefixes every config override, e.g. BZ_SELECT_ROWS_MAX.
const EnvPrefix = "BZ_SELECT"

// Config is the effective configuration
type Config struct {
	Title    string    `yaml:"title" mapstructure:"title"`
	Hint     string    `yaml:"hint" mapstructure:"hint"`
	Rows     RowConfig `yaml:"rows" mapstructure:"rows"`
	Backends []string  `yaml:"backends" mapstructure:"backends"`
	Log      LogConfig `yaml:"log" mapstructure:"log"`
}

// RowConfig bounds the number of visible rows
type RowConfig struct {
	Min int `yaml:"min" mapstructure:"min"`
	Max int `yaml:"max" mapstructure:"max"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Title: payload.DefaultTitle,
		Hint:  prompt.DefaultHint,
		Rows: RowConfig{
			Min: prompt.DefaultMinRows,
			Max: prompt.DefaultMaxRows,
		},
		Backends: []string{"tea", "plain"},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// New returns a viper instance with defaults, env overrides and search
// paths registered. An explicit path disables the search.
func New(path string) *viper.Viper {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("title", def.Title)
	v.SetDefault("hint", def.Hint)
	v.SetDefault("rows.min", def.Rows.Min)
	v.SetDefault("rows.max", def.Rows.Max)
	v.SetDefault("backends", def.Backends)
	v.SetDefault("log.level", def.Log.Level)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		return v
	}

	// Only the user config dir is searched: the working directory belongs to
	// whatever script is calling us.
	v.SetConfigName("select")
	v.SetConfigType("yaml")
	if dir := userConfigDir(); dir != "" {
		v.AddConfigPath(dir)
	}
	return v
}

// Load reads configuration into a Config. A missing file in the search
// paths is fine; an explicit path that cannot be read is not.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}

	// Env overrides arrive as one comma separated string.
	cfg.Backends = splitList(cfg.Backends)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks row bounds and backends
func (c *Config) Validate() error {
	if c.Rows.Min < 1 {
		return errors.Newf("rows.min must be at least 1, got %d", c.Rows.Min)
	}
	if c.Rows.Max < c.Rows.Min {
		return errors.Newf("rows.max (%d) must not be less than rows.min (%d)", c.Rows.Max, c.Rows.Min)
	}
	if len(c.Backends) == 0 {
		return errors.New("at least one prompt backend must be configured")
	}
	return nil
}

// YAML renders the config as YAML
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling config")
	}
	return data, nil
}

func splitList(items []string) []string {
	var out []string
	for _, item := range items {
		out = append(out, strings.FieldsFunc(item, func(r rune) bool {
			return r == ',' || r == ' '
		})...)
	}
	return out
}

func userConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "bash-zoo")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "bash-zoo")
}
