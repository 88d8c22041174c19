package internal

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/tuannm99/novaddl/internal/lowering"
)

type NovaDDLConfig struct {
	AppName string `mapstructure:"app_name"`

	// Dialect is the profile name plans are lowered for.
	Dialect string `mapstructure:"dialect"`
	// ProfilesFile optionally adds dialect profiles (YAML).
	ProfilesFile string `mapstructure:"profiles_file"`

	Naming struct {
		QuoteIdentifiers bool   `mapstructure:"quote_identifiers"`
		Case             string `mapstructure:"case"`
	} `mapstructure:"naming"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	// Workers bounds how many plan files are lowered at once.
	Workers int `mapstructure:"workers"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("app_name", "novaddl")
	v.SetDefault("dialect", "bigquery")
	v.SetDefault("profiles_file", "")
	v.SetDefault("naming.quote_identifiers", false)
	v.SetDefault("naming.case", "preserve")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("workers", 4)

	// NOVADDL_DIALECT, NOVADDL_NAMING_CASE, ...
	v.SetEnvPrefix("novaddl")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads the YAML file at path on top of the defaults. An empty
// path yields the defaults plus environment overrides.
func LoadConfig(path string) (*NovaDDLConfig, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg NovaDDLConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *NovaDDLConfig) Validate() error {
	if c.Dialect == "" {
		return fmt.Errorf("config: dialect is required")
	}
	if c.Workers < 0 {
		return fmt.Errorf("config: workers must not be negative, got %d", c.Workers)
	}
	if _, err := c.LowerOptions(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	return nil
}

// LowerOptions returns the naming options of the config.
func (c *NovaDDLConfig) LowerOptions() (lowering.Options, error) {
	cs, err := lowering.ParseCase(c.Naming.Case)
	if err != nil {
		return lowering.Options{}, err
	}
	return lowering.Options{QuoteIdentifiers: c.Naming.QuoteIdentifiers, Case: cs}, nil
}

// Logger builds the slog logger described by the config, writing to w.
func (c *NovaDDLConfig) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if strings.EqualFold(c.Log.Format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h).With("app", c.AppName), nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}
