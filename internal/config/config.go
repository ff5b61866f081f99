// Package config loads CLI settings from defaults, an optional config file,
// SCOUT_ environment variables, and bound command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/goliatone/go-scouting/internal/logging"
)

// Keys understood by Load.
const (
	KeyDataDir     = "data_dir"
	KeyLayout      = "layout"
	KeyTemplateDir = "template_dir"
	KeyCacheSize   = "cache_size"
	KeyLogLevel    = "log.level"
	KeyLogFormat   = "log.format"

	EnvPrefix = "SCOUT"
	fileName  = "scout"
)

// Config is the resolved CLI configuration.
type Config struct {
	// DataDir holds one JSON file per saved match.
	DataDir string `mapstructure:"data_dir"`
	// Layout is a layout file path; empty selects the embedded layout.
	Layout string `mapstructure:"layout"`
	// TemplateDir optionally overrides the bundled summary template.
	TemplateDir string    `mapstructure:"template_dir"`
	CacheSize   int       `mapstructure:"cache_size"`
	Log         LogConfig `mapstructure:"log"`
}

// LogConfig mirrors logging.Config without the output writer.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		DataDir:   "matches",
		CacheSize: 128,
		Log: LogConfig{
			Level:  "info",
			Format: logging.FormatText,
		},
	}
}

// NewViper returns a viper instance with defaults and environment lookup
// installed. Flags may be bound to it before Load.
func NewViper() *viper.Viper {
	v := viper.New()
	d := Defaults()
	v.SetDefault(KeyDataDir, d.DataDir)
	v.SetDefault(KeyLayout, d.Layout)
	v.SetDefault(KeyTemplateDir, d.TemplateDir)
	v.SetDefault(KeyCacheSize, d.CacheSize)
	v.SetDefault(KeyLogLevel, d.Log.Level)
	v.SetDefault(KeyLogFormat, d.Log.Format)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path when given, otherwise looks for scout.{yaml,json,toml} in
// the working directory and the user config directory. A missing default file
// is not an error; a missing explicit file is.
func Load(v *viper.Viper, path string) (Config, error) {
	if v == nil {
		v = NewViper()
	}
	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		v.SetConfigName(fileName)
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "scout"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	cfg.DataDir = strings.TrimSpace(cfg.DataDir)
	cfg.Layout = strings.TrimSpace(cfg.Layout)
	cfg.TemplateDir = strings.TrimSpace(cfg.TemplateDir)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the CLI cannot act on.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("config: data_dir must not be empty")
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("config: cache_size must not be negative, got %d", c.CacheSize)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("config: log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// Logging converts the log section for logging.New.
func (c Config) Logging() logging.Config {
	return logging.Config{Level: c.Log.Level, Format: c.Log.Format}
}
