package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/shadergraph"
)

// envPrefix prefixes every environment variable read by the CLI.
const envPrefix = "SHADERGRAPH_"

// Config holds the CLI settings. Values come from the YAML file, then from
// SHADERGRAPH_* environment variables, then from flags.
type Config struct {
	PreviewSize int           `yaml:"preview_size" validate:"min=1,max=1024"`
	Workers     int           `yaml:"workers" validate:"min=0,max=256"`
	Features    []string      `yaml:"features" validate:"dive,oneof=lighting emission"`
	Format      string        `yaml:"format" validate:"oneof=json yaml toml"`
	Debounce    time.Duration `yaml:"debounce" validate:"gte=0"`
	Debug       bool          `yaml:"debug"`
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() Config {
	return Config{
		PreviewSize: shadergraph.DefaultPreviewSize,
		Format:      "json",
		Debounce:    100 * time.Millisecond,
	}
}

var configValidate = validator.New()

// LoadConfig reads the YAML file at path, if any, on top of DefaultConfig
// and applies environment overrides. A .env file in the working directory is
// loaded first when present; variables already set win.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate checks the settings against their declared bounds.
func (c Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv(envPrefix + "PREVIEW_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sPREVIEW_SIZE: %w", envPrefix, err)
		}
		c.PreviewSize = n
	}
	if v := getenv(envPrefix + "WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sWORKERS: %w", envPrefix, err)
		}
		c.Workers = n
	}
	if v := getenv(envPrefix + "FEATURES"); v != "" {
		c.Features = nil
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f != "" {
				c.Features = append(c.Features, f)
			}
		}
	}
	if v := getenv(envPrefix + "FORMAT"); v != "" {
		c.Format = strings.ToLower(v)
	}
	if v := getenv(envPrefix + "DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sDEBOUNCE: %w", envPrefix, err)
		}
		c.Debounce = d
	}
	if v := getenv(envPrefix + "DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sDEBUG: %w", envPrefix, err)
		}
		c.Debug = b
	}
	return nil
}

// Logger returns a text logger on stderr at the configured level.
func (c Config) Logger() *slog.Logger {
	level := slog.LevelInfo
	if c.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// DocumentFormat returns the configured graph format.
func (c Config) DocumentFormat() shadergraph.Format {
	switch c.Format {
	case "yaml":
		return shadergraph.FormatYAML
	case "toml":
		return shadergraph.FormatTOML
	}
	return shadergraph.FormatJSON
}

// Options returns the compiler and simulator options for the settings.
func (c Config) Options(logger *slog.Logger) []shadergraph.Option {
	return []shadergraph.Option{
		shadergraph.WithLogger(logger),
		shadergraph.WithWorkers(c.Workers),
		shadergraph.WithFeatures(c.Features...),
	}
}
