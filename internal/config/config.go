// Package config loads the lifepath runtime configuration from defaults, an
// optional YAML file and LIFEPATH_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-lifepath/pkg/prediction"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "LIFEPATH_"

type Config struct {
	Addr            string        `yaml:"addr" env:"ADDR"`
	BasePath        string        `yaml:"base_path" env:"BASE_PATH"`
	Mode            string        `yaml:"mode" env:"MODE"`
	Catalog         string        `yaml:"catalog" env:"CATALOG"`
	Theme           string        `yaml:"theme" env:"THEME"`
	ThemeFile       string        `yaml:"theme_file" env:"THEME_FILE"`
	Variant         string        `yaml:"variant" env:"VARIANT"`
	DownloadDir     string        `yaml:"download_dir" env:"DOWNLOAD_DIR"`
	Debug           bool          `yaml:"debug" env:"DEBUG"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

func Default() Config {
	return Config{
		Addr:            ":8080",
		BasePath:        "/",
		Mode:            string(prediction.ModeDistinct),
		Theme:           "lifepath",
		DownloadDir:     ".",
		ShutdownTimeout: 5 * time.Second,
	}
}

// Load builds a Config from Default, the YAML file at path (skipped when
// path is empty) and the environment, in that order.
func Load(path string) (Config, error) {
	cfg := Default()

	if path = strings.TrimSpace(path); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := decodeYAML(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overlays LIFEPATH_* variables onto cfg. Unset variables leave the
// current value in place.
func ApplyEnv(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil target")
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

func decodeYAML(raw []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c Config) Validate() error {
	if _, err := prediction.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("config: addr is required")
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("config: shutdown_timeout must not be negative, got %s", c.ShutdownTimeout)
	}
	return nil
}

// PredictionMode returns the parsed Mode; call Validate first.
func (c Config) PredictionMode() prediction.Mode {
	mode, err := prediction.ParseMode(c.Mode)
	if err != nil {
		return prediction.ModeDistinct
	}
	return mode
}
