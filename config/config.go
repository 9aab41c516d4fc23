// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads application configuration for webapp from a YAML
// file, with defaults merged in and environment variable overrides applied
// on top.
//
// Precedence, lowest to highest: defaults, file, environment. Environment
// variables use the WEBAPP_ prefix, e.g. WEBAPP_ADDR, WEBAPP_H2C,
// WEBAPP_PUBLIC_DIRS (comma separated), WEBAPP_READ_TIMEOUT ("30s").
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cast"
)

// envPrefix namespaces all environment variable overrides.
const envPrefix = "WEBAPP_"

var (
	// ErrInvalidStatus indicates a default status outside 100..599.
	ErrInvalidStatus = errors.New("default status must be a valid HTTP status code")

	// ErrInvalidLevel indicates an unknown logging level.
	ErrInvalidLevel = errors.New("logging level must be one of debug, info, warn, error")

	// ErrInvalidFormat indicates an unknown logging format.
	ErrInvalidFormat = errors.New("logging format must be json or text")

	// ErrNegativeTimeout indicates a negative server timeout.
	ErrNegativeTimeout = errors.New("server timeouts cannot be negative")
)

// Config is the application configuration.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr"`

	// StaticPrefix is the URL prefix under which PublicDirs are served.
	StaticPrefix string `yaml:"staticPrefix"`

	// PublicDirs are the public directory roots searched for static files,
	// in order; the first root containing a file serves it.
	PublicDirs []string `yaml:"publicDirs"`

	// H2C enables HTTP/2 cleartext support (dev or behind a trusted LB only).
	H2C bool `yaml:"h2c"`

	// Metrics enables Prometheus request metrics.
	Metrics bool `yaml:"metrics"`

	// DefaultStatus is the status used by middleware response helpers when
	// none is specified.
	DefaultStatus int `yaml:"defaultStatus"`

	// DefaultHeaders are merged into every middleware-built response.
	DefaultHeaders map[string]string `yaml:"defaultHeaders"`

	// Timeouts configures the HTTP server timeouts.
	Timeouts Timeouts `yaml:"timeouts"`

	// Logging configures the structured logger.
	Logging Logging `yaml:"logging"`
}

// Timeouts holds the HTTP server timeout configuration.
type Timeouts struct {
	ReadHeader time.Duration `yaml:"readHeader"`
	Read       time.Duration `yaml:"read"`
	Write      time.Duration `yaml:"write"`
	Idle       time.Duration `yaml:"idle"`
}

// Logging holds the structured logging configuration.
type Logging struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is json or text.
	Format string `yaml:"format"`
}

// Default returns the built-in configuration defaults.
func Default() *Config {
	return &Config{
		Addr:          ":8080",
		StaticPrefix:  "/static",
		DefaultStatus: 200,
		Timeouts: Timeouts{
			ReadHeader: 5 * time.Second,
			Read:       15 * time.Second,
			Write:      30 * time.Second,
			Idle:       60 * time.Second,
		},
		Logging: Logging{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads the YAML file at path, merges defaults into unset fields,
// applies environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return finish(cfg)
}

// FromEnv returns the default configuration with environment overrides
// applied, for deployments configured entirely through the environment.
func FromEnv() (*Config, error) {
	return finish(&Config{})
}

// finish merges defaults, applies the environment, and validates.
func finish(cfg *Config) (*Config, error) {
	if err := mergo.Merge(cfg, Default()); err != nil {
		return nil, fmt.Errorf("merging config defaults: %w", err)
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides configuration fields from WEBAPP_* environment
// variables. Values are coerced with the cast package so "true", "1", and
// "30s" all parse as expected.
func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(envPrefix + "ADDR"); ok {
		cfg.Addr = v
	}
	if v, ok := os.LookupEnv(envPrefix + "STATIC_PREFIX"); ok {
		cfg.StaticPrefix = v
	}
	if v, ok := os.LookupEnv(envPrefix + "PUBLIC_DIRS"); ok {
		cfg.PublicDirs = nil
		for _, d := range strings.Split(v, ",") {
			if d = strings.TrimSpace(d); d != "" {
				cfg.PublicDirs = append(cfg.PublicDirs, d)
			}
		}
	}
	if v, ok := os.LookupEnv(envPrefix + "H2C"); ok {
		b, err := cast.ToBoolE(v)
		if err != nil {
			return fmt.Errorf("parsing %sH2C: %w", envPrefix, err)
		}
		cfg.H2C = b
	}
	if v, ok := os.LookupEnv(envPrefix + "METRICS"); ok {
		b, err := cast.ToBoolE(v)
		if err != nil {
			return fmt.Errorf("parsing %sMETRICS: %w", envPrefix, err)
		}
		cfg.Metrics = b
	}
	if v, ok := os.LookupEnv(envPrefix + "DEFAULT_STATUS"); ok {
		n, err := cast.ToIntE(v)
		if err != nil {
			return fmt.Errorf("parsing %sDEFAULT_STATUS: %w", envPrefix, err)
		}
		cfg.DefaultStatus = n
	}
	if v, ok := os.LookupEnv(envPrefix + "LOG_LEVEL"); ok {
		cfg.Logging.Level = v
	}
	if v, ok := os.LookupEnv(envPrefix + "LOG_FORMAT"); ok {
		cfg.Logging.Format = v
	}

	for name, dst := range map[string]*time.Duration{
		"READ_HEADER_TIMEOUT": &cfg.Timeouts.ReadHeader,
		"READ_TIMEOUT":        &cfg.Timeouts.Read,
		"WRITE_TIMEOUT":       &cfg.Timeouts.Write,
		"IDLE_TIMEOUT":        &cfg.Timeouts.Idle,
	} {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			d, err := cast.ToDurationE(v)
			if err != nil {
				return fmt.Errorf("parsing %s%s: %w", envPrefix, name, err)
			}
			*dst = d
		}
	}

	return nil
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.DefaultStatus < 100 || c.DefaultStatus > 599 {
		return fmt.Errorf("%w: %d", ErrInvalidStatus, c.DefaultStatus)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLevel, c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Logging.Format)
	}
	if c.Timeouts.ReadHeader < 0 || c.Timeouts.Read < 0 ||
		c.Timeouts.Write < 0 || c.Timeouts.Idle < 0 {
		return ErrNegativeTimeout
	}
	return nil
}

// SlogLevel converts the configured level name to a slog.Level.
func (l Logging) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds a slog.Logger writing to w according to the configured
// level and format.
func (l Logging) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.SlogLevel()}
	if l.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
