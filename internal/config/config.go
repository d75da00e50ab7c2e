// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

// Package config loads simplepassword settings from defaults, a YAML file and
// command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/simplepassword/simplepassword/internal/logging"
	"github.com/simplepassword/simplepassword/pkg/saltedhash"
)

// Config holds resolved settings.
type Config struct {
	SaltSize       int           `koanf:"salt_size"`
	Algorithm      string        `koanf:"algorithm"`
	DatabaseURL    string        `koanf:"database_url"`
	LogFormat      string        `koanf:"log_format"`
	LogLevel       string        `koanf:"log_level"`
	ConnectRetries int           `koanf:"connect_retries"`
	ConnectBackoff time.Duration `koanf:"connect_backoff"`
}

// Defaults returns the built-in settings as a flat key map.
func Defaults() map[string]any {
	return map[string]any{
		"salt_size":       saltedhash.DefaultSaltSize,
		"algorithm":       string(saltedhash.DefaultAlgorithm),
		"database_url":    "",
		"log_format":      "text",
		"log_level":       "info",
		"connect_retries": 5,
		"connect_backoff": "500ms",
	}
}

// Source says where to read the config file from.
type Source struct {
	// Path of the YAML file. Empty disables file loading.
	Path string
	// Required makes a missing file an error. Set it when the user named the
	// file explicitly.
	Required bool
	// Flags, when set, override file values for flags the user changed.
	// Flag names use dashes for the underscores in keys.
	Flags *pflag.FlagSet
}

// Load resolves a Config from src.
// DATABASE_URL from the environment is used when no database_url is set.
func Load(src Source) (*Config, error) {
	k := koanf.New(".")
	for key, val := range Defaults() {
		if err := k.Set(key, val); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("key", key).Wrap(err)
		}
	}

	if src.Path != "" {
		if err := loadFile(k, src); err != nil {
			return nil, err
		}
	}

	if src.Flags != nil {
		provider := posflag.ProviderWithFlag(src.Flags, ".", k, func(f *pflag.Flag) (string, any) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if _, known := Defaults()[key]; !known {
				return "", nil
			}
			return key, posflag.FlagVal(src.Flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("operation", "load flags").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("operation", "unmarshal").Wrap(err)
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(k *koanf.Koanf, src Source) error {
	data, err := os.ReadFile(src.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !src.Required:
		return nil
	case err != nil:
		return oops.Code("CONFIG_LOAD_FAILED").With("path", src.Path).Wrap(err)
	}

	if err := ValidateFile(data); err != nil {
		return oops.With("path", src.Path).Wrap(err)
	}
	if err := k.Load(file.Provider(src.Path), yaml.Parser()); err != nil {
		return oops.Code("CONFIG_LOAD_FAILED").With("path", src.Path).Wrap(err)
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.SaltSize <= 0 {
		return oops.Code("CONFIG_INVALID").With("salt_size", c.SaltSize).Errorf("salt_size must be positive")
	}
	if _, err := saltedhash.ParseAlgorithm(c.Algorithm); err != nil {
		return oops.Code("CONFIG_INVALID").With("algorithm", c.Algorithm).Wrap(err)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return oops.Code("CONFIG_INVALID").Errorf("log_format must be 'json' or 'text', got %q", c.LogFormat)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}
	if c.ConnectRetries < 0 {
		return oops.Code("CONFIG_INVALID").Errorf("connect_retries must not be negative, got %d", c.ConnectRetries)
	}
	if c.ConnectBackoff <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("connect_backoff must be positive, got %s", c.ConnectBackoff)
	}
	return nil
}

// HashAlgorithm returns the parsed digest algorithm.
func (c *Config) HashAlgorithm() saltedhash.Algorithm {
	alg, err := saltedhash.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return saltedhash.DefaultAlgorithm
	}
	return alg
}

// DefaultYAML renders the built-in settings as a YAML document.
func DefaultYAML() ([]byte, error) {
	k := koanf.New(".")
	for key, val := range Defaults() {
		if err := k.Set(key, val); err != nil {
			return nil, oops.Code("CONFIG_RENDER_FAILED").With("key", key).Wrap(err)
		}
	}
	out, err := k.Marshal(yaml.Parser())
	if err != nil {
		return nil, oops.Code("CONFIG_RENDER_FAILED").Wrap(err)
	}
	return out, nil
}
