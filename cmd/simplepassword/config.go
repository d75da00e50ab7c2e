// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

package main

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/simplepassword/simplepassword/internal/config"
	"github.com/simplepassword/simplepassword/internal/xdg"
)

// NewConfigCmd creates the config subcommand.
func NewConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and initialize configuration",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := configPath()
			if _, err := os.Stat(path); err == nil && !force {
				return oops.Code("CONFIG_EXISTS").With("path", path).
					Errorf("%s already exists; pass --force to overwrite", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return oops.Code("CONFIG_WRITE_FAILED").With("path", path).Wrap(err)
			}

			data, err := config.DefaultYAML()
			if err != nil {
				return err
			}
			if err := xdg.EnsureDir(filepath.Dir(path)); err != nil {
				return err
			}
			if err := os.WriteFile(path, data, 0o600); err != nil {
				return oops.Code("CONFIG_WRITE_FAILED").With("path", path).Wrap(err)
			}
			cmd.Printf("wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)

	var output string
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			if err := a.load(cmd); err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, resolvedConfig(a.cfg))
		},
	}
	show.Flags().StringVarP(&output, "output", "o", outputYAML, "output format: yaml or json")
	cmd.AddCommand(show)

	cmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := config.GenerateSchema()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err //nolint:wrapcheck // write to stdout
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate [FILE]",
		Short: "Check a config file against the schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath()
			if len(args) == 1 {
				path = args[0]
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrap(err)
			}
			if err := config.ValidateFile(data); err != nil {
				return err
			}
			cmd.Printf("%s is valid\n", path)
			return nil
		},
	})

	return cmd
}

func configPath() string {
	if configFile != "" {
		return configFile
	}
	return xdg.ConfigFile()
}

// resolvedConfigView is the printed form of a Config. The database password
// is masked.
type resolvedConfigView struct {
	SaltSize       int    `yaml:"salt_size" json:"salt_size"`
	Algorithm      string `yaml:"algorithm" json:"algorithm"`
	DatabaseURL    string `yaml:"database_url" json:"database_url"`
	LogFormat      string `yaml:"log_format" json:"log_format"`
	LogLevel       string `yaml:"log_level" json:"log_level"`
	ConnectRetries int    `yaml:"connect_retries" json:"connect_retries"`
	ConnectBackoff string `yaml:"connect_backoff" json:"connect_backoff"`
}

func resolvedConfig(cfg *config.Config) resolvedConfigView {
	return resolvedConfigView{
		SaltSize:       cfg.SaltSize,
		Algorithm:      cfg.Algorithm,
		DatabaseURL:    maskPassword(cfg.DatabaseURL),
		LogFormat:      cfg.LogFormat,
		LogLevel:       cfg.LogLevel,
		ConnectRetries: cfg.ConnectRetries,
		ConnectBackoff: cfg.ConnectBackoff.String(),
	}
}

// maskPassword hides the password of a URL-style connection string.
// Keyword/value strings are hidden entirely.
func maskPassword(databaseURL string) string {
	if databaseURL == "" {
		return ""
	}
	u, err := url.Parse(databaseURL)
	if err != nil || u.Scheme == "" {
		return "(set)"
	}
	return u.Redacted()
}
