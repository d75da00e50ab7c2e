// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

package main

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/simplepassword/simplepassword/internal/config"
	"github.com/simplepassword/simplepassword/internal/credential"
	"github.com/simplepassword/simplepassword/internal/logging"
	"github.com/simplepassword/simplepassword/internal/xdg"
	"github.com/simplepassword/simplepassword/pkg/errutil"
)

// Global flags available to all subcommands.
var (
	configFile  string
	metricsFile string
)

// app carries what a subcommand needs once configuration is resolved.
type app struct {
	deps   *Deps
	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCmd creates the root command for the simplepassword CLI.
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithDeps(nil)
}

// NewRootCmdWithDeps creates the root command with injected dependencies.
func NewRootCmdWithDeps(deps *Deps) *cobra.Command {
	a := &app{deps: deps.withDefaults()}

	cmd := &cobra.Command{
		Use:   "simplepassword",
		Short: "Salted password hashing and credential storage",
		Long: `simplepassword derives salted password digests and checks candidate
passwords against them. Credentials can be enrolled in and verified
against a PostgreSQL store.`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file path (default "+xdg.ConfigFile()+")")
	flags.StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")
	flags.Int("salt-size", 0, "salt length in bytes (default 512)")
	flags.String("algorithm", "", "digest algorithm: sha512, sha3-512 or blake2b-512 (default sha512)")
	flags.String("database-url", "", "PostgreSQL connection URL (default $DATABASE_URL)")
	flags.String("log-format", "", "log format: text or json (default text)")
	flags.String("log-level", "", "log level: debug, info, warn or error (default info)")

	cmd.AddCommand(NewHashCmd(a))
	cmd.AddCommand(NewCheckCmd(a))
	cmd.AddCommand(NewEnrollCmd(a))
	cmd.AddCommand(NewVerifyCmd(a))
	cmd.AddCommand(NewPasswdCmd(a))
	cmd.AddCommand(NewRemoveCmd(a))
	cmd.AddCommand(NewListCmd(a))
	cmd.AddCommand(NewMigrateCmd(a))
	cmd.AddCommand(NewConfigCmd(a))

	return cmd
}

// load resolves configuration for cmd and installs the logger.
func (a *app) load(cmd *cobra.Command) error {
	src := config.Source{Path: configFile, Required: configFile != "", Flags: cmd.Flags()}
	if src.Path == "" {
		src.Path = xdg.ConfigFile()
	}

	cfg, err := config.Load(src)
	if err != nil {
		return err
	}

	logger, err := logging.Setup(logging.Options{
		Service: "simplepassword",
		Version: version,
		Format:  cfg.LogFormat,
		Level:   cfg.LogLevel,
		Writer:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

// withService opens the credential store, runs fn and releases the store.
// Metrics are written to --metrics-file whether or not fn succeeds.
func (a *app) withService(cmd *cobra.Command, fn func(svc *credential.Service) error) error {
	if err := a.load(cmd); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	credential.RegisterMetrics(reg)
	defer a.writeMetrics(reg)

	repo, release, err := a.deps.RepositoryFactory(cmd.Context(), a.cfg)
	if err != nil {
		return err
	}
	defer release()

	svc, err := credential.NewService(repo,
		credential.WithAlgorithm(a.cfg.HashAlgorithm()),
		credential.WithSaltSize(a.cfg.SaltSize),
		credential.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}
	return fn(svc)
}

func (a *app) writeMetrics(g prometheus.Gatherer) {
	if metricsFile == "" {
		return
	}
	if err := prometheus.WriteToTextfile(metricsFile, g); err != nil {
		errutil.LogError(a.logger, "failed to write metrics",
			oops.Code("METRICS_WRITE_FAILED").With("path", metricsFile).Wrap(err))
	}
}
