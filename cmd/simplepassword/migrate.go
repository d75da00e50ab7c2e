// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

package main

import (
	"fmt"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/simplepassword/simplepassword/internal/store"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the credential store schema",
		Long:  `Apply, revert and inspect the PostgreSQL schema migrations of the credential store.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withMigrator(cmd, func(m Migrator) error {
				pending, err := m.Pending()
				if err != nil {
					return err
				}
				if len(pending) == 0 {
					cmd.Println("schema is up to date")
					return nil
				}
				if err := m.Up(); err != nil {
					return err
				}
				cmd.Printf("applied %d migration(s)\n", len(pending))
				return nil
			})
		},
	})

	var all, yes bool
	down := &cobra.Command{
		Use:   "down",
		Short: "Revert the last migration, or all with --all",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if all && !yes {
				return oops.Code("CONFIRMATION_REQUIRED").
					Errorf("reverting all migrations drops every credential; pass --yes to confirm")
			}
			return a.withMigrator(cmd, func(m Migrator) error {
				if all {
					if err := m.Down(); err != nil {
						return err
					}
					cmd.Println("reverted all migrations")
					return nil
				}
				if err := m.Steps(-1); err != nil {
					return err
				}
				cmd.Println("reverted 1 migration")
				return nil
			})
		},
	}
	down.Flags().BoolVar(&all, "all", false, "revert every migration")
	down.Flags().BoolVar(&yes, "yes", false, "confirm a destructive --all")
	cmd.AddCommand(down)

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withMigrator(cmd, func(m Migrator) error {
				return printMigrationStatus(cmd, m)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "force VERSION",
		Short: "Mark VERSION as applied without running it",
		Long: `Record VERSION as the current schema version without running any
migration. Use it to clear a dirty state after repairing the schema by hand.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseForceVersion(args[0])
			if err != nil {
				return err
			}
			return a.withMigrator(cmd, func(m Migrator) error {
				if err := m.Force(v); err != nil {
					return err
				}
				cmd.Printf("forced version %d\n", v)
				return nil
			})
		},
	})

	return cmd
}

func (a *app) withMigrator(cmd *cobra.Command, fn func(m Migrator) error) error {
	if err := a.load(cmd); err != nil {
		return err
	}
	if a.cfg.DatabaseURL == "" {
		return errDatabaseURLRequired()
	}

	m, err := a.deps.MigratorFactory(a.cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			a.logger.Warn("failed to close migrator", "error", err)
		}
	}()
	return fn(m)
}

func printMigrationStatus(cmd *cobra.Command, m Migrator) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	applied, err := m.Applied()
	if err != nil {
		return err
	}
	pending, err := m.Pending()
	if err != nil {
		return err
	}

	state := "clean"
	if dirty {
		state = "dirty"
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "version: %d (%s)\n", version, state)
	for _, group := range []struct {
		label    string
		versions []uint
	}{{"applied", applied}, {"pending", pending}} {
		for _, v := range group.versions {
			name, err := store.MigrationName(v)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%-8s %s\n", group.label, name)
		}
	}
	return nil
}

// parseForceVersion parses a version argument. Leading whitespace is
// ignored and parsing stops at the first non-digit.
func parseForceVersion(s string) (int, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, oops.Code("INVALID_VERSION").Errorf("version is required")
	}
	var v int
	if _, err := fmt.Sscanf(trimmed, "%d", &v); err != nil {
		return 0, oops.Code("INVALID_VERSION").With("input", s).Wrapf(err, "version must be an integer")
	}
	return v, nil
}
