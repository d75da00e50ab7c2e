// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

package main

import (
	"context"

	"github.com/samber/oops"

	"github.com/simplepassword/simplepassword/internal/config"
	"github.com/simplepassword/simplepassword/internal/credential"
	credpg "github.com/simplepassword/simplepassword/internal/credential/postgres"
	"github.com/simplepassword/simplepassword/internal/store"
)

// Migrator is the part of store.Migrator the migrate commands use.
type Migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (version uint, dirty bool, err error)
	Force(version int) error
	Pending() ([]uint, error)
	Applied() ([]uint, error)
	Close() error
}

// Deps contains injectable dependencies for the commands.
// Nil fields use their default implementations.
type Deps struct {
	// RepositoryFactory opens the credential repository. The returned func
	// releases it.
	// Default: store.Connect + postgres.NewCredentialRepository
	RepositoryFactory func(ctx context.Context, cfg *config.Config) (credential.Repository, func(), error)

	// MigratorFactory opens a migrator for a database URL.
	// Default: store.NewMigrator
	MigratorFactory func(databaseURL string) (Migrator, error)
}

func (d *Deps) withDefaults() *Deps {
	out := Deps{}
	if d != nil {
		out = *d
	}
	if out.RepositoryFactory == nil {
		out.RepositoryFactory = openPostgresRepository
	}
	if out.MigratorFactory == nil {
		out.MigratorFactory = func(url string) (Migrator, error) {
			return store.NewMigrator(url)
		}
	}
	return &out
}

func openPostgresRepository(ctx context.Context, cfg *config.Config) (credential.Repository, func(), error) {
	if cfg.DatabaseURL == "" {
		return nil, nil, errDatabaseURLRequired()
	}
	pool, err := store.Connect(ctx, cfg.DatabaseURL, store.ConnectOptions{
		Retries: cfg.ConnectRetries,
		Backoff: cfg.ConnectBackoff,
	})
	if err != nil {
		return nil, nil, err
	}
	return credpg.NewCredentialRepository(pool), pool.Close, nil
}

func errDatabaseURLRequired() error {
	return oops.Code("CONFIG_INVALID").
		Errorf("database_url is required: set it in the config file, pass --database-url or set DATABASE_URL")
}
