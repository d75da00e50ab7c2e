// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// maxBackoff caps the delay between connection attempts.
const maxBackoff = 10 * time.Second

// ConnectOptions controls how Connect retries.
type ConnectOptions struct {
	// Retries is the number of attempts after the first. Zero disables retrying.
	Retries int
	// Backoff is the first delay; later delays grow exponentially.
	Backoff time.Duration
}

// pinger is the part of *pgxpool.Pool that Connect checks.
type pinger interface {
	Ping(ctx context.Context) error
	Close()
}

// Connect opens a pool against databaseURL and pings it, retrying failed pings
// with exponential backoff. A malformed URL fails immediately.
func Connect(ctx context.Context, databaseURL string, opts ConnectOptions) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, oops.Code("DB_URL_REQUIRED").Errorf("database url is required")
	}

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, oops.Code("DB_CONFIG_INVALID").Wrap(err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").Wrap(err)
	}

	if err := pingWithRetry(ctx, pool, opts); err != nil {
		return nil, err
	}
	return pool, nil
}

func pingWithRetry(ctx context.Context, db pinger, opts ConnectOptions) error {
	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}
	b := retry.NewExponential(backoff)
	b = retry.WithCappedDuration(maxBackoff, b)
	b = retry.WithMaxRetries(uint64(max(opts.Retries, 0)), b)

	attempt := 0
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		if err := db.Ping(ctx); err != nil {
			slog.WarnContext(ctx, "database not reachable", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return oops.Code("DB_CONNECT_FAILED").With("attempts", attempt).Wrap(err)
	}
	return nil
}
