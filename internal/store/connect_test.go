// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplepassword/simplepassword/pkg/errutil"
)

// flakyDB fails the first failures pings.
type flakyDB struct {
	failures int
	pings    int
	closed   bool
}

func (f *flakyDB) Ping(context.Context) error {
	f.pings++
	if f.pings <= f.failures {
		return errors.New("connection refused")
	}
	return nil
}

func (f *flakyDB) Close() { f.closed = true }

func TestPingWithRetry(t *testing.T) {
	opts := ConnectOptions{Retries: 3, Backoff: time.Millisecond}

	t.Run("first ping succeeds", func(t *testing.T) {
		db := &flakyDB{}
		require.NoError(t, pingWithRetry(context.Background(), db, opts))
		assert.Equal(t, 1, db.pings)
		assert.False(t, db.closed)
	})

	t.Run("recovers within the retry budget", func(t *testing.T) {
		db := &flakyDB{failures: 3}
		require.NoError(t, pingWithRetry(context.Background(), db, opts))
		assert.Equal(t, 4, db.pings)
		assert.False(t, db.closed)
	})

	t.Run("gives up and closes", func(t *testing.T) {
		db := &flakyDB{failures: 10}
		err := pingWithRetry(context.Background(), db, opts)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "DB_CONNECT_FAILED")
		assert.Contains(t, err.Error(), "connection refused")
		assert.Equal(t, 4, db.pings)
		assert.True(t, db.closed)
	})

	t.Run("zero retries tries once", func(t *testing.T) {
		db := &flakyDB{failures: 1}
		err := pingWithRetry(context.Background(), db, ConnectOptions{Backoff: time.Millisecond})
		require.Error(t, err)
		assert.Equal(t, 1, db.pings)
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		db := &flakyDB{failures: 10}
		err := pingWithRetry(ctx, db, ConnectOptions{Retries: 100, Backoff: time.Hour})
		require.Error(t, err)
		assert.LessOrEqual(t, db.pings, 1)
	})
}

func TestConnect_RejectsBadURL(t *testing.T) {
	_, err := Connect(context.Background(), "", ConnectOptions{})
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "DB_URL_REQUIRED")

	_, err = Connect(context.Background(), "postgres://%zz", ConnectOptions{})
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "DB_CONFIG_INVALID")
}
