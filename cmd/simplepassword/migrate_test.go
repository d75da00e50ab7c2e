// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

package main

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplepassword/simplepassword/pkg/errutil"
)

// fakeMigrator records calls and serves a fixed version.
type fakeMigrator struct {
	version uint
	dirty   bool
	all     []uint
	calls   []string
	upErr   error
	closed  bool
	url     string
}

func (f *fakeMigrator) Up() error {
	f.calls = append(f.calls, "up")
	if f.upErr == nil && len(f.all) > 0 {
		f.version = f.all[len(f.all)-1]
	}
	return f.upErr
}
func (f *fakeMigrator) Down() error { f.calls = append(f.calls, "down"); return nil }
func (f *fakeMigrator) Steps(int) error { f.calls = append(f.calls, "steps"); return nil }
func (f *fakeMigrator) Version() (uint, bool, error) { return f.version, f.dirty, nil }
func (f *fakeMigrator) Force(v int) error {
	f.calls = append(f.calls, "force")
	f.version = uint(v)
	return nil
}
func (f *fakeMigrator) Pending() ([]uint, error) {
	var out []uint
	for _, v := range f.all {
		if v > f.version {
			out = append(out, v)
		}
	}
	return out, nil
}
func (f *fakeMigrator) Applied() ([]uint, error) {
	var out []uint
	for _, v := range f.all {
		if v <= f.version {
			out = append(out, v)
		}
	}
	return out, nil
}
func (f *fakeMigrator) Close() error { f.closed = true; return nil }

func migratorDeps(f *fakeMigrator) *Deps {
	return &Deps{MigratorFactory: func(url string) (Migrator, error) {
		f.url = url
		return f, nil
	}}
}

const testDB = "--database-url=postgres://localhost/creds"

func TestMigrateUp(t *testing.T) {
	f := &fakeMigrator{all: []uint{1, 2}}
	res := run(t, migratorDeps(f), "", "migrate", "up", testDB)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "applied 2 migration(s)")
	assert.Equal(t, "postgres://localhost/creds", f.url)
	assert.True(t, f.closed)

	res = run(t, migratorDeps(f), "", "migrate", "up", testDB)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "schema is up to date")
	assert.Equal(t, []string{"up"}, f.calls)
}

func TestMigrateUp_Error(t *testing.T) {
	f := &fakeMigrator{all: []uint{1}, upErr: errors.New("boom")}
	res := run(t, migratorDeps(f), "", "migrate", "up", testDB)
	require.Error(t, res.err)
	assert.True(t, f.closed)
}

func TestMigrateUp_UsesDatabaseURLFromEnvironment(t *testing.T) {
	f := &fakeMigrator{}
	configFile, metricsFile = "", ""
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://env/creds")

	cmd := NewRootCmdWithDeps(migratorDeps(f))
	cmd.SetArgs([]string{"migrate", "up"})
	cmd.SetOut(io.Discard)
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "postgres://env/creds", f.url)
}

func TestMigrate_RequiresDatabaseURL(t *testing.T) {
	res := run(t, migratorDeps(&fakeMigrator{}), "", "migrate", "status")
	require.Error(t, res.err)
	errutil.AssertErrorCode(t, res.err, "CONFIG_INVALID")
}

func TestMigrateDown(t *testing.T) {
	t.Run("one step by default", func(t *testing.T) {
		f := &fakeMigrator{version: 2, all: []uint{1, 2}}
		res := run(t, migratorDeps(f), "", "migrate", "down", testDB)
		require.NoError(t, res.err)
		assert.Equal(t, []string{"steps"}, f.calls)
	})

	t.Run("all requires confirmation", func(t *testing.T) {
		f := &fakeMigrator{version: 2, all: []uint{1, 2}}
		res := run(t, migratorDeps(f), "", "migrate", "down", "--all", testDB)
		require.Error(t, res.err)
		errutil.AssertErrorCode(t, res.err, "CONFIRMATION_REQUIRED")
		assert.Empty(t, f.calls)
	})

	t.Run("all with confirmation", func(t *testing.T) {
		f := &fakeMigrator{version: 2, all: []uint{1, 2}}
		res := run(t, migratorDeps(f), "", "migrate", "down", "--all", "--yes", testDB)
		require.NoError(t, res.err)
		assert.Equal(t, []string{"down"}, f.calls)
	})
}

func TestMigrateStatus(t *testing.T) {
	f := &fakeMigrator{version: 1, dirty: true, all: []uint{1, 2}}
	res := run(t, migratorDeps(f), "", "migrate", "status", testDB)
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "version: 1 (dirty)")
	assert.Contains(t, res.stdout, "applied  000001_create_credentials")
	assert.Contains(t, res.stdout, "pending  000002_credential_lockout")
}

func TestMigrateForce(t *testing.T) {
	f := &fakeMigrator{version: 2, dirty: true}
	res := run(t, migratorDeps(f), "", "migrate", "force", "1", testDB)
	require.NoError(t, res.err)
	assert.Equal(t, uint(1), f.version)

	res = run(t, migratorDeps(f), "", "migrate", "force", "abc", testDB)
	require.Error(t, res.err)
	errutil.AssertErrorCode(t, res.err, "INVALID_VERSION")
}

func TestParseForceVersion(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantVersion int
		wantErr     bool
	}{
		{"valid integer", "3", 3, false},
		{"zero is valid", "0", 0, false},
		{"non-numeric", "abc", 0, true},
		{"float stops at dot", "1.5", 1, false},
		{"trailing chars ignored", "3abc", 3, false},
		{"negative parses", "-1", -1, false},
		{"empty", "", 0, true},
		{"whitespace only", "   ", 0, true},
		{"leading whitespace", "  42", 42, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, err := parseForceVersion(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				errutil.AssertErrorCode(t, err, "INVALID_VERSION")
				assert.Equal(t, 0, version)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVersion, version)
		})
	}
}
