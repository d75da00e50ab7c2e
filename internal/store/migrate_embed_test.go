// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

package store

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsFS_EmbeddedFiles(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)

	names := make(map[string]bool, len(entries))
	pattern := regexp.MustCompile(`^\d{6}_\w+\.(up|down)\.sql$`)
	for _, entry := range entries {
		names[entry.Name()] = true
		assert.Regexp(t, pattern, entry.Name())
	}

	// Every up migration has a matching down migration.
	for name := range names {
		if stem, ok := strings.CutSuffix(name, ".up.sql"); ok {
			assert.True(t, names[stem+".down.sql"], "missing down migration for %s", stem)
		}
	}

	assert.True(t, names["000001_create_credentials.up.sql"])
	assert.True(t, names["000002_credential_lockout.up.sql"])
}
