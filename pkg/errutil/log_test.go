// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

package errutil_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplepassword/simplepassword/pkg/errutil"
)

func TestLogError_WithOopsError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	err := oops.Code("CREDENTIAL_INVALID").
		With("name", "alice").
		Errorf("invalid name or password")

	errutil.LogError(logger, "verify failed", err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "verify failed", entry["msg"])
	assert.Equal(t, "CREDENTIAL_INVALID", entry["code"])
	ctx, ok := entry["context"].(map[string]any)
	require.True(t, ok, "context attribute missing")
	assert.Equal(t, "alice", ctx["name"])
}

func TestLogError_WithStandardError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	errutil.LogError(logger, "verify failed", errors.New("standard error"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Contains(t, entry["error"], "standard error")
	assert.NotContains(t, entry, "code")
}

func TestCode(t *testing.T) {
	assert.Equal(t, "INVALID_ARGUMENT", errutil.Code(oops.Code("INVALID_ARGUMENT").Errorf("x")))
	assert.Equal(t, "", errutil.Code(errors.New("plain")))
	assert.Equal(t, "", errutil.Code(nil))
	assert.Equal(t, "", errutil.Code(oops.Errorf("no code")))
}
