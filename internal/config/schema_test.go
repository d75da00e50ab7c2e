// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplepassword/simplepassword/pkg/errutil"
)

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))
	assert.Equal(t, SchemaID, schema["$id"])
	assert.Equal(t, false, schema["additionalProperties"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"salt_size", "algorithm", "database_url", "log_format", "log_level", "connect_retries", "connect_backoff"} {
		assert.Contains(t, props, key)
	}
	assert.NotContains(t, schema, "required", "every key is optional")
}

func TestValidateFile(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"empty document", "", false},
		{"full document", "salt_size: 64\nalgorithm: sha3-512\nlog_format: json\nlog_level: debug\nconnect_retries: 0\nconnect_backoff: 1m30s\n", false},
		{"unknown key", "salt_sise: 64\n", true},
		{"zero salt size", "salt_size: 0\n", true},
		{"salt size as string", "salt_size: big\n", true},
		{"unknown algorithm", "algorithm: md5\n", true},
		{"bad log format", "log_format: xml\n", true},
		{"negative retries", "connect_retries: -1\n", true},
		{"backoff without unit", "connect_backoff: \"500\"\n", true},
		{"malformed YAML", "salt_size: [\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFile([]byte(tt.data))
			if tt.wantErr {
				require.Error(t, err)
				errutil.AssertErrorCode(t, err, "CONFIG_SCHEMA_INVALID")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoad_RejectsFileFailingSchema(t *testing.T) {
	path := writeFile(t, "algorithm: sha512\nsalt_sise: 64\n")
	_, err := Load(Source{Path: path})
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_SCHEMA_INVALID")
	errutil.AssertErrorContext(t, err, "path", path)
}
