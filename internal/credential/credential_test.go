// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

package credential_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplepassword/simplepassword/internal/credential"
	"github.com/simplepassword/simplepassword/pkg/errutil"
	"github.com/simplepassword/simplepassword/pkg/saltedhash"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "alice", false},
		{"valid with digits", "alice42", false},
		{"valid email-like", "alice.smith@example.org", false},
		{"valid min length", "abc", false},
		{"valid max length", "a" + strings.Repeat("b", 63), false},
		{"empty", "", true},
		{"too short", "ab", true},
		{"too long", "a" + strings.Repeat("b", 64), true},
		{"starts with digit", "1alice", true},
		{"contains space", "alice smith", true},
		{"contains slash", "alice/bob", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := credential.ValidateName(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				errutil.AssertErrorCode(t, err, credential.CodeInvalidName)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewCredential(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h, err := saltedhash.New("testpassword", saltedhash.WithSaltSize(16))
	require.NoError(t, err)

	t.Run("copies digest and salt", func(t *testing.T) {
		cred, err := credential.NewCredential("alice", h, saltedhash.SHA512, now)
		require.NoError(t, err)

		assert.NotZero(t, cred.ID)
		assert.Equal(t, "alice", cred.Name)
		assert.Equal(t, h.Digest(), cred.Digest)
		assert.Equal(t, h.Salt(), cred.Salt)
		assert.Equal(t, saltedhash.SHA512, cred.Algorithm)
		assert.Equal(t, now, cred.CreatedAt)
		assert.Equal(t, now, cred.UpdatedAt)
		assert.Zero(t, cred.FailedAttempts)
		assert.Nil(t, cred.LockedUntil)
	})

	t.Run("unique ids", func(t *testing.T) {
		a, err := credential.NewCredential("alice", h, saltedhash.SHA512, now)
		require.NoError(t, err)
		b, err := credential.NewCredential("alice", h, saltedhash.SHA512, now)
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("rejects nil hash", func(t *testing.T) {
		_, err := credential.NewCredential("alice", nil, saltedhash.SHA512, now)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, credential.CodeInvalidArgument)
	})

	t.Run("rejects unknown algorithm", func(t *testing.T) {
		_, err := credential.NewCredential("alice", h, "md5", now)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, saltedhash.CodeUnsupportedAlgorithm)
	})

	t.Run("rejects invalid name", func(t *testing.T) {
		_, err := credential.NewCredential("x", h, saltedhash.SHA512, now)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, credential.CodeInvalidName)
	})
}

func TestCredential_SaltedHash(t *testing.T) {
	now := time.Now()
	h, err := saltedhash.New("testpassword", saltedhash.WithSaltSize(16), saltedhash.WithAlgorithm(saltedhash.SHA3_512))
	require.NoError(t, err)

	cred, err := credential.NewCredential("alice", h, saltedhash.SHA3_512, now)
	require.NoError(t, err)

	got, err := cred.SaltedHash()
	require.NoError(t, err)
	assert.True(t, got.Equal(h))
	assert.True(t, got.Verify("testpassword"))

	cred.Salt = ""
	_, err = cred.SaltedHash()
	require.Error(t, err)
	assert.ErrorIs(t, err, saltedhash.ErrInvalidArgument)
}

func TestCredential_Rehash(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h1, err := saltedhash.New("testpassword", saltedhash.WithSaltSize(16))
	require.NoError(t, err)
	cred, err := credential.NewCredential("alice", h1, saltedhash.SHA512, created)
	require.NoError(t, err)
	id := cred.ID

	h2, err := saltedhash.New("testpassword", saltedhash.WithSaltSize(16), saltedhash.WithAlgorithm(saltedhash.BLAKE2b512))
	require.NoError(t, err)
	later := created.Add(time.Hour)
	cred.Rehash(h2, saltedhash.BLAKE2b512, later)

	assert.Equal(t, id, cred.ID)
	assert.Equal(t, created, cred.CreatedAt)
	assert.Equal(t, later, cred.UpdatedAt)
	assert.Equal(t, h2.Digest(), cred.Digest)
	assert.Equal(t, saltedhash.BLAKE2b512, cred.Algorithm)
}
