// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

package credential

import (
	"context"
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/simplepassword/simplepassword/pkg/saltedhash"
)

// Name validation constraints.
const (
	MinNameLength = 3
	MaxNameLength = 64
)

// nameRegex matches names that start with a letter and contain only letters,
// digits and the characters _ - . @
var nameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_.@-]*$`)

// Credential is a persisted password credential.
type Credential struct {
	ID             ulid.ULID
	Name           string
	Digest         string
	Salt           string
	Algorithm      saltedhash.Algorithm
	FailedAttempts int
	LockedUntil    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewCredential builds a validated credential from an enrolled hash.
func NewCredential(name string, hash *saltedhash.SaltedHash, alg saltedhash.Algorithm, now time.Time) (*Credential, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if hash == nil {
		return nil, oops.Code(CodeInvalidArgument).Errorf("hash is required")
	}
	if _, err := alg.DigestFunc(); err != nil {
		return nil, err
	}

	return &Credential{
		ID:        ulid.Make(),
		Name:      name,
		Digest:    hash.Digest(),
		Salt:      hash.Salt(),
		Algorithm: alg,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SaltedHash reconstructs the stored hash with the recorded algorithm.
func (c *Credential) SaltedHash() (*saltedhash.SaltedHash, error) {
	h, err := saltedhash.FromStored(c.Digest, c.Salt, saltedhash.WithAlgorithm(c.Algorithm))
	if err != nil {
		return nil, oops.With("name", c.Name).Wrap(err)
	}
	return h, nil
}

// Rehash replaces the stored hash. ID and CreatedAt are kept.
func (c *Credential) Rehash(hash *saltedhash.SaltedHash, alg saltedhash.Algorithm, now time.Time) {
	c.Digest = hash.Digest()
	c.Salt = hash.Salt()
	c.Algorithm = alg
	c.UpdatedAt = now
}

// ValidateName validates a credential name.
// Requirements:
// - Length: MinNameLength to MaxNameLength characters
// - Must start with a letter
// - May contain letters, digits, underscores, dashes, dots and @
func ValidateName(name string) error {
	if name == "" {
		return oops.Code(CodeInvalidName).Errorf("name cannot be empty")
	}
	if len(name) < MinNameLength {
		return oops.Code(CodeInvalidName).
			With("min", MinNameLength).
			Errorf("name must be at least %d characters", MinNameLength)
	}
	if len(name) > MaxNameLength {
		return oops.Code(CodeInvalidName).
			With("max", MaxNameLength).
			Errorf("name must be at most %d characters", MaxNameLength)
	}
	if !nameRegex.MatchString(name) {
		return oops.Code(CodeInvalidName).
			Errorf("name must start with a letter and contain only letters, digits, '_', '-', '.' and '@'")
	}
	return nil
}

// Repository manages credential persistence.
type Repository interface {
	// Create stores a new credential. Returns ErrAlreadyExists if the name is taken.
	Create(ctx context.Context, cred *Credential) error

	// GetByName retrieves a credential by name (case-insensitive).
	// Returns ErrNotFound if none exists.
	GetByName(ctx context.Context, name string) (*Credential, error)

	// Update replaces the hash, lockout state and update time of a credential.
	Update(ctx context.Context, cred *Credential) error

	// RecordFailure increments the failure counter of the credential with id
	// as a single atomic step, locks it once the counter reaches
	// LockoutThreshold, and returns the new count. Returns ErrNotFound if
	// none exists.
	RecordFailure(ctx context.Context, id ulid.ULID, now time.Time) (int, error)

	// Delete removes a credential by name. Returns ErrNotFound if none exists.
	Delete(ctx context.Context, name string) error

	// List returns every credential ordered by name.
	List(ctx context.Context) ([]*Credential, error)
}
