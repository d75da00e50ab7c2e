// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

// Package postgres stores credentials in PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/simplepassword/simplepassword/internal/credential"
	"github.com/simplepassword/simplepassword/pkg/saltedhash"
)

// poolIface is the subset of pgxpool.Pool used here. pgxmock satisfies it.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CredentialRepository implements credential.Repository using PostgreSQL.
type CredentialRepository struct {
	pool poolIface
}

// NewCredentialRepository creates a new CredentialRepository.
func NewCredentialRepository(pool poolIface) *CredentialRepository {
	return &CredentialRepository{pool: pool}
}

// Compile-time interface check.
var _ credential.Repository = (*CredentialRepository)(nil)

// Create stores a new credential.
func (r *CredentialRepository) Create(ctx context.Context, cred *credential.Credential) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO credentials (
			id, name, digest, salt, algorithm,
			failed_attempts, locked_until, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		cred.ID.String(),
		cred.Name,
		cred.Digest,
		cred.Salt,
		string(cred.Algorithm),
		cred.FailedAttempts,
		cred.LockedUntil,
		cred.CreatedAt,
		cred.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code(credential.CodeExists).
				With("name", cred.Name).
				Wrapf(credential.ErrAlreadyExists, "credential %q", cred.Name)
		}
		return oops.Code("CREDENTIAL_CREATE_FAILED").
			With("operation", "insert credential").
			With("name", cred.Name).
			Wrap(err)
	}
	return nil
}

// GetByName retrieves a credential by name (case-insensitive).
func (r *CredentialRepository) GetByName(ctx context.Context, name string) (*credential.Credential, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, digest, salt, algorithm,
		       failed_attempts, locked_until, created_at, updated_at
		FROM credentials
		WHERE LOWER(name) = LOWER($1)
	`, name)

	cred, err := scanCredential(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code(credential.CodeNotFound).
			With("name", name).
			Wrap(credential.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("CREDENTIAL_GET_FAILED").
			With("operation", "get credential by name").
			With("name", name).
			Wrap(err)
	}
	return cred, nil
}

// Update writes the hash, lockout state and update time of a credential.
func (r *CredentialRepository) Update(ctx context.Context, cred *credential.Credential) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE credentials SET
			digest = $2,
			salt = $3,
			algorithm = $4,
			failed_attempts = $5,
			locked_until = $6,
			updated_at = $7
		WHERE id = $1
	`,
		cred.ID.String(),
		cred.Digest,
		cred.Salt,
		string(cred.Algorithm),
		cred.FailedAttempts,
		cred.LockedUntil,
		cred.UpdatedAt,
	)
	if err != nil {
		return oops.Code("CREDENTIAL_UPDATE_FAILED").
			With("operation", "update credential").
			With("id", cred.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code(credential.CodeNotFound).
			With("id", cred.ID.String()).
			Wrap(credential.ErrNotFound)
	}
	return nil
}

// RecordFailure increments failed_attempts in a single statement so concurrent
// failures are all counted, and sets locked_until once the new count reaches
// credential.LockoutThreshold.
func (r *CredentialRepository) RecordFailure(ctx context.Context, id ulid.ULID, now time.Time) (int, error) {
	var failures int
	err := r.pool.QueryRow(ctx, `
		UPDATE credentials SET
			failed_attempts = failed_attempts + 1,
			locked_until = CASE
				WHEN failed_attempts + 1 >= $3 THEN $4::timestamptz
				ELSE NULL
			END,
			updated_at = $2
		WHERE id = $1
		RETURNING failed_attempts
	`,
		id.String(),
		now,
		credential.LockoutThreshold,
		now.Add(credential.LockoutDuration),
	).Scan(&failures)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, oops.Code(credential.CodeNotFound).
			With("id", id.String()).
			Wrap(credential.ErrNotFound)
	}
	if err != nil {
		return 0, oops.Code("CREDENTIAL_UPDATE_FAILED").
			With("operation", "record failure").
			With("id", id.String()).
			Wrap(err)
	}
	return failures, nil
}

// Delete removes a credential by name (case-insensitive).
func (r *CredentialRepository) Delete(ctx context.Context, name string) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM credentials WHERE LOWER(name) = LOWER($1)
	`, name)
	if err != nil {
		return oops.Code("CREDENTIAL_DELETE_FAILED").
			With("operation", "delete credential").
			With("name", name).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code(credential.CodeNotFound).
			With("name", name).
			Wrap(credential.ErrNotFound)
	}
	return nil
}

// List returns every credential ordered by name.
func (r *CredentialRepository) List(ctx context.Context) ([]*credential.Credential, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, digest, salt, algorithm,
		       failed_attempts, locked_until, created_at, updated_at
		FROM credentials
		ORDER BY LOWER(name)
	`)
	if err != nil {
		return nil, oops.Code("CREDENTIAL_LIST_FAILED").
			With("operation", "list credentials").
			Wrap(err)
	}
	defer rows.Close()

	var creds []*credential.Credential
	for rows.Next() {
		cred, err := scanCredential(rows)
		if err != nil {
			return nil, err
		}
		creds = append(creds, cred)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("CREDENTIAL_LIST_FAILED").
			With("operation", "iterate credentials").
			Wrap(err)
	}
	return creds, nil
}

// scanCredential scans a single row into a Credential.
// Callers are responsible for handling pgx.ErrNoRows.
func scanCredential(row pgx.Row) (*credential.Credential, error) {
	var (
		idStr          string
		name           string
		digest         string
		salt           string
		algorithm      string
		failedAttempts int
		lockedUntil    *time.Time
		createdAt      time.Time
		updatedAt      time.Time
	)

	err := row.Scan(
		&idStr,
		&name,
		&digest,
		&salt,
		&algorithm,
		&failedAttempts,
		&lockedUntil,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // callers wrap with context-specific info
		}
		return nil, oops.Code("CREDENTIAL_SCAN_FAILED").
			With("operation", "scan credential").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("CREDENTIAL_INVALID_ID").
			With("operation", "parse credential id").
			With("id", idStr).
			Wrap(err)
	}

	alg, err := saltedhash.ParseAlgorithm(algorithm)
	if err != nil {
		return nil, oops.With("id", idStr).Wrap(err)
	}

	return &credential.Credential{
		ID:             id,
		Name:           name,
		Digest:         digest,
		Salt:           salt,
		Algorithm:      alg,
		FailedAttempts: failedAttempts,
		LockedUntil:    lockedUntil,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}, nil
}
