// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

package credential

import "errors"

var (
	// ErrNotFound is returned when a requested credential does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when creating a credential whose name is taken.
	ErrAlreadyExists = errors.New("already exists")
)

// Error codes returned by Service.
const (
	CodeInvalidName     = "CREDENTIAL_INVALID_NAME"
	CodeInvalid         = "CREDENTIAL_INVALID"
	CodeLocked          = "CREDENTIAL_LOCKED"
	CodeNotFound        = "CREDENTIAL_NOT_FOUND"
	CodeExists          = "CREDENTIAL_EXISTS"
	CodeEnrollFailed    = "CREDENTIAL_ENROLL_FAILED"
	CodeVerifyFailed    = "CREDENTIAL_VERIFY_FAILED"
	CodeRemoveFailed    = "CREDENTIAL_REMOVE_FAILED"
	CodeInvalidArgument = "CREDENTIAL_INVALID_ARGUMENT"
)
