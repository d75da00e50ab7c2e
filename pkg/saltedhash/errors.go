// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

package saltedhash

import (
	"errors"

	"github.com/samber/oops"
)

// ErrInvalidArgument is returned when a required constructor argument is absent
// or out of range. Errors returned by this package wrap it; match with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// Error codes attached to errors returned by this package.
const (
	CodeInvalidArgument      = "INVALID_ARGUMENT"
	CodeSaltSourceInvalid    = "SALT_SOURCE_INVALID"
	CodeUnsupportedAlgorithm = "UNSUPPORTED_ALGORITHM"
)

func invalidArgument(name, reason string) error {
	return oops.Code(CodeInvalidArgument).
		With("argument", name).
		Wrapf(ErrInvalidArgument, "%s %s", name, reason)
}
