// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

// Package credential stores and checks named password credentials built on
// saltedhash.
//
// A Credential persists only the digest, the salt and the digest algorithm
// of a password. Service coordinates enrollment, verification with failure
// lockout, password changes and removal over a Repository; the postgres
// subpackage provides the PostgreSQL implementation.
package credential
