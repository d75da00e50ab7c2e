// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

// Package saltedhash provides a salted password hash value type.
//
// # Enrollment and verification
//
// New enrolls a clear-text password: it draws a fresh random salt, encodes
// salt ++ password as UTF-16LE and stores the base64 digest of the result.
// Only the digest and the salt are kept; the password is never retained.
// Passwords must be valid UTF-8, and a candidate that is not never verifies.
//
// FromStored reconstructs a SaltedHash from a previously persisted digest and
// salt without consuming entropy or recomputing anything. Verify then checks
// a candidate password against it:
//
//	h, err := saltedhash.New("testpassword")
//	// persist h.Digest() and h.Salt()
//	stored, err := saltedhash.FromStored(digest, salt)
//	ok := stored.Verify("testpassword")
//
// # Equality
//
// Two values are equal when their digests are identical. The salt is
// metadata needed to recompute a comparable digest and takes no part in
// equality. Key returns a map key consistent with Equal.
//
// # Collaborators
//
// The digest function and the random source are injectable through options.
// Defaults are SHA-512 and NonZeroBytes (crypto/rand, zero bytes rejected).
package saltedhash
