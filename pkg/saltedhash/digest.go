// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

package saltedhash

import (
	"crypto/sha512"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// DigestFunc is a deterministic hash over a byte sequence.
type DigestFunc func(data []byte) []byte

// Algorithm names a digest function so persisted hashes can record how they
// were produced.
type Algorithm string

// Supported algorithms.
const (
	SHA512     Algorithm = "sha512"
	SHA3_512   Algorithm = "sha3-512" //nolint:revive // matches the algorithm name
	BLAKE2b512 Algorithm = "blake2b-512"
)

// DefaultAlgorithm is the algorithm used when no digest option is given.
const DefaultAlgorithm = SHA512

var digestFuncs = map[Algorithm]DigestFunc{
	SHA512: func(data []byte) []byte {
		sum := sha512.Sum512(data)
		return sum[:]
	},
	SHA3_512: func(data []byte) []byte {
		sum := sha3.Sum512(data)
		return sum[:]
	},
	BLAKE2b512: func(data []byte) []byte {
		sum := blake2b.Sum512(data)
		return sum[:]
	},
}

// Algorithms returns the supported algorithm names in a stable order.
func Algorithms() []Algorithm {
	return []Algorithm{SHA512, SHA3_512, BLAKE2b512}
}

// ParseAlgorithm resolves a case-insensitive algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	alg := Algorithm(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := digestFuncs[alg]; !ok {
		return "", oops.Code(CodeUnsupportedAlgorithm).
			With("algorithm", name).
			Errorf("unsupported digest algorithm: %q", name)
	}
	return alg, nil
}

// DigestFunc returns the digest function for the algorithm.
func (a Algorithm) DigestFunc() (DigestFunc, error) {
	fn, ok := digestFuncs[a]
	if !ok {
		return nil, oops.Code(CodeUnsupportedAlgorithm).
			With("algorithm", string(a)).
			Errorf("unsupported digest algorithm: %q", string(a))
	}
	return fn, nil
}

// String returns the algorithm name.
func (a Algorithm) String() string {
	return string(a)
}
