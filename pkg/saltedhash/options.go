// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

package saltedhash

// DefaultSaltSize is the number of random bytes drawn for a new salt.
const DefaultSaltSize = 512

// Option configures New and FromStored.
type Option func(*options)

type options struct {
	saltSize int
	digest   DigestFunc
	random   RandomFunc
	err      error
}

func newOptions(opts []Option) options {
	o := options{
		saltSize: DefaultSaltSize,
		digest:   digestFuncs[DefaultAlgorithm],
		random:   NonZeroBytes,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithSaltSize sets the number of random salt bytes. Only New uses it.
func WithSaltSize(n int) Option {
	return func(o *options) {
		o.saltSize = n
	}
}

// WithDigest sets the digest function. A nil function keeps the default.
func WithDigest(fn DigestFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.digest = fn
		}
	}
}

// WithAlgorithm selects a named digest function.
// An unknown name makes the constructor fail with UNSUPPORTED_ALGORITHM.
func WithAlgorithm(alg Algorithm) Option {
	return func(o *options) {
		fn, err := alg.DigestFunc()
		if err != nil {
			o.err = err
			return
		}
		o.digest = fn
	}
}

// WithRandom sets the random source. A nil function keeps the default.
func WithRandom(fn RandomFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.random = fn
		}
	}
}
