// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

package saltedhash

import (
	"bytes"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"unicode/utf8"

	"github.com/samber/oops"
	"golang.org/x/text/encoding/unicode"
)

// SaltedHash is an immutable salted digest of a password.
// The zero value is not usable; construct with New or FromStored.
type SaltedHash struct {
	digest string
	salt   string
	fn     DigestFunc
}

// New enrolls a password. It draws a fresh salt from the random source exactly
// once and derives the digest of salt ++ password.
//
// Go has no null string; the empty string stands in for absent and is rejected
// with ErrInvalidArgument. Beyond that, checking password strength is the
// caller's job. The password must be valid UTF-8 because the digest is taken
// over its UTF-16 encoding, which cannot represent arbitrary bytes.
// Errors from the random source are returned unchanged.
func New(password string, opts ...Option) (*SaltedHash, error) {
	if password == "" {
		return nil, invalidArgument("password", "is required")
	}
	if !utf8.ValidString(password) {
		return nil, invalidArgument("password", "must be valid UTF-8")
	}

	o := newOptions(opts)
	if o.err != nil {
		return nil, o.err
	}
	if o.saltSize <= 0 {
		return nil, invalidArgument("salt size", "must be positive")
	}

	raw, err := o.random(o.saltSize)
	if err != nil {
		return nil, err
	}
	if len(raw) != o.saltSize {
		return nil, oops.Code(CodeSaltSourceInvalid).
			With("want", o.saltSize).
			With("got", len(raw)).
			Errorf("random source returned %d bytes, want %d", len(raw), o.saltSize)
	}
	if bytes.IndexByte(raw, 0) >= 0 {
		return nil, oops.Code(CodeSaltSourceInvalid).
			Errorf("random source returned a zero byte")
	}

	h := &SaltedHash{
		salt: base64.StdEncoding.EncodeToString(raw),
		fn:   o.digest,
	}
	digest, err := h.compute(password)
	if err != nil {
		return nil, oops.With("operation", "compute digest").Wrap(err)
	}
	h.digest = digest
	return h, nil
}

// FromStored reconstructs a SaltedHash from a persisted digest and salt.
// Both are kept verbatim; nothing is recomputed. Only the digest option is
// relevant here and must match the one used at enrollment.
func FromStored(digest, salt string, opts ...Option) (*SaltedHash, error) {
	if digest == "" {
		return nil, invalidArgument("digest", "is required")
	}
	if salt == "" {
		return nil, invalidArgument("salt", "is required")
	}

	o := newOptions(opts)
	if o.err != nil {
		return nil, o.err
	}

	return &SaltedHash{digest: digest, salt: salt, fn: o.digest}, nil
}

// Digest returns the base64-encoded digest.
func (h *SaltedHash) Digest() string {
	return h.digest
}

// Salt returns the base64-encoded salt.
func (h *SaltedHash) Salt() string {
	return h.salt
}

// Verify reports whether candidate hashes to the stored digest under this
// instance's salt. It does not modify h and is safe for concurrent use.
// A candidate that is not valid UTF-8 never verifies.
func (h *SaltedHash) Verify(candidate string) bool {
	if h == nil || !utf8.ValidString(candidate) {
		return false
	}
	digest, err := h.compute(candidate)
	if err != nil {
		return false
	}
	return equalDigest(h.digest, digest)
}

// Equal reports whether h and other carry the same digest. Two nil values are
// equal; a nil and a non-nil value are not.
func (h *SaltedHash) Equal(other *SaltedHash) bool {
	if h == nil || other == nil {
		return h == other
	}
	return equalDigest(h.digest, other.digest)
}

// Key returns a value usable as a map key. It depends on the digest alone, so
// Equal values have equal keys.
func (h *SaltedHash) Key() string {
	if h == nil {
		return ""
	}
	return h.digest
}

// LogValue implements slog.LogValuer. The salt is never logged and the digest
// is reduced to a short fingerprint.
func (h *SaltedHash) LogValue() slog.Value {
	if h == nil {
		return slog.StringValue("<nil>")
	}
	fp := h.digest
	if len(fp) > 8 {
		fp = fp[:8]
	}
	return slog.GroupValue(slog.String("digest", fp+"…"))
}

func (h *SaltedHash) compute(password string) (string, error) {
	data, err := encodeText(h.salt + password)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(h.fn(data)), nil
}

// encodeText returns the UTF-16LE bytes of s without a byte order mark.
// The encoder maps invalid UTF-8 to U+FFFD, so s must be checked first.
func encodeText(s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, invalidArgument("text", "must be valid UTF-8")
	}
	//nolint:wrapcheck // callers attach context
	return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(s))
}

func equalDigest(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
