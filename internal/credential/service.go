// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

package credential

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/samber/lo"
	"github.com/samber/oops"

	"github.com/simplepassword/simplepassword/pkg/errutil"
	"github.com/simplepassword/simplepassword/pkg/saltedhash"
)

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithAlgorithm sets the digest algorithm for new hashes.
func WithAlgorithm(alg saltedhash.Algorithm) ServiceOption {
	return func(s *Service) {
		s.algorithm = alg
	}
}

// WithSaltSize sets the salt size in bytes for new hashes.
func WithSaltSize(n int) ServiceOption {
	return func(s *Service) {
		s.saltSize = n
	}
}

// WithRandom sets the random source for new salts.
func WithRandom(fn saltedhash.RandomFunc) ServiceOption {
	return func(s *Service) {
		s.random = fn
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock sets the time source. Defaults to time.Now.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// Service provides credential operations.
type Service struct {
	repo      Repository
	algorithm saltedhash.Algorithm
	saltSize  int
	random    saltedhash.RandomFunc
	logger    *slog.Logger
	now       func() time.Time

	// dummy is verified against when a name is unknown so the response time
	// does not reveal whether the credential exists.
	dummy *saltedhash.SaltedHash
}

// NewService creates a Service over repo.
func NewService(repo Repository, opts ...ServiceOption) (*Service, error) {
	if repo == nil {
		return nil, oops.Code(CodeInvalidArgument).Errorf("repository is required")
	}

	s := &Service{
		repo:      repo,
		algorithm: saltedhash.DefaultAlgorithm,
		saltSize:  saltedhash.DefaultSaltSize,
		random:    saltedhash.NonZeroBytes,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	dummy, err := s.hash("dummy password that is never enrolled")
	if err != nil {
		return nil, oops.Code(CodeInvalidArgument).With("operation", "prepare dummy hash").Wrap(err)
	}
	s.dummy = dummy
	return s, nil
}

// Enroll hashes password and stores it under name.
func (s *Service) Enroll(ctx context.Context, name, password string) (*Credential, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	h, err := s.hash(password)
	if err != nil {
		return nil, oops.Code(CodeEnrollFailed).With("name", name).Wrap(err)
	}

	cred, err := NewCredential(name, h, s.algorithm, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, cred); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return nil, oops.Code(CodeExists).With("name", name).Wrap(err)
		}
		return nil, oops.Code(CodeEnrollFailed).
			With("operation", "create credential").
			With("name", name).
			Wrap(err)
	}

	recordEnrollment(s.algorithm.String())
	s.logger.InfoContext(ctx, "credential enrolled", "name", name, "id", cred.ID.String(), "hash", h)
	return cred, nil
}

// Verify checks password against the credential stored under name.
// Unknown names and wrong passwords fail with the same CREDENTIAL_INVALID
// error. A locked credential fails with CREDENTIAL_LOCKED once the password
// has been checked. Credentials hashed with another algorithm than the
// configured one are rehashed after a successful check.
func (s *Service) Verify(ctx context.Context, name, password string) error {
	start := time.Now()

	cred, lookupErr := s.repo.GetByName(ctx, name)
	if lookupErr != nil && !errors.Is(lookupErr, ErrNotFound) {
		recordVerification(ResultError, time.Since(start))
		return oops.Code(CodeVerifyFailed).
			With("operation", "get credential").
			With("name", name).
			Wrap(lookupErr)
	}
	exists := lookupErr == nil

	target := s.dummy
	if exists {
		h, err := cred.SaltedHash()
		if err != nil {
			recordVerification(ResultError, time.Since(start))
			return oops.Code(CodeVerifyFailed).
				With("operation", "reconstruct hash").
				With("name", name).
				Wrap(err)
		}
		target = h
	}

	// Always verify, even for unknown names.
	valid := target.Verify(password)
	now := s.now()

	if !exists || !valid {
		if exists {
			if _, err := s.repo.RecordFailure(ctx, cred.ID, now); err != nil {
				s.logger.WarnContext(ctx, "failed to update credential",
					"name", cred.Name,
					"operation", "record failure",
					"error", err)
			}
		}
		recordVerification(ResultInvalid, time.Since(start))
		return oops.Code(CodeInvalid).Errorf("invalid name or password")
	}

	// Checked after the digest so a locked account costs the same time.
	if cred.IsLocked(now) {
		recordVerification(ResultLocked, time.Since(start))
		return oops.Code(CodeLocked).
			With("locked_until", cred.LockedUntil).
			Errorf("credential is temporarily locked")
	}

	cred.RecordSuccess(now)
	if s.NeedsRehash(cred) {
		if h, err := s.hash(password); err == nil {
			s.logger.InfoContext(ctx, "credential rehashed",
				"name", name, "from", cred.Algorithm.String(), "to", s.algorithm.String())
			cred.Rehash(h, s.algorithm, now)
		} else {
			errutil.LogError(s.logger, "rehash failed", err)
		}
	}
	s.bestEffortUpdate(ctx, cred, "record success")

	recordVerification(ResultSuccess, time.Since(start))
	return nil
}

// ChangePassword verifies oldPassword and replaces it with newPassword under a
// fresh salt and the configured algorithm.
func (s *Service) ChangePassword(ctx context.Context, name, oldPassword, newPassword string) error {
	if err := s.Verify(ctx, name, oldPassword); err != nil {
		return err
	}

	h, err := s.hash(newPassword)
	if err != nil {
		return oops.Code(CodeEnrollFailed).With("name", name).Wrap(err)
	}

	cred, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return oops.Code(CodeEnrollFailed).
			With("operation", "get credential").
			With("name", name).
			Wrap(err)
	}
	cred.Rehash(h, s.algorithm, s.now())
	if err := s.repo.Update(ctx, cred); err != nil {
		return oops.Code(CodeEnrollFailed).
			With("operation", "update credential").
			With("name", name).
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "credential password changed", "name", name, "hash", h)
	return nil
}

// Get returns the credential stored under name.
func (s *Service) Get(ctx context.Context, name string) (*Credential, error) {
	cred, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code(CodeNotFound).With("name", name).Wrap(err)
		}
		return nil, oops.With("operation", "get credential").With("name", name).Wrap(err)
	}
	return cred, nil
}

// Remove deletes the credential stored under name.
func (s *Service) Remove(ctx context.Context, name string) error {
	if err := s.repo.Delete(ctx, name); err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code(CodeNotFound).With("name", name).Wrap(err)
		}
		return oops.Code(CodeRemoveFailed).With("name", name).Wrap(err)
	}
	s.logger.InfoContext(ctx, "credential removed", "name", name)
	return nil
}

// List returns the credentials whose name matches pattern, ordered by name.
// pattern is a case-insensitive glob ("*", "?", "[a-z]", "{a,b}"); an empty
// pattern matches everything.
func (s *Service) List(ctx context.Context, pattern string) ([]*Credential, error) {
	var matcher glob.Glob
	if pattern != "" {
		g, err := glob.Compile(strings.ToLower(pattern))
		if err != nil {
			return nil, oops.Code(CodeInvalidArgument).With("pattern", pattern).Wrapf(err, "invalid name pattern")
		}
		matcher = g
	}

	creds, err := s.repo.List(ctx)
	if err != nil {
		return nil, oops.With("operation", "list credentials").Wrap(err)
	}
	if matcher == nil {
		return creds, nil
	}
	return lo.Filter(creds, func(c *Credential, _ int) bool {
		return matcher.Match(strings.ToLower(c.Name))
	}), nil
}

// NeedsRehash reports whether cred was hashed with another algorithm than the
// one this service enrolls with.
func (s *Service) NeedsRehash(cred *Credential) bool {
	return cred.Algorithm != s.algorithm
}

func (s *Service) hash(password string) (*saltedhash.SaltedHash, error) {
	return saltedhash.New(password,
		saltedhash.WithAlgorithm(s.algorithm),
		saltedhash.WithSaltSize(s.saltSize),
		saltedhash.WithRandom(s.random),
	)
}

func (s *Service) bestEffortUpdate(ctx context.Context, cred *Credential, operation string) {
	if err := s.repo.Update(ctx, cred); err != nil {
		s.logger.WarnContext(ctx, "failed to update credential",
			"name", cred.Name,
			"operation", operation,
			"error", err)
	}
}
