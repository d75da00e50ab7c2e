// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

package credential

import (
	"context"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	RegisterMetrics(reg)

	recordEnrollment("sha512")
	recordVerification(ResultSuccess, time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "simplepassword_enrollments_total")
	assert.Contains(t, names, "simplepassword_verifications_total")
	assert.Contains(t, names, "simplepassword_verify_duration_seconds")

	assert.Panics(t, func() { RegisterMetrics(reg) })
}

// stubRepo serves a single credential and accepts updates.
type stubRepo struct {
	cred *Credential
}

func (r *stubRepo) Create(context.Context, *Credential) error { return nil }

func (r *stubRepo) GetByName(_ context.Context, name string) (*Credential, error) {
	if r.cred == nil || r.cred.Name != name {
		return nil, ErrNotFound
	}
	c := *r.cred
	return &c, nil
}

func (r *stubRepo) Update(_ context.Context, cred *Credential) error {
	c := *cred
	r.cred = &c
	return nil
}

func (r *stubRepo) RecordFailure(_ context.Context, _ ulid.ULID, now time.Time) (int, error) {
	r.cred.RecordFailure(now)
	return r.cred.FailedAttempts, nil
}

func (r *stubRepo) Delete(context.Context, string) error { return nil }

func (r *stubRepo) List(context.Context) ([]*Credential, error) { return nil, nil }

func TestService_RecordsMetrics(t *testing.T) {
	ctx := context.Background()
	repo := &stubRepo{}
	svc, err := NewService(repo, WithSaltSize(16))
	require.NoError(t, err)

	enrollBefore := testutil.ToFloat64(Enrollments.WithLabelValues("sha512"))
	successBefore := testutil.ToFloat64(Verifications.WithLabelValues(ResultSuccess))
	invalidBefore := testutil.ToFloat64(Verifications.WithLabelValues(ResultInvalid))

	cred, err := svc.Enroll(ctx, "alice", "testpassword")
	require.NoError(t, err)
	repo.cred = cred

	require.NoError(t, svc.Verify(ctx, "alice", "testpassword"))
	require.Error(t, svc.Verify(ctx, "alice", "boguspassword"))
	require.Error(t, svc.Verify(ctx, "nobody", "testpassword"))

	assert.InDelta(t, enrollBefore+1, testutil.ToFloat64(Enrollments.WithLabelValues("sha512")), 0)
	assert.InDelta(t, successBefore+1, testutil.ToFloat64(Verifications.WithLabelValues(ResultSuccess)), 0)
	assert.InDelta(t, invalidBefore+2, testutil.ToFloat64(Verifications.WithLabelValues(ResultInvalid)), 0)
}
