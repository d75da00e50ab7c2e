// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

package credential

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Verification results used as metric labels.
const (
	ResultSuccess = "success"
	ResultInvalid = "invalid"
	ResultLocked  = "locked"
	ResultError   = "error"
)

// Enrollments counts successful enrollments by digest algorithm.
var Enrollments = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "simplepassword_enrollments_total",
		Help: "Total number of credential enrollments",
	},
	[]string{"algorithm"},
)

// Verifications counts verification attempts by result.
var Verifications = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "simplepassword_verifications_total",
		Help: "Total number of credential verifications",
	},
	[]string{"result"},
)

// VerifyDuration observes how long verification takes, lookup included.
var VerifyDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "simplepassword_verify_duration_seconds",
		Help:    "Credential verification duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
)

// RegisterMetrics registers the package metrics with reg.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Enrollments)
	reg.MustRegister(Verifications)
	reg.MustRegister(VerifyDuration)
}

func recordEnrollment(alg string) {
	Enrollments.WithLabelValues(alg).Inc()
}

func recordVerification(result string, d time.Duration) {
	Verifications.WithLabelValues(result).Inc()
	VerifyDuration.Observe(d.Seconds())
}
