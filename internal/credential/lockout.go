// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

package credential

import "time"

const (
	// LockoutDuration is how long a credential stays locked.
	LockoutDuration = 15 * time.Minute

	// LockoutThreshold is the number of consecutive failures that locks a credential.
	LockoutThreshold = 7
)

// IsLockedOut reports whether lockedUntil lies after now.
func IsLockedOut(lockedUntil *time.Time, now time.Time) bool {
	return lockedUntil != nil && lockedUntil.After(now)
}

// ComputeLockoutTime returns the lockout deadline for the failure count, or nil
// below LockoutThreshold.
func ComputeLockoutTime(failures int, now time.Time) *time.Time {
	if failures < LockoutThreshold {
		return nil
	}
	lockout := now.Add(LockoutDuration)
	return &lockout
}

// IsLocked reports whether the credential is locked at now.
func (c *Credential) IsLocked(now time.Time) bool {
	return IsLockedOut(c.LockedUntil, now)
}

// RecordFailure counts a failed verification and locks the credential once the
// threshold is reached. Repositories that hold credentials in memory apply it
// under their own lock.
func (c *Credential) RecordFailure(now time.Time) {
	c.FailedAttempts++
	c.LockedUntil = ComputeLockoutTime(c.FailedAttempts, now)
	c.UpdatedAt = now
}

// RecordSuccess clears the failure counter and any lockout.
func (c *Credential) RecordSuccess(now time.Time) {
	c.FailedAttempts = 0
	c.LockedUntil = nil
	c.UpdatedAt = now
}
