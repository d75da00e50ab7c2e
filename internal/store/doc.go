// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

// Package store owns the PostgreSQL schema and connection setup for the
// credential store.
package store
