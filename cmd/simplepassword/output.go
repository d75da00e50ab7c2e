// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

package main

import (
	"encoding/json"
	"io"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	outputYAML = "yaml"
	outputJSON = "json"
)

func validateOutput(format string) error {
	if format != outputYAML && format != outputJSON {
		return oops.Code("OUTPUT_FORMAT_INVALID").
			With("format", format).
			Errorf("invalid output format %q: must be 'yaml' or 'json'", format)
	}
	return nil
}

func writeOutput(w io.Writer, format string, v any) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return oops.Code("OUTPUT_WRITE_FAILED").Wrap(err)
		}
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return oops.Code("OUTPUT_WRITE_FAILED").Wrap(err)
		}
		if err := enc.Close(); err != nil {
			return oops.Code("OUTPUT_WRITE_FAILED").Wrap(err)
		}
	}
	return nil
}
