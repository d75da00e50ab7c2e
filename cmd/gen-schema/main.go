// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

// Command gen-schema writes the config file JSON Schema for editors and CI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/simplepassword/simplepassword/internal/config"
)

func main() {
	out := pflag.StringP("output", "o", filepath.Join("schemas", "config.schema.json"), "output path")
	pflag.Parse()

	if err := generate(*out); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating schema: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated %s\n", *out)
}

func generate(outPath string) error {
	schema, err := config.GenerateSchema()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
		return oops.Code("SCHEMA_WRITE_FAILED").With("path", outPath).Wrapf(err, "create directory")
	}
	if err := os.WriteFile(outPath, schema, 0o600); err != nil {
		return oops.Code("SCHEMA_WRITE_FAILED").With("path", outPath).Wrapf(err, "write file")
	}
	return nil
}
