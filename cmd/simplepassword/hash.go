// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/simplepassword/simplepassword/pkg/saltedhash"
)

// hashRecord is the printed form of a salted hash.
type hashRecord struct {
	Algorithm string `yaml:"algorithm" json:"algorithm"`
	Digest    string `yaml:"digest" json:"digest"`
	Salt      string `yaml:"salt" json:"salt"`
}

// NewHashCmd creates the hash subcommand.
func NewHashCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Hash a password with a fresh salt",
		Long: `Hash a password with a fresh random salt and print the digest, salt and
algorithm. The password is read from --password, from a hidden terminal
prompt, or from the first line of standard input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			if err := a.load(cmd); err != nil {
				return err
			}

			password, err := passwordFrom(cmd, newPrompter(cmd), "Password: ", true)
			if err != nil {
				return err
			}

			alg := a.cfg.HashAlgorithm()
			h, err := saltedhash.New(password,
				saltedhash.WithAlgorithm(alg),
				saltedhash.WithSaltSize(a.cfg.SaltSize))
			if err != nil {
				return err
			}
			a.logger.Debug("password hashed", "algorithm", alg.String(), "hash", h)

			return writeOutput(cmd.OutOrStdout(), output, hashRecord{
				Algorithm: alg.String(),
				Digest:    h.Digest(),
				Salt:      h.Salt(),
			})
		},
	}

	cmd.Flags().String("password", "", "password to hash (visible in process listings; prefer the prompt)")
	cmd.Flags().StringVarP(&output, "output", "o", outputYAML, "output format: yaml or json")
	return cmd
}

// NewCheckCmd creates the check subcommand.
func NewCheckCmd(a *app) *cobra.Command {
	var digest, salt string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a password against a stored digest and salt",
		Long: `Check a password against a digest and salt previously printed by hash.
The --algorithm must match the one used when hashing. Exits with status 1
when the password does not match.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.load(cmd); err != nil {
				return err
			}

			h, err := saltedhash.FromStored(digest, salt, saltedhash.WithAlgorithm(a.cfg.HashAlgorithm()))
			if err != nil {
				return err
			}

			password, err := passwordFrom(cmd, newPrompter(cmd), "Password: ", false)
			if err != nil {
				return err
			}

			if !h.Verify(password) {
				return oops.Code("PASSWORD_MISMATCH").Errorf("password does not match")
			}
			cmd.Println("password matches")
			return nil
		},
	}

	cmd.Flags().StringVar(&digest, "digest", "", "stored digest (base64)")
	cmd.Flags().StringVar(&salt, "salt", "", "stored salt (base64)")
	cmd.Flags().String("password", "", "password to check (visible in process listings; prefer the prompt)")
	_ = cmd.MarkFlagRequired("digest") //nolint:errcheck // flag is defined above
	_ = cmd.MarkFlagRequired("salt")   //nolint:errcheck // flag is defined above
	return cmd
}
