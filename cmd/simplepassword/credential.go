// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

package main

import (
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/simplepassword/simplepassword/internal/credential"
)

// NewEnrollCmd creates the enroll subcommand.
func NewEnrollCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enroll NAME",
		Short: "Store a new credential",
		Long: `Hash a password with a fresh salt and store it under NAME. Names are
case-insensitive and must be unique.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(svc *credential.Service) error {
				password, err := passwordFrom(cmd, newPrompter(cmd), "New password: ", true)
				if err != nil {
					return err
				}
				cred, err := svc.Enroll(cmd.Context(), args[0], password)
				if err != nil {
					return err
				}
				cmd.Printf("enrolled %s (%s)\n", cred.Name, cred.ID)
				return nil
			})
		},
	}
	cmd.Flags().String("password", "", "password to enroll (visible in process listings; prefer the prompt)")
	return cmd
}

// NewVerifyCmd creates the verify subcommand.
func NewVerifyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify NAME",
		Short: "Check a password against a stored credential",
		Long: `Check a password against the credential stored under NAME. Exits with
status 1 when the password is wrong, the name is unknown or the credential
is locked after repeated failures.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(svc *credential.Service) error {
				password, err := passwordFrom(cmd, newPrompter(cmd), "Password: ", false)
				if err != nil {
					return err
				}
				if err := svc.Verify(cmd.Context(), args[0], password); err != nil {
					return err
				}
				cmd.Println("password matches")
				return nil
			})
		},
	}
	cmd.Flags().String("password", "", "password to check (visible in process listings; prefer the prompt)")
	return cmd
}

// NewPasswdCmd creates the passwd subcommand.
func NewPasswdCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "passwd NAME",
		Short: "Change the password of a stored credential",
		Long: `Replace the password stored under NAME after checking the current one.
The new password gets a fresh salt and the configured algorithm. With piped
input the first line is the current password and the second the new one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(svc *credential.Service) error {
				p := newPrompter(cmd)
				current, err := p.Password("Current password: ")
				if err != nil {
					return err
				}
				next, err := p.NewPassword("New password: ")
				if err != nil {
					return err
				}
				if err := svc.ChangePassword(cmd.Context(), args[0], current, next); err != nil {
					return err
				}
				cmd.Println("password changed")
				return nil
			})
		},
	}
}

// NewRemoveCmd creates the remove subcommand.
func NewRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove NAME",
		Aliases: []string{"rm"},
		Short:   "Delete a stored credential",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(svc *credential.Service) error {
				if err := svc.Remove(cmd.Context(), args[0]); err != nil {
					return err
				}
				cmd.Printf("removed %s\n", args[0])
				return nil
			})
		},
	}
}

// credentialSummary is the listed form of a credential. Digest and salt are
// left out.
type credentialSummary struct {
	Name           string     `yaml:"name" json:"name"`
	ID             string     `yaml:"id" json:"id"`
	Algorithm      string     `yaml:"algorithm" json:"algorithm"`
	FailedAttempts int        `yaml:"failed_attempts" json:"failed_attempts"`
	LockedUntil    *time.Time `yaml:"locked_until,omitempty" json:"locked_until,omitempty"`
	CreatedAt      time.Time  `yaml:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `yaml:"updated_at" json:"updated_at"`
}

func summarize(c *credential.Credential, _ int) credentialSummary {
	return credentialSummary{
		Name:           c.Name,
		ID:             c.ID.String(),
		Algorithm:      c.Algorithm.String(),
		FailedAttempts: c.FailedAttempts,
		LockedUntil:    c.LockedUntil,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// NewListCmd creates the list subcommand.
func NewListCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "list [PATTERN]",
		Aliases: []string{"ls"},
		Short:   "List stored credentials",
		Long: `List stored credentials, optionally only those whose name matches the
case-insensitive glob PATTERN (for example 'adm*' or '*@example.org').`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			pattern := ""
			if len(args) == 1 {
				pattern = args[0]
			}
			return a.withService(cmd, func(svc *credential.Service) error {
				creds, err := svc.List(cmd.Context(), pattern)
				if err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), output, lo.Map(creds, summarize))
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputYAML, "output format: yaml or json")
	return cmd
}
