// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// prompter reads passwords from a terminal without echo, or line by line
// from piped input.
type prompter struct {
	out    io.Writer
	fd     int
	tty    bool
	reader *bufio.Reader
}

func newPrompter(cmd *cobra.Command) *prompter {
	in := cmd.InOrStdin()
	p := &prompter{out: cmd.ErrOrStderr(), reader: bufio.NewReader(in)}
	if f, ok := in.(*os.File); ok && isTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
		p.tty = true
	}
	return p
}

// Password prints prompt on a terminal and reads one password.
// Trailing CR/LF is dropped from piped input; other whitespace is kept.
func (p *prompter) Password(prompt string) (string, error) {
	if p.tty {
		fmt.Fprint(p.out, prompt)
		pw, err := readPassword(p.fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", oops.Code("PASSWORD_READ_FAILED").Wrap(err)
		}
		return string(pw), nil
	}

	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", oops.Code("PASSWORD_READ_FAILED").Errorf("no password on standard input")
		}
		return "", oops.Code("PASSWORD_READ_FAILED").Wrap(err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// NewPassword reads a password twice on a terminal and requires both to
// match. Piped input is read once.
func (p *prompter) NewPassword(prompt string) (string, error) {
	pw, err := p.Password(prompt)
	if err != nil || !p.tty {
		return pw, err
	}
	again, err := p.Password("Repeat password: ")
	if err != nil {
		return "", err
	}
	if again != pw {
		return "", oops.Code("PASSWORD_MISMATCH").Errorf("passwords do not match")
	}
	return pw, nil
}

// passwordFrom returns the --password flag value when set, otherwise prompts.
func passwordFrom(cmd *cobra.Command, p *prompter, prompt string, confirm bool) (string, error) {
	if f := cmd.Flags().Lookup("password"); f != nil && f.Changed {
		return f.Value.String(), nil
	}
	if confirm {
		return p.NewPassword(prompt)
	}
	return p.Password(prompt)
}
