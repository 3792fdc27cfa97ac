// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ExitError signals a non-zero exit code without printing an extra
// error message: the command has already written its own output. The
// main function checks for this type to distinguish "handled non-zero
// exit" from "unexpected error to display".
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code.
func (e *ExitError) ExitCode() int {
	return e.Code
}

// UsageError marks an error caused by the invocation itself (unknown
// command, bad flag, missing subcommand) rather than by the operation.
// The main function prints it and exits 2, keeping "you typed it
// wrong" distinguishable from "it failed" in scripts.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// ExitCode returns 2, the usage-error exit code.
func (e *UsageError) ExitCode() int {
	return 2
}

func usageErrorf(format string, args ...any) error {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}
