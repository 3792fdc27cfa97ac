// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

// chronolog is the command surface over the agent event log: thin
// wrappers that apply predicates, aggregate counts, reconstruct
// derived state, and follow the log, without ever mutating it except
// through the same append path every producer uses.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/chronolog-foundation/chronolog/cmd/chronolog/cli"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own output return an ExitError
		// with the desired code; don't add a redundant "error:" line
		// for those.
		var exitError *cli.ExitError
		if errors.As(err, &exitError) {
			os.Exit(exitError.ExitCode())
		}

		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var usageError *cli.UsageError
		if errors.As(err, &usageError) {
			os.Exit(usageError.ExitCode())
		}
		os.Exit(1)
	}
}

func run() error {
	return rootCommand().Execute(os.Args[1:])
}
