// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

package main

import "github.com/chronolog-foundation/chronolog/cmd/chronolog/cli"

func rootCommand() *cli.Command {
	return &cli.Command{
		Name:    "chronolog",
		Summary: "query and derive state from the agent event log",
		Description: "chronolog reads and writes the append-only agent event log.\n" +
			"All derived views (active injections, cycle number, compaction\n" +
			"count, drive statistics) are recomputed from the log by replay;\n" +
			"nothing here is a second source of truth.",
		Subcommands: []*cli.Command{
			queryCommand(),
			statsCommand(),
			stateCommand(),
			drivesCommand(),
			tailCommand(),
			appendCommand(),
			snapshotCommand(),
		},
	}
}
