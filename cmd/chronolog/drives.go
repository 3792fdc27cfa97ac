// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/chronolog-foundation/chronolog/cmd/chronolog/cli"
	"github.com/chronolog-foundation/chronolog/lib/drive"
)

func drivesCommand() *cli.Command {
	var common commonFlags
	var scope scopeFlags
	var delegated bool

	return &cli.Command{
		Name:    "drives",
		Summary: "show work-unit statistics for a scope",
		Usage:   "chronolog drives [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("drives", pflag.ContinueOnError)
			common.register(flagSet)
			scope.register(flagSet)
			flagSet.BoolVar(&delegated, "delegated", false, "show delegated sub-work instead of the agent's own drives")
			return flagSet
		},
		Run: func(args []string) error {
			log, _, logger, err := common.open()
			if err != nil {
				return err
			}

			class := drive.ClassAgent
			label := "drives"
			if delegated {
				class = drive.ClassDelegated
				label = "subdrives"
			}

			tracker := drive.NewTracker(log, class, nil, logger)
			stats := tracker.Stats(scope.scope())

			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(writer, "%s\tcompleted\t%d\n", label, stats.Count)
			fmt.Fprintf(writer, "\tfailed\t%d\n", stats.Failed)
			fmt.Fprintf(writer, "\ttotal\t%.2fs\n", stats.TotalDuration)
			fmt.Fprintf(writer, "\taverage\t%.2fs\n", stats.AverageDuration)
			if stats.LastToken != "" {
				fmt.Fprintf(writer, "\tlast token\t%s\n", stats.LastToken)
			}
			writer.Flush()
			return nil
		},
	}
}
