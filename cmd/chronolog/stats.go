// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/chronolog-foundation/chronolog/cmd/chronolog/cli"
)

func statsCommand() *cli.Command {
	var common commonFlags
	var scope scopeFlags
	var allScopes bool

	return &cli.Command{
		Name:    "stats",
		Summary: "aggregate event counts by kind",
		Usage:   "chronolog stats [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("stats", pflag.ContinueOnError)
			common.register(flagSet)
			scope.register(flagSet)
			flagSet.BoolVar(&allScopes, "all", false, "count every scope, not just the ambient one")
			return flagSet
		},
		Run: func(args []string) error {
			log, _, _, err := common.open()
			if err != nil {
				return err
			}

			events, scanStats := log.Scan(0)
			selected := scope.scope()

			counts := make(map[string]int)
			total := 0
			for _, event := range events {
				if !allScopes && !selected.Matches(event) {
					continue
				}
				counts[event.Kind]++
				total++
			}

			kinds := make([]string, 0, len(counts))
			for kind := range counts {
				kinds = append(kinds, kind)
			}
			sort.Strings(kinds)

			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(writer, "KIND\tCOUNT\n")
			for _, kind := range kinds {
				fmt.Fprintf(writer, "%s\t%d\n", kind, counts[kind])
			}
			fmt.Fprintf(writer, "total\t%d\n", total)
			writer.Flush()

			if scanStats.Skipped > 0 {
				fmt.Fprintf(os.Stdout, "\n%d malformed line(s) skipped\n", scanStats.Skipped)
			}
			return nil
		},
	}
}
