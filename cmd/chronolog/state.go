// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/pflag"

	"github.com/chronolog-foundation/chronolog/cmd/chronolog/cli"
	"github.com/chronolog-foundation/chronolog/lib/state"
)

func stateCommand() *cli.Command {
	var common commonFlags
	var scope scopeFlags
	var atPosition int64
	var atTime float64
	var asJSON bool

	return &cli.Command{
		Name:    "state",
		Summary: "reconstruct derived state, current or at a cutoff",
		Usage:   "chronolog state [flags]",
		Examples: []cli.Example{
			{Description: "current state for the ambient scope",
				Command: "chronolog state"},
			{Description: "state as of a file position (from a prior reconstruction)",
				Command: "chronolog state --at-position 48213 --json"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("state", pflag.ContinueOnError)
			common.register(flagSet)
			scope.register(flagSet)
			flagSet.Int64Var(&atPosition, "at-position", 0, "cutoff: last admitted file position")
			flagSet.Float64Var(&atTime, "at-time", 0, "cutoff: last admitted timestamp (unix seconds)")
			flagSet.BoolVar(&asJSON, "json", false, "print the state as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			log, _, _, err := common.open()
			if err != nil {
				return err
			}

			derived := state.ReconstructAt(log, scope.scope(), state.Cutoff{
				Position:  atPosition,
				Timestamp: atTime,
			})

			if asJSON {
				encoded, err := json.MarshalIndent(derived, "", "  ")
				if err != nil {
					return fmt.Errorf("encoding state: %w", err)
				}
				fmt.Fprintln(os.Stdout, string(encoded))
				return nil
			}

			printState(derived)
			return nil
		},
	}
}

func printState(derived state.State) {
	fmt.Printf("scope:            %s/%s\n", derived.Scope.AgentID, derived.Scope.SessionID)
	fmt.Printf("cycle:            %d\n", derived.CycleNumber)
	fmt.Printf("compactions:      %d\n", derived.CompactionCount)
	fmt.Printf("auto mode:        %t (%s, confidence %.1f)\n",
		derived.AutoMode.Enabled, derived.AutoMode.Source, derived.AutoMode.Confidence)
	fmt.Printf("drives:           %d done, %d failed, avg %.2fs\n",
		derived.DriveStats.Count, derived.DriveStats.Failed, derived.DriveStats.AverageDuration)
	fmt.Printf("subdrives:        %d done, %d failed, avg %.2fs\n",
		derived.SubdriveStats.Count, derived.SubdriveStats.Failed, derived.SubdriveStats.AverageDuration)
	fmt.Printf("cutoff position:  %d (provenance %s)\n", derived.Cutoff.Position, derived.Provenance)

	if len(derived.ActiveInjections) == 0 {
		fmt.Printf("active injections: none\n")
		return
	}
	ids := make([]string, 0, len(derived.ActiveInjections))
	for id := range derived.ActiveInjections {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	fmt.Printf("active injections:\n")
	for _, id := range ids {
		injection := derived.ActiveInjections[id]
		fmt.Printf("  %s -> %s (at %.3f)\n", id, injection.Payload, injection.ActivatedAt)
	}
}
