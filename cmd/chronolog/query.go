// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/chronolog-foundation/chronolog/cmd/chronolog/cli"
	"github.com/chronolog-foundation/chronolog/lib/query"
)

func queryCommand() *cli.Command {
	var common commonFlags
	var kinds []string
	var sessionID, agentID string
	var cycle int
	var since, until float64
	var asJSON bool

	return &cli.Command{
		Name:    "query",
		Summary: "print events matching a predicate",
		Usage:   "chronolog query [flags]",
		Examples: []cli.Example{
			{Description: "all boundary events for one session",
				Command: "chronolog query --kind context_boundary --session s-42"},
			{Description: "everything an agent did during cycle 7, as JSONL",
				Command: "chronolog query --agent main --cycle 7 --json"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("query", pflag.ContinueOnError)
			common.register(flagSet)
			flagSet.StringSliceVar(&kinds, "kind", nil, "event kind (repeatable)")
			flagSet.StringVar(&sessionID, "session", "", "session ID filter")
			flagSet.StringVar(&agentID, "agent", "", "agent ID filter")
			flagSet.IntVar(&cycle, "cycle", 0, "breadcrumb cycle number filter")
			flagSet.Float64Var(&since, "since", 0, "minimum timestamp (unix seconds)")
			flagSet.Float64Var(&until, "until", 0, "maximum timestamp (unix seconds)")
			flagSet.BoolVar(&asJSON, "json", false, "print raw JSONL records")
			return flagSet
		},
		Run: func(args []string) error {
			log, _, _, err := common.open()
			if err != nil {
				return err
			}

			matched := query.Events(log, query.Predicate{
				Kinds:        kinds,
				SessionID:    sessionID,
				AgentID:      agentID,
				Cycle:        cycle,
				MinTimestamp: since,
				MaxTimestamp: until,
			})

			for _, event := range matched {
				if asJSON {
					line, err := json.Marshal(event)
					if err != nil {
						return fmt.Errorf("encoding event: %w", err)
					}
					fmt.Fprintln(os.Stdout, string(line))
				} else {
					fmt.Fprintln(os.Stdout, formatEvent(event))
				}
			}
			return nil
		},
	}
}
