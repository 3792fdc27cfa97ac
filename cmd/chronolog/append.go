// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/pflag"

	"github.com/chronolog-foundation/chronolog/cmd/chronolog/cli"
	"github.com/chronolog-foundation/chronolog/lib/eventlog"
)

func appendCommand() *cli.Command {
	var common commonFlags
	var scope scopeFlags
	var kind string
	var dataPairs []string

	return &cli.Command{
		Name:    "append",
		Summary: "record one event by hand",
		Usage:   "chronolog append --kind KIND [--data k=v ...]",
		Examples: []cli.Example{
			{Description: "activate a guidance document for the current session",
				Command: "chronolog append --kind policy_activated --data id=style-guide --data payload=v3"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("append", pflag.ContinueOnError)
			common.register(flagSet)
			scope.register(flagSet)
			flagSet.StringVar(&kind, "kind", "", "event kind (required)")
			flagSet.StringSliceVar(&dataPairs, "data", nil, "data field as key=value (repeatable)")
			return flagSet
		},
		Run: func(args []string) error {
			if kind == "" {
				return &cli.UsageError{Message: "--kind is required"}
			}
			data, err := parseDataPairs(dataPairs)
			if err != nil {
				return &cli.UsageError{Message: err.Error()}
			}

			log, _, _, openErr := common.open()
			if openErr != nil {
				return openErr
			}

			selected := scope.scope()
			if !log.Append(kind, data,
				eventlog.WithAgent(selected.AgentID),
				eventlog.WithSession(selected.SessionID),
			) {
				// The append path already logged the reason.
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}
