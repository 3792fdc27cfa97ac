// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/chronolog-foundation/chronolog/cmd/chronolog/cli"
	"github.com/chronolog-foundation/chronolog/lib/codec"
	"github.com/chronolog-foundation/chronolog/lib/config"
	"github.com/chronolog-foundation/chronolog/lib/eventlog"
	"github.com/chronolog-foundation/chronolog/lib/state"
)

func snapshotCommand() *cli.Command {
	return &cli.Command{
		Name:    "snapshot",
		Summary: "manage the advisory derived-state snapshot",
		Description: "The snapshot is a read-through cache of the derived state,\n" +
			"keyed to a digest of the log prefix it summarizes. It is never\n" +
			"authoritative: a mismatched digest simply sends readers back to\n" +
			"a live scan.",
		Subcommands: []*cli.Command{
			snapshotSaveCommand(),
			snapshotShowCommand(),
		},
	}
}

// snapshotDirectory picks the snapshot directory: flag, then config,
// then the log file's own directory.
func snapshotDirectory(flagValue string, configuration *config.Config, log *eventlog.Log) string {
	if flagValue != "" {
		return flagValue
	}
	if configuration.Paths.Snapshots != "" {
		return configuration.Paths.Snapshots
	}
	return filepath.Dir(log.Path())
}

func snapshotSaveCommand() *cli.Command {
	var common commonFlags
	var scope scopeFlags
	var directory string

	return &cli.Command{
		Name:    "save",
		Summary: "reconstruct current state and write the snapshot",
		Usage:   "chronolog snapshot save [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("save", pflag.ContinueOnError)
			common.register(flagSet)
			scope.register(flagSet)
			flagSet.StringVar(&directory, "dir", "", "snapshot directory (default: config, then the log's directory)")
			return flagSet
		},
		Run: func(args []string) error {
			log, configuration, _, err := common.open()
			if err != nil {
				return err
			}

			selected := scope.scope()
			derived := state.CurrentState(log, selected)
			dir := snapshotDirectory(directory, configuration, log)
			if err := state.SaveSnapshot(dir, log, derived); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "snapshot written: %s\n", state.SnapshotPath(dir, selected))
			return nil
		},
	}
}

func snapshotShowCommand() *cli.Command {
	var common commonFlags
	var scope scopeFlags
	var directory string

	return &cli.Command{
		Name:    "show",
		Summary: "print a snapshot file in CBOR diagnostic notation",
		Usage:   "chronolog snapshot show [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("show", pflag.ContinueOnError)
			common.register(flagSet)
			scope.register(flagSet)
			flagSet.StringVar(&directory, "dir", "", "snapshot directory (default: config, then the log's directory)")
			return flagSet
		},
		Run: func(args []string) error {
			log, configuration, _, err := common.open()
			if err != nil {
				return err
			}

			selected := scope.scope()
			path := state.SnapshotPath(snapshotDirectory(directory, configuration, log), selected)
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading snapshot: %w", err)
			}

			diagnostic, err := codec.Diagnose(data)
			if err != nil {
				return fmt.Errorf("decoding snapshot %s: %w", path, err)
			}
			fmt.Fprintln(os.Stdout, diagnostic)

			if _, valid := state.LoadSnapshot(snapshotDirectory(directory, configuration, log), log, selected); !valid {
				fmt.Fprintln(os.Stdout, "note: digest no longer matches the log; readers will live-scan")
			}
			return nil
		},
	}
}
