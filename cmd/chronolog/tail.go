// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"

	"github.com/chronolog-foundation/chronolog/cmd/chronolog/cli"
)

func tailCommand() *cli.Command {
	var common commonFlags
	var count int
	var follow bool

	return &cli.Command{
		Name:    "tail",
		Summary: "print the most recent events, optionally following",
		Usage:   "chronolog tail [flags]",
		Examples: []cli.Example{
			{Description: "watch the log live while an agent session runs",
				Command: "chronolog tail -n 20 --follow"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("tail", pflag.ContinueOnError)
			common.register(flagSet)
			flagSet.IntVarP(&count, "lines", "n", 10, "number of recent events to print")
			flagSet.BoolVar(&follow, "follow", false, "keep printing events as they are appended")
			return flagSet
		},
		Run: func(args []string) error {
			log, _, logger, err := common.open()
			if err != nil {
				return err
			}

			for _, event := range log.TailEvents(count) {
				fmt.Fprintln(os.Stdout, formatEvent(event))
			}
			if !follow {
				return nil
			}

			offset := int64(0)
			if info, err := os.Stat(log.Path()); err == nil {
				offset = info.Size()
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("creating watcher: %w", err)
			}
			defer watcher.Close()

			// Watch the parent directory, not the file: the log may not
			// exist yet, and producers create it on first append.
			if err := watcher.Add(filepath.Dir(log.Path())); err != nil {
				return fmt.Errorf("watching %s: %w", filepath.Dir(log.Path()), err)
			}

			for {
				select {
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if event.Name != log.Path() || !event.Has(fsnotify.Write|fsnotify.Create) {
						continue
					}
					offset = printNewLines(log.Path(), offset)
				case watchError, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					logger.Warn("watch error", "error", watchError)
				}
			}
		},
	}
}

// printNewLines prints the whole lines appended since offset and
// returns the new offset. A trailing partial line (a write still in
// flight) stays unprinted until its newline lands.
func printNewLines(path string, offset int64) int64 {
	file, err := os.Open(path)
	if err != nil {
		return offset
	}
	defer file.Close()

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return offset
	}
	data, err := io.ReadAll(file)
	if err != nil || len(data) == 0 {
		return offset
	}

	lastNewline := bytes.LastIndexByte(data, '\n')
	if lastNewline < 0 {
		return offset
	}
	os.Stdout.Write(data[:lastNewline+1])
	return offset + int64(lastNewline) + 1
}
