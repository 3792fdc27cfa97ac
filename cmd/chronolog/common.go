// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/spf13/pflag"

	"github.com/chronolog-foundation/chronolog/cmd/chronolog/cli"
	"github.com/chronolog-foundation/chronolog/lib/config"
	"github.com/chronolog-foundation/chronolog/lib/eventlog"
)

// commonFlags are shared by every leaf command: where the log lives,
// where the config lives, and how chatty diagnostics are.
type commonFlags struct {
	logPath    string
	configPath string
	logLevel   string
}

func (flags *commonFlags) register(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&flags.logPath, "log", "", "event log file (default: CHRONOLOG_LOG_PATH or the state directory)")
	flagSet.StringVar(&flags.configPath, "config", "", "config file (default: CHRONOLOG_CONFIG)")
	flagSet.StringVar(&flags.logLevel, "log-level", "info", "diagnostic level: debug, info, warn, error")
}

// open loads configuration and opens the event log handle. The log
// path precedence is flag > environment > config file > default.
func (flags *commonFlags) open() (*eventlog.Log, *config.Config, *slog.Logger, error) {
	configuration, err := config.Load(flags.configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	logger := cli.NewCommandLogger(cli.ParseLevel(flags.logLevel))

	// Precedence: flag, then CHRONOLOG_LOG_PATH, then config file,
	// then the default state directory. ResolvePath handles the env
	// and default tiers.
	path := flags.logPath
	if path == "" && os.Getenv(eventlog.EnvLogPath) == "" {
		path = configuration.Paths.Log
	}

	log := eventlog.Open(
		eventlog.WithPath(path),
		eventlog.WithLogger(logger),
		eventlog.WithIdentity(configuration.Identity.AgentID, configuration.Identity.SessionID),
	)
	return log, configuration, logger, nil
}

// scopeFlags select the (agent_id, session_id) pair for derived
// queries, defaulting to the ambient environment identity.
type scopeFlags struct {
	agentID   string
	sessionID string
}

func (flags *scopeFlags) register(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&flags.agentID, "agent", "", "agent ID (default: CHRONOLOG_AGENT_ID)")
	flagSet.StringVar(&flags.sessionID, "session", "", "session ID (default: CHRONOLOG_SESSION_ID)")
}

func (flags *scopeFlags) scope() eventlog.Scope {
	scope := eventlog.AmbientScope()
	if flags.agentID != "" {
		scope.AgentID = flags.agentID
	}
	if flags.sessionID != "" {
		scope.SessionID = flags.sessionID
	}
	return scope
}

// parseDataPairs turns repeated key=value flags into an event data
// map. Values are kept as strings; producers needing structure append
// through the library, not the CLI.
func parseDataPairs(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	data := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("bad --data %q: want key=value", pair)
		}
		data[key] = value
	}
	return data, nil
}

// formatEvent renders one event as a single text line for human
// consumption. The --json paths print the record itself instead.
func formatEvent(event eventlog.Event) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "%.3f %-22s %s/%s", event.Timestamp, event.Kind, event.AgentID, event.SessionID)
	if len(event.Data) > 0 {
		keys := make([]string, 0, len(event.Data))
		for key := range event.Data {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(&builder, " %s=%v", key, event.Data[key])
		}
	}
	return builder.String()
}
