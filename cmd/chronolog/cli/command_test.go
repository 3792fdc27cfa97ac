// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestExecuteDispatchesSubcommand(t *testing.T) {
	t.Parallel()

	ran := ""
	root := &Command{
		Name: "chronolog",
		Subcommands: []*Command{
			{Name: "query", Run: func(args []string) error { ran = "query"; return nil }},
			{Name: "stats", Run: func(args []string) error { ran = "stats"; return nil }},
		},
	}
	if err := root.Execute([]string{"stats"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if ran != "stats" {
		t.Errorf("ran %q, want stats", ran)
	}
}

func TestExecutePassesRemainingArgs(t *testing.T) {
	t.Parallel()

	var got []string
	var kind string
	root := &Command{
		Name: "chronolog",
		Subcommands: []*Command{{
			Name: "append",
			Flags: func() *pflag.FlagSet {
				flagSet := pflag.NewFlagSet("append", pflag.ContinueOnError)
				flagSet.StringVar(&kind, "kind", "", "")
				return flagSet
			},
			Run: func(args []string) error { got = args; return nil },
		}},
	}
	if err := root.Execute([]string{"append", "--kind", "user_prompt", "extra", "args"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if kind != "user_prompt" {
		t.Errorf("kind = %q, want user_prompt", kind)
	}
	if len(got) != 2 || got[0] != "extra" || got[1] != "args" {
		t.Errorf("positional args = %v, want [extra args]", got)
	}
}

func TestExecuteUnknownCommandSuggests(t *testing.T) {
	t.Parallel()

	root := &Command{
		Name: "chronolog",
		Subcommands: []*Command{
			{Name: "snapshot", Run: func([]string) error { return nil }},
		},
	}
	err := root.Execute([]string{"snapsot"})
	if err == nil {
		t.Fatal("Execute accepted an unknown command")
	}
	var usage *UsageError
	if !errors.As(err, &usage) {
		t.Fatalf("error %T, want *UsageError", err)
	}
	if !strings.Contains(err.Error(), `"snapshot"`) {
		t.Errorf("error %q does not suggest snapshot", err)
	}
}

func TestExecuteUnknownFlagSuggests(t *testing.T) {
	t.Parallel()

	root := &Command{
		Name: "query",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("query", pflag.ContinueOnError)
			flagSet.String("session", "", "")
			return flagSet
		},
		Run: func([]string) error { return nil },
	}
	err := root.Execute([]string{"--sesion", "s-1"})
	if err == nil {
		t.Fatal("Execute accepted an unknown flag")
	}
	if !strings.Contains(err.Error(), "--session") {
		t.Errorf("error %q does not suggest --session", err)
	}
}

func TestExecuteSubcommandRequired(t *testing.T) {
	t.Parallel()

	root := &Command{
		Name:        "chronolog",
		Subcommands: []*Command{{Name: "query", Run: func([]string) error { return nil }}},
	}
	err := root.Execute(nil)
	var usage *UsageError
	if !errors.As(err, &usage) {
		t.Fatalf("Execute with no args returned %T (%v), want *UsageError", err, err)
	}
}

func TestPrintHelpListsSubcommandsAndExamples(t *testing.T) {
	t.Parallel()

	root := &Command{
		Name:        "chronolog",
		Description: "Event log toolkit.",
		Subcommands: []*Command{
			{Name: "query", Summary: "Filter events"},
			{Name: "tail", Summary: "Show recent events"},
		},
		Examples: []Example{
			{Description: "last ten events", Command: "chronolog tail -n 10"},
		},
	}

	var help strings.Builder
	root.PrintHelp(&help)
	output := help.String()
	for _, want := range []string{"Event log toolkit.", "query", "Filter events", "tail", "chronolog tail -n 10"} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q:\n%s", want, output)
		}
	}
}

func TestFullNameWalksParents(t *testing.T) {
	t.Parallel()

	executed := false
	save := &Command{Name: "save", Run: func([]string) error { executed = true; return nil }}
	snapshot := &Command{Name: "snapshot", Subcommands: []*Command{save}}
	root := &Command{Name: "chronolog", Subcommands: []*Command{snapshot}}

	if err := root.Execute([]string{"snapshot", "save"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !executed {
		t.Fatal("nested subcommand did not run")
	}
	if got := save.fullName(); got != "chronolog snapshot save" {
		t.Errorf("fullName = %q, want chronolog snapshot save", got)
	}
}

func TestSuggestCommand(t *testing.T) {
	t.Parallel()

	commands := []*Command{{Name: "query"}, {Name: "stats"}, {Name: "drives"}}
	if got := suggestCommand("qeury", commands); got != "query" {
		t.Errorf("suggestCommand(qeury) = %q, want query", got)
	}
	if got := suggestCommand("zzzzzzzzzz", commands); got != "" {
		t.Errorf("suggestCommand(zzzzzzzzzz) = %q, want no suggestion", got)
	}
}

func TestLevenshtein(t *testing.T) {
	t.Parallel()

	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"query", "query", 0},
		{"query", "qeury", 2},
		{"stat", "stats", 1},
		{"", "tail", 4},
		{"kitten", "sitting", 3},
	}
	for _, test := range cases {
		if got := levenshtein(test.a, test.b); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
	}
}
