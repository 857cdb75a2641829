package main

import (
	"io"
	"reflect"
	"testing"
)

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		help    bool
		verbose bool
		match   string
		wantErr bool
	}{
		{name: "plain", args: []string{"Speakers", "MyApp", "0.5"}, want: []string{"Speakers", "MyApp", "0.5"}},
		{name: "negative number", args: []string{"Speakers", "MyApp", "-0.1"}, want: []string{"Speakers", "MyApp", "-0.1"}},
		{name: "negative integer", args: []string{"Speakers", "MyApp", "-1"}, want: []string{"Speakers", "MyApp", "-1"}},
		{name: "bool flag", args: []string{"-v", "Speakers"}, want: []string{"Speakers"}, verbose: true},
		{name: "value flag", args: []string{"Speakers", "-m", "prefix", "My"}, want: []string{"Speakers", "My"}, match: "prefix"},
		{name: "combined shorthands", args: []string{"-vm", "prefix", "Speakers", "My"}, want: []string{"Speakers", "My"}, verbose: true, match: "prefix"},
		{name: "attached shorthand value", args: []string{"-vmprefix", "Speakers"}, want: []string{"Speakers"}, verbose: true, match: "prefix"},
		{name: "attached value without bool", args: []string{"-mpattern", "Speakers"}, want: []string{"Speakers"}, match: "pattern"},
		{name: "value flag with equals", args: []string{"--match=pattern", "Speakers"}, want: []string{"Speakers"}, match: "pattern"},
		{name: "single dash", args: []string{"-", "MyApp"}, want: []string{"-", "MyApp"}},
		{name: "double dash", args: []string{"--", "-v", "--match"}, want: []string{"-v", "--match"}},
		{name: "help", args: []string{"Speakers", "-h"}, want: []string{"Speakers"}, help: true},
		{name: "unknown flag", args: []string{"--loud"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newCommandContext(io.Discard, dependencies{})
			root := newRootCommand(ctx)

			cmd, _, err := root.Find([]string{"set-volume"})
			if err != nil {
				t.Fatalf("Find: %v", err)
			}

			positional, help, err := splitArgs(cmd, tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("splitArgs: %v", err)
			}

			if !reflect.DeepEqual(positional, tt.want) {
				t.Fatalf("positional = %q, want %q", positional, tt.want)
			}
			if help != tt.help {
				t.Fatalf("help = %v, want %v", help, tt.help)
			}
			if ctx.verboseFlag != tt.verbose {
				t.Fatalf("verbose = %v, want %v", ctx.verboseFlag, tt.verbose)
			}
			if ctx.matchFlag != tt.match {
				t.Fatalf("match = %q, want %q", ctx.matchFlag, tt.match)
			}
		})
	}
}
