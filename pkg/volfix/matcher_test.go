package volfix_test

import (
	"errors"
	"testing"

	"github.com/stalexteam/volfix/pkg/volfix"
)

func TestMatcherFor(t *testing.T) {
	tests := []struct {
		mode  string
		name  string
		match []string
		miss  []string
	}{
		{mode: "", name: "MyApp", match: []string{"MyApp"}, miss: []string{"myapp", "MyApp2", "My", ""}},
		{mode: volfix.MatchExact, name: "MyApp", match: []string{"MyApp"}, miss: []string{"MyApp "}},
		{mode: volfix.MatchExact, name: "", match: []string{""}, miss: []string{"MyApp"}},
		{mode: volfix.MatchPrefix, name: "My", match: []string{"My", "MyApp", "MyOtherApp"}, miss: []string{"my", "App"}},
		{mode: volfix.MatchPattern, name: `(?i)^spotify`, match: []string{"Spotify", "spotify.exe"}, miss: []string{"Not Spotify"}},
	}

	for _, tt := range tests {
		t.Run(tt.mode+"/"+tt.name, func(t *testing.T) {
			match, err := volfix.MatcherFor(tt.mode, tt.name)
			if err != nil {
				t.Fatalf("MatcherFor: %v", err)
			}

			for _, candidate := range tt.match {
				if !match(candidate) {
					t.Errorf("%q should match", candidate)
				}
			}
			for _, candidate := range tt.miss {
				if match(candidate) {
					t.Errorf("%q should not match", candidate)
				}
			}
		})
	}
}

func TestMatcherForRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		mode string
		arg  string
	}{
		{name: "unknown mode", mode: "fuzzy", arg: "MyApp"},
		{name: "mode is case sensitive", mode: "Exact", arg: "MyApp"},
		{name: "broken pattern", mode: volfix.MatchPattern, arg: "MyApp("},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := volfix.MatcherFor(tt.mode, tt.arg)

			var inputErr *volfix.InputError
			if !errors.As(err, &inputErr) {
				t.Fatalf("expected an InputError, got %v", err)
			}
			if code := volfix.ExitCode(err); code != volfix.ExitFailure {
				t.Fatalf("exit code = %d, want %d", code, volfix.ExitFailure)
			}
		})
	}
}
