package volfix

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// isolateConfig points the user config directory at an empty temp dir and
// clears any VOLFIX_* overrides from the environment
func isolateConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("AppData", dir)
	t.Setenv("HOME", dir)

	for _, key := range []string{"VOLFIX_VERBOSE", "VOLFIX_SESSION_MATCH", "VOLFIX_NOTIFY"} {
		t.Setenv(key, "")
	}

	return dir
}

func writeConfig(t *testing.T, path string, contents string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func loadConfig(t *testing.T, configFile string) (*CanonicalConfig, error) {
	t.Helper()

	cc, err := NewConfig(zap.NewNop().Sugar(), configFile)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}

	return cc, cc.Load()
}

func TestConfigDefaults(t *testing.T) {
	isolateConfig(t)

	cc, err := loadConfig(t, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cc.Verbose || cc.Notify {
		t.Fatalf("expected verbose and notify off, got %+v", cc)
	}
	if cc.SessionMatch != MatchExact {
		t.Fatalf("SessionMatch = %q, want %q", cc.SessionMatch, MatchExact)
	}
	if got := cc.ResolveDevice("Speakers"); got != "Speakers" {
		t.Fatalf("ResolveDevice without aliases = %q", got)
	}
}

func TestConfigFromUserConfigDir(t *testing.T) {
	dir := isolateConfig(t)

	userDir, err := os.UserConfigDir()
	if err != nil {
		t.Skipf("no user config dir on this platform: %v", err)
	}
	if !strings.HasPrefix(userDir, dir) {
		t.Skipf("user config dir %q ignores the test environment", userDir)
	}

	writeConfig(t, filepath.Join(userDir, "volfix", "volfix.yaml"), `
verbose: true
session_match: prefix
device_aliases:
  Spk: "Speakers (Realtek High Definition Audio)"
session_aliases:
  music: Spotify
`)

	cc, err := loadConfig(t, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !cc.Verbose {
		t.Fatal("expected verbose from config file")
	}
	if cc.SessionMatch != MatchPrefix {
		t.Fatalf("SessionMatch = %q, want %q", cc.SessionMatch, MatchPrefix)
	}

	tests := []struct {
		resolve func(string) string
		arg     string
		want    string
	}{
		{resolve: cc.ResolveDevice, arg: "spk", want: "Speakers (Realtek High Definition Audio)"},
		{resolve: cc.ResolveDevice, arg: "SPK", want: "Speakers (Realtek High Definition Audio)"},
		{resolve: cc.ResolveDevice, arg: "Headphones", want: "Headphones"},
		{resolve: cc.ResolveSession, arg: "music", want: "Spotify"},
		{resolve: cc.ResolveSession, arg: "spk", want: "spk"},
	}

	for _, tt := range tests {
		if got := tt.resolve(tt.arg); got != tt.want {
			t.Errorf("resolve(%q) = %q, want %q", tt.arg, got, tt.want)
		}
	}
}

func TestConfigExplicitFile(t *testing.T) {
	dir := isolateConfig(t)
	path := filepath.Join(dir, "custom.yaml")

	writeConfig(t, path, `
notify: true
session_aliases:
  game: "Counter-Strike 2"
`)

	cc, err := loadConfig(t, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !cc.Notify {
		t.Fatal("expected notify from config file")
	}
	if got := cc.ResolveSession("Game"); got != "Counter-Strike 2" {
		t.Fatalf("ResolveSession = %q", got)
	}
}

func TestConfigMissingExplicitFile(t *testing.T) {
	dir := isolateConfig(t)

	_, err := loadConfig(t, filepath.Join(dir, "nope.yaml"))

	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected an InputError, got %v", err)
	}
}

func TestConfigEnvironmentOverrides(t *testing.T) {
	isolateConfig(t)
	t.Setenv("VOLFIX_SESSION_MATCH", "Pattern")
	t.Setenv("VOLFIX_VERBOSE", "true")

	cc, err := loadConfig(t, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cc.SessionMatch != MatchPattern {
		t.Fatalf("SessionMatch = %q, want %q", cc.SessionMatch, MatchPattern)
	}
	if !cc.Verbose {
		t.Fatal("expected verbose from environment")
	}
}

func TestConfigRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name      string
		contents  string
		wantInput bool
	}{
		{name: "unknown match mode", contents: "session_match: fuzzy\n", wantInput: true},
		{name: "malformed yaml", contents: "session_match: [exact\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolateConfig(t)
			path := filepath.Join(dir, "volfix.yaml")
			writeConfig(t, path, tt.contents)

			_, err := loadConfig(t, path)
			if err == nil {
				t.Fatal("expected Load to fail")
			}

			var inputErr *InputError
			if got := errors.As(err, &inputErr); got != tt.wantInput {
				t.Fatalf("InputError = %v, want %v (err: %v)", got, tt.wantInput, err)
			}
			if code := ExitCode(err); code != ExitFailure {
				t.Fatalf("exit code = %d, want %d", code, ExitFailure)
			}
		})
	}
}
