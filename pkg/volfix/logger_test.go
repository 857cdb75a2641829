package volfix

import (
	"os"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		verbose bool
		debug   bool
	}{
		{verbose: false, debug: false},
		{verbose: true, debug: true},
	}

	for _, tt := range tests {
		logger, err := NewLogger(tt.verbose)
		if err != nil {
			t.Fatalf("NewLogger(%v): %v", tt.verbose, err)
		}

		core := logger.Desugar().Core()
		if got := core.Enabled(zapcore.DebugLevel); got != tt.debug {
			t.Errorf("NewLogger(%v) debug enabled = %v, want %v", tt.verbose, got, tt.debug)
		}
		if !core.Enabled(zapcore.WarnLevel) {
			t.Errorf("NewLogger(%v) must always log warnings", tt.verbose)
		}
	}
}

func TestColorTerminalRejectsPipes(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()

	if colorTerminal(w.Fd()) {
		t.Fatal("a pipe must not get colored levels")
	}
}
