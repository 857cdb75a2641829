package util

import (
	"fmt"
	"os"
	"runtime"

	ps "github.com/mitchellh/go-ps"
)

// FileExists checks if a file exists and is not a directory before we
// try using it to prevent further errors.
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// Windows returns true if we're running on Windows
func Windows() bool {
	return runtime.GOOS == "windows"
}

// ProcessName returns the executable name of the process with the given ID.
// pid 0 is the system sounds session on Windows
func ProcessName(pid uint32) (string, error) {
	if pid == 0 {
		return "", nil
	}

	process, err := ps.FindProcess(int(pid))
	if err != nil {
		return "", fmt.Errorf("find process name by pid: %w", err)
	}

	// the process may have exited since the session was enumerated
	if process == nil {
		return "", nil
	}

	return process.Executable(), nil
}
