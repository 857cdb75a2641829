package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/stalexteam/volfix/pkg/volfix"
)

var (
	gitCommit  string
	versionTag string
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, dependencies{
		newBackend: volfix.NewPlatformBackend,
		newLogger:  volfix.NewLogger,
	}))
}

// run executes one command line and returns the process exit status.
// Everything the user should see goes to out
func run(args []string, out io.Writer, deps dependencies) int {
	// cobra falls back to os.Args when given nil
	if args == nil {
		args = []string{}
	}

	cmd := newRootCommand(newCommandContext(out, deps))
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err != nil && !errors.Is(err, errUsage) {
		fmt.Fprintf(out, "Error: %s\n", err)
	}

	return volfix.ExitCode(err)
}

func versionString() string {
	if versionTag == "" {
		return "volfix (development build)"
	}

	if gitCommit == "" {
		return fmt.Sprintf("volfix %s", versionTag)
	}

	return fmt.Sprintf("volfix %s (%s)", versionTag, gitCommit)
}
