package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stalexteam/volfix/pkg/volfix"
)

// errUsage means the usage text was already printed in place of an error
var errUsage = errors.New("usage")

const usageText = `volfix - set the volume of one application's audio session

USAGE:
  volfix help | --help
  volfix set-volume <device-name-prefix> <app-session-name> <volume 0.0-1.0>
  volfix get-volume <device-name-prefix> <app-session-name>
  volfix list-devices
  volfix list-sessions <device-name-prefix>

FLAGS:
  -c, --config <path>   configuration file (default: ./volfix.yaml)
  -m, --match <mode>    session name matching: exact, prefix or pattern
  -v, --verbose         write debug logs to stderr
`

func printUsage(w io.Writer) {
	fmt.Fprint(w, usageText)
}

func newRootCommand(ctx *commandContext) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "volfix",
		Short:         "Set the volume of one application's audio session",
		Version:       versionString(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {

			// no command, or one we don't know
			printUsage(cmd.OutOrStdout())
			return errUsage
		},
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetOut(ctx.out)
	rootCmd.SetErr(ctx.out)
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		printUsage(cmd.OutOrStdout())
	})

	rootCmd.PersistentFlags().StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVarP(&ctx.matchFlag, "match", "m", "",
		fmt.Sprintf("Session name matching (%s)", strings.Join(volfix.MatchModes, ", ")))
	rootCmd.PersistentFlags().BoolVarP(&ctx.verboseFlag, "verbose", "v", false, "Write debug logs to stderr")

	rootCmd.AddCommand(newSetVolumeCommand(ctx))
	rootCmd.AddCommand(newGetVolumeCommand(ctx))
	rootCmd.AddCommand(newListDevicesCommand(ctx))
	rootCmd.AddCommand(newListSessionsCommand(ctx))

	return rootCmd
}
