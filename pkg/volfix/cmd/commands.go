package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/stalexteam/volfix/pkg/volfix"
	"github.com/stalexteam/volfix/pkg/volfix/util"
)

func newSetVolumeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set-volume <device-name-prefix> <app-session-name> <volume>",
		Short: "Set the volume of an application's session on a device",

		// volumes like -0.1 must reach us as arguments so they get a proper range error
		DisableFlagParsing: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			positional, help, err := splitArgs(cmd, args)
			if err != nil {
				return err
			}

			if help {
				printUsage(cmd.OutOrStdout())
				return nil
			}

			deviceName, err := positionalArg(positional, 0, "missing device name")
			if err != nil {
				return err
			}

			sessionName, err := positionalArg(positional, 1, "missing application/session name")
			if err != nil {
				return err
			}

			volumeText, err := positionalArg(positional, 2, "missing volume to set to")
			if err != nil {
				return err
			}

			level, err := volfix.ParseVolume(volumeText)
			if err != nil {
				return err
			}

			req, err := ctx.volumeRequest(deviceName, sessionName)
			if err != nil {
				return err
			}
			req.Level = level

			return ctx.withVolumeFix(func(v *volfix.VolumeFix) error {
				return v.SetSessionVolume(req)
			})
		},
	}
}

func newGetVolumeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "get-volume <device-name-prefix> <app-session-name>",
		Short: "Print the volume of an application's session on a device",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deviceName, err := positionalArg(args, 0, "missing device name")
			if err != nil {
				return err
			}

			sessionName, err := positionalArg(args, 1, "missing application/session name")
			if err != nil {
				return err
			}

			req, err := ctx.volumeRequest(deviceName, sessionName)
			if err != nil {
				return err
			}

			return ctx.withVolumeFix(func(v *volfix.VolumeFix) error {
				level, err := v.GetSessionVolume(req)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Volume: %.2f\n", level)
				return nil
			})
		},
	}
}

func newListDevicesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list-devices",
		Short: "List active audio output devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withVolumeFix(func(v *volfix.VolumeFix) error {
				devices, err := v.Devices()
				if err != nil {
					return err
				}

				rows := make([]table.Row, 0, len(devices))
				for _, device := range devices {
					rows = append(rows, table.Row{device.Index, device.Name})
				}

				fmt.Fprintln(cmd.OutOrStdout(), renderTable(cmd.OutOrStdout(), table.Row{"#", "Device"}, rows, 1))

				return nil
			})
		},
	}
}

func newListSessionsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list-sessions <device-name-prefix>",
		Short: "List the audio sessions on a device",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deviceName, err := positionalArg(args, 0, "missing device name")
			if err != nil {
				return err
			}

			return ctx.withVolumeFix(func(v *volfix.VolumeFix) error {
				sessions, err := v.Sessions(ctx.config.ResolveDevice(deviceName))
				if err != nil {
					return err
				}

				rows := make([]table.Row, 0, len(sessions))
				for _, session := range sessions {
					process, err := util.ProcessName(session.PID)
					if err != nil {
						ctx.logger.Debugw("Failed to find process name", "pid", session.PID, "error", err)
					}

					rows = append(rows, table.Row{
						session.Index,
						session.DisplayName,
						session.PID,
						process,
						fmt.Sprintf("%.2f", session.Volume),
					})
				}

				fmt.Fprintln(cmd.OutOrStdout(), renderTable(cmd.OutOrStdout(),
					table.Row{"#", "Session", "PID", "Process", "Volume"}, rows, 1, 3, 5))

				return nil
			})
		},
	}
}

// volumeRequest resolves aliases and checks the match mode before anything
// touches the audio subsystem
func (c *commandContext) volumeRequest(deviceName string, sessionName string) (volfix.VolumeRequest, error) {
	if _, err := c.ensureConfig(); err != nil {
		return volfix.VolumeRequest{}, err
	}

	req := volfix.VolumeRequest{
		DevicePrefix: c.config.ResolveDevice(deviceName),
		SessionName:  c.config.ResolveSession(sessionName),
		MatchMode:    c.matchMode(),
	}

	if _, err := volfix.MatcherFor(req.MatchMode, req.SessionName); err != nil {
		return volfix.VolumeRequest{}, err
	}

	return req, nil
}

func positionalArg(args []string, index int, missing string) (string, error) {
	if index >= len(args) {
		return "", volfix.NewInputError("%s", missing)
	}

	return args[index], nil
}
