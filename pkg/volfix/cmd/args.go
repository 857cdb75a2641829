package main

import (
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// splitArgs parses cmd's inherited flags out of args and returns the
// positional arguments in order. Unlike pflag it never mistakes a negative
// number such as -0.1 for a cluster of shorthand flags
func splitArgs(cmd *cobra.Command, args []string) (positional []string, help bool, err error) {
	fs := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.AddFlagSet(cmd.InheritedFlags())
	helpFlag := fs.BoolP("help", "h", false, "help for "+cmd.Name())

	var flagArgs []string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == "--":
			positional = append(positional, args[i+1:]...)
			i = len(args)

		case arg == "-" || !strings.HasPrefix(arg, "-") || isNumber(arg):
			positional = append(positional, arg)

		default:
			flagArgs = append(flagArgs, arg)

			if takesValue(fs, arg) && i+1 < len(args) {
				i++
				flagArgs = append(flagArgs, args[i])
			}
		}
	}

	if err := fs.Parse(flagArgs); err != nil {
		return nil, false, err
	}

	return positional, *helpFlag, nil
}

func isNumber(arg string) bool {
	_, err := strconv.ParseFloat(arg, 64)
	return err == nil
}

// takesValue reports whether arg is a flag whose value is the next argument.
// In a shorthand cluster like -vm only the last flag can take the next
// argument; a value flag earlier in the cluster swallows the rest (-mprefix)
func takesValue(fs *pflag.FlagSet, arg string) bool {
	if strings.Contains(arg, "=") {
		return false
	}

	if strings.HasPrefix(arg, "--") {
		flag := fs.Lookup(strings.TrimPrefix(arg, "--"))
		return flag != nil && flag.NoOptDefVal == ""
	}

	shorthands := strings.TrimPrefix(arg, "-")
	for i := 0; i < len(shorthands); i++ {
		flag := fs.ShorthandLookup(shorthands[i : i+1])
		if flag == nil {
			return false
		}

		if flag.NoOptDefVal == "" {
			return i == len(shorthands)-1
		}
	}

	return false
}
