package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/bjaus/csvify"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(mapErrorToExitCode(err))
	}
}

func newRootCommand() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "csvify [input]",
		Short: "Convert JSON or YAML records to CSV",
		Long: `csvify converts a JSON or YAML document holding an object or a list of
objects into delimited text.

The input is a local path or a URL; "-" or no argument reads stdin.
Options come from --config (YAML) and are overridden by flags.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := "-"
			if len(args) == 1 {
				input = args[0]
			}
			return run(cmd, f, input)
		},
	}
	f.register(cmd)
	return cmd
}

// mapErrorToExitCode maps conversion errors to exit codes.
func mapErrorToExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, csvify.ErrInvalidOption):
		return 2
	case errors.Is(err, csvify.ErrInvalidInput),
		errors.Is(err, csvify.ErrRowLimitExceeded),
		errors.Is(err, csvify.ErrNoHeaders):
		return 3
	default:
		return 1
	}
}
