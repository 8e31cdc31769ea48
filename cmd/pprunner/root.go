package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/pprunner/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/pprunner/internal/ports"
)

type rootFlags struct {
	verbose  bool
	logLevel string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "pprunner",
		Short:         "pprunner drives browsers through declarative YAML scenarios",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newRunCmd(flags))
	cmd.AddCommand(newValidateCmd(flags))
	cmd.AddCommand(newSchemaCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func (f *rootFlags) level() string {
	if f.verbose {
		return "debug"
	}
	return f.logLevel
}

func newLogger(w io.Writer, level string) (ports.Logger, error) {
	return logging.New(logging.Options{Writer: w, Level: level, HumanReadable: true, Component: "cli"})
}
