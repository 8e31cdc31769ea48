package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/pprunner/internal/dispatch"
	configinfra "github.com/alexisbeaulieu97/pprunner/internal/infrastructure/config"
)

type validateOptions struct {
	Paths    []string
	LogLevel string
}

func newValidateCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [path...]",
		Short: "Check scenario files without launching a browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := validateOptions{Paths: args, LogLevel: root.level()}
			if len(opts.Paths) == 0 {
				opts.Paths = []string{"./cases"}
			}
			for _, path := range opts.Paths {
				if err := validateCasesPath(path); err != nil {
					return err
				}
			}
			return runValidate(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	return cmd
}

func runValidate(ctx context.Context, opts validateOptions, out, errOut io.Writer) error {
	log, err := newLogger(errOut, opts.LogLevel)
	if err != nil {
		return err
	}
	loader := configinfra.NewYAMLLoader(log)

	var files []string
	for _, path := range opts.Paths {
		found, err := dispatch.Discover(path)
		if err != nil {
			return err
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return fmt.Errorf("no scenario files found")
	}

	invalid := 0
	for _, file := range files {
		if err := loader.Validate(ctx, file); err != nil {
			invalid++
			fmt.Fprintf(out, "✗ %s\n  %v\n", file, err)
			continue
		}
		fmt.Fprintf(out, "✓ %s\n", file)
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d scenario files are invalid", invalid, len(files))
	}
	fmt.Fprintf(out, "%d scenario files are valid\n", len(files))
	return nil
}
