package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexisbeaulieu97/pprunner/internal/domain/scenario"
)

func validateRunOptions(opts runOptions) error {
	if err := validateCasesPath(opts.Path); err != nil {
		return err
	}
	if opts.Parallel < 0 {
		return fmt.Errorf("parallel must be zero or positive, got %d", opts.Parallel)
	}
	if _, err := scenario.ParseBackend(opts.Browser); err != nil {
		return err
	}
	if opts.MetricsFile != "" {
		dir := filepath.Dir(opts.MetricsFile)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return fmt.Errorf("metrics file directory %s does not exist", dir)
		}
	}
	return nil
}

func validateCasesPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("cases path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve cases path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("cases path does not exist: %w", err)
	}
	return nil
}

func splitTargets(values []string) []string {
	var out []string
	for _, value := range values {
		for _, name := range strings.Split(value, ",") {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}
