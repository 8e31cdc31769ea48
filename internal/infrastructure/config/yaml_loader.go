// Package config adapts the scenario document decoder to the ScenarioLoader
// port.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	cfgpkg "github.com/alexisbeaulieu97/pprunner/internal/config"
	"github.com/alexisbeaulieu97/pprunner/internal/domain/scenario"
	"github.com/alexisbeaulieu97/pprunner/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/pprunner/internal/ports"
	apperrors "github.com/alexisbeaulieu97/pprunner/pkg/errors"
)

// YAMLLoader implements the ScenarioLoader port by reading YAML files from
// disk.
type YAMLLoader struct {
	logger     ports.Logger
	data       map[string]interface{}
	extensions map[scenario.Kind]struct{}
}

// LoaderOption configures a YAMLLoader.
type LoaderOption func(*YAMLLoader)

// WithEnviron sets the variables placeholders are rendered against. The
// process environment is used otherwise.
func WithEnviron(environ []string) LoaderOption {
	return func(l *YAMLLoader) {
		l.data = cfgpkg.TemplateData(environ)
	}
}

// WithExtensions accepts the given extension kinds as step types.
func WithExtensions(kinds map[scenario.Kind]struct{}) LoaderOption {
	return func(l *YAMLLoader) {
		l.extensions = kinds
	}
}

// NewYAMLLoader creates a loader.
func NewYAMLLoader(logger ports.Logger, opts ...LoaderOption) *YAMLLoader {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	l := &YAMLLoader{logger: logger}
	for _, opt := range opts {
		opt(l)
	}
	if l.data == nil {
		l.data = cfgpkg.TemplateData(os.Environ())
	}
	return l
}

// Load renders, decodes and validates the scenario at path.
func (l *YAMLLoader) Load(ctx context.Context, path string) (*scenario.Scenario, error) {
	doc, err := l.Inspect(ctx, path)
	if err != nil {
		return nil, err
	}
	return l.Scenario(ctx, path, doc)
}

// Inspect renders and decodes path without validating it. Callers use it to
// apply skip rules before validation.
func (l *YAMLLoader) Inspect(ctx context.Context, path string) (*cfgpkg.Document, error) {
	if err := contextCheck(ctx); err != nil {
		return nil, err
	}
	l.logDebug(ctx, "loading scenario", map[string]interface{}{"path": path})

	doc, err := cfgpkg.ParseFile(path, l.data)
	if err != nil {
		l.logError(ctx, "failed to parse scenario", err, map[string]interface{}{"path": path})
		return nil, err
	}
	return doc, nil
}

// Scenario validates a decoded document and maps it to the domain model.
func (l *YAMLLoader) Scenario(ctx context.Context, path string, doc *cfgpkg.Document) (*scenario.Scenario, error) {
	sc, err := cfgpkg.ToScenario(doc, l.extensions)
	if err != nil {
		err = attachPath(err, path)
		l.logError(ctx, "scenario failed validation", err, map[string]interface{}{"path": path})
		return nil, err
	}
	l.logDebug(ctx, "scenario loaded", map[string]interface{}{
		"path":       path,
		"scenario":   sc.Name,
		"steps":      len(sc.Steps),
		"iterations": sc.IterationCount,
	})
	return sc, nil
}

// Validate runs every check Load runs plus JSON Schema validation of the
// rendered document.
func (l *YAMLLoader) Validate(ctx context.Context, path string) error {
	if err := contextCheck(ctx); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return apperrors.NewParseError(path, 0, err)
	}
	if info.IsDir() {
		return apperrors.NewParseError(path, 0, fmt.Errorf("scenario path is a directory"))
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
	default:
		return apperrors.NewParseError(path, 0, fmt.Errorf("unsupported scenario file extension %q", ext))
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return apperrors.NewParseError(path, 0, err)
	}
	rendered, err := cfgpkg.Render(string(source), l.data)
	if err != nil {
		return apperrors.NewParseError(path, 0, err)
	}
	if err := cfgpkg.ValidateSchema(path, []byte(rendered)); err != nil {
		l.logError(ctx, "scenario failed schema validation", err, map[string]interface{}{"path": path})
		return err
	}
	doc, err := cfgpkg.Decode(path, []byte(rendered))
	if err != nil {
		return err
	}
	_, err = l.Scenario(ctx, path, doc)
	return err
}

var _ ports.ScenarioLoader = (*YAMLLoader)(nil)

func attachPath(err error, path string) error {
	if verr, ok := err.(*apperrors.ValidationError); ok {
		return verr.WithPath(path)
	}
	return err
}

func contextCheck(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("load cancelled: %w", err)
	}
	return nil
}

func (l *YAMLLoader) logDebug(ctx context.Context, msg string, fields map[string]interface{}) {
	l.logger.Debug(ctx, msg, flattenFields(fields)...)
}

func (l *YAMLLoader) logError(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	payload := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		payload[k] = v
	}
	payload["error"] = err
	l.logger.Error(ctx, msg, flattenFields(payload)...)
}

func flattenFields(fields map[string]interface{}) []interface{} {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]interface{}, 0, len(fields)*2)
	for _, k := range keys {
		args = append(args, k, fields[k])
	}
	return args
}
