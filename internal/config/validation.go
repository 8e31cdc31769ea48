package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alexisbeaulieu97/pprunner/internal/domain/scenario"
	apperrors "github.com/alexisbeaulieu97/pprunner/pkg/errors"
)

// ToScenario validates doc and maps it to the domain model. Kinds listed in
// extensions are accepted as step types.
func ToScenario(doc *Document, extensions map[scenario.Kind]struct{}) (*scenario.Scenario, error) {
	if doc == nil {
		return nil, apperrors.NewValidationError("", "document is empty", nil)
	}
	if err := validatorInstance().Struct(doc); err != nil {
		return nil, convertValidationError(err)
	}

	sc := &scenario.Scenario{
		Name:           doc.Name,
		Skip:           doc.Skip,
		OnlyBrowser:    normalizeBackends(doc.OnlyBrowser),
		MainURL:        doc.URL,
		IterationCount: doc.Iteration,
		Steps:          mapSteps(doc.Steps),
	}
	if doc.Precondition != nil {
		sc.Precondition = &scenario.Precondition{
			URL:   doc.Precondition.URL,
			Steps: mapSteps(doc.Precondition.Steps),
		}
		if err := validateActions("precondition.steps", sc.Precondition.Steps, extensions); err != nil {
			return nil, err
		}
	}
	if err := validateActions("steps", sc.Steps, extensions); err != nil {
		return nil, err
	}
	if err := sc.Validate(extensions); err != nil {
		return nil, convertDomainError("", err)
	}
	return sc, nil
}

func validateActions(prefix string, actions []scenario.Action, extensions map[scenario.Kind]struct{}) error {
	for i, action := range actions {
		if err := action.Validate(extensions); err != nil {
			return convertDomainError(fmt.Sprintf("%s[%d].action", prefix, i), err)
		}
	}
	return nil
}

// convertValidationError normalizes validator errors into validation errors
// keyed by the YAML path of the offending field.
func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		ve := ves[0]
		field := yamlPath(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return apperrors.NewValidationError(field, msg, err)
	}

	return apperrors.NewValidationError("", err.Error(), err)
}

// convertDomainError keeps the domain error as cause so callers can still
// match it with errors.Is.
func convertDomainError(prefix string, err error) error {
	field := prefix
	var domainErr *scenario.DomainError
	if errors.As(err, &domainErr) {
		if name, ok := domainErr.Context["field"].(string); ok {
			field = joinField(prefix, name)
		}
		msg := domainErr.Message
		if msg == "" {
			msg = string(domainErr.Code)
		}
		return apperrors.NewValidationError(field, msg, err)
	}
	return apperrors.NewValidationError(field, err.Error(), err)
}

func yamlPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func joinField(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
