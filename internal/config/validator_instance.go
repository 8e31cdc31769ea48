package config

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/alexisbeaulieu97/pprunner/internal/domain/scenario"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	// Extension kinds are registered in code, so any identifier is accepted
	// here and resolved against the registry later.
	actionTypePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)
)

// validatorInstance configures and returns the shared validator used across
// the config package.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})

		_ = v.RegisterValidation("action_type", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			if scenario.NormalizeKind(value).IsBuiltin() {
				return true
			}
			return actionTypePattern.MatchString(value)
		})

		_ = v.RegisterValidation("backend", func(fl validator.FieldLevel) bool {
			_, err := scenario.ParseBackend(fl.Field().String())
			return err == nil && strings.TrimSpace(fl.Field().String()) != ""
		})

		validateInst = v
	})

	return validateInst
}

// GetValidator returns the configured validator for use outside the config
// package.
func GetValidator() *validator.Validate {
	return validatorInstance()
}
