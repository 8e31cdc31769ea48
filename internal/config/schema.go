package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	apperrors "github.com/alexisbeaulieu97/pprunner/pkg/errors"
)

const schemaID = "https://github.com/alexisbeaulieu97/pprunner/schemas/scenario.json"

// GenerateJSONSchema produces the JSON Schema of scenario documents.
func GenerateJSONSchema() ([]byte, error) {
	r := &jsonschema.Reflector{AllowAdditionalProperties: true}

	s := r.Reflect(&Document{})
	s.ID = schemaID
	s.Title = "pprunner scenario"
	s.Description = "Schema for pprunner scenario YAML documents"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}

// ValidateSchema checks a rendered YAML document against the generated
// schema and reports every violation, sorted by location.
func ValidateSchema(path string, rendered []byte) error {
	schemaJSON, err := GenerateJSONSchema()
	if err != nil {
		return err
	}
	schemaDoc, err := sjsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return fmt.Errorf("unmarshal schema: %w", err)
	}
	c := sjsonschema.NewCompiler()
	if err := c.AddResource(schemaID, schemaDoc); err != nil {
		return fmt.Errorf("add schema resource: %w", err)
	}
	sch, err := c.Compile(schemaID)
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	var raw interface{}
	if err := yaml.Unmarshal(rendered, &raw); err != nil {
		return apperrors.NewParseError(path, extractLine(err), err)
	}
	asJSON, err := json.Marshal(raw)
	if err != nil {
		return apperrors.NewParseError(path, 0, err)
	}
	instance, err := sjsonschema.UnmarshalJSON(bytes.NewReader(asJSON))
	if err != nil {
		return apperrors.NewParseError(path, 0, err)
	}

	err = sch.Validate(instance)
	if err == nil {
		return nil
	}
	ve, ok := err.(*sjsonschema.ValidationError)
	if !ok {
		return apperrors.NewValidationError("", err.Error(), err)
	}
	var errs []string
	var first string
	for _, cause := range flattenValidationErrors(ve) {
		location := "/" + strings.Join(cause.InstanceLocation, "/")
		errs = append(errs, fmt.Sprintf("%s: %v", location, cause.ErrorKind))
	}
	sort.Strings(errs)
	if len(errs) > 0 {
		first, _, _ = strings.Cut(errs[0], ":")
	}
	verr := &apperrors.ValidationError{Path: path, Field: first, Message: strings.Join(errs, "; "), Err: err}
	return verr
}

func flattenValidationErrors(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flattenValidationErrors(cause)...)
	}
	return flat
}
