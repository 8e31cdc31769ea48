package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	apperrors "github.com/alexisbeaulieu97/pprunner/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// ParseFile reads path, renders it against data and decodes it. The result
// is not validated.
func ParseFile(path string, data map[string]interface{}) (*Document, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewParseError(path, 0, err)
	}
	return Parse(path, source, data)
}

// Parse renders source against data and decodes the resulting YAML.
func Parse(path string, source []byte, data map[string]interface{}) (*Document, error) {
	rendered, err := Render(string(source), data)
	if err != nil {
		return nil, apperrors.NewParseError(path, extractLine(err), err)
	}
	return Decode(path, []byte(rendered))
}

// Decode decodes an already rendered document.
func Decode(path string, rendered []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(rendered, &doc); err != nil {
		return nil, apperrors.NewParseError(path, extractLine(err), err)
	}
	return &doc, nil
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}
	return line
}
