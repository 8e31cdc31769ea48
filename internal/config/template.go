package config

import (
	"fmt"
	"strings"

	"github.com/aymerick/raymond"
)

// Placeholders every scenario may use, with their environment variable and
// default value.
var placeholders = []struct {
	key, env, fallback string
}{
	{key: "hostUrl", env: "HOST_URL", fallback: "http://localhost:3000"},
	{key: "password", env: "PASSWORD", fallback: "passw0rd"},
	{key: "userId", env: "USER_ID", fallback: "test@example.com"},
}

// TemplateData builds the Handlebars context from environ, formatted as
// os.Environ returns it. Every variable is exposed under its own name.
func TemplateData(environ []string) map[string]interface{} {
	data := make(map[string]interface{}, len(environ)+len(placeholders))
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		data[key] = value
	}
	for _, p := range placeholders {
		value, _ := data[p.env].(string)
		if value == "" {
			value = p.fallback
		}
		data[p.key] = value
	}
	return data
}

// Render expands Handlebars placeholders in source against data.
func Render(source string, data map[string]interface{}) (string, error) {
	tpl, err := raymond.Parse(source)
	if err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	out, err := tpl.Exec(data)
	if err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return out, nil
}
