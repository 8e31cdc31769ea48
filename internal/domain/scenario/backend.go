package scenario

import (
	"fmt"
	"strings"
	"time"
)

// Backend identifies the automation technology driving the browser.
type Backend string

const (
	// BackendChrome drives Chromium over the DevTools protocol.
	BackendChrome Backend = "chrome"
	// BackendFirefox drives Firefox through Playwright.
	BackendFirefox Backend = "firefox"
	// BackendIE drives a remote WebDriver session. Session and page are the
	// same handle.
	BackendIE Backend = "ie"
)

// DefaultBackend is used when no backend is requested.
const DefaultBackend = BackendChrome

// RemoteSettleDelay is slept after every step on remote-driver backends.
// WebDriver commands return before the page has finished reacting.
const RemoteSettleDelay = 500 * time.Millisecond

// Backends lists every supported backend kind.
func Backends() []Backend {
	return []Backend{BackendChrome, BackendFirefox, BackendIE}
}

// ParseBackend resolves a user supplied backend name.
func ParseBackend(name string) (Backend, error) {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	if trimmed == "" {
		return DefaultBackend, nil
	}
	for _, b := range Backends() {
		if string(b) == trimmed {
			return b, nil
		}
	}
	return "", &DomainError{
		Code:    ErrCodeUnknownBackend,
		Message: fmt.Sprintf("unsupported browser %q", name),
		Context: map[string]interface{}{"backend": name},
	}
}

// IsRemoteDriver reports whether b uses the synchronous WebDriver model.
func (b Backend) IsRemoteDriver() bool {
	return b == BackendIE
}

// SettleDelay returns the pause inserted after each step for b.
func (b Backend) SettleDelay() time.Duration {
	if b.IsRemoteDriver() {
		return RemoteSettleDelay
	}
	return 0
}
