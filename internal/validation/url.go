// Package validation checks the user-supplied values the server is started
// with: the remote API base URL, the listen host and the static directory.
package validation

import (
	"fmt"
	"net/url"
	"strings"
)

var dangerousChars = []string{";", "&", "|", "`", "$", "(", ")", "<", ">", "\"", "'", "\\", "\n", "\r"}

// ValidateBaseURL checks the base URL of the remote API. Resource paths and
// query strings are appended to it, so it must be a plain http or https URL
// with a host and without query or fragment.
func ValidateBaseURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: %q (only http/https allowed)", parsed.Scheme)
	}

	for _, char := range dangerousChars {
		if strings.Contains(rawURL, char) {
			return fmt.Errorf("URL contains dangerous character: %q", char)
		}
	}

	if strings.Contains(rawURL, " ") {
		return fmt.Errorf("URL contains spaces")
	}

	if parsed.Host == "" {
		return fmt.Errorf("URL must have a valid hostname")
	}

	if parsed.RawQuery != "" || parsed.Fragment != "" || strings.ContainsAny(rawURL, "?#") {
		return fmt.Errorf("base URL must not carry a query or fragment")
	}

	return nil
}
