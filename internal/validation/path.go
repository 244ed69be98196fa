package validation

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateHost rejects listen hosts carrying shell metacharacters.
func ValidateHost(host string) error {
	for _, char := range dangerousChars {
		if strings.Contains(host, char) {
			return fmt.Errorf("host contains dangerous character: %q", char)
		}
	}
	if strings.ContainsAny(host, " \t") {
		return fmt.Errorf("host contains whitespace")
	}
	return nil
}

// ValidatePath validates a directory the server reads files from.
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	cleanPath := filepath.Clean(path)

	for _, part := range strings.Split(filepath.ToSlash(cleanPath), "/") {
		if part == ".." {
			return fmt.Errorf("path traversal detected: %s", path)
		}
	}

	restrictedPaths := []string{"/etc", "/proc", "/sys", "/dev", "/boot"}
	for _, restricted := range restrictedPaths {
		if cleanPath == restricted || strings.HasPrefix(cleanPath, restricted+"/") {
			return fmt.Errorf("access to restricted path denied: %s", path)
		}
	}

	for _, char := range []string{";", "&", "|", "$", "`", "<", ">"} {
		if strings.Contains(path, char) {
			return fmt.Errorf("path contains dangerous character: %q", char)
		}
	}

	return nil
}
