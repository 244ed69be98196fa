package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/conneroisu/landing/internal/logging"
	"github.com/conneroisu/landing/internal/validation"
	"github.com/conneroisu/landing/internal/view"
)

// ValidationError represents a configuration validation error with suggestions
type ValidationError struct {
	Field       string
	Value       interface{}
	Message     string
	Suggestions []string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the result of configuration validation
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings
func (vr *ValidationResult) HasWarnings() bool {
	return len(vr.Warnings) > 0
}

// Err joins the validation errors, or returns nil.
func (vr *ValidationResult) Err() error {
	errs := make([]error, 0, len(vr.Errors))
	for i := range vr.Errors {
		errs = append(errs, &vr.Errors[i])
	}
	return errors.Join(errs...)
}

// String returns a formatted string of all validation issues
func (vr *ValidationResult) String() string {
	var builder strings.Builder

	write := func(title string, issues []ValidationError) {
		if len(issues) == 0 {
			return
		}
		builder.WriteString(title + "\n")
		for _, issue := range issues {
			builder.WriteString(fmt.Sprintf("  • %s: %s\n", issue.Field, issue.Message))
			for _, suggestion := range issue.Suggestions {
				builder.WriteString(fmt.Sprintf("    💡 %s\n", suggestion))
			}
		}
	}

	write("❌ Validation Errors:", vr.Errors)
	if vr.HasErrors() && vr.HasWarnings() {
		builder.WriteString("\n")
	}
	write("⚠️  Validation Warnings:", vr.Warnings)

	return builder.String()
}

func (vr *ValidationResult) addError(field string, value interface{}, message string, suggestions ...string) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Value: value, Message: message, Suggestions: suggestions})
}

func (vr *ValidationResult) addWarning(field string, value interface{}, message string, suggestions ...string) {
	vr.Warnings = append(vr.Warnings, ValidationError{Field: field, Value: value, Message: message, Suggestions: suggestions})
}

// ValidateConfigWithDetails performs comprehensive validation with detailed feedback
func ValidateConfigWithDetails(config *Config) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	validateServerConfigDetails(&config.Server, result)
	validateAPIConfigDetails(&config.API, result)
	validateSectionsConfigDetails(&config.Sections, result)
	validatePageConfigDetails(&config.Page, result)
	validateLoggingConfigDetails(&config.Logging, result)
	validateMockConfigDetails(&config.Mock, result)

	result.Valid = !result.HasErrors()

	return result
}

// validateConfig returns the joined errors of a detailed validation.
func validateConfig(config *Config) error {
	return ValidateConfigWithDetails(config).Err()
}

func validatePort(field string, port int, result *ValidationResult) {
	if port < 0 || port > 65535 {
		result.addError(field, port,
			fmt.Sprintf("port %d is not in valid range 0-65535", port),
			"Use a port between 1024-65535 for non-privileged access",
			"Port 0 allows system to assign an available port",
		)
	} else if port > 0 && port < 1024 {
		result.addWarning(field, port,
			"port below 1024 requires elevated privileges",
			"Consider using a port above 1024",
		)
	}
}

func validatePositive(field string, d time.Duration, result *ValidationResult) {
	if d <= 0 {
		result.addError(field, d,
			fmt.Sprintf("duration %s must be positive", d),
			"Use a Go duration such as '10s' or '1m'",
		)
	}
}

func validateServerConfigDetails(config *ServerConfig, result *ValidationResult) {
	validatePort("server.port", config.Port, result)

	if err := validation.ValidateHost(config.Host); err != nil {
		result.addError("server.host", config.Host, err.Error(),
			"Use 'localhost' for local development",
			"Use '0.0.0.0' to bind to all interfaces",
		)
	} else if config.Host == "0.0.0.0" {
		result.addWarning("server.host", config.Host,
			"server is reachable from every network interface",
			"Use 'localhost' unless the page must be reachable from other machines",
		)
	}

	validatePositive("server.render_timeout", config.RenderTimeout, result)
	validatePositive("server.session_ttl", config.SessionTTL, result)

	if config.StaticDir != "" {
		if err := validation.ValidatePath(config.StaticDir); err != nil {
			result.addError("server.static_dir", config.StaticDir, err.Error(),
				"Use a relative path like './static'",
				"Avoid parent directory references (..)",
			)
		}
	}

	for _, origin := range config.AllowedOrigins {
		if strings.TrimSpace(origin) == "" {
			result.addError("server.allowed_origins", origin, "origin pattern cannot be empty")
		}
	}
}

func validateAPIConfigDetails(config *APIConfig, result *ValidationResult) {
	if err := validation.ValidateBaseURL(config.BaseURL); err != nil {
		result.addError("api.base_url", config.BaseURL, err.Error(),
			"Use 'https://jsonplaceholder.typicode.com' for the public API",
			"Use 'http://localhost:3001' with 'landing mock'",
		)
	}

	validatePositive("api.timeout", config.Timeout, result)
}

// Limits are passed to the API untouched, so odd values only warn.
func validateSectionsConfigDetails(config *SectionsConfig, result *ValidationResult) {
	limits := []struct {
		field string
		value int
	}{
		{"sections.articles_limit", config.ArticlesLimit},
		{"sections.users_limit", config.UsersLimit},
		{"sections.stats_posts_limit", config.StatsPostsLimit},
		{"sections.stats_users_limit", config.StatsUsersLimit},
	}

	for _, limit := range limits {
		if limit.value <= 0 {
			result.addWarning(limit.field, limit.value,
				fmt.Sprintf("limit %d is sent to the API as is and yields no records", limit.value),
			)
		}
	}
}

func validatePageConfigDetails(config *PageConfig, result *ValidationResult) {
	if err := view.ParseLocale(config.Locale); err != nil {
		result.addError("page.locale", config.Locale, err.Error(),
			"Use 'es' or 'en'",
			"Use 'auto' to follow the browser's Accept-Language header",
		)
	}
}

func validateLoggingConfigDetails(config *LoggingConfig, result *ValidationResult) {
	if _, err := logging.ParseLevel(config.Level); err != nil {
		result.addError("logging.level", config.Level, err.Error(),
			"Use one of: debug, info, warn, error",
		)
	}

	if config.Format != "text" && config.Format != "json" {
		result.addError("logging.format", config.Format,
			fmt.Sprintf("unknown log format %q", config.Format),
			"Use 'text' or 'json'",
		)
	}
}

func validateMockConfigDetails(config *MockConfig, result *ValidationResult) {
	validatePort("mock.port", config.Port, result)

	sizes := []struct {
		field string
		value int
	}{
		{"mock.posts", config.Posts},
		{"mock.users", config.Users},
		{"mock.comments", config.Comments},
		{"mock.photos", config.Photos},
	}

	for _, size := range sizes {
		if size.value < 0 {
			result.addError(size.field, size.value, "dataset size cannot be negative")
		}
	}
}
