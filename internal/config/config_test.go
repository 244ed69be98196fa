package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("LANDING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func TestLoadDefaults(t *testing.T) {
	config, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "localhost", config.Server.Host)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, 12*time.Second, config.Server.RenderTimeout)
	assert.Equal(t, time.Minute, config.Server.SessionTTL)
	assert.Empty(t, config.Server.StaticDir)
	assert.Empty(t, config.Server.AllowedOrigins)

	assert.Equal(t, "https://jsonplaceholder.typicode.com", config.API.BaseURL)
	assert.Equal(t, 10*time.Second, config.API.Timeout)

	assert.Equal(t, 6, config.Sections.ArticlesLimit)
	assert.Equal(t, 8, config.Sections.UsersLimit)
	assert.Equal(t, 100, config.Sections.StatsPostsLimit)
	assert.Equal(t, 10, config.Sections.StatsUsersLimit)
	assert.False(t, config.Sections.StatsReportErrors)

	assert.Equal(t, "es", config.Page.Locale)
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, "text", config.Logging.Format)

	assert.Equal(t, MockConfig{Port: 3001, Seed: 1, Posts: 100, Users: 10, Comments: 500, Photos: 5000}, config.Mock)

	assert.Equal(t, "localhost:8080", config.Server.Addr())
	assert.Equal(t, 100, config.Sections.StatsLimits().Posts)
	assert.Equal(t, 10, config.Sections.StatsLimits().Users)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(v *viper.Viper)
		expectError bool
		check       func(t *testing.T, config *Config)
	}{
		{
			name: "overrides",
			setup: func(v *viper.Viper) {
				v.Set("server.port", 3000)
				v.Set("server.host", "0.0.0.0")
				v.Set("api.base_url", "http://localhost:3001")
				v.Set("page.locale", "auto")
			},
			check: func(t *testing.T, config *Config) {
				assert.Equal(t, 3000, config.Server.Port)
				assert.Equal(t, "0.0.0.0", config.Server.Host)
				assert.Equal(t, "http://localhost:3001", config.API.BaseURL)
				assert.Equal(t, "auto", config.Page.Locale)
			},
		},
		{
			name: "duration strings",
			setup: func(v *viper.Viper) {
				v.Set("api.timeout", "2s")
				v.Set("server.session_ttl", "90s")
			},
			check: func(t *testing.T, config *Config) {
				assert.Equal(t, 2*time.Second, config.API.Timeout)
				assert.Equal(t, 90*time.Second, config.Server.SessionTTL)
			},
		},
		{
			name: "limits are not validated",
			setup: func(v *viper.Viper) {
				v.Set("sections.articles_limit", 0)
				v.Set("sections.users_limit", -3)
			},
			check: func(t *testing.T, config *Config) {
				assert.Equal(t, 0, config.Sections.ArticlesLimit)
				assert.Equal(t, -3, config.Sections.UsersLimit)
			},
		},
		{
			name: "comma separated origins",
			setup: func(v *viper.Viper) {
				v.Set("server.allowed_origins", "example.com,*.example.org")
			},
			check: func(t *testing.T, config *Config) {
				assert.Equal(t, []string{"example.com", "*.example.org"}, config.Server.AllowedOrigins)
			},
		},
		{
			name:        "invalid port type",
			setup:       func(v *viper.Viper) { v.Set("server.port", "invalid_port") },
			expectError: true,
		},
		{
			name:        "port out of range",
			setup:       func(v *viper.Viper) { v.Set("server.port", 70000) },
			expectError: true,
		},
		{
			name:        "base url without scheme",
			setup:       func(v *viper.Viper) { v.Set("api.base_url", "jsonplaceholder.typicode.com") },
			expectError: true,
		},
		{
			name:        "zero timeout",
			setup:       func(v *viper.Viper) { v.Set("api.timeout", "0s") },
			expectError: true,
		},
		{
			name:        "bad locale",
			setup:       func(v *viper.Viper) { v.Set("page.locale", "not a locale") },
			expectError: true,
		},
		{
			name:        "bad log level",
			setup:       func(v *viper.Viper) { v.Set("logging.level", "verbose") },
			expectError: true,
		},
		{
			name:        "bad log format",
			setup:       func(v *viper.Viper) { v.Set("logging.format", "xml") },
			expectError: true,
		},
		{
			name:        "static dir traversal",
			setup:       func(v *viper.Viper) { v.Set("server.static_dir", "../../etc") },
			expectError: true,
		},
		{
			name:        "negative mock size",
			setup:       func(v *viper.Viper) { v.Set("mock.photos", -1) },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			tt.setup(v)

			config, err := LoadFrom(v)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, config)
				return
			}
			require.NoError(t, err)
			tt.check(t, config)
		})
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LANDING_SERVER_PORT", "9090")
	t.Setenv("LANDING_API_TIMEOUT", "3s")
	t.Setenv("LANDING_SECTIONS_STATS_REPORT_ERRORS", "true")
	t.Setenv("LANDING_PAGE_LOCALE", "en")

	config, err := LoadFrom(newViper())
	require.NoError(t, err)

	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, 3*time.Second, config.API.Timeout)
	assert.True(t, config.Sections.StatsReportErrors)
	assert.Equal(t, "en", config.Page.Locale)
}

func TestLoadFromFile(t *testing.T) {
	content := `
server:
  port: 8181
  static_dir: ./public
  allowed_origins:
    - example.com
api:
  base_url: http://localhost:3001
  timeout: 5s
sections:
  articles_limit: 3
page:
  locale: en
`
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	config, err := LoadFrom(v)
	require.NoError(t, err)

	assert.Equal(t, 8181, config.Server.Port)
	assert.Equal(t, "./public", config.Server.StaticDir)
	assert.Equal(t, []string{"example.com"}, config.Server.AllowedOrigins)
	assert.Equal(t, "http://localhost:3001", config.API.BaseURL)
	assert.Equal(t, 5*time.Second, config.API.Timeout)
	assert.Equal(t, 3, config.Sections.ArticlesLimit)
	assert.Equal(t, 8, config.Sections.UsersLimit, "unset keys keep their default")
	assert.Equal(t, "en", config.Page.Locale)
}

func TestLoadGlobal(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("server.port", 4000)

	config, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4000, config.Server.Port)
}

func TestWriteFileRoundTrip(t *testing.T) {
	config := Default()
	config.Server.Port = 9000
	config.API.Timeout = 7 * time.Second
	config.Page.Locale = "auto"
	config.Server.AllowedOrigins = []string{"example.com"}

	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, WriteFile(path, config, false))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "timeout: 7s")

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	loaded, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, config, loaded)

	assert.Error(t, WriteFile(path, config, false), "existing file is kept")
	assert.NoError(t, WriteFile(path, config, true))
}

func TestValidateConfigWithDetails(t *testing.T) {
	t.Run("defaults are clean", func(t *testing.T) {
		result := ValidateConfigWithDetails(Default())
		assert.True(t, result.Valid)
		assert.False(t, result.HasErrors())
		assert.False(t, result.HasWarnings())
		assert.NoError(t, result.Err())
		assert.Empty(t, result.String())
	})

	t.Run("warnings do not invalidate", func(t *testing.T) {
		config := Default()
		config.Server.Port = 80
		config.Server.Host = "0.0.0.0"
		config.Sections.ArticlesLimit = 0

		result := ValidateConfigWithDetails(config)
		assert.True(t, result.Valid)
		require.Len(t, result.Warnings, 3)
		assert.Equal(t, "server.port", result.Warnings[0].Field)
		assert.Equal(t, "server.host", result.Warnings[1].Field)
		assert.Equal(t, "sections.articles_limit", result.Warnings[2].Field)
		assert.Contains(t, result.String(), "Validation Warnings")
	})

	t.Run("errors are joined", func(t *testing.T) {
		config := Default()
		config.Server.Port = -1
		config.API.BaseURL = "ftp://example.com"

		result := ValidateConfigWithDetails(config)
		assert.False(t, result.Valid)
		require.Len(t, result.Errors, 2)

		err := result.Err()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server.port")
		assert.Contains(t, err.Error(), "api.base_url")

		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
		assert.Contains(t, result.String(), "Validation Errors")
	})
}
