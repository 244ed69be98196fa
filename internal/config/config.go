// Package config provides configuration management for the landing server
// using Viper for loading from files, environment variables, and command-line
// flags.
//
// The configuration is read from a YAML file (.landing.yml by default), may be
// overridden with LANDING_ prefixed environment variables, and is validated
// before use. It covers the HTTP server, the remote API client, the section
// limits, the page locale, logging and the local mock API.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/conneroisu/landing/internal/api"
	"github.com/conneroisu/landing/internal/section"
)

type Config struct {
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	API      APIConfig      `yaml:"api" mapstructure:"api"`
	Sections SectionsConfig `yaml:"sections" mapstructure:"sections"`
	Page     PageConfig     `yaml:"page" mapstructure:"page"`
	Logging  LoggingConfig  `yaml:"logging" mapstructure:"logging"`
	Mock     MockConfig     `yaml:"mock" mapstructure:"mock"`
}

type ServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
	// RenderTimeout bounds how long /api/sections waits for a page to settle.
	RenderTimeout time.Duration `yaml:"render_timeout" mapstructure:"render_timeout"`
	// SessionTTL is how long a page waits for its websocket before it is unmounted.
	SessionTTL     time.Duration `yaml:"session_ttl" mapstructure:"session_ttl"`
	StaticDir      string        `yaml:"static_dir" mapstructure:"static_dir"`
	AllowedOrigins []string      `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

type SectionsConfig struct {
	ArticlesLimit     int  `yaml:"articles_limit" mapstructure:"articles_limit"`
	UsersLimit        int  `yaml:"users_limit" mapstructure:"users_limit"`
	StatsPostsLimit   int  `yaml:"stats_posts_limit" mapstructure:"stats_posts_limit"`
	StatsUsersLimit   int  `yaml:"stats_users_limit" mapstructure:"stats_users_limit"`
	StatsReportErrors bool `yaml:"stats_report_errors" mapstructure:"stats_report_errors"`
}

type PageConfig struct {
	// Locale is a BCP 47 tag, or "auto" to follow Accept-Language.
	Locale string `yaml:"locale" mapstructure:"locale"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

type MockConfig struct {
	Port     int   `yaml:"port" mapstructure:"port"`
	Seed     int64 `yaml:"seed" mapstructure:"seed"`
	Posts    int   `yaml:"posts" mapstructure:"posts"`
	Users    int   `yaml:"users" mapstructure:"users"`
	Comments int   `yaml:"comments" mapstructure:"comments"`
	Photos   int   `yaml:"photos" mapstructure:"photos"`
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	statsLimits := section.DefaultStatsLimits()

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.render_timeout", 12*time.Second)
	v.SetDefault("server.session_ttl", time.Minute)
	v.SetDefault("server.static_dir", "")
	v.SetDefault("server.allowed_origins", []string{})

	v.SetDefault("api.base_url", api.DefaultBaseURL)
	v.SetDefault("api.timeout", api.DefaultTimeout)

	v.SetDefault("sections.articles_limit", api.DefaultArticlesLimit)
	v.SetDefault("sections.users_limit", api.DefaultUsersLimit)
	v.SetDefault("sections.stats_posts_limit", statsLimits.Posts)
	v.SetDefault("sections.stats_users_limit", statsLimits.Users)
	v.SetDefault("sections.stats_report_errors", false)

	v.SetDefault("page.locale", "es")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("mock.port", 3001)
	v.SetDefault("mock.seed", 1)
	v.SetDefault("mock.posts", 100)
	v.SetDefault("mock.users", 10)
	v.SetDefault("mock.comments", 500)
	v.SetDefault("mock.photos", 5000)
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads and validates the configuration held by v. Defaults are
// applied for every key that v does not set.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Slices set from a single env var or flag arrive as one comma-separated string.
	if v.IsSet("server.allowed_origins") && len(config.Server.AllowedOrigins) == 0 {
		config.Server.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Addr returns the listen address of the server.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StatsLimits returns the limits of the statistics section.
func (c SectionsConfig) StatsLimits() section.StatsLimits {
	return section.StatsLimits{Posts: c.StatsPostsLimit, Users: c.StatsUsersLimit}
}
