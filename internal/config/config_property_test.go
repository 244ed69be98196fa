//go:build property
// +build property

package config

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/spf13/viper"
)

func loadYAML(content []byte) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, err
	}
	return LoadFrom(v)
}

// TestConfigurationProperties tests configuration validation properties
func TestConfigurationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("port validation", prop.ForAll(
		func(port int) bool {
			config := Default()
			config.Server.Port = port

			err := validateConfig(config)
			if port >= 0 && port <= 65535 {
				return err == nil
			}
			return err != nil
		},
		gen.IntRange(-1000, 70000),
	))

	properties.Property("section limits never fail validation", prop.ForAll(
		func(articles, users, posts, statsUsers int) bool {
			config := Default()
			config.Sections.ArticlesLimit = articles
			config.Sections.UsersLimit = users
			config.Sections.StatsPostsLimit = posts
			config.Sections.StatsUsersLimit = statsUsers

			result := ValidateConfigWithDetails(config)
			return result.Valid
		},
		gen.IntRange(-100, 1000),
		gen.IntRange(-100, 1000),
		gen.IntRange(-100, 1000),
		gen.IntRange(-100, 1000),
	))

	properties.Property("durations must be positive", prop.ForAll(
		func(seconds int) bool {
			config := Default()
			config.API.Timeout = time.Duration(seconds) * time.Second

			err := validateConfig(config)
			if seconds > 0 {
				return err == nil
			}
			return err != nil
		},
		gen.IntRange(-60, 60),
	))

	properties.Property("host validation", prop.ForAll(
		func(host string) bool {
			config := Default()
			config.Server.Host = host

			err := validateConfig(config)
			if strings.ContainsAny(host, ";|&`$() \t\n") {
				return err != nil
			}
			return err == nil
		},
		gen.OneConstOf("localhost", "127.0.0.1", "0.0.0.0", "", "a b", "host;rm -rf /", "host\n", "$(id)"),
	))

	properties.Property("marshalled config loads back unchanged", prop.ForAll(
		func(port int, articles int, locale string) bool {
			config := Default()
			config.Server.Port = port
			config.Sections.ArticlesLimit = articles
			config.Page.Locale = locale

			content, err := Marshal(config)
			if err != nil {
				return false
			}

			loaded, err := loadYAML(content)
			if err != nil {
				return false
			}
			return loaded.Server.Port == port &&
				loaded.Sections.ArticlesLimit == articles &&
				loaded.Page.Locale == locale &&
				loaded.API.Timeout == config.API.Timeout
		},
		gen.IntRange(1, 65535),
		gen.IntRange(-10, 200),
		gen.OneConstOf("es", "en", "auto", "en-GB"),
	))

	properties.TestingRun(t)
}
