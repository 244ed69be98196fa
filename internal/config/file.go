package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the configuration file looked up in the working directory.
const DefaultFileName = ".landing.yml"

// Default returns the configuration with every key at its default.
func Default() *Config {
	config, err := LoadFrom(viper.New())
	if err != nil {
		panic(fmt.Sprintf("default configuration is invalid: %v", err))
	}
	return config
}

// Marshal renders config as the YAML accepted by Load. Durations are written
// in Go duration syntax.
func Marshal(config *Config) ([]byte, error) {
	origins := config.Server.AllowedOrigins
	if origins == nil {
		origins = []string{}
	}

	doc := map[string]map[string]interface{}{
		"server": {
			"host":            config.Server.Host,
			"port":            config.Server.Port,
			"render_timeout":  config.Server.RenderTimeout.String(),
			"session_ttl":     config.Server.SessionTTL.String(),
			"static_dir":      config.Server.StaticDir,
			"allowed_origins": origins,
		},
		"api": {
			"base_url": config.API.BaseURL,
			"timeout":  config.API.Timeout.String(),
		},
		"sections": {
			"articles_limit":      config.Sections.ArticlesLimit,
			"users_limit":         config.Sections.UsersLimit,
			"stats_posts_limit":   config.Sections.StatsPostsLimit,
			"stats_users_limit":   config.Sections.StatsUsersLimit,
			"stats_report_errors": config.Sections.StatsReportErrors,
		},
		"page": {
			"locale": config.Page.Locale,
		},
		"logging": {
			"level":  config.Logging.Level,
			"format": config.Logging.Format,
		},
		"mock": {
			"port":     config.Mock.Port,
			"seed":     config.Mock.Seed,
			"posts":    config.Mock.Posts,
			"users":    config.Mock.Users,
			"comments": config.Mock.Comments,
			"photos":   config.Mock.Photos,
		},
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal configuration: %w", err)
	}
	return append([]byte("# landing configuration file\n"), out...), nil
}

// WriteFile writes config to filename. An existing file is only replaced when
// overwrite is set.
func WriteFile(filename string, config *Config, overwrite bool) error {
	if _, err := os.Stat(filename); err == nil && !overwrite {
		return fmt.Errorf("configuration file %s already exists", filename)
	}

	content, err := Marshal(config)
	if err != nil {
		return err
	}

	if err := os.WriteFile(filename, content, 0o644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}
