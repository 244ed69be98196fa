// Package cmd provides the command-line interface of the landing page.
//
// Configuration System:
//
//	Configuration is read from several sources, highest priority first:
//	1. Command-line flags (--port, --api-base, --log-level, ...)
//	2. Environment variables following the LANDING_<SECTION>_<KEY> pattern
//	3. The configuration file: --config, else LANDING_CONFIG_FILE, else
//	   .landing.yml in the working directory
//	4. Built-in defaults
//
// Environment Variables:
//
//	LANDING_CONFIG_FILE:   Path to a custom configuration file
//	LANDING_SERVER_PORT:   Override server port
//	LANDING_API_BASE_URL:  Override the remote API address
//	LANDING_PAGE_LOCALE:   es, en or auto
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/landing/internal/api"
	"github.com/conneroisu/landing/internal/config"
	"github.com/conneroisu/landing/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "landing",
	Short: "A landing page fed by the JSONPlaceholder API",
	Long: `Landing serves a landing page whose articles, team and statistics
sections are loaded from the JSONPlaceholder API and pushed to the browser as
they arrive.

Quick Start:
  landing serve                   Start the page server
  landing fetch                   Load the sections once and print them
  landing mock                    Serve a local stand-in for the API
  landing tui                     Show the sections in the terminal
  landing config init             Write a .landing.yml with the defaults`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .landing.yml, can also use LANDING_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig points viper at the configuration file and the environment.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("LANDING_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(strings.TrimSuffix(config.DefaultFileName, ".yml"))
	}

	viper.SetEnvPrefix("LANDING")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing or unreadable file leaves the defaults in place.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig loads the configuration and builds the logger it describes.
func loadConfig() (*config.Config, logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, nil, err
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})

	return cfg, logger, nil
}

func newAPIClient(cfg *config.Config, logger logging.Logger) *api.Client {
	return api.NewClient(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithLogger(logger),
	)
}
