package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/landing/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage landing configuration",
	Long: `Manage landing configuration files and settings.

Examples:
  landing config init                  # Write .landing.yml with the defaults
  landing config validate              # Validate .landing.yml
  landing config show                  # Show the resolved configuration`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the defaults",
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a landing configuration file.

Errors make the file unusable. Warnings point at settings that work but are
probably not intended, such as section limits that yield no records.

Examples:
  landing config validate                    # Validate .landing.yml
  landing config validate --file prod.yml    # Validate a specific file
  landing config validate --strict           # Treat warnings as errors`,
	RunE: runConfigValidate,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the configuration after the file, environment variables,
flags and defaults have been applied, in the format read by 'landing --config'.`,
	RunE: runConfigShow,
}

var (
	configInitFile     string
	configValidateFile string
	configForce        bool
	configStrict       bool
)

var errInvalidConfig = errors.New("configuration is invalid")

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configValidateCmd, configShowCmd)

	configInitCmd.Flags().StringVar(&configInitFile, "file", config.DefaultFileName, "File to write")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")

	configValidateCmd.Flags().StringVar(&configValidateFile, "file", "", "Configuration file to validate (default .landing.yml)")
	configValidateCmd.Flags().BoolVar(&configStrict, "strict", false, "Treat warnings as errors")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if err := config.WriteFile(configInitFile, config.Default(), configForce); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✅ Wrote %s\n", configInitFile)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	targetFile := configValidateFile
	if targetFile == "" {
		targetFile = config.DefaultFileName
	}
	if _, err := os.Stat(targetFile); os.IsNotExist(err) {
		return fmt.Errorf("configuration file %s does not exist, run 'landing config init' to create one", targetFile)
	}

	fmt.Fprintf(out, "🔍 Validating configuration file: %s\n", targetFile)

	v := viper.New()
	config.SetDefaults(v)
	v.SetConfigFile(targetFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read configuration file: %w", err)
	}

	var cfg config.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to parse configuration: %w", err)
	}

	result := config.ValidateConfigWithDetails(&cfg)
	if !result.HasErrors() && !result.HasWarnings() {
		fmt.Fprintln(out, "✅ Configuration is valid!")
		return nil
	}

	fmt.Fprint(out, result.String())

	if result.HasErrors() || (configStrict && result.HasWarnings()) {
		return errInvalidConfig
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	content, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(content)
	return err
}
