package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/landing/internal/version"
)

var (
	versionFormat   string
	versionShort    bool
	versionDetailed bool
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information for landing.

Examples:
  landing version              # Show version and platform
  landing version --short      # Show the version only
  landing version --detailed   # Show every build detail
  landing version -f json      # Output as JSON`,
	RunE: runVersionCommand,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", "text", "Output format (text, json, yaml)")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show short version only")
	versionCmd.Flags().BoolVar(&versionDetailed, "detailed", false, "Show detailed version information")
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	info := version.Get()
	out := cmd.OutOrStdout()

	switch versionFormat {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(versionOutput(info))
	case "yaml":
		encoder := yaml.NewEncoder(out)
		defer encoder.Close()
		return encoder.Encode(versionOutput(info))
	case "text":
		return writeVersionText(out, info)
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json, yaml)", versionFormat)
	}
}

type versionInfo struct {
	version.BuildInfo `yaml:",inline"`
	IsRelease         bool `json:"is_release" yaml:"is_release"`
}

func versionOutput(info version.BuildInfo) versionInfo {
	return versionInfo{BuildInfo: info, IsRelease: info.IsRelease()}
}

func writeVersionText(out io.Writer, info version.BuildInfo) error {
	switch {
	case versionShort:
		_, err := fmt.Fprintln(out, info.Short())
		return err
	case versionDetailed:
		buildType := "development"
		if info.IsRelease() {
			buildType = "release"
		}
		_, err := fmt.Fprintf(out, "%s\nBuild type: %s\n", info.Detailed(), buildType)
		return err
	default:
		_, err := fmt.Fprintf(out, "landing %s\nGo: %s\nPlatform: %s\n", info.Short(), info.GoVersion, info.Platform)
		return err
	}
}
