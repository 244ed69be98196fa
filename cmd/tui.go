package cmd

import (
	"context"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/conneroisu/landing/internal/landing"
	"github.com/conneroisu/landing/internal/tui"
	"github.com/conneroisu/landing/internal/view"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Show the page sections in the terminal",
	Long: `Load the landing page sections and show them in the terminal as they
arrive. With page.locale set to auto the language follows $LANG.

Examples:
  landing tui
  LANDING_PAGE_LOCALE=en landing tui`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	opts := landing.Options{
		ArticlesLimit:     cfg.Sections.ArticlesLimit,
		UsersLimit:        cfg.Sections.UsersLimit,
		StatsLimits:       cfg.Sections.StatsLimits(),
		StatsReportErrors: cfg.Sections.StatsReportErrors,
		Locale:            view.MatchLocale(cfg.Page.Locale, posixLocale(os.Getenv("LANG"))),
	}

	page := landing.NewPage(newAPIClient(cfg, logger), opts, logger)
	defer page.Unmount()

	_, err = tea.NewProgram(tui.New(ctx, page), tea.WithContext(ctx)).Run()
	return err
}

// posixLocale turns a POSIX locale such as "en_US.UTF-8" into a BCP 47 tag.
func posixLocale(value string) string {
	if i := strings.IndexAny(value, ".@"); i >= 0 {
		value = value[:i]
	}
	if value == "C" || value == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(value, "_", "-")
}
