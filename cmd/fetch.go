package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/landing/internal/landing"
	"github.com/conneroisu/landing/internal/section"
	"github.com/conneroisu/landing/internal/view"
)

var fetchCmd = &cobra.Command{
	Use:     "fetch",
	Aliases: []string{"f"},
	Short:   "Load the page sections once and print them",
	Long: `Load the articles, team and statistics sections the way the page does
and print them once every section has settled.

Statistics that cannot be loaded stay in the loading phase, exactly as on the
page. A page that does not settle within --timeout is printed as it stands and
the command fails.

Examples:
  landing fetch                    # Print as tables
  landing fetch -o json            # Print as JSON
  landing fetch -o yaml --timeout 3s`,
	RunE: runFetch,
}

var (
	fetchFormat  string
	fetchTimeout time.Duration
)

var fetchFormats = []string{"table", "json", "yaml"}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&fetchFormat, "output", "o", "table", "Output format (table|json|yaml)")
	fetchCmd.Flags().DurationVar(&fetchTimeout, "timeout", 0, "How long to wait for the sections (default server.render_timeout)")

	AddFlagValidation(fetchCmd, "output", func(format string) error {
		return ValidateFormat(format, fetchFormats)
	})
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	timeout := fetchTimeout
	if timeout <= 0 {
		timeout = cfg.Server.RenderTimeout
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	opts := landing.Options{
		ArticlesLimit:     cfg.Sections.ArticlesLimit,
		UsersLimit:        cfg.Sections.UsersLimit,
		StatsLimits:       cfg.Sections.StatsLimits(),
		StatsReportErrors: cfg.Sections.StatsReportErrors,
		Locale:            view.MatchLocale(cfg.Page.Locale, ""),
	}

	page, loadErr := landing.Load(ctx, newAPIClient(cfg, logger), opts, logger)
	defer page.Unmount()

	if err := writeReport(cmd.OutOrStdout(), page.Report(), fetchFormat); err != nil {
		return err
	}

	if loadErr != nil {
		return fmt.Errorf("sections did not settle within %s: %w", timeout, loadErr)
	}
	return nil
}

func writeReport(w io.Writer, report landing.Report, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		return encoder.Encode(report)
	case "table":
		return writeReportTable(w, report)
	default:
		return ValidateFormat(format, fetchFormats)
	}
}

func writeReportTable(w io.Writer, report landing.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "POSTS (%s)\n", report.Articles.Phase)
	switch report.Articles.Phase {
	case section.PhaseSuccess:
		fmt.Fprintln(tw, "ID\tUSER\tTITLE")
		for _, article := range report.Articles.Items {
			fmt.Fprintf(tw, "%d\t%d\t%s\n", article.ID, article.UserID, article.Title)
		}
	case section.PhaseError:
		fmt.Fprintf(tw, "error: %s\n", report.Articles.ErrorMessage)
	}

	fmt.Fprintf(tw, "\nUSERS (%s)\n", report.Users.Phase)
	switch report.Users.Phase {
	case section.PhaseSuccess:
		fmt.Fprintln(tw, "ID\tNAME\tUSERNAME\tEMAIL\tCITY")
		for _, user := range report.Users.Items {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", user.ID, user.Name, user.Username, user.Email, user.Address.City)
		}
	case section.PhaseError:
		fmt.Fprintf(tw, "error: %s\n", report.Users.ErrorMessage)
	}

	fmt.Fprintf(tw, "\nSTATS (%s)\n", report.Stats.Phase)
	switch report.Stats.Phase {
	case section.PhaseReady:
		snapshot := report.Stats.Snapshot
		fmt.Fprintln(tw, "POSTS\tUSERS\tCOMMENTS\tPHOTOS")
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\n", snapshot.Posts, snapshot.Users, snapshot.Comments, snapshot.Photos)
	case section.PhaseError:
		fmt.Fprintf(tw, "error: %s\n", report.Stats.ErrorMessage)
	}

	return tw.Flush()
}
