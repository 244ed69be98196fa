package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/landing/internal/api"
	"github.com/conneroisu/landing/internal/mockapi"
)

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Serve a local stand-in for the JSONPlaceholder API",
	Long: `Serve generated posts, users, comments and photos in the shape of the
JSONPlaceholder API. The data is generated from --seed, so the same seed always
serves the same records.

Examples:
  landing mock                              # http://localhost:3001
  landing mock --seed 42 --photos 100       # Smaller, different dataset
  landing mock --delay 2s                   # Answer every request slowly
  landing mock --fail comments              # Keep statistics loading`,
	RunE: runMock,
}

var (
	mockDelay time.Duration
	mockFail  []string
)

func init() {
	rootCmd.AddCommand(mockCmd)

	mockCmd.Flags().Int("port", 3001, "Port to serve on")
	mockCmd.Flags().Int64("seed", 1, "Seed of the generated data")
	mockCmd.Flags().Int("posts", 100, "Number of posts")
	mockCmd.Flags().Int("users", 10, "Number of users")
	mockCmd.Flags().Int("comments", 500, "Number of comments")
	mockCmd.Flags().Int("photos", 5000, "Number of photos")
	mockCmd.Flags().DurationVar(&mockDelay, "delay", 0, "Delay every response")
	mockCmd.Flags().StringSliceVar(&mockFail, "fail", nil, "Resources that answer 500 (posts, users, comments, photos)")

	AddFlagValidation(mockCmd, "port", ValidatePort)

	viper.BindPFlag("mock.port", mockCmd.Flags().Lookup("port"))
	viper.BindPFlag("mock.seed", mockCmd.Flags().Lookup("seed"))
	viper.BindPFlag("mock.posts", mockCmd.Flags().Lookup("posts"))
	viper.BindPFlag("mock.users", mockCmd.Flags().Lookup("users"))
	viper.BindPFlag("mock.comments", mockCmd.Flags().Lookup("comments"))
	viper.BindPFlag("mock.photos", mockCmd.Flags().Lookup("photos"))
}

func runMock(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	dataset := mockapi.NewGenerator(cfg.Mock.Seed).Generate(mockapi.Sizes{
		Posts:    cfg.Mock.Posts,
		Users:    cfg.Mock.Users,
		Comments: cfg.Mock.Comments,
		Photos:   cfg.Mock.Photos,
	})

	srv := mockapi.NewServer(dataset, logger)
	if err := applyFaults(srv, mockFail, mockDelay); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf("localhost:%d", cfg.Mock.Port)
	fmt.Fprintf(cmd.OutOrStdout(), "Serving mock API at http://%s\n", addr)
	return srv.ListenAndServe(ctx, addr)
}

func applyFaults(srv *mockapi.Server, failing []string, delay time.Duration) error {
	resources := []string{api.ResourcePosts, api.ResourceUsers, api.ResourceComments, api.ResourcePhotos}

	fail := make(map[string]bool, len(failing))
	for _, name := range failing {
		known := false
		for _, resource := range resources {
			if name == resource {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown resource %q, must be one of: posts, users, comments, photos", name)
		}
		fail[name] = true
	}

	for _, resource := range resources {
		fault := mockapi.Fault{Delay: delay}
		if fail[resource] {
			fault.Status = http.StatusInternalServerError
		}
		srv.SetFault(resource, fault)
	}
	return nil
}
