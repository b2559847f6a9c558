// internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/law-makers/scrape/internal/app"
	"github.com/law-makers/scrape/internal/config"
	"github.com/law-makers/scrape/internal/ui"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scrape",
	Short: "A bounded web crawler with CSS-selector extraction",
	Long: `Scrape crawls from one or more seed URLs, extracts text, links, images or
attributes with a CSS selector and follows links up to a fixed depth.

Pages can be fetched over plain HTTP or rendered in headless Chrome for
JavaScript-heavy sites. A single run never visits more than 100 URLs.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with ctx and returns the process exit code.
// Cancelling ctx aborts a running crawl.
func Execute(ctx context.Context) int {
	defer closeApp()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ui.Error("Error:"), err)
		return 1
	}
	return 0
}

func init() {
	// Lazily initialize the application before running commands (avoid starting app for -h/help)
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if GetAppFromCmd(cmd) != nil {
			return nil
		}

		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}

		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		SetApp(cmd, a)
		log.Debug().Str("user_agent", cfg.UserAgent).Msg("Configuration loaded")
		return nil
	}
}

func init() {
	// Register centralized flags
	config.RegisterFlags(rootCmd)

	// Customize help and version flag descriptions
	rootCmd.Flags().BoolP("help", "h", false, "Help for Scrape")
	rootCmd.Flags().Bool("version", false, "Version for Scrape")
}
