package cli

import (
	"fmt"

	"github.com/law-makers/scrape/internal/engine/dynamic"
	"github.com/law-makers/scrape/internal/ui"
	"github.com/spf13/cobra"
)

var browserCmd = &cobra.Command{
	Use:   "browser",
	Short: "Show the Chrome used for headless fetching",
	Long: `Locate the Chrome-compatible browser used by --mode headless.
Set CHROME_PATH to override discovery.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := dynamic.FindChrome()
		if a := GetAppFromCmd(cmd); a != nil && a.Config.ChromePath != "" {
			path = a.Config.ChromePath
		}
		if path == "" {
			return fmt.Errorf("no Chrome-compatible browser found; install Chrome or set %s", dynamic.ChromeEnv)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n%s %s\n",
			ui.Bold("Path:   "), path,
			ui.Bold("Version:"), dynamic.ChromeVersion(path))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(browserCmd)
}
