package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/law-makers/scrape/internal/crawler"
	"github.com/law-makers/scrape/internal/engine"
	"github.com/law-makers/scrape/internal/ui"
	urlutil "github.com/law-makers/scrape/internal/utils/url"
	"github.com/spf13/cobra"
)

var seedsCmd = &cobra.Command{
	Use:   "seeds <file>",
	Short: "Check a seed file",
	Long: `Read a seed file (one URL per line, blank lines and # comments ignored)
and show how each entry is normalized. Fails if no entry is usable.`,
	Example: `  # Check seeds before a long crawl
  scrape seeds seeds.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runSeeds,
}

func init() {
	rootCmd.AddCommand(seedsCmd)
}

func runSeeds(cmd *cobra.Command, args []string) error {
	seeds, err := crawler.LoadSeedFile(args[0])
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Seed", "URL"})

	valid := 0
	for i, seed := range seeds {
		normalized, err := urlutil.Normalize(seed)
		if err != nil {
			t.AppendRow(table.Row{i + 1, seed, ui.Error(err.Error())})
			continue
		}
		valid++
		t.AppendRow(table.Row{i + 1, seed, normalized})
	}
	t.Render()

	if valid == 0 {
		return engine.NewEngineError(engine.ErrCodeEmptySeedList, "no valid seed URLs", nil)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d seeds usable\n", valid, len(seeds))
	return nil
}
