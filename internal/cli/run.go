package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/law-makers/scrape/internal/config"
	"github.com/law-makers/scrape/internal/crawler"
	"github.com/law-makers/scrape/internal/engine"
	"github.com/law-makers/scrape/internal/utils/headers"
	"github.com/law-makers/scrape/internal/utils/output"
	"github.com/law-makers/scrape/pkg/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// runOptions holds the flags of the run command
type runOptions struct {
	seedFile   string
	configFile string
	saveConfig string
	output     string

	selector      string
	attribute     string
	regex         string
	contentType   string
	depth         int
	nextPage      string
	headers       []string
	strategy      string
	retries       int
	delay         time.Duration
	maxConcurrent int
}

var runOpts runOptions

var runCmd = &cobra.Command{
	Use:   "run [urls...]",
	Short: "Crawl seed URLs and extract content",
	Long: `Crawl breadth-first from the given seed URLs and extract content from every
visited page with a CSS selector.

Seeds without a scheme get https:// prepended. Links are followed up to
--depth hops from a seed, at most 100 URLs per run. Pages whose content is
identical to an earlier page are dropped from the results.`,
	Example: `  # Extract paragraphs and headings from a site and one level of links
  scrape run example.com

  # Collect all links from a page without following them
  scrape run https://example.com -t links -d 0

  # Render pages in headless Chrome and keep only e-mail addresses
  scrape run example.com -m headless -r '[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}'

  # Follow pagination only and save the results
  scrape run example.com/blog -s "article h2" -n "a.next" -d 5 -o posts.csv

  # Read seeds from a file and save the settings for later
  scrape run -f seeds.txt --save-config crawl.yaml`,
	Annotations: map[string]string{limitsAnnotation: "true"},
	RunE:        runCrawl,
}

func init() {
	addRunFlags(runCmd, &runOpts)
	rootCmd.AddCommand(runCmd)
}

func addRunFlags(cmd *cobra.Command, o *runOptions) {
	f := cmd.Flags()
	f.StringVarP(&o.seedFile, "seeds", "f", "", "File with one seed URL per line")
	f.StringVarP(&o.configFile, "config", "c", "", "Load crawl settings from a .json or .yaml file")
	f.StringVar(&o.saveConfig, "save-config", "", "Save the effective crawl settings to a .json or .yaml file")
	f.StringVarP(&o.output, "output", "o", "", "Save results to a file (.csv or .json)")

	f.StringVarP(&o.selector, "selector", "s", config.DefaultSelector, "CSS selector to extract")
	f.StringVarP(&o.attribute, "attribute", "a", "", "Attribute to collect from matched elements (text mode)")
	f.StringVarP(&o.regex, "regex", "r", "", "Keep only matches of this regular expression")
	f.StringVarP(&o.contentType, "type", "t", config.DefaultContentType, "Content type: text, links, or images")
	f.IntVarP(&o.depth, "depth", "d", config.DefaultCrawlDepth, "Link hops to follow from each seed (0-5)")
	f.StringVarP(&o.nextPage, "next", "n", "", "Only follow links matching this selector (e.g., a.next)")
	f.StringArrayVarP(&o.headers, "header", "H", []string{}, "Custom headers (e.g., -H \"Cookie: key=value\")")
	f.StringVarP(&o.strategy, "mode", "m", "headless", "Fetch mode: http or headless")
	f.IntVar(&o.retries, "retries", config.DefaultRetryAttempts, "Retry attempts for failed fetches (0-5)")
	f.DurationVar(&o.delay, "delay", config.DefaultScrapeDelay, "Pause between page visits (max 5s)")
	f.IntVar(&o.maxConcurrent, "concurrency", config.DefaultMaxConcurrent, "Max concurrent requests (1-10, advisory)")
}

// buildCrawlConfig merges the crawl file (or defaults), flags that were set
// explicitly, positional seeds and the seed file into one configuration.
func buildCrawlConfig(cmd *cobra.Command, args []string, o *runOptions, appCfg *config.Config) (models.CrawlConfig, error) {
	file := config.DefaultCrawlFile()
	if o.configFile != "" {
		loaded, err := config.LoadCrawlFile(o.configFile)
		if err != nil {
			return models.CrawlConfig{}, err
		}
		file = loaded
	}

	cc := file.CrawlConfig()
	if o.configFile == "" {
		cc.Timeout = appCfg.HTTPTimeout
	}

	changed := cmd.Flags().Changed
	if changed("type") {
		cc.Mode = models.ParseContentMode(o.contentType)
		if !changed("selector") {
			cc.Selector = config.SelectorForMode(cc.Mode)
		}
	}
	if changed("selector") {
		cc.Selector = o.selector
	}
	if changed("attribute") {
		cc.Attribute = o.attribute
	}
	if changed("regex") {
		cc.Pattern = o.regex
	}
	if changed("depth") {
		cc.MaxDepth = o.depth
	}
	if changed("next") {
		cc.NextPageSelector = o.nextPage
	}
	if changed("mode") {
		strategy, err := models.ParseFetchStrategy(o.strategy)
		if err != nil {
			return models.CrawlConfig{}, engine.NewEngineError(engine.ErrCodeInvalidConfig, err.Error(), nil)
		}
		cc.Strategy = strategy
	}
	if changed("retries") {
		cc.RetryAttempts = o.retries
	}
	if changed("delay") {
		cc.Delay = o.delay
	}
	if changed("concurrency") {
		cc.MaxConcurrent = o.maxConcurrent
	}
	if f := cmd.Flags().Lookup("timeout"); f != nil && f.Changed {
		cc.Timeout = appCfg.HTTPTimeout
	}
	if appCfg.Proxy != "" {
		cc.Proxy = appCfg.Proxy
	}
	cc.UserAgent = appCfg.UserAgent

	if len(o.headers) > 0 {
		if cc.Headers == nil {
			cc.Headers = make(map[string]string)
		}
		for k, v := range headers.ParseHeaders(o.headers) {
			cc.Headers[k] = v
		}
	}

	if len(args) > 0 {
		// positional seeds replace any stored in the crawl file
		cc.Seeds = append([]string(nil), args...)
	}
	if o.seedFile != "" {
		seeds, err := crawler.LoadSeedFile(o.seedFile)
		if err != nil {
			return models.CrawlConfig{}, err
		}
		cc.Seeds = append(cc.Seeds, seeds...)
	}

	if err := config.ValidateCrawl(cc); err != nil {
		return models.CrawlConfig{}, err
	}
	return cc, nil
}

func runCrawl(cmd *cobra.Command, args []string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}

	cc, err := buildCrawlConfig(cmd, args, &runOpts, a.Config)
	if err != nil {
		return err
	}

	if runOpts.saveConfig != "" {
		if err := config.SaveCrawlFile(runOpts.saveConfig, config.NewCrawlFile(cc)); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		log.Info().Str("path", runOpts.saveConfig).Msg("Crawl config saved")
	}

	if len(cc.Seeds) == 0 {
		return engine.NewEngineError(engine.ErrCodeEmptySeedList, "no seed URLs given (pass URLs, --seeds or --config)", nil)
	}

	c, err := a.NewCrawler(cc)
	if err != nil {
		return err
	}

	quiet := a.Config.LogLevel == "error" || a.Config.JSONLog
	progress := newProgressReporter(os.Stderr, quiet)
	events := c.Events()

	type outcome struct {
		records []models.Record
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		records, err := c.Run(cmd.Context())
		done <- outcome{records, err}
	}()

	for ev := range events {
		progress.Handle(ev)
	}
	res := <-done
	progress.Finish()

	if res.err != nil && errors.Is(res.err, engine.ErrEmptySeedList) {
		return res.err
	}

	if err := emitResults(cmd, res.records, a.Config.JSONLog); err != nil {
		return err
	}

	snap := c.Snapshot()
	if !quiet {
		fmt.Fprintln(os.Stderr, summaryLine(snap))
	}

	return res.err
}

// emitResults saves records to --output, or prints them to stdout
func emitResults(cmd *cobra.Command, records []models.Record, asJSON bool) error {
	if runOpts.output != "" {
		if err := output.Save(records, runOpts.output); err != nil {
			if errors.Is(err, output.ErrNoData) {
				log.Warn().Str("path", runOpts.output).Msg("No results to save")
				return nil
			}
			return fmt.Errorf("failed to save results: %w", err)
		}
		log.Info().Str("path", runOpts.output).Int("records", len(records)).Msg("Results saved")
		return nil
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if records == nil {
			records = []models.Record{}
		}
		return enc.Encode(records)
	}

	if len(records) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), renderResults(records))
	}
	return nil
}
