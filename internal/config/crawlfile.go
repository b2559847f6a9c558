package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/law-makers/scrape/internal/engine"
	"github.com/law-makers/scrape/internal/utils/headers"
	"github.com/law-makers/scrape/pkg/models"
	"gopkg.in/yaml.v3"
)

// CrawlFile is the saved form of a crawl configuration. Numeric fields are
// floats and seeds are a single comma-separated string so documents written
// by earlier versions of the tool still load.
type CrawlFile struct {
	URLInput         string  `json:"url_input" yaml:"url_input"`
	SelectorInput    string  `json:"selector_input" yaml:"selector_input"`
	AttributeInput   string  `json:"attribute_input" yaml:"attribute_input"`
	RegexInput       string  `json:"regex_input" yaml:"regex_input"`
	TimeoutSecs      float64 `json:"timeout_secs" yaml:"timeout_secs"`
	CrawlDepth       float64 `json:"crawl_depth" yaml:"crawl_depth"`
	NextPageSelector string  `json:"next_page_selector" yaml:"next_page_selector"`
	CustomHeaders    string  `json:"custom_headers" yaml:"custom_headers"`
	Proxy            string  `json:"proxy" yaml:"proxy"`
	MaxConcurrent    float64 `json:"max_concurrent" yaml:"max_concurrent"`
	ContentType      string  `json:"content_type" yaml:"content_type"`
	RetryAttempts    float64 `json:"retry_attempts" yaml:"retry_attempts"`
	ScrapeDelay      float64 `json:"scrape_delay" yaml:"scrape_delay"`
	UseHeadless      bool    `json:"use_headless" yaml:"use_headless"`
}

// DefaultCrawlFile returns the document a new crawl starts from
func DefaultCrawlFile() CrawlFile {
	return CrawlFile{
		SelectorInput: DefaultSelector,
		TimeoutSecs:   DefaultHTTPTimeout.Seconds(),
		CrawlDepth:    DefaultCrawlDepth,
		MaxConcurrent: DefaultMaxConcurrent,
		ContentType:   DefaultContentType,
		RetryAttempts: DefaultRetryAttempts,
		ScrapeDelay:   DefaultScrapeDelay.Seconds(),
		UseHeadless:   DefaultUseHeadless,
	}
}

// NewCrawlFile converts a crawl configuration to its saved form
func NewCrawlFile(c models.CrawlConfig) CrawlFile {
	return CrawlFile{
		URLInput:         strings.Join(c.Seeds, ", "),
		SelectorInput:    c.Selector,
		AttributeInput:   c.Attribute,
		RegexInput:       c.Pattern,
		TimeoutSecs:      c.Timeout.Seconds(),
		CrawlDepth:       float64(c.MaxDepth),
		NextPageSelector: c.NextPageSelector,
		CustomHeaders:    headers.Format(c.Headers),
		Proxy:            c.Proxy,
		MaxConcurrent:    float64(c.MaxConcurrent),
		ContentType:      string(c.Mode),
		RetryAttempts:    float64(c.RetryAttempts),
		ScrapeDelay:      c.Delay.Seconds(),
		UseHeadless:      c.Strategy == models.StrategyHeadless,
	}
}

// CrawlConfig converts the document into a crawl configuration. Seeds are
// split on commas and newlines; header lines that do not parse are dropped.
func (f CrawlFile) CrawlConfig() models.CrawlConfig {
	strategy := models.StrategyHTTP
	if f.UseHeadless {
		strategy = models.StrategyHeadless
	}

	return models.CrawlConfig{
		Seeds:            SplitSeeds(f.URLInput),
		Selector:         f.SelectorInput,
		Attribute:        f.AttributeInput,
		Pattern:          f.RegexInput,
		Mode:             models.ParseContentMode(f.ContentType),
		MaxDepth:         int(f.CrawlDepth),
		NextPageSelector: f.NextPageSelector,
		Headers:          headers.ParseLines(f.CustomHeaders),
		Proxy:            f.Proxy,
		Timeout:          seconds(f.TimeoutSecs),
		Delay:            seconds(f.ScrapeDelay),
		Strategy:         strategy,
		RetryAttempts:    int(f.RetryAttempts),
		MaxConcurrent:    int(f.MaxConcurrent),
	}
}

// SplitSeeds splits a comma or newline separated URL list, dropping blanks
func SplitSeeds(s string) []string {
	var seeds []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' || r == '\r' }) {
		if part = strings.TrimSpace(part); part != "" {
			seeds = append(seeds, part)
		}
	}
	return seeds
}

// SelectorForMode returns the selector used for a content type when none is given
func SelectorForMode(mode models.ContentMode) string {
	if sel, ok := modeSelectors[string(mode)]; ok {
		return sel
	}
	return DefaultSelector
}

// LoadCrawlFile reads a crawl document. Files ending in .yaml or .yml are
// YAML, everything else is JSON. Keys missing from the file keep their defaults.
func LoadCrawlFile(path string) (CrawlFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CrawlFile{}, fmt.Errorf("failed to read config file: %w", err)
	}

	f := DefaultCrawlFile()
	if isYAML(path) {
		err = yaml.Unmarshal(data, &f)
	} else {
		err = json.Unmarshal(data, &f)
	}
	if err != nil {
		return CrawlFile{}, engine.NewEngineError(engine.ErrCodeInvalidConfig,
			fmt.Sprintf("failed to parse %s", path), err)
	}
	return f, nil
}

// SaveCrawlFile writes a crawl document, choosing the format like LoadCrawlFile
func SaveCrawlFile(path string, f CrawlFile) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(f)
	} else {
		data, err = json.MarshalIndent(f, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func seconds(s float64) time.Duration {
	if s <= 0 || math.IsNaN(s) {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}
