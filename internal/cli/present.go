package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/law-makers/scrape/internal/crawler"
	"github.com/law-makers/scrape/internal/ui"
	"github.com/law-makers/scrape/pkg/models"
	"github.com/schollz/progressbar/v3"
)

const (
	tableURLWidth     = 50
	tablePreviewWidth = 70
)

// progressReporter renders crawl events as status lines under a progress bar
type progressReporter struct {
	w     io.Writer
	quiet bool
	bar   *progressbar.ProgressBar
}

func newProgressReporter(w io.Writer, quiet bool) *progressReporter {
	p := &progressReporter{w: w, quiet: quiet}
	if !quiet {
		p.bar = progressbar.NewOptions(1,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription("Scraping"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionClearOnFinish(),
		)
	}
	return p
}

// Handle prints the event line and moves the bar
func (p *progressReporter) Handle(ev crawler.Event) {
	if p.quiet {
		return
	}

	_ = p.bar.Clear()
	fmt.Fprintln(p.w, formatEvent(ev))

	if ev.Total > 0 {
		p.bar.ChangeMax(ev.Total)
		_ = p.bar.Set(ev.Processed)
	}
}

// Finish removes the bar
func (p *progressReporter) Finish() {
	if p.quiet {
		return
	}
	_ = p.bar.Finish()
}

func formatEvent(ev crawler.Event) string {
	stamp := ui.ColorDim + ev.Time.Format("15:04:05") + ui.ColorReset
	switch ev.Kind {
	case crawler.EventScraped, crawler.EventCompleted:
		return stamp + " " + ui.Success(ev.Message)
	case crawler.EventError, crawler.EventLinkError, crawler.EventAborted:
		return stamp + " " + ui.Error(ev.Message)
	case crawler.EventNoResults:
		return stamp + " " + ui.Info(ev.Message)
	default:
		return stamp + " " + ui.Bold(ev.Message)
	}
}

// renderResults formats records as a table with one row per record
func renderResults(records []models.Record) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.Style().Options.SeparateRows = true
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: tableURLWidth, WidthMaxEnforcer: text.Trim},
		{Number: 3, WidthMax: tablePreviewWidth, WidthMaxEnforcer: text.Trim},
	})

	t.AppendHeader(table.Row{"#", "URL", "Content", "Attributes"})
	for i, r := range records {
		t.AppendRow(table.Row{i + 1, r.URL, preview(r.Content), preview(r.Attributes)})
	}
	t.AppendFooter(table.Row{"", "Total", len(records), ""})

	return t.Render()
}

// preview flattens multi-line content onto one line
func preview(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "\n", " | ")), " ")
}

func summaryLine(snap crawler.Snapshot) string {
	elapsed := snap.FinishedAt.Sub(snap.StartedAt).Round(time.Millisecond)
	status := ui.Success(string(snap.Status))
	if snap.Status == crawler.StatusAborted {
		status = ui.Error(string(snap.Status))
	}
	return fmt.Sprintf("%s %d records from %d pages in %s (run %s)",
		status, len(snap.Results), snap.Processed, elapsed, snap.RunID)
}
