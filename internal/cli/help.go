package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/law-makers/scrape/internal/config"
	"github.com/law-makers/scrape/internal/ui"
	"github.com/law-makers/scrape/pkg/models"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// limitsAnnotation marks commands whose help lists the crawl limits
const limitsAnnotation = "scrape/limits"

const (
	helpWidth     = 80
	flagDescWidth = 56
)

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		renderHelp(cmd.OutOrStdout(), cmd)
	})
	rootCmd.SetUsageFunc(func(cmd *cobra.Command) error {
		renderUsage(cmd.ErrOrStderr(), cmd)
		return nil
	})
}

// renderHelp writes the colorized help page of cmd
func renderHelp(w io.Writer, cmd *cobra.Command) {
	fmt.Fprintf(w, "\n%s\n", ui.Bold(ui.ColorCyan+strings.ToUpper(cmd.Name())))
	if cmd.Short != "" {
		fmt.Fprintln(w, cmd.Short)
	}
	if cmd.Long != "" && cmd.Long != cmd.Short {
		fmt.Fprintf(w, "\n%s\n", text.WrapSoft(cmd.Long, helpWidth))
	}

	writeUsageLines(w, cmd)

	if cmd.HasExample() {
		section(w, "Examples")
		writeExamples(w, cmd.Example)
	}
	if cmd.Annotations[limitsAnnotation] != "" {
		section(w, "Limits")
		writeLimits(w)
	}
	if cmd.HasAvailableSubCommands() {
		section(w, "Commands")
		writeCommands(w, cmd)
	}
	if cmd.HasAvailableLocalFlags() {
		section(w, "Flags")
		writeFlags(w, cmd.LocalFlags())
	}
	if cmd.HasAvailableInheritedFlags() {
		section(w, "Global Flags")
		writeFlags(w, cmd.InheritedFlags())
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "\n%sUse \"%s <command> --help\" for more information about a command.%s\n",
			ui.ColorDim, cmd.CommandPath(), ui.ColorReset)
	}
	fmt.Fprintln(w)
}

// renderUsage is the short form printed after a usage error
func renderUsage(w io.Writer, cmd *cobra.Command) {
	writeUsageLines(w, cmd)
	if cmd.HasAvailableLocalFlags() {
		section(w, "Flags")
		writeFlags(w, cmd.LocalFlags())
	}
	fmt.Fprintf(w, "\n%sUse \"%s --help\" for more information.%s\n", ui.ColorDim, cmd.CommandPath(), ui.ColorReset)
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", ui.Bold(ui.ColorWhite+title))
}

func writeUsageLines(w io.Writer, cmd *cobra.Command) {
	section(w, "Usage")
	if cmd.Runnable() {
		fmt.Fprintf(w, "  %s%s%s\n", ui.ColorCyan, cmd.UseLine(), ui.ColorReset)
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "  %s%s%s %s<command>%s %s[flags]%s\n",
			ui.ColorCyan, cmd.CommandPath(), ui.ColorReset,
			ui.ColorYellow, ui.ColorReset,
			ui.ColorDim, ui.ColorReset)
	}
}

// writeExamples prints # lines as dimmed comments and everything else as a
// shell command, with a blank line before each comment that follows a command
func writeExamples(w io.Writer, example string) {
	lastWasCommand := false
	for _, line := range strings.Split(example, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "#"):
			if lastWasCommand {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "  %s%s%s\n", ui.ColorDim, line, ui.ColorReset)
			lastWasCommand = false
		default:
			fmt.Fprintf(w, "  %s$ %s%s\n", ui.ColorGreen, line, ui.ColorReset)
			lastWasCommand = true
		}
	}
}

// newHelpTable returns a borderless table indented like the rest of the help page
func newHelpTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateHeader = false
	t.Style().Box.PaddingLeft = "  "
	t.Style().Box.PaddingRight = ""
	return t
}

func writeCommands(w io.Writer, cmd *cobra.Command) {
	t := newHelpTable(w)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Colors: text.Colors{text.FgCyan}},
		{Number: 2, Colors: text.Colors{text.Faint}},
	})
	for _, c := range cmd.Commands() {
		if c.IsAvailableCommand() && c.Name() != "help" {
			t.AppendRow(table.Row{c.Name(), c.Short})
		}
	}
	t.Render()
}

func writeFlags(w io.Writer, flags *pflag.FlagSet) {
	t := newHelpTable(w)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Colors: text.Colors{text.FgGreen}},
		{Number: 2, Colors: text.Colors{text.Faint}, WidthMax: flagDescWidth, WidthMaxEnforcer: text.WrapSoft},
	})
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		t.AppendRow(table.Row{flagName(f), flagDescription(f)})
	})
	t.Render()
}

// flagName renders "-s, --selector string"; bool flags carry no type
func flagName(f *pflag.Flag) string {
	name := "    --" + f.Name
	if f.Shorthand != "" {
		name = "-" + f.Shorthand + ", --" + f.Name
	}
	if typ := f.Value.Type(); typ != "bool" {
		name += " " + typ
	}
	return name
}

func flagDescription(f *pflag.Flag) string {
	switch f.DefValue {
	case "", "false", "[]", "0":
		return f.Usage
	}
	if f.Value.Type() == "string" {
		return fmt.Sprintf("%s (default %q)", f.Usage, f.DefValue)
	}
	return fmt.Sprintf("%s (default %s)", f.Usage, f.DefValue)
}

// writeLimits lists the accepted range and default of every bounded crawl setting
func writeLimits(w io.Writer) {
	t := newHelpTable(w)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Colors: text.Colors{text.FgYellow}},
	})
	t.AppendRows([]table.Row{
		{"depth", fmt.Sprintf("0-%d", config.MaxCrawlDepth), fmt.Sprintf("default %d", config.DefaultCrawlDepth)},
		{"retries", fmt.Sprintf("0-%d", config.MaxRetryAttempts), fmt.Sprintf("default %d", config.DefaultRetryAttempts)},
		{"delay", fmt.Sprintf("0s-%s", config.MaxScrapeDelay), fmt.Sprintf("default %s", config.DefaultScrapeDelay)},
		{"timeout", fmt.Sprintf("%s-%s", config.MinRequestTimeout, config.MaxRequestTimeout), fmt.Sprintf("default %s", config.DefaultHTTPTimeout)},
		{"concurrency", fmt.Sprintf("1-%d", config.MaxMaxConcurrent), fmt.Sprintf("default %d, advisory", config.DefaultMaxConcurrent)},
		{"urls per run", fmt.Sprintf("%d", models.VisitCap), "seeds included"},
	})
	t.Render()
}
