package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestRenderHelp_Run(t *testing.T) {
	var buf bytes.Buffer
	renderHelp(&buf, runCmd)
	out := buf.String()

	for _, want := range []string{
		"RUN",
		"Limits",
		"urls per run",
		"100",
		"1s-30s",
		"default 4, advisory",
		"$ scrape run example.com",
		"# Collect all links from a page without following them",
		"-s, --selector string",
		`(default "p, h1, h2, h3")`,
		"Global Flags",
		"--timeout string",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderHelp_Root(t *testing.T) {
	var buf bytes.Buffer
	renderHelp(&buf, rootCmd)
	out := buf.String()

	for _, want := range []string{"Commands", "seeds", "browser", "Crawl seed URLs and extract content", `Use "scrape <command> --help"`} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Limits") {
		t.Error("root help should not list crawl limits")
	}
}

func TestRenderUsage(t *testing.T) {
	var buf bytes.Buffer
	renderUsage(&buf, seedsCmd)
	out := buf.String()

	if !strings.Contains(out, "scrape seeds <file>") || !strings.Contains(out, `Use "scrape seeds --help"`) {
		t.Errorf("unexpected usage output:\n%s", out)
	}
}

func TestFlagNameAndDescription(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.StringP("selector", "s", "p", "CSS selector")
	fs.Bool("json", false, "JSON logs")
	fs.Duration("delay", time.Second, "Pause")
	fs.StringArrayP("header", "H", []string{}, "Headers")

	tests := []struct {
		flag string
		name string
		desc string
	}{
		{"selector", "-s, --selector string", `CSS selector (default "p")`},
		{"json", "    --json", "JSON logs"},
		{"delay", "    --delay duration", "Pause (default 1s)"},
		{"header", "-H, --header stringArray", "Headers"},
	}
	for _, tt := range tests {
		f := fs.Lookup(tt.flag)
		if got := flagName(f); got != tt.name {
			t.Errorf("flagName(%s) = %q, want %q", tt.flag, got, tt.name)
		}
		if got := flagDescription(f); got != tt.desc {
			t.Errorf("flagDescription(%s) = %q, want %q", tt.flag, got, tt.desc)
		}
	}
}
