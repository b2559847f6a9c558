// internal/engine/extract/extractor.go
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/law-makers/scrape/internal/engine"
	"github.com/law-makers/scrape/pkg/models"
	"golang.org/x/net/html"
)

// Rule describes what to pull out of a page
type Rule struct {
	Selector  string
	Attribute string
	Pattern   string
	Mode      models.ContentMode
}

// Extractor applies a Rule to page markup. It holds no mutable state and is
// safe for concurrent use.
type Extractor struct {
	rule    Rule
	pattern *regexp.Regexp
}

// New validates the rule. A malformed regex is a configuration error; a
// malformed selector is reported per page as INVALID_SELECTOR.
func New(rule Rule) (*Extractor, error) {
	e := &Extractor{rule: rule}
	if e.rule.Mode == "" {
		e.rule.Mode = models.ModeText
	}

	if rule.Pattern != "" {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, engine.NewEngineError(engine.ErrCodeInvalidConfig,
				fmt.Sprintf("invalid regex %q", rule.Pattern), err)
		}
		e.pattern = re
	}

	return e, nil
}

// Extract runs the rule against markup fetched from pageURL
func (e *Extractor) Extract(pageURL, markup string) (models.Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return models.Record{}, engine.NewEngineError(engine.ErrCodeParseError, "failed to parse markup", err)
	}

	sel, err := cascadia.Compile(e.rule.Selector)
	if err != nil {
		return models.Record{}, engine.NewEngineError(engine.ErrCodeInvalidSelector,
			fmt.Sprintf("invalid selector '%s'", e.rule.Selector), err)
	}

	matches := doc.FindMatcher(sel)
	if matches.Length() == 0 {
		return models.Record{}, engine.NewEngineError(engine.ErrCodeNoMatch,
			fmt.Sprintf("no elements found for selector '%s'", e.rule.Selector), nil)
	}

	var parts []string
	switch e.rule.Mode {
	case models.ModeText:
		matches.Each(func(_ int, s *goquery.Selection) {
			if text := visibleText(s); text != "" {
				parts = append(parts, text)
			}
		})
	case models.ModeLinks:
		parts = attrValues(matches, "href")
	case models.ModeImages:
		parts = attrValues(matches, "src")
	default:
		return models.Record{}, engine.NewEngineError(engine.ErrCodeInvalidMode,
			fmt.Sprintf("unknown content type '%s'", e.rule.Mode), nil)
	}
	content := strings.Join(parts, "\n")

	if e.pattern != nil {
		found := e.pattern.FindAllString(content, -1)
		if len(found) == 0 {
			return models.Record{}, engine.NewEngineError(engine.ErrCodeNoRegexMatch,
				fmt.Sprintf("no matches for regex '%s'", e.pattern.String()), nil)
		}
		content = strings.Join(found, "\n")
	}

	var attributes string
	if e.rule.Mode == models.ModeText && e.rule.Attribute != "" {
		attributes = strings.Join(attrValues(matches, e.rule.Attribute), "\n")
	}

	if content == "" {
		return models.Record{}, engine.NewEngineError(engine.ErrCodeEmptyContent, "no content extracted", nil)
	}

	return models.Record{
		URL:        pageURL,
		Content:    content,
		Attributes: attributes,
	}, nil
}

// attrValues collects the raw values of name, in document order. Elements
// without the attribute are skipped; empty values are kept.
func attrValues(s *goquery.Selection, name string) []string {
	var values []string
	s.Each(func(_ int, el *goquery.Selection) {
		if v, ok := el.Attr(name); ok {
			values = append(values, v)
		}
	})
	return values
}

// visibleText returns the element's text with runs of whitespace collapsed.
// Text inside script, style, noscript and template elements is ignored.
func visibleText(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		collectText(n, &b)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func collectText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		b.WriteByte(' ')
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "noscript", "template":
			return
		}
	case html.CommentNode:
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}
