// internal/engine/extract/links.go
package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/law-makers/scrape/internal/engine"
	urlutil "github.com/law-makers/scrape/internal/utils/url"
	"github.com/rs/zerolog/log"
)

const defaultLinkSelector = "a"

var anchors = cascadia.MustCompile(defaultLinkSelector)

// DiscoverLinks returns the absolute http(s) URLs of the hrefs on a page, in
// document order. When nextSelector is set only matching elements are
// considered; if it does not compile every anchor is used instead.
// Duplicates are kept.
func DiscoverLinks(markup, pageURL, nextSelector string) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, engine.NewEngineError(engine.ErrCodeInvalidURL, "invalid page URL", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, engine.NewEngineError(engine.ErrCodeParseError, "failed to parse markup", err)
	}

	var matcher goquery.Matcher = anchors
	if nextSelector != "" {
		if sel, err := cascadia.Compile(nextSelector); err == nil {
			matcher = sel
		} else {
			log.Debug().Str("selector", nextSelector).Err(err).Msg("Next-page selector invalid, using all anchors")
		}
	}

	var links []string
	doc.FindMatcher(matcher).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		abs, err := urlutil.Resolve(base, href)
		if err != nil {
			return
		}
		links = append(links, abs)
	})

	return links, nil
}
