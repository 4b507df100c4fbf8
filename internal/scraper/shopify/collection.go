package shopify

import (
	"fmt"
	"strings"
	"time"

	"StockWatch/utils"

	"github.com/go-rod/rod"
	"github.com/go-rod/stealth"
)

// CollectProductURLs walks the collection page and returns the canonical
// product URLs in sorted order. It scrolls until the page stops growing to
// flush lazy-loaded cards, then falls back to ?page=N pagination for themes
// that paginate instead.
func (s *Scraper) CollectProductURLs() ([]string, error) {
	page, err := stealth.Page(s.Browser)
	if err != nil {
		return nil, err
	}
	defer page.MustClose()

	if err := page.Timeout(s.navigateTimeout()).Navigate(s.SiteConf.CollectionURL); err != nil {
		return nil, fmt.Errorf("navigate collection: %w", err)
	}
	page.MustWaitLoad()

	seen := make(map[string]bool)

	lastHeight := 0.0
	for i := 0; i < s.ScraperConf.ScrollRounds; i++ {
		if err := s.collectFromCurrent(page, seen); err != nil {
			return nil, err
		}

		if _, err := page.Eval(`() => window.scrollBy(0, 4000)`); err != nil {
			return nil, fmt.Errorf("scroll collection: %w", err)
		}
		time.Sleep(time.Duration(s.ScraperConf.ScrollPauseMS) * time.Millisecond)

		heightRes, err := page.Eval(`() => document.body.scrollHeight`)
		if err != nil {
			return nil, fmt.Errorf("read page height: %w", err)
		}
		height := heightRes.Value.Num()
		if height == lastHeight {
			break
		}
		lastHeight = height
	}

	// Fallback pagination for themes without infinite scroll.
	for p := 2; p <= s.ScraperConf.MaxPages; p++ {
		pageURL := fmt.Sprintf("%s?page=%d", s.SiteConf.CollectionURL, p)
		if err := page.Timeout(s.navigateTimeout()).Navigate(pageURL); err != nil {
			s.logger.Debug().Err(err).Str("url", pageURL).Msg("Pagination stopped")
			break
		}
		page.MustWaitLoad()

		before := len(seen)
		if err := s.collectFromCurrent(page, seen); err != nil {
			return nil, err
		}
		if len(seen) == before {
			break
		}
	}

	urls := make([]string, 0, len(seen))
	for u := range seen {
		urls = append(urls, u)
	}
	return utils.SortedUnique(urls), nil
}

func (s *Scraper) collectFromCurrent(page *rod.Page, seen map[string]bool) error {
	anchors, err := page.Elements(`a[href^="/products/"]`)
	if err != nil {
		return fmt.Errorf("query product links: %w", err)
	}
	for _, a := range anchors {
		href, err := a.Attribute("href")
		if err != nil || href == nil {
			continue
		}
		if !strings.HasPrefix(*href, "/products/") {
			continue
		}
		seen[s.absoluteURL(*href)] = true
	}
	return nil
}
