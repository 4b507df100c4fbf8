package shopify

import (
	"fmt"
	"time"

	"StockWatch/internal/models"
	"StockWatch/pkg/config"
	"StockWatch/utils"

	"github.com/go-rod/rod"
	"github.com/rs/zerolog"
)

// Scraper crawls one storefront collection and its product pages with a
// headless browser. Pages are visited one at a time on a single browser; the
// snapshot file downstream assumes exactly one run touches it at once.
type Scraper struct {
	Browser     *rod.Browser
	SiteConf    config.SiteConfig
	ScraperConf config.ScraperConfig
	logger      zerolog.Logger
}

// New creates a scraper bound to an already-connected browser.
func New(browser *rod.Browser, siteConf config.SiteConfig, scraperConf config.ScraperConfig, logger zerolog.Logger) *Scraper {
	return &Scraper{
		Browser:     browser,
		SiteConf:    siteConf,
		ScraperConf: scraperConf,
		logger:      logger.With().Str("module", "ShopifyScraper").Logger(),
	}
}

// CrawlCatalog walks the collection page for product links, then scrapes each
// product page for its variants. Any failure aborts the whole crawl: a
// partial catalog must never become the new baseline, or every missing
// product would be reported as delisted.
func (s *Scraper) CrawlCatalog() ([]models.Product, error) {
	urls, err := s.CollectProductURLs()
	if err != nil {
		return nil, fmt.Errorf("collecting product urls: %w", err)
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("collection page %s yielded no product links", s.SiteConf.CollectionURL)
	}
	s.logger.Info().Int("products", len(urls)).Msg("Collected product links")

	products := make([]models.Product, 0, len(urls))
	for i, u := range urls {
		product, err := s.ScrapeProduct(u)
		if err != nil {
			return nil, fmt.Errorf("scraping %s: %w", u, err)
		}
		s.logger.Debug().
			Str("title", product.Title).
			Int("variants", len(product.Variants)).
			Msgf("[%d/%d] product scraped", i+1, len(urls))

		products = append(products, product)

		// Light throttling so the storefront does not rate-limit the run.
		if (i+1)%10 == 0 {
			time.Sleep(2 * time.Second)
		}
	}
	return products, nil
}

func (s *Scraper) navigateTimeout() time.Duration {
	return time.Duration(s.ScraperConf.NavigateTimeoutMS) * time.Millisecond
}

func (s *Scraper) absoluteURL(path string) string {
	return s.SiteConf.BaseURL + utils.CanonicalProductPath(path)
}
