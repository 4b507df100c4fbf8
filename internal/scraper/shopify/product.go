package shopify

import (
	"fmt"
	"time"

	"StockWatch/internal/models"
	"StockWatch/utils"

	"github.com/go-rod/stealth"
)

// titleJS resolves the product title client-side: h1, then og:title, then
// the document title. Headless themes render each of these at different
// times, so all three are tried in one evaluation.
const titleJS = `() => {
	const pick = (el) => el && el.textContent ? el.textContent.trim() : '';
	const h1 = document.querySelector('h1');
	if (h1 && pick(h1)) return pick(h1);
	const og = document.querySelector('meta[property="og:title"]');
	if (og && og.content) return og.content.trim();
	return document.title || '';
}`

// ScrapeProduct loads one product page and extracts its title and variant
// availability.
func (s *Scraper) ScrapeProduct(url string) (models.Product, error) {
	product := models.Product{
		URL:    url,
		Handle: utils.HandleFromURL(url),
	}

	page, err := stealth.Page(s.Browser)
	if err != nil {
		return product, err
	}
	defer page.MustClose()

	if err := page.Timeout(s.navigateTimeout()).Navigate(url); err != nil {
		return product, fmt.Errorf("navigate product: %w", err)
	}
	if err := page.Timeout(s.navigateTimeout()).WaitLoad(); err != nil {
		return product, fmt.Errorf("wait for load: %w", err)
	}
	// Give frontend scripts a moment to hydrate variant widgets.
	time.Sleep(time.Duration(s.ScraperConf.SettleMS) * time.Millisecond)

	if res, err := page.Eval(titleJS); err == nil {
		product.Title = utils.NormalizeSpace(res.Value.Str())
	}
	if product.Title == "" {
		product.Title = utils.TitleFromHandle(product.Handle)
	}

	html, err := page.HTML()
	if err != nil {
		return product, fmt.Errorf("read page html: %w", err)
	}

	variants, err := ExtractVariants(html)
	if err != nil {
		return product, err
	}
	product.Variants = variants
	return product, nil
}
