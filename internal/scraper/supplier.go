package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/voltscout/supplier-scraper/internal/models"
	"github.com/voltscout/supplier-scraper/internal/ratelimit"
	"github.com/voltscout/supplier-scraper/internal/suppliers"
)

// SupplierScraper drives one supplier's product, deal and coupon pages.
// Each public operation owns its page for its whole lifetime; failures are
// recovered as close to their origin as possible so one bad card or page
// never costs the rest of the run.
type SupplierScraper struct {
	browser     Browser
	cfg         suppliers.Supplier
	limiter     ratelimit.Limiter
	logger      *slog.Logger
	waitTimeout time.Duration
}

func NewSupplierScraper(b Browser, cfg suppliers.Supplier, limiter ratelimit.Limiter) *SupplierScraper {
	return &SupplierScraper{
		browser:     b,
		cfg:         cfg,
		limiter:     limiter,
		logger:      slog.Default().With("component", "supplier_scraper", "supplier", cfg.Name),
		waitTimeout: 10 * time.Second,
	}
}

// Supplier returns the configuration this scraper was built for.
func (s *SupplierScraper) Supplier() suppliers.Supplier {
	return s.cfg
}

// ScrapeProducts visits every listing URL of the requested category (all
// categories when empty) in configuration order and aggregates the
// normalized products in visitation order. An unknown category is an empty
// scrape, not an error. Only a failure to acquire a page propagates.
func (s *SupplierScraper) ScrapeProducts(ctx context.Context, category string) ([]models.ScrapedProduct, error) {
	categories := s.cfg.CategoryURLs(category)
	if len(categories) == 0 {
		s.logger.Info("no listing urls for category", "category", category)
		return []models.ScrapedProduct{}, nil
	}

	page, err := s.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	defer page.Close()

	products := []models.ScrapedProduct{}
	first := true

	for _, cat := range categories {
		for _, url := range cat.URLs {
			if !first {
				// Politeness pause between page visits.
				if err := s.limiter.Wait(ctx); err != nil {
					return products, err
				}
			}
			first = false

			found := s.scrapeListingPage(page, url, cat.Name)
			products = append(products, found...)

			s.logger.Info("scraped listing page",
				"url", url, "category", cat.Name, "products", len(found))
		}
	}

	return products, nil
}

// ScrapeDeals visits the supplier's promotions page once. A supplier with
// no configured deals URL is a defined no-op; no page is acquired.
func (s *SupplierScraper) ScrapeDeals(ctx context.Context) ([]models.ScrapedDeal, error) {
	if s.cfg.DealsURL == "" {
		s.logger.Info("supplier has no deals page configured")
		return []models.ScrapedDeal{}, nil
	}

	page, err := s.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	defer page.Close()

	doc := s.loadPage(page, s.cfg.DealsURL, combined(s.cfg.Deals.Card))
	if doc == nil {
		return []models.ScrapedDeal{}, nil
	}

	deals := []models.ScrapedDeal{}
	for _, raw := range ExtractDeals(doc, s.cfg.Deals) {
		deal := NormalizeDeal(s.cfg, raw, s.cfg.DealsURL)
		if deal == nil {
			// No parseable price means no deal worth surfacing.
			continue
		}
		deals = append(deals, *deal)
	}

	s.logger.Info("scraped deals page", "url", s.cfg.DealsURL, "deals", len(deals))
	return deals, nil
}

// ScrapeCoupons visits the supplier's voucher page once. A supplier with no
// configured coupons URL is a defined no-op; no page is acquired.
func (s *SupplierScraper) ScrapeCoupons(ctx context.Context) ([]models.ScrapedCoupon, error) {
	if s.cfg.CouponsURL == "" {
		s.logger.Info("supplier has no coupons page configured")
		return []models.ScrapedCoupon{}, nil
	}

	page, err := s.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	defer page.Close()

	doc := s.loadPage(page, s.cfg.CouponsURL, combined(s.cfg.Coupons.Item))
	if doc == nil {
		return []models.ScrapedCoupon{}, nil
	}

	coupons := []models.ScrapedCoupon{}
	for _, raw := range ExtractCoupons(doc, s.cfg.Coupons, s.logger) {
		coupon := NormalizeCoupon(s.cfg, raw, s.cfg.CouponsURL)
		if coupon == nil {
			continue
		}
		coupons = append(coupons, *coupon)
	}

	s.logger.Info("scraped coupons page", "url", s.cfg.CouponsURL, "coupons", len(coupons))
	return coupons, nil
}

// scrapeListingPage runs the per-page state machine: navigate, wait for
// cards, trigger lazy loading, extract, normalize. Every step failure
// degrades to zero products from this page so the category loop continues.
func (s *SupplierScraper) scrapeListingPage(page Page, url, category string) []models.ScrapedProduct {
	doc := s.loadPage(page, url, combined(s.cfg.Products.Card))
	if doc == nil {
		return nil
	}

	subcategory := subcategoryFromURL(url, category)

	var products []models.ScrapedProduct
	for _, raw := range ExtractProducts(doc, s.cfg.Products, s.logger) {
		product := NormalizeProduct(s.cfg, raw, category, subcategory)
		if product == nil {
			continue
		}
		products = append(products, *product)
	}

	return products
}

// loadPage performs the shared navigate / wait / scroll / parse sequence.
// Nil means the page yielded nothing usable; the reason is already logged.
func (s *SupplierScraper) loadPage(page Page, url, cardSelector string) *goquery.Document {
	if err := page.Navigate(url); err != nil {
		s.logger.Warn("navigation failed, skipping page", "url", url, "error", err)
		return nil
	}

	if err := page.WaitForAny(cardSelector, s.waitTimeout); err != nil {
		s.logger.Warn("no cards appeared, skipping page", "url", url, "error", err)
		return nil
	}

	if err := page.ScrollToEnd(); err != nil {
		s.logger.Warn("lazy-load scroll failed, skipping page", "url", url, "error", err)
		return nil
	}

	html, err := page.Content()
	if err != nil {
		s.logger.Warn("failed to read page content", "url", url, "error", err)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		s.logger.Warn("failed to parse page html", "url", url, "error", err)
		return nil
	}

	return doc
}

// subcategoryFromURL reads the path segment after the category, when the
// listing URL drills one level deeper.
func subcategoryFromURL(url, category string) string {
	if category == "" {
		return ""
	}
	marker := "/" + category + "/"
	idx := strings.Index(url, marker)
	if idx < 0 {
		return ""
	}
	rest := url[idx+len(marker):]
	if cut := strings.IndexAny(rest, "/?#"); cut >= 0 {
		rest = rest[:cut]
	}
	return rest
}
