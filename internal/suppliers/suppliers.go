package suppliers

import (
	"fmt"
	"net/url"
)

// Selectors is a prioritized fallback list of CSS selectors for one field,
// narrowest first. Category templates drift across a single site, so every
// field is resolved against several candidates.
type Selectors []string

// ProductSelectors locates product cards and their fields on listing pages.
type ProductSelectors struct {
	Card        Selectors
	Name        Selectors
	Price       Selectors
	WasPrice    Selectors
	Image       Selectors
	Link        Selectors
	SKU         Selectors
	SKUAttr     string // attribute holding the SKU on the card itself, e.g. data-sku
	Stock       Selectors
	Brand       Selectors
	Description Selectors
}

// DealSelectors locates deal cards on a supplier's promotions page.
type DealSelectors struct {
	Card     Selectors
	Title    Selectors
	Price    Selectors
	WasPrice Selectors
	Expiry   Selectors
	SKUAttr  string
}

// CouponSelectors locates coupon items on a supplier's voucher page.
type CouponSelectors struct {
	Item        Selectors
	Code        Selectors
	CodeAttr    string
	Description Selectors
	Expiry      Selectors
}

// Category is one navigable slice of a supplier's catalog. URLs are listed
// in scrape order.
type Category struct {
	Name string
	URLs []string
}

// Supplier is the static configuration for one scrape target, consumed
// read-only by the scraper.
type Supplier struct {
	Name       string
	Tag        string // short prefix used when synthesizing SKUs
	BaseURL    string
	DealsURL   string // empty when the supplier has no promotions page
	CouponsURL string // empty when the supplier has no voucher page
	Categories []Category
	Brands     []string // known brands for inference when cards carry none
	Products   ProductSelectors
	Deals      DealSelectors
	Coupons    CouponSelectors
}

// CategoryURLs returns the listing URLs for one category, or every category
// in registry order when name is empty. An unknown name yields nil, not an
// error; the caller treats that as an empty scrape.
func (s *Supplier) CategoryURLs(name string) []Category {
	if name == "" {
		return s.Categories
	}
	for _, c := range s.Categories {
		if c.Name == name {
			return []Category{c}
		}
	}
	return nil
}

// SearchURL builds the fallback product URL used when a card carries no
// direct link, so downstream consumers always get something navigable.
func (s *Supplier) SearchURL(query string) string {
	return fmt.Sprintf("%s/search?q=%s", s.BaseURL, url.QueryEscape(query))
}

var registry = []Supplier{electricalDirect}

// All returns every configured supplier in registration order.
func All() []Supplier {
	out := make([]Supplier, len(registry))
	copy(out, registry)
	return out
}

// Lookup finds a supplier by name.
func Lookup(name string) (Supplier, bool) {
	for _, s := range registry {
		if s.Name == name {
			return s, true
		}
	}
	return Supplier{}, false
}
