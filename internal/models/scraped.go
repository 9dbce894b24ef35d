package models

import (
	"time"
)

// DealType classifies a time-boxed promotion by the wording on its card.
type DealType string

const (
	DealTypeDealOfDay  DealType = "deal_of_day"
	DealTypeFlashSale  DealType = "flash_sale"
	DealTypeClearance  DealType = "clearance"
	DealTypeWeeklyDeal DealType = "weekly_deal"
)

// DiscountType classifies what a coupon code is worth.
type DiscountType string

const (
	DiscountTypePercentage   DiscountType = "percentage"
	DiscountTypeFixed        DiscountType = "fixed"
	DiscountTypeFreeDelivery DiscountType = "free_delivery"
)

// ScrapedProduct is one catalog item observed on a supplier listing page.
// Pointer fields are nil when the page gave no parseable value.
type ScrapedProduct struct {
	Supplier           string     `json:"supplier"`
	SKU                string     `json:"sku"`
	Name               string     `json:"name"`
	Brand              *string    `json:"brand"`
	Category           *string    `json:"category"`
	Subcategory        *string    `json:"subcategory"`
	CurrentPrice       *float64   `json:"current_price"`
	RegularPrice       *float64   `json:"regular_price"`
	IsOnSale           bool       `json:"is_on_sale"`
	DiscountPercentage *float64   `json:"discount_percentage"`
	Description        *string    `json:"description"`
	ImageURL           *string    `json:"image_url"`
	ProductURL         string     `json:"product_url"`
	StockStatus        string     `json:"stock_status"`
	ScrapedAt          time.Time  `json:"scraped_at"`
}

// ScrapedDeal is a time-boxed promotional price. ExpiresAt is always set;
// cards with no parseable expiry get a 7-day fallback at construction.
type ScrapedDeal struct {
	Supplier           string    `json:"supplier"`
	ProductSKU         *string   `json:"product_sku"`
	Title              *string   `json:"title"`
	Description        *string   `json:"description"`
	OriginalPrice      *float64  `json:"original_price"`
	DealPrice          *float64  `json:"deal_price"`
	DiscountPercentage float64   `json:"discount_percentage"`
	DealType           DealType  `json:"deal_type"`
	ExpiresAt          time.Time `json:"expires_at"`
	SourceURL          string    `json:"source_url"`
	ScrapedAt          time.Time `json:"scraped_at"`
}

// ScrapedCoupon is a promotional code. Code is never empty; items without a
// resolvable code are dropped during extraction.
type ScrapedCoupon struct {
	Supplier      string       `json:"supplier"`
	Code          string       `json:"code"`
	Description   string       `json:"description"`
	DiscountType  DiscountType `json:"discount_type"`
	DiscountValue float64      `json:"discount_value"`
	MinimumSpend  *float64     `json:"minimum_spend"`
	ValidUntil    *time.Time   `json:"valid_until"`
	SourceURL     string       `json:"source_url"`
	ScrapedAt     time.Time    `json:"scraped_at"`
}

// ScrapeResult bundles the output of one scrape job for sinks that take the
// whole run at once (snapshot store, API responses).
type ScrapeResult struct {
	Supplier  string          `json:"supplier"`
	Kind      string          `json:"kind"`
	Products  []ScrapedProduct `json:"products,omitempty"`
	Deals     []ScrapedDeal    `json:"deals,omitempty"`
	Coupons   []ScrapedCoupon  `json:"coupons,omitempty"`
	ScrapedAt time.Time        `json:"scraped_at"`
}

// Count returns the number of records in the result, whatever its kind.
func (r *ScrapeResult) Count() int {
	return len(r.Products) + len(r.Deals) + len(r.Coupons)
}
