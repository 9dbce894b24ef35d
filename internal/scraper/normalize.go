package scraper

import (
	"strings"
	"time"
	"unicode"

	"github.com/voltscout/supplier-scraper/internal/models"
	"github.com/voltscout/supplier-scraper/internal/parser"
	"github.com/voltscout/supplier-scraper/internal/suppliers"
)

const (
	maxSynthesizedSKULen = 20
	defaultStockStatus   = "Unknown"
	dealExpiryFallback   = 7 * 24 * time.Hour
)

// NormalizeProduct maps one raw card through the parsers into the typed
// schema. Returns nil for nameless cards; everything else degrades field by
// field rather than dropping the product.
func NormalizeProduct(cfg suppliers.Supplier, raw RawProduct, category, subcategory string) *models.ScrapedProduct {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return nil
	}

	sku := strings.TrimSpace(raw.SKU)
	if sku == "" {
		sku = SynthesizeSKU(cfg.Tag, name)
	}

	current := parser.ParsePrice(raw.PriceText)
	was := parser.ParsePrice(raw.WasPrice)

	// A "was" price only means something when it genuinely exceeds the
	// current price.
	var regular *float64
	if current != nil && was != nil && *was > *current {
		regular = was
	}

	brand := strings.TrimSpace(raw.Brand)
	if brand == "" {
		brand = inferBrand(cfg.Brands, name)
	}

	productURL := absoluteURL(cfg.BaseURL, raw.ProductURL)
	if productURL == "" {
		productURL = cfg.SearchURL(name)
	}

	stock := strings.TrimSpace(raw.StockText)
	if stock == "" {
		stock = defaultStockStatus
	}

	return &models.ScrapedProduct{
		Supplier:           cfg.Name,
		SKU:                sku,
		Name:               name,
		Brand:              optional(brand),
		Category:           optional(category),
		Subcategory:        optional(subcategory),
		CurrentPrice:       current,
		RegularPrice:       regular,
		IsOnSale:           regular != nil,
		DiscountPercentage: parser.CalculateDiscount(current, regular),
		Description:        optional(strings.TrimSpace(raw.Description)),
		ImageURL:           optional(absoluteURL(cfg.BaseURL, raw.ImageURL)),
		ProductURL:         productURL,
		StockStatus:        stock,
		ScrapedAt:          time.Now(),
	}
}

// NormalizeDeal maps one raw deal card into the schema. Cards whose deal
// price did not parse are excluded entirely; a deal without a price is
// noise. ExpiresAt is always populated, falling back to seven days out.
func NormalizeDeal(cfg suppliers.Supplier, raw RawDeal, sourceURL string) *models.ScrapedDeal {
	dealPrice := parser.ParsePrice(raw.PriceText)
	if dealPrice == nil {
		return nil
	}

	original := parser.ParsePrice(raw.WasPrice)

	discount := 0.0
	if pct := parser.CalculateDiscount(dealPrice, original); pct != nil {
		discount = *pct
	}

	expiry := parser.ParseExpiryDate(raw.ExpiryText)
	if expiry == nil {
		expiry = parser.ParseExpiryDate(raw.CardText)
	}
	expiresAt := time.Now().Add(dealExpiryFallback)
	if expiry != nil {
		expiresAt = *expiry
	}

	return &models.ScrapedDeal{
		Supplier:           cfg.Name,
		ProductSKU:         optional(raw.SKU),
		Title:              optional(strings.TrimSpace(raw.Title)),
		Description:        optional(raw.CardText),
		OriginalPrice:      original,
		DealPrice:          dealPrice,
		DiscountPercentage: discount,
		DealType:           ClassifyDealType(raw.CardText),
		ExpiresAt:          expiresAt,
		SourceURL:          sourceURL,
		ScrapedAt:          time.Now(),
	}
}

// NormalizeCoupon maps one raw coupon item into the schema. Unlike deals,
// coupons may legitimately have no known expiry.
func NormalizeCoupon(cfg suppliers.Supplier, raw RawCoupon, sourceURL string) *models.ScrapedCoupon {
	code := strings.TrimSpace(raw.Code)
	if code == "" {
		return nil
	}

	classifyText := raw.Desc
	if classifyText == "" {
		classifyText = raw.ItemText
	}
	discountType, discountValue := parser.ParseDiscount(classifyText)

	validUntil := parser.ParseExpiryDate(raw.ExpiryText)
	if validUntil == nil {
		validUntil = parser.ParseExpiryDate(raw.ItemText)
	}

	return &models.ScrapedCoupon{
		Supplier:      cfg.Name,
		Code:          code,
		Description:   strings.TrimSpace(raw.Desc),
		DiscountType:  discountType,
		DiscountValue: discountValue,
		MinimumSpend:  parser.ParseMinSpend(raw.ItemText),
		ValidUntil:    validUntil,
		SourceURL:     sourceURL,
		ScrapedAt:     time.Now(),
	}
}

// ClassifyDealType matches promotion wording against the known deal kinds.
// Flash beats clearance beats deal-of-the-day; anything else is a weekly
// deal.
func ClassifyDealType(text string) models.DealType {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "flash"):
		return models.DealTypeFlashSale
	case strings.Contains(lower, "clearance"):
		return models.DealTypeClearance
	case strings.Contains(lower, "day"):
		return models.DealTypeDealOfDay
	default:
		return models.DealTypeWeeklyDeal
	}
}

// SynthesizeSKU builds a supplier-local identifier from a product name when
// the page carries none: alphanumerics only, bounded length, supplier tag
// prefix. The exact shape is an implementation detail, not a contract.
func SynthesizeSKU(tag, name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
		if b.Len() >= maxSynthesizedSKULen {
			break
		}
	}

	cleaned := b.String()
	if cleaned == "" {
		cleaned = "UNKNOWN"
	}
	return tag + "-" + cleaned
}

// inferBrand matches the start of a product name against the supplier's
// known brand list. Case-insensitive; listing names usually lead with the
// manufacturer.
func inferBrand(brands []string, name string) string {
	lower := strings.ToLower(name)
	for _, brand := range brands {
		if strings.HasPrefix(lower, strings.ToLower(brand)) ||
			strings.Contains(lower, " "+strings.ToLower(brand)+" ") {
			return brand
		}
	}
	return ""
}

// absoluteURL resolves site-relative links against the supplier base URL.
func absoluteURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if strings.HasPrefix(ref, "//") {
		return "https:" + ref
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(ref, "/")
}

// optional turns an empty string into a nil pointer.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
