package scraper

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/voltscout/supplier-scraper/internal/suppliers"
)

// RawProduct holds the untyped text pulled from one product card before
// normalization.
type RawProduct struct {
	Name        string
	SKU         string
	PriceText   string
	WasPrice    string
	ImageURL    string
	ProductURL  string
	StockText   string
	Brand       string
	Description string
}

// RawDeal holds the untyped text pulled from one deal card.
type RawDeal struct {
	Title      string
	PriceText  string
	WasPrice   string
	ExpiryText string
	SKU        string
	CardText   string
}

// RawCoupon holds the untyped text pulled from one coupon item.
type RawCoupon struct {
	Code       string
	Desc       string
	ExpiryText string
	ItemText   string
}

// ExtractProducts locates product cards via the supplier's fallback
// selector lists and pulls their raw fields. Cards without a resolvable
// name are dropped here: a nameless card is almost always an ad slot or
// spacer, not a listing. A single bad card never aborts the rest.
func ExtractProducts(doc *goquery.Document, sel suppliers.ProductSelectors, logger *slog.Logger) []RawProduct {
	var out []RawProduct

	doc.Find(combined(sel.Card)).Each(func(i int, card *goquery.Selection) {
		raw, ok := extractProductCard(card, sel)
		if !ok {
			logger.Debug("skipping card without name", "index", i)
			return
		}
		out = append(out, raw)
	})

	return out
}

func extractProductCard(card *goquery.Selection, sel suppliers.ProductSelectors) (RawProduct, bool) {
	name := firstText(card, sel.Name)
	if name == "" {
		return RawProduct{}, false
	}

	sku := firstText(card, sel.SKU)
	if sku == "" && sel.SKUAttr != "" {
		sku = strings.TrimSpace(card.AttrOr(sel.SKUAttr, ""))
	}

	return RawProduct{
		Name:        name,
		SKU:         sku,
		PriceText:   firstText(card, sel.Price),
		WasPrice:    firstText(card, sel.WasPrice),
		ImageURL:    firstAttr(card, sel.Image, "src", "data-src"),
		ProductURL:  firstAttr(card, sel.Link, "href"),
		StockText:   firstText(card, sel.Stock),
		Brand:       firstText(card, sel.Brand),
		Description: firstText(card, sel.Description),
	}, true
}

// ExtractDeals pulls raw deal cards. Price parsing and type classification
// happen later; here a card only needs to exist.
func ExtractDeals(doc *goquery.Document, sel suppliers.DealSelectors) []RawDeal {
	var out []RawDeal

	doc.Find(combined(sel.Card)).Each(func(_ int, card *goquery.Selection) {
		sku := ""
		if sel.SKUAttr != "" {
			sku = strings.TrimSpace(card.AttrOr(sel.SKUAttr, ""))
		}

		out = append(out, RawDeal{
			Title:      firstText(card, sel.Title),
			PriceText:  firstText(card, sel.Price),
			WasPrice:   firstText(card, sel.WasPrice),
			ExpiryText: firstText(card, sel.Expiry),
			SKU:        sku,
			CardText:   normalizeSpace(card.Text()),
		})
	})

	return out
}

// ExtractCoupons pulls raw coupon items. Items without a resolvable code
// are dropped; a code is the one hard requirement for a coupon.
func ExtractCoupons(doc *goquery.Document, sel suppliers.CouponSelectors, logger *slog.Logger) []RawCoupon {
	var out []RawCoupon

	doc.Find(combined(sel.Item)).Each(func(i int, item *goquery.Selection) {
		code := firstText(item, sel.Code)
		if code == "" && sel.CodeAttr != "" {
			code = strings.TrimSpace(item.AttrOr(sel.CodeAttr, ""))
		}
		if code == "" {
			logger.Debug("skipping coupon item without code", "index", i)
			return
		}

		out = append(out, RawCoupon{
			Code:       code,
			Desc:       firstText(item, sel.Description),
			ExpiryText: firstText(item, sel.Expiry),
			ItemText:   normalizeSpace(item.Text()),
		})
	})

	return out
}

// combined joins a fallback list into one comma query so any matching
// element is a candidate.
func combined(selectors suppliers.Selectors) string {
	return strings.Join(selectors, ", ")
}

// firstText resolves a field through its fallback list, most specific
// selector first, returning the first non-empty trimmed text.
func firstText(scope *goquery.Selection, selectors suppliers.Selectors) string {
	for _, sel := range selectors {
		text := strings.TrimSpace(scope.Find(sel).First().Text())
		if text != "" {
			return text
		}
	}
	return ""
}

// firstAttr resolves an attribute through the selector fallback list,
// trying each attribute name in turn on the first matched element.
func firstAttr(scope *goquery.Selection, selectors suppliers.Selectors, attrs ...string) string {
	for _, sel := range selectors {
		node := scope.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		for _, attr := range attrs {
			if v, ok := node.Attr(attr); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
	}
	return ""
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
