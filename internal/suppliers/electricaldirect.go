package suppliers

var electricalDirect = Supplier{
	Name:       "electricaldirect",
	Tag:        "ED",
	BaseURL:    "https://www.electricaldirect.co.uk",
	DealsURL:   "https://www.electricaldirect.co.uk/offers",
	CouponsURL: "https://www.electricaldirect.co.uk/discount-codes",
	Categories: []Category{
		{
			Name: "test-equipment",
			URLs: []string{
				"https://www.electricaldirect.co.uk/test-equipment",
				"https://www.electricaldirect.co.uk/test-equipment/multimeters",
				"https://www.electricaldirect.co.uk/test-equipment/voltage-testers",
			},
		},
		{
			Name: "cable-management",
			URLs: []string{
				"https://www.electricaldirect.co.uk/cable-management",
				"https://www.electricaldirect.co.uk/cable-management/trunking",
			},
		},
		{
			Name: "circuit-protection",
			URLs: []string{
				"https://www.electricaldirect.co.uk/circuit-protection",
				"https://www.electricaldirect.co.uk/circuit-protection/consumer-units",
				"https://www.electricaldirect.co.uk/circuit-protection/mcbs-rcbos",
			},
		},
		{
			Name: "lighting",
			URLs: []string{
				"https://www.electricaldirect.co.uk/lighting",
				"https://www.electricaldirect.co.uk/lighting/led-downlights",
			},
		},
		{
			Name: "wiring-accessories",
			URLs: []string{
				"https://www.electricaldirect.co.uk/wiring-accessories",
				"https://www.electricaldirect.co.uk/wiring-accessories/sockets",
				"https://www.electricaldirect.co.uk/wiring-accessories/switches",
			},
		},
	},
	Brands: []string{
		"Fluke", "Makita", "DeWalt", "Megger", "Kewtech", "Martindale",
		"Wylex", "Hager", "Schneider", "MK", "BG", "Click", "Knightsbridge",
		"Aurora", "JCC", "Unicrimp", "Deta", "Crabtree",
	},
	Products: ProductSelectors{
		Card: Selectors{
			"div.product-card", "li.product-item", "div[data-product-id]",
			"article.product", "div.listing-item",
		},
		Name: Selectors{
			"h3.product-card__title", "a.product-item__name", "h2.product-name",
			"h3 a", ".product-title",
		},
		Price: Selectors{
			"span.price--current", "span.product-price__now", "p.price ins",
			"span.price", ".product-price",
		},
		WasPrice: Selectors{
			"span.price--was", "span.product-price__was", "p.price del", "s.was-price",
		},
		Image: Selectors{
			"img.product-card__image", "img.product-item__image", "img",
		},
		Link: Selectors{
			"a.product-card__link", "a.product-item__name", "h3 a", "a",
		},
		SKU: Selectors{
			"span.product-card__sku", "span.sku", "[itemprop=sku]",
		},
		SKUAttr: "data-sku",
		Stock: Selectors{
			"span.stock-status", "span.availability", "p.stock",
		},
		Brand: Selectors{
			"span.product-card__brand", "span.brand", "[itemprop=brand]",
		},
		Description: Selectors{
			"p.product-card__summary", "div.product-description", "p.summary",
		},
	},
	Deals: DealSelectors{
		Card: Selectors{
			"div.deal-card", "div.offer-tile", "li.offer-item", "article.deal",
		},
		Title: Selectors{
			"h3.deal-card__title", "h3.offer-tile__title", "h3", "h2",
		},
		Price: Selectors{
			"span.deal-price", "span.price--current", "span.price",
		},
		WasPrice: Selectors{
			"span.was-price", "span.price--was", "s",
		},
		Expiry: Selectors{
			"span.deal-expiry", "p.offer-ends", "span.ends",
		},
		SKUAttr: "data-sku",
	},
	Coupons: CouponSelectors{
		Item: Selectors{
			"div.voucher-card", "div.discount-code", "li.coupon",
		},
		Code: Selectors{
			"span.voucher-code", "span.code", "strong.code",
		},
		CodeAttr: "data-code",
		Description: Selectors{
			"p.voucher-card__description", "p.description", "p",
		},
		Expiry: Selectors{
			"span.voucher-expiry", "span.valid-until", "span.expires",
		},
	},
}
