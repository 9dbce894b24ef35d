package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/voltscout/supplier-scraper/internal/models"
)

// Store persists scraped records. Upserts key products by (supplier, sku)
// and coupons by (supplier, code), so repeated runs refresh rather than
// duplicate; cross-run identity reconciliation lives here, not in the
// scraper.
type Store struct {
	db     *DB
	logger *slog.Logger
}

func NewStore(db *DB) *Store {
	return &Store{
		db:     db,
		logger: slog.Default().With("component", "store"),
	}
}

const upsertProductQuery = `
	INSERT INTO scraped_products (
		supplier, sku, name, brand, category, subcategory,
		current_price, regular_price, is_on_sale, discount_percentage,
		description, image_url, product_url, stock_status, scraped_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
	)
	ON CONFLICT (supplier, sku) DO UPDATE SET
		name = EXCLUDED.name,
		brand = EXCLUDED.brand,
		category = EXCLUDED.category,
		subcategory = EXCLUDED.subcategory,
		current_price = EXCLUDED.current_price,
		regular_price = EXCLUDED.regular_price,
		is_on_sale = EXCLUDED.is_on_sale,
		discount_percentage = EXCLUDED.discount_percentage,
		description = EXCLUDED.description,
		image_url = EXCLUDED.image_url,
		product_url = EXCLUDED.product_url,
		stock_status = EXCLUDED.stock_status,
		scraped_at = EXCLUDED.scraped_at`

// SaveProducts upserts a batch. A single bad row is logged and skipped so
// one oversized field cannot sink a whole page of results.
func (s *Store) SaveProducts(ctx context.Context, products []models.ScrapedProduct) (int, error) {
	saved := 0
	for _, p := range products {
		_, err := s.db.Exec(ctx, upsertProductQuery,
			p.Supplier, p.SKU, p.Name, p.Brand, p.Category, p.Subcategory,
			p.CurrentPrice, p.RegularPrice, p.IsOnSale, p.DiscountPercentage,
			p.Description, p.ImageURL, p.ProductURL, p.StockStatus, p.ScrapedAt,
		)
		if err != nil {
			s.logger.Error("failed to save product", "supplier", p.Supplier, "sku", p.SKU, "error", err)
			continue
		}
		saved++
	}

	if saved == 0 && len(products) > 0 {
		return 0, fmt.Errorf("failed to save any of %d products", len(products))
	}
	return saved, nil
}

const insertDealQuery = `
	INSERT INTO scraped_deals (
		supplier, product_sku, title, description,
		original_price, deal_price, discount_percentage,
		deal_type, expires_at, source_url, scraped_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
	)`

// SaveDeals inserts a batch of deals. Deals are point-in-time observations,
// so there is no natural upsert key; staleness is judged by expires_at.
func (s *Store) SaveDeals(ctx context.Context, deals []models.ScrapedDeal) (int, error) {
	saved := 0
	for _, d := range deals {
		_, err := s.db.Exec(ctx, insertDealQuery,
			d.Supplier, d.ProductSKU, d.Title, d.Description,
			d.OriginalPrice, d.DealPrice, d.DiscountPercentage,
			string(d.DealType), d.ExpiresAt, d.SourceURL, d.ScrapedAt,
		)
		if err != nil {
			s.logger.Error("failed to save deal", "supplier", d.Supplier, "error", err)
			continue
		}
		saved++
	}

	if saved == 0 && len(deals) > 0 {
		return 0, fmt.Errorf("failed to save any of %d deals", len(deals))
	}
	return saved, nil
}

const upsertCouponQuery = `
	INSERT INTO scraped_coupons (
		supplier, code, description, discount_type, discount_value,
		minimum_spend, valid_until, source_url, scraped_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9
	)
	ON CONFLICT (supplier, code) DO UPDATE SET
		description = EXCLUDED.description,
		discount_type = EXCLUDED.discount_type,
		discount_value = EXCLUDED.discount_value,
		minimum_spend = EXCLUDED.minimum_spend,
		valid_until = EXCLUDED.valid_until,
		source_url = EXCLUDED.source_url,
		scraped_at = EXCLUDED.scraped_at`

// SaveCoupons upserts a batch of coupons keyed by (supplier, code).
func (s *Store) SaveCoupons(ctx context.Context, coupons []models.ScrapedCoupon) (int, error) {
	saved := 0
	for _, c := range coupons {
		_, err := s.db.Exec(ctx, upsertCouponQuery,
			c.Supplier, c.Code, c.Description, string(c.DiscountType), c.DiscountValue,
			c.MinimumSpend, c.ValidUntil, c.SourceURL, c.ScrapedAt,
		)
		if err != nil {
			s.logger.Error("failed to save coupon", "supplier", c.Supplier, "code", c.Code, "error", err)
			continue
		}
		saved++
	}

	if saved == 0 && len(coupons) > 0 {
		return 0, fmt.Errorf("failed to save any of %d coupons", len(coupons))
	}
	return saved, nil
}
