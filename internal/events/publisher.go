package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/voltscout/supplier-scraper/internal/database"
	"github.com/voltscout/supplier-scraper/internal/models"
)

// EventType identifies what kind of record an event carries.
type EventType string

const (
	EventTypeProductScraped EventType = "PRODUCT_SCRAPED"
	EventTypeDealScraped    EventType = "DEAL_SCRAPED"
	EventTypeCouponScraped  EventType = "COUPON_SCRAPED"
)

// Publisher writes scraped-record events through the transactional outbox
// so they reach downstream consumers exactly when the records themselves
// commit.
type Publisher struct {
	db     *database.DB
	outbox *database.OutboxRepository
	logger *slog.Logger
}

func NewPublisher(db *database.DB, logger *slog.Logger) *Publisher {
	return &Publisher{
		db:     db,
		outbox: database.NewOutboxRepository(db),
		logger: logger.With("component", "event_publisher"),
	}
}

// PublishResult emits one event per record in the result, all in a single
// transaction.
func (p *Publisher) PublishResult(ctx context.Context, result *models.ScrapeResult) error {
	if result.Count() == 0 {
		return nil
	}

	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for i := range result.Products {
		product := &result.Products[i]
		if err := p.insert(ctx, tx, "product", product.SKU, EventTypeProductScraped, product); err != nil {
			return err
		}
	}

	for i := range result.Deals {
		deal := &result.Deals[i]
		aggregateID := deal.SourceURL
		if deal.ProductSKU != nil {
			aggregateID = *deal.ProductSKU
		}
		if err := p.insert(ctx, tx, "deal", aggregateID, EventTypeDealScraped, deal); err != nil {
			return err
		}
	}

	for i := range result.Coupons {
		coupon := &result.Coupons[i]
		if err := p.insert(ctx, tx, "coupon", coupon.Code, EventTypeCouponScraped, coupon); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit events: %w", err)
	}

	p.logger.Info("published scrape events",
		"supplier", result.Supplier, "kind", result.Kind, "count", result.Count())
	return nil
}

func (p *Publisher) insert(ctx context.Context, tx pgx.Tx, aggregateType, aggregateID string, eventType EventType, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", aggregateType, err)
	}

	event := &database.OutboxEvent{
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     string(eventType),
		Payload:       raw,
	}
	if err := p.outbox.InsertWithTx(ctx, tx, event); err != nil {
		return fmt.Errorf("failed to queue %s event: %w", eventType, err)
	}
	return nil
}
