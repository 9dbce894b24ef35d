package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/voltscout/supplier-scraper/internal/models"
	"github.com/voltscout/supplier-scraper/internal/queue"
	"github.com/voltscout/supplier-scraper/internal/scraper"
	"github.com/voltscout/supplier-scraper/internal/suppliers"
)

// StartWorker drains the queue until the context is cancelled or the queue
// closes. Run it in its own goroutine; run several for parallel suppliers.
func (m *Manager) StartWorker(ctx context.Context) {
	m.logger.Info("job worker started")

	for {
		job, err := m.queue.Pop(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, queue.ErrQueueClosed) {
				m.logger.Info("job worker stopping")
				return
			}
			m.logger.Error("failed to pop job", "error", err)
			continue
		}

		m.processJob(ctx, job)
	}
}

func (m *Manager) processJob(ctx context.Context, job *queue.Job) {
	m.logger.Info("processing job", "id", job.ID, "supplier", job.Supplier, "kind", job.Kind)
	m.setStatus(job.ID, StatusRunning, 0, nil)

	result, err := m.runScrape(ctx, job)
	if err != nil {
		m.logger.Error("job failed", "id", job.ID, "error", err)
		m.setStatus(job.ID, StatusFailed, 0, err)
		return
	}

	if err := m.persist(ctx, result); err != nil {
		m.logger.Error("job failed", "id", job.ID, "error", err)
		m.setStatus(job.ID, StatusFailed, 0, err)
		return
	}

	m.setStatus(job.ID, StatusCompleted, result.Count(), nil)
	m.logger.Info("job completed", "id", job.ID, "records", result.Count())
}

func (m *Manager) runScrape(ctx context.Context, job *queue.Job) (*models.ScrapeResult, error) {
	cfg, ok := suppliers.Lookup(job.Supplier)
	if !ok {
		return nil, fmt.Errorf("unknown supplier: %s", job.Supplier)
	}

	s := scraper.NewSupplierScraper(m.browser, cfg, m.limiter)
	result := &models.ScrapeResult{
		Supplier:  s.Supplier().Name,
		Kind:      string(job.Kind),
		ScrapedAt: time.Now(),
	}

	var err error
	switch job.Kind {
	case queue.KindProducts:
		result.Products, err = s.ScrapeProducts(ctx, job.Category)
	case queue.KindDeals:
		result.Deals, err = s.ScrapeDeals(ctx)
	case queue.KindCoupons:
		result.Coupons, err = s.ScrapeCoupons(ctx)
	default:
		return nil, fmt.Errorf("unknown job kind: %s", job.Kind)
	}
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (m *Manager) persist(ctx context.Context, result *models.ScrapeResult) error {
	if m.sinks.Store != nil {
		var err error
		switch {
		case len(result.Products) > 0:
			_, err = m.sinks.Store.SaveProducts(ctx, result.Products)
		case len(result.Deals) > 0:
			_, err = m.sinks.Store.SaveDeals(ctx, result.Deals)
		case len(result.Coupons) > 0:
			_, err = m.sinks.Store.SaveCoupons(ctx, result.Coupons)
		}
		if err != nil {
			return fmt.Errorf("failed to save records: %w", err)
		}
	}

	if m.sinks.Snapshots != nil && result.Count() > 0 {
		if err := m.sinks.Snapshots.Put(result); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
	}

	if m.sinks.Publisher != nil {
		if err := m.sinks.Publisher.PublishResult(ctx, result); err != nil {
			return fmt.Errorf("failed to publish events: %w", err)
		}
	}

	return nil
}
