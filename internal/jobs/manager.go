package jobs

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/voltscout/supplier-scraper/internal/database"
	"github.com/voltscout/supplier-scraper/internal/events"
	"github.com/voltscout/supplier-scraper/internal/queue"
	"github.com/voltscout/supplier-scraper/internal/ratelimit"
	"github.com/voltscout/supplier-scraper/internal/scraper"
	"github.com/voltscout/supplier-scraper/internal/storage"
	"github.com/voltscout/supplier-scraper/internal/suppliers"
)

const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// JobRecord tracks a queued scrape job through its lifetime.
type JobRecord struct {
	ID          string     `json:"id"`
	Supplier    string     `json:"supplier"`
	Kind        string     `json:"kind"`
	Category    string     `json:"category,omitempty"`
	Status      string     `json:"status"`
	Records     int        `json:"records"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// Stats summarises job outcomes since the process started.
type Stats struct {
	TotalJobs     int     `json:"total_jobs"`
	PendingJobs   int     `json:"pending_jobs"`
	RunningJobs   int     `json:"running_jobs"`
	CompletedJobs int     `json:"completed_jobs"`
	FailedJobs    int     `json:"failed_jobs"`
	TotalRecords  int     `json:"total_records"`
	SuccessRate   float64 `json:"success_rate"`
}

// Sinks are the places a finished scrape is written to. Any of them may be
// nil; the worker skips what is not wired.
type Sinks struct {
	Store     *database.Store
	Snapshots *storage.SnapshotStore
	Publisher *events.Publisher
}

// Manager accepts scrape jobs, queues them, and tracks their status in
// memory. One or more workers drain the queue.
type Manager struct {
	queue   queue.Queue
	browser scraper.Browser
	limiter ratelimit.Limiter
	sinks   Sinks
	logger  *slog.Logger

	mu      sync.RWMutex
	records map[string]*JobRecord
	order   []string
}

func NewManager(q queue.Queue, b scraper.Browser, limiter ratelimit.Limiter, sinks Sinks, logger *slog.Logger) *Manager {
	return &Manager{
		queue:   q,
		browser: b,
		limiter: limiter,
		sinks:   sinks,
		logger:  logger.With("component", "job_manager"),
		records: make(map[string]*JobRecord),
	}
}

// Enqueue validates and queues a new scrape job.
func (m *Manager) Enqueue(supplier string, kind queue.Kind, category string) (*JobRecord, error) {
	cfg, ok := suppliers.Lookup(supplier)
	if !ok {
		return nil, fmt.Errorf("unknown supplier: %s", supplier)
	}

	switch kind {
	case queue.KindProducts, queue.KindDeals, queue.KindCoupons:
	default:
		return nil, fmt.Errorf("unknown job kind: %s", kind)
	}

	if category != "" && kind == queue.KindProducts {
		if len(cfg.CategoryURLs(category)) == 0 {
			return nil, fmt.Errorf("unknown category for %s: %s", supplier, category)
		}
	}

	job := queue.NewJob(supplier, kind, category)
	record := &JobRecord{
		ID:        job.ID,
		Supplier:  job.Supplier,
		Kind:      string(job.Kind),
		Category:  job.Category,
		Status:    StatusPending,
		CreatedAt: job.CreatedAt,
	}

	m.mu.Lock()
	m.records[record.ID] = record
	m.order = append(m.order, record.ID)
	m.mu.Unlock()

	if err := m.queue.Push(job); err != nil {
		m.setStatus(job.ID, StatusFailed, 0, err)
		return nil, fmt.Errorf("failed to queue job: %w", err)
	}

	m.logger.Info("job queued", "id", job.ID, "supplier", supplier, "kind", kind)
	return record.clone(), nil
}

// GetJob returns a job by ID.
func (m *Manager) GetJob(id string) (*JobRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[id]
	if !ok {
		return nil, false
	}
	return record.clone(), true
}

// ListJobs returns all jobs, most recent first.
func (m *Manager) ListJobs() []*JobRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*JobRecord, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		out = append(out, m.records[m.order[i]].clone())
	}
	return out
}

// GetStats aggregates job counts and success rate.
func (m *Manager) GetStats() *Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &Stats{}
	for _, record := range m.records {
		stats.TotalJobs++
		switch record.Status {
		case StatusPending:
			stats.PendingJobs++
		case StatusRunning:
			stats.RunningJobs++
		case StatusCompleted:
			stats.CompletedJobs++
			stats.TotalRecords += record.Records
		case StatusFailed:
			stats.FailedJobs++
		}
	}

	finished := stats.CompletedJobs + stats.FailedJobs
	if finished > 0 {
		stats.SuccessRate = float64(stats.CompletedJobs) / float64(finished) * 100
	}
	return stats
}

func (m *Manager) setStatus(id, status string, records int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[id]
	if !ok {
		return
	}

	now := time.Now()
	record.Status = status
	switch status {
	case StatusRunning:
		record.StartedAt = &now
	case StatusCompleted:
		record.CompletedAt = &now
		record.Records = records
	case StatusFailed:
		record.CompletedAt = &now
		if err != nil {
			record.Error = err.Error()
		}
	}
}

func (r *JobRecord) clone() *JobRecord {
	copied := *r
	return &copied
}
