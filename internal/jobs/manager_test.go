package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltscout/supplier-scraper/internal/queue"
	"github.com/voltscout/supplier-scraper/internal/ratelimit"
	"github.com/voltscout/supplier-scraper/internal/scraper"
	"github.com/voltscout/supplier-scraper/internal/storage"
)

// stubPage serves canned HTML per URL.
type stubPage struct {
	pages   map[string]string
	current string
}

func (p *stubPage) Navigate(url string) error {
	html, ok := p.pages[url]
	if !ok {
		return fmt.Errorf("no fixture for %s", url)
	}
	p.current = html
	return nil
}

func (p *stubPage) WaitForAny(string, time.Duration) error { return nil }
func (p *stubPage) ScrollToEnd() error                     { return nil }
func (p *stubPage) Content() (string, error)               { return p.current, nil }
func (p *stubPage) Close() error                           { return nil }

type stubBrowser struct {
	page *stubPage
}

func (b *stubBrowser) NewPage() (scraper.Page, error) { return b.page, nil }

func newTestManager(t *testing.T, b scraper.Browser) (*Manager, *storage.SnapshotStore) {
	t.Helper()

	snapshots, err := storage.NewSnapshotStore(filepath.Join(t.TempDir(), "snapshots.json"))
	require.NoError(t, err)

	m := NewManager(
		queue.NewInMemoryQueue(),
		b,
		ratelimit.None{},
		Sinks{Snapshots: snapshots},
		slog.Default(),
	)
	return m, snapshots
}

func TestEnqueueValidation(t *testing.T) {
	m, _ := newTestManager(t, &stubBrowser{page: &stubPage{}})

	t.Run("unknown supplier is rejected", func(t *testing.T) {
		_, err := m.Enqueue("screwfix", queue.KindProducts, "")
		assert.Error(t, err)
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		_, err := m.Enqueue("electricaldirect", queue.Kind("reviews"), "")
		assert.Error(t, err)
	})

	t.Run("unknown category is rejected", func(t *testing.T) {
		_, err := m.Enqueue("electricaldirect", queue.KindProducts, "plumbing")
		assert.Error(t, err)
	})

	t.Run("valid job is queued as pending", func(t *testing.T) {
		record, err := m.Enqueue("electricaldirect", queue.KindProducts, "lighting")
		require.NoError(t, err)
		assert.NotEmpty(t, record.ID)
		assert.Equal(t, StatusPending, record.Status)

		got, ok := m.GetJob(record.ID)
		require.True(t, ok)
		assert.Equal(t, "lighting", got.Category)
	})
}

func TestWorkerProcessesCouponJob(t *testing.T) {
	page := &stubPage{pages: map[string]string{
		"https://www.electricaldirect.co.uk/discount-codes": `
			<html><body>
				<div class="voucher-card">
					<span class="voucher-code">SPARK10</span>
					<p class="voucher-card__description">10% off everything</p>
				</div>
				<div class="voucher-card">
					<span class="voucher-code">FREEDEL</span>
					<p class="voucher-card__description">Free delivery on orders over £50</p>
				</div>
			</body></html>`,
	}}
	m, snapshots := newTestManager(t, &stubBrowser{page: page})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		m.StartWorker(ctx)
		close(done)
	}()

	record, err := m.Enqueue("electricaldirect", queue.KindCoupons, "")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		got, ok := m.GetJob(record.ID)
		return ok && (got.Status == StatusCompleted || got.Status == StatusFailed)
	}, 5*time.Second, 10*time.Millisecond)

	got, ok := m.GetJob(record.ID)
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, 2, got.Records)
	assert.NotNil(t, got.StartedAt)
	assert.NotNil(t, got.CompletedAt)

	snapshot, ok := snapshots.Get("electricaldirect", "coupons")
	require.True(t, ok)
	require.Len(t, snapshot.Coupons, 2)
	assert.Equal(t, "SPARK10", snapshot.Coupons[0].Code)

	stats := m.GetStats()
	assert.Equal(t, 1, stats.CompletedJobs)
	assert.Equal(t, 2, stats.TotalRecords)
	assert.Equal(t, float64(100), stats.SuccessRate)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop on cancel")
	}
}

func TestWorkerIsolatesBrokenPages(t *testing.T) {
	// No fixtures at all: every navigation fails, operations degrade to
	// empty output and the job still completes.
	page := &stubPage{pages: map[string]string{}}
	m, _ := newTestManager(t, &stubBrowser{page: page})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.StartWorker(ctx)

	record, err := m.Enqueue("electricaldirect", queue.KindProducts, "lighting")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		got, ok := m.GetJob(record.ID)
		return ok && got.Status != StatusPending && got.Status != StatusRunning
	}, 5*time.Second, 10*time.Millisecond)

	got, _ := m.GetJob(record.ID)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, 0, got.Records)
}

func TestListJobsMostRecentFirst(t *testing.T) {
	m, _ := newTestManager(t, &stubBrowser{page: &stubPage{}})

	first, err := m.Enqueue("electricaldirect", queue.KindDeals, "")
	require.NoError(t, err)
	second, err := m.Enqueue("electricaldirect", queue.KindCoupons, "")
	require.NoError(t, err)

	listed := m.ListJobs()
	require.Len(t, listed, 2)
	assert.Equal(t, second.ID, listed[0].ID)
	assert.Equal(t, first.ID, listed[1].ID)
}
