package api

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltscout/supplier-scraper/internal/jobs"
	"github.com/voltscout/supplier-scraper/internal/models"
	"github.com/voltscout/supplier-scraper/internal/queue"
	"github.com/voltscout/supplier-scraper/internal/ratelimit"
	"github.com/voltscout/supplier-scraper/internal/scraper"
	"github.com/voltscout/supplier-scraper/internal/storage"
)

type noopPage struct{}

func (noopPage) Navigate(string) error                  { return nil }
func (noopPage) WaitForAny(string, time.Duration) error { return nil }
func (noopPage) ScrollToEnd() error                     { return nil }
func (noopPage) Content() (string, error)               { return "<html></html>", nil }
func (noopPage) Close() error                           { return nil }

type noopBrowser struct{}

func (noopBrowser) NewPage() (scraper.Page, error) { return noopPage{}, nil }

func newTestRouter(t *testing.T) (*chi.Mux, *storage.SnapshotStore) {
	t.Helper()

	snapshots, err := storage.NewSnapshotStore(filepath.Join(t.TempDir(), "snapshots.json"))
	require.NoError(t, err)

	manager := jobs.NewManager(
		queue.NewInMemoryQueue(), noopBrowser{}, ratelimit.None{},
		jobs.Sinks{Snapshots: snapshots}, slog.Default())
	handlers := NewHandlers(manager, snapshots, slog.Default())

	r := chi.NewRouter()
	r.Post("/jobs", handlers.CreateJob)
	r.Get("/jobs", handlers.ListJobs)
	r.Get("/jobs/{jobID}", handlers.GetJob)
	r.Get("/suppliers", handlers.ListSuppliers)
	r.Get("/results/{supplier}/{kind}", handlers.GetSnapshot)
	r.Get("/stats", handlers.GetStats)
	return r, snapshots
}

func TestCreateJob(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("queues a valid job", func(t *testing.T) {
		body := `{"supplier": "electricaldirect", "kind": "deals"}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(body)))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "pending")
	})

	t.Run("defaults kind to products", func(t *testing.T) {
		body := `{"supplier": "electricaldirect"}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(body)))

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("rejects missing supplier", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(`{}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects unknown supplier", func(t *testing.T) {
		body := `{"supplier": "toolstation"}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetJobNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListSuppliers(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/suppliers", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "electricaldirect")
	assert.Contains(t, rec.Body.String(), "lighting")
}

func TestGetSnapshot(t *testing.T) {
	router, snapshots := newTestRouter(t)

	require.NoError(t, snapshots.Put(&models.ScrapeResult{
		Supplier: "electricaldirect",
		Kind:     "coupons",
		Coupons: []models.ScrapedCoupon{
			{Supplier: "electricaldirect", Code: "SPARK10", DiscountType: models.DiscountTypePercentage, DiscountValue: 10},
		},
		ScrapedAt: time.Now(),
	}))

	t.Run("returns stored result", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/results/electricaldirect/coupons", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "SPARK10")
	})

	t.Run("404 when nothing stored", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/results/electricaldirect/deals", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
