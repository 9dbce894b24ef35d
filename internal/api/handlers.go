package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voltscout/supplier-scraper/internal/jobs"
	"github.com/voltscout/supplier-scraper/internal/queue"
	"github.com/voltscout/supplier-scraper/internal/storage"
	"github.com/voltscout/supplier-scraper/internal/suppliers"
)

type Handlers struct {
	jobs      *jobs.Manager
	snapshots *storage.SnapshotStore
	logger    *slog.Logger
}

func NewHandlers(jobs *jobs.Manager, snapshots *storage.SnapshotStore, logger *slog.Logger) *Handlers {
	return &Handlers{
		jobs:      jobs,
		snapshots: snapshots,
		logger:    logger,
	}
}

// CreateJobRequest represents a new scrape job request
type CreateJobRequest struct {
	Supplier string `json:"supplier"`
	Kind     string `json:"kind"`
	Category string `json:"category"`
}

// CreateJobResponse represents the job creation response
type CreateJobResponse struct {
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// CreateJob handles new scrape job creation
func (h *Handlers) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Supplier == "" {
		h.respondError(w, http.StatusBadRequest, "supplier is required")
		return
	}
	if req.Kind == "" {
		req.Kind = string(queue.KindProducts)
	}

	job, err := h.jobs.Enqueue(req.Supplier, queue.Kind(req.Kind), req.Category)
	if err != nil {
		h.logger.Error("failed to create job", "error", err)
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondJSON(w, http.StatusCreated, CreateJobResponse{
		JobID:   job.ID,
		Status:  job.Status,
		Message: "Job created successfully",
	})
}

// GetJob handles job status retrieval
func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	if jobID == "" {
		h.respondError(w, http.StatusBadRequest, "job ID is required")
		return
	}

	job, ok := h.jobs.GetJob(jobID)
	if !ok {
		h.respondError(w, http.StatusNotFound, "job not found")
		return
	}

	h.respondJSON(w, http.StatusOK, job)
}

// ListJobs handles listing all jobs
func (h *Handlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.jobs.ListJobs())
}

// GetStats handles statistics retrieval
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.jobs.GetStats())
}

// SupplierInfo summarises a configured supplier for API consumers.
type SupplierInfo struct {
	Name       string   `json:"name"`
	BaseURL    string   `json:"base_url"`
	Categories []string `json:"categories"`
	HasDeals   bool     `json:"has_deals"`
	HasCoupons bool     `json:"has_coupons"`
}

// ListSuppliers handles listing the configured suppliers
func (h *Handlers) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	all := suppliers.All()
	out := make([]SupplierInfo, 0, len(all))
	for _, s := range all {
		info := SupplierInfo{
			Name:       s.Name,
			BaseURL:    s.BaseURL,
			HasDeals:   s.DealsURL != "",
			HasCoupons: s.CouponsURL != "",
		}
		for _, c := range s.Categories {
			info.Categories = append(info.Categories, c.Name)
		}
		out = append(out, info)
	}

	h.respondJSON(w, http.StatusOK, out)
}

// GetSnapshot returns the latest stored result for a supplier and kind.
func (h *Handlers) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	supplier := chi.URLParam(r, "supplier")
	kind := chi.URLParam(r, "kind")

	result, ok := h.snapshots.Get(supplier, kind)
	if !ok {
		h.respondError(w, http.StatusNotFound, "no snapshot for supplier and kind")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// Helper methods
func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
