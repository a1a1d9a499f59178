package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/uxbench/uxbench/internal/benchmark"
	"github.com/uxbench/uxbench/internal/domain"
	rediscache "github.com/uxbench/uxbench/internal/repository/redis"
	"github.com/uxbench/uxbench/internal/services/runner"
	"github.com/uxbench/uxbench/pkg/httputil"
)

// ReportStore resolves stored report objects into downloadable URLs.
type ReportStore interface {
	GetPresignedURL(ctx context.Context, key string) (string, error)
}

// BenchmarkHandler handles benchmark run requests
type BenchmarkHandler struct {
	repo    domain.BenchmarkRepository
	cache   *rediscache.Cache
	runner  *runner.Service
	reports ReportStore
	logger  *zap.Logger
}

// NewBenchmarkHandler creates a new benchmark handler. cache and reports may
// be nil.
func NewBenchmarkHandler(repo domain.BenchmarkRepository, cache *rediscache.Cache, runner *runner.Service, reports ReportStore, logger *zap.Logger) *BenchmarkHandler {
	return &BenchmarkHandler{
		repo:    repo,
		cache:   cache,
		runner:  runner,
		reports: reports,
		logger:  logger,
	}
}

// CreateBenchmarkRequest is the request body for starting a benchmark
type CreateBenchmarkRequest struct {
	Goal           string           `json:"goal"`
	Persona        string           `json:"persona,omitempty"`
	Sites          []benchmark.Site `json:"sites"`
	MaxSteps       int              `json:"max_steps,omitempty"`
	MaxTimeSeconds int              `json:"max_time_seconds,omitempty"`
	MaxConcurrency int              `json:"max_concurrency,omitempty"`
}

// BenchmarkResponse is the API representation of a benchmark run
type BenchmarkResponse struct {
	ID          string            `json:"id"`
	Status      string            `json:"status"`
	Goal        string            `json:"goal"`
	Persona     string            `json:"persona,omitempty"`
	Sites       []benchmark.Site  `json:"sites"`
	Result      *benchmark.Result `json:"result,omitempty"`
	Error       string            `json:"error,omitempty"`
	ReportURL   string            `json:"report_url,omitempty"`
	TriggeredBy string            `json:"triggered_by"`
	StartedAt   *string           `json:"started_at,omitempty"`
	CompletedAt *string           `json:"completed_at,omitempty"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

func toBenchmarkResponse(run *domain.BenchmarkRun) BenchmarkResponse {
	resp := BenchmarkResponse{
		ID:          run.ID.String(),
		Status:      string(run.Status),
		Goal:        run.Goal,
		Persona:     run.Persona,
		Result:      run.Result,
		Error:       run.Error,
		ReportURL:   run.ReportURL,
		TriggeredBy: run.TriggeredBy,
		CreatedAt:   run.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   run.UpdatedAt.Format(time.RFC3339),
	}

	if run.Input != nil {
		resp.Sites = run.Input.Sites
	}

	if run.StartedAt != nil {
		s := run.StartedAt.Format(time.RFC3339)
		resp.StartedAt = &s
	}

	if run.CompletedAt != nil {
		s := run.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &s
	}

	return resp
}

// Create handles POST /api/v1/benchmarks
func (h *BenchmarkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBenchmarkRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	input := &benchmark.Input{
		Sites:          req.Sites,
		Goal:           req.Goal,
		Persona:        req.Persona,
		MaxSteps:       req.MaxSteps,
		MaxTime:        time.Duration(req.MaxTimeSeconds) * time.Second,
		MaxConcurrency: req.MaxConcurrency,
		Headless:       true,
	}
	input.ApplyDefaults()

	run := domain.NewBenchmarkRun(input, "api")
	if err := run.Validate(); err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	if err := h.repo.Create(r.Context(), run); err != nil {
		h.logger.Error("Failed to create benchmark run", zap.Error(err))
		httputil.ErrorFromDomain(w, err)
		return
	}

	// The run executes in the background; clients poll GET /benchmarks/{id}.
	h.runner.Launch(run)

	h.logger.Info("Benchmark run created",
		zap.String("run_id", run.ID.String()),
		zap.String("goal", run.Goal),
		zap.Int("sites", len(req.Sites)),
	)

	httputil.JSON(w, http.StatusAccepted, toBenchmarkResponse(run))
}

// Get handles GET /api/v1/benchmarks/{id}
func (h *BenchmarkHandler) Get(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		httputil.JSONError(w, http.StatusBadRequest, "INVALID_ID", "Invalid benchmark run ID format", nil)
		return
	}

	run, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, toBenchmarkResponse(run))
}

// GetStatus handles GET /api/v1/benchmarks/{id}/status. Poll loops hit this
// endpoint hard, so a warm status cache short-circuits the database read.
func (h *BenchmarkHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		httputil.JSONError(w, http.StatusBadRequest, "INVALID_ID", "Invalid benchmark run ID format", nil)
		return
	}

	if h.cache != nil {
		if status, err := h.cache.GetRunStatus(r.Context(), id); err == nil && status != "" {
			httputil.JSON(w, http.StatusOK, map[string]string{
				"id":     id.String(),
				"status": string(status),
			})
			return
		}
	}

	run, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{
		"id":     id.String(),
		"status": string(run.Status),
	})
}

// GetReport handles GET /api/v1/benchmarks/{id}/report. Reports live in
// object storage, so the stored URI is exchanged for a presigned download URL.
func (h *BenchmarkHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		httputil.JSONError(w, http.StatusBadRequest, "INVALID_ID", "Invalid benchmark run ID format", nil)
		return
	}

	run, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	if run.ReportURL == "" {
		httputil.JSONError(w, http.StatusNotFound, "REPORT_NOT_FOUND",
			"Benchmark run has no published report", map[string]any{
				"status": string(run.Status),
			})
		return
	}

	key := objectKey(run.ReportURL)
	if key == "" {
		// Not an object-store URI, hand it back as-is
		httputil.JSON(w, http.StatusOK, map[string]string{"url": run.ReportURL})
		return
	}

	if h.reports == nil {
		httputil.JSONError(w, http.StatusServiceUnavailable, "REPORTS_UNAVAILABLE",
			"Report storage is not configured", nil)
		return
	}

	url, err := h.reports.GetPresignedURL(r.Context(), key)
	if err != nil {
		h.logger.Error("Failed to presign report URL", zap.Error(err), zap.String("key", key))
		httputil.JSONError(w, http.StatusBadGateway, "REPORT_URL_FAILED",
			"Could not generate a download URL for the report", nil)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{"url": url})
}

// objectKey extracts the object key from an s3:// URI, or "" when the URI
// points elsewhere
func objectKey(uri string) string {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return ""
	}
	if _, key, found := strings.Cut(rest, "/"); found && key != "" {
		return key
	}
	return ""
}

// GetResult handles GET /api/v1/benchmarks/{id}/result
func (h *BenchmarkHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		httputil.JSONError(w, http.StatusBadRequest, "INVALID_ID", "Invalid benchmark run ID format", nil)
		return
	}

	// Completed results are immutable, so the cache is authoritative when warm
	if h.cache != nil {
		if cached, err := h.cache.GetResult(r.Context(), id); err == nil && cached != nil {
			httputil.JSON(w, http.StatusOK, cached)
			return
		}
	}

	run, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	if run.Result == nil {
		httputil.JSONError(w, http.StatusConflict, "NOT_READY",
			"Benchmark run has no result yet", map[string]any{
				"status": string(run.Status),
			})
		return
	}

	if h.cache != nil {
		if err := h.cache.SetResult(r.Context(), id, run.Result); err != nil {
			h.logger.Debug("Result cache write failed", zap.Error(err))
		}
	}

	httputil.JSON(w, http.StatusOK, run.Result)
}

// List handles GET /api/v1/benchmarks
func (h *BenchmarkHandler) List(w http.ResponseWriter, r *http.Request) {
	pagination := httputil.GetPagination(r, 20, 100)

	runs, total, err := h.repo.List(r.Context(), pagination.PerPage, pagination.Offset)
	if err != nil {
		h.logger.Error("Failed to list benchmark runs", zap.Error(err))
		httputil.ErrorFromDomain(w, err)
		return
	}

	response := make([]BenchmarkResponse, len(runs))
	for i, run := range runs {
		response[i] = toBenchmarkResponse(run)
		// Trim the full result from list rows, it can be large
		response[i].Result = nil
	}

	httputil.JSONWithMeta(w, http.StatusOK, response, &httputil.Meta{
		Page:       pagination.Page,
		PerPage:    pagination.PerPage,
		Total:      total,
		TotalPages: httputil.CalculateTotalPages(total, pagination.PerPage),
	})
}

// Delete handles DELETE /api/v1/benchmarks/{id}
func (h *BenchmarkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		httputil.JSONError(w, http.StatusBadRequest, "INVALID_ID", "Invalid benchmark run ID format", nil)
		return
	}

	run, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	// Only allow deletion once the run has settled
	if !run.IsTerminal() {
		httputil.JSONError(w, http.StatusConflict, "INVALID_STATE",
			"Cannot delete an active benchmark run", map[string]any{
				"status": string(run.Status),
			})
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	if h.cache != nil {
		if err := h.cache.InvalidateRun(r.Context(), id); err != nil {
			h.logger.Debug("Run cache invalidation failed", zap.Error(err))
		}
	}

	h.logger.Info("Benchmark run deleted", zap.String("run_id", id.String()))

	httputil.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
