package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uxbench/uxbench/internal/benchmark"
	"github.com/uxbench/uxbench/internal/domain"
	"github.com/uxbench/uxbench/internal/services/runner"
	"github.com/uxbench/uxbench/pkg/httputil"
)

// memoryRepo is an in-memory BenchmarkRepository for handler tests
type memoryRepo struct {
	mu   sync.Mutex
	runs map[uuid.UUID]*domain.BenchmarkRun
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{runs: make(map[uuid.UUID]*domain.BenchmarkRun)}
}

func (m *memoryRepo) Create(ctx context.Context, run *domain.BenchmarkRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[run.ID]; ok {
		return domain.ValidationError("id", "benchmark run already exists")
	}
	cp := *run
	m.runs[run.ID] = &cp
	return nil
}

func (m *memoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.BenchmarkRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, domain.NotFoundError("benchmark run", id.String())
	}
	cp := *run
	return &cp, nil
}

func (m *memoryRepo) List(ctx context.Context, limit, offset int) ([]*domain.BenchmarkRun, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make([]*domain.BenchmarkRun, 0, len(m.runs))
	for _, run := range m.runs {
		cp := *run
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *memoryRepo) Update(ctx context.Context, run *domain.BenchmarkRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[run.ID]; !ok {
		return domain.NotFoundError("benchmark run", run.ID.String())
	}
	cp := *run
	m.runs[run.ID] = &cp
	return nil
}

func (m *memoryRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RunStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return domain.NotFoundError("benchmark run", id.String())
	}
	run.Status = status
	return nil
}

func (m *memoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[id]; !ok {
		return domain.NotFoundError("benchmark run", id.String())
	}
	delete(m.runs, id)
	return nil
}

// stubExecutor returns a canned result without touching a browser
type stubExecutor struct {
	err error
}

func (e *stubExecutor) Run(ctx context.Context, in benchmark.Input) (*benchmark.Result, error) {
	if e.err != nil {
		return nil, e.err
	}

	sites := make([]benchmark.SiteResult, len(in.Sites))
	for i, s := range in.Sites {
		sites[i] = benchmark.SiteResult{
			Site:           s,
			GoalAchieved:   true,
			Duration:       5 * time.Second,
			Steps:          2,
			FrictionPoints: []string{},
			Patience:       95,
		}
	}

	result := &benchmark.Result{
		Goal:      in.Goal,
		Persona:   in.Persona,
		Timestamp: time.Now().UTC(),
		Duration:  5 * time.Second,
		Sites:     sites,
	}
	result.Ranking = benchmark.Rank(sites)
	result.Comparison = benchmark.Compare(sites)
	result.Recommendations = benchmark.Recommend(result.Ranking, sites)
	return result, nil
}

// fakeReportStore records presigned-URL requests for report endpoint tests
type fakeReportStore struct {
	keys []string
	err  error
}

func (f *fakeReportStore) GetPresignedURL(_ context.Context, key string) (string, error) {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return "", f.err
	}
	return "https://store.local/presigned/" + key, nil
}

func routerWithReports(repo *memoryRepo, reports *fakeReportStore) *Router {
	logger := zap.NewNop()
	svc := runner.NewService(repo, nil, &stubExecutor{}, nil, nil, logger)

	return NewRouter(RouterConfig{
		Benchmarks: repo,
		Runner:     svc,
		Reports:    reports,
		Logger:     logger,
	})
}

func routerWithRepo(repo *memoryRepo, exec runner.Executor) *Router {
	logger := zap.NewNop()
	svc := runner.NewService(repo, nil, exec, nil, nil, logger)

	return NewRouter(RouterConfig{
		Benchmarks: repo,
		Runner:     svc,
		Logger:     logger,
	})
}

func doJSON(t *testing.T, h http.Handler, method, path string, body string) (*httptest.ResponseRecorder, httputil.Response) {
	t.Helper()

	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp httputil.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func waitForStatus(t *testing.T, repo *memoryRepo, id uuid.UUID, want domain.RunStatus) *domain.BenchmarkRun {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		run, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		if run.Status == want {
			return run
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("run %s never reached status %s", id, want)
	return nil
}

func TestHealthEndpoint(t *testing.T) {
	router := routerWithRepo(newMemoryRepo(), &stubExecutor{})

	rec, resp := doJSON(t, router, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, "uxbench-api", data["service"])
}

func TestCreateBenchmark(t *testing.T) {
	repo := newMemoryRepo()
	router := routerWithRepo(repo, &stubExecutor{})

	body := `{"goal": "find pricing information", "sites": [{"url": "https://a.com"}, {"url": "https://b.com"}]}`
	rec, resp := doJSON(t, router, http.MethodPost, "/api/v1/benchmarks", body)

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "find pricing information", data["goal"])
	assert.Equal(t, "api", data["triggered_by"])

	id, err := uuid.Parse(data["id"].(string))
	require.NoError(t, err)

	// The run executes in the background and settles as completed
	run := waitForStatus(t, repo, id, domain.RunStatusCompleted)
	require.NotNil(t, run.Result)
	assert.Len(t, run.Result.Sites, 2)
	assert.NotNil(t, run.CompletedAt)
}

func TestCreateBenchmarkValidation(t *testing.T) {
	router := routerWithRepo(newMemoryRepo(), &stubExecutor{})

	tests := []struct {
		name string
		body string
	}{
		{"empty goal", `{"goal": "", "sites": [{"url": "https://a.com"}]}`},
		{"no sites", `{"goal": "find pricing", "sites": []}`},
		{"relative url", `{"goal": "find pricing", "sites": [{"url": "/pricing"}]}`},
		{"bad json", `{"goal": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := doJSON(t, router, http.MethodPost, "/api/v1/benchmarks", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
		})
	}
}

func TestCreateBenchmarkExecutorFailure(t *testing.T) {
	repo := newMemoryRepo()
	router := routerWithRepo(repo, &stubExecutor{err: errors.New("browser launch failed")})

	body := `{"goal": "find pricing", "sites": [{"url": "https://a.com"}]}`
	rec, resp := doJSON(t, router, http.MethodPost, "/api/v1/benchmarks", body)

	require.Equal(t, http.StatusAccepted, rec.Code)
	data := resp.Data.(map[string]interface{})
	id := uuid.MustParse(data["id"].(string))

	run := waitForStatus(t, repo, id, domain.RunStatusFailed)
	assert.Equal(t, "browser launch failed", run.Error)
	assert.Nil(t, run.Result)
}

func TestGetBenchmark(t *testing.T) {
	repo := newMemoryRepo()
	router := routerWithRepo(repo, &stubExecutor{})

	run := domain.NewBenchmarkRun(&benchmark.Input{
		Goal:  "find pricing",
		Sites: []benchmark.Site{{URL: "https://a.com"}},
	}, "test")
	require.NoError(t, repo.Create(context.Background(), run))

	rec, resp := doJSON(t, router, http.MethodGet, "/api/v1/benchmarks/"+run.ID.String(), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, run.ID.String(), data["id"])
	assert.Equal(t, string(domain.RunStatusPending), data["status"])
}

func TestGetBenchmarkNotFound(t *testing.T) {
	router := routerWithRepo(newMemoryRepo(), &stubExecutor{})

	rec, resp := doJSON(t, router, http.MethodGet, "/api/v1/benchmarks/"+uuid.New().String(), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, resp.Success)
}

func TestGetBenchmarkBadID(t *testing.T) {
	router := routerWithRepo(newMemoryRepo(), &stubExecutor{})

	rec, resp := doJSON(t, router, http.MethodGet, "/api/v1/benchmarks/not-a-uuid", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_ID", resp.Error.Code)
}

func TestGetBenchmarkStatus(t *testing.T) {
	repo := newMemoryRepo()
	router := routerWithRepo(repo, &stubExecutor{})

	run := domain.NewBenchmarkRun(&benchmark.Input{
		Goal:  "find pricing",
		Sites: []benchmark.Site{{URL: "https://a.com"}},
	}, "test")
	require.NoError(t, repo.Create(context.Background(), run))

	rec, resp := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/benchmarks/%s/status", run.ID), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, run.ID.String(), data["id"])
	assert.Equal(t, string(domain.RunStatusPending), data["status"])
}

func TestGetBenchmarkStatusTracksLifecycle(t *testing.T) {
	repo := newMemoryRepo()
	router := routerWithRepo(repo, &stubExecutor{})

	body := `{"goal": "find pricing", "sites": [{"url": "https://a.com"}]}`
	_, resp := doJSON(t, router, http.MethodPost, "/api/v1/benchmarks", body)
	id := uuid.MustParse(resp.Data.(map[string]interface{})["id"].(string))
	waitForStatus(t, repo, id, domain.RunStatusCompleted)

	rec, resp := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/benchmarks/%s/status", id), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, string(domain.RunStatusCompleted), data["status"])
}

func TestGetBenchmarkStatusNotFound(t *testing.T) {
	router := routerWithRepo(newMemoryRepo(), &stubExecutor{})

	rec, resp := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/benchmarks/%s/status", uuid.New()), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, resp.Success)
}

func TestGetReport(t *testing.T) {
	repo := newMemoryRepo()
	store := &fakeReportStore{}
	router := routerWithReports(repo, store)

	run := domain.NewBenchmarkRun(&benchmark.Input{
		Goal:  "find pricing",
		Sites: []benchmark.Site{{URL: "https://a.com"}},
	}, "test")
	run.ReportURL = "s3://uxbench/reports/2026-08-30-abc123.html"
	require.NoError(t, repo.Create(context.Background(), run))

	rec, resp := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/benchmarks/%s/report", run.ID), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "https://store.local/presigned/reports/2026-08-30-abc123.html", data["url"])
	assert.Equal(t, []string{"reports/2026-08-30-abc123.html"}, store.keys)
}

func TestGetReportNotPublished(t *testing.T) {
	repo := newMemoryRepo()
	router := routerWithReports(repo, &fakeReportStore{})

	run := domain.NewBenchmarkRun(&benchmark.Input{
		Goal:  "find pricing",
		Sites: []benchmark.Site{{URL: "https://a.com"}},
	}, "test")
	require.NoError(t, repo.Create(context.Background(), run))

	rec, resp := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/benchmarks/%s/report", run.ID), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "REPORT_NOT_FOUND", resp.Error.Code)
}

func TestGetReportStorageUnavailable(t *testing.T) {
	repo := newMemoryRepo()
	router := routerWithRepo(repo, &stubExecutor{})

	run := domain.NewBenchmarkRun(&benchmark.Input{
		Goal:  "find pricing",
		Sites: []benchmark.Site{{URL: "https://a.com"}},
	}, "test")
	run.ReportURL = "s3://uxbench/reports/2026-08-30-abc123.html"
	require.NoError(t, repo.Create(context.Background(), run))

	rec, resp := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/benchmarks/%s/report", run.ID), "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "REPORTS_UNAVAILABLE", resp.Error.Code)
}

func TestGetReportExternalURL(t *testing.T) {
	repo := newMemoryRepo()
	router := routerWithRepo(repo, &stubExecutor{})

	run := domain.NewBenchmarkRun(&benchmark.Input{
		Goal:  "find pricing",
		Sites: []benchmark.Site{{URL: "https://a.com"}},
	}, "test")
	run.ReportURL = "https://cdn.example.com/reports/run.html"
	require.NoError(t, repo.Create(context.Background(), run))

	rec, resp := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/benchmarks/%s/report", run.ID), "")

	// A non-object-store URI needs no presigning
	assert.Equal(t, http.StatusOK, rec.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "https://cdn.example.com/reports/run.html", data["url"])
}

func TestGetResult(t *testing.T) {
	repo := newMemoryRepo()
	router := routerWithRepo(repo, &stubExecutor{})

	body := `{"goal": "find pricing", "sites": [{"url": "https://a.com"}]}`
	_, resp := doJSON(t, router, http.MethodPost, "/api/v1/benchmarks", body)
	id := uuid.MustParse(resp.Data.(map[string]interface{})["id"].(string))
	waitForStatus(t, repo, id, domain.RunStatusCompleted)

	rec, resp := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/benchmarks/%s/result", id), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "find pricing", data["goal"])
	sites := data["sites"].([]interface{})
	assert.Len(t, sites, 1)
}

func TestGetResultNotReady(t *testing.T) {
	repo := newMemoryRepo()
	router := routerWithRepo(repo, &stubExecutor{})

	run := domain.NewBenchmarkRun(&benchmark.Input{
		Goal:  "find pricing",
		Sites: []benchmark.Site{{URL: "https://a.com"}},
	}, "test")
	require.NoError(t, repo.Create(context.Background(), run))

	rec, resp := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/benchmarks/%s/result", run.ID), "")

	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_READY", resp.Error.Code)
}

func TestListBenchmarks(t *testing.T) {
	repo := newMemoryRepo()
	router := routerWithRepo(repo, &stubExecutor{})

	for i := 0; i < 3; i++ {
		run := domain.NewBenchmarkRun(&benchmark.Input{
			Goal:  fmt.Sprintf("goal %d", i),
			Sites: []benchmark.Site{{URL: "https://a.com"}},
		}, "test")
		run.CreatedAt = run.CreatedAt.Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.Create(context.Background(), run))
	}

	rec, resp := doJSON(t, router, http.MethodGet, "/api/v1/benchmarks?page=1&per_page=2", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	items := resp.Data.([]interface{})
	assert.Len(t, items, 2)

	require.NotNil(t, resp.Meta)
	assert.Equal(t, 3, resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.TotalPages)

	// Newest first
	first := items[0].(map[string]interface{})
	assert.Equal(t, "goal 2", first["goal"])
}

func TestDeleteBenchmark(t *testing.T) {
	repo := newMemoryRepo()
	router := routerWithRepo(repo, &stubExecutor{})

	run := domain.NewBenchmarkRun(&benchmark.Input{
		Goal:  "find pricing",
		Sites: []benchmark.Site{{URL: "https://a.com"}},
	}, "test")
	run.Fail("browser launch failed")
	require.NoError(t, repo.Create(context.Background(), run))

	rec, resp := doJSON(t, router, http.MethodDelete, "/api/v1/benchmarks/"+run.ID.String(), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	_, err := repo.GetByID(context.Background(), run.ID)
	assert.Error(t, err)
}

func TestDeleteActiveBenchmarkRejected(t *testing.T) {
	repo := newMemoryRepo()
	router := routerWithRepo(repo, &stubExecutor{})

	run := domain.NewBenchmarkRun(&benchmark.Input{
		Goal:  "find pricing",
		Sites: []benchmark.Site{{URL: "https://a.com"}},
	}, "test")
	run.Start()
	require.NoError(t, repo.Create(context.Background(), run))

	rec, resp := doJSON(t, router, http.MethodDelete, "/api/v1/benchmarks/"+run.ID.String(), "")

	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_STATE", resp.Error.Code)
}
