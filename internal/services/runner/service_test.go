package runner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uxbench/uxbench/internal/benchmark"
	"github.com/uxbench/uxbench/internal/domain"
	"github.com/uxbench/uxbench/internal/observability"
)

type recordingRepo struct {
	mu      sync.Mutex
	runs    map[uuid.UUID]*domain.BenchmarkRun
	updates []domain.RunStatus
}

func newRecordingRepo() *recordingRepo {
	return &recordingRepo{runs: make(map[uuid.UUID]*domain.BenchmarkRun)}
}

func (r *recordingRepo) Create(ctx context.Context, run *domain.BenchmarkRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *run
	r.runs[run.ID] = &cp
	return nil
}

func (r *recordingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.BenchmarkRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, domain.NotFoundError("benchmark run", id.String())
	}
	cp := *run
	return &cp, nil
}

func (r *recordingRepo) List(ctx context.Context, limit, offset int) ([]*domain.BenchmarkRun, int, error) {
	return nil, 0, nil
}

func (r *recordingRepo) Update(ctx context.Context, run *domain.BenchmarkRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *run
	r.runs[run.ID] = &cp
	r.updates = append(r.updates, run.Status)
	return nil
}

func (r *recordingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RunStatus) error {
	return nil
}

func (r *recordingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (r *recordingRepo) statuses() []domain.RunStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.RunStatus, len(r.updates))
	copy(out, r.updates)
	return out
}

type fixedExecutor struct {
	result *benchmark.Result
	err    error
	gotIn  benchmark.Input
}

func (e *fixedExecutor) Run(ctx context.Context, in benchmark.Input) (*benchmark.Result, error) {
	e.gotIn = in
	return e.result, e.err
}

type fixedReporter struct {
	url string
	err error
}

func (r *fixedReporter) Publish(ctx context.Context, result *benchmark.Result) (string, error) {
	return r.url, r.err
}

func newRun(t *testing.T) *domain.BenchmarkRun {
	t.Helper()
	return domain.NewBenchmarkRun(&benchmark.Input{
		Goal:  "find pricing information",
		Sites: []benchmark.Site{{URL: "https://a.com"}},
	}, "test")
}

func sampleResult() *benchmark.Result {
	sites := []benchmark.SiteResult{{
		Site:           benchmark.Site{URL: "https://a.com"},
		GoalAchieved:   true,
		Duration:       8 * time.Second,
		Steps:          3,
		FrictionPoints: []string{},
		Patience:       92,
	}}
	return &benchmark.Result{
		Goal:      "find pricing information",
		Timestamp: time.Now().UTC(),
		Duration:  8 * time.Second,
		Sites:     sites,
		Ranking:   benchmark.Rank(sites),
	}
}

func TestExecuteCompletes(t *testing.T) {
	repo := newRecordingRepo()
	exec := &fixedExecutor{result: sampleResult()}
	reporter := &fixedReporter{url: "https://store.local/reports/run.html"}
	svc := NewService(repo, nil, exec, reporter, nil, zap.NewNop())

	run := newRun(t)
	require.NoError(t, repo.Create(context.Background(), run))

	svc.Execute(context.Background(), run)

	stored, err := repo.GetByID(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusCompleted, stored.Status)
	require.NotNil(t, stored.Result)
	assert.Equal(t, "https://store.local/reports/run.html", stored.ReportURL)
	assert.NotNil(t, stored.StartedAt)
	assert.NotNil(t, stored.CompletedAt)

	// Running state is persisted before the result lands
	assert.Equal(t, []domain.RunStatus{domain.RunStatusRunning, domain.RunStatusCompleted}, repo.statuses())

	// The executor receives the stored input
	assert.Equal(t, "find pricing information", exec.gotIn.Goal)
}

func TestExecuteFailure(t *testing.T) {
	repo := newRecordingRepo()
	exec := &fixedExecutor{err: errors.New("browser launch failed")}
	svc := NewService(repo, nil, exec, nil, nil, zap.NewNop())

	run := newRun(t)
	require.NoError(t, repo.Create(context.Background(), run))

	svc.Execute(context.Background(), run)

	stored, err := repo.GetByID(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusFailed, stored.Status)
	assert.Equal(t, "browser launch failed", stored.Error)
	assert.Nil(t, stored.Result)
}

func TestExecuteReportFailureIsNonFatal(t *testing.T) {
	repo := newRecordingRepo()
	exec := &fixedExecutor{result: sampleResult()}
	reporter := &fixedReporter{err: errors.New("bucket unavailable")}
	svc := NewService(repo, nil, exec, reporter, nil, zap.NewNop())

	run := newRun(t)
	require.NoError(t, repo.Create(context.Background(), run))

	svc.Execute(context.Background(), run)

	stored, err := repo.GetByID(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusCompleted, stored.Status)
	require.NotNil(t, stored.Result)
	assert.Empty(t, stored.ReportURL)
}

func TestExecuteRecordsJourneyMetrics(t *testing.T) {
	// promauto registers globally, so the namespace must be unique to this test
	metrics := observability.NewMetrics("uxbench_runner_test")

	abandoned := benchmark.SiteResult{
		Site:           benchmark.Site{URL: "https://b.com"},
		AbandonReason:  "ran out of patience",
		Duration:       30 * time.Second,
		Steps:          12,
		FrictionPoints: []string{"CAPTCHA blocking progress", "Pop-up interrupting the visit"},
		Risk:           78,
		Screenshots:    []string{"s3://uxbench/journeys/b-com/landing.jpg"},
	}
	errored := benchmark.SiteResult{
		Site:          benchmark.Site{URL: "https://c.com"},
		AbandonReason: "Error: navigating to https://c.com: timeout",
		Risk:          100,
	}
	result := sampleResult()
	result.Sites = append(result.Sites, abandoned, errored)
	result.Ranking = benchmark.Rank(result.Sites)

	repo := newRecordingRepo()
	exec := &fixedExecutor{result: result}
	svc := NewService(repo, nil, exec, nil, metrics, zap.NewNop())

	run := newRun(t)
	require.NoError(t, repo.Create(context.Background(), run))

	svc.Execute(context.Background(), run)

	// Every friction point on the stored result reaches the counter
	captcha := metrics.FrictionRecorded.WithLabelValues("CAPTCHA blocking progress")
	popup := metrics.FrictionRecorded.WithLabelValues("Pop-up interrupting the visit")
	assert.Equal(t, 1.0, testutil.ToFloat64(captcha))
	assert.Equal(t, 1.0, testutil.ToFloat64(popup))

	outcome := func(o string) float64 {
		return testutil.ToFloat64(metrics.JourneyOutcomes.WithLabelValues(o))
	}
	assert.Equal(t, 1.0, outcome("achieved"))
	assert.Equal(t, 1.0, outcome("abandoned"))
	assert.Equal(t, 1.0, outcome("error"))

	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.SessionsOpened))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.NavigationErrors))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ScreenshotsStored))
}

func TestLaunchRunsInBackground(t *testing.T) {
	repo := newRecordingRepo()
	exec := &fixedExecutor{result: sampleResult()}
	svc := NewService(repo, nil, exec, nil, nil, zap.NewNop())

	run := newRun(t)
	require.NoError(t, repo.Create(context.Background(), run))

	svc.Launch(run)

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		stored, err := repo.GetByID(context.Background(), run.ID)
		require.NoError(t, err)
		if stored.Status == domain.RunStatusCompleted {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("run never completed")
}
