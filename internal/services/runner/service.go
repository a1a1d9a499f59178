package runner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/uxbench/uxbench/internal/benchmark"
	"github.com/uxbench/uxbench/internal/domain"
	"github.com/uxbench/uxbench/internal/observability"
	rediscache "github.com/uxbench/uxbench/internal/repository/redis"
)

// Reporter publishes a finished result and returns the report URI.
type Reporter interface {
	Publish(ctx context.Context, result *benchmark.Result) (string, error)
}

// Executor runs a benchmark input to completion.
type Executor interface {
	Run(ctx context.Context, in benchmark.Input) (*benchmark.Result, error)
}

// Service executes benchmark runs in the background and records their
// lifecycle in the repository.
type Service struct {
	repo     domain.BenchmarkRepository
	cache    *rediscache.Cache
	executor Executor
	reporter Reporter
	metrics  *observability.Metrics
	logger   *zap.Logger
	timeout  time.Duration
}

// NewService creates a new run service
func NewService(
	repo domain.BenchmarkRepository,
	cache *rediscache.Cache,
	executor Executor,
	reporter Reporter,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		executor: executor,
		reporter: reporter,
		metrics:  metrics,
		logger:   logger,
		timeout:  30 * time.Minute,
	}
}

// Launch starts executing a run in a background goroutine. The run must
// already be persisted. The HTTP request context is not used: the run
// outlives the request that triggered it.
func (s *Service) Launch(run *domain.BenchmarkRun) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		s.Execute(ctx, run)
	}()
}

// Execute runs a benchmark synchronously, updating the stored run as it
// progresses.
func (s *Service) Execute(ctx context.Context, run *domain.BenchmarkRun) {
	start := time.Now()

	s.logger.Info("Benchmark run starting",
		zap.String("run_id", run.ID.String()),
		zap.String("goal", run.Goal),
		zap.Int("sites", len(run.Input.Sites)),
	)

	if s.metrics != nil {
		s.metrics.RecordBenchmarkStart(len(run.Input.Sites))
	}

	run.Start()
	if err := s.repo.Update(ctx, run); err != nil {
		s.logger.Error("Failed to mark run as running", zap.Error(err), zap.String("run_id", run.ID.String()))
	}
	s.cacheStatus(ctx, run)

	result, err := s.executor.Run(ctx, *run.Input)
	if err != nil {
		s.fail(ctx, run, err, start)
		return
	}

	// Publish the report before completing so the stored run carries its URL.
	// A failed upload is not fatal: the result itself is still persisted.
	var reportURL string
	if s.reporter != nil {
		reportURL, err = s.reporter.Publish(ctx, result)
		if err != nil {
			s.logger.Warn("Report publish failed",
				zap.Error(err),
				zap.String("run_id", run.ID.String()),
			)
			reportURL = ""
		}
	}

	run.Complete(result, reportURL)
	if err := s.repo.Update(ctx, run); err != nil {
		s.logger.Error("Failed to store completed run", zap.Error(err), zap.String("run_id", run.ID.String()))
	}
	s.cacheStatus(ctx, run)

	if s.cache != nil {
		if err := s.cache.SetResult(ctx, run.ID, result); err != nil {
			s.logger.Debug("Result cache write failed", zap.Error(err))
		}
	}

	if s.metrics != nil {
		s.metrics.RecordBenchmarkComplete(string(domain.RunStatusCompleted), time.Since(start))
		for _, site := range result.Sites {
			s.metrics.RecordJourney(journeyOutcome(site), site.Steps, site.Duration, site.Risk)
			s.metrics.RecordSession(site.Errored())
			s.metrics.RecordScreenshots(len(site.Screenshots))
			for _, point := range site.FrictionPoints {
				s.metrics.RecordFriction(point)
			}
		}
	}

	s.logger.Info("Benchmark run completed",
		zap.String("run_id", run.ID.String()),
		zap.Duration("duration", time.Since(start)),
		zap.String("winner", result.Winner()),
	)
}

func (s *Service) fail(ctx context.Context, run *domain.BenchmarkRun, err error, start time.Time) {
	s.logger.Error("Benchmark run failed",
		zap.Error(err),
		zap.String("run_id", run.ID.String()),
	)

	run.Fail(err.Error())
	if uerr := s.repo.Update(ctx, run); uerr != nil {
		s.logger.Error("Failed to store failed run", zap.Error(uerr), zap.String("run_id", run.ID.String()))
	}
	s.cacheStatus(ctx, run)

	if s.metrics != nil {
		s.metrics.RecordBenchmarkComplete(string(domain.RunStatusFailed), time.Since(start))
	}
}

func (s *Service) cacheStatus(ctx context.Context, run *domain.BenchmarkRun) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetRunStatus(ctx, run.ID, run.Status); err != nil {
		s.logger.Debug("Status cache write failed", zap.Error(err))
	}
}

func journeyOutcome(site benchmark.SiteResult) string {
	switch {
	case site.Errored():
		return "error"
	case site.GoalAchieved:
		return "achieved"
	default:
		return "abandoned"
	}
}
