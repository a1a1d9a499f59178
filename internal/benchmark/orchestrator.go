package benchmark

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/uxbench/uxbench/internal/browser"
	"github.com/uxbench/uxbench/internal/goal"
	"github.com/uxbench/uxbench/internal/journey"
	"github.com/uxbench/uxbench/internal/risk"
)

// SessionFactory hands out exclusive browser sessions. *browser.Launcher
// satisfies it.
type SessionFactory interface {
	NewSession(ctx context.Context) (browser.Session, error)
}

type journeyFunc func(ctx context.Context, sess browser.Session, g *goal.Goal, siteURL string, opts journey.Options) (*journey.Trace, error)

// Orchestrator runs one simulated journey per site and aggregates the
// results into rankings, comparisons and recommendations.
type Orchestrator struct {
	sessions SessionFactory
	interp   *goal.Interpreter
	logger   *zap.Logger

	// runJourney is swapped out in tests
	runJourney journeyFunc
}

// New creates an orchestrator. shots may be nil to skip screenshots.
func New(sessions SessionFactory, interp *goal.Interpreter, shots journey.ScreenshotStore, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	runner := journey.NewRunner(interp, shots, logger)
	return &Orchestrator{
		sessions:   sessions,
		interp:     interp,
		logger:     logger,
		runJourney: runner.Run,
	}
}

// Run benchmarks every site in fixed-size batches of MaxConcurrency. Batches
// run sequentially; sites within a batch run concurrently, each on its own
// browser session. The output always holds one result per requested site.
func (o *Orchestrator) Run(ctx context.Context, in Input) (*Result, error) {
	in.ApplyDefaults()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	g := o.interp.Parse(in.Goal)
	opts := journey.Options{MaxSteps: in.MaxSteps, MaxTime: in.MaxTime}
	started := time.Now()

	o.logger.Info("benchmark started",
		zap.String("goal", in.Goal),
		zap.Int("sites", len(in.Sites)),
		zap.Int("max_concurrency", in.MaxConcurrency))

	results := make([]SiteResult, len(in.Sites))
	for lo := 0; lo < len(in.Sites); lo += in.MaxConcurrency {
		hi := min(lo+in.MaxConcurrency, len(in.Sites))

		var wg sync.WaitGroup
		for i := lo; i < hi; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = o.visit(ctx, in.Sites[i], g, opts)
			}(i)
		}
		wg.Wait()
	}

	res := &Result{
		Goal:      in.Goal,
		Persona:   in.Persona,
		Timestamp: started,
		Duration:  time.Since(started),
		Sites:     results,
	}
	res.Ranking = Rank(results)
	res.Comparison = Compare(results)
	res.Recommendations = Recommend(res.Ranking, results)

	o.logger.Info("benchmark finished",
		zap.Duration("duration", res.Duration),
		zap.String("winner", res.Winner()))

	return res, nil
}

// visit runs one site end to end. Failures of any kind, panics included, are
// converted into a terminal result so one broken site never aborts the batch.
func (o *Orchestrator) visit(ctx context.Context, site Site, g *goal.Goal, opts journey.Options) (out SiteResult) {
	out = SiteResult{Site: site}

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("site journey panicked",
				zap.String("site", site.URL), zap.Any("panic", r))
			out = errorResult(site, fmt.Errorf("%v", r))
		}
	}()

	sess, err := o.sessions.NewSession(ctx)
	if err != nil {
		return errorResult(site, err)
	}
	defer sess.Close()

	trace, err := o.runJourney(ctx, sess, g, site.URL, opts)
	if err != nil {
		return errorResult(site, err)
	}

	out.GoalAchieved = trace.GoalAchieved
	out.AbandonReason = trace.AbandonReason
	out.Duration = trace.Duration
	out.Steps = trace.Steps
	out.FrictionPoints = trace.FrictionPoints
	out.Patience = trace.Patience
	out.Frustration = trace.Frustration
	out.Confusion = trace.Confusion
	out.Risk = risk.AbandonmentRisk(trace.Patience, trace.Frustration, trace.Confusion, trace.GoalAchieved)
	out.RiskTier = risk.TierFor(out.Risk)
	out.Screenshots = trace.Screenshots
	out.FinalURL = trace.FinalURL
	out.Actions = trace.Actions
	return out
}

// errorResult records a site that never completed a journey. The visitor got
// nowhere, so risk is pinned at the maximum.
func errorResult(site Site, err error) SiteResult {
	r := 100.0
	return SiteResult{
		Site:          site,
		GoalAchieved:  false,
		AbandonReason: "Error: " + err.Error(),
		Risk:          r,
		RiskTier:      risk.TierFor(r),
	}
}
