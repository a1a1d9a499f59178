package journey

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/uxbench/uxbench/internal/browser"
	"github.com/uxbench/uxbench/internal/focus"
	"github.com/uxbench/uxbench/internal/goal"
	"github.com/uxbench/uxbench/internal/page"
	"github.com/uxbench/uxbench/internal/selector"
)

const scrollStep = 600

// ScreenshotStore saves journey screenshots and returns a stable URI.
// Nil-safe: journeys run fine without one.
type ScreenshotStore interface {
	SaveScreenshot(ctx context.Context, key string, data []byte) (string, error)
}

// Options bounds one journey
type Options struct {
	MaxSteps int
	MaxTime  time.Duration
}

// DefaultOptions returns the standard journey bounds
func DefaultOptions() Options {
	return Options{
		MaxSteps: 30,
		MaxTime:  180 * time.Second,
	}
}

// ActionRecord is one executed step in the journey trace
type ActionRecord struct {
	Step    int             `json:"step"`
	Kind    page.ActionKind `json:"kind"`
	Label   string          `json:"label"`
	Locator string          `json:"locator"`
	Success bool            `json:"success"`
}

// Trace is the terminal record of one journey
type Trace struct {
	GoalAchieved   bool           `json:"goal_achieved"`
	AbandonReason  string         `json:"abandon_reason,omitempty"`
	Steps          int            `json:"steps"`
	Duration       time.Duration  `json:"duration"`
	FrictionPoints []string       `json:"friction_points"`
	Patience       float64        `json:"patience"`
	Frustration    float64        `json:"frustration"`
	Confusion      float64        `json:"confusion"`
	Actions        []ActionRecord `json:"actions"`
	Screenshots    []string       `json:"screenshots,omitempty"`
	FinalURL       string         `json:"final_url"`
}

// Runner drives the analyze/select/act loop for one site
type Runner struct {
	interpreter *goal.Interpreter
	analyzer    *page.Analyzer
	shots       ScreenshotStore
	logger      *zap.Logger
}

// NewRunner creates a journey runner. shots may be nil.
func NewRunner(interpreter *goal.Interpreter, shots ScreenshotStore, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		interpreter: interpreter,
		analyzer:    page.NewAnalyzer(),
		shots:       shots,
		logger:      logger,
	}
}

// Run simulates one goal-directed visit. A navigation failure is returned as
// an error; everything after a successful landing terminates in a Trace.
func (r *Runner) Run(ctx context.Context, sess browser.Session, g *goal.Goal, siteURL string, opts Options) (*Trace, error) {
	start := time.Now()
	state := NewState()
	hierarchy := focus.ForTaskType(g.TaskType)
	trace := &Trace{}

	log := r.logger.With(zap.String("site", siteURL), zap.String("goal", g.Text))

	if err := sess.Navigate(ctx, siteURL); err != nil {
		return nil, err
	}

	r.capture(ctx, sess, siteURL, "landing", trace)

	for {
		// Wall-clock bound outranks everything else
		if time.Since(start) > opts.MaxTime {
			trace.AbandonReason = ReasonTimeLimit
			break
		}
		if state.Steps >= opts.MaxSteps {
			trace.AbandonReason = ReasonStepLimit
			break
		}

		raw, err := sess.Snapshot(ctx)
		if err != nil {
			return nil, fmt.Errorf("analyzing page: %w", err)
		}
		snap := r.analyzer.Analyze(raw, g)

		if r.interpreter.IsGoalReached(snap.Text, raw.URL, g) {
			trace.GoalAchieved = true
			break
		}

		if added := state.RecordFriction(snap.FrictionPoints); added > 0 {
			log.Debug("friction detected",
				zap.Strings("points", snap.FrictionPoints),
				zap.Float64("patience", state.Patience))
		}
		if state.Exhausted() {
			trace.AbandonReason = ReasonOutOfPatience
			break
		}

		choice := selector.Next(snap, hierarchy)
		if choice == nil {
			if reason := state.NoActionFound(); reason != "" {
				trace.AbandonReason = reason
				break
			}
			if state.Exhausted() {
				trace.AbandonReason = ReasonOutOfPatience
				break
			}
			if err := sess.ScrollBy(ctx, scrollStep); err != nil {
				log.Debug("scroll failed", zap.Error(err))
				if reason := state.ActionFailed("Page would not scroll"); reason != "" {
					trace.AbandonReason = reason
					break
				}
			}
			state.Steps++
			continue
		}

		err = r.execute(ctx, sess, choice.Candidate, g)
		record := ActionRecord{
			Step:    state.Steps + 1,
			Kind:    choice.Candidate.Kind,
			Label:   choice.Candidate.Label,
			Locator: choice.Candidate.Locator,
			Success: err == nil,
		}
		trace.Actions = append(trace.Actions, record)
		state.Steps++

		if err != nil {
			log.Debug("action failed", zap.String("label", record.Label), zap.Error(err))
			point := "Failed to interact with " + labelOrLocator(choice.Candidate)
			if reason := state.ActionFailed(point); reason != "" {
				trace.AbandonReason = reason
				break
			}
		} else {
			state.ActionSucceeded()
		}

		if state.Exhausted() {
			trace.AbandonReason = ReasonOutOfPatience
			break
		}
	}

	r.capture(ctx, sess, siteURL, "final", trace)

	trace.Steps = state.Steps
	trace.Duration = time.Since(start)
	trace.FrictionPoints = state.FrictionPoints
	trace.Patience = state.Patience
	trace.Frustration = state.Frustration
	trace.Confusion = state.Confusion
	trace.FinalURL = sess.URL()

	log.Info("journey finished",
		zap.Bool("goal_achieved", trace.GoalAchieved),
		zap.String("abandon_reason", trace.AbandonReason),
		zap.Int("steps", trace.Steps),
		zap.Duration("duration", trace.Duration))

	return trace, nil
}

// execute performs the chosen action
func (r *Runner) execute(ctx context.Context, sess browser.Session, c page.ActionCandidate, g *goal.Goal) error {
	switch c.Kind {
	case page.ActionFill:
		return sess.Fill(ctx, c.Locator, fillValue(c, g))
	default:
		return sess.Click(ctx, c.Locator)
	}
}

// fillValue derives plausible input for a field from its label and the goal
func fillValue(c page.ActionCandidate, g *goal.Goal) string {
	hint := strings.ToLower(c.Label + " " + c.Text)
	switch {
	case strings.Contains(hint, "email"):
		return "visitor@example.com"
	case strings.Contains(hint, "name"):
		return "Alex Visitor"
	case strings.Contains(hint, "phone"):
		return "555-0100"
	default:
		return g.Text
	}
}

func (r *Runner) capture(ctx context.Context, sess browser.Session, siteURL, stage string, trace *Trace) {
	if r.shots == nil {
		return
	}
	data, err := sess.Screenshot(ctx)
	if err != nil {
		r.logger.Debug("screenshot failed", zap.String("stage", stage), zap.Error(err))
		return
	}
	key := fmt.Sprintf("journeys/%s/%s-%s.jpg", slugify(siteURL), stage, uuid.NewString()[:8])
	uri, err := r.shots.SaveScreenshot(ctx, key, data)
	if err != nil {
		r.logger.Warn("saving screenshot failed", zap.String("key", key), zap.Error(err))
		return
	}
	trace.Screenshots = append(trace.Screenshots, uri)
}

func labelOrLocator(c page.ActionCandidate) string {
	if l := strings.TrimSpace(c.Label); l != "" {
		return l
	}
	return c.Locator
}

func slugify(s string) string {
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, s)
	return strings.Trim(s, "-")
}
