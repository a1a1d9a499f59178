package domain

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/uxbench/uxbench/internal/benchmark"
)

// RunStatus represents the current state of a benchmark run
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Timestamps are the audit fields shared by persisted entities
type Timestamps struct {
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// BenchmarkRun is one persisted benchmark: the request, its lifecycle and,
// once completed, the full result.
type BenchmarkRun struct {
	ID          uuid.UUID         `json:"id" db:"id"`
	Status      RunStatus         `json:"status" db:"status"`
	Goal        string            `json:"goal" db:"goal"`
	Persona     string            `json:"persona,omitempty" db:"persona"`
	Input       *benchmark.Input  `json:"input" db:"input"`
	Result      *benchmark.Result `json:"result,omitempty" db:"result"`
	Error       string            `json:"error,omitempty" db:"error"`
	ReportURL   string            `json:"report_url,omitempty" db:"report_url"`
	TriggeredBy string            `json:"triggered_by" db:"triggered_by"` // api, cli
	StartedAt   *time.Time        `json:"started_at,omitempty" db:"started_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty" db:"completed_at"`
	Timestamps
}

// NewBenchmarkRun creates a pending run for the given input
func NewBenchmarkRun(in *benchmark.Input, triggeredBy string) *BenchmarkRun {
	now := time.Now().UTC()
	run := &BenchmarkRun{
		ID:          uuid.New(),
		Status:      RunStatusPending,
		TriggeredBy: triggeredBy,
		Input:       in,
		Timestamps: Timestamps{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if in != nil {
		run.Goal = in.Goal
		run.Persona = in.Persona
	}
	return run
}

// Validate rejects runs that could never execute
func (r *BenchmarkRun) Validate() error {
	if strings.TrimSpace(r.Goal) == "" {
		return ValidationError("goal", "goal must not be empty")
	}
	if r.Input == nil || len(r.Input.Sites) == 0 {
		return ValidationError("sites", "at least one site is required")
	}
	for _, s := range r.Input.Sites {
		u, err := url.Parse(s.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return ValidationError("sites", "invalid site url: "+s.URL)
		}
	}
	return nil
}

// Start marks the run as executing
func (r *BenchmarkRun) Start() {
	now := time.Now().UTC()
	r.Status = RunStatusRunning
	r.StartedAt = &now
	r.UpdatedAt = now
}

// Complete stores the result and marks the run finished
func (r *BenchmarkRun) Complete(result *benchmark.Result, reportURL string) {
	now := time.Now().UTC()
	r.Status = RunStatusCompleted
	r.Result = result
	r.ReportURL = reportURL
	r.CompletedAt = &now
	r.UpdatedAt = now
}

// Fail marks the run as failed with the terminal error
func (r *BenchmarkRun) Fail(reason string) {
	now := time.Now().UTC()
	r.Status = RunStatusFailed
	r.Error = reason
	r.CompletedAt = &now
	r.UpdatedAt = now
}

// IsTerminal reports whether the run can no longer change state
func (r *BenchmarkRun) IsTerminal() bool {
	return r.Status == RunStatusCompleted || r.Status == RunStatusFailed
}

// BenchmarkRepository defines data access for benchmark runs
type BenchmarkRepository interface {
	Create(ctx context.Context, run *BenchmarkRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*BenchmarkRun, error)
	List(ctx context.Context, limit, offset int) ([]*BenchmarkRun, int, error)
	Update(ctx context.Context, run *BenchmarkRun) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status RunStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}
