package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/uxbench/uxbench/internal/benchmark"
	"github.com/uxbench/uxbench/internal/domain"
)

// BenchmarkRepository implements domain.BenchmarkRepository with PostgreSQL
type BenchmarkRepository struct {
	db *sqlx.DB
}

// NewBenchmarkRepository creates a new benchmark run repository
func NewBenchmarkRepository(db *sqlx.DB) *BenchmarkRepository {
	return &BenchmarkRepository{db: db}
}

// benchmarkRow represents the database row structure
type benchmarkRow struct {
	ID          uuid.UUID  `db:"id"`
	Status      string     `db:"status"`
	Goal        string     `db:"goal"`
	Persona     *string    `db:"persona"`
	Input       []byte     `db:"input"`
	Result      []byte     `db:"result"`
	Error       *string    `db:"error"`
	ReportURL   *string    `db:"report_url"`
	TriggeredBy string     `db:"triggered_by"`
	StartedAt   *time.Time `db:"started_at"`
	CompletedAt *time.Time `db:"completed_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

func (r *benchmarkRow) toDomain() (*domain.BenchmarkRun, error) {
	run := &domain.BenchmarkRun{
		ID:          r.ID,
		Status:      domain.RunStatus(r.Status),
		Goal:        r.Goal,
		TriggeredBy: r.TriggeredBy,
		StartedAt:   r.StartedAt,
		CompletedAt: r.CompletedAt,
		Timestamps: domain.Timestamps{
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			DeletedAt: r.DeletedAt,
		},
	}

	if r.Persona != nil {
		run.Persona = *r.Persona
	}
	if r.Error != nil {
		run.Error = *r.Error
	}
	if r.ReportURL != nil {
		run.ReportURL = *r.ReportURL
	}

	if r.Input != nil {
		var in benchmark.Input
		if err := json.Unmarshal(r.Input, &in); err != nil {
			return nil, err
		}
		run.Input = &in
	}

	if r.Result != nil {
		var result benchmark.Result
		if err := json.Unmarshal(r.Result, &result); err != nil {
			return nil, err
		}
		run.Result = &result
	}

	return run, nil
}

// jsonbFields marshals the run's JSONB columns, passing NULL for absent values
func jsonbFields(run *domain.BenchmarkRun) (input, result interface{}, err error) {
	if run.Input != nil {
		data, err := json.Marshal(run.Input)
		if err != nil {
			return nil, nil, err
		}
		input = data
	}
	if run.Result != nil {
		data, err := json.Marshal(run.Result)
		if err != nil {
			return nil, nil, err
		}
		result = data
	}
	return input, result, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Create inserts a new benchmark run
func (r *BenchmarkRepository) Create(ctx context.Context, run *domain.BenchmarkRun) error {
	input, result, err := jsonbFields(run)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO benchmark_runs (
			id, status, goal, persona, input, result, error, report_url,
			triggered_by, started_at, completed_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = r.db.ExecContext(ctx, query,
		run.ID,
		string(run.Status),
		run.Goal,
		nullable(run.Persona),
		input,
		result,
		nullable(run.Error),
		nullable(run.ReportURL),
		run.TriggeredBy,
		run.StartedAt,
		run.CompletedAt,
		run.CreatedAt,
		run.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ValidationError("id", "benchmark run already exists")
		}
		return err
	}

	return nil
}

// GetByID retrieves a benchmark run by ID
func (r *BenchmarkRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.BenchmarkRun, error) {
	query := `
		SELECT id, status, goal, persona, input, result, error, report_url,
		       triggered_by, started_at, completed_at, created_at, updated_at, deleted_at
		FROM benchmark_runs
		WHERE id = $1 AND deleted_at IS NULL
	`

	var row benchmarkRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError("benchmark_run", id)
		}
		return nil, err
	}

	return row.toDomain()
}

// List retrieves paginated benchmark runs, newest first
func (r *BenchmarkRepository) List(ctx context.Context, limit, offset int) ([]*domain.BenchmarkRun, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM benchmark_runs WHERE deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &total, countQuery); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, status, goal, persona, input, result, error, report_url,
		       triggered_by, started_at, completed_at, created_at, updated_at, deleted_at
		FROM benchmark_runs
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	var rows []benchmarkRow
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, 0, err
	}

	runs := make([]*domain.BenchmarkRun, len(rows))
	for i, row := range rows {
		run, err := row.toDomain()
		if err != nil {
			return nil, 0, err
		}
		runs[i] = run
	}

	return runs, total, nil
}

// Update updates an existing benchmark run
func (r *BenchmarkRepository) Update(ctx context.Context, run *domain.BenchmarkRun) error {
	input, result, err := jsonbFields(run)
	if err != nil {
		return err
	}

	query := `
		UPDATE benchmark_runs
		SET status = $2, persona = $3, input = $4, result = $5, error = $6,
		    report_url = $7, started_at = $8, completed_at = $9, updated_at = $10
		WHERE id = $1 AND deleted_at IS NULL
	`

	res, err := r.db.ExecContext(ctx, query,
		run.ID,
		string(run.Status),
		nullable(run.Persona),
		input,
		result,
		nullable(run.Error),
		nullable(run.ReportURL),
		run.StartedAt,
		run.CompletedAt,
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.NotFoundError("benchmark_run", run.ID)
	}

	return nil
}

// UpdateStatus updates only the run status
func (r *BenchmarkRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RunStatus) error {
	query := `
		UPDATE benchmark_runs
		SET status = $2, updated_at = $3
		WHERE id = $1 AND deleted_at IS NULL
	`

	res, err := r.db.ExecContext(ctx, query, id, string(status), time.Now().UTC())
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.NotFoundError("benchmark_run", id)
	}

	return nil
}

// Delete soft-deletes a benchmark run
func (r *BenchmarkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE benchmark_runs
		SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`

	res, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.NotFoundError("benchmark_run", id)
	}

	return nil
}
