package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/newsdeck/pkg/domain"
)

// interruptedMsg is recorded for runs left unfinished by a previous process
const interruptedMsg = "interrupted by restart"

// runRow is the database representation of domain.Run
type runRow struct {
	ID           int64     `db:"id"`
	Company      string    `db:"company"`
	Relationship string    `db:"relationship"`
	ArticleCount int       `db:"article_count"`
	State        string    `db:"state"`
	FailedStage  string    `db:"failed_stage"`
	Error        string    `db:"error"`
	OutputPath   string    `db:"output_path"`
	Articles     int       `db:"articles"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r runRow) toDomain() domain.Run {
	return domain.Run{
		ID:           r.ID,
		CompanyName:  r.Company,
		Relationship: domain.RelationshipType(r.Relationship),
		ArticleCount: r.ArticleCount,
		State:        r.State,
		FailedStage:  r.FailedStage,
		Error:        r.Error,
		OutputPath:   r.OutputPath,
		Articles:     r.Articles,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// RunRepository handles run journal operations
type RunRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// CreateRun inserts a new run and sets its ID and timestamps. Empty state is stored as "idle".
func (r *RunRepository) CreateRun(ctx context.Context, run *domain.Run) error {
	if run.State == "" {
		run.State = "idle"
	}
	ts := r.now()
	row := runRow{
		Company:      run.CompanyName,
		Relationship: string(run.Relationship),
		ArticleCount: run.ArticleCount,
		State:        run.State,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}

	query := `
		INSERT INTO runs (company, relationship, article_count, state, created_at, updated_at)
		VALUES (:company, :relationship, :article_count, :state, :created_at, :updated_at)
	`
	var id int64
	err := withLockRetry(ctx, "create run", func() error {
		res, err := r.db.NamedExecContext(ctx, query, row)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return err
	}

	run.ID = id
	run.CreatedAt, run.UpdatedAt = ts, ts
	return nil
}

// UpdateState records the current state of a running pipeline
func (r *RunRepository) UpdateState(ctx context.Context, id int64, state string) error {
	return withLockRetry(ctx, "update run state", func() error {
		res, err := r.db.ExecContext(ctx, `UPDATE runs SET state = ?, updated_at = ? WHERE id = ?`, state, r.now(), id)
		if err != nil {
			return err
		}
		return checkAffected(res, id)
	})
}

// FinishRun stores the terminal state of the run with its outcome
func (r *RunRepository) FinishRun(ctx context.Context, run domain.Run) error {
	query := `
		UPDATE runs
		SET state = ?, failed_stage = ?, error = ?, output_path = ?, articles = ?, updated_at = ?
		WHERE id = ?
	`
	return withLockRetry(ctx, "finish run", func() error {
		res, err := r.db.ExecContext(ctx, query, run.State, run.FailedStage, run.Error, run.OutputPath, run.Articles, r.now(), run.ID)
		if err != nil {
			return err
		}
		return checkAffected(res, run.ID)
	})
}

// GetRun retrieves a run by ID, ErrNotFound if there is no such run
func (r *RunRepository) GetRun(ctx context.Context, id int64) (*domain.Run, error) {
	var row runRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM runs WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get run %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %d: %w", id, err)
	}
	run := row.toDomain()
	return &run, nil
}

// ListRuns returns up to limit most recent runs, newest first
func (r *RunRepository) ListRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []runRow
	if err := r.db.SelectContext(ctx, &rows, "SELECT * FROM runs ORDER BY created_at DESC, id DESC LIMIT ?", limit); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	res := make([]domain.Run, len(rows))
	for i, row := range rows {
		res[i] = row.toDomain()
	}
	return res, nil
}

// FailUnfinished marks runs left in a non-terminal state as failed and returns how many were changed.
// Called on startup, a previous process can't finish them anymore.
func (r *RunRepository) FailUnfinished(ctx context.Context) (int64, error) {
	var affected int64
	err := withLockRetry(ctx, "fail unfinished runs", func() error {
		res, err := r.db.ExecContext(ctx,
			`UPDATE runs SET failed_stage = state, state = 'failed', error = ?, updated_at = ? WHERE state NOT IN ('done', 'failed')`,
			interruptedMsg, r.now())
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	return affected, err
}

func checkAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("run %d: %w", id, ErrNotFound)
	}
	return nil
}
