package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"poe2/pickit/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunRepository archives completed runs.
type RunRepository interface {
	EnsureSchema(ctx context.Context) error
	SaveRun(ctx context.Context, run *domain.ProcessedOutput) error
}

type runRepository struct {
	db *pgxpool.Pool
}

func NewRunRepository(db *pgxpool.Pool) RunRepository {
	return &runRepository{
		db: db,
	}
}

func (r *runRepository) EnsureSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS pickit_runs (
		id          TEXT PRIMARY KEY,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		total_items INTEGER NOT NULL,
		sections    JSONB NOT NULL,
		output      TEXT NOT NULL
	)`
	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create pickit_runs table: %w", err)
	}
	return nil
}

const insertRunQuery = `
	INSERT INTO pickit_runs (id, total_items, sections, output)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id) DO NOTHING`

func (r *runRepository) SaveRun(ctx context.Context, run *domain.ProcessedOutput) error {
	args, err := saveRunArgs(run)
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, insertRunQuery, args...); err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.RunID, err)
	}

	return nil
}

// saveRunArgs returns the insertRunQuery arguments in placeholder order.
func saveRunArgs(run *domain.ProcessedOutput) ([]any, error) {
	sections, err := json.Marshal(sectionSummaries(run.Sections))
	if err != nil {
		return nil, fmt.Errorf("failed to encode sections: %w", err)
	}
	return []any{run.RunID, run.TotalItems, sections, run.Result}, nil
}

type sectionSummary struct {
	Name  string `json:"name"`
	Items int    `json:"items"`
}

func sectionSummaries(sections []domain.SectionResult) []sectionSummary {
	out := make([]sectionSummary, 0, len(sections))
	for _, s := range sections {
		out = append(out, sectionSummary{Name: s.SectionName, Items: len(s.Results)})
	}
	return out
}

type noopRunRepository struct{}

// NewNoopRunRepository is used when no database is configured.
func NewNoopRunRepository() RunRepository {
	return noopRunRepository{}
}

func (noopRunRepository) EnsureSchema(context.Context) error { return nil }

func (noopRunRepository) SaveRun(context.Context, *domain.ProcessedOutput) error { return nil }
