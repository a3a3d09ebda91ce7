package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"energy-tools/internal/models"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	RunKindHP      = "hp"
	RunKindDH      = "dh"
	RunKindCompare = "compare"

	DefaultRecentLimit = 20
	maxRecentLimit     = 200
)

var ErrRunHistoryDisabled = errors.New("run history is not configured")

// RunRecorder persists one row per analysis tool invocation.
type RunRecorder interface {
	Record(ctx context.Context, run *models.AnalysisRun) error
	ListByStreet(ctx context.Context, street string) ([]models.AnalysisRun, error)
	Recent(ctx context.Context, limit int) ([]models.AnalysisRun, error)
}

// prepare fills the id and timestamp of a new run.
func prepare(run *models.AnalysisRun, now time.Time) {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = now
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultRecentLimit
	}
	if limit > maxRecentLimit {
		return maxRecentLimit
	}
	return limit
}

// RunService stores runs in Postgres.
type RunService struct {
	db *bun.DB
}

func NewRunService(db *bun.DB) *RunService {
	return &RunService{db: db}
}

// Record inserts the run.
func (s *RunService) Record(ctx context.Context, run *models.AnalysisRun) error {
	prepare(run, time.Now())
	if _, err := s.db.NewInsert().Model(run).Exec(ctx); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// ListByStreet returns all runs for a street, newest first.
func (s *RunService) ListByStreet(ctx context.Context, street string) ([]models.AnalysisRun, error) {
	var runs []models.AnalysisRun
	err := s.db.NewSelect().
		Model(&runs).
		Where("lower(street) = lower(?)", strings.TrimSpace(street)).
		Order("created_at DESC").
		Scan(ctx)
	return runs, err
}

// Recent returns the latest runs across all streets.
func (s *RunService) Recent(ctx context.Context, limit int) ([]models.AnalysisRun, error) {
	var runs []models.AnalysisRun
	err := s.db.NewSelect().
		Model(&runs).
		Order("created_at DESC").
		Limit(clampLimit(limit)).
		Scan(ctx)
	return runs, err
}

// NopRecorder is used when DATABASE_URL is empty.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, *models.AnalysisRun) error { return nil }

func (NopRecorder) ListByStreet(context.Context, string) ([]models.AnalysisRun, error) {
	return nil, ErrRunHistoryDisabled
}

func (NopRecorder) Recent(context.Context, int) ([]models.AnalysisRun, error) {
	return nil, ErrRunHistoryDisabled
}

// MemoryRecorder keeps runs in process. The CLI uses it for a single
// invocation and tests use it to observe what the toolkit records.
type MemoryRecorder struct {
	mu   sync.Mutex
	runs []models.AnalysisRun
}

func (m *MemoryRecorder) Record(_ context.Context, run *models.AnalysisRun) error {
	prepare(run, time.Now())
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, *run)
	return nil
}

func (m *MemoryRecorder) ListByStreet(_ context.Context, street string) ([]models.AnalysisRun, error) {
	key := models.NormalizeStreet(street)
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.AnalysisRun
	for i := len(m.runs) - 1; i >= 0; i-- {
		if models.NormalizeStreet(m.runs[i].Street) == key {
			out = append(out, m.runs[i])
		}
	}
	return out, nil
}

func (m *MemoryRecorder) Recent(_ context.Context, limit int) ([]models.AnalysisRun, error) {
	limit = clampLimit(limit)
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.AnalysisRun, 0, limit)
	for i := len(m.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.runs[i])
	}
	return out, nil
}
