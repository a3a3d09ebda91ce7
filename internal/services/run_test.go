package services

import (
	"context"
	"testing"

	"energy-tools/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRecorder(t *testing.T) {
	ctx := context.Background()
	var rec MemoryRecorder

	first := &models.AnalysisRun{Street: "Parkweg", Kind: RunKindHP, Outcome: "ok"}
	require.NoError(t, rec.Record(ctx, first))
	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	require.NoError(t, rec.Record(ctx, &models.AnalysisRun{Street: "Hauptstraße", Kind: RunKindDH, Outcome: "empty"}))
	require.NoError(t, rec.Record(ctx, &models.AnalysisRun{Street: "parkweg ", Kind: RunKindCompare, Outcome: "error"}))

	runs, err := rec.ListByStreet(ctx, "PARKWEG")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, RunKindCompare, runs[0].Kind, "newest first")
	assert.Equal(t, RunKindHP, runs[1].Kind)

	runs, err = rec.ListByStreet(ctx, "HAUPTSTRASSE")
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	recent, err := rec.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "parkweg ", recent[0].Street)

	recent, err = rec.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, recent, 3)
}

func TestNopRecorder(t *testing.T) {
	var rec RunRecorder = NopRecorder{}
	assert.NoError(t, rec.Record(context.Background(), &models.AnalysisRun{}))

	_, err := rec.Recent(context.Background(), 5)
	assert.ErrorIs(t, err, ErrRunHistoryDisabled)
	_, err = rec.ListByStreet(context.Background(), "Parkweg")
	assert.ErrorIs(t, err, ErrRunHistoryDisabled)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultRecentLimit, clampLimit(-1))
	assert.Equal(t, 7, clampLimit(7))
	assert.Equal(t, maxRecentLimit, clampLimit(10_000))
}
