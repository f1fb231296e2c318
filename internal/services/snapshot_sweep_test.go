package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/evidly-backend/internal/data/repos/testutil"
)

func TestSweepScoresActiveLocations(t *testing.T) {
	env := newScoringEnv(t)
	scored, _ := env.seedFoodLocation(t, "weighted_deduction", "letter_grade")
	unassigned := testutil.SeedLocation(t, env.ctx, env.db, "No jurisdictions")
	closed := testutil.SeedLocation(t, env.ctx, env.db, "Closed for good")
	require.NoError(t, env.db.Model(closed).Update("active", false).Error)

	sweeper := NewSnapshotSweeper(env.log, env.set.Location, env.service(nil), 0, env.metrics)
	res, err := sweeper.Sweep(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Scored: 1, Skipped: 1, LocationCount: 2}, res)

	snaps, err := env.set.ScoreSnapshot.ListByLocation(dbcFor(env), scored.ID, 0)
	require.NoError(t, err)
	assert.Len(t, snaps, 1)
	none, err := env.set.ScoreSnapshot.ListByLocation(dbcFor(env), unassigned.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSweepStopsOnCancel(t *testing.T) {
	env := newScoringEnv(t)
	env.seedFoodLocation(t, "weighted_deduction", "letter_grade")

	ctx, cancel := context.WithCancel(env.ctx)
	cancel()
	sweeper := NewSnapshotSweeper(env.log, env.set.Location, env.service(nil), 1, env.metrics)
	_, err := sweeper.Sweep(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
