package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vinnycalora/Reliabot/internal/repository"
)

func newStreakService(t *testing.T) *StreakService {
	t.Helper()
	db := newTestDB(t)
	return NewStreakService(repository.NewUserRepository(db), testLogger())
}

func TestStreak_UnknownUserIsZero(t *testing.T) {
	svc := newStreakService(t)

	streak, err := svc.Streak(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, streak)
}

func TestCheckIn_FirstCheckInStartsAtOne(t *testing.T) {
	svc := newStreakService(t)

	streak, err := svc.CheckIn(context.Background(), "u1", day("2026-08-01"))
	require.NoError(t, err)
	assert.Equal(t, 1, streak)
}

func TestCheckIn_ConsecutiveDaysExtend(t *testing.T) {
	svc := newStreakService(t)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, "u1", day("2026-08-01"))
	require.NoError(t, err)

	streak, err := svc.CheckIn(ctx, "u1", day("2026-08-02"))
	require.NoError(t, err)
	assert.Equal(t, 2, streak)

	streak, err = svc.CheckIn(ctx, "u1", day("2026-08-03"))
	require.NoError(t, err)
	assert.Equal(t, 3, streak)
}

func TestCheckIn_GapResetsToOne(t *testing.T) {
	svc := newStreakService(t)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, "u1", day("2026-08-01"))
	require.NoError(t, err)

	streak, err := svc.CheckIn(ctx, "u1", day("2026-08-04"))
	require.NoError(t, err)
	assert.Equal(t, 1, streak)
}

func TestCheckIn_SameDayIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	svc := NewStreakService(userRepo, testLogger())
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, "u1", day("2026-08-01"))
	require.NoError(t, err)
	streak, err := svc.CheckIn(ctx, "u1", day("2026-08-02"))
	require.NoError(t, err)
	require.Equal(t, 2, streak)

	// Second check-in the same day: streak and last_check unchanged.
	streak, err = svc.CheckIn(ctx, "u1", day("2026-08-02"))
	require.NoError(t, err)
	assert.Equal(t, 2, streak)

	user, err := userRepo.Find(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, user.LastCheck)
	assert.Equal(t, "2026-08-02", *user.LastCheck)
	assert.Equal(t, 2, user.Streak)
}

func TestCheckIn_UserRowWithoutLastCheckResets(t *testing.T) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	svc := NewStreakService(userRepo, testLogger())
	ctx := context.Background()

	// A user materialized by a task insert has streak 0 and no last_check.
	require.NoError(t, userRepo.EnsureExists(ctx, "u1"))

	streak, err := svc.CheckIn(ctx, "u1", day("2026-08-01"))
	require.NoError(t, err)
	assert.Equal(t, 1, streak)
}
