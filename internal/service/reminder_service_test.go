package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vinnycalora/Reliabot/internal/repository"
)

type fakeNotifier struct {
	mu      sync.Mutex
	sent    []string
	failFor map[string]bool
}

func (f *fakeNotifier) SendDailyCheckIn(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[userID] {
		return errors.New("delivery failed")
	}
	f.sent = append(f.sent, userID)
	return nil
}

func (f *fakeNotifier) sentTo() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func setReminder(t *testing.T, users *repository.UserRepository, userID string, hour int) {
	t.Helper()
	require.NoError(t, users.SetReminderHour(context.Background(), userID, hour))
}

func TestScan_SendsAtReminderHourOncePerDay(t *testing.T) {
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	notifier := &fakeNotifier{}
	svc := NewReminderService(users, notifier, time.Second, testLogger())
	ctx := context.Background()

	setReminder(t, users, "u1", 9)

	now := day("2026-08-20").Add(9 * time.Hour)
	require.NoError(t, svc.Scan(ctx, now))
	assert.Equal(t, []string{"u1"}, notifier.sentTo())

	// Same hour again: already delivered today.
	require.NoError(t, svc.Scan(ctx, now.Add(30*time.Minute)))
	assert.Equal(t, []string{"u1"}, notifier.sentTo())

	// Next day at the same hour delivers again.
	require.NoError(t, svc.Scan(ctx, now.AddDate(0, 0, 1)))
	assert.Equal(t, []string{"u1", "u1"}, notifier.sentTo())
}

func TestScan_SkipsWrongHour(t *testing.T) {
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	notifier := &fakeNotifier{}
	svc := NewReminderService(users, notifier, time.Second, testLogger())

	setReminder(t, users, "u1", 9)

	require.NoError(t, svc.Scan(context.Background(), day("2026-08-20").Add(8*time.Hour)))
	assert.Empty(t, notifier.sentTo())
}

func TestScan_OneFailureDoesNotAbortOthers(t *testing.T) {
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	notifier := &fakeNotifier{failFor: map[string]bool{"broken": true}}
	svc := NewReminderService(users, notifier, time.Second, testLogger())
	ctx := context.Background()

	setReminder(t, users, "broken", 9)
	setReminder(t, users, "u2", 9)

	now := day("2026-08-20").Add(9 * time.Hour)
	require.NoError(t, svc.Scan(ctx, now))
	assert.Equal(t, []string{"u2"}, notifier.sentTo())

	// The failed user keeps no last_dm, so the next scan retries them.
	user, err := users.Find(ctx, "broken")
	require.NoError(t, err)
	assert.Nil(t, user.LastDM)

	user, err = users.Find(ctx, "u2")
	require.NoError(t, err)
	require.NotNil(t, user.LastDM)
	assert.Equal(t, "2026-08-20", *user.LastDM)
}

func TestScan_IgnoresUsersWithoutReminder(t *testing.T) {
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	require.NoError(t, users.EnsureExists(context.Background(), "quiet"))

	notifier := &fakeNotifier{}
	svc := NewReminderService(users, notifier, time.Second, testLogger())

	require.NoError(t, svc.Scan(context.Background(), day("2026-08-20").Add(9*time.Hour)))
	assert.Empty(t, notifier.sentTo())
}
