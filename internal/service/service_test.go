package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Vinnycalora/Reliabot/internal/model"
	"github.com/Vinnycalora/Reliabot/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return db
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// seedCompleted inserts a completed task directly, bypassing the facade,
// so analytics tests can shape history freely.
func seedCompleted(t *testing.T, db *gorm.DB, userID, name string, createdAt time.Time, completedAt *time.Time, completedDate *string) model.Task {
	t.Helper()
	require.NoError(t, repository.NewUserRepository(db).EnsureExists(context.Background(), userID))
	task := model.Task{
		UserID:        userID,
		Name:          name,
		Completed:     true,
		CreatedAt:     createdAt,
		CompletedAt:   completedAt,
		CompletedDate: completedDate,
	}
	require.NoError(t, db.Create(&task).Error)
	return task
}

func strptr(s string) *string {
	return &s
}

func timeptr(t time.Time) *time.Time {
	return &t
}
