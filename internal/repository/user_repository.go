package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Vinnycalora/Reliabot/internal/model"
)

// UserRepository handles the users table: lazy row creation, reminder
// settings and the streak counter.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// EnsureExists creates a zero-valued user row if none exists yet. Task
// inserts depend on this to keep the tasks.user_id reference valid.
func (r *UserRepository) EnsureExists(ctx context.Context, userID string) error {
	user := model.User{UserID: userID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&user).Error
	if err != nil {
		return fmt.Errorf("ensure user %s: %w", userID, err)
	}
	return nil
}

func (r *UserRepository) Find(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// SetReminderHour upserts the user's daily reminder hour (0-23).
func (r *UserRepository) SetReminderHour(ctx context.Context, userID string, hour int) error {
	user := model.User{UserID: userID, ReminderHour: &hour}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"reminder_hour"}),
		}).
		Create(&user).Error
	if err != nil {
		return fmt.Errorf("set reminder hour: %w", err)
	}
	return nil
}

func (r *UserRepository) ClearReminderHour(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("user_id = ?", userID).
		Update("reminder_hour", nil).Error
	if err != nil {
		return fmt.Errorf("clear reminder hour: %w", err)
	}
	return nil
}

// ListWithReminder returns every user that opted into the daily DM.
func (r *UserRepository) ListWithReminder(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("reminder_hour IS NOT NULL").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list reminder users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) SetLastDM(ctx context.Context, userID, date string) error {
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("user_id = ?", userID).
		Update("last_dm", date).Error
	if err != nil {
		return fmt.Errorf("set last dm: %w", err)
	}
	return nil
}

// The streak writes below are single conditional statements on purpose:
// two concurrent check-ins for the same user must not double-increment, so
// the WHERE clause carries the decision instead of a prior read.

// CreateWithStreak inserts a fresh user row already checked in for today.
// Reports false if the row existed.
func (r *UserRepository) CreateWithStreak(ctx context.Context, userID, today string) (bool, error) {
	user := model.User{UserID: userID, Streak: 1, LastCheck: &today}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&user)
	if res.Error != nil {
		return false, fmt.Errorf("create user streak: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// ExtendStreak increments the streak only when the last check-in was
// exactly yesterday. Reports whether a row changed.
func (r *UserRepository) ExtendStreak(ctx context.Context, userID, today, yesterday string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("user_id = ? AND last_check = ?", userID, yesterday).
		Updates(map[string]interface{}{
			"streak":     gorm.Expr("streak + 1"),
			"last_check": today,
		})
	if res.Error != nil {
		return false, fmt.Errorf("extend streak: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// RestartStreak resets the streak to 1 when the run is broken: no check-in
// recorded yet, or the last one is neither today nor yesterday.
func (r *UserRepository) RestartStreak(ctx context.Context, userID, today, yesterday string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("user_id = ? AND (last_check IS NULL OR (last_check <> ? AND last_check <> ?))",
			userID, today, yesterday).
		Updates(map[string]interface{}{
			"streak":     1,
			"last_check": today,
		})
	if res.Error != nil {
		return false, fmt.Errorf("restart streak: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}
