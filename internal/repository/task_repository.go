package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Vinnycalora/Reliabot/internal/model"
)

// TaskRepository handles CRUD for tasks. Completion is a conditional
// update keyed on completed = false, so the store itself serializes
// racing completion attempts: at most one caller sees a changed row.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// ListByUser returns all of a user's tasks, newest first.
func (r *TaskRepository) ListByUser(ctx context.Context, userID string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// ListCompleted returns completed tasks, most recently completed first.
func (r *TaskRepository) ListCompleted(ctx context.Context, userID string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND completed = ?", userID, true).
		Order("completed_date DESC, id DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list completed tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) CountCompleted(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count completed tasks: %w", err)
	}
	return count, nil
}

// CompleteByID marks one incomplete task done. Reports whether a row
// changed; false means no matching incomplete task, which callers treat
// as a normal outcome.
func (r *TaskRepository) CompleteByID(ctx context.Context, userID string, taskID uint, completedAt time.Time, completedDate string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND id = ? AND completed = ?", userID, taskID, false).
		Updates(map[string]interface{}{
			"completed":      true,
			"completed_at":   completedAt,
			"completed_date": completedDate,
		})
	if res.Error != nil {
		return false, fmt.Errorf("complete task: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// CompleteByName is the compatibility selector for chat surfaces where
// users refer to tasks by text. Names are not unique, so every matching
// incomplete task is marked done, mirroring the legacy behavior.
func (r *TaskRepository) CompleteByName(ctx context.Context, userID, name string, completedAt time.Time, completedDate string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND name = ? AND completed = ?", userID, name, false).
		Updates(map[string]interface{}{
			"completed":      true,
			"completed_at":   completedAt,
			"completed_date": completedDate,
		})
	if res.Error != nil {
		return false, fmt.Errorf("complete task by name: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Delete removes a task only when owned by userID; deleting a missing or
// foreign task is a no-op.
func (r *TaskRepository) Delete(ctx context.Context, userID string, taskID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, taskID).
		Delete(&model.Task{}).Error
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// ClearCompleted bulk-deletes all completed tasks for a user.
func (r *TaskRepository) ClearCompleted(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND completed = ?", userID, true).
		Delete(&model.Task{}).Error
	if err != nil {
		return fmt.Errorf("clear completed tasks: %w", err)
	}
	return nil
}
