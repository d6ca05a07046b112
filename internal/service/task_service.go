package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Vinnycalora/Reliabot/internal/clock"
	"github.com/Vinnycalora/Reliabot/internal/config"
	"github.com/Vinnycalora/Reliabot/internal/model"
	"github.com/Vinnycalora/Reliabot/internal/repository"
)

const (
	maxNameLen        = 200
	maxDescriptionLen = 1000
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Name        string
	Description string
	DueAt       *time.Time
	Recurrence  string
	Labels      string
	Priority    string
}

// TaskSelector identifies the task a completion targets. The numeric id is
// canonical; Name is a compatibility mode for chat surfaces where users
// refer to tasks by text.
type TaskSelector struct {
	ID   uint
	Name string
}

// TaskService is the single entry point adapters call for task mutations.
// It validates input shape, enforces ownership and materializes the user
// row before the first insert.
type TaskService struct {
	taskRepo *repository.TaskRepository
	userRepo *repository.UserRepository
	streak   *StreakService
	clock    clock.Clock
	policy   config.CompletionPolicy
	log      zerolog.Logger
}

func NewTaskService(
	taskRepo *repository.TaskRepository,
	userRepo *repository.UserRepository,
	streak *StreakService,
	clk clock.Clock,
	policy config.CompletionPolicy,
	log zerolog.Logger,
) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		streak:   streak,
		clock:    clk,
		policy:   policy,
		log:      log,
	}
}

// Add validates and inserts a new incomplete task for userID, returning
// the stored record with its generated id.
func (s *TaskService) Add(ctx context.Context, actor, userID string, input TaskInput) (*model.Task, error) {
	if err := requireOwner(actor, userID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if len(name) > maxNameLen {
		return nil, &ValidationError{Field: "name", Reason: "too long"}
	}
	if len(input.Description) > maxDescriptionLen {
		return nil, &ValidationError{Field: "description", Reason: "too long"}
	}

	// The user row must exist before the task references it.
	if err := s.userRepo.EnsureExists(ctx, userID); err != nil {
		return nil, storageErr("ensure user", err)
	}

	task := model.Task{
		UserID:      userID,
		Name:        name,
		Description: input.Description,
		DueAt:       input.DueAt,
		Recurrence:  input.Recurrence,
		Labels:      input.Labels,
		Priority:    input.Priority,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, storageErr("create task", err)
	}

	s.log.Info().Str("user_id", userID).Uint("task_id", task.ID).Msg("task added")
	return &task, nil
}

// List returns all of the user's tasks, newest first.
func (s *TaskService) List(ctx context.Context, actor, userID string) ([]model.Task, error) {
	if err := requireOwner(actor, userID); err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, storageErr("list tasks", err)
	}
	return tasks, nil
}

// ListCompleted returns the user's completed tasks, newest first.
func (s *TaskService) ListCompleted(ctx context.Context, actor, userID string) ([]model.Task, error) {
	if err := requireOwner(actor, userID); err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.ListCompleted(ctx, userID)
	if err != nil {
		return nil, storageErr("list completed tasks", err)
	}
	return tasks, nil
}

// Complete marks the selected incomplete task done. It reports false, not
// an error, when no matching incomplete task exists — including the case
// where the task is already completed. When the completion policy says so,
// a successful completion also counts as today's streak check-in.
func (s *TaskService) Complete(ctx context.Context, actor, userID string, sel TaskSelector) (bool, error) {
	if err := requireOwner(actor, userID); err != nil {
		return false, err
	}

	now := s.clock.Now()
	day := dateString(now)

	var (
		changed bool
		err     error
	)
	if sel.ID != 0 {
		changed, err = s.taskRepo.CompleteByID(ctx, userID, sel.ID, now, day)
	} else {
		name := strings.TrimSpace(sel.Name)
		if name == "" {
			return false, &ValidationError{Field: "task", Reason: "id or name required"}
		}
		changed, err = s.taskRepo.CompleteByName(ctx, userID, name, now, day)
	}
	if err != nil {
		return false, storageErr("complete task", err)
	}
	if !changed {
		return false, nil
	}

	s.log.Info().Str("user_id", userID).Msg("task completed")

	if s.policy.UpdateStreak {
		if _, err := s.streak.CheckIn(ctx, userID, now); err != nil {
			// The task is already completed; a streak failure must not
			// undo that from the caller's point of view.
			s.log.Error().Err(err).Str("user_id", userID).Msg("check-in after completion failed")
		}
	}
	return true, nil
}

// Delete removes a task owned by userID; absent or foreign tasks are a
// no-op.
func (s *TaskService) Delete(ctx context.Context, actor, userID string, taskID uint) error {
	if err := requireOwner(actor, userID); err != nil {
		return err
	}
	if err := s.taskRepo.Delete(ctx, userID, taskID); err != nil {
		return storageErr("delete task", err)
	}
	return nil
}

// ClearCompleted removes all of the user's completed tasks.
func (s *TaskService) ClearCompleted(ctx context.Context, actor, userID string) error {
	if err := requireOwner(actor, userID); err != nil {
		return err
	}
	if err := s.taskRepo.ClearCompleted(ctx, userID); err != nil {
		return storageErr("clear completed", err)
	}
	s.log.Info().Str("user_id", userID).Msg("completed tasks cleared")
	return nil
}

// SetReminder stores the hour (0-23) of the user's daily check-in DM.
func (s *TaskService) SetReminder(ctx context.Context, actor, userID string, hour int) error {
	if err := requireOwner(actor, userID); err != nil {
		return err
	}
	if hour < 0 || hour > 23 {
		return &ValidationError{Field: "hour", Reason: "must be between 0 and 23"}
	}
	if err := s.userRepo.SetReminderHour(ctx, userID, hour); err != nil {
		return storageErr("set reminder", err)
	}
	return nil
}

// ClearReminder disables the user's daily check-in DM.
func (s *TaskService) ClearReminder(ctx context.Context, actor, userID string) error {
	if err := requireOwner(actor, userID); err != nil {
		return err
	}
	if err := s.userRepo.ClearReminderHour(ctx, userID); err != nil {
		return storageErr("clear reminder", err)
	}
	return nil
}

func requireOwner(actor, owner string) error {
	if actor != owner {
		return &ForbiddenError{Actor: actor, Owner: owner}
	}
	return nil
}
