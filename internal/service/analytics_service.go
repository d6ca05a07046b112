package service

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/Vinnycalora/Reliabot/internal/model"
	"github.com/Vinnycalora/Reliabot/internal/repository"
)

// weeklyWindowDays is the inclusive trailing range for weekly summaries
// and recent analytics.
const weeklyWindowDays = 7

// WeeklySummary is the response of the /summary surface.
type WeeklySummary struct {
	CompletedThisWeek int `json:"completed_this_week"`
	TotalCompleted    int `json:"total_completed"`
	Streak            int `json:"streak"`
}

// RecentAnalytics carries the dashboard chart data: completions per day
// and the average time-to-complete in minutes, both for the trailing week.
type RecentAnalytics struct {
	DailyCounts           map[string]int     `json:"daily_counts"`
	CompletionTimeMinutes map[string]float64 `json:"completion_time_minutes"`
}

// XPStats is derived entirely from the completion count.
type XPStats struct {
	XP       int `json:"xp"`
	Level    int `json:"level"`
	Progress int `json:"progress"`
}

// AnalyticsService derives summaries from task history on demand. It holds
// no state of its own; malformed historical rows are skipped with a
// warning rather than failing the whole aggregation.
type AnalyticsService struct {
	taskRepo *repository.TaskRepository
	streak   *StreakService
	log      zerolog.Logger
}

func NewAnalyticsService(taskRepo *repository.TaskRepository, streak *StreakService, log zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{taskRepo: taskRepo, streak: streak, log: log}
}

// Summary counts completions inside the trailing 7-day window plus the
// all-time total and the current streak.
func (s *AnalyticsService) Summary(ctx context.Context, userID string, now time.Time) (WeeklySummary, error) {
	completed, err := s.taskRepo.ListCompleted(ctx, userID)
	if err != nil {
		return WeeklySummary{}, storageErr("list completed", err)
	}

	thisWeek := 0
	for _, task := range completed {
		day, ok := s.completedDay(task)
		if !ok {
			continue
		}
		if diff := daysBetween(day, now); diff >= 0 && diff <= weeklyWindowDays {
			thisWeek++
		}
	}

	streak, err := s.streak.Streak(ctx, userID)
	if err != nil {
		return WeeklySummary{}, err
	}

	return WeeklySummary{
		CompletedThisWeek: thisWeek,
		TotalCompleted:    len(completed),
		Streak:            streak,
	}, nil
}

// Heatmap returns completion counts per distinct day over all history.
func (s *AnalyticsService) Heatmap(ctx context.Context, userID string) (map[string]int, error) {
	completed, err := s.taskRepo.ListCompleted(ctx, userID)
	if err != nil {
		return nil, storageErr("list completed", err)
	}

	counts := make(map[string]int)
	for _, task := range completed {
		if task.CompletedDate == nil || *task.CompletedDate == "" {
			s.log.Warn().Uint("task_id", task.ID).Msg("completed task without completed_date, skipping")
			continue
		}
		counts[*task.CompletedDate]++
	}
	return counts, nil
}

// Recent builds the trailing-week daily counts and the per-day mean
// completion time in minutes, rounded to 2 decimal places. Rows missing
// either timestamp are excluded from both the numerator and denominator.
func (s *AnalyticsService) Recent(ctx context.Context, userID string, now time.Time) (RecentAnalytics, error) {
	completed, err := s.taskRepo.ListCompleted(ctx, userID)
	if err != nil {
		return RecentAnalytics{}, storageErr("list completed", err)
	}

	counts := make(map[string]int)
	durations := make(map[string][]float64)

	for _, task := range completed {
		day, ok := s.completedDay(task)
		if !ok {
			continue
		}
		if diff := daysBetween(day, now); diff < 0 || diff > weeklyWindowDays {
			continue
		}

		key := dateString(day)
		counts[key]++

		if task.CompletedAt == nil {
			s.log.Warn().Uint("task_id", task.ID).Msg("completed task without completed_at, skipping duration")
			continue
		}
		seconds := task.CompletedAt.Sub(task.CreatedAt).Seconds()
		durations[key] = append(durations[key], seconds)
	}

	minutes := make(map[string]float64, len(durations))
	for key, samples := range durations {
		var total float64
		for _, s := range samples {
			total += s
		}
		mean := total / float64(len(samples)) / 60
		minutes[key] = math.Round(mean*100) / 100
	}

	return RecentAnalytics{DailyCounts: counts, CompletionTimeMinutes: minutes}, nil
}

// XP derives experience points from the completion count: one point per
// completed task, one level per 100 points.
func (s *AnalyticsService) XP(ctx context.Context, userID string) (XPStats, error) {
	total, err := s.taskRepo.CountCompleted(ctx, userID)
	if err != nil {
		return XPStats{}, storageErr("count completed", err)
	}
	xp := int(total)
	return XPStats{XP: xp, Level: xp / 100, Progress: xp % 100}, nil
}

// completedDay parses a task's completion day, reporting false for rows
// with a missing or malformed completed_date.
func (s *AnalyticsService) completedDay(task model.Task) (time.Time, bool) {
	if task.CompletedDate == nil || *task.CompletedDate == "" {
		s.log.Warn().Uint("task_id", task.ID).Msg("completed task without completed_date, skipping")
		return time.Time{}, false
	}
	day, err := time.Parse(dateLayout, *task.CompletedDate)
	if err != nil {
		s.log.Warn().Uint("task_id", task.ID).Str("completed_date", *task.CompletedDate).
			Msg("unparseable completed_date, skipping")
		return time.Time{}, false
	}
	return day, true
}
