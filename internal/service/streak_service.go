package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Vinnycalora/Reliabot/internal/repository"
)

// StreakService maintains the per-user consecutive-day check-in counter.
//
// All transitions are conditional single-statement writes, so two
// concurrent check-ins on the same day settle on the same streak value
// instead of double-incrementing.
type StreakService struct {
	userRepo *repository.UserRepository
	log      zerolog.Logger
}

func NewStreakService(userRepo *repository.UserRepository, log zerolog.Logger) *StreakService {
	return &StreakService{userRepo: userRepo, log: log}
}

// CheckIn records a check-in for the calendar day of today and returns the
// resulting streak: +1 after an unbroken day, reset to 1 after a gap,
// unchanged when the user already checked in today.
func (s *StreakService) CheckIn(ctx context.Context, userID string, today time.Time) (int, error) {
	day := dateString(today)
	yesterday := dateString(today.AddDate(0, 0, -1))

	created, err := s.userRepo.CreateWithStreak(ctx, userID, day)
	if err != nil {
		return 0, storageErr("create streak", err)
	}
	if created {
		s.log.Info().Str("user_id", userID).Int("streak", 1).Msg("first check-in")
		return 1, nil
	}

	extended, err := s.userRepo.ExtendStreak(ctx, userID, day, yesterday)
	if err != nil {
		return 0, storageErr("extend streak", err)
	}
	if extended {
		streak, err := s.Streak(ctx, userID)
		if err != nil {
			return 0, err
		}
		s.log.Info().Str("user_id", userID).Int("streak", streak).Msg("streak extended")
		return streak, nil
	}

	restarted, err := s.userRepo.RestartStreak(ctx, userID, day, yesterday)
	if err != nil {
		return 0, storageErr("restart streak", err)
	}
	if restarted {
		s.log.Info().Str("user_id", userID).Msg("streak restarted")
		return 1, nil
	}

	// Already checked in today; the stored streak stands.
	return s.Streak(ctx, userID)
}

// Streak returns the stored streak, 0 for unknown users.
func (s *StreakService) Streak(ctx context.Context, userID string) (int, error) {
	user, err := s.userRepo.Find(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, storageErr("find user", err)
	}
	return user.Streak, nil
}
