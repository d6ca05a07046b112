package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Vinnycalora/Reliabot/internal/repository"
)

// Notifier delivers the daily check-in message to a user on whatever chat
// platform the adapter speaks.
type Notifier interface {
	SendDailyCheckIn(ctx context.Context, userID string) error
}

// ReminderService runs the periodic reminder scan: every user that opted
// into a reminder hour gets at most one DM per day, at that hour. The scan
// is independent of request handling and tolerates per-user delivery
// failures.
type ReminderService struct {
	userRepo    *repository.UserRepository
	notifier    Notifier
	sendTimeout time.Duration
	log         zerolog.Logger
}

func NewReminderService(userRepo *repository.UserRepository, notifier Notifier, sendTimeout time.Duration, log zerolog.Logger) *ReminderService {
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}
	return &ReminderService{
		userRepo:    userRepo,
		notifier:    notifier,
		sendTimeout: sendTimeout,
		log:         log,
	}
}

// Scan sends due reminders for the given instant. A failed delivery for
// one user is logged and never aborts the rest of the scan.
func (s *ReminderService) Scan(ctx context.Context, now time.Time) error {
	users, err := s.userRepo.ListWithReminder(ctx)
	if err != nil {
		return storageErr("list reminder users", err)
	}

	today := dateString(now)
	for _, user := range users {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if user.ReminderHour == nil || *user.ReminderHour != now.Hour() {
			continue
		}
		if user.LastDM != nil && *user.LastDM == today {
			continue
		}

		if err := s.send(ctx, user.UserID); err != nil {
			s.log.Error().Err(err).Str("user_id", user.UserID).Msg("daily check-in delivery failed")
			continue
		}
		if err := s.userRepo.SetLastDM(ctx, user.UserID, today); err != nil {
			s.log.Error().Err(err).Str("user_id", user.UserID).Msg("record last dm failed")
		}
	}
	return nil
}

func (s *ReminderService) send(ctx context.Context, userID string) error {
	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()
	return s.notifier.SendDailyCheckIn(sendCtx, userID)
}
