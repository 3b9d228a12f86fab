// File: internal/usecase/reminder_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"app-access-server/internal/domain/ports/notify"
	"app-access-server/internal/domain/ports/repository"
	"app-access-server/internal/infra/metrics"
)

// Compile-time check
var _ ReminderUseCase = (*reminderUC)(nil)

// ReminderUseCase notifies users whose subscription is about to lapse. Each
// (user, expiry, threshold) triple is delivered at most once, tracked in a
// durable log so restarts do not re-send.
type ReminderUseCase interface {
	// SendExpiryReminders runs one sweep and returns how many reminders
	// went out.
	SendExpiryReminders(ctx context.Context) (int, error)
}

type reminderUC struct {
	subs       repository.SubscriptionRepository
	sent       repository.ReminderLogRepository
	notifier   notify.Notifier
	thresholds []int // days before expiry, e.g. [3, 1]
	log        *zerolog.Logger
}

func NewReminderUseCase(
	subs repository.SubscriptionRepository,
	sent repository.ReminderLogRepository,
	notifier notify.Notifier,
	thresholds []int,
	logger *zerolog.Logger,
) *reminderUC {
	compLog := logger.With().Str("component", "ReminderUC").Logger()
	return &reminderUC{subs: subs, sent: sent, notifier: notifier, thresholds: thresholds, log: &compLog}
}

func (u *reminderUC) SendExpiryReminders(ctx context.Context) (int, error) {
	maxDays := 0
	for _, t := range u.thresholds {
		if t > maxDays {
			maxDays = t
		}
	}
	if maxDays == 0 {
		return 0, nil
	}

	items, err := u.subs.FindExpiring(ctx, repository.NoTX, maxDays)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	sent := 0
	for _, sub := range items {
		left := sub.ExpiresAt.Sub(now)
		if left <= 0 {
			// Already lapsed; the user finds out on the next issue attempt.
			continue
		}
		daysLeft := int(left.Hours() / 24)

		for _, threshold := range u.thresholds {
			if daysLeft >= threshold {
				continue
			}
			exists, err := u.sent.Exists(ctx, repository.NoTX, sub.UserID, sub.ExpiresAt, threshold)
			if err != nil {
				return sent, err
			}
			if exists {
				continue
			}
			if err := u.notifier.NotifyExpiring(ctx, sub.UserID, sub.ExpiresAt, daysLeft); err != nil {
				u.log.Error().Err(err).Str("user_id", sub.UserID).Msg("reminder delivery failed")
				continue
			}
			if err := u.sent.Save(ctx, repository.NoTX, sub.UserID, sub.ExpiresAt, threshold); err != nil {
				return sent, err
			}
			metrics.IncReminderSent()
			sent++
			break // one reminder per sweep per subscription
		}
	}
	return sent, nil
}
