package repository

import (
	"context"
	"time"
)

// ReminderLogRepository records which expiry reminders have already been
// delivered so the worker never notifies the same (user, expiry, threshold)
// twice, across restarts.
type ReminderLogRepository interface {
	Save(ctx context.Context, tx Tx, userID string, expiresAt time.Time, thresholdDays int) error
	Exists(ctx context.Context, tx Tx, userID string, expiresAt time.Time, thresholdDays int) (bool, error)
}
