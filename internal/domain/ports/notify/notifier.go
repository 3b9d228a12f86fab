package notify

import (
	"context"
	"time"
)

// Notifier delivers expiry reminders. The chat front end owns real delivery;
// the server ships a logging implementation.
type Notifier interface {
	NotifyExpiring(ctx context.Context, userID string, expiresAt time.Time, daysLeft int) error
}
