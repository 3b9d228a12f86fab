package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"app-access-server/internal/domain/ports/notify"
)

var _ notify.Notifier = (*LogNotifier)(nil)

// LogNotifier records reminders in the log instead of delivering them.
// Real delivery is the chat front end's job; it reads the same expiring
// window over the HTTP API.
type LogNotifier struct {
	log *zerolog.Logger
}

func NewLogNotifier(logger *zerolog.Logger) *LogNotifier {
	compLog := logger.With().Str("component", "LogNotifier").Logger()
	return &LogNotifier{log: &compLog}
}

func (n *LogNotifier) NotifyExpiring(ctx context.Context, userID string, expiresAt time.Time, daysLeft int) error {
	n.log.Info().
		Str("user_id", userID).
		Time("expires_at", expiresAt).
		Int("days_left", daysLeft).
		Msg("subscription expiring soon")
	return nil
}
