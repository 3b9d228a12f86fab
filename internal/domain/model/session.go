package model

import "time"

// Session is the bearer credential created by a successful code redemption.
// There is no revocation; expiry is the only end of life.
type Session struct {
	Token     string
	DeviceID  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}
