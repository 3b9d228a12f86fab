package model

import "time"

// Subscription is the per-user entitlement window. One row per user; the
// expiry is pushed forward on every approved payment and lapsing is implicit.
type Subscription struct {
	UserID    string
	ExpiresAt time.Time
	UpdatedAt time.Time
}

// Active reports whether the subscription covers the given instant.
// Expiry exactly at now counts as inactive.
func (s *Subscription) Active(now time.Time) bool {
	return s.ExpiresAt.After(now)
}
