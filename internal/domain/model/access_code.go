package model

import "time"

// AccessCode is a single-use code handed to a user that can be exchanged
// for an application session. Rows are never deleted; a consumed code stays
// around with Used=true for auditing.
type AccessCode struct {
	Code      string
	UserID    string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// Expired reports whether the code is past its TTL at the given instant.
func (c *AccessCode) Expired(now time.Time) bool {
	return c.ExpiresAt.Before(now)
}
