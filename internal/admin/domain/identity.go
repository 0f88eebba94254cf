package domain

import "time"

// Identity is the record the hosted auth service owns. This system only
// references it by id; email is carried for display.
type Identity struct {
	ID    string
	Email string
}

// Session is the decoded session for one request. Read-only from this
// system's perspective; the hosted auth service issues and expires it.
type Session struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at time now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
