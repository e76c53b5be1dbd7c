// Package auth holds the session helper, session tokens and password hashing.
package auth

import (
	"context"
	"time"

	"github.com/vaughan-dsouza/alramy/internal/models"
)

// SessionDays is the lifetime of a session in calendar days.
const SessionDays = 7

type Session struct {
	UserID    string      `json:"userId"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// CreateSession starts a session that expires SessionDays calendar days from now.
func CreateSession(userID, email string, role models.Role) Session {
	return NewSession(time.Now(), userID, email, role)
}

// NewSession is CreateSession with an explicit clock. Expiry keeps the wall
// clock time in now's location, so a DST change in between shifts the elapsed
// duration by the offset difference.
func NewSession(now time.Time, userID, email string, role models.Role) Session {
	return Session{
		UserID:    userID,
		Email:     email,
		Role:      role,
		ExpiresAt: now.AddDate(0, 0, SessionDays),
	}
}

// IsSessionValid reports whether the session has not yet expired.
func IsSessionValid(s Session) bool {
	return s.ValidAt(time.Now())
}

// ValidAt reports whether t is strictly before the expiry.
func (s Session) ValidAt(t time.Time) bool {
	return t.Before(s.ExpiresAt)
}

type ctxKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
