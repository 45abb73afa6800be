package entity

import "time"

// Session is the server-side login principal stored in Redis.
// The cart lives in the same hash and shares its lifetime.
type Session struct {
	UserID    int64
	SessionID string
	Email     string
	Name      string
	CSRFToken string
	CreatedAt time.Time
}
