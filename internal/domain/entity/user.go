package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Passwords are stored as bcrypt hashes in PasswordHash.
// A pending password reset is held as the SHA-256 digest of the emailed token.
type User struct {
	ID                  int64
	Email               string
	Name                string
	PasswordHash        string
	ResetTokenHash      string
	ResetTokenExpiresAt *time.Time
	IsAdmin             bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ResetTokenValid reports whether a reset token digest is pending and unexpired at now.
func (u *User) ResetTokenValid(digest string, now time.Time) bool {
	if u.ResetTokenHash == "" || u.ResetTokenExpiresAt == nil {
		return false
	}
	return u.ResetTokenHash == digest && now.Before(*u.ResetTokenExpiresAt)
}

// ClearResetToken invalidates any pending reset token.
func (u *User) ClearResetToken() {
	u.ResetTokenHash = ""
	u.ResetTokenExpiresAt = nil
}
