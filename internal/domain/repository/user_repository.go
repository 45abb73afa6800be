package repository

import (
	"context"
	"time"

	"github.com/oksasatya/storefront/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	// Create inserts u and fills ID and timestamps. A taken email yields ErrConflict.
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByResetTokenHash(ctx context.Context, digest string) (*entity.User, error)
	// RedeemResetToken sets passwordHash and clears the reset token in one
	// step, only while digest is pending and unexpired at now. It returns the
	// user id, or ErrNotFound when the token was already used or expired.
	RedeemResetToken(ctx context.Context, digest, passwordHash string, now time.Time) (int64, error)
	Update(ctx context.Context, u *entity.User) error
}
