package auth

import (
	"context"

	"rentware/internal/core/id"
)

// UserRepository defines user storage operations.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID id.ID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error

	// SetActive enables or disables a user account.
	SetActive(ctx context.Context, userID id.ID, active bool) error

	List(ctx context.Context, filter UserFilter) ([]User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// TokenRepository defines refresh token storage operations.
type TokenRepository interface {
	Save(ctx context.Context, token *RefreshToken) error

	// GetByHash retrieves a refresh token by its hash.
	GetByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)

	Revoke(ctx context.Context, tokenID id.ID, reason string) error
	RevokeAllForUser(ctx context.Context, userID id.ID, reason string) error

	// DeleteExpired removes expired tokens, returning the count.
	DeleteExpired(ctx context.Context) (int64, error)
}

// UserFilter for listing users.
type UserFilter struct {
	Search   string
	IsActive *bool
	Role     *Role
	Limit    int
	Offset   int
}
