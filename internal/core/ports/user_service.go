package ports

import (
	"context"
	"time"
)

// UserView is the account view exposed over the API. It never carries the
// stored credential.
type UserView struct {
	ID        int
	Username  string
	Name      string
	Role      string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// CreateUserInput carries all fields for a new account.
type CreateUserInput struct {
	Username string
	Name     string
	Role     string
	Password string
}

// UserUpdateInput carries a partial account update; nil fields are unchanged.
// A non-nil Password replaces the stored credential with a fresh hash.
type UserUpdateInput struct {
	Username *string
	Name     *string
	Role     *string
	Password *string
}

// UserService defines account management operations (admin only).
type UserService interface {
	List(ctx context.Context) ([]UserView, error)
	Create(ctx context.Context, in CreateUserInput, actor string) (*UserView, error)
	Update(ctx context.Context, id int, in UserUpdateInput, actor string) (*UserView, error)
	Delete(ctx context.Context, id int, actor string) error
}

// AuthService authenticates console users and issues session tokens.
type AuthService interface {
	// Login verifies credentials against the users collection and returns a
	// signed session token plus the authenticated account.
	Login(ctx context.Context, username, password string) (string, *UserView, error)
}
