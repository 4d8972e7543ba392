package contracts

import (
	"context"
	"telemed-service/internal/app/models"
)

type IdentityGateway interface {
	// FindUserByEmail returns nil when no account exists for email.
	FindUserByEmail(ctx context.Context, email string) (*models.IdentityUser, error)
	// CreateUser reports created=false when the email already had an account.
	CreateUser(ctx context.Context, email, password string) (user *models.IdentityUser, created bool, err error)
	SetPassword(ctx context.Context, userID, password string) error
	AssignRole(ctx context.Context, userID, role string) error
	// EnsureRole creates role with permissions when it does not exist yet.
	EnsureRole(ctx context.Context, role string, permissions []string) error
}
