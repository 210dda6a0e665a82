package repositories

import (
	"context"
	"time"

	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
)

// UserRepositoryFacade defines operations for user data.
type UserRepositoryFacade interface {
	// FindUserByID retrieves a user by ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByUsername retrieves a user by username.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// ListUsers retrieves all users ordered by username.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser updates an existing user's details.
	UpdateUser(ctx context.Context, user domain.User) error

	// DeactivateUser marks a user inactive.
	DeactivateUser(ctx context.Context, userID string, updatedBy string, now time.Time) error
}
