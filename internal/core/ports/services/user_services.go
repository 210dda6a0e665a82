package services

import (
	"context"

	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
	"github.com/stewardbooks/fund_accounting_app/internal/dto"
)

// UserSvcFacade manages users and answers authorization checks for the
// ledger services.
type UserSvcFacade interface {
	// CreateUser registers a new user. Admin only.
	CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error)

	// GetUserByID retrieves a user.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// ListUsers retrieves all users.
	ListUsers(ctx context.Context, requestingUserID string) ([]domain.User, error)

	// UpdateUser updates user details. Admin only.
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error)

	// DeactivateUser marks a user inactive. Admin only.
	DeactivateUser(ctx context.Context, userID string, requestingUserID string) error

	// AuthorizeUserAction verifies the user exists, is active, and holds at
	// least the required role. Returns ErrForbidden otherwise. Every mutating
	// ledger operation calls this before touching the store.
	AuthorizeUserAction(ctx context.Context, userID string, required domain.UserRole) error
}

// AuthSvcFacade authenticates users and issues bearer tokens.
type AuthSvcFacade interface {
	// Login verifies credentials and returns a signed JWT.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}
