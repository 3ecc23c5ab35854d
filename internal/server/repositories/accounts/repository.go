// Package accounts declares the account store and its PostgreSQL
// implementation.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/socialhub/internal/server/models"
)

// Repository stores accounts and their credential state. Email and username
// uniqueness is enforced by the store; violations are returned as
// *common.DuplicateError.
type Repository interface {
	Create(ctx context.Context, account *models.Account) error

	// Find* return common.ErrorNotFound when no account matches.
	FindByID(ctx context.Context, id string) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByUsername(ctx context.Context, username string) (*models.Account, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// UsernameTaken reports whether another account than excludeID uses username.
	UsernameTaken(ctx context.Context, username, excludeID string) (bool, error)

	SetEmailVerifyToken(ctx context.Context, id, token string) error
	// MarkEmailVerified clears the email verify token and moves an Unverified
	// account to Verified. Accounts in any other state are reported as
	// common.ErrorNotFound.
	MarkEmailVerified(ctx context.Context, id string) error

	SetForgotPasswordToken(ctx context.Context, id, token string) error
	// ResetPassword replaces the password hash only if token is the currently
	// stored forgot password token, and clears it. Otherwise it returns
	// common.ErrStaleForgotPasswordToken.
	ResetPassword(ctx context.Context, id, token, passwordHash string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// UpdateProfile applies patch and returns the updated account.
	UpdateProfile(ctx context.Context, id string, patch models.ProfilePatch) (*models.Account, error)
}
