package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/socialhub/internal/common"
	"github.com/dmitrijs2005/socialhub/internal/cryptox"
	"github.com/dmitrijs2005/socialhub/internal/server/auth"
	"github.com/dmitrijs2005/socialhub/internal/server/models"
	"golang.org/x/sync/errgroup"
)

// The methods in this file resolve and check request state before a core
// operation runs. Every failure is returned; none is absorbed.

// dummyHash is compared against when the email is unknown so that both
// outcomes cost one password hash.
const dummyHash = "$argon2id$v=19$m=65536,t=1,p=4$c29jaWFsaHViLWR1bW15$tGd0dPvzZ6XkE8+dvRrCFYGPyXWyiDsE8xUqV2ejbSQ"

// Authenticate resolves the account owning email if password matches.
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	acc, err := s.repos.Accounts(s.db).FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = s.hasher.ComparePassword(password, dummyHash)
			return nil, common.NewAuthError(common.ErrInvalidCredentials)
		}
		return nil, common.NewInternalError(err)
	}

	if err := s.hasher.ComparePassword(password, acc.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrMismatchedPassword) {
			return nil, common.NewAuthError(common.ErrInvalidCredentials)
		}
		return nil, common.NewInternalError(err)
	}

	if acc.Verify == models.Banned {
		return nil, common.NewForbiddenError(common.ErrAccountBanned)
	}
	return acc, nil
}

func (s *IdentityService) VerifyAccessToken(token string) (*auth.Claims, error) {
	return s.issuer.Parse(auth.AccessToken, token)
}

// VerifyRefreshToken checks the token signature and the existence of its
// session concurrently. Both must pass.
func (s *IdentityService) VerifyRefreshToken(ctx context.Context, token string) (*auth.Claims, error) {
	var (
		claims  *auth.Claims
		session *models.Session
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		claims, err = s.issuer.Parse(auth.RefreshToken, token)
		return err
	})
	g.Go(func() error {
		var err error
		session, err = s.repos.Sessions(s.db).Find(gctx, token)
		if errors.Is(err, common.ErrorNotFound) {
			return common.NewAuthError(common.ErrSessionNotFound)
		}
		if err != nil {
			return common.NewInternalError(err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if session.AccountID != claims.UserID {
		return nil, common.NewAuthError(common.ErrInvalidToken)
	}
	return claims, nil
}

// ResolveEmailVerifyToken returns the account the token was issued to. An
// account without an outstanding token is returned as is so that the caller
// can report it as already verified; otherwise the token must be the stored
// one.
func (s *IdentityService) ResolveEmailVerifyToken(ctx context.Context, token string) (*models.Account, error) {
	claims, err := s.issuer.Parse(auth.EmailVerifyToken, token)
	if err != nil {
		return nil, err
	}

	acc, err := s.resolveAccount(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	if acc.EmailVerifyToken == "" {
		return acc, nil
	}
	if acc.EmailVerifyToken != token {
		return nil, common.NewAuthError(common.ErrStaleEmailVerifyToken)
	}
	return acc, nil
}

// ResolveForgotPasswordToken returns the account the token was issued to if
// it is the most recently stored forgot password token.
func (s *IdentityService) ResolveForgotPasswordToken(ctx context.Context, token string) (*models.Account, error) {
	claims, err := s.issuer.Parse(auth.ForgotPasswordToken, token)
	if err != nil {
		return nil, err
	}

	acc, err := s.resolveAccount(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	if acc.ForgotPasswordToken == "" || acc.ForgotPasswordToken != token {
		return nil, common.NewAuthError(common.ErrStaleForgotPasswordToken)
	}
	return acc, nil
}

func (s *IdentityService) ResolveAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	acc, err := s.repos.Accounts(s.db).FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewNotFoundError(MsgUserNotFound)
		}
		return nil, common.NewInternalError(err)
	}
	return acc, nil
}

// ExistsByEmail and UsernameTaken back the uniqueness checks of request
// validation.
func (s *IdentityService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.repos.Accounts(s.db).ExistsByEmail(ctx, email)
}

func (s *IdentityService) UsernameTaken(ctx context.Context, username, excludeID string) (bool, error) {
	return s.repos.Accounts(s.db).UsernameTaken(ctx, username, excludeID)
}

// CheckCurrentPassword re-verifies the caller's current password.
func (s *IdentityService) CheckCurrentPassword(ctx context.Context, accountID, password string) error {
	acc, err := s.resolveAccount(ctx, accountID)
	if err != nil {
		return err
	}

	if err := s.hasher.ComparePassword(password, acc.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrMismatchedPassword) {
			return common.NewFieldError("old_password", MsgOldPasswordMismatch)
		}
		return common.NewInternalError(err)
	}
	return nil
}

// RequireVerified loads the account behind an access token and fails unless
// it is verified now. The status claim in the token may be stale.
func (s *IdentityService) RequireVerified(ctx context.Context, accountID string) (*models.Account, error) {
	acc, err := s.resolveAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	switch acc.Verify {
	case models.Verified:
		return acc, nil
	case models.Banned:
		return nil, common.NewForbiddenError(common.ErrAccountBanned)
	default:
		return nil, common.NewForbiddenError(common.ErrAccountNotVerified)
	}
}

// ResolveFollowTarget rejects self-follows and unknown targets.
func (s *IdentityService) ResolveFollowTarget(ctx context.Context, accountID, targetID string) (*models.Account, error) {
	if accountID == targetID {
		return nil, common.NewFieldError("followed_user_id", MsgCannotFollowSelf)
	}
	return s.resolveAccount(ctx, targetID)
}

func (s *IdentityService) resolveAccount(ctx context.Context, id string) (*models.Account, error) {
	acc, err := s.findAccount(ctx, id)
	if err != nil {
		var e *common.Error
		if errors.As(err, &e) {
			return nil, err
		}
		return nil, common.NewInternalError(err)
	}
	return acc, nil
}
