package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/socialhub/internal/common"
	"github.com/dmitrijs2005/socialhub/internal/server/auth"
	"github.com/dmitrijs2005/socialhub/internal/server/models"
	"github.com/dmitrijs2005/socialhub/internal/server/notify"
)

// ForgotPassword stores a fresh forgot password token on the account,
// superseding any earlier one, and sends the reset link.
func (s *IdentityService) ForgotPassword(ctx context.Context, accountID string, status models.VerifyStatus) (err error) {
	defer s.done(ctx, "forgot_password", &err)

	acc, err := s.findAccount(ctx, accountID)
	if err != nil {
		return err
	}

	token, err := s.issue(auth.ForgotPasswordToken, accountID, status)
	if err != nil {
		return err
	}
	if err := s.repos.Accounts(s.db).SetForgotPasswordToken(ctx, accountID, token); err != nil {
		return err
	}

	s.notify(ctx, notify.KindForgotPassword, acc, token)
	return nil
}

// ResetPassword sets a new password if forgotPasswordToken is still the
// token stored on the account, and clears it.
func (s *IdentityService) ResetPassword(ctx context.Context, accountID, forgotPasswordToken, newPassword string) (err error) {
	defer s.done(ctx, "reset_password", &err)

	hash, err := s.hasher.HashPassword(newPassword)
	if err != nil {
		return err
	}

	err = s.repos.Accounts(s.db).ResetPassword(ctx, accountID, forgotPasswordToken, hash)
	if errors.Is(err, common.ErrStaleForgotPasswordToken) {
		return common.NewAuthError(common.ErrStaleForgotPasswordToken)
	}
	return err
}

// ChangePassword overwrites the password hash. The current password must
// have been checked already. Open sessions are kept.
func (s *IdentityService) ChangePassword(ctx context.Context, accountID, newPassword string) (err error) {
	defer s.done(ctx, "change_password", &err)

	hash, err := s.hasher.HashPassword(newPassword)
	if err != nil {
		return err
	}

	err = s.repos.Accounts(s.db).UpdatePassword(ctx, accountID, hash)
	if errors.Is(err, common.ErrorNotFound) {
		return common.NewNotFoundError(MsgUserNotFound)
	}
	return err
}
