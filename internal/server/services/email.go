package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/socialhub/internal/common"
	"github.com/dmitrijs2005/socialhub/internal/dbx"
	"github.com/dmitrijs2005/socialhub/internal/server/auth"
	"github.com/dmitrijs2005/socialhub/internal/server/models"
	"github.com/dmitrijs2005/socialhub/internal/server/notify"
)

// VerifyEmail marks the account verified and opens a session whose tokens
// carry the Verified status. The status flip and the session insert commit
// together; if either fails the signed pair is discarded.
func (s *IdentityService) VerifyEmail(ctx context.Context, accountID string) (pair *TokenPair, err error) {
	defer s.done(ctx, "verify_email", &err)

	pair, err = s.issuePair(ctx, accountID, models.Verified, time.Time{})
	if err != nil {
		return nil, err
	}

	err = s.commitWithSession(ctx, accountID, pair, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repos.Accounts(tx).MarkEmailVerified(ctx, accountID)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewNotFoundError(MsgUserNotFound)
		}
		return nil, err
	}

	s.log.Info(ctx, "email verified", "account_id", accountID)
	return pair, nil
}

// ResendEmailVerify replaces the outstanding email verify token, which
// invalidates the previous one, and sends the new link. Already verified
// accounts are left untouched.
func (s *IdentityService) ResendEmailVerify(ctx context.Context, accountID string) (alreadyVerified bool, err error) {
	defer s.done(ctx, "resend_email_verify", &err)

	acc, err := s.findAccount(ctx, accountID)
	if err != nil {
		return false, err
	}
	if acc.Verify == models.Verified {
		return true, nil
	}

	token, err := s.issue(auth.EmailVerifyToken, acc.ID, acc.Verify)
	if err != nil {
		return false, err
	}
	if err := s.repos.Accounts(s.db).SetEmailVerifyToken(ctx, acc.ID, token); err != nil {
		return false, err
	}

	s.notify(ctx, notify.KindEmailVerify, acc, token)
	return false, nil
}
