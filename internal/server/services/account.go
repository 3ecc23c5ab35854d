package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/socialhub/internal/common"
	"github.com/dmitrijs2005/socialhub/internal/dbx"
	"github.com/dmitrijs2005/socialhub/internal/server/auth"
	"github.com/dmitrijs2005/socialhub/internal/server/models"
	"github.com/dmitrijs2005/socialhub/internal/server/notify"
	"github.com/dmitrijs2005/socialhub/internal/server/validation"
)

type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	DateOfBirth time.Time
}

type ExternalLoginResult struct {
	TokenPair
	NewUser bool
	Verify  models.VerifyStatus
}

// Register creates an unverified account, opens its first session and sends
// the email verification link.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (pair *TokenPair, err error) {
	defer s.done(ctx, "register", &err)

	pair, acc, err := s.register(ctx, in, true, models.Unverified)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, notify.KindEmailVerify, acc, acc.EmailVerifyToken)
	s.log.Info(ctx, "account registered", "account_id", acc.ID)
	return pair, nil
}

// register signs everything it needs first, then inserts the account and its
// session in one transaction. A collision on the generated username is
// retried once with a new id.
func (s *IdentityService) register(ctx context.Context, in RegisterInput, signVerifyEmailToken bool, status models.VerifyStatus) (*TokenPair, *models.Account, error) {
	hash, err := s.hasher.HashPassword(in.Password)
	if err != nil {
		return nil, nil, err
	}

	for attempt := 0; ; attempt++ {
		pair, acc, err := s.createAccount(ctx, in, hash, signVerifyEmailToken, status)
		var dup *common.DuplicateError
		if errors.As(err, &dup) {
			switch {
			case dup.Field == "email":
				return nil, nil, common.NewFieldError("email", validation.MsgEmailExists)
			case dup.Field == "username" && attempt == 0:
				s.log.Warn(ctx, "generated username taken, retrying", "username", acc.Username)
				continue
			}
		}
		if err != nil {
			return nil, nil, err
		}
		return pair, acc, nil
	}
}

func (s *IdentityService) createAccount(ctx context.Context, in RegisterInput, hash string, signVerifyEmailToken bool, status models.VerifyStatus) (*TokenPair, *models.Account, error) {
	id := s.newID()
	acc := &models.Account{
		ID:           id,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Username:     defaultUsername(id),
		DateOfBirth:  in.DateOfBirth,
		Verify:       status,
	}

	var err error
	if signVerifyEmailToken {
		acc.EmailVerifyToken, err = s.issue(auth.EmailVerifyToken, id, status)
		if err != nil {
			return nil, acc, err
		}
	}

	pair, err := s.issuePair(ctx, id, status, time.Time{})
	if err != nil {
		return nil, acc, err
	}

	err = s.commitWithSession(ctx, id, pair, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repos.Accounts(tx).Create(ctx, acc)
	})
	if err != nil {
		return nil, acc, err
	}
	return pair, acc, nil
}

// Login opens a new session for an account whose credentials were already
// checked. Existing sessions stay valid.
func (s *IdentityService) Login(ctx context.Context, accountID string, status models.VerifyStatus) (pair *TokenPair, err error) {
	defer s.done(ctx, "login", &err)

	pair, err = s.issuePair(ctx, accountID, status, time.Time{})
	if err != nil {
		return nil, err
	}
	if err := s.saveSession(ctx, s.db, accountID, pair); err != nil {
		return nil, err
	}
	return pair, nil
}

// LoginWithExternalIdentity exchanges code with the identity provider and
// logs the owner of the returned email in, registering a verified account
// on first sight.
func (s *IdentityService) LoginWithExternalIdentity(ctx context.Context, code string) (res *ExternalLoginResult, err error) {
	defer s.done(ctx, "login_external", &err)

	if s.external == nil {
		return nil, common.NewExternalIdentityError(errors.New("external identity login is not configured"))
	}

	id, err := s.external.Exchange(ctx, code)
	if err != nil {
		return nil, common.NewExternalIdentityError(err)
	}
	if !id.EmailVerified {
		return nil, common.NewExternalIdentityError(common.ErrExternalIdentityNotVerified)
	}

	acc, err := s.repos.Accounts(s.db).FindByEmail(ctx, id.Email)
	switch {
	case err == nil:
		return s.externalLogin(ctx, acc)
	case !errors.Is(err, common.ErrorNotFound):
		return nil, err
	}

	password, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, err
	}
	name := id.Name
	if name == "" {
		name, _, _ = strings.Cut(id.Email, "@")
	}

	pair, _, err := s.register(ctx, RegisterInput{Name: name, Email: id.Email, Password: password}, false, models.Verified)
	if err != nil {
		// lost a race with a concurrent first login for the same email
		if common.KindOf(err) == common.KindValidation {
			if acc, ferr := s.repos.Accounts(s.db).FindByEmail(ctx, id.Email); ferr == nil {
				return s.externalLogin(ctx, acc)
			}
		}
		return nil, err
	}

	return &ExternalLoginResult{TokenPair: *pair, NewUser: true, Verify: models.Verified}, nil
}

func (s *IdentityService) externalLogin(ctx context.Context, acc *models.Account) (*ExternalLoginResult, error) {
	if acc.Verify == models.Banned {
		return nil, common.NewForbiddenError(common.ErrAccountBanned)
	}
	pair, err := s.issuePair(ctx, acc.ID, acc.Verify, time.Time{})
	if err != nil {
		return nil, err
	}
	if err := s.saveSession(ctx, s.db, acc.ID, pair); err != nil {
		return nil, err
	}
	return &ExternalLoginResult{TokenPair: *pair, Verify: acc.Verify}, nil
}

// Logout revokes the session of refreshToken. Revoking an unknown token is
// not an error.
func (s *IdentityService) Logout(ctx context.Context, refreshToken string) (err error) {
	defer s.done(ctx, "logout", &err)
	return s.repos.Sessions(s.db).Delete(ctx, refreshToken)
}

// RefreshToken rotates a verified refresh token: its session is consumed and
// a new pair is issued that expires together with the old refresh token.
// The verification status is read from the account, not from the old token.
func (s *IdentityService) RefreshToken(ctx context.Context, refreshToken string, claims *auth.Claims) (pair *TokenPair, err error) {
	defer s.done(ctx, "refresh_token", &err)

	acc, err := s.findAccount(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	var exp time.Time
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}

	pair, err = s.issuePair(ctx, acc.ID, acc.Verify, exp)
	if err != nil {
		return nil, err
	}

	err = s.commitWithSession(ctx, acc.ID, pair, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repos.Sessions(tx).Consume(ctx, refreshToken); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.NewAuthError(common.ErrSessionNotFound)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return pair, nil
}
