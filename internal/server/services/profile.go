package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/socialhub/internal/common"
	"github.com/dmitrijs2005/socialhub/internal/server/models"
	"github.com/dmitrijs2005/socialhub/internal/server/validation"
)

// GetProfile returns the public profile of username.
func (s *IdentityService) GetProfile(ctx context.Context, username string) (p *models.Profile, err error) {
	defer s.done(ctx, "get_profile", &err)

	acc, err := s.repos.Accounts(s.db).FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewNotFoundError(MsgUserNotFound)
		}
		return nil, err
	}
	return acc.Profile(), nil
}

func (s *IdentityService) GetMe(ctx context.Context, accountID string) (p *models.Profile, err error) {
	defer s.done(ctx, "get_me", &err)

	acc, err := s.findAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return acc.Profile(), nil
}

// UpdateMe applies patch to the caller's own profile.
func (s *IdentityService) UpdateMe(ctx context.Context, accountID string, patch models.ProfilePatch) (p *models.Profile, err error) {
	defer s.done(ctx, "update_me", &err)

	acc, err := s.repos.Accounts(s.db).UpdateProfile(ctx, accountID, patch)
	if err != nil {
		var dup *common.DuplicateError
		switch {
		case errors.As(err, &dup) && dup.Field == "username":
			return nil, common.NewFieldError("username", validation.MsgUsernameExists)
		case errors.Is(err, common.ErrorNotFound):
			return nil, common.NewNotFoundError(MsgUserNotFound)
		}
		return nil, err
	}
	return acc.Profile(), nil
}
