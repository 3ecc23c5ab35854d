package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/socialhub/internal/common"
)

// Follow adds the edge accountID -> targetID.
func (s *IdentityService) Follow(ctx context.Context, accountID, targetID string) (err error) {
	defer s.done(ctx, "follow", &err)

	if accountID == targetID {
		return common.NewFieldError("followed_user_id", MsgCannotFollowSelf)
	}

	repo := s.repos.Relationships(s.db)

	_, err = repo.Find(ctx, accountID, targetID)
	switch {
	case err == nil:
		return common.NewConflictError(common.ErrAlreadyFollowed)
	case !errors.Is(err, common.ErrorNotFound):
		return err
	}

	_, err = repo.Create(ctx, accountID, targetID)
	switch {
	case errors.Is(err, common.ErrorAlreadyExists):
		return common.NewConflictError(common.ErrAlreadyFollowed)
	case errors.Is(err, common.ErrCannotFollowSelf):
		return common.NewFieldError("followed_user_id", MsgCannotFollowSelf)
	}
	return err
}

// Unfollow removes the edge accountID -> targetID.
func (s *IdentityService) Unfollow(ctx context.Context, accountID, targetID string) (err error) {
	defer s.done(ctx, "unfollow", &err)

	err = s.repos.Relationships(s.db).Delete(ctx, accountID, targetID)
	if errors.Is(err, common.ErrorNotFound) {
		return common.NewConflictError(common.ErrAlreadyUnfollowed)
	}
	return err
}
