// Package relationships stores follow edges between accounts.
package relationships

import (
	"context"

	"github.com/dmitrijs2005/socialhub/internal/server/models"
)

// Repository holds at most one edge per ordered (follower, followed) pair.
type Repository interface {
	// Create inserts the edge. An existing edge yields *common.DuplicateError.
	Create(ctx context.Context, followerID, followedID string) (*models.Relationship, error)

	// Find returns common.ErrorNotFound when there is no edge.
	Find(ctx context.Context, followerID, followedID string) (*models.Relationship, error)

	// Delete returns common.ErrorNotFound when there was no edge to remove.
	Delete(ctx context.Context, followerID, followedID string) error
}
