// Package sessions declares the server-side store of issued refresh tokens.
// A refresh token is usable only while its session record exists; deleting
// the record is the only way to revoke it.
package sessions

import (
	"context"

	"github.com/dmitrijs2005/socialhub/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking sessions.
type Repository interface {
	// Create stores a new session. ID and CreatedAt are filled in.
	Create(ctx context.Context, session *models.Session) error

	// Find looks up a session by its refresh token.
	// Implementations return common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.Session, error)

	// Delete removes a session by its token. Deleting a non-existent
	// token is not an error.
	Delete(ctx context.Context, token string) error

	// Consume removes the session and returns it, or common.ErrorNotFound if it
	// was already gone. Two concurrent callers never both succeed.
	Consume(ctx context.Context, token string) (*models.Session, error)
}
