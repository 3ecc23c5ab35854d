package client

import (
	"context"

	"github.com/dmitrijs2005/socialhub/internal/api"
)

// Client is what the CLI needs from the identity server. Calls that return a
// string return the server's outcome message.
type Client interface {
	Close() error
	LoggedIn() bool
	Ping(ctx context.Context) error

	Register(ctx context.Context, req *api.RegisterRequest) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	LoginWithExternalIdentity(ctx context.Context, code string) (*api.ExternalLoginResponse, error)
	Logout(ctx context.Context) (string, error)

	VerifyEmail(ctx context.Context, token string) (string, error)
	ResendEmailVerify(ctx context.Context) (string, error)

	ForgotPassword(ctx context.Context, email string) (string, error)
	VerifyForgotPassword(ctx context.Context, token string) (string, error)
	ResetPassword(ctx context.Context, token, password, confirm string) (string, error)
	ChangePassword(ctx context.Context, oldPassword, password, confirm string) (string, error)

	GetMe(ctx context.Context) (*api.Profile, error)
	UpdateMe(ctx context.Context, req *api.UpdateMeRequest) (*api.Profile, error)
	GetProfile(ctx context.Context, username string) (*api.Profile, error)
	Follow(ctx context.Context, userID string) (string, error)
	Unfollow(ctx context.Context, userID string) (string, error)
}

var _ Client = (*GRPCClient)(nil)
