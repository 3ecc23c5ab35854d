package client

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/socialhub/internal/api"
	"github.com/dmitrijs2005/socialhub/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	conn   *grpc.ClientConn
	client api.IdentityClient
	store  *TokenStore

	mu     sync.Mutex
	tokens Tokens
}

// NewGRPCClient connects to endpointURL and restores the session saved in store.
// Extra dial options are appended after the defaults.
func NewGRPCClient(ctx context.Context, endpointURL string, store *TokenStore, opts ...grpc.DialOption) (*GRPCClient, error) {
	tokens, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}

	c := &GRPCClient{store: store, tokens: tokens}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = api.NewIdentityClient(conn)
	return c, nil
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}
	return metadata.NewOutgoingContext(ctx, md)
}

func (c *GRPCClient) current() Tokens {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens
}

func (c *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	// called from refresh with c.mu held
	if method == api.MethodRefreshToken {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	sent := c.current().AccessToken

	err := invoker(withAccessToken(ctx, sent), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}

	fresh, rerr := c.refresh(ctx, sent)
	if rerr != nil {
		return err
	}

	return invoker(withAccessToken(ctx, fresh), method, req, reply, cc, opts...)
}

// refresh rotates the session pair unless another call already did so after
// stale was sent, and returns the access token to retry with.
func (c *GRPCClient) refresh(ctx context.Context, stale string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tokens.AccessToken != stale {
		return c.tokens.AccessToken, nil
	}
	if c.tokens.RefreshToken == "" {
		return "", ErrNotLoggedIn
	}

	resp, err := c.client.RefreshToken(ctx, &api.RefreshTokenRequest{RefreshToken: c.tokens.RefreshToken})
	if err != nil {
		return "", err
	}

	if err := c.saveLocked(ctx, Tokens{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

func (c *GRPCClient) saveLocked(ctx context.Context, t Tokens) error {
	c.tokens = t
	return c.store.Save(ctx, t)
}

func (c *GRPCClient) save(ctx context.Context, access, refresh string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveLocked(ctx, Tokens{AccessToken: access, RefreshToken: refresh})
}

func (c *GRPCClient) clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = Tokens{}
	return c.store.Clear(ctx)
}

func (c *GRPCClient) LoggedIn() bool {
	return c.current().RefreshToken != ""
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func (c *GRPCClient) Ping(ctx context.Context) error {
	resp, err := c.client.Ping(ctx, &api.PingRequest{})
	if err != nil {
		return mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (c *GRPCClient) Register(ctx context.Context, req *api.RegisterRequest) (string, error) {
	resp, err := c.client.Register(ctx, req)
	if err != nil {
		return "", mapError(err)
	}
	return resp.Message, c.save(ctx, resp.AccessToken, resp.RefreshToken)
}

func (c *GRPCClient) Login(ctx context.Context, email, password string) (string, error) {
	resp, err := c.client.Login(ctx, &api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return "", mapError(err)
	}
	return resp.Message, c.save(ctx, resp.AccessToken, resp.RefreshToken)
}

func (c *GRPCClient) LoginWithExternalIdentity(ctx context.Context, code string) (*api.ExternalLoginResponse, error) {
	resp, err := c.client.LoginWithExternalIdentity(ctx, &api.ExternalLoginRequest{Code: code})
	if err != nil {
		return nil, mapError(err)
	}
	return resp, c.save(ctx, resp.AccessToken, resp.RefreshToken)
}

// Logout ends the server session and forgets the local one. The local pair is
// also dropped when the server no longer accepts it.
func (c *GRPCClient) Logout(ctx context.Context) (string, error) {
	t := c.current()
	if t.RefreshToken == "" {
		return "", ErrNotLoggedIn
	}

	resp, err := c.client.Logout(ctx, &api.LogoutRequest{RefreshToken: t.RefreshToken})
	if err != nil {
		err = mapError(err)
		if errors.Is(err, ErrUnauthorized) {
			_ = c.clear(ctx)
		}
		return "", err
	}
	return resp.Message, c.clear(ctx)
}

// VerifyEmail redeems token. A fresh pair is returned only when the account
// was not verified yet; it replaces the stored session.
func (c *GRPCClient) VerifyEmail(ctx context.Context, token string) (string, error) {
	resp, err := c.client.VerifyEmail(ctx, &api.VerifyEmailRequest{EmailVerifyToken: token})
	if err != nil {
		return "", mapError(err)
	}
	if resp.AccessToken == "" {
		return resp.Message, nil
	}
	return resp.Message, c.save(ctx, resp.AccessToken, resp.RefreshToken)
}

func (c *GRPCClient) ResendEmailVerify(ctx context.Context) (string, error) {
	resp, err := c.client.ResendEmailVerify(ctx, &api.ResendEmailVerifyRequest{})
	if err != nil {
		return "", mapError(err)
	}
	return resp.Message, nil
}

func (c *GRPCClient) ForgotPassword(ctx context.Context, email string) (string, error) {
	resp, err := c.client.ForgotPassword(ctx, &api.ForgotPasswordRequest{Email: email})
	if err != nil {
		return "", mapError(err)
	}
	return resp.Message, nil
}

func (c *GRPCClient) VerifyForgotPassword(ctx context.Context, token string) (string, error) {
	resp, err := c.client.VerifyForgotPassword(ctx, &api.VerifyForgotPasswordRequest{ForgotPasswordToken: token})
	if err != nil {
		return "", mapError(err)
	}
	return resp.Message, nil
}

func (c *GRPCClient) ResetPassword(ctx context.Context, token, password, confirm string) (string, error) {
	resp, err := c.client.ResetPassword(ctx, &api.ResetPasswordRequest{
		ForgotPasswordToken: token,
		Password:            password,
		ConfirmPassword:     confirm,
	})
	if err != nil {
		return "", mapError(err)
	}
	return resp.Message, nil
}

func (c *GRPCClient) ChangePassword(ctx context.Context, oldPassword, password, confirm string) (string, error) {
	resp, err := c.client.ChangePassword(ctx, &api.ChangePasswordRequest{
		OldPassword:     oldPassword,
		Password:        password,
		ConfirmPassword: confirm,
	})
	if err != nil {
		return "", mapError(err)
	}
	return resp.Message, nil
}

func (c *GRPCClient) GetMe(ctx context.Context) (*api.Profile, error) {
	resp, err := c.client.GetMe(ctx, &api.GetMeRequest{})
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Profile, nil
}

func (c *GRPCClient) UpdateMe(ctx context.Context, req *api.UpdateMeRequest) (*api.Profile, error) {
	resp, err := c.client.UpdateMe(ctx, req)
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Profile, nil
}

func (c *GRPCClient) GetProfile(ctx context.Context, username string) (*api.Profile, error) {
	resp, err := c.client.GetProfile(ctx, &api.GetProfileRequest{Username: username})
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Profile, nil
}

func (c *GRPCClient) Follow(ctx context.Context, userID string) (string, error) {
	resp, err := c.client.Follow(ctx, &api.FollowRequest{FollowedUserID: userID})
	if err != nil {
		return "", mapError(err)
	}
	return resp.Message, nil
}

func (c *GRPCClient) Unfollow(ctx context.Context, userID string) (string, error) {
	resp, err := c.client.Unfollow(ctx, &api.UnfollowRequest{FollowedUserID: userID})
	if err != nil {
		return "", mapError(err)
	}
	return resp.Message, nil
}
