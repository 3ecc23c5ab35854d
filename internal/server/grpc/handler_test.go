package grpc

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/socialhub/internal/api"
	"github.com/dmitrijs2005/socialhub/internal/server/services"
	"github.com/dmitrijs2005/socialhub/internal/server/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func violations(t *testing.T, err error) map[string]string {
	t.Helper()
	st := status.Convert(err)
	require.Equal(t, codes.InvalidArgument, st.Code(), st.Message())
	out := map[string]string{}
	for _, d := range st.Details() {
		if br, ok := d.(*errdetails.BadRequest); ok {
			for _, v := range br.FieldViolations {
				out[v.Field] = v.Description
			}
		}
	}
	return out
}

func TestPing(t *testing.T) {
	client := dial(t, newStubService())

	resp, err := client.Ping(context.Background(), &api.PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.Status)
}

func TestRegister(t *testing.T) {
	svc := newStubService()
	client := dial(t, svc)
	ctx := context.Background()

	resp, err := client.Register(ctx, &api.RegisterRequest{
		Name:            "Alice",
		Email:           "alice@example.com",
		Password:        "Secret1!",
		ConfirmPassword: "Secret1!",
		DateOfBirth:     "1990-05-01T00:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, services.MsgRegisterSuccess, resp.Message)
	assert.Equal(t, "refresh-1", resp.RefreshToken)
	assert.Equal(t, []string{"register:alice@example.com:1990-05-01"}, svc.called())

	_, err = client.Register(ctx, &api.RegisterRequest{
		Name:            "Vera",
		Email:           "vera@example.com",
		Password:        "weak",
		ConfirmPassword: "Secret2!",
	})
	fields := violations(t, err)
	assert.Equal(t, validation.MsgEmailExists, fields["email"])
	assert.Contains(t, fields, "password")
	assert.Equal(t, validation.MsgConfirmPasswordSame, fields["confirm_password"])
	assert.Equal(t, validation.MsgDateOfBirthISO8601, fields["date_of_birth"])
	assert.Len(t, svc.called(), 1)
}

func TestLogin(t *testing.T) {
	svc := newStubService()
	client := dial(t, svc)
	ctx := context.Background()

	resp, err := client.Login(ctx, &api.LoginRequest{Email: "ursula@example.com", Password: "Secret1!"})
	require.NoError(t, err)
	assert.Equal(t, services.MsgLoginSuccess, resp.Message)
	assert.Equal(t, []string{"login:" + ursulaID + ":unverified"}, svc.called())

	_, err = client.Login(ctx, &api.LoginRequest{Email: "ursula@example.com", Password: "Wrong1!x"})
	st := status.Convert(err)
	assert.Equal(t, codes.Unauthenticated, st.Code())
	assert.Equal(t, "email or password is incorrect", st.Message())
}

func TestVerifyEmail(t *testing.T) {
	svc := newStubService()
	client := dial(t, svc)
	ctx := context.Background()

	resp, err := client.VerifyEmail(ctx, &api.VerifyEmailRequest{EmailVerifyToken: "verify-ursula"})
	require.NoError(t, err)
	assert.Equal(t, services.MsgEmailVerifySuccess, resp.Message)
	assert.Equal(t, "access-1", resp.AccessToken)

	// no outstanding token: reported as already verified, nothing changes
	resp, err = client.VerifyEmail(ctx, &api.VerifyEmailRequest{EmailVerifyToken: "verify-vera"})
	require.NoError(t, err)
	assert.Equal(t, services.MsgEmailAlreadyVerified, resp.Message)
	assert.Empty(t, resp.AccessToken)
	assert.Equal(t, []string{"verify_email:" + ursulaID}, svc.called())

	_, err = client.VerifyEmail(ctx, &api.VerifyEmailRequest{})
	assert.Equal(t, validation.MsgTokenRequired, violations(t, err)["token"])
}

func TestGetMe(t *testing.T) {
	svc := newStubService()
	client := dial(t, svc)

	_, err := client.GetMe(context.Background(), &api.GetMeRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	resp, err := client.GetMe(withToken(context.Background(), svc.accessToken(t, ursulaID)), &api.GetMeRequest{})
	require.NoError(t, err)
	assert.Equal(t, "ursula", resp.Profile.Username)
	assert.Equal(t, 0, resp.Profile.Verify)
}

func TestGetProfile(t *testing.T) {
	client := dial(t, newStubService())
	ctx := context.Background()

	resp, err := client.GetProfile(ctx, &api.GetProfileRequest{Username: "vera"})
	require.NoError(t, err)
	assert.Equal(t, veraID, resp.Profile.ID)
	assert.Equal(t, services.MsgGetProfileSuccess, resp.Message)

	_, err = client.GetProfile(ctx, &api.GetProfileRequest{Username: "nobody"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.GetProfile(ctx, &api.GetProfileRequest{Username: "boom"})
	st := status.Convert(err)
	assert.Equal(t, codes.Internal, st.Code())
	assert.Equal(t, "internal error", st.Message())
}

func TestFollow(t *testing.T) {
	svc := newStubService()
	client := dial(t, svc)

	// unverified accounts cannot follow
	_, err := client.Follow(withToken(context.Background(), svc.accessToken(t, ursulaID)),
		&api.FollowRequest{FollowedUserID: veraID})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	ctx := withToken(context.Background(), svc.accessToken(t, veraID))

	_, err = client.Follow(ctx, &api.FollowRequest{FollowedUserID: "not-a-uuid"})
	assert.Equal(t, validation.MsgFollowedUserIDInvalid, violations(t, err)["followed_user_id"])

	_, err = client.Follow(ctx, &api.FollowRequest{FollowedUserID: veraID})
	assert.Equal(t, services.MsgCannotFollowSelf, violations(t, err)["followed_user_id"])

	_, err = client.Follow(ctx, &api.FollowRequest{FollowedUserID: "33333333-3333-4333-8333-333333333333"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	resp, err := client.Follow(ctx, &api.FollowRequest{FollowedUserID: ursulaID})
	require.NoError(t, err)
	assert.Equal(t, services.MsgFollowSuccess, resp.Message)
	assert.Equal(t, []string{"follow:" + veraID + ">" + ursulaID}, svc.called())
}
