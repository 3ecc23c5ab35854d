package grpc

import (
	"context"

	"github.com/dmitrijs2005/socialhub/internal/api"
	"github.com/dmitrijs2005/socialhub/internal/common"
	"github.com/dmitrijs2005/socialhub/internal/server/auth"
	"github.com/dmitrijs2005/socialhub/internal/server/models"
	"github.com/dmitrijs2005/socialhub/internal/server/services"
	"github.com/dmitrijs2005/socialhub/internal/server/validation"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func tokenResponse(msg string, pair *services.TokenPair) *api.TokenResponse {
	return &api.TokenResponse{Message: msg, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}
}

func profileResponse(msg string, p *models.Profile) *api.ProfileResponse {
	return &api.ProfileResponse{
		Message: msg,
		Profile: &api.Profile{
			ID:          p.ID,
			Name:        p.Name,
			Email:       p.Email,
			Username:    p.Username,
			DateOfBirth: p.DateOfBirth,
			Bio:         p.Bio,
			Location:    p.Location,
			Website:     p.Website,
			Avatar:      p.Avatar,
			CoverPhoto:  p.CoverPhoto,
			Verify:      int(p.Verify),
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		},
	}
}

// caller returns the claims the access token interceptor stored.
func caller(ctx context.Context) (*auth.Claims, error) {
	claims, ok := claimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "access token is required")
	}
	return claims, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {

	return &api.PingResponse{Status: "OK"}, nil

}

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.TokenResponse, error) {

	form := validation.RegisterForm{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		DateOfBirth:     req.DateOfBirth,
	}
	if err := validation.ValidateRegister(ctx, s.svc, form); err != nil {
		return nil, s.fail(ctx, err)
	}

	dob, _ := validation.ParseDate(req.DateOfBirth)

	pair, err := s.svc.Register(ctx, services.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		DateOfBirth: dob,
	})
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	return tokenResponse(services.MsgRegisterSuccess, pair), nil

}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.TokenResponse, error) {

	if err := validation.ValidateLogin(validation.LoginForm{Email: req.Email, Password: req.Password}); err != nil {
		return nil, s.fail(ctx, err)
	}

	acc, err := s.svc.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	pair, err := s.svc.Login(ctx, acc.ID, acc.Verify)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	return tokenResponse(services.MsgLoginSuccess, pair), nil

}

func (s *GRPCServer) Logout(ctx context.Context, req *api.LogoutRequest) (*api.MessageResponse, error) {

	if err := validation.ValidateToken(validation.TokenForm{Token: req.RefreshToken}); err != nil {
		return nil, s.fail(ctx, err)
	}

	// an already revoked refresh token is rejected here
	if _, err := s.svc.VerifyRefreshToken(ctx, req.RefreshToken); err != nil {
		return nil, s.fail(ctx, err)
	}

	if err := s.svc.Logout(ctx, req.RefreshToken); err != nil {
		return nil, s.fail(ctx, err)
	}

	return &api.MessageResponse{Message: services.MsgLogoutSuccess}, nil

}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *api.RefreshTokenRequest) (*api.TokenResponse, error) {

	if err := validation.ValidateToken(validation.TokenForm{Token: req.RefreshToken}); err != nil {
		return nil, s.fail(ctx, err)
	}

	claims, err := s.svc.VerifyRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	pair, err := s.svc.RefreshToken(ctx, req.RefreshToken, claims)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	return tokenResponse(services.MsgRefreshTokenSuccess, pair), nil

}

func (s *GRPCServer) VerifyEmail(ctx context.Context, req *api.VerifyEmailRequest) (*api.TokenResponse, error) {

	if err := validation.ValidateToken(validation.TokenForm{Token: req.EmailVerifyToken}); err != nil {
		return nil, s.fail(ctx, err)
	}

	acc, err := s.svc.ResolveEmailVerifyToken(ctx, req.EmailVerifyToken)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	if acc.EmailVerifyToken == "" {
		return &api.TokenResponse{Message: services.MsgEmailAlreadyVerified}, nil
	}

	pair, err := s.svc.VerifyEmail(ctx, acc.ID)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	return tokenResponse(services.MsgEmailVerifySuccess, pair), nil

}

func (s *GRPCServer) ResendEmailVerify(ctx context.Context, req *api.ResendEmailVerifyRequest) (*api.MessageResponse, error) {

	claims, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	alreadyVerified, err := s.svc.ResendEmailVerify(ctx, claims.UserID)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	if alreadyVerified {
		return &api.MessageResponse{Message: services.MsgEmailAlreadyVerified}, nil
	}
	return &api.MessageResponse{Message: services.MsgResendEmailVerifySuccess}, nil

}

func (s *GRPCServer) ForgotPassword(ctx context.Context, req *api.ForgotPasswordRequest) (*api.MessageResponse, error) {

	if err := validation.ValidateEmail(validation.EmailForm{Email: req.Email}); err != nil {
		return nil, s.fail(ctx, err)
	}

	acc, err := s.svc.ResolveAccountByEmail(ctx, req.Email)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	if err := s.svc.ForgotPassword(ctx, acc.ID, acc.Verify); err != nil {
		return nil, s.fail(ctx, err)
	}

	return &api.MessageResponse{Message: services.MsgCheckEmailToResetPassword}, nil

}

func (s *GRPCServer) VerifyForgotPassword(ctx context.Context, req *api.VerifyForgotPasswordRequest) (*api.MessageResponse, error) {

	if err := validation.ValidateToken(validation.TokenForm{Token: req.ForgotPasswordToken}); err != nil {
		return nil, s.fail(ctx, err)
	}

	if _, err := s.svc.ResolveForgotPasswordToken(ctx, req.ForgotPasswordToken); err != nil {
		return nil, s.fail(ctx, err)
	}

	return &api.MessageResponse{Message: services.MsgForgotPasswordTokenValid}, nil

}

func (s *GRPCServer) ResetPassword(ctx context.Context, req *api.ResetPasswordRequest) (*api.MessageResponse, error) {

	form := validation.ResetPasswordForm{
		ForgotPasswordToken: req.ForgotPasswordToken,
		Password:            req.Password,
		ConfirmPassword:     req.ConfirmPassword,
	}
	if err := validation.ValidateResetPassword(form); err != nil {
		return nil, s.fail(ctx, err)
	}

	acc, err := s.svc.ResolveForgotPasswordToken(ctx, req.ForgotPasswordToken)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	if err := s.svc.ResetPassword(ctx, acc.ID, req.ForgotPasswordToken, req.Password); err != nil {
		return nil, s.fail(ctx, err)
	}

	return &api.MessageResponse{Message: services.MsgResetPasswordSuccess}, nil

}

func (s *GRPCServer) ChangePassword(ctx context.Context, req *api.ChangePasswordRequest) (*api.MessageResponse, error) {

	claims, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	form := validation.ChangePasswordForm{
		OldPassword:     req.OldPassword,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}
	if err := validation.ValidateChangePassword(form); err != nil {
		return nil, s.fail(ctx, err)
	}

	if err := s.svc.CheckCurrentPassword(ctx, claims.UserID, req.OldPassword); err != nil {
		return nil, s.fail(ctx, err)
	}

	if err := s.svc.ChangePassword(ctx, claims.UserID, req.Password); err != nil {
		return nil, s.fail(ctx, err)
	}

	return &api.MessageResponse{Message: services.MsgChangePasswordSuccess}, nil

}

func (s *GRPCServer) GetMe(ctx context.Context, req *api.GetMeRequest) (*api.ProfileResponse, error) {

	claims, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.svc.GetMe(ctx, claims.UserID)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	return profileResponse(services.MsgGetMeSuccess, p), nil

}

func (s *GRPCServer) UpdateMe(ctx context.Context, req *api.UpdateMeRequest) (*api.ProfileResponse, error) {

	claims, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	// only the listed profile fields can reach the store
	form := validation.ProfileForm{
		Name:        req.Name,
		DateOfBirth: req.DateOfBirth,
		Bio:         req.Bio,
		Location:    req.Location,
		Website:     req.Website,
		Username:    req.Username,
		Avatar:      req.Avatar,
		CoverPhoto:  req.CoverPhoto,
	}
	patch, err := validation.ValidateProfile(ctx, s.svc, claims.UserID, form)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	p, err := s.svc.UpdateMe(ctx, claims.UserID, patch)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	return profileResponse(services.MsgUpdateMeSuccess, p), nil

}

func (s *GRPCServer) GetProfile(ctx context.Context, req *api.GetProfileRequest) (*api.ProfileResponse, error) {

	if req.Username == "" {
		return nil, s.fail(ctx, common.NewNotFoundError(services.MsgUserNotFound))
	}

	p, err := s.svc.GetProfile(ctx, req.Username)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	return profileResponse(services.MsgGetProfileSuccess, p), nil

}

func (s *GRPCServer) Follow(ctx context.Context, req *api.FollowRequest) (*api.MessageResponse, error) {

	claims, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	if err := validation.ValidateFollow(validation.FollowForm{FollowedUserID: req.FollowedUserID}); err != nil {
		return nil, s.fail(ctx, err)
	}

	if _, err := s.svc.ResolveFollowTarget(ctx, claims.UserID, req.FollowedUserID); err != nil {
		return nil, s.fail(ctx, err)
	}

	if err := s.svc.Follow(ctx, claims.UserID, req.FollowedUserID); err != nil {
		return nil, s.fail(ctx, err)
	}

	return &api.MessageResponse{Message: services.MsgFollowSuccess}, nil

}

func (s *GRPCServer) Unfollow(ctx context.Context, req *api.UnfollowRequest) (*api.MessageResponse, error) {

	claims, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	if err := validation.ValidateFollow(validation.FollowForm{FollowedUserID: req.FollowedUserID}); err != nil {
		return nil, s.fail(ctx, err)
	}

	if err := s.svc.Unfollow(ctx, claims.UserID, req.FollowedUserID); err != nil {
		return nil, s.fail(ctx, err)
	}

	return &api.MessageResponse{Message: services.MsgUnfollowSuccess}, nil

}

func (s *GRPCServer) LoginWithExternalIdentity(ctx context.Context, req *api.ExternalLoginRequest) (*api.ExternalLoginResponse, error) {

	if err := validation.ValidateCode(validation.CodeForm{Code: req.Code}); err != nil {
		return nil, s.fail(ctx, err)
	}

	res, err := s.svc.LoginWithExternalIdentity(ctx, req.Code)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	return &api.ExternalLoginResponse{
		Message:      services.MsgLoginSuccess,
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		NewUser:      res.NewUser,
		Verify:       int(res.Verify),
	}, nil

}
