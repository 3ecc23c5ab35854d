// Package api is the wire contract of the socialhub identity service: the
// request and response messages, the server and client interfaces and the
// gRPC service descriptor. Messages travel as JSON (see CodecName).
package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "socialhub.identity.v1.Identity"

// Full method names, as seen by interceptors.
const (
	MethodPing                      = "/" + ServiceName + "/Ping"
	MethodRegister                  = "/" + ServiceName + "/Register"
	MethodLogin                     = "/" + ServiceName + "/Login"
	MethodLogout                    = "/" + ServiceName + "/Logout"
	MethodRefreshToken              = "/" + ServiceName + "/RefreshToken"
	MethodVerifyEmail               = "/" + ServiceName + "/VerifyEmail"
	MethodResendEmailVerify         = "/" + ServiceName + "/ResendEmailVerify"
	MethodForgotPassword            = "/" + ServiceName + "/ForgotPassword"
	MethodVerifyForgotPassword      = "/" + ServiceName + "/VerifyForgotPassword"
	MethodResetPassword             = "/" + ServiceName + "/ResetPassword"
	MethodChangePassword            = "/" + ServiceName + "/ChangePassword"
	MethodGetMe                     = "/" + ServiceName + "/GetMe"
	MethodUpdateMe                  = "/" + ServiceName + "/UpdateMe"
	MethodGetProfile                = "/" + ServiceName + "/GetProfile"
	MethodFollow                    = "/" + ServiceName + "/Follow"
	MethodUnfollow                  = "/" + ServiceName + "/Unfollow"
	MethodLoginWithExternalIdentity = "/" + ServiceName + "/LoginWithExternalIdentity"
)

// IdentityServer is implemented by the identity service transport.
type IdentityServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Register(context.Context, *RegisterRequest) (*TokenResponse, error)
	Login(context.Context, *LoginRequest) (*TokenResponse, error)
	Logout(context.Context, *LogoutRequest) (*MessageResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*TokenResponse, error)
	VerifyEmail(context.Context, *VerifyEmailRequest) (*TokenResponse, error)
	ResendEmailVerify(context.Context, *ResendEmailVerifyRequest) (*MessageResponse, error)
	ForgotPassword(context.Context, *ForgotPasswordRequest) (*MessageResponse, error)
	VerifyForgotPassword(context.Context, *VerifyForgotPasswordRequest) (*MessageResponse, error)
	ResetPassword(context.Context, *ResetPasswordRequest) (*MessageResponse, error)
	ChangePassword(context.Context, *ChangePasswordRequest) (*MessageResponse, error)
	GetMe(context.Context, *GetMeRequest) (*ProfileResponse, error)
	UpdateMe(context.Context, *UpdateMeRequest) (*ProfileResponse, error)
	GetProfile(context.Context, *GetProfileRequest) (*ProfileResponse, error)
	Follow(context.Context, *FollowRequest) (*MessageResponse, error)
	Unfollow(context.Context, *UnfollowRequest) (*MessageResponse, error)
	LoginWithExternalIdentity(context.Context, *ExternalLoginRequest) (*ExternalLoginResponse, error)
}

// UnimplementedIdentityServer answers every call with codes.Unimplemented.
// Embed it to stay forward compatible with new methods.
type UnimplementedIdentityServer struct{}

func (UnimplementedIdentityServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}

func (UnimplementedIdentityServer) Register(context.Context, *RegisterRequest) (*TokenResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}

func (UnimplementedIdentityServer) Login(context.Context, *LoginRequest) (*TokenResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}

func (UnimplementedIdentityServer) Logout(context.Context, *LogoutRequest) (*MessageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Logout not implemented")
}

func (UnimplementedIdentityServer) RefreshToken(context.Context, *RefreshTokenRequest) (*TokenResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RefreshToken not implemented")
}

func (UnimplementedIdentityServer) VerifyEmail(context.Context, *VerifyEmailRequest) (*TokenResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method VerifyEmail not implemented")
}

func (UnimplementedIdentityServer) ResendEmailVerify(context.Context, *ResendEmailVerifyRequest) (*MessageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ResendEmailVerify not implemented")
}

func (UnimplementedIdentityServer) ForgotPassword(context.Context, *ForgotPasswordRequest) (*MessageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ForgotPassword not implemented")
}

func (UnimplementedIdentityServer) VerifyForgotPassword(context.Context, *VerifyForgotPasswordRequest) (*MessageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method VerifyForgotPassword not implemented")
}

func (UnimplementedIdentityServer) ResetPassword(context.Context, *ResetPasswordRequest) (*MessageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ResetPassword not implemented")
}

func (UnimplementedIdentityServer) ChangePassword(context.Context, *ChangePasswordRequest) (*MessageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ChangePassword not implemented")
}

func (UnimplementedIdentityServer) GetMe(context.Context, *GetMeRequest) (*ProfileResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetMe not implemented")
}

func (UnimplementedIdentityServer) UpdateMe(context.Context, *UpdateMeRequest) (*ProfileResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateMe not implemented")
}

func (UnimplementedIdentityServer) GetProfile(context.Context, *GetProfileRequest) (*ProfileResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetProfile not implemented")
}

func (UnimplementedIdentityServer) Follow(context.Context, *FollowRequest) (*MessageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Follow not implemented")
}

func (UnimplementedIdentityServer) Unfollow(context.Context, *UnfollowRequest) (*MessageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Unfollow not implemented")
}

func (UnimplementedIdentityServer) LoginWithExternalIdentity(context.Context, *ExternalLoginRequest) (*ExternalLoginResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method LoginWithExternalIdentity not implemented")
}

func RegisterIdentityServer(s grpc.ServiceRegistrar, srv IdentityServer) {
	s.RegisterService(&IdentityServiceDesc, srv)
}

// unary builds the method handler shared by every call of the service.
func unary[Req, Resp any](method string, call func(IdentityServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(IdentityServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(IdentityServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var IdentityServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*IdentityServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unary(MethodPing, IdentityServer.Ping)},
		{MethodName: "Register", Handler: unary(MethodRegister, IdentityServer.Register)},
		{MethodName: "Login", Handler: unary(MethodLogin, IdentityServer.Login)},
		{MethodName: "Logout", Handler: unary(MethodLogout, IdentityServer.Logout)},
		{MethodName: "RefreshToken", Handler: unary(MethodRefreshToken, IdentityServer.RefreshToken)},
		{MethodName: "VerifyEmail", Handler: unary(MethodVerifyEmail, IdentityServer.VerifyEmail)},
		{MethodName: "ResendEmailVerify", Handler: unary(MethodResendEmailVerify, IdentityServer.ResendEmailVerify)},
		{MethodName: "ForgotPassword", Handler: unary(MethodForgotPassword, IdentityServer.ForgotPassword)},
		{MethodName: "VerifyForgotPassword", Handler: unary(MethodVerifyForgotPassword, IdentityServer.VerifyForgotPassword)},
		{MethodName: "ResetPassword", Handler: unary(MethodResetPassword, IdentityServer.ResetPassword)},
		{MethodName: "ChangePassword", Handler: unary(MethodChangePassword, IdentityServer.ChangePassword)},
		{MethodName: "GetMe", Handler: unary(MethodGetMe, IdentityServer.GetMe)},
		{MethodName: "UpdateMe", Handler: unary(MethodUpdateMe, IdentityServer.UpdateMe)},
		{MethodName: "GetProfile", Handler: unary(MethodGetProfile, IdentityServer.GetProfile)},
		{MethodName: "Follow", Handler: unary(MethodFollow, IdentityServer.Follow)},
		{MethodName: "Unfollow", Handler: unary(MethodUnfollow, IdentityServer.Unfollow)},
		{MethodName: "LoginWithExternalIdentity", Handler: unary(MethodLoginWithExternalIdentity, IdentityServer.LoginWithExternalIdentity)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "socialhub/identity.json",
}

// IdentityClient is the client side of IdentityServer.
type IdentityClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*TokenResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*TokenResponse, error)
	Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*MessageResponse, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*TokenResponse, error)
	VerifyEmail(ctx context.Context, in *VerifyEmailRequest, opts ...grpc.CallOption) (*TokenResponse, error)
	ResendEmailVerify(ctx context.Context, in *ResendEmailVerifyRequest, opts ...grpc.CallOption) (*MessageResponse, error)
	ForgotPassword(ctx context.Context, in *ForgotPasswordRequest, opts ...grpc.CallOption) (*MessageResponse, error)
	VerifyForgotPassword(ctx context.Context, in *VerifyForgotPasswordRequest, opts ...grpc.CallOption) (*MessageResponse, error)
	ResetPassword(ctx context.Context, in *ResetPasswordRequest, opts ...grpc.CallOption) (*MessageResponse, error)
	ChangePassword(ctx context.Context, in *ChangePasswordRequest, opts ...grpc.CallOption) (*MessageResponse, error)
	GetMe(ctx context.Context, in *GetMeRequest, opts ...grpc.CallOption) (*ProfileResponse, error)
	UpdateMe(ctx context.Context, in *UpdateMeRequest, opts ...grpc.CallOption) (*ProfileResponse, error)
	GetProfile(ctx context.Context, in *GetProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error)
	Follow(ctx context.Context, in *FollowRequest, opts ...grpc.CallOption) (*MessageResponse, error)
	Unfollow(ctx context.Context, in *UnfollowRequest, opts ...grpc.CallOption) (*MessageResponse, error)
	LoginWithExternalIdentity(ctx context.Context, in *ExternalLoginRequest, opts ...grpc.CallOption) (*ExternalLoginResponse, error)
}

type identityClient struct {
	cc grpc.ClientConnInterface
}

func NewIdentityClient(cc grpc.ClientConnInterface) IdentityClient {
	return &identityClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *identityClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}

func (c *identityClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c.cc, MethodRegister, in, opts)
}

func (c *identityClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *identityClient) Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, MethodLogout, in, opts)
}

func (c *identityClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c.cc, MethodRefreshToken, in, opts)
}

func (c *identityClient) VerifyEmail(ctx context.Context, in *VerifyEmailRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c.cc, MethodVerifyEmail, in, opts)
}

func (c *identityClient) ResendEmailVerify(ctx context.Context, in *ResendEmailVerifyRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, MethodResendEmailVerify, in, opts)
}

func (c *identityClient) ForgotPassword(ctx context.Context, in *ForgotPasswordRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, MethodForgotPassword, in, opts)
}

func (c *identityClient) VerifyForgotPassword(ctx context.Context, in *VerifyForgotPasswordRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, MethodVerifyForgotPassword, in, opts)
}

func (c *identityClient) ResetPassword(ctx context.Context, in *ResetPasswordRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, MethodResetPassword, in, opts)
}

func (c *identityClient) ChangePassword(ctx context.Context, in *ChangePasswordRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, MethodChangePassword, in, opts)
}

func (c *identityClient) GetMe(ctx context.Context, in *GetMeRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, MethodGetMe, in, opts)
}

func (c *identityClient) UpdateMe(ctx context.Context, in *UpdateMeRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, MethodUpdateMe, in, opts)
}

func (c *identityClient) GetProfile(ctx context.Context, in *GetProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, MethodGetProfile, in, opts)
}

func (c *identityClient) Follow(ctx context.Context, in *FollowRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, MethodFollow, in, opts)
}

func (c *identityClient) Unfollow(ctx context.Context, in *UnfollowRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, MethodUnfollow, in, opts)
}

func (c *identityClient) LoginWithExternalIdentity(ctx context.Context, in *ExternalLoginRequest, opts ...grpc.CallOption) (*ExternalLoginResponse, error) {
	return invoke[ExternalLoginResponse](ctx, c.cc, MethodLoginWithExternalIdentity, in, opts)
}
