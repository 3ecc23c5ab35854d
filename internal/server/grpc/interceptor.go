package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/socialhub/internal/api"
	"github.com/dmitrijs2005/socialhub/internal/common"
	"github.com/dmitrijs2005/socialhub/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// methods that require a valid access token
var authenticated = map[string]bool{
	api.MethodLogout:            true,
	api.MethodResendEmailVerify: true,
	api.MethodChangePassword:    true,
	api.MethodGetMe:             true,
	api.MethodUpdateMe:          true,
	api.MethodFollow:            true,
	api.MethodUnfollow:          true,
}

// methods that additionally require a verified account
var verifiedOnly = map[string]bool{
	api.MethodChangePassword: true,
	api.MethodUpdateMe:       true,
	api.MethodFollow:         true,
	api.MethodUnfollow:       true,
}

func metadataValue(ctx context.Context, key string) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(key); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

func claimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if !authenticated[info.FullMethod] {
		return handler(ctx, req)
	}

	accessToken := metadataValue(ctx, common.AccessTokenHeaderName)
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "access token is required")
	}

	claims, err := s.svc.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, toStatus(err)
	}

	ctx = context.WithValue(ctx, claimsKey, claims)

	return handler(ctx, req)
}

// verifiedUserInterceptor rejects accounts that are not verified at the time
// of the call, whatever status the access token was issued with.
func (s *GRPCServer) verifiedUserInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if !verifiedOnly[info.FullMethod] {
		return handler(ctx, req)
	}

	claims, ok := claimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "access token is required")
	}

	if _, err := s.svc.RequireVerified(ctx, claims.UserID); err != nil {
		return nil, s.fail(ctx, err)
	}

	return handler(ctx, req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Debug(ctx, "rpc", "method", info.FullMethod, "code", status.Code(err).String(), "duration", time.Since(start))
	return resp, err
}
