// Package grpc exposes the identity service over gRPC. Every call runs
// request validation, then the guards that resolve tokens and accounts,
// then the core operation.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/socialhub/internal/api"
	"github.com/dmitrijs2005/socialhub/internal/logging"
	"github.com/dmitrijs2005/socialhub/internal/server/auth"
	"github.com/dmitrijs2005/socialhub/internal/server/models"
	"github.com/dmitrijs2005/socialhub/internal/server/services"
	"github.com/dmitrijs2005/socialhub/internal/server/validation"
	"google.golang.org/grpc"
)

// IdentityService is what the transport needs from services.IdentityService.
type IdentityService interface {
	validation.AccountLookup

	Register(ctx context.Context, in services.RegisterInput) (*services.TokenPair, error)
	Login(ctx context.Context, accountID string, status models.VerifyStatus) (*services.TokenPair, error)
	LoginWithExternalIdentity(ctx context.Context, code string) (*services.ExternalLoginResult, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, refreshToken string, claims *auth.Claims) (*services.TokenPair, error)
	VerifyEmail(ctx context.Context, accountID string) (*services.TokenPair, error)
	ResendEmailVerify(ctx context.Context, accountID string) (bool, error)
	ForgotPassword(ctx context.Context, accountID string, status models.VerifyStatus) error
	ResetPassword(ctx context.Context, accountID, forgotPasswordToken, newPassword string) error
	ChangePassword(ctx context.Context, accountID, newPassword string) error
	Follow(ctx context.Context, accountID, targetID string) error
	Unfollow(ctx context.Context, accountID, targetID string) error
	GetProfile(ctx context.Context, username string) (*models.Profile, error)
	GetMe(ctx context.Context, accountID string) (*models.Profile, error)
	UpdateMe(ctx context.Context, accountID string, patch models.ProfilePatch) (*models.Profile, error)

	Authenticate(ctx context.Context, email, password string) (*models.Account, error)
	VerifyAccessToken(token string) (*auth.Claims, error)
	VerifyRefreshToken(ctx context.Context, token string) (*auth.Claims, error)
	ResolveEmailVerifyToken(ctx context.Context, token string) (*models.Account, error)
	ResolveForgotPasswordToken(ctx context.Context, token string) (*models.Account, error)
	ResolveAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	CheckCurrentPassword(ctx context.Context, accountID, password string) error
	RequireVerified(ctx context.Context, accountID string) (*models.Account, error)
	ResolveFollowTarget(ctx context.Context, accountID, targetID string) (*models.Account, error)
}

var _ IdentityService = (*services.IdentityService)(nil)

type GRPCServer struct {
	api.UnimplementedIdentityServer
	address string
	svc     IdentityService
	logger  logging.Logger
}

func NewGRPCServer(address string, l logging.Logger, svc IdentityService) *GRPCServer {
	return &GRPCServer{
		address: address,
		logger:  l.With("module", "grpc_server"),
		svc:     svc,
	}
}

// newServer creates the gRPC server with the interceptor chain and registers
// the identity service on it.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		s.loggingInterceptor,
		s.accessTokenInterceptor,
		s.verifiedUserInterceptor,
	))
	api.RegisterIdentityServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
