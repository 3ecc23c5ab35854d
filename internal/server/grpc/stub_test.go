package grpc

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/socialhub/internal/api"
	"github.com/dmitrijs2005/socialhub/internal/common"
	"github.com/dmitrijs2005/socialhub/internal/logging"
	"github.com/dmitrijs2005/socialhub/internal/server/auth"
	"github.com/dmitrijs2005/socialhub/internal/server/models"
	"github.com/dmitrijs2005/socialhub/internal/server/services"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"
)

// stubService answers the calls the handler tests exercise. Anything else
// panics through the nil embedded interface.
type stubService struct {
	IdentityService

	issuer *auth.Issuer

	mu       sync.Mutex
	accounts map[string]*models.Account
	calls    []string
}

func newStubService() *stubService {
	return &stubService{
		issuer: auth.NewIssuer(map[auth.TokenClass]auth.KeyConfig{
			auth.AccessToken:  {Secret: []byte("access"), TTL: time.Minute},
			auth.RefreshToken: {Secret: []byte("refresh"), TTL: time.Hour},
		}),
		accounts: map[string]*models.Account{
			"11111111-1111-4111-8111-111111111111": {
				ID: "11111111-1111-4111-8111-111111111111", Email: "vera@example.com",
				Username: "vera", PasswordHash: "Secret1!", Verify: models.Verified,
			},
			"22222222-2222-4222-8222-222222222222": {
				ID: "22222222-2222-4222-8222-222222222222", Email: "ursula@example.com",
				Username: "ursula", PasswordHash: "Secret1!", Verify: models.Unverified,
				EmailVerifyToken: "verify-ursula",
			},
		},
	}
}

const (
	veraID   = "11111111-1111-4111-8111-111111111111"
	ursulaID = "22222222-2222-4222-8222-222222222222"
)

func (s *stubService) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *stubService) called() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubService) account(id string) (*models.Account, error) {
	acc, ok := s.accounts[id]
	if !ok {
		return nil, common.NewNotFoundError(services.MsgUserNotFound)
	}
	return acc, nil
}

func (s *stubService) accessToken(t *testing.T, id string) string {
	t.Helper()
	token, err := s.issuer.Issue(auth.AccessToken, auth.Payload{UserID: id})
	require.NoError(t, err)
	return token
}

func pair() *services.TokenPair {
	return &services.TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"}
}

func (s *stubService) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, a := range s.accounts {
		if a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubService) UsernameTaken(_ context.Context, username, excludeID string) (bool, error) {
	for _, a := range s.accounts {
		if a.Username == username && a.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubService) VerifyAccessToken(token string) (*auth.Claims, error) {
	return s.issuer.Parse(auth.AccessToken, token)
}

func (s *stubService) RequireVerified(_ context.Context, id string) (*models.Account, error) {
	acc, err := s.account(id)
	if err != nil {
		return nil, err
	}
	if acc.Verify != models.Verified {
		return nil, common.NewForbiddenError(common.ErrAccountNotVerified)
	}
	return acc, nil
}

func (s *stubService) Register(_ context.Context, in services.RegisterInput) (*services.TokenPair, error) {
	s.record("register:" + in.Email + ":" + in.DateOfBirth.Format("2006-01-02"))
	return pair(), nil
}

func (s *stubService) Authenticate(_ context.Context, email, password string) (*models.Account, error) {
	for _, a := range s.accounts {
		if a.Email == email && a.PasswordHash == password {
			return a, nil
		}
	}
	return nil, common.NewAuthError(common.ErrInvalidCredentials)
}

func (s *stubService) Login(_ context.Context, id string, status models.VerifyStatus) (*services.TokenPair, error) {
	s.record("login:" + id + ":" + status.String())
	return pair(), nil
}

func (s *stubService) ResolveEmailVerifyToken(_ context.Context, token string) (*models.Account, error) {
	switch token {
	case "verify-ursula":
		return s.accounts[ursulaID], nil
	case "verify-vera":
		return s.accounts[veraID], nil
	}
	return nil, common.NewAuthError(common.ErrInvalidToken)
}

func (s *stubService) VerifyEmail(_ context.Context, id string) (*services.TokenPair, error) {
	s.record("verify_email:" + id)
	return pair(), nil
}

func (s *stubService) GetMe(_ context.Context, id string) (*models.Profile, error) {
	acc, err := s.account(id)
	if err != nil {
		return nil, err
	}
	return acc.Profile(), nil
}

func (s *stubService) GetProfile(_ context.Context, username string) (*models.Profile, error) {
	if username == "boom" {
		return nil, errors.New("db error: connection refused")
	}
	for _, a := range s.accounts {
		if a.Username == username {
			return a.Profile(), nil
		}
	}
	return nil, common.NewNotFoundError(services.MsgUserNotFound)
}

func (s *stubService) ResolveFollowTarget(_ context.Context, id, target string) (*models.Account, error) {
	if id == target {
		return nil, common.NewFieldError("followed_user_id", services.MsgCannotFollowSelf)
	}
	return s.account(target)
}

func (s *stubService) Follow(_ context.Context, id, target string) error {
	s.record("follow:" + id + ">" + target)
	return nil
}

// dial serves svc over an in-memory listener and returns a client for it.
func dial(t *testing.T, svc IdentityService) api.IdentityClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := NewGRPCServer("bufnet", logging.Nop(), svc)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.Serve(ctx, lis)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return api.NewIdentityClient(conn)
}

func withToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, common.AccessTokenHeaderName, token)
}
