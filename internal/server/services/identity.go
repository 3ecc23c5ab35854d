// Package services contains the identity server's business logic.
//
// IdentityService owns the credential state machine: registration, login,
// session rotation and revocation, email verification, password reset and
// the follow graph. Store mutations are the source of truth: tokens are
// signed first, the mutation and the session insert commit together, and
// notifications go out only after the commit.
package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/socialhub/internal/common"
	"github.com/dmitrijs2005/socialhub/internal/dbx"
	"github.com/dmitrijs2005/socialhub/internal/logging"
	"github.com/dmitrijs2005/socialhub/internal/server/auth"
	"github.com/dmitrijs2005/socialhub/internal/server/metrics"
	"github.com/dmitrijs2005/socialhub/internal/server/models"
	"github.com/dmitrijs2005/socialhub/internal/server/notify"
	"github.com/dmitrijs2005/socialhub/internal/server/oauth"
	"github.com/dmitrijs2005/socialhub/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair = auth.TokenPair

type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePassword(password, encoded string) error
}

// Notifier schedules a notification without waiting for delivery.
type Notifier interface {
	Dispatch(ctx context.Context, n notify.Notification)
}

// ExternalIdentityProvider turns an authorization code into a provider
// asserted identity.
type ExternalIdentityProvider interface {
	Exchange(ctx context.Context, code string) (*oauth.Identity, error)
}

type nopNotifier struct{}

func (nopNotifier) Dispatch(context.Context, notify.Notification) {}

type IdentityService struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	issuer   *auth.Issuer
	hasher   PasswordHasher
	notifier Notifier
	external ExternalIdentityProvider
	metrics  *metrics.Metrics
	log      logging.Logger
	newID    func() string
}

type Option func(*IdentityService)

func WithNotifier(n Notifier) Option {
	return func(s *IdentityService) { s.notifier = n }
}

func WithExternalIdentity(p ExternalIdentityProvider) Option {
	return func(s *IdentityService) { s.external = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *IdentityService) { s.metrics = m }
}

func WithLogger(l logging.Logger) Option {
	return func(s *IdentityService) { s.log = l.With("module", "identity") }
}

func NewIdentityService(db *sql.DB, repos repomanager.RepositoryManager, issuer *auth.Issuer, hasher PasswordHasher, opts ...Option) *IdentityService {
	s := &IdentityService{
		db:       db,
		repos:    repos,
		issuer:   issuer,
		hasher:   hasher,
		notifier: nopNotifier{},
		log:      logging.Nop(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// done records the outcome of op. Untyped errors are logged and replaced by
// an internal error so that callers never see storage details.
func (s *IdentityService) done(ctx context.Context, op string, errp *error) {
	err := *errp
	if err != nil {
		var e *common.Error
		if !errors.As(err, &e) {
			err = common.NewInternalError(err)
			*errp = err
		}
		if common.KindOf(err) == common.KindInternal {
			s.log.Error(ctx, "operation failed", "operation", op, "error", err)
		}
	}
	s.metrics.ObserveOperation(op, err)
}

// defaultUsername derives the username an account starts with from its id.
func defaultUsername(id string) string {
	hex := strings.ReplaceAll(id, "-", "")
	if len(hex) > 11 {
		hex = hex[:11]
	}
	return "user" + hex
}

func (s *IdentityService) issue(class auth.TokenClass, accountID string, verify models.VerifyStatus) (string, error) {
	token, err := s.issuer.Issue(class, auth.Payload{UserID: accountID, Verify: verify})
	if err != nil {
		return "", err
	}
	s.metrics.TokenIssued(class.String())
	return token, nil
}

// issuePair signs an access/refresh pair. refreshExp keeps an existing
// session's expiry; zero starts a fresh one.
func (s *IdentityService) issuePair(ctx context.Context, accountID string, verify models.VerifyStatus, refreshExp time.Time) (*TokenPair, error) {
	pair, err := s.issuer.IssuePair(ctx, accountID, verify, refreshExp)
	if err != nil {
		return nil, err
	}
	s.metrics.TokenIssued(auth.AccessToken.String())
	s.metrics.TokenIssued(auth.RefreshToken.String())
	return pair, nil
}

// saveSession persists the refresh token of pair for accountID.
func (s *IdentityService) saveSession(ctx context.Context, db dbx.DBTX, accountID string, pair *TokenPair) error {
	return s.repos.Sessions(db).Create(ctx, &models.Session{
		AccountID: accountID,
		Token:     pair.RefreshToken,
		ExpiresAt: pair.RefreshExpiresAt,
	})
}

// commitWithSession runs fn in a transaction together with the session
// insert for pair. A session store outside the database is written only
// after the commit.
func (s *IdentityService) commitWithSession(ctx context.Context, accountID string, pair *TokenPair, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	inTx := s.repos.SessionsInTx()
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := fn(ctx, tx); err != nil {
			return err
		}
		if !inTx {
			return nil
		}
		return s.saveSession(ctx, tx, accountID, pair)
	})
	if err != nil || inTx {
		return err
	}
	return s.saveSession(ctx, s.db, accountID, pair)
}

func (s *IdentityService) notify(ctx context.Context, kind notify.Kind, acc *models.Account, token string) {
	s.notifier.Dispatch(ctx, notify.Notification{
		Kind:      kind,
		AccountID: acc.ID,
		Email:     acc.Email,
		Name:      acc.Name,
		Token:     token,
	})
}

func (s *IdentityService) findAccount(ctx context.Context, id string) (*models.Account, error) {
	acc, err := s.repos.Accounts(s.db).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewNotFoundError(MsgUserNotFound)
		}
		return nil, err
	}
	return acc, nil
}
