package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/socialhub/internal/server/models"
	"golang.org/x/sync/errgroup"
)

// KeyConfig is the secret and lifetime of one token class.
type KeyConfig struct {
	Secret []byte
	TTL    time.Duration
}

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// Issuer signs and verifies tokens with an independent key per class.
type Issuer struct {
	keys map[TokenClass]KeyConfig
	now  func() time.Time
}

func NewIssuer(keys map[TokenClass]KeyConfig) *Issuer {
	return &Issuer{keys: keys, now: time.Now}
}

// WithClock returns a copy of the issuer that reads time from now.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	return &Issuer{keys: i.keys, now: now}
}

func (i *Issuer) key(class TokenClass) (KeyConfig, error) {
	k, ok := i.keys[class]
	if !ok || len(k.Secret) == 0 {
		return KeyConfig{}, fmt.Errorf("no signing key for %s tokens", class)
	}
	return k, nil
}

// TTL returns the configured lifetime of class.
func (i *Issuer) TTL(class TokenClass) time.Duration {
	return i.keys[class].TTL
}

// Issue signs a token of class for the account.
func (i *Issuer) Issue(class TokenClass, p Payload) (string, error) {
	k, err := i.key(class)
	if err != nil {
		return "", err
	}
	return signAt(i.now(), p, class, k.Secret, k.TTL)
}

// Parse verifies a token of class.
func (i *Issuer) Parse(class TokenClass, token string) (*Claims, error) {
	k, err := i.key(class)
	if err != nil {
		return nil, err
	}
	return verifyAt(i.now, token, class, k.Secret)
}

// IssuePair signs an access and a refresh token concurrently. If refreshExp
// is zero the refresh token gets the full refresh TTL.
func (i *Issuer) IssuePair(ctx context.Context, userID string, verify models.VerifyStatus, refreshExp time.Time) (*TokenPair, error) {
	now := i.now()
	if refreshExp.IsZero() {
		refreshExp = now.Add(i.TTL(RefreshToken))
	}
	refreshExp = refreshExp.Truncate(time.Second)

	var pair TokenPair
	pair.RefreshExpiresAt = refreshExp

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pair.AccessToken, err = i.Issue(AccessToken, Payload{UserID: userID, Verify: verify})
		return err
	})
	g.Go(func() error {
		var err error
		pair.RefreshToken, err = i.Issue(RefreshToken, Payload{UserID: userID, Verify: verify, ExpiresAt: refreshExp})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &pair, nil
}
