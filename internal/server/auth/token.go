// Package auth mints and verifies the signed tokens used by the identity
// server. Every token carries the account id, its class and a snapshot of
// the account verification status.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/socialhub/internal/common"
	"github.com/dmitrijs2005/socialhub/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClass tags what a token may be used for. Values are part of the wire
// format.
type TokenClass int

const (
	AccessToken TokenClass = iota
	RefreshToken
	ForgotPasswordToken
	EmailVerifyToken
)

func (c TokenClass) String() string {
	switch c {
	case AccessToken:
		return "access"
	case RefreshToken:
		return "refresh"
	case ForgotPasswordToken:
		return "forgot_password"
	case EmailVerifyToken:
		return "email_verify"
	default:
		return fmt.Sprintf("token_class(%d)", int(c))
	}
}

// Claims are the JWT claims of every token class.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string              `json:"user_id"`
	TokenType TokenClass          `json:"token_type"`
	Verify    models.VerifyStatus `json:"verify"`
}

// Payload is what a caller asks to have signed.
type Payload struct {
	UserID string
	Verify models.VerifyStatus
	// ExpiresAt overrides now+ttl when set.
	ExpiresAt time.Time
}

// Sign mints an HS256 token of the given class that expires after ttl.
func Sign(p Payload, class TokenClass, secret []byte, ttl time.Duration) (string, error) {
	return signAt(time.Now(), p, class, secret, ttl)
}

func signAt(now time.Time, p Payload, class TokenClass, secret []byte, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("empty signing secret")
	}

	exp := p.ExpiresAt
	if exp.IsZero() {
		exp = now.Add(ttl)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID:    p.UserID,
		TokenType: class,
		Verify:    p.Verify,
	})

	return token.SignedString(secret)
}

// Verify checks signature, expiry and class of token.
//
// Failures are auth errors wrapping common.ErrInvalidSignature,
// common.ErrTokenExpired or common.ErrInvalidToken.
func Verify(token string, class TokenClass, secret []byte) (*Claims, error) {
	return verifyAt(time.Now, token, class, secret)
}

func verifyAt(now func() time.Time, token string, class TokenClass, secret []byte) (*Claims, error) {
	claims := &Claims{}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	)

	_, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, common.NewAuthError(common.ErrTokenExpired)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, common.NewAuthError(common.ErrInvalidSignature)
		default:
			return nil, common.NewAuthError(common.ErrInvalidToken)
		}
	}

	if claims.TokenType != class || claims.UserID == "" {
		return nil, common.NewAuthError(common.ErrInvalidToken)
	}

	return claims, nil
}

// Decode extracts the claims of token WITHOUT checking its signature.
// Only use it on tokens received directly from a trusted issuer.
func Decode(token string, claims jwt.Claims) error {
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return fmt.Errorf("decode token: %w", err)
	}
	return nil
}
