package oauth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKID      = "test-key"
	testClientID = "client-123"
)

func newJWKSServer(t *testing.T, pub *rsa.PublicKey) *httptest.Server {
	t.Helper()
	jwks := map[string]any{
		"keys": []map[string]string{{
			"kty": "RSA",
			"kid": testKID,
			"alg": "RS256",
			"use": "sig",
			"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		}},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(jwks)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func signIDToken(t *testing.T, key *rsa.PrivateKey, claims IDTokenClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = testKID
	s, err := tok.SignedString(key)
	require.NoError(t, err)
	return s
}

func googleClaims(aud, iss string, verified bool) IDTokenClaims {
	now := time.Now()
	return IDTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "google-sub-1",
			Issuer:    iss,
			Audience:  jwt.ClaimStrings{aud},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Email:         "carol@gmail.com",
		EmailVerified: verified,
		Name:          "Carol",
	}
}

func newTokenServer(t *testing.T, status int, body map[string]string, gotForm *map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if gotForm != nil {
			m := map[string]string{}
			for k := range r.PostForm {
				m[k] = r.PostForm.Get(k)
			}
			*gotForm = m
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGoogleProvider_ExchangeWithJWKS(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	jwksSrv := newJWKSServer(t, &key.PublicKey)
	jwks, err := FetchJWKS(jwksSrv.URL)
	require.NoError(t, err)
	defer jwks.EndBackground()

	idToken := signIDToken(t, key, googleClaims(testClientID, "accounts.google.com", true))

	var form map[string]string
	tokenSrv := newTokenServer(t, http.StatusOK, map[string]string{"id_token": idToken, "access_token": "at"}, &form)

	p := NewGoogleProvider(Config{
		ClientID:     testClientID,
		ClientSecret: "secret",
		RedirectURI:  "http://localhost:8080/oauth/google",
		TokenURL:     tokenSrv.URL,
	}, NewJWKSVerifier(jwks.Keyfunc, testClientID, DefaultIssuer))

	id, err := p.Exchange(context.Background(), "auth-code")
	require.NoError(t, err)

	assert.Equal(t, "carol@gmail.com", id.Email)
	assert.True(t, id.EmailVerified)
	assert.Equal(t, "Carol", id.Name)
	assert.Equal(t, "google-sub-1", id.Subject)

	assert.Equal(t, "auth-code", form["code"])
	assert.Equal(t, "authorization_code", form["grant_type"])
	assert.Equal(t, testClientID, form["client_id"])
	assert.Equal(t, "secret", form["client_secret"])
}

func TestJWKSVerifier_Rejects(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	jwksSrv := newJWKSServer(t, &key.PublicKey)
	jwks, err := FetchJWKS(jwksSrv.URL)
	require.NoError(t, err)
	defer jwks.EndBackground()

	v := NewJWKSVerifier(jwks.Keyfunc, testClientID, DefaultIssuer)

	cases := map[string]string{
		"wrong audience": signIDToken(t, key, googleClaims("someone-else", DefaultIssuer, true)),
		"wrong issuer":   signIDToken(t, key, googleClaims(testClientID, "https://evil.example", true)),
		"wrong key":      signIDToken(t, other, googleClaims(testClientID, DefaultIssuer, true)),
		"garbage":        "not.a.jwt",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), raw)
			assert.ErrorIs(t, err, ErrInvalidIDToken)
		})
	}
}

func TestUnverifiedDecoder(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, googleClaims(testClientID, DefaultIssuer, false))
	raw, err := tok.SignedString([]byte("whatever"))
	require.NoError(t, err)

	claims, err := UnverifiedDecoder{}.Verify(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "carol@gmail.com", claims.Email)
	assert.False(t, claims.EmailVerified)

	_, err = UnverifiedDecoder{}.Verify(context.Background(), "###")
	assert.ErrorIs(t, err, ErrInvalidIDToken)
}

func TestGoogleProvider_ExchangeErrors(t *testing.T) {
	t.Run("provider error", func(t *testing.T) {
		srv := newTokenServer(t, http.StatusBadRequest, map[string]string{"error": "invalid_grant"}, nil)
		p := NewGoogleProvider(Config{TokenURL: srv.URL}, UnverifiedDecoder{})

		_, err := p.Exchange(context.Background(), "bad")
		assert.ErrorIs(t, err, ErrExchangeFailed)
		assert.Contains(t, err.Error(), "invalid_grant")
	})

	t.Run("missing id_token", func(t *testing.T) {
		srv := newTokenServer(t, http.StatusOK, map[string]string{"access_token": "at"}, nil)
		p := NewGoogleProvider(Config{TokenURL: srv.URL}, UnverifiedDecoder{})

		_, err := p.Exchange(context.Background(), "code")
		assert.ErrorIs(t, err, ErrMissingIDToken)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		p := NewGoogleProvider(Config{TokenURL: url}, UnverifiedDecoder{})
		_, err := p.Exchange(context.Background(), "code")
		assert.ErrorIs(t, err, ErrExchangeFailed)
	})
}
