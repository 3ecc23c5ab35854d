package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dmitrijs2005/socialhub/internal/common"
	"github.com/dmitrijs2005/socialhub/internal/server/metrics"
	"github.com/dmitrijs2005/socialhub/internal/server/models"
	"github.com/dmitrijs2005/socialhub/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLogin struct {
	res  *services.ExternalLoginResult
	err  error
	code string
}

func (f *fakeLogin) LoginWithExternalIdentity(_ context.Context, code string) (*services.ExternalLoginResult, error) {
	f.code = code
	return f.res, f.err
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func okResult() *services.ExternalLoginResult {
	return &services.ExternalLoginResult{
		TokenPair: services.TokenPair{AccessToken: "acc", RefreshToken: "ref"},
		NewUser:   true,
		Verify:    models.Verified,
	}
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	rec := get(t, New(Options{DB: fakePinger{}}).Routes(), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = get(t, New(Options{DB: fakePinger{err: errors.New("down")}}).Routes(), "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.ObserveOperation("login", nil)

	rec := get(t, New(Options{Gatherer: reg}).Routes(), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `socialhub_identity_operations_total{operation="login",result="ok"} 1`)
}

func TestGoogleCallback_Redirect(t *testing.T) {
	login := &fakeLogin{res: okResult()}
	h := New(Options{Login: login, ClientRedirectURL: "http://localhost:3000/login/oauth?x=1"}).Routes()

	rec := get(t, h, "/oauth/google?code=abc")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "abc", login.code)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/login/oauth", loc.Path)
	q := loc.Query()
	assert.Equal(t, "1", q.Get("x"))
	assert.Equal(t, "acc", q.Get("access_token"))
	assert.Equal(t, "ref", q.Get("refresh_token"))
	assert.Equal(t, "true", q.Get("new_user"))
	assert.Equal(t, "1", q.Get("verify"))
}

func TestGoogleCallback_JSON(t *testing.T) {
	h := New(Options{Login: &fakeLogin{res: okResult()}}).Routes()

	rec := get(t, h, "/oauth/google?code=abc")
	require.Equal(t, http.StatusOK, rec.Code)

	var body externalLoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "acc", body.AccessToken)
	assert.True(t, body.NewUser)
}

func TestGoogleCallback_Errors(t *testing.T) {
	tests := []struct {
		name    string
		login   ExternalLogin
		target  string
		status  int
		message string
	}{
		{"missing code", &fakeLogin{}, "/oauth/google", http.StatusUnprocessableEntity, "validation error"},
		{"not configured", nil, "/oauth/google?code=x", http.StatusBadRequest, "external identity login is not configured"},
		{
			"unverified email",
			&fakeLogin{err: common.NewExternalIdentityError(common.ErrExternalIdentityNotVerified)},
			"/oauth/google?code=x", http.StatusBadRequest, "external identity email is not verified",
		},
		{"internal", &fakeLogin{err: errors.New("db error: boom")}, "/oauth/google?code=x", http.StatusInternalServerError, "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, New(Options{Login: tt.login}).Routes(), tt.target)
			assert.Equal(t, tt.status, rec.Code)

			var body errorResponse
			require.NoError(t, json.NewDecoder(strings.NewReader(rec.Body.String())).Decode(&body))
			assert.Equal(t, tt.message, body.Message)
			assert.NotContains(t, rec.Body.String(), "boom")
		})
	}
}
