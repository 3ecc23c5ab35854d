// Package httpapi serves the HTTP side of the identity server: health,
// Prometheus metrics and the browser redirect target of the Google sign-in.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dmitrijs2005/socialhub/internal/common"
	"github.com/dmitrijs2005/socialhub/internal/logging"
	"github.com/dmitrijs2005/socialhub/internal/server/services"
	"github.com/dmitrijs2005/socialhub/internal/server/validation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const requestTimeout = 30 * time.Second

// ExternalLogin completes a sign-in with an external identity provider.
type ExternalLogin interface {
	LoginWithExternalIdentity(ctx context.Context, code string) (*services.ExternalLoginResult, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	Login    ExternalLogin
	DB       Pinger
	Gatherer prometheus.Gatherer
	// ClientRedirectURL receives the tokens of a completed Google sign-in as
	// query parameters. When empty the tokens are returned as JSON.
	ClientRedirectURL string
	Logger            logging.Logger
}

type API struct {
	opts   Options
	logger logging.Logger
}

func New(opts Options) *API {
	l := opts.Logger
	if l == nil {
		l = logging.Nop()
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	return &API{opts: opts, logger: l.With("module", "http_api")}
}

// Routes constructs the chi router containing all HTTP endpoints.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", a.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(a.opts.Gatherer, promhttp.HandlerOpts{}))
	r.Get("/oauth/google", a.handleGoogle)

	return r
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if a.opts.DB != nil {
		if err := a.opts.DB.PingContext(r.Context()); err != nil {
			a.logger.Warn(r.Context(), "health check failed", "error", err)
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type externalLoginResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	NewUser      bool   `json:"new_user"`
	Verify       int    `json:"verify"`
}

func (a *API) handleGoogle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	code := r.URL.Query().Get("code")
	if code == "" {
		a.respondError(w, r, common.NewFieldError("code", validation.MsgCodeRequired))
		return
	}
	if a.opts.Login == nil {
		a.respondError(w, r, common.NewExternalIdentityError(errors.New("external identity login is not configured")))
		return
	}

	res, err := a.opts.Login.LoginWithExternalIdentity(ctx, code)
	if err != nil {
		a.respondError(w, r, err)
		return
	}

	if a.opts.ClientRedirectURL == "" {
		respondJSON(w, http.StatusOK, externalLoginResponse{
			Message:      services.MsgLoginSuccess,
			AccessToken:  res.AccessToken,
			RefreshToken: res.RefreshToken,
			NewUser:      res.NewUser,
			Verify:       int(res.Verify),
		})
		return
	}

	target, err := url.Parse(a.opts.ClientRedirectURL)
	if err != nil {
		a.respondError(w, r, common.NewInternalError(err))
		return
	}
	q := target.Query()
	q.Set("access_token", res.AccessToken)
	q.Set("refresh_token", res.RefreshToken)
	q.Set("new_user", strconv.FormatBool(res.NewUser))
	q.Set("verify", strconv.Itoa(int(res.Verify)))
	target.RawQuery = q.Encode()

	http.Redirect(w, r, target.String(), http.StatusFound)
}

type errorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func (a *API) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var e *common.Error
	if !errors.As(err, &e) || e.Kind == common.KindInternal {
		a.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Message: common.ErrorInternal.Error()})
		return
	}
	respondJSON(w, e.Status(), errorResponse{Message: e.Message, Errors: e.Fields})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
