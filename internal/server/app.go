// Package server assembles the socialhub identity server from its
// configuration and runs the gRPC and HTTP servers until shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/socialhub/internal/cryptox"
	"github.com/dmitrijs2005/socialhub/internal/logging"
	"github.com/dmitrijs2005/socialhub/internal/server/auth"
	"github.com/dmitrijs2005/socialhub/internal/server/config"
	"github.com/dmitrijs2005/socialhub/internal/server/httpapi"
	"github.com/dmitrijs2005/socialhub/internal/server/metrics"
	"github.com/dmitrijs2005/socialhub/internal/server/notify"
	"github.com/dmitrijs2005/socialhub/internal/server/oauth"
	"github.com/dmitrijs2005/socialhub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/socialhub/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/resend/resend-go/v2"

	gs "github.com/dmitrijs2005/socialhub/internal/server/grpc"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	registry   *prometheus.Registry
	service    *services.IdentityService
	dispatcher *notify.Dispatcher

	// released in reverse order on shutdown
	closers []func()
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	app := &App{config: c, logger: logger, registry: prometheus.NewRegistry()}
	if err := app.init(ctx); err != nil {
		app.close()
		return nil, err
	}
	return app, nil
}

func (app *App) init(ctx context.Context) error {
	c := app.config

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	app.db = db
	app.closers = append(app.closers, func() { _ = db.Close() })

	var opts []repomanager.Option
	if c.SessionBackend == config.SessionBackendRedis {
		rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr, Password: c.RedisPassword, DB: c.RedisDB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return fmt.Errorf("redis init error: %w", err)
		}
		app.closers = append(app.closers, func() { _ = rdb.Close() })
		opts = append(opts, repomanager.WithRedisSessions(rdb))
	}
	rm := repomanager.NewPostgresRepositoryManager(opts...)

	if err := rm.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	m := metrics.New(app.registry)

	sink, err := app.notificationSink()
	if err != nil {
		return err
	}
	app.dispatcher = notify.NewDispatcher(sink, app.logger,
		notify.WithBaseURL(c.AppBaseURL),
		notify.WithMetrics(m),
	)

	issuer := auth.NewIssuer(map[auth.TokenClass]auth.KeyConfig{
		auth.AccessToken:         {Secret: []byte(c.AccessToken.Secret), TTL: c.AccessToken.TTL},
		auth.RefreshToken:        {Secret: []byte(c.RefreshToken.Secret), TTL: c.RefreshToken.TTL},
		auth.EmailVerifyToken:    {Secret: []byte(c.EmailVerifyToken.Secret), TTL: c.EmailVerifyToken.TTL},
		auth.ForgotPasswordToken: {Secret: []byte(c.ForgotPasswordToken.Secret), TTL: c.ForgotPasswordToken.TTL},
	})

	svcOpts := []services.Option{
		services.WithNotifier(app.dispatcher),
		services.WithMetrics(m),
		services.WithLogger(app.logger),
	}
	if provider, err := app.googleProvider(); err != nil {
		return err
	} else if provider != nil {
		svcOpts = append(svcOpts, services.WithExternalIdentity(provider))
	}

	app.service = services.NewIdentityService(db, rm, issuer, cryptox.NewHasher(cryptox.DefaultParams), svcOpts...)
	return nil
}

// notificationSink picks the delivery backend. Every backend also logs.
func (app *App) notificationSink() (notify.Sink, error) {
	c := app.config
	logSink := notify.NewLogSink(app.logger)

	switch c.NotifyBackend {
	case config.NotifyBackendNATS:
		nc, err := notify.ConnectNATS(c.NATSURL)
		if err != nil {
			return nil, fmt.Errorf("nats init error: %w", err)
		}
		app.closers = append(app.closers, func() { _ = nc.Drain() })
		return notify.MultiSink{logSink, notify.NewNATSSink(nc, c.NATSSubjectPrefix)}, nil
	case config.NotifyBackendResend:
		if c.ResendAPIKey == "" {
			return nil, errors.New("resend notifications need an API key")
		}
		return notify.MultiSink{logSink, notify.NewResendSink(resend.NewClient(c.ResendAPIKey), c.MailFrom)}, nil
	default:
		return logSink, nil
	}
}

// googleProvider returns nil when Google sign-in is not configured.
func (app *App) googleProvider() (*oauth.GoogleProvider, error) {
	g := app.config.Google
	if g.ClientID == "" {
		return nil, nil
	}

	var verifier oauth.IDTokenVerifier = oauth.UnverifiedDecoder{}
	if g.JWKSURL != "" {
		jwks, err := oauth.FetchJWKS(g.JWKSURL)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, jwks.EndBackground)
		verifier = oauth.NewJWKSVerifier(jwks.Keyfunc, g.ClientID, g.Issuer)
	} else {
		app.logger.Warn(context.Background(), "google id_token signatures are not verified, set a JWKS URL")
	}

	return oauth.NewGoogleProvider(oauth.Config{
		ClientID:     g.ClientID,
		ClientSecret: g.ClientSecret,
		RedirectURI:  g.RedirectURI,
		TokenURL:     g.TokenURL,
	}, verifier), nil
}

func (app *App) close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		app.closers[i]()
	}
	app.closers = nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.service)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	api := httpapi.New(httpapi.Options{
		Login:             app.service,
		DB:                app.db,
		Gatherer:          app.registry,
		ClientRedirectURL: app.config.Google.ClientRedirectURL,
		Logger:            app.logger,
	})
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, api.Routes(), app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a termination signal arrives or a server fails, then
// drains pending notifications and releases every handle.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.dispatcher.Wait()
	app.close()

	app.logger.Info(context.Background(), "App stopped")
}
