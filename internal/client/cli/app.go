package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/socialhub/internal/client/client"
	"github.com/dmitrijs2005/socialhub/internal/client/config"
	"github.com/dmitrijs2005/socialhub/internal/client/repositories/metadata"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config *config.Config
	client client.Client
	db     *sql.DB
	reader *bufio.Reader
	out    io.Writer

	mu       sync.Mutex
	mode     Mode
	userName string
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	db, err := client.OpenState(ctx, c.StateDBPath)
	if err != nil {
		log.Printf("error initializing state database: %s", err.Error())
		return nil, err
	}

	store := client.NewTokenStore(metadata.NewSQLiteRepository(db))
	apiClient, err := client.NewGRPCClient(ctx, c.ServerEndpointAddr, store)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config: c,
		client: apiClient,
		db:     db,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		_ = a.client.Close()
		_ = a.db.Close()
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	if a.isLoggedIn() {
		a.refreshUserName(ctx)
	}

	printlnFn("Welcome to socialhub CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

func (a *App) isLoggedIn() bool {
	return a.client.LoggedIn()
}

// rpc bounds a single server call by the configured request timeout.
func (a *App) rpc(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode != mode {
		a.mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) setUserName(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.userName = name
}

// refreshUserName shows the username of the session in the prompt. Failures
// only leave the prompt without a name.
func (a *App) refreshUserName(ctx context.Context) {
	ctx, cancel := a.rpc(ctx)
	defer cancel()

	p, err := a.client.GetMe(ctx)
	if err != nil || p == nil {
		a.setUserName("")
		return
	}
	a.setUserName(p.Username)
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.client.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
