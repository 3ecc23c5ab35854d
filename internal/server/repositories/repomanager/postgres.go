// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/socialhub/internal/dbx"
	"github.com/dmitrijs2005/socialhub/internal/server/migrations"
	"github.com/dmitrijs2005/socialhub/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/socialhub/internal/server/repositories/relationships"
	"github.com/dmitrijs2005/socialhub/internal/server/repositories/sessions"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook. Sessions may be redirected to Redis.
type PostgresRepositoryManager struct {
	redis *redis.Client
}

// Option configures a PostgresRepositoryManager.
type Option func(*PostgresRepositoryManager)

// WithRedisSessions stores sessions in Redis instead of the sessions table.
// The Redis store does not take part in SQL transactions.
func WithRedisSessions(client *redis.Client) Option {
	return func(m *PostgresRepositoryManager) {
		m.redis = client
	}
}

// Accounts returns an accounts.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(db)
}

// Sessions returns a sessions.Repository. With WithRedisSessions, db is ignored.
func (m *PostgresRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	if m.redis != nil {
		return sessions.NewRedisRepository(m.redis)
	}
	return sessions.NewPostgresRepository(db)
}

// SessionsInTx is false when sessions live in Redis.
func (m *PostgresRepositoryManager) SessionsInTx() bool {
	return m.redis == nil
}

// Relationships returns a relationships.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Relationships(db dbx.DBTX) relationships.Repository {
	return relationships.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager(opts ...Option) *PostgresRepositoryManager {
	m := &PostgresRepositoryManager{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}
