package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/socialhub/internal/dbx"
	"github.com/dmitrijs2005/socialhub/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/socialhub/internal/server/repositories/relationships"
	"github.com/dmitrijs2005/socialhub/internal/server/repositories/sessions"
)

// RepositoryManager vends repositories bound to a DBTX, so that a service can
// use the same set either on the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	// SessionsInTx reports whether Sessions(tx) writes take part in tx.
	SessionsInTx() bool
	Relationships(db dbx.DBTX) relationships.Repository
}
