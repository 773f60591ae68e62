// Package repomanager groups repository constructors behind one factory so
// that services can obtain repositories bound either to the shared *sql.DB
// or to an in-flight transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/skurlov/identsvc/internal/dbx"
	"github.com/skurlov/identsvc/internal/server/repositories/codes"
	"github.com/skurlov/identsvc/internal/server/repositories/sessions"
	"github.com/skurlov/identsvc/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Codes(db dbx.DBTX) codes.Repository
	Sessions(db dbx.DBTX) sessions.Repository
}
