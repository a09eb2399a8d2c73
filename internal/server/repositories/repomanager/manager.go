// Package repomanager wires repository constructors together so services
// can obtain repositories bound to either a connection pool or an open
// transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/fittrackio/fittrack/internal/dbx"
	"github.com/fittrackio/fittrack/internal/server/repositories/exercises"
	"github.com/fittrackio/fittrack/internal/server/repositories/measurements"
	"github.com/fittrackio/fittrack/internal/server/repositories/refreshtokens"
	"github.com/fittrackio/fittrack/internal/server/repositories/users"
	"github.com/fittrackio/fittrack/internal/server/repositories/workouts"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Exercises(db dbx.DBTX) exercises.Repository
	Workouts(db dbx.DBTX) workouts.Repository
	Measurements(db dbx.DBTX) measurements.Repository
}
