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

// InMemoryRepositoryManager vends stateful map-backed repositories. The DBTX
// argument is ignored; it exists so services stay agnostic of the backend.
// Used by tests.
type InMemoryRepositoryManager struct {
	users         *users.InMemoryRepository
	refreshTokens *refreshtokens.InMemoryRepository
	exercises     *exercises.InMemoryRepository
	workouts      *workouts.InMemoryRepository
	measurements  *measurements.InMemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users:         users.NewInMemoryRepository(),
		refreshTokens: refreshtokens.NewInMemoryRepository(),
		exercises:     exercises.NewInMemoryRepository(),
		workouts:      workouts.NewInMemoryRepository(),
		measurements:  measurements.NewInMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return m.refreshTokens
}

func (m *InMemoryRepositoryManager) Exercises(db dbx.DBTX) exercises.Repository {
	return m.exercises
}

func (m *InMemoryRepositoryManager) Workouts(db dbx.DBTX) workouts.Repository {
	return m.workouts
}

func (m *InMemoryRepositoryManager) Measurements(db dbx.DBTX) measurements.Repository {
	return m.measurements
}
