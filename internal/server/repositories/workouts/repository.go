// Package workouts declares the repository contract for workout sessions and
// their sets.
package workouts

import (
	"context"

	"github.com/fittrackio/fittrack/internal/server/models"
)

type Repository interface {
	// CreateSession inserts a new empty session owned by userID.
	CreateSession(ctx context.Context, userID string) (*models.WorkoutSession, error)

	// GetSession returns the session with the given id, or common.ErrorNotFound.
	GetSession(ctx context.Context, id int64) (*models.WorkoutSession, error)

	// ListSessions returns all sessions owned by userID, newest first.
	ListSessions(ctx context.Context, userID string) ([]*models.WorkoutSession, error)

	// DeleteSession removes a session and (via cascade) its sets.
	DeleteSession(ctx context.Context, id int64) error

	// CreateSet inserts a set into its session.
	CreateSet(ctx context.Context, set *models.WorkoutSet) (*models.WorkoutSet, error)

	// GetSet returns the set with the given id, or common.ErrorNotFound.
	GetSet(ctx context.Context, id int64) (*models.WorkoutSet, error)

	// ListSets returns all sets of a session in insertion order.
	ListSets(ctx context.Context, sessionID int64) ([]*models.WorkoutSet, error)

	// UpdateSet applies the non-nil fields of upd to the set and returns the
	// updated row, or common.ErrorNotFound.
	UpdateSet(ctx context.Context, id int64, upd models.WorkoutSetUpdate) (*models.WorkoutSet, error)

	// DeleteSet removes a set.
	DeleteSet(ctx context.Context, id int64) error

	// PersonalRecord returns the maximum-weight set among the user's own sets
	// for the exercise. Ties on weight are broken by the earliest owning
	// session, then by lowest set id, so the result is deterministic.
	// Returns common.ErrorNotFound when the user has no sets for the exercise.
	PersonalRecord(ctx context.Context, userID string, exerciseID int64) (*models.PersonalRecord, error)
}
