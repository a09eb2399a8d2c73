package services

import (
	"context"
	"database/sql"

	"github.com/fittrackio/fittrack/internal/common"
	"github.com/fittrackio/fittrack/internal/dbx"
	"github.com/fittrackio/fittrack/internal/server/models"
	"github.com/fittrackio/fittrack/internal/server/repositories/repomanager"
	"github.com/fittrackio/fittrack/internal/server/repositories/workouts"
)

// WorkoutService owns the workout session/set operations and the ownership
// authorization guard in front of them. Every guarded mutation runs its
// existence check, ownership check, and write inside a single transaction,
// so a concurrent delete of the parent cannot race between check and write.
type WorkoutService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewWorkoutService(db *sql.DB, m repomanager.RepositoryManager) *WorkoutService {
	return &WorkoutService{db: db, repomanager: m}
}

// sessionOwnedBy loads the session and verifies it belongs to userID.
// The existence check short-circuits before any ownership comparison: a
// missing session is common.ErrorNotFound, never ErrorForbidden.
func sessionOwnedBy(ctx context.Context, repo workouts.Repository, sessionID int64, userID string) (*models.WorkoutSession, error) {
	session, err := repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, common.ErrorForbidden
	}
	return session, nil
}

// setOwnedBy walks the ownership chain set -> session -> user. The owner is
// re-derived through the parent session on every call, never read off the
// set. Absence at either level surfaces as common.ErrorNotFound for the set.
func setOwnedBy(ctx context.Context, repo workouts.Repository, setID int64, userID string) (*models.WorkoutSet, error) {
	set, err := repo.GetSet(ctx, setID)
	if err != nil {
		return nil, err
	}
	session, err := repo.GetSession(ctx, set.SessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, common.ErrorForbidden
	}
	return set, nil
}

func (s *WorkoutService) CreateSession(ctx context.Context, userID string) (*models.WorkoutSession, error) {
	return s.repomanager.Workouts(s.db).CreateSession(ctx, userID)
}

func (s *WorkoutService) ListSessions(ctx context.Context, userID string) ([]*models.WorkoutSession, error) {
	return s.repomanager.Workouts(s.db).ListSessions(ctx, userID)
}

// SessionDetail returns a session and its sets after the ownership guard.
func (s *WorkoutService) SessionDetail(ctx context.Context, userID string, sessionID int64) (*models.WorkoutSessionDetail, error) {
	repo := s.repomanager.Workouts(s.db)

	session, err := sessionOwnedBy(ctx, repo, sessionID, userID)
	if err != nil {
		return nil, err
	}

	sets, err := repo.ListSets(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &models.WorkoutSessionDetail{Session: *session, Sets: sets}, nil
}

func (s *WorkoutService) DeleteSession(ctx context.Context, userID string, sessionID int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Workouts(tx)

		if _, err := sessionOwnedBy(ctx, repo, sessionID, userID); err != nil {
			return err
		}
		return repo.DeleteSession(ctx, sessionID)
	})
}

// AddSet inserts a set into a session the user owns.
func (s *WorkoutService) AddSet(ctx context.Context, userID string, sessionID, exerciseID int64, reps int32, weight float64) (*models.WorkoutSet, error) {
	var set *models.WorkoutSet

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Workouts(tx)

		if _, err := sessionOwnedBy(ctx, repo, sessionID, userID); err != nil {
			return err
		}

		var err error
		set, err = repo.CreateSet(ctx, &models.WorkoutSet{
			SessionID:  sessionID,
			ExerciseID: exerciseID,
			Reps:       reps,
			Weight:     weight,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return set, nil
}

// UpdateSet applies a partial update to a set the user transitively owns.
func (s *WorkoutService) UpdateSet(ctx context.Context, userID string, setID int64, upd models.WorkoutSetUpdate) (*models.WorkoutSet, error) {
	var set *models.WorkoutSet

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Workouts(tx)

		if _, err := setOwnedBy(ctx, repo, setID, userID); err != nil {
			return err
		}

		var err error
		set, err = repo.UpdateSet(ctx, setID, upd)
		return err
	})
	if err != nil {
		return nil, err
	}

	return set, nil
}

// DeleteSet removes a set; only the transitive owner may delete.
func (s *WorkoutService) DeleteSet(ctx context.Context, userID string, setID int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Workouts(tx)

		if _, err := setOwnedBy(ctx, repo, setID, userID); err != nil {
			return err
		}
		return repo.DeleteSet(ctx, setID)
	})
}
