package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/fittrackio/fittrack/internal/common"
	"github.com/fittrackio/fittrack/internal/dbx"
	"github.com/fittrackio/fittrack/internal/server/models"
	"github.com/fittrackio/fittrack/internal/server/repositories/repomanager"
	"github.com/fittrackio/fittrack/internal/server/repositories/workouts"
)

func expectTxCommit(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectCommit()
}

func expectTxRollback(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectRollback()
}

func TestCreateAndListSessions(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := repomanager.NewInMemoryRepositoryManager()
	s := NewWorkoutService(db, rm)
	ctx := context.Background()

	first, err := s.CreateSession(ctx, "u1")
	if err != nil {
		t.Fatalf("CreateSession error: %v", err)
	}
	second, err := s.CreateSession(ctx, "u1")
	if err != nil {
		t.Fatalf("CreateSession error: %v", err)
	}
	if _, err := s.CreateSession(ctx, "u2"); err != nil {
		t.Fatalf("CreateSession error: %v", err)
	}

	sessions, err := s.ListSessions(ctx, "u1")
	if err != nil {
		t.Fatalf("ListSessions error: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("want 2 sessions, got %d", len(sessions))
	}
	// newest first
	if sessions[0].ID != second.ID || sessions[1].ID != first.ID {
		t.Fatalf("unexpected order: %d, %d", sessions[0].ID, sessions[1].ID)
	}
}

func TestSessionDetail_OwnershipGuard(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := repomanager.NewInMemoryRepositoryManager()
	s := NewWorkoutService(db, rm)
	ctx := context.Background()

	session, err := s.CreateSession(ctx, "owner")
	if err != nil {
		t.Fatalf("CreateSession error: %v", err)
	}

	if _, err := s.SessionDetail(ctx, "owner", session.ID); err != nil {
		t.Fatalf("owner must see own session: %v", err)
	}

	if _, err := s.SessionDetail(ctx, "intruder", session.ID); !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("want ErrorForbidden for foreign session, got %v", err)
	}

	// a missing session is reported as absent, never as forbidden
	if _, err := s.SessionDetail(ctx, "intruder", session.ID+100); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound for missing session, got %v", err)
	}
}

func TestDeleteSession_OwnerOnly(t *testing.T) {
	db, mock := newSQLMockDB(t)
	rm := repomanager.NewInMemoryRepositoryManager()
	s := NewWorkoutService(db, rm)
	ctx := context.Background()

	session, err := s.CreateSession(ctx, "owner")
	if err != nil {
		t.Fatalf("CreateSession error: %v", err)
	}

	expectTxRollback(mock)
	if err := s.DeleteSession(ctx, "intruder", session.ID); !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("want ErrorForbidden, got %v", err)
	}

	expectTxCommit(mock)
	if err := s.DeleteSession(ctx, "owner", session.ID); err != nil {
		t.Fatalf("DeleteSession error: %v", err)
	}

	if _, err := s.SessionDetail(ctx, "owner", session.ID); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("session must be gone, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestAddSet(t *testing.T) {
	db, mock := newSQLMockDB(t)
	rm := repomanager.NewInMemoryRepositoryManager()
	s := NewWorkoutService(db, rm)
	ctx := context.Background()

	session, err := s.CreateSession(ctx, "owner")
	if err != nil {
		t.Fatalf("CreateSession error: %v", err)
	}

	expectTxCommit(mock)
	set, err := s.AddSet(ctx, "owner", session.ID, 1, 10, 50)
	if err != nil {
		t.Fatalf("AddSet error: %v", err)
	}
	if set.ID == 0 || set.Reps != 10 || set.Weight != 50 {
		t.Fatalf("unexpected set: %+v", set)
	}

	expectTxRollback(mock)
	if _, err := s.AddSet(ctx, "intruder", session.ID, 1, 5, 60); !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("want ErrorForbidden, got %v", err)
	}

	expectTxRollback(mock)
	if _, err := s.AddSet(ctx, "owner", session.ID+100, 1, 5, 60); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound for missing parent session, got %v", err)
	}
}

func TestUpdateSet_Partial(t *testing.T) {
	db, mock := newSQLMockDB(t)
	rm := repomanager.NewInMemoryRepositoryManager()
	s := NewWorkoutService(db, rm)
	ctx := context.Background()

	session, err := s.CreateSession(ctx, "owner")
	if err != nil {
		t.Fatalf("CreateSession error: %v", err)
	}

	expectTxCommit(mock)
	set, err := s.AddSet(ctx, "owner", session.ID, 1, 10, 50)
	if err != nil {
		t.Fatalf("AddSet error: %v", err)
	}

	weight := 55.0
	expectTxCommit(mock)
	updated, err := s.UpdateSet(ctx, "owner", set.ID, models.WorkoutSetUpdate{Weight: &weight})
	if err != nil {
		t.Fatalf("UpdateSet error: %v", err)
	}
	if updated.Weight != 55.0 {
		t.Fatalf("weight not updated: %+v", updated)
	}
	if updated.Reps != 10 || updated.ExerciseID != 1 {
		t.Fatalf("omitted fields must stay unchanged: %+v", updated)
	}
}

func TestUpdateSet_Guard(t *testing.T) {
	db, mock := newSQLMockDB(t)
	rm := repomanager.NewInMemoryRepositoryManager()
	s := NewWorkoutService(db, rm)
	ctx := context.Background()

	session, err := s.CreateSession(ctx, "owner")
	if err != nil {
		t.Fatalf("CreateSession error: %v", err)
	}
	expectTxCommit(mock)
	set, err := s.AddSet(ctx, "owner", session.ID, 1, 10, 50)
	if err != nil {
		t.Fatalf("AddSet error: %v", err)
	}

	reps := int32(8)

	expectTxRollback(mock)
	if _, err := s.UpdateSet(ctx, "intruder", set.ID, models.WorkoutSetUpdate{Reps: &reps}); !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("want ErrorForbidden, got %v", err)
	}

	expectTxRollback(mock)
	if _, err := s.UpdateSet(ctx, "owner", set.ID+100, models.WorkoutSetUpdate{Reps: &reps}); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound for missing set, got %v", err)
	}
}

// orphanedSessionRepo serves sets whose parent session row is gone.
type orphanedSessionRepo struct {
	*workouts.InMemoryRepository
}

func (r *orphanedSessionRepo) GetSession(ctx context.Context, id int64) (*models.WorkoutSession, error) {
	return nil, common.ErrorNotFound
}

type orphanedSessionStore struct {
	*repomanager.InMemoryRepositoryManager
	repo workouts.Repository
}

func (s *orphanedSessionStore) Workouts(db dbx.DBTX) workouts.Repository {
	return s.repo
}

func TestSetGuard_OrphanedSet(t *testing.T) {
	db, mock := newSQLMockDB(t)
	ctx := context.Background()

	inner := workouts.NewInMemoryRepository()
	session, err := inner.CreateSession(ctx, "owner")
	if err != nil {
		t.Fatalf("CreateSession error: %v", err)
	}
	set, err := inner.CreateSet(ctx, &models.WorkoutSet{SessionID: session.ID, ExerciseID: 1, Reps: 10, Weight: 50})
	if err != nil {
		t.Fatalf("CreateSet error: %v", err)
	}

	rm := &orphanedSessionStore{
		InMemoryRepositoryManager: repomanager.NewInMemoryRepositoryManager(),
		repo:                      &orphanedSessionRepo{InMemoryRepository: inner},
	}
	s := NewWorkoutService(db, rm)

	// the set row exists but its session does not resolve; the chain walk
	// reports the set missing, never forbidden
	reps := int32(8)
	expectTxRollback(mock)
	if _, err := s.UpdateSet(ctx, "owner", set.ID, models.WorkoutSetUpdate{Reps: &reps}); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound for orphaned set, got %v", err)
	}

	expectTxRollback(mock)
	if err := s.DeleteSet(ctx, "owner", set.ID); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound for orphaned set, got %v", err)
	}
}

func TestDeleteSet_OwnerOnly(t *testing.T) {
	db, mock := newSQLMockDB(t)
	rm := repomanager.NewInMemoryRepositoryManager()
	s := NewWorkoutService(db, rm)
	ctx := context.Background()

	session, err := s.CreateSession(ctx, "owner")
	if err != nil {
		t.Fatalf("CreateSession error: %v", err)
	}
	expectTxCommit(mock)
	set, err := s.AddSet(ctx, "owner", session.ID, 1, 10, 50)
	if err != nil {
		t.Fatalf("AddSet error: %v", err)
	}

	expectTxRollback(mock)
	if err := s.DeleteSet(ctx, "intruder", set.ID); !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("want ErrorForbidden, got %v", err)
	}

	expectTxCommit(mock)
	if err := s.DeleteSet(ctx, "owner", set.ID); err != nil {
		t.Fatalf("DeleteSet error: %v", err)
	}

	detail, err := s.SessionDetail(ctx, "owner", session.ID)
	if err != nil {
		t.Fatalf("SessionDetail error: %v", err)
	}
	if len(detail.Sets) != 0 {
		t.Fatalf("set must be gone, got %d sets", len(detail.Sets))
	}
}
