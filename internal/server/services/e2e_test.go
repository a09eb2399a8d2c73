package services

import (
	"context"
	"testing"

	"github.com/fittrackio/fittrack/internal/server/repositories/repomanager"
)

// TestFullWorkoutFlow walks the whole happy path through the service layer:
// sign up, log in, authenticate, record a workout, and read the personal
// record back.
func TestFullWorkoutFlow(t *testing.T) {
	db, mock := newSQLMockDB(t)
	rm := repomanager.NewInMemoryRepositoryManager()

	users := newUserService(t, db, rm)
	exercises := NewExerciseService(db, rm)
	workouts := NewWorkoutService(db, rm)
	stats := NewStatsService(db, rm)
	ctx := context.Background()

	registerUser(t, users, mock, "alice", "s3cret-pw")

	pair, err := users.Login(ctx, "alice", "s3cret-pw")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	alice, err := users.Authenticate(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}

	bench, err := exercises.Create(ctx, "bench press", "barbell flat bench", "chest")
	if err != nil {
		t.Fatalf("Create exercise error: %v", err)
	}

	session, err := workouts.CreateSession(ctx, alice.ID)
	if err != nil {
		t.Fatalf("CreateSession error: %v", err)
	}

	expectTxCommit(mock)
	if _, err := workouts.AddSet(ctx, alice.ID, session.ID, bench.ID, 10, 50); err != nil {
		t.Fatalf("AddSet error: %v", err)
	}

	record, err := stats.PersonalRecord(ctx, alice.ID, bench.ID)
	if err != nil {
		t.Fatalf("PersonalRecord error: %v", err)
	}
	if record.MaxWeight != 50 || record.RepsAtMax != 10 {
		t.Fatalf("want record 50x10, got %+v", record)
	}
	if record.ExerciseName != "bench press" {
		t.Fatalf("unexpected exercise name: %q", record.ExerciseName)
	}

	detail, err := workouts.SessionDetail(ctx, alice.ID, session.ID)
	if err != nil {
		t.Fatalf("SessionDetail error: %v", err)
	}
	if len(detail.Sets) != 1 {
		t.Fatalf("want 1 set, got %d", len(detail.Sets))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
