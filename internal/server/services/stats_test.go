package services

import (
	"context"
	"errors"
	"testing"

	"github.com/fittrackio/fittrack/internal/common"
	"github.com/fittrackio/fittrack/internal/server/repositories/repomanager"
)

func TestPersonalRecord_TieBreak(t *testing.T) {
	db, mock := newSQLMockDB(t)
	rm := repomanager.NewInMemoryRepositoryManager()
	workouts := NewWorkoutService(db, rm)
	exercises := NewExerciseService(db, rm)
	stats := NewStatsService(db, rm)
	ctx := context.Background()

	squat, err := exercises.Create(ctx, "squat", "", "legs")
	if err != nil {
		t.Fatalf("Create exercise error: %v", err)
	}

	// three sessions in chronological order; the max weight 120 appears
	// twice and the record must come from the earlier session
	weights := []struct {
		reps   int32
		weight float64
	}{
		{5, 100},
		{3, 120},
		{4, 120},
	}
	for _, w := range weights {
		session, err := workouts.CreateSession(ctx, "u1")
		if err != nil {
			t.Fatalf("CreateSession error: %v", err)
		}
		expectTxCommit(mock)
		if _, err := workouts.AddSet(ctx, "u1", session.ID, squat.ID, w.reps, w.weight); err != nil {
			t.Fatalf("AddSet error: %v", err)
		}
	}

	record, err := stats.PersonalRecord(ctx, "u1", squat.ID)
	if err != nil {
		t.Fatalf("PersonalRecord error: %v", err)
	}
	if record.MaxWeight != 120 || record.RepsAtMax != 3 {
		t.Fatalf("want 120x3 from the earlier session, got %+v", record)
	}
	if record.ExerciseName != "squat" {
		t.Fatalf("unexpected exercise name: %q", record.ExerciseName)
	}
}

func TestPersonalRecord_ExcludesOtherUsers(t *testing.T) {
	db, mock := newSQLMockDB(t)
	rm := repomanager.NewInMemoryRepositoryManager()
	workouts := NewWorkoutService(db, rm)
	exercises := NewExerciseService(db, rm)
	stats := NewStatsService(db, rm)
	ctx := context.Background()

	squat, err := exercises.Create(ctx, "squat", "", "legs")
	if err != nil {
		t.Fatalf("Create exercise error: %v", err)
	}

	mine, err := workouts.CreateSession(ctx, "u1")
	if err != nil {
		t.Fatalf("CreateSession error: %v", err)
	}
	expectTxCommit(mock)
	if _, err := workouts.AddSet(ctx, "u1", mine.ID, squat.ID, 5, 100); err != nil {
		t.Fatalf("AddSet error: %v", err)
	}

	theirs, err := workouts.CreateSession(ctx, "u2")
	if err != nil {
		t.Fatalf("CreateSession error: %v", err)
	}
	expectTxCommit(mock)
	if _, err := workouts.AddSet(ctx, "u2", theirs.ID, squat.ID, 1, 500); err != nil {
		t.Fatalf("AddSet error: %v", err)
	}

	record, err := stats.PersonalRecord(ctx, "u1", squat.ID)
	if err != nil {
		t.Fatalf("PersonalRecord error: %v", err)
	}
	if record.MaxWeight != 100 {
		t.Fatalf("another user's sets leaked into the record: %+v", record)
	}
}

func TestPersonalRecord_UnknownExercise(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := repomanager.NewInMemoryRepositoryManager()
	stats := NewStatsService(db, rm)

	_, err := stats.PersonalRecord(context.Background(), "u1", 42)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestPersonalRecord_NoSets(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := repomanager.NewInMemoryRepositoryManager()
	exercises := NewExerciseService(db, rm)
	stats := NewStatsService(db, rm)
	ctx := context.Background()

	squat, err := exercises.Create(ctx, "squat", "", "legs")
	if err != nil {
		t.Fatalf("Create exercise error: %v", err)
	}

	_, err = stats.PersonalRecord(ctx, "u1", squat.ID)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound for exercise without sets, got %v", err)
	}
}
