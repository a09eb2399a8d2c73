package services

import (
	"context"
	"database/sql"

	"github.com/fittrackio/fittrack/internal/server/models"
	"github.com/fittrackio/fittrack/internal/server/repositories/repomanager"
)

// StatsService computes derived statistics over a user's own workout data.
type StatsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewStatsService(db *sql.DB, m repomanager.RepositoryManager) *StatsService {
	return &StatsService{db: db, repomanager: m}
}

// PersonalRecord returns the user's heaviest set for an exercise. The
// exercise is checked first so an unknown exercise and a known exercise
// without sets both fail with common.ErrorNotFound, but for different
// resources. The owner filter is part of the record query itself, so
// another user's sets can never influence the result.
func (s *StatsService) PersonalRecord(ctx context.Context, userID string, exerciseID int64) (*models.PersonalRecord, error) {
	exercise, err := s.repomanager.Exercises(s.db).GetByID(ctx, exerciseID)
	if err != nil {
		return nil, err
	}

	record, err := s.repomanager.Workouts(s.db).PersonalRecord(ctx, userID, exerciseID)
	if err != nil {
		return nil, err
	}

	record.ExerciseName = exercise.Name
	return record, nil
}
