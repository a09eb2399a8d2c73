package services

import (
	"context"
	"database/sql"

	"github.com/fittrackio/fittrack/internal/server/models"
	"github.com/fittrackio/fittrack/internal/server/repositories/repomanager"
)

// ExerciseService manages the shared exercise catalog. No ownership is
// involved: exercises are reference data visible to every user.
type ExerciseService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewExerciseService(db *sql.DB, m repomanager.RepositoryManager) *ExerciseService {
	return &ExerciseService{db: db, repomanager: m}
}

func (s *ExerciseService) Create(ctx context.Context, name, description, muscleGroup string) (*models.Exercise, error) {
	return s.repomanager.Exercises(s.db).Create(ctx, &models.Exercise{
		Name:        name,
		Description: description,
		MuscleGroup: muscleGroup,
	})
}

func (s *ExerciseService) List(ctx context.Context) ([]*models.Exercise, error) {
	return s.repomanager.Exercises(s.db).List(ctx)
}
