// Package exercises declares the repository contract for the shared exercise
// catalog.
package exercises

import (
	"context"

	"github.com/fittrackio/fittrack/internal/server/models"
)

type Repository interface {
	// Create stores a new catalog entry. Returns common.ErrorAlreadyExists
	// when the name is taken.
	Create(ctx context.Context, exercise *models.Exercise) (*models.Exercise, error)

	// GetByID returns the exercise with the given id, or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.Exercise, error)

	// List returns the whole catalog ordered by name.
	List(ctx context.Context) ([]*models.Exercise, error)
}
