// Package users declares the repository contract for user credentials.
package users

import (
	"context"

	"github.com/fittrackio/fittrack/internal/server/models"
)

type Repository interface {
	// Create stores a new user. Returns common.ErrorAlreadyExists when the
	// username is taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByUsername returns the user with the given username, or
	// common.ErrorNotFound.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// GetByID returns the user with the given id, or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
