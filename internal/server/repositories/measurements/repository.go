// Package measurements declares the repository contract for body
// measurements.
package measurements

import (
	"context"

	"github.com/fittrackio/fittrack/internal/server/models"
)

type Repository interface {
	// Create stores a new measurement for its user.
	Create(ctx context.Context, m *models.BodyMeasurement) (*models.BodyMeasurement, error)

	// ListByMetric returns the user's measurements of metricType, newest
	// first; ties on timestamp keep insertion order. An empty result is not
	// an error.
	ListByMetric(ctx context.Context, userID string, metricType string) ([]*models.BodyMeasurement, error)
}
