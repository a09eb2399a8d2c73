package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/fittrackio/fittrack/internal/server/models"
	"github.com/fittrackio/fittrack/internal/server/repositories/repomanager"
)

// MeasurementService records and queries a user's body measurements.
type MeasurementService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewMeasurementService(db *sql.DB, m repomanager.RepositoryManager) *MeasurementService {
	return &MeasurementService{db: db, repomanager: m}
}

// Log stores a measurement for userID. A zero recordedAt defaults to now.
func (s *MeasurementService) Log(ctx context.Context, userID, metricType string, value float64, recordedAt time.Time) (*models.BodyMeasurement, error) {
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	return s.repomanager.Measurements(s.db).Create(ctx, &models.BodyMeasurement{
		UserID:     userID,
		MetricType: metricType,
		Value:      value,
		CreatedAt:  recordedAt,
	})
}

// History returns the user's measurements of metricType, newest first.
// No matching rows is a valid empty history, not an error.
func (s *MeasurementService) History(ctx context.Context, userID, metricType string) ([]*models.BodyMeasurement, error) {
	return s.repomanager.Measurements(s.db).ListByMetric(ctx, userID, metricType)
}
