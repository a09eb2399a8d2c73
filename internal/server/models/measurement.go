package models

import "time"

// BodyMeasurement is a timestamped (metric type, value) observation owned by
// exactly one user.
type BodyMeasurement struct {
	ID         int64
	UserID     string
	MetricType string
	Value      float64
	CreatedAt  time.Time
}
