package measurements

import (
	"context"
	"sort"
	"sync"

	"github.com/fittrackio/fittrack/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used by tests and the
// in-memory repository manager.
type InMemoryRepository struct {
	mu           sync.RWMutex
	nextID       int64
	measurements []*models.BodyMeasurement
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) Create(ctx context.Context, m *models.BodyMeasurement) (*models.BodyMeasurement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *m
	stored.ID = r.nextID
	r.nextID++
	r.measurements = append(r.measurements, &stored)

	out := stored
	return &out, nil
}

func (r *InMemoryRepository) ListByMetric(ctx context.Context, userID string, metricType string) ([]*models.BodyMeasurement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.BodyMeasurement
	for _, m := range r.measurements {
		if m.UserID == userID && m.MetricType == metricType {
			out := *m
			result = append(result, &out)
		}
	}
	// stable: ties on created_at keep insertion order
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
