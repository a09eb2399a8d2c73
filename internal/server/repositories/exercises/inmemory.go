package exercises

import (
	"context"
	"sort"
	"sync"

	"github.com/fittrackio/fittrack/internal/common"
	"github.com/fittrackio/fittrack/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used by tests and the
// in-memory repository manager.
type InMemoryRepository struct {
	mu        sync.RWMutex
	nextID    int64
	exercises map[int64]*models.Exercise
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1, exercises: make(map[int64]*models.Exercise)}
}

func (r *InMemoryRepository) Create(ctx context.Context, exercise *models.Exercise) (*models.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.exercises {
		if e.Name == exercise.Name {
			return nil, common.ErrorAlreadyExists
		}
	}

	stored := *exercise
	stored.ID = r.nextID
	r.nextID++
	r.exercises[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int64) (*models.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exercise, ok := r.exercises[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *exercise
	return &out, nil
}

func (r *InMemoryRepository) List(ctx context.Context) ([]*models.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Exercise, 0, len(r.exercises))
	for _, e := range r.exercises {
		out := *e
		result = append(result, &out)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}
