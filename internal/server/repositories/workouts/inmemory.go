package workouts

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fittrackio/fittrack/internal/common"
	"github.com/fittrackio/fittrack/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used by tests and the
// in-memory repository manager. Its query methods mirror the ordering
// semantics of the Postgres implementation.
type InMemoryRepository struct {
	mu            sync.RWMutex
	nextSessionID int64
	nextSetID     int64
	sessions      map[int64]*models.WorkoutSession
	sets          map[int64]*models.WorkoutSet
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		nextSessionID: 1,
		nextSetID:     1,
		sessions:      make(map[int64]*models.WorkoutSession),
		sets:          make(map[int64]*models.WorkoutSet),
	}
}

func (r *InMemoryRepository) CreateSession(ctx context.Context, userID string) (*models.WorkoutSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session := &models.WorkoutSession{
		ID:        r.nextSessionID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	r.nextSessionID++
	r.sessions[session.ID] = session

	out := *session
	return &out, nil
}

func (r *InMemoryRepository) GetSession(ctx context.Context, id int64) (*models.WorkoutSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *session
	return &out, nil
}

func (r *InMemoryRepository) ListSessions(ctx context.Context, userID string) ([]*models.WorkoutSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.WorkoutSession
	for _, s := range r.sessions {
		if s.UserID == userID {
			out := *s
			result = append(result, &out)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (r *InMemoryRepository) DeleteSession(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	for setID, set := range r.sets {
		if set.SessionID == id {
			delete(r.sets, setID)
		}
	}
	return nil
}

func (r *InMemoryRepository) CreateSet(ctx context.Context, set *models.WorkoutSet) (*models.WorkoutSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *set
	stored.ID = r.nextSetID
	r.nextSetID++
	r.sets[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *InMemoryRepository) GetSet(ctx context.Context, id int64) (*models.WorkoutSet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.sets[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *set
	return &out, nil
}

func (r *InMemoryRepository) ListSets(ctx context.Context, sessionID int64) ([]*models.WorkoutSet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.WorkoutSet
	for _, s := range r.sets {
		if s.SessionID == sessionID {
			out := *s
			result = append(result, &out)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *InMemoryRepository) UpdateSet(ctx context.Context, id int64, upd models.WorkoutSetUpdate) (*models.WorkoutSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.sets[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if upd.Reps != nil {
		set.Reps = *upd.Reps
	}
	if upd.Weight != nil {
		set.Weight = *upd.Weight
	}
	if upd.ExerciseID != nil {
		set.ExerciseID = *upd.ExerciseID
	}

	out := *set
	return &out, nil
}

func (r *InMemoryRepository) DeleteSet(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sets, id)
	return nil
}

func (r *InMemoryRepository) PersonalRecord(ctx context.Context, userID string, exerciseID int64) (*models.PersonalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *models.WorkoutSet
	var bestSession *models.WorkoutSession
	for _, set := range r.sets {
		if set.ExerciseID != exerciseID {
			continue
		}
		session, ok := r.sessions[set.SessionID]
		if !ok || session.UserID != userID {
			continue
		}
		if best == nil {
			best, bestSession = set, session
			continue
		}
		switch {
		case set.Weight > best.Weight:
			best, bestSession = set, session
		case set.Weight == best.Weight && session.CreatedAt.Before(bestSession.CreatedAt):
			best, bestSession = set, session
		case set.Weight == best.Weight && session.CreatedAt.Equal(bestSession.CreatedAt) && set.ID < best.ID:
			best, bestSession = set, session
		}
	}

	if best == nil {
		return nil, common.ErrorNotFound
	}

	return &models.PersonalRecord{
		MaxWeight: best.Weight,
		RepsAtMax: best.Reps,
		RecordAt:  bestSession.CreatedAt,
	}, nil
}
