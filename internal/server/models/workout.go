package models

import "time"

// WorkoutSession is a timestamped container of sets owned by exactly one
// user. UserID is immutable after creation.
type WorkoutSession struct {
	ID        int64
	UserID    string
	CreatedAt time.Time
}

// WorkoutSet is a single (reps, weight) observation tied to one session and
// one exercise. It carries no owner field of its own: the owner is always
// re-derived through the session.
type WorkoutSet struct {
	ID         int64
	SessionID  int64
	ExerciseID int64
	Reps       int32
	Weight     float64
}

// WorkoutSetUpdate is a partial update: only non-nil fields are applied.
type WorkoutSetUpdate struct {
	Reps       *int32
	Weight     *float64
	ExerciseID *int64
}

// WorkoutSessionDetail is a session together with its sets.
type WorkoutSessionDetail struct {
	Session WorkoutSession
	Sets    []*WorkoutSet
}

// PersonalRecord is the derived maximum-weight statistic for one user and
// one exercise.
type PersonalRecord struct {
	ExerciseName string
	MaxWeight    float64
	RepsAtMax    int32
	RecordAt     time.Time
}
