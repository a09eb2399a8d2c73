package workouts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fittrackio/fittrack/internal/common"
	"github.com/fittrackio/fittrack/internal/dbx"
	"github.com/fittrackio/fittrack/internal/server/models"
)

// PostgresRepository implements workout storage over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateSession(ctx context.Context, userID string) (*models.WorkoutSession, error) {
	query :=
		`INSERT INTO workout_sessions (user_id)
		 VALUES ($1)
		 RETURNING id, created_at
		 `

	session := &models.WorkoutSession{UserID: userID}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorTransient, err)
	}

	return session, nil
}

func (r *PostgresRepository) GetSession(ctx context.Context, id int64) (*models.WorkoutSession, error) {
	query :=
		`SELECT id, user_id, created_at FROM workout_sessions
		 WHERE id = $1
		 `

	session := &models.WorkoutSession{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&session.ID, &session.UserID, &session.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorTransient, err)
	}

	return session, nil
}

func (r *PostgresRepository) ListSessions(ctx context.Context, userID string) ([]*models.WorkoutSession, error) {
	query :=
		`SELECT id, user_id, created_at FROM workout_sessions
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorTransient, err)
	}
	defer rows.Close()

	var result []*models.WorkoutSession
	for rows.Next() {
		var item models.WorkoutSession
		if err := rows.Scan(&item.ID, &item.UserID, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) DeleteSession(ctx context.Context, id int64) error {
	query :=
		`DELETE FROM workout_sessions
		 WHERE id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%w: %w", common.ErrorTransient, err)
	}
	return nil
}

func (r *PostgresRepository) CreateSet(ctx context.Context, set *models.WorkoutSet) (*models.WorkoutSet, error) {
	query :=
		`INSERT INTO workout_sets (session_id, exercise_id, reps, weight)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		set.SessionID, set.ExerciseID, set.Reps, set.Weight).Scan(&set.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorTransient, err)
	}

	return set, nil
}

func (r *PostgresRepository) GetSet(ctx context.Context, id int64) (*models.WorkoutSet, error) {
	query :=
		`SELECT id, session_id, exercise_id, reps, weight FROM workout_sets
		 WHERE id = $1
		 `

	set := &models.WorkoutSet{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&set.ID, &set.SessionID, &set.ExerciseID, &set.Reps, &set.Weight)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorTransient, err)
	}

	return set, nil
}

func (r *PostgresRepository) ListSets(ctx context.Context, sessionID int64) ([]*models.WorkoutSet, error) {
	query :=
		`SELECT id, session_id, exercise_id, reps, weight FROM workout_sets
		 WHERE session_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorTransient, err)
	}
	defer rows.Close()

	var result []*models.WorkoutSet
	for rows.Next() {
		var item models.WorkoutSet
		if err := rows.Scan(&item.ID, &item.SessionID, &item.ExerciseID, &item.Reps, &item.Weight); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateSet applies only the provided fields; nil pointers leave the stored
// value untouched via COALESCE.
func (r *PostgresRepository) UpdateSet(ctx context.Context, id int64, upd models.WorkoutSetUpdate) (*models.WorkoutSet, error) {
	query :=
		`UPDATE workout_sets
		 SET reps = COALESCE($2, reps),
		     weight = COALESCE($3, weight),
		     exercise_id = COALESCE($4, exercise_id)
		 WHERE id = $1
		 RETURNING id, session_id, exercise_id, reps, weight
		 `

	set := &models.WorkoutSet{}
	err := r.db.QueryRowContext(ctx, query, id, upd.Reps, upd.Weight, upd.ExerciseID).Scan(
		&set.ID, &set.SessionID, &set.ExerciseID, &set.Reps, &set.Weight)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorTransient, err)
	}

	return set, nil
}

func (r *PostgresRepository) DeleteSet(ctx context.Context, id int64) error {
	query :=
		`DELETE FROM workout_sets
		 WHERE id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%w: %w", common.ErrorTransient, err)
	}
	return nil
}

// PersonalRecord filters by owner before selecting the maximum so another
// user's heavier set can never surface. Ties on weight resolve to the
// earliest owning session, then the lowest set id.
func (r *PostgresRepository) PersonalRecord(ctx context.Context, userID string, exerciseID int64) (*models.PersonalRecord, error) {
	query :=
		`SELECT ws.weight, ws.reps, s.created_at
		 FROM workout_sets ws
		 JOIN workout_sessions s ON s.id = ws.session_id
		 WHERE s.user_id = $1 AND ws.exercise_id = $2
		 ORDER BY ws.weight DESC, s.created_at ASC, ws.id ASC
		 LIMIT 1
		 `

	record := &models.PersonalRecord{}
	err := r.db.QueryRowContext(ctx, query, userID, exerciseID).Scan(
		&record.MaxWeight, &record.RepsAtMax, &record.RecordAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorTransient, err)
	}

	return record, nil
}
