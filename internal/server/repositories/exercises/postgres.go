package exercises

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fittrackio/fittrack/internal/common"
	"github.com/fittrackio/fittrack/internal/dbx"
	"github.com/fittrackio/fittrack/internal/server/models"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, exercise *models.Exercise) (*models.Exercise, error) {
	query :=
		`INSERT INTO exercises (name, description, muscle_group)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		exercise.Name, exercise.Description, exercise.MuscleGroup).Scan(&exercise.ID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorTransient, err)
	}

	return exercise, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Exercise, error) {
	query :=
		`SELECT id, name, description, muscle_group FROM exercises
		 WHERE id = $1
		 `

	exercise := &models.Exercise{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&exercise.ID, &exercise.Name, &exercise.Description, &exercise.MuscleGroup)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorTransient, err)
	}

	return exercise, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Exercise, error) {
	query :=
		`SELECT id, name, description, muscle_group FROM exercises
		 ORDER BY name
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorTransient, err)
	}
	defer rows.Close()

	var result []*models.Exercise
	for rows.Next() {
		var item models.Exercise
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.MuscleGroup); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
