package measurements

import (
	"context"
	"fmt"

	"github.com/fittrackio/fittrack/internal/common"
	"github.com/fittrackio/fittrack/internal/dbx"
	"github.com/fittrackio/fittrack/internal/server/models"
)

// PostgresRepository implements measurement storage over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, m *models.BodyMeasurement) (*models.BodyMeasurement, error) {
	query :=
		`INSERT INTO body_measurements (user_id, metric_type, value, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		m.UserID, m.MetricType, m.Value, m.CreatedAt).Scan(&m.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorTransient, err)
	}

	return m, nil
}

func (r *PostgresRepository) ListByMetric(ctx context.Context, userID string, metricType string) ([]*models.BodyMeasurement, error) {
	query :=
		`SELECT id, user_id, metric_type, value, created_at FROM body_measurements
		 WHERE user_id = $1 AND metric_type = $2
		 ORDER BY created_at DESC, id ASC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, metricType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorTransient, err)
	}
	defer rows.Close()

	var result []*models.BodyMeasurement
	for rows.Next() {
		var item models.BodyMeasurement
		if err := rows.Scan(&item.ID, &item.UserID, &item.MetricType, &item.Value, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
