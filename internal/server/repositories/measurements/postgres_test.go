package measurements

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/fittrackio/fittrack/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	at := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+body_measurements\s*\(user_id,\s*metric_type,\s*value,\s*created_at\)`).
		WithArgs("u-1", "weight_kg", 82.5, at).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	got, err := repo.Create(context.Background(), &models.BodyMeasurement{
		UserID: "u-1", MetricType: "weight_kg", Value: 82.5, CreatedAt: at,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 11 {
		t.Fatalf("unexpected id: %d", got.ID)
	}
}

func TestListByMetric_NewestFirstOrdering(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*user_id,\s*metric_type,\s*value,\s*created_at\s+FROM\s+body_measurements\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+metric_type\s*=\s*\$2\s+ORDER\s+BY\s+created_at\s+DESC,\s*id\s+ASC\s*$`

	newer := time.Date(2025, 7, 2, 8, 0, 0, 0, time.UTC)
	older := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "user_id", "metric_type", "value", "created_at"}).
		AddRow(int64(2), "u-1", "weight_kg", 82.0, newer).
		AddRow(int64(1), "u-1", "weight_kg", 83.0, older)
	mock.ExpectQuery(q).
		WithArgs("u-1", "weight_kg").
		WillReturnRows(rows)

	got, err := repo.ListByMetric(context.Background(), "u-1", "weight_kg")
	if err != nil {
		t.Fatalf("ListByMetric error: %v", err)
	}
	if len(got) != 2 || !got[0].CreatedAt.Equal(newer) || !got[1].CreatedAt.Equal(older) {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestListByMetric_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,\s*user_id,\s*metric_type`).
		WithArgs("u-1", "height_cm").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "metric_type", "value", "created_at"}))

	got, err := repo.ListByMetric(context.Background(), "u-1", "height_cm")
	if err != nil {
		t.Fatalf("ListByMetric error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}
