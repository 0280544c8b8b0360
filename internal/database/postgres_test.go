package database_test

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/job-tracker/internal/database"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/domain"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/repository/repositorytest"
)

var testAppliedAt = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

func newMockRepository(t *testing.T) (*database.ApplicationRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return database.NewApplicationRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestApplicationRepository_Save_UniqueViolation(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepository(t)
	app := repositorytest.NewApplication(t, "A1", "u1", testAppliedAt)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO job_applications`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value"})
	mock.ExpectRollback()

	err := repo.Save(t.Context(), app)
	require.ErrorIs(t, err, domain.ErrAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepository_Save_WritesComments(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepository(t)
	app := repositorytest.NewApplication(t, "A1", "u1", testAppliedAt).
		AddComment(domain.Comment{ID: "c1", Message: "sent", CreatedAt: testAppliedAt})

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO job_applications .* VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8, \$9, \$10, \$11\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO application_comments`).
		WithArgs("A1", 0, "c1", "sent", testAppliedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Save(t.Context(), app))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepository_Update_ClassifiesMisses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rows    *sqlmock.Rows
		rowErr  error
		wantErr error
	}{
		{
			name:    "stale version",
			rows:    sqlmock.NewRows([]string{"owner_id", "version"}).AddRow("u1", int64(3)),
			wantErr: domain.ErrConflict,
		},
		{
			name:    "other owner",
			rows:    sqlmock.NewRows([]string{"owner_id", "version"}).AddRow("u2", int64(1)),
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "missing row",
			rowErr:  sql.ErrNoRows,
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo, mock := newMockRepository(t)
			app := repositorytest.NewApplication(t, "A1", "u1", testAppliedAt)

			mock.ExpectBegin()
			mock.ExpectExec(`UPDATE job_applications .* WHERE id = \$8 AND owner_id = \$9 AND version = \$10`).
				WillReturnResult(sqlmock.NewResult(0, 0))
			query := mock.ExpectQuery(`SELECT owner_id, version FROM job_applications WHERE id = \$1`).WithArgs("A1")
			if tt.rowErr != nil {
				query.WillReturnError(tt.rowErr)
			} else {
				query.WillReturnRows(tt.rows)
			}
			mock.ExpectRollback()

			err := repo.Update(t.Context(), app)
			require.ErrorIs(t, err, tt.wantErr)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestApplicationRepository_FindByID_Postgres(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepository(t)
	offset := time.FixedZone("EST", -5*60*60)

	mock.ExpectQuery(`SELECT id, owner_id, .* FROM job_applications WHERE id = \$1 AND owner_id = \$2`).
		WithArgs("A1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "owner_id", "company_name", "role_title", "role_description", "url", "applied_at", "status", "version",
		}).AddRow("A1", "u1", "Acme", "Engineer", nil, "https://acme.test/jobs/1", testAppliedAt.In(offset), "cv_sent", int64(2)))
	mock.ExpectQuery(`FROM application_comments`).
		WithArgs("A1").
		WillReturnRows(sqlmock.NewRows([]string{"application_id", "position", "id", "message", "created_at"}).
			AddRow("A1", 0, "c1", "sent", testAppliedAt))

	app, ok, err := repo.FindByID(t.Context(), "A1", "u1")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Empty(t, app.RoleDescription)
	assert.Equal(t, "https://acme.test/jobs/1", app.URL)
	assert.Equal(t, testAppliedAt, app.AppliedAt)
	assert.Equal(t, domain.StatusCVSent, app.Status)
	assert.Equal(t, int64(2), app.Version)
	require.Len(t, app.Comments, 1)
	assert.Equal(t, "sent", app.Comments[0].Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepository_FindByID_Absent(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`FROM job_applications`).WillReturnError(sql.ErrNoRows)

	_, ok, err := repo.FindByID(t.Context(), "ghost", "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestApplicationRepository_FindByID_RejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`FROM job_applications`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "owner_id", "company_name", "role_title", "role_description", "url", "applied_at", "status", "version",
		}).AddRow("A1", "u1", "Acme", "Engineer", nil, nil, testAppliedAt, "ghosted", int64(1)))

	_, _, err := repo.FindByID(t.Context(), "A1", "u1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidStatus))
}

func TestConfig_URLs(t *testing.T) {
	t.Parallel()

	cfg := database.Config{
		Host: "db", Port: 5432, User: "tracker", Password: "p@ss word", DBName: "jobs", SSLMode: "disable",
	}

	assert.Equal(t, "host=db port=5432 user=tracker password=p@ss word dbname=jobs sslmode=disable", cfg.DSN())
	assert.Equal(t, "postgres://tracker:p%40ss%20word@db:5432/jobs?sslmode=disable", cfg.MigrateURL())
}
