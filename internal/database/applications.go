package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/jonesrussell/north-cloud/job-tracker/internal/domain"
)

const pgUniqueViolation = "23505"

const applicationColumns = `id, owner_id, company_name, role_title, role_description, url, applied_at, status, version`

type applicationRow struct {
	ID              string         `db:"id"`
	OwnerID         string         `db:"owner_id"`
	CompanyName     string         `db:"company_name"`
	RoleTitle       string         `db:"role_title"`
	RoleDescription sql.NullString `db:"role_description"`
	URL             sql.NullString `db:"url"`
	AppliedAt       time.Time      `db:"applied_at"`
	Status          domain.Status  `db:"status"`
	Version         int64          `db:"version"`
}

type commentRow struct {
	ApplicationID string    `db:"application_id"`
	Position      int       `db:"position"`
	ID            string    `db:"id"`
	Message       string    `db:"message"`
	CreatedAt     time.Time `db:"created_at"`
}

// ApplicationRepository stores aggregates in two tables: job_applications and
// application_comments, the latter ordered by position. It implements
// repository.Repository for both dialects.
type ApplicationRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewApplicationRepository wraps db. Queries are written with ? placeholders and
// rebound for the driver db was opened with.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Ping verifies the connection for health checks.
func (r *ApplicationRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Save inserts a new aggregate and its comments in one transaction.
func (r *ApplicationRepository) Save(ctx context.Context, app domain.JobApplication) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		now := r.now()
		query := tx.Rebind(`
			INSERT INTO job_applications
				(id, owner_id, company_name, role_title, role_description, url, applied_at, status, version, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

		_, err := tx.ExecContext(ctx, query,
			app.ID, app.OwnerID, app.CompanyName, app.RoleTitle,
			nullString(app.RoleDescription), nullString(app.URL),
			app.AppliedAt.UTC(), string(app.Status), app.Version, now, now,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.NewAlreadyExistsError(app.ID)
			}
			return fmt.Errorf("insert application: %w", err)
		}

		return insertComments(ctx, tx, app)
	})
}

// Update is a compare-and-set on version. Comments are rewritten in full.
func (r *ApplicationRepository) Update(ctx context.Context, app domain.JobApplication) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		query := tx.Rebind(`
			UPDATE job_applications
			SET company_name = ?, role_title = ?, role_description = ?, url = ?,
				applied_at = ?, status = ?, version = version + 1, updated_at = ?
			WHERE id = ? AND owner_id = ? AND version = ?`)

		result, err := tx.ExecContext(ctx, query,
			app.CompanyName, app.RoleTitle,
			nullString(app.RoleDescription), nullString(app.URL),
			app.AppliedAt.UTC(), string(app.Status), r.now(),
			app.ID, app.OwnerID, app.Version,
		)
		if err != nil {
			return fmt.Errorf("update application: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("update application rows affected: %w", err)
		}
		if affected == 0 {
			return classifyMissedUpdate(ctx, tx, app)
		}

		if _, err = tx.ExecContext(ctx, tx.Rebind(`DELETE FROM application_comments WHERE application_id = ?`), app.ID); err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		return insertComments(ctx, tx, app)
	})
}

// classifyMissedUpdate tells a missing or foreign row apart from a stale version.
func classifyMissedUpdate(ctx context.Context, tx *sqlx.Tx, app domain.JobApplication) error {
	var current struct {
		OwnerID string `db:"owner_id"`
		Version int64  `db:"version"`
	}
	err := tx.GetContext(ctx, &current,
		tx.Rebind(`SELECT owner_id, version FROM job_applications WHERE id = ?`), app.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewNotFoundError(app.ID)
	}
	if err != nil {
		return fmt.Errorf("load application version: %w", err)
	}
	if current.OwnerID != app.OwnerID {
		return domain.NewNotFoundError(app.ID)
	}
	return domain.NewConflictError(app.ID)
}

// FindByID returns the aggregate owned by ownerID.
func (r *ApplicationRepository) FindByID(ctx context.Context, id, ownerID string) (domain.JobApplication, bool, error) {
	var row applicationRow
	query := r.db.Rebind(`SELECT ` + applicationColumns + ` FROM job_applications WHERE id = ? AND owner_id = ?`)

	err := r.db.GetContext(ctx, &row, query, id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.JobApplication{}, false, nil
	}
	if err != nil {
		return domain.JobApplication{}, false, fmt.Errorf("get application: %w", err)
	}

	var comments []commentRow
	err = r.db.SelectContext(ctx, &comments, r.db.Rebind(`
		SELECT application_id, position, id, message, created_at
		FROM application_comments
		WHERE application_id = ?
		ORDER BY position`), id)
	if err != nil {
		return domain.JobApplication{}, false, fmt.Errorf("list comments: %w", err)
	}

	return row.toDomain(comments), true, nil
}

// ListByOwner returns the owner's aggregates in creation order.
func (r *ApplicationRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.JobApplication, error) {
	var rows []applicationRow
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`
		SELECT `+applicationColumns+`
		FROM job_applications
		WHERE owner_id = ?
		ORDER BY created_at, id`), ownerID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	var comments []commentRow
	err = r.db.SelectContext(ctx, &comments, r.db.Rebind(`
		SELECT c.application_id, c.position, c.id, c.message, c.created_at
		FROM application_comments c
		JOIN job_applications a ON a.id = c.application_id
		WHERE a.owner_id = ?
		ORDER BY c.application_id, c.position`), ownerID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	byApplication := make(map[string][]commentRow, len(rows))
	for _, c := range comments {
		byApplication[c.ApplicationID] = append(byApplication[c.ApplicationID], c)
	}

	apps := make([]domain.JobApplication, 0, len(rows))
	for _, row := range rows {
		apps = append(apps, row.toDomain(byApplication[row.ID]))
	}
	return apps, nil
}

// Delete removes the aggregate if ownerID owns it.
func (r *ApplicationRepository) Delete(ctx context.Context, id, ownerID string) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			tx.Rebind(`DELETE FROM job_applications WHERE id = ? AND owner_id = ?`), id, ownerID)
		if err != nil {
			return fmt.Errorf("delete application: %w", err)
		}
		if affected, _ := result.RowsAffected(); affected == 0 {
			return nil
		}
		if _, err = tx.ExecContext(ctx,
			tx.Rebind(`DELETE FROM application_comments WHERE application_id = ?`), id); err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		return nil
	})
}

// Clear empties both tables.
func (r *ApplicationRepository) Clear(ctx context.Context) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM application_comments`); err != nil {
			return fmt.Errorf("clear comments: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM job_applications`); err != nil {
			return fmt.Errorf("clear applications: %w", err)
		}
		return nil
	})
}

func (r *ApplicationRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func insertComments(ctx context.Context, tx *sqlx.Tx, app domain.JobApplication) error {
	query := tx.Rebind(`
		INSERT INTO application_comments (application_id, position, id, message, created_at)
		VALUES (?, ?, ?, ?, ?)`)

	for position, c := range app.Comments {
		if _, err := tx.ExecContext(ctx, query, app.ID, position, c.ID, c.Message, c.CreatedAt.UTC()); err != nil {
			return fmt.Errorf("insert comment %s: %w", c.ID, err)
		}
	}
	return nil
}

func (row applicationRow) toDomain(comments []commentRow) domain.JobApplication {
	app := domain.JobApplication{
		ID:              row.ID,
		CompanyName:     row.CompanyName,
		RoleTitle:       row.RoleTitle,
		RoleDescription: row.RoleDescription.String,
		URL:             row.URL.String,
		AppliedAt:       row.AppliedAt.UTC(),
		Status:          row.Status,
		OwnerID:         row.OwnerID,
		Version:         row.Version,
		Comments:        make([]domain.Comment, 0, len(comments)),
	}
	for _, c := range comments {
		app.Comments = append(app.Comments, domain.Comment{
			ID:        c.ID,
			Message:   c.Message,
			CreatedAt: c.CreatedAt.UTC(),
		})
	}
	return app
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
