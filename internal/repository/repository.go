// Package repository defines the storage contract for job applications and ships
// the in-memory reference implementation every other backend is measured against.
package repository

import (
	"context"

	"github.com/jonesrussell/north-cloud/job-tracker/internal/domain"
)

// Repository persists JobApplication aggregates. Reads are scoped by owner and every
// returned aggregate is a deep copy the caller may freely modify.
type Repository interface {
	// Save stores a new aggregate. It fails with domain.ErrAlreadyExists when the id is
	// taken by any owner.
	Save(ctx context.Context, app domain.JobApplication) error
	// Update replaces a stored aggregate owned by app.OwnerID. It fails with
	// domain.ErrNotFound when the id is unknown or belongs to another owner and with
	// domain.ErrConflict when the stored version differs from app.Version. On success
	// the stored version is app.Version+1.
	Update(ctx context.Context, app domain.JobApplication) error
	// FindByID returns the aggregate when it exists and belongs to ownerID.
	FindByID(ctx context.Context, id, ownerID string) (domain.JobApplication, bool, error)
	// ListByOwner returns every aggregate owned by ownerID in no particular order.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.JobApplication, error)
	// Delete removes the aggregate if it belongs to ownerID. Unknown ids are ignored.
	Delete(ctx context.Context, id, ownerID string) error
	// Clear removes everything regardless of owner.
	Clear(ctx context.Context) error
}
