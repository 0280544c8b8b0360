package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/jonesrussell/north-cloud/job-tracker/internal/domain"
)

// GetApplicationByID loads one application of the caller.
type GetApplicationByID struct {
	deps Dependencies
}

// NewGetApplicationByID builds the handler.
func NewGetApplicationByID(deps Dependencies) *GetApplicationByID {
	return &GetApplicationByID{deps: deps.withDefaults()}
}

// Handle returns found == false when the id is unknown or belongs to someone else.
func (h *GetApplicationByID) Handle(ctx context.Context, id, ownerID string) (domain.JobApplication, bool, error) {
	var (
		app   domain.JobApplication
		found bool
	)
	err := instrument(ctx, h.deps, "get_application", func(ctx context.Context) error {
		if err := requireOwner(ownerID); err != nil {
			return err
		}

		var err error
		app, found, err = h.deps.Repository.FindByID(ctx, id, ownerID)
		if err != nil {
			return fmt.Errorf("find application: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.JobApplication{}, false, err
	}
	return app, found, nil
}

// ListApplications lists the caller's applications, most recently applied first.
type ListApplications struct {
	deps Dependencies
}

// NewListApplications builds the handler.
func NewListApplications(deps Dependencies) *ListApplications {
	return &ListApplications{deps: deps.withDefaults()}
}

// Handle sorts by AppliedAt descending. The sort is stable, so applications with
// equal dates keep the repository's order.
func (h *ListApplications) Handle(ctx context.Context, ownerID string) ([]domain.JobApplication, error) {
	var apps []domain.JobApplication

	err := instrument(ctx, h.deps, "list_applications", func(ctx context.Context) error {
		if err := requireOwner(ownerID); err != nil {
			return err
		}

		var err error
		apps, err = h.deps.Repository.ListByOwner(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("list applications: %w", err)
		}

		slices.SortStableFunc(apps, func(a, b domain.JobApplication) int {
			return b.AppliedAt.Compare(a.AppliedAt)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return apps, nil
}
