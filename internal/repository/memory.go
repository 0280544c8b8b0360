package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/jonesrussell/north-cloud/job-tracker/internal/domain"
)

// MemoryRepository keeps aggregates in a map guarded by a mutex. Nothing survives a
// restart. Listing follows insertion order so ties in later sorting stay deterministic.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]domain.JobApplication
	order []string
}

// NewMemoryRepository creates an empty store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		items: make(map[string]domain.JobApplication),
	}
}

// Save implements Repository.
func (r *MemoryRepository) Save(ctx context.Context, app domain.JobApplication) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[app.ID]; exists {
		return domain.NewAlreadyExistsError(app.ID)
	}

	r.items[app.ID] = app.Clone()
	r.order = append(r.order, app.ID)
	return nil
}

// Update implements Repository.
func (r *MemoryRepository) Update(ctx context.Context, app domain.JobApplication) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.items[app.ID]
	if !exists || stored.OwnerID != app.OwnerID {
		return domain.NewNotFoundError(app.ID)
	}
	if stored.Version != app.Version {
		return domain.NewConflictError(app.ID)
	}

	next := app.Clone()
	next.Version = app.Version + 1
	r.items[app.ID] = next
	return nil
}

// FindByID implements Repository.
func (r *MemoryRepository) FindByID(ctx context.Context, id, ownerID string) (domain.JobApplication, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.JobApplication{}, false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, exists := r.items[id]
	if !exists || stored.OwnerID != ownerID {
		return domain.JobApplication{}, false, nil
	}
	return stored.Clone(), true, nil
}

// ListByOwner implements Repository.
func (r *MemoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.JobApplication, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	apps := make([]domain.JobApplication, 0)
	for _, id := range r.order {
		stored := r.items[id]
		if stored.OwnerID == ownerID {
			apps = append(apps, stored.Clone())
		}
	}
	return apps, nil
}

// Delete implements Repository.
func (r *MemoryRepository) Delete(ctx context.Context, id, ownerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.items[id]
	if !exists || stored.OwnerID != ownerID {
		return nil
	}

	delete(r.items, id)
	r.order = slices.DeleteFunc(r.order, func(candidate string) bool { return candidate == id })
	return nil
}

// Clear implements Repository.
func (r *MemoryRepository) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = make(map[string]domain.JobApplication)
	r.order = nil
	return nil
}

// Ping always succeeds; it lets the memory store back the health endpoint.
func (r *MemoryRepository) Ping(context.Context) error {
	return nil
}
