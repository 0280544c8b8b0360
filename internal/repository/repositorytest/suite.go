// Package repositorytest holds the behavioral suite every repository.Repository
// backend must pass. Backends call Run from their own tests with a factory that
// returns an empty store.
package repositorytest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/job-tracker/internal/domain"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/repository"
)

// Factory returns an empty repository. It is called once per subtest.
type Factory func(t *testing.T) repository.Repository

// Run executes the suite against the backend produced by newRepo.
func Run(t *testing.T, newRepo Factory) {
	t.Helper()

	cases := []struct {
		name string
		fn   func(t *testing.T, repo repository.Repository)
	}{
		{"save then find round trips", testRoundTrip},
		{"find is scoped by owner", testFindScopedByOwner},
		{"save rejects duplicate ids across owners", testSaveDuplicate},
		{"update replaces stored value", testUpdate},
		{"update unknown id is not found", testUpdateMissing},
		{"update other owner is not found", testUpdateOtherOwner},
		{"update with stale version conflicts", testUpdateConflict},
		{"list returns only the owner's applications", testListByOwner},
		{"returned values are independent copies", testCloneOnRead},
		{"saved values are independent copies", testCloneOnWrite},
		{"delete is owner scoped and idempotent", testDelete},
		{"clear empties every owner", testClear},
		{"comments keep insertion order", testCommentOrder},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.fn(t, newRepo(t))
		})
	}
}

var baseTime = time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

// NewApplication builds a valid aggregate for suite and backend tests.
func NewApplication(t *testing.T, id, ownerID string, appliedAt time.Time) domain.JobApplication {
	t.Helper()

	app, err := domain.NewJobApplication(domain.ApplicationParams{
		ID:          id,
		CompanyName: "Company " + id,
		RoleTitle:   "Engineer",
		AppliedAt:   appliedAt,
		Status:      domain.StatusCVSent,
		OwnerID:     ownerID,
	})
	require.NoError(t, err)
	return app
}

func fullApplication(t *testing.T) domain.JobApplication {
	t.Helper()

	app, err := domain.NewJobApplication(domain.ApplicationParams{
		ID:              "A1",
		CompanyName:     "Acme",
		RoleTitle:       "Backend Engineer",
		RoleDescription: "Go services",
		URL:             "https://acme.test/jobs/1",
		AppliedAt:       baseTime,
		Status:          domain.StatusPhoneScreenScheduled,
		OwnerID:         "u1",
		Comments: []domain.Comment{
			{ID: "c1", Message: "sent CV", CreatedAt: baseTime.Add(time.Hour)},
		},
	})
	require.NoError(t, err)
	return app
}

func testRoundTrip(t *testing.T, repo repository.Repository) {
	ctx := t.Context()
	app := fullApplication(t)

	require.NoError(t, repo.Save(ctx, app))

	found, ok, err := repo.FindByID(ctx, "A1", "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, app, found)

	bare := NewApplication(t, "A2", "u1", baseTime)
	require.NoError(t, repo.Save(ctx, bare))

	found, ok, err = repo.FindByID(ctx, "A2", "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, bare, found)
}

func testFindScopedByOwner(t *testing.T, repo repository.Repository) {
	ctx := t.Context()
	require.NoError(t, repo.Save(ctx, NewApplication(t, "A1", "u1", baseTime)))

	_, ok, err := repo.FindByID(ctx, "A1", "u2")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = repo.FindByID(ctx, "missing", "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func testSaveDuplicate(t *testing.T, repo repository.Repository) {
	ctx := t.Context()
	require.NoError(t, repo.Save(ctx, NewApplication(t, "A1", "u1", baseTime)))

	err := repo.Save(ctx, NewApplication(t, "A1", "u1", baseTime))
	require.ErrorIs(t, err, domain.ErrAlreadyExists)

	err = repo.Save(ctx, NewApplication(t, "A1", "u2", baseTime))
	require.ErrorIs(t, err, domain.ErrAlreadyExists)

	found, ok, err := repo.FindByID(ctx, "A1", "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "u1", found.OwnerID)
}

func testUpdate(t *testing.T, repo repository.Repository) {
	ctx := t.Context()
	app := fullApplication(t)
	require.NoError(t, repo.Save(ctx, app))

	next, changed, err := app.UpdateStatus(domain.StatusOfferReceived)
	require.NoError(t, err)
	require.True(t, changed)
	next = next.AddComment(domain.Comment{ID: "c2", Message: "offer!", CreatedAt: baseTime.Add(48 * time.Hour)})

	require.NoError(t, repo.Update(ctx, next))

	found, ok, err := repo.FindByID(ctx, "A1", "u1")
	require.NoError(t, err)
	require.True(t, ok)

	want := next.Clone()
	want.Version = app.Version + 1
	assert.Equal(t, want, found)
}

func testUpdateMissing(t *testing.T, repo repository.Repository) {
	err := repo.Update(t.Context(), NewApplication(t, "ghost", "u1", baseTime))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func testUpdateOtherOwner(t *testing.T, repo repository.Repository) {
	ctx := t.Context()
	original := NewApplication(t, "A1", "u1", baseTime)
	require.NoError(t, repo.Save(ctx, original))

	hijack := NewApplication(t, "A1", "u2", baseTime)
	hijack.CompanyName = "Hijacked"

	err := repo.Update(ctx, hijack)
	require.ErrorIs(t, err, domain.ErrNotFound)

	found, ok, err := repo.FindByID(ctx, "A1", "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, original, found)
}

func testUpdateConflict(t *testing.T, repo repository.Repository) {
	ctx := t.Context()
	app := NewApplication(t, "A1", "u1", baseTime)
	require.NoError(t, repo.Save(ctx, app))

	first, _, err := app.UpdateStatus(domain.StatusRejected)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, first))

	stale, _, err := app.UpdateStatus(domain.StatusWithdrawn)
	require.NoError(t, err)
	err = repo.Update(ctx, stale)
	require.ErrorIs(t, err, domain.ErrConflict)

	found, ok, err := repo.FindByID(ctx, "A1", "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.StatusRejected, found.Status)
}

func testListByOwner(t *testing.T, repo repository.Repository) {
	ctx := t.Context()
	require.NoError(t, repo.Save(ctx, NewApplication(t, "A1", "u1", baseTime)))
	require.NoError(t, repo.Save(ctx, NewApplication(t, "B1", "u2", baseTime)))
	require.NoError(t, repo.Save(ctx, NewApplication(t, "A2", "u1", baseTime.AddDate(0, 1, 0))))

	apps, err := repo.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, apps, 2)

	ids := []string{apps[0].ID, apps[1].ID}
	assert.ElementsMatch(t, []string{"A1", "A2"}, ids)
	for _, app := range apps {
		assert.Equal(t, "u1", app.OwnerID)
	}

	none, err := repo.ListByOwner(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testCloneOnRead(t *testing.T, repo repository.Repository) {
	ctx := t.Context()
	require.NoError(t, repo.Save(ctx, fullApplication(t)))

	found, ok, err := repo.FindByID(ctx, "A1", "u1")
	require.NoError(t, err)
	require.True(t, ok)

	found.CompanyName = "Mutated"
	found.Comments[0].Message = "mutated"
	found.Comments = append(found.Comments, domain.Comment{ID: "x", Message: "x"})

	listed, err := repo.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	listed[0].Comments[0].Message = "mutated via list"

	again, ok, err := repo.FindByID(ctx, "A1", "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Acme", again.CompanyName)
	require.Len(t, again.Comments, 1)
	assert.Equal(t, "sent CV", again.Comments[0].Message)
}

func testCloneOnWrite(t *testing.T, repo repository.Repository) {
	ctx := t.Context()
	app := fullApplication(t)
	require.NoError(t, repo.Save(ctx, app))

	app.Comments[0].Message = "changed after save"

	found, ok, err := repo.FindByID(ctx, "A1", "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "sent CV", found.Comments[0].Message)
}

func testDelete(t *testing.T, repo repository.Repository) {
	ctx := t.Context()
	require.NoError(t, repo.Save(ctx, fullApplication(t)))

	require.NoError(t, repo.Delete(ctx, "A1", "u2"))
	_, ok, err := repo.FindByID(ctx, "A1", "u1")
	require.NoError(t, err)
	assert.True(t, ok, "delete by another owner must be a no-op")

	require.NoError(t, repo.Delete(ctx, "A1", "u1"))
	_, ok, err = repo.FindByID(ctx, "A1", "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Delete(ctx, "A1", "u1"))

	require.NoError(t, repo.Save(ctx, fullApplication(t)), "id is reusable after delete")
}

func testClear(t *testing.T, repo repository.Repository) {
	ctx := t.Context()
	require.NoError(t, repo.Save(ctx, fullApplication(t)))
	require.NoError(t, repo.Save(ctx, NewApplication(t, "B1", "u2", baseTime)))

	require.NoError(t, repo.Clear(ctx))

	for _, owner := range []string{"u1", "u2"} {
		apps, err := repo.ListByOwner(ctx, owner)
		require.NoError(t, err)
		assert.Empty(t, apps)
	}
}

func testCommentOrder(t *testing.T, repo repository.Repository) {
	ctx := t.Context()
	app := NewApplication(t, "A1", "u1", baseTime)

	// Later comments carry earlier timestamps; order must follow insertion, not time.
	app = app.AddComment(domain.Comment{ID: "c1", Message: "first", CreatedAt: baseTime.Add(3 * time.Hour)})
	app = app.AddComment(domain.Comment{ID: "c2", Message: "second", CreatedAt: baseTime.Add(2 * time.Hour)})
	app = app.AddComment(domain.Comment{ID: "c3", Message: "third", CreatedAt: baseTime.Add(time.Hour)})
	require.NoError(t, repo.Save(ctx, app))

	found, ok, err := repo.FindByID(ctx, "A1", "u1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, found.Comments, 3)
	assert.Equal(t, []string{"c1", "c2", "c3"},
		[]string{found.Comments[0].ID, found.Comments[1].ID, found.Comments[2].ID})
}
