package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takdev/portfolio-backend/internal/auth"
	"github.com/takdev/portfolio-backend/internal/projects/domain"
	"github.com/takdev/portfolio-backend/internal/projects/store"
	"github.com/takdev/portfolio-backend/internal/projects/store/memory"
)

const (
	adminToken = "admin-token"
	badToken   = "intruder"
)

func adminOnly() auth.Authorizer {
	return auth.AuthorizerFunc(func(_ context.Context, credential string) bool {
		return credential == adminToken
	})
}

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	return New(memory.New(), adminOnly(), Hooks{})
}

func TestAddStampsRecord(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	p, err := repo.Add(ctx, adminToken, domain.Input{
		Title:       "Shop",
		Description: "desc",
		Images:      []string{"https://x/img.png"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Shop", p.Title)
	assert.Equal(t, "desc", p.Description)
	assert.Equal(t, []string{"https://x/img.png"}, p.Images)
	assert.Equal(t, []string{}, p.Technologies)
	assert.False(t, p.Featured)
	assert.Equal(t, "other", p.Category)
	assert.True(t, p.CreatedAt.Equal(p.UpdatedAt), "createdAt must equal updatedAt on create")
	assert.False(t, p.CreatedAt.IsZero())
}

func TestAddGeneratesUniqueIDs(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	seen := make(map[string]bool)
	for i := 0; i < 25; i++ {
		p, err := repo.Add(ctx, adminToken, domain.Input{Title: "T", Description: "d"})
		require.NoError(t, err)
		require.False(t, seen[p.ID], "id %q reused", p.ID)
		seen[p.ID] = true
	}
}

func TestAddValidation(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_, err := repo.Add(ctx, adminToken, domain.Input{Title: "   ", Description: "d"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = repo.Add(ctx, adminToken, domain.Input{Title: "T", Description: "  "})
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Len(t, repo.ListAll(ctx), 0, "failed adds must not write")
}

func TestUnauthorizedMutationsLeaveStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	seeded, err := repo.Add(ctx, adminToken, domain.Input{Title: "Keep", Description: "d"})
	require.NoError(t, err)
	before := repo.ListAll(ctx)

	_, err = repo.Add(ctx, badToken, domain.Input{Title: "X", Description: "d"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	title := "Changed"
	_, err = repo.Update(ctx, badToken, seeded.ID, domain.Patch{Title: &title})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	assert.ErrorIs(t, repo.Delete(ctx, badToken, seeded.ID), domain.ErrUnauthorized)

	_, err = repo.ImportBulk(ctx, badToken, []domain.Project{{Title: "A"}})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = repo.ExportAll(ctx, badToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	assert.ErrorIs(t, repo.ClearAll(ctx, badToken), domain.ErrUnauthorized)

	after := repo.ListAll(ctx)
	assert.Equal(t, before, after)
}

func TestUpdateChangesOnlyPatchedFields(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	created, err := repo.Add(ctx, adminToken, domain.Input{
		Title:        "Orig",
		Description:  "orig desc",
		Technologies: []string{"go", "gin"},
		LiveURL:      "https://live",
		Featured:     true,
	})
	require.NoError(t, err)

	title := "X"
	updated, err := repo.Update(ctx, adminToken, created.ID, domain.Patch{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "X", updated.Title)
	assert.Equal(t, created.Description, updated.Description)
	assert.Equal(t, created.Technologies, updated.Technologies)
	assert.Equal(t, created.LiveURL, updated.LiveURL)
	assert.Equal(t, created.Featured, updated.Featured)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt), "createdAt is immutable")
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestUpdateExplicitEmptyOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	created, err := repo.Add(ctx, adminToken, domain.Input{
		Title: "T", Description: "d", Images: []string{"a.png"}, LiveURL: "https://live",
	})
	require.NoError(t, err)

	empty := ""
	emptyList := []string{}
	updated, err := repo.Update(ctx, adminToken, created.ID, domain.Patch{
		LiveURL: &empty,
		Images:  &emptyList,
	})
	require.NoError(t, err)

	assert.Equal(t, "", updated.LiveURL)
	assert.Equal(t, []string{}, updated.Images)
	assert.Equal(t, "T", updated.Title)
}

func TestUpdateMissingID(t *testing.T) {
	repo := newTestRepo(t)
	title := "X"
	_, err := repo.Update(context.Background(), adminToken, "nope", domain.Patch{Title: &title})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteIsPermanent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	p, err := repo.Add(ctx, adminToken, domain.Input{Title: "T", Description: "d"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, adminToken, p.ID))

	_, err = repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, adminToken, p.ID), domain.ErrNotFound)
}

func TestListAllIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for _, title := range []string{"A", "B", "C"} {
		_, err := repo.Add(ctx, adminToken, domain.Input{Title: title, Description: "d"})
		require.NoError(t, err)
	}

	first := repo.ListAll(ctx)
	second := repo.ListAll(ctx)
	assert.Equal(t, first, second)
}

func TestImportBulk(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	created, err := repo.ImportBulk(ctx, adminToken, []domain.Project{
		{Title: "A", Description: "d1"},
		{Title: "B", Description: "d2"},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.NotEqual(t, created[0].ID, created[1].ID)
	assert.True(t, created[0].CreatedAt.Equal(created[1].CreatedAt), "batch shares one stamp")

	list := repo.ListAll(ctx)
	assert.Len(t, list, 2)
}

func TestImportBulkKeepsGivenIDs(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	created, err := repo.ImportBulk(ctx, adminToken, []domain.Project{
		{ID: "proj_fixed", Title: "A", Description: "d"},
	})
	require.NoError(t, err)
	assert.Equal(t, "proj_fixed", created[0].ID)
}

func TestImportBulkRejectsExistingID(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_, err := repo.ImportBulk(ctx, adminToken, []domain.Project{
		{ID: "proj_dup", Title: "Original", Description: "d"},
	})
	require.NoError(t, err)

	created, err := repo.ImportBulk(ctx, adminToken, []domain.Project{
		{ID: "proj_dup", Title: "Impostor", Description: "d"},
	})
	require.Error(t, err)
	assert.Len(t, created, 0)

	list := repo.ListAll(ctx)
	count := 0
	for _, p := range list {
		if p.ID == "proj_dup" {
			count++
			assert.Equal(t, "Original", p.Title)
		}
	}
	assert.Equal(t, 1, count, "one record per id")
}

func TestImportBulkNilPayload(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.ImportBulk(context.Background(), adminToken, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// failingStore wraps a store and fails every write after the first n.
type failingStore struct {
	store.Store
	writes    int
	failAfter int
	listErr   error
}

func (f *failingStore) Create(ctx context.Context, p domain.Project) (*domain.Project, error) {
	f.writes++
	if f.writes > f.failAfter {
		return nil, errors.New("disk full")
	}
	return f.Store.Create(ctx, p)
}

func (f *failingStore) List(ctx context.Context) ([]domain.Project, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.Store.List(ctx)
}

func TestImportBulkPartialFailureKeepsCommitted(t *testing.T) {
	ctx := context.Background()
	st := &failingStore{Store: memory.New(), failAfter: 1}
	repo := New(st, adminOnly(), Hooks{})

	created, err := repo.ImportBulk(ctx, adminToken, []domain.Project{
		{Title: "A", Description: "d1"},
		{Title: "B", Description: "d2"},
	})
	require.Error(t, err)
	require.Len(t, created, 1, "first record stays committed")
	assert.Equal(t, "A", created[0].Title)

	list := repo.ListAll(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, "A", list[0].Title)
}

func TestListAllDegradesToEmptyOnStoreFailure(t *testing.T) {
	st := &failingStore{Store: memory.New(), failAfter: 100, listErr: errors.New("backend down")}
	repo := New(st, adminOnly(), Hooks{})

	list := repo.ListAll(context.Background())
	assert.NotNil(t, list)
	assert.Len(t, list, 0)
}

func TestExportAllSurfacesStoreFailure(t *testing.T) {
	st := &failingStore{Store: memory.New(), failAfter: 100, listErr: errors.New("backend down")}
	repo := New(st, adminOnly(), Hooks{})

	_, err := repo.ExportAll(context.Background(), adminToken)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUnauthorized)
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_, err := repo.Add(ctx, adminToken, domain.Input{Title: "T", Description: "d"})
	require.NoError(t, err)

	require.NoError(t, repo.ClearAll(ctx, adminToken))
	assert.Len(t, repo.ListAll(ctx), 0)
}

func TestSubscribeDeliversSnapshots(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	var deliveries [][]domain.Project
	unsubscribe := repo.Subscribe(func(list []domain.Project) {
		deliveries = append(deliveries, list)
	})
	defer unsubscribe()

	require.Len(t, deliveries, 1, "immediate snapshot on subscribe")
	assert.Len(t, deliveries[0], 0)

	_, err := repo.Add(ctx, adminToken, domain.Input{Title: "T", Description: "d"})
	require.NoError(t, err)

	require.Len(t, deliveries, 2)
	assert.Len(t, deliveries[1], 1)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	count := 0
	unsubscribe := repo.Subscribe(func([]domain.Project) { count++ })
	require.Equal(t, 1, count)

	unsubscribe()
	unsubscribe() // second call is a no-op

	_, err := repo.Add(ctx, adminToken, domain.Input{Title: "T", Description: "d"})
	require.NoError(t, err)

	assert.Equal(t, 1, count, "no delivery after unsubscribe")
}

func TestHooksFireAfterCommit(t *testing.T) {
	ctx := context.Background()

	var added, updated []string
	var deleted []string
	hooks := Hooks{
		Added:   func(p domain.Project) { added = append(added, p.ID) },
		Updated: func(p domain.Project) { updated = append(updated, p.ID) },
		Deleted: func(id string) { deleted = append(deleted, id) },
	}
	repo := New(memory.New(), adminOnly(), hooks)

	p, err := repo.Add(ctx, adminToken, domain.Input{Title: "T", Description: "d"})
	require.NoError(t, err)

	title := "X"
	_, err = repo.Update(ctx, adminToken, p.ID, domain.Patch{Title: &title})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, adminToken, p.ID))

	assert.Equal(t, []string{p.ID}, added)
	assert.Equal(t, []string{p.ID}, updated)
	assert.Equal(t, []string{p.ID}, deleted)
}

func TestHooksSkippedOnFailedMutation(t *testing.T) {
	ctx := context.Background()

	fired := false
	repo := New(memory.New(), adminOnly(), Hooks{
		Added: func(domain.Project) { fired = true },
	})

	_, err := repo.Add(ctx, badToken, domain.Input{Title: "T", Description: "d"})
	require.Error(t, err)
	assert.False(t, fired)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	repo := New(memory.NewWithQuota(5242880), adminOnly(), Hooks{})

	_, err := repo.Add(ctx, adminToken, domain.Input{Title: "T", Description: "d"})
	require.NoError(t, err)

	st, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.TotalProjects)
	assert.Greater(t, st.BytesUsed, int64(0))
	assert.Equal(t, int64(5242880), st.BytesBudget)
}

func TestTimestampsMonotonic(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	repo.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

	p, err := repo.Add(ctx, adminToken, domain.Input{Title: "T", Description: "d"})
	require.NoError(t, err)

	repo.now = func() time.Time { return time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC) }
	title := "X"
	updated, err := repo.Update(ctx, adminToken, p.ID, domain.Patch{Title: &title})
	require.NoError(t, err)

	assert.True(t, updated.CreatedAt.Before(updated.UpdatedAt))
}
