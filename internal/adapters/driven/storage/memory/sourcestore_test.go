package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func memSource(id string, createdAt time.Time) domain.Source {
	return domain.Source{
		ID:        id,
		Type:      "filesystem",
		Name:      "Team wiki",
		Config:    map[string]string{"path": "/srv/wiki"},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

// seededStore returns a store pre-populated with the given sources.
func seededStore(t *testing.T, sources ...domain.Source) *SourceStore {
	t.Helper()
	store := NewSourceStore()
	for _, source := range sources {
		require.NoError(t, store.Save(context.Background(), source))
	}
	return store
}

func TestSourceStore_SaveAndGet(t *testing.T) {
	store := seededStore(t, memSource("src-1", time.Now().UTC()))

	got, err := store.Get(context.Background(), "src-1")
	require.NoError(t, err)
	assert.Equal(t, "filesystem", got.Type)
	assert.Equal(t, "Team wiki", got.Name)
	assert.Equal(t, "/srv/wiki", got.Config["path"])
}

func TestSourceStore_Save_ReplacesExisting(t *testing.T) {
	ctx := context.Background()
	source := memSource("src-1", time.Now().UTC())
	store := seededStore(t, source)

	source.Name = "Renamed"
	require.NoError(t, store.Save(ctx, source))

	got, err := store.Get(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)

	sources, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, sources, 1)
}

func TestSourceStore_Get_NotFound(t *testing.T) {
	got, err := NewSourceStore().Get(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, got)
}

func TestSourceStore_Get_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t, memSource("src-1", time.Now().UTC()))

	first, err := store.Get(ctx, "src-1")
	require.NoError(t, err)
	first.Name = "changed"

	second, err := store.Get(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, "Team wiki", second.Name)
}

func TestSourceStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t, memSource("src-1", time.Now().UTC()))

	require.NoError(t, store.Delete(ctx, "src-1"))

	_, err := store.Get(ctx, "src-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSourceStore_Delete_Missing(t *testing.T) {
	// Deleting an unknown ID is not an error.
	assert.NoError(t, NewSourceStore().Delete(context.Background(), "missing"))
}

func TestSourceStore_List_Empty(t *testing.T) {
	sources, err := NewSourceStore().List(context.Background())

	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestSourceStore_List_OrderedByCreation(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := seededStore(t,
		memSource("src-c", base.Add(2*time.Hour)),
		memSource("src-a", base),
		memSource("src-b", base.Add(time.Hour)),
	)

	sources, err := store.List(context.Background())

	require.NoError(t, err)
	require.Len(t, sources, 3)
	assert.Equal(t, "src-a", sources[0].ID)
	assert.Equal(t, "src-b", sources[1].ID)
	assert.Equal(t, "src-c", sources[2].ID)
}

func TestSourceStore_List_TiesBrokenByID(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := seededStore(t,
		memSource("src-b", createdAt),
		memSource("src-a", createdAt),
	)

	sources, err := store.List(context.Background())

	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "src-a", sources[0].ID)
	assert.Equal(t, "src-b", sources[1].ID)
}

func TestSourceStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewSourceStore()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("src-%d", n)
			assert.NoError(t, store.Save(ctx, memSource(id, time.Now().UTC())))
			_, _ = store.Get(ctx, id)
			_, err := store.List(ctx)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	sources, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, sources, 8)
}
