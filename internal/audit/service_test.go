package audit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(perActor map[string]int) *memStore {
	store := &memStore{}
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	for actor, count := range perActor {
		for i := 0; i < count; i++ {
			n++
			store.records = append(store.records, Record{
				ID:        fmt.Sprintf("%s-%02d", actor, i),
				ActorID:   actor,
				Action:    ActionUpdate,
				Entity:    "contacts",
				Timestamp: base.Add(time.Duration(n) * time.Minute),
				Success:   i%5 != 0,
			})
		}
	}
	return store
}

func TestListScopesRestrictedViewerToOwnRecords(t *testing.T) {
	store := seededStore(map[string]int{"C1": 3, "C2": 4, "M1": 2})
	svc := NewService(store)

	page, err := svc.List(context.Background(), Viewer{ID: "C1"}, 1, 20, Filters{})
	require.NoError(t, err)
	assert.Len(t, page.Data, 3)
	for _, rec := range page.Data {
		assert.Equal(t, "C1", rec.ActorID)
	}
	assert.Equal(t, "C1", store.lastFilter.ActorID)
}

func TestListAdminSeesEverything(t *testing.T) {
	store := seededStore(map[string]int{"C1": 3, "C2": 4})
	svc := NewService(store)

	page, err := svc.List(context.Background(), Viewer{ID: "A1", All: true}, 1, 20, Filters{})
	require.NoError(t, err)
	assert.Len(t, page.Data, 7)
	assert.Empty(t, store.lastFilter.ActorID)
}

func TestListRejectsViewerWithoutIdentity(t *testing.T) {
	svc := NewService(seededStore(map[string]int{"C1": 1}))
	_, err := svc.List(context.Background(), Viewer{}, 1, 20, Filters{})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestListPagination(t *testing.T) {
	store := seededStore(map[string]int{"A1": 25})
	svc := NewService(store)

	page, err := svc.List(context.Background(), Viewer{ID: "A1"}, 3, 10, Filters{})
	require.NoError(t, err)
	assert.Equal(t, 20, store.lastSkip)
	assert.Equal(t, 10, store.lastTake)
	assert.Len(t, page.Data, 5)
	assert.Equal(t, 25, page.Pagination.Total)
	assert.Equal(t, 3, page.Pagination.Pages)

	first, err := svc.List(context.Background(), Viewer{ID: "A1"}, 1, 10, Filters{})
	require.NoError(t, err)
	require.Len(t, first.Data, 10)
	assert.True(t, first.Data[0].Timestamp.After(first.Data[9].Timestamp), "newest first")
}

func TestListPassesCallerFilters(t *testing.T) {
	store := seededStore(map[string]int{"C1": 2})
	svc := NewService(store)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.List(context.Background(), Viewer{ID: "C1"}, 1, 10, Filters{Entity: "contacts", Action: ActionDelete, From: from})
	require.NoError(t, err)
	assert.Equal(t, "contacts", store.lastFilter.Entity)
	assert.Equal(t, ActionDelete, store.lastFilter.Action)
	assert.Equal(t, from, store.lastFilter.From)
}

func TestGetVisibility(t *testing.T) {
	store := seededStore(map[string]int{"C1": 1, "C2": 1})
	svc := NewService(store)
	ctx := context.Background()

	rec, err := svc.Get(ctx, "C1-00", Viewer{ID: "C1"})
	require.NoError(t, err)
	assert.Equal(t, "C1", rec.ActorID)

	_, err = svc.Get(ctx, "C2-00", Viewer{ID: "C1"})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.Get(ctx, "C2-00", Viewer{ID: "A1", All: true})
	assert.NoError(t, err)

	_, err = svc.Get(ctx, "missing", Viewer{ID: "C1"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStatsScoped(t *testing.T) {
	store := seededStore(map[string]int{"C1": 5, "C2": 3})
	svc := NewService(store)

	stats, err := svc.Stats(context.Background(), Viewer{ID: "C1"})
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 4, stats.Succeeded)
	assert.Equal(t, 5, stats.ByEntity["contacts"])

	all, err := svc.Stats(context.Background(), Viewer{ID: "A1", All: true})
	require.NoError(t, err)
	assert.Equal(t, 8, all.Total)
}

func TestServiceWithoutStore(t *testing.T) {
	svc := NewService(nil)
	_, err := svc.List(context.Background(), Viewer{ID: "x"}, 1, 10, Filters{})
	assert.ErrorIs(t, err, ErrStoreNotConfigured)
}
