package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/relister/internal/store"
	domain "github.com/donaldgifford/relister/pkg/types"
)

func TestMemoryStore_PhotoLifecycle(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	ctx := context.Background()

	p := &domain.PhotoRecord{OwnerID: "o1", ImageRef: "p/a.jpg", UploadOrder: 1}
	require.NoError(t, s.CreatePhoto(ctx, p))
	require.NotEmpty(t, p.ID)
	assert.Equal(t, domain.PhotoUploaded, p.Status)

	sku := "SKU-1"
	require.NoError(t, s.UpdatePhotoSKU(ctx, "o1", p.ID, &sku))

	got, err := s.GetPhoto(ctx, "o1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PhotoAssigned, got.Status)

	require.NoError(t, s.LinkPhotos(ctx, "o1", sku, "item-1"))
	got, err = s.GetPhoto(ctx, "o1", p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ItemID)
	assert.Equal(t, domain.PhotoProcessed, got.Status)

	require.NoError(t, s.ResetPhotos(ctx, "o1", sku))
	got, err = s.GetPhoto(ctx, "o1", p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.SKU)
	assert.Nil(t, got.ItemID)
	assert.Equal(t, domain.PhotoUploaded, got.Status)

	_, err = s.GetPhoto(ctx, "other", p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryStore_ListPhotosFilters(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	ctx := context.Background()

	sku := "SKU-2"
	for i := range 3 {
		p := &domain.PhotoRecord{OwnerID: "o1", ImageRef: "p", UploadOrder: 2 - i}
		require.NoError(t, s.CreatePhoto(ctx, p))
		if i == 0 {
			require.NoError(t, s.UpdatePhotoSKU(ctx, "o1", p.ID, &sku))
		}
	}

	all, err := s.ListPhotos(ctx, "o1", nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].UploadOrder <= all[1].UploadOrder)

	tagged, err := s.ListPhotos(ctx, "o1", &store.PhotoQuery{SKU: &sku})
	require.NoError(t, err)
	assert.Len(t, tagged, 1)

	hasSKU := false
	untagged, err := s.ListPhotos(ctx, "o1", &store.PhotoQuery{HasSKU: &hasSKU})
	require.NoError(t, err)
	assert.Len(t, untagged, 2)
}

func TestMemoryStore_ListPhotosStableOrder(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	ctx := context.Background()

	clock := time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)
	s.SetNowFunc(func() time.Time { return clock })

	// Same upload order and creation time: id breaks the tie.
	for _, id := range []string{"photo-b", "photo-a", "photo-c"} {
		p := &domain.PhotoRecord{ID: id, OwnerID: "o1", ImageRef: "p", UploadOrder: 1}
		require.NoError(t, s.CreatePhoto(ctx, p))
	}

	// Same upload order, earlier creation time: sorts first.
	s.SetNowFunc(func() time.Time { return clock.Add(-time.Hour) })
	early := &domain.PhotoRecord{ID: "photo-z", OwnerID: "o1", ImageRef: "p", UploadOrder: 1}
	require.NoError(t, s.CreatePhoto(ctx, early))

	photos, err := s.ListPhotos(ctx, "o1", nil)
	require.NoError(t, err)
	require.Len(t, photos, 4)

	got := make([]string, len(photos))
	for i, p := range photos {
		got[i] = p.ID
	}
	assert.Equal(t, []string{"photo-z", "photo-a", "photo-b", "photo-c"}, got)
}

func TestMemoryStore_ItemLifecycle(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	ctx := context.Background()

	item := &domain.GeneratedItem{
		ID:      domain.PendingID("SKU-3"),
		OwnerID: "o1",
		SKU:     "SKU-3",
		Title:   "Test Item",
		Status:  domain.ItemReady,
	}
	require.NoError(t, s.CreateItem(ctx, item))
	assert.False(t, domain.IsPending(item.ID))

	require.NoError(t, s.UpdateItemStatus(ctx, "o1", item.ID, domain.ItemNeedsAttention, "boom"))
	got, err := s.GetItem(ctx, "o1", item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemNeedsAttention, got.Status)
	assert.Equal(t, "boom", got.GenerationError)

	require.NoError(t, s.DeleteItem(ctx, "o1", item.ID))
	_, err = s.GetItem(ctx, "o1", item.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryStore_ListStuckItems(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.SetNowFunc(func() time.Time { return now })

	stuck := &domain.GeneratedItem{OwnerID: "o1", SKU: "SKU-4", Status: domain.ItemAnalyzing}
	require.NoError(t, s.CreateItem(ctx, stuck))

	now = now.Add(30 * time.Minute)

	items, err := s.ListStuckItems(ctx, 15*time.Minute)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "SKU-4", items[0].SKU)

	items, err = s.ListStuckItems(ctx, time.Hour)
	require.NoError(t, err)
	assert.Empty(t, items)
}
