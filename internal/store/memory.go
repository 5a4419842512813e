package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/donaldgifford/relister/pkg/types"
)

// MemoryStore is an in-memory Store. It backs tests and local
// development runs where Postgres is unavailable.
type MemoryStore struct {
	mu     sync.RWMutex
	photos map[string]domain.PhotoRecord
	items  map[string]domain.GeneratedItem
	now    func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		photos: make(map[string]domain.PhotoRecord),
		items:  make(map[string]domain.GeneratedItem),
		now:    time.Now,
	}
}

// SetNowFunc overrides the clock, for tests.
func (s *MemoryStore) SetNowFunc(f func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = f
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Migrate(context.Context) error { return nil }

func (s *MemoryStore) CreatePhoto(_ context.Context, p *domain.PhotoRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = domain.PhotoUploaded
	}
	now := s.now()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.photos[p.ID] = *p
	return nil
}

func (s *MemoryStore) GetPhoto(
	_ context.Context,
	ownerID, id string,
) (*domain.PhotoRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.photos[id]
	if !ok || p.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	out := p
	return &out, nil
}

func (s *MemoryStore) ListPhotos(
	_ context.Context,
	ownerID string,
	opts *PhotoQuery,
) ([]domain.PhotoRecord, error) {
	if opts == nil {
		opts = &PhotoQuery{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var photos []domain.PhotoRecord
	for _, p := range s.photos {
		if p.OwnerID != ownerID {
			continue
		}
		if opts.SKU != nil && (p.SKU == nil || *p.SKU != *opts.SKU) {
			continue
		}
		if opts.Status != nil && p.Status != *opts.Status {
			continue
		}
		if opts.HasSKU != nil && *opts.HasSKU != (p.SKU != nil) {
			continue
		}
		photos = append(photos, p)
	}
	// Tiebreak equal upload orders so a group's primary photo is stable.
	sort.Slice(photos, func(i, j int) bool {
		if photos[i].UploadOrder != photos[j].UploadOrder {
			return photos[i].UploadOrder < photos[j].UploadOrder
		}
		if !photos[i].CreatedAt.Equal(photos[j].CreatedAt) {
			return photos[i].CreatedAt.Before(photos[j].CreatedAt)
		}
		return photos[i].ID < photos[j].ID
	})

	if opts.Offset > 0 {
		if opts.Offset >= len(photos) {
			return nil, nil
		}
		photos = photos[opts.Offset:]
	}
	if opts.Limit > 0 && len(photos) > opts.Limit {
		photos = photos[:opts.Limit]
	}
	return photos, nil
}

func (s *MemoryStore) UpdatePhotoSKU(
	_ context.Context,
	ownerID, id string,
	sku *string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.photos[id]
	if !ok || p.OwnerID != ownerID {
		return ErrNotFound
	}
	p.SKU = sku
	if sku != nil {
		p.Status = domain.PhotoAssigned
	} else {
		p.Status = domain.PhotoUploaded
	}
	p.UpdatedAt = s.now()
	s.photos[id] = p
	return nil
}

func (s *MemoryStore) LinkPhotos(_ context.Context, ownerID, sku, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, p := range s.photos {
		if p.OwnerID != ownerID || p.SKU == nil || *p.SKU != sku {
			continue
		}
		p.ItemID = &itemID
		p.Status = domain.PhotoProcessed
		p.UpdatedAt = s.now()
		s.photos[id] = p
	}
	return nil
}

func (s *MemoryStore) ResetPhotos(_ context.Context, ownerID, sku string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, p := range s.photos {
		if p.OwnerID != ownerID || p.SKU == nil || *p.SKU != sku {
			continue
		}
		p.SKU = nil
		p.ItemID = nil
		p.Status = domain.PhotoUploaded
		p.UpdatedAt = s.now()
		s.photos[id] = p
	}
	return nil
}

func (s *MemoryStore) CreateItem(_ context.Context, item *domain.GeneratedItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" || domain.IsPending(item.ID) {
		item.ID = uuid.NewString()
	}
	item.UpdatedAt = s.now()
	s.items[item.ID] = *item
	return nil
}

func (s *MemoryStore) UpdateItem(_ context.Context, item *domain.GeneratedItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.items[item.ID]
	if !ok || existing.OwnerID != item.OwnerID {
		return ErrNotFound
	}
	item.UpdatedAt = s.now()
	s.items[item.ID] = *item
	return nil
}

func (s *MemoryStore) GetItem(
	_ context.Context,
	ownerID, id string,
) (*domain.GeneratedItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok || item.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	out := item
	return &out, nil
}

func (s *MemoryStore) ListItems(
	_ context.Context,
	ownerID string,
) ([]domain.GeneratedItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []domain.GeneratedItem
	for _, item := range s.items {
		if item.OwnerID == ownerID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].SKU < items[j].SKU
	})
	return items, nil
}

func (s *MemoryStore) DeleteItem(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok || item.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *MemoryStore) UpdateItemStatus(
	_ context.Context,
	ownerID, id string,
	status domain.ItemStatus,
	generationError string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok || item.OwnerID != ownerID {
		return ErrNotFound
	}
	item.Status = status
	item.GenerationError = generationError
	item.UpdatedAt = s.now()
	s.items[id] = item
	return nil
}

func (s *MemoryStore) ListStuckItems(
	_ context.Context,
	olderThan time.Duration,
) ([]domain.GeneratedItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := s.now().Add(-olderThan)
	var items []domain.GeneratedItem
	for _, item := range s.items {
		if item.Status == domain.ItemAnalyzing && item.UpdatedAt.Before(cutoff) {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].UpdatedAt.Before(items[j].UpdatedAt)
	})
	return items, nil
}
