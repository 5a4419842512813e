// Package store defines the datastore abstraction for relister.
// All business logic depends on the Store interface, never on concrete
// implementations. This enables fake-based testing without a running database.
package store

import (
	"context"
	"errors"
	"time"

	domain "github.com/donaldgifford/relister/pkg/types"
)

// ErrNotFound is returned when a requested record does not exist or is
// not visible to the requesting owner.
var ErrNotFound = errors.New("record not found")

// PhotoQuery defines optional filters for photo queries.
type PhotoQuery struct {
	SKU       *string
	Status    *domain.PhotoStatus
	HasSKU    *bool // filter on presence of a grouping identifier
	Limit     int   // default 200
	Offset    int
}

// Store defines all data access operations for relister. Every photo and
// item operation is scoped to the owning user.
type Store interface {
	// Photos
	CreatePhoto(ctx context.Context, p *domain.PhotoRecord) error
	GetPhoto(ctx context.Context, ownerID, id string) (*domain.PhotoRecord, error)
	ListPhotos(ctx context.Context, ownerID string, opts *PhotoQuery) ([]domain.PhotoRecord, error)
	UpdatePhotoSKU(ctx context.Context, ownerID, id string, sku *string) error
	// LinkPhotos stamps every photo carrying the SKU with the durable item
	// id and marks them processed.
	LinkPhotos(ctx context.Context, ownerID, sku, itemID string) error
	// ResetPhotos clears the durable-item link and the SKU itself,
	// returning the photos to uploaded status.
	ResetPhotos(ctx context.Context, ownerID, sku string) error

	// Items
	CreateItem(ctx context.Context, item *domain.GeneratedItem) error
	UpdateItem(ctx context.Context, item *domain.GeneratedItem) error
	GetItem(ctx context.Context, ownerID, id string) (*domain.GeneratedItem, error)
	ListItems(ctx context.Context, ownerID string) ([]domain.GeneratedItem, error)
	DeleteItem(ctx context.Context, ownerID, id string) error
	UpdateItemStatus(
		ctx context.Context,
		ownerID, id string,
		status domain.ItemStatus,
		generationError string,
	) error
	// ListStuckItems returns items resting in analyzing longer than olderThan.
	ListStuckItems(ctx context.Context, olderThan time.Duration) ([]domain.GeneratedItem, error)

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
}
