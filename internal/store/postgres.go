package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/donaldgifford/relister/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// --- Photos ---

// CreatePhoto inserts a new photo record, assigning an id if absent.
func (s *PostgresStore) CreatePhoto(ctx context.Context, p *domain.PhotoRecord) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = domain.PhotoUploaded
	}

	args := pgx.NamedArgs{
		"id":           p.ID,
		"owner_id":     p.OwnerID,
		"image_ref":    p.ImageRef,
		"filename":     p.Filename,
		"upload_order": p.UploadOrder,
		"sku":          p.SKU,
		"item_id":      p.ItemID,
		"status":       string(p.Status),
	}

	err := s.pool.QueryRow(ctx, queryCreatePhoto, args).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating photo: %w", err)
	}
	return nil
}

// GetPhoto returns a photo by id, scoped to the owner.
func (s *PostgresStore) GetPhoto(
	ctx context.Context,
	ownerID, id string,
) (*domain.PhotoRecord, error) {
	p := &domain.PhotoRecord{}
	err := scanPhoto(s.pool.QueryRow(ctx, queryGetPhoto, ownerID, id), p)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting photo: %w", err)
	}
	return p, nil
}

// ListPhotos queries photos with optional filters, ordered by upload order.
func (s *PostgresStore) ListPhotos(
	ctx context.Context,
	ownerID string,
	opts *PhotoQuery,
) ([]domain.PhotoRecord, error) {
	if opts == nil {
		opts = &PhotoQuery{}
	}
	dataSQL, args := opts.ToSQL(ownerID)

	rows, err := s.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("querying photos: %w", err)
	}
	defer rows.Close()

	var photos []domain.PhotoRecord
	for rows.Next() {
		var p domain.PhotoRecord
		if err := scanPhoto(rows, &p); err != nil {
			return nil, fmt.Errorf("scanning photo: %w", err)
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating photos: %w", err)
	}

	return photos, nil
}

// UpdatePhotoSKU assigns or clears a photo's grouping identifier. The
// photo's status follows the assignment: assigned when a SKU is set,
// uploaded when it is cleared.
func (s *PostgresStore) UpdatePhotoSKU(
	ctx context.Context,
	ownerID, id string,
	sku *string,
) error {
	status := domain.PhotoUploaded
	if sku != nil {
		status = domain.PhotoAssigned
	}

	tag, err := s.pool.Exec(ctx, queryUpdatePhotoSKU, ownerID, id, sku, string(status))
	if err != nil {
		return fmt.Errorf("updating photo sku: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// LinkPhotos stamps every photo carrying the SKU with the durable item id.
func (s *PostgresStore) LinkPhotos(ctx context.Context, ownerID, sku, itemID string) error {
	if _, err := s.pool.Exec(ctx, queryLinkPhotos, ownerID, sku, itemID); err != nil {
		return fmt.Errorf("linking photos: %w", err)
	}
	return nil
}

// ResetPhotos clears the SKU and item link for every photo in the group.
func (s *PostgresStore) ResetPhotos(ctx context.Context, ownerID, sku string) error {
	if _, err := s.pool.Exec(ctx, queryResetPhotos, ownerID, sku); err != nil {
		return fmt.Errorf("resetting photos: %w", err)
	}
	return nil
}

// --- Items ---

// CreateItem inserts a new durable item. A pending placeholder id is
// replaced with a generated UUID.
func (s *PostgresStore) CreateItem(ctx context.Context, item *domain.GeneratedItem) error {
	if item.ID == "" || domain.IsPending(item.ID) {
		item.ID = uuid.NewString()
	}

	args, err := itemArgs(item)
	if err != nil {
		return err
	}

	if err := s.pool.QueryRow(ctx, queryCreateItem, args).Scan(&item.UpdatedAt); err != nil {
		return fmt.Errorf("creating item: %w", err)
	}
	return nil
}

// UpdateItem updates all mutable fields of a durable item.
func (s *PostgresStore) UpdateItem(ctx context.Context, item *domain.GeneratedItem) error {
	args, err := itemArgs(item)
	if err != nil {
		return err
	}

	err = s.pool.QueryRow(ctx, queryUpdateItem, args).Scan(&item.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// GetItem returns an item by id, scoped to the owner.
func (s *PostgresStore) GetItem(
	ctx context.Context,
	ownerID, id string,
) (*domain.GeneratedItem, error) {
	item := &domain.GeneratedItem{}
	err := scanItem(s.pool.QueryRow(ctx, queryGetItem, ownerID, id), item)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns all items for an owner, ordered by SKU.
func (s *PostgresStore) ListItems(
	ctx context.Context,
	ownerID string,
) ([]domain.GeneratedItem, error) {
	return s.queryItems(ctx, queryListItems, ownerID)
}

// DeleteItem removes a durable item.
func (s *PostgresStore) DeleteItem(ctx context.Context, ownerID, id string) error {
	tag, err := s.pool.Exec(ctx, queryDeleteItem, ownerID, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateItemStatus transitions an item's lifecycle status.
func (s *PostgresStore) UpdateItemStatus(
	ctx context.Context,
	ownerID, id string,
	status domain.ItemStatus,
	generationError string,
) error {
	tag, err := s.pool.Exec(ctx, queryUpdateItemStatus,
		ownerID, id, string(status), generationError,
	)
	if err != nil {
		return fmt.Errorf("updating item status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListStuckItems returns items resting in analyzing longer than olderThan,
// across all owners. Used by the reconciliation sweep.
func (s *PostgresStore) ListStuckItems(
	ctx context.Context,
	olderThan time.Duration,
) ([]domain.GeneratedItem, error) {
	interval := fmt.Sprintf("%d seconds", int(olderThan.Seconds()))
	return s.queryItems(ctx, queryListStuckItems, interval)
}

func (s *PostgresStore) queryItems(
	ctx context.Context,
	sql string,
	args ...any,
) ([]domain.GeneratedItem, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var items []domain.GeneratedItem
	for rows.Next() {
		var item domain.GeneratedItem
		if err := scanItem(rows, &item); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}

	return items, nil
}

// --- Scanning helpers ---

func itemArgs(item *domain.GeneratedItem) (pgx.NamedArgs, error) {
	metaJSON, err := json.Marshal(item.Meta)
	if err != nil {
		return nil, fmt.Errorf("marshaling analysis metadata: %w", err)
	}

	return pgx.NamedArgs{
		"id":                item.ID,
		"owner_id":          item.OwnerID,
		"sku":               item.SKU,
		"photo_refs":        item.PhotoRefs,
		"primary_photo":     item.PrimaryPhoto,
		"title":             item.Title,
		"description":       item.Description,
		"price":             item.Price,
		"category":          string(item.Category),
		"condition":         string(item.Condition),
		"brand":             item.Brand,
		"size":              item.Size,
		"color":             item.Color,
		"model_number":      item.ModelNumber,
		"keywords":          item.Keywords,
		"confidence":        item.Confidence,
		"analysis_metadata": metaJSON,
		"status":            string(item.Status),
		"generation_error":  item.GenerationError,
	}, nil
}

func scanPhoto(row pgx.Row, p *domain.PhotoRecord) error {
	return row.Scan(
		&p.ID, &p.OwnerID, &p.ImageRef, &p.Filename, &p.UploadOrder,
		&p.SKU, &p.ItemID, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
}

func scanItem(row pgx.Row, item *domain.GeneratedItem) error {
	var metaJSON []byte
	err := row.Scan(
		&item.ID, &item.OwnerID, &item.SKU, &item.PhotoRefs, &item.PrimaryPhoto,
		&item.Title, &item.Description, &item.Price, &item.Category, &item.Condition,
		&item.Brand, &item.Size, &item.Color, &item.ModelNumber, &item.Keywords,
		&item.Confidence, &metaJSON, &item.Status,
		&item.GenerationError, &item.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if len(metaJSON) > 0 {
		if err := json.Unmarshal(metaJSON, &item.Meta); err != nil {
			return fmt.Errorf("unmarshaling analysis metadata: %w", err)
		}
	}
	return nil
}
