// Package grouping partitions tagged photos into per-listing groups and
// reconciles them against durable items.
package grouping

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/donaldgifford/relister/internal/store"
	domain "github.com/donaldgifford/relister/pkg/types"
)

// Candidate pairs a photo group with its listing-in-progress. For groups
// not yet generated the item is a placeholder seeded with defaults; for
// generated groups it carries the durable item's current field values.
type Candidate struct {
	Group domain.SKUGroup
	Item  domain.GeneratedItem
}

// Resolver derives candidates from the current photo and item state.
// Results are computed fresh on every call, never incrementally maintained.
type Resolver struct {
	store  store.Store
	logger *slog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(s store.Store, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: s, logger: logger}
}

// Resolve partitions the owner's SKU-tagged photos into groups, ordered
// by upload order within each group and by SKU across groups, then
// reconciles each group against durable items. A group whose photos link
// to an existing item surfaces seeded from that item; a dangling item
// link (deleted or missing item) is treated as not generated.
func (r *Resolver) Resolve(ctx context.Context, ownerID string) ([]Candidate, error) {
	hasSKU := true
	photos, err := r.store.ListPhotos(ctx, ownerID, &store.PhotoQuery{HasSKU: &hasSKU})
	if err != nil {
		return nil, fmt.Errorf("listing tagged photos: %w", err)
	}
	if len(photos) == 0 {
		return nil, nil
	}

	items, err := r.store.ListItems(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	byID := make(map[string]domain.GeneratedItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	// ListPhotos returns upload order, so groups stay ordered.
	groups := make(map[string]*domain.SKUGroup)
	var skus []string
	for _, p := range photos {
		if p.SKU == nil || *p.SKU == "" {
			continue
		}
		g, ok := groups[*p.SKU]
		if !ok {
			g = &domain.SKUGroup{SKU: *p.SKU}
			groups[*p.SKU] = g
			skus = append(skus, *p.SKU)
		}
		g.Photos = append(g.Photos, p)
	}
	sort.Strings(skus)

	candidates := make([]Candidate, 0, len(skus))
	for _, sku := range skus {
		group := *groups[sku]
		candidates = append(candidates, Candidate{
			Group: group,
			Item:  r.reconcile(ownerID, group, byID),
		})
	}
	return candidates, nil
}

func (r *Resolver) reconcile(
	ownerID string,
	group domain.SKUGroup,
	items map[string]domain.GeneratedItem,
) domain.GeneratedItem {
	for _, p := range group.Photos {
		if p.ItemID == nil {
			continue
		}
		item, ok := items[*p.ItemID]
		if !ok {
			r.logger.Warn("photo links to missing item, treating group as not generated",
				"sku", group.SKU, "photo_id", p.ID, "item_id", *p.ItemID)
			continue
		}

		// Current linkage wins over whatever refs were stored.
		item.PhotoRefs = group.PhotoRefs()
		if primary := group.Primary(); primary != nil {
			item.PrimaryPhoto = primary.ImageRef
		}
		if item.Status == domain.ItemReady {
			item.Status = domain.ItemComplete
		}
		return item
	}

	primary := ""
	if p := group.Primary(); p != nil {
		primary = p.ImageRef
	}
	return domain.GeneratedItem{
		ID:           domain.PendingID(group.SKU),
		OwnerID:      ownerID,
		SKU:          group.SKU,
		PhotoRefs:    group.PhotoRefs(),
		PrimaryPhoto: primary,
		Category:     domain.CategoryOther,
		Condition:    domain.ConditionGood,
		Status:       domain.ItemNotStarted,
	}
}
