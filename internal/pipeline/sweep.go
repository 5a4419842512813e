package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/donaldgifford/relister/internal/metrics"
	"github.com/donaldgifford/relister/internal/store"
	domain "github.com/donaldgifford/relister/pkg/types"
)

const (
	defaultStuckThreshold = 15 * time.Minute

	// stuckError is the generationError stamped on demoted items.
	stuckError = "analysis interrupted, retry required"
)

// Sweeper recovers items left resting in analyzing by a crash or a failed
// persistence write. Such items are demoted to needs_attention so they
// become retryable again.
type Sweeper struct {
	store          store.Store
	log            *slog.Logger
	stuckThreshold time.Duration
}

// SweeperOption configures the Sweeper.
type SweeperOption func(*Sweeper)

// WithSweeperLogger sets a custom logger.
func WithSweeperLogger(l *slog.Logger) SweeperOption {
	return func(s *Sweeper) {
		s.log = l
	}
}

// WithStuckThreshold sets how long an item may rest in analyzing before
// the sweep demotes it.
func WithStuckThreshold(d time.Duration) SweeperOption {
	return func(s *Sweeper) {
		s.stuckThreshold = d
	}
}

// NewSweeper creates a Sweeper.
func NewSweeper(s store.Store, opts ...SweeperOption) *Sweeper {
	sw := &Sweeper{
		store:          s,
		log:            slog.Default(),
		stuckThreshold: defaultStuckThreshold,
	}
	for _, opt := range opts {
		opt(sw)
	}
	return sw
}

// Run demotes every stuck item and returns the number demoted.
func (s *Sweeper) Run(ctx context.Context) (int, error) {
	metrics.SweepRunsTotal.Inc()

	items, err := s.store.ListStuckItems(ctx, s.stuckThreshold)
	if err != nil {
		return 0, fmt.Errorf("listing stuck items: %w", err)
	}

	demoted := 0
	for _, item := range items {
		err := s.store.UpdateItemStatus(
			ctx, item.OwnerID, item.ID, domain.ItemNeedsAttention, stuckError,
		)
		if err != nil {
			s.log.Error("demoting stuck item failed",
				"sku", item.SKU, "item_id", item.ID, "error", err)
			continue
		}
		demoted++
		metrics.SweepDemotionsTotal.Inc()
		s.log.Warn("demoted stuck item",
			"sku", item.SKU, "item_id", item.ID,
			"stuck_since", item.UpdatedAt)
	}

	return demoted, nil
}
