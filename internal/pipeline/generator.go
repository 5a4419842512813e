// Package pipeline drives photo groups through listing generation: the
// per-candidate state machine, bulk orchestration, photo linking, and the
// stuck-item reconciliation sweep.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/donaldgifford/relister/internal/grouping"
	"github.com/donaldgifford/relister/internal/metrics"
	"github.com/donaldgifford/relister/internal/seo"
	"github.com/donaldgifford/relister/internal/store"
	"github.com/donaldgifford/relister/internal/vision"
	"github.com/donaldgifford/relister/pkg/listing"
	domain "github.com/donaldgifford/relister/pkg/types"
)

const defaultVisionTimeout = 60 * time.Second

// Generator runs the per-candidate generation protocol.
type Generator struct {
	store         store.Store
	analyzer      vision.Analyzer
	enricher      seo.Enricher
	log           *slog.Logger
	visionTimeout time.Duration
}

// GeneratorOption configures the Generator.
type GeneratorOption func(*Generator)

// WithGeneratorLogger sets a custom logger.
func WithGeneratorLogger(l *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		g.log = l
	}
}

// WithVisionTimeout sets the per-call analysis timeout. An analysis that
// exceeds it fails the candidate instead of stalling the batch.
func WithVisionTimeout(d time.Duration) GeneratorOption {
	return func(g *Generator) {
		g.visionTimeout = d
	}
}

// WithEnricher sets the keyword enricher.
func WithEnricher(e seo.Enricher) GeneratorOption {
	return func(g *Generator) {
		g.enricher = e
	}
}

// NewGenerator creates a Generator with injected dependencies.
func NewGenerator(
	s store.Store,
	a vision.Analyzer,
	opts ...GeneratorOption,
) *Generator {
	g := &Generator{
		store:         s,
		analyzer:      a,
		enricher:      seo.NewNoOpEnricher(nil),
		log:           slog.Default(),
		visionTimeout: defaultVisionTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate runs one candidate through the generation protocol and returns
// its final state. Analysis and mapping failures are absorbed into a
// needs_attention result with a synthesized fallback record; the returned
// error is non-nil only when the parent context is canceled or a
// persistence write fails, in which case the candidate rests in analyzing
// for the reconciliation sweep to recover.
func (g *Generator) Generate(
	ctx context.Context,
	c grouping.Candidate,
) (*domain.GeneratedItem, error) {
	start := time.Now()
	metrics.GenerationAttemptsTotal.Inc()
	defer func() {
		metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	}()

	item := c.Item
	item.Status = domain.ItemAnalyzing
	item.GenerationError = ""
	if err := g.markAnalyzing(ctx, &item); err != nil {
		return nil, err
	}

	actx, cancel := context.WithTimeout(ctx, g.visionTimeout)
	defer cancel()

	callStart := time.Now()
	metrics.VisionCallsTotal.Inc()
	result, err := g.analyzer.Analyze(actx, vision.AnalyzeRequest{
		SKU:                     c.Group.SKU,
		PhotoRefs:               c.Group.PhotoRefs(),
		IncludeMarketResearch:   true,
		IncludeCategoryAnalysis: true,
	})
	metrics.VisionCallDuration.Observe(time.Since(callStart).Seconds())

	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// Timeout and rate-limit errors degrade like any other analysis
		// failure so the batch keeps moving.
		return g.fail(ctx, &item, "analysis", fmt.Sprintf("analysis failed: %v", err))
	}
	if !result.Success {
		return g.fail(ctx, &item, "analysis",
			fmt.Sprintf("analysis failed: %s", result.Err))
	}

	canonical, err := listing.ExtractAndNormalize(
		result.Data, result.MarketResearch, result.CategoryAnalysis,
	)
	if err != nil {
		return g.fail(ctx, &item, "mapping", "data mapping failed")
	}
	if canonical.Title == "" {
		return g.fail(ctx, &item, "validation", "invalid data structure")
	}

	g.enrichKeywords(ctx, &canonical, c.Group.SKU, item.PrimaryPhoto)
	applyCanonical(&item, canonical)

	// Persistence failure propagates; the candidate rests in analyzing
	// until the sweep demotes it.
	item.Status = domain.ItemReady
	if domain.IsPending(item.ID) {
		if err := g.store.CreateItem(ctx, &item); err != nil {
			return nil, fmt.Errorf("persisting item for %s: %w", c.Group.SKU, err)
		}
	} else {
		if err := g.store.UpdateItem(ctx, &item); err != nil {
			return nil, fmt.Errorf("persisting item for %s: %w", c.Group.SKU, err)
		}
	}

	if err := g.store.LinkPhotos(ctx, item.OwnerID, c.Group.SKU, item.ID); err != nil {
		// The durable item stands; only the linkage needs a retry.
		return &item, fmt.Errorf("linking photos for %s: %w", c.Group.SKU, err)
	}

	g.log.Info("candidate generated",
		"sku", c.Group.SKU, "item_id", item.ID, "confidence", item.Confidence)
	return &item, nil
}

// markAnalyzing transitions a durable candidate to analyzing in the store.
// Placeholder candidates only exist in memory until first persistence.
func (g *Generator) markAnalyzing(ctx context.Context, item *domain.GeneratedItem) error {
	if domain.IsPending(item.ID) {
		return nil
	}
	err := g.store.UpdateItemStatus(ctx, item.OwnerID, item.ID, domain.ItemAnalyzing, "")
	if err != nil {
		return fmt.Errorf("marking %s analyzing: %w", item.SKU, err)
	}
	return nil
}

// fail synthesizes the fallback record, parks the candidate in
// needs_attention, and reports the cause. Partial data is never persisted;
// durable candidates only get their status and error written back.
func (g *Generator) fail(
	ctx context.Context,
	item *domain.GeneratedItem,
	cause, msg string,
) (*domain.GeneratedItem, error) {
	metrics.GenerationFailuresTotal.WithLabelValues(cause).Inc()
	g.log.Warn("candidate generation failed", "sku", item.SKU, "cause", msg)

	fallback := listing.Fallback(item.SKU)
	applyCanonical(item, fallback)
	item.Status = domain.ItemNeedsAttention
	item.GenerationError = msg
	item.UpdatedAt = time.Now()

	if !domain.IsPending(item.ID) {
		err := g.store.UpdateItemStatus(
			ctx, item.OwnerID, item.ID, domain.ItemNeedsAttention, msg,
		)
		if err != nil {
			return nil, fmt.Errorf("recording failure for %s: %w", item.SKU, err)
		}
	}
	return item, nil
}

func (g *Generator) enrichKeywords(
	ctx context.Context,
	c *listing.Canonical,
	sku, primaryPhoto string,
) {
	extra, err := g.enricher.Enrich(ctx, seo.EnrichRequest{
		SKU:          sku,
		PrimaryPhoto: primaryPhoto,
		Title:        c.Title,
		Brand:        c.Brand,
		Category:     c.Category,
	})
	if err != nil {
		g.log.Warn("keyword enrichment failed", "sku", sku, "error", err)
		return
	}
	if len(extra) > 0 {
		c.Keywords = listing.MergeKeywords(c.Keywords, extra)
	}
}

func applyCanonical(item *domain.GeneratedItem, c listing.Canonical) {
	item.Title = c.Title
	item.Description = c.Description
	item.Price = c.Price
	item.Category = c.Category
	item.Condition = c.Condition
	item.Brand = c.Brand
	item.Size = c.Size
	item.Color = c.Color
	item.ModelNumber = c.ModelNumber
	item.Keywords = c.Keywords
	item.Confidence = c.Confidence
	item.Meta = c.Meta
}
