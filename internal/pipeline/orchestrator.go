package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/donaldgifford/relister/internal/grouping"
	"github.com/donaldgifford/relister/internal/metrics"
	domain "github.com/donaldgifford/relister/pkg/types"
)

const defaultItemDelay = 2 * time.Second

// ErrCandidateNotFound is returned when a requested SKU has no candidate.
var ErrCandidateNotFound = fmt.Errorf("no candidate for sku")

// ErrNotGeneratable is returned when a candidate's status does not allow
// a new generation attempt.
var ErrNotGeneratable = fmt.Errorf("candidate not in a generatable state")

// Result reports one candidate's outcome for a generation pass.
type Result struct {
	SKU    string            `json:"sku"`
	ItemID string            `json:"item_id,omitempty"`
	Status domain.ItemStatus `json:"status"`
	Error  string            `json:"error,omitempty"`
}

// Orchestrator runs generation passes over a user's candidates,
// sequentially with a fixed inter-item delay. The vision collaborator is
// rate-limited; pacing trades latency for reliability.
type Orchestrator struct {
	resolver  *grouping.Resolver
	generator *Generator
	log       *slog.Logger
	itemDelay time.Duration
}

// OrchestratorOption configures the Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithOrchestratorLogger sets a custom logger.
func WithOrchestratorLogger(l *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		o.log = l
	}
}

// WithItemDelay sets the delay between candidates in a batch.
func WithItemDelay(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		o.itemDelay = d
	}
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(
	r *grouping.Resolver,
	g *Generator,
	opts ...OrchestratorOption,
) *Orchestrator {
	o := &Orchestrator{
		resolver:  r,
		generator: g,
		log:       slog.Default(),
		itemDelay: defaultItemDelay,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RunAll resolves the owner's candidates and generates every one in
// not_started or needs_attention, in stable SKU order. A failure in one
// candidate never aborts the batch. Context cancellation stops scheduling
// further candidates; the in-flight one finishes. There is no automatic
// retry beyond one pass.
func (o *Orchestrator) RunAll(ctx context.Context, ownerID string) ([]Result, error) {
	start := time.Now()
	defer func() {
		metrics.BatchDuration.Observe(time.Since(start).Seconds())
	}()

	candidates, err := o.resolver.Resolve(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("resolving candidates: %w", err)
	}

	var eligible []grouping.Candidate
	for _, c := range candidates {
		if c.Item.Status.Generatable() {
			eligible = append(eligible, c)
		}
	}

	o.log.Info("starting generation pass",
		"owner", ownerID, "candidates", len(eligible))

	results := make([]Result, 0, len(eligible))
	for i, c := range eligible {
		if ctx.Err() != nil {
			o.log.Warn("generation pass canceled",
				"owner", ownerID, "completed", len(results), "remaining", len(eligible)-i)
			return results, ctx.Err()
		}

		results = append(results, o.runOne(ctx, c))

		if i < len(eligible)-1 && o.itemDelay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(o.itemDelay):
			}
		}
	}

	return results, nil
}

// RunSKU generates a single candidate by SKU, regardless of batch pacing.
// Returns ErrCandidateNotFound if the SKU has no photo group, or an error
// if the candidate is not in a generatable state.
func (o *Orchestrator) RunSKU(ctx context.Context, ownerID, sku string) (Result, error) {
	candidates, err := o.resolver.Resolve(ctx, ownerID)
	if err != nil {
		return Result{}, fmt.Errorf("resolving candidates: %w", err)
	}

	for _, c := range candidates {
		if c.Group.SKU != sku {
			continue
		}
		if !c.Item.Status.Generatable() {
			return Result{}, fmt.Errorf(
				"%w: %s is %s", ErrNotGeneratable, sku, c.Item.Status)
		}
		return o.runOne(ctx, c), nil
	}
	return Result{}, fmt.Errorf("%w: %s", ErrCandidateNotFound, sku)
}

// runOne confines a single candidate's failure, including panics from the
// generation protocol.
func (o *Orchestrator) runOne(ctx context.Context, c grouping.Candidate) (res Result) {
	res = Result{SKU: c.Group.SKU, ItemID: c.Item.ID}

	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("generation panic: %v", r)
			o.log.Error("candidate generation panicked", "sku", c.Group.SKU, "panic", r)
			metrics.GenerationFailuresTotal.WithLabelValues("panic").Inc()
			res.Status = domain.ItemNeedsAttention
			res.Error = msg
			o.forceNeedsAttention(ctx, c, msg)
		}
	}()

	item, err := o.generator.Generate(ctx, c)
	if err != nil {
		res.Error = err.Error()
		if item != nil {
			// Durable item was written; only linking failed.
			res.ItemID = item.ID
			res.Status = item.Status
			return res
		}
		res.Status = domain.ItemAnalyzing
		return res
	}

	res.ItemID = item.ID
	res.Status = item.Status
	res.Error = item.GenerationError
	return res
}

func (o *Orchestrator) forceNeedsAttention(
	ctx context.Context,
	c grouping.Candidate,
	msg string,
) {
	if domain.IsPending(c.Item.ID) {
		return
	}
	err := o.generator.store.UpdateItemStatus(
		ctx, c.Item.OwnerID, c.Item.ID, domain.ItemNeedsAttention, msg,
	)
	if err != nil {
		o.log.Error("recording panic failure state",
			"sku", c.Group.SKU, "error", err)
	}
}
