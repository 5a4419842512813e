package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/relister/internal/grouping"
	"github.com/donaldgifford/relister/internal/pipeline"
	"github.com/donaldgifford/relister/internal/store"
	"github.com/donaldgifford/relister/internal/vision"
	domain "github.com/donaldgifford/relister/pkg/types"
)

// panicAnalyzer panics on a configured SKU, succeeds otherwise.
type panicAnalyzer struct {
	panicSKU string
}

func (p *panicAnalyzer) Analyze(
	_ context.Context,
	req vision.AnalyzeRequest,
) (*vision.AnalyzeResult, error) {
	if req.SKU == p.panicSKU {
		panic("analyzer exploded")
	}
	return goodResult(), nil
}

func newOrchestrator(
	s store.Store,
	a vision.Analyzer,
	opts ...pipeline.OrchestratorOption,
) *pipeline.Orchestrator {
	r := grouping.NewResolver(s, nil)
	g := pipeline.NewGenerator(s, a)
	opts = append([]pipeline.OrchestratorOption{pipeline.WithItemDelay(0)}, opts...)
	return pipeline.NewOrchestrator(r, g, opts...)
}

func TestOrchestrator_RunAll(t *testing.T) {
	t.Parallel()

	t.Run("generates all eligible candidates in sku order", func(t *testing.T) {
		t.Parallel()

		s := store.NewMemoryStore()
		seedGroup(t, s, "B-SKU", 1)
		seedGroup(t, s, "A-SKU", 1)

		analyzer := &fakeAnalyzer{results: map[string]*vision.AnalyzeResult{
			"A-SKU": goodResult(),
			"B-SKU": goodResult(),
		}}

		o := newOrchestrator(s, analyzer)
		results, err := o.RunAll(context.Background(), owner)
		require.NoError(t, err)
		require.Len(t, results, 2)

		assert.Equal(t, "A-SKU", results[0].SKU)
		assert.Equal(t, "B-SKU", results[1].SKU)
		for _, r := range results {
			assert.Equal(t, domain.ItemReady, r.Status)
			assert.Empty(t, r.Error)
		}
	})

	t.Run("one failure does not abort the batch", func(t *testing.T) {
		t.Parallel()

		s := store.NewMemoryStore()
		seedGroup(t, s, "A-SKU", 1)
		seedGroup(t, s, "B-SKU", 1)
		seedGroup(t, s, "C-SKU", 1)

		analyzer := &fakeAnalyzer{results: map[string]*vision.AnalyzeResult{
			"A-SKU": goodResult(),
			"B-SKU": {Success: false, Err: "blurred photos"},
			"C-SKU": goodResult(),
		}}

		o := newOrchestrator(s, analyzer)
		results, err := o.RunAll(context.Background(), owner)
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, domain.ItemReady, results[0].Status)
		assert.Equal(t, domain.ItemNeedsAttention, results[1].Status)
		assert.Contains(t, results[1].Error, "analysis failed")
		assert.Equal(t, domain.ItemReady, results[2].Status)
	})

	t.Run("panic in generation is confined to the candidate", func(t *testing.T) {
		t.Parallel()

		s := store.NewMemoryStore()
		seedGroup(t, s, "A-SKU", 1)
		seedGroup(t, s, "B-SKU", 1)

		o := newOrchestrator(s, &panicAnalyzer{panicSKU: "A-SKU"})
		results, err := o.RunAll(context.Background(), owner)
		require.NoError(t, err)
		require.Len(t, results, 2)

		assert.Equal(t, domain.ItemNeedsAttention, results[0].Status)
		assert.Contains(t, results[0].Error, "generation panic")
		assert.Equal(t, domain.ItemReady, results[1].Status)
	})

	t.Run("complete candidates are skipped", func(t *testing.T) {
		t.Parallel()

		s := store.NewMemoryStore()
		ctx := context.Background()
		seedGroup(t, s, "A-SKU", 1)
		seedGroup(t, s, "B-SKU", 1)

		item := &domain.GeneratedItem{OwnerID: owner, SKU: "B-SKU", Status: domain.ItemReady}
		require.NoError(t, s.CreateItem(ctx, item))
		require.NoError(t, s.LinkPhotos(ctx, owner, "B-SKU", item.ID))

		analyzer := &fakeAnalyzer{results: map[string]*vision.AnalyzeResult{
			"A-SKU": goodResult(),
		}}
		o := newOrchestrator(s, analyzer)
		results, err := o.RunAll(ctx, owner)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "A-SKU", results[0].SKU)
	})

	t.Run("cancellation stops scheduling further candidates", func(t *testing.T) {
		t.Parallel()

		s := store.NewMemoryStore()
		seedGroup(t, s, "A-SKU", 1)
		seedGroup(t, s, "B-SKU", 1)
		seedGroup(t, s, "C-SKU", 1)

		ctx, cancel := context.WithCancel(context.Background())
		analyzer := &cancelingAnalyzer{cancel: cancel}

		o := newOrchestrator(s, analyzer, pipeline.WithItemDelay(time.Millisecond))
		results, err := o.RunAll(ctx, owner)
		require.ErrorIs(t, err, context.Canceled)
		// The in-flight candidate finished; the rest were never scheduled.
		assert.Len(t, results, 1)
	})
}

// cancelingAnalyzer cancels the batch context during the first call and
// still returns a successful result for it.
type cancelingAnalyzer struct {
	cancel context.CancelFunc
}

func (c *cancelingAnalyzer) Analyze(
	context.Context,
	vision.AnalyzeRequest,
) (*vision.AnalyzeResult, error) {
	c.cancel()
	return goodResult(), nil
}

func TestOrchestrator_RunSKU(t *testing.T) {
	t.Parallel()

	t.Run("generates the named candidate", func(t *testing.T) {
		t.Parallel()

		s := store.NewMemoryStore()
		seedGroup(t, s, "A-SKU", 1)
		seedGroup(t, s, "B-SKU", 1)

		analyzer := &fakeAnalyzer{results: map[string]*vision.AnalyzeResult{
			"B-SKU": goodResult(),
		}}
		o := newOrchestrator(s, analyzer)

		result, err := o.RunSKU(context.Background(), owner, "B-SKU")
		require.NoError(t, err)
		assert.Equal(t, "B-SKU", result.SKU)
		assert.Equal(t, domain.ItemReady, result.Status)
		require.Len(t, analyzer.calls, 1)
	})

	t.Run("unknown sku", func(t *testing.T) {
		t.Parallel()

		s := store.NewMemoryStore()
		seedGroup(t, s, "A-SKU", 1)

		o := newOrchestrator(s, &fakeAnalyzer{})
		_, err := o.RunSKU(context.Background(), owner, "NOPE")
		require.ErrorIs(t, err, pipeline.ErrCandidateNotFound)
	})

	t.Run("complete candidate is not generatable", func(t *testing.T) {
		t.Parallel()

		s := store.NewMemoryStore()
		ctx := context.Background()
		seedGroup(t, s, "A-SKU", 1)

		item := &domain.GeneratedItem{OwnerID: owner, SKU: "A-SKU", Status: domain.ItemReady}
		require.NoError(t, s.CreateItem(ctx, item))
		require.NoError(t, s.LinkPhotos(ctx, owner, "A-SKU", item.ID))

		o := newOrchestrator(s, &fakeAnalyzer{})
		_, err := o.RunSKU(ctx, owner, "A-SKU")
		require.ErrorIs(t, err, pipeline.ErrNotGeneratable)
	})
}
