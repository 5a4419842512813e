package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/relister/internal/pipeline"
	"github.com/donaldgifford/relister/internal/store"
	domain "github.com/donaldgifford/relister/pkg/types"
)

func TestSweeper_Run(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.SetNowFunc(func() time.Time { return now })

	stuck := &domain.GeneratedItem{OwnerID: owner, SKU: "STUCK", Status: domain.ItemAnalyzing}
	require.NoError(t, s.CreateItem(ctx, stuck))

	ready := &domain.GeneratedItem{OwnerID: owner, SKU: "READY", Status: domain.ItemReady}
	require.NoError(t, s.CreateItem(ctx, ready))

	// A fresh analyzing item inside the threshold stays put.
	now = now.Add(20 * time.Minute)
	fresh := &domain.GeneratedItem{OwnerID: owner, SKU: "FRESH", Status: domain.ItemAnalyzing}
	require.NoError(t, s.CreateItem(ctx, fresh))

	sw := pipeline.NewSweeper(s, pipeline.WithStuckThreshold(15*time.Minute))
	demoted, err := sw.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, demoted)

	got, err := s.GetItem(ctx, owner, stuck.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemNeedsAttention, got.Status)
	assert.Equal(t, "analysis interrupted, retry required", got.GenerationError)
	// Demoted items are generatable again.
	assert.True(t, got.Status.Generatable())

	got, err = s.GetItem(ctx, owner, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemAnalyzing, got.Status)

	got, err = s.GetItem(ctx, owner, ready.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemReady, got.Status)
}

func TestSweeper_RunEmpty(t *testing.T) {
	t.Parallel()

	sw := pipeline.NewSweeper(store.NewMemoryStore())
	demoted, err := sw.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, demoted)
}
