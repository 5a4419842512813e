package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/relister/internal/api/handlers"
	"github.com/donaldgifford/relister/internal/pipeline"
	domain "github.com/donaldgifford/relister/pkg/types"
)

// stubRunner returns canned generation results.
type stubRunner struct {
	results []pipeline.Result
	err     error

	lastOwner string
	lastSKU   string
}

func (r *stubRunner) RunAll(_ context.Context, ownerID string) ([]pipeline.Result, error) {
	r.lastOwner = ownerID
	return r.results, r.err
}

func (r *stubRunner) RunSKU(_ context.Context, ownerID, sku string) (pipeline.Result, error) {
	r.lastOwner = ownerID
	r.lastSKU = sku
	if r.err != nil {
		return pipeline.Result{}, r.err
	}
	for _, res := range r.results {
		if res.SKU == sku {
			return res, nil
		}
	}
	return pipeline.Result{}, fmt.Errorf("%w: %s", pipeline.ErrCandidateNotFound, sku)
}

func TestGenerateAll(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{
		results: []pipeline.Result{
			{SKU: "A-SKU", ItemID: "item-a", Status: domain.ItemReady},
			{SKU: "B-SKU", Status: domain.ItemNeedsAttention, Error: "analysis failed: no response"},
			{SKU: "C-SKU", ItemID: "item-c", Status: domain.ItemReady},
		},
	}
	h := handlers.NewGenerateHandler(runner)

	_, api := humatest.New(t)
	handlers.RegisterGenerateRoutes(api, h)

	resp := api.Post("/api/v1/generate", "X-Owner-ID: alice")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "alice", runner.lastOwner)

	var out struct {
		Results   []pipeline.Result `json:"results"`
		Generated int               `json:"generated"`
		Failed    int               `json:"failed"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Len(t, out.Results, 3)
	assert.Equal(t, 2, out.Generated)
	assert.Equal(t, 1, out.Failed)
}

func TestGenerateAll_ResolveFailure(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{err: errors.New("resolving candidates: db down")}
	h := handlers.NewGenerateHandler(runner)

	_, api := humatest.New(t)
	handlers.RegisterGenerateRoutes(api, h)

	resp := api.Post("/api/v1/generate")
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestGenerateSKU(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		runner     *stubRunner
		sku        string
		wantStatus int
	}{
		{
			name: "generates the named candidate",
			runner: &stubRunner{results: []pipeline.Result{
				{SKU: "A-SKU", ItemID: "item-a", Status: domain.ItemReady},
			}},
			sku:        "A-SKU",
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown sku returns 404",
			runner:     &stubRunner{},
			sku:        "GHOST",
			wantStatus: http.StatusNotFound,
		},
		{
			name: "non-generatable candidate returns 409",
			runner: &stubRunner{
				err: fmt.Errorf("%w: A-SKU is complete", pipeline.ErrNotGeneratable),
			},
			sku:        "A-SKU",
			wantStatus: http.StatusConflict,
		},
		{
			name:       "runner failure returns 500",
			runner:     &stubRunner{err: errors.New("persisting item for A-SKU: db down")},
			sku:        "A-SKU",
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := handlers.NewGenerateHandler(tt.runner)

			_, api := humatest.New(t)
			handlers.RegisterGenerateRoutes(api, h)

			resp := api.Post("/api/v1/generate/"+tt.sku, "X-Owner-ID: alice")
			require.Equal(t, tt.wantStatus, resp.Code)

			if tt.wantStatus == http.StatusOK {
				var res pipeline.Result
				require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &res))
				assert.Equal(t, tt.sku, res.SKU)
				assert.Equal(t, domain.ItemReady, res.Status)
			}
		})
	}
}
