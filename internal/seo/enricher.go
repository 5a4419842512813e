// Package seo defines the search keyword enrichment interface and
// implementations for listing generation.
package seo

import (
	"context"

	domain "github.com/donaldgifford/relister/pkg/types"
)

// EnrichRequest describes the listing being enriched.
type EnrichRequest struct {
	SKU          string
	PrimaryPhoto string
	Title        string
	Brand        string
	Category     domain.Category
}

// Enricher produces additional search keywords for a listing. A failed
// enrichment never fails generation; callers log and continue with the
// keywords they already have.
type Enricher interface {
	Enrich(ctx context.Context, req EnrichRequest) ([]string, error)
}
