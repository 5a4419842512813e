package seo

import (
	"context"
	"log/slog"
)

// NoOpEnricher implements Enricher by returning no keywords. It is used
// when keyword enrichment is disabled in config.
type NoOpEnricher struct {
	log *slog.Logger
}

// NewNoOpEnricher creates an enricher that skips enrichment with a log message.
func NewNoOpEnricher(log *slog.Logger) *NoOpEnricher {
	if log == nil {
		log = slog.Default()
	}
	return &NoOpEnricher{log: log}
}

// Enrich returns no keywords.
func (n *NoOpEnricher) Enrich(_ context.Context, req EnrichRequest) ([]string, error) {
	n.log.Debug("keyword enrichment skipped (disabled)", "sku", req.SKU)
	return nil, nil
}
