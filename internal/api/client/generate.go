package client

import (
	"context"
	"time"

	"github.com/donaldgifford/relister/internal/pipeline"
)

// GenerateReport summarizes a bulk generation pass.
type GenerateReport struct {
	Results   []pipeline.Result `json:"results"`
	Generated int               `json:"generated"`
	Failed    int               `json:"failed"`
}

// QuotaStatus mirrors the quota endpoint response body.
type QuotaStatus struct {
	DailyLimit int64     `json:"daily_limit"`
	DailyUsed  int64     `json:"daily_used"`
	Remaining  int64     `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
}

// GenerateAll runs one generation pass over every eligible candidate.
func (c *Client) GenerateAll(ctx context.Context) (*GenerateReport, error) {
	var report GenerateReport
	if err := c.post(ctx, "/api/v1/generate", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// GenerateSKU generates the single candidate identified by SKU.
func (c *Client) GenerateSKU(ctx context.Context, sku string) (*pipeline.Result, error) {
	var result pipeline.Result
	if err := c.post(ctx, "/api/v1/generate/"+sku, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetQuota returns the current vision analysis quota status.
func (c *Client) GetQuota(ctx context.Context) (*QuotaStatus, error) {
	var quota QuotaStatus
	if err := c.get(ctx, "/api/v1/quota", &quota); err != nil {
		return nil, err
	}
	return &quota, nil
}
