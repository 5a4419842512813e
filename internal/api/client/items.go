package client

import (
	"context"
	"net/url"

	domain "github.com/donaldgifford/relister/pkg/types"
)

// itemListResponse mirrors the list items response body.
type itemListResponse struct {
	Items []domain.GeneratedItem `json:"items"`
	Total int                    `json:"total"`
}

// ListItems returns generated items, optionally filtered by status.
func (c *Client) ListItems(ctx context.Context, status string) ([]domain.GeneratedItem, error) {
	path := "/api/v1/items"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}

	var resp itemListResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// GetItem returns a single generated item by ID.
func (c *Client) GetItem(ctx context.Context, id string) (*domain.GeneratedItem, error) {
	var item domain.GeneratedItem
	if err := c.get(ctx, "/api/v1/items/"+id, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes a generated item and releases its photos.
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/items/"+id, nil)
}
