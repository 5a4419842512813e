package client

import (
	"context"

	"github.com/donaldgifford/relister/internal/api/handlers"
)

// groupListResponse mirrors the list groups response body.
type groupListResponse struct {
	Groups []handlers.GroupSummary `json:"groups"`
	Total  int                     `json:"total"`
}

// ListGroups returns the current SKU groups with their generation state.
func (c *Client) ListGroups(ctx context.Context) ([]handlers.GroupSummary, error) {
	var resp groupListResponse
	if err := c.get(ctx, "/api/v1/groups", &resp); err != nil {
		return nil, err
	}
	return resp.Groups, nil
}
