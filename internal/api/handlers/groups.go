package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/relister/internal/grouping"
	domain "github.com/donaldgifford/relister/pkg/types"
)

// CandidateResolver derives the current set of listing candidates from
// tagged photos and durable items.
type CandidateResolver interface {
	Resolve(ctx context.Context, ownerID string) ([]grouping.Candidate, error)
}

// GroupsHandler exposes the derived photo groups and their generation state.
type GroupsHandler struct {
	resolver CandidateResolver
}

// NewGroupsHandler creates a new GroupsHandler.
func NewGroupsHandler(r CandidateResolver) *GroupsHandler {
	return &GroupsHandler{resolver: r}
}

// GroupSummary is one SKU group with its listing state.
type GroupSummary struct {
	SKU        string               `json:"sku"`
	Photos     []domain.PhotoRecord `json:"photos"`
	PhotoCount int                  `json:"photo_count"`
	ItemID     string               `json:"item_id,omitempty"  doc:"Durable item id, empty until generated"`
	Status     domain.ItemStatus    `json:"status"`
	Title      string               `json:"title,omitempty"`
}

// ListGroupsInput is the input for listing SKU groups.
type ListGroupsInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Owner scope, defaults to 'default'"`
}

// ListGroupsOutput is the response for listing SKU groups.
type ListGroupsOutput struct {
	Body struct {
		Groups []GroupSummary `json:"groups"`
		Total  int            `json:"total"`
	}
}

// ListGroups returns the current photo groups in SKU order. Groups are
// derived fresh from photo assignments on every call.
func (h *GroupsHandler) ListGroups(
	ctx context.Context,
	input *ListGroupsInput,
) (*ListGroupsOutput, error) {
	candidates, err := h.resolver.Resolve(ctx, ownerOrDefault(input.OwnerID))
	if err != nil {
		return nil, huma.Error500InternalServerError("group resolution failed: " + err.Error())
	}

	groups := make([]GroupSummary, 0, len(candidates))
	for _, c := range candidates {
		summary := GroupSummary{
			SKU:        c.Group.SKU,
			Photos:     c.Group.Photos,
			PhotoCount: len(c.Group.Photos),
			Status:     c.Item.Status,
			Title:      c.Item.Title,
		}
		if !domain.IsPending(c.Item.ID) {
			summary.ItemID = c.Item.ID
		}
		groups = append(groups, summary)
	}

	resp := &ListGroupsOutput{}
	resp.Body.Groups = groups
	resp.Body.Total = len(groups)

	return resp, nil
}

// RegisterGroupRoutes registers group endpoints with the Huma API.
func RegisterGroupRoutes(api huma.API, h *GroupsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-groups",
		Method:      http.MethodGet,
		Path:        "/api/v1/groups",
		Summary:     "List SKU groups",
		Description: "Returns photo groups derived from SKU assignments, each with its generation state.",
		Tags:        []string{"groups"},
	}, h.ListGroups)
}
