package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/relister/internal/store"
	domain "github.com/donaldgifford/relister/pkg/types"
)

// ItemsHandler handles generated listing query and delete endpoints.
type ItemsHandler struct {
	store store.Store
}

// NewItemsHandler creates a new ItemsHandler.
func NewItemsHandler(s store.Store) *ItemsHandler {
	return &ItemsHandler{store: s}
}

// --- Input/Output types ---

// ListItemsInput is the input for listing generated items.
type ListItemsInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Owner scope, defaults to 'default'"`
	Status  string `query:"status"      doc:"Filter by generation status" enum:"not_started,analyzing,ready,needs_attention,complete,"`
}

// ListItemsOutput is the response for listing generated items.
type ListItemsOutput struct {
	Body struct {
		Items []domain.GeneratedItem `json:"items"`
		Total int                    `json:"total"`
	}
}

// GetItemInput is the input for getting a single item.
type GetItemInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Owner scope, defaults to 'default'"`
	ID      string `path:"id"           doc:"Item ID"`
}

// GetItemOutput is the response for getting a single item.
type GetItemOutput struct {
	Body domain.GeneratedItem
}

// DeleteItemInput is the input for deleting an item.
type DeleteItemInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Owner scope, defaults to 'default'"`
	ID      string `path:"id"           doc:"Item ID"`
}

// DeleteItemOutput is the response for deleting an item.
type DeleteItemOutput struct {
	Body StatusResponse
}

// --- Handlers ---

// ListItems returns the owner's generated items, optionally filtered by status.
func (h *ItemsHandler) ListItems(
	ctx context.Context,
	input *ListItemsInput,
) (*ListItemsOutput, error) {
	items, err := h.store.ListItems(ctx, ownerOrDefault(input.OwnerID))
	if err != nil {
		return nil, huma.Error500InternalServerError("item query failed: " + err.Error())
	}

	if input.Status != "" {
		filtered := items[:0]
		for _, item := range items {
			if item.Status == domain.ItemStatus(input.Status) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	resp := &ListItemsOutput{}
	resp.Body.Items = items
	resp.Body.Total = len(items)

	return resp, nil
}

// GetItem returns a single generated item by ID.
func (h *ItemsHandler) GetItem(
	ctx context.Context,
	input *GetItemInput,
) (*GetItemOutput, error) {
	item, err := h.store.GetItem(ctx, ownerOrDefault(input.OwnerID), input.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("item not found")
		}
		return nil, huma.Error500InternalServerError("item fetch failed: " + err.Error())
	}

	return &GetItemOutput{Body: *item}, nil
}

// DeleteItem removes a generated item and releases its photos back to
// the ungrouped pool so they can be regrouped and regenerated.
func (h *ItemsHandler) DeleteItem(
	ctx context.Context,
	input *DeleteItemInput,
) (*DeleteItemOutput, error) {
	ownerID := ownerOrDefault(input.OwnerID)

	item, err := h.store.GetItem(ctx, ownerID, input.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("item not found")
		}
		return nil, huma.Error500InternalServerError("item fetch failed: " + err.Error())
	}

	if err := h.store.DeleteItem(ctx, ownerID, input.ID); err != nil {
		return nil, huma.Error500InternalServerError("item delete failed: " + err.Error())
	}

	if err := h.store.ResetPhotos(ctx, ownerID, item.SKU); err != nil {
		return nil, huma.Error500InternalServerError("photo release failed: " + err.Error())
	}

	resp := &DeleteItemOutput{}
	resp.Body.Status = "item deleted"
	return resp, nil
}

// RegisterItemRoutes registers item endpoints with the Huma API.
func RegisterItemRoutes(api huma.API, h *ItemsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-items",
		Method:      http.MethodGet,
		Path:        "/api/v1/items",
		Summary:     "List generated items",
		Description: "Returns generated listing records, optionally filtered by generation status.",
		Tags:        []string{"items"},
	}, h.ListItems)

	huma.Register(api, huma.Operation{
		OperationID: "get-item",
		Method:      http.MethodGet,
		Path:        "/api/v1/items/{id}",
		Summary:     "Get an item by ID",
		Description: "Returns a single generated listing record.",
		Tags:        []string{"items"},
		Errors:      []int{http.StatusNotFound},
	}, h.GetItem)

	huma.Register(api, huma.Operation{
		OperationID: "delete-item",
		Method:      http.MethodDelete,
		Path:        "/api/v1/items/{id}",
		Summary:     "Delete an item",
		Description: "Removes a generated item and returns its photos to the ungrouped pool.",
		Tags:        []string{"items"},
		Errors:      []int{http.StatusNotFound},
	}, h.DeleteItem)
}
