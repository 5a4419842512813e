package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/relister/internal/store"
	domain "github.com/donaldgifford/relister/pkg/types"
)

// PhotosHandler handles photo registration, listing, and SKU assignment.
type PhotosHandler struct {
	store store.Store
}

// NewPhotosHandler creates a new PhotosHandler.
func NewPhotosHandler(s store.Store) *PhotosHandler {
	return &PhotosHandler{store: s}
}

// --- Input/Output types ---

// RegisterPhotoInput is the input for registering an uploaded photo.
type RegisterPhotoInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Owner scope, defaults to 'default'"`
	Body    struct {
		ImageRef    string `json:"image_ref"    doc:"Storage reference for the image" required:"true" minLength:"1"`
		Filename    string `json:"filename"     doc:"Original filename"`
		UploadOrder int    `json:"upload_order" doc:"Position within the upload batch" minimum:"0"`
		SKU         string `json:"sku,omitempty" doc:"Optional grouping identifier to assign immediately"`
	}
}

// RegisterPhotoOutput is the response for registering a photo.
type RegisterPhotoOutput struct {
	Body domain.PhotoRecord
}

// ListPhotosInput is the input for listing photos with optional filters.
type ListPhotosInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Owner scope, defaults to 'default'"`
	SKU     string `query:"sku"     doc:"Filter by grouping identifier"`
	Status  string `query:"status"  doc:"Filter by photo status"           enum:"uploaded,assigned,processed,"`
	Grouped string `query:"grouped" doc:"Filter by presence of a SKU"      enum:"true,false,"`
	Limit   int    `query:"limit"   doc:"Number of results (default 200)"  minimum:"1" maximum:"1000"`
	Offset  int    `query:"offset"  doc:"Pagination offset"                minimum:"0"`
}

// ListPhotosOutput is the response for listing photos.
type ListPhotosOutput struct {
	Body struct {
		Photos []domain.PhotoRecord `json:"photos"`
		Total  int                  `json:"total"`
	}
}

// AssignSKUInput is the input for assigning or clearing a photo's SKU.
// An empty SKU clears the assignment and returns the photo to uploaded.
type AssignSKUInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Owner scope, defaults to 'default'"`
	ID      string `path:"id"           doc:"Photo ID"`
	Body    struct {
		SKU string `json:"sku" doc:"Grouping identifier, empty to clear"`
	}
}

// AssignSKUOutput is the response for SKU assignment.
type AssignSKUOutput struct {
	Body domain.PhotoRecord
}

// --- Handlers ---

// RegisterPhoto records an uploaded photo for later grouping.
func (h *PhotosHandler) RegisterPhoto(
	ctx context.Context,
	input *RegisterPhotoInput,
) (*RegisterPhotoOutput, error) {
	photo := domain.PhotoRecord{
		OwnerID:     ownerOrDefault(input.OwnerID),
		ImageRef:    input.Body.ImageRef,
		Filename:    input.Body.Filename,
		UploadOrder: input.Body.UploadOrder,
	}

	if input.Body.SKU != "" {
		sku := input.Body.SKU
		photo.SKU = &sku
		photo.Status = domain.PhotoAssigned
	}

	if err := h.store.CreatePhoto(ctx, &photo); err != nil {
		return nil, huma.Error500InternalServerError("photo registration failed: " + err.Error())
	}

	return &RegisterPhotoOutput{Body: photo}, nil
}

// ListPhotos returns the owner's photos with optional SKU, status, and
// grouping filters, ordered by SKU then upload order.
func (h *PhotosHandler) ListPhotos(
	ctx context.Context,
	input *ListPhotosInput,
) (*ListPhotosOutput, error) {
	q := &store.PhotoQuery{Offset: input.Offset}

	if input.SKU != "" {
		q.SKU = &input.SKU
	}

	if input.Status != "" {
		status := domain.PhotoStatus(input.Status)
		q.Status = &status
	}

	if input.Grouped != "" {
		grouped := input.Grouped == "true"
		q.HasSKU = &grouped
	}

	if input.Limit != 0 {
		q.Limit = input.Limit
	}

	photos, err := h.store.ListPhotos(ctx, ownerOrDefault(input.OwnerID), q)
	if err != nil {
		return nil, huma.Error500InternalServerError("photo query failed: " + err.Error())
	}

	resp := &ListPhotosOutput{}
	resp.Body.Photos = photos
	resp.Body.Total = len(photos)

	return resp, nil
}

// AssignSKU sets or clears the grouping identifier on a photo.
func (h *PhotosHandler) AssignSKU(
	ctx context.Context,
	input *AssignSKUInput,
) (*AssignSKUOutput, error) {
	ownerID := ownerOrDefault(input.OwnerID)

	var sku *string
	if input.Body.SKU != "" {
		sku = &input.Body.SKU
	}

	if err := h.store.UpdatePhotoSKU(ctx, ownerID, input.ID, sku); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("photo not found")
		}
		return nil, huma.Error500InternalServerError("sku assignment failed: " + err.Error())
	}

	photo, err := h.store.GetPhoto(ctx, ownerID, input.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("photo fetch failed: " + err.Error())
	}

	return &AssignSKUOutput{Body: *photo}, nil
}

// RegisterPhotoRoutes registers photo endpoints with the Huma API.
func RegisterPhotoRoutes(api huma.API, h *PhotosHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "register-photo",
		Method:        http.MethodPost,
		Path:          "/api/v1/photos",
		Summary:       "Register an uploaded photo",
		Description:   "Records an uploaded photo so it can be grouped into a listing candidate.",
		Tags:          []string{"photos"},
		DefaultStatus: http.StatusCreated,
	}, h.RegisterPhoto)

	huma.Register(api, huma.Operation{
		OperationID: "list-photos",
		Method:      http.MethodGet,
		Path:        "/api/v1/photos",
		Summary:     "List photos",
		Description: "Returns photos with optional SKU, status, and grouping filters.",
		Tags:        []string{"photos"},
	}, h.ListPhotos)

	huma.Register(api, huma.Operation{
		OperationID: "assign-photo-sku",
		Method:      http.MethodPut,
		Path:        "/api/v1/photos/{id}/sku",
		Summary:     "Assign or clear a photo's SKU",
		Description: "Sets the grouping identifier on a photo. An empty SKU clears the assignment.",
		Tags:        []string{"photos"},
		Errors:      []int{http.StatusNotFound},
	}, h.AssignSKU)
}
