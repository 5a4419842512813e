package client

import (
	"context"
	"net/url"

	domain "github.com/donaldgifford/relister/pkg/types"
)

// photoListResponse mirrors the list photos response body.
type photoListResponse struct {
	Photos []domain.PhotoRecord `json:"photos"`
	Total  int                  `json:"total"`
}

// RegisterPhoto records an uploaded photo on the server.
func (c *Client) RegisterPhoto(
	ctx context.Context,
	imageRef, filename string,
	uploadOrder int,
	sku string,
) (*domain.PhotoRecord, error) {
	body := map[string]any{
		"image_ref":    imageRef,
		"filename":     filename,
		"upload_order": uploadOrder,
	}
	if sku != "" {
		body["sku"] = sku
	}

	var photo domain.PhotoRecord
	if err := c.post(ctx, "/api/v1/photos", body, &photo); err != nil {
		return nil, err
	}
	return &photo, nil
}

// ListPhotos returns photos, optionally filtered by SKU.
func (c *Client) ListPhotos(ctx context.Context, sku string) ([]domain.PhotoRecord, error) {
	path := "/api/v1/photos"
	if sku != "" {
		path += "?sku=" + url.QueryEscape(sku)
	}

	var resp photoListResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Photos, nil
}

// AssignSKU sets the grouping identifier on a photo. An empty SKU clears it.
func (c *Client) AssignSKU(ctx context.Context, photoID, sku string) (*domain.PhotoRecord, error) {
	body := map[string]string{"sku": sku}

	var photo domain.PhotoRecord
	if err := c.put(ctx, "/api/v1/photos/"+photoID+"/sku", body, &photo); err != nil {
		return nil, err
	}
	return &photo, nil
}
