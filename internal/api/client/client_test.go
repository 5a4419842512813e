package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/relister/internal/pipeline"
	domain "github.com/donaldgifford/relister/pkg/types"
)

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:1") // nothing listening
	_, err := c.ListItems(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API server not running")
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListItems(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error (HTTP 500)")
}

func TestClient_RegisterPhoto(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/photos", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "alice", r.Header.Get("X-Owner-ID"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "photos/a-1.jpg", body["image_ref"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(domain.PhotoRecord{
			ID:       "p1",
			ImageRef: "photos/a-1.jpg",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, WithOwner("alice"))
	photo, err := c.RegisterPhoto(context.Background(), "photos/a-1.jpg", "a-1.jpg", 0, "")
	require.NoError(t, err)
	assert.Equal(t, "p1", photo.ID)
}

func TestClient_ListPhotos(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/photos", r.URL.Path)
		assert.Equal(t, "A-SKU", r.URL.Query().Get("sku"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(photoListResponse{
			Photos: []domain.PhotoRecord{{ID: "p1"}, {ID: "p2"}},
			Total:  2,
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	photos, err := c.ListPhotos(context.Background(), "A-SKU")
	require.NoError(t, err)
	assert.Len(t, photos, 2)
}

func TestClient_AssignSKU(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/photos/p1/sku", r.URL.Path)

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "A-SKU", body["sku"])

		sku := body["sku"]
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.PhotoRecord{ID: "p1", SKU: &sku})
	}))
	defer srv.Close()

	c := New(srv.URL)
	photo, err := c.AssignSKU(context.Background(), "p1", "A-SKU")
	require.NoError(t, err)
	require.NotNil(t, photo.SKU)
	assert.Equal(t, "A-SKU", *photo.SKU)
}

func TestClient_GenerateAll(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/generate", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(GenerateReport{
			Results:   []pipeline.Result{{SKU: "A-SKU", Status: domain.ItemReady}},
			Generated: 1,
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	report, err := c.GenerateAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Generated)
	assert.Len(t, report.Results, 1)
}

func TestClient_DeleteItem(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/items/i1", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.DeleteItem(context.Background(), "i1"))
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()

	custom := &http.Client{}
	c := New("http://example.com", WithHTTPClient(custom))
	assert.Same(t, custom, c.httpClient)
}
