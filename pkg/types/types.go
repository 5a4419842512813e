// Package domain defines the core business types for relister.
package domain

import (
	"strings"
	"time"
)

// Category represents the normalized marketplace category of an item.
type Category string

// Category constants.
const (
	CategoryClothing    Category = "clothing"
	CategoryShoes       Category = "shoes"
	CategoryAccessories Category = "accessories"
	CategoryElectronics Category = "electronics"
	CategoryHome        Category = "home"
	CategoryToys        Category = "toys"
	CategoryBooks       Category = "books"
	CategorySports      Category = "sports"
	CategoryBeauty      Category = "beauty"
	CategoryOther       Category = "other"
)

// Condition represents the normalized item condition.
type Condition string

// Condition constants.
const (
	ConditionNew     Condition = "new"
	ConditionLikeNew Condition = "like_new"
	ConditionGood    Condition = "good"
	ConditionFair    Condition = "fair"
	ConditionPoor    Condition = "poor"
)

// PhotoStatus represents the lifecycle of an uploaded photo.
type PhotoStatus string

// Photo status constants.
const (
	PhotoUploaded  PhotoStatus = "uploaded"
	PhotoAssigned  PhotoStatus = "assigned"
	PhotoProcessed PhotoStatus = "processed"
)

// ItemStatus represents the generation lifecycle of a listing candidate.
type ItemStatus string

// Item status constants.
const (
	ItemNotStarted     ItemStatus = "not_started"
	ItemAnalyzing      ItemStatus = "analyzing"
	ItemReady          ItemStatus = "ready"
	ItemNeedsAttention ItemStatus = "needs_attention"
	ItemComplete       ItemStatus = "complete"
)

// Generatable reports whether a new generation attempt may be launched
// from this status.
func (s ItemStatus) Generatable() bool {
	return s == ItemNotStarted || s == ItemNeedsAttention
}

// PhotoRecord is an uploaded image owned by a user. The SKU is the
// user-chosen grouping key; ItemID is set once a listing has been
// generated from the photo's group.
type PhotoRecord struct {
	ID          string      `json:"id"                db:"id"`
	OwnerID     string      `json:"owner_id"          db:"owner_id"`
	ImageRef    string      `json:"image_ref"         db:"image_ref"`
	Filename    string      `json:"filename"          db:"filename"`
	UploadOrder int         `json:"upload_order"      db:"upload_order"`
	SKU         *string     `json:"sku,omitempty"     db:"sku"`
	ItemID      *string     `json:"item_id,omitempty" db:"item_id"`
	Status      PhotoStatus `json:"status"            db:"status"`
	CreatedAt   time.Time   `json:"created_at"        db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"        db:"updated_at"`
}

// SKUGroup is the ordered set of photos sharing one grouping identifier.
// Derived on every fetch, never persisted. Photos are ordered by upload
// order; Photos[0] is the primary/analysis photo.
type SKUGroup struct {
	SKU    string        `json:"sku"`
	Photos []PhotoRecord `json:"photos"`
}

// Primary returns the primary photo of the group.
func (g *SKUGroup) Primary() *PhotoRecord {
	if len(g.Photos) == 0 {
		return nil
	}
	return &g.Photos[0]
}

// PhotoRefs returns the image refs of the group in upload order.
func (g *SKUGroup) PhotoRefs() []string {
	refs := make([]string, len(g.Photos))
	for i := range g.Photos {
		refs[i] = g.Photos[i].ImageRef
	}
	return refs
}

// PendingIDPrefix marks item IDs that have not been persisted yet.
const PendingIDPrefix = "pending-"

// PendingID returns the placeholder id for a not-yet-persisted candidate.
func PendingID(sku string) string {
	return PendingIDPrefix + sku
}

// IsPending reports whether an item id is a pre-persistence placeholder.
func IsPending(id string) bool {
	return strings.HasPrefix(id, PendingIDPrefix)
}

// AnalysisMeta preserves provenance of a generated listing: the fields
// the AI detected, market research comparisons, category alternatives,
// and which path produced the record.
type AnalysisMeta struct {
	Source             string         `json:"source"` // "ai_analysis" or "fallback"
	DetectedFields     map[string]any `json:"detected_fields,omitempty"`
	MarketResearch     map[string]any `json:"market_research,omitempty"`
	CategoryAlternates []string       `json:"category_alternates,omitempty"`
	RawCondition       string         `json:"raw_condition,omitempty"`
	RawCategory        string         `json:"raw_category,omitempty"`
}

// GeneratedItem is a listing candidate or durable listing record. Before
// persistence its ID carries the pending prefix; afterwards it is a UUID.
type GeneratedItem struct {
	ID              string       `json:"id"                         db:"id"`
	OwnerID         string       `json:"owner_id"                   db:"owner_id"`
	SKU             string       `json:"sku"                        db:"sku"`
	PhotoRefs       []string     `json:"photo_refs"                 db:"photo_refs"`
	PrimaryPhoto    string       `json:"primary_photo"              db:"primary_photo"`
	Title           string       `json:"title"                      db:"title"`
	Description     string       `json:"description"                db:"description"`
	Price           float64      `json:"price"                      db:"price"`
	Category        Category     `json:"category"                   db:"category"`
	Condition       Condition    `json:"condition"                  db:"condition"`
	Brand           string       `json:"brand,omitempty"            db:"brand"`
	Size            string       `json:"size,omitempty"             db:"size"`
	Color           string       `json:"color,omitempty"            db:"color"`
	ModelNumber     string       `json:"model_number,omitempty"     db:"model_number"`
	Keywords        []string     `json:"keywords"                   db:"keywords"`
	Confidence      float64      `json:"confidence"                 db:"confidence"`
	Meta            AnalysisMeta `json:"analysis_metadata"          db:"analysis_metadata"`
	Status          ItemStatus   `json:"status"                     db:"status"`
	GenerationError string       `json:"generation_error,omitempty" db:"generation_error"`
	UpdatedAt       time.Time    `json:"last_updated"               db:"updated_at"`
}
