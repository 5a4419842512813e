package listing

import (
	"strconv"
	"strings"
)

// Field variant lists. Upstream AI responses are schema-free; each concept
// has been observed under several field names. Extraction tries each list
// in order and takes the first present, non-null value.
var (
	titleFields = []string{
		"title", "suggested_title", "name", "item_name", "listing_title",
		"product_name",
	}
	descriptionFields = []string{
		"description", "suggested_description", "item_description",
		"details", "summary",
	}
	priceFields = []string{
		"price", "suggested_price", "estimated_price", "price_estimate",
		"estimated_value", "value",
	}
	marketPriceFields = []string{
		"suggested_price", "median_price", "market_price", "average_price",
		"comparable_price",
	}
	brandFields = []string{
		"brand", "brand_name", "manufacturer", "maker", "label",
	}
	sizeFields = []string{
		"size", "item_size", "size_label", "dimensions",
	}
	colorFields = []string{
		"color", "colour", "primary_color", "color_name",
	}
	modelFields = []string{
		"model_number", "model", "model_no", "mpn", "style_number",
	}
	conditionFields = []string{
		"condition", "item_condition", "condition_estimate", "condition_rating",
	}
	categoryFields = []string{
		"category", "item_category", "product_category", "suggested_category",
		"type",
	}
	keywordFields = []string{
		"keywords", "tags", "search_terms", "features",
	}
	confidenceFields = []string{
		"confidence", "confidence_score", "certainty",
	}
)

// firstString returns the first non-empty string value among the given
// field names.
func firstString(data map[string]any, fields []string) (string, bool) {
	for _, f := range fields {
		if s, ok := fieldString(data, f); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// firstNumber returns the first coercible numeric value among the given
// field names.
func firstNumber(data map[string]any, fields []string) (float64, bool) {
	for _, f := range fields {
		if n, ok := fieldFloat(data, f); ok {
			return n, true
		}
	}
	return 0, false
}

// fieldString extracts a string field, returning false if absent, nil,
// or not a string.
func fieldString(data map[string]any, key string) (string, bool) {
	v, ok := data[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// fieldFloat extracts a numeric field, handling float64, int, and numeric
// strings with an optional currency prefix ("$24.99").
func fieldFloat(data map[string]any, key string) (float64, bool) {
	v, ok := data[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(n), "$"))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
