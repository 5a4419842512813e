// Package listing normalizes opaque AI analysis payloads into canonical
// listing records. Extraction tries ordered field-name variants per
// concept, coerces types, and routes category/condition vocabulary
// through pkg/normalize, so downstream code never branches on raw AI
// output. When nothing usable is present it degrades to a deterministic
// fallback record instead of failing.
package listing

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/donaldgifford/relister/pkg/normalize"
	domain "github.com/donaldgifford/relister/pkg/types"
)

// DefaultPrice is used when neither market research nor the AI payload
// yields a usable price.
const DefaultPrice = 9.99

// PlaceholderTitle is the last-resort title when nothing can be derived
// from the payload.
const PlaceholderTitle = "Item - Manual Review Required"

// FallbackConfidence marks records synthesized without a usable analysis.
const FallbackConfidence = 0.1

// ErrEmptyPayload is returned when the AI payload is nil or has no fields.
var ErrEmptyPayload = errors.New("empty analysis payload")

// Canonical is a listing record after normalization. Category and
// condition are always members of their closed enumerations; price is
// always finite and non-negative; keywords are de-duplicated and capped.
type Canonical struct {
	Title       string
	Description string
	Price       float64
	Category    domain.Category
	Condition   domain.Condition
	Brand       string
	Size        string
	Color       string
	ModelNumber string
	Keywords    []string
	Confidence  float64
	Meta        domain.AnalysisMeta
}

// ExtractAndNormalize turns a raw AI payload into a canonical record.
// marketResearch and categoryAnalysis are optional enrichment payloads;
// either may be nil. The only error condition is a payload with nothing
// to extract from; the caller is expected to substitute Fallback then.
func ExtractAndNormalize(
	data map[string]any,
	marketResearch map[string]any,
	categoryAnalysis map[string]any,
) (Canonical, error) {
	if len(data) == 0 {
		return Canonical{}, ErrEmptyPayload
	}

	c := Canonical{
		Brand:       stringField(data, brandFields),
		Size:        stringField(data, sizeFields),
		Color:       stringField(data, colorFields),
		ModelNumber: stringField(data, modelFields),
	}

	rawCondition := stringField(data, conditionFields)
	c.Condition = normalize.Condition(rawCondition)

	rawCategory := resolveCategory(data, categoryAnalysis)
	c.Category = normalize.Category(rawCategory)

	c.Title = resolveTitle(data, &c)
	c.Description = resolveDescription(data, &c)
	c.Price = ResolvePrice(data, marketResearch)
	c.Keywords = MergeKeywords(collectKeywordSources(data)...)
	c.Confidence = resolveConfidence(data)

	c.Meta = domain.AnalysisMeta{
		Source:             "ai_analysis",
		DetectedFields:     data,
		MarketResearch:     marketResearch,
		CategoryAlternates: categoryAlternates(categoryAnalysis),
		RawCondition:       rawCondition,
		RawCategory:        rawCategory,
	}

	return c, nil
}

// Fallback synthesizes a deterministic safe record for a group whose
// analysis failed entirely. It always has a non-empty title referencing
// the SKU, default category/condition, and a low confidence score.
func Fallback(sku string) Canonical {
	title := PlaceholderTitle
	if sku != "" {
		title = fmt.Sprintf("Item %s - Manual Review Required", sku)
	}

	return Canonical{
		Title: title,
		Description: "Automatic analysis was not available for this item. " +
			"Review the photos and fill in the listing details manually.",
		Price:      DefaultPrice,
		Category:   domain.CategoryOther,
		Condition:  domain.ConditionGood,
		Keywords:   []string{},
		Confidence: FallbackConfidence,
		Meta:       domain.AnalysisMeta{Source: "fallback"},
	}
}

// ResolvePrice prefers a market-research-derived price over the AI's own
// estimate over DefaultPrice. Negative and non-finite values are rejected.
func ResolvePrice(data, marketResearch map[string]any) float64 {
	if p, ok := firstNumber(marketResearch, marketPriceFields); ok && usablePrice(p) {
		return p
	}
	if p, ok := firstNumber(data, priceFields); ok && usablePrice(p) {
		return p
	}
	return DefaultPrice
}

func usablePrice(p float64) bool {
	return p >= 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}

func stringField(data map[string]any, fields []string) string {
	s, _ := firstString(data, fields)
	return s
}

// resolveTitle takes the first title variant, then derives one from
// whatever descriptive fields are present, then falls back to the
// generic placeholder.
func resolveTitle(data map[string]any, c *Canonical) string {
	if title, ok := firstString(data, titleFields); ok {
		return title
	}

	parts := make([]string, 0, 4)
	if c.Brand != "" {
		parts = append(parts, c.Brand)
	}
	if c.Category != domain.CategoryOther {
		parts = append(parts, titleCase(string(c.Category)))
	}
	if c.Size != "" {
		parts = append(parts, "Size "+c.Size)
	}
	if len(parts) > 0 {
		parts = append(parts, "("+strings.ReplaceAll(string(c.Condition), "_", " ")+")")
		return strings.Join(parts, " ")
	}

	return PlaceholderTitle
}

func resolveDescription(data map[string]any, c *Canonical) string {
	if desc, ok := firstString(data, descriptionFields); ok {
		return desc
	}
	return fmt.Sprintf(
		"%s in %s condition. Details pending review.",
		c.Title, strings.ReplaceAll(string(c.Condition), "_", " "),
	)
}

// resolveCategory prefers the dedicated category-analysis payload over
// the main payload's category variants.
func resolveCategory(data, categoryAnalysis map[string]any) string {
	if cat, ok := firstString(categoryAnalysis, categoryFields); ok {
		return cat
	}
	return stringField(data, categoryFields)
}

func categoryAlternates(categoryAnalysis map[string]any) []string {
	if categoryAnalysis == nil {
		return nil
	}
	// The analysis prompt asks for "alternates"; older responses used
	// "alternatives". Accept either.
	v, ok := categoryAnalysis["alternates"]
	if !ok {
		v, ok = categoryAnalysis["alternatives"]
	}
	if !ok {
		return nil
	}
	switch alts := v.(type) {
	case []string:
		return alts
	case []any:
		out := make([]string, 0, len(alts))
		for _, a := range alts {
			if s, ok := a.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func resolveConfidence(data map[string]any) float64 {
	conf, ok := firstNumber(data, confidenceFields)
	if !ok || conf < 0 || conf > 1 || math.IsNaN(conf) {
		return 0.5
	}
	return conf
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
