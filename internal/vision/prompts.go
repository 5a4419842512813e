package vision

import (
	"bytes"
	"fmt"
	"text/template"
)

// systemPrompt frames the model as a reseller listing assistant.
const systemPrompt = `You are an expert reseller assistant. You analyze product photos
and produce marketplace listing data as JSON. Respond ONLY with a single JSON object.`

// analyzeTmpl is the listing analysis prompt template. The first image
// is the primary product photo; any others show additional angles, tags,
// or labels for the same item.
const analyzeTmpl = `Analyze the product shown in the attached photo{{if gt .PhotoCount 1}}s{{end}}
and produce a marketplace listing. The first photo is the primary view.
Item SKU: {{.SKU}}

Respond ONLY with a JSON object matching the schema below.
If a field cannot be determined, use null.

Schema:
{
  "title": string (compelling, under 80 characters),
  "description": string (2-4 sentences, honest about visible flaws),
  "suggested_price": number (USD) | null,
  "category": "clothing" | "shoes" | "accessories" | "electronics" | "home" | "toys" | "books" | "sports" | "beauty" | "other",
  "condition": "new" | "like_new" | "good" | "fair" | "poor",
  "brand": string | null,
  "size": string | null,
  "color": string | null,
  "model_number": string | null,
  "keywords": [string] (up to 10 search terms),
  "confidence": float (0.0-1.0)
}{{if .IncludeMarketResearch}}

Also include a "market_research" object:
{
  "median_price": number (USD, typical sold price for comparable items) | null,
  "price_range_low": number | null,
  "price_range_high": number | null,
  "demand": "high" | "medium" | "low" | null
}{{end}}{{if .IncludeCategoryAnalysis}}

Also include a "category_analysis" object:
{
  "category": string (best marketplace category),
  "alternates": [string] (other plausible categories, best first)
}{{end}}`

var analyzeTemplate = template.Must(template.New("analyze").Parse(analyzeTmpl))

type analyzePromptData struct {
	SKU                     string
	PhotoCount              int
	IncludeMarketResearch   bool
	IncludeCategoryAnalysis bool
}

// RenderAnalyzePrompt produces the listing analysis prompt for a SKU group.
func RenderAnalyzePrompt(
	sku string,
	photoCount int,
	includeMarketResearch, includeCategoryAnalysis bool,
) (string, error) {
	var buf bytes.Buffer
	err := analyzeTemplate.Execute(&buf, analyzePromptData{
		SKU:                     sku,
		PhotoCount:              photoCount,
		IncludeMarketResearch:   includeMarketResearch,
		IncludeCategoryAnalysis: includeCategoryAnalysis,
	})
	if err != nil {
		return "", fmt.Errorf("rendering analyze prompt: %w", err)
	}
	return buf.String(), nil
}
