package seo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/donaldgifford/relister/internal/vision"
)

// keywordsTmpl asks the model for search keywords given listing context.
const keywordsTmpl = `Suggest marketplace search keywords for this listing.

Title: {{.Title}}
{{if .Brand}}Brand: {{.Brand}}
{{end}}Category: {{.Category}}

Respond ONLY with a JSON array of up to 10 short lowercase search terms
buyers would actually type. No explanations.`

var keywordsTemplate = template.Must(template.New("keywords").Parse(keywordsTmpl))

// ModelEnricher implements Enricher over a vision backend. It is text-only;
// the listing context from analysis is enough signal without re-sending
// image bytes.
type ModelEnricher struct {
	backend   vision.Backend
	maxTokens int
}

// NewModelEnricher creates a model-backed keyword enricher.
func NewModelEnricher(backend vision.Backend) *ModelEnricher {
	return &ModelEnricher{backend: backend, maxTokens: 256}
}

// Enrich asks the model for search keywords.
func (e *ModelEnricher) Enrich(ctx context.Context, req EnrichRequest) ([]string, error) {
	var buf bytes.Buffer
	if err := keywordsTemplate.Execute(&buf, req); err != nil {
		return nil, fmt.Errorf("rendering keywords prompt: %w", err)
	}

	resp, err := e.backend.Generate(ctx, vision.GenerateRequest{
		Prompt:      buf.String(),
		Temperature: 0.3,
		MaxTokens:   e.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("calling %s backend for keywords: %w", e.backend.Name(), err)
	}

	content := strings.TrimSpace(resp.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")

	var keywords []string
	if err := json.Unmarshal([]byte(content), &keywords); err != nil {
		return nil, fmt.Errorf("parsing keywords response: %w", err)
	}
	return keywords, nil
}
