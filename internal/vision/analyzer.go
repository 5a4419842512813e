package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/donaldgifford/relister/internal/images"
)

// AnalyzeRequest describes one SKU group to analyze. PhotoRefs must list
// the primary photo first.
type AnalyzeRequest struct {
	SKU                     string
	PhotoRefs               []string
	IncludeMarketResearch   bool
	IncludeCategoryAnalysis bool
}

// AnalyzeResult is the outcome of a vision analysis. Success is false
// when the model call or response parsing failed; Err then carries a
// short description and the maps are nil.
type AnalyzeResult struct {
	Success          bool
	Data             map[string]any
	MarketResearch   map[string]any
	CategoryAnalysis map[string]any
	Err              string
}

// Analyzer turns a group of product photos into raw listing data.
type Analyzer interface {
	Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error)
}

// Extractor implements Analyzer over a multimodal Backend. Image bytes
// are resolved through an images.Source; calls pass through an optional
// RateLimiter.
type Extractor struct {
	backend     Backend
	source      images.Source
	limiter     *RateLimiter
	temperature float64
	maxTokens   int
}

// ExtractorOption configures the Extractor.
type ExtractorOption func(*Extractor)

// WithRateLimiter attaches a rate limiter consulted before each call.
func WithRateLimiter(l *RateLimiter) ExtractorOption {
	return func(e *Extractor) {
		e.limiter = l
	}
}

// WithTemperature sets the model temperature for analysis.
func WithTemperature(t float64) ExtractorOption {
	return func(e *Extractor) {
		e.temperature = t
	}
}

// WithMaxTokens sets the max tokens for model responses.
func WithMaxTokens(n int) ExtractorOption {
	return func(e *Extractor) {
		e.maxTokens = n
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(backend Backend, source images.Source, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		backend:     backend,
		source:      source,
		temperature: 0.2,
		maxTokens:   1024,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze fetches the group's photos, calls the vision backend, and
// parses the JSON reply. A non-nil error is returned only for rate
// limit exhaustion or context cancellation; model and parsing failures
// come back as an unsuccessful result so callers can fall back without
// aborting a batch.
func (e *Extractor) Analyze(
	ctx context.Context,
	req AnalyzeRequest,
) (*AnalyzeResult, error) {
	if len(req.PhotoRefs) == 0 {
		return failed("no photos in group"), nil
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	imgs := make([]images.Image, 0, len(req.PhotoRefs))
	for _, ref := range req.PhotoRefs {
		img, err := e.source.Fetch(ctx, ref)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return failed(fmt.Sprintf("fetching image %s: %v", ref, err)), nil
		}
		imgs = append(imgs, img)
	}

	prompt, err := RenderAnalyzePrompt(
		req.SKU, len(imgs),
		req.IncludeMarketResearch, req.IncludeCategoryAnalysis,
	)
	if err != nil {
		return failed(err.Error()), nil
	}

	resp, err := e.backend.Generate(ctx, GenerateRequest{
		Prompt:      prompt,
		SystemMsg:   systemPrompt,
		Images:      imgs,
		Temperature: e.temperature,
		MaxTokens:   e.maxTokens,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return failed(fmt.Sprintf("calling %s backend: %v", e.backend.Name(), err)), nil
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(stripFences(resp.Content)), &data); err != nil {
		return failed(fmt.Sprintf("parsing model JSON response: %v", err)), nil
	}

	result := &AnalyzeResult{Success: true, Data: data}
	if mr, ok := data["market_research"].(map[string]any); ok {
		result.MarketResearch = mr
		delete(data, "market_research")
	}
	if ca, ok := data["category_analysis"].(map[string]any); ok {
		result.CategoryAnalysis = ca
		delete(data, "category_analysis")
	}
	return result, nil
}

func failed(msg string) *AnalyzeResult {
	return &AnalyzeResult{Success: false, Err: msg}
}

// stripFences removes a markdown code fence wrapper, which vision models
// add around JSON despite instructions not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
