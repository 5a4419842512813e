package vision_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/relister/internal/images"
	"github.com/donaldgifford/relister/internal/vision"
)

// fakeBackend returns a canned response and records the last request.
type fakeBackend struct {
	content string
	err     error
	lastReq vision.GenerateRequest
}

func (f *fakeBackend) Generate(
	_ context.Context,
	req vision.GenerateRequest,
) (vision.GenerateResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return vision.GenerateResponse{}, f.err
	}
	return vision.GenerateResponse{Content: f.content, Model: "fake"}, nil
}

func (*fakeBackend) Name() string { return "fake" }

// fakeSource serves image bytes from a map keyed by reference.
type fakeSource struct {
	refs map[string][]byte
}

func (f *fakeSource) Fetch(_ context.Context, ref string) (images.Image, error) {
	data, ok := f.refs[ref]
	if !ok {
		return images.Image{}, fmt.Errorf("no such object: %s", ref)
	}
	return images.Image{Data: data, MIME: "image/jpeg"}, nil
}

func twoPhotoSource() *fakeSource {
	return &fakeSource{refs: map[string][]byte{
		"p/front.jpg": []byte("front"),
		"p/back.jpg":  []byte("back"),
	}}
}

func TestExtractor_Analyze(t *testing.T) {
	t.Parallel()

	t.Run("successful analysis splits out sections", func(t *testing.T) {
		t.Parallel()

		backend := &fakeBackend{content: `{
			"title": "Nike Air Max 90",
			"condition": "good",
			"market_research": {"median_price": 55.0},
			"category_analysis": {"category": "shoes", "alternates": ["sports"]}
		}`}

		e := vision.NewExtractor(backend, twoPhotoSource())
		result, err := e.Analyze(context.Background(), vision.AnalyzeRequest{
			SKU:                     "SKU-1",
			PhotoRefs:               []string{"p/front.jpg", "p/back.jpg"},
			IncludeMarketResearch:   true,
			IncludeCategoryAnalysis: true,
		})
		require.NoError(t, err)
		require.True(t, result.Success)

		assert.Equal(t, "Nike Air Max 90", result.Data["title"])
		assert.NotContains(t, result.Data, "market_research")
		assert.NotContains(t, result.Data, "category_analysis")
		assert.Equal(t, 55.0, result.MarketResearch["median_price"])
		assert.Equal(t, "shoes", result.CategoryAnalysis["category"])

		// Both images were sent, primary first.
		require.Len(t, backend.lastReq.Images, 2)
		assert.Equal(t, []byte("front"), backend.lastReq.Images[0].Data)
	})

	t.Run("strips markdown fences", func(t *testing.T) {
		t.Parallel()

		backend := &fakeBackend{content: "```json\n{\"title\": \"Mug\"}\n```"}
		e := vision.NewExtractor(backend, twoPhotoSource())

		result, err := e.Analyze(context.Background(), vision.AnalyzeRequest{
			SKU:       "SKU-2",
			PhotoRefs: []string{"p/front.jpg"},
		})
		require.NoError(t, err)
		require.True(t, result.Success)
		assert.Equal(t, "Mug", result.Data["title"])
	})

	t.Run("backend failure is an unsuccessful result", func(t *testing.T) {
		t.Parallel()

		backend := &fakeBackend{err: fmt.Errorf("model overloaded")}
		e := vision.NewExtractor(backend, twoPhotoSource())

		result, err := e.Analyze(context.Background(), vision.AnalyzeRequest{
			SKU:       "SKU-3",
			PhotoRefs: []string{"p/front.jpg"},
		})
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Contains(t, result.Err, "model overloaded")
	})

	t.Run("non-JSON reply is an unsuccessful result", func(t *testing.T) {
		t.Parallel()

		backend := &fakeBackend{content: "I cannot identify this item."}
		e := vision.NewExtractor(backend, twoPhotoSource())

		result, err := e.Analyze(context.Background(), vision.AnalyzeRequest{
			SKU:       "SKU-4",
			PhotoRefs: []string{"p/front.jpg"},
		})
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Contains(t, result.Err, "parsing model JSON response")
	})

	t.Run("missing image is an unsuccessful result", func(t *testing.T) {
		t.Parallel()

		backend := &fakeBackend{content: `{}`}
		e := vision.NewExtractor(backend, twoPhotoSource())

		result, err := e.Analyze(context.Background(), vision.AnalyzeRequest{
			SKU:       "SKU-5",
			PhotoRefs: []string{"p/missing.jpg"},
		})
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Contains(t, result.Err, "fetching image")
	})

	t.Run("empty photo group is an unsuccessful result", func(t *testing.T) {
		t.Parallel()

		e := vision.NewExtractor(&fakeBackend{content: `{}`}, twoPhotoSource())
		result, err := e.Analyze(context.Background(), vision.AnalyzeRequest{SKU: "SKU-6"})
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Contains(t, result.Err, "no photos")
	})

	t.Run("daily limit surfaces as error", func(t *testing.T) {
		t.Parallel()

		e := vision.NewExtractor(&fakeBackend{content: `{}`}, twoPhotoSource(),
			vision.WithRateLimiter(vision.NewRateLimiter(1000, 10, 0)),
		)
		_, err := e.Analyze(context.Background(), vision.AnalyzeRequest{
			SKU:       "SKU-7",
			PhotoRefs: []string{"p/front.jpg"},
		})
		require.ErrorIs(t, err, vision.ErrDailyLimitReached)
	})

	t.Run("canceled context propagates", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		e := vision.NewExtractor(&fakeBackend{content: `{}`}, twoPhotoSource(),
			vision.WithRateLimiter(vision.NewRateLimiter(1000, 10, 100)),
		)
		_, err := e.Analyze(ctx, vision.AnalyzeRequest{
			SKU:       "SKU-8",
			PhotoRefs: []string{"p/front.jpg"},
		})
		require.Error(t, err)
	})
}

func TestRenderAnalyzePrompt(t *testing.T) {
	t.Parallel()

	t.Run("base prompt", func(t *testing.T) {
		t.Parallel()
		prompt, err := vision.RenderAnalyzePrompt("SKU-9", 1, false, false)
		require.NoError(t, err)
		assert.Contains(t, prompt, "SKU-9")
		assert.Contains(t, prompt, `"title"`)
		assert.NotContains(t, prompt, "market_research")
		assert.NotContains(t, prompt, "category_analysis")
	})

	t.Run("with optional sections", func(t *testing.T) {
		t.Parallel()
		prompt, err := vision.RenderAnalyzePrompt("SKU-10", 3, true, true)
		require.NoError(t, err)
		assert.Contains(t, prompt, "market_research")
		assert.Contains(t, prompt, "category_analysis")
		assert.Contains(t, prompt, "photos")
	})
}
