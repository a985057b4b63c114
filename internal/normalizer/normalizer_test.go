package normalizer

import (
	"context"
	"testing"
	"time"

	"github.com/shopsense-ai/query-normalizer/internal/cache"
	"github.com/shopsense-ai/query-normalizer/internal/observability"
	"github.com/shopsense-ai/query-normalizer/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNormalizer() *Normalizer {
	return New(observability.Nop(), nil, DefaultConfig())
}

func TestNormalizer_Normalize_CompleteQuerySkipsClarification(t *testing.T) {
	n := newNormalizer()

	result, err := n.Normalize(context.Background(), "Waterproof earbuds under 5000 for outdoor activities", nil)
	require.NoError(t, err)

	assert.Equal(t, schema.ProductEarbuds, result.ParsedQuery.ProductType)
	assert.True(t, result.ParsedQuery.IsComplete)
	assert.True(t, result.IsValid)
	assert.Empty(t, result.ClarificationsMade)
}

func TestNormalizer_Normalize_AmbiguousQueryEntersClarification(t *testing.T) {
	n := newNormalizer()

	result, err := n.Normalize(context.Background(), "gaming laptop", map[string]string{
		schema.FieldPriceRange: "75000",
	})
	require.NoError(t, err)

	require.NotNil(t, result.ParsedQuery.PriceRange)
	assert.InDelta(t, 52500.0, result.ParsedQuery.PriceRange.Min, 0.01)
	assert.InDelta(t, 75000.0, result.ParsedQuery.PriceRange.Max, 0.01)
	require.Len(t, result.ClarificationsMade, 1)
}

func TestNormalizer_Normalize_ResponsesWithoutMatchingAmbiguity(t *testing.T) {
	n := newNormalizer()

	// The query is fully unambiguous; coincidental responses are applied
	// against nothing and change nothing.
	result, err := n.Normalize(context.Background(), "Waterproof earbuds under 5000 for outdoor activities", map[string]string{
		schema.FieldProductType: "laptop",
	})
	require.NoError(t, err)

	assert.Equal(t, schema.ProductEarbuds, result.ParsedQuery.ProductType)
	assert.Empty(t, result.ClarificationsMade)
}

func TestNormalizer_Ambiguities(t *testing.T) {
	n := newNormalizer()

	reqs := n.Ambiguities("gaming laptop")
	assert.NotEmpty(t, reqs)

	reqs = n.Ambiguities("Waterproof earbuds under 5000 for outdoor activities")
	assert.Empty(t, reqs)
}

func TestNormalizer_Summary(t *testing.T) {
	n := newNormalizer()

	summary := n.Summary("gaming laptop")
	assert.Contains(t, summary, "Product: laptop")
	assert.Contains(t, summary, "Price: Not specified")
	assert.Contains(t, summary, "Budget")
}

func TestNormalizer_Normalize_CachesResults(t *testing.T) {
	mem := cache.NewMemoryClient(10)
	cfg := DefaultConfig()
	cfg.CacheResults = true
	cfg.CacheTTL = time.Minute
	n := New(observability.Nop(), mem, cfg)

	ctx := context.Background()
	first, err := n.Normalize(ctx, "Best headphones around 4k for gym", nil)
	require.NoError(t, err)

	second, err := n.Normalize(ctx, "Best headphones around 4k for gym", nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNormalizer_CacheKeyDependsOnResponses(t *testing.T) {
	withResponses := resultKey("gaming laptop", map[string]string{schema.FieldPriceRange: "75000"})
	without := resultKey("gaming laptop", nil)
	assert.NotEqual(t, withResponses, without)

	// Key derivation is order-independent over response fields.
	a := resultKey("q", map[string]string{"a": "1", "b": "2"})
	b := resultKey("q", map[string]string{"b": "2", "a": "1"})
	assert.Equal(t, a, b)
}
