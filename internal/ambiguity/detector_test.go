package ambiguity

import (
	"testing"

	"github.com/shopsense-ai/query-normalizer/internal/parser"
	"github.com/shopsense-ai/query-normalizer/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldNames(reqs []schema.ClarificationRequest) []string {
	names := make([]string, 0, len(reqs))
	for _, r := range reqs {
		names = append(names, r.FieldName)
	}
	return names
}

func TestDetector_Detect_VagueQuery(t *testing.T) {
	p := parser.New()
	d := New()

	q := p.Parse("best product")
	reqs := d.Detect(q)

	names := fieldNames(reqs)
	assert.Contains(t, names, schema.FieldProductType)
	assert.Contains(t, names, schema.FieldPriceRange)
	assert.Contains(t, names, schema.FieldUsageContext)
	assert.Contains(t, names, schema.FieldFeaturePreferences)
	assert.Contains(t, names, schema.FieldGeneral)
	assert.True(t, d.IsAmbiguous(q))
}

func TestDetector_Detect_CompleteQuery(t *testing.T) {
	p := parser.New()
	d := New()

	q := p.Parse("Waterproof earbuds under 5000 for outdoor activities")
	reqs := d.Detect(q)
	assert.Empty(t, reqs)
	assert.False(t, d.IsAmbiguous(q))
}

func TestDetector_Detect_ProductOptions(t *testing.T) {
	d := New()

	q := schema.ParsedQuery{ProductType: schema.ProductUnknown, ConfidenceScore: 0.9}
	reqs := d.Detect(q)

	var productReq *schema.ClarificationRequest
	for i := range reqs {
		if reqs[i].FieldName == schema.FieldProductType {
			productReq = &reqs[i]
		}
	}
	require.NotNil(t, productReq)
	assert.Len(t, productReq.Options, len(schema.ProductTypes))
	assert.NotContains(t, productReq.Options, string(schema.ProductUnknown))
}

func TestDetector_Detect_FeatureSuggestionsPerProduct(t *testing.T) {
	d := New()

	pr, err := schema.NewPriceRange(2000, 4000)
	require.NoError(t, err)

	q := schema.ParsedQuery{
		ProductType:     schema.ProductEarbuds,
		PriceRange:      pr,
		UsageContext:    []schema.UsageContext{schema.ContextGym},
		ConfidenceScore: 0.9,
	}

	reqs := d.Detect(q)
	require.Len(t, reqs, 1)
	assert.Equal(t, schema.FieldFeaturePreferences, reqs[0].FieldName)
	assert.Contains(t, reqs[0].Options, "transparent mode")
}

func TestDetector_Detect_GenericFeatureFallback(t *testing.T) {
	d := New()

	pr, err := schema.NewPriceRange(7000, 10000)
	require.NoError(t, err)

	// Watch has no dedicated suggestion list.
	q := schema.ParsedQuery{
		ProductType:     schema.ProductWatch,
		PriceRange:      pr,
		UsageContext:    []schema.UsageContext{schema.ContextGym},
		ConfidenceScore: 0.9,
	}

	reqs := d.Detect(q)
	require.Len(t, reqs, 1)
	assert.Equal(t, []string{"high quality", "affordable", "durable"}, reqs[0].Options)
}

func TestDetector_Detect_LowConfidence(t *testing.T) {
	d := New()

	pr, err := schema.NewPriceRange(2000, 4000)
	require.NoError(t, err)

	q := schema.ParsedQuery{
		ProductType:        schema.ProductHeadphones,
		PriceRange:         pr,
		UsageContext:       []schema.UsageContext{schema.ContextGym},
		FeaturePreferences: []string{"wireless"},
		ConfidenceScore:    0.5,
	}

	reqs := d.Detect(q)
	require.Len(t, reqs, 1)
	assert.Equal(t, schema.FieldGeneral, reqs[0].FieldName)
	assert.Contains(t, reqs[0].Question, "50.0%")
}

func TestDetector_Detect_Idempotent(t *testing.T) {
	p := parser.New()
	d := New()

	q := p.Parse("gaming laptop")
	first := d.Detect(q)
	second := d.Detect(q)
	assert.Equal(t, first, second)
}

func TestDetector_Summary(t *testing.T) {
	p := parser.New()
	d := New()

	complete := p.Parse("Waterproof earbuds under 5000 for outdoor activities")
	assert.Equal(t, "Query is clear and complete.", d.Summary(complete))

	vague := p.Parse("gaming laptop")
	summary := d.Summary(vague)
	assert.Contains(t, summary, "Budget")
	assert.Contains(t, summary, "Features")
}
