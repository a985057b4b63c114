package validate

import (
	"testing"

	"github.com/shopsense-ai/query-normalizer/internal/parser"
	"github.com/shopsense-ai/query-normalizer/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_ValidatePriceRange_Valid(t *testing.T) {
	v := New()

	pr, err := schema.NewPriceRange(2000, 5000)
	require.NoError(t, err)

	ok, errs, warnings := v.ValidatePriceRange(pr)
	assert.True(t, ok)
	assert.Empty(t, errs)
	assert.Empty(t, warnings)
}

func TestValidator_ValidatePriceRange_NilIsValid(t *testing.T) {
	v := New()

	ok, errs, warnings := v.ValidatePriceRange(nil)
	assert.True(t, ok)
	assert.Empty(t, errs)
	assert.Empty(t, warnings)
}

func TestValidator_ValidatePriceRange_Negative(t *testing.T) {
	v := New()

	ok, errs, _ := v.ValidatePriceRange(&schema.PriceRange{Min: -100, Max: 5000})
	assert.False(t, ok)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "negative")
}

func TestValidator_ValidatePriceRange_Inverted(t *testing.T) {
	v := New()

	ok, errs, _ := v.ValidatePriceRange(&schema.PriceRange{Min: 5000, Max: 2000})
	assert.False(t, ok)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "minimum")
}

func TestValidator_ValidatePriceRange_WideRangeWarnsOnly(t *testing.T) {
	v := New()

	pr, err := schema.NewPriceRange(1000, 100000)
	require.NoError(t, err)

	ok, errs, warnings := v.ValidatePriceRange(pr)
	assert.True(t, ok)
	assert.Empty(t, errs)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "too wide")
}

func TestValidator_ValidateForProductType_WithinBounds(t *testing.T) {
	v := New()

	pr, err := schema.NewPriceRange(1000, 5000)
	require.NoError(t, err)

	warnings := v.ValidateForProductType(schema.ProductHeadphones, pr)
	assert.Empty(t, warnings)
}

func TestValidator_ValidateForProductType_BudgetTooLow(t *testing.T) {
	v := New()

	pr, err := schema.NewPriceRange(1000, 5000)
	require.NoError(t, err)

	warnings := v.ValidateForProductType(schema.ProductLaptop, pr)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "too low")
	assert.Contains(t, warnings[0], "30000")
}

func TestValidator_ValidateForProductType_BudgetTooHigh(t *testing.T) {
	v := New()

	pr, err := schema.NewPriceRange(60000, 80000)
	require.NoError(t, err)

	warnings := v.ValidateForProductType(schema.ProductHeadphones, pr)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "very high")
}

func TestValidator_ValidateForProductType_SkipsUnknownAndNil(t *testing.T) {
	v := New()

	pr, err := schema.NewPriceRange(1, 2)
	require.NoError(t, err)

	assert.Empty(t, v.ValidateForProductType(schema.ProductUnknown, pr))
	assert.Empty(t, v.ValidateForProductType(schema.ProductLaptop, nil))
}

func TestValidator_ValidateQuery_SurfacesBudgetWarnings(t *testing.T) {
	p := parser.New()
	v := New()

	// 2100-3000 is below the laptop floor of 30000.
	q := p.Parse("gaming laptop under 3000")
	result := v.ValidateQuery(q)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.ValidationErrors)
	require.NotEmpty(t, result.ValidationWarnings)
	assert.Contains(t, result.ValidationWarnings[0], "too low")
}

func TestValidator_ValidateQuery_FatalPriceErrors(t *testing.T) {
	v := New()

	q := schema.ParsedQuery{
		ProductType: schema.ProductHeadphones,
		PriceRange:  &schema.PriceRange{Min: 5000, Max: 2000},
	}

	result := v.ValidateQuery(q)
	assert.False(t, result.IsValid)
	require.Len(t, result.ValidationErrors, 1)
}

func TestSchema_NewPriceRange_RejectsInverted(t *testing.T) {
	_, err := schema.NewPriceRange(5000, 2000)
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrInvalidPriceRange)
}

func TestValidator_BudgetRecommendation(t *testing.T) {
	v := New()

	rec := v.BudgetRecommendation(schema.ProductCamera)
	assert.Contains(t, rec, "camera")
	assert.Contains(t, rec, "15000")
	assert.Contains(t, rec, "500000")
}
