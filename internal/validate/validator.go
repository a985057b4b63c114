// Package validate enforces business rules on parsed product queries.
package validate

import (
	"fmt"

	"github.com/shopsense-ai/query-normalizer/internal/schema"
)

// maxRangeRatio is the widest acceptable max/min ratio before a range is
// flagged as too wide for useful recommendations.
const maxRangeRatio = 10.0

// budgetBounds holds the typical budget window for a product category.
type budgetBounds struct {
	Min float64
	Max float64
}

// Fallback bounds for categories absent from the table.
var defaultBounds = budgetBounds{Min: 500, Max: 500000}

func buildBudgetBounds() map[schema.ProductType]budgetBounds {
	return map[schema.ProductType]budgetBounds{
		schema.ProductHeadphones: {Min: 500, Max: 50000},
		schema.ProductEarbuds:    {Min: 1000, Max: 30000},
		schema.ProductSpeakers:   {Min: 1500, Max: 100000},
		schema.ProductMicrophone: {Min: 2000, Max: 50000},
		schema.ProductCamera:     {Min: 15000, Max: 500000},
		schema.ProductLaptop:     {Min: 30000, Max: 500000},
		schema.ProductPhone:      {Min: 10000, Max: 150000},
		schema.ProductTablet:     {Min: 10000, Max: 100000},
		schema.ProductWatch:      {Min: 5000, Max: 50000},
	}
}

// Validator checks parsed queries against the budget rule tables.
type Validator struct {
	bounds map[schema.ProductType]budgetBounds
}

// New creates a validator with the default budget tables.
func New() *Validator {
	return &Validator{bounds: buildBudgetBounds()}
}

// ValidatePriceRange checks structural price rules. Negative bounds and
// inverted bounds are fatal; an overly wide range only warns.
func (v *Validator) ValidatePriceRange(pr *schema.PriceRange) (ok bool, errors, warnings []string) {
	if pr == nil {
		return true, nil, nil
	}

	if pr.Min < 0 || pr.Max < 0 {
		return false, []string{"Price values cannot be negative"}, nil
	}

	if pr.Max < pr.Min {
		return false, []string{"Maximum price must be >= minimum price"}, nil
	}

	if pr.Min > 0 {
		if ratio := pr.Max / pr.Min; ratio > maxRangeRatio {
			warnings = append(warnings, fmt.Sprintf(
				"Price range too wide (ratio %.1fx). Consider narrowing your budget for better recommendations.",
				ratio,
			))
		}
	}

	return true, nil, warnings
}

// ValidateForProductType checks that a price range is plausible for the
// category. Out-of-band budgets warn but never invalidate.
func (v *Validator) ValidateForProductType(pt schema.ProductType, pr *schema.PriceRange) []string {
	if pr == nil || pt == schema.ProductUnknown {
		return nil
	}

	bounds, ok := v.bounds[pt]
	if !ok {
		bounds = defaultBounds
	}

	var warnings []string
	if pr.Max < bounds.Min {
		warnings = append(warnings, fmt.Sprintf(
			"Budget may be too low for %s. Minimum recommended: ₹%.0f", pt, bounds.Min,
		))
	}
	if pr.Min > bounds.Max {
		warnings = append(warnings, fmt.Sprintf(
			"Budget seems very high for %s. Maximum typical: ₹%.0f", pt, bounds.Max,
		))
	}
	return warnings
}

// ValidateQuery runs the full rule set over a parsed query. Structural
// price failures are fatal; budget warnings ride along on the result.
func (v *Validator) ValidateQuery(q schema.ParsedQuery) schema.NormalizedResult {
	ok, errors, warnings := v.ValidatePriceRange(q.PriceRange)
	warnings = append(warnings, v.ValidateForProductType(q.ProductType, q.PriceRange)...)

	return schema.NormalizedResult{
		ParsedQuery:        q,
		ClarificationsMade: []schema.ClarificationRequest{},
		IsValid:            ok,
		ValidationErrors:   errors,
		ValidationWarnings: warnings,
	}
}

// BudgetRecommendation renders the typical budget window for a category.
func (v *Validator) BudgetRecommendation(pt schema.ProductType) string {
	bounds, ok := v.bounds[pt]
	if !ok {
		bounds = budgetBounds{Min: 1000, Max: 100000}
	}
	return fmt.Sprintf("Recommended budget for %s: ₹%.0f - ₹%.0f", pt, bounds.Min, bounds.Max)
}
