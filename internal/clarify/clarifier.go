// Package clarify applies user answers to ambiguous parsed queries.
package clarify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopsense-ai/query-normalizer/internal/ambiguity"
	"github.com/shopsense-ai/query-normalizer/internal/schema"
	"github.com/shopsense-ai/query-normalizer/internal/validate"
)

// singleBudgetLowerRatio synthesizes the lower bound when a clarification
// supplies a single budget figure, mirroring the parser's behavior.
const singleBudgetLowerRatio = 0.7

// Clarifier merges user responses into a parsed query and re-validates.
type Clarifier struct {
	detector  *ambiguity.Detector
	validator *validate.Validator
}

// New creates a clarifier backed by the given detector and validator.
func New(detector *ambiguity.Detector, validator *validate.Validator) *Clarifier {
	return &Clarifier{detector: detector, validator: validator}
}

// Apply resolves detected ambiguities with the supplied responses and
// re-runs validation. Responses are only applied to fields that are
// currently ambiguous; responses that cannot be parsed leave the field
// untouched and add a soft warning to the result.
func (c *Clarifier) Apply(q schema.ParsedQuery, responses map[string]string) schema.NormalizedResult {
	var made []schema.ClarificationRequest
	var ignored []string

	for _, amb := range c.detector.Detect(q) {
		response, ok := responses[amb.FieldName]
		if !ok {
			continue
		}
		if applied := c.applyResponse(&q, amb.FieldName, response); applied {
			made = append(made, amb)
		} else {
			ignored = append(ignored, fmt.Sprintf(
				"Ignored unusable response for %s: %q", amb.FieldName, response,
			))
		}
	}

	result := c.validator.ValidateQuery(q)
	result.ClarificationsMade = made
	result.ValidationWarnings = append(result.ValidationWarnings, ignored...)
	return result
}

// applyResponse mutates a single field from a user response. Returns
// false when the response cannot be parsed for that field.
func (c *Clarifier) applyResponse(q *schema.ParsedQuery, field, response string) bool {
	switch field {
	case schema.FieldProductType:
		pt, ok := schema.ParseProductType(response)
		if !ok {
			return false
		}
		q.ProductType = pt
		return true

	case schema.FieldPriceRange:
		value, err := strconv.ParseFloat(strings.ReplaceAll(response, ",", ""), 64)
		if err != nil || value < 0 {
			return false
		}
		q.PriceRange = &schema.PriceRange{
			Min: value * singleBudgetLowerRatio,
			Max: value,
		}
		return true

	case schema.FieldUsageContext:
		uc, ok := schema.ParseUsageContext(response)
		if !ok {
			return false
		}
		q.UsageContext = []schema.UsageContext{uc}
		return true

	case schema.FieldFeaturePreferences:
		parts := strings.Split(response, ",")
		features := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				features = append(features, trimmed)
			}
		}
		if len(features) == 0 {
			return false
		}
		q.FeaturePreferences = features
		return true
	case schema.FieldGeneral:
		// General clarity prompts carry free text with no field to update;
		// the answer is acknowledged as-is.
		return true
	}

	return false
}
