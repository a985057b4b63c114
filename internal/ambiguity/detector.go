// Package ambiguity detects missing or uncertain fields in parsed queries
// and generates clarification requests for them.
package ambiguity

import (
	"fmt"
	"strings"

	"github.com/shopsense-ai/query-normalizer/internal/schema"
)

// DefaultConfidenceThreshold is the parse confidence below which a
// general clarification is requested.
const DefaultConfidenceThreshold = 0.65

// Detector evaluates parsed queries against the clarification rules.
// Detection is pure: the same query always yields the same requests.
type Detector struct {
	confidenceThreshold float64
	featureSuggestions  map[schema.ProductType][]string
	genericSuggestions  []string
	usageSuggestions    []schema.UsageContext
}

// New creates a detector with the default rule tables and threshold.
func New() *Detector {
	return NewWithThreshold(DefaultConfidenceThreshold)
}

// NewWithThreshold creates a detector with a custom confidence threshold.
func NewWithThreshold(threshold float64) *Detector {
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}
	return &Detector{
		confidenceThreshold: threshold,
		featureSuggestions:  buildFeatureSuggestions(),
		genericSuggestions:  []string{"high quality", "affordable", "durable"},
		usageSuggestions:    buildUsageSuggestions(),
	}
}

func buildFeatureSuggestions() map[schema.ProductType][]string {
	return map[schema.ProductType][]string{
		schema.ProductHeadphones: {
			"noise-cancelling", "waterproof", "long battery life",
			"lightweight", "wireless", "premium sound",
		},
		schema.ProductEarbuds: {
			"waterproof", "noise-cancelling", "wireless charging",
			"long battery", "transparent mode", "active noise",
		},
		schema.ProductSpeakers: {
			"portable", "waterproof", "long battery", "bass boost",
			"wireless", "360 audio",
		},
		schema.ProductLaptop: {
			"gaming", "lightweight", "long battery", "fast processor",
			"high resolution display", "touchscreen",
		},
	}
}

func buildUsageSuggestions() []schema.UsageContext {
	return []schema.UsageContext{
		schema.ContextGym,
		schema.ContextOffice,
		schema.ContextHome,
		schema.ContextOutdoor,
		schema.ContextTravel,
		schema.ContextGaming,
		schema.ContextProfessional,
	}
}

// Detect returns a clarification request for every rule that fires.
func (d *Detector) Detect(q schema.ParsedQuery) []schema.ClarificationRequest {
	var clarifications []schema.ClarificationRequest

	if q.ProductType == schema.ProductUnknown {
		options := make([]string, 0, len(schema.ProductTypes))
		for _, pt := range schema.ProductTypes {
			options = append(options, string(pt))
		}
		clarifications = append(clarifications, schema.ClarificationRequest{
			FieldName:  schema.FieldProductType,
			FieldLabel: "Product Type",
			Options:    options,
			Question:   "What type of product are you looking for?",
		})
	}

	if q.PriceRange == nil {
		clarifications = append(clarifications, schema.ClarificationRequest{
			FieldName:  schema.FieldPriceRange,
			FieldLabel: "Budget",
			Question:   "What is your budget range (in rupees)?",
		})
	}

	if len(q.UsageContext) == 0 {
		options := make([]string, 0, len(d.usageSuggestions))
		for _, uc := range d.usageSuggestions {
			options = append(options, string(uc))
		}
		clarifications = append(clarifications, schema.ClarificationRequest{
			FieldName:  schema.FieldUsageContext,
			FieldLabel: "Usage Context",
			Options:    options,
			Question:   "Where will you primarily use this product?",
		})
	}

	if len(q.FeaturePreferences) == 0 {
		suggestions, ok := d.featureSuggestions[q.ProductType]
		if !ok {
			suggestions = d.genericSuggestions
		}
		clarifications = append(clarifications, schema.ClarificationRequest{
			FieldName:  schema.FieldFeaturePreferences,
			FieldLabel: "Features",
			Options:    suggestions,
			Question:   "What features are important to you?",
		})
	}

	if q.ConfidenceScore < d.confidenceThreshold {
		clarifications = append(clarifications, schema.ClarificationRequest{
			FieldName:    schema.FieldGeneral,
			FieldLabel:   "Query Clarity",
			CurrentValue: fmt.Sprintf("Confidence: %.1f%%", q.ConfidenceScore*100),
			Question: fmt.Sprintf(
				"Could you provide more details? (Current parse confidence: %.1f%%)",
				q.ConfidenceScore*100,
			),
		})
	}

	return clarifications
}

// IsAmbiguous reports whether any clarification rule fires for the query.
func (d *Detector) IsAmbiguous(q schema.ParsedQuery) bool {
	return len(d.Detect(q)) > 0
}

// Summary renders a human-readable digest of the detected ambiguities.
func (d *Detector) Summary(q schema.ParsedQuery) string {
	ambiguities := d.Detect(q)
	if len(ambiguities) == 0 {
		return "Query is clear and complete."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d ambiguity/ambiguities:\n", len(ambiguities))
	for i, amb := range ambiguities {
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, amb.FieldLabel, amb.Question)
	}
	return b.String()
}
