// Package schema defines the data model for the query normalizer.
package schema

import (
	"errors"
	"fmt"
)

// ProductType represents a supported product category.
type ProductType string

const (
	ProductHeadphones ProductType = "headphones"
	ProductEarbuds    ProductType = "earbuds"
	ProductSpeakers   ProductType = "speakers"
	ProductMicrophone ProductType = "microphone"
	ProductCamera     ProductType = "camera"
	ProductLaptop     ProductType = "laptop"
	ProductPhone      ProductType = "phone"
	ProductTablet     ProductType = "tablet"
	ProductWatch      ProductType = "watch"
	ProductUnknown    ProductType = "unknown"
)

// ProductTypes lists every known category, excluding unknown, in canonical order.
var ProductTypes = []ProductType{
	ProductHeadphones,
	ProductEarbuds,
	ProductSpeakers,
	ProductMicrophone,
	ProductCamera,
	ProductLaptop,
	ProductPhone,
	ProductTablet,
	ProductWatch,
}

// ParseProductType maps a string to a known product type.
func ParseProductType(s string) (ProductType, bool) {
	for _, pt := range ProductTypes {
		if string(pt) == s {
			return pt, true
		}
	}
	return ProductUnknown, false
}

// UsageContext represents a context in which a product will be used.
type UsageContext string

const (
	ContextGym          UsageContext = "gym"
	ContextOffice       UsageContext = "office"
	ContextHome         UsageContext = "home"
	ContextOutdoor      UsageContext = "outdoor"
	ContextTravel       UsageContext = "travel"
	ContextGaming       UsageContext = "gaming"
	ContextProfessional UsageContext = "professional"
	ContextCasual       UsageContext = "casual"
	ContextUnknown      UsageContext = "unknown"
)

// UsageContexts lists every known context, excluding unknown, in canonical order.
var UsageContexts = []UsageContext{
	ContextGym,
	ContextOffice,
	ContextHome,
	ContextOutdoor,
	ContextTravel,
	ContextGaming,
	ContextProfessional,
	ContextCasual,
}

// ParseUsageContext maps a string to a known usage context.
func ParseUsageContext(s string) (UsageContext, bool) {
	for _, uc := range UsageContexts {
		if string(uc) == s {
			return uc, true
		}
	}
	return ContextUnknown, false
}

// ErrInvalidPriceRange indicates a structurally invalid price range.
var ErrInvalidPriceRange = errors.New("invalid price range")

// PriceRange represents budget bounds in rupees.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// NewPriceRange constructs a price range, enforcing non-negative bounds
// and max >= min.
func NewPriceRange(min, max float64) (*PriceRange, error) {
	if min < 0 || max < 0 {
		return nil, fmt.Errorf("%w: bounds cannot be negative", ErrInvalidPriceRange)
	}
	if max < min {
		return nil, fmt.Errorf("%w: max must be >= min", ErrInvalidPriceRange)
	}
	return &PriceRange{Min: min, Max: max}, nil
}

// String renders the range for display.
func (p *PriceRange) String() string {
	return fmt.Sprintf("₹%.2f - ₹%.2f", p.Min, p.Max)
}

// Field names used for clarification and missing-field reporting.
const (
	FieldProductType        = "product_type"
	FieldPriceRange         = "price_range"
	FieldUsageContext       = "usage_context"
	FieldFeaturePreferences = "feature_preferences"
	FieldGeneral            = "general"
)

// ParsedQuery is the structured form of a free-text product query.
// The parser creates it; only the clarifier mutates it afterwards.
type ParsedQuery struct {
	ProductType        ProductType    `json:"product_type"`
	PriceRange         *PriceRange    `json:"price_range,omitempty"`
	UsageContext       []UsageContext `json:"usage_context"`
	FeaturePreferences []string       `json:"feature_preferences"`
	OriginalQuery      string         `json:"original_query"`
	ConfidenceScore    float64        `json:"confidence_score"`
	IsComplete         bool           `json:"is_complete"`
	MissingFields      []string       `json:"missing_fields"`
}

// HasContext reports whether the query already carries the given context.
func (q *ParsedQuery) HasContext(ctx UsageContext) bool {
	for _, c := range q.UsageContext {
		if c == ctx {
			return true
		}
	}
	return false
}

// ClarificationRequest asks the user to resolve one ambiguous field.
type ClarificationRequest struct {
	FieldName    string   `json:"field_name"`
	FieldLabel   string   `json:"field_label"`
	CurrentValue string   `json:"current_value,omitempty"`
	Options      []string `json:"options,omitempty"`
	Question     string   `json:"question"`
}

// NormalizedResult is the final output of the normalization pipeline.
type NormalizedResult struct {
	ParsedQuery        ParsedQuery            `json:"parsed_query"`
	ClarificationsMade []ClarificationRequest `json:"clarifications_made"`
	IsValid            bool                   `json:"is_valid"`
	ValidationErrors   []string               `json:"validation_errors"`
	ValidationWarnings []string               `json:"validation_warnings,omitempty"`
}
