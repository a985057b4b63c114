package schema

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Required top-level keys in an externally produced normalization payload.
var envelopeKeys = []string{
	"product_type",
	"price_range",
	"usage_context",
	"feature_preferences",
	"missing_fields",
}

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// ExtractJSON pulls the first JSON object out of surrounding free text.
// Returns the input unchanged when no object is found.
func ExtractJSON(text string) string {
	if m := jsonObjectPattern.FindString(text); m != "" {
		return m
	}
	return text
}

// ValidateEnvelope checks that a text payload carries a well-formed
// normalization object with every required key and a structurally sound
// price_range. Returns the decoded payload on success.
func ValidateEnvelope(text string) (map[string]any, error) {
	cleaned := ExtractJSON(text)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	for _, key := range envelopeKeys {
		if _, ok := data[key]; !ok {
			return nil, fmt.Errorf("missing key: %s", key)
		}
	}

	pr, ok := data["price_range"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("price_range must be an object")
	}
	if _, ok := pr["min"]; !ok {
		return nil, fmt.Errorf("price_range must contain min and max")
	}
	if _, ok := pr["max"]; !ok {
		return nil, fmt.Errorf("price_range must contain min and max")
	}

	return data, nil
}
