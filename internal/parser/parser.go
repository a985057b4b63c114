// Package parser extracts structured product queries from free text using
// keyword tables, price patterns, and heuristic confidence scores.
package parser

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/shopsense-ai/query-normalizer/internal/schema"
)

// Parser turns unstructured product queries into ParsedQuery records.
// It is stateless after construction and safe for concurrent use.
type Parser struct {
	productKeywords []productEntry
	contextKeywords []contextEntry
	featureVocab    []string
	pricePatterns   []*regexp.Regexp
}

// New creates a parser with the default rule tables.
func New() *Parser {
	return &Parser{
		productKeywords: buildProductKeywords(),
		contextKeywords: buildContextKeywords(),
		featureVocab:    buildFeatureVocabulary(),
		pricePatterns:   buildPricePatterns(),
	}
}

func normalizeText(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// ExtractProductType finds the product category. The first keyword hit in
// table order wins; confidence is boosted when the keyword starts the query.
func (p *Parser) ExtractProductType(query string) (schema.ProductType, float64) {
	normalized := normalizeText(query)

	for _, entry := range p.productKeywords {
		for _, keyword := range entry.Keywords {
			if strings.Contains(normalized, keyword) {
				if keyword == normalized || strings.HasPrefix(normalized, keyword) {
					return entry.Product, 0.95
				}
				return entry.Product, 0.85
			}
		}
	}

	return schema.ProductUnknown, 0.3
}

// ExtractPriceRange collects every amount matched by the price patterns.
// A single amount is treated as an upper bound with the lower bound
// synthesized at 70% of it.
func (p *Parser) ExtractPriceRange(query string) (*schema.PriceRange, float64) {
	normalized := normalizeText(query)

	seen := make(map[float64]bool)
	var prices []float64
	for _, pattern := range p.pricePatterns {
		for _, m := range pattern.FindAllStringSubmatch(normalized, -1) {
			amount, ok := parseAmount(m[1])
			if !ok || seen[amount] {
				continue
			}
			seen[amount] = true
			prices = append(prices, amount)
		}
	}

	if len(prices) == 0 {
		return nil, 0.0
	}

	sort.Float64s(prices)

	if len(prices) == 1 {
		max := prices[0]
		return &schema.PriceRange{Min: max * 0.7, Max: max}, 0.75
	}

	return &schema.PriceRange{Min: prices[0], Max: prices[len(prices)-1]}, 0.85
}

// parseAmount converts a matched amount string to a numeric value.
// Thousands separators are stripped; a trailing k multiplies by 1000.
func parseAmount(s string) (float64, bool) {
	thousands := strings.HasSuffix(s, "k")
	s = strings.TrimSuffix(s, "k")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, ".", "")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if thousands {
		v *= 1000
	}
	return v, true
}

// ExtractUsageContext returns the union of context table hits, counting
// each context at most once, in table order.
func (p *Parser) ExtractUsageContext(query string) ([]schema.UsageContext, float64) {
	normalized := normalizeText(query)

	var contexts []schema.UsageContext
	for _, entry := range p.contextKeywords {
		for _, keyword := range entry.Keywords {
			if strings.Contains(normalized, keyword) {
				contexts = append(contexts, entry.Context)
				break
			}
		}
	}

	if len(contexts) == 0 {
		return nil, 0.0
	}
	return contexts, 0.85
}

// ExtractFeatures matches the fixed feature vocabulary against the query.
func (p *Parser) ExtractFeatures(query string) ([]string, float64) {
	normalized := normalizeText(query)

	var features []string
	for _, feature := range p.featureVocab {
		if strings.Contains(normalized, feature) {
			features = append(features, feature)
		}
	}

	if len(features) == 0 {
		return nil, 0.0
	}
	return features, 0.8
}

// Parse runs every extractor and assembles the ParsedQuery. The overall
// confidence is the mean of the sub-scores for detected fields; the
// product type score always contributes.
func (p *Parser) Parse(query string) schema.ParsedQuery {
	productType, productConf := p.ExtractProductType(query)
	priceRange, priceConf := p.ExtractPriceRange(query)
	contexts, contextConf := p.ExtractUsageContext(query)
	features, featureConf := p.ExtractFeatures(query)

	confidences := []float64{productConf}
	if priceRange != nil {
		confidences = append(confidences, priceConf)
	}
	if len(contexts) > 0 {
		confidences = append(confidences, contextConf)
	}
	if len(features) > 0 {
		confidences = append(confidences, featureConf)
	}

	sum := 0.0
	for _, c := range confidences {
		sum += c
	}
	avgConfidence := sum / float64(len(confidences))

	var missing []string
	if productType == schema.ProductUnknown {
		missing = append(missing, schema.FieldProductType)
	}
	if priceRange == nil {
		missing = append(missing, schema.FieldPriceRange)
	}
	if len(contexts) == 0 {
		missing = append(missing, schema.FieldUsageContext)
	}
	if len(features) == 0 {
		missing = append(missing, schema.FieldFeaturePreferences)
	}

	return schema.ParsedQuery{
		ProductType:        productType,
		PriceRange:         priceRange,
		UsageContext:       contexts,
		FeaturePreferences: features,
		OriginalQuery:      query,
		ConfidenceScore:    avgConfidence,
		IsComplete:         len(missing) == 0,
		MissingFields:      missing,
	}
}
