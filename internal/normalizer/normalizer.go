// Package normalizer orchestrates the parse, clarify, and validate stages
// of the product query pipeline.
package normalizer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopsense-ai/query-normalizer/internal/ambiguity"
	"github.com/shopsense-ai/query-normalizer/internal/cache"
	"github.com/shopsense-ai/query-normalizer/internal/clarify"
	"github.com/shopsense-ai/query-normalizer/internal/observability"
	"github.com/shopsense-ai/query-normalizer/internal/parser"
	"github.com/shopsense-ai/query-normalizer/internal/schema"
	"github.com/shopsense-ai/query-normalizer/internal/validate"
)

const cacheKeyPrefix = "normalize:"

// Config holds normalizer settings.
type Config struct {
	ConfidenceThreshold float64
	CacheResults        bool
	CacheTTL            time.Duration
}

// DefaultConfig returns the default normalizer settings.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold: ambiguity.DefaultConfidenceThreshold,
		CacheResults:        false,
		CacheTTL:            5 * time.Minute,
	}
}

// Normalizer is the pipeline entry point. It is safe for concurrent use;
// each call is independent and produces only its return value.
type Normalizer struct {
	logger    *observability.Logger
	cache     cache.Client
	cfg       Config
	parser    *parser.Parser
	detector  *ambiguity.Detector
	validator *validate.Validator
	clarifier *clarify.Clarifier
}

// New creates a normalizer. The cache client may be nil, or caching can
// be turned off in the config; both disable result caching.
func New(logger *observability.Logger, cacheClient cache.Client, cfg Config) *Normalizer {
	if logger == nil {
		logger = observability.Nop()
	}
	if cfg.ConfidenceThreshold <= 0 {
		cfg.ConfidenceThreshold = ambiguity.DefaultConfidenceThreshold
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	detector := ambiguity.NewWithThreshold(cfg.ConfidenceThreshold)
	validator := validate.New()

	return &Normalizer{
		logger:    logger,
		cache:     cacheClient,
		cfg:       cfg,
		parser:    parser.New(),
		detector:  detector,
		validator: validator,
		clarifier: clarify.New(detector, validator),
	}
}

// Normalize runs the complete pipeline: parse, then clarify when
// responses were supplied or the parse is ambiguous, otherwise validate
// directly. Responses only ever apply to currently detected ambiguities.
func (n *Normalizer) Normalize(ctx context.Context, query string, responses map[string]string) (schema.NormalizedResult, error) {
	log := n.logger.WithContext(ctx).WithOperation("normalize")
	start := time.Now()

	key := resultKey(query, responses)
	if cached, ok := n.cachedResult(ctx, key); ok {
		log.Debug().Str("query", query).Msg("Cache hit")
		return cached, nil
	}

	parsed := n.parser.Parse(query)

	var result schema.NormalizedResult
	if len(responses) > 0 || n.detector.IsAmbiguous(parsed) {
		result = n.clarifier.Apply(parsed, responses)
	} else {
		result = n.validator.ValidateQuery(parsed)
	}

	n.storeResult(ctx, key, result)

	log.Info().
		Str("product_type", string(result.ParsedQuery.ProductType)).
		Float64("confidence", result.ParsedQuery.ConfidenceScore).
		Bool("is_valid", result.IsValid).
		Bool("is_complete", result.ParsedQuery.IsComplete).
		Int("clarifications", len(result.ClarificationsMade)).
		Dur("elapsed", time.Since(start)).
		Msg("Query normalized")

	return result, nil
}

// Ambiguities parses a query and returns its clarification requests
// without running the full pipeline.
func (n *Normalizer) Ambiguities(query string) []schema.ClarificationRequest {
	return n.detector.Detect(n.parser.Parse(query))
}

// Summary renders a human-readable digest of a query's parse and its
// outstanding ambiguities.
func (n *Normalizer) Summary(query string) string {
	parsed := n.parser.Parse(query)

	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n", query)
	fmt.Fprintf(&b, "Product: %s\n", parsed.ProductType)
	if parsed.PriceRange != nil {
		fmt.Fprintf(&b, "Price: %s\n", parsed.PriceRange)
	} else {
		b.WriteString("Price: Not specified\n")
	}
	if len(parsed.UsageContext) > 0 {
		contexts := make([]string, len(parsed.UsageContext))
		for i, c := range parsed.UsageContext {
			contexts[i] = string(c)
		}
		fmt.Fprintf(&b, "Contexts: %s\n", strings.Join(contexts, ", "))
	} else {
		b.WriteString("Contexts: Not specified\n")
	}
	if len(parsed.FeaturePreferences) > 0 {
		fmt.Fprintf(&b, "Features: %s\n", strings.Join(parsed.FeaturePreferences, ", "))
	} else {
		b.WriteString("Features: Not specified\n")
	}
	fmt.Fprintf(&b, "Confidence: %.0f%%\n\n", parsed.ConfidenceScore*100)
	b.WriteString(n.detector.Summary(parsed))
	return b.String()
}

// resultKey derives a stable cache key from the query and any responses.
func resultKey(query string, responses map[string]string) string {
	h := sha256.New()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(query))))

	fields := make([]string, 0, len(responses))
	for field := range responses {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		h.Write([]byte("\x00" + field + "\x00" + responses[field]))
	}

	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

func (n *Normalizer) cachedResult(ctx context.Context, key string) (schema.NormalizedResult, bool) {
	if n.cache == nil || !n.cfg.CacheResults {
		return schema.NormalizedResult{}, false
	}

	data, err := n.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			n.logger.Warn().Err(err).Msg("Cache read failed")
		}
		return schema.NormalizedResult{}, false
	}

	var result schema.NormalizedResult
	if err := json.Unmarshal(data, &result); err != nil {
		n.logger.Warn().Err(err).Msg("Cache entry corrupt, ignoring")
		return schema.NormalizedResult{}, false
	}
	return result, true
}

func (n *Normalizer) storeResult(ctx context.Context, key string, result schema.NormalizedResult) {
	if n.cache == nil || !n.cfg.CacheResults {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := n.cache.Set(ctx, key, data, n.cfg.CacheTTL); err != nil {
		n.logger.Warn().Err(err).Msg("Cache write failed")
	}
}
