package parser

import (
	"regexp"

	"github.com/shopsense-ai/query-normalizer/internal/schema"
)

// productEntry binds a product type to its trigger keywords. Entries are
// matched in declared order; the first hit wins.
type productEntry struct {
	Product  schema.ProductType
	Keywords []string
}

// contextEntry binds a usage context to its trigger keywords.
type contextEntry struct {
	Context  schema.UsageContext
	Keywords []string
}

func buildProductKeywords() []productEntry {
	return []productEntry{
		{schema.ProductHeadphones, []string{
			"headphones", "headphone", "over-ear", "over ear", "on-ear",
		}},
		{schema.ProductEarbuds, []string{
			"earbuds", "earbud", "buds", "tws", "true wireless", "airpods",
		}},
		{schema.ProductSpeakers, []string{
			"speaker", "speakers", "bluetooth speaker", "portable speaker",
		}},
		{schema.ProductMicrophone, []string{
			"microphone", "mic", "studio mic", "condenser",
		}},
		{schema.ProductCamera, []string{
			"camera", "dslr", "mirrorless", "action camera", "gopro",
		}},
		{schema.ProductLaptop, []string{
			"laptop", "notebook", "macbook", "gaming laptop",
		}},
		{schema.ProductPhone, []string{
			"phone", "smartphone", "mobile", "iphone", "android",
		}},
		{schema.ProductTablet, []string{
			"tablet", "ipad", "galaxy tab",
		}},
		{schema.ProductWatch, []string{
			"watch", "smartwatch", "fitness watch", "wearable",
		}},
	}
}

func buildContextKeywords() []contextEntry {
	return []contextEntry{
		{schema.ContextGym, []string{
			"gym", "workout", "exercise", "fitness", "running", "jogging", "sports",
		}},
		{schema.ContextOffice, []string{
			"office", "work", "meeting", "conference", "calls", "professional",
		}},
		{schema.ContextHome, []string{
			"home", "house", "living room", "bedroom", "domestic",
		}},
		{schema.ContextOutdoor, []string{
			"outdoor", "outdoors", "outside", "hiking", "camping", "trail",
		}},
		{schema.ContextTravel, []string{
			"travel", "trip", "journey", "commute", "plane", "flight",
		}},
		{schema.ContextGaming, []string{
			"gaming", "game", "esports", "competitive", "fps", "moba",
		}},
		{schema.ContextProfessional, []string{
			"professional", "studio", "recording", "streaming", "podcast", "content",
		}},
	}
}

func buildFeatureVocabulary() []string {
	return []string{
		"waterproof", "water resistant", "dust proof", "ip67", "ip68",
		"noise-cancelling", "noise cancelling", "anc", "active noise",
		"wireless", "bluetooth", "wired", "usb-c", "usb c",
		"long battery", "battery life", "fast charging",
		"lightweight", "portable", "compact",
		"comfortable", "ergonomic", "fit",
		"premium", "wireless charging", "touch control",
		"3d audio", "surround", "bass boost", "eq",
	}
}

// Price patterns in priority order. Each captures a single amount, which
// may carry thousands separators and a trailing k multiplier ("4k").
func buildPricePatterns() []*regexp.Regexp {
	amount := `(\d+(?:[,.]?\d{3})*k?)`
	return []*regexp.Regexp{
		regexp.MustCompile(`(?:around|upto|up to|within|under|below)\s+(?:₹|rs\.|rs)?\s*` + amount),
		regexp.MustCompile(`(?:budget|price|cost)\s+(?:of|is|around)?\s*(?:₹|rs\.|rs)?\s*` + amount),
		regexp.MustCompile(`(?:₹|rs\.|rs)\s*` + amount),
		regexp.MustCompile(`\$\s*` + amount),
		regexp.MustCompile(amount + `\s*(?:rupees|inr|dollars|usd)`),
	}
}
