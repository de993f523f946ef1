package domains

import (
	"strings"

	"marketscout/internal/core"
)

// categoryKeywords maps a domain type to hostname fragments that indicate it.
// Categories are checked in the order of categoryOrder; first match wins.
var categoryKeywords = map[core.DomainType][]string{
	core.DomainNews: {
		"reuters", "bloomberg", "cnbc", "wsj", "ft.com", "bbc", "guardian",
		"nytimes", "washingtonpost", "apnews", "news", "times", "journal", "post",
	},
	core.DomainBusiness: {
		"forbes", "businessinsider", "fortune", "economist", "mckinsey",
		"business", "market", "finance", "invest", "economy", "trade",
	},
	core.DomainTechnology: {
		"techcrunch", "wired", "theverge", "arstechnica", "engadget", "zdnet",
		"venturebeat", "tech", "digital",
	},
	core.DomainAcademic: {
		".edu", "university", "scholar", "academia", "springer", "nature.com",
		"sciencedirect", "ieee", "arxiv", "research",
	},
	core.DomainGovernment: {
		".gov", "europa.eu", "government", "federal", "oecd", "worldbank", "imf",
	},
	core.DomainIndustry: {
		"industry", "association", "institute", "council", "manufacturer",
	},
}

var categoryOrder = []core.DomainType{
	core.DomainNews,
	core.DomainBusiness,
	core.DomainTechnology,
	core.DomainAcademic,
	core.DomainGovernment,
	core.DomainIndustry,
}

// highTrustDomains carry full credibility.
var highTrustDomains = map[string]bool{
	"reuters.com":   true,
	"bloomberg.com": true,
	"wsj.com":       true,
	"ft.com":        true,
	"economist.com": true,
	"nature.com":    true,
	"mckinsey.com":  true,
	"apnews.com":    true,
	"bbc.com":       true,
	"nytimes.com":   true,
}

// mediumTrustDomains are reputable but less rigorous sources.
var mediumTrustDomains = map[string]bool{
	"forbes.com":          true,
	"cnbc.com":            true,
	"businessinsider.com": true,
	"fortune.com":         true,
	"techcrunch.com":      true,
	"wired.com":           true,
	"theverge.com":        true,
	"zdnet.com":           true,
	"venturebeat.com":     true,
	"theguardian.com":     true,
}

// Classify maps a hostname to a topic category and credibility weight.
// It always returns a value; unknown hosts classify as general with the
// baseline credibility.
func Classify(host string) core.DomainProfile {
	host = normalizeHost(host)

	return core.DomainProfile{
		Type:        classifyType(host),
		Credibility: credibility(host),
	}
}

func classifyType(host string) core.DomainType {
	for _, category := range categoryOrder {
		for _, keyword := range categoryKeywords[category] {
			if strings.Contains(host, keyword) {
				return category
			}
		}
	}
	return core.DomainGeneral
}

func credibility(host string) float64 {
	switch {
	case highTrustDomains[host]:
		return 1.0
	case mediumTrustDomains[host]:
		return 0.8
	case strings.HasSuffix(host, ".edu"), strings.HasSuffix(host, ".gov"):
		return 0.9
	case strings.HasSuffix(host, ".org"):
		return 0.7
	default:
		return 0.6
	}
}

func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	host = strings.TrimPrefix(host, "www.")
	return host
}
