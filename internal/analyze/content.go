package analyze

import (
	"sort"
	"strings"
	"time"

	"marketscout/internal/core"
)

const (
	maxSnippetLength = 250
	maxKeyPhrases    = 5
	maxEntities      = 6
	minPhraseFreq    = 2
)

// extractKeyContent picks the highest-value results (relevance biased toward
// recency) and derives a snippet, key phrases, a sentiment label and entity
// mentions for each.
func extractKeyContent(results []core.RawResult, now time.Time) []core.KeySnippet {
	type ranked struct {
		result core.RawResult
		score  float64
	}
	rankedResults := make([]ranked, 0, len(results))
	for _, r := range results {
		rankedResults = append(rankedResults, ranked{
			result: r,
			score:  r.RelevanceScore * recencyMultiplier(r.PublishedDate, now),
		})
	}
	sort.SliceStable(rankedResults, func(i, j int) bool {
		return rankedResults[i].score > rankedResults[j].score
	})
	if len(rankedResults) > maxKeyContent {
		rankedResults = rankedResults[:maxKeyContent]
	}

	snippets := make([]core.KeySnippet, 0, len(rankedResults))
	for _, entry := range rankedResults {
		r := entry.result
		polarity := sentimentPolarity(lowerText(r))
		snippets = append(snippets, core.KeySnippet{
			URL:        r.URL,
			Title:      r.Title,
			Snippet:    snippet(r.Content),
			KeyPhrases: keyPhrases(r),
			Sentiment:  polarityLabel(polarity),
			Entities:   entityMentions(lowerText(r)),
		})
	}
	return snippets
}

// snippet cuts content at a sentence boundary, falling back to a word
// boundary, within the snippet cap.
func snippet(content string) string {
	if len(content) <= maxSnippetLength {
		return content
	}

	window := content[:maxSnippetLength]
	if cut := lastSentenceEnd(window); cut > 0 {
		return strings.TrimSpace(window[:cut])
	}
	if space := strings.LastIndexByte(window, ' '); space > 0 {
		return strings.TrimSpace(window[:space]) + "..."
	}
	return window
}

func lastSentenceEnd(s string) int {
	best := -1
	for _, punct := range []string{". ", "! ", "? "} {
		if idx := strings.LastIndex(s, punct); idx > best {
			best = idx
		}
	}
	if best < 0 {
		// Sentence ending flush at the window edge.
		last := s[len(s)-1]
		if last == '.' || last == '!' || last == '?' {
			return len(s)
		}
		return -1
	}
	return best + 1
}

// keyPhrases extracts recurring 2- and 3-word phrases over the non-stopword
// token stream of one result.
func keyPhrases(r core.RawResult) []string {
	tokens := contentTokens(r.Title + " " + r.Content)

	counts := make(map[string]int)
	for i := 0; i < len(tokens); i++ {
		if i+1 < len(tokens) {
			counts[tokens[i]+" "+tokens[i+1]]++
		}
		if i+2 < len(tokens) {
			counts[tokens[i]+" "+tokens[i+1]+" "+tokens[i+2]]++
		}
	}

	var phrases []string
	for phrase, count := range counts {
		if count >= minPhraseFreq {
			phrases = append(phrases, phrase)
		}
	}
	sort.Slice(phrases, func(i, j int) bool {
		if counts[phrases[i]] != counts[phrases[j]] {
			return counts[phrases[i]] > counts[phrases[j]]
		}
		return phrases[i] < phrases[j]
	})
	if len(phrases) > maxKeyPhrases {
		phrases = phrases[:maxKeyPhrases]
	}
	return phrases
}

// entityMentions returns known company and technology names appearing in the
// text.
func entityMentions(text string) []string {
	var entities []string
	for _, list := range [][]string{companyKeywords, technologyKeywords} {
		for _, name := range list {
			if containsPhrase(text, name) {
				entities = append(entities, name)
				if len(entities) == maxEntities {
					return entities
				}
			}
		}
	}
	return entities
}

// contentTokens lowercases, strips punctuation and drops stopwords and short
// tokens.
func contentTokens(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		token := strings.Trim(field, ".,!?;:\"'()[]")
		if len(token) < 3 || stopWords[token] {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

func lowerText(r core.RawResult) string {
	return strings.ToLower(r.Title + " " + r.Content)
}

// containsPhrase matches a phrase on word boundaries, so "ai" does not match
// inside "maintain".
func containsPhrase(text, phrase string) bool {
	idx := 0
	for {
		found := strings.Index(text[idx:], phrase)
		if found < 0 {
			return false
		}
		start := idx + found
		end := start + len(phrase)
		beforeOK := start == 0 || !isWordChar(text[start-1])
		afterOK := end == len(text) || !isWordChar(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
