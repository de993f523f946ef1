package gather

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// stripMarkup extracts the text of a snippet that came back as HTML. Plain
// text passes through untouched.
func stripMarkup(content string) string {
	if !looksLikeMarkup(content) {
		return content
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return content
	}

	doc.Find("script, style").Remove()
	text := doc.Text()
	if strings.TrimSpace(text) == "" {
		return content
	}
	return text
}

func looksLikeMarkup(content string) bool {
	open := strings.IndexByte(content, '<')
	if open < 0 {
		return false
	}
	return strings.IndexByte(content[open:], '>') > 0
}
