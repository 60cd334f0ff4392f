package translation

import (
	"fmt"
	"regexp"
	"strings"
)

// Markdown links, HTML anchors, and bare URLs are swapped for opaque
// placeholders before translation so the model cannot mangle them.
var linkPattern = regexp.MustCompile(
	`\[[^\]]*\]\([^)\s]+\)|<a\s[^>]*>.*?</a>|https?://[^\s<>")\]]+`,
)

func placeholder(n int) string {
	return fmt.Sprintf("§§LINK%d§§", n)
}

// protectLinks replaces every link in text with an indexed placeholder and
// returns the protected text alongside the original links in order.
func protectLinks(text string) (string, []string) {
	var links []string
	protected := linkPattern.ReplaceAllStringFunc(text, func(match string) string {
		links = append(links, match)
		return placeholder(len(links) - 1)
	})
	return protected, links
}

// restoreLinks substitutes the original links back into translated text.
// Every placeholder handed out by protectLinks must survive translation;
// a missing one fails with ErrPlaceholderLost.
func restoreLinks(text string, links []string) (string, error) {
	for i, link := range links {
		token := placeholder(i)
		if !strings.Contains(text, token) {
			return "", fmt.Errorf("%w: %s", ErrPlaceholderLost, token)
		}
		text = strings.Replace(text, token, link, 1)
	}
	return text, nil
}
