// Package extraction provides entity and pattern extractor adapters for
// the classification engine. The lexical extractor runs local regular
// expressions and is always available; the remote extractor calls an NLP
// sidecar for full named-entity recognition.
package extraction

import (
	"context"
	"regexp"

	"github.com/switchyard-io/switchyard/internal/classify"
)

// Lexical extracts pattern matches and a narrow set of entities with
// compiled regular expressions. Compilation happens once at construction;
// the extractor is read-only afterward and safe for concurrent use.
type Lexical struct {
	patterns map[string][]*regexp.Regexp
	entities map[string][]*regexp.Regexp
}

// NewLexical compiles the built-in pattern and entity expressions.
func NewLexical() *Lexical {
	return &Lexical{
		patterns: map[string][]*regexp.Regexp{
			classify.PatternTenderID: {
				regexp.MustCompile(`(?i)\b(?:tender|nit)\s+no\.?\s*[:\-]?\s*\d+(?:/\d{2,4})?\b`),
			},
			classify.PatternPurchaseOrder: {
				regexp.MustCompile(`(?i)\bpurchase\s+order\s+(?:no\.?\s*)?[:\-]?\s*[a-z0-9][a-z0-9/\-]*\b`),
				regexp.MustCompile(`\bPO[\s/-]?\d{3,}\b`),
			},
			classify.PatternContractID: {
				regexp.MustCompile(`(?i)\b(?:contract|agreement)\s+no\.?\s*[:\-]?\s*[a-z0-9][a-z0-9/\-]*\b`),
			},
			classify.PatternAdvertisementN: {
				regexp.MustCompile(`(?i)\b(?:advt|advertisement)\.?\s*no\.?\s*[:\-]?\s*\d+/\d{2,4}\b`),
			},
			classify.PatternJobTitle: {
				regexp.MustCompile(`(?i)\b(?:station controller|train operator|junior engineer|senior engineer|assistant manager|deputy general manager|section engineer|office assistant|technician)\b`),
			},
			classify.PatternGradePay: {
				regexp.MustCompile(`(?i)\b(?:grade\s+pay|pay\s+(?:scale|band|matrix|level))\b`),
				regexp.MustCompile(`(?i)\bpb-[1-4]\b`),
			},
			classify.PatternCaseNumber: {
				regexp.MustCompile(`(?i)\b(?:w\.?p\.?\s*\(c\)|o\.?a\.?|crl\.?\s*m\.?c\.?|case)\s*(?:no\.?)?\s*\d+\s*(?:/|of)\s*\d{4}\b`),
			},
			classify.PatternCourtName: {
				regexp.MustCompile(`(?i)\b(?:high court|supreme court|district court|sessions court|munsiff court|tribunal)\b`),
			},
			classify.PatternLawSection: {
				regexp.MustCompile(`(?i)\bsection\s+\d+[a-z]?(?:\(\d+\))?\s+of\s+the\b`),
				regexp.MustCompile(`(?i)\barticle\s+\d+\s+of\s+the\s+constitution\b`),
			},
		},
		entities: map[string][]*regexp.Regexp{
			classify.EntityDate: {
				regexp.MustCompile(`\b\d{1,2}[./-]\d{1,2}[./-]\d{2,4}\b`),
				regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{4}\b`),
			},
			classify.EntityAmount: {
				regexp.MustCompile(`(?i)\b(?:rs|inr)\.?\s*\d[\d,]*(?:\.\d{1,2})?`),
				regexp.MustCompile(`₹\s*\d[\d,]*(?:\.\d{1,2})?`),
				regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:lakh|lakhs|crore|crores)\b`),
			},
			classify.EntityOrganization: {
				regexp.MustCompile(`\b(?:[A-Z][a-z]+\s+){1,4}(?:Limited|Ltd|Corporation|Authority)\b`),
			},
		},
	}
}

// ExtractEntities returns entities found by the built-in expressions.
// Person and location recognition require the remote extractor; those
// fields are simply absent from lexical results.
func (l *Lexical) ExtractEntities(ctx context.Context, text string) (map[string][]string, error) {
	return extractAll(l.entities, text), nil
}

// ExtractPatterns returns all pattern matches grouped by label.
func (l *Lexical) ExtractPatterns(ctx context.Context, text string) (map[string][]string, error) {
	return extractAll(l.patterns, text), nil
}

func extractAll(groups map[string][]*regexp.Regexp, text string) map[string][]string {
	out := make(map[string][]string)
	for label, expressions := range groups {
		for _, expr := range expressions {
			matches := expr.FindAllString(text, -1)
			if len(matches) > 0 {
				out[label] = append(out[label], matches...)
			}
		}
	}
	return out
}
