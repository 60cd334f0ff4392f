package classify

import (
	"fmt"
	"regexp"
	"strings"
)

// RuleKind discriminates the scoring rule variants.
type RuleKind string

// Supported rule kinds.
const (
	// RulePatternCount adds weight multiplied by the total number of
	// extracted pattern matches across the rule's labels.
	RulePatternCount RuleKind = "pattern-count"

	// RuleKeywordCount adds weight multiplied by the number of distinct
	// phrases found in the text. Phrases match on word boundaries.
	RuleKeywordCount RuleKind = "keyword-count"

	// RuleKeywordPresence adds weight once if any phrase appears as a
	// substring of the text.
	RuleKeywordPresence RuleKind = "keyword-presence"

	// RuleFlatBonus adds weight once if any pattern label matched or
	// any phrase appears as a substring of the text.
	RuleFlatBonus RuleKind = "flat-bonus"
)

// Rule is a single weighted scoring trigger for a department.
type Rule struct {
	Kind     RuleKind `yaml:"kind" json:"kind"`
	Weight   float64  `yaml:"weight" json:"weight"`
	Patterns []string `yaml:"patterns,omitempty" json:"patterns,omitempty"`
	Phrases  []string `yaml:"phrases,omitempty" json:"phrases,omitempty"`
	Reason   string   `yaml:"reason" json:"reason"`

	// compiled word-boundary matchers, index-aligned with Phrases
	matchers []*regexp.Regexp
}

func (r *Rule) validate(dept string) error {
	switch r.Kind {
	case RulePatternCount, RuleKeywordCount, RuleKeywordPresence, RuleFlatBonus:
	default:
		return fmt.Errorf("%w: %s: unknown rule kind %q", ErrInvalidCatalog, dept, r.Kind)
	}

	if r.Weight <= 0 {
		return fmt.Errorf("%w: %s: rule weight must be positive", ErrInvalidCatalog, dept)
	}

	if r.Reason == "" {
		return fmt.Errorf("%w: %s: rule reason is required", ErrInvalidCatalog, dept)
	}

	switch r.Kind {
	case RulePatternCount:
		if len(r.Patterns) == 0 {
			return fmt.Errorf("%w: %s: pattern-count rule requires pattern labels", ErrInvalidCatalog, dept)
		}
	case RuleKeywordCount, RuleKeywordPresence:
		if len(r.Phrases) == 0 {
			return fmt.Errorf("%w: %s: %s rule requires phrases", ErrInvalidCatalog, dept, r.Kind)
		}
	case RuleFlatBonus:
		if len(r.Patterns) == 0 && len(r.Phrases) == 0 {
			return fmt.Errorf("%w: %s: flat-bonus rule requires patterns or phrases", ErrInvalidCatalog, dept)
		}
	}

	for _, label := range r.Patterns {
		if _, ok := patternCategories[label]; !ok {
			return fmt.Errorf("%w: %s: unknown pattern label %q", ErrInvalidCatalog, dept, label)
		}
	}

	return nil
}

func (r *Rule) compile() error {
	for i, phrase := range r.Phrases {
		r.Phrases[i] = strings.ToLower(strings.TrimSpace(phrase))
		if r.Phrases[i] == "" {
			return fmt.Errorf("%w: empty phrase", ErrInvalidCatalog)
		}
	}

	if r.Kind != RuleKeywordCount {
		return nil
	}

	r.matchers = make([]*regexp.Regexp, len(r.Phrases))
	for i, phrase := range r.Phrases {
		m, err := regexp.Compile(`\b` + regexp.QuoteMeta(phrase) + `\b`)
		if err != nil {
			return fmt.Errorf("%w: phrase %q: %w", ErrInvalidCatalog, phrase, err)
		}
		r.matchers[i] = m
	}

	return nil
}

// apply evaluates the rule against extracted metadata and the lowercased
// document text, returning the score delta and a reason tag. A zero delta
// means the rule did not fire.
func (r *Rule) apply(meta Metadata, lower string) (float64, string) {
	switch r.Kind {
	case RulePatternCount:
		n := 0
		for _, label := range r.Patterns {
			n += meta.PatternCount(label)
		}
		if n == 0 {
			return 0, ""
		}
		return float64(n) * r.Weight, fmt.Sprintf("%s x%d (+%.1f)", r.Reason, n, float64(n)*r.Weight)

	case RuleKeywordCount:
		n := 0
		for _, m := range r.matchers {
			if m.MatchString(lower) {
				n++
			}
		}
		if n == 0 {
			return 0, ""
		}
		return float64(n) * r.Weight, fmt.Sprintf("%s x%d (+%.1f)", r.Reason, n, float64(n)*r.Weight)

	case RuleKeywordPresence:
		for _, phrase := range r.Phrases {
			if strings.Contains(lower, phrase) {
				return r.Weight, fmt.Sprintf("%s (+%.1f)", r.Reason, r.Weight)
			}
		}
		return 0, ""

	case RuleFlatBonus:
		for _, label := range r.Patterns {
			if meta.PatternCount(label) > 0 {
				return r.Weight, fmt.Sprintf("%s (+%.1f)", r.Reason, r.Weight)
			}
		}
		for _, phrase := range r.Phrases {
			if strings.Contains(lower, phrase) {
				return r.Weight, fmt.Sprintf("%s (+%.1f)", r.Reason, r.Weight)
			}
		}
		return 0, ""
	}

	return 0, ""
}
