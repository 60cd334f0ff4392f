package classify

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Engine scores extracted metadata and raw text against a rule catalog.
// A single run is synchronous and keeps all state local, so one Engine
// may be shared across concurrent classifications.
type Engine struct {
	catalog *Catalog
}

// NewEngine creates an Engine over a validated catalog.
func NewEngine(catalog *Catalog) *Engine {
	return &Engine{catalog: catalog}
}

// Catalog returns the engine's rule catalog.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Score evaluates every catalog rule against the metadata and text,
// applies the dominance pass, normalizes by the maximum score, and
// marks departments meeting the threshold as predicted. Scores are
// returned in catalog order.
func (e *Engine) Score(meta Metadata, text string) ([]DepartmentScore, error) {
	lower := strings.ToLower(text)

	raw := make(map[string]float64, len(e.catalog.Departments))
	reasons := make(map[string][]string, len(e.catalog.Departments))

	for _, dept := range e.catalog.Departments {
		raw[dept.Code] = 0

		rules := e.catalog.Rules[dept.Code]
		for i := range rules {
			delta, reason := rules[i].apply(meta, lower)
			if delta == 0 {
				continue
			}
			raw[dept.Code] += delta
			reasons[dept.Code] = append(reasons[dept.Code], reason)
		}
	}

	adjusted, domReasons := e.catalog.Dominance.Apply(raw)
	for code, tags := range domReasons {
		reasons[code] = append(reasons[code], tags...)
	}

	max := 0.0
	for _, dept := range e.catalog.Departments {
		score := adjusted[dept.Code]
		if score < 0 {
			return nil, fmt.Errorf("%w: negative score %.2f for %s", ErrInvariant, score, dept.Code)
		}
		if score > max {
			max = score
		}
	}

	divisor := max
	if divisor == 0 {
		divisor = 1
	}

	scores := make([]DepartmentScore, 0, len(e.catalog.Departments))
	for _, dept := range e.catalog.Departments {
		normalized := math.Round(adjusted[dept.Code]/divisor*100) / 100
		if normalized < 0 || normalized > 1 {
			return nil, fmt.Errorf(
				"%w: normalized score %.2f for %s outside [0, 1]",
				ErrInvariant, normalized, dept.Code,
			)
		}

		tags := reasons[dept.Code]
		if tags == nil {
			tags = make([]string, 0)
		}

		scores = append(scores, DepartmentScore{
			Code:       dept.Code,
			Name:       dept.Name,
			Raw:        adjusted[dept.Code],
			Normalized: normalized,
			Predicted:  normalized >= e.catalog.Threshold,
			Reasons:    tags,
		})
	}

	return scores, nil
}

// PredictedOf filters scores down to the predicted departments, ordered
// by normalized score descending with code as a deterministic tiebreak.
func PredictedOf(scores []DepartmentScore) []DepartmentScore {
	predicted := make([]DepartmentScore, 0, len(scores))
	for _, s := range scores {
		if s.Predicted {
			predicted = append(predicted, s)
		}
	}

	sort.Slice(predicted, func(i, j int) bool {
		if predicted[i].Normalized != predicted[j].Normalized {
			return predicted[i].Normalized > predicted[j].Normalized
		}
		return predicted[i].Code < predicted[j].Code
	})

	return predicted
}
