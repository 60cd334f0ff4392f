package classify

import "fmt"

// Apply runs the dominance/suppression pass over raw scores, returning a
// new score map and the reason tags generated per department. The input
// map is never mutated.
//
// Departments are visited in the configured order. When one's current
// score reaches the trigger it gains the bonus, and every other
// department still below the trigger is multiplied by the suppressor.
// A later pass reads values already adjusted by earlier passes, so
// suppression compounds across passes.
func (d Dominance) Apply(scores map[string]float64) (map[string]float64, map[string][]string) {
	out := make(map[string]float64, len(scores))
	for code, score := range scores {
		out[code] = score
	}

	reasons := make(map[string][]string)

	for _, dominant := range d.Order {
		if out[dominant] < d.Trigger {
			continue
		}

		out[dominant] += d.Bonus
		reasons[dominant] = append(
			reasons[dominant],
			fmt.Sprintf("dominant signal (+%.1f)", d.Bonus),
		)

		for code := range out {
			if code == dominant || out[code] >= d.Trigger {
				continue
			}
			if out[code] > 0 {
				reasons[code] = append(
					reasons[code],
					fmt.Sprintf("suppressed by %s (x%.2f)", dominant, d.Suppressor),
				)
			}
			out[code] *= d.Suppressor
		}
	}

	return out, reasons
}
