package engine

import "github.com/Ruchi0214/Regexia/internal/domain"

// Aggregate sums per-rule match counts across results. Only rules with a
// positive total appear in the map.
func Aggregate(results []domain.ScoreResult) map[string]int {
	totals := make(map[string]int)
	for _, r := range results {
		for rule, n := range r.Matches {
			if n > 0 {
				totals[rule] += n
			}
		}
	}
	return totals
}
