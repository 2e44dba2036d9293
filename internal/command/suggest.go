package command

import (
	"github.com/agnivade/levenshtein"
)

// MaxSuggestDistance is the largest edit distance Suggest accepts.
const MaxSuggestDistance = 2

// Suggest returns the registered command or alias closest to name, or ""
// when nothing is within MaxSuggestDistance edits.
func (r *Registry[C]) Suggest(name string) string {
	best, bestDist := "", MaxSuggestDistance+1
	for _, candidate := range r.Names() {
		d := levenshtein.ComputeDistance(name, candidate)
		if d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}
