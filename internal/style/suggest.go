package style

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// suggestThreshold is the minimum similarity for a suggestion.
const suggestThreshold = 0.5

// Suggest returns the catalog name closest to name, if any is close enough.
// Comparison ignores case.
func (c *Catalog) Suggest(name string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return "", false
	}
	lev := metrics.NewLevenshtein()
	best, bestScore := "", 0.0
	for _, e := range c.entries {
		score := strutil.Similarity(needle, strings.ToLower(e.Name), lev)
		if score > bestScore {
			best, bestScore = e.Name, score
		}
	}
	if bestScore < suggestThreshold {
		return "", false
	}
	return best, true
}
