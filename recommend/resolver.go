package recommend

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Resolution points at the catalog title a query resolved to.
type Resolution struct {
	Title string
	Index int
	// Score is the token-sort ratio for fuzzy matches, 100 for
	// substring matches.
	Score int
}

// Resolve maps a free-text query to a catalog title. Two tiers:
// case-insensitive substring containment first (precision), then a
// token-order-insensitive fuzzy ratio of at least fuzzyThreshold
// (recall). The first containment match in catalog order wins, so the
// result is deterministic for a given catalog snapshot. A miss is a
// legitimate outcome, not an error.
func Resolve(query string, titles []string, fuzzyThreshold int) (Resolution, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Resolution{}, false
	}

	for i, title := range titles {
		t := strings.ToLower(title)
		if strings.Contains(t, q) || strings.Contains(q, t) {
			return Resolution{Title: titles[i], Index: i, Score: 100}, true
		}
	}

	best := Resolution{Index: -1}
	for i, title := range titles {
		score := fuzzy.TokenSortRatio(q, strings.ToLower(title))
		if score > best.Score {
			best = Resolution{Title: titles[i], Index: i, Score: score}
		}
	}
	if best.Index >= 0 && best.Score >= fuzzyThreshold {
		return best, true
	}
	return Resolution{}, false
}
