// Package matcher implements fuzzy matching of incoming item names against
// the local item catalog. It is a pure leaf package: no storage, no logging,
// identical inputs always produce identical ordered output.
package matcher

import (
	"sort"
	"strings"

	"github.com/MKhiriev/orbit-sync/models"
)

// DefaultLimit caps how many candidates Suggest returns when the caller
// passes a non-positive limit.
const DefaultLimit = 5

// Matcher scores catalog items against an incoming item name.
type Matcher struct {
	minScore float64
}

// New constructs a Matcher that drops candidates scoring below minScore.
func New(minScore float64) *Matcher {
	return &Matcher{minScore: minScore}
}

// Suggest computes a normalized similarity score between name and every
// catalog item's name, keeps items scoring at least the matcher's minimum,
// sorts them by descending score (ascending name on ties), and truncates to
// limit.
func (m *Matcher) Suggest(name string, catalog []models.Item, limit int) []models.ItemMatch {
	if limit <= 0 {
		limit = DefaultLimit
	}

	needle := normalize(name)
	matches := make([]models.ItemMatch, 0, len(catalog))
	for _, item := range catalog {
		score := Similarity(needle, normalize(item.Name))
		if score < m.minScore {
			continue
		}

		matches = append(matches, models.ItemMatch{
			ItemID:          item.ID,
			Name:            item.Name,
			Brand:           item.Brand,
			SimilarityScore: score,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].SimilarityScore != matches[j].SimilarityScore {
			return matches[i].SimilarityScore > matches[j].SimilarityScore
		}
		return matches[i].Name < matches[j].Name
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	return matches
}

// KnownName reports whether the catalog contains an item with exactly this
// name, ignoring case and surrounding whitespace.
func KnownName(name string, catalog []models.Item) bool {
	needle := normalize(name)
	for _, item := range catalog {
		if normalize(item.Name) == needle {
			return true
		}
	}
	return false
}

// Similarity returns a normalized Levenshtein similarity in [0, 1]:
// 1 for identical strings, 0 for completely different ones.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}

	distance := levenshtein(ra, rb)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}

	return 1.0 - float64(distance)/float64(maxLen)
}

// levenshtein computes the edit distance with the two-row variant of the
// classic DP matrix.
func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
