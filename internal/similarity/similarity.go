// Package similarity estimates lexical overlap between template bodies so the
// repository can flag likely duplicates.
package similarity

import (
	"sort"
	"strings"

	"github.com/dpshade/prompt-distiller/internal/models"
)

// Thresholds used by callers: SaveThreshold at save time, ScanThreshold when
// the user explicitly asks for a broader similarity scan.
const (
	SaveThreshold = 0.5
	ScanThreshold = 0.3
)

// Match pairs a candidate template with its similarity to the target.
type Match struct {
	Template *models.Template
	Score    float64
}

// Jaccard computes the Jaccard index of the two texts' token sets: texts are
// lowercased and split on whitespace, duplicate tokens within a text collapse.
// Returns 0 when both texts are empty.
func Jaccard(a, b string) float64 {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)

	union := len(tokensA)
	intersection := 0
	for token := range tokensB {
		if tokensA[token] {
			intersection++
		} else {
			union++
		}
	}

	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// FindSimilar scores target against every candidate with a different ID and
// returns the matches at or above threshold, most similar first. Ties keep
// candidate order.
func FindSimilar(target *models.Template, candidates []*models.Template, threshold float64) []Match {
	var matches []Match
	for _, c := range candidates {
		if c.ID == target.ID {
			continue
		}
		score := Jaccard(target.Content, c.Content)
		if score >= threshold {
			matches = append(matches, Match{Template: c, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}

func tokenSet(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		tokens[token] = true
	}
	return tokens
}
