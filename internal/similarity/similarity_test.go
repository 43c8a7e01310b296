package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpshade/prompt-distiller/internal/models"
)

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "review this code", "review this code", 1},
		{"both empty", "", "", 0},
		{"one empty", "hello", "", 0},
		{"disjoint", "alpha beta", "gamma delta", 0},
		{"half overlap", "a b c", "b c d", 0.5},
		{"case insensitive", "Hello World", "hello world", 1},
		{"duplicates collapse", "go go go", "go", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Jaccard(tt.a, tt.b), 1e-9)
		})
	}
}

func TestJaccardSymmetric(t *testing.T) {
	a := "write an article about testing"
	b := "write some tests for this article"
	assert.Equal(t, Jaccard(a, b), Jaccard(b, a))
}

func TestFindSimilar(t *testing.T) {
	target := &models.Template{ID: "t", Content: "review the following code for bugs"}
	candidates := []*models.Template{
		{ID: "t", Content: "review the following code for bugs"}, // self, excluded
		{ID: "a", Content: "review the following code for style"},
		{ID: "b", Content: "completely unrelated shopping list"},
		{ID: "c", Content: "review the following code for bugs"},
	}

	matches := FindSimilar(target, candidates, 0.5)
	require.Len(t, matches, 2)

	assert.Equal(t, "c", matches[0].Template.ID)
	assert.Equal(t, float64(1), matches[0].Score)
	assert.Equal(t, "a", matches[1].Template.ID)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestFindSimilarThreshold(t *testing.T) {
	target := &models.Template{ID: "t", Content: "a b c d"}
	candidates := []*models.Template{
		{ID: "a", Content: "a b x y z w"}, // below 0.5
	}

	assert.Empty(t, FindSimilar(target, candidates, SaveThreshold))
	assert.Len(t, FindSimilar(target, candidates, ScanThreshold), 0) // 2/8 = 0.25 < 0.3
	assert.Len(t, FindSimilar(target, candidates, 0.2), 1)
}
