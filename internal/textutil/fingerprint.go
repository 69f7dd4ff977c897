package textutil

import (
	"math"
	"strings"
)

// leadingArticles are dropped from titles before comparison so that
// "The Big O" and "Big O" rank alike.
var leadingArticles = map[string]struct{}{
	"the": {},
	"a":   {},
	"an":  {},
}

// TitleVector is the word-frequency form of a title used to rank catalog
// search results.
type TitleVector struct {
	words map[string]float64
	norm  float64
}

// NewTitleVector folds title the way Searchable does and counts its words.
// It returns nil when nothing comparable is left.
func NewTitleVector(title string) *TitleVector {
	words := TitleWords(title)
	if len(words) == 0 {
		return nil
	}
	v := &TitleVector{words: make(map[string]float64, len(words))}
	for _, w := range words {
		v.words[w]++
	}
	var sum float64
	for _, n := range v.words {
		sum += n * n
	}
	v.norm = math.Sqrt(sum)
	return v
}

// TitleWords lowercases the searchable form of title and splits it into
// words. Numbers are kept since they usually tell sequels apart; a leading
// article is dropped.
func TitleWords(title string) []string {
	words := strings.Fields(strings.ToLower(Searchable(title)))
	if len(words) > 1 {
		if _, ok := leadingArticles[words[0]]; ok {
			words = words[1:]
		}
	}
	return words
}

// Len returns the number of distinct words.
func (v *TitleVector) Len() int {
	if v == nil {
		return 0
	}
	return len(v.words)
}

// Similarity is the cosine of the angle between two title vectors, in [0, 1].
func Similarity(a, b *TitleVector) float64 {
	if a.Len() == 0 || b.Len() == 0 {
		return 0
	}
	small, large := a, b
	if small.Len() > large.Len() {
		small, large = large, small
	}
	var dot float64
	for w, n := range small.words {
		dot += n * large.words[w]
	}
	return dot / (a.norm * b.norm)
}
