package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

type Keyword struct {
	Term string
	// in (0,1], normalized so the most salient term of a text is 1
	Weight float64
}

// ExtractKeywords returns the topK most salient terms of text, ordered
// descending by weight with first-seen-in-text order breaking ties.
// Empty or all-stopword text yields an empty list.
func (a *Analyzer) ExtractKeywords(text string, topK int) ([]Keyword, error) {
	if topK < 0 {
		return nil, fmt.Errorf("%w: topK must not be negative, got %d", ErrInvalidArgument, topK)
	}
	if topK == 0 || strings.TrimSpace(text) == "" {
		return nil, nil
	}

	tokens := a.tokenize(text)
	if len(tokens) == 0 {
		return nil, nil
	}

	counts := make(map[string]int)
	var order []string
	for _, token := range tokens {
		if counts[token] == 0 {
			order = append(order, token)
		}
		counts[token]++
	}

	// tf-idf with the text itself as the document collection: rare
	// terms within the text outrank filler that repeats everywhere
	total := float64(len(tokens))
	keywords := make([]Keyword, 0, len(order))
	maxWeight := 0.0
	for _, term := range order {
		count := float64(counts[term])
		weight := (count / total) * math.Log(1+total/count)
		if boost, ok := a.boosts[term]; ok {
			weight *= boost
		}
		if weight > maxWeight {
			maxWeight = weight
		}
		keywords = append(keywords, Keyword{Term: term, Weight: weight})
	}
	for i := range keywords {
		keywords[i].Weight /= maxWeight
	}

	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].Weight > keywords[j].Weight
	})
	if len(keywords) > topK {
		keywords = keywords[:topK]
	}
	return keywords, nil
}

// tokenize segments text and drops stopwords, single runes and
// numeric-only tokens, none of which make meaningful keywords.
func (a *Analyzer) tokenize(text string) []string {
	var tokens []string
	for _, token := range a.seg.Cut(text, true) {
		token = strings.TrimSpace(token)
		if token == "" || utf8.RuneCountInString(token) < 2 {
			continue
		}
		if _, ok := a.stopwords[token]; ok {
			continue
		}
		if isNumeric(token) {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' && r != '%' {
			return false
		}
	}
	return true
}
