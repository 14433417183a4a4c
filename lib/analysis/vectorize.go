package analysis

import (
	"math"
	"sort"
)

// caps the vocabulary so pathological corpora don't blow up memory
const maxVocabularyFeatures = 5000

// vectorize maps documents into l2-normalized tf-idf vectors over a
// shared vocabulary of the corpus's most frequent terms. Term order in
// the vocabulary is deterministic (document frequency descending,
// lexicographic on ties) so clustering over the result is reproducible.
func (a *Analyzer) vectorize(docs []string) [][]float64 {
	tokenized := make([][]string, len(docs))
	docFreq := make(map[string]int)
	for i, doc := range docs {
		tokenized[i] = a.tokenize(doc)
		seen := make(map[string]struct{})
		for _, token := range tokenized[i] {
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			docFreq[token]++
		}
	}

	terms := make([]string, 0, len(docFreq))
	for term := range docFreq {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if docFreq[terms[i]] != docFreq[terms[j]] {
			return docFreq[terms[i]] > docFreq[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxVocabularyFeatures {
		terms = terms[:maxVocabularyFeatures]
	}

	vocab := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	total := float64(len(docs))
	for i, term := range terms {
		vocab[term] = i
		idf[i] = math.Log((1+total)/(1+float64(docFreq[term]))) + 1
	}

	vectors := make([][]float64, len(docs))
	for i, tokens := range tokenized {
		vec := make([]float64, len(terms))
		for _, token := range tokens {
			if j, ok := vocab[token]; ok {
				vec[j] += idf[j]
			}
		}
		var norm float64
		for _, v := range vec {
			norm += v * v
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range vec {
				vec[j] /= norm
			}
		}
		vectors[i] = vec
	}
	return vectors
}
