package services

import (
	"math"
	"sort"

	"callguard-lab/internal/domain/models"
)

// FitVectorizer learns a TF-IDF vocabulary over tokenized documents.
// Terms are unigrams and bigrams; when the corpus exceeds maxFeatures the
// most frequent terms win, ties broken lexicographically. Vocabulary
// indices follow sorted term order, so fitting is fully deterministic.
func FitVectorizer(docs [][]string, maxFeatures int) models.VectorizerParams {
	termCount := make(map[string]int)
	docFreq := make(map[string]int)

	for _, tokens := range docs {
		terms := ngrams(tokens)
		inDoc := make(map[string]bool, len(terms))
		for _, t := range terms {
			termCount[t]++
			inDoc[t] = true
		}
		for t := range inDoc {
			docFreq[t]++
		}
	}

	selected := make([]string, 0, len(termCount))
	for t := range termCount {
		selected = append(selected, t)
	}
	sort.Slice(selected, func(i, j int) bool {
		if termCount[selected[i]] != termCount[selected[j]] {
			return termCount[selected[i]] > termCount[selected[j]]
		}
		return selected[i] < selected[j]
	})
	if maxFeatures > 0 && len(selected) > maxFeatures {
		selected = selected[:maxFeatures]
	}
	sort.Strings(selected)

	n := float64(len(docs))
	vocab := make(map[string]int, len(selected))
	idf := make([]float64, len(selected))
	for i, t := range selected {
		vocab[t] = i
		// Smoothed IDF, never zero.
		idf[i] = math.Log((1+n)/(1+float64(docFreq[t]))) + 1
	}

	return models.VectorizerParams{
		Vocabulary:  vocab,
		IDF:         idf,
		MaxFeatures: maxFeatures,
		NgramMax:    2,
	}
}

// Vectorize maps tokens to an L2-normalized TF-IDF vector using fitted
// parameters. Unknown terms are dropped.
func Vectorize(params models.VectorizerParams, tokens []string) []float64 {
	vec := make([]float64, len(params.IDF))

	tf := make(map[int]float64)
	for _, t := range ngrams(tokens) {
		if idx, ok := params.Vocabulary[t]; ok {
			tf[idx]++
		}
	}

	for idx, count := range tf {
		// Sublinear TF dampens long repetitive transcripts.
		vec[idx] = (1 + math.Log(count)) * params.IDF[idx]
	}

	// Accumulate the norm in index order; summing over the tf map would
	// make the result depend on map iteration order.
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i, v := range vec {
			if v != 0 {
				vec[i] = v / norm
			}
		}
	}

	return vec
}

// ngrams expands tokens into unigrams plus space-joined bigrams
func ngrams(tokens []string) []string {
	terms := make([]string, 0, 2*len(tokens))
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}
