// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package algorithms

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// tokenPattern matches runs of two or more Unicode word characters.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

func tokenize(doc string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(doc), -1)
	tokens := raw[:0]
	for _, t := range raw {
		if _, stop := englishStopWords[t]; !stop {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func joinText(parts []string) string {
	return strings.Join(parts, " ")
}

// newTFIDF builds an L2-normalized TF-IDF matrix (documents x terms). The
// vocabulary keeps the maxFeatures most frequent terms across the corpus,
// ties broken alphabetically. IDF is smoothed: ln((1+n)/(1+df)) + 1.
// Returns nil when no document has a usable token.
func newTFIDF(docs []string, maxFeatures int) *mat.Dense {
	tokenized := make([][]string, len(docs))
	corpusCount := make(map[string]int)
	docFreq := make(map[string]int)
	for i, d := range docs {
		tokenized[i] = tokenize(d)
		seen := make(map[string]bool)
		for _, t := range tokenized[i] {
			corpusCount[t]++
			if !seen[t] {
				seen[t] = true
				docFreq[t]++
			}
		}
	}
	if len(corpusCount) == 0 {
		return nil
	}

	vocab := make([]string, 0, len(corpusCount))
	for t := range corpusCount {
		vocab = append(vocab, t)
	}
	sort.Slice(vocab, func(i, j int) bool {
		if corpusCount[vocab[i]] != corpusCount[vocab[j]] {
			return corpusCount[vocab[i]] > corpusCount[vocab[j]]
		}
		return vocab[i] < vocab[j]
	})
	if maxFeatures > 0 && len(vocab) > maxFeatures {
		vocab = vocab[:maxFeatures]
	}
	sort.Strings(vocab)

	column := make(map[string]int, len(vocab))
	for i, t := range vocab {
		column[t] = i
	}

	n := float64(len(docs))
	out := mat.NewDense(len(docs), len(vocab), nil)
	for i, tokens := range tokenized {
		for _, t := range tokens {
			if j, ok := column[t]; ok {
				out.Set(i, j, out.At(i, j)+1)
			}
		}
		row := out.RawRowView(i)
		for j, t := range vocab {
			if row[j] > 0 {
				row[j] *= math.Log((1+n)/(1+float64(docFreq[t]))) + 1
			}
		}
		if norm := floats.Norm(row, 2); norm > 0 {
			floats.Scale(1/norm, row)
		}
	}
	return out
}
