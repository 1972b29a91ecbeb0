// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package similarity

import (
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/tomtom215/itemsim/internal/models"
)

// Cosine returns dot(a, b) / (|a| |b|) for equal-length dense vectors. A
// zero-norm vector has similarity 0 with everything.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return clamp(floats.Dot(a, b) / (na * nb))
}

// sparseCosine merges two row-sorted sparse vectors.
func sparseCosine(a, b *itemVector) float64 {
	if a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	i, j := 0, 0
	for i < len(a.rows) && j < len(b.rows) {
		switch {
		case a.rows[i] < b.rows[j]:
			i++
		case a.rows[i] > b.rows[j]:
			j++
		default:
			dot += a.vals[i] * b.vals[j]
			i++
			j++
		}
	}
	return clamp(dot / (a.norm * b.norm))
}

// clamp absorbs rounding that pushes identical vectors just past 1.
func clamp(s float64) float64 {
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}

// ComputePairs returns every product pair (i < j by product id) whose
// cosine similarity is at least threshold, ordered by (product_id_1,
// product_id_2). Rows of the upper triangle are scored in parallel.
func ComputePairs(m *InteractionMatrix, threshold float64) []models.SimilarityPair {
	vecs := m.itemVectors()
	n := len(vecs)
	if n < 2 {
		return []models.SimilarityPair{}
	}

	perRow := make([][]models.SimilarityPair, n)

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < n-1; i++ {
		g.Go(func() error {
			var row []models.SimilarityPair
			for j := i + 1; j < n; j++ {
				s := sparseCosine(&vecs[i], &vecs[j])
				if s >= threshold {
					row = append(row, models.SimilarityPair{
						ProductID1: m.ProductIDs[i],
						ProductID2: m.ProductIDs[j],
						Similarity: s,
					})
				}
			}
			perRow[i] = row
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	total := 0
	for _, row := range perRow {
		total += len(row)
	}
	pairs := make([]models.SimilarityPair, 0, total)
	for _, row := range perRow {
		pairs = append(pairs, row...)
	}
	return pairs
}
