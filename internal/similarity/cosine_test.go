// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package similarity

import (
	"fmt"
	"math"
	"testing"

	"github.com/tomtom215/itemsim/internal/models"
)

const tolerance = 1e-12

func TestCosine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"self", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"scaled", []float64{1, 2, 3}, []float64{2, 4, 6}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"opposite", []float64{1, 1}, []float64{-1, -1}, -1},
		{"zero vector", []float64{0, 0, 0}, []float64{1, 2, 3}, 0},
		{"both zero", []float64{0, 0}, []float64{0, 0}, 0},
		{"length mismatch", []float64{1}, []float64{1, 2}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Cosine(tt.a, tt.b)
			if math.IsNaN(got) {
				t.Fatalf("Cosine() = NaN")
			}
			if math.Abs(got-tt.want) > tolerance {
				t.Errorf("Cosine(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCosine_Symmetric(t *testing.T) {
	t.Parallel()

	a := []float64{3, 0, 1, 7}
	b := []float64{1, 5, 0, 2}
	if Cosine(a, b) != Cosine(b, a) {
		t.Errorf("Cosine not symmetric: %v vs %v", Cosine(a, b), Cosine(b, a))
	}
}

// toyMatrix is 4 customers x 5 products. P1 and P2 are bought once by every
// customer; P5 is in the selection but never bought.
func toyMatrix() *InteractionMatrix {
	var in []models.Interaction
	for _, c := range []string{"c1", "c2", "c3", "c4"} {
		in = append(in,
			models.Interaction{CustomerID: c, ProductID: "P1", PurchaseCount: 1},
			models.Interaction{CustomerID: c, ProductID: "P2", PurchaseCount: 1},
		)
	}
	in = append(in,
		models.Interaction{CustomerID: "c1", ProductID: "P3", PurchaseCount: 1},
		models.Interaction{CustomerID: "c2", ProductID: "P4", PurchaseCount: 1},
		models.Interaction{CustomerID: "c3", ProductID: "P4", PurchaseCount: 1},
	)
	return NewInteractionMatrix([]string{"P1", "P2", "P3", "P4", "P5"}, in)
}

func TestComputePairs_IdenticalProducts(t *testing.T) {
	t.Parallel()

	pairs := ComputePairs(toyMatrix(), 0.99)
	if len(pairs) != 1 {
		t.Fatalf("ComputePairs() = %v, want exactly one pair", pairs)
	}
	p := pairs[0]
	if p.ProductID1 != "P1" || p.ProductID2 != "P2" {
		t.Errorf("pair = %s/%s, want P1/P2", p.ProductID1, p.ProductID2)
	}
	if math.Abs(p.Similarity-1) > tolerance {
		t.Errorf("similarity = %v, want 1.0", p.Similarity)
	}
}

func TestComputePairs_Scores(t *testing.T) {
	t.Parallel()

	pairs := ComputePairs(toyMatrix(), 0.1)
	got := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		got[p.ProductID1+"/"+p.ProductID2] = p.Similarity
	}

	want := map[string]float64{
		"P1/P2": 1,
		"P1/P3": 0.5,
		"P1/P4": 1 / math.Sqrt2,
		"P2/P3": 0.5,
		"P2/P4": 1 / math.Sqrt2,
	}
	if len(got) != len(want) {
		t.Fatalf("ComputePairs() = %v, want %d pairs", got, len(want))
	}
	for k, w := range want {
		if math.Abs(got[k]-w) > tolerance {
			t.Errorf("%s = %v, want %v", k, got[k], w)
		}
	}
}

func TestComputePairs_Invariants(t *testing.T) {
	t.Parallel()

	var in []models.Interaction
	for c := 0; c < 30; c++ {
		for p := 0; p < 12; p++ {
			if (c*7+p*3)%5 < 2 {
				in = append(in, models.Interaction{
					CustomerID:    fmt.Sprintf("c%02d", c),
					ProductID:     fmt.Sprintf("p%02d", p),
					PurchaseCount: 1 + (c+p)%3,
				})
			}
		}
	}
	m := NewInteractionMatrix(nil, in)
	threshold := 0.2
	pairs := ComputePairs(m, threshold)

	seen := make(map[string]bool)
	for i, p := range pairs {
		if p.ProductID1 >= p.ProductID2 {
			t.Errorf("pair %d not upper triangle: %s/%s", i, p.ProductID1, p.ProductID2)
		}
		if p.Similarity < threshold || p.Similarity > 1 {
			t.Errorf("pair %d similarity %v outside [%v, 1]", i, p.Similarity, threshold)
		}
		key := p.ProductID1 + "/" + p.ProductID2
		if seen[key] || seen[p.ProductID2+"/"+p.ProductID1] {
			t.Errorf("duplicate pair %s", key)
		}
		seen[key] = true
		if i > 0 {
			prev := pairs[i-1]
			if prev.ProductID1 > p.ProductID1 || (prev.ProductID1 == p.ProductID1 && prev.ProductID2 >= p.ProductID2) {
				t.Errorf("pairs %d and %d out of order", i-1, i)
			}
		}
	}

	again := ComputePairs(m, threshold)
	if len(again) != len(pairs) {
		t.Fatalf("second run produced %d pairs, want %d", len(again), len(pairs))
	}
	for i := range pairs {
		if pairs[i] != again[i] {
			t.Errorf("run mismatch at %d: %v vs %v", i, pairs[i], again[i])
		}
	}
}

func TestComputePairs_ZeroNormNeverNaN(t *testing.T) {
	t.Parallel()

	m := NewInteractionMatrix([]string{"a", "b", "c"}, []models.Interaction{
		{CustomerID: "c1", ProductID: "a", PurchaseCount: 1},
	})

	pairs := ComputePairs(m, -1)
	if len(pairs) != 3 {
		t.Fatalf("ComputePairs() = %v, want all 3 pairs at threshold -1", pairs)
	}
	for _, p := range pairs {
		if math.IsNaN(p.Similarity) || p.Similarity != 0 {
			t.Errorf("%s/%s similarity = %v, want 0", p.ProductID1, p.ProductID2, p.Similarity)
		}
	}
}

func TestComputePairs_SingleProduct(t *testing.T) {
	t.Parallel()

	m := NewInteractionMatrix([]string{"a"}, []models.Interaction{
		{CustomerID: "c1", ProductID: "a", PurchaseCount: 1},
	})
	pairs := ComputePairs(m, 0.1)
	if pairs == nil || len(pairs) != 0 {
		t.Errorf("ComputePairs() = %v, want empty non-nil slice", pairs)
	}
}
