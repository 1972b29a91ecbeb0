// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package similarity

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/tomtom215/itemsim/internal/models"
)

// InteractionMatrix is a customer x product purchase-count matrix in
// compressed sparse row form. Row i belongs to CustomerIDs[i] and column j
// to ProductIDs[j]; both id slices are sorted.
type InteractionMatrix struct {
	CustomerIDs []string
	ProductIDs  []string

	rowPtr []int
	colIdx []int
	values []float64
}

// NewInteractionMatrix assembles a matrix from (customer, product, count)
// triples. Repeated (customer, product) triples are summed. Products listed
// in products but absent from interactions get an all-zero column.
func NewInteractionMatrix(products []string, interactions []models.Interaction) *InteractionMatrix {
	productIDs := sortedUnique(products, func(add func(string)) {
		for _, in := range interactions {
			add(in.ProductID)
		}
	})
	customerIDs := sortedUnique(nil, func(add func(string)) {
		for _, in := range interactions {
			add(in.CustomerID)
		}
	})

	productIdx := indexOf(productIDs)
	customerIdx := indexOf(customerIDs)

	// Count entries per row, then place them.
	counts := make([]int, len(customerIDs)+1)
	for _, in := range interactions {
		counts[customerIdx[in.CustomerID]+1]++
	}
	for i := 1; i < len(counts); i++ {
		counts[i] += counts[i-1]
	}

	type cell struct {
		col int
		val float64
	}
	cells := make([]cell, len(interactions))
	next := append([]int(nil), counts[:len(customerIDs)]...)
	for _, in := range interactions {
		r := customerIdx[in.CustomerID]
		cells[next[r]] = cell{col: productIdx[in.ProductID], val: float64(in.PurchaseCount)}
		next[r]++
	}

	m := &InteractionMatrix{
		CustomerIDs: customerIDs,
		ProductIDs:  productIDs,
		rowPtr:      make([]int, 1, len(customerIDs)+1),
	}
	for r := range customerIDs {
		row := cells[counts[r]:counts[r+1]]
		sort.Slice(row, func(a, b int) bool { return row[a].col < row[b].col })
		for k := 0; k < len(row); k++ {
			if k > 0 && row[k].col == row[k-1].col {
				m.values[len(m.values)-1] += row[k].val
				continue
			}
			m.colIdx = append(m.colIdx, row[k].col)
			m.values = append(m.values, row[k].val)
		}
		m.rowPtr = append(m.rowPtr, len(m.colIdx))
	}
	return m
}

// Rows is the number of customers.
func (m *InteractionMatrix) Rows() int { return len(m.CustomerIDs) }

// Cols is the number of products.
func (m *InteractionMatrix) Cols() int { return len(m.ProductIDs) }

// NonZero is the number of stored entries.
func (m *InteractionMatrix) NonZero() int { return len(m.values) }

// Density is NonZero over Rows*Cols, 0 for an empty matrix.
func (m *InteractionMatrix) Density() float64 {
	cells := m.Rows() * m.Cols()
	if cells == 0 {
		return 0
	}
	return float64(m.NonZero()) / float64(cells)
}

// At returns the entry at (row, col). Out-of-range indices read as 0.
func (m *InteractionMatrix) At(row, col int) float64 {
	if row < 0 || row >= m.Rows() {
		return 0
	}
	lo, hi := m.rowPtr[row], m.rowPtr[row+1]
	k := lo + sort.SearchInts(m.colIdx[lo:hi], col)
	if k < hi && m.colIdx[k] == col {
		return m.values[k]
	}
	return 0
}

// itemVector is one product column: customer row indices ascending and the
// matching counts.
type itemVector struct {
	rows []int
	vals []float64
	norm float64
}

// itemVectors transposes the matrix into one sparse vector per product.
func (m *InteractionMatrix) itemVectors() []itemVector {
	vecs := make([]itemVector, m.Cols())
	for r := 0; r < m.Rows(); r++ {
		for k := m.rowPtr[r]; k < m.rowPtr[r+1]; k++ {
			c := m.colIdx[k]
			vecs[c].rows = append(vecs[c].rows, r)
			vecs[c].vals = append(vecs[c].vals, m.values[k])
		}
	}
	for i := range vecs {
		vecs[i].norm = floats.Norm(vecs[i].vals, 2)
	}
	return vecs
}

func sortedUnique(seed []string, each func(add func(string))) []string {
	seen := make(map[string]struct{}, len(seed))
	out := make([]string, 0, len(seed))
	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, id := range seed {
		add(id)
	}
	each(add)
	sort.Strings(out)
	return out
}

func indexOf(ids []string) map[string]int {
	idx := make(map[string]int, len(ids))
	for i, id := range ids {
		idx[id] = i
	}
	return idx
}
