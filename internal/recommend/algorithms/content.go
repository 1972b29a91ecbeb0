// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package algorithms

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ContentConfig configures the content model.
type ContentConfig struct {
	// MaxFeatures caps the TF-IDF vocabulary to the most frequent terms.
	MaxFeatures int
}

// DefaultContentConfig returns the standard settings.
func DefaultContentConfig() ContentConfig {
	return ContentConfig{MaxFeatures: 1000}
}

// Content scores items by attribute similarity. The item-item matrix is
// the element-wise mean of the cosine similarity of numeric columns and
// the cosine similarity of TF-IDF vectors built from the text columns.
type Content struct {
	BaseAlgorithm
	config ContentConfig

	itemIDs   []string
	itemIndex map[string]int
	sim       *mat.SymDense
}

// NewContent creates an unfitted model.
func NewContent(cfg ContentConfig) *Content {
	if cfg.MaxFeatures <= 0 {
		cfg.MaxFeatures = DefaultContentConfig().MaxFeatures
	}
	return &Content{
		BaseAlgorithm: NewBaseAlgorithm("content"),
		config:        cfg,
		itemIndex:     make(map[string]int),
	}
}

// Fit computes the item-item similarity matrix. Items keep their input
// order; duplicate ids are rejected. NaN numeric values count as 0.
func (c *Content) Fit(ctx context.Context, items []ItemFeatures) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(items) == 0 {
		return fmt.Errorf("content fit: no items")
	}

	ids := make([]string, len(items))
	index := make(map[string]int, len(items))
	width := 0
	hasText := false
	for i, it := range items {
		if _, dup := index[it.ItemID]; dup {
			return fmt.Errorf("content fit: duplicate item %s", it.ItemID)
		}
		ids[i] = it.ItemID
		index[it.ItemID] = i
		width = max(width, len(it.Numeric))
		if len(it.Text) > 0 {
			hasText = true
		}
	}

	n := len(items)
	numeric := mat.NewSymDense(n, nil)
	if width > 0 {
		rows := mat.NewDense(n, width, nil)
		for i, it := range items {
			for j, v := range it.Numeric {
				if math.IsNaN(v) {
					v = 0
				}
				rows.Set(i, j, v)
			}
		}
		cosineGram(numeric, rows)
	}

	if contextCancelled(ctx) {
		return ctx.Err()
	}

	text := mat.NewSymDense(n, nil)
	if hasText {
		docs := make([]string, n)
		for i, it := range items {
			docs[i] = joinText(it.Text)
		}
		if tfidf := newTFIDF(docs, c.config.MaxFeatures); tfidf != nil {
			// Rows are already L2-normalized.
			text.SymOuterK(1, tfidf)
		}
	}

	// The unconditional halving also applies when one feature kind is
	// absent, which halves every score in that case. Kept for
	// compatibility with existing rankings; changing it needs product
	// sign-off.
	combined := mat.NewSymDense(n, nil)
	combined.AddSym(numeric, text)
	combined.ScaleSym(0.5, combined)

	c.itemIDs = ids
	c.itemIndex = index
	c.sim = combined
	c.markFitted()
	return nil
}

// cosineGram writes the pairwise cosine similarity of rows into dst.
// Zero rows are similar to nothing, themselves included.
func cosineGram(dst *mat.SymDense, rows *mat.Dense) {
	r, _ := rows.Dims()
	for i := 0; i < r; i++ {
		row := rows.RawRowView(i)
		if norm := floats.Norm(row, 2); norm > 0 {
			floats.Scale(1/norm, row)
		}
	}
	dst.SymOuterK(1, rows)
}

// Predict averages, for every item not in userItems, its similarity to
// each known item in userItems, and returns the top n. Unknown entries in
// userItems are skipped. If none are known the result is empty.
func (c *Content) Predict(userItems []string, n int) ([]ScoredItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.fitted {
		return nil, ErrNotFitted
	}

	owned := make(map[string]bool, len(userItems))
	var known []int
	for _, id := range userItems {
		owned[id] = true
		if idx, ok := c.itemIndex[id]; ok {
			known = append(known, idx)
		}
	}
	if len(known) == 0 {
		return []ScoredItem{}, nil
	}

	out := make([]ScoredItem, 0, len(c.itemIDs))
	for i, id := range c.itemIDs {
		if owned[id] {
			continue
		}
		var sum float64
		for _, k := range known {
			sum += c.sim.At(i, k)
		}
		out = append(out, ScoredItem{ItemID: id, Score: sum / float64(len(known))})
	}
	return RankTop(out, n), nil
}

// SimilarItems returns the n items most similar to itemID, itself
// excluded. Unknown items and an unfitted model give an empty slice.
func (c *Content) SimilarItems(itemID string, n int) []ScoredItem {
	c.mu.RLock()
	defer c.mu.RUnlock()

	idx, ok := c.itemIndex[itemID]
	if !c.fitted || !ok {
		return []ScoredItem{}
	}

	out := make([]ScoredItem, 0, len(c.itemIDs)-1)
	for i, id := range c.itemIDs {
		if i == idx {
			continue
		}
		out = append(out, ScoredItem{ItemID: id, Score: c.sim.At(idx, i)})
	}
	return RankTop(out, n)
}

// ItemSimilarity returns the combined similarity of two items, 0 when
// either is unknown or the model is unfitted.
func (c *Content) ItemSimilarity(item1, item2 string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.fitted {
		return 0
	}
	i, ok1 := c.itemIndex[item1]
	j, ok2 := c.itemIndex[item2]
	if !ok1 || !ok2 {
		return 0
	}
	return c.sim.At(i, j)
}

// Len returns the number of fitted items.
func (c *Content) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.itemIDs)
}
