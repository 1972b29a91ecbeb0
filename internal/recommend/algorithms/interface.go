// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package algorithms

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrNotFitted is returned by prediction methods called before Fit.
var ErrNotFitted = errors.New("model not fitted")

// ScoredItem is one ranked recommendation.
type ScoredItem struct {
	ItemID string  `json:"item_id"`
	Score  float64 `json:"score"`
}

// Rating is one user-item interaction strength.
type Rating struct {
	UserID string
	ItemID string
	Value  float64
}

// ItemFeatures describes one item for the content model. Numeric columns
// must be in the same order for every item; shorter rows are zero-padded.
type ItemFeatures struct {
	ItemID  string
	Numeric []float64
	Text    []string
}

// BaseAlgorithm holds fit state shared by the models. Fit holds the write
// lock for its whole duration; predictions share the read lock.
type BaseAlgorithm struct {
	name         string
	fitted       bool
	version      int
	lastFittedAt time.Time
	mu           sync.RWMutex
}

// NewBaseAlgorithm creates a base with the given name.
func NewBaseAlgorithm(name string) BaseAlgorithm {
	return BaseAlgorithm{name: name}
}

// Name returns the model identifier.
func (b *BaseAlgorithm) Name() string {
	return b.name
}

// IsFitted reports whether Fit has completed at least once.
func (b *BaseAlgorithm) IsFitted() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.fitted
}

// Version counts successful fits.
func (b *BaseAlgorithm) Version() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// LastFittedAt returns when the last fit completed.
func (b *BaseAlgorithm) LastFittedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastFittedAt
}

// markFitted must be called with the write lock held.
func (b *BaseAlgorithm) markFitted() {
	b.fitted = true
	b.version++
	b.lastFittedAt = time.Now()
}

// RankTop sorts items in place by score descending, then item id
// ascending, and returns the first n.
// n <= 0 keeps nothing.
func RankTop(items []ScoredItem, n int) []ScoredItem {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ItemID < items[j].ItemID
	})
	if n < 0 {
		n = 0
	}
	if len(items) > n {
		items = items[:n]
	}
	return items
}

// contextCancelled checks ctx without blocking.
func contextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
