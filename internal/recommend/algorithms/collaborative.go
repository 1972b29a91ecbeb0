// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package algorithms

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// CollaborativeConfig configures the latent factor model.
type CollaborativeConfig struct {
	// NFactors is the rank k of the factorization.
	NFactors int

	// MaxIterations bounds the multiplicative update loop.
	MaxIterations int

	// Tolerance stops the loop once the relative drop in reconstruction
	// error between checks falls below it.
	Tolerance float64

	// Seed makes factor initialization reproducible.
	Seed int64
}

// DefaultCollaborativeConfig returns the standard settings.
func DefaultCollaborativeConfig() CollaborativeConfig {
	return CollaborativeConfig{
		NFactors:      10,
		MaxIterations: 200,
		Tolerance:     1e-4,
		Seed:          42,
	}
}

// errorCheckInterval is how many updates run between convergence checks.
const errorCheckInterval = 10

// nmfEpsilon keeps multiplicative update denominators positive.
const nmfEpsilon = 1e-10

// Collaborative factorizes a dense user x item rating pivot into
// non-negative user factors W (users x k) and item factors H (k x items)
// with Lee-Seung multiplicative updates, minimizing ||X - WH||_F.
//
// Users and items are indexed in lexicographic id order.
type Collaborative struct {
	BaseAlgorithm
	config CollaborativeConfig

	userIDs   []string
	itemIDs   []string
	userIndex map[string]int

	pivot *mat.Dense // X
	w     *mat.Dense
	h     *mat.Dense
}

// NewCollaborative creates an unfitted model. Zero fields take defaults.
func NewCollaborative(cfg CollaborativeConfig) *Collaborative {
	def := DefaultCollaborativeConfig()
	if cfg.NFactors <= 0 {
		cfg.NFactors = def.NFactors
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = def.MaxIterations
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = def.Tolerance
	}
	return &Collaborative{
		BaseAlgorithm: NewBaseAlgorithm("collaborative"),
		config:        cfg,
		userIndex:     make(map[string]int),
	}
}

// Fit builds the pivot (missing cells 0, repeated user-item ratings
// averaged) and factorizes it. Ratings must be non-negative.
func (c *Collaborative) Fit(ctx context.Context, ratings []Rating) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(ratings) == 0 {
		return fmt.Errorf("collaborative fit: no ratings")
	}

	userIDs, itemIDs := distinctSorted(ratings)
	userIndex := make(map[string]int, len(userIDs))
	for i, id := range userIDs {
		userIndex[id] = i
	}
	itemIndex := make(map[string]int, len(itemIDs))
	for i, id := range itemIDs {
		itemIndex[id] = i
	}

	x := mat.NewDense(len(userIDs), len(itemIDs), nil)
	counts := make(map[[2]int]int, len(ratings))
	for _, r := range ratings {
		if r.Value < 0 || math.IsNaN(r.Value) {
			return fmt.Errorf("collaborative fit: invalid rating %v for %s/%s", r.Value, r.UserID, r.ItemID)
		}
		u, i := userIndex[r.UserID], itemIndex[r.ItemID]
		key := [2]int{u, i}
		n := counts[key]
		x.Set(u, i, (x.At(u, i)*float64(n)+r.Value)/float64(n+1))
		counts[key] = n + 1
	}

	w, h, err := c.factorize(ctx, x)
	if err != nil {
		return err
	}

	c.userIDs = userIDs
	c.itemIDs = itemIDs
	c.userIndex = userIndex
	c.pivot = x
	c.w = w
	c.h = h
	c.markFitted()
	return nil
}

func (c *Collaborative) factorize(ctx context.Context, x *mat.Dense) (*mat.Dense, *mat.Dense, error) {
	users, items := x.Dims()
	k := c.config.NFactors

	// Random init scaled to the data mean.
	scale := math.Sqrt(mat.Sum(x) / float64(users*items) / float64(k))
	rng := rand.New(rand.NewPCG(uint64(c.config.Seed), uint64(c.config.Seed)))
	w := mat.NewDense(users, k, nil)
	h := mat.NewDense(k, items, nil)
	w.Apply(func(_, _ int, _ float64) float64 { return scale * math.Abs(rng.NormFloat64()) }, w)
	h.Apply(func(_, _ int, _ float64) float64 { return scale * math.Abs(rng.NormFloat64()) }, h)

	var (
		num, den, wtw, hht mat.Dense
		recon              mat.Dense
	)
	prevErr := reconstructionError(x, w, h, &recon)
	initialErr := prevErr

	for iter := 1; iter <= c.config.MaxIterations; iter++ {
		if contextCancelled(ctx) {
			return nil, nil, ctx.Err()
		}

		// H <- H * (W'X) / (W'WH)
		num.Mul(w.T(), x)
		wtw.Mul(w.T(), w)
		den.Mul(&wtw, h)
		h.Apply(func(i, j int, v float64) float64 {
			return v * num.At(i, j) / (den.At(i, j) + nmfEpsilon)
		}, h)
		num.Reset()
		den.Reset()

		// W <- W * (XH') / (WHH')
		num.Mul(x, h.T())
		hht.Mul(h, h.T())
		den.Mul(w, &hht)
		w.Apply(func(i, j int, v float64) float64 {
			return v * num.At(i, j) / (den.At(i, j) + nmfEpsilon)
		}, w)
		num.Reset()
		den.Reset()
		wtw.Reset()
		hht.Reset()

		if iter%errorCheckInterval == 0 {
			recon.Reset()
			e := reconstructionError(x, w, h, &recon)
			if initialErr > 0 && (prevErr-e)/initialErr < c.config.Tolerance {
				break
			}
			prevErr = e
		}
	}
	return w, h, nil
}

func reconstructionError(x, w, h *mat.Dense, scratch *mat.Dense) float64 {
	scratch.Mul(w, h)
	scratch.Sub(x, scratch)
	return mat.Norm(scratch, 2)
}

// Predict scores every item as dot(W[user], H[:, item]), drops items the
// user already rated above zero and returns the top n. An unknown user
// yields an empty slice.
func (c *Collaborative) Predict(userID string, n int) ([]ScoredItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.fitted {
		return nil, ErrNotFitted
	}
	u, ok := c.userIndex[userID]
	if !ok {
		return []ScoredItem{}, nil
	}

	var scores mat.VecDense
	scores.MulVec(c.h.T(), c.w.RowView(u))

	out := make([]ScoredItem, 0, len(c.itemIDs))
	for i, id := range c.itemIDs {
		if c.pivot.At(u, i) > 0 {
			continue
		}
		out = append(out, ScoredItem{ItemID: id, Score: scores.AtVec(i)})
	}
	return RankTop(out, n), nil
}

// UserSimilarity is the cosine of two users' factor vectors. Unknown users
// or an unfitted model give 0.
func (c *Collaborative) UserSimilarity(user1, user2 string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.fitted {
		return 0
	}
	u1, ok1 := c.userIndex[user1]
	u2, ok2 := c.userIndex[user2]
	if !ok1 || !ok2 {
		return 0
	}

	a := mat.Row(nil, u1, c.w)
	b := mat.Row(nil, u2, c.w)
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a, b) / (na * nb)
}

// InteractionCount returns how many items the user rated above zero and
// whether the user is in the fitted pivot.
func (c *Collaborative) InteractionCount(userID string) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	u, ok := c.userIndex[userID]
	if !c.fitted || !ok {
		return 0, false
	}
	count := 0
	for i := range c.itemIDs {
		if c.pivot.At(u, i) > 0 {
			count++
		}
	}
	return count, true
}

// Dims returns the fitted user and item counts.
func (c *Collaborative) Dims() (users, items int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.userIDs), len(c.itemIDs)
}

func distinctSorted(ratings []Rating) (users, items []string) {
	us := make(map[string]struct{})
	is := make(map[string]struct{})
	for _, r := range ratings {
		us[r.UserID] = struct{}{}
		is[r.ItemID] = struct{}{}
	}
	users = make([]string, 0, len(us))
	for id := range us {
		users = append(users, id)
	}
	items = make([]string, 0, len(is))
	for id := range is {
		items = append(items, id)
	}
	sort.Strings(users)
	sort.Strings(items)
	return users, items
}
