// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package recommend

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/itemsim/internal/metrics"
	"github.com/tomtom215/itemsim/internal/recommend/algorithms"
)

func TestNewHybrid_Weights(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		collab  float64
		content float64
		wantErr bool
	}{
		{"0.6/0.4", 0.6, 0.4, false},
		{"0.7/0.3", 0.7, 0.3, false},
		{"1.0/0.0", 1.0, 0.0, false},
		{"sum 0.9", 0.5, 0.4, true},
		{"sum 1.1", 0.7, 0.4, true},
		{"negative summing to 1", -0.2, 1.2, false},
		{"negative sum 0.8", -0.2, 1.0, true},
		{"nan", math.NaN(), 0.4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := HybridConfig{Weights: Weights{Collaborative: tt.collab, Content: tt.content}}
			_, err := NewHybrid(cfg, testLogger())
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewHybrid() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidWeights) {
				t.Errorf("NewHybrid() error = %v, want ErrInvalidWeights", err)
			}
		})
	}
}

func TestHybrid_UpdateWeights(t *testing.T) {
	t.Parallel()

	h, err := NewHybrid(HybridConfigFrom(testRecommendConfig()), testLogger())
	if err != nil {
		t.Fatalf("NewHybrid() error = %v", err)
	}

	if err := h.UpdateWeights(0.5, 0.4); !errors.Is(err, ErrInvalidWeights) {
		t.Errorf("UpdateWeights(0.5, 0.4) error = %v, want ErrInvalidWeights", err)
	}
	if w := h.Weights(); w.Collaborative != 0.6 || w.Content != 0.4 {
		t.Errorf("Weights() = %+v, invalid update must keep 0.6/0.4", w)
	}

	if err := h.UpdateWeights(0.3, 0.7); err != nil {
		t.Fatalf("UpdateWeights(0.3, 0.7) error = %v", err)
	}
	if w := h.Weights(); w.Collaborative != 0.3 || w.Content != 0.7 {
		t.Errorf("Weights() = %+v, want 0.3/0.7", w)
	}
}

func TestHybrid_NotFitted(t *testing.T) {
	t.Parallel()

	h, err := NewHybrid(HybridConfigFrom(testRecommendConfig()), testLogger())
	if err != nil {
		t.Fatalf("NewHybrid() error = %v", err)
	}

	_, _, err = h.Predict(context.Background(), "heavy", nil, 5)
	if !errors.Is(err, ErrNotFitted) {
		t.Errorf("Predict() error = %v, want ErrNotFitted", err)
	}
	if !errors.Is(err, algorithms.ErrNotFitted) {
		t.Errorf("Predict() error = %v, should also match algorithms.ErrNotFitted", err)
	}
	if _, err := h.PredictCollaborative(context.Background(), "heavy", 5); !errors.Is(err, ErrNotFitted) {
		t.Errorf("PredictCollaborative() error = %v, want ErrNotFitted", err)
	}
	if _, err := h.PredictContent(context.Background(), []string{"p1"}, 5); !errors.Is(err, ErrNotFitted) {
		t.Errorf("PredictContent() error = %v, want ErrNotFitted", err)
	}
}

func TestHybrid_FitFailureLeavesUnfitted(t *testing.T) {
	t.Parallel()

	h, err := NewHybrid(HybridConfigFrom(testRecommendConfig()), testLogger())
	if err != nil {
		t.Fatalf("NewHybrid() error = %v", err)
	}
	if err := h.Fit(context.Background(), testRatings(), nil); err == nil {
		t.Fatal("Fit() with no item features expected error")
	}
	if h.IsFitted() {
		t.Error("IsFitted() = true after failed fit")
	}
}

func TestHybrid_FailedRefitKeepsServingModels(t *testing.T) {
	t.Parallel()

	h := fittedHybrid(t)
	collabBefore, contentBefore := h.subModels()
	want, _, err := h.Predict(context.Background(), "heavy", []string{"p1"}, 3)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	// Valid ratings, so only the content fit fails.
	if err := h.Fit(context.Background(), testRatings(), nil); err == nil {
		t.Fatal("Fit() with no item features expected error")
	}

	if !h.IsFitted() {
		t.Error("IsFitted() = false, earlier fit must keep serving")
	}
	collabAfter, contentAfter := h.subModels()
	if collabAfter != collabBefore || contentAfter != contentBefore {
		t.Fatal("failed Fit() replaced a serving sub-model")
	}
	got, _, err := h.Predict(context.Background(), "heavy", []string{"p1"}, 3)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("Predict() returned %d items after failed refit, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestHybrid_RefitSwapsBothModels(t *testing.T) {
	t.Parallel()

	h := fittedHybrid(t)
	collabBefore, contentBefore := h.subModels()

	var ratings []algorithms.Rating
	for _, r := range testRatings() {
		if r.UserID != "heavy" {
			ratings = append(ratings, r)
		}
	}
	if err := h.Fit(context.Background(), ratings, testItems()); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	collabAfter, contentAfter := h.subModels()
	if collabAfter == collabBefore || contentAfter == contentBefore {
		t.Error("successful Fit() must replace both sub-models")
	}
	if got := h.SelectStrategy("heavy", nil); got != StrategyPopular {
		t.Errorf("SelectStrategy(heavy) = %s after refit without heavy, want popular", got)
	}
}

// Run with -race.
func TestHybrid_ConcurrentFitAndPredict(t *testing.T) {
	t.Parallel()

	h := fittedHybrid(t)
	history := []string{"p1", "p2", "p3"}

	const workers = 4
	done := make(chan struct{})

	var fitters sync.WaitGroup
	for i := 0; i < workers; i++ {
		fitters.Add(1)
		go func() {
			defer fitters.Done()
			for j := 0; j < 3; j++ {
				if err := h.Fit(context.Background(), testRatings(), testItems()); err != nil {
					t.Errorf("Fit() error = %v", err)
					return
				}
			}
		}()
	}

	var readers sync.WaitGroup
	for i := 0; i < workers; i++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				if _, _, err := h.Predict(context.Background(), "heavy", history, 5); err != nil {
					t.Errorf("Predict() error = %v", err)
					return
				}
				if got := h.Explanation("light", nil); got.Strategy == "" {
					t.Error("Explanation() strategy is empty")
					return
				}
				if err := h.UpdateWeights(0.5, 0.5); err != nil {
					t.Errorf("UpdateWeights() error = %v", err)
					return
				}
			}
		}()
	}

	fitters.Wait()
	close(done)
	readers.Wait()

	if !h.IsFitted() {
		t.Error("IsFitted() = false after concurrent fits")
	}
	if w := h.Weights(); w.Collaborative != 0.5 || w.Content != 0.5 {
		t.Errorf("Weights() = %+v, want 0.5/0.5", w)
	}
}

func TestHybrid_SelectStrategy(t *testing.T) {
	t.Parallel()

	h := fittedHybrid(t)

	tests := []struct {
		name      string
		userID    string
		userItems []string
		want      Strategy
	}{
		{"known with 6 interactions", "heavy", nil, StrategyHybrid},
		{"known with 3 interactions", "light", nil, StrategyContent},
		{"unknown with history", "newcomer", []string{"p1", "p2"}, StrategyContent},
		{"unknown without history", "newcomer", nil, StrategyPopular},
		{"unknown with empty history", "newcomer", []string{}, StrategyPopular},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := h.SelectStrategy(tt.userID, tt.userItems); got != tt.want {
				t.Errorf("SelectStrategy() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestHybrid_PredictPopularIsEmpty(t *testing.T) {
	t.Parallel()

	h := fittedHybrid(t)
	items, strategy, err := h.Predict(context.Background(), "newcomer", nil, 5)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if strategy != StrategyPopular || len(items) != 0 {
		t.Errorf("Predict() = %v, %s; want empty, popular", items, strategy)
	}
}

func TestHybrid_PredictContentPath(t *testing.T) {
	t.Parallel()

	h := fittedHybrid(t)
	history := []string{"p1", "p2", "p3"}

	items, strategy, err := h.Predict(context.Background(), "light", history, 3)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if strategy != StrategyContent {
		t.Fatalf("strategy = %s, want content_based", strategy)
	}

	want, _ := h.content.Predict(history, 3)
	if len(items) != len(want) {
		t.Fatalf("Predict() returned %d items, want %d", len(items), len(want))
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("item %d = %+v, want %+v", i, items[i], want[i])
		}
	}
}

func TestHybrid_BlendScores(t *testing.T) {
	t.Parallel()

	h := fittedHybrid(t)
	history := []string{"p1", "p2", "p3", "p4", "p5", "p6"}
	const n = 2

	items, strategy, err := h.Predict(context.Background(), "heavy", history, n)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if strategy != StrategyHybrid {
		t.Fatalf("strategy = %s, want hybrid", strategy)
	}

	collab, _ := h.collaborative.Predict("heavy", 2*n)
	content, _ := h.content.Predict(history, 2*n)
	want := make(map[string]float64)
	for _, it := range collab {
		want[it.ItemID] += 0.6 * it.Score
	}
	for _, it := range content {
		want[it.ItemID] += 0.4 * it.Score
	}

	if len(items) == 0 || len(items) > n {
		t.Fatalf("Predict() returned %d items, want 1..%d", len(items), n)
	}
	for i, it := range items {
		if math.Abs(it.Score-want[it.ItemID]) > 1e-12 {
			t.Errorf("%s score = %v, want %v", it.ItemID, it.Score, want[it.ItemID])
		}
		for _, owned := range history {
			if it.ItemID == owned {
				t.Errorf("Predict() returned owned item %s", owned)
			}
		}
		if i > 0 && it.Score > items[i-1].Score {
			t.Errorf("Predict() not sorted at %d", i)
		}
	}
}

func TestHybrid_SubModelFailureIsIsolated(t *testing.T) {
	h := fittedHybrid(t)
	// An unfitted content model fails every prediction.
	h.content = algorithms.NewContent(algorithms.DefaultContentConfig())

	before := testutil.ToFloat64(metrics.SubModelFailures.WithLabelValues("content"))

	history := []string{"p1", "p2", "p3", "p4", "p5", "p6"}
	items, strategy, err := h.Predict(context.Background(), "heavy", history, 2)
	if err != nil {
		t.Fatalf("Predict() error = %v, sub-model failures must not abort", err)
	}
	if strategy != StrategyHybrid {
		t.Fatalf("strategy = %s, want hybrid", strategy)
	}

	collab, _ := h.collaborative.Predict("heavy", 4)
	for _, it := range items {
		var want float64
		for _, c := range collab {
			if c.ItemID == it.ItemID {
				want = 0.6 * c.Score
			}
		}
		if math.Abs(it.Score-want) > 1e-12 {
			t.Errorf("%s score = %v, want collaborative only %v", it.ItemID, it.Score, want)
		}
	}

	if after := testutil.ToFloat64(metrics.SubModelFailures.WithLabelValues("content")); after != before+1 {
		t.Errorf("sub-model failures = %v, want %v", after, before+1)
	}
}

func TestHybrid_Explanation(t *testing.T) {
	t.Parallel()

	h := fittedHybrid(t)

	tests := []struct {
		name            string
		userID          string
		userItems       []string
		wantStrategy    string
		wantDescription string
	}{
		{"hybrid", "heavy", nil, "Hybrid", "Combination of collaborative (60%) and content (40%)"},
		{"content", "light", nil, "Content-Based", "Recommendations based on item characteristics"},
		{"popular explained as content", "newcomer", nil, "Content-Based", "Recommendations based on item characteristics"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := h.Explanation(tt.userID, tt.userItems)
			if got.Strategy != tt.wantStrategy || got.Description != tt.wantDescription {
				t.Errorf("Explanation() = %+v, want %s / %s", got, tt.wantStrategy, tt.wantDescription)
			}
			if got.Reason == "" {
				t.Error("Explanation() reason is empty")
			}
		})
	}
}

func TestExplainCollaborative(t *testing.T) {
	t.Parallel()

	got := explain(StrategyCollaborative, Weights{Collaborative: 0.6, Content: 0.4}, 5)
	if got.Reason != "User has 5+ interactions" {
		t.Errorf("Reason = %q", got.Reason)
	}
}

func TestParseRequestStrategy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    RequestStrategy
		wantErr bool
	}{
		{"", RequestHybrid, false},
		{"hybrid", RequestHybrid, false},
		{"collaborative", RequestCollaborative, false},
		{"content", RequestContent, false},
		{"content_based", "", true},
		{"random", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseRequestStrategy(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRequestStrategy(%q) error = %v", tt.in, err)
			}
			if tt.wantErr && !errors.Is(err, ErrUnknownStrategy) {
				t.Errorf("error = %v, want ErrUnknownStrategy", err)
			}
			if got != tt.want {
				t.Errorf("ParseRequestStrategy(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
