// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package algorithms

import (
	"context"
	"errors"
	"math"
	"testing"
)

func testRatings() []Rating {
	return []Rating{
		{UserID: "u1", ItemID: "a", Value: 5},
		{UserID: "u1", ItemID: "b", Value: 4},
		{UserID: "u2", ItemID: "a", Value: 4},
		{UserID: "u2", ItemID: "c", Value: 5},
		{UserID: "u3", ItemID: "b", Value: 3},
		{UserID: "u3", ItemID: "c", Value: 4},
		{UserID: "u3", ItemID: "d", Value: 5},
		{UserID: "u4", ItemID: "d", Value: 2},
		{UserID: "u4", ItemID: "e", Value: 5},
	}
}

func testCollaborativeConfig() CollaborativeConfig {
	return CollaborativeConfig{NFactors: 2, MaxIterations: 200, Tolerance: 1e-4, Seed: 42}
}

func TestCollaborative_NotFitted(t *testing.T) {
	t.Parallel()

	cf := NewCollaborative(testCollaborativeConfig())
	if cf.IsFitted() {
		t.Fatal("new model should not be fitted")
	}
	if _, err := cf.Predict("u1", 5); !errors.Is(err, ErrNotFitted) {
		t.Errorf("Predict() error = %v, want ErrNotFitted", err)
	}
	if got := cf.UserSimilarity("u1", "u2"); got != 0 {
		t.Errorf("UserSimilarity() = %v, want 0", got)
	}
	if _, ok := cf.InteractionCount("u1"); ok {
		t.Error("InteractionCount() ok = true before fit")
	}
}

func TestCollaborative_FitErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ratings []Rating
	}{
		{"empty", nil},
		{"negative", []Rating{{UserID: "u1", ItemID: "a", Value: -1}}},
		{"nan", []Rating{{UserID: "u1", ItemID: "a", Value: math.NaN()}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cf := NewCollaborative(testCollaborativeConfig())
			if err := cf.Fit(context.Background(), tt.ratings); err == nil {
				t.Error("Fit() expected error")
			}
			if cf.IsFitted() {
				t.Error("failed fit must leave the model unfitted")
			}
		})
	}
}

func TestCollaborative_FitCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cf := NewCollaborative(testCollaborativeConfig())
	if err := cf.Fit(ctx, testRatings()); !errors.Is(err, context.Canceled) {
		t.Errorf("Fit() error = %v, want context.Canceled", err)
	}
}

func TestCollaborative_Predict(t *testing.T) {
	t.Parallel()

	cf := NewCollaborative(testCollaborativeConfig())
	if err := cf.Fit(context.Background(), testRatings()); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	users, items := cf.Dims()
	if users != 4 || items != 5 {
		t.Fatalf("Dims() = %d, %d; want 4, 5", users, items)
	}
	if cf.Version() != 1 {
		t.Errorf("Version() = %d, want 1", cf.Version())
	}

	got, err := cf.Predict("u1", 10)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Predict() returned %d items, want 3 unrated", len(got))
	}
	for i, item := range got {
		if item.ItemID == "a" || item.ItemID == "b" {
			t.Errorf("Predict() returned already rated item %s", item.ItemID)
		}
		if item.Score < 0 {
			t.Errorf("Predict() score %v is negative", item.Score)
		}
		if i > 0 && item.Score > got[i-1].Score {
			t.Errorf("Predict() not sorted at %d", i)
		}
	}

	top1, _ := cf.Predict("u1", 1)
	if len(top1) != 1 || top1[0] != got[0] {
		t.Errorf("Predict(n=1) = %v, want %v", top1, got[:1])
	}

	unknown, err := cf.Predict("nobody", 5)
	if err != nil || len(unknown) != 0 {
		t.Errorf("Predict(unknown) = %v, %v; want empty, nil", unknown, err)
	}
}

func TestCollaborative_Deterministic(t *testing.T) {
	t.Parallel()

	first := NewCollaborative(testCollaborativeConfig())
	second := NewCollaborative(testCollaborativeConfig())
	for _, cf := range []*Collaborative{first, second} {
		if err := cf.Fit(context.Background(), testRatings()); err != nil {
			t.Fatalf("Fit() error = %v", err)
		}
	}

	a, _ := first.Predict("u4", 5)
	b, _ := second.Predict("u4", 5)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("result %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestCollaborative_DuplicateRatingsAveraged(t *testing.T) {
	t.Parallel()

	ratings := append(testRatings(),
		Rating{UserID: "u1", ItemID: "a", Value: 1},
		Rating{UserID: "u1", ItemID: "a", Value: 3},
	)
	cf := NewCollaborative(testCollaborativeConfig())
	if err := cf.Fit(context.Background(), ratings); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	count, ok := cf.InteractionCount("u1")
	if !ok || count != 2 {
		t.Errorf("InteractionCount(u1) = %d, %v; want 2, true", count, ok)
	}
	if got := cf.pivot.At(0, 0); got != 3 {
		t.Errorf("pivot[u1][a] = %v, want mean 3", got)
	}
}

func TestCollaborative_UserSimilarity(t *testing.T) {
	t.Parallel()

	cf := NewCollaborative(testCollaborativeConfig())
	if err := cf.Fit(context.Background(), testRatings()); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	if got := cf.UserSimilarity("u1", "u1"); math.Abs(got-1) > 1e-9 {
		t.Errorf("UserSimilarity(u1, u1) = %v, want 1", got)
	}
	if got := cf.UserSimilarity("u1", "nobody"); got != 0 {
		t.Errorf("UserSimilarity(unknown) = %v, want 0", got)
	}
	ab, ba := cf.UserSimilarity("u1", "u3"), cf.UserSimilarity("u3", "u1")
	if ab != ba {
		t.Errorf("UserSimilarity not symmetric: %v vs %v", ab, ba)
	}
	if ab < 0 || ab > 1+1e-9 {
		t.Errorf("UserSimilarity = %v, want within [0, 1] for non-negative factors", ab)
	}
}
