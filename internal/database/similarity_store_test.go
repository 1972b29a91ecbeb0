// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package database

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tomtom215/itemsim/internal/models"
)

func TestMissingTables(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.Conn().ExecContext(ctx, "DROP TABLE customers"); err != nil {
		t.Fatalf("drop customers: %v", err)
	}

	missing, err := db.MissingTables(ctx)
	if err != nil {
		t.Fatalf("MissingTables() error = %v", err)
	}
	if !reflect.DeepEqual(missing, []string{"customers"}) {
		t.Errorf("MissingTables() = %v, want [customers]", missing)
	}
}

func TestCountDimensions(t *testing.T) {
	db := setupTestDBWithData(t)

	got, err := db.CountDimensions(context.Background())
	if err != nil {
		t.Fatalf("CountDimensions() error = %v", err)
	}

	want := models.DimensionCounts{Customers: 20, Products: 10, Orders: 25, OrderItems: 92}
	if got != want {
		t.Errorf("CountDimensions() = %+v, want %+v", got, want)
	}
	if got.PotentialCells() != 200 {
		t.Errorf("PotentialCells() = %d, want 200", got.PotentialCells())
	}
}

func TestTopPurchasedProducts(t *testing.T) {
	db := setupTestDBWithData(t)

	tests := []struct {
		name    string
		min     int
		max     int
		wantIDs []string
	}{
		{
			name:    "all products ranked with id tiebreak",
			min:     5,
			max:     1000,
			wantIDs: []string{"p01", "p03", "p02", "p04", "p06", "p07", "p09", "p10", "p05", "p08"},
		},
		{
			name:    "capped",
			min:     7,
			max:     3,
			wantIDs: []string{"p01", "p03", "p02"},
		},
		{
			name:    "floor excludes less purchased",
			min:     7,
			max:     1000,
			wantIDs: []string{"p01", "p03", "p02", "p04", "p06", "p07", "p09", "p10"},
		},
		{
			name:    "nothing qualifies",
			min:     100,
			max:     10,
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.TopPurchasedProducts(context.Background(), tt.min, tt.max)
			if err != nil {
				t.Fatalf("TopPurchasedProducts() error = %v", err)
			}
			var ids []string
			for _, p := range got {
				ids = append(ids, p.ProductID)
			}
			if !reflect.DeepEqual(ids, tt.wantIDs) {
				t.Errorf("TopPurchasedProducts(%d, %d) = %v, want %v", tt.min, tt.max, ids, tt.wantIDs)
			}
		})
	}
}

func TestProductInteractions(t *testing.T) {
	db := setupTestDBWithData(t)

	counts := map[string]int{}
	err := db.ProductInteractions(context.Background(), []string{"p01"}, func(in models.Interaction) error {
		if in.ProductID != "p01" {
			t.Errorf("unexpected product %s", in.ProductID)
		}
		counts[in.CustomerID] = in.PurchaseCount
		return nil
	})
	if err != nil {
		t.Fatalf("ProductInteractions() error = %v", err)
	}

	if len(counts) != 13 {
		t.Errorf("distinct customers = %d, want 13", len(counts))
	}
	if counts["c01"] != 2 {
		t.Errorf("c01 purchase count = %d, want 2", counts["c01"])
	}
	if counts["c04"] != 1 {
		t.Errorf("c04 purchase count = %d, want 1", counts["c04"])
	}
}

func TestProductInteractions_CallbackError(t *testing.T) {
	db := setupTestDBWithData(t)
	stop := errors.New("stop")

	calls := 0
	err := db.ProductInteractions(context.Background(), []string{"p01", "p02"}, func(models.Interaction) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Errorf("ProductInteractions() error = %v, want %v", err, stop)
	}
	if calls != 1 {
		t.Errorf("callback calls = %d, want 1", calls)
	}
}

func TestProductInteractions_Empty(t *testing.T) {
	db := setupTestDBWithData(t)

	err := db.ProductInteractions(context.Background(), nil, func(models.Interaction) error {
		t.Error("callback should not run for an empty selection")
		return nil
	})
	if err != nil {
		t.Errorf("ProductInteractions(nil) error = %v", err)
	}
}

func TestReplaceItemSimilarity(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	first := []models.SimilarityPair{
		{ProductID1: "a", ProductID2: "b", Similarity: 0.9},
		{ProductID1: "a", ProductID2: "c", Similarity: 0.5},
	}
	if err := db.ReplaceItemSimilarity(ctx, first); err != nil {
		t.Fatalf("ReplaceItemSimilarity() error = %v", err)
	}

	got, err := db.SimilarityPairs(ctx)
	if err != nil {
		t.Fatalf("SimilarityPairs() error = %v", err)
	}
	if !reflect.DeepEqual(got, first) {
		t.Errorf("SimilarityPairs() = %v, want %v", got, first)
	}

	second := []models.SimilarityPair{{ProductID1: "x", ProductID2: "y", Similarity: 0.2}}
	if err := db.ReplaceItemSimilarity(ctx, second); err != nil {
		t.Fatalf("ReplaceItemSimilarity() error = %v", err)
	}
	got, err = db.SimilarityPairs(ctx)
	if err != nil {
		t.Fatalf("SimilarityPairs() error = %v", err)
	}
	if !reflect.DeepEqual(got, second) {
		t.Errorf("after replace SimilarityPairs() = %v, want %v", got, second)
	}
}

func TestReplaceItemSimilarity_Empty(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.ReplaceItemSimilarity(ctx, []models.SimilarityPair{{ProductID1: "a", ProductID2: "b", Similarity: 1}}); err != nil {
		t.Fatalf("ReplaceItemSimilarity() error = %v", err)
	}
	if err := db.ReplaceItemSimilarity(ctx, nil); err != nil {
		t.Fatalf("ReplaceItemSimilarity(nil) error = %v", err)
	}

	got, err := db.SimilarityPairs(ctx)
	if err != nil {
		t.Fatalf("SimilarityPairs() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("SimilarityPairs() = %v, want empty table", got)
	}
}

func TestReplaceItemSimilarity_ManyBatches(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	pairs := make([]models.SimilarityPair, 0, similarityInsertBatch*2+7)
	for i := 0; i < cap(pairs); i++ {
		pairs = append(pairs, models.SimilarityPair{
			ProductID1: "a",
			ProductID2: string(rune('A'+i%26)) + string(rune('0'+i/26%10)) + string(rune('0'+i/260)),
			Similarity: 0.5,
		})
	}
	if err := db.ReplaceItemSimilarity(ctx, pairs); err != nil {
		t.Fatalf("ReplaceItemSimilarity() error = %v", err)
	}

	var n int
	if err := db.Conn().QueryRowContext(ctx, "SELECT COUNT(*) FROM item_similarity").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != len(pairs) {
		t.Errorf("rows = %d, want %d", n, len(pairs))
	}
}

func TestSimilarItems(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	pairs := []models.SimilarityPair{
		{ProductID1: "a", ProductID2: "b", Similarity: 0.9},
		{ProductID1: "c", ProductID2: "a", Similarity: 0.5},
		{ProductID1: "a", ProductID2: "d", Similarity: 0.5},
		{ProductID1: "b", ProductID2: "c", Similarity: 0.3},
	}
	if err := db.ReplaceItemSimilarity(ctx, pairs); err != nil {
		t.Fatalf("ReplaceItemSimilarity() error = %v", err)
	}

	tests := []struct {
		name    string
		product string
		limit   int
		want    []models.SimilarItem
	}{
		{
			name:    "both sides with id tiebreak",
			product: "a",
			limit:   5,
			want: []models.SimilarItem{
				{ProductID: "b", Similarity: 0.9},
				{ProductID: "c", Similarity: 0.5},
				{ProductID: "d", Similarity: 0.5},
			},
		},
		{
			name:    "limit",
			product: "a",
			limit:   1,
			want:    []models.SimilarItem{{ProductID: "b", Similarity: 0.9}},
		},
		{
			name:    "unknown product",
			product: "zzz",
			limit:   5,
			want:    []models.SimilarItem{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.SimilarItems(ctx, tt.product, tt.limit)
			if err != nil {
				t.Fatalf("SimilarItems() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SimilarItems(%q, %d) = %v, want %v", tt.product, tt.limit, got, tt.want)
			}
		})
	}
}
