// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package recommend

import (
	"context"
	"time"

	"github.com/tomtom215/itemsim/internal/models"
)

// Store is the catalog the service reads from. It is implemented by
// database.DB.
type Store interface {
	PurchaseHistory(ctx context.Context, customerID string) ([]models.Purchase, error)
	PopularProducts(ctx context.Context, limit int, state string) ([]models.ProductSales, error)
	RelatedProducts(ctx context.Context, productID string, limit int) ([]models.ProductSales, error)
	ProductsByCategory(ctx context.Context, category string, limit int) ([]models.ProductSales, error)
	TopRatedProducts(ctx context.Context, minReviews, limit int) ([]models.RatedProduct, error)
	ProductDetails(ctx context.Context, productID string) (*models.ProductDetails, error)
	ProductStats(ctx context.Context, productIDs []string) (map[string]models.ProductDetails, error)
	PlatformMetrics(ctx context.Context) (*models.PlatformMetrics, error)
	PopularCategories(ctx context.Context, limit int) ([]models.CategoryStats, error)
}

// TrainingSource provides model inputs. It is implemented by database.DB.
type TrainingSource interface {
	// TopPurchasedProducts returns products with at least minPurchases order
	// lines, most purchased first, capped at maxProducts.
	TopPurchasedProducts(ctx context.Context, minPurchases, maxProducts int) ([]models.ProductPurchases, error)

	// ProductInteractions streams customer-product purchase counts for the
	// given products.
	ProductInteractions(ctx context.Context, productIDs []string, fn func(models.Interaction) error) error

	// ProductFeatures returns the attributes of every product.
	ProductFeatures(ctx context.Context) ([]models.ProductFeatures, error)
}

// TrainingStatus describes the last and current model training.
type TrainingStatus struct {
	IsTraining             bool      `json:"is_training"`
	ModelVersion           int       `json:"model_version"`
	LastTrainedAt          time.Time `json:"last_trained_at,omitempty"`
	LastTrainingDurationMS int64     `json:"last_training_duration_ms"`
	LastError              string    `json:"last_error,omitempty"`
	UserCount              int       `json:"user_count"`
	ItemCount              int       `json:"item_count"`
	InteractionCount       int       `json:"interaction_count"`
}
