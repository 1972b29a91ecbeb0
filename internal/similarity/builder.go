// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package similarity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/itemsim/internal/models"
)

var (
	// ErrEmptySelection means no product reached the purchase floor. The
	// batch cannot produce a matrix.
	ErrEmptySelection = errors.New("no products meet the minimum purchase count")

	// ErrMissingTables means the store lacks one of the transactional tables.
	ErrMissingTables = errors.New("required tables missing")

	// ErrBatchInProgress means a run was requested while another is active.
	ErrBatchInProgress = errors.New("similarity batch already running")
)

// Source is the read side of the store used to build the matrix.
type Source interface {
	MissingTables(ctx context.Context) ([]string, error)
	CountDimensions(ctx context.Context) (models.DimensionCounts, error)
	TopPurchasedProducts(ctx context.Context, minPurchases, maxProducts int) ([]models.ProductPurchases, error)
	ProductInteractions(ctx context.Context, productIDs []string, fn func(models.Interaction) error) error
}

// Builder turns the order tables into an InteractionMatrix restricted to
// popular products.
type Builder struct {
	src          Source
	minPurchases int
	maxProducts  int
	logger       zerolog.Logger
}

// NewBuilder creates a Builder. minPurchases and maxProducts bound the
// product dimension.
func NewBuilder(src Source, minPurchases, maxProducts int, logger zerolog.Logger) *Builder {
	return &Builder{
		src:          src,
		minPurchases: minPurchases,
		maxProducts:  maxProducts,
		logger:       logger,
	}
}

func (b *Builder) withLogger(l zerolog.Logger) *Builder {
	c := *b
	c.logger = l
	return &c
}

// Build checks the schema, selects popular products, aggregates their
// purchases per customer and assembles the matrix.
//
// Steps:
//  1. MissingTables: any absent required table fails with ErrMissingTables
//  2. CountDimensions: logged only, never fatal
//  3. TopPurchasedProducts: products with at least minPurchases order lines,
//     most purchased first, capped at maxProducts; none gives
//     ErrEmptySelection
//  4. ProductInteractions: (customer, product, purchase count) rows for the
//     selection, streamed into a sparse customer x product matrix
//
// Returns:
//   - The matrix, whose columns follow the selection order
//   - A wrapped store error, ErrMissingTables or ErrEmptySelection
//
// Build holds no state between calls and may run concurrently with
// readers of the store.
func (b *Builder) Build(ctx context.Context) (*InteractionMatrix, error) {
	missing, err := b.src.MissingTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("check tables: %w", err)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingTables, strings.Join(missing, ", "))
	}

	dims, err := b.src.CountDimensions(ctx)
	if err != nil {
		return nil, fmt.Errorf("count dimensions: %w", err)
	}
	b.logger.Info().
		Int64("customers", dims.Customers).
		Int64("products", dims.Products).
		Int64("orders", dims.Orders).
		Int64("order_items", dims.OrderItems).
		Int64("potential_cells", dims.PotentialCells()).
		Msg("Order data dimensions")

	selected, err := b.src.TopPurchasedProducts(ctx, b.minPurchases, b.maxProducts)
	if err != nil {
		return nil, fmt.Errorf("select popular products: %w", err)
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w (min %d)", ErrEmptySelection, b.minPurchases)
	}

	productIDs := make([]string, len(selected))
	for i, p := range selected {
		productIDs[i] = p.ProductID
	}
	b.logger.Info().
		Int("selected", len(productIDs)).
		Int("min_purchases", b.minPurchases).
		Int("max_products", b.maxProducts).
		Msg("Selected popular products")

	var interactions []models.Interaction
	err = b.src.ProductInteractions(ctx, productIDs, func(in models.Interaction) error {
		interactions = append(interactions, in)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load interactions: %w", err)
	}

	m := NewInteractionMatrix(productIDs, interactions)

	b.logger.Info().
		Int("customers", m.Rows()).
		Int("products", m.Cols()).
		Int("non_zero", m.NonZero()).
		Float64("density", m.Density()).
		Msg("Interaction matrix built")
	return m, nil
}
