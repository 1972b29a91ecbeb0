// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/itemsim/internal/logging"
	"github.com/tomtom215/itemsim/internal/metrics"
	"github.com/tomtom215/itemsim/internal/models"
)

// LoadSnapshot inserts every row of snap in a single transaction. Rows whose
// primary key already exists are skipped, so loading the same snapshot twice
// leaves the dimension tables unchanged.
func (db *DB) LoadSnapshot(ctx context.Context, snap *models.Snapshot) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("insert", "snapshot", time.Since(start), err) }()

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		if err := execPrepared(ctx, tx,
			`INSERT INTO customers (customer_id, customer_unique_id, customer_zip_code_prefix,
				customer_city, customer_state) VALUES (?, ?, ?, ?, ?) ON CONFLICT DO NOTHING`,
			len(snap.Customers), func(i int) []any {
				c := snap.Customers[i]
				return []any{c.CustomerID, c.CustomerUniqueID, c.ZipCodePrefix, c.City, c.State}
			}); err != nil {
			return fmt.Errorf("insert customers: %w", err)
		}

		if err := execPrepared(ctx, tx,
			`INSERT INTO products (product_id, product_category_name, product_name_lenght,
				product_description_lenght, product_photos_qty, product_weight_g,
				product_length_cm, product_height_cm, product_width_cm)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT DO NOTHING`,
			len(snap.Products), func(i int) []any {
				p := snap.Products[i]
				return []any{p.ProductID, p.Category, p.NameLength, p.DescriptionLength,
					p.PhotosQty, p.WeightG, p.LengthCm, p.HeightCm, p.WidthCm}
			}); err != nil {
			return fmt.Errorf("insert products: %w", err)
		}

		if err := execPrepared(ctx, tx,
			`INSERT INTO orders (order_id, customer_id, order_status, order_purchase_timestamp)
			VALUES (?, ?, ?, ?) ON CONFLICT DO NOTHING`,
			len(snap.Orders), func(i int) []any {
				o := snap.Orders[i]
				return []any{o.OrderID, o.CustomerID, o.Status, o.PurchasedAt}
			}); err != nil {
			return fmt.Errorf("insert orders: %w", err)
		}

		if err := execPrepared(ctx, tx,
			`INSERT INTO order_items (order_id, order_item_id, product_id, seller_id, price, freight_value)
			VALUES (?, ?, ?, ?, ?, ?)`,
			len(snap.OrderItems), func(i int) []any {
				it := snap.OrderItems[i]
				return []any{it.OrderID, it.OrderItemID, it.ProductID, it.SellerID, it.Price, it.FreightValue}
			}); err != nil {
			return fmt.Errorf("insert order_items: %w", err)
		}

		if err := execPrepared(ctx, tx,
			`INSERT INTO reviews (review_id, order_id, review_score, review_comment_message, review_creation_date)
			VALUES (?, ?, ?, ?, ?)`,
			len(snap.Reviews), func(i int) []any {
				r := snap.Reviews[i]
				return []any{r.ReviewID, r.OrderID, r.Score, r.Comment, r.CreatedAt}
			}); err != nil {
			return fmt.Errorf("insert reviews: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logging.Info().
		Int("customers", len(snap.Customers)).
		Int("products", len(snap.Products)).
		Int("orders", len(snap.Orders)).
		Int("order_items", len(snap.OrderItems)).
		Int("reviews", len(snap.Reviews)).
		Msg("Snapshot loaded")
	return nil
}
