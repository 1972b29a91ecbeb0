// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/itemsim/internal/metrics"
	"github.com/tomtom215/itemsim/internal/models"
)

// PopularProducts ranks products by units sold. A non-empty state restricts
// sales to customers in that state (case-insensitive).
func (db *DB) PopularProducts(ctx context.Context, limit int, state string) (result []models.ProductSales, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "order_items", time.Since(start), err) }()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var (
		where string
		args  []any
	)
	if state != "" {
		where = "WHERE c.customer_state = ?"
		args = append(args, strings.ToUpper(state))
	}
	args = append(args, limit)

	query := `SELECT oi.product_id, COALESCE(p.product_category_name, ''),
			COUNT(*) AS sales_count, AVG(oi.price), AVG(oi.freight_value)
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.order_id
		JOIN customers c ON o.customer_id = c.customer_id
		JOIN products p ON oi.product_id = p.product_id
		` + where + `
		GROUP BY oi.product_id, p.product_category_name
		ORDER BY sales_count DESC, oi.product_id ASC
		LIMIT ?`

	return db.querySales(ctx, query, args...)
}

// RelatedProducts returns best-selling products in the same category as
// productID, excluding productID. ErrNotFound if the product does not exist.
func (db *DB) RelatedProducts(ctx context.Context, productID string, limit int) (result []models.ProductSales, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "products", time.Since(start), err) }()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var category sql.NullString
	err = db.conn.QueryRowContext(ctx,
		"SELECT product_category_name FROM products WHERE product_id = ?", productID).Scan(&category)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query product category: %w", err)
	}

	query := `SELECT p.product_id, COALESCE(p.product_category_name, ''),
			COUNT(oi.order_id) AS sales_count,
			COALESCE(AVG(oi.price), 0), COALESCE(AVG(oi.freight_value), 0)
		FROM products p
		LEFT JOIN order_items oi ON oi.product_id = p.product_id
		WHERE p.product_category_name IS NOT DISTINCT FROM ? AND p.product_id <> ?
		GROUP BY p.product_id, p.product_category_name
		ORDER BY sales_count DESC, p.product_id ASC
		LIMIT ?`

	return db.querySales(ctx, query, category, productID, limit)
}

// ProductsByCategory returns products whose category contains category
// (case-insensitive), best sellers first.
func (db *DB) ProductsByCategory(ctx context.Context, category string, limit int) (result []models.ProductSales, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "products", time.Since(start), err) }()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	query := `SELECT p.product_id, COALESCE(p.product_category_name, ''),
			COUNT(oi.order_id) AS sales_count,
			COALESCE(AVG(oi.price), 0), COALESCE(AVG(oi.freight_value), 0)
		FROM products p
		LEFT JOIN order_items oi ON oi.product_id = p.product_id
		WHERE p.product_category_name ILIKE '%' || ? || '%'
		GROUP BY p.product_id, p.product_category_name
		ORDER BY sales_count DESC, p.product_id ASC
		LIMIT ?`

	return db.querySales(ctx, query, category, limit)
}

func (db *DB) querySales(ctx context.Context, query string, args ...any) ([]models.ProductSales, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query product sales: %w", err)
	}
	defer closeWithLog(rows, "rows")

	result := []models.ProductSales{}
	for rows.Next() {
		var s models.ProductSales
		if err := rows.Scan(&s.ProductID, &s.Category, &s.SalesCount, &s.AvgPrice, &s.AvgFreight); err != nil {
			return nil, fmt.Errorf("scan product sales: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product sales: %w", err)
	}
	return result, nil
}

// TopRatedProducts ranks products with at least minReviews reviews by
// average review score.
func (db *DB) TopRatedProducts(ctx context.Context, minReviews, limit int) (result []models.RatedProduct, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "reviews", time.Since(start), err) }()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	query := `SELECT oi.product_id, COALESCE(p.product_category_name, ''),
			AVG(r.review_score) AS avg_rating, COUNT(*) AS review_count
		FROM reviews r
		JOIN order_items oi ON r.order_id = oi.order_id
		JOIN products p ON oi.product_id = p.product_id
		GROUP BY oi.product_id, p.product_category_name
		HAVING COUNT(*) >= ?
		ORDER BY avg_rating DESC, review_count DESC, oi.product_id ASC
		LIMIT ?`

	rows, err := db.conn.QueryContext(ctx, query, minReviews, limit)
	if err != nil {
		return nil, fmt.Errorf("query top rated: %w", err)
	}
	defer closeWithLog(rows, "rows")

	result = []models.RatedProduct{}
	for rows.Next() {
		var r models.RatedProduct
		if err := rows.Scan(&r.ProductID, &r.Category, &r.AvgRating, &r.ReviewCount); err != nil {
			return nil, fmt.Errorf("scan top rated: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top rated: %w", err)
	}
	return result, nil
}

// ProductDetails returns attributes and sales statistics for one product.
func (db *DB) ProductDetails(ctx context.Context, productID string) (*models.ProductDetails, error) {
	details, err := db.ProductStats(ctx, []string{productID})
	if err != nil {
		return nil, err
	}
	d, ok := details[productID]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	return &d, nil
}

// ProductStats returns ProductDetails keyed by product id. Unknown ids are
// absent from the map.
func (db *DB) ProductStats(ctx context.Context, productIDs []string) (result map[string]models.ProductDetails, err error) {
	result = make(map[string]models.ProductDetails, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "products", time.Since(start), err) }()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	query := `WITH sales AS (
			SELECT product_id, COUNT(*) AS sales_count, AVG(price) AS avg_price
			FROM order_items GROUP BY product_id
		), ratings AS (
			SELECT oi.product_id, AVG(r.review_score) AS avg_rating
			FROM reviews r JOIN order_items oi ON r.order_id = oi.order_id
			GROUP BY oi.product_id
		)
		SELECT p.product_id, COALESCE(p.product_category_name, ''),
			COALESCE(p.product_weight_g, 0), COALESCE(p.product_length_cm, 0),
			COALESCE(p.product_height_cm, 0), COALESCE(p.product_width_cm, 0),
			COALESCE(p.product_photos_qty, 0),
			COALESCE(s.sales_count, 0), COALESCE(s.avg_price, 0), COALESCE(rt.avg_rating, 0)
		FROM products p
		LEFT JOIN sales s ON s.product_id = p.product_id
		LEFT JOIN ratings rt ON rt.product_id = p.product_id
		WHERE p.product_id IN (` + placeholders(len(productIDs)) + `)`

	args := make([]any, len(productIDs))
	for i, id := range productIDs {
		args[i] = id
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query product stats: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var d models.ProductDetails
		if err := rows.Scan(&d.ProductID, &d.Category, &d.WeightG, &d.LengthCm, &d.HeightCm,
			&d.WidthCm, &d.PhotosQty, &d.SalesCount, &d.AvgPrice, &d.AvgRating); err != nil {
			return nil, fmt.Errorf("scan product stats: %w", err)
		}
		result[d.ProductID] = d
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product stats: %w", err)
	}
	return result, nil
}

// PurchaseHistory lists every item bought by a customer, oldest first.
func (db *DB) PurchaseHistory(ctx context.Context, customerID string) (result []models.Purchase, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "orders", time.Since(start), err) }()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	query := `SELECT o.order_id, oi.product_id, COALESCE(p.product_category_name, ''),
			COALESCE(oi.price, 0), o.order_purchase_timestamp
		FROM orders o
		JOIN order_items oi ON o.order_id = oi.order_id
		LEFT JOIN products p ON oi.product_id = p.product_id
		WHERE o.customer_id = ?
		ORDER BY o.order_purchase_timestamp, o.order_id, oi.order_item_id`

	rows, err := db.conn.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("query purchase history: %w", err)
	}
	defer closeWithLog(rows, "rows")

	result = []models.Purchase{}
	for rows.Next() {
		var (
			p  models.Purchase
			ts sql.NullTime
		)
		if err := rows.Scan(&p.OrderID, &p.ProductID, &p.Category, &p.Price, &ts); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		p.PurchasedAt = ts.Time
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate purchases: %w", err)
	}
	return result, nil
}

// AllInteractions streams (customer, product, purchase count) for every
// purchase in the store. Used to fit the recommendation models.
func (db *DB) AllInteractions(ctx context.Context, fn func(models.Interaction) error) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "order_items", time.Since(start), err) }()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `SELECT o.customer_id, oi.product_id, COUNT(*)
		FROM orders o
		JOIN order_items oi ON o.order_id = oi.order_id
		GROUP BY o.customer_id, oi.product_id
		ORDER BY o.customer_id, oi.product_id`)
	if err != nil {
		return fmt.Errorf("query interactions: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var in models.Interaction
		if err := rows.Scan(&in.CustomerID, &in.ProductID, &in.PurchaseCount); err != nil {
			return fmt.Errorf("scan interaction: %w", err)
		}
		if err := fn(in); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate interactions: %w", err)
	}
	return nil
}

// ProductFeatures returns the content features of every product, ordered by id.
// Missing numeric attributes read as 0.
func (db *DB) ProductFeatures(ctx context.Context) (result []models.ProductFeatures, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "products", time.Since(start), err) }()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `SELECT product_id, COALESCE(product_category_name, ''),
			COALESCE(product_name_lenght, 0), COALESCE(product_description_lenght, 0),
			COALESCE(product_photos_qty, 0), COALESCE(product_weight_g, 0),
			COALESCE(product_length_cm, 0), COALESCE(product_height_cm, 0),
			COALESCE(product_width_cm, 0)
		FROM products
		ORDER BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("query product features: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var f models.ProductFeatures
		if err := rows.Scan(&f.ProductID, &f.Category, &f.NameLength, &f.DescriptionLength,
			&f.PhotosQty, &f.WeightG, &f.LengthCm, &f.HeightCm, &f.WidthCm); err != nil {
			return nil, fmt.Errorf("scan product features: %w", err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product features: %w", err)
	}
	return result, nil
}
