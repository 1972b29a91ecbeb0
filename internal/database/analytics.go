// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/itemsim/internal/metrics"
	"github.com/tomtom215/itemsim/internal/models"
)

// PlatformMetrics returns store-wide totals in one round trip.
// Sellers are counted from order_items since there is no sellers table.
// Averages over empty tables read as 0.
func (db *DB) PlatformMetrics(ctx context.Context) (result *models.PlatformMetrics, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "order_items", time.Since(start), err) }()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	query := `SELECT
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM customers),
			(SELECT COUNT(DISTINCT seller_id) FROM order_items WHERE seller_id IS NOT NULL AND seller_id <> ''),
			(SELECT COALESCE(SUM(price), 0) FROM order_items),
			(SELECT COALESCE(AVG(order_total), 0)
				FROM (SELECT SUM(price) AS order_total FROM order_items GROUP BY order_id) totals),
			(SELECT COALESCE(AVG(review_score), 0) FROM reviews)`

	m := &models.PlatformMetrics{}
	if err := db.conn.QueryRowContext(ctx, query).Scan(
		&m.TotalOrders, &m.TotalProducts, &m.TotalCustomers, &m.TotalSellers,
		&m.TotalRevenue, &m.AvgOrderValue, &m.AvgRating,
	); err != nil {
		return nil, fmt.Errorf("query platform metrics: %w", err)
	}
	m.LastUpdated = time.Now().UTC()
	return m, nil
}

// PopularCategories ranks categories by order lines, most first, ties by
// name. Products without a category are left out.
func (db *DB) PopularCategories(ctx context.Context, limit int) (result []models.CategoryStats, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "order_items", time.Since(start), err) }()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	query := `SELECT p.product_category_name, COUNT(*) AS order_count,
			COALESCE(SUM(oi.price), 0), COALESCE(AVG(oi.price), 0)
		FROM order_items oi
		JOIN products p ON oi.product_id = p.product_id
		WHERE p.product_category_name IS NOT NULL AND p.product_category_name <> ''
		GROUP BY p.product_category_name
		ORDER BY order_count DESC, p.product_category_name ASC
		LIMIT ?`

	rows, err := db.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query popular categories: %w", err)
	}
	defer closeWithLog(rows, "rows")

	result = []models.CategoryStats{}
	for rows.Next() {
		var c models.CategoryStats
		if err := rows.Scan(&c.Category, &c.OrderCount, &c.TotalRevenue, &c.AvgPrice); err != nil {
			return nil, fmt.Errorf("scan category stats: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category stats: %w", err)
	}
	return result, nil
}
