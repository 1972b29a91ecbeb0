// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/itemsim/internal/logging"
	"github.com/tomtom215/itemsim/internal/metrics"
	"github.com/tomtom215/itemsim/internal/models"
)

// similarityInsertBatch is the number of pairs per multi-row INSERT.
const similarityInsertBatch = 500

// MissingTables returns the names in RequiredTables that do not exist in
// the main schema, in RequiredTables order.
func (db *DB) MissingTables(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	query := `SELECT table_name FROM information_schema.tables
		WHERE table_schema = 'main' AND table_name IN (` + placeholders(len(RequiredTables)) + `)`

	args := make([]any, len(RequiredTables))
	for i, name := range RequiredTables {
		args[i] = name
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer closeWithLog(rows, "rows")

	present := make(map[string]bool, len(RequiredTables))
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}

	var missing []string
	for _, name := range RequiredTables {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// CountDimensions reports distinct customers and products that appear in
// orders, plus raw order and order item counts.
func (db *DB) CountDimensions(ctx context.Context) (counts models.DimensionCounts, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "dimensions", time.Since(start), err) }()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	query := `SELECT
		(SELECT COUNT(DISTINCT customer_id) FROM orders),
		(SELECT COUNT(DISTINCT product_id) FROM order_items),
		(SELECT COUNT(*) FROM orders),
		(SELECT COUNT(*) FROM order_items)`

	err = db.conn.QueryRowContext(ctx, query).Scan(
		&counts.Customers, &counts.Products, &counts.Orders, &counts.OrderItems)
	if err != nil {
		return counts, fmt.Errorf("query dimension counts: %w", err)
	}
	return counts, nil
}

// TopPurchasedProducts returns up to maxProducts products bought at least
// minPurchases times, most purchased first. Equal counts are ordered by id.
func (db *DB) TopPurchasedProducts(ctx context.Context, minPurchases, maxProducts int) (result []models.ProductPurchases, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "order_items", time.Since(start), err) }()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	query := `SELECT product_id, COUNT(*) AS purchase_count
		FROM order_items
		GROUP BY product_id
		HAVING COUNT(*) >= ?
		ORDER BY purchase_count DESC, product_id ASC
		LIMIT ?`

	rows, err := db.conn.QueryContext(ctx, query, minPurchases, maxProducts)
	if err != nil {
		return nil, fmt.Errorf("query popular products: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var p models.ProductPurchases
		if err := rows.Scan(&p.ProductID, &p.PurchaseCount); err != nil {
			return nil, fmt.Errorf("scan popular product: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate popular products: %w", err)
	}
	return result, nil
}

// ProductInteractions streams (customer, product, purchase count) triples
// for the given products to fn, one row at a time. Rows arrive ordered by
// customer then product. An error from fn stops the scan and is returned.
func (db *DB) ProductInteractions(ctx context.Context, productIDs []string, fn func(models.Interaction) error) (err error) {
	if len(productIDs) == 0 {
		return nil
	}

	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "order_items", time.Since(start), err) }()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	query := `SELECT o.customer_id, oi.product_id, COUNT(*) AS purchase_count
		FROM orders o
		JOIN order_items oi ON o.order_id = oi.order_id
		WHERE oi.product_id IN (` + placeholders(len(productIDs)) + `)
		GROUP BY o.customer_id, oi.product_id
		ORDER BY o.customer_id, oi.product_id`

	args := make([]any, len(productIDs))
	for i, id := range productIDs {
		args[i] = id
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
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

// ReplaceItemSimilarity drops and recreates item_similarity and writes
// pairs in order. An empty pairs slice leaves an empty table behind.
func (db *DB) ReplaceItemSimilarity(ctx context.Context, pairs []models.SimilarityPair) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("replace", SimilarityTable, time.Since(start), err) }()

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, createSimilarityTable("CREATE OR REPLACE TABLE")); err != nil {
			return fmt.Errorf("recreate %s: %w", SimilarityTable, err)
		}

		for lo := 0; lo < len(pairs); lo += similarityInsertBatch {
			hi := min(lo+similarityInsertBatch, len(pairs))
			batch := pairs[lo:hi]

			var sb strings.Builder
			sb.WriteString("INSERT INTO " + SimilarityTable + " (product_id_1, product_id_2, similarity) VALUES ")
			args := make([]any, 0, len(batch)*3)
			for i, p := range batch {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString("(?, ?, ?)")
				args = append(args, p.ProductID1, p.ProductID2, p.Similarity)
			}

			if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
				return fmt.Errorf("insert %s rows %d-%d: %w", SimilarityTable, lo, hi, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logging.Debug().Int("pairs", len(pairs)).Msg("item_similarity replaced")
	return nil
}

// SimilarItems returns up to limit products paired with productID, most
// similar first. The product may sit on either side of a stored pair.
func (db *DB) SimilarItems(ctx context.Context, productID string, limit int) (result []models.SimilarItem, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", SimilarityTable, time.Since(start), err) }()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	query := `SELECT
			CASE WHEN product_id_1 = ? THEN product_id_2 ELSE product_id_1 END AS other_id,
			similarity
		FROM item_similarity
		WHERE product_id_1 = ? OR product_id_2 = ?
		ORDER BY similarity DESC, other_id ASC
		LIMIT ?`

	rows, err := db.conn.QueryContext(ctx, query, productID, productID, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("query similar items: %w", err)
	}
	defer closeWithLog(rows, "rows")

	result = make([]models.SimilarItem, 0, limit)
	for rows.Next() {
		var item models.SimilarItem
		if err := rows.Scan(&item.ProductID, &item.Similarity); err != nil {
			return nil, fmt.Errorf("scan similar item: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate similar items: %w", err)
	}
	return result, nil
}

// SimilarityPairs returns the whole item_similarity table in stored order.
func (db *DB) SimilarityPairs(ctx context.Context) ([]models.SimilarityPair, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT product_id_1, product_id_2, similarity FROM item_similarity
		ORDER BY product_id_1, product_id_2`)
	if err != nil {
		return nil, fmt.Errorf("query similarity pairs: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var pairs []models.SimilarityPair
	for rows.Next() {
		var p models.SimilarityPair
		if err := rows.Scan(&p.ProductID1, &p.ProductID2, &p.Similarity); err != nil {
			return nil, fmt.Errorf("scan similarity pair: %w", err)
		}
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate similarity pairs: %w", err)
	}
	return pairs, nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
