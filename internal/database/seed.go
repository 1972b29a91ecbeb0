// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/itemsim/internal/logging"
	"github.com/tomtom215/itemsim/internal/models"
)

var sampleCategories = []string{
	"moveis_decoracao",
	"beleza_saude",
	"esporte_lazer",
	"informatica_acessorios",
	"cama_mesa_banho",
}

var sampleStates = []string{"SP", "RJ", "MG"}

const (
	sampleCustomers = 20
	sampleProducts  = 10
)

// SampleSnapshot returns a small deterministic Olist-shaped dataset: 20
// customers in three states, 10 products over 5 categories, and orders
// dense enough for every product to clear the default popularity floor.
func SampleSnapshot() *models.Snapshot {
	snap := &models.Snapshot{}
	base := time.Date(2018, time.January, 1, 10, 0, 0, 0, time.UTC)

	for j := 0; j < sampleProducts; j++ {
		snap.Products = append(snap.Products, models.Product{
			ProductID:         fmt.Sprintf("p%02d", j+1),
			Category:          sampleCategories[j/2],
			NameLength:        20 + 3*j,
			DescriptionLength: 200 + 50*(j%4),
			PhotosQty:         1 + j%3,
			WeightG:           float64(300 + 150*j),
			LengthCm:          float64(16 + 2*(j%5)),
			HeightCm:          float64(5 + j%4),
			WidthCm:           float64(11 + j%6),
		})
	}

	for i := 0; i < sampleCustomers; i++ {
		customerID := fmt.Sprintf("c%02d", i+1)
		snap.Customers = append(snap.Customers, models.Customer{
			CustomerID:       customerID,
			CustomerUniqueID: fmt.Sprintf("u%02d", i+1),
			ZipCodePrefix:    fmt.Sprintf("%05d", 1000+i*37),
			City:             "sao paulo",
			State:            sampleStates[i%len(sampleStates)],
		})

		orderID := fmt.Sprintf("o%02d", i+1)
		snap.Orders = append(snap.Orders, models.Order{
			OrderID:     orderID,
			CustomerID:  customerID,
			Status:      "delivered",
			PurchasedAt: base.Add(time.Duration(i) * 36 * time.Hour),
		})

		item := 0
		var first string
		for j := 0; j < sampleProducts; j++ {
			if (i+j)%3 != 0 && (j >= 3 || i%2 != 0) {
				continue
			}
			item++
			productID := fmt.Sprintf("p%02d", j+1)
			if first == "" {
				first = productID
			}
			snap.OrderItems = append(snap.OrderItems, models.OrderItem{
				OrderID:      orderID,
				OrderItemID:  item,
				ProductID:    productID,
				SellerID:     fmt.Sprintf("s%d", j%3+1),
				Price:        float64(40 + 10*j),
				FreightValue: float64(8 + j%4),
			})
		}

		snap.Reviews = append(snap.Reviews, models.Review{
			ReviewID:  fmt.Sprintf("r%02d", i+1),
			OrderID:   orderID,
			Score:     1 + (i*7)%5,
			CreatedAt: base.Add(time.Duration(i)*36*time.Hour + 10*24*time.Hour),
		})

		// Every fourth customer reorders their first product.
		if i%4 == 0 && first != "" {
			repeatID := fmt.Sprintf("o%02d-r", i+1)
			snap.Orders = append(snap.Orders, models.Order{
				OrderID:     repeatID,
				CustomerID:  customerID,
				Status:      "delivered",
				PurchasedAt: base.Add(time.Duration(i)*36*time.Hour + 30*24*time.Hour),
			})
			snap.OrderItems = append(snap.OrderItems, models.OrderItem{
				OrderID:      repeatID,
				OrderItemID:  1,
				ProductID:    first,
				SellerID:     "s1",
				Price:        45,
				FreightValue: 9,
			})
		}
	}
	return snap
}

// SeedSampleData loads SampleSnapshot unless the products table already has rows.
func (db *DB) SeedSampleData(ctx context.Context) error {
	var count int64
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		logging.Info().Int64("products", count).Msg("Store already populated, skipping sample data")
		return nil
	}
	return db.LoadSnapshot(ctx, SampleSnapshot())
}
