// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/itemsim/internal/models"
	"github.com/tomtom215/itemsim/internal/recommend/algorithms"
)

var (
	// ErrTrainingInProgress is returned when Train is called during a run.
	ErrTrainingInProgress = errors.New("training already in progress")

	// ErrNoTrainingData is returned when the store has no purchases.
	ErrNoTrainingData = errors.New("no purchases to train on")
)

// Train loads purchases and product attributes and refits the hybrid
// model. Only the maxItems most purchased products take part. Concurrent
// calls fail fast with ErrTrainingInProgress.
func (s *Service) Train(ctx context.Context) error {
	if !s.trainMu.TryLock() {
		return ErrTrainingInProgress
	}
	defer s.trainMu.Unlock()

	start := time.Now()
	s.initializeTrainingStatus()
	s.logger.Info().Msg("starting model training")

	ratings, items, err := s.loadTrainingData(ctx)
	if err == nil {
		err = s.hybrid.Fit(ctx, ratings, items)
	}

	s.finalizeTrainingStatus(start, ratings, items, err)
	if err != nil {
		s.logger.Error().Err(err).Msg("model training failed")
		return err
	}

	status := s.Status()
	s.logger.Info().
		Int("version", status.ModelVersion).
		Int("users", status.UserCount).
		Int("products", status.ItemCount).
		Int("interactions", status.InteractionCount).
		Int64("duration_ms", status.LastTrainingDurationMS).
		Msg("model training complete")
	return nil
}

func (s *Service) initializeTrainingStatus() {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status.IsTraining = true
	s.status.LastError = ""
}

func (s *Service) finalizeTrainingStatus(start time.Time, ratings []algorithms.Rating, items []algorithms.ItemFeatures, err error) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()

	s.status.IsTraining = false
	s.status.LastTrainingDurationMS = time.Since(start).Milliseconds()
	if err != nil {
		s.status.LastError = err.Error()
		return
	}
	s.status.ModelVersion++
	s.status.LastTrainedAt = time.Now().UTC()
	s.status.InteractionCount = len(ratings)
	s.status.ItemCount = len(items)
	s.status.UserCount = countUniqueUsers(ratings)
}

// Status returns a copy of the training status.
func (s *Service) Status() TrainingStatus {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status
}

// loadTrainingData reads ratings (purchase counts) and item attributes
// for the selected products concurrently.
func (s *Service) loadTrainingData(ctx context.Context) ([]algorithms.Rating, []algorithms.ItemFeatures, error) {
	top, err := s.training.TopPurchasedProducts(ctx, 1, s.cfg.MaxItems)
	if err != nil {
		return nil, nil, fmt.Errorf("select training products: %w", err)
	}
	if len(top) == 0 {
		return nil, nil, ErrNoTrainingData
	}

	ids := make([]string, len(top))
	selected := make(map[string]struct{}, len(top))
	for i, p := range top {
		ids[i] = p.ProductID
		selected[p.ProductID] = struct{}{}
	}

	var (
		ratings []algorithms.Rating
		items   []algorithms.ItemFeatures
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.training.ProductInteractions(gctx, ids, func(in models.Interaction) error {
			ratings = append(ratings, algorithms.Rating{
				UserID: in.CustomerID,
				ItemID: in.ProductID,
				Value:  float64(in.PurchaseCount),
			})
			return nil
		})
	})
	g.Go(func() error {
		features, err := s.training.ProductFeatures(gctx)
		if err != nil {
			return err
		}
		for i := range features {
			if _, ok := selected[features[i].ProductID]; ok {
				items = append(items, itemFeatures(&features[i]))
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("load training data: %w", err)
	}

	s.logger.Debug().
		Int("products", len(ids)).
		Int("ratings", len(ratings)).
		Int("featured_products", len(items)).
		Msg("training data loaded")
	return ratings, items, nil
}

// itemFeatures maps product attributes to model input: the category as
// text and the physical and listing dimensions as numbers.
func itemFeatures(p *models.ProductFeatures) algorithms.ItemFeatures {
	var text []string
	if p.Category != "" {
		text = []string{p.Category}
	}
	return algorithms.ItemFeatures{
		ItemID: p.ProductID,
		Numeric: []float64{
			p.NameLength,
			p.DescriptionLength,
			p.PhotosQty,
			p.WeightG,
			p.LengthCm,
			p.HeightCm,
			p.WidthCm,
		},
		Text: text,
	}
}

func countUniqueUsers(ratings []algorithms.Rating) int {
	users := make(map[string]struct{})
	for _, r := range ratings {
		users[r.UserID] = struct{}{}
	}
	return len(users)
}
