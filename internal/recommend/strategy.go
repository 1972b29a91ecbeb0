// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package recommend

import (
	"fmt"

	"github.com/tomtom215/itemsim/internal/models"
)

// Strategy is the recommendation path chosen for a user.
type Strategy string

const (
	// StrategyCollaborative uses the latent factor model alone.
	StrategyCollaborative Strategy = "collaborative"
	// StrategyContent uses product attribute similarity alone.
	StrategyContent Strategy = "content_based"
	// StrategyHybrid blends both models.
	StrategyHybrid Strategy = "hybrid"
	// StrategyPopular means the models have nothing for the user and the
	// caller should fall back to a popularity ranking.
	StrategyPopular Strategy = "popular"
)

func (s Strategy) String() string {
	return string(s)
}

// RequestStrategy is the strategy a caller asks the service for.
type RequestStrategy string

const (
	RequestCollaborative RequestStrategy = "collaborative"
	RequestContent       RequestStrategy = "content"
	RequestHybrid        RequestStrategy = "hybrid"
)

// ParseRequestStrategy maps a request value to a RequestStrategy. An empty
// value selects the hybrid path.
func ParseRequestStrategy(s string) (RequestStrategy, error) {
	switch RequestStrategy(s) {
	case "":
		return RequestHybrid, nil
	case RequestCollaborative, RequestContent, RequestHybrid:
		return RequestStrategy(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// explain renders the explanation for a strategy. Popular has no entry of
// its own and is explained as content based.
func explain(s Strategy, w Weights, minInteractions int) models.StrategyExplanation {
	switch s {
	case StrategyCollaborative:
		return models.StrategyExplanation{
			Strategy:    "Collaborative Filtering",
			Description: "Recommendations based on similar users",
			Reason:      fmt.Sprintf("User has %d+ interactions", minInteractions),
		}
	case StrategyHybrid:
		return models.StrategyExplanation{
			Strategy: "Hybrid",
			Description: fmt.Sprintf("Combination of collaborative (%.0f%%) and content (%.0f%%)",
				w.Collaborative*100, w.Content*100),
			Reason: "User has enough history for a full analysis",
		}
	default:
		return models.StrategyExplanation{
			Strategy:    "Content-Based",
			Description: "Recommendations based on item characteristics",
			Reason:      "New user or user with few interactions",
		}
	}
}
