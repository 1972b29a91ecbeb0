// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/itemsim/internal/config"
	"github.com/tomtom215/itemsim/internal/middleware"
)

// Router builds the chi route tree.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router for handler using the server's CORS and rate
// limit settings.
func NewRouter(handler *Handler, cfg *config.ServerConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(ChiMiddlewareFromServer(cfg)),
	}
}

// SetupChi returns the HTTP handler.
//
// Global middleware runs in this order: request id, real IP, panic
// recovery, access log, CORS. Health and metrics are not rate limited.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chiMiddleware(middleware.AccessLog))
	r.Use(router.chiMiddleware.CORS())

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	router.registerHealthRoutes(r)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		router.registerRecommendRoutes(r)
		router.registerProductRoutes(r)
		router.registerAnalyticsRoutes(r)
		router.registerAdminRoutes(r)
	})

	return r
}

func (router *Router) registerHealthRoutes(r chi.Router) {
	r.Route("/health", func(r chi.Router) {
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})
}

func (router *Router) registerRecommendRoutes(r chi.Router) {
	r.Route("/recommend", func(r chi.Router) {
		r.Get("/similar/{product_id}", router.handler.GetSimilar)
		r.Get("/user/{user_id}", router.handler.GetUserRecommendations)
		r.Get("/user/{user_id}/explanation", router.handler.GetExplanation)
	})
}

func (router *Router) registerProductRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/popular", router.handler.GetPopularProducts)
		r.Get("/top-rated", router.handler.GetTopRatedProducts)
		r.Get("/{product_id}", router.handler.GetProduct)
		r.Get("/{product_id}/related", router.handler.GetRelatedProducts)
	})
	r.Get("/categories/{category}/products", router.handler.GetCategoryProducts)
	r.Get("/users/{user_id}/history", router.handler.GetPurchaseHistory)
}

func (router *Router) registerAnalyticsRoutes(r chi.Router) {
	r.Route("/analytics", func(r chi.Router) {
		r.Get("/metrics", router.handler.GetPlatformMetrics)
		r.Get("/categories", router.handler.GetPopularCategories)
		r.Get("/user-behavior/{user_id}", router.handler.GetUserBehavior)
	})
}

func (router *Router) registerAdminRoutes(r chi.Router) {
	r.Post("/admin/similarity/run", router.handler.TriggerSimilarityRun)
}
