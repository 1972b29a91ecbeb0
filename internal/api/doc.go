// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

/*
Package api serves similar-item lookups, user recommendations and catalog
queries over HTTP using the chi router.

# Routes

	GET  /health                               store ping, model and batch status
	GET  /health/live                          liveness
	GET  /health/ready                         503 until the store answers and the model is fitted
	GET  /recommend/similar/{product_id}       persisted item similarity (limit=5)
	GET  /recommend/user/{user_id}             strategy=collaborative|content|hybrid, limit=10
	GET  /recommend/user/{user_id}/explanation which strategy serves the user and why
	GET  /products/popular                     limit=10, state=SP
	GET  /products/top-rated                   min_reviews=10, limit=10
	GET  /products/{product_id}                details and aggregates
	GET  /products/{product_id}/related        same category (limit=5)
	GET  /categories/{category}/products       limit=10
	GET  /users/{user_id}/history              purchase history
	GET  /analytics/metrics                    store-wide totals
	GET  /analytics/categories                 categories by order lines (limit=10, max 50)
	GET  /analytics/user-behavior/{user_id}    spend, orders and favorite categories
	POST /admin/similarity/run                 queue a batch run (409 while one runs)
	GET  /metrics                              Prometheus

# Responses

Every JSON response uses the models.APIResponse envelope:

	{"status":"success","data":{...},"metadata":{"timestamp":"...","query_time_ms":4}}
	{"status":"error","error":{"code":"VALIDATION_ERROR","message":"limit must be at most 100"}}

Path and query parameters are validated with internal/validation before any
store call. Store errors never reach the client verbatim; they are logged
with the request id.

# Middleware

Request id, real IP, panic recovery, access log and CORS apply to every
route. Per-IP rate limiting (go-chi/httprate) and Prometheus request
metrics apply to the API routes; /health and /metrics are not rate limited.
*/
package api
