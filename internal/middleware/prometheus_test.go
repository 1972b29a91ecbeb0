// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/itemsim/internal/logging"
	"github.com/tomtom215/itemsim/internal/metrics"
)

func TestPrometheusMetrics_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"ok", http.MethodGet, "/mw-test/ok", http.StatusOK},
		{"bad request", http.MethodGet, "/mw-test/bad", http.StatusBadRequest},
		{"server error", http.MethodPost, "/mw-test/fail", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues(tt.method, tt.path, strconv.Itoa(tt.status)))

			handler := PrometheusMetrics(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			rec := httptest.NewRecorder()
			handler(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			after := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues(tt.method, tt.path, strconv.Itoa(tt.status)))
			if after-before != 1 {
				t.Errorf("api_requests_total delta = %v, want 1", after-before)
			}
		})
	}
}

func TestPrometheusMetrics_ImplicitOK(t *testing.T) {
	path := "/mw-test/implicit"
	before := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, path, "200"))

	handler := PrometheusMetrics(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))

	after := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, path, "200"))
	if after-before != 1 {
		t.Errorf("api_requests_total delta = %v, want 1", after-before)
	}
}

func TestPrometheusMetrics_UsesRoutePattern(t *testing.T) {
	pattern := "/mw-products/{product_id}"
	before := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, pattern, "200"))

	r := chi.NewRouter()
	r.Get(pattern, PrometheusMetrics(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, id := range []string{"p01", "p02", "p03"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mw-products/"+id, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d", id, rec.Code)
		}
	}

	after := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, pattern, "200"))
	if after-before != 3 {
		t.Errorf("requests under %s = %v, want 3", pattern, after-before)
	}
}

func TestPrometheusMetrics_ActiveGaugeReturnsToBaseline(t *testing.T) {
	before := testutil.ToFloat64(metrics.APIActiveRequests)
	var during float64

	handler := PrometheusMetrics(func(w http.ResponseWriter, r *http.Request) {
		during = testutil.ToFloat64(metrics.APIActiveRequests)
	})
	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/mw-test/gauge", nil))

	if during < before+1 {
		t.Errorf("active requests during = %v, want at least %v", during, before+1)
	}
	if after := testutil.ToFloat64(metrics.APIActiveRequests); after != before {
		t.Errorf("active requests after = %v, want %v", after, before)
	}
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	prev := logging.Logger()
	logging.SetLogger(logging.NewTestLogger(&buf))
	t.Cleanup(func() { logging.SetLogger(prev) })

	handler := RequestID(AccessLog(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-abc")
	handler(httptest.NewRecorder(), req)

	out := buf.String()
	for _, want := range []string{`"level":"warn"`, `"status":503`, `"request_id":"req-abc"`, `"route":"/health"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s: %s", want, out)
		}
	}
}

func TestStatusRecorder_FirstWriteHeaderWins(t *testing.T) {
	rec := httptest.NewRecorder()
	sr := &statusRecorder{ResponseWriter: rec, statusCode: http.StatusOK}
	sr.WriteHeader(http.StatusNotFound)
	sr.WriteHeader(http.StatusInternalServerError)
	if sr.statusCode != http.StatusNotFound {
		t.Errorf("statusCode = %d, want 404", sr.statusCode)
	}
}
