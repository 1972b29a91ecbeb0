// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/itemsim/internal/config"
	"github.com/tomtom215/itemsim/internal/database"
	"github.com/tomtom215/itemsim/internal/logging"
	"github.com/tomtom215/itemsim/internal/models"
	"github.com/tomtom215/itemsim/internal/recommend"
	"github.com/tomtom215/itemsim/internal/similarity"
)

// testDBMutex serializes DuckDB setup; concurrent in-memory opens are slow
// under the race detector.
var testDBMutex sync.Mutex

func testServerConfig() *config.ServerConfig {
	return &config.ServerConfig{
		Timeout:           5 * time.Second,
		CORSOrigins:       []string{"*"},
		RateLimitReqs:     1000,
		RateLimitWindow:   time.Minute,
		RateLimitDisabled: true,
	}
}

func testRecommendConfig() *config.RecommendConfig {
	return &config.RecommendConfig{
		CollaborativeWeight: 0.6,
		ContentWeight:       0.4,
		MinInteractions:     5,
		NFactors:            2,
		MaxIterations:       100,
		Seed:                42,
		MaxFeatures:         1000,
		MaxItems:            1000,
		DefaultLimit:        10,
		MaxLimit:            100,
	}
}

// setupTestDB opens a seeded in-memory store.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	testDBMutex.Lock()
	defer testDBMutex.Unlock()

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "1GB"})
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.SeedSampleData(context.Background()); err != nil {
		t.Fatalf("SeedSampleData() error = %v", err)
	}
	return db
}

// testEnv is a handler over a seeded store, with the similarity table
// computed and, optionally, the model trained.
type testEnv struct {
	db      *database.DB
	service *recommend.Service
	batch   *fakeBatch
	handler http.Handler
}

func newTestEnv(t *testing.T, train bool) *testEnv {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping DuckDB-backed API test in short mode")
	}

	db := setupTestDB(t)
	logger := logging.NewTestLogger(io.Discard)
	ctx := context.Background()

	engine := similarity.NewEngine(db, db, config.SimilarityConfig{
		MinProductPurchases: 1,
		MaxProducts:         1000,
		Threshold:           0.1,
	}, logger)
	if _, err := engine.ComputeAndPersist(ctx); err != nil {
		t.Fatalf("ComputeAndPersist() error = %v", err)
	}

	rcfg := testRecommendConfig()
	hybrid, err := recommend.NewHybrid(recommend.HybridConfigFrom(rcfg), logger)
	if err != nil {
		t.Fatalf("NewHybrid() error = %v", err)
	}
	service := recommend.NewService(db, db, hybrid, rcfg, nil, logger)
	if train {
		if err := service.Train(ctx); err != nil {
			t.Fatalf("Train() error = %v", err)
		}
	}

	batch := &fakeBatch{}
	scfg := testServerConfig()
	handler := NewHandler(db, service, db, batch, scfg)
	return &testEnv{
		db:      db,
		service: service,
		batch:   batch,
		handler: NewRouter(handler, scfg).SetupChi(),
	}
}

// fakeBatch records triggers and can pretend to be busy.
type fakeBatch struct {
	mu       sync.Mutex
	busy     bool
	err      error
	triggers int
	last     *models.BatchRunReport
}

func (f *fakeBatch) Trigger() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.busy {
		return similarity.ErrBatchInProgress
	}
	f.triggers++
	return nil
}

func (f *fakeBatch) LastRun() *models.BatchRunReport {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

// failingLookup fails every similarity lookup.
type failingLookup struct{}

func (failingLookup) SimilarItems(context.Context, string, int) ([]models.SimilarItem, error) {
	return nil, errors.New("connection reset")
}

// brokenPinger fails every ping.
type brokenPinger struct{}

func (brokenPinger) Ping(context.Context) error { return errors.New("database is closed") }

// doRequest runs a request through h and decodes the envelope.
func doRequest(t *testing.T, h http.Handler, method, target string) (*httptest.ResponseRecorder, models.APIResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))

	var resp models.APIResponse
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode %s %s: %v\n%s", method, target, err, rec.Body.String())
		}
	}
	return rec, resp
}

// decodeData re-decodes resp.Data into dst.
func decodeData(t *testing.T, resp models.APIResponse, dst any) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("marshal data: %v", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		t.Fatalf("unmarshal data into %T: %v", dst, err)
	}
}
