// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package cache

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	c := New(ttl)
	t.Cleanup(c.Close)
	return c
}

func TestCacheBasicOperations(t *testing.T) {
	c := newTestCache(t, time.Minute)

	c.Set("popular:10", []string{"p01", "p02"})
	value, exists := c.Get("popular:10")
	if !exists {
		t.Fatal("Expected popular:10 to exist")
	}
	if got := value.([]string); len(got) != 2 || got[0] != "p01" {
		t.Errorf("Get() = %v, want [p01 p02]", got)
	}

	if _, exists := c.Get("popular:20"); exists {
		t.Error("Expected popular:20 to not exist")
	}
}

func TestCacheExpiration(t *testing.T) {
	c := newTestCache(t, 100*time.Millisecond)

	c.Set("key1", "value1")
	if _, exists := c.Get("key1"); !exists {
		t.Error("Expected key1 to exist immediately after set")
	}

	time.Sleep(150 * time.Millisecond)

	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be expired")
	}
	if stats := c.GetStats(); stats.Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", stats.Evictions)
	}
}

func TestCacheSetWithTTLOverridesDefault(t *testing.T) {
	c := newTestCache(t, time.Hour)

	c.SetWithTTL("short", "v", 50*time.Millisecond)
	c.Set("long", "v")

	time.Sleep(100 * time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Error("Expected short to be expired")
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("Expected long to survive")
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := newTestCache(t, time.Minute)

	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("key%d", i), i)
	}

	c.Delete("key0")
	if _, ok := c.Get("key0"); ok {
		t.Error("Expected key0 to be deleted")
	}

	c.Clear()
	for _, key := range []string{"key1", "key2"} {
		if _, ok := c.Get(key); ok {
			t.Errorf("Expected %s to be cleared", key)
		}
	}
	stats := c.GetStats()
	if stats.TotalKeys != 0 {
		t.Errorf("TotalKeys = %d, want 0", stats.TotalKeys)
	}
	if stats.Evictions != 3 {
		t.Errorf("Evictions = %d, want 3 (1 delete + 2 cleared)", stats.Evictions)
	}
}

func TestCacheStats(t *testing.T) {
	tests := []struct {
		name        string
		setKeys     []string
		getKeys     []string
		wantHits    int64
		wantMisses  int64
		wantHitRate float64
	}{
		{"no operations", nil, nil, 0, 0, 0},
		{"only misses", nil, []string{"a", "b"}, 0, 2, 0},
		{"only hits", []string{"a"}, []string{"a", "a"}, 2, 0, 100},
		{"mixed", []string{"a"}, []string{"a", "b", "a"}, 2, 1, 200.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCache(t, time.Minute)
			for _, k := range tt.setKeys {
				c.Set(k, k)
			}
			for _, k := range tt.getKeys {
				c.Get(k)
			}

			stats := c.GetStats()
			if stats.Hits != tt.wantHits || stats.Misses != tt.wantMisses {
				t.Errorf("hits/misses = %d/%d, want %d/%d", stats.Hits, stats.Misses, tt.wantHits, tt.wantMisses)
			}
			if rate := c.HitRate(); rate < tt.wantHitRate-0.01 || rate > tt.wantHitRate+0.01 {
				t.Errorf("HitRate() = %.2f, want %.2f", rate, tt.wantHitRate)
			}
		})
	}
}

func TestCacheManualCleanup(t *testing.T) {
	c := newTestCache(t, time.Minute)

	c.SetWithTTL("expired1", "v", time.Millisecond)
	c.SetWithTTL("expired2", "v", time.Millisecond)
	c.Set("fresh", "v")

	time.Sleep(10 * time.Millisecond)
	c.cleanup()

	stats := c.GetStats()
	if stats.TotalKeys != 1 {
		t.Errorf("TotalKeys = %d, want 1", stats.TotalKeys)
	}
	if stats.Evictions != 2 {
		t.Errorf("Evictions = %d, want 2", stats.Evictions)
	}
	if stats.LastCleanup.IsZero() {
		t.Error("LastCleanup should be set")
	}
}

func TestCacheCloseIdempotent(t *testing.T) {
	c := New(time.Minute)
	c.Close()
	c.Close()

	c.Set("after-close", 1)
	if _, ok := c.Get("after-close"); !ok {
		t.Error("cache should stay usable after Close")
	}
}

func TestCacheConcurrency(t *testing.T) {
	c := newTestCache(t, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := fmt.Sprintf("key%d", id%5)
			for j := 0; j < 100; j++ {
				c.Set(key, j)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if stats := c.GetStats(); stats.TotalKeys != 5 {
		t.Errorf("TotalKeys = %d, want 5", stats.TotalKeys)
	}
}

func TestGenerateKey(t *testing.T) {
	type params struct {
		Limit int
		State string
	}

	tests := []struct {
		name      string
		a, b      any
		wantEqual bool
	}{
		{"same params", params{10, "SP"}, params{10, "SP"}, true},
		{"different state", params{10, "SP"}, params{10, "RJ"}, false},
		{"different limit", params{10, ""}, params{20, ""}, false},
		{"nil params", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka, kb := GenerateKey("popular", tt.a), GenerateKey("popular", tt.b)
			if (ka == kb) != tt.wantEqual {
				t.Errorf("GenerateKey equality = %v, want %v (%s vs %s)", ka == kb, tt.wantEqual, ka, kb)
			}
			if !strings.HasPrefix(ka, "popular:") {
				t.Errorf("GenerateKey() = %s, want popular: prefix", ka)
			}
		})
	}
}

func TestGenerateKeyUnmarshalable(t *testing.T) {
	key := GenerateKey("method", make(chan int))
	if !strings.HasPrefix(key, "method:") {
		t.Errorf("GenerateKey() = %s, want method: prefix", key)
	}
}

func BenchmarkCacheGet(b *testing.B) {
	c := New(time.Minute)
	defer c.Close()
	c.Set("key", "value")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("key")
	}
}
