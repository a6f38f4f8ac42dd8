// Package cache provides in-memory caching of assembled feature tables.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/football-ml/internal/features"
	"github.com/yourusername/football-ml/internal/metrics"
	"github.com/yourusername/football-ml/internal/models"
)

// Params are the assembly parameters that change the feature table
type Params struct {
	EloK          float64 `json:"elo_k"`
	InitialRating float64 `json:"initial_rating"`
	FormWindow    int     `json:"form_window"`
}

// Fingerprint hashes the canonical table, in input order, together with the
// parameters. Equal fingerprints produce identical feature tables.
func Fingerprint(matches []models.CanonicalMatch, p Params) (string, error) {
	h := sha256.New()
	enc := json.NewEncoder(h)
	if err := enc.Encode(p); err != nil {
		return "", fmt.Errorf("fingerprint params: %w", err)
	}
	for i := range matches {
		if err := enc.Encode(&matches[i]); err != nil {
			return "", fmt.Errorf("fingerprint match %d: %w", i, err)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// FeatureCache keeps recent assemblies keyed by fingerprint.
// Cached assemblies are shared and must be treated as read-only.
type FeatureCache struct {
	cache     *gocache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewFeatureCache creates a new feature cache
func NewFeatureCache(ttl time.Duration, maxSize int) *FeatureCache {
	if maxSize <= 0 {
		maxSize = 8
	}
	return &FeatureCache{
		cache:   gocache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached assembly
func (fc *FeatureCache) Get(fingerprint string) (*features.Assembly, bool) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if v, found := fc.cache.Get(fingerprint); found {
		if a, ok := v.(*features.Assembly); ok {
			fc.hitCount++
			fc.updateMetrics()
			return a, true
		}
	}

	fc.missCount++
	fc.updateMetrics()
	return nil, false
}

// Set stores an assembly
func (fc *FeatureCache) Set(fingerprint string, a *features.Assembly) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if fc.cache.ItemCount() >= fc.maxSize {
		fc.cache.DeleteExpired()
	}
	if fc.cache.ItemCount() >= fc.maxSize {
		fc.evictOldest()
	}

	fc.cache.Set(fingerprint, a, fc.ttl)
}

// evictOldest must be called with mu held
func (fc *FeatureCache) evictOldest() {
	var oldestKey string
	var oldest int64
	for k, item := range fc.cache.Items() {
		if oldestKey == "" || item.Expiration < oldest {
			oldestKey, oldest = k, item.Expiration
		}
	}
	if oldestKey != "" {
		fc.cache.Delete(oldestKey)
	}
}

// Clear flushes the entire cache
func (fc *FeatureCache) Clear() {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	fc.cache.Flush()
	fc.hitCount = 0
	fc.missCount = 0
}

// Stats returns cache statistics
func (fc *FeatureCache) Stats() (hits, misses uint64, ratio float64) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.stats()
}

func (fc *FeatureCache) stats() (hits, misses uint64, ratio float64) {
	hits = fc.hitCount
	misses = fc.missCount
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

func (fc *FeatureCache) updateMetrics() {
	_, _, ratio := fc.stats()
	metrics.UpdateCacheHitRatio(ratio)
}

// ItemCount returns the number of items in cache
func (fc *FeatureCache) ItemCount() int {
	return fc.cache.ItemCount()
}
