package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ResultCacheConfig holds cache configuration
type ResultCacheConfig struct {
	// Redis configuration
	RedisEnabled bool
	RedisTTL     time.Duration

	// Memory cache configuration
	MemoryEnabled bool
	MemoryMaxSize int
	MemoryTTL     time.Duration
}

// DefaultResultCacheConfig returns default cache configuration
func DefaultResultCacheConfig() ResultCacheConfig {
	return ResultCacheConfig{
		RedisEnabled:  true,
		RedisTTL:      24 * time.Hour,
		MemoryEnabled: true,
		MemoryMaxSize: 1000,
		MemoryTTL:     1 * time.Hour,
	}
}

// CacheMetrics receives layer-tagged hit and miss counts.
type CacheMetrics interface {
	RecordCacheHit(layer string)
	RecordCacheMiss(layer string)
}

// ResultCache provides two-layer caching for engine results. The engine is
// deterministic, so a cached result never goes stale; TTLs only bound memory.
type ResultCache struct {
	config  ResultCacheConfig
	redis   *redis.Client
	logger  *zap.Logger
	metrics CacheMetrics

	// In-memory cache with LRU eviction
	memCache   map[string]*resultCacheEntry
	memCacheMu sync.RWMutex
	lruList    []string // Simple LRU tracking

	// Statistics
	stats   *ResultCacheStats
	statsMu sync.Mutex
}

type resultCacheEntry struct {
	payload   []byte
	createdAt time.Time
	hitCount  int
}

// ResultCacheStats tracks cache statistics
type ResultCacheStats struct {
	MemoryHits    int64     `json:"memory_hits"`
	MemoryMisses  int64     `json:"memory_misses"`
	RedisHits     int64     `json:"redis_hits"`
	RedisMisses   int64     `json:"redis_misses"`
	TotalRequests int64     `json:"total_requests"`
	CacheHitRate  float64   `json:"cache_hit_rate"`
	LastUpdated   time.Time `json:"last_updated"`
}

// NewResultCache creates a new engine result cache
func NewResultCache(config ResultCacheConfig, redisClient *redis.Client, logger *zap.Logger) *ResultCache {
	if logger == nil {
		logger = zap.NewNop()
	}

	rc := &ResultCache{
		config:   config,
		redis:    redisClient,
		logger:   logger,
		memCache: make(map[string]*resultCacheEntry),
		lruList:  make([]string, 0, config.MemoryMaxSize),
		stats:    &ResultCacheStats{},
	}

	// Start background cleanup
	if config.MemoryEnabled {
		go rc.cleanupLoop()
	}

	return rc
}

// AttachMetrics wires layer-tagged hit/miss reporting. Safe to skip; the
// internal stats counters work either way.
func (rc *ResultCache) AttachMetrics(m CacheMetrics) {
	rc.metrics = m
}

// CacheKey generates a cache key for an engine operation and its input.
// Identical inputs hash identically, so the key is stable across processes.
func (rc *ResultCache) CacheKey(operation string, input any) string {
	keyData := map[string]any{
		"operation": operation,
		"input":     input,
	}

	data, _ := json.Marshal(keyData)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Get retrieves a cached result payload
func (rc *ResultCache) Get(ctx context.Context, key string) ([]byte, bool) {
	rc.statsMu.Lock()
	rc.stats.TotalRequests++
	rc.statsMu.Unlock()

	// Check memory cache first
	if rc.config.MemoryEnabled {
		rc.memCacheMu.RLock()
		if entry, ok := rc.memCache[key]; ok {
			if time.Since(entry.createdAt) < rc.config.MemoryTTL {
				entry.hitCount++
				rc.memCacheMu.RUnlock()

				rc.recordHit(true)
				return entry.payload, true
			}
		}
		rc.memCacheMu.RUnlock()

		rc.statsMu.Lock()
		rc.stats.MemoryMisses++
		rc.statsMu.Unlock()
		if rc.metrics != nil {
			rc.metrics.RecordCacheMiss("memory")
		}
	}

	// Check Redis cache
	if rc.config.RedisEnabled && rc.redis != nil {
		data, err := rc.redis.Get(ctx, PrefixResult+key).Bytes()
		if err == nil {
			// Promote to memory cache
			rc.setMemoryCache(key, data)

			rc.recordHit(false)
			return data, true
		}

		rc.statsMu.Lock()
		rc.stats.RedisMisses++
		rc.statsMu.Unlock()
		if rc.metrics != nil {
			rc.metrics.RecordCacheMiss("redis")
		}
	}

	return nil, false
}

// Set stores a result payload in both cache layers
func (rc *ResultCache) Set(ctx context.Context, key string, payload []byte) {
	if rc.config.MemoryEnabled {
		rc.setMemoryCache(key, payload)
	}

	if rc.config.RedisEnabled && rc.redis != nil {
		if err := rc.redis.Set(ctx, PrefixResult+key, payload, rc.config.RedisTTL).Err(); err != nil {
			rc.logger.Debug("redis result write failed", zap.Error(err))
		}
	}
}

// GetStats returns cache statistics
func (rc *ResultCache) GetStats() ResultCacheStats {
	rc.statsMu.Lock()
	defer rc.statsMu.Unlock()

	stats := *rc.stats
	if stats.TotalRequests > 0 {
		stats.CacheHitRate = float64(stats.MemoryHits+stats.RedisHits) / float64(stats.TotalRequests)
	}
	stats.LastUpdated = time.Now()

	return stats
}

// ResetStats resets cache statistics
func (rc *ResultCache) ResetStats() {
	rc.statsMu.Lock()
	defer rc.statsMu.Unlock()
	rc.stats = &ResultCacheStats{}
}

// Clear clears both cache layers
func (rc *ResultCache) Clear(ctx context.Context) error {
	rc.memCacheMu.Lock()
	rc.memCache = make(map[string]*resultCacheEntry)
	rc.lruList = make([]string, 0, rc.config.MemoryMaxSize)
	rc.memCacheMu.Unlock()

	if rc.redis != nil {
		iter := rc.redis.Scan(ctx, 0, PrefixResult+"*", 100).Iterator()
		for iter.Next(ctx) {
			rc.redis.Del(ctx, iter.Val())
		}
		return iter.Err()
	}

	return nil
}

// Private methods

func (rc *ResultCache) setMemoryCache(key string, payload []byte) {
	rc.memCacheMu.Lock()
	defer rc.memCacheMu.Unlock()

	// Check if we need to evict
	if len(rc.memCache) >= rc.config.MemoryMaxSize {
		rc.evictOldest()
	}

	rc.memCache[key] = &resultCacheEntry{
		payload:   payload,
		createdAt: time.Now(),
		hitCount:  0,
	}
	rc.lruList = append(rc.lruList, key)
}

func (rc *ResultCache) evictOldest() {
	// Remove oldest entries (first 10%)
	toRemove := rc.config.MemoryMaxSize / 10
	if toRemove < 1 {
		toRemove = 1
	}

	for i := 0; i < toRemove && len(rc.lruList) > 0; i++ {
		key := rc.lruList[0]
		rc.lruList = rc.lruList[1:]
		delete(rc.memCache, key)
	}
}

func (rc *ResultCache) recordHit(memory bool) {
	rc.statsMu.Lock()
	if memory {
		rc.stats.MemoryHits++
	} else {
		rc.stats.RedisHits++
	}
	rc.statsMu.Unlock()

	if rc.metrics != nil {
		layer := "redis"
		if memory {
			layer = "memory"
		}
		rc.metrics.RecordCacheHit(layer)
	}
}

func (rc *ResultCache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rc.cleanup()
	}
}

func (rc *ResultCache) cleanup() {
	rc.memCacheMu.Lock()
	defer rc.memCacheMu.Unlock()

	now := time.Now()
	newLRU := make([]string, 0, len(rc.lruList))

	for _, key := range rc.lruList {
		if entry, ok := rc.memCache[key]; ok {
			if now.Sub(entry.createdAt) > rc.config.MemoryTTL {
				delete(rc.memCache, key)
			} else {
				newLRU = append(newLRU, key)
			}
		}
	}

	rc.lruList = newLRU
}
