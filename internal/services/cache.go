package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stitts-dev/pga-pick-tracker/internal/models"
	"github.com/stitts-dev/pga-pick-tracker/internal/predictor"
)

const statCachePrefix = "player_stats:"

// StatCache holds assembled player statistics for a limited time
type StatCache interface {
	Get(ctx context.Context, key string) (*predictor.PlayerStatistics, bool, error)
	Set(ctx context.Context, key string, stats predictor.PlayerStatistics) error
	Invalidate(ctx context.Context) error
}

// StatCacheKey keys statistics by player and the course they were assembled for
func StatCacheKey(player, course string) string {
	return fmt.Sprintf("%s%s|%s", statCachePrefix, player, course)
}

// RedisStatCache stores statistics as JSON values with a redis TTL
type RedisStatCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStatCache(client *redis.Client, ttl time.Duration) *RedisStatCache {
	return &RedisStatCache{client: client, ttl: ttl}
}

func (c *RedisStatCache) Get(ctx context.Context, key string) (*predictor.PlayerStatistics, bool, error) {
	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cache: %w", err)
	}

	var stats predictor.PlayerStatistics
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return &stats, true, nil
}

func (c *RedisStatCache) Set(ctx context.Context, key string, stats predictor.PlayerStatistics) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Invalidate drops every cached player entry
func (c *RedisStatCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, statCachePrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	logrus.WithField("keys", len(keys)).Debug("Player stat cache invalidated")
	return nil
}

type memoryEntry struct {
	stats    predictor.PlayerStatistics
	storedAt time.Time
}

// MemoryStatCache is the in-process cache used when no redis is configured
type MemoryStatCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStatCache(ttl time.Duration) *MemoryStatCache {
	return &MemoryStatCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryStatCache) Get(_ context.Context, key string) (*predictor.PlayerStatistics, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().Sub(entry.storedAt) >= c.ttl {
		return nil, false, nil
	}
	stats := entry.stats
	return &stats, true, nil
}

func (c *MemoryStatCache) Set(_ context.Context, key string, stats predictor.PlayerStatistics) error {
	c.mu.Lock()
	c.entries[key] = memoryEntry{stats: stats, storedAt: c.now()}
	c.mu.Unlock()
	return nil
}

func (c *MemoryStatCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
	return nil
}

// DBStatCache keeps statistics in the player_stats_cache table so they survive restarts
type DBStatCache struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewDBStatCache(db *gorm.DB, ttl time.Duration) *DBStatCache {
	return &DBStatCache{db: db, ttl: ttl, now: time.Now}
}

func (c *DBStatCache) Get(ctx context.Context, key string) (*predictor.PlayerStatistics, bool, error) {
	var row models.PlayerStatsCache
	err := c.db.WithContext(ctx).
		Where("cache_key = ? AND last_updated > ?", key, c.now().Add(-c.ttl)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read stat cache: %w", err)
	}

	var stats predictor.PlayerStatistics
	if err := json.Unmarshal(row.StatsJSON, &stats); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached stats: %w", err)
	}
	return &stats, true, nil
}

func (c *DBStatCache) Set(ctx context.Context, key string, stats predictor.PlayerStatistics) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	row := models.PlayerStatsCache{CacheKey: key, StatsJSON: data, LastUpdated: c.now()}
	return c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"stats_json", "last_updated"}),
	}).Create(&row).Error
}

func (c *DBStatCache) Invalidate(ctx context.Context) error {
	return c.db.WithContext(ctx).Where("1 = 1").Delete(&models.PlayerStatsCache{}).Error
}
