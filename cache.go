package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// redisCmdable is the slice of the go-redis client the cache needs; tests
// substitute a fake.
type redisCmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// infoCache is an optional Redis-backed cache for info probe results, keyed
// by video URL. When Redis is unreachable the service runs without caching;
// downloads only lose the probe dedup, nothing else.
type infoCache struct {
	client redisCmdable
	ttl    time.Duration
}

func newInfoCache(cfg *Config) *infoCache {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(pingCtx).Result(); err != nil {
		log.Printf("⚠️  Redis not available, video info caching disabled: %v", err)
		return nil
	}

	log.Println("✅ Redis connected, video info caching enabled")
	return &infoCache{client: client, ttl: cfg.InfoCacheTTL}
}

func (c *infoCache) Get(ctx context.Context, videoURL string) (*VideoInfo, bool) {
	val, err := c.client.Get(ctx, "info:"+videoURL).Result()
	if err != nil {
		return nil, false
	}
	var info VideoInfo
	if err := json.Unmarshal([]byte(val), &info); err != nil {
		return nil, false
	}
	return &info, true
}

func (c *infoCache) Set(ctx context.Context, videoURL string, info *VideoInfo) {
	data, err := json.Marshal(info)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, "info:"+videoURL, data, c.ttl).Err(); err != nil {
		log.Printf("⚠️  Failed to cache video info: %v", err)
	}
}
