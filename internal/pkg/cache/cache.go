// Package cache is a small Redis-backed byte cache used by the image
// proxy. Entries carry the upstream content type next to the body and
// expire on the proxy's cache max-age; nothing here is a store of record.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Takeshi-Yoshimura-park/design-ai/internal/pkg/logger"
	"github.com/Takeshi-Yoshimura-park/design-ai/internal/proxy"
)

// Config defines the cache connection settings.
type Config struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Enabled reports whether a cache should be created at all.
func (c *Config) Enabled() bool {
	return c != nil && c.Addr != ""
}

// ImageCache implements proxy.Cache on Redis.
type ImageCache struct {
	client *redis.Client
	logger *logger.Logger
}

// New connects to Redis and verifies the connection.
func New(cfg *Config, log *logger.Logger) (*ImageCache, error) {
	if log == nil {
		log = logger.L()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	log.Info("image cache connected", zap.String("addr", cfg.Addr))
	return &ImageCache{client: client, logger: log}, nil
}

// Close releases the Redis connection.
func (c *ImageCache) Close() error {
	return c.client.Close()
}

func cacheKey(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return "imgproxy:" + hex.EncodeToString(sum[:])
}

// Get returns a cached image; a miss or any Redis failure reads as a
// miss, never as an error.
func (c *ImageCache) Get(ctx context.Context, rawURL string) (*proxy.Fetched, bool) {
	key := cacheKey(rawURL)

	vals, err := c.client.HGetAll(ctx, key).Result()
	if err != nil || len(vals) == 0 {
		return nil, false
	}

	body, ok := vals["body"]
	if !ok {
		return nil, false
	}

	return &proxy.Fetched{
		ContentType: vals["content_type"],
		Body:        []byte(body),
	}, true
}

// Set stores an image with the given TTL. Failures are logged and
// swallowed; the proxy works without the cache.
func (c *ImageCache) Set(ctx context.Context, rawURL string, f *proxy.Fetched, ttl time.Duration) {
	key := cacheKey(rawURL)

	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"content_type": f.ContentType,
		"body":         f.Body,
	})
	pipe.Expire(ctx, key, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn("image cache write failed", zap.Error(err))
	}
}
