package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"newswire/config"
)

// TTLs für die Read-Caches: Ergebnisseiten eine Stunde, Metadaten-Listen 24h.
const (
	ResultTTL   = time.Hour
	MetadataTTL = 24 * time.Hour
)

// Cache ist die Abstraktion über den Cache-Store. Redis ist bewusst gewählt,
// weil ForgetPattern einen Pattern-fähigen Backend voraussetzt.
type Cache interface {
	// Remember liest den Wert unter key in dest. Bei einem Miss wird compute
	// ausgeführt, das Ergebnis unter key abgelegt und ebenfalls in dest gelesen.
	Remember(ctx context.Context, key string, ttl time.Duration, dest interface{}, compute func() (interface{}, error)) error

	// Forget entfernt die angegebenen Keys.
	Forget(ctx context.Context, keys ...string) error

	// ForgetPattern entfernt alle Keys, die auf das Glob-Pattern passen.
	ForgetPattern(ctx context.Context, pattern string) error
}

// RedisCache implementiert Cache auf einem Redis-Client.
type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisCache verbindet sich mit Redis und prüft die Verbindung per Ping.
func NewRedisCache(cfg *config.Config, logger *zap.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisCache{client: client, logger: logger}, nil
}

// Remember implementiert Read-Through-Caching mit JSON-Serialisierung.
func (c *RedisCache) Remember(ctx context.Context, key string, ttl time.Duration, dest interface{}, compute func() (interface{}, error)) error {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return json.Unmarshal(raw, dest)
	}
	if !errors.Is(err, redis.Nil) {
		// Redis nicht erreichbar: Query trotzdem ausführen, nur nicht cachen.
		c.logger.Warn("Cache read failed, falling through to query", zap.String("key", key), zap.Error(err))
	}

	value, err := compute()
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, encoded, ttl).Err(); err != nil {
		c.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
	return json.Unmarshal(encoded, dest)
}

// Forget entfernt die angegebenen Keys.
func (c *RedisCache) Forget(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// ForgetPattern löscht alle auf das Pattern passenden Keys via SCAN+DEL.
// Anders als ein einzelner Forget-Aufruf mit Wildcard-String räumt das die
// per-Query-Suchseiten tatsächlich ab.
func (c *RedisCache) ForgetPattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	c.logger.Debug("Evicting cache keys by pattern", zap.String("pattern", pattern), zap.Int("count", len(keys)))
	return c.client.Del(ctx, keys...).Err()
}
