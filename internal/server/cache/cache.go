// Package cache реализует read-through кеш списков записей поверх Redis.
//
// Ключи версионируются per-entity: мутация инкрементит счетчик версии,
// после чего все закешированные списки этой сущности становятся
// недостижимыми и доживают до конца TTL.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iudanet/crmsync/internal/models"
	"github.com/iudanet/crmsync/internal/server/storage"
)

const (
	keyPrefix  = "crmsync:records"
	DefaultTTL = 60 * time.Second
)

// ListCache кеширует результаты list-запросов по (entity, query).
type ListCache struct {
	rdb    *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// New creates a list cache backed by the given Redis options.
func New(opts *redis.Options, ttl time.Duration, logger *slog.Logger) *ListCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ListCache{
		rdb:    redis.NewClient(opts),
		logger: logger,
		ttl:    ttl,
	}
}

// Ping verifies Redis connectivity. Useful for health checks.
func (c *ListCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *ListCache) Close() error {
	return c.rdb.Close()
}

// Get returns the cached record list for the query.
// Второй результат false означает cache miss.
func (c *ListCache) Get(ctx context.Context, entity models.EntityType, query storage.ListQuery) ([]*models.Record, bool, error) {
	key, err := c.listKey(ctx, entity, query)
	if err != nil {
		return nil, false, err
	}

	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cached list: %w", err)
	}

	var records []*models.Record
	if err := json.Unmarshal(data, &records); err != nil {
		// Битую запись выкидываем и считаем промахом
		c.logger.Warn("dropping malformed cache entry", "key", key, "error", err)
		_ = c.rdb.Del(ctx, key).Err()
		return nil, false, nil
	}

	return records, true, nil
}

// Set stores the record list for the query with the configured TTL.
func (c *ListCache) Set(ctx context.Context, entity models.EntityType, query storage.ListQuery, records []*models.Record) error {
	key, err := c.listKey(ctx, entity, query)
	if err != nil {
		return err
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal records for cache: %w", err)
	}

	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cached list: %w", err)
	}

	return nil
}

// Invalidate drops all cached lists of the entity by bumping its version.
func (c *ListCache) Invalidate(ctx context.Context, entity models.EntityType) error {
	if err := c.rdb.Incr(ctx, versionKey(entity)).Err(); err != nil {
		return fmt.Errorf("failed to bump cache version for %s: %w", entity, err)
	}
	return nil
}

func versionKey(entity models.EntityType) string {
	return fmt.Sprintf("%s:%s:ver", keyPrefix, entity)
}

func (c *ListCache) listKey(ctx context.Context, entity models.EntityType, query storage.ListQuery) (string, error) {
	version, err := c.rdb.Get(ctx, versionKey(entity)).Result()
	if err != nil {
		if err != redis.Nil {
			return "", fmt.Errorf("failed to read cache version for %s: %w", entity, err)
		}
		version = "0"
	}

	return fmt.Sprintf("%s:%s:v%s:%s", keyPrefix, entity, version, queryDigest(query)), nil
}

// queryDigest строит детерминированный отпечаток запроса:
// одинаковые фильтры и сортировка всегда дают один ключ.
func queryDigest(query storage.ListQuery) string {
	names := make([]string, 0, len(query.Filters))
	for name := range query.Filters {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(query.Filters[name])
		sb.WriteByte('&')
	}
	sb.WriteString("sort=")
	sb.WriteString(query.SortField)
	sb.WriteByte(':')
	sb.WriteString(query.SortDirection)

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:8])
}
