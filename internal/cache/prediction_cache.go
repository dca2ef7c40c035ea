package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/warungku/backend-go/internal/config"
	"github.com/warungku/backend-go/internal/domain"
)

const predictionKeyPrefix = "prediction"

// PredictionCache persists engine outputs keyed by prediction type and,
// optionally, product. TTLs are chosen by the caller per prediction type;
// the engine itself never touches this cache.
type PredictionCache interface {
	Get(ctx context.Context, predictionType domain.PredictionType, productID int64, dest any) (bool, error)
	Set(ctx context.Context, predictionType domain.PredictionType, productID int64, payload any, ttl time.Duration) error
	Invalidate(ctx context.Context, predictionType domain.PredictionType, productID int64) error
}

type redisPredictionCache struct {
	client *redis.Client
}

type noopPredictionCache struct{}

func NewPredictionCache(cfg config.CacheConfig) (PredictionCache, error) {
	if !cfg.Enabled {
		return &noopPredictionCache{}, nil
	}

	client, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisPredictionCache{client: client}, nil
}

func NewNoopPredictionCache() PredictionCache {
	return &noopPredictionCache{}
}

func (c *redisPredictionCache) Get(ctx context.Context, predictionType domain.PredictionType, productID int64, dest any) (bool, error) {
	key := buildPredictionKey(predictionType, productID)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("decode cached prediction %s: %w", key, err)
	}

	return true, nil
}

func (c *redisPredictionCache) Set(ctx context.Context, predictionType domain.PredictionType, productID int64, payload any, ttl time.Duration) error {
	key := buildPredictionKey(predictionType, productID)

	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode prediction %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, encoded, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisPredictionCache) Invalidate(ctx context.Context, predictionType domain.PredictionType, productID int64) error {
	return c.client.Del(ctx, buildPredictionKey(predictionType, productID)).Err()
}

func (n *noopPredictionCache) Get(ctx context.Context, predictionType domain.PredictionType, productID int64, dest any) (bool, error) {
	return false, nil
}

func (n *noopPredictionCache) Set(ctx context.Context, predictionType domain.PredictionType, productID int64, payload any, ttl time.Duration) error {
	return nil
}

func (n *noopPredictionCache) Invalidate(ctx context.Context, predictionType domain.PredictionType, productID int64) error {
	return nil
}

// buildPredictionKey yields "prediction:<type>" for business-wide payloads and
// "prediction:<type>:<product>" for per-product ones.
func buildPredictionKey(predictionType domain.PredictionType, productID int64) string {
	key := predictionKeyPrefix + ":" + string(predictionType)
	if productID > 0 {
		key += ":" + strconv.FormatInt(productID, 10)
	}
	return key
}
