package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/country-explorer/internal/domain"
	"github.com/country-explorer/internal/domain/repository"
)

const (
	countriesKey = "directory:countries"
	geometryKey  = "directory:geometry"
)

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	return nil
}

func (r *cacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	val, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		r.logger.Error("Failed to check cache existence", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("cache exists error: %w", err)
	}

	return val > 0, nil
}

// GetCountries reads the cached country collection. Nil slice means miss.
func (r *cacheRepository) GetCountries(ctx context.Context) ([]domain.Country, error) {
	data, err := r.Get(ctx, countriesKey)
	if err != nil || data == nil {
		return nil, err
	}

	var countries []domain.Country
	if err := json.Unmarshal(data, &countries); err != nil {
		r.logger.Error("Failed to unmarshal cached countries", zap.Error(err))
		return nil, fmt.Errorf("unmarshal countries: %w", err)
	}

	return countries, nil
}

func (r *cacheRepository) SetCountries(ctx context.Context, countries []domain.Country, ttl time.Duration) error {
	data, err := json.Marshal(countries)
	if err != nil {
		r.logger.Error("Failed to marshal countries", zap.Error(err))
		return fmt.Errorf("marshal countries: %w", err)
	}

	return r.Set(ctx, countriesKey, data, ttl)
}

// GetGeometry reads the cached boundary dataset. Nil means miss.
func (r *cacheRepository) GetGeometry(ctx context.Context) (*domain.FeatureCollection, error) {
	data, err := r.Get(ctx, geometryKey)
	if err != nil || data == nil {
		return nil, err
	}

	var fc domain.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		r.logger.Error("Failed to unmarshal cached geometry", zap.Error(err))
		return nil, fmt.Errorf("unmarshal geometry: %w", err)
	}

	return &fc, nil
}

func (r *cacheRepository) SetGeometry(ctx context.Context, fc *domain.FeatureCollection, ttl time.Duration) error {
	data, err := json.Marshal(fc)
	if err != nil {
		r.logger.Error("Failed to marshal geometry", zap.Error(err))
		return fmt.Errorf("marshal geometry: %w", err)
	}

	return r.Set(ctx, geometryKey, data, ttl)
}
