package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"payva/internal/models"

	"github.com/redis/go-redis/v9"
)

// CacheService wraps Redis with JSON marshalling and key conventions.
// Balance reads go through it cache-aside; the ledger invalidates the
// touched wallets after every commit.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// Get unmarshals the cached value into dest, reporting whether the key
// was present.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// GenerateKey builds a namespaced cache key.
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// CacheWallet stores a wallet under its id key.
func (s *CacheService) CacheWallet(ctx context.Context, wallet *models.Wallet) error {
	return s.Set(ctx, s.GenerateKey("wallet", "id", wallet.ID), wallet)
}

// GetWallet fetches a cached wallet by id, returning nil on a miss.
func (s *CacheService) GetWallet(ctx context.Context, walletID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	found, err := s.Get(ctx, s.GenerateKey("wallet", "id", walletID), &wallet)
	if err != nil || !found {
		return nil, err
	}
	return &wallet, nil
}

// InvalidateWallet drops the cached copy of a wallet.
func (s *CacheService) InvalidateWallet(ctx context.Context, walletID uint) error {
	return s.Delete(ctx, s.GenerateKey("wallet", "id", walletID))
}

// FlushAll clears the whole cache. Used on startup.
func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

// HealthCheck pings Redis.
func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

func (s *CacheService) Close() error {
	return s.client.Close()
}
