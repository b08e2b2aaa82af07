package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache provides typed caching utilities
// ⭐ SSOT: 캐시 헬퍼는 여기서만
type Cache struct {
	client *Client
	prefix string
}

// NewCache creates a new cache helper
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
	}
}

func (c *Cache) fullKey(key string) string {
	return fmt.Sprintf("%s:cache:%s", c.prefix, key)
}

// Get retrieves a cached value. A miss returns (false, nil).
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.client.Enabled() {
		return false, nil
	}

	data, err := c.client.Redis().Get(ctx, c.fullKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get failed: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	return true, nil
}

// Set stores a value in cache with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.client.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	return c.client.Redis().Set(ctx, c.fullKey(key), data, ttl).Err()
}

// Delete removes cached values
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.client.Enabled() || len(keys) == 0 {
		return nil
	}

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.fullKey(k)
	}
	return c.client.Redis().Del(ctx, full...).Err()
}

// GetOrSet retrieves from cache or calls fn to populate it.
// Cache read/write failures fall through to fn; only fn's error is returned.
func (c *Cache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, fn func() (interface{}, error)) (hit bool, err error) {
	// Try cache first
	if found, err := c.Get(ctx, key, dest); err == nil && found {
		return true, nil
	}

	// Cache miss - call function
	value, err := fn()
	if err != nil {
		return false, err
	}

	// Store in cache, best effort
	_ = c.Set(ctx, key, value, ttl)

	// Copy into dest
	data, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("cache marshal failed: %w", err)
	}
	return false, json.Unmarshal(data, dest)
}

// Predefined TTLs
const (
	TTLShort  = 1 * time.Minute  // 요청 단위 미리보기
	TTLMedium = 10 * time.Minute // 사업자 목록
	TTLLong   = 1 * time.Hour    // 코멘터리 보고서
	TTLDaily  = 24 * time.Hour   // 재무 평가 결과
)

// AssessmentKey keys a computed assessment by its input digest
func AssessmentKey(inputHash string) string {
	return fmt.Sprintf("assessment:%s", inputHash)
}

// LatestAssessmentKey keys the latest stored assessment of a business
func LatestAssessmentKey(businessID int64) string {
	return fmt.Sprintf("assessment:latest:%d", businessID)
}

// ReportKey keys a rendered narrative report
func ReportKey(assessmentID int64, language string) string {
	return fmt.Sprintf("report:%d:%s", assessmentID, language)
}
