// Package repository 提供了数据访问层的实现。
package repository

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"olist-chat-go/internal/model"
)

// QueryCacheTTL 是问答缓存条目的过期时间。
const QueryCacheTTL = time.Hour

// QueryCacheRepository 定义了问答指纹缓存的操作接口。
// key 由问题文本的摘要派生：首尾空白被折叠，内部大小写和空格差异
// 会产生不同的缓存条目（已知限制，按约定保留）。
type QueryCacheRepository interface {
	// Get 返回命中的缓存载荷；未命中时返回 (nil, false, nil)。
	// Redis 不可达是请求级致命错误，不会被当作未命中。
	Get(ctx context.Context, question string) (*model.ChatResponse, bool, error)
	// Set 写入载荷并重置 TTL，总是覆盖已有条目。
	Set(ctx context.Context, question string, resp *model.ChatResponse) error
}

type redisQueryCacheRepository struct {
	redisClient *redis.Client
}

// NewQueryCacheRepository 创建一个新的 QueryCacheRepository 实例。
func NewQueryCacheRepository(redisClient *redis.Client) QueryCacheRepository {
	return &redisQueryCacheRepository{redisClient: redisClient}
}

// cacheKey 计算问题文本的指纹 key：cache:query:<sha1-hex>。
func cacheKey(question string) string {
	sum := sha1.Sum([]byte(strings.TrimSpace(question)))
	return "cache:query:" + hex.EncodeToString(sum[:])
}

// Get 从 Redis 读取缓存的问答载荷。
func (r *redisQueryCacheRepository) Get(ctx context.Context, question string) (*model.ChatResponse, bool, error) {
	jsonData, err := r.redisClient.Get(ctx, cacheKey(question)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cached response: %w", err)
	}
	var resp model.ChatResponse
	if err := json.Unmarshal([]byte(jsonData), &resp); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached response: %w", err)
	}
	return &resp, true, nil
}

// Set 将问答载荷写入 Redis 并重置过期时间。
func (r *redisQueryCacheRepository) Set(ctx context.Context, question string, resp *model.ChatResponse) error {
	jsonData, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal response for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, cacheKey(question), jsonData, QueryCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set cached response: %w", err)
	}
	return nil
}
