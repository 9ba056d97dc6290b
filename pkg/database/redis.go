// Package database 负责构建数据后端的客户端连接。
package database

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// NewRedis 创建 Redis 客户端并验证连通性。
// 客户端由 main 持有并注入到各 Repository，进程退出时统一 Close。
func NewRedis(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// 测试连接
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}
