package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// SetClient 设置 Redis 客户端（由 internal/initial 调用）
func SetClient(c *redis.Client) {
	client = c
}

// Close 关闭 Redis 连接
func Close() error {
	if client == nil {
		return nil
	}
	return client.Close()
}

// IsConnected 检查 Redis 是否已连接
func IsConnected() bool {
	return client != nil
}

// checkClient 检查客户端是否可用
func checkClient() error {
	if client == nil {
		return fmt.Errorf("Redis 未连接")
	}
	return nil
}

// Get 获取字符串值
func Get(ctx context.Context, key string) (string, error) {
	if err := checkClient(); err != nil {
		return "", err
	}
	return client.Get(ctx, key).Result()
}

// Set 设置字符串值
func Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := checkClient(); err != nil {
		return err
	}
	return client.Set(ctx, key, value, expiration).Err()
}

// Del 删除键，返回删除数量
func Del(ctx context.Context, keys ...string) (int64, error) {
	if err := checkClient(); err != nil {
		return 0, err
	}
	return client.Del(ctx, keys...).Result()
}

// CountKeys 按模式统计键数量，基于 SCAN 游标遍历
func CountKeys(ctx context.Context, pattern string) (int, error) {
	if err := checkClient(); err != nil {
		return 0, err
	}
	count := 0
	iter := client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}
	return count, nil
}

// IsNil 判断错误是否为键不存在
func IsNil(err error) bool {
	return err == redis.Nil
}
