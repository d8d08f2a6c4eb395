package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound 表示键不存在或已过期。
var ErrNotFound = errors.New("cache: key not found")

// Store 流水线各组件共用的缓存抽象。
// 值统一用字符串(JSON序列化后的内容)，由调用方负责编解码。
// 两个实现: Memory(进程内TTL map)和Redis(跨进程共享)。
type Store interface {
	// Get 读取键的值，不存在或过期时返回 ErrNotFound。
	Get(ctx context.Context, key string) (string, error)
	// Set 写入键值并设置过期时间。ttl<=0 表示不过期。
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// Delete 删除键，键不存在时不报错。
	Delete(ctx context.Context, key string) error
	// Close 释放底层资源。
	Close() error
}
