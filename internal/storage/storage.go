package storage

import (
	"context"
	"fmt"

	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/cache"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/config"

	"github.com/rs/zerolog"
)

// Storage 聚合全部外部依赖: 对象存储、消息队列与结果缓存。
type Storage struct {
	MinIO    *MinIO
	RabbitMQ *RabbitMQ
	Cache    cache.Store
}

// NewStorage 按配置初始化各组件。缓存后端由cache.backend选择:
// memory适用于单实例部署，redis适用于多副本。
func NewStorage(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*Storage, error) {
	minioClient, err := NewMinIO(&cfg.MinIO, logger)
	if err != nil {
		return nil, fmt.Errorf("初始化MinIO失败: %w", err)
	}

	mq, err := NewRabbitMQ(&cfg.RabbitMQ, logger)
	if err != nil {
		return nil, fmt.Errorf("初始化RabbitMQ失败: %w", err)
	}

	store, err := newCacheStore(cfg)
	if err != nil {
		mq.Close()
		return nil, err
	}

	return &Storage{
		MinIO:    minioClient,
		RabbitMQ: mq,
		Cache:    store,
	}, nil
}

func newCacheStore(cfg *config.Config) (cache.Store, error) {
	switch cfg.Cache.Backend {
	case "", "memory":
		return cache.NewMemory(), nil
	case "redis":
		store, err := cache.NewRedis(&cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("初始化Redis缓存失败: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("未知的缓存后端: %s", cfg.Cache.Backend)
	}
}

// Close 释放全部连接。
func (s *Storage) Close() error {
	var firstErr error
	if s.RabbitMQ != nil {
		if err := s.RabbitMQ.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.Cache != nil {
		if err := s.Cache.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
