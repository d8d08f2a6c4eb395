package cache

import (
	"context"
	"sync"
	"time"

	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/constants"
)

// memoryEntry 单个缓存条目，expiresAt为零值表示永不过期。
type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// Memory 进程内TTL缓存。读路径惰性判断过期，另有后台goroutine
// 周期性清理整个map里的过期条目，防止只写不读的键堆积。
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewMemory 创建内存缓存并启动周期清理。
func NewMemory() *Memory {
	m := &Memory{
		entries: make(map[string]memoryEntry),
		stopCh:  make(chan struct{}),
	}
	go m.sweepLoop(constants.CacheSweepInterval)
	return m
}

// Get 实现 Store。过期条目视同不存在并顺手删除。
func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return "", ErrNotFound
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		m.mu.Lock()
		// 二次检查，避免删掉并发写入的新值
		if cur, still := m.entries[key]; still && cur.expiresAt.Equal(e.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return "", ErrNotFound
	}
	return e.value, nil
}

// Set 实现 Store。
func (m *Memory) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
	return nil
}

// Delete 实现 Store。
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Close 停止后台清理goroutine。
func (m *Memory) Close() error {
	m.stopOnce.Do(func() { close(m.stopCh) })
	return nil
}

// Len 返回当前条目数(含未被惰性清理的过期条目)，主要供测试使用。
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memory) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.sweep(time.Now())
		case <-m.stopCh:
			return
		}
	}
}

// sweep 移除所有在now之前过期的条目。
func (m *Memory) sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, e := range m.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(m.entries, k)
		}
	}
}
