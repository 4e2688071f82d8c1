package board

import (
	"context"
	"sync"

	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
)

type SnapshotKey struct {
	Date   string
	Filter domain.ScheduleFilter
}

// SnapshotCache 缓存排班快照，实现需要保证 Get 返回的是副本
type SnapshotCache interface {
	Get(ctx context.Context, key SnapshotKey) (*domain.Schedule, bool, error)
	Set(ctx context.Context, key SnapshotKey, s *domain.Schedule) error
	Delete(ctx context.Context, key SnapshotKey) error
	// Flush 删除所有快照，工位信息变化时使用
	Flush(ctx context.Context) error
}

type MemoryCache struct {
	mu        sync.RWMutex
	snapshots map[SnapshotKey]*domain.Schedule
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		snapshots: make(map[SnapshotKey]*domain.Schedule),
	}
}

func (c *MemoryCache) Get(_ context.Context, key SnapshotKey) (*domain.Schedule, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.snapshots[key]
	if !ok {
		return nil, false, nil
	}
	return s.Clone(), true, nil
}

func (c *MemoryCache) Set(_ context.Context, key SnapshotKey, s *domain.Schedule) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshots[key] = s.Clone()
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key SnapshotKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.snapshots, key)
	return nil
}

func (c *MemoryCache) Flush(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.snapshots)
	return nil
}
