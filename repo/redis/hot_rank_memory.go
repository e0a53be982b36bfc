package redis

import (
	"context"
	"sync"

	"github.com/Xushengqwer/fruitmaster_service/myErrors"
)

// memoryHotRankCache 未配置 Redis 时使用的进程内快照。
type memoryHotRankCache struct {
	mu       sync.RWMutex
	snapshot []string
	loaded   bool
}

// NewMemoryHotRankCache 创建进程内热榜快照缓存。
func NewMemoryHotRankCache() HotRankCache {
	return &memoryHotRankCache{}
}

func (c *memoryHotRankCache) ReplaceSnapshot(_ context.Context, postIDs []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = append([]string(nil), postIDs...)
	c.loaded = true
	return nil
}

func (c *memoryHotRankCache) GetRange(_ context.Context, start, stop int64) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded {
		return nil, myErrors.ErrCacheMiss
	}
	n := int64(len(c.snapshot))
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop {
		return []string{}, nil
	}
	return append([]string(nil), c.snapshot[start:stop+1]...), nil
}
