package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/fruitmaster_service/constant"
	"github.com/Xushengqwer/fruitmaster_service/myErrors"
)

// HotRankCache 定义了热榜快照的读写接口。
// - 快照由定时任务整体替换，读取方只读。
// - 快照中的顺序即排名，调用方在写入前完成排序。
type HotRankCache interface {
	// ReplaceSnapshot 用按排名排好序的帖子 ID 整体替换快照。
	ReplaceSnapshot(ctx context.Context, postIDs []string) error

	// GetRange 获取排名区间 [start, stop] 内的帖子 ID（0-based，含两端）。
	// - 快照不存在时返回 myErrors.ErrCacheMiss，上层服务需要回源实时计算。
	GetRange(ctx context.Context, start, stop int64) ([]string, error)
}

// redisHotRankCache 是 HotRankCache 的 Redis 实现，快照存为 Sorted Set。
type redisHotRankCache struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

// NewRedisHotRankCache 创建 Redis 热榜快照缓存，Key 为 constant.HotPostsRankKey。
func NewRedisHotRankCache(client *redis.Client, logger *zap.Logger) HotRankCache {
	return &redisHotRankCache{client: client, key: constant.HotPostsRankKey, logger: logger}
}

// ReplaceSnapshot 在 MULTI/EXEC 中先删除旧快照再写入新快照。
// 分数按排名倒数分配（第一名分数最高），ZREVRANGE 读取时即为原顺序。
func (c *redisHotRankCache) ReplaceSnapshot(ctx context.Context, postIDs []string) error {
	members := make([]redis.Z, 0, len(postIDs))
	for i, id := range postIDs {
		members = append(members, redis.Z{Score: float64(len(postIDs) - i), Member: id})
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, c.key)
		if len(members) > 0 {
			pipe.ZAdd(ctx, c.key, members...)
		}
		return nil
	})
	if err != nil {
		c.logger.Error("替换热榜快照失败", zap.String("key", c.key), zap.Int("size", len(postIDs)), zap.Error(err))
		return fmt.Errorf("替换热榜快照失败: %w", err)
	}
	c.logger.Info("热榜快照已替换", zap.String("key", c.key), zap.Int("size", len(postIDs)))
	return nil
}

func (c *redisHotRankCache) GetRange(ctx context.Context, start, stop int64) ([]string, error) {
	exists, err := c.client.Exists(ctx, c.key).Result()
	if err != nil {
		c.logger.Error("检查热榜快照是否存在失败", zap.String("key", c.key), zap.Error(err))
		return nil, fmt.Errorf("读取热榜快照失败: %w", err)
	}
	if exists == 0 {
		return nil, myErrors.ErrCacheMiss
	}

	ids, err := c.client.ZRevRange(ctx, c.key, start, stop).Result()
	if err != nil {
		c.logger.Error("按排名范围读取热榜失败",
			zap.String("key", c.key),
			zap.Int64("start", start),
			zap.Int64("stop", stop),
			zap.Error(err))
		return nil, fmt.Errorf("读取热榜快照失败: %w", err)
	}
	return ids, nil
}
