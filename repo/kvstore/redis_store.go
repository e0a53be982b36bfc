package kvstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/fruitmaster_service/constant"
)

// redisStore 是 Store 的 Redis 实现。
// - 每个 Key 存为一个 String，值为集合 JSON。
// - 客户端生命周期由调用方管理，Close 不关闭客户端。
type redisStore struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewRedisStore 创建 Redis 介质。prefix 为空时使用 constant.KVRedisPrefix。
func NewRedisStore(client *redis.Client, prefix string, logger *zap.Logger) Store {
	if prefix == "" {
		prefix = constant.KVRedisPrefix
	}
	return &redisStore{client: client, prefix: prefix, logger: logger}
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return value, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.prefix+key, value, 0).Err()
}

// SetMany 使用 MULTI/EXEC 保证多个 Key 一起生效。
func (s *redisStore) SetMany(ctx context.Context, entries map[string][]byte) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, value := range entries {
			pipe.Set(ctx, s.prefix+key, value, 0)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Redis 事务批量写入失败", zap.Int("keys", len(entries)), zap.Error(err))
	}
	return err
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

func (s *redisStore) Close() error {
	return nil
}
